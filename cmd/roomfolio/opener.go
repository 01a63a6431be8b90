package main

import (
	"fmt"
	"io"
	"net/url"

	"github.com/pkg/browser"
	"go.uber.org/zap"
)

// linkOpener opens links with the platform's URL handler.
type linkOpener struct {
	log  *zap.Logger
	open func(u string) error
}

// newLinkOpener returns an opener backed by pkg/browser. The handler's output
// is discarded so it cannot draw over the alt screen.
func newLinkOpener(log *zap.Logger) *linkOpener {
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
	return &linkOpener{log: log, open: browser.OpenURL}
}

// Open starts the handler for an http or https URL.
func (b *linkOpener) Open(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("parse link: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("refusing to open %q: not a web link", raw)
	}
	b.log.Info("opening link", zap.String("url", u.String()))
	if err := b.open(u.String()); err != nil {
		return fmt.Errorf("open link: %w", err)
	}
	return nil
}
