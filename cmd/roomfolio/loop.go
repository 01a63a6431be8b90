package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"go.uber.org/zap"

	"github.com/taigrr/roomfolio/internal/config"
	"github.com/taigrr/roomfolio/pkg/interact"
	"github.com/taigrr/roomfolio/pkg/loading"
	"github.com/taigrr/roomfolio/pkg/render"
)

const (
	dollyStep  = 0.05
	rotateStep = 0.02
	maxDt      = 0.1
)

// host runs the room on an ultraviolet terminal. Terminal events are
// forwarded to the frame loop goroutine, which owns all room state.
type host struct {
	term *uv.Terminal
	room *room
	log  *zap.Logger
	hud  *hud
	bus  *interact.Bus

	renderer *render.TerminalRenderer
	fb       *render.Framebuffer
	rast     *render.Rasterizer

	width, height int // cells
	loaded        bool
	entered       bool
	detach        func()
}

// run shows the room until the visitor quits or ctx is cancelled.
func run(ctx context.Context, cfg *config.Config) error {
	log, done, err := newLogger(cfg, true)
	if err != nil {
		return err
	}
	defer done()

	cursor := render.NewCursorWriter(os.Stdout)
	r, err := newRoom(cfg, log, roomDeps{
		Opener: newLinkOpener(log.Named("browser")),
		Cursor: cursor,
		Seed:   uint64(time.Now().UnixNano()),
	})
	if err != nil {
		return err
	}
	defer r.Close()

	term := uv.DefaultTerminal()
	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)
	fmt.Fprint(os.Stdout, "\x1b[?1003h") // any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // SGR extended mouse mode

	defer func() {
		cursor.SetCursor(false)
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan uv.Event, 64)
	go func() {
		for ev := range term.Events() {
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	h := &host{
		term: term,
		room: r,
		log:  log,
		hud:  newHUD(os.Stdout),
		bus:  interact.NewBus(),
	}
	h.resize(width, height)
	return h.loop(ctx, cfg.Display.FPS, events)
}

func (h *host) resize(width, height int) {
	h.width, h.height = width, height
	h.renderer = render.NewTerminalRenderer(h.term, width, height)
	fbWidth, fbHeight := h.renderer.FramebufferSize()
	h.fb = render.NewFramebuffer(fbWidth, fbHeight)
	h.rast = render.NewRasterizer(h.room.camera, h.fb)
	h.room.Resize(fbWidth, fbHeight)
}

func (h *host) loop(ctx context.Context, fps int, events <-chan uv.Event) error {
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()
	defer func() {
		if h.detach != nil {
			h.detach()
		}
	}()
	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if h.handle(ev) {
				return nil
			}
		case now := <-ticker.C:
			dt := min(now.Sub(last).Seconds(), maxDt)
			last = now
			if err := h.frame(dt); err != nil {
				return err
			}
		}
	}
}

func (h *host) frame(dt float64) error {
	if !h.loaded {
		more, err := h.room.LoadNext()
		if err != nil {
			return err
		}
		h.loaded = !more
	}

	h.room.Update(dt)
	if h.room.Ready() && !h.entered {
		h.entered = true
		h.detach = h.room.manager.Attach(h.bus)
		h.term.Erase()
	}

	h.room.Draw(h.fb, h.rast)
	h.renderer.Render(h.fb)
	if err := h.renderer.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}

	h.hud.UpdateFPS()
	if h.entered {
		h.hud.Status(h.width, h.height, h.room)
	} else {
		h.hud.Loading(h.width, h.height, h.room.tracker)
	}
	return nil
}

// pixel maps a cell to the centre of its framebuffer pixels.
func pixel(x, y int) (float64, float64) {
	return float64(x) + 0.5, float64(y)*2 + 1
}

// handle applies one terminal event and reports whether to quit.
func (h *host) handle(ev uv.Event) bool {
	switch ev := ev.(type) {
	case uv.WindowSizeEvent:
		h.bus.Leave()
		h.term.Erase()
		h.term.Resize(ev.Width, ev.Height)
		h.resize(ev.Width, ev.Height)

	case uv.KeyPressEvent:
		return h.key(ev)

	case uv.MouseClickEvent:
		if ev.Button == uv.MouseLeft {
			h.bus.Down(pixel(ev.X, ev.Y))
		}

	case uv.MouseReleaseEvent:
		h.bus.Up(pixel(ev.X, ev.Y))

	case uv.MouseMotionEvent:
		h.bus.Move(pixel(ev.X, ev.Y))

	case uv.MouseWheelEvent:
		if !h.entered {
			return false
		}
		switch ev.Button {
		case uv.MouseWheelUp:
			h.room.orbit.Dolly(-dollyStep)
		case uv.MouseWheelDown:
			h.room.orbit.Dolly(dollyStep)
		}
	}
	return false
}

func (h *host) key(ev uv.KeyPressEvent) bool {
	switch {
	case ev.MatchString("ctrl+c"), ev.MatchString("q"):
		return true
	case ev.MatchString("escape"), ev.MatchString("backspace"):
		if h.entered && h.room.Back() {
			return false
		}
		return ev.MatchString("escape")
	case ev.MatchString("?"), ev.MatchString("shift+/"):
		h.hud.show = !h.hud.show
	}

	if !h.entered {
		switch {
		case ev.MatchString("enter"), ev.MatchString("a"):
			h.enter(true)
		case ev.MatchString("m"), ev.MatchString("n"):
			h.enter(false)
		}
		return false
	}

	orbit := h.room.orbit
	switch {
	case ev.MatchString("left"):
		orbit.Rotate(-rotateStep, 0)
	case ev.MatchString("right"):
		orbit.Rotate(rotateStep, 0)
	case ev.MatchString("up"):
		orbit.Rotate(0, -rotateStep)
	case ev.MatchString("down"):
		orbit.Rotate(0, rotateStep)
	case ev.MatchString("+"), ev.MatchString("="):
		orbit.Dolly(-dollyStep)
	case ev.MatchString("-"), ev.MatchString("_"):
		orbit.Dolly(dollyStep)
	}
	return false
}

func (h *host) enter(withAudio bool) {
	err := h.room.Enter(withAudio)
	if errors.Is(err, loading.ErrNotReady) {
		return
	}
	if err != nil {
		h.log.Warn("enter", zap.Error(err))
	}
}
