package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taigrr/roomfolio/internal/config"
	"github.com/taigrr/roomfolio/pkg/director"
	"github.com/taigrr/roomfolio/pkg/render"
	"github.com/taigrr/roomfolio/pkg/zoom"
)

type snapshotOptions struct {
	out    string
	width  int
	height int
	preset string
}

func newSnapshotCmd(o *config.Overrides) *cobra.Command {
	var so snapshotOptions
	cmd := &cobra.Command{
		Use:   "snapshot [scene.glb]",
		Short: "Render the room after its intro to a PNG file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadFor(o, args)
			if err != nil {
				return err
			}
			cfg.Scene.Mute = true
			log, done, err := newLogger(cfg, false)
			if err != nil {
				return err
			}
			defer done()

			r, err := newRoom(cfg, log, roomDeps{Seed: 1})
			if err != nil {
				return err
			}
			defer r.Close()
			if err := snapshot(r, so); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%dx%d)\n", so.out, so.width, so.height)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&so.out, "output", "o", "roomfolio.png", "PNG file to write")
	f.IntVar(&so.width, "width", 640, "image width in pixels")
	f.IntVar(&so.height, "height", 360, "image height in pixels")
	f.StringVar(&so.preset, "zoom", "", "zoom preset to frame ("+zoom.Screen1+", "+zoom.Screen2+" or "+zoom.Whiteboard+")")
	return cmd
}

// snapshot loads r, plays the intro and any zoom to rest, and saves one
// frame.
func snapshot(r *room, so snapshotOptions) error {
	if so.width <= 0 || so.height <= 0 {
		return fmt.Errorf("snapshot size %dx%d must be positive", so.width, so.height)
	}
	if err := r.LoadAll(); err != nil {
		return err
	}

	r.playIntro()
	r.Settle(director.IntroTimeline(r.objects.Intro).Duration())
	if so.preset != "" {
		if err := r.zoom.ZoomTo(so.preset); err != nil {
			return err
		}
		r.Settle(zoom.Duration)
	}

	fb := render.NewFramebuffer(so.width, so.height)
	rast := render.NewRasterizer(r.camera, fb)
	r.Resize(so.width, so.height)
	r.Draw(fb, rast)
	return fb.SavePNG(so.out)
}
