// roomfolio - an explorable portfolio room in the terminal.
//
// Controls:
//
//	Mouse drag  - Orbit the room
//	Scroll      - Dolly in/out
//	Click       - Open links, toggle screens and music, zoom into objects
//	Drag board  - Draw on the whiteboard while zoomed into it
//	Enter / A   - Enter with audio (once loaded)
//	M           - Enter without audio
//	Esc         - Zoom out, or quit when not zoomed
//	Q / Ctrl+C  - Quit
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/taigrr/roomfolio/internal/config"
	"github.com/taigrr/roomfolio/internal/logger"
)

var version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := fang.Execute(ctx, newRootCmd(), fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var o config.Overrides

	root := &cobra.Command{
		Use:   "roomfolio [scene.glb]",
		Short: "Explore a 3D portfolio room in the terminal",
		Long: "roomfolio renders a baked 3D room with a software rasterizer and lets you\n" +
			"orbit it, hover and click its objects, zoom into screens and draw on the\n" +
			"whiteboard.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				o.Model = args[0]
			}
			cfg, err := config.Load(o)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&o.ConfigPath, "config", "", "config file (default ./roomfolio.yaml or the user config dir)")
	f.IntVar(&o.FPS, "fps", 0, "target frames per second")
	f.BoolVar(&o.Debug, "debug", false, "log at debug level")
	f.StringVar(&o.LogFile, "log-file", "", "write logs to this rotating file")
	f.BoolVar(&o.NoAudio, "no-audio", false, "never load or play background audio")

	root.AddCommand(newInspectCmd(&o), newSnapshotCmd(&o))
	return root
}

// newLogger builds the process logger. While the terminal is in the alt
// screen only a log file is written.
func newLogger(cfg *config.Config, interactive bool) (*zap.Logger, func(), error) {
	opts := logger.Options{Level: cfg.Logging.Level}
	if cfg.Logging.File != "" {
		opts.File = logger.DefaultFileConfig(cfg.Logging.File)
	} else if interactive {
		opts.Quiet = true
	}
	return logger.New(opts)
}
