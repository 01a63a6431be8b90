package main

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"github.com/taigrr/roomfolio/internal/config"
	"github.com/taigrr/roomfolio/pkg/classify"
	"github.com/taigrr/roomfolio/pkg/scene"
	"github.com/taigrr/roomfolio/pkg/whiteboard"
)

// loadFor loads the config with an optional positional scene path.
func loadFor(o *config.Overrides, args []string) (*config.Config, error) {
	ov := *o
	if len(args) == 1 {
		ov.Model = args[0]
	}
	return config.Load(ov)
}

func newInspectCmd(o *config.Overrides) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [scene.glb]",
		Short: "Print how each node of a scene is classified",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadFor(o, args)
			if err != nil {
				return err
			}
			log, done, err := newLogger(cfg, false)
			if err != nil {
				return err
			}
			defer done()

			s, err := scene.LoadGLB(cfg.Scene.Model)
			if err != nil {
				return fmt.Errorf("load scene: %w", err)
			}
			res, err := classify.Classify(s.Root, classify.Env{
				Board: whiteboard.New(log),
				Log:   log,
			})
			if err != nil {
				return err
			}
			return writeInspection(cmd.OutOrStdout(), s.Root, res)
		},
	}
}

var (
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	headerStyle = cellStyle.Bold(true)
)

// writeInspection prints one row per mesh node followed by the totals.
func writeInspection(w io.Writer, root *scene.Node, res *classify.Result) error {
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderRow(false).
		Headers("NODE", "CATEGORY", "ZOOMABLE", "RULES").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	root.Walk(func(n *scene.Node) bool {
		if !n.IsMesh() {
			return true
		}
		var rules []string
		for _, r := range classify.Match(n.Name) {
			rules = append(rules, r.Name)
		}
		zoomable := ""
		if n.Zoomable {
			zoomable = "yes"
		}
		tbl.Row(n.Name, n.Category.String(), zoomable, strings.Join(rules, ", "))
		return true
	})
	if _, err := lipgloss.Fprintln(w, tbl); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nlinks %d  plushies %d  buttons %d  zoomables %d  clickables %d  fans %d\n",
		len(res.Links), len(res.Plushies), len(res.Buttons),
		len(res.Zoomables), len(res.Clickables), len(res.Fans))

	keys := make([]string, 0, len(res.Intro))
	for k := range res.Intro {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	fmt.Fprintf(w, "intro: %s\n", strings.Join(keys, " "))

	board := "none"
	if res.Whiteboard != nil {
		board = res.Whiteboard.Name
	}
	_, err := fmt.Fprintf(w, "whiteboard: %s\n", board)
	return err
}
