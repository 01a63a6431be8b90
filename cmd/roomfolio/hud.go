package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/taigrr/roomfolio/pkg/loading"
	"github.com/taigrr/roomfolio/pkg/zoom"
)

const (
	clearLine = "\x1b[2K"
	barWidth  = 30
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f5f5f5"))
	textStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#c8c8c8"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8a8a8a"))
	accentStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#e0a96d"))
)

func moveTo(row, col int) string {
	return fmt.Sprintf("\x1b[%d;%dH", row, col)
}

// hud prints text rows over the rendered frame after each flush.
type hud struct {
	w    io.Writer
	show bool

	fps       float64
	fpsFrames int
	fpsTime   time.Time
	rows      []int
}

func newHUD(w io.Writer) *hud {
	return &hud{w: w, fpsTime: time.Now()}
}

// UpdateFPS counts a frame.
func (h *hud) UpdateFPS() {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

// clear blanks the rows written by the previous frame.
func (h *hud) clear() {
	for _, row := range h.rows {
		fmt.Fprint(h.w, moveTo(row, 1)+clearLine)
	}
	h.rows = h.rows[:0]
}

func (h *hud) line(row, col int, s string) {
	fmt.Fprint(h.w, moveTo(row, max(col, 1))+s)
	h.rows = append(h.rows, row)
}

func (h *hud) centered(row, width int, s string) {
	h.line(row, (width-lipgloss.Width(s))/2+1, s)
}

// loadingLines is the loading screen text: title, progress message, bar
// and, once loading is done, the entry prompt.
func loadingLines(t *loading.Tracker) []string {
	lines := []string{
		titleStyle.Render("roomfolio"),
		textStyle.Render(t.Message()),
		dimStyle.Render(t.Bar(barWidth)),
	}
	if t.PromptReady() {
		lines = append(lines, accentStyle.Render("[enter] with audio")+"   "+dimStyle.Render("[m] without audio"))
	}
	return lines
}

// Loading draws the loading screen centred in the terminal.
func (h *hud) Loading(width, height int, t *loading.Tracker) {
	h.clear()
	lines := loadingLines(t)
	top := max(height/2-len(lines), 1)
	for i, s := range lines {
		h.centered(top+i*2, width, s)
	}
}

// statusHint is the bottom row while zoomed into a preset.
func statusHint(preset, marker string) string {
	if preset == "" {
		return ""
	}
	parts := []string{"esc: back"}
	if preset == zoom.Whiteboard {
		parts = append(parts, "drag: draw", "marker: "+marker)
	}
	return strings.Join(parts, "  ")
}

// Status draws the FPS counter when toggled and the zoom hint.
func (h *hud) Status(width, height int, r *room) {
	h.clear()
	if h.show {
		h.line(1, 1, accentStyle.Render(fmt.Sprintf(" %.0f FPS ", h.fps)))
	}
	if hint := statusHint(r.activePreset(), r.board.Color()); hint != "" {
		h.centered(height, width, dimStyle.Render(hint))
	}
}
