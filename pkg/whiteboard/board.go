// Package whiteboard is a drawable 2048x1024 raster bound to one scene
// node. Strokes are drawn with gogpu/gg and uploaded to the node's texture
// when dirty.
package whiteboard

import (
	"errors"
	"image"
	"image/color"
	"strings"

	"github.com/gogpu/gg"
	"github.com/lucasb-eyer/go-colorful"
	"go.uber.org/zap"
	"golang.org/x/image/colornames"

	"github.com/taigrr/roomfolio/pkg/math3d"
	"github.com/taigrr/roomfolio/pkg/render"
	"github.com/taigrr/roomfolio/pkg/scene"
)

const (
	Width  = 2048
	Height = 1024

	// EraserColor is the white marker, drawn wider than the others.
	EraserColor = "#FFFFFF"

	eraserWidth = 80
	penWidth    = 20
)

// DefaultColor is the marker selected when a board binds.
const DefaultColor = "#000000"

// ErrUnbound is returned when drawing on a board without a surface.
var ErrUnbound = errors.New("whiteboard: no surface bound")

// Board is the drawing surface state machine: idle until Begin, stroking
// until End.
type Board struct {
	log *zap.Logger

	node *scene.Node
	dc   *gg.Context
	tex  *render.Texture

	color    string
	stroke   color.Color
	drawing  bool
	snapshot []byte
	dirty    bool
}

// New creates an unbound board. A nil logger discards output.
func New(log *zap.Logger) *Board {
	if log == nil {
		log = zap.NewNop()
	}
	return &Board{
		log:    log,
		color:  DefaultColor,
		stroke: color.Black,
	}
}

// Bind makes n the drawing surface: a white raster is created, wrapped in
// a texture and assigned to n as its material.
func (b *Board) Bind(n *scene.Node) {
	if n == nil {
		return
	}
	b.node = n
	b.dc = gg.NewContext(Width, Height)
	b.dc.ClearWithColor(gg.White)
	b.snapshot = make([]byte, len(b.dc.ResizeTarget().Data()))
	b.drawing = false

	b.tex = render.NewTexture(Width, Height)
	b.tex.WrapU, b.tex.WrapV = render.WrapClamp, render.WrapClamp
	b.dirty = true
	b.Upload()
	n.Material = scene.NewTextureMaterial("whiteboard", b.tex)

	b.log.Debug("whiteboard bound", zap.String("node", n.Name))
}

// Bound returns the surface node, or nil.
func (b *Board) Bound() *scene.Node {
	return b.node
}

// Begin starts a stroke at uv, given in texture space with the origin at
// the top left.
func (b *Board) Begin(uv math3d.Vec2) error {
	if b.dc == nil {
		return ErrUnbound
	}
	b.takeSnapshot()
	b.dc.ClearPath()
	b.dc.MoveTo(uv.X*Width, uv.Y*Height)
	b.drawing = true
	return nil
}

// DrawTo extends the current stroke to uv. It reports whether the raster
// changed.
func (b *Board) DrawTo(uv math3d.Vec2) bool {
	if b.dc == nil || !b.drawing {
		return false
	}
	x, y := uv.X*Width, uv.Y*Height

	// the path is stroked whole, so undo last frame's stroke first
	copy(b.dc.ResizeTarget().Data(), b.snapshot)

	b.dc.SetColor(b.stroke)
	b.dc.SetLineWidth(b.LineWidth())
	b.dc.SetLineCap(gg.LineCapRound)
	b.dc.SetLineJoin(gg.LineJoinRound)

	if _, _, ok := b.dc.GetCurrentPoint(); !ok {
		// a fresh path after a colour switch starts where the pointer is
		b.dc.MoveTo(x, y)
		return false
	}
	b.dc.LineTo(x, y)
	if err := b.dc.StrokePreserve(); err != nil {
		b.log.Warn("whiteboard stroke failed", zap.Error(err))
		return false
	}
	b.dirty = true
	return true
}

// End finishes the current stroke.
func (b *Board) End() {
	b.drawing = false
}

// Drawing reports whether a stroke is in progress.
func (b *Board) Drawing() bool {
	return b.drawing
}

// SelectMarker switches the stroke colour. The token "white" maps to
// EraserColor; other tokens are CSS colour names or #hex values. An
// unrecognised token is kept as the selection but leaves the raster colour
// unchanged. The current raster is committed and a fresh path begins so
// the next segment does not join the previous stroke.
func (b *Board) SelectMarker(token string) {
	if token == "white" {
		token = EraserColor
	}
	b.color = token
	if c, ok := ParseColor(token); ok {
		b.stroke = c
	} else {
		b.log.Warn("unknown marker colour", zap.String("token", token))
	}

	if b.dc == nil {
		return
	}
	b.takeSnapshot()
	b.dc.ClearPath()
}

// Color returns the selected marker token.
func (b *Board) Color() string {
	return b.color
}

// StrokeColor returns the colour strokes are drawn with.
func (b *Board) StrokeColor() color.Color {
	return b.stroke
}

// LineWidth returns the stroke width for the selected marker.
func (b *Board) LineWidth() float64 {
	if b.color == EraserColor {
		return eraserWidth
	}
	return penWidth
}

// Dirty reports whether the raster changed since the last Upload.
func (b *Board) Dirty() bool {
	return b.dirty
}

// Upload copies the raster into the bound texture if it is dirty.
func (b *Board) Upload() bool {
	if b.dc == nil || !b.dirty {
		return false
	}
	b.tex.SetRGBA(b.dc.ResizeTarget().Data(), Width*4, Width, Height)
	b.dirty = false
	return true
}

// Texture returns the bound texture, or nil.
func (b *Board) Texture() *render.Texture {
	return b.tex
}

// Image returns a copy of the raster, or nil when unbound.
func (b *Board) Image() image.Image {
	if b.dc == nil {
		return nil
	}
	return b.dc.Image()
}

func (b *Board) takeSnapshot() {
	copy(b.snapshot, b.dc.ResizeTarget().Data())
}

// ParseColor resolves a marker token to a colour.
func ParseColor(token string) (color.Color, bool) {
	if c, ok := colornames.Map[strings.ToLower(token)]; ok {
		return c, true
	}
	if strings.HasPrefix(token, "#") {
		if c, err := colorful.Hex(token); err == nil {
			return c, true
		}
	}
	return nil, false
}

// Hex formats c as #rrggbb.
func Hex(c color.Color) string {
	cf, _ := colorful.MakeColor(c)
	return cf.Hex()
}
