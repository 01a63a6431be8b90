package media

import (
	"github.com/taigrr/roomfolio/pkg/render"
	"github.com/taigrr/roomfolio/pkg/scene"
)

// Screen swaps a node between an on and an off material. Screens start
// lit.
type Screen struct {
	node     *scene.Node
	on, off  *scene.Material
	lit      bool
	onChange func(lit bool)
}

// NewBlackMaterial is the material of a switched-off screen.
func NewBlackMaterial() *scene.Material {
	return scene.NewColorMaterial("black", render.ColorBlack)
}

// NewScreen creates a lit screen. A nil off uses NewBlackMaterial.
func NewScreen(on, off *scene.Material) *Screen {
	if off == nil {
		off = NewBlackMaterial()
	}
	return &Screen{on: on, off: off, lit: true}
}

// Bind attaches the screen to n and applies the current material.
func (s *Screen) Bind(n *scene.Node) {
	s.node = n
	s.apply()
}

// Node returns the bound node, if any.
func (s *Screen) Node() *scene.Node { return s.node }

// OnMaterial returns the lit material.
func (s *Screen) OnMaterial() *scene.Material { return s.on }

// Lit reports whether the screen shows its on material.
func (s *Screen) Lit() bool { return s.lit }

// SetLit switches the screen on or off.
func (s *Screen) SetLit(lit bool) {
	if s.lit == lit {
		return
	}
	s.lit = lit
	s.apply()
	if s.onChange != nil {
		s.onChange(lit)
	}
}

// Toggle flips the screen and returns the new state.
func (s *Screen) Toggle() bool {
	s.SetLit(!s.lit)
	return s.lit
}

func (s *Screen) apply() {
	if s.node == nil {
		return
	}
	if s.lit {
		s.node.Material = s.on
	} else {
		s.node.Material = s.off
	}
}
