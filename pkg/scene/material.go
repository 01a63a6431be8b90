package scene

import "github.com/taigrr/roomfolio/pkg/render"

// Material is a named rendering surface assignable to nodes.
type Material struct {
	Name string
	render.Surface
}

// NewTextureMaterial creates an opaque material sampling tex.
func NewTextureMaterial(name string, tex *render.Texture) *Material {
	return &Material{Name: name, Surface: render.Surface{Texture: tex}}
}

// NewColorMaterial creates an opaque flat material.
func NewColorMaterial(name string, c render.Color) *Material {
	return &Material{Name: name, Surface: render.Surface{Color: c}}
}

// NewGlassMaterial creates a blended tinted material.
func NewGlassMaterial(name string, tint render.Color, opacity float64) *Material {
	return &Material{Name: name, Surface: render.Surface{
		Color:       tint,
		Opacity:     opacity,
		Transparent: true,
		DoubleSided: true,
	}}
}

// WithDoubleSided returns a copy of m rendering both faces.
func (m *Material) WithDoubleSided() *Material {
	c := *m
	c.DoubleSided = true
	return &c
}
