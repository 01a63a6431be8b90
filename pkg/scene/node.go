// Package scene is the room's node graph: transforms, materials, resting
// baselines, drawing and ray picking.
package scene

import (
	"github.com/taigrr/roomfolio/pkg/math3d"
	"github.com/taigrr/roomfolio/pkg/models"
)

// Node is a transform in the scene tree, optionally carrying a mesh.
type Node struct {
	Name     string
	Parent   *Node
	Children []*Node

	Position math3d.Vec3
	Rotation math3d.Euler
	Scale    math3d.Vec3
	Visible  bool

	Mesh *models.Mesh
	// Material overrides the file materials of every face when set.
	Material *Material

	Baseline Baseline
	// Category is the first interaction group the node joined.
	Category Category
	Zoomable bool

	fileMaterials []*Material
}

// NewNode creates an empty visible node with unit scale.
func NewNode(name string) *Node {
	return &Node{
		Name:    name,
		Scale:   math3d.One3(),
		Visible: true,
	}
}

// NewMeshNode creates a node drawing mesh.
func NewMeshNode(name string, mesh *models.Mesh) *Node {
	n := NewNode(name)
	n.Mesh = mesh
	return n
}

// Add appends children, detaching them from any previous parent.
func (n *Node) Add(children ...*Node) {
	for _, c := range children {
		if c.Parent != nil {
			c.Parent.remove(c)
		}
		c.Parent = n
		n.Children = append(n.Children, c)
	}
}

func (n *Node) remove(child *Node) {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			return
		}
	}
}

// IsMesh reports whether the node carries geometry.
func (n *Node) IsMesh() bool {
	return n.Mesh != nil
}

// LocalMatrix returns translation * rotation * scale.
func (n *Node) LocalMatrix() math3d.Mat4 {
	return math3d.Compose(n.Position, n.Rotation, n.Scale)
}

// WorldMatrix returns the node's transform composed with all ancestors.
func (n *Node) WorldMatrix() math3d.Mat4 {
	m := n.LocalMatrix()
	for p := n.Parent; p != nil; p = p.Parent {
		m = p.LocalMatrix().Mul(m)
	}
	return m
}

// WorldVisible reports whether the node and all ancestors are visible.
func (n *Node) WorldVisible() bool {
	for p := n; p != nil; p = p.Parent {
		if !p.Visible {
			return false
		}
	}
	return true
}

// Walk visits n and its descendants depth first in child order. Returning
// false from fn skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Find returns the first node named name in walk order.
func (n *Node) Find(name string) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if found != nil {
			return false
		}
		if c.Name == name {
			found = c
			return false
		}
		return true
	})
	return found
}

// Baseline records a node's resting transform. Each component is written
// at most once so later captures cannot overwrite an earlier resting value.
type Baseline struct {
	position math3d.Vec3
	rotation math3d.Euler
	scale    math3d.Vec3

	hasPosition bool
	hasRotation bool
	hasScale    bool
}

// CaptureInitialPosition stores v and reports true unless a position was
// already captured.
func (b *Baseline) CaptureInitialPosition(v math3d.Vec3) bool {
	if b.hasPosition {
		return false
	}
	b.position, b.hasPosition = v, true
	return true
}

// CaptureInitialRotation stores e and reports true unless a rotation was
// already captured.
func (b *Baseline) CaptureInitialRotation(e math3d.Euler) bool {
	if b.hasRotation {
		return false
	}
	b.rotation, b.hasRotation = e, true
	return true
}

// CaptureInitialScale stores v and reports true unless a scale was already
// captured.
func (b *Baseline) CaptureInitialScale(v math3d.Vec3) bool {
	if b.hasScale {
		return false
	}
	b.scale, b.hasScale = v, true
	return true
}

// InitialPosition returns the captured resting position.
func (b *Baseline) InitialPosition() (math3d.Vec3, bool) {
	return b.position, b.hasPosition
}

// InitialRotation returns the captured resting rotation.
func (b *Baseline) InitialRotation() (math3d.Euler, bool) {
	return b.rotation, b.hasRotation
}

// InitialScale returns the captured resting scale.
func (b *Baseline) InitialScale() (math3d.Vec3, bool) {
	return b.scale, b.hasScale
}

// Category is the interaction group a node was classified into.
type Category uint8

const (
	CategoryNone Category = iota
	CategoryLink
	CategoryClickable
	CategoryPlushie
	CategoryButton
	CategoryMarker
	CategoryZoomable
	CategoryFan
)

var categoryNames = [...]string{
	CategoryNone:      "none",
	CategoryLink:      "link",
	CategoryClickable: "clickable",
	CategoryPlushie:   "plushie",
	CategoryButton:    "button",
	CategoryMarker:    "marker",
	CategoryZoomable:  "zoomable",
	CategoryFan:       "fan",
}

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "unknown"
}
