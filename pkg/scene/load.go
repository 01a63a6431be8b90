package scene

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/roomfolio/pkg/math3d"
	"github.com/taigrr/roomfolio/pkg/models"
	"github.com/taigrr/roomfolio/pkg/render"
)

// Scene is the root of a loaded room.
type Scene struct {
	Root *Node
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{Root: NewNode("Scene")}
}

// LoadGLB loads a .glb or .gltf file into a node tree.
func LoadGLB(path string) (*Scene, error) {
	f, err := models.Open(path)
	if err != nil {
		return nil, err
	}
	return FromFile(f)
}

// FromFile builds the node tree of the document's default scene.
func FromFile(f *models.File) (*Scene, error) {
	s := New()
	mats := make([]*Material, len(f.Materials))
	for i, m := range f.Materials {
		mats[i] = fileMaterial(m)
	}

	doc := f.Doc
	if len(doc.Scenes) == 0 {
		return s, nil
	}
	sceneIdx := 0
	if doc.Scene != nil {
		sceneIdx = *doc.Scene
	}
	if sceneIdx < 0 || sceneIdx >= len(doc.Scenes) {
		return nil, fmt.Errorf("scene index %d out of range", sceneIdx)
	}

	seen := make(map[int]bool)
	var build func(idx int) (*Node, error)
	build = func(idx int) (*Node, error) {
		if idx < 0 || idx >= len(doc.Nodes) {
			return nil, fmt.Errorf("node index %d out of range", idx)
		}
		if seen[idx] {
			return nil, fmt.Errorf("node %d appears twice in the hierarchy", idx)
		}
		seen[idx] = true

		src := doc.Nodes[idx]
		n := NewNode(src.Name)
		setTransform(n, src)

		if src.Mesh != nil {
			mesh, err := f.Mesh(*src.Mesh)
			if err != nil {
				return nil, err
			}
			n.Mesh = mesh
			n.fileMaterials = mats
			if n.Name == "" {
				n.Name = mesh.Name
			}
		}

		for _, c := range src.Children {
			child, err := build(c)
			if err != nil {
				return nil, err
			}
			n.Add(child)
		}
		return n, nil
	}

	for _, idx := range doc.Scenes[sceneIdx].Nodes {
		n, err := build(idx)
		if err != nil {
			return nil, fmt.Errorf("build scene: %w", err)
		}
		s.Root.Add(n)
	}
	return s, nil
}

var identity = [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

func setTransform(n *Node, src *gltf.Node) {
	if m := src.MatrixOrDefault(); m != identity {
		mat := math3d.Mat4(m)
		x, y, z := mat.Basis()
		n.Position = mat.Translation()
		n.Scale = math3d.V3(x.Len(), y.Len(), z.Len())
		if n.Scale.X != 0 && n.Scale.Y != 0 && n.Scale.Z != 0 {
			rot := math3d.Scale(math3d.V3(1/n.Scale.X, 1/n.Scale.Y, 1/n.Scale.Z))
			n.Rotation = math3d.EulerFromMatrix(mat.Mul(rot))
		}
		return
	}

	t := src.TranslationOrDefault()
	q := src.RotationOrDefault()
	sc := src.ScaleOrDefault()
	n.Position = math3d.V3(t[0], t[1], t[2])
	n.Rotation = math3d.EulerFromQuat(q[0], q[1], q[2], q[3])
	n.Scale = math3d.V3(sc[0], sc[1], sc[2])
}

func fileMaterial(m *models.Material) *Material {
	c := render.RGB(
		uint8(clamp01(m.BaseColor[0])*255),
		uint8(clamp01(m.BaseColor[1])*255),
		uint8(clamp01(m.BaseColor[2])*255),
	)
	mat := &Material{Name: m.Name, Surface: render.Surface{
		Color:       c,
		DoubleSided: m.DoubleSided,
	}}
	if m.BaseMap != nil {
		mat.Texture = render.TextureFromImage(m.BaseMap)
	}
	switch m.Alpha {
	case models.AlphaBlend:
		mat.Transparent = true
		mat.Opacity = m.BaseColor[3]
	case models.AlphaMask:
		mat.AlphaTest = true
	}
	return mat
}

func clamp01(v float64) float64 {
	return max(0, min(1, v))
}
