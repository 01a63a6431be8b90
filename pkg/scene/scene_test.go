package scene

import (
	"math"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/roomfolio/pkg/math3d"
	"github.com/taigrr/roomfolio/pkg/models"
	"github.com/taigrr/roomfolio/pkg/render"
)

const eps = 1e-9

func TestWalkOrder(t *testing.T) {
	root := NewNode("root")
	a, b, c, d := NewNode("a"), NewNode("b"), NewNode("c"), NewNode("d")
	root.Add(a, d)
	a.Add(b, c)

	var got []string
	root.Walk(func(n *Node) bool {
		got = append(got, n.Name)
		return true
	})

	want := []string{"root", "a", "b", "c", "d"}
	if len(got) != len(want) {
		t.Fatalf("walk = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("walk[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestWalkSkipsChildren(t *testing.T) {
	root := NewNode("root")
	a := NewNode("a")
	root.Add(a)
	a.Add(NewNode("hidden"))

	if root.Find("hidden") == nil {
		t.Fatal("Find should locate nested node")
	}

	count := 0
	root.Walk(func(n *Node) bool {
		count++
		return n != a
	})
	if count != 2 {
		t.Errorf("visited %d nodes, want 2", count)
	}
}

func TestAddReparents(t *testing.T) {
	p1, p2, c := NewNode("p1"), NewNode("p2"), NewNode("c")
	p1.Add(c)
	p2.Add(c)

	if len(p1.Children) != 0 || c.Parent != p2 {
		t.Errorf("child not moved: p1=%d parent=%s", len(p1.Children), c.Parent.Name)
	}
}

func TestWorldMatrix(t *testing.T) {
	parent := NewNode("parent")
	parent.Position = math3d.V3(1, 0, 0)
	parent.Rotation = math3d.E(0, math.Pi/2, 0)
	child := NewNode("child")
	child.Position = math3d.V3(0, 0, 1)
	parent.Add(child)

	got := child.WorldMatrix().MulVec3(math3d.Zero3())
	if !got.ApproxEqual(math3d.V3(2, 0, 0), 1e-9) {
		t.Errorf("child origin = %v, want (2,0,0)", got)
	}
}

func TestBaselineWriteOnce(t *testing.T) {
	var b Baseline
	if _, ok := b.InitialScale(); ok {
		t.Fatal("empty baseline reports a scale")
	}

	if !b.CaptureInitialPosition(math3d.V3(1, 2, 3)) {
		t.Error("first capture should succeed")
	}
	if b.CaptureInitialPosition(math3d.V3(9, 9, 9)) {
		t.Error("second capture should be rejected")
	}
	b.CaptureInitialScale(math3d.One3())
	b.CaptureInitialScale(math3d.Zero3())
	b.CaptureInitialRotation(math3d.E(0.1, 0, 0))
	b.CaptureInitialRotation(math3d.E(0.5, 0, 0))

	pos, _ := b.InitialPosition()
	scale, _ := b.InitialScale()
	rot, ok := b.InitialRotation()
	if pos != math3d.V3(1, 2, 3) || scale != math3d.One3() || rot.X != 0.1 || !ok {
		t.Errorf("baseline overwritten: %v %v %v", pos, scale, rot)
	}
}

func TestCategoryString(t *testing.T) {
	if CategoryLink.String() != "link" || Category(99).String() != "unknown" {
		t.Errorf("got %s, %s", CategoryLink, Category(99))
	}
}

func TestWorldVisible(t *testing.T) {
	p, c := NewNode("p"), NewNode("c")
	p.Add(c)
	p.Visible = false
	if c.WorldVisible() {
		t.Error("child of a hidden node should not be visible")
	}
}

func TestIntersectUV(t *testing.T) {
	q := NewQuad("board", 1, 1)
	ray := math3d.Ray{Origin: math3d.V3(0.25, 0.25, 5), Dir: math3d.V3(0, 0, -1)}

	hits := Intersect(ray, q)
	if len(hits) != 1 {
		t.Fatalf("hits = %d, want 1", len(hits))
	}
	h := hits[0]
	if h.Node != q || math.Abs(h.Distance-5) > eps {
		t.Errorf("hit = %+v", h)
	}
	// texture space: top left origin
	if !math3d.V3(h.UV.X, h.UV.Y, 0).ApproxEqual(math3d.V3(0.75, 0.25, 0), 1e-9) {
		t.Errorf("UV = %v, want (0.75, 0.25)", h.UV)
	}
}

func TestIntersectSideAndScale(t *testing.T) {
	fromBehind := math3d.Ray{Origin: math3d.V3(0, 0, -5), Dir: math3d.V3(0, 0, 1)}
	fromFront := math3d.Ray{Origin: math3d.V3(0, 0, 5), Dir: math3d.V3(0, 0, -1)}

	tests := []struct {
		name  string
		setup func(n *Node)
		ray   math3d.Ray
		want  int
	}{
		{"front", func(*Node) {}, fromFront, 1},
		{"back single sided", func(*Node) {}, fromBehind, 0},
		{"back double sided", func(n *Node) {
			n.Material = NewColorMaterial("m", render.ColorWhite).WithDoubleSided()
		}, fromBehind, 1},
		{"zero scale", func(n *Node) { n.Scale = math3d.Zero3() }, fromFront, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			n := NewQuad("q", 1, 1)
			tc.setup(n)
			if got := len(Intersect(tc.ray, n)); got != tc.want {
				t.Errorf("hits = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestIntersectSortedAndNested(t *testing.T) {
	group := NewNode("group")
	group.Position = math3d.V3(0, 0, -1)
	far := NewQuad("far", 2, 2)
	near := NewQuad("near", 2, 2)
	near.Position = math3d.V3(0, 0, 0.5)
	group.Add(far, near)

	ray := math3d.Ray{Origin: math3d.V3(0, 0, 5), Dir: math3d.V3(0, 0, -1)}
	hits := Intersect(ray, group, near)

	if len(hits) != 2 {
		t.Fatalf("hits = %d, want 2 (duplicates collapsed)", len(hits))
	}
	if hits[0].Node != near || hits[1].Node != far {
		t.Errorf("order = %s, %s", hits[0].Node.Name, hits[1].Node.Name)
	}
	if math.Abs(hits[0].Distance-5.5) > eps {
		t.Errorf("near distance = %v, want 5.5", hits[0].Distance)
	}
}

func TestDrawOpaqueThenBlended(t *testing.T) {
	s := New()
	wall := NewQuad("wall", 4, 4)
	wall.Material = NewColorMaterial("wall", render.RGB(0, 0, 200))
	glass := NewQuad("Glass", 4, 4)
	glass.Position = math3d.V3(0, 0, 1)
	glass.Material = NewGlassMaterial("glass", render.RGB(200, 0, 0), 0.5)
	// blended node first in walk order must still composite over the wall
	s.Root.Add(glass, wall)

	fb := render.NewFramebuffer(32, 32)
	cam := render.NewCamera(60)
	cam.Position = math3d.V3(0, 0, 5)
	cam.LookAt(math3d.Zero3())
	cam.SetAspectRatio(1)
	r := render.NewRasterizer(cam, fb)
	r.BeginFrame()
	fb.Clear(render.ColorBlack)

	s.Draw(r)

	c := fb.GetPixel(16, 16)
	if c.R != 100 || c.B != 100 {
		t.Errorf("center = %v, want glass over wall", c)
	}
}

func TestFromFileHierarchy(t *testing.T) {
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}})
	doc.Meshes = []*gltf.Mesh{{
		Name: "tri",
		Primitives: []*gltf.Primitive{{
			Attributes: map[string]int{gltf.POSITION: pos},
		}},
	}}
	half := math.Sqrt(0.5)
	doc.Nodes = []*gltf.Node{
		{Name: "room", Children: []int{1, 2}, Translation: [3]float64{0, 1, 0}},
		{Name: "fan", Mesh: gltf.Index(0), Rotation: [4]float64{0, half, 0, half}, Scale: [3]float64{2, 2, 2}},
		{Name: "", Mesh: gltf.Index(0), Matrix: [16]float64{3, 0, 0, 0, 0, 3, 0, 0, 0, 0, 3, 0, 4, 5, 6, 1}},
	}
	doc.Scenes[0].Nodes = []int{0}

	f, err := models.FromDocument(doc)
	if err != nil {
		t.Fatalf("FromDocument: %v", err)
	}
	s, err := FromFile(f)
	if err != nil {
		t.Fatalf("FromFile: %v", err)
	}

	room := s.Root.Find("room")
	if room == nil || len(room.Children) != 2 {
		t.Fatalf("room = %+v", room)
	}
	if room.Position != math3d.V3(0, 1, 0) || room.Scale != math3d.One3() {
		t.Errorf("room transform = %v %v", room.Position, room.Scale)
	}

	fan := room.Children[0]
	if math.Abs(fan.Rotation.Y-math.Pi/2) > 1e-9 || fan.Scale != math3d.V3(2, 2, 2) {
		t.Errorf("fan rotation=%v scale=%v", fan.Rotation, fan.Scale)
	}
	if fan.Mesh == nil || fan.Mesh.TriangleCount() != 1 {
		t.Error("fan mesh missing")
	}

	unnamed := room.Children[1]
	if unnamed.Name != "tri" {
		t.Errorf("unnamed node should take the mesh name, got %q", unnamed.Name)
	}
	if unnamed.Position != math3d.V3(4, 5, 6) || !unnamed.Scale.ApproxEqual(math3d.V3(3, 3, 3), 1e-9) {
		t.Errorf("matrix decompose = %v %v", unnamed.Position, unnamed.Scale)
	}
}

func TestFromFileRejectsCycle(t *testing.T) {
	doc := gltf.NewDocument()
	doc.Nodes = []*gltf.Node{
		{Name: "a", Children: []int{1}},
		{Name: "b", Children: []int{0}},
	}
	doc.Scenes[0].Nodes = []int{0}

	f, _ := models.FromDocument(doc)
	if _, err := FromFile(f); err == nil {
		t.Error("expected error for cyclic hierarchy")
	}
}
