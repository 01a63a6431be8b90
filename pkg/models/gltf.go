package models

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/roomfolio/pkg/math3d"
	_ "golang.org/x/image/webp"
)

// File is a decoded glTF document with lazily converted meshes.
type File struct {
	Doc       *gltf.Document
	Materials []*Material

	dir    string
	meshes map[int]*Mesh
}

// Open loads a .glb or .gltf file and decodes its materials.
func Open(path string) (*File, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	f, err := FromDocument(doc)
	if err != nil {
		return nil, err
	}
	f.dir = filepath.Dir(path)
	return f, nil
}

// FromDocument wraps an already decoded document.
func FromDocument(doc *gltf.Document) (*File, error) {
	f := &File{
		Doc:    doc,
		meshes: make(map[int]*Mesh),
	}
	f.Materials = make([]*Material, len(doc.Materials))
	for i, m := range doc.Materials {
		f.Materials[i] = f.convertMaterial(m)
	}
	return f, nil
}

// Mesh returns the geometry of mesh index i, converting it on first use.
func (f *File) Mesh(i int) (*Mesh, error) {
	if m, ok := f.meshes[i]; ok {
		return m, nil
	}
	if i < 0 || i >= len(f.Doc.Meshes) {
		return nil, fmt.Errorf("mesh index %d out of range", i)
	}

	src := f.Doc.Meshes[i]
	mesh := NewMesh(src.Name)
	for _, prim := range src.Primitives {
		if err := f.appendPrimitive(mesh, prim); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", src.Name, err)
		}
	}
	mesh.CalculateBounds()
	f.meshes[i] = mesh
	return mesh, nil
}

func (f *File) appendPrimitive(mesh *Mesh, prim *gltf.Primitive) error {
	if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
		// Lines and points carry no pickable surface
		return nil
	}

	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil
	}
	positions, err := f.readFloats(posIdx, gltf.AccessorVec3)
	if err != nil {
		return fmt.Errorf("read positions: %w", err)
	}

	var uvs [][]float32
	if uvIdx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		uvs, err = f.readFloats(uvIdx, gltf.AccessorVec2)
		if err != nil {
			return fmt.Errorf("read uvs: %w", err)
		}
	}

	material := -1
	if prim.Material != nil {
		material = *prim.Material
	}

	base := len(mesh.Vertices)
	for i, p := range positions {
		v := Vertex{Position: math3d.V3(float64(p[0]), float64(p[1]), float64(p[2]))}
		if i < len(uvs) {
			// glTF puts V=0 at the top
			v.UV.X = float64(uvs[i][0])
			v.UV.Y = 1 - float64(uvs[i][1])
		}
		mesh.Vertices = append(mesh.Vertices, v)
	}

	var indices []int
	if prim.Indices != nil {
		indices, err = f.readIndices(*prim.Indices)
		if err != nil {
			return fmt.Errorf("read indices: %w", err)
		}
	} else {
		indices = make([]int, len(positions))
		for i := range indices {
			indices[i] = i
		}
	}

	// glTF front faces are CCW; the rasterizer's Y flip makes them CW
	for i := 0; i+2 < len(indices); i += 3 {
		mesh.Faces = append(mesh.Faces, Face{
			V:        [3]int{base + indices[i], base + indices[i+2], base + indices[i+1]},
			Material: material,
		})
	}
	return nil
}

func (f *File) convertMaterial(m *gltf.Material) *Material {
	mat := &Material{
		Name:        m.Name,
		BaseColor:   [4]float64{1, 1, 1, 1},
		DoubleSided: m.DoubleSided,
	}
	switch m.AlphaMode {
	case gltf.AlphaBlend:
		mat.Alpha = AlphaBlend
	case gltf.AlphaMask:
		mat.Alpha = AlphaMask
	}

	pbr := m.PBRMetallicRoughness
	if pbr == nil {
		return mat
	}
	c := pbr.BaseColorFactorOrDefault()
	mat.BaseColor = [4]float64{c[0], c[1], c[2], c[3]}
	if pbr.BaseColorTexture != nil {
		mat.BaseMap = f.decodeTexture(pbr.BaseColorTexture.Index)
	}
	return mat
}

// decodeTexture returns nil when the image is missing or undecodable.
// Room textures are normally supplied externally so this is best effort.
func (f *File) decodeTexture(texIdx int) image.Image {
	if texIdx < 0 || texIdx >= len(f.Doc.Textures) {
		return nil
	}
	tex := f.Doc.Textures[texIdx]
	if tex.Source == nil || *tex.Source >= len(f.Doc.Images) {
		return nil
	}

	data, err := f.ImageData(*tex.Source)
	if err != nil || len(data) == 0 {
		return nil
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil
	}
	return img
}

// ImageData returns the encoded bytes of image i, embedded or external.
func (f *File) ImageData(i int) ([]byte, error) {
	img := f.Doc.Images[i]
	if img.BufferView != nil {
		bv := f.Doc.BufferViews[*img.BufferView]
		buf := f.Doc.Buffers[bv.Buffer]
		end := bv.ByteOffset + bv.ByteLength
		if end > len(buf.Data) {
			return nil, fmt.Errorf("image %d: buffer view out of range", i)
		}
		return buf.Data[bv.ByteOffset:end], nil
	}
	if img.IsEmbeddedResource() {
		return img.MarshalData()
	}
	if img.URI == "" {
		return nil, fmt.Errorf("image %d: no data", i)
	}
	return os.ReadFile(filepath.Join(f.dir, img.URI))
}

// accessorBytes resolves the buffer bytes, start offset, element stride and
// element count for an accessor.
func (f *File) accessorBytes(idx int, elemSize int) (data []byte, start, stride, count int, err error) {
	if idx < 0 || idx >= len(f.Doc.Accessors) {
		return nil, 0, 0, 0, fmt.Errorf("accessor %d out of range", idx)
	}
	acc := f.Doc.Accessors[idx]
	if acc.BufferView == nil {
		return nil, 0, 0, 0, fmt.Errorf("accessor has no buffer view")
	}
	bv := f.Doc.BufferViews[*acc.BufferView]
	buf := f.Doc.Buffers[bv.Buffer]
	if buf.Data == nil {
		return nil, 0, 0, 0, fmt.Errorf("buffer has no data")
	}

	start = bv.ByteOffset + acc.ByteOffset
	stride = bv.ByteStride
	if stride == 0 {
		stride = elemSize
	}
	count = acc.Count
	if count > 0 && start+(count-1)*stride+elemSize > len(buf.Data) {
		return nil, 0, 0, 0, fmt.Errorf("accessor %d overruns buffer", idx)
	}
	return buf.Data, start, stride, count, nil
}

// readFloats reads a float VEC2 or VEC3 accessor.
func (f *File) readFloats(idx int, want gltf.AccessorType) ([][]float32, error) {
	acc := f.Doc.Accessors[idx]
	if acc.Type != want {
		return nil, fmt.Errorf("expected %v, got %v", want, acc.Type)
	}
	if acc.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("unsupported component type %v", acc.ComponentType)
	}

	n := 3
	if want == gltf.AccessorVec2 {
		n = 2
	}
	data, start, stride, count, err := f.accessorBytes(idx, n*4)
	if err != nil {
		return nil, err
	}

	out := make([][]float32, count)
	for i := range count {
		off := start + i*stride
		vals := make([]float32, n)
		for j := range n {
			vals[j] = math.Float32frombits(binary.LittleEndian.Uint32(data[off+j*4:]))
		}
		out[i] = vals
	}
	return out, nil
}

// readIndices reads a scalar unsigned index accessor.
func (f *File) readIndices(idx int) ([]int, error) {
	if idx < 0 || idx >= len(f.Doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", idx)
	}
	var size int
	switch f.Doc.Accessors[idx].ComponentType {
	case gltf.ComponentUbyte:
		size = 1
	case gltf.ComponentUshort:
		size = 2
	case gltf.ComponentUint:
		size = 4
	default:
		return nil, fmt.Errorf("unexpected index type: %v", f.Doc.Accessors[idx].ComponentType)
	}

	data, start, stride, count, err := f.accessorBytes(idx, size)
	if err != nil {
		return nil, err
	}

	out := make([]int, count)
	for i := range count {
		b := data[start+i*stride:]
		switch size {
		case 1:
			out[i] = int(b[0])
		case 2:
			out[i] = int(binary.LittleEndian.Uint16(b))
		default:
			out[i] = int(binary.LittleEndian.Uint32(b))
		}
	}
	return out, nil
}
