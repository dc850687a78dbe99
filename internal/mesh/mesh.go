// Package mesh provides an in-memory quad-oriented mesh with the editing
// primitives the optimisation passes need: face deletion, rectangular
// face merging, vertex welding and origin recentering.
package mesh

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Editing errors.
var (
	ErrVertexIndexRange = errors.New("vertex index out of range")
	ErrUVIndexRange     = errors.New("uv index out of range")
	ErrUVCountMismatch  = errors.New("uv count does not match vertex count")
	ErrFaceTooSmall     = errors.New("face needs at least 3 vertices")
	ErrUnknownFace      = errors.New("unknown face id")
	ErrMergeTooFew      = errors.New("merge needs at least 2 faces")
	ErrMergeMixedPlanes = errors.New("merge faces do not share a plane")
)

// FaceID identifies a face within one mesh. IDs are never reused, so a
// deleted face's ID stays dangling rather than aliasing a new face.
type FaceID int

// Face is a single polygon of a mesh. Verts index into the owning mesh's
// vertex pool; UVs is either empty or parallel to Verts.
type Face struct {
	ID       FaceID
	Verts    []int
	UVs      []int
	Normal   mgl64.Vec3
	Material string
	Selected bool
}

// VertexCount returns the number of corners.
func (f *Face) VertexCount() int {
	return len(f.Verts)
}

// HasUV reports whether the face carries texture coordinates.
func (f *Face) HasUV() bool {
	return len(f.UVs) == len(f.Verts) && len(f.UVs) > 0
}

// UVPolicy selects how MergeFaces maps texture coordinates onto the
// merged face.
type UVPolicy int

const (
	// UVDiscard drops texture coordinates from the merged face.
	UVDiscard UVPolicy = iota
	// UVUnion gives the merged face the bounding rectangle of the source
	// faces' UV footprints, corner-aligned with the spatial rectangle.
	UVUnion
)

// Mesh is an editable quad-oriented mesh. It is not safe for concurrent
// mutation; the optimisation pipeline is strictly sequential.
type Mesh struct {
	Name string

	positions []mgl64.Vec3
	texcoords []mgl64.Vec2
	faces     []*Face
	byID      map[FaceID]*Face
	nextID    FaceID
}

// New creates an empty named mesh.
func New(name string) *Mesh {
	return &Mesh{
		Name: name,
		byID: make(map[FaceID]*Face),
	}
}

// AddVertex appends a position to the vertex pool and returns its index.
func (m *Mesh) AddVertex(p mgl64.Vec3) int {
	m.positions = append(m.positions, p)
	return len(m.positions) - 1
}

// AddTexCoord appends a texture coordinate and returns its index.
func (m *Mesh) AddTexCoord(uv mgl64.Vec2) int {
	m.texcoords = append(m.texcoords, uv)
	return len(m.texcoords) - 1
}

// VertexCount returns the size of the vertex pool, including vertices no
// face references anymore.
func (m *Mesh) VertexCount() int {
	return len(m.positions)
}

// Position returns the pool position at index i.
func (m *Mesh) Position(i int) mgl64.Vec3 {
	return m.positions[i]
}

// TexCoord returns the pool texture coordinate at index i.
func (m *Mesh) TexCoord(i int) mgl64.Vec2 {
	return m.texcoords[i]
}

// AddFace appends a face over existing pool indices. The face normal is
// computed from the winding of the first three corners. uvs may be nil.
func (m *Mesh) AddFace(verts []int, uvs []int, material string) (*Face, error) {
	if len(verts) < 3 {
		return nil, ErrFaceTooSmall
	}
	for _, vi := range verts {
		if vi < 0 || vi >= len(m.positions) {
			return nil, fmt.Errorf("%w: %d", ErrVertexIndexRange, vi)
		}
	}
	if len(uvs) > 0 {
		if len(uvs) != len(verts) {
			return nil, ErrUVCountMismatch
		}
		for _, ti := range uvs {
			if ti < 0 || ti >= len(m.texcoords) {
				return nil, fmt.Errorf("%w: %d", ErrUVIndexRange, ti)
			}
		}
	}

	f := &Face{
		ID:       m.nextID,
		Verts:    append([]int(nil), verts...),
		UVs:      append([]int(nil), uvs...),
		Material: material,
	}
	f.Normal = m.faceNormal(f)
	m.nextID++
	m.faces = append(m.faces, f)
	m.byID[f.ID] = f
	return f, nil
}

// Faces returns the live faces in insertion order. The returned slice is
// shared; callers must not insert or remove entries.
func (m *Mesh) Faces() []*Face {
	return m.faces
}

// FaceCount returns the number of live faces.
func (m *Mesh) FaceCount() int {
	return len(m.faces)
}

// Face returns the face with the given ID, or nil if deleted or unknown.
func (m *Mesh) Face(id FaceID) *Face {
	return m.byID[id]
}

// Centroid returns the mean of a face's corner positions.
func (m *Mesh) Centroid(f *Face) mgl64.Vec3 {
	var sum mgl64.Vec3
	for _, vi := range f.Verts {
		sum = sum.Add(m.positions[vi])
	}
	return sum.Mul(1.0 / float64(len(f.Verts)))
}

// Area returns the surface area of a face (triangle fan around the first
// corner).
func (m *Mesh) Area(f *Face) float64 {
	area := 0.0
	p0 := m.positions[f.Verts[0]]
	for i := 1; i < len(f.Verts)-1; i++ {
		e1 := m.positions[f.Verts[i]].Sub(p0)
		e2 := m.positions[f.Verts[i+1]].Sub(p0)
		area += e1.Cross(e2).Len() / 2
	}
	return area
}

// DeleteFaces removes the given faces and returns how many were actually
// deleted. Unknown IDs are ignored. Pool vertices are left in place;
// writers compact them on output.
func (m *Mesh) DeleteFaces(ids []FaceID) int {
	doomed := make(map[FaceID]bool, len(ids))
	for _, id := range ids {
		if _, ok := m.byID[id]; ok {
			doomed[id] = true
		}
	}
	if len(doomed) == 0 {
		return 0
	}

	kept := m.faces[:0]
	for _, f := range m.faces {
		if doomed[f.ID] {
			delete(m.byID, f.ID)
			continue
		}
		kept = append(kept, f)
	}
	m.faces = kept
	return len(doomed)
}

// MergeFaces replaces a rectangular block of coplanar axis-aligned faces
// with a single face spanning the block's outer boundary. The merged
// face inherits the first face's material, is selected only when every
// source face was selected, and gets texture coordinates per the policy.
func (m *Mesh) MergeFaces(ids []FaceID, uv UVPolicy) (FaceID, error) {
	if len(ids) < 2 {
		return 0, ErrMergeTooFew
	}
	sources := make([]*Face, len(ids))
	for i, id := range ids {
		f := m.byID[id]
		if f == nil {
			return 0, fmt.Errorf("%w: %d", ErrUnknownFace, id)
		}
		sources[i] = f
	}

	normal := sources[0].Normal
	axis := dominantAxis(normal)
	a1, a2 := freeAxes(axis)

	// plane grouping rounds offsets to one decimal, so allow up to half
	// that quantum of drift between members
	const offsetEps = 0.05
	offset := m.positions[sources[0].Verts[0]][axis]
	for _, f := range sources {
		if f.Normal.Dot(normal) < 1-1e-4 {
			return 0, fmt.Errorf("%w: normals differ", ErrMergeMixedPlanes)
		}
		for _, vi := range f.Verts {
			if math.Abs(m.positions[vi][axis]-offset) > offsetEps {
				return 0, fmt.Errorf("%w: offsets differ along axis %d", ErrMergeMixedPlanes, axis)
			}
		}
	}

	// outer boundary of the block in the plane's two free axes
	min1, max1 := math.Inf(1), math.Inf(-1)
	min2, max2 := math.Inf(1), math.Inf(-1)
	for _, f := range sources {
		for _, vi := range f.Verts {
			p := m.positions[vi]
			min1, max1 = math.Min(min1, p[a1]), math.Max(max1, p[a1])
			min2, max2 = math.Min(min2, p[a2]), math.Max(max2, p[a2])
		}
	}

	corner := func(c1, c2 float64) mgl64.Vec3 {
		var p mgl64.Vec3
		p[axis] = offset
		p[a1] = c1
		p[a2] = c2
		return p
	}
	quad := []mgl64.Vec3{
		corner(min1, min2),
		corner(max1, min2),
		corner(max1, max2),
		corner(min1, max2),
	}

	var uvQuad []mgl64.Vec2
	if uv == UVUnion && allHaveUV(sources) {
		uvMin1, uvMax1 := math.Inf(1), math.Inf(-1)
		uvMin2, uvMax2 := math.Inf(1), math.Inf(-1)
		for _, f := range sources {
			for _, ti := range f.UVs {
				t := m.texcoords[ti]
				uvMin1, uvMax1 = math.Min(uvMin1, t.X()), math.Max(uvMax1, t.X())
				uvMin2, uvMax2 = math.Min(uvMin2, t.Y()), math.Max(uvMax2, t.Y())
			}
		}
		uvQuad = []mgl64.Vec2{
			{uvMin1, uvMin2},
			{uvMax1, uvMin2},
			{uvMax1, uvMax2},
			{uvMin1, uvMax2},
		}
	}

	// keep the block facing the way its source faces did
	wound := quad[1].Sub(quad[0]).Cross(quad[2].Sub(quad[1]))
	if wound.Dot(normal) < 0 {
		quad[1], quad[3] = quad[3], quad[1]
		if uvQuad != nil {
			uvQuad[1], uvQuad[3] = uvQuad[3], uvQuad[1]
		}
	}

	selected := true
	for _, f := range sources {
		selected = selected && f.Selected
	}
	material := sources[0].Material

	m.DeleteFaces(ids)

	verts := make([]int, len(quad))
	for i, p := range quad {
		verts[i] = m.AddVertex(p)
	}
	var uvs []int
	if uvQuad != nil {
		uvs = make([]int, len(uvQuad))
		for i, t := range uvQuad {
			uvs[i] = m.AddTexCoord(t)
		}
	}

	merged, err := m.AddFace(verts, uvs, material)
	if err != nil {
		return 0, err
	}
	merged.Selected = selected
	return merged.ID, nil
}

// faceNormal computes the unit normal from the first three corners.
// Degenerate faces get a zero normal.
func (m *Mesh) faceNormal(f *Face) mgl64.Vec3 {
	p0 := m.positions[f.Verts[0]]
	p1 := m.positions[f.Verts[1]]
	p2 := m.positions[f.Verts[2]]
	n := p1.Sub(p0).Cross(p2.Sub(p1))
	if n.Len() < 1e-12 {
		return mgl64.Vec3{}
	}
	return n.Normalize()
}

// dominantAxis returns the axis index (0..2) with the largest absolute
// normal component.
func dominantAxis(n mgl64.Vec3) int {
	axis := 0
	best := math.Abs(n[0])
	for i := 1; i < 3; i++ {
		if math.Abs(n[i]) > best {
			best = math.Abs(n[i])
			axis = i
		}
	}
	return axis
}

// freeAxes returns the two in-plane axes for a given normal axis, in the
// same order the projection uses: x drops to (y,z), y to (x,z), z to (x,y).
func freeAxes(axis int) (int, int) {
	switch axis {
	case 0:
		return 1, 2
	case 1:
		return 0, 2
	default:
		return 0, 1
	}
}

func allHaveUV(faces []*Face) bool {
	for _, f := range faces {
		if !f.HasUV() {
			return false
		}
	}
	return true
}
