package mesh

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// addQuad appends a unit quad on the z=0 plane with its lower-left
// corner at (x, y), wound counter-clockwise seen from +z.
func addQuad(t *testing.T, m *Mesh, x, y float64) *Face {
	t.Helper()
	verts := []int{
		m.AddVertex(mgl64.Vec3{x, y, 0}),
		m.AddVertex(mgl64.Vec3{x + 1, y, 0}),
		m.AddVertex(mgl64.Vec3{x + 1, y + 1, 0}),
		m.AddVertex(mgl64.Vec3{x, y + 1, 0}),
	}
	f, err := m.AddFace(verts, nil, "")
	if err != nil {
		t.Fatalf("AddFace failed: %v", err)
	}
	return f
}

func vec3Near(a, b mgl64.Vec3) bool {
	return a.Sub(b).Len() < 1e-9
}

func TestAddFaceNormal(t *testing.T) {
	m := New("test")
	f := addQuad(t, m, 0, 0)

	if !vec3Near(f.Normal, mgl64.Vec3{0, 0, 1}) {
		t.Errorf("expected normal +z, got %v", f.Normal)
	}
}

func TestAddFaceErrors(t *testing.T) {
	m := New("test")
	v0 := m.AddVertex(mgl64.Vec3{0, 0, 0})
	v1 := m.AddVertex(mgl64.Vec3{1, 0, 0})
	v2 := m.AddVertex(mgl64.Vec3{1, 1, 0})

	tests := []struct {
		name  string
		verts []int
		uvs   []int
		want  error
	}{
		{"too few vertices", []int{v0, v1}, nil, ErrFaceTooSmall},
		{"vertex out of range", []int{v0, v1, 99}, nil, ErrVertexIndexRange},
		{"uv count mismatch", []int{v0, v1, v2}, []int{0}, ErrUVCountMismatch},
		{"uv out of range", []int{v0, v1, v2}, []int{0, 1, 2}, ErrUVIndexRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.AddFace(tt.verts, tt.uvs, "")
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestCentroidAndArea(t *testing.T) {
	m := New("test")
	f := addQuad(t, m, 0, 0)

	if c := m.Centroid(f); !vec3Near(c, mgl64.Vec3{0.5, 0.5, 0}) {
		t.Errorf("expected centroid (0.5, 0.5, 0), got %v", c)
	}
	if a := m.Area(f); math.Abs(a-1) > 1e-9 {
		t.Errorf("expected area 1, got %f", a)
	}
}

func TestFaceIDsNeverReused(t *testing.T) {
	m := New("test")
	f1 := addQuad(t, m, 0, 0)
	m.DeleteFaces([]FaceID{f1.ID})
	f2 := addQuad(t, m, 1, 0)

	if f2.ID == f1.ID {
		t.Errorf("face ID %d was reused after deletion", f1.ID)
	}
	if m.Face(f1.ID) != nil {
		t.Error("deleted face still resolvable by ID")
	}
}

func TestDeleteFaces(t *testing.T) {
	m := New("test")
	f1 := addQuad(t, m, 0, 0)
	f2 := addQuad(t, m, 1, 0)
	f3 := addQuad(t, m, 2, 0)

	// one unknown ID mixed in, one duplicate
	n := m.DeleteFaces([]FaceID{f1.ID, f3.ID, f1.ID, 999})
	if n != 2 {
		t.Errorf("expected 2 deleted, got %d", n)
	}
	if m.FaceCount() != 1 {
		t.Errorf("expected 1 face left, got %d", m.FaceCount())
	}
	if m.Faces()[0].ID != f2.ID {
		t.Errorf("wrong survivor: got face %d, want %d", m.Faces()[0].ID, f2.ID)
	}
}

func TestMergeFacesBlock(t *testing.T) {
	m := New("test")
	var ids []FaceID
	for y := 0.0; y < 2; y++ {
		for x := 0.0; x < 2; x++ {
			ids = append(ids, addQuad(t, m, x, y).ID)
		}
	}

	mergedID, err := m.MergeFaces(ids, UVDiscard)
	if err != nil {
		t.Fatalf("MergeFaces failed: %v", err)
	}

	if m.FaceCount() != 1 {
		t.Fatalf("expected 1 face after merge, got %d", m.FaceCount())
	}
	merged := m.Face(mergedID)
	if merged == nil {
		t.Fatal("merged face not resolvable by returned ID")
	}
	for _, id := range ids {
		if m.Face(id) != nil {
			t.Errorf("source face %d still alive after merge", id)
		}
	}

	if !vec3Near(merged.Normal, mgl64.Vec3{0, 0, 1}) {
		t.Errorf("merged face flipped: normal %v", merged.Normal)
	}
	if a := m.Area(merged); math.Abs(a-4) > 1e-9 {
		t.Errorf("expected merged area 4, got %f", a)
	}
	if c := m.Centroid(merged); !vec3Near(c, mgl64.Vec3{1, 1, 0}) {
		t.Errorf("expected merged centroid (1, 1, 0), got %v", c)
	}
}

func TestMergeFacesPreservesWinding(t *testing.T) {
	m := New("test")
	// two quads facing -z
	var ids []FaceID
	for x := 0.0; x < 2; x++ {
		verts := []int{
			m.AddVertex(mgl64.Vec3{x, 0, 0}),
			m.AddVertex(mgl64.Vec3{x, 1, 0}),
			m.AddVertex(mgl64.Vec3{x + 1, 1, 0}),
			m.AddVertex(mgl64.Vec3{x + 1, 0, 0}),
		}
		f, err := m.AddFace(verts, nil, "")
		if err != nil {
			t.Fatalf("AddFace failed: %v", err)
		}
		ids = append(ids, f.ID)
	}

	mergedID, err := m.MergeFaces(ids, UVDiscard)
	if err != nil {
		t.Fatalf("MergeFaces failed: %v", err)
	}
	merged := m.Face(mergedID)
	if !vec3Near(merged.Normal, mgl64.Vec3{0, 0, -1}) {
		t.Errorf("expected merged face to keep facing -z, got normal %v", merged.Normal)
	}
}

func TestMergeFacesUVUnion(t *testing.T) {
	m := New("test")
	var ids []FaceID
	// two quads texture-mapped side by side across [0,1]x[0,1]
	for i, x := range []float64{0, 1} {
		u0 := float64(i) * 0.5
		verts := []int{
			m.AddVertex(mgl64.Vec3{x, 0, 0}),
			m.AddVertex(mgl64.Vec3{x + 1, 0, 0}),
			m.AddVertex(mgl64.Vec3{x + 1, 1, 0}),
			m.AddVertex(mgl64.Vec3{x, 1, 0}),
		}
		uvs := []int{
			m.AddTexCoord(mgl64.Vec2{u0, 0}),
			m.AddTexCoord(mgl64.Vec2{u0 + 0.5, 0}),
			m.AddTexCoord(mgl64.Vec2{u0 + 0.5, 1}),
			m.AddTexCoord(mgl64.Vec2{u0, 1}),
		}
		f, err := m.AddFace(verts, uvs, "")
		if err != nil {
			t.Fatalf("AddFace failed: %v", err)
		}
		ids = append(ids, f.ID)
	}

	mergedID, err := m.MergeFaces(ids, UVUnion)
	if err != nil {
		t.Fatalf("MergeFaces failed: %v", err)
	}
	merged := m.Face(mergedID)
	if !merged.HasUV() {
		t.Fatal("expected merged face to carry texture coordinates")
	}

	uvMin := mgl64.Vec2{math.Inf(1), math.Inf(1)}
	uvMax := mgl64.Vec2{math.Inf(-1), math.Inf(-1)}
	for _, ti := range merged.UVs {
		uv := m.TexCoord(ti)
		uvMin = mgl64.Vec2{math.Min(uvMin.X(), uv.X()), math.Min(uvMin.Y(), uv.Y())}
		uvMax = mgl64.Vec2{math.Max(uvMax.X(), uv.X()), math.Max(uvMax.Y(), uv.Y())}
	}
	if uvMin != (mgl64.Vec2{0, 0}) || uvMax != (mgl64.Vec2{1, 1}) {
		t.Errorf("expected UV footprint [0,0]..[1,1], got [%v]..[%v]", uvMin, uvMax)
	}
}

func TestMergeFacesUVDiscard(t *testing.T) {
	m := New("test")
	var ids []FaceID
	for x := 0.0; x < 2; x++ {
		verts := []int{
			m.AddVertex(mgl64.Vec3{x, 0, 0}),
			m.AddVertex(mgl64.Vec3{x + 1, 0, 0}),
			m.AddVertex(mgl64.Vec3{x + 1, 1, 0}),
			m.AddVertex(mgl64.Vec3{x, 1, 0}),
		}
		uvs := []int{
			m.AddTexCoord(mgl64.Vec2{0, 0}),
			m.AddTexCoord(mgl64.Vec2{1, 0}),
			m.AddTexCoord(mgl64.Vec2{1, 1}),
			m.AddTexCoord(mgl64.Vec2{0, 1}),
		}
		f, err := m.AddFace(verts, uvs, "")
		if err != nil {
			t.Fatalf("AddFace failed: %v", err)
		}
		ids = append(ids, f.ID)
	}

	mergedID, err := m.MergeFaces(ids, UVDiscard)
	if err != nil {
		t.Fatalf("MergeFaces failed: %v", err)
	}
	if m.Face(mergedID).HasUV() {
		t.Error("expected merged face to drop texture coordinates")
	}
}

func TestMergeFacesSelection(t *testing.T) {
	m := New("test")
	f1 := addQuad(t, m, 0, 0)
	f2 := addQuad(t, m, 1, 0)
	f1.Selected = true
	f2.Selected = true

	mergedID, err := m.MergeFaces([]FaceID{f1.ID, f2.ID}, UVDiscard)
	if err != nil {
		t.Fatalf("MergeFaces failed: %v", err)
	}
	if !m.Face(mergedID).Selected {
		t.Error("merge of all-selected faces should stay selected")
	}

	f3 := addQuad(t, m, 0, 1)
	f4 := addQuad(t, m, 1, 1)
	f3.Selected = true

	mergedID, err = m.MergeFaces([]FaceID{f3.ID, f4.ID}, UVDiscard)
	if err != nil {
		t.Fatalf("MergeFaces failed: %v", err)
	}
	if m.Face(mergedID).Selected {
		t.Error("merge including an unselected face should not be selected")
	}
}

func TestMergeFacesMaterial(t *testing.T) {
	m := New("test")
	v := func(x, y float64) []int {
		return []int{
			m.AddVertex(mgl64.Vec3{x, y, 0}),
			m.AddVertex(mgl64.Vec3{x + 1, y, 0}),
			m.AddVertex(mgl64.Vec3{x + 1, y + 1, 0}),
			m.AddVertex(mgl64.Vec3{x, y + 1, 0}),
		}
	}
	f1, _ := m.AddFace(v(0, 0), nil, "stone")
	f2, _ := m.AddFace(v(1, 0), nil, "dirt")

	mergedID, err := m.MergeFaces([]FaceID{f1.ID, f2.ID}, UVDiscard)
	if err != nil {
		t.Fatalf("MergeFaces failed: %v", err)
	}
	if mat := m.Face(mergedID).Material; mat != "stone" {
		t.Errorf("expected merged face to inherit first material 'stone', got %q", mat)
	}
}

func TestMergeFacesErrors(t *testing.T) {
	m := New("test")
	f1 := addQuad(t, m, 0, 0)

	if _, err := m.MergeFaces([]FaceID{f1.ID}, UVDiscard); !errors.Is(err, ErrMergeTooFew) {
		t.Errorf("expected ErrMergeTooFew, got %v", err)
	}
	if _, err := m.MergeFaces([]FaceID{f1.ID, 999}, UVDiscard); !errors.Is(err, ErrUnknownFace) {
		t.Errorf("expected ErrUnknownFace, got %v", err)
	}

	// quad on a different plane, z=1
	verts := []int{
		m.AddVertex(mgl64.Vec3{0, 0, 1}),
		m.AddVertex(mgl64.Vec3{1, 0, 1}),
		m.AddVertex(mgl64.Vec3{1, 1, 1}),
		m.AddVertex(mgl64.Vec3{0, 1, 1}),
	}
	f2, err := m.AddFace(verts, nil, "")
	if err != nil {
		t.Fatalf("AddFace failed: %v", err)
	}
	if _, err := m.MergeFaces([]FaceID{f1.ID, f2.ID}, UVDiscard); !errors.Is(err, ErrMergeMixedPlanes) {
		t.Errorf("expected ErrMergeMixedPlanes, got %v", err)
	}
	if m.FaceCount() != 2 {
		t.Errorf("failed merge mutated the mesh: %d faces", m.FaceCount())
	}
}
