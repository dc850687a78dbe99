package mesh

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/ryanmaugv1/voxilator/pkg/obj"
)

// FromOBJ builds one mesh per OBJ object. Each mesh gets private copies
// of the geometry it references, so objects can be edited independently.
// Face normals are recomputed from winding; any normals stored in the
// file are ignored. A face keeps texture coordinates only when every
// corner declares one.
func FromOBJ(file *obj.File) ([]*Mesh, error) {
	meshes := make([]*Mesh, 0, len(file.Objects))
	for _, o := range file.Objects {
		m := New(o.Name)
		vertMap := make(map[int]int)
		uvMap := make(map[int]int)

		for _, face := range o.Faces {
			verts := make([]int, len(face.Corners))
			uvs := make([]int, 0, len(face.Corners))
			hasUV := true
			for _, c := range face.Corners {
				if c.UV < 0 {
					hasUV = false
					break
				}
			}
			for i, c := range face.Corners {
				vi, ok := vertMap[c.Vertex]
				if !ok {
					vi = m.AddVertex(file.Positions[c.Vertex])
					vertMap[c.Vertex] = vi
				}
				verts[i] = vi
				if hasUV {
					ti, ok := uvMap[c.UV]
					if !ok {
						ti = m.AddTexCoord(file.TexCoords[c.UV])
						uvMap[c.UV] = ti
					}
					uvs = append(uvs, ti)
				}
			}
			if !hasUV {
				uvs = nil
			}
			if _, err := m.AddFace(verts, uvs, face.Material); err != nil {
				return nil, err
			}
		}
		meshes = append(meshes, m)
	}
	return meshes, nil
}

// ToOBJ serializes meshes into a single OBJ document. Unreferenced pool
// entries are compacted away and per-face normals are emitted, shared
// between faces pointing the same way.
func ToOBJ(meshes ...*Mesh) *obj.File {
	file := &obj.File{}
	normalIdx := make(map[mgl64.Vec3]int)

	for _, m := range meshes {
		m.compactVertices()

		vertOff := len(file.Positions)
		uvOff := len(file.TexCoords)
		file.Positions = append(file.Positions, m.positions...)
		file.TexCoords = append(file.TexCoords, m.texcoords...)

		o := &obj.Object{Name: m.Name}
		for _, f := range m.faces {
			ni, ok := normalIdx[f.Normal]
			if !ok {
				ni = len(file.Normals)
				file.Normals = append(file.Normals, f.Normal)
				normalIdx[f.Normal] = ni
			}

			corners := make([]obj.Corner, len(f.Verts))
			for i, vi := range f.Verts {
				corners[i] = obj.Corner{Vertex: vi + vertOff, UV: -1, Normal: ni}
				if f.HasUV() {
					corners[i].UV = f.UVs[i] + uvOff
				}
			}
			o.Faces = append(o.Faces, obj.Face{Material: f.Material, Corners: corners})
		}
		file.Objects = append(file.Objects, o)
	}
	return file
}
