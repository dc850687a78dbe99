package mesh

import (
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// DefaultWeldThreshold matches the distance below which two vertices are
// considered duplicates of each other after merges and imports.
const DefaultWeldThreshold = 0.0001

// WeldVertices collapses vertices closer than threshold into one and
// rewrites face indices accordingly. Returns the number of vertices
// removed. Degenerate faces cannot result from welding rectangular
// voxel geometry, so faces are left untouched beyond index rewrites.
func (m *Mesh) WeldVertices(threshold float64) int {
	if threshold <= 0 {
		threshold = DefaultWeldThreshold
	}

	// quantize positions so near-duplicates land in the same bucket
	type cell [3]int64
	quantize := func(p mgl64.Vec3) cell {
		return cell{
			int64(math.Floor(p.X()/threshold + 0.5)),
			int64(math.Floor(p.Y()/threshold + 0.5)),
			int64(math.Floor(p.Z()/threshold + 0.5)),
		}
	}

	canonical := make(map[cell]int, len(m.positions))
	remap := make([]int, len(m.positions))
	welded := 0
	for i, p := range m.positions {
		key := quantize(p)
		if first, ok := canonical[key]; ok {
			remap[i] = first
			welded++
			continue
		}
		canonical[key] = i
		remap[i] = i
	}
	if welded == 0 {
		return 0
	}

	for _, f := range m.faces {
		for i, vi := range f.Verts {
			f.Verts[i] = remap[vi]
		}
	}
	m.compactVertices()
	return welded
}

// RecenterOrigin translates the mesh so its area-weighted surface
// centroid sits at the origin. Returns the offset that was applied.
func (m *Mesh) RecenterOrigin() mgl64.Vec3 {
	var weighted mgl64.Vec3
	total := 0.0
	for _, f := range m.faces {
		area := m.Area(f)
		weighted = weighted.Add(m.Centroid(f).Mul(area))
		total += area
	}
	if total == 0 {
		return mgl64.Vec3{}
	}
	center := weighted.Mul(1.0 / total)
	for i := range m.positions {
		m.positions[i] = m.positions[i].Sub(center)
	}
	return center
}

// Join combines several meshes into one. Face IDs are reassigned; the
// joined name concatenates the part names.
func Join(parts ...*Mesh) *Mesh {
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if p.Name != "" {
			names = append(names, p.Name)
		}
	}
	name := strings.Join(names, "+")
	if name == "" {
		name = "joined"
	}

	joined := New(name)
	for _, p := range parts {
		vertOff := len(joined.positions)
		uvOff := len(joined.texcoords)
		joined.positions = append(joined.positions, p.positions...)
		joined.texcoords = append(joined.texcoords, p.texcoords...)
		for _, f := range p.faces {
			verts := make([]int, len(f.Verts))
			for i, vi := range f.Verts {
				verts[i] = vi + vertOff
			}
			var uvs []int
			if f.HasUV() {
				uvs = make([]int, len(f.UVs))
				for i, ti := range f.UVs {
					uvs[i] = ti + uvOff
				}
			}
			nf, err := joined.AddFace(verts, uvs, f.Material)
			if err != nil {
				// source faces were valid, offsets keep them valid
				continue
			}
			nf.Selected = f.Selected
		}
	}
	return joined
}

// compactVertices drops pool entries no face references and remaps face
// indices. Texture coordinates are compacted the same way.
func (m *Mesh) compactVertices() {
	usedV := make([]bool, len(m.positions))
	usedT := make([]bool, len(m.texcoords))
	for _, f := range m.faces {
		for _, vi := range f.Verts {
			usedV[vi] = true
		}
		for _, ti := range f.UVs {
			usedT[ti] = true
		}
	}

	remapV := make([]int, len(m.positions))
	packedV := m.positions[:0]
	for i, p := range m.positions {
		if !usedV[i] {
			remapV[i] = -1
			continue
		}
		remapV[i] = len(packedV)
		packedV = append(packedV, p)
	}
	m.positions = packedV

	remapT := make([]int, len(m.texcoords))
	packedT := m.texcoords[:0]
	for i, t := range m.texcoords {
		if !usedT[i] {
			remapT[i] = -1
			continue
		}
		remapT[i] = len(packedT)
		packedT = append(packedT, t)
	}
	m.texcoords = packedT

	for _, f := range m.faces {
		for i, vi := range f.Verts {
			f.Verts[i] = remapV[vi]
		}
		for i, ti := range f.UVs {
			f.UVs[i] = remapT[ti]
		}
	}
}
