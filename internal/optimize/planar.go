package optimize

import (
	"math"

	"github.com/ryanmaugv1/voxilator/internal/mesh"
)

// PlanarGroup lays the faces of one plane out on a dense 2D grid indexed
// by projected centroid. Nil cells are holes: positions where the voxel
// mesh has no face (cavities, irregular outlines). Holes are what lets
// the scanner skip non-rectangular regions.
type PlanarGroup struct {
	Key   PlaneKey
	Cells [][]*mesh.Face
}

// Rows returns the grid height.
func (g *PlanarGroup) Rows() int {
	return len(g.Cells)
}

// Cols returns the grid width.
func (g *PlanarGroup) Cols() int {
	if len(g.Cells) == 0 {
		return 0
	}
	return len(g.Cells[0])
}

// BuildPlanarGroups buckets faces by plane identity and lays every
// bucket out as a dense grid. Groups come back in first-seen order so a
// given mesh always produces the same scan sequence; map iteration would
// reshuffle it run to run.
func BuildPlanarGroups(host Host, faces []*mesh.Face) ([]*PlanarGroup, error) {
	type bucket struct {
		key   PlaneKey
		faces []*mesh.Face
	}
	var buckets []*bucket
	byKey := make(map[PlaneKey]*bucket)

	for _, f := range faces {
		key, err := planeKeyFor(host, f)
		if err != nil {
			return nil, err
		}
		b := byKey[key]
		if b == nil {
			b = &bucket{key: key}
			byKey[key] = b
			buckets = append(buckets, b)
		}
		b.faces = append(b.faces, f)
	}

	groups := make([]*PlanarGroup, 0, len(buckets))
	for _, b := range buckets {
		g, err := layoutGroup(host, b.key, b.faces)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, nil
}

// layoutGroup projects each face of one plane into grid coordinates,
// normalized so the minimum projected coordinate maps to index zero.
func layoutGroup(host Host, key PlaneKey, faces []*mesh.Face) (*PlanarGroup, error) {
	type projected struct {
		face *mesh.Face
		u, v float64
	}
	coords := make([]projected, len(faces))

	minU, maxU := math.Inf(1), math.Inf(-1)
	minV, maxV := math.Inf(1), math.Inf(-1)
	for i, f := range faces {
		u, v := projectCentroid(key, host.Centroid(f))
		coords[i] = projected{face: f, u: u, v: v}
		minU, maxU = math.Min(minU, u), math.Max(maxU, u)
		minV, maxV = math.Min(minV, v), math.Max(maxV, v)
	}

	rows := int(math.Round(maxV-minV)) + 1
	cols := int(math.Round(maxU-minU)) + 1
	cells := make([][]*mesh.Face, rows)
	for r := range cells {
		cells[r] = make([]*mesh.Face, cols)
	}

	for _, p := range coords {
		row := int(math.Round(p.v - minV))
		col := int(math.Round(p.u - minU))
		if cells[row][col] != nil {
			return nil, &DataConsistencyError{
				Key:  key,
				Row:  row,
				Col:  col,
				Face: p.face.ID,
			}
		}
		cells[row][col] = p.face
	}

	return &PlanarGroup{Key: key, Cells: cells}, nil
}
