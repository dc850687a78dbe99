// Package optimize reduces the polygon count of voxel-style quad meshes.
// It provides two passes: a filter pass that deletes faces by selection
// predicate, and a scale pass that merges contiguous coplanar faces
// forming rectangular blocks into single larger faces.
//
// Both passes operate on a Host, the capability surface of whatever owns
// the mesh data. The package never stores mesh state of its own: it
// borrows faces for the duration of one pass, hands merge and delete
// instructions back to the host, and returns counts.
package optimize

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/ryanmaugv1/voxilator/internal/mesh"
)

// Host is the mesh-editing capability set the passes depend on.
// *mesh.Mesh satisfies it; tests may substitute their own.
type Host interface {
	// Faces returns the live faces in a stable order.
	Faces() []*mesh.Face
	// Centroid returns the mean of a face's corner positions.
	Centroid(f *mesh.Face) mgl64.Vec3
	// DeleteFaces removes faces by ID, returning how many were deleted.
	DeleteFaces(ids []mesh.FaceID) int
	// MergeFaces collapses a rectangular coplanar block into one face.
	MergeFaces(ids []mesh.FaceID, uv mesh.UVPolicy) (mesh.FaceID, error)
}

// Options configures a scale pass.
type Options struct {
	// ScaleFactor is the window size seed; blocks of ScaleFactor by
	// ScaleFactor faces merge under the square shape. Minimum 2.
	ScaleFactor int
	// Shape picks square or strip windows.
	Shape WindowShape
	// SelectedOnly limits merging to selected faces; unselected faces
	// act as holes.
	SelectedOnly bool
	// PreserveUV keeps the merged faces' texture footprint instead of
	// dropping coordinates.
	PreserveUV bool
}

// DefaultOptions mirror the host-side property defaults.
func DefaultOptions() Options {
	return Options{
		ScaleFactor: 2,
		Shape:       WindowSquare,
	}
}

// ScaleFaces merges rectangular blocks of coplanar faces into single
// faces. The mesh must be all quads; the window derives once from the
// options; every planar group is scanned in deterministic order.
// Returns the total number of merge operations performed. A mesh where
// nothing fits the window yields zero merges and no error.
func ScaleFaces(host Host, opts Options) (int, error) {
	faces := host.Faces()
	if err := checkQuadTopology(faces); err != nil {
		return 0, err
	}

	win, err := DeriveWindow(opts.ScaleFactor, opts.Shape)
	if err != nil {
		return 0, err
	}

	if opts.SelectedOnly {
		selected := make([]*mesh.Face, 0, len(faces))
		for _, f := range faces {
			if f.Selected {
				selected = append(selected, f)
			}
		}
		faces = selected
	}

	groups, err := BuildPlanarGroups(host, faces)
	if err != nil {
		return 0, err
	}

	uv := mesh.UVDiscard
	if opts.PreserveUV {
		uv = mesh.UVUnion
	}

	total := 0
	for _, g := range groups {
		n, err := scanGroup(host, g, win, uv)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// checkQuadTopology verifies the shared precondition of both passes:
// every face has exactly four vertices.
func checkQuadTopology(faces []*mesh.Face) error {
	for _, f := range faces {
		if f.VertexCount() != 4 {
			return &TopologyError{Face: f.ID, VertexCount: f.VertexCount()}
		}
	}
	return nil
}
