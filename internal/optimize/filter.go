package optimize

import (
	"fmt"

	"github.com/ryanmaugv1/voxilator/internal/mesh"
)

// FilterStrategy picks which side of the selection gets removed.
type FilterStrategy int

const (
	// FilterUnselected removes every face that is not selected, keeping
	// only what the user marked. This is the usual voxel cleanup: select
	// the visible shell, purge the rest.
	FilterUnselected FilterStrategy = iota
	// FilterSelected removes the selected faces.
	FilterSelected
)

// String returns the strategy's config-file spelling.
func (s FilterStrategy) String() string {
	switch s {
	case FilterUnselected:
		return "unselected"
	case FilterSelected:
		return "selected"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// ParseFilterStrategy parses a strategy name as spelled in config files
// and CLI flags.
func ParseFilterStrategy(s string) (FilterStrategy, error) {
	switch s {
	case "unselected":
		return FilterUnselected, nil
	case "selected":
		return FilterSelected, nil
	default:
		return 0, &ConfigurationError{Reason: fmt.Sprintf("unknown filter strategy %q", s)}
	}
}

// Matches reports whether the strategy marks a face for deletion.
func (s FilterStrategy) Matches(f *mesh.Face) bool {
	if s == FilterSelected {
		return f.Selected
	}
	return !f.Selected
}

// FilterFaces deletes every face matching the strategy's predicate.
// The full-quad precondition is checked before any deletion, so a bad
// mesh is left untouched. Returns the number of faces removed. Running
// the same strategy twice is a no-op the second time.
func FilterFaces(host Host, strategy FilterStrategy) (int, error) {
	faces := host.Faces()
	if err := checkQuadTopology(faces); err != nil {
		return 0, err
	}

	var doomed []mesh.FaceID
	for _, f := range faces {
		if strategy.Matches(f) {
			doomed = append(doomed, f.ID)
		}
	}
	if len(doomed) == 0 {
		return 0, nil
	}
	return host.DeleteFaces(doomed), nil
}
