package optimize

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/ryanmaugv1/voxilator/internal/mesh"
)

// PlaneKey identifies an infinite axis-aligned plane together with the
// direction its faces point. Two faces sharing a key are merge
// candidates; this is both necessary and sufficient.
type PlaneKey struct {
	NX, NY, NZ int
	Offset     float64
}

// String renders the key like "+y@2.0".
func (k PlaneKey) String() string {
	axis, sign := "?", "+"
	switch {
	case k.NX != 0:
		axis = "x"
		if k.NX < 0 {
			sign = "-"
		}
	case k.NY != 0:
		axis = "y"
		if k.NY < 0 {
			sign = "-"
		}
	case k.NZ != 0:
		axis = "z"
		if k.NZ < 0 {
			sign = "-"
		}
	}
	return fmt.Sprintf("%s%s@%.1f", sign, axis, k.Offset)
}

// axis returns the index of the key's normal axis.
func (k PlaneKey) axis() int {
	switch {
	case k.NX != 0:
		return 0
	case k.NY != 0:
		return 1
	default:
		return 2
	}
}

// roundTenth rounds to one decimal place, absorbing float drift between
// coordinates that a voxel importer meant to be identical.
func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

// planeKeyFor derives the plane identity of an axis-aligned face from
// its normal and centroid.
func planeKeyFor(host Host, f *mesh.Face) (PlaneKey, error) {
	nx := int(math.Round(f.Normal.X()))
	ny := int(math.Round(f.Normal.Y()))
	nz := int(math.Round(f.Normal.Z()))
	if abs(nx)+abs(ny)+abs(nz) != 1 {
		return PlaneKey{}, &DataConsistencyError{
			Face:   f.ID,
			Reason: fmt.Sprintf("normal %v is not axis-aligned", f.Normal),
		}
	}

	key := PlaneKey{NX: nx, NY: ny, NZ: nz}
	key.Offset = roundTenth(host.Centroid(f)[key.axis()])
	return key, nil
}

// projectCentroid drops the plane's normal axis from a centroid and
// rounds each remaining component to one decimal place:
// x-facing planes keep (y,z), y-facing keep (x,z), z-facing keep (x,y).
func projectCentroid(key PlaneKey, centroid mgl64.Vec3) (u, v float64) {
	switch key.axis() {
	case 0:
		u, v = centroid.Y(), centroid.Z()
	case 1:
		u, v = centroid.X(), centroid.Z()
	default:
		u, v = centroid.X(), centroid.Y()
	}
	return roundTenth(u), roundTenth(v)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
