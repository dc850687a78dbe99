package optimize

import (
	"github.com/ryanmaugv1/voxilator/internal/mesh"
)

// scanGroup slides the window across one planar grid left-to-right,
// top-to-bottom and merges every fully-populated block whose faces have
// not been consumed by an earlier merge in this pass. Scan order breaks
// ties, so results are deterministic. Returns the number of merges.
func scanGroup(host Host, g *PlanarGroup, win Window, uv mesh.UVPolicy) (int, error) {
	rows, cols := g.Rows(), g.Cols()

	// zero dimensions are strip markers meaning "the whole grid"
	width, height := win.Width, win.Height
	if width == 0 {
		width = cols
	}
	if height == 0 {
		height = rows
	}
	if width > cols || height > rows || width < 1 || height < 1 {
		return 0, nil
	}

	consumed := make([][]bool, rows)
	for r := range consumed {
		consumed[r] = make([]bool, cols)
	}

	merges := 0
	for r := 0; r+height <= rows; r++ {
		for c := 0; c+width <= cols; c++ {
			if !blockMergeable(g, consumed, r, c, width, height) {
				continue
			}

			ids := make([]mesh.FaceID, 0, width*height)
			for br := r; br < r+height; br++ {
				for bc := c; bc < c+width; bc++ {
					ids = append(ids, g.Cells[br][bc].ID)
					consumed[br][bc] = true
				}
			}
			if _, err := host.MergeFaces(ids, uv); err != nil {
				return merges, err
			}
			merges++

			// the rest of this block's columns can't start a new match
			c += width - 1
		}
	}
	return merges, nil
}

// blockMergeable reports whether the width x height block anchored at
// (r,c) is entirely populated and untouched by earlier merges.
func blockMergeable(g *PlanarGroup, consumed [][]bool, r, c, width, height int) bool {
	for br := r; br < r+height; br++ {
		for bc := c; bc < c+width; bc++ {
			if g.Cells[br][bc] == nil || consumed[br][bc] {
				return false
			}
		}
	}
	return true
}
