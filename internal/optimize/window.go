package optimize

import (
	"fmt"
)

// WindowShape selects the proportions of the merge scan window.
type WindowShape int

const (
	// WindowSquare merges factor x factor blocks.
	WindowSquare WindowShape = iota
	// WindowHorizontalStrip merges blocks spanning the group's full
	// width, factor rows tall.
	WindowHorizontalStrip
	// WindowVerticalStrip merges blocks spanning the group's full
	// height, factor columns wide.
	WindowVerticalStrip
)

// String returns the shape's config-file spelling.
func (s WindowShape) String() string {
	switch s {
	case WindowSquare:
		return "square"
	case WindowHorizontalStrip:
		return "horizontal-strip"
	case WindowVerticalStrip:
		return "vertical-strip"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// ParseWindowShape parses a shape name as spelled in config files and
// CLI flags.
func ParseWindowShape(s string) (WindowShape, error) {
	switch s {
	case "square":
		return WindowSquare, nil
	case "horizontal-strip", "horizontal":
		return WindowHorizontalStrip, nil
	case "vertical-strip", "vertical":
		return WindowVerticalStrip, nil
	default:
		return 0, &ConfigurationError{Reason: fmt.Sprintf("unknown window shape %q", s)}
	}
}

// Window is the block size the scanner looks for. A zero dimension is a
// strip marker: the scanner substitutes the group's full extent along
// that axis.
type Window struct {
	Width  int
	Height int
}

// DeriveWindow computes the scan window from the scale factor and shape
// selector. Computed once per scaling invocation and read-only after.
func DeriveWindow(scaleFactor int, shape WindowShape) (Window, error) {
	if scaleFactor < 2 {
		return Window{}, &ConfigurationError{
			Reason: fmt.Sprintf("scale factor must be at least 2, got %d", scaleFactor),
		}
	}
	switch shape {
	case WindowSquare:
		return Window{Width: scaleFactor, Height: scaleFactor}, nil
	case WindowHorizontalStrip:
		return Window{Width: 0, Height: scaleFactor}, nil
	case WindowVerticalStrip:
		return Window{Width: scaleFactor, Height: 0}, nil
	default:
		return Window{}, &ConfigurationError{
			Reason: fmt.Sprintf("unsupported window shape %d", int(shape)),
		}
	}
}
