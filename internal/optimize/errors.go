package optimize

import (
	"fmt"

	"github.com/ryanmaugv1/voxilator/internal/mesh"
)

// Severity classifies how far an error's damage reaches.
type Severity int

const (
	// SeverityObject aborts the current object's operation; other
	// objects in the batch keep processing.
	SeverityObject Severity = iota
	// SeverityConfig marks a caller contract violation that no object
	// can recover from.
	SeverityConfig
)

// String returns a human-readable severity tag.
func (s Severity) String() string {
	switch s {
	case SeverityObject:
		return "object"
	case SeverityConfig:
		return "config"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// TopologyError reports a face that breaks the full-quad precondition.
// Raised before any mutation, so the operation is all-or-nothing for the
// affected object.
type TopologyError struct {
	Face        mesh.FaceID
	VertexCount int
}

func (e *TopologyError) Error() string {
	return fmt.Sprintf("face %d has %d vertices, quad topology requires 4", e.Face, e.VertexCount)
}

// Severity returns the error's blast radius.
func (e *TopologyError) Severity() Severity {
	return SeverityObject
}

// ConfigurationError reports an unusable window shape or scale factor.
// These come from callers, not mesh data.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "invalid scaling configuration: " + e.Reason
}

// Severity returns the error's blast radius.
func (e *ConfigurationError) Severity() Severity {
	return SeverityConfig
}

// DataConsistencyError reports geometry that violates the voxel-grid
// assumptions: a non-axis-aligned normal, or two faces projecting onto
// the same grid cell of one plane.
type DataConsistencyError struct {
	Key    PlaneKey
	Row    int
	Col    int
	Face   mesh.FaceID
	Reason string
}

func (e *DataConsistencyError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("inconsistent mesh data: face %d: %s", e.Face, e.Reason)
	}
	return fmt.Sprintf("inconsistent mesh data: faces %d and the occupant of cell (%d,%d) overlap on plane %s",
		e.Face, e.Row, e.Col, e.Key)
}

// Severity returns the error's blast radius.
func (e *DataConsistencyError) Severity() Severity {
	return SeverityObject
}
