// Package obj reads and writes a practical subset of the Wavefront OBJ
// format: vertices, texture coordinates, normals, polygonal faces and
// object/group/material statements. Freeform geometry (curves, surfaces)
// is not supported.
package obj

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Corner is one vertex reference of a face. Indices are 0-based into the
// owning File's pools; UV and Normal are -1 when the face statement did
// not declare them.
type Corner struct {
	Vertex int
	UV     int
	Normal int
}

// Face is a single polygon. The OBJ format allows any vertex count >= 3;
// consumers that require quads must validate themselves.
type Face struct {
	Material string
	Corners  []Corner
}

// Object is a named group of faces ("o" or "g" statement).
type Object struct {
	Name  string
	Faces []Face
}

// File is a parsed OBJ document. Geometry pools are shared by all
// objects, as in the file format itself.
type File struct {
	Comments  []string
	MTLLibs   []string
	Positions []mgl64.Vec3
	TexCoords []mgl64.Vec2
	Normals   []mgl64.Vec3
	Objects   []*Object
}

// Object returns the object with the given name, or nil.
func (f *File) Object(name string) *Object {
	for _, o := range f.Objects {
		if o.Name == name {
			return o
		}
	}
	return nil
}

// FaceCount returns the total face count across all objects.
func (f *File) FaceCount() int {
	n := 0
	for _, o := range f.Objects {
		n += len(o.Faces)
	}
	return n
}

// createObject appends a new named object and makes it current.
func (f *File) createObject(name string) *Object {
	o := &Object{Name: name}
	f.Objects = append(f.Objects, o)
	return o
}
