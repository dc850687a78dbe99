package obj

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Parse errors.
var (
	ErrFaceTooShort  = errors.New("face declares fewer than 3 corners")
	ErrIndexRange    = errors.New("index out of range")
	ErrBadStatement  = errors.New("malformed statement")
	ErrUnknownPrefix = errors.New("unsupported statement")
)

// ParseFile reads and parses an OBJ file from disk.
func ParseFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads an OBJ document from r. Faces declared before any "o" or
// "g" statement are collected into a default object named "default".
func Parse(r io.Reader) (*File, error) {
	dest := &File{}

	var (
		current  *Object
		material string
		linenum  int
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		linenum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		prefix, value := splitStatement(line)

		switch prefix {
		case "#":
			// file-level comments only; per-object comments usually
			// reference counts that become stale after processing
			if current == nil {
				dest.Comments = append(dest.Comments, value)
			}

		case "mtllib":
			dest.MTLLibs = append(dest.MTLLibs, value)

		case "usemtl":
			material = value

		case "v":
			vec, err := parseVec3(value)
			if err != nil {
				return nil, lineError(linenum, err)
			}
			dest.Positions = append(dest.Positions, vec)

		case "vt":
			vec, err := parseVec2(value)
			if err != nil {
				return nil, lineError(linenum, err)
			}
			dest.TexCoords = append(dest.TexCoords, vec)

		case "vn":
			vec, err := parseVec3(value)
			if err != nil {
				return nil, lineError(linenum, err)
			}
			dest.Normals = append(dest.Normals, vec)

		case "o", "g":
			current = dest.createObject(value)

		case "f":
			if current == nil {
				current = dest.createObject("default")
			}
			face, err := dest.parseFace(value, material)
			if err != nil {
				return nil, lineError(linenum, err)
			}
			current.Faces = append(current.Faces, face)

		case "s":
			// smoothing groups carry no information for flat voxel
			// shading; accepted and dropped

		default:
			return nil, lineError(linenum, fmt.Errorf("%w: %q", ErrUnknownPrefix, prefix))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return dest, nil
}

func lineError(linenum int, err error) error {
	return fmt.Errorf("line %d: %w", linenum, err)
}

func splitStatement(line string) (prefix, value string) {
	if strings.HasPrefix(line, "#") {
		return "#", strings.TrimSpace(strings.TrimPrefix(line, "#"))
	}
	if i := strings.IndexAny(line, " \t"); i != -1 {
		return line[:i], strings.TrimSpace(line[i+1:])
	}
	return line, ""
}

func parseVec3(value string) (mgl64.Vec3, error) {
	fields := strings.Fields(value)
	if len(fields) < 3 {
		return mgl64.Vec3{}, fmt.Errorf("%w: want 3 components, got %d", ErrBadStatement, len(fields))
	}
	var vec mgl64.Vec3
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return mgl64.Vec3{}, fmt.Errorf("%w: %v", ErrBadStatement, err)
		}
		vec[i] = v
	}
	return vec, nil
}

func parseVec2(value string) (mgl64.Vec2, error) {
	fields := strings.Fields(value)
	if len(fields) < 2 {
		return mgl64.Vec2{}, fmt.Errorf("%w: want 2 components, got %d", ErrBadStatement, len(fields))
	}
	var vec mgl64.Vec2
	for i := 0; i < 2; i++ {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return mgl64.Vec2{}, fmt.Errorf("%w: %v", ErrBadStatement, err)
		}
		vec[i] = v
	}
	return vec, nil
}

// parseFace parses one "f" statement. Corner specs are v, v/vt, v//vn
// or v/vt/vn with 1-based indices; negative indices count back from the
// end of the respective pool.
func (f *File) parseFace(value, material string) (Face, error) {
	specs := strings.Fields(value)
	if len(specs) < 3 {
		return Face{}, ErrFaceTooShort
	}

	face := Face{Material: material, Corners: make([]Corner, 0, len(specs))}
	for _, spec := range specs {
		corner := Corner{UV: -1, Normal: -1}
		parts := strings.Split(spec, "/")
		if len(parts) > 3 {
			return Face{}, fmt.Errorf("%w: corner %q", ErrBadStatement, spec)
		}

		idx, err := f.resolveIndex(parts[0], len(f.Positions))
		if err != nil {
			return Face{}, fmt.Errorf("vertex %q: %w", spec, err)
		}
		corner.Vertex = idx

		if len(parts) > 1 && parts[1] != "" {
			idx, err := f.resolveIndex(parts[1], len(f.TexCoords))
			if err != nil {
				return Face{}, fmt.Errorf("uv %q: %w", spec, err)
			}
			corner.UV = idx
		}
		if len(parts) > 2 && parts[2] != "" {
			idx, err := f.resolveIndex(parts[2], len(f.Normals))
			if err != nil {
				return Face{}, fmt.Errorf("normal %q: %w", spec, err)
			}
			corner.Normal = idx
		}
		face.Corners = append(face.Corners, corner)
	}
	return face, nil
}

func (f *File) resolveIndex(s string, poolLen int) (int, error) {
	raw, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBadStatement, err)
	}
	idx := raw - 1
	if raw < 0 {
		idx = poolLen + raw
	}
	if idx < 0 || idx >= poolLen {
		return 0, fmt.Errorf("%w: %d (pool size %d)", ErrIndexRange, raw, poolLen)
	}
	return idx, nil
}
