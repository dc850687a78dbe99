package obj

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Write serializes the document to w. Geometry pools are written as-is;
// callers who dropped faces should compact their pools first so the file
// does not carry orphaned vertices.
func (f *File) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)

	for _, c := range f.Comments {
		fmt.Fprintf(bw, "# %s\n", c)
	}
	for _, lib := range f.MTLLibs {
		fmt.Fprintf(bw, "mtllib %s\n", lib)
	}

	for _, v := range f.Positions {
		fmt.Fprintf(bw, "v %s %s %s\n", ftoa(v.X()), ftoa(v.Y()), ftoa(v.Z()))
	}
	for _, vt := range f.TexCoords {
		fmt.Fprintf(bw, "vt %s %s\n", ftoa(vt.X()), ftoa(vt.Y()))
	}
	for _, vn := range f.Normals {
		fmt.Fprintf(bw, "vn %s %s %s\n", ftoa(vn.X()), ftoa(vn.Y()), ftoa(vn.Z()))
	}

	for _, o := range f.Objects {
		fmt.Fprintf(bw, "o %s\n", o.Name)
		material := ""
		for _, face := range o.Faces {
			if face.Material != material {
				material = face.Material
				if material != "" {
					fmt.Fprintf(bw, "usemtl %s\n", material)
				}
			}
			bw.WriteString("f")
			for _, c := range face.Corners {
				bw.WriteString(" ")
				bw.WriteString(cornerString(c))
			}
			bw.WriteString("\n")
		}
	}
	return bw.Flush()
}

// WriteFile serializes the document to a file, replacing any existing one.
func (f *File) WriteFile(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	errWrite := f.Write(file)
	if errClose := file.Close(); errClose != nil && errWrite == nil {
		errWrite = errClose
	}
	return errWrite
}

func cornerString(c Corner) string {
	v := strconv.Itoa(c.Vertex + 1)
	switch {
	case c.UV >= 0 && c.Normal >= 0:
		return v + "/" + strconv.Itoa(c.UV+1) + "/" + strconv.Itoa(c.Normal+1)
	case c.UV >= 0:
		return v + "/" + strconv.Itoa(c.UV+1)
	case c.Normal >= 0:
		return v + "//" + strconv.Itoa(c.Normal+1)
	default:
		return v
	}
}

// ftoa formats a coordinate compactly, without trailing zero noise.
func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
