// Package objfile reads Wavefront OBJ geometry and writes generated point
// clouds. Only the subset needed for surface sampling is parsed: vertex
// positions and faces. Polygon faces are fan-triangulated.
package objfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/ungerik/go3d/vec3"
)

// Load parses OBJ data into parallel vertex and face buffers with 0-based
// indices, as consumed by the surface package.
func Load(r io.Reader) ([]vec3.T, [][3]int, error) {
	var verts []vec3.T
	var faces [][3]int

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, nil, fmt.Errorf("line %d: vertex needs 3 coordinates", line)
			}
			var v vec3.T
			for i := 0; i < 3; i++ {
				f, err := strconv.ParseFloat(fields[i+1], 32)
				if err != nil {
					return nil, nil, fmt.Errorf("line %d: %w", line, err)
				}
				v[i] = float32(f)
			}
			verts = append(verts, v)
		case "f":
			if len(fields) < 4 {
				return nil, nil, fmt.Errorf("line %d: face needs at least 3 vertices", line)
			}
			idx := make([]int, 0, len(fields)-1)
			for _, field := range fields[1:] {
				i, err := parseFaceIndex(field, len(verts))
				if err != nil {
					return nil, nil, fmt.Errorf("line %d: %w", line, err)
				}
				idx = append(idx, i)
			}
			for i := 1; i+1 < len(idx); i++ {
				faces = append(faces, [3]int{idx[0], idx[i], idx[i+1]})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}
	return verts, faces, nil
}

// parseFaceIndex handles the v, v/vt, v//vn and v/vt/vn forms. OBJ indices
// are 1-based; negative indices count back from the last vertex read.
func parseFaceIndex(field string, vertCount int) (int, error) {
	if i := strings.IndexByte(field, '/'); i >= 0 {
		field = field[:i]
	}
	i, err := strconv.Atoi(field)
	if err != nil {
		return 0, fmt.Errorf("bad face index %q: %w", field, err)
	}
	switch {
	case i > 0 && i <= vertCount:
		return i - 1, nil
	case i < 0 && -i <= vertCount:
		return vertCount + i, nil
	}
	return 0, fmt.Errorf("face index %d out of range (%d vertices read)", i, vertCount)
}

// LoadFile loads an OBJ file, transparently decompressing ".zst" inputs.
func LoadFile(name string) ([]vec3.T, [][3]int, error) {
	r, err := openReader(name)
	if err != nil {
		return nil, nil, err
	}
	defer r.Close()
	return Load(r)
}

func openReader(name string) (io.ReadCloser, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("can`t open file error: %s", err.Error())
	}

	if strings.HasSuffix(name, ".zst") {
		dec, err := zstd.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("can`t create zstd reader: %s", err.Error())
		}

		return dec.IOReadCloser(), nil
	}

	return file, nil
}

// WritePoints writes one "x y z" line per point.
func WritePoints(w io.Writer, points []vec3.T) error {
	bw := bufio.NewWriter(w)
	for _, p := range points {
		if _, err := fmt.Fprintf(bw, "%g %g %g\n", p[0], p[1], p[2]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WritePointsFile writes points to a file, compressing when the name ends
// in ".zst".
func WritePointsFile(name string, points []vec3.T) error {
	file, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("can`t create file error: %s", err.Error())
	}
	defer file.Close()

	if strings.HasSuffix(name, ".zst") {
		enc, err := zstd.NewWriter(file)
		if err != nil {
			return fmt.Errorf("can`t create zstd writer: %s", err.Error())
		}
		if err := WritePoints(enc, points); err != nil {
			enc.Close()
			return err
		}
		return enc.Close()
	}

	return WritePoints(file, points)
}
