// Package surface generates random point distributions on the surface of
// triangulated 3D meshes: area-uniform sampling and minimum-separation
// (Poisson-disk) sampling.
//
// A mesh is supplied in memory as parallel vertex and face buffers with
// 0-based indices. Distributions are immutable once built; sampling calls
// never fail and are safe for concurrent use as long as every goroutine
// brings its own rng.
package surface

import (
	"fmt"
	"math/rand"

	"github.com/royalcat/meshrand/internal/alias"
	"github.com/ungerik/go3d/vec3"
)

// SurfSample is one generated surface point.
type SurfSample struct {
	// Position of the point on the mesh surface.
	Position vec3.T
	// Triangle the point lies in.
	Triangle Triangle
	// FaceIndex of that triangle in the faces slice the distribution was
	// built from.
	FaceIndex int
}

// UniformSurface samples points uniformly with respect to surface area: a
// face is drawn with probability proportional to its area, then a point is
// drawn uniformly inside it.
type UniformSurface struct {
	triangles []Triangle
	faceIDs   []int
	dist      *alias.Table
	totalArea float32
}

// NewUniformSurface builds a distribution over the given mesh. Faces with
// degenerate (zero or non-finite) area are skipped silently; an error is
// returned only when a face index is out of range or no usable face
// remains.
func NewUniformSurface(verts []vec3.T, faces [][3]int, opts ...Option) (*UniformSurface, error) {
	options := loadOptions(opts...)

	triangles := make([]Triangle, 0, len(faces))
	faceIDs := make([]int, 0, len(faces))
	areas := make([]float32, 0, len(faces))
	totalArea := float32(0)
	skipped := 0
	for fi, f := range faces {
		for _, i := range f {
			if i < 0 || i >= len(verts) {
				return nil, fmt.Errorf("face %d references vertex %d of %d: %w", fi, i, len(verts), ErrVertexOutOfRange)
			}
		}
		tri, err := triangleFromPoints(verts[f[0]], verts[f[1]], verts[f[2]])
		if err != nil {
			skipped++
			continue
		}
		triangles = append(triangles, tri)
		faceIDs = append(faceIDs, fi)
		areas = append(areas, tri.Area)
		totalArea += tri.Area
	}
	if skipped > 0 {
		options.logger.Debug("skipped degenerate faces", "count", skipped)
	}
	if len(triangles) == 0 {
		return nil, ErrEmptyMesh
	}

	dist, err := alias.New(areas)
	if err != nil {
		return nil, fmt.Errorf("building area distribution: %w", err)
	}

	return &UniformSurface{
		triangles: triangles,
		faceIDs:   faceIDs,
		dist:      dist,
		totalArea: totalArea,
	}, nil
}

// Sample draws one point, uniform over the surface area. Deterministic
// given a deterministic rng stream.
func (s *UniformSurface) Sample(rng *rand.Rand) SurfSample {
	i := s.dist.Sample(rng)
	return SurfSample{
		Position:  s.triangles[i].SamplePoint(rng),
		Triangle:  s.triangles[i],
		FaceIndex: s.faceIDs[i],
	}
}

// TriangleCount returns the number of non-degenerate faces in the
// distribution.
func (s *UniformSurface) TriangleCount() int {
	return len(s.triangles)
}

// TotalArea returns the summed area of the non-degenerate faces.
func (s *UniformSurface) TotalArea() float32 {
	return s.totalArea
}
