package surface

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/royalcat/meshrand/meshgraph"
	"github.com/ungerik/go3d/vec3"
)

// PoissonDiskSurface generates blue-noise point sets on a mesh surface: no
// two returned points are closer than the separation radius.
//
// Construction refines a copy of the mesh until every edge is at most the
// radius long. The refined mesh's own adjacency then serves as the spatial
// index for conflict checks: a candidate only has to be compared against
// points held by triangles reachable from its own triangle through
// sphere-intersecting neighbors, so the per-candidate cost stays local
// instead of scanning every accepted point.
type PoissonDiskSurface struct {
	mesh    *meshgraph.Mesh
	sampler *UniformSurface
	// One triangle per refined face, aligned with mesh face indices.
	// valid[i] is false for faces with degenerate area; they are never
	// sampled and never expanded during the conflict search.
	tris  []Triangle
	valid []bool
	r     float32

	logger *slog.Logger
}

// NewPoissonDiskSurface refines a copy of the mesh to the separation
// radius r and builds the uniform candidate distribution over the refined
// faces.
func NewPoissonDiskSurface(r float32, verts []vec3.T, faces [][3]int, opts ...Option) (*PoissonDiskSurface, error) {
	options := loadOptions(opts...)
	log := options.logger

	mesh, err := meshgraph.New(verts, faces)
	if err != nil {
		return nil, fmt.Errorf("building mesh graph: %w", err)
	}
	log.Info("refining mesh", "radius", r, "faces", len(mesh.Faces))
	mesh.Refine(r)
	log.Info("mesh refined", "faces", len(mesh.Faces), "vertices", len(mesh.Verts))

	sampler, err := NewUniformSurface(mesh.Verts, mesh.Faces, opts...)
	if err != nil {
		return nil, err
	}

	tris := make([]Triangle, len(mesh.Faces))
	valid := make([]bool, len(mesh.Faces))
	for fi, f := range mesh.Faces {
		tri, err := triangleFromPoints(mesh.Verts[f[0]], mesh.Verts[f[1]], mesh.Verts[f[2]])
		if err != nil {
			continue
		}
		tris[fi] = tri
		valid[fi] = true
	}

	return &PoissonDiskSurface{
		mesh:    mesh,
		sampler: sampler,
		tris:    tris,
		valid:   valid,
		r:       r,
		logger:  log,
	}, nil
}

// Radius returns the minimum separation between returned points.
func (s *PoissonDiskSurface) Radius() float32 {
	return s.r
}

// FaceCount returns the number of faces in the refined mesh.
func (s *PoissonDiskSurface) FaceCount() int {
	return len(s.mesh.Faces)
}

// SampleBlueNoise runs dart throwing until maxSamples points are accepted
// or retryLimit candidates in a row have been rejected. Exhausting the
// retry budget is normal termination, not an error: the points accepted so
// far are returned.
//
// Points are returned grouped by the refined face they were accepted on,
// in face-index order, each group in acceptance order. Callers must not
// assume any spatial or temporal ordering beyond that.
func (s *PoissonDiskSurface) SampleBlueNoise(retryLimit, maxSamples int, rng *rand.Rand) []vec3.T {
	buckets := make([][]vec3.T, len(s.tris))

	accepted := 0
	failures := 0
	for failures < retryLimit && accepted < maxSamples {
		sample := s.sampler.Sample(rng)
		if s.conflicts(sample.Position, sample.FaceIndex, buckets) {
			failures++
			continue
		}
		buckets[sample.FaceIndex] = append(buckets[sample.FaceIndex], sample.Position)
		accepted++
		failures = 0
	}
	s.logger.Debug("blue noise sampling finished", "accepted", accepted, "consecutiveFailures", failures)

	out := make([]vec3.T, 0, accepted)
	for _, b := range buckets {
		out = append(out, b...)
	}
	return out
}

// conflicts reports whether a previously accepted point lies within the
// separation radius of position. The search walks the adjacency graph
// outward from the candidate's own face and expands only faces whose
// triangles intersect the candidate's sphere: with every edge at most r
// long, a non-intersecting face cannot sit on a path between two
// intersecting ones, so pruning it cannot hide a conflict.
func (s *PoissonDiskSurface) conflicts(position vec3.T, face int, buckets [][]vec3.T) bool {
	rr := s.r * s.r

	queue := []int{face}
	visited := map[int]struct{}{face: {}}
	for len(queue) > 0 {
		fi := queue[0]
		queue = queue[1:]
		if !s.valid[fi] || !s.tris[fi].intersectsSphere(position, s.r) {
			continue
		}
		for i := range buckets[fi] {
			d := vec3.Sub(&buckets[fi][i], &position)
			if d.LengthSqr() < rr {
				return true
			}
		}
		s.mesh.Neighbors(fi, func(n int) bool {
			if _, ok := visited[n]; !ok {
				visited[n] = struct{}{}
				queue = append(queue, n)
			}
			return true
		})
	}
	return false
}
