// Package meshgraph maintains a triangle mesh together with its
// edge-to-face adjacency and refines it in place by edge subdivision.
//
// Vertices and faces are addressed by index into append-only buffers, so a
// face index stays valid across splits even though the face itself may be
// rewritten in place. An edge is a canonical (sorted) pair of vertex
// indices; in a manifold mesh every edge touches at most two faces.
package meshgraph

import (
	"errors"
	"fmt"

	"github.com/ungerik/go3d/vec3"
)

var (
	ErrVertexOutOfRange = errors.New("meshgraph: face references vertex out of range")
	ErrDegenerateFace   = errors.New("meshgraph: face references the same vertex twice")
	ErrNonManifoldEdge  = errors.New("meshgraph: edge shared by more than two faces")
)

// Edge is a canonical edge key: Edge[0] < Edge[1].
type Edge [2]int

// MakeEdge returns the canonical edge key for the two vertex indices.
func MakeEdge(a, b int) Edge {
	if a > b {
		a, b = b, a
	}
	return Edge{a, b}
}

// Mesh owns the vertex and face buffers plus the edge adjacency built over
// them. All mutation goes through SplitEdge.
type Mesh struct {
	Verts []vec3.T
	Faces [][3]int

	edges map[Edge][]int
}

// New copies verts and faces and builds the edge adjacency. It rejects
// faces referencing vertices out of range, faces naming the same vertex
// twice, and edges shared by more than two faces.
func New(verts []vec3.T, faces [][3]int) (*Mesh, error) {
	m := &Mesh{
		Verts: append([]vec3.T(nil), verts...),
		Faces: append([][3]int(nil), faces...),
		edges: make(map[Edge][]int, len(faces)*3/2),
	}
	for fi, f := range m.Faces {
		for _, i := range f {
			if i < 0 || i >= len(m.Verts) {
				return nil, fmt.Errorf("face %d references vertex %d of %d: %w", fi, i, len(m.Verts), ErrVertexOutOfRange)
			}
		}
		if f[0] == f[1] || f[1] == f[2] || f[2] == f[0] {
			return nil, fmt.Errorf("face %d is %v: %w", fi, f, ErrDegenerateFace)
		}
		for _, e := range faceEdges(f) {
			m.edges[e] = append(m.edges[e], fi)
			if len(m.edges[e]) > 2 {
				return nil, fmt.Errorf("edge %v: %w", e, ErrNonManifoldEdge)
			}
		}
	}
	return m, nil
}

func faceEdges(f [3]int) [3]Edge {
	return [3]Edge{
		MakeEdge(f[0], f[1]),
		MakeEdge(f[1], f[2]),
		MakeEdge(f[2], f[0]),
	}
}

// Neighbors calls handler for every face sharing an edge with the given
// face, excluding the face itself. Neighbors are yielded once per shared
// edge without deduplication; a handler returning false stops the
// iteration.
func (m *Mesh) Neighbors(face int, handler func(neighbor int) bool) {
	for _, e := range faceEdges(m.Faces[face]) {
		for _, t := range m.edges[e] {
			if t == face {
				continue
			}
			if !handler(t) {
				return
			}
		}
	}
}

// EdgeCount returns the number of distinct edges in the mesh.
func (m *Mesh) EdgeCount() int {
	return len(m.edges)
}

func (m *Mesh) edgeLenSqr(e Edge) float32 {
	d := vec3.Sub(&m.Verts[e[0]], &m.Verts[e[1]])
	return d.LengthSqr()
}
