package meshgraph

import "github.com/ungerik/go3d/vec3"

// SplitEdge splits e at its midpoint. The 1 or 2 faces on e are rewritten
// in place to cover the half touching e[0], and one new face per incident
// face is appended to cover the half touching e[1]. All affected adjacency
// lists are updated. It returns the created and shortened edges so the
// caller can re-check their lengths.
func (m *Mesh) SplitEdge(e Edge) []Edge {
	mid := vec3.Add(&m.Verts[e[0]], &m.Verts[e[1]])
	mid.Scale(0.5)
	nv := len(m.Verts)
	m.Verts = append(m.Verts, mid)

	tris := m.edges[e]
	delete(m.edges, e)

	newEdges := make([]Edge, 0, 4)
	newTris := make([]int, 0, len(tris))
	for _, t := range tris {
		// vertex of t not on the split edge
		opp := -1
		for _, i := range m.Faces[t] {
			if i != e[0] && i != e[1] {
				opp = i
				break
			}
		}

		// t keeps the e[0] half
		for k, i := range m.Faces[t] {
			if i == e[1] {
				m.Faces[t][k] = nv
			}
		}
		nt := len(m.Faces)
		m.Faces = append(m.Faces, [3]int{e[1], nv, opp})
		newTris = append(newTris, nt)

		// the far edge on the e[1] side now belongs to the new face
		far := MakeEdge(e[1], opp)
		for k, ft := range m.edges[far] {
			if ft == t {
				m.edges[far][k] = nt
			}
		}

		cut := MakeEdge(nv, opp)
		m.edges[cut] = []int{t, nt}
		newEdges = append(newEdges, cut)
	}

	right := MakeEdge(nv, e[1])
	m.edges[right] = newTris
	newEdges = append(newEdges, right)

	left := MakeEdge(e[0], nv)
	m.edges[left] = tris
	newEdges = append(newEdges, left)

	return newEdges
}

// Refine splits every edge longer than maxLen until none remain,
// breadth-first. Each split halves an edge, so an original edge of length
// L is split at most ceil(log2(L/maxLen)) levels deep and the queue
// drains.
//
// Postcondition: every edge of the mesh is at most maxLen long. That bound
// is what makes vertex-distance sphere tests and adjacency-bounded
// conflict searches on the refined mesh safe.
func (m *Mesh) Refine(maxLen float32) {
	rr := maxLen * maxLen

	// Seed in face order rather than adjacency-map order so refining the
	// same mesh twice produces identical vertex and face layouts.
	queue := make([]Edge, 0, len(m.edges))
	seen := make(map[Edge]struct{}, len(m.edges))
	for _, f := range m.Faces {
		for _, e := range faceEdges(f) {
			if _, ok := seen[e]; ok {
				continue
			}
			seen[e] = struct{}{}
			if m.edgeLenSqr(e) > rr {
				queue = append(queue, e)
			}
		}
	}

	for len(queue) > 0 {
		e := queue[0]
		queue = queue[1:]
		for _, ne := range m.SplitEdge(e) {
			if m.edgeLenSqr(ne) > rr {
				queue = append(queue, ne)
			}
		}
	}
}
