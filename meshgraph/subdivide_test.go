package meshgraph_test

import (
	"math"
	"reflect"
	"testing"

	"github.com/royalcat/meshrand/meshgraph"
	"github.com/ungerik/go3d/vec3"
)

func maxEdgeLen(m *meshgraph.Mesh) float64 {
	max := 0.0
	for _, f := range m.Faces {
		for _, e := range [][2]int{{f[0], f[1]}, {f[1], f[2]}, {f[2], f[0]}} {
			d := vec3.Sub(&m.Verts[e[0]], &m.Verts[e[1]])
			if l := float64(d.Length()); l > max {
				max = l
			}
		}
	}
	return max
}

func totalArea(verts []vec3.T, faces [][3]int) float64 {
	total := 0.0
	for _, f := range faces {
		u := vec3.Sub(&verts[f[1]], &verts[f[0]])
		v := vec3.Sub(&verts[f[2]], &verts[f[0]])
		c := vec3.Cross(&u, &v)
		total += float64(c.Length()) / 2
	}
	return total
}

func TestRefineTetrahedron(t *testing.T) {
	verts, faces := tetrahedron()
	areaBefore := totalArea(verts, faces)

	m, err := meshgraph.New(verts, faces)
	if err != nil {
		t.Fatal(err)
	}
	m.Refine(0.3)

	if len(m.Faces) <= 4 {
		t.Fatalf("expected more than 4 faces after refinement, got %d", len(m.Faces))
	}
	if max := maxEdgeLen(m); max > 0.3 {
		t.Fatalf("edge of length %f remains after refining to 0.3", max)
	}

	areaAfter := totalArea(m.Verts, m.Faces)
	if math.Abs(areaAfter-areaBefore)/areaBefore > 1e-3 {
		t.Fatalf("area changed from %f to %f", areaBefore, areaAfter)
	}

	checkNeighborInvariants(t, m)
}

func TestRefineNoop(t *testing.T) {
	verts, faces := tetrahedron()
	m, err := meshgraph.New(verts, faces)
	if err != nil {
		t.Fatal(err)
	}
	m.Refine(2)

	if len(m.Faces) != 4 || len(m.Verts) != 4 {
		t.Fatalf("refinement with a large radius mutated the mesh: %d faces, %d verts", len(m.Faces), len(m.Verts))
	}
}

func TestRefineDeterministic(t *testing.T) {
	verts, faces := tetrahedron()

	a, err := meshgraph.New(verts, faces)
	if err != nil {
		t.Fatal(err)
	}
	b, err := meshgraph.New(verts, faces)
	if err != nil {
		t.Fatal(err)
	}

	a.Refine(0.3)
	b.Refine(0.3)

	if !reflect.DeepEqual(a.Faces, b.Faces) {
		t.Fatalf("face layout differs between identical refinements")
	}
	if !reflect.DeepEqual(a.Verts, b.Verts) {
		t.Fatalf("vertex layout differs between identical refinements")
	}
}

func TestRefineOpenMesh(t *testing.T) {
	// single triangle, all edges on the boundary
	verts := []vec3.T{
		{0, 0, 0},
		{1, 0, 0},
		{0, 1, 0},
	}
	faces := [][3]int{{0, 1, 2}}
	areaBefore := totalArea(verts, faces)

	m, err := meshgraph.New(verts, faces)
	if err != nil {
		t.Fatal(err)
	}
	m.Refine(0.25)

	if max := maxEdgeLen(m); max > 0.25 {
		t.Fatalf("edge of length %f remains after refining to 0.25", max)
	}
	areaAfter := totalArea(m.Verts, m.Faces)
	if math.Abs(areaAfter-areaBefore)/areaBefore > 1e-3 {
		t.Fatalf("area changed from %f to %f", areaBefore, areaAfter)
	}
	checkNeighborInvariants(t, m)
}
