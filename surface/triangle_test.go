package surface

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/ungerik/go3d/vec3"
)

func TestTriangleNormalOrientation(t *testing.T) {
	a := vec3.T{0, 0, 0}
	b := vec3.T{1, 0, 0}
	c := vec3.T{0, 1, 0}

	tri, err := triangleFromPoints(a, b, c)
	if err != nil {
		t.Fatal(err)
	}
	if tri.Normal != (vec3.T{0, 0, 1}) {
		t.Fatalf("expected normal (0,0,1), got %v", tri.Normal)
	}
	if math.Abs(float64(tri.Area)-0.5) > 1e-6 {
		t.Fatalf("expected area 0.5, got %f", tri.Area)
	}

	// swapping two vertices flips the normal
	flipped, err := triangleFromPoints(b, a, c)
	if err != nil {
		t.Fatal(err)
	}
	if flipped.Normal != (vec3.T{0, 0, -1}) {
		t.Fatalf("expected normal (0,0,-1), got %v", flipped.Normal)
	}
}

func TestDegenerateTriangles(t *testing.T) {
	nan := float32(math.NaN())
	cases := [][3]vec3.T{
		{{0, 0, 0}, {0, 0, 0}, {0, 1, 0}},
		{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}},
		{{nan, 0, 0}, {1, 0, 0}, {0, 1, 0}},
	}
	for i, c := range cases {
		_, err := triangleFromPoints(c[0], c[1], c[2])
		if !errors.Is(err, ErrDegenerateTriangle) {
			t.Fatalf("case %d: expected ErrDegenerateTriangle, got %v", i, err)
		}
	}
}

// solves p - origin = a*u + b*v within the triangle plane
func parallelogramCoords(tri *Triangle, p vec3.T) (float64, float64) {
	w := vec3.Sub(&p, &tri.origin)
	uu := float64(vec3.Dot(&tri.u, &tri.u))
	vv := float64(vec3.Dot(&tri.v, &tri.v))
	uv := float64(vec3.Dot(&tri.u, &tri.v))
	wu := float64(vec3.Dot(&w, &tri.u))
	wv := float64(vec3.Dot(&w, &tri.v))
	det := uu*vv - uv*uv
	a := (wu*vv - wv*uv) / det
	b := (wv*uu - wu*uv) / det
	return a, b
}

func TestSamplePointInsideTriangle(t *testing.T) {
	tri, err := triangleFromPoints(
		vec3.T{0.3, -1, 2},
		vec3.T{4, 0.5, -1},
		vec3.T{-2, 3, 0.7},
	)
	if err != nil {
		t.Fatal(err)
	}

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		p := tri.SamplePoint(rng)
		a, b := parallelogramCoords(&tri, p)
		if a < -1e-4 || b < -1e-4 || a+b > 1+1e-4 {
			t.Fatalf("point %v outside triangle: a=%f b=%f", p, a, b)
		}
	}
}

func TestIntersectsSphere(t *testing.T) {
	tri, err := triangleFromPoints(
		vec3.T{0, 0, 0},
		vec3.T{0.1, 0, 0},
		vec3.T{0, 0.1, 0},
	)
	if err != nil {
		t.Fatal(err)
	}

	if !tri.intersectsSphere(vec3.T{0, 0, 0.05}, 0.1) {
		t.Fatalf("expected intersection near a vertex")
	}
	if tri.intersectsSphere(vec3.T{1, 1, 1}, 0.1) {
		t.Fatalf("expected no intersection far away")
	}
}
