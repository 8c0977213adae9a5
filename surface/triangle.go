package surface

import (
	"math"
	"math/rand"

	"github.com/ungerik/go3d/vec3"
)

// Areas below the smallest positive normal float32 are treated as
// degenerate, matching float32 "is normal" semantics.
const minNormalArea = 1.1754944e-38

// Triangle is a read-only geometric snapshot of one mesh face.
type Triangle struct {
	// Points are the corners in their original winding order.
	Points [3]vec3.T
	// Normal is the unit normal following the right-hand rule of the
	// winding: the triangle (a, b, c) with a=(0,0,0), b=(1,0,0),
	// c=(0,1,0) has normal (0,0,1), while (b, a, c) has (0,0,-1).
	Normal vec3.T
	// Area of the triangle.
	Area float32

	origin vec3.T
	u, v   vec3.T
}

func triangleFromPoints(p1, p2, p3 vec3.T) (Triangle, error) {
	u := vec3.Sub(&p2, &p1)
	v := vec3.Sub(&p3, &p1)
	dir := vec3.Cross(&u, &v)
	l := dir.Length()
	area := l / 2
	if !(area >= minNormalArea) || math.IsInf(float64(area), 1) {
		return Triangle{}, ErrDegenerateTriangle
	}
	return Triangle{
		Points: [3]vec3.T{p1, p2, p3},
		Normal: dir.Scaled(1 / l),
		Area:   area,
		origin: p1,
		u:      u,
		v:      v,
	}, nil
}

// SamplePoint returns a point uniformly distributed over the triangle's
// area. Two unit draws pick a point in the (u, v) parallelogram; a draw
// landing in the far half is folded back across the diagonal, which keeps
// the density uniform without a rejection loop.
func (t *Triangle) SamplePoint(rng *rand.Rand) vec3.T {
	a := rng.Float32()
	b := rng.Float32()
	if a+b > 1 {
		a = 1 - a
		b = 1 - b
	}
	au := t.u.Scaled(a)
	bv := t.v.Scaled(b)
	p := t.origin
	p.Add(&au)
	p.Add(&bv)
	return p
}

// intersectsSphere reports whether any corner of the triangle lies within
// radius of center. This is an approximation, not an exact
// triangle-sphere distance test: it is a safe superset check only when
// every edge of the triangle is at most radius long, which Mesh.Refine
// guarantees for the radius the Poisson-disk sampler uses.
func (t *Triangle) intersectsSphere(center vec3.T, radius float32) bool {
	rr := radius * radius
	for i := range t.Points {
		d := vec3.Sub(&t.Points[i], &center)
		if d.LengthSqr() <= rr {
			return true
		}
	}
	return false
}
