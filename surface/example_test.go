package surface_test

import (
	"fmt"
	"math/rand"

	"github.com/royalcat/meshrand/surface"
	"github.com/ungerik/go3d/vec3"
)

func ExampleNewUniformSurface() {
	// Vertices for a non-regular tetrahedron.
	verts := []vec3.T{
		{0, 0, 0},
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
	// Faces, oriented to be pointing outwards.
	faces := [][3]int{{1, 0, 2}, {2, 0, 3}, {0, 1, 3}, {1, 2, 3}}

	surf, err := surface.NewUniformSurface(verts, faces)
	if err != nil {
		panic(err)
	}

	rng := rand.New(rand.NewSource(1))
	sample := surf.Sample(rng)
	_ = sample.Position // generated point on the mesh surface
	_ = sample.Triangle.Normal

	fmt.Println(surf.TriangleCount())
	// Output: 4
}

func ExamplePoissonDiskSurface_SampleBlueNoise() {
	verts := []vec3.T{
		{0, 0, 0},
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
	faces := [][3]int{{1, 0, 2}, {2, 0, 3}, {0, 1, 3}, {1, 2, 3}}

	surf, err := surface.NewPoissonDiskSurface(0.2, verts, faces)
	if err != nil {
		panic(err)
	}

	rng := rand.New(rand.NewSource(1))
	points := surf.SampleBlueNoise(1000, 25, rng)

	fmt.Println(len(points) <= 25)
	// Output: true
}
