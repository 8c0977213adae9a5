package surface

import "errors"

var (
	// ErrVertexOutOfRange is returned when a face references a vertex
	// index beyond the vertex buffer.
	ErrVertexOutOfRange = errors.New("surface: face references vertex out of range")
	// ErrDegenerateTriangle is returned when a triangle's area is zero,
	// subnormal, or not finite.
	ErrDegenerateTriangle = errors.New("surface: triangle area too close to zero")
	// ErrEmptyMesh is returned when no face with a usable area remains.
	ErrEmptyMesh = errors.New("surface: mesh has no triangle with usable area")
)
