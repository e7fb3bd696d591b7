package geometry

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/df07/go-viewfactor-raytracer/pkg/core"
	"github.com/df07/go-viewfactor-raytracer/pkg/material"
)

// ErrNoParameterization reports a form whose surface cannot be sampled
// parametrically. Cubes intersect through face-plane solves and expose no
// whole-surface (u,v) mapping, so they cannot serve as view-factor
// emitters or receivers.
var ErrNoParameterization = errors.New("geometry: form has no surface parameterization")

// HitRecord describes the nearest surface hit along a ray: parametric
// distance, world-space point, outward surface normal, the material of
// the hit form and its index within the owning scene.
type HitRecord struct {
	T        float64
	Point    core.Vec3
	Normal   core.Vec3
	Material material.Material
	HitIndex int
}

// FormKind discriminates the primitive variants
type FormKind int

const (
	// KindSphere is a full sphere
	KindSphere FormKind = iota
	// KindCube is an arbitrarily yawed cube
	KindCube
	// KindSquare is a finite planar square patch
	KindSquare
	// KindRectangle is a finite planar rectangular patch
	KindRectangle
)

// Form is a tagged variant over the four primitives. The variant set is
// fixed and dispatch is an exhaustive switch; exactly one of the pointers
// is non-nil, matching the kind.
type Form struct {
	kind   FormKind
	sphere *Sphere
	cube   *Cube
	square *Square
	rect   *Rectangle
}

// SphereForm wraps a sphere as a scene form
func SphereForm(s *Sphere) Form {
	return Form{kind: KindSphere, sphere: s}
}

// CubeForm wraps a cube as a scene form
func CubeForm(c *Cube) Form {
	return Form{kind: KindCube, cube: c}
}

// SquareForm wraps a square patch as a scene form
func SquareForm(s *Square) Form {
	return Form{kind: KindSquare, square: s}
}

// RectangleForm wraps a rectangular patch as a scene form
func RectangleForm(r *Rectangle) Form {
	return Form{kind: KindRectangle, rect: r}
}

// Kind returns the variant tag
func (f Form) Kind() FormKind {
	return f.kind
}

// Hit tests the ray against the form over the admissible range
// (tMin, tMax). The random source feeds the planar patches' perpendicular
// basis draws; intersection outcomes do not depend on the values drawn.
func (f Form) Hit(ray core.Ray, tMin, tMax float64, random *rand.Rand) (*HitRecord, bool) {
	switch f.kind {
	case KindSphere:
		return f.sphere.Hit(ray, tMin, tMax)
	case KindCube:
		return f.cube.Hit(ray, tMin, tMax)
	case KindSquare:
		return f.square.Hit(ray, tMin, tMax, random)
	case KindRectangle:
		return f.rect.Hit(ray, tMin, tMax, random)
	default:
		panic(fmt.Sprintf("geometry: unknown form kind %d", f.kind))
	}
}

// SurfacePoint maps parametric coordinates (u,v) in [0,1]^2 to a point on
// the form's surface. Cubes return ErrNoParameterization.
func (f Form) SurfacePoint(u, v float64) (core.Vec3, error) {
	switch f.kind {
	case KindSphere:
		return f.sphere.SurfacePoint(u, v), nil
	case KindCube:
		return core.Vec3{}, fmt.Errorf("cube surface point: %w", ErrNoParameterization)
	case KindSquare:
		return f.square.SurfacePoint(u, v), nil
	case KindRectangle:
		return f.rect.SurfacePoint(u, v), nil
	default:
		panic(fmt.Sprintf("geometry: unknown form kind %d", f.kind))
	}
}

// SurfaceNormal maps parametric coordinates (u,v) to the outward surface
// normal at that point. Cubes return ErrNoParameterization.
func (f Form) SurfaceNormal(u, v float64) (core.Vec3, error) {
	switch f.kind {
	case KindSphere:
		return f.sphere.SurfaceNormal(u, v), nil
	case KindCube:
		return core.Vec3{}, fmt.Errorf("cube surface normal: %w", ErrNoParameterization)
	case KindSquare:
		return f.square.SurfaceNormal(u, v), nil
	case KindRectangle:
		return f.rect.SurfaceNormal(u, v), nil
	default:
		panic(fmt.Sprintf("geometry: unknown form kind %d", f.kind))
	}
}

// Area returns the total surface area. Cubes return ErrNoParameterization.
func (f Form) Area() (float64, error) {
	switch f.kind {
	case KindSphere:
		return f.sphere.Area(), nil
	case KindCube:
		return 0, fmt.Errorf("cube area: %w", ErrNoParameterization)
	case KindSquare:
		return f.square.Area(), nil
	case KindRectangle:
		return f.rect.Area(), nil
	default:
		panic(fmt.Sprintf("geometry: unknown form kind %d", f.kind))
	}
}

// DiffArea returns the differential-area weight converting a uniform
// parametric sample at (u,v) into an area-element contribution. The
// weight is an unnormalized density; integrators divide by the sample
// count. Cubes return ErrNoParameterization.
func (f Form) DiffArea(u, v float64) (float64, error) {
	switch f.kind {
	case KindSphere:
		return f.sphere.DiffArea(u, v), nil
	case KindCube:
		return 0, fmt.Errorf("cube differential area: %w", ErrNoParameterization)
	case KindSquare:
		return f.square.DiffArea(u, v), nil
	case KindRectangle:
		return f.rect.DiffArea(u, v), nil
	default:
		panic(fmt.Sprintf("geometry: unknown form kind %d", f.kind))
	}
}

// Parameterized reports whether the form supports surface sampling
func (f Form) Parameterized() bool {
	return f.kind != KindCube
}

// Material returns the material attached to the underlying primitive
func (f Form) Material() material.Material {
	switch f.kind {
	case KindSphere:
		return f.sphere.Material
	case KindCube:
		return f.cube.Material
	case KindSquare:
		return f.square.Material
	case KindRectangle:
		return f.rect.Material
	default:
		panic(fmt.Sprintf("geometry: unknown form kind %d", f.kind))
	}
}

// Center returns the geometric center of the underlying primitive
func (f Form) Center() core.Vec3 {
	switch f.kind {
	case KindSphere:
		return f.sphere.Center
	case KindCube:
		return f.cube.Center
	case KindSquare:
		return f.square.Center
	case KindRectangle:
		return f.rect.Center
	default:
		panic(fmt.Sprintf("geometry: unknown form kind %d", f.kind))
	}
}
