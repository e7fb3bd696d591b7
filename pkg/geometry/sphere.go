package geometry

import (
	"math"

	"github.com/df07/go-viewfactor-raytracer/pkg/core"
	"github.com/df07/go-viewfactor-raytracer/pkg/material"
)

// Sphere represents a sphere with an attached material
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material material.Material
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, mat material.Material) *Sphere {
	return &Sphere{Center: center, Radius: radius, Material: mat}
}

// Hit tests if a ray intersects the sphere within (tMin, tMax), solving
// |O + tD - C|^2 = r^2. The nearer admissible root wins: the far root is
// accepted first and overwritten by the near root when that is also in
// range.
func (s *Sphere) Hit(ray core.Ray, tMin, tMax float64) (*HitRecord, bool) {
	oc := ray.Origin.Subtract(s.Center)
	a := ray.Direction.LengthSquared()
	b := 2.0 * oc.Dot(ray.Direction)
	c := oc.LengthSquared() - s.Radius*s.Radius
	discriminant := b*b - 4.0*a*c

	if discriminant <= 0 {
		return nil, false
	}

	sqrtD := math.Sqrt(discriminant)
	t1 := (-b - sqrtD) / (2.0 * a)
	t2 := (-b + sqrtD) / (2.0 * a)

	root := math.NaN()
	if tMin < t2 && t2 < tMax {
		root = t2
	}
	if tMin < t1 && t1 < tMax {
		root = t1
	}
	if math.IsNaN(root) {
		return nil, false
	}

	point := ray.At(root)
	return &HitRecord{
		T:        root,
		Point:    point,
		Normal:   point.Subtract(s.Center).Divide(s.Radius),
		Material: s.Material,
	}, true
}

// SurfaceNormal returns the outward normal at longitude lambda = 2*pi*u
// and latitude phi = pi*(v - 1/2)
func (s *Sphere) SurfaceNormal(u, v float64) core.Vec3 {
	lambda := 2.0 * math.Pi * u
	phi := math.Pi * (v - 0.5)
	return core.NewVec3(
		math.Cos(lambda)*math.Cos(phi),
		math.Sin(lambda)*math.Cos(phi),
		math.Sin(phi),
	)
}

// SurfacePoint maps parametric coordinates (u,v) to a point on the sphere
func (s *Sphere) SurfacePoint(u, v float64) core.Vec3 {
	return s.Center.Add(s.SurfaceNormal(u, v).Multiply(s.Radius))
}

// Area returns the total surface area 4*pi*r^2
func (s *Sphere) Area() float64 {
	return 4.0 * math.Pi * s.Radius * s.Radius
}

// DiffArea returns the differential-area weight at latitude phi,
// r^2 * cos(phi) * 2*pi^2. The weight is unnormalized; callers divide by
// the sample count.
func (s *Sphere) DiffArea(u, v float64) float64 {
	phi := math.Pi * (v - 0.5)
	return s.Radius * s.Radius * math.Cos(phi) * 2.0 * math.Pi * math.Pi
}
