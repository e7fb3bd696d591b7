package geometry

import (
	"math/rand"

	"github.com/df07/go-viewfactor-raytracer/pkg/core"
	"github.com/df07/go-viewfactor-raytracer/pkg/material"
)

// Rectangle is a finite planar patch with independent extents: Length
// along u and Width along v. W is the plane normal.
type Rectangle struct {
	Center   core.Vec3
	Length   float64
	Width    float64
	Material material.Material
	U, V, W  core.Vec3
}

// NewRectangle creates a rectangular patch with an explicit orientation basis
func NewRectangle(center core.Vec3, length, width float64, mat material.Material, u, v, w core.Vec3) *Rectangle {
	return &Rectangle{Center: center, Length: length, Width: width, Material: mat, U: u, V: v, W: w}
}

// Hit tests if a ray intersects the patch within [tMin, tMax]
func (r *Rectangle) Hit(ray core.Ray, tMin, tMax float64, random *rand.Rand) (*HitRecord, bool) {
	return hitPlanarPatch(ray, tMin, tMax, r.Center, r.U, r.V, r.W,
		r.Length/2.0, r.Width/2.0, r.Material, random)
}

// SurfacePoint maps parametric coordinates (u,v) to a point on the patch
func (r *Rectangle) SurfacePoint(u, v float64) core.Vec3 {
	onU := r.U.Multiply(r.Length * (u - 0.5))
	onV := r.V.Multiply(r.Width * (v - 0.5))
	return r.Center.Add(onU).Add(onV)
}

// SurfaceNormal returns the plane normal w, unflipped
func (r *Rectangle) SurfaceNormal(u, v float64) core.Vec3 {
	return r.W
}

// Area returns length*width
func (r *Rectangle) Area() float64 {
	return r.Length * r.Width
}

// DiffArea equals the area: sampling is uniform over the patch
func (r *Rectangle) DiffArea(u, v float64) float64 {
	return r.Area()
}
