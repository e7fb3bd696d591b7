package geometry

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-viewfactor-raytracer/pkg/core"
	"github.com/df07/go-viewfactor-raytracer/pkg/material"
)

// parallelEpsilon rejects rays lying in (or nearly in) the patch plane.
const parallelEpsilon = 1e-3

// maxPerpDraws bounds the random search for a helper vector that is
// sufficiently non-parallel to the ray direction.
const maxPerpDraws = 10000

// Square is a finite planar square patch with an orthonormal basis u,v,w
// where w is the plane normal and u,v span the patch.
type Square struct {
	Center   core.Vec3
	Length   float64
	Material material.Material
	U, V, W  core.Vec3
}

// NewSquare creates a square patch with an explicit orientation basis
func NewSquare(center core.Vec3, length float64, mat material.Material, u, v, w core.Vec3) *Square {
	return &Square{Center: center, Length: length, Material: mat, U: u, V: v, W: w}
}

// NewHorizontalSquare creates an upward-facing square with a uniformly
// random yaw about the vertical axis
func NewHorizontalSquare(center core.Vec3, length float64, mat material.Material, random *rand.Rand) *Square {
	u, v, w := randomYawBasis(random)
	return &Square{Center: center, Length: length, Material: mat, U: u, V: v, W: w}
}

// Hit tests if a ray intersects the patch within [tMin, tMax]
func (sq *Square) Hit(ray core.Ray, tMin, tMax float64, random *rand.Rand) (*HitRecord, bool) {
	return hitPlanarPatch(ray, tMin, tMax, sq.Center, sq.U, sq.V, sq.W,
		sq.Length/2.0, sq.Length/2.0, sq.Material, random)
}

// SurfacePoint maps parametric coordinates (u,v) to a point on the patch
func (sq *Square) SurfacePoint(u, v float64) core.Vec3 {
	onU := sq.U.Multiply(sq.Length * (u - 0.5))
	onV := sq.V.Multiply(sq.Length * (v - 0.5))
	return sq.Center.Add(onU).Add(onV)
}

// SurfaceNormal returns the plane normal w, unflipped
func (sq *Square) SurfaceNormal(u, v float64) core.Vec3 {
	return sq.W
}

// Area returns length^2
func (sq *Square) Area() float64 {
	return sq.Length * sq.Length
}

// DiffArea equals the area: sampling is uniform over the patch
func (sq *Square) DiffArea(u, v float64) float64 {
	return sq.Area()
}

// hitPlanarPatch locates the ray/plane intersection point directly in
// world space and bounds-checks its projection onto the patch axes.
// The 3x3 system uses the plane normal and two directions perpendicular
// to the ray: the normal row pins the point to the plane, the
// perpendicular rows pin it to the ray's line.
func hitPlanarPatch(ray core.Ray, tMin, tMax float64, center, u, v, w core.Vec3,
	halfU, halfV float64, mat material.Material, random *rand.Rand) (*HitRecord, bool) {

	n := w
	denom := n.Dot(ray.Direction)

	// Ray lies in the plane, no collision.
	if math.Abs(denom) < parallelEpsilon {
		return nil, false
	}

	// Random helper vector, redrawn until sufficiently non-parallel to
	// the ray. On cap exhaustion the last draw still works unless it is
	// exactly parallel.
	nPP := core.RandomVec3(random)
	for i := 0; i < maxPerpDraws && math.Abs(nPP.Dot(ray.Direction)) > 0.8; i++ {
		nPP = core.RandomVec3(random)
	}

	// Orthonormal pair perpendicular to the ray direction.
	n1 := nPP.Cross(ray.Direction).Normalize()
	n2 := ray.Direction.Cross(n1).Normalize()

	a := mgl64.Mat3FromRows(mglVec(n), mglVec(n1), mglVec(n2))
	if a.Det() == 0 {
		return nil, false
	}
	b := mgl64.Vec3{n.Dot(center), n1.Dot(ray.Origin), n2.Dot(ray.Origin)}
	p := coreVec(a.Inv().Mul3x1(b))

	t := p.Subtract(ray.Origin).Dot(ray.Direction) / ray.Direction.LengthSquared()

	// Unreachable collision.
	if t < tMin || t > tMax {
		return nil, false
	}

	// Out of patch bounds.
	offset := p.Subtract(center)
	if math.Abs(offset.Dot(u)) > halfU {
		return nil, false
	}
	if math.Abs(offset.Dot(v)) > halfV {
		return nil, false
	}

	// Normal flipped to oppose the incoming ray.
	normal := n.Negate()
	if denom < 0 {
		normal = n
	}

	return &HitRecord{T: t, Point: p, Normal: normal, Material: mat}, true
}

// randomYawBasis builds an orthonormal basis with w = +Y and u rotated by
// a uniformly random angle about the vertical axis
func randomYawBasis(random *rand.Rand) (u, v, w core.Vec3) {
	w = core.NewVec3(0, 1, 0)
	rot := mgl64.Rotate3DY(2.0 * math.Pi * random.Float64())
	u = coreVec(rot.Mul3x1(mgl64.Vec3{1, 0, 0}))
	v = w.Cross(u)
	return u, v, w
}
