package geometry

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-viewfactor-raytracer/pkg/core"
	"github.com/df07/go-viewfactor-raytracer/pkg/material"
)

// faceDetEpsilon rejects face solves whose 3x3 system is near singular,
// which happens when the ray runs parallel to the face plane.
const faceDetEpsilon = 1e-4

// Cube is an oriented box with equal edge lengths. U, V and W give the
// directions of its local X, Y and Z axes in world space and form a
// right-handed orthonormal basis.
type Cube struct {
	Center   core.Vec3
	Length   float64
	Material material.Material
	U, V, W  core.Vec3
}

// CubeFace identifies one of the six faces by local axis and sign.
type CubeFace int

const (
	FaceXN CubeFace = iota // local -X
	FaceXP                 // local +X
	FaceYN                 // local -Y
	FaceYP                 // local +Y
	FaceZN                 // local -Z
	FaceZP                 // local +Z
)

// NewCube creates a cube resting on its local XZ plane, rotated by a
// random yaw angle about the world Y axis.
func NewCube(center core.Vec3, length float64, mat material.Material, random *rand.Rand) *Cube {
	u, v, w := randomYawBasis(random)
	return &Cube{Center: center, Length: length, Material: mat, U: u, V: v, W: w}
}

// NewOrientedCube creates a cube with an explicit orthonormal basis.
func NewOrientedCube(center core.Vec3, length float64, mat material.Material, u, v, w core.Vec3) *Cube {
	return &Cube{Center: center, Length: length, Material: mat, U: u, V: v, W: w}
}

// Hit tests if a ray intersects any of the six faces within [tMin, tMax].
// A bounding sphere circumscribing the cube rejects most misses before
// the per-face solves run.
func (c *Cube) Hit(ray core.Ray, tMin, tMax float64) (*HitRecord, bool) {
	bounding := NewSphere(c.Center, c.Length*math.Sqrt(3)/2.0, c.Material)
	if _, ok := bounding.Hit(ray, tMin, tMax); !ok {
		return nil, false
	}

	// Each face lies in the plane through center + ei*length/2 spanned by
	// ej and ek, where (ei,ej,ek) cycles through the local axes and ei
	// carries the face sign. Solving
	//   origin + t*dir = center + ei*length/2 + x0*ej + x1*ek
	// as the 3x3 system [ej ek -dir] * (x0,x1,t) = origin - center - ei*length/2
	// yields the in-plane offsets and the ray parameter at once.
	axes := [3]core.Vec3{c.U, c.V, c.W}
	minusDir := mglVec(ray.Direction.Negate())
	half := c.Length / 2.0

	var closest *HitRecord
	tClosest := tMax
	for i := 0; i < 3; i++ {
		ej := axes[(i+1)%3]
		ek := axes[(i+2)%3]
		for _, sign := range [2]float64{-1.0, 1.0} {
			ei := axes[i].Multiply(sign)

			m := mgl64.Mat3FromCols(mglVec(ej), mglVec(ek), minusDir)
			if math.Abs(m.Det()) <= faceDetEpsilon {
				continue
			}

			k := ray.Origin.Subtract(c.Center).Subtract(ei.Multiply(half))
			x := m.Inv().Mul3x1(mglVec(k))
			if math.Abs(x[0]) < half && math.Abs(x[1]) < half && tMin < x[2] && x[2] < tClosest {
				tClosest = x[2]
				closest = &HitRecord{
					T:        x[2],
					Point:    ray.At(x[2]),
					Normal:   ei,
					Material: c.Material,
				}
			}
		}
	}

	if closest == nil {
		return nil, false
	}
	return closest, true
}

// faceBasis returns the outward normal and in-plane axes of a face in
// the cube's local frame. The in-plane axes follow the same cyclic
// order as the face normal and share its sign, so opposite faces carry
// mirrored bases.
func (c *Cube) faceBasis(face CubeFace) (u, v, w core.Vec3) {
	axes := [3]core.Vec3{c.U, c.V, c.W}
	i := int(face) / 2
	sign := float64(int(face)%2)*2.0 - 1.0
	w = axes[i].Multiply(sign)
	u = axes[(i+1)%3].Multiply(sign)
	v = axes[(i+2)%3].Multiply(sign)
	return u, v, w
}

// Face returns one face of the cube as a square patch sharing the
// cube's material, usable anywhere a planar surface is expected.
func (c *Cube) Face(face CubeFace) *Square {
	u, v, w := c.faceBasis(face)
	center := c.Center.Add(w.Multiply(c.Length / 2.0))
	return NewSquare(center, c.Length, c.Material, u, v, w)
}
