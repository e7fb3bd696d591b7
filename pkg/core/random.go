package core

import (
	"math/rand"
)

// maxRejectIterations bounds the rejection-sampling loops so a degenerate
// random source cannot spin forever. Expected acceptance is ~52% for the
// unit sphere and ~78% for the unit disk, so the cap is never reached in
// practice.
const maxRejectIterations = 10000

// RandomVec3 returns a vector with components uniform in [0,1)
func RandomVec3(random *rand.Rand) Vec3 {
	return Vec3{random.Float64(), random.Float64(), random.Float64()}
}

// RandomInUnitSphere generates a random point inside the unit sphere by
// rejection sampling. On cap exhaustion it returns the zero vector, which
// is a valid interior point.
func RandomInUnitSphere(random *rand.Rand) Vec3 {
	for i := 0; i < maxRejectIterations; i++ {
		p := RandomVec3(random).Multiply(2).Subtract(Ones())
		if p.LengthSquared() < 1.0 {
			return p
		}
	}
	return Vec3{}
}

// RandomInUnitDisk generates a random point inside the unit disk on the
// z=0 plane (for depth of field). Same cap policy as RandomInUnitSphere.
func RandomInUnitDisk(random *rand.Rand) Vec3 {
	for i := 0; i < maxRejectIterations; i++ {
		p := NewVec3(2*random.Float64()-1, 2*random.Float64()-1, 0)
		if p.Dot(p) < 1.0 {
			return p
		}
	}
	return Vec3{}
}
