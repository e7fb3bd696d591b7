package material

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/df07/go-viewfactor-raytracer/pkg/core"
)

// Scatter produces the next ray segment and its color attenuation for a
// ray hitting this material at point with the given outward surface
// normal. The boolean reports whether the ray scattered at all; a false
// result means the ray was absorbed and the path contributes no light.
func (m Material) Scatter(rayIn core.Ray, point, normal core.Vec3, random *rand.Rand) (core.Ray, core.Vec3, bool) {
	switch m.kind {
	case KindLambertian:
		return m.scatterLambertian(point, normal, random)
	case KindMetal:
		return m.scatterMetal(rayIn, point, normal, random)
	case KindDielectric:
		return m.scatterDielectric(rayIn, point, normal, random)
	default:
		panic(fmt.Sprintf("material: unknown kind %d", m.kind))
	}
}

// scatterLambertian bounces the ray toward the normal perturbed by a
// random point inside the unit sphere. Diffuse rays always scatter.
func (m Material) scatterLambertian(point, normal core.Vec3, random *rand.Rand) (core.Ray, core.Vec3, bool) {
	direction := normal.Add(core.RandomInUnitSphere(random))
	return core.NewRay(point, direction), m.albedo, true
}

// scatterMetal mirrors the unit incoming direction about the normal and
// perturbs it by fuzz. The ray is absorbed when the perturbed direction
// falls below the surface.
func (m Material) scatterMetal(rayIn core.Ray, point, normal core.Vec3, random *rand.Rand) (core.Ray, core.Vec3, bool) {
	reflected := reflect(rayIn.Direction.Normalize(), normal)
	if m.fuzz > 0 {
		reflected = reflected.Add(core.RandomInUnitSphere(random).Multiply(m.fuzz))
	}
	scattered := core.NewRay(point, reflected)
	return scattered, m.albedo, scattered.Direction.Dot(normal) > 0
}

// scatterDielectric refracts or reflects at a clear interface. The
// entering/exiting side is decided by the sign of dot(direction, normal);
// the incidence cosine is measured against the outward-facing normal in
// both branches. Attenuation is always (1,1,1) and the ray never absorbs.
func (m Material) scatterDielectric(rayIn core.Ray, point, normal core.Vec3, random *rand.Rand) (core.Ray, core.Vec3, bool) {
	attenuation := core.Ones()
	reflected := reflect(rayIn.Direction, normal)

	var outward core.Vec3
	var niOverNt float64
	if rayIn.Direction.Dot(normal) > 0 {
		// Exiting the medium: the stored normal points inward here.
		outward = normal.Negate()
		niOverNt = m.refIdx
	} else {
		// Entering the medium.
		outward = normal
		niOverNt = 1.0 / m.refIdx
	}

	unitDirection := rayIn.Direction.Normalize()
	cosine := -unitDirection.Dot(outward)
	sine := math.Sqrt(1.0 - cosine*cosine)

	// Total internal reflection: Snell's law has no solution.
	if niOverNt*sine > 1.0 {
		return core.NewRay(point, reflected), attenuation, true
	}

	reflectProb := Schlick(niOverNt, cosine)
	if random.Float64() < reflectProb {
		return core.NewRay(point, reflected), attenuation, true
	}
	refracted := refract(unitDirection, outward, niOverNt)
	return core.NewRay(point, refracted), attenuation, true
}

// Schlick approximates the Fresnel reflectance of a dielectric interface
// as a polynomial in the incidence cosine
func Schlick(niOverNt, cosine float64) float64 {
	r0 := (1.0 - niOverNt) / (1.0 + niOverNt)
	r0 = r0 * r0
	return r0 + (1.0-r0)*math.Pow(1.0-cosine, 5)
}

// reflect calculates the reflection of a vector v off a surface with normal n
func reflect(v, n core.Vec3) core.Vec3 {
	// r = v - 2*dot(v,n)*n
	return v.Subtract(n.Multiply(2 * v.Dot(n)))
}

// refract applies vector Snell's law to the unit direction uv crossing a
// surface with outward normal n. Callers rule out total internal
// reflection first; the square root here is then well defined.
func refract(uv, n core.Vec3, niOverNt float64) core.Vec3 {
	outPerp := uv.Subtract(n.Multiply(n.Dot(uv))).Multiply(niOverNt)
	sinSquared := n.Cross(uv).LengthSquared()
	outParallel := n.Multiply(-math.Sqrt(1.0 - niOverNt*niOverNt*sinSquared))
	return outPerp.Add(outParallel)
}
