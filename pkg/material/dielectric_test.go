package material

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-viewfactor-raytracer/pkg/core"
)

func TestDielectric_BasicBehavior(t *testing.T) {
	glass := NewDielectric(1.5)

	// 45-degree ray entering the surface from above
	rayIn := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(1, -1, 0).Normalize())
	point := core.NewVec3(0, 0, 0)
	normal := core.NewVec3(0, 1, 0)

	random := rand.New(rand.NewSource(42))
	scattered, attenuation, ok := glass.Scatter(rayIn, point, normal, random)

	if !ok {
		t.Error("Dielectric should always scatter")
	}
	if attenuation != core.Ones() {
		t.Errorf("Expected white attenuation, got %v", attenuation)
	}
	if scattered.Origin != point {
		t.Errorf("Scattered ray should start at the hit point, got %v", scattered.Origin)
	}

	// Across many draws both reflection (up) and refraction (down) occur.
	// At 45 degrees air->glass the reflect probability is only a few
	// percent, so refraction must dominate.
	var reflections, refractions int
	for seed := int64(0); seed < 1000; seed++ {
		r := rand.New(rand.NewSource(seed))
		s, _, _ := glass.Scatter(rayIn, point, normal, r)
		if s.Direction.Y > 0 {
			reflections++
		} else {
			refractions++
		}
	}
	if refractions == 0 {
		t.Error("Expected refraction in at least some cases")
	}
	if refractions < reflections {
		t.Errorf("Refraction should dominate at 45 degrees: %d refractions vs %d reflections",
			refractions, reflections)
	}
}

func TestDielectric_RefractionBendsTowardNormal(t *testing.T) {
	glass := NewDielectric(1.5)

	// Entering a denser medium the transmitted ray bends toward the
	// normal: |sin(theta_t)| = |sin(theta_i)| / n.
	incoming := core.NewVec3(1, -1, 0).Normalize()
	refracted := refract(incoming, core.NewVec3(0, 1, 0), 1.0/glass.RefractiveIndex())

	sinIncident := math.Abs(incoming.X)
	sinTransmitted := math.Abs(refracted.Normalize().X)
	expected := sinIncident / glass.RefractiveIndex()

	if math.Abs(sinTransmitted-expected) > 1e-9 {
		t.Errorf("Snell's law violated: sin(theta_t)=%v, expected %v", sinTransmitted, expected)
	}
	if refracted.Y >= 0 {
		t.Errorf("Transmitted ray should continue into the surface, got %v", refracted)
	}
}

func TestDielectric_TotalInternalReflection(t *testing.T) {
	glass := NewDielectric(1.5)

	// Shallow ray exiting the medium: the stored normal points against
	// the ray (the scene always reports outward normals, so an exiting
	// ray sees dot(direction, normal) > 0).
	rayIn := core.NewRay(core.NewVec3(0, -1, 0), core.NewVec3(1, 0.1, 0).Normalize())
	point := core.NewVec3(0, 0, 0)
	normal := core.NewVec3(0, 1, 0)

	// Confirm the setup really is past the critical angle.
	cosine := -rayIn.Direction.Normalize().Dot(normal.Negate())
	sine := math.Sqrt(1 - cosine*cosine)
	if glass.RefractiveIndex()*sine <= 1.0 {
		t.Fatal("Test setup error: angle should exceed the critical angle")
	}

	for i := 0; i < 10; i++ {
		random := rand.New(rand.NewSource(int64(i)))
		scattered, _, ok := glass.Scatter(rayIn, point, normal, random)
		if !ok {
			t.Fatal("Dielectric should always scatter")
		}
		// Total internal reflection mirrors about the normal: Y flips,
		// X is preserved.
		if scattered.Direction.Y >= 0 {
			t.Errorf("Expected reflection back into the medium, got %v", scattered.Direction)
		}
		if math.Abs(scattered.Direction.X-rayIn.Direction.X) > 1e-9 {
			t.Errorf("Reflection should preserve the tangential component: %v", scattered.Direction)
		}
	}
}

func TestSchlick_Limits(t *testing.T) {
	ratio := 1.0 / 1.5

	// Normal incidence: r0 = ((1-ratio)/(1+ratio))^2 = 0.04 for glass
	r0 := Schlick(ratio, 1.0)
	if r0 < 0.03 || r0 > 0.06 {
		t.Errorf("Normal incidence reflectance = %.3f, expected ~0.04", r0)
	}

	// Grazing incidence approaches full reflection
	r90 := Schlick(ratio, 0.0)
	if r90 < 0.95 {
		t.Errorf("Grazing incidence reflectance = %.3f, expected close to 1.0", r90)
	}

	// Monotonic between the limits
	r45 := Schlick(ratio, math.Cos(math.Pi/4))
	if r45 <= r0 || r90 <= r45 {
		t.Errorf("Reflectance should increase with angle: R(0)=%.3f R(45)=%.3f R(90)=%.3f",
			r0, r45, r90)
	}
}
