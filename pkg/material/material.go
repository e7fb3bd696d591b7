package material

import (
	"github.com/df07/go-viewfactor-raytracer/pkg/core"
)

// Kind discriminates the material variants
type Kind int

const (
	// KindLambertian is a perfectly diffuse surface
	KindLambertian Kind = iota
	// KindMetal is a specular reflector with optional fuzz
	KindMetal
	// KindDielectric is a clear refractive medium like glass
	KindDielectric
)

// Material is a tagged variant over lambertian, metal and dielectric
// surfaces. The variant set is fixed; dispatch is an exhaustive switch.
// Values are immutable and trivially copyable.
type Material struct {
	kind   Kind
	albedo core.Vec3
	fuzz   float64
	refIdx float64
}

// NewLambertian creates a diffuse material with the given albedo
func NewLambertian(albedo core.Vec3) Material {
	return Material{kind: KindLambertian, albedo: albedo}
}

// NewMetal creates a reflective material. Fuzz controls the random
// perturbation of the mirror direction; 0 is a perfect mirror.
func NewMetal(albedo core.Vec3, fuzz float64) Material {
	return Material{kind: KindMetal, albedo: albedo, fuzz: fuzz}
}

// NewDielectric creates a refractive material with the given refractive
// index (e.g. 1.5 for glass)
func NewDielectric(refractiveIndex float64) Material {
	return Material{kind: KindDielectric, albedo: core.Ones(), refIdx: refractiveIndex}
}

// Kind returns the material variant tag
func (m Material) Kind() Kind {
	return m.kind
}

// Albedo returns the surface color
func (m Material) Albedo() core.Vec3 {
	return m.albedo
}

// Fuzz returns the metal perturbation radius
func (m Material) Fuzz() float64 {
	return m.fuzz
}

// RefractiveIndex returns the dielectric refractive index
func (m Material) RefractiveIndex() float64 {
	return m.refIdx
}
