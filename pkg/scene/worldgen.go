package scene

import (
	"math/rand"
	"sort"

	"github.com/df07/go-viewfactor-raytracer/pkg/core"
	"github.com/df07/go-viewfactor-raytracer/pkg/geometry"
	"github.com/df07/go-viewfactor-raytracer/pkg/material"
)

// NewClassicWorld builds the showcase scene: a grid of small randomized
// forms scattered around three landmark shapes on a giant floor sphere.
// At most n forms survive; the oldest grid forms are dropped first so
// the landmarks always remain.
func NewClassicWorld(n int, random *rand.Rand) *Scene {
	s := NewScene()

	for a := -11; a < 11; a++ {
		for b := -11; b < 11; b++ {
			if len(s.Forms) > n {
				break
			}
			chooseMat := random.Float64()
			chooseForm := random.Float64()
			center := core.NewVec3(
				float64(a)+0.9*random.Float64(),
				0.2,
				float64(b)+0.9*random.Float64(),
			)

			var mat material.Material
			switch {
			case chooseMat < 0.8:
				albedo := core.RandomVec3(random).MultiplyVec(core.RandomVec3(random))
				mat = material.NewLambertian(albedo)
			case chooseMat < 0.95:
				mat = material.NewMetal(core.Ones(), 0.01*random.Float64())
			default:
				mat = material.NewDielectric(1.5)
			}

			switch {
			case chooseForm < 0.1:
				s.Add(geometry.SquareForm(geometry.NewHorizontalSquare(center, 0.2, mat, random)))
			case chooseForm < 0.8:
				s.Add(geometry.SphereForm(geometry.NewSphere(center, 0.2, mat)))
			default:
				s.Add(geometry.CubeForm(geometry.NewCube(center, 0.4, mat, random)))
			}
		}
	}

	// Landmark dielectric sphere.
	s.Add(geometry.SphereForm(geometry.NewSphere(
		core.NewVec3(0, 1, 0), 1.0, material.NewDielectric(1.5))))

	// Landmark lambertian sphere.
	s.Add(geometry.SphereForm(geometry.NewSphere(
		core.NewVec3(-4, 1, 0), 1.0, material.NewLambertian(core.NewVec3(0.4, 0.2, 0.1)))))

	// Landmark metal cube.
	s.Add(geometry.CubeForm(geometry.NewCube(
		core.NewVec3(4, 0.5, 0), 1.0, material.NewMetal(core.NewVec3(0.7, 0.6, 0.5), 0.0), random)))

	// Floor.
	s.Add(geometry.SphereForm(geometry.NewSphere(
		core.NewVec3(0, -1000, 0), 1000.0, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))))

	if excess := len(s.Forms) - n; excess > 0 {
		s.Forms = s.Forms[excess:]
	}

	return s
}

// RandomWorldConfig bounds the placement volume and edge sizes of
// generated forms and carries the selection thresholds for form and
// material kinds. A uniform draw picks the kind with the smallest
// threshold above it; when every threshold is below the draw, the form
// falls back to a horizontal square and the material to glass.
type RandomWorldConfig struct {
	XLimits      [2]float64
	YLimits      [2]float64
	ZLimits      [2]float64
	LengthLimits [2]float64

	SphereThreshold float64
	CubeThreshold   float64
	SquareThreshold float64

	LambertianThreshold float64
	MetalThreshold      float64
	DielectricThreshold float64
}

const (
	pickSphere = iota
	pickCube
	pickSquare
)

const (
	pickLambertian = iota
	pickMetal
	pickDielectric
)

type weightedKind struct {
	threshold float64
	kind      int
}

// firstKind returns the kind of the first choice, in ascending threshold
// order, whose threshold exceeds the draw. Choices must be pre-sorted.
func firstKind(choices []weightedKind, draw float64, fallback int) int {
	for _, choice := range choices {
		if draw < choice.threshold {
			return choice.kind
		}
	}
	return fallback
}

// NewRandomWorld scatters n random forms inside the configured volume.
func NewRandomWorld(cfg RandomWorldConfig, n int, random *rand.Rand) *Scene {
	s := NewScene()

	mats := []weightedKind{
		{cfg.LambertianThreshold, pickLambertian},
		{cfg.MetalThreshold, pickMetal},
		{cfg.DielectricThreshold, pickDielectric},
	}
	forms := []weightedKind{
		{cfg.SphereThreshold, pickSphere},
		{cfg.CubeThreshold, pickCube},
		{cfg.SquareThreshold, pickSquare},
	}
	sort.SliceStable(mats, func(i, j int) bool { return mats[i].threshold < mats[j].threshold })
	sort.SliceStable(forms, func(i, j int) bool { return forms[i].threshold < forms[j].threshold })

	centerMin := core.NewVec3(cfg.XLimits[0], cfg.YLimits[0], cfg.ZLimits[0])
	centerMax := core.NewVec3(cfg.XLimits[1], cfg.YLimits[1], cfg.ZLimits[1])

	for i := 0; i < n; i++ {
		chooseMat := random.Float64()
		chooseForm := random.Float64()

		blend := core.RandomVec3(random)
		center := blend.MultiplyVec(centerMin).
			Add(core.Ones().Subtract(blend).MultiplyVec(centerMax))

		lengthBlend := random.Float64()
		length := cfg.LengthLimits[0]*lengthBlend + cfg.LengthLimits[1]*(1.0-lengthBlend)

		var mat material.Material
		switch firstKind(mats, chooseMat, pickDielectric) {
		case pickLambertian:
			albedo := core.RandomVec3(random).MultiplyVec(core.RandomVec3(random))
			mat = material.NewLambertian(albedo)
		case pickMetal:
			mat = material.NewMetal(core.Ones(), 0.01*random.Float64())
		default:
			mat = material.NewDielectric(1.5)
		}

		switch firstKind(forms, chooseForm, pickSquare) {
		case pickSphere:
			s.Add(geometry.SphereForm(geometry.NewSphere(center, length/2.0, mat)))
		case pickCube:
			s.Add(geometry.CubeForm(geometry.NewCube(center, length, mat, random)))
		default:
			s.Add(geometry.SquareForm(geometry.NewHorizontalSquare(center, length, mat, random)))
		}
	}

	return s
}

// NewViewFactorWorld builds a compact world of parameterized forms for
// radiative exchange studies: a floor patch, a sphere hovering above it,
// and a ceiling patch facing back down. The sphere partially shadows the
// floor-to-ceiling exchange.
func NewViewFactorWorld() *Scene {
	s := NewScene()

	floorMat := material.NewLambertian(core.NewVec3(0.81, 0.3, 0.3))
	ceilingMat := material.NewLambertian(core.NewVec3(0.3, 0.3, 0.81))
	sphereMat := material.NewMetal(core.NewVec3(0.7, 0.6, 0.5), 0.0)

	floor := geometry.NewSquare(core.NewVec3(0, 0, 0), 1.0, floorMat,
		core.NewVec3(1, 0, 0), core.NewVec3(0, 0, 1), core.NewVec3(0, 1, 0))
	sphere := geometry.NewSphere(core.NewVec3(0, 1.0, 0), 0.3, sphereMat)
	ceiling := geometry.NewSquare(core.NewVec3(0, 2.0, 0), 1.0, ceilingMat,
		core.NewVec3(1, 0, 0), core.NewVec3(0, 0, 1), core.NewVec3(0, -1, 0))

	s.Add(geometry.SquareForm(floor), geometry.SphereForm(sphere), geometry.SquareForm(ceiling))
	return s
}
