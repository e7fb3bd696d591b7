package scene

import (
	"math/rand"

	"github.com/df07/go-viewfactor-raytracer/pkg/core"
	"github.com/df07/go-viewfactor-raytracer/pkg/geometry"
)

// Scene contains the forms to trace plus the background gradient.
type Scene struct {
	Forms       []geometry.Form
	TopColor    core.Vec3 // sky color straight up
	BottomColor core.Vec3 // sky color at the horizon and below
}

// NewScene creates an empty scene under the default white-to-blue sky.
func NewScene() *Scene {
	return &Scene{
		Forms:       make([]geometry.Form, 0),
		TopColor:    core.NewVec3(0.5, 0.7, 1.0),
		BottomColor: core.NewVec3(1.0, 1.0, 1.0),
	}
}

// Add appends forms to the scene.
func (s *Scene) Add(forms ...geometry.Form) {
	s.Forms = append(s.Forms, forms...)
}

// Hit finds the nearest intersection along the ray within (tMin, tMax).
// The returned record carries the material of the owning form and its
// index in the scene, so callers can match hits back to forms.
func (s *Scene) Hit(ray core.Ray, tMin, tMax float64, random *rand.Rand) (*geometry.HitRecord, bool) {
	var closest *geometry.HitRecord
	closestSoFar := tMax
	hitIndex := -1

	for i := range s.Forms {
		if rec, ok := s.Forms[i].Hit(ray, tMin, closestSoFar, random); ok {
			closest = rec
			closestSoFar = rec.T
			hitIndex = i
		}
	}

	if closest == nil {
		return nil, false
	}
	closest.Material = s.Forms[hitIndex].Material()
	closest.HitIndex = hitIndex
	return closest, true
}

// BackgroundColor returns the sky gradient along a ray direction, blending
// from BottomColor at the horizon up to TopColor overhead.
func (s *Scene) BackgroundColor(direction core.Vec3) core.Vec3 {
	unit := direction.Normalize()
	t := 0.5 * (unit.Y + 1.0)
	return s.BottomColor.Multiply(1.0 - t).Add(s.TopColor.Multiply(t))
}
