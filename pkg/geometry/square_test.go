package geometry

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-viewfactor-raytracer/pkg/core"
)

func floorSquare(length float64) *Square {
	return NewSquare(core.NewVec3(0, 0, 0), length, testMaterial(),
		core.NewVec3(1, 0, 0), core.NewVec3(0, 0, 1), core.NewVec3(0, 1, 0))
}

func TestSquare_Hit_FrontalHit(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	square := floorSquare(1.0)
	ray := core.NewRay(core.NewVec3(0.2, 3, 0.3), core.NewVec3(0, -1, 0))

	hit, isHit := square.Hit(ray, 0.001, 1000.0, random)
	if !isHit {
		t.Fatal("Expected hit, but got miss")
	}

	if math.Abs(hit.T-3.0) > 1e-9 {
		t.Errorf("Expected t=3, got t=%f", hit.T)
	}
	if !vecNear(hit.Point, core.NewVec3(0.2, 0, 0.3), 1e-9) {
		t.Errorf("Expected point (0.2, 0, 0.3), got %v", hit.Point)
	}
	if !vecNear(hit.Normal, core.NewVec3(0, 1, 0), 1e-9) {
		t.Errorf("Expected upward normal against the ray, got %v", hit.Normal)
	}
}

func TestSquare_Hit_NormalFacesRay(t *testing.T) {
	// The reported normal always opposes the ray direction, so a ray
	// arriving from below sees the plane normal flipped downward.
	random := rand.New(rand.NewSource(42))
	square := floorSquare(1.0)
	ray := core.NewRay(core.NewVec3(0.2, -3, 0.3), core.NewVec3(0, 1, 0))

	hit, isHit := square.Hit(ray, 0.001, 1000.0, random)
	if !isHit {
		t.Fatal("Expected hit, but got miss")
	}
	if !vecNear(hit.Normal, core.NewVec3(0, -1, 0), 1e-9) {
		t.Errorf("Expected downward normal against the ray, got %v", hit.Normal)
	}
}

func TestSquare_Hit_OutsideBounds(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	square := floorSquare(1.0)

	tests := []struct {
		name      string
		rayOrigin core.Vec3
	}{
		{name: "beyond u extent", rayOrigin: core.NewVec3(0.7, 3, 0)},
		{name: "beyond v extent", rayOrigin: core.NewVec3(0, 3, -0.9)},
		{name: "beyond both extents", rayOrigin: core.NewVec3(2, 3, 2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(tt.rayOrigin, core.NewVec3(0, -1, 0))
			if hit, isHit := square.Hit(ray, 0.001, 1000.0, random); isHit {
				t.Errorf("Expected miss outside patch bounds, got hit at %v", hit.Point)
			}
		})
	}
}

func TestSquare_Hit_ParallelReject(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	square := floorSquare(1.0)

	// Exactly in-plane and nearly in-plane rays are both rejected.
	parallel := core.NewRay(core.NewVec3(-3, 0, 0), core.NewVec3(1, 0, 0))
	if _, isHit := square.Hit(parallel, 0.001, 1000.0, random); isHit {
		t.Error("Expected in-plane ray to miss")
	}

	grazing := core.NewRay(core.NewVec3(-3, 0.001, 0), core.NewVec3(1, -1e-4, 0))
	if _, isHit := square.Hit(grazing, 0.001, 1000.0, random); isHit {
		t.Error("Expected nearly parallel ray to miss")
	}
}

func TestSquare_Hit_RespectsRange(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	square := floorSquare(1.0)
	ray := core.NewRay(core.NewVec3(0.2, 3, 0.3), core.NewVec3(0, -1, 0))

	if _, isHit := square.Hit(ray, 0.001, 2.9, random); isHit {
		t.Error("Expected miss with tMax before the plane")
	}
	if _, isHit := square.Hit(ray, 3.1, 1000.0, random); isHit {
		t.Error("Expected miss with tMin past the plane")
	}
	if _, isHit := square.Hit(ray, 0.001, 3.1, random); !isHit {
		t.Error("Expected hit with the plane inside the range")
	}
}

func TestSquare_Hit_ObliqueRay(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	square := floorSquare(2.0)
	// From (2,2,0) toward the origin: crosses y=0 at (0,0,0).
	ray := core.NewRay(core.NewVec3(2, 2, 0), core.NewVec3(-1, -1, 0))

	hit, isHit := square.Hit(ray, 0.001, 1000.0, random)
	if !isHit {
		t.Fatal("Expected hit, but got miss")
	}
	if math.Abs(hit.T-2.0) > 1e-9 {
		t.Errorf("Expected t=2, got t=%f", hit.T)
	}
	if !vecNear(hit.Point, core.NewVec3(0, 0, 0), 1e-9) {
		t.Errorf("Expected point at origin, got %v", hit.Point)
	}
}

func TestSquare_SurfacePoint(t *testing.T) {
	square := NewSquare(core.NewVec3(1, 0, 2), 2.0, testMaterial(),
		core.NewVec3(1, 0, 0), core.NewVec3(0, 0, 1), core.NewVec3(0, 1, 0))

	tests := []struct {
		name     string
		u, v     float64
		expected core.Vec3
	}{
		{name: "center", u: 0.5, v: 0.5, expected: core.NewVec3(1, 0, 2)},
		{name: "low corner", u: 0.0, v: 0.0, expected: core.NewVec3(0, 0, 1)},
		{name: "high corner", u: 1.0, v: 1.0, expected: core.NewVec3(2, 0, 3)},
		{name: "edge midpoint", u: 1.0, v: 0.5, expected: core.NewVec3(2, 0, 2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			point := square.SurfacePoint(tt.u, tt.v)
			if !vecNear(point, tt.expected, 1e-9) {
				t.Errorf("Expected point %v, got %v", tt.expected, point)
			}
		})
	}

	if !vecNear(square.SurfaceNormal(0.2, 0.8), core.NewVec3(0, 1, 0), 1e-9) {
		t.Errorf("Expected plane normal, got %v", square.SurfaceNormal(0.2, 0.8))
	}
	if math.Abs(square.Area()-4.0) > 1e-9 {
		t.Errorf("Expected area 4, got %v", square.Area())
	}
	if math.Abs(square.DiffArea(0.1, 0.9)-square.Area()) > 1e-9 {
		t.Error("Expected uniform differential-area weight equal to the area")
	}
}

func TestNewHorizontalSquare_Basis(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	square := NewHorizontalSquare(core.NewVec3(0, 0, 0), 1.0, testMaterial(), random)

	if !vecNear(square.W, core.NewVec3(0, 1, 0), 1e-9) {
		t.Errorf("Expected upward normal, got %v", square.W)
	}
	if math.Abs(square.U.Y) > 1e-9 || math.Abs(square.V.Y) > 1e-9 {
		t.Errorf("Expected horizontal in-plane axes, got %v and %v", square.U, square.V)
	}
	if math.Abs(square.U.Dot(square.V)) > 1e-9 {
		t.Errorf("Expected orthogonal in-plane axes, got dot %v", square.U.Dot(square.V))
	}
	if math.Abs(square.U.Length()-1.0) > 1e-9 || math.Abs(square.V.Length()-1.0) > 1e-9 {
		t.Error("Expected unit in-plane axes")
	}
}
