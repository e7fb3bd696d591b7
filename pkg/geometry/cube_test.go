package geometry

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-viewfactor-raytracer/pkg/core"
)

func axisAlignedCube(center core.Vec3, length float64) *Cube {
	return NewOrientedCube(center, length, testMaterial(),
		core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0), core.NewVec3(0, 0, 1))
}

func TestCube_Hit_AxisAlignedFaces(t *testing.T) {
	cube := axisAlignedCube(core.NewVec3(0, 0, 0), 2.0)

	tests := []struct {
		name           string
		rayOrigin      core.Vec3
		rayDirection   core.Vec3
		expectedT      float64
		expectedPoint  core.Vec3
		expectedNormal core.Vec3
	}{
		{
			name:           "positive x face",
			rayOrigin:      core.NewVec3(5, 0, 0),
			rayDirection:   core.NewVec3(-1, 0, 0),
			expectedT:      4.0,
			expectedPoint:  core.NewVec3(1, 0, 0),
			expectedNormal: core.NewVec3(1, 0, 0),
		},
		{
			name:           "negative x face",
			rayOrigin:      core.NewVec3(-5, 0, 0),
			rayDirection:   core.NewVec3(1, 0, 0),
			expectedT:      4.0,
			expectedPoint:  core.NewVec3(-1, 0, 0),
			expectedNormal: core.NewVec3(-1, 0, 0),
		},
		{
			name:           "positive y face",
			rayOrigin:      core.NewVec3(0.3, 5, -0.4),
			rayDirection:   core.NewVec3(0, -1, 0),
			expectedT:      4.0,
			expectedPoint:  core.NewVec3(0.3, 1, -0.4),
			expectedNormal: core.NewVec3(0, 1, 0),
		},
		{
			name:           "negative y face",
			rayOrigin:      core.NewVec3(0.3, -5, -0.4),
			rayDirection:   core.NewVec3(0, 1, 0),
			expectedT:      4.0,
			expectedPoint:  core.NewVec3(0.3, -1, -0.4),
			expectedNormal: core.NewVec3(0, -1, 0),
		},
		{
			name:           "positive z face",
			rayOrigin:      core.NewVec3(0, 0, 5),
			rayDirection:   core.NewVec3(0, 0, -1),
			expectedT:      4.0,
			expectedPoint:  core.NewVec3(0, 0, 1),
			expectedNormal: core.NewVec3(0, 0, 1),
		},
		{
			name:           "negative z face",
			rayOrigin:      core.NewVec3(0, 0, -5),
			rayDirection:   core.NewVec3(0, 0, 1),
			expectedT:      4.0,
			expectedPoint:  core.NewVec3(0, 0, -1),
			expectedNormal: core.NewVec3(0, 0, -1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(tt.rayOrigin, tt.rayDirection)
			hit, isHit := cube.Hit(ray, 0.001, 1000.0)

			if !isHit {
				t.Fatal("Expected hit, but got miss")
			}

			if math.Abs(hit.T-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got t=%f", tt.expectedT, hit.T)
			}
			if !vecNear(hit.Point, tt.expectedPoint, 1e-9) {
				t.Errorf("Expected point %v, got %v", tt.expectedPoint, hit.Point)
			}
			if !vecNear(hit.Normal, tt.expectedNormal, 1e-9) {
				t.Errorf("Expected normal %v, got %v", tt.expectedNormal, hit.Normal)
			}
		})
	}
}

func TestCube_Hit_NearFaceWins(t *testing.T) {
	cube := axisAlignedCube(core.NewVec3(0, 0, 0), 2.0)
	ray := core.NewRay(core.NewVec3(5, 0.2, 0.2), core.NewVec3(-1, 0, 0))

	hit, isHit := cube.Hit(ray, 0.001, 1000.0)
	if !isHit {
		t.Fatal("Expected hit, but got miss")
	}
	if math.Abs(hit.T-4.0) > 1e-9 {
		t.Errorf("Expected near face at t=4, got t=%f", hit.T)
	}
	if !vecNear(hit.Normal, core.NewVec3(1, 0, 0), 1e-9) {
		t.Errorf("Expected near face normal, got %v", hit.Normal)
	}
}

func TestCube_Hit_MissOutsideBoundingSphere(t *testing.T) {
	cube := axisAlignedCube(core.NewVec3(0, 0, 0), 2.0)
	ray := core.NewRay(core.NewVec3(5, 10, 0), core.NewVec3(-1, 0, 0))

	_, isHit := cube.Hit(ray, 0.001, 1000.0)
	if isHit {
		t.Error("Expected ray far above cube to miss")
	}
}

func TestCube_Hit_BoundingSphereHitButFacesMissed(t *testing.T) {
	// The circumscribing sphere of an edge-2 cube has radius sqrt(3), so a
	// ray at height 1.5 pierces the sphere yet misses every face. No hit
	// record may survive from the bounding-sphere test.
	cube := axisAlignedCube(core.NewVec3(0, 0, 0), 2.0)
	ray := core.NewRay(core.NewVec3(5, 1.5, 0), core.NewVec3(-1, 0, 0))

	hit, isHit := cube.Hit(ray, 0.001, 1000.0)
	if isHit {
		t.Errorf("Expected miss, but got hit at t=%f with normal %v", hit.T, hit.Normal)
	}
	if hit != nil {
		t.Errorf("Expected nil record on miss, got %+v", hit)
	}
}

func TestCube_Hit_Rotated(t *testing.T) {
	// Cube yawed 45 degrees about world Y. The ray approaches along -X
	// offset in Z, so the first face plane it crosses fails the in-plane
	// bounds and the hit lands on the +U face.
	s := math.Sqrt(2) / 2.0
	cube := NewOrientedCube(core.NewVec3(0, 0, 0), 2.0, testMaterial(),
		core.NewVec3(s, 0, s), core.NewVec3(s, 0, -s), core.NewVec3(0, 1, 0))
	ray := core.NewRay(core.NewVec3(5, 0, 0.3), core.NewVec3(-1, 0, 0))

	hit, isHit := cube.Hit(ray, 0.001, 1000.0)
	if !isHit {
		t.Fatal("Expected hit, but got miss")
	}

	expectedT := 5.3 - math.Sqrt(2)
	if math.Abs(hit.T-expectedT) > 1e-9 {
		t.Errorf("Expected t=%v, got t=%v", expectedT, hit.T)
	}
	if !vecNear(hit.Point, core.NewVec3(math.Sqrt(2)-0.3, 0, 0.3), 1e-9) {
		t.Errorf("Expected point on rotated face, got %v", hit.Point)
	}
	if !vecNear(hit.Normal, core.NewVec3(s, 0, s), 1e-9) {
		t.Errorf("Expected rotated face normal, got %v", hit.Normal)
	}
}

func TestCube_Hit_RespectsBounds(t *testing.T) {
	cube := axisAlignedCube(core.NewVec3(0, 0, 0), 2.0)
	ray := core.NewRay(core.NewVec3(5, 0, 0), core.NewVec3(-1, 0, 0))

	if _, isHit := cube.Hit(ray, 0.001, 3.5); isHit {
		t.Error("Expected miss due to tMax bound")
	}
	if hit, isHit := cube.Hit(ray, 4.5, 1000.0); isHit {
		// The near face at t=4 is excluded; the far face at t=6 remains.
		if math.Abs(hit.T-6.0) > 1e-9 {
			t.Errorf("Expected far face at t=6, got t=%f", hit.T)
		}
	} else {
		t.Error("Expected far face hit with tMin past the near face")
	}
}

func TestNewCube_RandomYawBasis(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	cube := NewCube(core.NewVec3(0, 0, 0), 1.0, testMaterial(), random)

	if !vecNear(cube.W, core.NewVec3(0, 1, 0), 1e-9) {
		t.Errorf("Expected W to point up, got %v", cube.W)
	}
	if math.Abs(cube.U.Y) > 1e-9 || math.Abs(cube.V.Y) > 1e-9 {
		t.Errorf("Expected U and V in the horizontal plane, got %v and %v", cube.U, cube.V)
	}
	if math.Abs(cube.U.Length()-1.0) > 1e-9 || math.Abs(cube.V.Length()-1.0) > 1e-9 {
		t.Error("Expected unit basis vectors")
	}
	if !vecNear(cube.U.Cross(cube.V), cube.W, 1e-9) {
		t.Errorf("Expected right-handed basis, got U x V = %v", cube.U.Cross(cube.V))
	}
}

func TestCube_Face_AxisAligned(t *testing.T) {
	cube := axisAlignedCube(core.NewVec3(1, 2, 3), 2.0)

	tests := []struct {
		name           string
		face           CubeFace
		expectedCenter core.Vec3
		expectedNormal core.Vec3
	}{
		{name: "XP", face: FaceXP, expectedCenter: core.NewVec3(2, 2, 3), expectedNormal: core.NewVec3(1, 0, 0)},
		{name: "XN", face: FaceXN, expectedCenter: core.NewVec3(0, 2, 3), expectedNormal: core.NewVec3(-1, 0, 0)},
		{name: "YP", face: FaceYP, expectedCenter: core.NewVec3(1, 3, 3), expectedNormal: core.NewVec3(0, 1, 0)},
		{name: "YN", face: FaceYN, expectedCenter: core.NewVec3(1, 1, 3), expectedNormal: core.NewVec3(0, -1, 0)},
		{name: "ZP", face: FaceZP, expectedCenter: core.NewVec3(1, 2, 4), expectedNormal: core.NewVec3(0, 0, 1)},
		{name: "ZN", face: FaceZN, expectedCenter: core.NewVec3(1, 2, 2), expectedNormal: core.NewVec3(0, 0, -1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			square := cube.Face(tt.face)

			if !vecNear(square.Center, tt.expectedCenter, 1e-9) {
				t.Errorf("Expected face center %v, got %v", tt.expectedCenter, square.Center)
			}
			if !vecNear(square.SurfaceNormal(0.5, 0.5), tt.expectedNormal, 1e-9) {
				t.Errorf("Expected face normal %v, got %v", tt.expectedNormal, square.SurfaceNormal(0.5, 0.5))
			}
			if math.Abs(square.Area()-4.0) > 1e-9 {
				t.Errorf("Expected face area 4, got %v", square.Area())
			}
			if square.Material != cube.Material {
				t.Error("Expected face to share the cube material")
			}
		})
	}
}

func TestCube_Face_FollowsRotatedBasis(t *testing.T) {
	s := math.Sqrt(2) / 2.0
	u := core.NewVec3(s, 0, s)
	v := core.NewVec3(s, 0, -s)
	w := core.NewVec3(0, 1, 0)
	cube := NewOrientedCube(core.NewVec3(0, 0, 0), 2.0, testMaterial(), u, v, w)

	square := cube.Face(FaceXP)
	if !vecNear(square.Center, u, 1e-9) {
		t.Errorf("Expected face center along rotated U, got %v", square.Center)
	}
	if !vecNear(square.SurfaceNormal(0.5, 0.5), u, 1e-9) {
		t.Errorf("Expected face normal along rotated U, got %v", square.SurfaceNormal(0.5, 0.5))
	}
}
