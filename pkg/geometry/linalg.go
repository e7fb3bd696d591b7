package geometry

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-viewfactor-raytracer/pkg/core"
)

// mglVec converts a core vector to an mgl64 vector for linear solves
func mglVec(v core.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

// coreVec converts an mgl64 vector back to a core vector
func coreVec(v mgl64.Vec3) core.Vec3 {
	return core.NewVec3(v.X(), v.Y(), v.Z())
}
