package renderer

import (
	"math"
	"math/rand"

	"github.com/df07/go-viewfactor-raytracer/pkg/core"
)

// CameraConfig describes a camera placement and lens.
type CameraConfig struct {
	LookFrom      core.Vec3
	LookAt        core.Vec3
	Up            core.Vec3
	VFov          float64 // vertical field of view in degrees
	AspectRatio   float64 // viewport width over height
	Aperture      float64 // lens diameter, thin-lens cameras only
	FocusDistance float64 // distance to the plane in focus, thin-lens cameras only
}

// MergeCameraConfig overlays the non-zero fields of override onto base.
func MergeCameraConfig(base, override CameraConfig) CameraConfig {
	merged := base
	if override.LookFrom != (core.Vec3{}) {
		merged.LookFrom = override.LookFrom
	}
	if override.LookAt != (core.Vec3{}) {
		merged.LookAt = override.LookAt
	}
	if override.Up != (core.Vec3{}) {
		merged.Up = override.Up
	}
	if override.VFov != 0 {
		merged.VFov = override.VFov
	}
	if override.AspectRatio != 0 {
		merged.AspectRatio = override.AspectRatio
	}
	if override.Aperture != 0 {
		merged.Aperture = override.Aperture
	}
	if override.FocusDistance != 0 {
		merged.FocusDistance = override.FocusDistance
	}
	return merged
}

type cameraKind int

const (
	kindPinhole cameraKind = iota
	kindThinLens
)

// Camera generates primary rays. Pinhole cameras map viewport
// coordinates straight onto the image plane; thin-lens cameras add
// defocus blur by jittering ray origins across the lens disk.
type Camera struct {
	kind            cameraKind
	origin          core.Vec3
	lowerLeftCorner core.Vec3
	horizontal      core.Vec3
	vertical        core.Vec3
	u, v            core.Vec3
	lensRadius      float64
}

func viewBasis(cfg CameraConfig) (u, v, w core.Vec3, halfWidth, halfHeight float64) {
	w = cfg.LookFrom.Subtract(cfg.LookAt).Normalize()
	u = cfg.Up.Cross(w).Normalize()
	v = w.Cross(u).Normalize()
	theta := cfg.VFov * math.Pi / 180.0
	halfHeight = math.Tan(theta / 2.0)
	halfWidth = cfg.AspectRatio * halfHeight
	return u, v, w, halfWidth, halfHeight
}

// NewPinholeCamera creates a camera with everything in focus.
func NewPinholeCamera(cfg CameraConfig) *Camera {
	u, v, w, halfWidth, halfHeight := viewBasis(cfg)
	origin := cfg.LookFrom
	return &Camera{
		kind:   kindPinhole,
		origin: origin,
		lowerLeftCorner: origin.
			Subtract(u.Multiply(halfWidth)).
			Subtract(v.Multiply(halfHeight)).
			Subtract(w),
		horizontal: u.Multiply(2.0 * halfWidth),
		vertical:   v.Multiply(2.0 * halfHeight),
	}
}

// NewThinLensCamera creates a camera with a finite aperture. Points at
// the focus distance render sharp; everything else blurs with distance.
func NewThinLensCamera(cfg CameraConfig) *Camera {
	u, v, w, halfWidth, halfHeight := viewBasis(cfg)
	origin := cfg.LookFrom
	fd := cfg.FocusDistance
	return &Camera{
		kind:   kindThinLens,
		origin: origin,
		lowerLeftCorner: origin.Subtract(
			u.Multiply(halfWidth).Add(v.Multiply(halfHeight)).Add(w).Multiply(fd)),
		horizontal: u.Multiply(2.0 * halfWidth * fd),
		vertical:   v.Multiply(2.0 * halfHeight * fd),
		u:          u,
		v:          v,
		lensRadius: cfg.Aperture / 2.0,
	}
}

// GetRay generates a ray through viewport coordinates (s, t) in [0,1]^2,
// with (0,0) at the lower left corner. Thin-lens cameras consume the
// random source for the lens offset; pinhole cameras never touch it.
func (c *Camera) GetRay(s, t float64, random *rand.Rand) core.Ray {
	direction := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(s)).
		Add(c.vertical.Multiply(t)).
		Subtract(c.origin)

	if c.kind == kindPinhole {
		return core.NewRay(c.origin, direction)
	}

	rd := core.RandomInUnitDisk(random).Multiply(c.lensRadius)
	offset := c.u.Multiply(rd.X).Add(c.v.Multiply(rd.Y))
	return core.NewRay(c.origin.Add(offset), direction.Subtract(offset))
}
