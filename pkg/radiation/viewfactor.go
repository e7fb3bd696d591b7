package radiation

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/df07/go-viewfactor-raytracer/pkg/core"
	"github.com/df07/go-viewfactor-raytracer/pkg/geometry"
	"github.com/df07/go-viewfactor-raytracer/pkg/scene"
)

// Matrix holds the view factors of a scene in strictly upper triangular
// form: row i lists F(i,j) for every j > i, so row n-1 is always empty.
// Pairs that could not be estimated hold NaN.
type Matrix [][]float64

// At returns F(i,j). Only j > i entries exist.
func (m Matrix) At(i, j int) float64 {
	return m[i][j-i-1]
}

// String renders every entry as an "F(i,j) = 0.1234" line
func (m Matrix) String() string {
	var sb strings.Builder
	n := len(m)
	for i := 0; i < n; i++ {
		for j := 0; j < n-i-1; j++ {
			fmt.Fprintf(&sb, "F(%d,%d) = %.4f\n", i, j+i+1, m[i][j])
		}
	}
	return sb.String()
}

// surfaceSample evaluates the surface functions of a parameterized form:
// the world-space point at (u,v), the outward normal there, and the
// differential-area weight of the sample.
func surfaceSample(f geometry.Form, u, v float64) (core.Vec3, core.Vec3, float64, error) {
	point, err := f.SurfacePoint(u, v)
	if err != nil {
		return core.Vec3{}, core.Vec3{}, 0, err
	}
	normal, err := f.SurfaceNormal(u, v)
	if err != nil {
		return core.Vec3{}, core.Vec3{}, 0, err
	}
	dA, err := f.DiffArea(u, v)
	if err != nil {
		return core.Vec3{}, core.Vec3{}, 0, err
	}
	return point, normal, dA, nil
}

// ViewFactor estimates the fraction of diffuse radiation leaving form i
// that arrives directly at form j, by Monte Carlo integration of the
// pairwise surface integral with the projected solid angle kernel
// cos(beta1)*cos(beta2)/l^2. Samples whose connecting segment is blocked
// by another form, or that leave either surface through its back side,
// contribute nothing. Both forms must be parameterized; cubes are not.
func ViewFactor(s *scene.Scene, samples, i, j int, random *rand.Rand) (float64, error) {
	if i < 0 || i >= len(s.Forms) || j < 0 || j >= len(s.Forms) {
		return 0, fmt.Errorf("radiation: pair (%d,%d) out of range for %d forms", i, j, len(s.Forms))
	}
	form1 := s.Forms[i]
	form2 := s.Forms[j]

	area1, err := form1.Area()
	if err != nil {
		return 0, fmt.Errorf("radiation: source form %d: %w", i, err)
	}

	sum := 0.0
	for sample := 0; sample < samples; sample++ {
		s1, t1 := random.Float64(), random.Float64()
		s2, t2 := random.Float64(), random.Float64()

		p1, n1, dA1, err := surfaceSample(form1, s1, t1)
		if err != nil {
			return 0, fmt.Errorf("radiation: source form %d: %w", i, err)
		}
		p2, n2, dA2, err := surfaceSample(form2, s2, t2)
		if err != nil {
			return 0, fmt.Errorf("radiation: target form %d: %w", j, err)
		}

		r12 := p2.Subtract(p1)
		l := r12.Length()

		cosBeta1 := r12.Dot(n1) / l
		cosBeta2 := r12.Negate().Dot(n2) / l

		// Cast the connecting ray. A hit on anything but the target
		// form blocks the pair; reaching the target keeps the sample.
		ray := core.NewRay(p1, r12.Normalize())
		if hit, ok := s.Hit(ray, 1e-8, l, random); ok && hit.HitIndex != j {
			cosBeta2 = 0
		}

		// A sample facing away from either surface carries no exchange.
		if cosBeta1 < 0 || cosBeta2 < 0 {
			cosBeta1 = 0
		}

		sum += cosBeta1 * cosBeta2 / (l * l) * dA1 * dA2
	}

	return sum / math.Pi / area1 / float64(samples), nil
}

// ViewFactors estimates the full view-factor matrix of the scene. Pairs
// with an unparameterizable form are skipped and recorded as NaN; a nil
// logger suppresses the skip notices.
func ViewFactors(s *scene.Scene, samples int, random *rand.Rand, logger core.Logger) Matrix {
	if logger == nil {
		logger = core.SilentLogger{}
	}

	n := len(s.Forms)
	matrix := make(Matrix, n)
	for i := 0; i < n; i++ {
		row := make([]float64, 0, n-i-1)
		for j := i + 1; j < n; j++ {
			f, err := ViewFactor(s, samples, i, j, random)
			if err != nil {
				logger.Printf("Skipping pair (%d,%d): %v\n", i, j, err)
				row = append(row, math.NaN())
				continue
			}
			row = append(row, f)
		}
		matrix[i] = row
	}
	return matrix
}
