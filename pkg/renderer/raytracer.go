package renderer

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/df07/go-viewfactor-raytracer/pkg/core"
	"github.com/df07/go-viewfactor-raytracer/pkg/scene"
)

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// RenderConfig contains pixel-sampling configuration
type RenderConfig struct {
	Width           int     // Image width in pixels
	Height          int     // Image height in pixels
	SamplesPerPixel int     // Rays averaged per pixel
	MaxDepth        int     // Maximum ray bounce depth
	Jitter          float64 // Sub-pixel jitter amplitude; 0 aims every sample at the pixel corner
	Workers         int     // Parallel row workers (0 = use CPU count)
	Seed            int64   // Base seed for the per-row random streams
}

// DefaultRenderConfig returns the classic cover-image settings
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		Width:           1200,
		Height:          800,
		SamplesPerPixel: 16,
		MaxDepth:        30,
		Jitter:          0,
		Workers:         0,
		Seed:            42,
	}
}

// RayColor returns the color seen along a ray. Hits scatter according to
// the surface material and the scattered ray is followed recursively,
// tinted by the material attenuation at each bounce. Absorbed rays and
// rays that exceed maxDepth bounces return black; rays that escape the
// scene return the background gradient.
func RayColor(ray core.Ray, s *scene.Scene, depth, maxDepth int, random *rand.Rand) core.Vec3 {
	if hit, ok := s.Hit(ray, 0.001, math.MaxFloat64, random); ok {
		scattered, attenuation, didScatter := hit.Material.Scatter(ray, hit.Point, hit.Normal, random)
		if depth < maxDepth && didScatter {
			return RayColor(scattered, s, depth+1, maxDepth, random).MultiplyVec(attenuation)
		}
		return core.Vec3{}
	}
	return s.BackgroundColor(ray.Direction)
}

// Raytracer renders a scene through a camera into an Image
type Raytracer struct {
	scene  *scene.Scene
	camera *Camera
	config RenderConfig
	logger core.Logger
}

// NewRaytracer creates a raytracer. A nil logger falls back to stdout.
func NewRaytracer(s *scene.Scene, camera *Camera, config RenderConfig, logger core.Logger) *Raytracer {
	if logger == nil {
		logger = NewDefaultLogger()
	}
	return &Raytracer{
		scene:  s,
		camera: camera,
		config: config,
		logger: logger,
	}
}

// renderRow adds task.samples fresh samples to every pixel of one image
// row, on top of whatever sums the row already holds. Finalizing tasks then
// average the row and apply gamma 2 correction in place.
func (rt *Raytracer) renderRow(img *Image, task rowTask) {
	width := float64(rt.config.Width)
	height := float64(rt.config.Height)
	j := task.row

	for i := 0; i < rt.config.Width; i++ {
		colorAccum := img.At(i, j)

		for sample := 0; sample < task.samples; sample++ {
			u := (float64(i) + rt.config.Jitter*task.random.Float64()) / width
			v := (float64(j) + rt.config.Jitter*task.random.Float64()) / height
			ray := rt.camera.GetRay(u, v, task.random)
			colorAccum = colorAccum.Add(RayColor(ray, rt.scene, 0, rt.config.MaxDepth, task.random))
		}

		img.Set(i, j, colorAccum)
	}

	if task.finalize {
		for i := 0; i < rt.config.Width; i++ {
			img.Set(i, j, img.At(i, j).Divide(float64(task.samples)).Gamma2())
		}
	}
}

// Render walks every pixel of the image, bottom row up. Rows are handed to
// the worker pool; each row task is seeded with Seed + row index, so the
// output is deterministic for a fixed seed regardless of worker count.
func (rt *Raytracer) Render() *Image {
	img := NewImage(rt.config.Width, rt.config.Height)
	pool := NewWorkerPool(rt, img, rt.config.Workers)

	rt.logger.Printf("Rendering %dx%d at %d samples/pixel (%d workers)...\n",
		rt.config.Width, rt.config.Height, rt.config.SamplesPerPixel, pool.NumWorkers())
	start := time.Now()

	pool.Start()
	for j := rt.config.Height - 1; j >= 0; j-- {
		pool.Submit(rowTask{
			row:      j,
			samples:  rt.config.SamplesPerPixel,
			finalize: true,
			random:   rand.New(rand.NewSource(rt.config.Seed + int64(j))),
		})
	}
	pool.Stop()

	rt.logger.Printf("Render completed in %v\n", time.Since(start))
	return img
}
