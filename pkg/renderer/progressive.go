package renderer

import (
	"math/rand"
	"time"

	"github.com/df07/go-viewfactor-raytracer/pkg/core"
	"github.com/df07/go-viewfactor-raytracer/pkg/scene"
)

// ProgressiveConfig controls multi-pass rendering. The first pass renders a
// quick preview at InitialSamples per pixel; the rest of the sample budget
// is split evenly across the remaining passes, with the final pass
// absorbing the remainder.
type ProgressiveConfig struct {
	InitialSamples int // Samples per pixel for the first pass (1 recommended)
	MaxPasses      int // Total number of passes
}

// DefaultProgressiveConfig returns sensible default values
func DefaultProgressiveConfig() ProgressiveConfig {
	return ProgressiveConfig{
		InitialSamples: 1,
		MaxPasses:      5,
	}
}

// ProgressiveRaytracer refines one image over multiple passes. Every pass
// adds samples to a shared accumulation buffer, so early passes show a
// noisy preview that later passes converge toward the one-shot render. The
// total sample budget is the RenderConfig's SamplesPerPixel.
type ProgressiveRaytracer struct {
	raytracer   *Raytracer
	progressive ProgressiveConfig
	accum       *Image // Raw per-pixel color sums across all passes
	display     *Image // Averaged, gamma-corrected snapshot of accum
	pass        int
	samplesDone int
}

// NewProgressiveRaytracer creates a progressive raytracer. A nil logger
// falls back to stdout.
func NewProgressiveRaytracer(s *scene.Scene, camera *Camera, config RenderConfig, progressive ProgressiveConfig, logger core.Logger) *ProgressiveRaytracer {
	return &ProgressiveRaytracer{
		raytracer:   NewRaytracer(s, camera, config, logger),
		progressive: progressive,
		accum:       NewImage(config.Width, config.Height),
		display:     NewImage(config.Width, config.Height),
	}
}

// samplesForPass returns the cumulative per-pixel sample target after the
// given pass.
func (pr *ProgressiveRaytracer) samplesForPass(pass int) int {
	total := pr.raytracer.config.SamplesPerPixel
	pc := pr.progressive
	if pc.MaxPasses <= 1 || pass >= pc.MaxPasses {
		return total
	}

	target := pc.InitialSamples
	if pass > 1 {
		samplesPerPass := (total - pc.InitialSamples) / (pc.MaxPasses - 1)
		target += (pass - 1) * samplesPerPass
	}
	if target > total {
		target = total
	}
	return target
}

func (pr *ProgressiveRaytracer) done() bool {
	return pr.pass >= pr.progressive.MaxPasses ||
		pr.samplesDone >= pr.raytracer.config.SamplesPerPixel
}

// RenderPass advances the accumulation by one pass and returns the current
// image plus whether the sample budget has been spent. Each (pass, row) pair
// gets its own seeded random stream, so the image for a given pass count is
// deterministic regardless of worker count. Calling RenderPass after the
// final pass returns the finished image unchanged.
func (pr *ProgressiveRaytracer) RenderPass() (*Image, bool) {
	cfg := pr.raytracer.config
	if pr.done() {
		return pr.display, true
	}

	pr.pass++
	target := pr.samplesForPass(pr.pass)
	delta := target - pr.samplesDone

	if delta > 0 {
		pr.raytracer.logger.Printf("Pass %d/%d: %d samples/pixel (+%d)...\n",
			pr.pass, pr.progressive.MaxPasses, target, delta)
		start := time.Now()

		pool := NewWorkerPool(pr.raytracer, pr.accum, cfg.Workers)
		pool.Start()
		for j := cfg.Height - 1; j >= 0; j-- {
			seed := cfg.Seed + int64(pr.pass-1)*int64(cfg.Height) + int64(j)
			pool.Submit(rowTask{
				row:     j,
				samples: delta,
				random:  rand.New(rand.NewSource(seed)),
			})
		}
		pool.Stop()
		pr.samplesDone = target

		pr.raytracer.logger.Printf("Pass %d completed in %v\n", pr.pass, time.Since(start))
	}

	if pr.samplesDone > 0 {
		for j := 0; j < cfg.Height; j++ {
			for i := 0; i < cfg.Width; i++ {
				pr.display.Set(i, j, pr.accum.At(i, j).Divide(float64(pr.samplesDone)).Gamma2())
			}
		}
	}
	return pr.display, pr.done()
}

// SamplesAccumulated returns the per-pixel samples gathered so far
func (pr *ProgressiveRaytracer) SamplesAccumulated() int {
	return pr.samplesDone
}

// Reset discards all accumulated samples so the next RenderPass starts
// over. A non-nil camera replaces the current one first.
func (pr *ProgressiveRaytracer) Reset(camera *Camera) {
	if camera != nil {
		pr.raytracer.camera = camera
	}
	pr.accum = NewImage(pr.raytracer.config.Width, pr.raytracer.config.Height)
	pr.pass = 0
	pr.samplesDone = 0
}
