package main

import (
	"flag"
	"fmt"
	"image/color"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/df07/go-viewfactor-raytracer/pkg/core"
	"github.com/df07/go-viewfactor-raytracer/pkg/renderer"
	"github.com/df07/go-viewfactor-raytracer/pkg/scene"
)

// demoRandomWorldConfig scatters lambertian spheres over a shallow band
// in front of the camera
func demoRandomWorldConfig() scene.RandomWorldConfig {
	return scene.RandomWorldConfig{
		XLimits:             [2]float64{-4, 4},
		YLimits:             [2]float64{0.2, 0.4},
		ZLimits:             [2]float64{5, 10},
		LengthLimits:        [2]float64{0.4, 0.8},
		SphereThreshold:     1.0,
		LambertianThreshold: 1.0,
	}
}

// buildScene constructs the selected world and its camera preset. Names
// not matching a builtin are treated as JSON scene file paths.
func buildScene(name string, objects int, random *rand.Rand) (*scene.Scene, string, renderer.CameraConfig, error) {
	preset := renderer.CameraConfig{
		LookFrom: core.Vec3{X: 13, Y: 2, Z: 3},
		Up:       core.Vec3{Y: 1},
		VFov:     20,
	}

	switch name {
	case "classic":
		return scene.NewClassicWorld(objects, random), name, preset, nil
	case "random":
		return scene.NewRandomWorld(demoRandomWorldConfig(), objects, random), name, preset, nil
	case "viewfactor":
		preset.LookFrom = core.Vec3{X: 1.8, Y: 1.1, Z: 1.0}
		preset.LookAt = core.Vec3{X: 0.4, Y: 0.05, Z: -0.2}
		return scene.NewViewFactorWorld(), name, preset, nil
	default:
		world, err := scene.LoadScene(name, random)
		if err != nil {
			return nil, "", preset, err
		}
		label := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
		return world, label, preset, nil
	}
}

// eyeForward is the unit vector from the eye toward the look-at point
func eyeForward(cfg renderer.CameraConfig) core.Vec3 {
	return cfg.LookAt.Subtract(cfg.LookFrom).Normalize()
}

// eyeRight is the unit vector to the camera's right
func eyeRight(cfg renderer.CameraConfig) core.Vec3 {
	return eyeForward(cfg).Cross(cfg.Up).Normalize()
}

// blit copies the bottom-up render into the top-down window surface
func blit(surface *sdl.Surface, img *renderer.Image) {
	for j := 0; j < img.Height; j++ {
		for i := 0; i < img.Width; i++ {
			r, g, b := renderer.Quantize(img.At(i, j))
			surface.Set(i, img.Height-1-j, color.RGBA{R: r, G: g, B: b, A: 255})
		}
	}
}

// saveSnapshot writes the current preview image to a timestamped PNG
func saveSnapshot(dir string, img *renderer.Image, logger core.Logger) {
	path := filepath.Join(dir, fmt.Sprintf("preview_%s.png", time.Now().Format("20060102_150405")))
	file, err := os.Create(path)
	if err != nil {
		logger.Printf("Error saving snapshot: %v\n", err)
		return
	}
	defer file.Close()

	if err := img.WritePNG(file); err != nil {
		logger.Printf("Error saving snapshot: %v\n", err)
		return
	}
	logger.Printf("Saved %s\n", path)
}

func main() {
	sceneName := flag.String("scene", "classic", "Scene to preview: classic, random, viewfactor, or a JSON file path")
	width := flag.Int("width", 480, "Preview width in pixels")
	height := flag.Int("height", 320, "Preview height in pixels")
	samples := flag.Int("samples", 16, "Total samples per pixel across all passes")
	depth := flag.Int("depth", 10, "Maximum ray bounce depth")
	passes := flag.Int("passes", 5, "Progressive passes per view")
	objects := flag.Int("objects", 500, "Object count for generated scenes")
	workers := flag.Int("workers", 0, "Render workers (0 = CPU count)")
	seed := flag.Int64("seed", 42, "Random seed")
	step := flag.Float64("step", 0.5, "Eye movement distance per key press")
	outputDir := flag.String("output", ".", "Directory for saved snapshots")
	flag.Parse()

	logger := renderer.NewDefaultLogger()
	random := rand.New(rand.NewSource(*seed))

	world, label, cameraCfg, err := buildScene(*sceneName, *objects, random)
	if err != nil {
		fmt.Printf("Error building scene: %v\n", err)
		os.Exit(1)
	}
	cameraCfg.AspectRatio = float64(*width) / float64(*height)

	config := renderer.RenderConfig{
		Width:           *width,
		Height:          *height,
		SamplesPerPixel: *samples,
		MaxDepth:        *depth,
		Jitter:          1.0, // sub-pixel jitter so later passes refine the image
		Workers:         *workers,
		Seed:            *seed,
	}
	progressive := renderer.ProgressiveConfig{InitialSamples: 1, MaxPasses: *passes}
	tracer := renderer.NewProgressiveRaytracer(world, renderer.NewPinholeCamera(cameraCfg), config, progressive, logger)

	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		fmt.Printf("Error initializing SDL: %v\n", err)
		os.Exit(1)
	}
	defer sdl.Quit()

	window, err := sdl.CreateWindow(fmt.Sprintf("raytracer preview - %s", label),
		sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED, int32(*width), int32(*height), sdl.WINDOW_SHOWN)
	if err != nil {
		fmt.Printf("Error creating window: %v\n", err)
		os.Exit(1)
	}
	defer window.Destroy()

	surface, err := window.GetSurface()
	if err != nil {
		fmt.Printf("Error getting window surface: %v\n", err)
		os.Exit(1)
	}

	logger.Printf("Previewing %s scene (%d forms)\n", label, len(world.Forms))
	logger.Printf("Controls: WASD/arrows move the eye, R re-renders, P saves a PNG, Esc quits\n")

	var img *renderer.Image
	done := false
	for running := true; running; {
		moved := false

		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch e := event.(type) {
			case *sdl.QuitEvent:
				running = false
			case *sdl.KeyboardEvent:
				if e.Type != sdl.KEYDOWN || e.Keysym.Mod != sdl.KMOD_NONE {
					continue
				}
				switch e.Keysym.Sym {
				case sdl.K_ESCAPE:
					running = false
				case sdl.K_w, sdl.K_UP:
					cameraCfg.LookFrom = cameraCfg.LookFrom.Add(eyeForward(cameraCfg).Multiply(*step))
					moved = true
				case sdl.K_s, sdl.K_DOWN:
					cameraCfg.LookFrom = cameraCfg.LookFrom.Subtract(eyeForward(cameraCfg).Multiply(*step))
					moved = true
				case sdl.K_a, sdl.K_LEFT:
					cameraCfg.LookFrom = cameraCfg.LookFrom.Subtract(eyeRight(cameraCfg).Multiply(*step))
					moved = true
				case sdl.K_d, sdl.K_RIGHT:
					cameraCfg.LookFrom = cameraCfg.LookFrom.Add(eyeRight(cameraCfg).Multiply(*step))
					moved = true
				case sdl.K_r:
					moved = true
				case sdl.K_p:
					if img != nil {
						saveSnapshot(*outputDir, img, logger)
					}
				}
			}
		}

		if moved {
			tracer.Reset(renderer.NewPinholeCamera(cameraCfg))
			done = false
		}

		if !done {
			img, done = tracer.RenderPass()
			blit(surface, img)
			window.UpdateSurface()
		} else {
			sdl.Delay(16)
		}
	}
}
