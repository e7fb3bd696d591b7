package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/df07/go-viewfactor-raytracer/pkg/core"
	"github.com/df07/go-viewfactor-raytracer/pkg/export"
	"github.com/df07/go-viewfactor-raytracer/pkg/radiation"
	"github.com/df07/go-viewfactor-raytracer/pkg/renderer"
	"github.com/df07/go-viewfactor-raytracer/pkg/scene"
)

// getEnv returns the environment value for key, or fallback when unset
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// parseVec3 parses an "x,y,z" command line value
func parseVec3(s string) (core.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return core.Vec3{}, fmt.Errorf("expected \"x,y,z\", got %q", s)
	}
	coords := make([]float64, 3)
	for i, part := range parts {
		value, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return core.Vec3{}, fmt.Errorf("coordinate %d of %q: %w", i+1, s, err)
		}
		coords[i] = value
	}
	return core.Vec3{X: coords[0], Y: coords[1], Z: coords[2]}, nil
}

// parsePair parses an "i,j" form index pair
func parsePair(s string) (int, int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected \"i,j\", got %q", s)
	}
	i, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("pair %q: %w", s, err)
	}
	j, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("pair %q: %w", s, err)
	}
	return i, j, nil
}

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

func savePNG(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return png.Encode(file, img)
}

func savePPM(path string, img *renderer.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return img.WritePPM(file)
}

func main() {
	// .env overlay for deploy settings; a missing file is fine
	_ = godotenv.Load()

	sceneName := flag.String("scene", "classic", "Scene: 'classic', 'random', 'viewfactor' or a JSON scene file")
	width := flag.Int("width", 1200, "Image width in pixels")
	height := flag.Int("height", 800, "Image height in pixels")
	samples := flag.Int("samples", 16, "Rays per pixel")
	depth := flag.Int("depth", 30, "Maximum ray bounce depth")
	jitter := flag.Float64("jitter", 0, "Sub-pixel jitter amplitude in [0,1]")
	objects := flag.Int("objects", 500, "Object count for the generated worlds")
	cameraKind := flag.String("camera", "pinhole", "Camera: 'pinhole' or 'thinlens'")
	aperture := flag.Float64("aperture", 0.1, "Lens diameter, thinlens camera only")
	focusDist := flag.Float64("focus-dist", 10, "Focus distance, thinlens camera only")
	from := flag.String("from", "", "Camera position override as \"x,y,z\"")
	at := flag.String("at", "", "Camera look-at override as \"x,y,z\"")
	vfov := flag.Float64("vfov", 0, "Vertical field of view override in degrees")
	format := flag.String("format", "png", "Output format: 'png', 'ppm' or 'both'")
	scale := flag.Int("scale", 1, "Supersampling factor: render at scale*size, PNG downscaled to size (PPM keeps the rendered size)")
	thumb := flag.Bool("thumb", false, "Also write a 512px-bounded thumbnail")
	viewFactors := flag.Bool("viewfactors", false, "Estimate and print the view-factor matrix before rendering")
	vfSamples := flag.Int("vf-samples", 10240, "Monte Carlo samples per view-factor pair")
	pair := flag.String("pair", "", "Estimate a single view factor for the form pair \"i,j\"")
	workers := flag.Int("workers", 0, "Parallel row workers (0 = CPU count)")
	seed := flag.Int64("seed", time.Now().UnixNano(), "Random seed for world generation and sampling")
	outputDir := flag.String("output", getEnv("OUTPUT_DIR", "output"), "Output directory")
	upload := flag.Bool("upload", false, "Publish the PNG render to the configured S3 bucket")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		fmt.Println("View-factor raytracer")
		fmt.Println("Usage: raytracer [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("Available scenes:")
		fmt.Println("  classic    - the classic sphere field with cube and square variants")
		fmt.Println("  random     - threshold-driven random world in a shallow band")
		fmt.Println("  viewfactor - two squares facing a metal sphere, for view-factor runs")
		fmt.Println("  <path>     - JSON scene description")
		fmt.Println()
		fmt.Println("Output is saved to <output>/<scene>/render_<timestamp>.<ext>")
		return
	}

	switch *format {
	case "png", "ppm", "both":
	default:
		fmt.Printf("Unknown format: %s\n", *format)
		os.Exit(1)
	}

	logger := renderer.NewDefaultLogger()
	random := rand.New(rand.NewSource(*seed))

	world, sceneLabel, preset, err := buildScene(*sceneName, *objects, random)
	if err != nil {
		fmt.Printf("Error building scene: %v\n", err)
		os.Exit(1)
	}
	logger.Printf("Using %s scene (%d forms, seed %d)\n", sceneLabel, len(world.Forms), *seed)

	if *pair != "" {
		i, j, err := parsePair(*pair)
		if err != nil {
			fmt.Printf("Error parsing -pair: %v\n", err)
			os.Exit(1)
		}
		f, err := radiation.ViewFactor(world, *vfSamples, i, j, random)
		if err != nil {
			fmt.Printf("Error estimating view factor: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("F(%d,%d) = %.4f\n", i, j, f)
	}

	if *viewFactors {
		logger.Printf("Estimating view factors for %d forms at %d samples per pair...\n",
			len(world.Forms), *vfSamples)
		fmt.Print(radiation.ViewFactors(world, *vfSamples, random, logger))
	}

	override := renderer.CameraConfig{VFov: *vfov}
	if *from != "" {
		if override.LookFrom, err = parseVec3(*from); err != nil {
			fmt.Printf("Error parsing -from: %v\n", err)
			os.Exit(1)
		}
	}
	if *at != "" {
		if override.LookAt, err = parseVec3(*at); err != nil {
			fmt.Printf("Error parsing -at: %v\n", err)
			os.Exit(1)
		}
	}
	if *cameraKind == "thinlens" {
		override.Aperture = *aperture
		override.FocusDistance = *focusDist
	}

	cameraCfg := renderer.MergeCameraConfig(preset, override)
	cameraCfg.AspectRatio = float64(*width) / float64(*height)

	var camera *renderer.Camera
	switch *cameraKind {
	case "pinhole":
		camera = renderer.NewPinholeCamera(cameraCfg)
	case "thinlens":
		camera = renderer.NewThinLensCamera(cameraCfg)
	default:
		fmt.Printf("Unknown camera type: %s\n", *cameraKind)
		os.Exit(1)
	}

	config := renderer.RenderConfig{
		Width:           *width * *scale,
		Height:          *height * *scale,
		SamplesPerPixel: *samples,
		MaxDepth:        *depth,
		Jitter:          *jitter,
		Workers:         *workers,
		Seed:            *seed,
	}
	img := renderer.NewRaytracer(world, camera, config, logger).Render()

	sceneDir := filepath.Join(*outputDir, sceneLabel)
	if err := os.MkdirAll(sceneDir, 0755); err != nil {
		fmt.Printf("Error creating output directory: %v\n", err)
		os.Exit(1)
	}
	timestamp := time.Now().Format("20060102_150405")

	var raster image.Image
	if *format != "ppm" || *thumb || *upload {
		if *scale > 1 {
			raster = img.Downscale(*width, *height)
		} else {
			raster = img.RGBA()
		}
	}

	if *format == "png" || *format == "both" {
		pngPath := filepath.Join(sceneDir, fmt.Sprintf("render_%s.png", timestamp))
		if err := savePNG(pngPath, raster); err != nil {
			fmt.Printf("Error saving PNG: %v\n", err)
			os.Exit(1)
		}
		logger.Printf("Render saved as %s\n", pngPath)
	}

	if *format == "ppm" || *format == "both" {
		ppmPath := filepath.Join(sceneDir, fmt.Sprintf("render_%s.ppm", timestamp))
		if err := savePPM(ppmPath, img); err != nil {
			fmt.Printf("Error saving PPM: %v\n", err)
			os.Exit(1)
		}
		logger.Printf("Render saved as %s\n", ppmPath)
	}

	if *thumb {
		thumbPath := filepath.Join(sceneDir, fmt.Sprintf("thumb_%s.png", timestamp))
		if err := savePNG(thumbPath, export.Thumbnail(raster)); err != nil {
			fmt.Printf("Error saving thumbnail: %v\n", err)
			os.Exit(1)
		}
		logger.Printf("Thumbnail saved as %s\n", thumbPath)
	}

	if *upload {
		publisher, err := export.NewPublisher(export.Config{
			AccessKey: os.Getenv("S3_ACCESS_KEY"),
			SecretKey: os.Getenv("S3_SECRET_KEY"),
			Endpoint:  os.Getenv("S3_ENDPOINT"),
			Region:    os.Getenv("S3_REGION"),
			Bucket:    os.Getenv("S3_BUCKET"),
			Prefix:    os.Getenv("S3_PREFIX"),
		}, logger)
		if err != nil {
			fmt.Printf("Error configuring upload: %v\n", err)
			os.Exit(1)
		}

		ctx := context.Background()
		if err := publisher.PublishPNG(ctx, raster, fmt.Sprintf("%s/render_%s.png", sceneLabel, timestamp)); err != nil {
			fmt.Printf("Error uploading render: %v\n", err)
			os.Exit(1)
		}
		if *thumb {
			if err := publisher.PublishThumbnail(ctx, raster, fmt.Sprintf("%s/thumb_%s.png", sceneLabel, timestamp)); err != nil {
				fmt.Printf("Error uploading thumbnail: %v\n", err)
				os.Exit(1)
			}
		}
	}
}
