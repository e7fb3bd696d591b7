package scene

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"

	"github.com/df07/go-viewfactor-raytracer/pkg/core"
	"github.com/df07/go-viewfactor-raytracer/pkg/geometry"
	"github.com/df07/go-viewfactor-raytracer/pkg/material"
)

// MaterialCfg describes a material in a scene file.
type MaterialCfg struct {
	Type   string     `json:"type"` // lambertian | metal | dielectric
	Albedo [3]float64 `json:"albedo,omitempty"`
	Fuzz   float64    `json:"fuzz,omitempty"`
	RefIdx float64    `json:"refIdx,omitempty"`
}

// BasisCfg fixes the orientation of a form. All three axes must be set;
// a zero basis means the form chooses its own orientation.
type BasisCfg struct {
	U [3]float64 `json:"u"`
	V [3]float64 `json:"v"`
	W [3]float64 `json:"w"`
}

// FormCfg describes one form in a scene file. Radius applies to spheres,
// Length to cubes, squares and rectangles, Width to rectangles only.
type FormCfg struct {
	Type     string      `json:"type"` // sphere | cube | square | rectangle
	Center   [3]float64  `json:"center"`
	Radius   float64     `json:"radius,omitempty"`
	Length   float64     `json:"length,omitempty"`
	Width    float64     `json:"width,omitempty"`
	Material MaterialCfg `json:"material"`
	Basis    *BasisCfg   `json:"basis,omitempty"`
}

// Config is the root of a JSON scene file.
type Config struct {
	TopColor    *[3]float64 `json:"topColor,omitempty"`
	BottomColor *[3]float64 `json:"bottomColor,omitempty"`
	Forms       []FormCfg   `json:"forms"`
}

func vecFromArray(a [3]float64) core.Vec3 {
	return core.NewVec3(a[0], a[1], a[2])
}

// Build validates and constructs the material.
func (mc MaterialCfg) Build() (material.Material, error) {
	switch mc.Type {
	case "lambertian":
		return material.NewLambertian(vecFromArray(mc.Albedo)), nil
	case "metal":
		if mc.Fuzz < 0 {
			return material.Material{}, fmt.Errorf("metal fuzz must be >= 0, got %v", mc.Fuzz)
		}
		return material.NewMetal(vecFromArray(mc.Albedo), mc.Fuzz), nil
	case "dielectric":
		refIdx := mc.RefIdx
		if refIdx == 0 {
			refIdx = 1.5
		}
		if refIdx < 1 {
			return material.Material{}, fmt.Errorf("dielectric refIdx must be >= 1, got %v", refIdx)
		}
		return material.NewDielectric(refIdx), nil
	default:
		return material.Material{}, fmt.Errorf("unknown material type %q", mc.Type)
	}
}

// Build validates and constructs the form. Forms without an explicit
// basis draw a random yaw orientation where one applies.
func (fc FormCfg) Build(random *rand.Rand) (geometry.Form, error) {
	mat, err := fc.Material.Build()
	if err != nil {
		return geometry.Form{}, fmt.Errorf("form %q material: %w", fc.Type, err)
	}
	center := vecFromArray(fc.Center)

	switch fc.Type {
	case "sphere":
		if fc.Radius <= 0 {
			return geometry.Form{}, fmt.Errorf("sphere radius must be > 0, got %v", fc.Radius)
		}
		return geometry.SphereForm(geometry.NewSphere(center, fc.Radius, mat)), nil

	case "cube":
		if fc.Length <= 0 {
			return geometry.Form{}, fmt.Errorf("cube length must be > 0, got %v", fc.Length)
		}
		if fc.Basis != nil {
			cube := geometry.NewOrientedCube(center, fc.Length, mat,
				vecFromArray(fc.Basis.U), vecFromArray(fc.Basis.V), vecFromArray(fc.Basis.W))
			return geometry.CubeForm(cube), nil
		}
		return geometry.CubeForm(geometry.NewCube(center, fc.Length, mat, random)), nil

	case "square":
		if fc.Length <= 0 {
			return geometry.Form{}, fmt.Errorf("square length must be > 0, got %v", fc.Length)
		}
		if fc.Basis != nil {
			square := geometry.NewSquare(center, fc.Length, mat,
				vecFromArray(fc.Basis.U), vecFromArray(fc.Basis.V), vecFromArray(fc.Basis.W))
			return geometry.SquareForm(square), nil
		}
		return geometry.SquareForm(geometry.NewHorizontalSquare(center, fc.Length, mat, random)), nil

	case "rectangle":
		if fc.Length <= 0 || fc.Width <= 0 {
			return geometry.Form{}, fmt.Errorf("rectangle extents must be > 0, got %v x %v", fc.Length, fc.Width)
		}
		basis := BasisCfg{U: [3]float64{1, 0, 0}, V: [3]float64{0, 0, 1}, W: [3]float64{0, 1, 0}}
		if fc.Basis != nil {
			basis = *fc.Basis
		}
		rect := geometry.NewRectangle(center, fc.Length, fc.Width, mat,
			vecFromArray(basis.U), vecFromArray(basis.V), vecFromArray(basis.W))
		return geometry.RectangleForm(rect), nil

	default:
		return geometry.Form{}, fmt.Errorf("unknown form type %q", fc.Type)
	}
}

// Build constructs the scene described by the config.
func (c *Config) Build(random *rand.Rand) (*Scene, error) {
	if len(c.Forms) == 0 {
		return nil, fmt.Errorf("scene config has no forms")
	}

	s := NewScene()
	if c.TopColor != nil {
		s.TopColor = vecFromArray(*c.TopColor)
	}
	if c.BottomColor != nil {
		s.BottomColor = vecFromArray(*c.BottomColor)
	}

	for i, fc := range c.Forms {
		form, err := fc.Build(random)
		if err != nil {
			return nil, fmt.Errorf("form %d: %w", i, err)
		}
		s.Add(form)
	}
	return s, nil
}

// LoadConfig reads and parses a JSON scene file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse scene config %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadScene reads a JSON scene file and builds the scene it describes.
func LoadScene(path string, random *rand.Rand) (*Scene, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return cfg.Build(random)
}
