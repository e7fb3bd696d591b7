package server

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/df07/go-viewfactor-raytracer/pkg/core"
)

func TestParseIntParam(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		expected  int
		expectErr bool
	}{
		{"missing uses default", "", 400, false},
		{"valid value", "width=256", 256, false},
		{"not a number", "width=abc", 0, true},
		{"below minimum", "width=1", 0, true},
		{"above maximum", "width=99999", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, _ := url.ParseQuery(tt.query)
			got, err := parseIntParam(values, "width", 400, 16, 2000)
			if tt.expectErr {
				if err == nil {
					t.Fatalf("Expected error for query %q, got value %d", tt.query, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if got != tt.expected {
				t.Errorf("Expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestParseRenderRequest_Defaults(t *testing.T) {
	s := NewServer(8080, core.SilentLogger{})
	r := httptest.NewRequest("GET", "/api/render", nil)

	req, err := s.parseRenderRequest(r)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if req.Scene != "classic" {
		t.Errorf("Expected default scene classic, got %q", req.Scene)
	}
	if req.Width != 400 || req.Height != 300 {
		t.Errorf("Expected default size 400x300, got %dx%d", req.Width, req.Height)
	}
	if req.Samples != 16 || req.Passes != 5 || req.Depth != 10 {
		t.Errorf("Expected defaults samples=16 passes=5 depth=10, got %d/%d/%d",
			req.Samples, req.Passes, req.Depth)
	}
	if req.Seed != 42 {
		t.Errorf("Expected default seed 42, got %d", req.Seed)
	}
}

func TestCreateScene(t *testing.T) {
	tests := []struct {
		name      string
		scene     string
		expectErr bool
	}{
		{"classic builtin", "classic", false},
		{"random builtin", "random", false},
		{"viewfactor builtin", "viewfactor", false},
		{"file paths rejected", "scenes/two-spheres.json", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			world, _, err := createScene(tt.scene, 20, 42)
			if tt.expectErr {
				if err == nil {
					t.Fatalf("Expected error for scene %q", tt.scene)
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if len(world.Forms) == 0 {
				t.Error("Expected a populated world")
			}
		})
	}
}

func TestHandleHealth(t *testing.T) {
	s := NewServer(8080, core.SilentLogger{})
	w := httptest.NewRecorder()

	s.handleHealth(w, httptest.NewRequest("GET", "/api/health", nil))

	if w.Code != 200 {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Errorf("Expected ok status in body, got %q", w.Body.String())
	}
}

func TestHandleViewFactors_TextMatrix(t *testing.T) {
	s := NewServer(8080, core.SilentLogger{})
	w := httptest.NewRecorder()

	s.handleViewFactors(w, httptest.NewRequest("GET", "/api/viewfactors?scene=viewfactor&samples=64", nil))

	if w.Code != 200 {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "F(0,1) = ") {
		t.Errorf("Expected view factor lines in body, got %q", body)
	}
}

func TestHandleViewFactors_UnknownScene(t *testing.T) {
	s := NewServer(8080, core.SilentLogger{})
	w := httptest.NewRecorder()

	s.handleViewFactors(w, httptest.NewRequest("GET", "/api/viewfactors?scene=nope", nil))

	if w.Code != 400 {
		t.Fatalf("Expected status 400, got %d", w.Code)
	}
}

func TestHandleRender_StreamsPasses(t *testing.T) {
	s := NewServer(8080, core.SilentLogger{})
	w := httptest.NewRecorder()

	r := httptest.NewRequest("GET", "/api/render?scene=viewfactor&width=16&height=16&samples=2&passes=2", nil)
	s.handleRender(w, r)

	body := w.Body.String()
	if !strings.Contains(body, "event: progress") {
		t.Errorf("Expected progress events in stream, got %q", body)
	}
	if !strings.Contains(body, "event: complete") {
		t.Errorf("Expected completion event in stream, got %q", body)
	}
	if !strings.Contains(body, `"passNumber":1`) {
		t.Errorf("Expected first pass update in stream, got %q", body)
	}
}

func TestHandleRender_InvalidParams(t *testing.T) {
	s := NewServer(8080, core.SilentLogger{})
	w := httptest.NewRecorder()

	s.handleRender(w, httptest.NewRequest("GET", "/api/render?width=1", nil))

	if !strings.Contains(w.Body.String(), "event: error") {
		t.Errorf("Expected error event, got %q", w.Body.String())
	}
}
