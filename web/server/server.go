package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image/png"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/df07/go-viewfactor-raytracer/pkg/core"
	"github.com/df07/go-viewfactor-raytracer/pkg/radiation"
	"github.com/df07/go-viewfactor-raytracer/pkg/renderer"
	"github.com/df07/go-viewfactor-raytracer/pkg/scene"
)

// Server handles web requests for progressive renders and view factor
// estimates
type Server struct {
	port   int
	logger core.Logger
}

// NewServer creates a new web server. A nil logger falls back to stdout.
func NewServer(port int, logger core.Logger) *Server {
	if logger == nil {
		logger = renderer.NewDefaultLogger()
	}
	return &Server{port: port, logger: logger}
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene   string `json:"scene"`   // Builtin scene name
	Width   int    `json:"width"`   // Image width
	Height  int    `json:"height"`  // Image height
	Samples int    `json:"samples"` // Total samples per pixel
	Passes  int    `json:"passes"`  // Progressive passes
	Depth   int    `json:"depth"`   // Maximum ray bounce depth
	Objects int    `json:"objects"` // Object count for generated scenes
	Seed    int64  `json:"seed"`    // Random seed
}

// ProgressUpdate represents a single progressive update sent via SSE
type ProgressUpdate struct {
	PassNumber      int    `json:"passNumber"`
	TotalPasses     int    `json:"totalPasses"`
	SamplesPerPixel int    `json:"samplesPerPixel"`
	ImageData       string `json:"imageData"` // Base64 encoded PNG
	IsComplete      bool   `json:"isComplete"`
	ElapsedMs       int64  `json:"elapsedMs"`
}

// Start starts the web server
func (s *Server) Start() error {
	http.HandleFunc("/", s.handleIndex)
	http.HandleFunc("/api/render", s.handleRender)
	http.HandleFunc("/api/viewfactors", s.handleViewFactors)
	http.HandleFunc("/api/health", s.handleHealth)
	http.HandleFunc("/api/scene-config", s.handleSceneConfig)

	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Printf("Starting web server on http://localhost%s\n", addr)
	return http.ListenAndServe(addr, nil)
}

// handleIndex serves a minimal page that streams render passes into an image
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, indexHTML)
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleRender streams progressive render passes via SSE. Each pass event
// carries the full image so far as a base64 PNG.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.sendSSEError(w, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	world, cameraCfg, err := createScene(req.Scene, req.Objects, req.Seed)
	if err != nil {
		s.sendSSEError(w, err.Error())
		return
	}
	cameraCfg.AspectRatio = float64(req.Width) / float64(req.Height)

	// Render log lines are captured and interleaved with pass events
	consoleChan := make(chan ConsoleMessage, 100)
	logger := NewWebLogger(consoleChan)

	config := renderer.RenderConfig{
		Width:           req.Width,
		Height:          req.Height,
		SamplesPerPixel: req.Samples,
		MaxDepth:        req.Depth,
		Jitter:          1.0,
		Workers:         0,
		Seed:            req.Seed,
	}
	progressive := renderer.ProgressiveConfig{InitialSamples: 1, MaxPasses: req.Passes}
	tracer := renderer.NewProgressiveRaytracer(world, renderer.NewPinholeCamera(cameraCfg), config, progressive, logger)

	ctx := r.Context()
	startTime := time.Now()

	for pass, done := 1, false; !done; pass++ {
		select {
		case <-ctx.Done():
			return
		default:
		}

		var img *renderer.Image
		img, done = tracer.RenderPass()
		s.drainConsole(w, consoleChan)

		imageData, err := s.imageToBase64PNG(img)
		if err != nil {
			s.sendSSEError(w, fmt.Sprintf("Encoding pass %d: %v", pass, err))
			return
		}

		update := ProgressUpdate{
			PassNumber:      pass,
			TotalPasses:     req.Passes,
			SamplesPerPixel: tracer.SamplesAccumulated(),
			ImageData:       imageData,
			IsComplete:      done,
			ElapsedMs:       time.Since(startTime).Milliseconds(),
		}
		if err := s.sendSSEUpdate(w, update); err != nil {
			return
		}
	}

	s.sendSSEEvent(w, "complete", "Rendering completed")
}

// handleViewFactors estimates the pairwise view factor matrix for a scene
// and returns it as text, one "F(i,j) = value" line per pair
func (s *Server) handleViewFactors(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	name := query.Get("scene")
	if name == "" {
		name = "viewfactor"
	}
	samples, err := parseIntParam(query, "samples", 10240, 1, 10000000)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	objects, err := parseIntParam(query, "objects", 500, 1, 2000)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	seed, err := parseSeedParam(query)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	world, _, err := createScene(name, objects, seed)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.logger.Printf("Estimating view factors for %d forms at %d samples per pair...\n",
		len(world.Forms), samples)
	matrix := radiation.ViewFactors(world, samples, rand.New(rand.NewSource(seed)), s.logger)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, matrix.String())
}

// handleSceneConfig returns render defaults and parameter limits for a scene
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	sceneName := r.URL.Query().Get("scene")
	if sceneName == "" {
		sceneName = "classic"
	}

	_, cameraCfg, err := createScene(sceneName, 1, 42)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}

	response := map[string]interface{}{
		"scene": sceneName,
		"defaults": map[string]interface{}{
			"width":    400,
			"height":   300,
			"samples":  16,
			"passes":   5,
			"depth":    10,
			"vfov":     cameraCfg.VFov,
			"lookFrom": cameraCfg.LookFrom,
			"lookAt":   cameraCfg.LookAt,
		},
		"limits": map[string]interface{}{
			"width":   map[string]int{"min": 16, "max": 2000},
			"height":  map[string]int{"min": 16, "max": 2000},
			"samples": map[string]int{"min": 1, "max": 10000},
			"passes":  map[string]int{"min": 1, "max": 100},
			"depth":   map[string]int{"min": 1, "max": 200},
			"objects": map[string]int{"min": 1, "max": 2000},
		},
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	req := &RenderRequest{}
	query := r.URL.Query()

	if name := query.Get("scene"); name != "" {
		req.Scene = name
	} else {
		req.Scene = "classic"
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 400, 16, 2000); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(query, "height", 300, 16, 2000); err != nil {
		return nil, err
	}
	if req.Samples, err = parseIntParam(query, "samples", 16, 1, 10000); err != nil {
		return nil, err
	}
	if req.Passes, err = parseIntParam(query, "passes", 5, 1, 100); err != nil {
		return nil, err
	}
	if req.Depth, err = parseIntParam(query, "depth", 10, 1, 200); err != nil {
		return nil, err
	}
	if req.Objects, err = parseIntParam(query, "objects", 500, 1, 2000); err != nil {
		return nil, err
	}
	if req.Seed, err = parseSeedParam(query); err != nil {
		return nil, err
	}

	if req.Width*req.Height > 800*600 && req.Samples > 100 {
		s.logger.Printf("Render warning: Large image with high samples may render slowly\n")
	}

	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseSeedParam parses the random seed, defaulting to 42
func parseSeedParam(values url.Values) (int64, error) {
	if value := values.Get("seed"); value != "" {
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid seed: %s", value)
		}
		return parsed, nil
	}
	return 42, nil
}

// createScene builds a builtin scene by name along with its camera preset.
// Scene files are not served over the web API.
func createScene(name string, objects int, seed int64) (*scene.Scene, renderer.CameraConfig, error) {
	random := rand.New(rand.NewSource(seed))
	preset := renderer.CameraConfig{
		LookFrom: core.Vec3{X: 13, Y: 2, Z: 3},
		Up:       core.Vec3{Y: 1},
		VFov:     20,
	}

	switch name {
	case "classic":
		return scene.NewClassicWorld(objects, random), preset, nil
	case "random":
		cfg := scene.RandomWorldConfig{
			XLimits:             [2]float64{-4, 4},
			YLimits:             [2]float64{0.2, 0.4},
			ZLimits:             [2]float64{5, 10},
			LengthLimits:        [2]float64{0.4, 0.8},
			SphereThreshold:     1.0,
			LambertianThreshold: 1.0,
		}
		return scene.NewRandomWorld(cfg, objects, random), preset, nil
	case "viewfactor":
		preset.LookFrom = core.Vec3{X: 1.8, Y: 1.1, Z: 1.0}
		preset.LookAt = core.Vec3{X: 0.4, Y: 0.05, Z: -0.2}
		return scene.NewViewFactorWorld(), preset, nil
	default:
		return nil, preset, fmt.Errorf("unknown scene: %s", name)
	}
}

// imageToBase64PNG converts a rendered image to base64-encoded PNG
func (s *Server) imageToBase64PNG(img *renderer.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img.RGBA()); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// drainConsole forwards queued render log lines as SSE console events
func (s *Server) drainConsole(w http.ResponseWriter, consoleChan <-chan ConsoleMessage) {
	for {
		select {
		case msg := <-consoleChan:
			if data, err := json.Marshal(msg); err == nil {
				s.sendSSEEvent(w, "console", string(data))
			}
		default:
			return
		}
	}
}

// sendSSEUpdate sends a progress update via SSE
func (s *Server) sendSSEUpdate(w http.ResponseWriter, update ProgressUpdate) error {
	data, err := json.Marshal(update)
	if err != nil {
		return err
	}
	return s.sendSSEEvent(w, "progress", string(data))
}

// sendSSEError sends an error via SSE
func (s *Server) sendSSEError(w http.ResponseWriter, message string) error {
	return s.sendSSEEvent(w, "error", message)
}

// sendSSEEvent sends a generic SSE event
func (s *Server) sendSSEEvent(w http.ResponseWriter, event, data string) error {
	if flusher, ok := w.(http.Flusher); ok {
		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
		flusher.Flush()
		return nil
	}
	return fmt.Errorf("streaming not supported")
}

const indexHTML = `<!DOCTYPE html>
<html>
<head><title>View Factor Raytracer</title></head>
<body style="font-family: monospace; background: #111; color: #ddd;">
<h2>View Factor Raytracer</h2>
<p>
  Scene: <select id="scene"><option>classic</option><option>random</option><option>viewfactor</option></select>
  <button onclick="render()">Render</button>
  <a href="/api/viewfactors?scene=viewfactor" style="color:#8cf">view factors</a>
</p>
<p id="status"></p>
<img id="result" />
<script>
function render() {
  var scene = document.getElementById('scene').value;
  var source = new EventSource('/api/render?scene=' + scene);
  source.addEventListener('progress', function(e) {
    var update = JSON.parse(e.data);
    document.getElementById('result').src = 'data:image/png;base64,' + update.imageData;
    document.getElementById('status').textContent =
      'pass ' + update.passNumber + '/' + update.totalPasses +
      ' (' + update.samplesPerPixel + ' samples/pixel, ' + update.elapsedMs + 'ms)';
    if (update.isComplete) source.close();
  });
  source.addEventListener('error', function(e) {
    if (e.data) document.getElementById('status').textContent = e.data;
    source.close();
  });
}
</script>
</body>
</html>
`
