package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/df07/go-pinhole-raytracer/pkg/core"
	"github.com/df07/go-pinhole-raytracer/pkg/output"
	"github.com/df07/go-pinhole-raytracer/pkg/renderer"
	"github.com/df07/go-pinhole-raytracer/pkg/scene"
)

const (
	minImageSize = 1
	maxImageSize = 2000
)

// Server handles web requests for the raytracer
type Server struct {
	port     int
	sceneDir string
	sink     output.Sink // optional; renders with upload=true are also written here
	logger   core.Logger
}

// NewServer creates a new web server. sink may be nil.
func NewServer(port int, sceneDir string, sink output.Sink) *Server {
	return &Server{
		port:     port,
		sceneDir: sceneDir,
		sink:     sink,
		logger:   renderer.NewDefaultLogger(),
	}
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene  string        `json:"scene"`  // Built-in scene name or scene file name
	Shader string        `json:"shader"` // Shader name
	Width  int           `json:"width"`  // Image width, 0 = scene default
	Height int           `json:"height"` // Image height, 0 = scene default
	Format output.Format `json:"format"`
	Upload bool          `json:"upload"`
}

// Stats represents render statistics
type Stats struct {
	TotalPixels int     `json:"totalPixels"`
	Hits        int     `json:"hits"`
	Misses      int     `json:"misses"`
	HitRatio    float64 `json:"hitRatio"`
	Workers     int     `json:"workers"`
	ElapsedMs   int64   `json:"elapsedMs"`
}

func newStats(stats renderer.RenderStats) Stats {
	return Stats{
		TotalPixels: stats.TotalPixels,
		Hits:        stats.Hits,
		Misses:      stats.Misses,
		HitRatio:    stats.HitRatio(),
		Workers:     stats.Workers,
		ElapsedMs:   stats.Elapsed.Milliseconds(),
	}
}

// Handler returns the HTTP routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/render/stream", s.handleRenderStream)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/health", s.handleHealth)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return httpServer.ListenAndServe()
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the built-in scenes followed by the scene files
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	scenes := scene.List()
	files, err := scene.ListFileScenes(s.sceneDir)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"scenes":  append(scenes, files...),
		"shaders": renderer.ShaderNames(),
	})
}

// handleRender renders a scene and responds with the encoded image
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}

	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	sceneObj, shader, err := s.setupRender(req)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	img, stats, err := renderer.RenderScene(r.Context(), sceneObj, shader, renderer.Options{Logger: s.logger})
	if err != nil {
		writeError(w, statusFor(err), fmt.Sprintf("Render error: %v", err))
		return
	}

	if err := s.upload(r, req, sceneObj.Name, img); err != nil {
		writeError(w, http.StatusBadGateway, fmt.Sprintf("Upload failed: %v", err))
		return
	}

	var buf bytes.Buffer
	if err := output.Encode(&buf, img, req.Format); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", req.Format.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("X-Render-Hits", strconv.Itoa(stats.Hits))
	w.Header().Set("X-Render-Elapsed-Ms", strconv.FormatInt(stats.Elapsed.Milliseconds(), 10))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// upload writes the image to the configured sink when the client asked for it
func (s *Server) upload(r *http.Request, req *RenderRequest, name string, img *renderer.Image) error {
	if !req.Upload {
		return nil
	}
	if s.sink == nil {
		return output.ErrMissingBucket
	}
	key := fmt.Sprintf("%s_%s_%d%s", name, req.Shader, time.Now().Unix(), req.Format.Extension())
	return s.sink.Write(r.Context(), key, img)
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{
		Scene:  query.Get("scene"),
		Shader: query.Get("shader"),
		Upload: query.Get("upload") == "true",
	}
	if req.Scene == "" {
		req.Scene = "default"
	}
	if req.Shader == "" {
		req.Shader = "normals"
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 0, minImageSize, maxImageSize); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(query, "height", 0, minImageSize, maxImageSize); err != nil {
		return nil, err
	}

	req.Format = output.FormatPNG
	if format := query.Get("format"); format != "" {
		if req.Format, err = output.ParseFormat(format); err != nil {
			return nil, err
		}
	}

	return req, nil
}

// setupRender resolves the scene and shader and applies size overrides
func (s *Server) setupRender(req *RenderRequest) (*scene.Scene, renderer.Shader, error) {
	sceneObj, err := s.createScene(req.Scene)
	if err != nil {
		return nil, nil, err
	}
	shader, err := renderer.ShaderByName(req.Shader)
	if err != nil {
		return nil, nil, err
	}

	if req.Width > 0 {
		sceneObj.Width = req.Width
	}
	if req.Height > 0 {
		sceneObj.Height = req.Height
	}
	if sceneObj.Width*sceneObj.Height > 800*600 {
		s.logger.Printf("Render warning: %dx%d image may render slowly\n", sceneObj.Width, sceneObj.Height)
	}
	return sceneObj, shader, nil
}

// createScene resolves a built-in scene name or the name of a file in the scene directory.
// Arbitrary paths are not accepted from clients.
func (s *Server) createScene(name string) (*scene.Scene, error) {
	for _, info := range scene.List() {
		if info.Name == name {
			return scene.New(name)
		}
	}

	files, err := scene.ListFileScenes(s.sceneDir)
	if err != nil {
		return nil, err
	}
	for _, info := range files {
		if info.Name == name {
			return scene.NewFileScene(info.FilePath)
		}
	}
	return nil, fmt.Errorf("%w: %q", scene.ErrUnknownScene, name)
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

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, scene.ErrUnknownScene),
		errors.Is(err, scene.ErrInvalidScene),
		errors.Is(err, renderer.ErrUnknownShader),
		errors.Is(err, output.ErrUnknownFormat):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrDegenerateVector):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": strings.TrimSpace(message)})
}
