package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/df07/go-pinhole-raytracer/pkg/output"
	"github.com/df07/go-pinhole-raytracer/pkg/renderer"
)

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "console", "error", "complete"
	Data string `json:"data"` // JSON-encoded data
}

// RenderResult is the payload of the final "complete" event
type RenderResult struct {
	Scene     string `json:"scene"`
	Shader    string `json:"shader"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	ImageData string `json:"imageData"` // Base64 encoded PNG
	Stats     Stats  `json:"stats"`
}

// handleRenderStream renders a scene while streaming console output via SSE,
// then sends the finished image as a base64 PNG
func (s *Server) handleRenderStream(w http.ResponseWriter, r *http.Request) {
	s.setSSEHeaders(w)

	ctx := r.Context()

	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.writeSSEEvent(w, SSEEvent{Type: "error", Data: fmt.Sprintf("Invalid request: %v", err)})
		return
	}
	sceneObj, shader, err := s.setupRender(req)
	if err != nil {
		s.writeSSEEvent(w, SSEEvent{Type: "error", Data: err.Error()})
		return
	}

	consoleChan := make(chan ConsoleMessage, 50)
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	webLogger := NewWebLogger(renderID, consoleChan)

	type renderOutcome struct {
		img   *renderer.Image
		stats renderer.RenderStats
		err   error
	}
	done := make(chan renderOutcome, 1)
	go func() {
		img, stats, err := renderer.RenderScene(ctx, sceneObj, shader, renderer.Options{Logger: webLogger})
		done <- renderOutcome{img: img, stats: stats, err: err}
	}()

	// This goroutine is the only writer to w
	for {
		select {
		case msg := <-consoleChan:
			s.writeConsoleEvent(w, msg)

		case outcome := <-done:
			s.drainConsole(w, consoleChan)
			if outcome.err != nil {
				s.writeSSEEvent(w, SSEEvent{Type: "error", Data: fmt.Sprintf("Render error: %v", outcome.err)})
				return
			}
			s.writeCompleteEvent(w, req, sceneObj.Name, outcome.img, outcome.stats)
			return

		case <-ctx.Done():
			// Client disconnected; the render sees the same cancellation
			return
		}
	}
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

func (s *Server) drainConsole(w http.ResponseWriter, consoleChan chan ConsoleMessage) {
	for {
		select {
		case msg := <-consoleChan:
			s.writeConsoleEvent(w, msg)
		default:
			return
		}
	}
}

func (s *Server) writeConsoleEvent(w http.ResponseWriter, msg ConsoleMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling console message: %v", err)
		return
	}
	s.writeSSEEvent(w, SSEEvent{Type: "console", Data: string(data)})
}

func (s *Server) writeCompleteEvent(w http.ResponseWriter, req *RenderRequest, name string, img *renderer.Image, stats renderer.RenderStats) {
	imageData, err := imageToBase64PNG(img)
	if err != nil {
		s.writeSSEEvent(w, SSEEvent{Type: "error", Data: fmt.Sprintf("failed to encode image: %v", err)})
		return
	}

	data, err := json.Marshal(RenderResult{
		Scene:     name,
		Shader:    req.Shader,
		Width:     img.Width,
		Height:    img.Height,
		ImageData: imageData,
		Stats:     newStats(stats),
	})
	if err != nil {
		s.writeSSEEvent(w, SSEEvent{Type: "error", Data: err.Error()})
		return
	}
	s.writeSSEEvent(w, SSEEvent{Type: "complete", Data: string(data)})
}

// writeSSEEvent writes one event and flushes it to the client
func (s *Server) writeSSEEvent(w http.ResponseWriter, event SSEEvent) error {
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
		return err
	}
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
	return nil
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img *renderer.Image) (string, error) {
	var buf bytes.Buffer
	if err := output.Encode(&buf, img, output.FormatPNG); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
