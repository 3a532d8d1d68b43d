package server

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/df07/go-weekend-raytracer/pkg/loaders"
	"github.com/df07/go-weekend-raytracer/pkg/scene"
)

// RenderResponse is the body of a render with format=json
type RenderResponse struct {
	Scene     string           `json:"scene"`
	Seed      int64            `json:"seed"`
	Width     int              `json:"width"`
	Height    int              `json:"height"`
	ImageData string           `json:"imageData"` // Base64 encoded PNG
	Stats     Stats            `json:"stats"`
	Console   []ConsoleMessage `json:"console"`
}

// handleRender renders a scene in parallel and returns the image. The request
// context cancels the render when the client disconnects.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("Invalid request: %v", err)})
		return
	}

	sceneObj, err := scene.Create(req.Scene, req.Seed, req.cameraOverride())
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, scene.ErrUnknownScene) {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}

	raytracer, err := sceneObj.NewRaytracer()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	renderID := fmt.Sprintf("%s-%d", req.Scene, time.Now().UnixNano())
	console := NewRenderConsole(renderID)
	raytracer.SetLogger(console)

	camera := raytracer.Camera()
	config := camera.Config()
	console.Printf("Rendering %s (%d spheres) at %dx%d, %d samples, depth %d, seed %d\n",
		req.Scene, sceneObj.GetPrimitiveCount(), camera.Width(), camera.Height(),
		config.SamplesPerPixel, config.MaxDepth, req.Seed)
	if camera.Width() > 800 && config.SamplesPerPixel > 100 {
		console.Warnf("Large image (%dpx, %d samples) may render slowly\n", camera.Width(), config.SamplesPerPixel)
	}

	ctx := r.Context()
	img, stats, err := raytracer.RenderParallel(ctx, req.Seed, req.Workers)
	if err != nil {
		if ctx.Err() != nil {
			log.Printf("Render %s cancelled: %v", renderID, ctx.Err())
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": fmt.Sprintf("Render error: %v", err)})
		return
	}

	w.Header().Set("X-Render-Seed", strconv.FormatInt(req.Seed, 10))
	w.Header().Set("X-Render-Rays", strconv.FormatInt(stats.Rays, 10))
	w.Header().Set("X-Render-Elapsed-Ms", strconv.FormatInt(stats.Elapsed.Milliseconds(), 10))

	switch req.Format {
	case "ppm":
		var buf bytes.Buffer
		if err := loaders.EncodePPM(&buf, img); err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		w.Header().Set("Content-Type", "image/x-portable-pixmap")
		w.Write(buf.Bytes())

	case "json":
		imageData, err := s.imageToBase64PNG(img)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": fmt.Sprintf("failed to encode image: %v", err)})
			return
		}
		writeJSON(w, http.StatusOK, RenderResponse{
			Scene:     req.Scene,
			Seed:      req.Seed,
			Width:     img.Bounds().Dx(),
			Height:    img.Bounds().Dy(),
			ImageData: imageData,
			Stats:     newStats(stats),
			Console:   console.Messages(),
		})

	default:
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(buf.Bytes())
	}
}

// imageToBase64PNG converts an image to base64-encoded PNG
func (s *Server) imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
