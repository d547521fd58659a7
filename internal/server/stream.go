package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ayusman/holohud/internal/capture"
)

// streamInterval is the polling period for new textures (~15 FPS).
const streamInterval = 66 * time.Millisecond

// TextureSource returns the most recent camera texture, or nil.
type TextureSource interface {
	LatestTexture() *capture.Texture
}

// StreamHandler serves the HUD background textures as MJPEG.
type StreamHandler struct {
	textures TextureSource
}

// NewStreamHandler creates a new StreamHandler over src.
func NewStreamHandler(src TextureSource) *StreamHandler {
	return &StreamHandler{textures: src}
}

// ServeHTTP streams MJPEG frames to connected clients. Each texture is sent
// once; the handler waits for a newer sequence before writing again.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ticker := time.NewTicker(streamInterval)
	defer ticker.Stop()

	var last uint64
	sent := false
	for {
		tex := h.textures.LatestTexture()
		if tex != nil && (!sent || tex.Sequence != last) {
			if err := writePart(w, tex.JPEG); err != nil {
				return
			}
			last, sent = tex.Sequence, true
		}

		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
	}
}

func writePart(w http.ResponseWriter, jpeg []byte) error {
	if _, err := fmt.Fprintf(w, "--frame\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", len(jpeg)); err != nil {
		return err
	}
	if _, err := w.Write(jpeg); err != nil {
		return err
	}
	if _, err := fmt.Fprint(w, "\r\n"); err != nil {
		return err
	}
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
	return nil
}
