package capture

import (
	"errors"
	"fmt"
	"time"

	"gocv.io/x/gocv"
)

// Texture is an encoded camera frame handed to the renderer as the HUD
// background. It is immutable once created and safe to share between goroutines.
type Texture struct {
	JPEG       []byte    `json:"-"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	Sequence   uint64    `json:"sequence"`
	CapturedAt time.Time `json:"captured_at"`
}

// EncodeTexture JPEG-encodes a frame. The frame is not closed.
func EncodeTexture(frame *gocv.Mat, seq uint64, at time.Time) (*Texture, error) {
	if frame == nil || frame.Empty() {
		return nil, errors.New("encode texture: empty frame")
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, *frame)
	if err != nil {
		return nil, fmt.Errorf("encode texture: %w", err)
	}
	defer buf.Close()

	// GetBytes aliases the native buffer, which is freed on Close.
	data := make([]byte, buf.Len())
	copy(data, buf.GetBytes())

	return &Texture{
		JPEG:       data,
		Width:      frame.Cols(),
		Height:     frame.Rows(),
		Sequence:   seq,
		CapturedAt: at,
	}, nil
}
