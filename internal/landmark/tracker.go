package landmark

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ayusman/holohud/internal/capture"
	"github.com/ayusman/holohud/internal/detector"
	"github.com/ayusman/holohud/internal/log"
)

// Tracker polls a camera and a hand detector on its own goroutine and caches
// the latest sample for the tick loop.
type Tracker struct {
	camera   capture.Camera
	detector detector.Detector
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time

	mu      sync.RWMutex
	latest  Sample
	seq     uint64
	enabled bool
	stopCh  chan struct{}
	done    chan struct{}

	// onSample, when set, is called from the tracker goroutine after every poll.
	onSample func(Sample)
}

// NewTracker creates a tracker polling at fps frames per second. A nil
// detector disables hand detection; textures are still produced.
func NewTracker(cam capture.Camera, det detector.Detector, fps int) *Tracker {
	if fps <= 0 {
		fps = capture.DefaultFPS
	}
	return &Tracker{
		camera:   cam,
		detector: det,
		interval: time.Second / time.Duration(fps),
		logger:   log.With("component", "landmark.tracker"),
		now:      time.Now,
		enabled:  true,
	}
}

// Latest returns the cached sample.
func (t *Tracker) Latest() Sample {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.latest
}

// LatestTexture returns the cached camera texture, or nil.
func (t *Tracker) LatestTexture() *capture.Texture {
	return t.Latest().Texture
}

// SetEnabled turns hand detection on or off. Camera frames keep flowing
// while detection is off; the cached pose is always nil.
func (t *Tracker) SetEnabled(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.enabled = enabled
	if !enabled {
		t.latest.Pose = nil
	}
}

// IsEnabled reports whether hand detection is on.
func (t *Tracker) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}

// Start opens the camera and begins polling until ctx is cancelled or Stop
// is called. Calling Start on a running tracker is a no-op.
func (t *Tracker) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopCh != nil {
		return nil
	}

	if err := t.camera.Open(); err != nil {
		return err
	}
	t.camera.SetFPS(int(time.Second / t.interval))

	t.stopCh = make(chan struct{})
	t.done = make(chan struct{})
	go t.run(ctx, t.stopCh, t.done)

	t.logger.Info("tracker started", "interval", t.interval)
	return nil
}

// Stop halts polling and releases the camera and detector.
func (t *Tracker) Stop() {
	t.mu.Lock()
	stopCh, done := t.stopCh, t.done
	t.stopCh, t.done = nil, nil
	t.mu.Unlock()

	if stopCh != nil {
		close(stopCh)
		<-done
	}

	if err := t.camera.Close(); err != nil {
		t.logger.Warn("closing camera", "error", err)
	}
	if t.detector != nil {
		if err := t.detector.Close(); err != nil {
			t.logger.Warn("closing detector", "error", err)
		}
	}

	t.mu.Lock()
	t.latest = Sample{}
	t.mu.Unlock()

	t.logger.Info("tracker stopped")
}

func (t *Tracker) run(ctx context.Context, stopCh <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		case <-ticker.C:
			t.poll()
		}
	}
}

// poll reads one frame, detects the hand and replaces the cached sample.
func (t *Tracker) poll() {
	frame, err := t.camera.ReadFrame()
	if err != nil {
		// Keep the last pose so a dropped frame does not cancel a pinch.
		t.logger.Debug("reading frame", "error", err)
		t.mu.RLock()
		pose := t.latest.Pose
		t.mu.RUnlock()
		t.store(Sample{Pose: pose})
		return
	}
	defer frame.Close()

	t.mu.Lock()
	t.seq++
	seq := t.seq
	enabled := t.enabled
	t.mu.Unlock()

	var sample Sample

	tex, err := capture.EncodeTexture(frame, seq, t.now())
	if err != nil {
		t.logger.Debug("encoding texture", "error", err)
	} else {
		sample.Texture = tex
	}

	if enabled && t.detector != nil {
		hands, err := t.detector.Detect(frame)
		if err != nil {
			t.logger.Warn("detecting hands", "error", err)
		} else {
			sample.Pose = detector.First(hands).Pose()
		}
	}

	t.store(sample)
}

func (t *Tracker) store(s Sample) {
	t.mu.Lock()
	if !t.enabled {
		s.Pose = nil
	}
	t.latest = s
	cb := t.onSample
	t.mu.Unlock()

	if cb != nil {
		cb(s)
	}
}
