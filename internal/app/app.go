// Package app wires the HUD core together: landmarks in, actions dispatched,
// overlay advanced, frames out.
package app

import (
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/ayusman/holohud/internal/action"
	"github.com/ayusman/holohud/internal/capture"
	"github.com/ayusman/holohud/internal/gesture"
	"github.com/ayusman/holohud/internal/landmark"
	"github.com/ayusman/holohud/internal/log"
	"github.com/ayusman/holohud/internal/overlay"
)

// DefaultTickRate is the frame rate of the tick loop.
const DefaultTickRate = 30

// Config holds the collaborators and tunables of the application.
type Config struct {
	// Source supplies the latest hand pose and camera texture. Nil means no hand ever.
	Source landmark.Source
	// Queue carries actions from voice, tray and HTTP. Nil creates a private queue.
	Queue *action.Queue
	// Effects performs speech and links. Nil discards them.
	Effects action.Effects

	Thresholds gesture.Thresholds
	Animation  overlay.Options
	Dispatch   action.DispatcherConfig

	// TickInterval is the wall-clock duration of one tick. Defaults to
	// 1/DefaultTickRate seconds.
	TickInterval time.Duration

	// Clock returns the current time. Defaults to time.Now.
	Clock func() time.Time
	// Seed drives particle placement and panel offsets. 0 picks a time-based seed.
	Seed int64
}

// Frame is everything a renderer needs to draw one tick.
type Frame struct {
	Tick       uint64           `json:"tick"`
	Visible    bool             `json:"visible"`
	Draw       overlay.DrawList `json:"draw"`
	Background *capture.Texture `json:"background,omitempty"`
}

// FrameSink receives every frame produced by Run.
type FrameSink interface {
	PublishFrame(f Frame)
}

// ActionCallback is called for every dispatched action.
type ActionCallback func(a action.Action, origin action.Origin)

// App is the frame orchestrator. Tick must only be called from one goroutine;
// Snapshot, OnAction and AddSink are safe to call from anywhere.
type App struct {
	source     landmark.Source
	queue      *action.Queue
	classifier *gesture.Classifier
	dispatcher *action.Dispatcher
	animator   *overlay.Animator
	clock      func() time.Time
	interval   time.Duration
	logger     *slog.Logger

	tick uint64

	mu        sync.RWMutex
	callbacks []ActionCallback
	sinks     []FrameSink
	snapshot  Snapshot
}

// New creates an App. The overlay starts visible with no panels.
func New(config Config) *App {
	if config.Source == nil {
		config.Source = landmark.SourceFunc(func() landmark.Sample { return landmark.Sample{} })
	}
	if config.Queue == nil {
		config.Queue = action.NewQueue(16)
	}
	if config.Clock == nil {
		config.Clock = time.Now
	}
	if config.TickInterval <= 0 {
		config.TickInterval = time.Second / DefaultTickRate
	}
	if config.Animation == (overlay.Options{}) {
		config.Animation = overlay.DefaultOptions()
	}
	if config.Seed == 0 {
		config.Seed = time.Now().UnixNano()
	}

	rng := rand.New(rand.NewSource(config.Seed))
	if config.Dispatch.Rand == nil {
		config.Dispatch.Rand = rng
	}

	a := &App{
		source:     config.Source,
		queue:      config.Queue,
		classifier: gesture.NewClassifier(config.Thresholds),
		dispatcher: action.NewDispatcher(config.Effects, config.Dispatch),
		animator:   overlay.NewAnimator(config.Animation, rng),
		clock:      config.Clock,
		interval:   config.TickInterval,
		logger:     log.With("component", "app"),
	}
	a.classifier.OnPinch = func(active bool) {
		a.logger.Debug("pinch", "active", active)
	}
	a.refreshSnapshot()
	return a
}

// Queue returns the action queue feeding the tick loop.
func (a *App) Queue() *action.Queue {
	return a.queue
}

// Interval returns the wall-clock duration of one tick.
func (a *App) Interval() time.Duration {
	return a.interval
}

// OnAction registers a callback invoked on the tick goroutine for every
// dispatched action. Callbacks must not block.
func (a *App) OnAction(fn ActionCallback) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.callbacks = append(a.callbacks, fn)
}

// AddSink registers a frame sink for Run.
func (a *App) AddSink(s FrameSink) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sinks = append(a.sinks, s)
}

// SetViewport resizes the drawing surface. It must only be called from the
// tick goroutine or before Run.
func (a *App) SetViewport(width, height int) {
	a.animator.SetViewport(width, height)
}
