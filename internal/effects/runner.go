// Package effects performs HUD side effects (speech and links) off the tick
// goroutine by handing them to the desktop plugin.
package effects

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync/atomic"

	"github.com/ayusman/holohud/internal/action"
	"github.com/ayusman/holohud/internal/log"
	"github.com/ayusman/holohud/internal/plugin"
)

// Plugin actions understood by the desktop plugin.
const (
	ActionSpeak    = "speak"
	ActionOpenLink = "open-link"
)

// DefaultQueueSize bounds pending effects.
const DefaultQueueSize = 32

// Finder locates the plugin that handles a plugin action.
type Finder interface {
	Find(action string) (*plugin.Plugin, error)
}

// Executor runs a plugin request.
type Executor interface {
	Execute(ctx context.Context, p *plugin.Plugin, req *plugin.Request) (*plugin.Response, error)
}

// Config configures a Runner.
type Config struct {
	QueueSize  int
	SpeechRate int
}

// Runner queues effects and executes them one at a time on its own goroutine.
// Speak and OpenLink never block; when the queue is full the effect is dropped.
type Runner struct {
	finder   Finder
	executor Executor
	jobs     chan *plugin.Request
	config   json.RawMessage
	logger   *slog.Logger

	dropped atomic.Int64
	failed  atomic.Int64

	// OnDone, when set, is called after each effect with its result.
	OnDone func(req *plugin.Request, err error)
}

var _ action.Effects = (*Runner)(nil)

// NewRunner creates a runner. Call Run to start executing effects.
func NewRunner(finder Finder, executor Executor, cfg Config) *Runner {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultQueueSize
	}
	pluginCfg, _ := json.Marshal(map[string]int{"rate": cfg.SpeechRate})

	return &Runner{
		finder:   finder,
		executor: executor,
		jobs:     make(chan *plugin.Request, cfg.QueueSize),
		config:   pluginCfg,
		logger:   log.With("component", "effects"),
	}
}

// Speak queues text for speech synthesis.
func (r *Runner) Speak(text string) {
	r.enqueue(ActionSpeak, map[string]string{"text": text})
}

// OpenLink queues url to be opened in the browser.
func (r *Runner) OpenLink(url string) {
	r.enqueue(ActionOpenLink, map[string]string{"url": url})
}

// Dropped returns how many effects were discarded because the queue was full.
func (r *Runner) Dropped() int64 {
	return r.dropped.Load()
}

// Failed returns how many effects failed to execute.
func (r *Runner) Failed() int64 {
	return r.failed.Load()
}

func (r *Runner) enqueue(pluginAction string, params map[string]string) {
	p, _ := json.Marshal(params)
	req := &plugin.Request{
		Action: pluginAction,
		Source: "holohud",
		Config: r.config,
		Params: p,
	}

	select {
	case r.jobs <- req:
	default:
		r.dropped.Add(1)
		r.logger.Warn("effects queue full, dropping", "action", pluginAction)
	}
}

// Run executes queued effects until ctx is cancelled. Effects still queued
// at that point are discarded.
func (r *Runner) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-r.jobs:
			err := r.execute(ctx, req)
			if err != nil {
				r.failed.Add(1)
				r.logger.Warn("effect failed", "action", req.Action, "error", err)
			}
			if r.OnDone != nil {
				r.OnDone(req, err)
			}
		}
	}
}

func (r *Runner) execute(ctx context.Context, req *plugin.Request) error {
	p, err := r.finder.Find(req.Action)
	if err != nil {
		return err
	}

	resp, err := r.executor.Execute(ctx, p, req)
	if err != nil {
		return err
	}
	if !resp.Success {
		return &PluginError{Plugin: p.Manifest.Name, Message: resp.Error}
	}

	r.logger.Debug("effect done", "action", req.Action, "plugin", p.Manifest.Name)
	return nil
}

// PluginError is a failure reported by the plugin itself.
type PluginError struct {
	Plugin  string
	Message string
}

func (e *PluginError) Error() string {
	return "plugin " + e.Plugin + ": " + e.Message
}
