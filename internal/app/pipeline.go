package app

import (
	"context"
	"time"

	"github.com/ayusman/holohud/internal/action"
	"github.com/ayusman/holohud/internal/overlay"
)

// Snapshot is a thread-safe copy of the HUD state, refreshed every tick.
type Snapshot struct {
	overlay.Snapshot
	Tick       uint64        `json:"tick"`
	Pinching   bool          `json:"pinching"`
	LastAction string        `json:"last_action,omitempty"`
	LastOrigin action.Origin `json:"last_origin,omitempty"`
}

// Tick runs one frame:
//  1. dispatch every queued voice, tray or API action in FIFO order
//  2. sample the latest hand pose and classify it
//  3. dispatch the gesture action, if any
//  4. advance the overlay dtTicks steps and build the draw list
//
// The camera texture is passed through untouched and may be nil.
func (a *App) Tick(dtTicks uint32) Frame {
	for _, s := range a.queue.Drain() {
		a.dispatch(s.Action, s.Origin)
	}

	sample := a.source.Latest()
	if act, ok := a.classifier.Classify(sample.Pose, a.clock()); ok {
		a.dispatch(act, action.OriginGesture)
	}

	draw := a.animator.Advance(dtTicks)
	a.tick++
	a.refreshSnapshot()

	return Frame{
		Tick:       a.tick,
		Visible:    a.animator.State().Visible,
		Draw:       draw,
		Background: sample.Texture,
	}
}

// Run ticks at the configured rate and publishes every frame to the
// registered sinks until ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	a.logger.Info("frame loop started", "interval", a.interval)
	defer func() { a.logger.Info("frame loop stopped", "ticks", a.tick) }()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			frame := a.Tick(1)

			a.mu.RLock()
			sinks := a.sinks
			a.mu.RUnlock()
			for _, s := range sinks {
				s.PublishFrame(frame)
			}
		}
	}
}

// Snapshot returns the state as of the last completed tick.
func (a *App) Snapshot() Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	snap := a.snapshot
	snap.Panels = append([]overlay.Panel(nil), snap.Panels...)
	return snap
}

func (a *App) dispatch(act action.Action, origin action.Origin) {
	a.dispatcher.Dispatch(act, a.animator.State())
	a.logger.Info("action", "action", act.String(), "origin", origin)

	a.mu.Lock()
	a.snapshot.LastAction = act.String()
	a.snapshot.LastOrigin = origin
	callbacks := a.callbacks
	a.mu.Unlock()

	for _, fn := range callbacks {
		fn(act, origin)
	}
}

func (a *App) refreshSnapshot() {
	st := a.animator.State().Snapshot()
	pinching := a.classifier.State().Active

	a.mu.Lock()
	defer a.mu.Unlock()
	a.snapshot.Snapshot = st
	a.snapshot.Tick = a.tick
	a.snapshot.Pinching = pinching
}
