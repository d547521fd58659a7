// Package gesture turns the per-frame hand pose stream into discrete actions.
package gesture

import (
	"math"
	"time"

	"github.com/ayusman/holohud/internal/action"
	"github.com/ayusman/holohud/internal/detector"
)

// Default thresholds. Distances are in normalized camera coordinates.
const (
	DefaultPinchThreshold = 0.04
	DefaultHoldDuration   = 1500 * time.Millisecond
	DefaultDragThreshold  = 0.15
)

// Thresholds tunes the classifier.
type Thresholds struct {
	// Pinch is the L1 thumb-index distance below which the hand is pinched.
	Pinch float64
	// Hold is how long a pinch must be held to show the panels.
	Hold time.Duration
	// Drag is the index displacement that triggers a directional action.
	Drag float64
}

// DefaultThresholds returns the reference thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Pinch: DefaultPinchThreshold,
		Hold:  DefaultHoldDuration,
		Drag:  DefaultDragThreshold,
	}
}

// PinchState tracks an in-progress pinch.
type PinchState struct {
	Active        bool             `json:"active"`
	StartPosition detector.Point2D `json:"start_position"`
	StartTime     time.Time        `json:"start_time"`
}

// Classifier is the pinch/drag state machine. It emits at most one action
// per frame and is not safe for concurrent use.
type Classifier struct {
	th    Thresholds
	pinch PinchState

	// OnPinch, when set, is called on every pinch engage (true) and
	// release (false). Firing an action counts as a release.
	OnPinch func(active bool)
}

// NewClassifier creates a classifier. Non-positive thresholds fall back to
// the defaults.
func NewClassifier(th Thresholds) *Classifier {
	def := DefaultThresholds()
	if th.Pinch <= 0 {
		th.Pinch = def.Pinch
	}
	if th.Hold <= 0 {
		th.Hold = def.Hold
	}
	if th.Drag <= 0 {
		th.Drag = def.Drag
	}
	return &Classifier{th: th}
}

// State returns a copy of the pinch state.
func (c *Classifier) State() PinchState {
	return c.pinch
}

// Reset clears any in-progress pinch.
func (c *Classifier) Reset() {
	c.release()
}

// Classify consumes one frame. It must be called exactly once per frame
// with a non-decreasing now. A nil pose means no hand was seen.
//
// The first pinched frame only engages the pinch; actions fire on later
// frames in priority order: hold, drag right, drag up, drag down.
func (c *Classifier) Classify(pose *detector.HandPose, now time.Time) (action.Action, bool) {
	if pose == nil {
		c.release()
		return 0, false
	}

	if PinchDistance(pose) >= c.th.Pinch {
		c.release()
		return 0, false
	}

	if !c.pinch.Active {
		c.pinch = PinchState{
			Active:        true,
			StartPosition: pose.Index,
			StartTime:     now,
		}
		if c.OnPinch != nil {
			c.OnPinch(true)
		}
		return 0, false
	}

	delta := pose.Index.Sub(c.pinch.StartPosition)

	var a action.Action
	switch {
	case now.Sub(c.pinch.StartTime) > c.th.Hold:
		a = action.ShowPanels
	case delta.X > c.th.Drag:
		a = action.OpenVideo
	case delta.Y < -c.th.Drag:
		a = action.ShowHologram
	case delta.Y > c.th.Drag:
		a = action.HideHologram
	default:
		return 0, false
	}

	c.release()
	return a, true
}

func (c *Classifier) release() {
	wasActive := c.pinch.Active
	c.pinch = PinchState{}
	if wasActive && c.OnPinch != nil {
		c.OnPinch(false)
	}
}

// PinchDistance is the L1 distance between the thumb and index tips.
func PinchDistance(pose *detector.HandPose) float64 {
	return math.Abs(pose.Thumb.X-pose.Index.X) + math.Abs(pose.Thumb.Y-pose.Index.Y)
}
