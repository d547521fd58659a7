// Package testdata provides scripted hand-pose sequences for workflow tests.
package testdata

import (
	"fmt"

	"github.com/ayusman/holohud/internal/detector"
)

// Pinch returns a pinched pose with the index tip at (x, y).
func Pinch(x, y float64) *detector.HandPose {
	lm := detector.PinchLandmarks(x, y)
	return lm.Pose()
}

// Open returns an open-hand pose with the index tip at (x, y).
func Open(x, y float64) *detector.HandPose {
	lm := detector.OpenHandLandmarks(x, y)
	return lm.Pose()
}

// DragPath returns a pinch that starts at (x0, y0) and moves to (x1, y1)
// over steps frames. The first frame engages the pinch.
func DragPath(x0, y0, x1, y1 float64, steps int) []*detector.HandPose {
	if steps < 2 {
		steps = 2
	}
	poses := make([]*detector.HandPose, steps)
	for i := range poses {
		f := float64(i) / float64(steps-1)
		poses[i] = Pinch(x0+(x1-x0)*f, y0+(y1-y0)*f)
	}
	return poses
}

// Gesture names accepted by Sequence.
const (
	DragRight = "drag-right"
	DragUp    = "drag-up"
	DragDown  = "drag-down"
)

// Sequence returns a named drag followed by an open hand. Each sequence
// fires exactly one action when classified.
func Sequence(name string) ([]*detector.HandPose, error) {
	var poses []*detector.HandPose
	switch name {
	case DragRight:
		poses = DragPath(0.3, 0.5, 0.5, 0.5, 5)
	case DragUp:
		poses = DragPath(0.5, 0.6, 0.5, 0.4, 5)
	case DragDown:
		poses = DragPath(0.5, 0.4, 0.5, 0.6, 5)
	default:
		return nil, fmt.Errorf("unknown gesture sequence %q", name)
	}
	return append(poses, Open(0.5, 0.5)), nil
}
