// Package landmark supplies the tick loop with the most recent hand pose and
// camera texture without ever blocking on camera or detector I/O.
package landmark

import (
	"sync"

	"github.com/ayusman/holohud/internal/capture"
	"github.com/ayusman/holohud/internal/detector"
)

// Sample is what the tick loop sees for one frame. Pose is nil when no hand
// is visible; Texture is nil when no camera frame is available.
type Sample struct {
	Pose    *detector.HandPose
	Texture *capture.Texture
}

// Source returns the latest sample. Latest must not block.
type Source interface {
	Latest() Sample
}

// SourceFunc adapts a function to Source.
type SourceFunc func() Sample

// Latest calls f.
func (f SourceFunc) Latest() Sample {
	return f()
}

// Script replays a fixed sequence of poses, one per Latest call, and
// reports no hand once the script is exhausted. It is safe for concurrent use.
type Script struct {
	mu    sync.Mutex
	poses []*detector.HandPose
	next  int
}

// NewScript creates a Script over poses. Nil entries mean no hand.
func NewScript(poses ...*detector.HandPose) *Script {
	return &Script{poses: poses}
}

// Latest returns the next scripted pose.
func (s *Script) Latest() Sample {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.next >= len(s.poses) {
		return Sample{}
	}
	pose := s.poses[s.next]
	s.next++
	return Sample{Pose: pose}
}

// Append adds poses to the end of the script.
func (s *Script) Append(poses ...*detector.HandPose) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.poses = append(s.poses, poses...)
}

// Remaining returns how many scripted poses have not been consumed.
func (s *Script) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.poses) - s.next
}
