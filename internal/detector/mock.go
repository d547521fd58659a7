package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu    sync.Mutex
	hands []HandLandmarks
	err   error
	calls int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Detect has been called.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// PinchLandmarks returns a right hand whose index tip sits at (x, y) with the
// thumb tip touching it. The thumb/index L1 distance is 0.01.
func PinchLandmarks(x, y float64) HandLandmarks {
	landmarks := openHandAt(x, y)
	landmarks.Points[ThumbTip] = Point3D{X: x + 0.005, Y: y + 0.005, Z: 0.0}
	return landmarks
}

// OpenHandLandmarks returns a right hand with index tip at (x, y) and the
// thumb spread well clear of it. The thumb/index L1 distance is 0.2.
func OpenHandLandmarks(x, y float64) HandLandmarks {
	landmarks := openHandAt(x, y)
	landmarks.Points[ThumbTip] = Point3D{X: x + 0.12, Y: y + 0.08, Z: 0.0}
	return landmarks
}

// openHandAt lays out a plausible right hand, palm facing the camera, with the
// index fingertip at (x, y). Y grows downward as in image coordinates.
func openHandAt(x, y float64) HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	// Wrist below the index tip
	landmarks.Points[Wrist] = Point3D{X: x - 0.05, Y: y + 0.35, Z: 0.0}

	landmarks.Points[ThumbCMC] = Point3D{X: x + 0.02, Y: y + 0.30, Z: 0.02}
	landmarks.Points[ThumbMCP] = Point3D{X: x + 0.06, Y: y + 0.24, Z: 0.03}
	landmarks.Points[ThumbIP] = Point3D{X: x + 0.09, Y: y + 0.16, Z: 0.03}
	landmarks.Points[ThumbTip] = Point3D{X: x + 0.12, Y: y + 0.08, Z: 0.03}

	landmarks.Points[IndexMCP] = Point3D{X: x - 0.01, Y: y + 0.22, Z: 0.0}
	landmarks.Points[IndexPIP] = Point3D{X: x, Y: y + 0.12, Z: 0.0}
	landmarks.Points[IndexDIP] = Point3D{X: x, Y: y + 0.06, Z: 0.0}
	landmarks.Points[IndexTip] = Point3D{X: x, Y: y, Z: 0.0}

	landmarks.Points[MiddleMCP] = Point3D{X: x - 0.05, Y: y + 0.21, Z: 0.0}
	landmarks.Points[MiddlePIP] = Point3D{X: x - 0.05, Y: y + 0.10, Z: 0.0}
	landmarks.Points[MiddleDIP] = Point3D{X: x - 0.05, Y: y + 0.03, Z: 0.0}
	landmarks.Points[MiddleTip] = Point3D{X: x - 0.05, Y: y - 0.03, Z: 0.0}

	landmarks.Points[RingMCP] = Point3D{X: x - 0.09, Y: y + 0.22, Z: 0.0}
	landmarks.Points[RingPIP] = Point3D{X: x - 0.10, Y: y + 0.12, Z: 0.0}
	landmarks.Points[RingDIP] = Point3D{X: x - 0.10, Y: y + 0.06, Z: 0.0}
	landmarks.Points[RingTip] = Point3D{X: x - 0.10, Y: y + 0.01, Z: 0.0}

	landmarks.Points[PinkyMCP] = Point3D{X: x - 0.13, Y: y + 0.24, Z: 0.0}
	landmarks.Points[PinkyPIP] = Point3D{X: x - 0.15, Y: y + 0.17, Z: 0.0}
	landmarks.Points[PinkyDIP] = Point3D{X: x - 0.16, Y: y + 0.12, Z: 0.0}
	landmarks.Points[PinkyTip] = Point3D{X: x - 0.17, Y: y + 0.08, Z: 0.0}

	return landmarks
}
