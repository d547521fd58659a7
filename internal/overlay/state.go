// Package overlay owns the animated HUD state and turns it into draw lists.
package overlay

import (
	"math/rand"

	"github.com/google/uuid"
)

// Particle orbits the HUD center forever.
type Particle struct {
	Angle        float64 `json:"angle"` // degrees, [0, 360)
	OrbitRadius  float64 `json:"orbit_radius"`
	AngularSpeed float64 `json:"angular_speed"` // degrees per tick
}

// Panel is a transient data card that slides in, fades up and expires.
type Panel struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Value         string  `json:"value"`
	XOffset       float64 `json:"x_offset"`
	YOffset       float64 `json:"y_offset"`
	Alpha         float64 `json:"alpha"`
	Scale         float64 `json:"scale"`
	RemainingLife int     `json:"remaining_life"`
}

// Panel spawn values.
const (
	PanelStartX     = -300
	PanelStartAlpha = 0.0
	PanelStartScale = 0.5
	PanelMaxAlpha   = 0.9
	PanelMaxScale   = 1.0
	PanelAlphaStep  = 0.03
	PanelScaleStep  = 0.02
	// PanelYSpread bounds the random vertical offset to [-PanelYSpread, PanelYSpread].
	PanelYSpread = 80
)

// NewPanel creates a panel at its spawn position.
func NewPanel(title, value string, yOffset float64, life int) Panel {
	return Panel{
		ID:            uuid.NewString(),
		Title:         title,
		Value:         value,
		XOffset:       PanelStartX,
		YOffset:       yOffset,
		Alpha:         PanelStartAlpha,
		Scale:         PanelStartScale,
		RemainingLife: life,
	}
}

// State is the mutable HUD state. It is owned by the tick goroutine.
type State struct {
	Visible   bool
	Rotation  float64
	Particles []Particle
	Panels    []Panel
}

// NewState creates a visible state with the given particle field.
func NewState(particles []Particle) *State {
	return &State{
		Visible:   true,
		Particles: particles,
	}
}

// AddPanel appends a panel; insertion order is draw order.
func (s *State) AddPanel(p Panel) {
	s.Panels = append(s.Panels, p)
}

// NewParticles seeds a particle field: angle in [0,360), radius an integer
// in [60,160], speed in [0,2) degrees per tick.
func NewParticles(n int, rng *rand.Rand) []Particle {
	particles := make([]Particle, n)
	for i := range particles {
		particles[i] = Particle{
			Angle:        rng.Float64() * 360,
			OrbitRadius:  float64(60 + rng.Intn(101)),
			AngularSpeed: rng.Float64() * 2,
		}
	}
	return particles
}

// Snapshot is a read-only summary of the state, safe to hand to other goroutines.
type Snapshot struct {
	Visible   bool    `json:"visible"`
	Rotation  float64 `json:"rotation"`
	Particles int     `json:"particles"`
	Panels    []Panel `json:"panels"`
}

// Snapshot copies the state.
func (s *State) Snapshot() Snapshot {
	panels := make([]Panel, len(s.Panels))
	copy(panels, s.Panels)
	return Snapshot{
		Visible:   s.Visible,
		Rotation:  s.Rotation,
		Particles: len(s.Particles),
		Panels:    panels,
	}
}
