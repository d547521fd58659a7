package overlay

import (
	"math"
	"math/rand"
)

// Defaults for the animator.
const (
	DefaultRotationStep    = 1.5 // degrees per tick
	DefaultPanelSlideSpeed = 8   // pixels per tick
	DefaultParticleCount   = 80
	DefaultWidth           = 1280
	DefaultHeight          = 720
)

// Panel geometry, relative to the HUD center.
const (
	panelAnchorX   = 180
	panelWidth     = 180
	panelHeight    = 80
	panelFillAlpha = 0.15
	panelLineWidth = 1.2
	particleSize   = 3
	particleAlpha  = 0.85
	coreOuterSize  = 80
	coreInnerSize  = 24
)

// Options configures an Animator.
type Options struct {
	ParticleCount   int
	PanelSlideSpeed float64
	RotationStep    float64
	Width           int
	Height          int
}

// DefaultOptions returns the reference animation settings.
func DefaultOptions() Options {
	return Options{
		ParticleCount:   DefaultParticleCount,
		PanelSlideSpeed: DefaultPanelSlideSpeed,
		RotationStep:    DefaultRotationStep,
		Width:           DefaultWidth,
		Height:          DefaultHeight,
	}
}

// Animator advances the HUD state one tick at a time and emits draw lists.
// It is not safe for concurrent use; the tick goroutine owns it.
type Animator struct {
	opts  Options
	state *State
}

// NewAnimator creates an animator with a freshly seeded particle field.
func NewAnimator(opts Options, rng *rand.Rand) *Animator {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}
	return &Animator{
		opts:  opts,
		state: NewState(NewParticles(opts.ParticleCount, rng)),
	}
}

// State returns the state owned by the animator.
func (a *Animator) State() *State {
	return a.state
}

// SetViewport changes the drawing surface size. Non-positive values are ignored.
func (a *Animator) SetViewport(width, height int) {
	if width > 0 {
		a.opts.Width = width
	}
	if height > 0 {
		a.opts.Height = height
	}
}

// Center returns the HUD center in surface coordinates.
func (a *Animator) Center() (float64, float64) {
	return float64(a.opts.Width) / 2, float64(a.opts.Height) / 2
}

// Advance steps the animation dtTicks times and returns the draw list for
// the resulting frame.
//
// While the overlay is hidden nothing advances: rotation, particles and
// panel lifetimes are frozen and the draw list is empty.
func (a *Animator) Advance(dtTicks uint32) DrawList {
	if !a.state.Visible {
		return DrawList{}
	}

	drawn := make([]Panel, len(a.state.Panels))
	copy(drawn, a.state.Panels)

	for i := uint32(0); i < dtTicks; i++ {
		drawn = a.step()
	}

	return a.draw(drawn)
}

// step applies one tick and returns the panels as they should be drawn on
// that tick, including any that expired during it.
func (a *Animator) step() []Panel {
	st := a.state

	st.Rotation = wrapDegrees(st.Rotation + a.opts.RotationStep)

	for i := range st.Particles {
		p := &st.Particles[i]
		p.Angle = wrapDegrees(p.Angle + p.AngularSpeed)
	}

	drawn := make([]Panel, 0, len(st.Panels))
	alive := st.Panels[:0]
	for _, p := range st.Panels {
		p.XOffset += a.opts.PanelSlideSpeed
		p.Alpha = math.Min(PanelMaxAlpha, p.Alpha+PanelAlphaStep)
		p.Scale = math.Min(PanelMaxScale, p.Scale+PanelScaleStep)
		p.RemainingLife--

		drawn = append(drawn, p)
		if p.RemainingLife > 0 {
			alive = append(alive, p)
		}
	}
	// Clear the tail so dropped panels don't linger in the backing array.
	for i := len(alive); i < len(st.Panels); i++ {
		st.Panels[i] = Panel{}
	}
	st.Panels = alive

	return drawn
}

func (a *Animator) draw(panels []Panel) DrawList {
	st := a.state
	cx, cy := a.Center()

	list := make(DrawList, 0, 6+len(st.Particles)+2*len(panels))

	// Depth glow
	list = append(list,
		disc(cx, cy, 400, Cyan(0.08)),
		disc(cx, cy, 300, Cyan(0.15)),
	)

	// Static rings
	list = append(list,
		ring(cx, cy, 140, 1.4, Cyan(0.9)),
		ring(cx, cy, 100, 1.2, Cyan(0.9)),
		ring(cx, cy, 60, 1.0, Cyan(0.9)),
	)

	// Rotating core
	list = append(list, Primitive{
		Kind:  KindRotatedGroup,
		X:     cx,
		Y:     cy,
		Angle: st.Rotation,
		Children: []Primitive{
			disc(cx, cy, coreOuterSize, Cyan(0.35)),
			disc(cx, cy, coreInnerSize, Cyan(1)),
		},
	})

	for _, p := range st.Particles {
		px, py := ParticlePosition(p, cx, cy)
		list = append(list, Primitive{
			Kind:  KindDisc,
			X:     px,
			Y:     py,
			W:     particleSize,
			H:     particleSize,
			Color: Cyan(particleAlpha),
		})
	}

	for _, p := range panels {
		px := cx + panelAnchorX + p.XOffset
		py := cy + p.YOffset
		w := panelWidth * p.Scale
		h := panelHeight * p.Scale

		list = append(list,
			Primitive{Kind: KindRect, X: px, Y: py, W: w, H: h, Color: Cyan(p.Alpha * panelFillAlpha), Ref: p.ID},
			Primitive{Kind: KindRectOutline, X: px, Y: py, W: w, H: h, LineWidth: panelLineWidth, Color: Cyan(p.Alpha), Ref: p.ID},
		)
	}

	return list
}

// ParticlePosition returns the particle position around (cx, cy).
func ParticlePosition(p Particle, cx, cy float64) (float64, float64) {
	rad := p.Angle * math.Pi / 180
	return cx + math.Cos(rad)*p.OrbitRadius, cy + math.Sin(rad)*p.OrbitRadius
}

func wrapDegrees(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}
