package action

import (
	"log/slog"
	"math/rand"

	"github.com/ayusman/holohud/internal/log"
	"github.com/ayusman/holohud/internal/overlay"
)

// DefaultVideoURL is opened by OpenVideo when no URL is configured.
const DefaultVideoURL = "https://youtube.com/results?search_query=iron+man+hologram"

// DefaultPanelLife is the panel lifetime in ticks (about 6s at 30Hz).
const DefaultPanelLife = 180

// Spoken confirmations.
const (
	SpeechOpenVideo    = "Opening holographic video."
	SpeechShowHologram = "Hologram activated."
	SpeechHideHologram = "Hologram hidden."
	SpeechShowPanels   = "Displaying system data."
)

// Effects performs side effects outside the tick loop. Implementations must
// return quickly and swallow their own failures.
type Effects interface {
	Speak(text string)
	OpenLink(url string)
}

// NopEffects discards every effect.
type NopEffects struct{}

func (NopEffects) Speak(string)    {}
func (NopEffects) OpenLink(string) {}

// PanelSpec is a title/value pair spawned by ShowPanels.
type PanelSpec struct {
	Title string
	Value string
}

// SystemPanels are the cards spawned by ShowPanels, in draw order.
var SystemPanels = []PanelSpec{
	{Title: "AI STATUS", Value: "ONLINE"},
	{Title: "CAMERA", Value: "ACTIVE"},
	{Title: "HUD MODE", Value: "IRON-MAN"},
}

// DispatcherConfig configures a Dispatcher.
type DispatcherConfig struct {
	VideoURL  string
	PanelLife int
	Rand      *rand.Rand
}

// Dispatcher applies actions to the overlay state.
type Dispatcher struct {
	effects   Effects
	videoURL  string
	panelLife int
	rng       *rand.Rand
	logger    *slog.Logger
}

// NewDispatcher creates a dispatcher. A nil effects is replaced by NopEffects.
func NewDispatcher(effects Effects, cfg DispatcherConfig) *Dispatcher {
	if effects == nil {
		effects = NopEffects{}
	}
	if cfg.VideoURL == "" {
		cfg.VideoURL = DefaultVideoURL
	}
	if cfg.PanelLife <= 0 {
		cfg.PanelLife = DefaultPanelLife
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(rand.Int63()))
	}
	return &Dispatcher{
		effects:   effects,
		videoURL:  cfg.VideoURL,
		panelLife: cfg.PanelLife,
		rng:       cfg.Rand,
		logger:    log.With("component", "action.dispatcher"),
	}
}

// Dispatch applies a to st. It must only be called from the tick goroutine.
func (d *Dispatcher) Dispatch(a Action, st *overlay.State) {
	switch a {
	case OpenVideo:
		d.effects.Speak(SpeechOpenVideo)
		d.effects.OpenLink(d.videoURL)
	case ShowHologram:
		st.Visible = true
		d.effects.Speak(SpeechShowHologram)
	case HideHologram:
		st.Visible = false
		d.effects.Speak(SpeechHideHologram)
	case ShowPanels:
		d.effects.Speak(SpeechShowPanels)
		for _, spec := range SystemPanels {
			st.AddPanel(overlay.NewPanel(spec.Title, spec.Value, d.panelY(), d.panelLife))
		}
	default:
		d.logger.Warn("ignoring unknown action", "action", a.String())
		return
	}
	d.logger.Debug("dispatched", "action", a.String(), "visible", st.Visible, "panels", len(st.Panels))
}

// panelY returns an integer offset in [-PanelYSpread, PanelYSpread].
func (d *Dispatcher) panelY() float64 {
	return float64(d.rng.Intn(2*overlay.PanelYSpread+1) - overlay.PanelYSpread)
}
