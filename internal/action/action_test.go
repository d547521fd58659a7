package action

import (
	"encoding/json"
	"math/rand"
	"sync"
	"testing"

	"github.com/ayusman/holohud/internal/overlay"
)

// recordingEffects captures effect calls for assertions.
type recordingEffects struct {
	mu     sync.Mutex
	spoken []string
	links  []string
}

func (r *recordingEffects) Speak(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.spoken = append(r.spoken, text)
}

func (r *recordingEffects) OpenLink(url string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.links = append(r.links, url)
}

func newTestDispatcher(fx Effects) *Dispatcher {
	return NewDispatcher(fx, DispatcherConfig{Rand: rand.New(rand.NewSource(7))})
}

func TestParse(t *testing.T) {
	for _, a := range All() {
		t.Run(a.String(), func(t *testing.T) {
			got, err := Parse(a.String())
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", a.String(), err)
			}
			if got != a {
				t.Errorf("Parse(%q) = %v, want %v", a.String(), got, a)
			}
		})
	}

	t.Run("unknown name", func(t *testing.T) {
		if _, err := Parse("self_destruct"); err == nil {
			t.Error("expected error for unknown action")
		}
	})
}

func TestAction_JSON(t *testing.T) {
	var body struct {
		Action Action `json:"action"`
	}
	if err := json.Unmarshal([]byte(`{"action":"show_panels"}`), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Action != ShowPanels {
		t.Errorf("action = %v, want %v", body.Action, ShowPanels)
	}

	if err := json.Unmarshal([]byte(`{"action":"bogus"}`), &body); err == nil {
		t.Error("expected error for unknown action name")
	}

	if _, err := json.Marshal(Action(99)); err == nil {
		t.Error("expected error marshaling invalid action")
	}
}

func TestAction_Valid(t *testing.T) {
	if Action(0).Valid() {
		t.Error("zero action should be invalid")
	}
	if !HideHologram.Valid() {
		t.Error("HideHologram should be valid")
	}
	if got := Action(42).String(); got != "action(42)" {
		t.Errorf("String() = %q", got)
	}
}

func TestQueue(t *testing.T) {
	t.Run("drains in FIFO order", func(t *testing.T) {
		q := NewQueue(4)
		q.Submit(ShowPanels, OriginVoice)
		q.Submit(HideHologram, OriginTray)
		q.Submit(ShowHologram, OriginAPI)

		got := q.Drain()
		want := []Submission{
			{Action: ShowPanels, Origin: OriginVoice},
			{Action: HideHologram, Origin: OriginTray},
			{Action: ShowHologram, Origin: OriginAPI},
		}
		if len(got) != len(want) {
			t.Fatalf("drained %d, want %d", len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("got[%d] = %+v, want %+v", i, got[i], want[i])
			}
		}
		if q.Len() != 0 {
			t.Errorf("Len() = %d after drain", q.Len())
		}
	})

	t.Run("empty drain returns nil", func(t *testing.T) {
		if got := NewQueue(1).Drain(); got != nil {
			t.Errorf("Drain() = %v, want nil", got)
		}
	})

	t.Run("drops when full", func(t *testing.T) {
		q := NewQueue(2)
		if !q.Submit(OpenVideo, OriginVoice) || !q.Submit(OpenVideo, OriginVoice) {
			t.Fatal("expected first two submissions to succeed")
		}
		if q.Submit(ShowPanels, OriginVoice) {
			t.Error("expected submission to a full queue to fail")
		}
		if got := q.Drain(); len(got) != 2 || got[1].Action != OpenVideo {
			t.Errorf("Drain() = %+v", got)
		}
	})

	t.Run("rejects invalid actions", func(t *testing.T) {
		q := NewQueue(2)
		if q.Submit(Action(0), OriginAPI) {
			t.Error("expected invalid action to be rejected")
		}
		if q.Len() != 0 {
			t.Errorf("Len() = %d, want 0", q.Len())
		}
	})

	t.Run("concurrent submitters", func(t *testing.T) {
		q := NewQueue(100)
		var wg sync.WaitGroup
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 25; j++ {
					q.Submit(ShowPanels, OriginVoice)
				}
			}()
		}
		wg.Wait()

		if got := len(q.Drain()); got != 100 {
			t.Errorf("drained %d, want 100", got)
		}
	})
}

func TestDispatcher_OpenVideo(t *testing.T) {
	fx := &recordingEffects{}
	st := overlay.NewState(nil)

	newTestDispatcher(fx).Dispatch(OpenVideo, st)

	if len(fx.spoken) != 1 || fx.spoken[0] != SpeechOpenVideo {
		t.Errorf("spoken = %v", fx.spoken)
	}
	if len(fx.links) != 1 || fx.links[0] != DefaultVideoURL {
		t.Errorf("links = %v", fx.links)
	}
	if !st.Visible || len(st.Panels) != 0 {
		t.Error("OpenVideo must not change overlay state")
	}
}

func TestDispatcher_Visibility(t *testing.T) {
	fx := &recordingEffects{}
	d := newTestDispatcher(fx)
	st := overlay.NewState(nil)
	original := st.Visible

	for i := 0; i < 2; i++ {
		d.Dispatch(HideHologram, st)
		if st.Visible {
			t.Fatal("expected hidden after HideHologram")
		}
		d.Dispatch(ShowHologram, st)
		if !st.Visible {
			t.Fatal("expected visible after ShowHologram")
		}
	}

	if st.Visible != original {
		t.Errorf("visible = %v, want %v", st.Visible, original)
	}
	want := []string{SpeechHideHologram, SpeechShowHologram, SpeechHideHologram, SpeechShowHologram}
	if len(fx.spoken) != len(want) {
		t.Fatalf("spoken = %v", fx.spoken)
	}
	for i := range want {
		if fx.spoken[i] != want[i] {
			t.Errorf("spoken[%d] = %q, want %q", i, fx.spoken[i], want[i])
		}
	}
}

func TestDispatcher_ShowPanels(t *testing.T) {
	fx := &recordingEffects{}
	st := overlay.NewState(nil)

	newTestDispatcher(fx).Dispatch(ShowPanels, st)

	if len(st.Panels) != 3 {
		t.Fatalf("panels = %d, want 3", len(st.Panels))
	}
	ids := map[string]bool{}
	for i, p := range st.Panels {
		if p.Title != SystemPanels[i].Title || p.Value != SystemPanels[i].Value {
			t.Errorf("panel %d = %s/%s", i, p.Title, p.Value)
		}
		if p.RemainingLife != 180 || p.Alpha != 0 || p.Scale != 0.5 || p.XOffset != -300 {
			t.Errorf("panel %d spawn values %+v", i, p)
		}
		if p.YOffset < -80 || p.YOffset > 80 || p.YOffset != float64(int(p.YOffset)) {
			t.Errorf("panel %d y offset %f not an integer in [-80,80]", i, p.YOffset)
		}
		ids[p.ID] = true
	}
	if len(ids) != 3 {
		t.Error("expected distinct panel ids")
	}
	if len(fx.spoken) != 1 || fx.spoken[0] != SpeechShowPanels {
		t.Errorf("spoken = %v", fx.spoken)
	}
}

func TestDispatcher_Config(t *testing.T) {
	fx := &recordingEffects{}
	d := NewDispatcher(fx, DispatcherConfig{VideoURL: "https://example.com/v", PanelLife: 12})
	st := overlay.NewState(nil)

	d.Dispatch(OpenVideo, st)
	d.Dispatch(ShowPanels, st)

	if fx.links[0] != "https://example.com/v" {
		t.Errorf("link = %q", fx.links[0])
	}
	if st.Panels[0].RemainingLife != 12 {
		t.Errorf("life = %d, want 12", st.Panels[0].RemainingLife)
	}
}

func TestDispatcher_UnknownAndNilEffects(t *testing.T) {
	d := NewDispatcher(nil, DispatcherConfig{})
	st := overlay.NewState(nil)

	d.Dispatch(Action(77), st)
	d.Dispatch(ShowPanels, st)

	if !st.Visible {
		t.Error("unknown action changed visibility")
	}
	if len(st.Panels) != 3 {
		t.Errorf("panels = %d, want 3", len(st.Panels))
	}
}
