// Package action defines the closed set of HUD actions, the queue that hands
// them from background goroutines to the tick loop, and the dispatcher that
// applies them to the overlay.
package action

import (
	"encoding/json"
	"fmt"
)

// Action is one discrete user command, produced by a gesture, a voice
// phrase, the tray menu or the HTTP API.
type Action int

const (
	// OpenVideo opens the hologram video link.
	OpenVideo Action = iota + 1
	// ShowHologram makes the overlay visible.
	ShowHologram
	// HideHologram hides the overlay.
	HideHologram
	// ShowPanels spawns the system data panels.
	ShowPanels
)

var names = map[Action]string{
	OpenVideo:    "open_video",
	ShowHologram: "show_hologram",
	HideHologram: "hide_hologram",
	ShowPanels:   "show_panels",
}

// All returns every action in declaration order.
func All() []Action {
	return []Action{OpenVideo, ShowHologram, HideHologram, ShowPanels}
}

// String returns the wire name of the action.
func (a Action) String() string {
	if name, ok := names[a]; ok {
		return name
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// Valid reports whether a is one of the declared actions.
func (a Action) Valid() bool {
	_, ok := names[a]
	return ok
}

// Parse maps a wire name back to an Action.
func Parse(name string) (Action, error) {
	for a, n := range names {
		if n == name {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown action %q", name)
}

// MarshalJSON encodes the action as its wire name.
func (a Action) MarshalJSON() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("cannot marshal %s", a)
	}
	return json.Marshal(a.String())
}

// UnmarshalJSON decodes a wire name.
func (a *Action) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := Parse(name)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Origin identifies where an action came from.
type Origin string

const (
	OriginGesture Origin = "gesture"
	OriginVoice   Origin = "voice"
	OriginTray    Origin = "tray"
	OriginAPI     Origin = "api"
)
