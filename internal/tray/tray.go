// Package tray provides a system tray menu for the HUD. It is a third action
// source alongside gestures and voice.
package tray

import (
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/holohud/internal/action"
)

// Submitter accepts actions for the next tick.
type Submitter interface {
	Submit(a action.Action, origin action.Origin) bool
}

// menuLabels are the tray titles for each action.
var menuLabels = map[action.Action]string{
	action.OpenVideo:    "Open Hologram Video",
	action.ShowHologram: "Activate Hologram",
	action.HideHologram: "Hide Hologram",
	action.ShowPanels:   "Show System Data",
}

// Tray represents the system tray application.
type Tray struct {
	submitter  Submitter
	onToggle   func(enabled bool)
	onSettings func()
	onQuit     func()
	enabled    bool
	mu         sync.RWMutex

	// Menu items stored for later updates
	menuToggle     *systray.MenuItem
	menuLastAction *systray.MenuItem
}

// New creates a new Tray that submits menu actions to s. Hand tracking starts enabled.
func New(s Submitter) *Tray {
	return &Tray{
		submitter: s,
		enabled:   true,
	}
}

// OnToggle sets the callback function to be called when hand tracking is toggled.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnSettings sets the callback function to be called when the HUD menu item is clicked.
func (t *Tray) OnSettings(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onSettings = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit closes the tray and makes Run return.
func (t *Tray) Quit() {
	systray.Quit()
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("HoloHUD")
	systray.SetTooltip("HoloHUD Gesture Interface")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem("● Hand Tracking", "Toggle hand tracking")
	t.mu.Unlock()
	systray.AddSeparator()

	for _, a := range action.All() {
		item := systray.AddMenuItem(menuLabels[a], "Run "+a.String())
		go t.forward(item, a)
	}
	systray.AddSeparator()

	t.mu.Lock()
	t.menuLastAction = systray.AddMenuItem("Last: none", "Last dispatched action")
	t.menuLastAction.Disable()
	t.mu.Unlock()
	systray.AddSeparator()

	menuSettings := systray.AddMenuItem("Open HUD...", "Open the HUD in the browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit HoloHUD")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuSettings.ClickedCh:
				t.handleSettings()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// forward submits a on every click of item.
func (t *Tray) forward(item *systray.MenuItem, a action.Action) {
	for range item.ClickedCh {
		t.submitter.Submit(a, action.OriginTray)
	}
}

// onExit is called when the system tray is about to exit.
func (t *Tray) onExit() {}

// handleToggle handles the toggle menu item click.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled

	if enabled {
		t.menuToggle.SetTitle("● Hand Tracking")
	} else {
		t.menuToggle.SetTitle("○ Hand Tracking")
	}

	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

// handleSettings handles the HUD menu item click.
func (t *Tray) handleSettings() {
	t.mu.RLock()
	callback := t.onSettings
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetLastAction updates the last action display in the menu.
func (t *Tray) SetLastAction(a action.Action, origin action.Origin) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuLastAction != nil {
		t.menuLastAction.SetTitle("Last: " + a.String() + " (" + string(origin) + ")")
	}
}

// IsEnabled returns whether hand tracking is enabled.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}
