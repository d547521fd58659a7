package voice

import (
	"strings"

	"github.com/ayusman/holohud/internal/action"
)

// Command maps a spoken phrase to an action, a spoken reply, or both.
type Command struct {
	Phrase string
	Action action.Action // zero when the command only replies
	Reply  string
}

// Commands is checked in order; the first phrase contained in the
// transcript wins.
var Commands = []Command{
	{Phrase: "hey jarvis", Reply: "Yes Sir."},
	{Phrase: "show video", Action: action.OpenVideo},
	{Phrase: "hide hologram", Action: action.HideHologram},
	{Phrase: "activate hologram", Action: action.ShowHologram},
	{Phrase: "show panels", Action: action.ShowPanels},
	{Phrase: "show system data", Action: action.ShowPanels},
}

// Match finds the command for a transcript. Matching is case-insensitive
// and looks for the phrase anywhere in the text.
func Match(transcript string) (Command, bool) {
	text := strings.ToLower(transcript)
	for _, c := range Commands {
		if strings.Contains(text, c.Phrase) {
			return c, true
		}
	}
	return Command{}, false
}
