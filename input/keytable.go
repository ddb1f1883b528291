package input

import (
	"unicode"

	"github.com/gdamore/tcell/v2"
)

// KeyTable maps terminal keys to intents
type KeyTable struct {
	// Special keys (Ctrl+*, arrows, Esc, Enter)
	SpecialKeys map[tcell.Key]Intent

	// Rune bindings, matched case-insensitively
	Runes map[rune]Intent
}

// DefaultKeyTable returns the default key bindings
func DefaultKeyTable() *KeyTable {
	return &KeyTable{
		SpecialKeys: map[tcell.Key]Intent{
			tcell.KeyCtrlQ:  IntentQuit,
			tcell.KeyCtrlC:  IntentQuit,
			tcell.KeyEscape: IntentQuit,
			tcell.KeyCtrlS:  IntentToggleMute,
			tcell.KeyEnter:  IntentServe,
			tcell.KeyLeft:   IntentLeft,
			tcell.KeyRight:  IntentRight,
		},
		Runes: map[rune]Intent{
			'q': IntentQuit,
			'm': IntentToggleMute,
			' ': IntentServe,
			'h': IntentLeft,
			'a': IntentLeft,
			'l': IntentRight,
			'd': IntentRight,
		},
	}
}

// Lookup returns the intent bound to ev, IntentNone if unbound
func (kt *KeyTable) Lookup(ev *tcell.EventKey) Intent {
	if ev == nil {
		return IntentNone
	}
	return kt.LookupKey(ev.Key(), ev.Rune())
}

// LookupKey resolves a key code and rune, the rune is used only for tcell.KeyRune
func (kt *KeyTable) LookupKey(key tcell.Key, r rune) Intent {
	if key == tcell.KeyRune {
		return kt.Runes[unicode.ToLower(r)]
	}
	return kt.SpecialKeys[key]
}
