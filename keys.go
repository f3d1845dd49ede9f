package enquire

import (
	"strings"
	"unicode"
)

// Key is a decoded key event.
type Key struct {
	Name     string // Normalized key name ("return", "up", "a", ...)
	Sequence string // Raw bytes that produced the key
	Rune     rune   // Printable character, 0 for special keys
	Ctrl     bool
	Meta     bool
	Shift    bool
}

// ID returns the binding identifier used by KeyMap, e.g. "ctrl+c" or "shift+tab".
func (k Key) ID() string {
	var b strings.Builder
	if k.Ctrl {
		b.WriteString("ctrl+")
	}
	if k.Meta {
		b.WriteString("meta+")
	}
	if k.Shift {
		b.WriteString("shift+")
	}
	b.WriteString(k.Name)
	return b.String()
}

// Printable reports whether the key carries a character that can be typed.
func (k Key) Printable() bool {
	return k.Rune != 0 && !k.Ctrl && !k.Meta && unicode.IsPrint(k.Rune)
}

// escapeSequences maps CSI/SS3 sequences to key templates.
var escapeSequences = map[string]Key{
	"\x1b[A":    {Name: "up"},
	"\x1b[B":    {Name: "down"},
	"\x1b[C":    {Name: "right"},
	"\x1b[D":    {Name: "left"},
	"\x1b[H":    {Name: "home"},
	"\x1b[F":    {Name: "end"},
	"\x1bOA":    {Name: "up"},
	"\x1bOB":    {Name: "down"},
	"\x1bOC":    {Name: "right"},
	"\x1bOD":    {Name: "left"},
	"\x1bOH":    {Name: "home"},
	"\x1bOF":    {Name: "end"},
	"\x1b[1~":   {Name: "home"},
	"\x1b[2~":   {Name: "insert"},
	"\x1b[3~":   {Name: "delete"},
	"\x1b[4~":   {Name: "end"},
	"\x1b[5~":   {Name: "pageup"},
	"\x1b[6~":   {Name: "pagedown"},
	"\x1b[Z":    {Name: "tab", Shift: true},
	"\x1b[1;2A": {Name: "up", Shift: true},
	"\x1b[1;2B": {Name: "down", Shift: true},
	"\x1b[1;2C": {Name: "right", Shift: true},
	"\x1b[1;2D": {Name: "left", Shift: true},
	"\x1b[1;3A": {Name: "up", Meta: true},
	"\x1b[1;3B": {Name: "down", Meta: true},
	"\x1b[1;3C": {Name: "right", Meta: true},
	"\x1b[1;3D": {Name: "left", Meta: true},
	"\x1b[1;5A": {Name: "up", Ctrl: true},
	"\x1b[1;5B": {Name: "down", Ctrl: true},
	"\x1b[1;5C": {Name: "right", Ctrl: true},
	"\x1b[1;5D": {Name: "left", Ctrl: true},
	"\x1bOP":    {Name: "f1"},
	"\x1bOQ":    {Name: "f2"},
	"\x1bOR":    {Name: "f3"},
	"\x1bOS":    {Name: "f4"},
}

// Decode turns the raw bytes of one key press into a Key.
//
// Unknown escape sequences decode to a Key with an empty Name so they resolve
// to no action.
func Decode(raw string) Key {
	key := Key{Sequence: raw}
	if raw == "" {
		return key
	}

	if tmpl, ok := escapeSequences[raw]; ok {
		tmpl.Sequence = raw
		return tmpl
	}

	runes := []rune(raw)
	if len(runes) == 2 && runes[0] == '\x1b' {
		// ESC prefix is how terminals report Alt/Option
		inner := Decode(string(runes[1:]))
		inner.Sequence = raw
		inner.Meta = true
		return inner
	}
	if len(runes) != 1 {
		return key
	}

	r := runes[0]
	switch r {
	case '\r':
		key.Name = "return"
	case '\n':
		key.Name = "enter"
	case '\t':
		key.Name = "tab"
	case '\x7f', '\b':
		key.Name = "backspace"
	case '\x1b':
		key.Name = "escape"
	case ' ':
		key.Name = "space"
		key.Rune = r
	default:
		switch {
		case r >= 0x01 && r <= 0x1a:
			key.Ctrl = true
			key.Name = string('a' + r - 1)
		case unicode.IsUpper(r):
			key.Name = string(unicode.ToLower(r))
			key.Shift = true
			key.Rune = r
		case unicode.IsDigit(r):
			key.Name = "number"
			key.Rune = r
		default:
			key.Name = string(unicode.ToLower(r))
			key.Rune = r
		}
	}
	return key
}

// splitKeys splits a stream of runes into the raw sequences of individual
// key presses. A lone trailing ESC is reported as the escape key.
func splitKeys(input string) []string {
	runes := []rune(input)
	var keys []string
	for i := 0; i < len(runes); {
		n := sequenceLength(runes[i:])
		keys = append(keys, string(runes[i:i+n]))
		i += n
	}
	return keys
}

// sequenceLength returns how many runes at the start of rs form one key.
func sequenceLength(rs []rune) int {
	if len(rs) < 2 || rs[0] != '\x1b' {
		return 1
	}
	switch rs[1] {
	case '[':
		// CSI: parameters then a final byte in 0x40-0x7e
		for i := 2; i < len(rs) && i < 12; i++ {
			if rs[i] >= 0x40 && rs[i] <= 0x7e {
				return i + 1
			}
		}
		return len(rs)
	case 'O':
		if len(rs) >= 3 {
			return 3
		}
		return len(rs)
	case '\x1b':
		return 1
	default:
		return 2
	}
}

// ActionResolver maps a decoded key to a semantic action name.
// An empty result means the key has no action.
type ActionResolver interface {
	Resolve(key Key) string
}

// KeyMap holds the key binding configuration
type KeyMap struct {
	bindings map[string]string
}

// NewDefaultKeyMap creates the default key bindings.
//
// Default key bindings:
//   - Enter/Return: submit
//   - Ctrl+C, Escape: cancel
//   - Tab / Shift+Tab: tab / shiftTab
//   - Arrow keys: up, down, left, right
//   - Alt+Up / Alt+Down: altUp / altDown (answer history)
//   - Home/End, PageUp/PageDown: home, end, pageUp, pageDown
//   - Backspace: delete, Delete: deleteForward
//   - Ctrl+A / Ctrl+E: first / last
//   - Ctrl+G, Ctrl+L: reset
//
// Example:
//
//	keyMap := enquire.NewDefaultKeyMap()
//	// Submit with Ctrl+S as well
//	keyMap.Bind("ctrl+s", "submit")
func NewDefaultKeyMap() *KeyMap {
	km := &KeyMap{bindings: make(map[string]string)}

	km.bindings["return"] = "submit"
	km.bindings["enter"] = "submit"
	km.bindings["ctrl+c"] = "cancel"
	km.bindings["escape"] = "cancel"
	km.bindings["tab"] = "tab"
	km.bindings["shift+tab"] = "shiftTab"
	km.bindings["up"] = "up"
	km.bindings["down"] = "down"
	km.bindings["left"] = "left"
	km.bindings["right"] = "right"
	km.bindings["meta+up"] = "altUp"
	km.bindings["meta+down"] = "altDown"
	km.bindings["shift+up"] = "shiftUp"
	km.bindings["shift+down"] = "shiftDown"
	km.bindings["home"] = "home"
	km.bindings["end"] = "end"
	km.bindings["pageup"] = "pageUp"
	km.bindings["pagedown"] = "pageDown"
	km.bindings["backspace"] = "delete"
	km.bindings["delete"] = "deleteForward"
	km.bindings["space"] = "space"
	km.bindings["ctrl+a"] = "first"
	km.bindings["ctrl+e"] = "last"
	km.bindings["ctrl+g"] = "reset"
	km.bindings["ctrl+l"] = "reset"

	return km
}

// Bind adds or updates the action for a key identifier such as "ctrl+s".
func (km *KeyMap) Bind(id, action string) {
	km.bindings[id] = action
}

// Unbind removes the binding for a key identifier.
func (km *KeyMap) Unbind(id string) {
	delete(km.bindings, id)
}

// Resolve returns the action bound to key, or "" if the key is not bound.
func (km *KeyMap) Resolve(key Key) string {
	if km == nil || km.bindings == nil || key.Name == "" {
		return ""
	}
	return km.bindings[key.ID()]
}
