package enquire

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		raw    string
		wantID string
		rune   rune
	}{
		{name: "carriage return", raw: "\r", wantID: "return"},
		{name: "line feed", raw: "\n", wantID: "enter"},
		{name: "tab", raw: "\t", wantID: "tab"},
		{name: "shift tab", raw: "\x1b[Z", wantID: "shift+tab"},
		{name: "backspace", raw: "\x7f", wantID: "backspace"},
		{name: "ctrl-h backspace", raw: "\b", wantID: "backspace"},
		{name: "escape", raw: "\x1b", wantID: "escape"},
		{name: "space", raw: " ", wantID: "space", rune: ' '},
		{name: "ctrl+c", raw: "\x03", wantID: "ctrl+c"},
		{name: "ctrl+a", raw: "\x01", wantID: "ctrl+a"},
		{name: "letter", raw: "a", wantID: "a", rune: 'a'},
		{name: "uppercase letter", raw: "A", wantID: "shift+a", rune: 'A'},
		{name: "digit", raw: "7", wantID: "number", rune: '7'},
		{name: "unicode", raw: "é", wantID: "é", rune: 'é'},
		{name: "arrow up", raw: "\x1b[A", wantID: "up"},
		{name: "arrow down ss3", raw: "\x1bOB", wantID: "down"},
		{name: "alt up", raw: "\x1b[1;3A", wantID: "meta+up"},
		{name: "shift down", raw: "\x1b[1;2B", wantID: "shift+down"},
		{name: "ctrl right", raw: "\x1b[1;5C", wantID: "ctrl+right"},
		{name: "page down", raw: "\x1b[6~", wantID: "pagedown"},
		{name: "delete", raw: "\x1b[3~", wantID: "delete"},
		{name: "f1", raw: "\x1bOP", wantID: "f1"},
		{name: "meta letter", raw: "\x1bb", wantID: "meta+b", rune: 'b'},
		{name: "unknown sequence", raw: "\x1b[99;9~", wantID: ""},
		{name: "empty", raw: "", wantID: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			key := Decode(tt.raw)
			assert.Equal(t, tt.wantID, key.ID())
			assert.Equal(t, tt.raw, key.Sequence)
			assert.Equal(t, tt.rune, key.Rune)
		})
	}
}

func TestKeyPrintable(t *testing.T) {
	t.Parallel()

	assert.True(t, Decode("a").Printable())
	assert.True(t, Decode(" ").Printable())
	assert.True(t, Decode("Z").Printable())
	assert.False(t, Decode("\x03").Printable())
	assert.False(t, Decode("\x1ba").Printable())
	assert.False(t, Decode("\x1b[A").Printable())
}

func TestSplitKeys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "plain text", input: "ab", want: []string{"a", "b"}},
		{name: "csi sequence", input: "a\x1b[Ab", want: []string{"a", "\x1b[A", "b"}},
		{name: "modified csi", input: "\x1b[1;3A\r", want: []string{"\x1b[1;3A", "\r"}},
		{name: "ss3 sequence", input: "\x1bOPx", want: []string{"\x1bOP", "x"}},
		{name: "tilde sequence", input: "\x1b[3~", want: []string{"\x1b[3~"}},
		{name: "meta key", input: "\x1bb", want: []string{"\x1bb"}},
		{name: "lone escape", input: "\x1b", want: []string{"\x1b"}},
		{name: "double escape", input: "\x1b\x1b", want: []string{"\x1b", "\x1b"}},
		{name: "unicode", input: "日本", want: []string{"日", "本"}},
		{name: "empty", input: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, splitKeys(tt.input))
		})
	}
}

func TestKeyMapResolve(t *testing.T) {
	t.Parallel()

	km := NewDefaultKeyMap()

	tests := []struct {
		raw  string
		want string
	}{
		{raw: "\r", want: "submit"},
		{raw: "\n", want: "submit"},
		{raw: "\x03", want: "cancel"},
		{raw: "\x1b", want: "cancel"},
		{raw: "\t", want: "tab"},
		{raw: "\x1b[Z", want: "shiftTab"},
		{raw: "\x1b[1;3A", want: "altUp"},
		{raw: "\x1b[1;3B", want: "altDown"},
		{raw: "\x7f", want: "delete"},
		{raw: "\x1b[3~", want: "deleteForward"},
		{raw: "\x07", want: "reset"},
		{raw: "\x1b[5~", want: "pageUp"},
		{raw: "a", want: ""},
	}

	for _, tt := range tests {
		t.Run(Decode(tt.raw).ID(), func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, km.Resolve(Decode(tt.raw)))
		})
	}
}

func TestKeyMapBind(t *testing.T) {
	t.Parallel()

	km := NewDefaultKeyMap()
	km.Bind("ctrl+s", "submit")
	km.Unbind("escape")

	assert.Equal(t, "submit", km.Resolve(Decode("\x13")))
	assert.Empty(t, km.Resolve(Decode("\x1b")))

	var nilMap *KeyMap
	assert.Empty(t, nilMap.Resolve(Decode("\r")))
}
