package enquire

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var colorChoices = []Choice{
	{Name: "red"},
	{Name: "green"},
	{Name: "blue"},
}

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		options []Option
		check   func(t *testing.T, p *Prompt)
	}{
		{
			name:    "defaults",
			options: nil,
			check: func(t *testing.T, p *Prompt) {
				assert.True(t, p.config.Show)
				assert.Same(t, DefaultSymbols, p.Symbols())
				assert.NotNil(t, p.Styles())
				assert.NotNil(t, p.keyMap)
				assert.Equal(t, StatusPending, p.Status())
				assert.Nil(t, p.Value())
			},
		},
		{
			name:    "name doubles as message",
			options: []Option{WithName("color")},
			check: func(t *testing.T, p *Prompt) {
				assert.Equal(t, "color", p.Name())
				assert.Equal(t, "color", p.element(p.config.Message))
			},
		},
		{
			name:    "initial value becomes the working value",
			options: []Option{WithInitial("blue")},
			check: func(t *testing.T, p *Prompt) {
				assert.Equal(t, "blue", p.Initial())
				assert.Equal(t, "blue", p.Value())
			},
		},
		{
			name:    "initial value focuses the matching choice",
			options: []Option{WithChoices(colorChoices...), WithInitial("blue")},
			check: func(t *testing.T, p *Prompt) {
				c, ok := p.Choices().Focused()
				require.True(t, ok)
				assert.Equal(t, "blue", c.Name)
			},
		},
		{
			name:    "size override",
			options: []Option{WithSize(10, 40)},
			check: func(t *testing.T, p *Prompt) {
				assert.Equal(t, 10, p.Rows())
				assert.Equal(t, 40, p.Columns())
			},
		},
		{
			name:    "theme",
			options: []Option{WithTheme(ThemeDracula)},
			check: func(t *testing.T, p *Prompt) {
				assert.NotNil(t, p.Styles())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p, _ := newForTesting(t, "", tt.options...)
			tt.check(t, p)
		})
	}
}

func TestNewRequiresHandles(t *testing.T) {
	t.Parallel()

	m := newMockTerminal()

	_, err := New(nil, m)
	require.ErrorIs(t, err, ErrNoInput)

	_, err = New(m, nil)
	require.ErrorIs(t, err, ErrNoOutput)
}

func TestNewCopiesActions(t *testing.T) {
	t.Parallel()

	actions := map[string]Handler{
		"submit": func(context.Context, *Prompt, Key) error { return nil },
	}
	m := newMockTerminal()
	p, err := newFromConfig(m, m, Config{Show: true, Actions: actions})
	require.NoError(t, err)

	delete(actions, "submit")
	assert.Contains(t, p.config.Actions, "submit")
}

func TestRunPickOne(t *testing.T) {
	t.Parallel()

	p, m := newForTesting(t, "\t\r",
		WithMessage("Pick one"),
		WithChoices(colorChoices...),
		WithHint("(tab to move)"),
	)

	var events []string
	for _, ev := range []Event{EventState, EventRun, EventSubmit, EventCancel, EventClose} {
		p.On(ev, func(any) { events = append(events, ev.String()) })
	}
	var submitted any
	p.OnSubmit(func(value any) { submitted = value })

	answer, err := runForTesting(t, p)
	require.NoError(t, err)

	assert.Equal(t, "green", answer)
	assert.Equal(t, "green", submitted)
	assert.Equal(t, []string{"state", "run", "submit", "close"}, events)

	state := p.State()
	assert.True(t, state.Answered)
	assert.True(t, state.Closed)
	assert.False(t, state.Listening)
	assert.False(t, state.Cancelled)
	assert.Empty(t, state.Terminal)
	assert.NotEmpty(t, state.RunID)
	assert.Equal(t, StatusAnswered, p.Status())

	out := m.String()
	assert.True(t, strings.HasPrefix(out, hideCursor), "first clear should only hide the cursor")
	assert.True(t, strings.HasSuffix(out, "\r\n"+showCursor), "close should restore the cursor")

	plain := ansi.Strip(out)
	assert.Contains(t, plain, "? Pick one › (tab to move)")
	assert.Contains(t, plain, "✔ Pick one · green")
	assert.False(t, m.isAttached())
}

func TestRunCancel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		reason error
	}{
		{name: "ctrl+c interrupts", input: "\x03a", reason: ErrInterrupted},
		{name: "escape cancels", input: "\x1b", reason: ErrCanceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dispatched := 0
			p, m := newForTesting(t, tt.input,
				WithMessage("Pick one"),
				WithDispatch(func(context.Context, *Prompt, Key) error {
					dispatched++
					return nil
				}),
			)

			var events []string
			p.OnCancel(func(reason error) {
				assert.ErrorIs(t, reason, tt.reason)
				events = append(events, "cancel")
			})
			p.OnClose(func() { events = append(events, "close") })
			p.OnSubmit(func(any) { events = append(events, "submit") })

			answer, err := runForTesting(t, p)
			require.ErrorIs(t, err, tt.reason)
			assert.Nil(t, answer)
			assert.Equal(t, []string{"cancel", "close"}, events)
			assert.Equal(t, StatusCancelled, p.Status())
			assert.ErrorIs(t, p.State().Reason, tt.reason)
			assert.Contains(t, ansi.Strip(m.String()), "✖ Pick one")

			// Keys after the prompt closed are not dispatched
			require.NoError(t, p.Keypress(context.Background(), "a", Key{}))
			assert.Zero(t, dispatched)
		})
	}
}

func TestRunContextCancellation(t *testing.T) {
	t.Parallel()

	p, _ := newForTesting(t, "", WithMessage("Wait"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cancelled := 0
	p.OnCancel(func(error) { cancelled++ })

	_, err := p.RunWithContext(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, cancelled)
	assert.True(t, p.State().Closed)
}

func TestRunContextTimeout(t *testing.T) {
	t.Parallel()

	p, _ := newForTesting(t, "", WithMessage("Wait"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := p.RunWithContext(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRunHandlerError(t *testing.T) {
	t.Parallel()

	errBoom := errors.New("boom")
	p, _ := newForTesting(t, "\r",
		WithAction("submit", func(context.Context, *Prompt, Key) error {
			return errBoom
		}),
	)

	_, err := runForTesting(t, p)
	require.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), `action "submit"`)
	assert.Equal(t, StatusCancelled, p.Status())
}

func TestRunTwice(t *testing.T) {
	t.Parallel()

	p, _ := newForTesting(t, "\r", WithInitial("x"))

	_, err := runForTesting(t, p)
	require.NoError(t, err)

	_, err = runForTesting(t, p)
	require.ErrorIs(t, err, ErrPromptClosed)
}

func TestRunAfterClose(t *testing.T) {
	t.Parallel()

	p, m := newForTesting(t, "\r", WithInitial("x"))
	require.NoError(t, p.Close())

	_, err := runForTesting(t, p)
	require.ErrorIs(t, err, ErrPromptClosed)
	assert.Zero(t, m.listens)
}

func TestRunInputFailure(t *testing.T) {
	t.Parallel()

	errGone := errors.New("tty gone")
	tests := []struct {
		name    string
		readErr error
		want    error
	}{
		{name: "end of file", readErr: io.EOF, want: ErrEOF},
		{name: "read error", readErr: errGone, want: errGone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p, m := newForTesting(t, "ab", TextInput()...)
			m.readErr = tt.readErr

			_, err := runForTesting(t, p)
			require.ErrorIs(t, err, tt.want)
			assert.Contains(t, err.Error(), "failed to read key")
			assert.Equal(t, "ab", p.Input(), "keys read before the error are handled first")
			assert.Equal(t, StatusCancelled, p.Status())
			assert.False(t, m.isAttached())
		})
	}
}

func TestRunHandlersAreSerialized(t *testing.T) {
	t.Parallel()

	var (
		calls  []string
		queued int
	)
	p, _ := newForTesting(t, "\x1b[A\x1b[B\r",
		WithInitial("x"),
		WithAction("up", func(_ context.Context, p *Prompt, _ Key) error {
			calls = append(calls, "up start")
			time.Sleep(50 * time.Millisecond)
			queued = len(p.keys)
			calls = append(calls, "up end")
			return nil
		}),
		WithAction("down", func(context.Context, *Prompt, Key) error {
			calls = append(calls, "down start")
			return nil
		}),
	)

	value, err := runForTesting(t, p)
	require.NoError(t, err)
	assert.Equal(t, "x", value)
	assert.Equal(t, []string{"up start", "up end", "down start"}, calls)
	assert.Positive(t, queued, "the next key waits in the queue while a handler runs")
}

func TestRunTextInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		options []Option
		want    any
	}{
		{
			name:  "typed text",
			input: "ab\x7fc\r",
			want:  "ac",
		},
		{
			name:  "spaces are typed",
			input: "a b\r",
			want:  "a b",
		},
		{
			name:    "empty submit keeps the initial value",
			input:   "\r",
			options: []Option{WithInitial("blue")},
			want:    "blue",
		},
		{
			name:    "typed text replaces the initial value",
			input:   "bl\r",
			options: []Option{WithInitial("blue")},
			want:    "bl",
		},
		{
			name:    "result transform",
			input:   "hi\r",
			options: []Option{WithResult(func(v any) any { return strings.ToUpper(v.(string)) })},
			want:    "HI",
		},
		{
			name:    "reset clears the typed text",
			input:   "abc\x07\r",
			options: []Option{WithInitial("blue")},
			want:    "blue",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			options := append(TextInput(), tt.options...)
			p, _ := newForTesting(t, tt.input, options...)

			answer, err := runForTesting(t, p)
			require.NoError(t, err)
			assert.Equal(t, tt.want, answer)
		})
	}
}

func TestRunValidate(t *testing.T) {
	t.Parallel()

	var p *Prompt
	calls := 0
	validate := func(_ context.Context, value any) error {
		calls++
		assert.Equal(t, StatusCompleting, p.Status())
		assert.Contains(t, ansi.Strip(p.State().Terminal), "…")
		if !isMeaningful(value) {
			return ErrRequired
		}
		return nil
	}

	p, m := newForTesting(t, "\rok\r", append(TextInput(), WithValidate(validate))...)

	answer, err := runForTesting(t, p)
	require.NoError(t, err)
	assert.Equal(t, "ok", answer)
	assert.Equal(t, 2, calls)
	assert.Contains(t, ansi.Strip(m.String()), ErrRequired.Error())
	assert.Empty(t, p.State().Error)
}

func TestRunHistoryRecall(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "answers")
	require.NoError(t, os.WriteFile(file, []byte("first\nsecond\n"), 0600))

	// meta+up twice, meta+down once
	p, _ := newForTesting(t, "\x1b[1;3A\x1b[1;3A\x1b[1;3B\r", WithFileHistory(file, 10))

	answer, err := runForTesting(t, p)
	require.NoError(t, err)
	assert.Equal(t, "second", answer)
	require.NoError(t, p.Close())

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", string(data))
}

func TestRunShowDisabled(t *testing.T) {
	t.Parallel()

	p, m := newForTesting(t, "\t\r", WithShow(false), WithChoices(colorChoices...))

	answer, err := runForTesting(t, p)
	require.NoError(t, err)
	assert.Equal(t, "green", answer)
	assert.Empty(t, m.String())
	assert.False(t, p.State().Rendered)
}

func TestSubmit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		initial any
		value   any
		want    any
	}{
		{name: "meaningful value", initial: "blue", value: "red", want: "red"},
		{name: "nil keeps the prior value", initial: "blue", value: nil, want: "blue"},
		{name: "empty string keeps the prior value", initial: "blue", value: "", want: "blue"},
		{name: "zero number is meaningful", initial: 5, value: 0, want: 0},
		{name: "nothing to keep", initial: nil, value: nil, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p, _ := newForTesting(t, "", WithInitial(tt.initial))
			require.NoError(t, p.startListening())

			var got []any
			p.OnSubmit(func(v any) { got = append(got, v) })

			require.NoError(t, p.Submit(tt.value))
			assert.Equal(t, tt.want, p.Value())
			assert.Equal(t, []any{tt.want}, got)
		})
	}
}

func TestSubmitAndCancelAreOneShot(t *testing.T) {
	t.Parallel()

	p, m := newForTesting(t, "")
	require.NoError(t, p.startListening())

	counts := map[Event]int{}
	for _, ev := range []Event{EventSubmit, EventCancel, EventClose} {
		p.On(ev, func(any) { counts[ev]++ })
	}

	require.NoError(t, p.Submit("first"))
	require.NoError(t, p.Submit("second"))
	require.NoError(t, p.Cancel(nil))
	require.NoError(t, p.close())

	assert.Equal(t, "first", p.Value())
	assert.Equal(t, 1, counts[EventSubmit])
	assert.Equal(t, 0, counts[EventCancel])
	assert.Equal(t, 1, counts[EventClose])
	assert.Equal(t, StatusAnswered, p.Status())
	assert.Equal(t, 1, strings.Count(m.String(), showCursor))
}

func TestCancelDefaultReason(t *testing.T) {
	t.Parallel()

	p, _ := newForTesting(t, "")
	require.NoError(t, p.startListening())

	var reason error
	p.OnCancel(func(err error) { reason = err })

	require.NoError(t, p.Cancel(nil))
	assert.ErrorIs(t, reason, ErrCanceled)
	assert.True(t, p.State().Closed)
}

func TestSubmitAndCancelWithoutListeners(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		settle func(p *Prompt) error
		want   Status
	}{
		{name: "submit", settle: func(p *Prompt) error { return p.Submit("red") }, want: StatusAnswered},
		{name: "cancel", settle: func(p *Prompt) error { return p.Cancel(nil) }, want: StatusCancelled},
		{
			name: "enter key",
			settle: func(p *Prompt) error {
				return p.Keypress(context.Background(), "\r", Key{})
			},
			want: StatusAnswered,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p, _ := newForTesting(t, "", WithChoices(Choice{Name: "red"}))
			require.NotPanics(t, func() {
				require.NoError(t, tt.settle(p))
			})
			assert.Equal(t, tt.want, p.Status())
		})
	}
}

func TestCloseWithoutListening(t *testing.T) {
	t.Parallel()

	p, m := newForTesting(t, "")

	closed := 0
	p.OnClose(func() { closed++ })

	require.NoError(t, p.close())
	assert.Zero(t, closed)
	assert.False(t, p.State().Closed)
	assert.Empty(t, m.String())
}

func TestStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		state State
		want  Status
	}{
		{name: "pending", state: State{}, want: StatusPending},
		{name: "completing", state: State{Completing: true}, want: StatusCompleting},
		{name: "answered", state: State{Answered: true}, want: StatusAnswered},
		{name: "cancelled", state: State{Cancelled: true}, want: StatusCancelled},
		{name: "cancelled wins over completing", state: State{Cancelled: true, Completing: true}, want: StatusCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tt.state.status())
		})
	}
}

func TestSetStatusIsReadOnly(t *testing.T) {
	t.Parallel()

	p, _ := newForTesting(t, "")
	before := p.State()

	err := p.SetStatus(StatusAnswered)
	require.ErrorIs(t, err, ErrStatusReadOnly)
	assert.Equal(t, before, p.State())
	assert.Equal(t, StatusPending, p.Status())
}

func TestStateIsACopy(t *testing.T) {
	t.Parallel()

	p, _ := newForTesting(t, "")
	s := p.State()
	s.Answered = true
	s.Value = "changed"

	assert.Equal(t, StatusPending, p.Status())
	assert.Nil(t, p.Value())
}

func TestPromptClose(t *testing.T) {
	t.Parallel()

	p, m := newForTesting(t, "")
	require.NoError(t, p.startListening())
	assert.True(t, m.isAttached())

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	assert.False(t, m.isAttached())
	assert.False(t, p.State().Listening)
}

// newForTesting creates a prompt wired to a scripted mock terminal.
func newForTesting(t *testing.T, input string, options ...Option) (*Prompt, *mockTerminal) {
	t.Helper()

	m := newMockTerminal(input)
	p, err := New(m, m, options...)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = p.Close()
	})
	return p, m
}

// runForTesting runs p with a deadline so a script that never settles the
// prompt fails the test instead of hanging it.
func runForTesting(t *testing.T, p *Prompt) (any, error) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return p.RunWithContext(ctx)
}
