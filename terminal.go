package enquire

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-tty"
	"golang.org/x/term"
)

// KeyListener receives the raw bytes of every key press. Inputs that decode
// keys themselves pass the decoded Key; the zero Key makes the prompt decode
// raw with its configured decoder.
type KeyListener func(raw string, key Key)

// ErrorListener receives the error that stopped an input from reading keys.
// No key is delivered after it.
type ErrorListener func(err error)

// Input is a source of key presses.
//
// Listen attaches fn and fail and returns a function that detaches them.
// Calling the detach function more than once must be safe.
type Input interface {
	Listen(fn KeyListener, fail ErrorListener) (detach func(), err error)
}

// Sizer is implemented by outputs that know the terminal dimensions.
type Sizer interface {
	Size() (width, height int, err error)
}

// Terminal is the platform default Input and output.
//
// It reads keys through go-tty, switches stdin to raw mode with
// golang.org/x/term while listening, and writes through go-colorable so ANSI
// sequences work on Windows consoles. When stdout is not a terminal the
// escape sequences are stripped.
//
// Terminal is meant to be created by the caller and handed to New:
//
//	t, err := enquire.NewTerminal()
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer t.Close()
//
//	p, err := enquire.New(t, t, enquire.WithMessage("Name"))
type Terminal struct {
	tty           *tty.TTY    // TTY handle from go-tty for cross-platform terminal operations
	output        io.Writer   // Color-capable output writer
	stdinFd       int         // File descriptor for stdin for raw mode management
	originalState *term.State // Terminal state to restore when detaching

	mu         sync.Mutex
	listener   KeyListener   // Current receiver of key presses, nil when detached
	fail       ErrorListener // Current receiver of read errors, nil when detached
	generation int         // Incremented by every Listen call
	reading    bool        // True while the reader goroutine runs
	closed     bool        // Prevents double-close panic on Windows
}

// NewTerminal opens the controlling terminal.
func NewTerminal() (*Terminal, error) {
	t, err := tty.Open()
	if err != nil {
		return nil, err
	}

	var output io.Writer = os.Stdout
	switch {
	case !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()):
		// Piped output: keep the text, drop cursor and color sequences
		output = colorable.NewNonColorable(os.Stdout)
	case runtime.GOOS == "windows":
		output = colorable.NewColorableStdout()
	}

	return &Terminal{
		tty:     t,
		output:  output,
		stdinFd: int(os.Stdin.Fd()),
	}, nil
}

// Write writes p to the terminal output.
func (t *Terminal) Write(p []byte) (int, error) {
	return t.output.Write(p)
}

// Size returns the terminal dimensions, falling back to 80x25.
func (t *Terminal) Size() (width, height int, err error) {
	w, h, err := t.tty.Size()
	if err != nil || w <= 0 || h <= 0 {
		if tw, th, terr := term.GetSize(t.stdinFd); terr == nil && tw > 0 && th > 0 {
			return tw, th, nil
		}
		return defaultColumns, defaultRows, err
	}
	return w, h, nil
}

// Listen switches the terminal to raw mode and delivers every key press to fn
// until the returned function is called. Keys are read by a single background
// goroutine shared by successive listeners; keys arriving while nobody
// listens are dropped. A read error ends the goroutine and goes to fail.
func (t *Terminal) Listen(fn KeyListener, fail ErrorListener) (func(), error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil, ErrTerminalClosed
	}
	if err := t.setRaw(); err != nil {
		return nil, err
	}

	t.listener = fn
	t.fail = fail
	t.generation++
	gen := t.generation
	if !t.reading {
		t.reading = true
		go t.readKeys()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			defer t.mu.Unlock()
			if t.generation == gen {
				t.listener = nil
				t.fail = nil
			}
			if err := t.restore(); err != nil {
				// Log warning but keep detaching
				fmt.Fprintf(os.Stderr, "Warning: failed to restore terminal state: %v\n", err)
			}
		})
	}, nil
}

func (t *Terminal) readKeys() {
	defer func() {
		t.mu.Lock()
		t.reading = false
		t.mu.Unlock()
	}()

	for {
		r, err := t.tty.ReadRune()
		if err != nil {
			t.readFailed(err)
			return
		}
		seq := []rune{r}
		if r == '\x1b' {
			// Gather the rest of an escape sequence that is already buffered;
			// a lone ESC is the escape key.
			for t.tty.Buffered() && len(seq) < 12 && !sequenceComplete(seq) {
				next, err := t.tty.ReadRune()
				if err != nil {
					t.readFailed(err)
					return
				}
				seq = append(seq, next)
			}
		}

		t.mu.Lock()
		fn, closed := t.listener, t.closed
		t.mu.Unlock()
		if closed {
			return
		}
		if fn != nil {
			// Decoding is left to the prompt so its configured decoder applies
			fn(string(seq), Key{})
		}
	}
}

// readFailed reports err to the current listener unless the terminal was
// closed, which is what made the read fail.
func (t *Terminal) readFailed(err error) {
	t.mu.Lock()
	fail, closed := t.fail, t.closed
	t.mu.Unlock()
	if fail != nil && !closed {
		fail(err)
	}
}

// sequenceComplete reports whether seq, starting with ESC, is a full key.
func sequenceComplete(seq []rune) bool {
	if len(seq) < 2 {
		return false
	}
	switch seq[1] {
	case '[':
		last := seq[len(seq)-1]
		return len(seq) > 2 && last >= 0x40 && last <= 0x7e
	case 'O':
		return len(seq) >= 3
	default:
		return true
	}
}

func (t *Terminal) setRaw() error {
	// Always capture current terminal state before entering raw mode
	if term.IsTerminal(t.stdinFd) {
		state, err := term.GetState(t.stdinFd)
		if err != nil {
			return err
		}
		t.originalState = state

		if _, err := term.MakeRaw(t.stdinFd); err != nil {
			return err
		}
	}
	return nil
}

func (t *Terminal) restore() error {
	if t.originalState != nil && term.IsTerminal(t.stdinFd) {
		err := term.Restore(t.stdinFd, t.originalState)
		// Reset the state so that setRaw can capture a fresh baseline next time
		t.originalState = nil
		return err
	}
	return nil
}

// Close restores the terminal and releases the TTY. It is safe to call Close
// multiple times.
func (t *Terminal) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	// Prevent double-close which causes panic on Windows
	if t.closed {
		return nil
	}
	t.closed = true
	t.listener = nil
	t.fail = nil
	restoreErr := t.restore()
	if t.tty != nil {
		if err := t.tty.Close(); err != nil {
			return err
		}
	}
	return restoreErr
}
