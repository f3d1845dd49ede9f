package enquire

import (
	"bytes"
	"sync"
)

// mockTerminal implements Input, io.Writer and Sizer for testing.
//
// It replays pre-configured key scripts from its own goroutine, the same way
// Terminal delivers keys, and records everything written to it. Every Listen
// call consumes the next script, so a sequence of prompts sharing one mock
// gets one script each.
//
// Features:
//   - Deterministic input: scripts are split into key presses up front
//   - Configurable size: fixed dimensions for consistent layout testing
//   - Attach tracking: counts Listen and detach calls for verification
//   - Read failures: readErr is reported after the keys of each script
type mockTerminal struct {
	mu           sync.Mutex
	scripts      [][]string   // Raw key presses per Listen call
	output       bytes.Buffer // Everything written by the prompt
	terminalSize [2]int       // Fixed terminal dimensions [width, height]
	readErr      error        // Reported once a script is exhausted, when set
	listens      int
	detaches     int
	attached     bool
}

func newMockTerminal(inputs ...string) *mockTerminal {
	m := &mockTerminal{terminalSize: [2]int{80, 24}}
	for _, input := range inputs {
		m.scripts = append(m.scripts, splitKeys(input))
	}
	return m
}

func (m *mockTerminal) Listen(fn KeyListener, fail ErrorListener) (func(), error) {
	m.mu.Lock()
	m.listens++
	m.attached = true
	var keys []string
	if len(m.scripts) > 0 {
		keys = m.scripts[0]
		m.scripts = m.scripts[1:]
	}
	readErr := m.readErr
	m.mu.Unlock()

	stop := make(chan struct{})
	go func() {
		for _, raw := range keys {
			select {
			case <-stop:
				return
			default:
			}
			fn(raw, Key{})
		}
		if readErr != nil {
			select {
			case <-stop:
			default:
				fail(readErr)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			m.mu.Lock()
			m.detaches++
			m.attached = false
			m.mu.Unlock()
		})
	}, nil
}

func (m *mockTerminal) Write(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.output.Write(p)
}

func (m *mockTerminal) Size() (width, height int, err error) {
	return m.terminalSize[0], m.terminalSize[1], nil
}

// String returns everything written so far.
func (m *mockTerminal) String() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.output.String()
}

// reset discards the recorded output.
func (m *mockTerminal) reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.output.Reset()
}

func (m *mockTerminal) isAttached() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.attached
}
