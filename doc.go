// Package enquire provides the runtime engine of interactive terminal prompts.
//
// A Prompt turns raw key presses into state transitions, redraws its frame
// after every transition and resolves to a final answer or a cancellation.
// The package does not ship concrete prompt types such as text inputs or
// select lists. Those are built by configuring the engine and overriding the
// handlers of individual actions.
//
// Key Features:
//
//   - Explicit lifecycle: pending, completing, answered, cancelled
//   - Ordered handler lookup: per-action override, built-in, catch-all
//   - Frames that always erase exactly what they drew before
//   - Typed notifications (state, run, submit, cancel, close)
//   - Context support for timeouts and cancellation
//   - Answer history with file persistence
//   - YAML questionnaires run with Ask
//
// Quick Start:
//
//	package main
//
//	import (
//		"fmt"
//		"log"
//
//		"github.com/nao1215/enquire"
//	)
//
//	func main() {
//		t, err := enquire.NewTerminal()
//		if err != nil {
//			log.Fatal(err)
//		}
//		defer t.Close()
//
//		p, err := enquire.New(t, t,
//			enquire.WithMessage("Pick one"),
//			enquire.WithChoices(
//				enquire.Choice{Name: "red"},
//				enquire.Choice{Name: "green"},
//				enquire.Choice{Name: "blue"},
//			),
//			enquire.WithHint("(tab to move, enter to pick)"),
//		)
//		if err != nil {
//			log.Fatal(err)
//		}
//		defer p.Close()
//
//		answer, err := p.Run()
//		if err != nil {
//			log.Fatal(err)
//		}
//		fmt.Printf("You picked: %v\n", answer)
//	}
//
// Actions and Handlers:
//
// Every key is decoded into a Key and resolved to an action name by the
// KeyMap. The handler for the action is looked up in this order:
//
//   - Config.Actions (WithAction): per-prompt overrides
//   - built-in handlers: submit, cancel, tab, shiftTab, reset, altUp, altDown
//   - Config.Dispatch (WithDispatch): catch-all, e.g. for typing
//
// A key without any handler rings the terminal bell. A handler that returns
// an error cancels the run with that error.
//
// Default Key Bindings:
//
//   - Enter: submit
//   - Ctrl+C: cancel with ErrInterrupted
//   - Escape: cancel with ErrCanceled
//   - Tab / Shift+Tab: focus next / previous entry
//   - Alt+Up / Alt+Down: recall previous / next answer
//   - Ctrl+G, Ctrl+L: reset
//
// Context Support:
//
//	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
//	defer cancel()
//
//	answer, err := p.RunWithContext(ctx)
//	if errors.Is(err, context.DeadlineExceeded) {
//		fmt.Println("Timeout reached")
//		return
//	}
//
// Error Handling:
//
//   - enquire.ErrInterrupted: User pressed Ctrl+C
//   - enquire.ErrCanceled: User pressed Escape
//   - context.DeadlineExceeded, context.Canceled: the context ended first
//   - enquire.ErrStatusReadOnly: SetStatus was called
//
// Thread Safety:
//
// Prompt instances are not thread-safe. Keys are read on the input's
// goroutine but handled one at a time on the goroutine that called Run.
// Cancel a running prompt from another goroutine through its context.
//
// Resource Management:
//
// Always call Close() when done with a prompt. It detaches the input and
// saves the answer history. The Terminal is shared by any number of prompts
// and closed separately.
package enquire
