package enquire

import (
	"context"
	"errors"
	"fmt"
)

// builtinHandlers are the actions every prompt understands. Config.Actions
// entries with the same name take precedence.
var builtinHandlers = map[string]Handler{
	"submit":   submitHandler,
	"cancel":   cancelHandler,
	"tab":      nextChoiceHandler,
	"shiftTab": prevChoiceHandler,
	"reset":    resetHandler,
	"altUp":    historyPrevHandler,
	"altDown":  historyNextHandler,
}

// Keypress handles one key press.
//
// The key is decoded from raw when key is the zero value, resolved to an
// action, and handed to the first handler found in this order: the
// Config.Actions override, the built-in handler, the Config.Dispatch
// catch-all. Without any handler the terminal bell rings and nothing else
// changes. The frame is redrawn after the handler returns, unless the prompt
// closed meanwhile. Keys arriving once the prompt is answered, cancelled or
// closed are ignored.
func (p *Prompt) Keypress(ctx context.Context, raw string, key Key) error {
	if p.state.Closed || p.state.settled() {
		return nil
	}
	if key == (Key{}) {
		key = p.decode(raw)
	}
	if key.Sequence == "" {
		key.Sequence = raw
	}

	action := p.keyMap.Resolve(key)
	handler, source := p.lookup(action)
	if handler == nil {
		p.logger.Debug("unhandled key", "key", key.ID(), "action", action)
		return p.Alert()
	}

	p.logger.Debug("dispatch", "key", key.ID(), "action", action, "handler", source)
	if err := handler(ctx, p, key); err != nil {
		if action == "" {
			action = source
		}
		return fmt.Errorf("action %q failed: %w", action, err)
	}

	if p.state.Listening && !p.state.Closed {
		return p.Render()
	}
	return nil
}

// lookup finds the handler for action and names where it came from.
func (p *Prompt) lookup(action string) (Handler, string) {
	if action != "" {
		if h := p.config.Actions[action]; h != nil {
			return h, "override"
		}
		if h := builtinHandlers[action]; h != nil {
			return h, "builtin"
		}
	}
	if p.config.Dispatch != nil {
		return p.config.Dispatch, "dispatch"
	}
	return nil, ""
}

// Alert rings the terminal bell. It signals input that has no effect.
func (p *Prompt) Alert() error {
	return p.rawWrite(p.symbols.Bell)
}

// submitHandler validates the pending value and submits it.
func submitHandler(ctx context.Context, p *Prompt, _ Key) error {
	value := p.pendingValue()
	if p.config.Validate == nil {
		return p.Submit(value)
	}

	candidate := value
	if !isMeaningful(candidate) {
		candidate = p.state.Value
	}

	p.state.Completing = true
	p.state.Error = ""
	if err := p.Render(); err != nil {
		p.state.Completing = false
		return err
	}
	err := p.config.Validate(ctx, candidate)
	p.state.Completing = false
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return err
		}
		p.state.Error = err.Error()
		return nil
	}
	return p.Submit(value)
}

// pendingValue is what the submit action answers with: the focused entry,
// else the typed text, else nothing so the current value is kept.
func (p *Prompt) pendingValue() any {
	if c, ok := p.choices.Focused(); ok {
		return c.Result()
	}
	if p.state.Input != "" {
		return p.state.Input
	}
	return nil
}

func cancelHandler(_ context.Context, p *Prompt, key Key) error {
	if key.Ctrl && key.Name == "c" {
		return p.Cancel(ErrInterrupted)
	}
	return p.Cancel(ErrCanceled)
}

func nextChoiceHandler(_ context.Context, p *Prompt, _ Key) error {
	if !p.choices.Next() {
		return p.Alert()
	}
	return nil
}

func prevChoiceHandler(_ context.Context, p *Prompt, _ Key) error {
	if !p.choices.Prev() {
		return p.Alert()
	}
	return nil
}

// resetHandler restores the typed text, value, error and entries to their
// initial state.
func resetHandler(_ context.Context, p *Prompt, _ Key) error {
	p.state.Input = ""
	p.state.Value = p.config.Initial
	p.state.Error = ""
	p.choices.Reset()
	p.focusInitial()
	p.historyIndex = p.history.Len()
	return nil
}

// historyPrevHandler recalls the previous answer into the typed text.
func historyPrevHandler(_ context.Context, p *Prompt, _ Key) error {
	entries := p.history.Entries()
	if p.historyIndex > len(entries) {
		p.historyIndex = len(entries)
	}
	if p.historyIndex == 0 {
		return p.Alert()
	}
	p.historyIndex--
	p.state.Input = entries[p.historyIndex]
	return nil
}

// historyNextHandler moves forward through the answers; past the newest one
// the typed text is cleared.
func historyNextHandler(_ context.Context, p *Prompt, _ Key) error {
	entries := p.history.Entries()
	if p.historyIndex >= len(entries) {
		return p.Alert()
	}
	p.historyIndex++
	if p.historyIndex == len(entries) {
		p.state.Input = ""
		return nil
	}
	p.state.Input = entries[p.historyIndex]
	return nil
}
