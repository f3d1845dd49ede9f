package enquire

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// Run starts the prompt and returns the submitted value.
//
// This is a convenience method that calls RunWithContext with a background
// context.
func (p *Prompt) Run() (any, error) {
	return p.RunWithContext(context.Background())
}

// RunWithContext runs the prompt until it is answered or cancelled.
//
// It returns the submitted value, or the cancellation reason as the error:
// ErrInterrupted for Ctrl+C, ErrCanceled for Escape, ctx.Err() when the
// context ends first, ErrEOF when the input ends, or the wrapped error of a
// failing handler or input. Exactly one
// outcome is returned per run; a prompt runs only once.
//
// Example with timeout:
//
//	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
//	defer cancel()
//
//	answer, err := p.RunWithContext(ctx)
//	if errors.Is(err, context.DeadlineExceeded) {
//		fmt.Println("Timeout reached")
//		return
//	}
func (p *Prompt) RunWithContext(ctx context.Context) (any, error) {
	if p.running {
		return nil, ErrAlreadyRunning
	}
	if p.state.Closed || p.state.settled() {
		return nil, ErrPromptClosed
	}
	select {
	case <-p.done:
		return nil, ErrPromptClosed
	default:
	}
	p.running = true
	defer func() { p.running = false }()

	p.state.RunID = uuid.NewString()
	p.logger = p.logger.With("run", p.state.RunID)

	type outcome struct {
		value any
		err   error
	}
	settled := make(chan outcome, 1)
	var offSubmit, offCancel func()
	offSubmit = p.Once(EventSubmit, func(value any) {
		offCancel()
		settled <- outcome{value: value}
	})
	offCancel = p.Once(EventCancel, func(reason any) {
		offSubmit()
		err, _ := reason.(error)
		settled <- outcome{err: err}
	})
	defer offSubmit()
	defer offCancel()
	defer p.doneOnce.Do(func() { close(p.done) })

	if err := p.initialize(); err != nil {
		p.stopListening()
		return nil, fmt.Errorf("failed to initialize prompt: %w", err)
	}
	p.events.emit(EventRun, nil)
	if err := p.startListening(); err != nil {
		return nil, err
	}

	for {
		// A settled run wins over keys that are still queued
		select {
		case out := <-settled:
			return out.value, out.err
		default:
		}

		select {
		case out := <-settled:
			return out.value, out.err
		case <-ctx.Done():
			if err := p.Cancel(ctx.Err()); err != nil {
				p.logger.Debug("render failed while cancelling", "error", err)
			}
		case ev := <-p.keys:
			if ev.err != nil {
				if err := p.Cancel(fmt.Errorf("failed to read key: %w", ev.err)); err != nil {
					p.logger.Debug("render failed while cancelling", "error", err)
				}
				continue
			}
			if err := p.Keypress(ctx, ev.raw, ev.key); err != nil {
				if p.state.settled() {
					p.logger.Warn("handler failed after the prompt settled", "error", err)
					continue
				}
				if cerr := p.Cancel(err); cerr != nil {
					p.logger.Debug("render failed while cancelling", "error", cerr)
				}
			}
		}
	}
}

// initialize publishes the initial state, attaches the input and draws the
// first frame. Listening starts here so the first clear hides the cursor.
func (p *Prompt) initialize() error {
	p.events.emit(EventState, p.State())
	if err := p.startListening(); err != nil {
		return err
	}
	return p.Render()
}

// startListening attaches the input. It is a no-op when already listening or
// when the prompt is already answered or closed.
func (p *Prompt) startListening() error {
	if p.state.Listening || p.state.Answered || p.state.Closed {
		return nil
	}

	detach, err := p.input.Listen(p.enqueue, p.readFailed)
	if err != nil {
		return fmt.Errorf("failed to listen for input: %w", err)
	}
	p.state.Listening = true
	p.detach = func() {
		p.state.Listening = false
		detach()
	}
	return nil
}

func (p *Prompt) stopListening() {
	if p.detach == nil {
		return
	}
	detach := p.detach
	p.detach = nil
	detach()
}

// enqueue is the KeyListener handed to the input. It runs on the input's
// goroutine and only queues the key for the run loop.
func (p *Prompt) enqueue(raw string, key Key) {
	select {
	case p.keys <- keyEvent{raw: raw, key: key}:
	case <-p.done:
	}
}

// readFailed is the ErrorListener handed to the input. The error is queued
// behind the keys read before it, and io.EOF is reported as ErrEOF.
func (p *Prompt) readFailed(err error) {
	if errors.Is(err, io.EOF) {
		err = ErrEOF
	}
	select {
	case p.keys <- keyEvent{err: err}:
	case <-p.done:
	}
}

// Submit answers the prompt.
//
// A meaningful value (not nil and not "") replaces the working value; any
// other value keeps the current one, so an empty submit never erases an
// initial value. Submit emits the submit notification and closes the prompt.
// It is a no-op once the prompt is answered or cancelled.
func (p *Prompt) Submit(value any) error {
	if p.state.settled() {
		return nil
	}

	if isMeaningful(value) {
		p.state.Value = value
	}
	if p.config.Result != nil {
		p.state.Value = p.config.Result(p.state.Value)
	}
	p.state.Completing = false
	p.state.Error = ""
	p.state.Answered = true
	if s, ok := p.state.Value.(string); ok {
		p.history.Add(s)
	}
	p.logger.Debug("prompt answered", "value", p.state.Value)

	renderErr := p.Render()
	p.events.emit(EventSubmit, p.state.Value)
	return errors.Join(renderErr, p.close())
}

// Cancel aborts the prompt with reason (ErrCanceled when nil), emits the
// cancel notification and closes the prompt. It is a no-op once the prompt
// is answered or cancelled.
func (p *Prompt) Cancel(reason error) error {
	if p.state.settled() {
		return nil
	}
	if reason == nil {
		reason = ErrCanceled
	}

	p.state.Reason = reason
	p.state.Completing = false
	p.state.Cancelled = true
	p.logger.Debug("prompt cancelled", "reason", reason)

	renderErr := p.Render()
	p.events.emit(EventCancel, reason)
	return errors.Join(renderErr, p.close())
}

// close ends the session: it moves below the frame, shows the cursor again,
// emits the close notification and detaches the input. Only the first call
// while listening has any effect.
func (p *Prompt) close() error {
	if !p.state.Listening || p.state.Closed {
		return nil
	}
	p.state.Closed = true

	err := p.rawWrite("\r\n" + showCursor)
	p.state.Terminal = ""
	p.events.emit(EventClose, nil)
	p.stopListening()
	return err
}
