package enquire

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"sync"
)

// Common errors
var (
	// ErrCanceled is the default cancellation reason
	ErrCanceled = errors.New("canceled")
	// ErrInterrupted is the cancellation reason when the user presses Ctrl+C
	ErrInterrupted = errors.New("interrupted")
	// ErrEOF is the cancellation reason when the input reaches end of file
	ErrEOF = errors.New("EOF")
	// ErrStatusReadOnly is returned by SetStatus; the status is derived from the state
	ErrStatusReadOnly = errors.New("status is read-only")
	// ErrNoInput is returned by New when no input source is given
	ErrNoInput = errors.New("no input source")
	// ErrNoOutput is returned by New when no output is given
	ErrNoOutput = errors.New("no output")
	// ErrAlreadyRunning is returned when Run is called while a run is active
	ErrAlreadyRunning = errors.New("prompt is already running")
	// ErrPromptClosed is returned when Run is called on a settled or closed prompt
	ErrPromptClosed = errors.New("prompt is closed")
	// ErrTerminalClosed is returned by Terminal.Listen after Close
	ErrTerminalClosed = errors.New("terminal is closed")
)

const (
	defaultColumns = 80
	defaultRows    = 25
	keyQueueSize   = 32
)

// Element produces a piece of the frame. It is evaluated on every render.
type Element func(p *Prompt) string

// Literal returns an Element that always renders s.
func Literal(s string) Element {
	return func(*Prompt) string { return s }
}

// Handler runs for a resolved action.
//
// Handlers run on the run loop one at a time; a handler that blocks delays
// the next key. Returning an error cancels the run with that error.
type Handler func(ctx context.Context, p *Prompt, key Key) error

// Config holds the configuration for a prompt.
type Config struct {
	Name      string                                    // Answer key, also the message when Message is nil
	Message   Element                                   // Question text
	Initial   any                                       // Initial value
	Header    Element                                   // Line above the question
	Footer    Element                                   // Line below the question
	Hint      Element                                   // Shown while nothing is typed and no initial value is set
	Help      string                                    // Shown instead of the hint
	Prefix    Element                                   // Overrides the status glyph
	Separator Element                                   // Overrides the separator glyph
	Body      Element                                   // Renders the choice list between question and footer
	Format    func(p *Prompt) string                    // Overrides how the value is displayed
	Validate  func(ctx context.Context, value any) error // Runs before answering; an error keeps the prompt open
	Result    func(value any) any                       // Transforms the value before it is submitted
	Theme     *Theme                                    // Colors, used when Styles is nil
	Styles    *Styles                                   // Formatting (nil for Theme)
	Symbols   *Symbols                                  // Glyphs (nil for DefaultSymbols)
	Show      bool                                      // False suppresses all output
	Rows      int                                       // Row count override
	Cols      int                                       // Column count override
	Limit     int                                       // Selection limit; the footer hides when this many entries are visible
	Choices   []Choice                                  // Seed list of selectable entries
	Actions   map[string]Handler                        // Per-action overrides, shadowing built-ins
	Dispatch  Handler                                   // Catch-all for keys without a handler
	KeyMap    ActionResolver                            // Key to action mapping (nil for default)
	Decoder   func(raw string) Key                      // Key decoder (nil for Decode)
	History   *HistoryConfig                            // Answer history (nil for memory-only)
	Logger    *slog.Logger                              // Debug logger (nil discards)
}

// Option represents a configuration option for prompt
type Option func(*Config)

// WithName sets the prompt name.
func WithName(name string) Option {
	return func(c *Config) {
		c.Name = name
	}
}

// WithMessage sets a literal question text.
func WithMessage(message string) Option {
	return func(c *Config) {
		c.Message = Literal(message)
	}
}

// WithMessageFunc sets a question text computed on every render.
func WithMessageFunc(message Element) Option {
	return func(c *Config) {
		c.Message = message
	}
}

// WithInitial sets the initial value.
func WithInitial(initial any) Option {
	return func(c *Config) {
		c.Initial = initial
	}
}

// WithHeader sets the line rendered above the question.
func WithHeader(header Element) Option {
	return func(c *Config) {
		c.Header = header
	}
}

// WithFooter sets the line rendered below the question.
func WithFooter(footer Element) Option {
	return func(c *Config) {
		c.Footer = footer
	}
}

// WithHint sets a static hint.
func WithHint(hint string) Option {
	return func(c *Config) {
		c.Hint = Literal(hint)
	}
}

// WithHintFunc sets a hint computed on every render.
func WithHintFunc(hint Element) Option {
	return func(c *Config) {
		c.Hint = hint
	}
}

// WithHelp sets a help text that takes precedence over the hint.
func WithHelp(help string) Option {
	return func(c *Config) {
		c.Help = help
	}
}

// WithPrefix overrides the status glyph.
func WithPrefix(prefix Element) Option {
	return func(c *Config) {
		c.Prefix = prefix
	}
}

// WithSeparator overrides the separator glyph.
func WithSeparator(separator Element) Option {
	return func(c *Config) {
		c.Separator = separator
	}
}

// WithBody sets the renderer of the choice list.
func WithBody(body Element) Option {
	return func(c *Config) {
		c.Body = body
	}
}

// WithFormat overrides how the current value is displayed.
func WithFormat(format func(p *Prompt) string) Option {
	return func(c *Config) {
		c.Format = format
	}
}

// WithValidate sets the validation run by the submit action.
//
// Example:
//
//	enquire.WithValidate(func(_ context.Context, v any) error {
//		if s, _ := v.(string); s == "" {
//			return errors.New("a name is required")
//		}
//		return nil
//	})
func WithValidate(validate func(ctx context.Context, value any) error) Option {
	return func(c *Config) {
		c.Validate = validate
	}
}

// WithResult sets a transform applied to the value before it is submitted.
func WithResult(result func(value any) any) Option {
	return func(c *Config) {
		c.Result = result
	}
}

// WithTheme sets the color theme.
func WithTheme(theme *Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithStyles sets the formatting styles directly.
func WithStyles(styles *Styles) Option {
	return func(c *Config) {
		c.Styles = styles
	}
}

// WithSymbols sets the status glyphs.
func WithSymbols(symbols *Symbols) Option {
	return func(c *Config) {
		c.Symbols = symbols
	}
}

// WithShow enables or disables all output.
func WithShow(show bool) Option {
	return func(c *Config) {
		c.Show = show
	}
}

// WithSize overrides the terminal dimensions used for layout.
func WithSize(rows, cols int) Option {
	return func(c *Config) {
		c.Rows = rows
		c.Cols = cols
	}
}

// WithLimit sets the selection limit.
func WithLimit(limit int) Option {
	return func(c *Config) {
		c.Limit = limit
	}
}

// WithChoices sets the selectable entries.
func WithChoices(choices ...Choice) Option {
	return func(c *Config) {
		c.Choices = append(c.Choices, choices...)
	}
}

// WithAction overrides the handler of one action.
//
// Example:
//
//	// Typing appends to the input
//	enquire.WithDispatch(func(_ context.Context, p *enquire.Prompt, k enquire.Key) error {
//		if !k.Printable() {
//			p.Alert()
//			return nil
//		}
//		p.SetInput(p.Input() + string(k.Rune))
//		return nil
//	})
//	// Backspace removes the last rune
//	enquire.WithAction("delete", func(_ context.Context, p *enquire.Prompt, _ enquire.Key) error {
//		r := []rune(p.Input())
//		if len(r) > 0 {
//			p.SetInput(string(r[:len(r)-1]))
//		}
//		return nil
//	})
func WithAction(action string, handler Handler) Option {
	return func(c *Config) {
		if c.Actions == nil {
			c.Actions = make(map[string]Handler)
		}
		c.Actions[action] = handler
	}
}

// WithDispatch sets the catch-all handler for keys without any other handler.
func WithDispatch(handler Handler) Option {
	return func(c *Config) {
		c.Dispatch = handler
	}
}

// WithKeyMap sets the key bindings
func WithKeyMap(keyMap ActionResolver) Option {
	return func(c *Config) {
		c.KeyMap = keyMap
	}
}

// WithDecoder sets the key decoder.
func WithDecoder(decoder func(raw string) Key) Option {
	return func(c *Config) {
		c.Decoder = decoder
	}
}

// WithHistory configures answer history.
//
// Example:
//
//	enquire.WithHistory(&enquire.HistoryConfig{
//		Enabled:    true,
//		MaxEntries: 100,
//		File:       "~/.myapp_answers",
//	})
func WithHistory(historyConfig *HistoryConfig) Option {
	return func(c *Config) {
		c.History = historyConfig
	}
}

// WithMemoryHistory is a convenience function for memory-only history setup.
func WithMemoryHistory(maxEntries int) Option {
	return func(c *Config) {
		c.History = &HistoryConfig{
			Enabled:    true,
			MaxEntries: maxEntries,
		}
	}
}

// WithFileHistory is a convenience function for history with file persistence.
func WithFileHistory(file string, maxEntries int) Option {
	return func(c *Config) {
		c.History = &HistoryConfig{
			Enabled:     true,
			MaxEntries:  maxEntries,
			File:        file,
			MaxFileSize: defaultHistoryFileSize,
			MaxBackups:  defaultHistoryBackups,
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// Prompt is the runtime engine of an interactive terminal prompt.
//
// A Prompt owns its State for the duration of one run: it listens for key
// presses, resolves them to actions, runs the matching handler and redraws
// the frame, until the value is submitted or the prompt is cancelled.
//
// Prompt instances are not thread-safe. State is only touched from the
// goroutine that calls Run (or Keypress directly).
type Prompt struct {
	config  Config
	input   Input
	output  io.Writer
	state   State
	choices *ChoiceList
	styles  *Styles
	symbols *Symbols
	keyMap  ActionResolver
	decode  func(raw string) Key
	history *HistoryManager
	logger  *slog.Logger
	events  emitter

	historyIndex int
	detach       func()
	running      bool
	keys         chan keyEvent
	done         chan struct{}
	doneOnce     sync.Once
}

type keyEvent struct {
	raw string
	key Key
	err error // set when reading from the input failed
}

// New creates a prompt reading keys from in and drawing on out.
//
// The caller supplies both handles; NewTerminal returns the platform default
// for each.
//
// Example:
//
//	t, err := enquire.NewTerminal()
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer t.Close()
//
//	p, err := enquire.New(t, t,
//		enquire.WithName("color"),
//		enquire.WithMessage("Pick one"),
//		enquire.WithChoices(
//			enquire.Choice{Name: "red"},
//			enquire.Choice{Name: "green"},
//		),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer p.Close()
//
//	answer, err := p.Run()
func New(in Input, out io.Writer, options ...Option) (*Prompt, error) {
	config := Config{Show: true}

	for _, option := range options {
		option(&config)
	}

	return newFromConfig(in, out, config)
}

func newFromConfig(in Input, out io.Writer, config Config) (*Prompt, error) {
	if in == nil {
		return nil, ErrNoInput
	}
	if out == nil {
		return nil, ErrNoOutput
	}

	if config.Message == nil && config.Name != "" {
		config.Message = Literal(config.Name)
	}
	if config.Styles == nil {
		config.Styles = NewStyles(config.Theme)
	}
	if config.Symbols == nil {
		config.Symbols = DefaultSymbols
	}
	if config.KeyMap == nil {
		config.KeyMap = NewDefaultKeyMap()
	}
	if config.Decoder == nil {
		config.Decoder = Decode
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	// Copy so later changes to the caller's map do not leak into the run
	config.Actions = maps.Clone(config.Actions)

	history := NewHistoryManager(config.History)
	if err := history.Load(); err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	p := &Prompt{
		config:  config,
		input:   in,
		output:  out,
		choices: NewChoiceList(config.Choices),
		styles:  config.Styles,
		symbols: config.Symbols,
		keyMap:  config.KeyMap,
		decode:  config.Decoder,
		history: history,
		logger:  config.Logger.With("prompt", config.Name),
		keys:    make(chan keyEvent, keyQueueSize),
		done:    make(chan struct{}),
	}
	p.state.Value = config.Initial
	p.state.Rows = config.Rows
	p.state.Cols = config.Cols
	p.historyIndex = history.Len()
	p.focusInitial()

	return p, nil
}

// focusInitial focuses the visible entry whose name or value equals the
// initial value, if any.
func (p *Prompt) focusInitial() {
	if !isMeaningful(p.config.Initial) {
		return
	}
	initial := display(p.config.Initial)
	for i, c := range p.choices.Visible() {
		if c.Disabled {
			continue
		}
		if c.Name == initial || display(c.Result()) == initial {
			p.choices.SetFocus(i)
			return
		}
	}
}

// Name returns the prompt name.
func (p *Prompt) Name() string {
	return p.config.Name
}

// Initial returns the configured initial value.
func (p *Prompt) Initial() any {
	return p.config.Initial
}

// State returns a copy of the current state.
func (p *Prompt) State() State {
	return p.state
}

// Status returns the lifecycle status derived from the state flags.
func (p *Prompt) Status() Status {
	return p.state.status()
}

// SetStatus always fails: the status is computed from the answered,
// cancelled and completing flags and cannot be assigned. Use Submit or Cancel.
func (p *Prompt) SetStatus(status Status) error {
	return fmt.Errorf("cannot set status to %q: %w", status, ErrStatusReadOnly)
}

// Value returns the working value.
func (p *Prompt) Value() any {
	return p.state.Value
}

// SetValue replaces the working value.
func (p *Prompt) SetValue(value any) {
	p.state.Value = value
}

// Input returns the text typed so far.
func (p *Prompt) Input() string {
	return p.state.Input
}

// SetInput replaces the typed text.
func (p *Prompt) SetInput(input string) {
	p.state.Input = input
}

// SetError sets the message shown in place of the hint; "" clears it.
func (p *Prompt) SetError(message string) {
	p.state.Error = message
}

// Choices returns the entry list of the prompt.
func (p *Prompt) Choices() *ChoiceList {
	return p.choices
}

// History returns the previously submitted answers, oldest first.
func (p *Prompt) History() []string {
	return p.history.Entries()
}

// Styles returns the styles the prompt renders with.
func (p *Prompt) Styles() *Styles {
	return p.styles
}

// Symbols returns the glyphs the prompt renders with.
func (p *Prompt) Symbols() *Symbols {
	return p.symbols
}

// Close detaches the input if still attached and saves the answer history.
//
// Close should be called once the prompt is no longer needed. It's safe to
// call Close multiple times. It does not close the Input or output handles,
// which belong to the caller.
func (p *Prompt) Close() error {
	p.stopListening()
	p.doneOnce.Do(func() { close(p.done) })

	if err := p.history.Save(); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	return nil
}
