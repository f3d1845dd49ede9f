package enquire

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Terminal control sequences written by the render pipeline.
const (
	hideCursor = "\x1b[?25l"
	showCursor = "\x1b[?25h"
	eraseLine  = "\x1b[2K"
	cursorUp   = "\x1b[1A"
)

// Render redraws the prompt: the previous frame is erased first, then the
// current frame is written. Handlers do not need to call it; the engine
// renders after every handled key.
func (p *Prompt) Render() error {
	if err := p.clear(); err != nil {
		return err
	}
	return p.write(p.frame())
}

// clear erases the frame currently on screen. Before anything was rendered it
// only hides the cursor, so content the prompt never wrote stays intact.
func (p *Prompt) clear() error {
	if !p.state.Listening {
		return nil
	}
	if !p.state.Rendered {
		return p.rawWrite(hideCursor)
	}

	rows := frameRows(p.state.Terminal, p.Columns())
	p.state.Terminal = ""
	return p.rawWrite(eraseSequence(rows))
}

// write draws s and records it as part of the frame on screen.
func (p *Prompt) write(s string) error {
	if !p.config.Show || s == "" {
		return nil
	}
	if _, err := fmt.Fprint(p.output, s); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	p.state.Terminal += s
	p.state.Rendered = true
	return nil
}

// rawWrite writes control output that is not part of the frame.
func (p *Prompt) rawWrite(s string) error {
	if !p.config.Show || s == "" {
		return nil
	}
	if _, err := fmt.Fprint(p.output, s); err != nil {
		return fmt.Errorf("failed to write to output: %w", err)
	}
	return nil
}

// frame composes the full frame for the current state.
//
// Layout:
//
//	header
//	prefix message separator value help
//	body
//	footer
func (p *Prompt) frame() string {
	var lines []string

	if header := p.element(p.config.Header); header != "" {
		lines = append(lines, header)
	}

	parts := []string{
		p.prefix(),
		p.styles.Strong.Render(p.element(p.config.Message)),
		p.separator(),
	}
	if value := p.formatValue(); value != "" {
		parts = append(parts, value)
	}
	if help := p.help(); help != "" {
		parts = append(parts, help)
	}
	lines = append(lines, strings.Join(parts, " "))

	if body := p.body(); body != "" {
		lines = append(lines, body)
	}
	if footer := p.footer(); footer != "" {
		lines = append(lines, footer)
	}

	frame := strings.Join(lines, "\n")
	frame = strings.ReplaceAll(frame, "\r\n", "\n")
	return strings.ReplaceAll(frame, "\n", "\r\n")
}

func (p *Prompt) element(e Element) string {
	if e == nil {
		return ""
	}
	return e(p)
}

func (p *Prompt) prefix() string {
	status := p.Status()
	glyph := p.symbols.prefix(status)
	if p.config.Prefix != nil {
		glyph = p.config.Prefix(p)
	}
	return p.styles.prefix(status, glyph)
}

func (p *Prompt) separator() string {
	glyph := p.symbols.separator(p.Status())
	if p.config.Separator != nil {
		glyph = p.config.Separator(p)
	}
	return p.styles.Muted.Render(glyph)
}

// formatValue renders the value part of the question line. Once answered the
// submitted value is shown; before that the typed text, blended over a dimmed
// preview of the initial value.
func (p *Prompt) formatValue() string {
	if p.config.Format != nil {
		return p.config.Format(p)
	}

	switch p.Status() {
	case StatusAnswered:
		if !isMeaningful(p.state.Value) {
			return ""
		}
		return p.styles.Submitted.Render(display(p.state.Value))
	case StatusCancelled:
		if p.state.Input == "" {
			return ""
		}
		return p.styles.Muted.Render(p.state.Input)
	}

	input := p.state.Input
	if !isMeaningful(p.config.Initial) {
		if input == "" {
			return ""
		}
		return p.styles.Text.Render(input)
	}

	initial := display(p.config.Initial)
	if input == "" {
		return p.styles.Muted.Render(initial)
	}
	if rest, ok := strings.CutPrefix(initial, input); ok && rest != "" {
		return p.styles.Text.Render(input) + p.styles.Muted.Render(rest)
	}
	return p.styles.Text.Render(input)
}

// help returns the message shown after the value: the error if any, else the
// help text, else the hint while nothing is typed and there is no initial
// value.
func (p *Prompt) help() string {
	switch {
	case p.state.Error != "":
		return p.styles.Danger.Render(p.state.Error)
	case p.state.settled():
		return ""
	case p.config.Help != "":
		return p.styles.Muted.Render(p.config.Help)
	case p.config.Hint != nil && !isMeaningful(p.config.Initial) && p.state.Input == "":
		if hint := p.config.Hint(p); hint != "" {
			return p.styles.Muted.Render(hint)
		}
	}
	return ""
}

// body renders the entry list, through Config.Body when set.
func (p *Prompt) body() string {
	if p.config.Body != nil {
		return p.config.Body(p)
	}
	if p.state.settled() || p.choices.Len() == 0 {
		return ""
	}

	focus := p.choices.Index()
	lines := make([]string, 0, p.choices.Len())
	for i, c := range p.choices.Visible() {
		switch {
		case c.Disabled:
			lines = append(lines, "  "+p.styles.Muted.Render(c.Label()))
		case i == focus:
			lines = append(lines, p.styles.Primary.Render(p.symbols.Pointer+" "+c.Label()))
		default:
			lines = append(lines, "  "+c.Label())
		}
		if c.Hint != "" {
			lines[len(lines)-1] += " " + p.styles.Muted.Render(c.Hint)
		}
	}
	return strings.Join(lines, "\n")
}

// footer is hidden once answered, and when the visible entries exactly fill
// the selection limit.
func (p *Prompt) footer() string {
	if p.state.Answered {
		return ""
	}
	if p.config.Limit > 0 && p.choices.Len() == p.config.Limit {
		return ""
	}
	return p.element(p.config.Footer)
}

// Columns returns the width used for layout: the configured override, else
// the output's size, else 80.
func (p *Prompt) Columns() int {
	if p.state.Cols > 0 {
		return p.state.Cols
	}
	if s, ok := p.output.(Sizer); ok {
		if width, _, err := s.Size(); err == nil && width > 0 {
			return width
		}
	}
	return defaultColumns
}

// Rows returns the height used for layout: the configured override, else the
// output's size, else 25.
func (p *Prompt) Rows() int {
	if p.state.Rows > 0 {
		return p.state.Rows
	}
	if s, ok := p.output.(Sizer); ok {
		if _, height, err := s.Size(); err == nil && height > 0 {
			return height
		}
	}
	return defaultRows
}

// frameRows counts the terminal rows frame occupies when wrapped at cols.
func frameRows(frame string, cols int) int {
	if frame == "" {
		return 0
	}
	if cols <= 0 {
		cols = defaultColumns
	}

	rows := 0
	for _, line := range strings.Split(frame, "\n") {
		width := ansi.StringWidth(strings.TrimSuffix(line, "\r"))
		if width == 0 {
			rows++
			continue
		}
		rows += (width + cols - 1) / cols
	}
	return rows
}

// eraseSequence clears rows lines, ending at the start of the topmost one.
func eraseSequence(rows int) string {
	if rows <= 0 {
		return ""
	}
	var b strings.Builder
	for i := range rows {
		if i > 0 {
			b.WriteString(cursorUp)
		}
		b.WriteString(eraseLine)
	}
	b.WriteString("\r")
	return b.String()
}

// display turns a value into the text shown for it.
func display(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}
