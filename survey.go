package enquire

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// ErrRequired is the validation error of a required question answered with
// nothing.
var ErrRequired = errors.New("an answer is required")

// Question describes one prompt of a questionnaire run by Ask.
//
// A question with choices behaves like a select list: Tab and Shift+Tab move
// the focus and Enter answers with the focused entry. A question without
// choices behaves like a text input.
type Question struct {
	Name     string   `yaml:"name"`
	Message  string   `yaml:"message"`
	Initial  string   `yaml:"initial"`
	Hint     string   `yaml:"hint"`
	Help     string   `yaml:"help"`
	Header   string   `yaml:"header"`
	Footer   string   `yaml:"footer"`
	Choices  []string `yaml:"choices"`
	Limit    int      `yaml:"limit"`
	Required bool     `yaml:"required"`
	Theme    string   `yaml:"theme"`
}

// questionnaire is the document layout read by LoadQuestions.
type questionnaire struct {
	Questions []Question `yaml:"questions"`
}

// LoadQuestions reads a questionnaire from YAML.
//
// Example document:
//
//	questions:
//	  - name: project
//	    message: Project name
//	    required: true
//	  - name: license
//	    message: Pick a license
//	    choices: [MIT, Apache-2.0, BSD-3-Clause]
func LoadQuestions(r io.Reader) ([]Question, error) {
	var doc questionnaire
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse questions: %w", err)
	}

	for i, q := range doc.Questions {
		if q.Name == "" {
			return nil, fmt.Errorf("question %d: name is required", i+1)
		}
		if q.Theme != "" && Themes[q.Theme] == nil {
			return nil, fmt.Errorf("question %q: unknown theme %q", q.Name, q.Theme)
		}
	}
	return doc.Questions, nil
}

// Ask runs one prompt per question, in order, and returns the answers keyed
// by question name. The options apply to every prompt. The first cancelled
// or failed prompt stops the questionnaire; the answers collected so far are
// returned along with its error.
func Ask(ctx context.Context, in Input, out io.Writer, questions []Question, options ...Option) (map[string]any, error) {
	answers := make(map[string]any, len(questions))
	for _, q := range questions {
		if q.Name == "" {
			return answers, errors.New("question without a name")
		}
		answer, err := ask(ctx, in, out, q, options)
		if err != nil {
			return answers, fmt.Errorf("question %q: %w", q.Name, err)
		}
		answers[q.Name] = answer
	}
	return answers, nil
}

func ask(ctx context.Context, in Input, out io.Writer, q Question, options []Option) (any, error) {
	p, err := New(in, out, append(q.options(), options...)...)
	if err != nil {
		return nil, err
	}
	answer, runErr := p.RunWithContext(ctx)
	if err := p.Close(); err != nil && runErr == nil {
		runErr = err
	}
	return answer, runErr
}

// options translates the question into prompt options.
func (q Question) options() []Option {
	opts := []Option{WithName(q.Name)}
	if q.Message != "" {
		opts = append(opts, WithMessage(q.Message))
	}
	if q.Initial != "" {
		opts = append(opts, WithInitial(q.Initial))
	}
	if q.Hint != "" {
		opts = append(opts, WithHint(q.Hint))
	}
	if q.Help != "" {
		opts = append(opts, WithHelp(q.Help))
	}
	if q.Header != "" {
		opts = append(opts, WithHeader(Literal(q.Header)))
	}
	if q.Footer != "" {
		opts = append(opts, WithFooter(Literal(q.Footer)))
	}
	if q.Limit > 0 {
		opts = append(opts, WithLimit(q.Limit))
	}
	if theme := Themes[q.Theme]; theme != nil {
		opts = append(opts, WithTheme(theme))
	}
	if q.Required {
		opts = append(opts, WithValidate(required))
	}

	if len(q.Choices) > 0 {
		choices := make([]Choice, 0, len(q.Choices))
		for _, name := range q.Choices {
			choices = append(choices, Choice{Name: name})
		}
		opts = append(opts,
			WithChoices(choices...),
			WithAction("down", nextChoiceHandler),
			WithAction("up", prevChoiceHandler),
		)
		return opts
	}
	return append(opts, TextInput()...)
}

// TextInput returns the options that turn a prompt into a single line text
// input: printable keys append to the typed text and Backspace removes the
// last rune.
func TextInput() []Option {
	return []Option{
		WithDispatch(typeRune),
		WithAction("space", typeRune),
		WithAction("delete", deleteRune),
	}
}

func typeRune(_ context.Context, p *Prompt, key Key) error {
	if !key.Printable() {
		return p.Alert()
	}
	p.state.Input += string(key.Rune)
	return nil
}

func deleteRune(_ context.Context, p *Prompt, _ Key) error {
	r := []rune(p.state.Input)
	if len(r) == 0 {
		return p.Alert()
	}
	p.state.Input = string(r[:len(r)-1])
	return nil
}

func required(_ context.Context, value any) error {
	if !isMeaningful(value) {
		return ErrRequired
	}
	return nil
}
