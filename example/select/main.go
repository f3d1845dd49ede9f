// Package main demonstrates a select list built from prompt overrides.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/nao1215/enquire"
)

func main() {
	t, err := enquire.NewTerminal()
	if err != nil {
		log.Fatal(err)
	}
	defer t.Close()

	p, err := enquire.New(t, t,
		enquire.WithName("color"),
		enquire.WithMessage("Pick a color"),
		enquire.WithInitial("green"),
		enquire.WithChoices(
			enquire.Choice{Name: "red", Hint: "warm"},
			enquire.Choice{Name: "green"},
			enquire.Choice{Name: "blue", Hint: "cool"},
			enquire.Choice{Name: "black", Disabled: true},
		),
		enquire.WithTheme(enquire.ThemeDracula),
		enquire.WithFooter(enquire.Literal("(up/down to move, type to filter, enter to pick)")),
		// Arrow keys move the focus like Tab and Shift+Tab
		enquire.WithAction("down", func(ctx context.Context, p *enquire.Prompt, k enquire.Key) error {
			if !p.Choices().Next() {
				return p.Alert()
			}
			return nil
		}),
		enquire.WithAction("up", func(ctx context.Context, p *enquire.Prompt, k enquire.Key) error {
			if !p.Choices().Prev() {
				return p.Alert()
			}
			return nil
		}),
		// Typing filters the entries
		enquire.WithDispatch(func(ctx context.Context, p *enquire.Prompt, k enquire.Key) error {
			if !k.Printable() {
				return p.Alert()
			}
			p.SetInput(p.Input() + string(k.Rune))
			p.Choices().FilterFuzzy(p.Input())
			return nil
		}),
		enquire.WithAction("delete", func(ctx context.Context, p *enquire.Prompt, k enquire.Key) error {
			r := []rune(p.Input())
			if len(r) == 0 {
				return p.Alert()
			}
			p.SetInput(string(r[:len(r)-1]))
			p.Choices().FilterFuzzy(p.Input())
			return nil
		}),
		// The typed text only filters; it is never the answer
		enquire.WithFormat(func(p *enquire.Prompt) string {
			if p.Status() == enquire.StatusAnswered {
				return fmt.Sprint(p.Value())
			}
			return strings.TrimSpace(p.Input())
		}),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer p.Close()

	answer, err := p.Run()
	if err != nil {
		if errors.Is(err, enquire.ErrInterrupted) || errors.Is(err, enquire.ErrCanceled) {
			fmt.Println("Cancelled")
			return
		}
		log.Fatal(err)
	}
	fmt.Printf("You picked: %v\n", answer)
}
