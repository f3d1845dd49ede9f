// Package main demonstrates a text input with validation, history and a timeout.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/nao1215/enquire"
)

func main() {
	debug := flag.Bool("debug", false, "write debug logs to stderr")
	timeout := flag.Duration("timeout", time.Minute, "give up after this long")
	flag.Parse()

	logger := slog.New(slog.DiscardHandler)
	if *debug {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	t, err := enquire.NewTerminal()
	if err != nil {
		log.Fatal(err)
	}
	defer t.Close()

	options := append(enquire.TextInput(),
		enquire.WithName("username"),
		enquire.WithMessage("What is your name?"),
		enquire.WithInitial(os.Getenv("USER")),
		enquire.WithHint("letters only"),
		enquire.WithValidate(func(_ context.Context, v any) error {
			s, _ := v.(string)
			if strings.TrimSpace(s) == "" {
				return errors.New("a name is required")
			}
			if strings.ContainsAny(s, "0123456789") {
				return errors.New("digits are not allowed")
			}
			return nil
		}),
		// XDG compliant: ~/.config/enquire/username.history
		// Alt+Up / Alt+Down recall earlier answers.
		enquire.WithFileHistory(enquire.DefaultHistoryFile("username"), 100),
		enquire.WithLogger(logger),
	)

	p, err := enquire.New(t, t, options...)
	if err != nil {
		log.Fatal(err)
	}
	defer p.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	answer, err := p.RunWithContext(ctx)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		fmt.Println("Timeout reached")
		return
	case errors.Is(err, enquire.ErrInterrupted), errors.Is(err, enquire.ErrCanceled):
		fmt.Println("Cancelled")
		return
	case err != nil:
		log.Fatal(err)
	}
	fmt.Printf("Hello, %v!\n", answer)
}
