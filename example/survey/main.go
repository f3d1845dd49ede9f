// Package main demonstrates a questionnaire loaded from YAML.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"slices"
	"strings"

	"github.com/nao1215/enquire"
)

const defaultQuestions = `
questions:
  - name: project
    message: Project name
    hint: lowercase, no spaces
    required: true
  - name: description
    message: Short description
    help: shown in the README
  - name: license
    message: Pick a license
    choices: [MIT, Apache-2.0, BSD-3-Clause, GPL-3.0]
    initial: MIT
    footer: (tab to move, enter to pick)
  - name: ci
    message: Continuous integration
    choices: [GitHub Actions, GitLab CI, none]
    theme: Solarized Dark
`

func main() {
	file := flag.String("f", "", "YAML file with the questions (default: built-in)")
	flag.Parse()

	src := strings.NewReader(defaultQuestions)
	var questions []enquire.Question
	var err error
	if *file != "" {
		f, openErr := os.Open(*file)
		if openErr != nil {
			log.Fatal(openErr)
		}
		defer f.Close()
		questions, err = enquire.LoadQuestions(f)
	} else {
		questions, err = enquire.LoadQuestions(src)
	}
	if err != nil {
		log.Fatal(err)
	}

	t, err := enquire.NewTerminal()
	if err != nil {
		log.Fatal(err)
	}
	defer t.Close()

	answers, err := enquire.Ask(context.Background(), t, t, questions)
	if err != nil {
		log.Printf("Error: %v\n", err)
	}

	names := make([]string, 0, len(answers))
	for name := range answers {
		names = append(names, name)
	}
	slices.Sort(names)

	fmt.Println()
	for _, name := range names {
		fmt.Printf("%-12s %v\n", name+":", answers[name])
	}
}
