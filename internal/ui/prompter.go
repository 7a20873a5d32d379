package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/pterm/pterm"

	"github.com/jfmyers9/spotctl/internal/apperr"
	"github.com/jfmyers9/spotctl/internal/resolve"
)

// Prompter asks the user questions on the terminal
type Prompter struct{}

// NewPrompter creates a terminal Prompter
func NewPrompter() *Prompter {
	return &Prompter{}
}

// Choose shows an interactive select over choices and returns the one the
// user picked. Labels are numbered so that identical names stay distinct.
func (p *Prompter) Choose(ctx context.Context, prompt string, choices []resolve.Choice) (resolve.Choice, error) {
	if len(choices) == 0 {
		return resolve.Choice{}, apperr.InvalidArgument("nothing to choose from")
	}

	options := choiceLabels(choices)
	selected, err := pterm.DefaultInteractiveSelect.
		WithOptions(options).
		WithDefaultOption(options[0]).
		WithMaxHeight(len(options)).
		Show(prompt)
	if err != nil {
		return resolve.Choice{}, fmt.Errorf("failed to read selection: %w", err)
	}

	return matchChoice(selected, options, choices)
}

// Confirm asks a yes/no question
func (p *Prompter) Confirm(ctx context.Context, question string, defaultYes bool) (bool, error) {
	answer, err := pterm.DefaultInteractiveConfirm.WithDefaultValue(defaultYes).Show(question)
	if err != nil {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}
	return answer, nil
}

// Input asks for a line of text, offering defaultValue when it is set
func (p *Prompter) Input(ctx context.Context, question, defaultValue string) (string, error) {
	answer, err := pterm.DefaultInteractiveTextInput.WithDefaultValue(defaultValue).Show(question)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(answer), nil
}

// choiceLabels numbers each choice from 1
func choiceLabels(choices []resolve.Choice) []string {
	labels := make([]string, len(choices))
	for i, c := range choices {
		labels[i] = fmt.Sprintf("%d) %s", i+1, c.Label)
	}
	return labels
}

// matchChoice maps the selected option back to its choice by position
func matchChoice(selected string, options []string, choices []resolve.Choice) (resolve.Choice, error) {
	for i, option := range options {
		if option == selected {
			return choices[i], nil
		}
	}
	return resolve.Choice{}, apperr.InvalidArgument("unknown selection %q", selected)
}
