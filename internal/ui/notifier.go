// Package ui holds the terminal frontend: progress notifications, prompts
// and opening links in the browser.
package ui

import (
	"github.com/pterm/pterm"
)

// Notifier reports progress with a pterm spinner. Success and Fail end the
// running spinner, or print a status line when none is running.
type Notifier struct {
	spinner *pterm.SpinnerPrinter
}

// NewNotifier creates a Notifier that writes to the terminal
func NewNotifier() *Notifier {
	return &Notifier{}
}

// Start begins a spinner with msg, ending any spinner already running
func (n *Notifier) Start(msg string) {
	n.Stop()

	spinner, err := pterm.DefaultSpinner.WithRemoveWhenDone(false).Start(msg)
	if err != nil {
		pterm.Info.Println(msg)
		return
	}
	n.spinner = spinner
}

// Success finishes the current operation as succeeded
func (n *Notifier) Success(msg string) {
	if n.spinner != nil {
		n.spinner.Success(msg)
		n.spinner = nil
		return
	}
	pterm.Success.Println(msg)
}

// Fail finishes the current operation as failed
func (n *Notifier) Fail(msg string) {
	if n.spinner != nil {
		n.spinner.Fail(msg)
		n.spinner = nil
		return
	}
	pterm.Error.Println(msg)
}

// Stop clears a running spinner without a status line
func (n *Notifier) Stop() {
	if n.spinner == nil {
		return
	}
	_ = n.spinner.Stop()
	n.spinner = nil
}
