package ui

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
)

// Opener opens a URL in the user's browser
type Opener struct {
	goos string
	run  func(ctx context.Context, name string, args ...string) error
}

// NewOpener creates an Opener for the running platform
func NewOpener() *Opener {
	return &Opener{goos: runtime.GOOS, run: runCommand}
}

// Open hands url to the platform's default handler
func (o *Opener) Open(ctx context.Context, url string) error {
	name, args, err := openCommand(o.goos, url)
	if err != nil {
		return err
	}
	if err := o.run(ctx, name, args...); err != nil {
		return fmt.Errorf("failed to open %s: %w", url, err)
	}
	return nil
}

// openCommand returns the command that opens url on goos
func openCommand(goos, url string) (string, []string, error) {
	switch goos {
	case "darwin":
		return "open", []string{url}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{url}, nil
	default:
		return "", nil, fmt.Errorf("unsupported operating system: %s", goos)
	}
}

func runCommand(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}
