package music

import (
	"runtime"
	"strings"

	"github.com/jfmyers9/spotctl/internal/apperr"
)

// Backend names accepted by New
const (
	BackendAuto        = "auto"
	BackendAppleScript = "applescript"
	BackendMPRIS       = "mpris"
)

// Options selects and configures a Player backend
type Options struct {
	Backend      string // auto, applescript or mpris
	MPRISService string // bus name for the mpris backend
}

// ResolveBackend returns the concrete backend for name on goos.
// auto picks AppleScript on macOS and MPRIS everywhere else.
func ResolveBackend(name, goos string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", BackendAuto:
		if goos == "darwin" {
			return BackendAppleScript, nil
		}
		return BackendMPRIS, nil
	case BackendAppleScript:
		return BackendAppleScript, nil
	case BackendMPRIS:
		return BackendMPRIS, nil
	default:
		return "", apperr.InvalidArgument("unknown player backend %q (must be auto, applescript or mpris)", name)
	}
}

// New creates the Player for the configured backend
func New(opts Options) (Player, error) {
	backend, err := ResolveBackend(opts.Backend, runtime.GOOS)
	if err != nil {
		return nil, err
	}

	if backend == BackendAppleScript {
		return NewAppleScriptClient(), nil
	}

	client, err := NewMPRISClient(opts.MPRISService)
	if err != nil {
		return nil, err
	}
	return client, nil
}
