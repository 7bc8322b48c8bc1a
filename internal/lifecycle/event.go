package lifecycle

import (
	"strings"

	"lifecycler/internal/options"
)

// Event is a lifecycle step.
type Event string

const (
	BuildBootstrap Event = "build-bootstrap"
	ClearCache     Event = "clear-cache"
	InstallAssets  Event = "install-assets"
)

// Events returns all events in their conventional order.
func Events() []Event {
	return []Event{BuildBootstrap, ClearCache, InstallAssets}
}

// handlerNames maps the script handler callables found in existing
// manifests to events.
var handlerNames = map[string]Event{
	"buildBootstrap": BuildBootstrap,
	"clearCache":     ClearCache,
	"installAssets":  InstallAssets,
}

// ParseEvent accepts an event name or a handler callable such as
// Vendor\Composer\ScriptHandler::clearCache.
func ParseEvent(s string) (Event, bool) {
	s = strings.TrimSpace(s)
	for _, e := range Events() {
		if s == string(e) {
			return e, true
		}
	}
	if i := strings.LastIndex(s, "::"); i >= 0 {
		e, ok := handlerNames[s[i+2:]]
		return e, ok
	}
	return "", false
}

// RequiredDirs lists the directory option keys checked, in order, before the
// event executes.
func (e Event) RequiredDirs() []string {
	switch e {
	case BuildBootstrap:
		return []string{options.KeyVarDir}
	case ClearCache:
		return []string{options.KeyBinDir}
	case InstallAssets:
		return []string{options.KeyBinDir, options.KeyWebDir}
	default:
		return nil
	}
}

// Action describes the event in diagnostics.
func (e Event) Action() string {
	switch e {
	case BuildBootstrap:
		return "build bootstrap file"
	case ClearCache:
		return "clear the cache"
	case InstallAssets:
		return "install assets"
	default:
		return string(e)
	}
}

// State is a pipeline run state.
type State int

const (
	Idle State = iota
	Validating
	Executing
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Validating:
		return "Validating"
	case Executing:
		return "Executing"
	case Succeeded:
		return "Succeeded"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}
