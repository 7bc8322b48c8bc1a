package lifecycle

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"lifecycler/internal/options"
	"lifecycler/pkg/logging"
)

// Dispatcher runs the events a manifest attaches to a hook.
type Dispatcher struct {
	Pipeline *Pipeline

	// Scripts maps hook names to script entries. Entries that are not
	// lifecycle events belong to other tools and are skipped.
	Scripts map[string][]string

	// Options resolves a fresh option set for every event.
	Options func() options.Set
}

// Events returns the lifecycle events attached to hook, in order.
func (d *Dispatcher) Events(hook string) ([]Event, error) {
	entries, ok := d.Scripts[hook]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrHookNotDefined, hook)
	}
	var events []Event
	for _, entry := range entries {
		if e, ok := ParseEvent(entry); ok {
			events = append(events, e)
		}
	}
	return events, nil
}

// Dispatch handles every event of hook in order. The first fatal error
// aborts the remaining events and is returned along with the outcomes so far.
func (d *Dispatcher) Dispatch(ctx context.Context, hook string) ([]Outcome, error) {
	runID := uuid.New().String()
	log := logging.With(subsystem, "run", runID, "hook", hook)

	entries, ok := d.Scripts[hook]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrHookNotDefined, hook)
	}

	var outcomes []Outcome
	for _, entry := range entries {
		event, ok := ParseEvent(entry)
		if !ok {
			log.Debug("Skipping script that is not a lifecycle event", "script", entry)
			continue
		}
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}

		log.Info("Dispatching event", "event", string(event))
		out := d.Pipeline.Handle(ctx, event, d.Options())
		outcomes = append(outcomes, out)
		if out.Err != nil {
			log.Error("Aborting hook", "event", string(event), "error", out.Err)
			return outcomes, out.Err
		}
	}
	log.Info("Hook finished", "events", len(outcomes))
	return outcomes, nil
}
