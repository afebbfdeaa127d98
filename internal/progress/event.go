// Package progress defines the event structures emitted while a harvest run
// walks its sources.
package progress

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Stage denotes the type of milestone represented by an Event.
type Stage string

// Supported progress stages.
const (
	StageSourceStart Stage = "SOURCE_START"
	StageItemSaved   Stage = "ITEM_SAVED"
	StageItemFailed  Stage = "ITEM_FAILED"
	StageSourceDone  Stage = "SOURCE_DONE"
	StageRunDone     Stage = "RUN_DONE"
)

// Event captures a single milestone of harvest progress.
type Event struct {
	// RunID uniquely identifies one harvest run.
	RunID uuid.UUID
	// TS is the UTC timestamp recorded by the emitter.
	TS time.Time
	// Stage denotes which milestone occurred.
	Stage Stage
	// Source names the listing site the event belongs to; empty for
	// run-level events.
	Source string
	// URL is the optional page URL the event concerns.
	URL string
	// Count carries the stage's running total (items collected so far, or
	// the final tally for done events).
	Count int
	// Note attaches low-volume context such as error text or a stop reason.
	Note string
}

// Validate performs coarse validation on Event payloads.
func (e Event) Validate() error {
	if e.RunID == uuid.Nil {
		return errors.New("run id is required")
	}
	if e.TS.IsZero() {
		return errors.New("timestamp is required")
	}
	switch e.Stage {
	case StageRunDone:
	case StageSourceStart, StageItemSaved, StageItemFailed, StageSourceDone:
		if e.Source == "" {
			return fmt.Errorf("%s requires a source", e.Stage)
		}
	default:
		return fmt.Errorf("unknown stage %q", e.Stage)
	}
	return nil
}
