package poller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rickgao/auction-watch/internal/model"
	"github.com/rickgao/auction-watch/internal/store"
)

// EnvelopeVersion is the persisted state format version.
const EnvelopeVersion = 1

// DefaultRetention bounds how long snapshot entries survive a reload.
const DefaultRetention = 60 * 24 * time.Hour

// Envelope is the persisted form of a poller's state.
type Envelope[S any] struct {
	Version      int       `json:"version"`
	PreviousData S         `json:"previousData"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// loadState reads the persisted state for key. found is false when nothing
// usable is stored; the caller then starts from empty state.
func loadState[S any](ctx context.Context, s store.Store, key string) (state S, found bool, err error) {
	blob, err := s.Load(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return state, false, nil
	}
	if err != nil {
		return state, false, fmt.Errorf("load state: %w", err)
	}

	var env Envelope[S]
	if err := json.Unmarshal(blob, &env); err != nil {
		return state, false, fmt.Errorf("decode state: %w", err)
	}
	if env.Version != EnvelopeVersion {
		return state, false, fmt.Errorf("unsupported state version %d", env.Version)
	}
	return env.PreviousData, true, nil
}

func saveState[S any](ctx context.Context, s store.Store, key string, state S, now time.Time) error {
	blob, err := json.Marshal(Envelope[S]{
		Version:      EnvelopeVersion,
		PreviousData: state,
		UpdatedAt:    now.UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := s.Save(ctx, key, blob); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// pruneSnapshot drops entries whose reference time is older than retention.
// End time is preferred over LastUpdated; entries with neither are kept.
func pruneSnapshot(snap model.Snapshot, now time.Time, retention time.Duration) model.Snapshot {
	cutoff := now.Add(-retention)
	out := make(model.Snapshot, len(snap))
	for id, it := range snap {
		var ref time.Time
		switch {
		case it.EndTime != nil && !it.EndTime.IsZero():
			ref = *it.EndTime
		case !it.LastUpdated.IsZero():
			ref = it.LastUpdated
		}
		if !ref.IsZero() && ref.Before(cutoff) {
			continue
		}
		out[id] = it
	}
	return out
}
