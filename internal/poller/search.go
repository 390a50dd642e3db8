package poller

import (
	"context"
	"sync"
	"time"

	"github.com/rickgao/auction-watch/internal/model"
)

const (
	// MaxSeenIDs caps the remembered search result ids.
	MaxSeenIDs = 1000

	// FirstRunEventLimit bounds emission when a search has never seen
	// anything, so a new search does not flood subscribers.
	FirstRunEventLimit = 5
)

// Search runs one saved search and reports listings it has not seen.
type Search struct {
	searcher Searcher

	mu   sync.RWMutex
	spec model.SearchSpec
}

// NewSearch creates the strategy for spec.
func NewSearch(spec model.SearchSpec, searcher Searcher) *Search {
	return &Search{searcher: searcher, spec: spec}
}

// Spec returns the current search definition.
func (s *Search) Spec() model.SearchSpec {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.spec
}

// SetSpec replaces the search definition. The id must not change.
func (s *Search) SetSpec(spec model.SearchSpec) {
	s.mu.Lock()
	s.spec = spec
	s.mu.Unlock()
}

func (s *Search) Kind() string { return "search" }

// Fetch never fails; the searcher turns errors into an empty result.
func (s *Search) Fetch(ctx context.Context) ([]model.Item, error) {
	return s.searcher.Search(ctx, s.Spec()), nil
}

func (s *Search) Diff(_ context.Context, c Cycle[model.SeenSet]) []model.Event {
	spec := s.Spec()
	seen := c.Prev.Contains()

	limit := -1
	if len(c.Prev) == 0 {
		limit = FirstRunEventLimit
	}

	var events []model.Event
	for _, it := range c.Current {
		if seen[it.ID] {
			continue
		}
		seen[it.ID] = true
		if limit >= 0 && len(events) >= limit {
			continue
		}
		e := model.NewEvent(model.EventNewSearchResult, spec.Account, it, c.Now)
		e.SearchID = spec.ID
		e.Query = spec.Query
		events = append(events, e)
	}
	return events
}

// Merge appends every newly seen id and keeps the most recent MaxSeenIDs.
func (s *Search) Merge(c Cycle[model.SeenSet]) model.SeenSet {
	seen := c.Prev.Contains()
	next := make(model.SeenSet, len(c.Prev), len(c.Prev)+len(c.Current))
	copy(next, c.Prev)
	for _, it := range c.Current {
		if seen[it.ID] {
			continue
		}
		seen[it.ID] = true
		next = append(next, it.ID)
	}
	if len(next) > MaxSeenIDs {
		next = next[len(next)-MaxSeenIDs:]
	}
	return next
}

func (s *Search) Prune(state model.SeenSet, _ time.Time) model.SeenSet { return state }

func (s *Search) Empty() model.SeenSet { return model.SeenSet{} }

func (s *Search) Sort(items []model.Item) { SortByEndTime(items) }
