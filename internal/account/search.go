package account

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rickgao/auction-watch/internal/model"
	"github.com/rickgao/auction-watch/internal/poller"
	"github.com/rickgao/auction-watch/internal/store"
)

// SearchRequest describes a new saved search.
type SearchRequest struct {
	Account         string           `json:"account"`
	Query           string           `json:"query"`
	Site            string           `json:"site"`
	CategoryID      string           `json:"category_id"`
	MinPrice        *decimal.Decimal `json:"min_price"`
	MaxPrice        *decimal.Decimal `json:"max_price"`
	ListingType     string           `json:"listing_type"`
	IntervalMinutes int              `json:"interval_minutes"`
}

// SearchPatch changes selected fields of a saved search. Nil fields are
// left as they are.
type SearchPatch struct {
	Query           *string          `json:"query"`
	Site            *string          `json:"site"`
	CategoryID      *string          `json:"category_id"`
	MinPrice        *decimal.Decimal `json:"min_price"`
	MaxPrice        *decimal.Decimal `json:"max_price"`
	ListingType     *string          `json:"listing_type"`
	IntervalMinutes *int             `json:"interval_minutes"`
}

func (p SearchPatch) apply(spec model.SearchSpec) (model.SearchSpec, error) {
	if p.Query != nil {
		spec.Query = strings.TrimSpace(*p.Query)
	}
	if p.Site != nil {
		spec.Site = *p.Site
	}
	if p.CategoryID != nil {
		spec.CategoryID = *p.CategoryID
	}
	if p.MinPrice != nil {
		spec.MinPrice = p.MinPrice
	}
	if p.MaxPrice != nil {
		spec.MaxPrice = p.MaxPrice
	}
	if p.ListingType != nil {
		lt, err := model.ParseListingFilter(*p.ListingType)
		if err != nil {
			return spec, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
		spec.ListingType = lt
	}
	if p.IntervalMinutes != nil {
		spec.IntervalMinutes = *p.IntervalMinutes
	}
	if err := spec.Validate(); err != nil {
		return spec, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return spec, nil
}

// LoadSearches restores the persisted saved searches. Call before Start.
func (a *Account) LoadSearches(ctx context.Context) error {
	if a.deps.Store == nil {
		return nil
	}
	blob, err := a.deps.Store.Load(ctx, store.SearchesKey(a.name))
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load searches: %w", err)
	}

	var specs map[string]model.SearchSpec
	if err := json.Unmarshal(blob, &specs); err != nil {
		return fmt.Errorf("decode searches: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	for id, spec := range specs {
		if spec.ID == "" {
			spec.ID = id
		}
		spec.Account = a.name
		if err := spec.Validate(); err != nil {
			a.logger.Warn("skipping invalid saved search", "search_id", id, "err", err)
			continue
		}
		a.searches[spec.ID] = a.newSavedSearch(spec)
	}
	a.logger.Info("restored saved searches", "count", len(a.searches))
	return nil
}

// saveSearches persists every spec. Must be called with mu held.
func (a *Account) saveSearches(ctx context.Context) error {
	if a.deps.Store == nil {
		return nil
	}
	specs := make(map[string]model.SearchSpec, len(a.searches))
	for id, s := range a.searches {
		specs[id] = s.strategy.Spec()
	}
	blob, err := json.Marshal(specs)
	if err != nil {
		return fmt.Errorf("encode searches: %w", err)
	}
	if err := a.deps.Store.Save(ctx, store.SearchesKey(a.name), blob); err != nil {
		return fmt.Errorf("save searches: %w", err)
	}
	return nil
}

func (a *Account) newSavedSearch(spec model.SearchSpec) *savedSearch {
	strategy := poller.NewSearch(spec, a.client)
	cfg := a.pollerConfig(spec.Interval(), store.SearchKey(a.name, spec.ID), "search:"+spec.ID)
	return &savedSearch{strategy: strategy, poller: poller.New(cfg, strategy)}
}

// AddSearch validates req, allocates an id, persists the search and, when
// the account is running, starts its poller.
func (a *Account) AddSearch(ctx context.Context, req SearchRequest) (model.SearchSpec, error) {
	lt, err := model.ParseListingFilter(req.ListingType)
	if err != nil {
		return model.SearchSpec{}, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	site := req.Site
	if site == "" {
		site = a.client.Site()
	}
	spec := model.SearchSpec{
		ID:              uuid.NewString(),
		Account:         a.name,
		Query:           strings.TrimSpace(req.Query),
		Site:            site,
		CategoryID:      req.CategoryID,
		MinPrice:        req.MinPrice,
		MaxPrice:        req.MaxPrice,
		ListingType:     lt,
		IntervalMinutes: req.IntervalMinutes,
		CreatedAt:       a.deps.Now().UTC(),
	}
	if err := spec.Validate(); err != nil {
		return model.SearchSpec{}, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	s := a.newSavedSearch(spec)
	a.searches[spec.ID] = s
	if err := a.saveSearches(ctx); err != nil {
		delete(a.searches, spec.ID)
		return model.SearchSpec{}, err
	}
	if a.runCtx != nil {
		if err := s.poller.Start(a.runCtx); err != nil {
			return spec, fmt.Errorf("start search %s: %w", spec.ID, err)
		}
	}

	a.logger.Info("search created", "search_id", spec.ID, "query", spec.Query)
	return spec, nil
}

// UpdateSearch applies patch, persists it and re-polls immediately with the
// new definition. The id and the seen-set state are kept.
func (a *Account) UpdateSearch(ctx context.Context, id string, patch SearchPatch) (model.SearchSpec, error) {
	a.mu.Lock()
	s, ok := a.searches[id]
	if !ok {
		a.mu.Unlock()
		return model.SearchSpec{}, fmt.Errorf("%w: %s", ErrUnknownSearch, id)
	}
	prev := s.strategy.Spec()
	spec, err := patch.apply(prev)
	if err != nil {
		a.mu.Unlock()
		return model.SearchSpec{}, err
	}
	s.strategy.SetSpec(spec)
	if err := a.saveSearches(ctx); err != nil {
		s.strategy.SetSpec(prev)
		a.mu.Unlock()
		return model.SearchSpec{}, err
	}
	a.mu.Unlock()

	if spec.Interval() != prev.Interval() {
		s.poller.SetInterval(spec.Interval())
	}
	a.logger.Info("search updated", "search_id", id, "query", spec.Query)

	if err := s.poller.Refresh(ctx); err != nil {
		return spec, fmt.Errorf("refresh search %s: %w", id, err)
	}
	return spec, nil
}

// DeleteSearch stops the search poller and removes its spec and state.
func (a *Account) DeleteSearch(ctx context.Context, id string) error {
	a.mu.Lock()
	s, ok := a.searches[id]
	if !ok {
		a.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownSearch, id)
	}
	delete(a.searches, id)
	if err := a.saveSearches(ctx); err != nil {
		a.searches[id] = s
		a.mu.Unlock()
		return err
	}
	a.mu.Unlock()

	if err := s.poller.Stop(ctx); err != nil {
		a.logger.Warn("search poller did not stop cleanly", "search_id", id, "err", err)
	}
	if err := s.poller.Forget(ctx); err != nil {
		return fmt.Errorf("delete search %s state: %w", id, err)
	}
	if f, ok := a.deps.Observer.(seriesForgetter); ok {
		f.Forget(a.name, "search:"+id)
	}

	a.logger.Info("search deleted", "search_id", id)
	return nil
}

// RefreshSearch runs the search now.
func (a *Account) RefreshSearch(ctx context.Context, id string) error {
	s, ok := a.lookupSearch(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSearch, id)
	}
	return s.poller.Refresh(ctx)
}

// SearchView is a saved search with its latest results.
type SearchView struct {
	Spec model.SearchSpec `json:"spec"`
	View
}

// Search returns the saved search and its last results.
func (a *Account) Search(id string) (SearchView, bool) {
	s, ok := a.lookupSearch(id)
	if !ok {
		return SearchView{}, false
	}
	return SearchView{
		Spec: s.strategy.Spec(),
		View: View{Items: s.poller.Items(), Status: s.poller.Status()},
	}, true
}

// HasSearch reports whether id is one of this account's searches.
func (a *Account) HasSearch(id string) bool {
	_, ok := a.lookupSearch(id)
	return ok
}

// Searches returns every saved search, oldest first.
func (a *Account) Searches() []model.SearchSpec {
	list := a.searchList()
	out := make([]model.SearchSpec, len(list))
	for i, s := range list {
		out[i] = s.strategy.Spec()
	}
	return out
}

func (a *Account) lookupSearch(id string) (*savedSearch, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	s, ok := a.searches[id]
	return s, ok
}
