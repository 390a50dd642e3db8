package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rickgao/auction-watch/internal/config"
	"github.com/rickgao/auction-watch/internal/model"
	"github.com/rickgao/auction-watch/internal/poller"
)

// Manager owns every configured account and implements the operator
// actions. An empty account name in an action means every account.
type Manager struct {
	logger   *slog.Logger
	accounts []*Account
	byName   map[string]*Account
}

// NewManager creates a manager over accounts, in the given order.
func NewManager(logger *slog.Logger, accounts ...*Account) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		logger:   logger,
		accounts: accounts,
		byName:   make(map[string]*Account, len(accounts)),
	}
	for _, a := range accounts {
		m.byName[a.Name()] = a
	}
	return m
}

// Accounts returns the managed accounts.
func (m *Manager) Accounts() []*Account {
	return m.accounts
}

// Account returns the named account.
func (m *Manager) Account(name string) (*Account, error) {
	a, ok := m.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAccount, name)
	}
	return a, nil
}

func (m *Manager) resolve(name string) ([]*Account, error) {
	if name == "" {
		return m.accounts, nil
	}
	a, err := m.Account(name)
	if err != nil {
		return nil, err
	}
	return []*Account{a}, nil
}

// Start restores saved searches, creates configured seed searches and
// launches every account.
func (m *Manager) Start(ctx context.Context, seeds []config.SearchConfig) error {
	for _, a := range m.accounts {
		if err := a.LoadSearches(ctx); err != nil {
			// Keep polling activity even if the search list is unreadable.
			m.logger.Error("failed to restore searches", "account", a.Name(), "err", err)
		}
	}
	if err := m.Seed(ctx, seeds); err != nil {
		m.logger.Warn("some seed searches were not created", "err", err)
	}
	for _, a := range m.accounts {
		if err := a.Start(ctx); err != nil {
			return fmt.Errorf("start account %s: %w", a.Name(), err)
		}
	}
	m.logger.Info("accounts started", "count", len(m.accounts))
	return nil
}

// Stop stops every account.
func (m *Manager) Stop(ctx context.Context) error {
	var errs []error
	for _, a := range m.accounts {
		if err := a.Stop(ctx); err != nil {
			errs = append(errs, fmt.Errorf("stop account %s: %w", a.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// Seed creates the configured searches that do not exist yet. A seed
// matches an existing search by account and query, ignoring case.
func (m *Manager) Seed(ctx context.Context, seeds []config.SearchConfig) error {
	var errs []error
	for _, sc := range seeds {
		a, err := m.Account(sc.Account)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if a.hasQuery(sc.Query) {
			continue
		}
		req, err := seedRequest(sc)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		spec, err := a.AddSearch(ctx, req)
		if err != nil {
			errs = append(errs, fmt.Errorf("seed search %q: %w", sc.Query, err))
			continue
		}
		m.logger.Info("seeded search", "account", a.Name(), "search_id", spec.ID, "query", spec.Query)
	}
	return errors.Join(errs...)
}

func seedRequest(sc config.SearchConfig) (SearchRequest, error) {
	req := SearchRequest{
		Account:         sc.Account,
		Query:           sc.Query,
		Site:            sc.Site,
		CategoryID:      sc.CategoryID,
		ListingType:     sc.ListingType,
		IntervalMinutes: sc.IntervalMinutes,
	}
	var err error
	if req.MinPrice, err = parsePrice(sc.MinPrice); err != nil {
		return req, fmt.Errorf("seed search %q min_price: %w", sc.Query, err)
	}
	if req.MaxPrice, err = parsePrice(sc.MaxPrice); err != nil {
		return req, fmt.Errorf("seed search %q max_price: %w", sc.Query, err)
	}
	return req, nil
}

func parsePrice(s string) (*decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return &d, nil
}

func (a *Account) hasQuery(query string) bool {
	query = strings.TrimSpace(query)
	for _, spec := range a.Searches() {
		if strings.EqualFold(spec.Query, query) {
			return true
		}
	}
	return false
}

// RefreshBids refreshes the bids poller of one account, or all of them.
func (m *Manager) RefreshBids(ctx context.Context, account string) error {
	return m.refreshDomain(ctx, account, DomainBids)
}

// RefreshWatchlist refreshes the watchlist poller of one account, or all.
func (m *Manager) RefreshWatchlist(ctx context.Context, account string) error {
	return m.refreshDomain(ctx, account, DomainWatchlist)
}

// RefreshPurchases refreshes the purchases poller of one account, or all.
func (m *Manager) RefreshPurchases(ctx context.Context, account string) error {
	return m.refreshDomain(ctx, account, DomainPurchases)
}

func (m *Manager) refreshDomain(ctx context.Context, account, domain string) error {
	accounts, err := m.resolve(account)
	if err != nil {
		return err
	}
	var errs []error
	for _, a := range accounts {
		if err := a.Refresh(ctx, domain); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RefreshAccount refreshes every poller of the named account.
func (m *Manager) RefreshAccount(ctx context.Context, account string) error {
	if account == "" {
		return fmt.Errorf("%w: account is required", ErrInvalidArgument)
	}
	a, err := m.Account(account)
	if err != nil {
		return err
	}
	return a.RefreshAll(ctx)
}

// RefreshAll refreshes every poller of every account.
func (m *Manager) RefreshAll(ctx context.Context) error {
	var errs []error
	for _, a := range m.accounts {
		if err := a.RefreshAll(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RefreshSearch runs one saved search now.
func (m *Manager) RefreshSearch(ctx context.Context, id string) error {
	a, err := m.searchOwner(id)
	if err != nil {
		return err
	}
	return a.RefreshSearch(ctx, id)
}

// RateLimits returns the usage report of one account, or all.
func (m *Manager) RateLimits(ctx context.Context, account string) ([]RateLimits, error) {
	accounts, err := m.resolve(account)
	if err != nil {
		return nil, err
	}
	out := make([]RateLimits, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, a.RateLimits(ctx))
	}
	return out, nil
}

// ResetRateLimits zeroes local usage counters of one account, or all.
func (m *Manager) ResetRateLimits(account string) error {
	accounts, err := m.resolve(account)
	if err != nil {
		return err
	}
	for _, a := range accounts {
		a.ResetRateLimits()
	}
	return nil
}

// CreateSearch adds a saved search. The account may be omitted when only
// one is configured.
func (m *Manager) CreateSearch(ctx context.Context, req SearchRequest) (model.SearchSpec, error) {
	if req.Account == "" && len(m.accounts) == 1 {
		req.Account = m.accounts[0].Name()
	}
	if req.Account == "" {
		return model.SearchSpec{}, fmt.Errorf("%w: account is required", ErrInvalidArgument)
	}
	a, err := m.Account(req.Account)
	if err != nil {
		return model.SearchSpec{}, err
	}
	return a.AddSearch(ctx, req)
}

// UpdateSearch edits a saved search and re-polls it.
func (m *Manager) UpdateSearch(ctx context.Context, id string, patch SearchPatch) (model.SearchSpec, error) {
	a, err := m.searchOwner(id)
	if err != nil {
		return model.SearchSpec{}, err
	}
	return a.UpdateSearch(ctx, id, patch)
}

// DeleteSearch removes a saved search and its state.
func (m *Manager) DeleteSearch(ctx context.Context, id string) error {
	a, err := m.searchOwner(id)
	if err != nil {
		return err
	}
	return a.DeleteSearch(ctx, id)
}

// Search returns a saved search with its last results.
func (m *Manager) Search(id string) (SearchView, error) {
	a, err := m.searchOwner(id)
	if err != nil {
		return SearchView{}, err
	}
	v, ok := a.Search(id)
	if !ok {
		return SearchView{}, fmt.Errorf("%w: %s", ErrUnknownSearch, id)
	}
	return v, nil
}

// Searches lists the saved searches of one account, or all.
func (m *Manager) Searches(account string) ([]model.SearchSpec, error) {
	accounts, err := m.resolve(account)
	if err != nil {
		return nil, err
	}
	var out []model.SearchSpec
	for _, a := range accounts {
		out = append(out, a.Searches()...)
	}
	return out, nil
}

// View returns the last results of an account's activity domain.
func (m *Manager) View(account, domain string) (View, error) {
	a, err := m.Account(account)
	if err != nil {
		return View{}, err
	}
	return a.View(domain)
}

// Statuses returns the status of every poller.
func (m *Manager) Statuses() []poller.Status {
	var out []poller.Status
	for _, a := range m.accounts {
		out = append(out, a.Statuses()...)
	}
	return out
}

func (m *Manager) searchOwner(id string) (*Account, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: search_id is required", ErrInvalidArgument)
	}
	for _, a := range m.accounts {
		if a.HasSearch(id) {
			return a, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownSearch, id)
}
