package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rickgao/auction-watch/internal/account"
	"github.com/rickgao/auction-watch/internal/model"
	"github.com/rickgao/auction-watch/internal/poller"
)

//go:generate mockgen -source=handler.go -destination=mock_actions_test.go -package=server

// Actions is the operator surface of the account manager.
type Actions interface {
	RefreshBids(ctx context.Context, account string) error
	RefreshWatchlist(ctx context.Context, account string) error
	RefreshPurchases(ctx context.Context, account string) error
	RefreshSearch(ctx context.Context, id string) error
	RefreshAccount(ctx context.Context, account string) error
	RefreshAll(ctx context.Context) error
	RateLimits(ctx context.Context, account string) ([]account.RateLimits, error)
	ResetRateLimits(account string) error
	CreateSearch(ctx context.Context, req account.SearchRequest) (model.SearchSpec, error)
	UpdateSearch(ctx context.Context, id string, patch account.SearchPatch) (model.SearchSpec, error)
	DeleteSearch(ctx context.Context, id string) error
	View(account, domain string) (account.View, error)
	Search(id string) (account.SearchView, error)
	Searches(account string) ([]model.SearchSpec, error)
	Statuses() []poller.Status
}

// EventLog returns recently published events.
type EventLog interface {
	Recent(n int, account string) []model.Event
}

// accountRequest is the body of the per-account services.
type accountRequest struct {
	Account string `json:"account"`
}

// searchRequest is the body of the per-search services.
type searchRequest struct {
	SearchID string `json:"search_id" binding:"required"`
}

type updateSearchRequest struct {
	SearchID string `json:"search_id" binding:"required"`
	account.SearchPatch
}

const defaultEventLimit = 50

// Handler serves the operator API.
type Handler struct {
	actions  Actions
	events   EventLog
	logger   *slog.Logger
	services map[string]gin.HandlerFunc
}

// NewHandler creates a handler. events may be nil.
func NewHandler(actions Actions, events EventLog, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{actions: actions, events: events, logger: logger}
	h.services = map[string]gin.HandlerFunc{
		"refresh_bids":      h.refreshDomain("refresh_bids", actions.RefreshBids),
		"refresh_watchlist": h.refreshDomain("refresh_watchlist", actions.RefreshWatchlist),
		"refresh_purchases": h.refreshDomain("refresh_purchases", actions.RefreshPurchases),
		"refresh_account":   h.refreshDomain("refresh_account", actions.RefreshAccount),
		"refresh_search":    h.refreshSearch,
		"refresh_all":       h.refreshAll,
		"get_rate_limits":   h.rateLimits,
		"reset_rate_limits": h.resetRateLimits,
		"create_search":     h.createSearch,
		"update_search":     h.updateSearch,
		"delete_search":     h.deleteSearch,
	}
	return h
}

// Services returns the names of the callable services.
func (h *Handler) Services() []string {
	out := make([]string, 0, len(h.services))
	for name := range h.services {
		out = append(out, name)
	}
	return out
}

// CallService handles POST /api/services/:name
func (h *Handler) CallService(c *gin.Context) {
	name := c.Param("name")
	svc, ok := h.services[name]
	if !ok {
		JSONError(c, http.StatusNotFound, errors.New("unknown service "+name), "service not found")
		return
	}
	svc(c)
}

// bindOptional binds a JSON body when one is present.
func bindOptional(c *gin.Context, obj any) error {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return nil
	}
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (h *Handler) refreshDomain(service string, refresh func(context.Context, string) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req accountRequest
		if err := bindOptional(c, &req); err != nil {
			handleBindError(c, h.logger, service, err)
			return
		}
		if err := refresh(c.Request.Context(), req.Account); err != nil {
			respondError(c, h.logger, service, err)
			return
		}
		JSONResponse(c, http.StatusOK, nil, "refreshed")
		h.logger.Info("service called", "service", service, "account", req.Account)
	}
}

func (h *Handler) refreshSearch(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindError(c, h.logger, "refresh_search", err)
		return
	}
	if err := h.actions.RefreshSearch(c.Request.Context(), req.SearchID); err != nil {
		respondError(c, h.logger, "refresh_search", err)
		return
	}
	JSONResponse(c, http.StatusOK, nil, "refreshed")
	h.logger.Info("service called", "service", "refresh_search", "search_id", req.SearchID)
}

func (h *Handler) refreshAll(c *gin.Context) {
	if err := h.actions.RefreshAll(c.Request.Context()); err != nil {
		respondError(c, h.logger, "refresh_all", err)
		return
	}
	JSONResponse(c, http.StatusOK, nil, "refreshed")
	h.logger.Info("service called", "service", "refresh_all")
}

func (h *Handler) rateLimits(c *gin.Context) {
	var req accountRequest
	if err := bindOptional(c, &req); err != nil {
		handleBindError(c, h.logger, "get_rate_limits", err)
		return
	}
	limits, err := h.actions.RateLimits(c.Request.Context(), req.Account)
	if err != nil {
		respondError(c, h.logger, "get_rate_limits", err)
		return
	}
	JSONResponse(c, http.StatusOK, limits, "rate limits retrieved")
}

func (h *Handler) resetRateLimits(c *gin.Context) {
	var req accountRequest
	if err := bindOptional(c, &req); err != nil {
		handleBindError(c, h.logger, "reset_rate_limits", err)
		return
	}
	if err := h.actions.ResetRateLimits(req.Account); err != nil {
		respondError(c, h.logger, "reset_rate_limits", err)
		return
	}
	JSONResponse(c, http.StatusOK, nil, "usage counters reset")
	h.logger.Info("service called", "service", "reset_rate_limits", "account", req.Account)
}

func (h *Handler) createSearch(c *gin.Context) {
	var req account.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindError(c, h.logger, "create_search", err)
		return
	}
	spec, err := h.actions.CreateSearch(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, "create_search", err)
		return
	}
	JSONResponse(c, http.StatusCreated, spec, "search created")
	h.logger.Info("service called", "service", "create_search", "search_id", spec.ID, "query", spec.Query)
}

func (h *Handler) updateSearch(c *gin.Context) {
	var req updateSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindError(c, h.logger, "update_search", err)
		return
	}
	spec, err := h.actions.UpdateSearch(c.Request.Context(), req.SearchID, req.SearchPatch)
	if err != nil {
		respondError(c, h.logger, "update_search", err)
		return
	}
	JSONResponse(c, http.StatusOK, spec, "search updated")
	h.logger.Info("service called", "service", "update_search", "search_id", spec.ID)
}

func (h *Handler) deleteSearch(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindError(c, h.logger, "delete_search", err)
		return
	}
	if err := h.actions.DeleteSearch(c.Request.Context(), req.SearchID); err != nil {
		respondError(c, h.logger, "delete_search", err)
		return
	}
	JSONResponse(c, http.StatusOK, nil, "search deleted")
	h.logger.Info("service called", "service", "delete_search", "search_id", req.SearchID)
}

// GetDomain handles GET /api/accounts/:account/:domain
func (h *Handler) GetDomain(c *gin.Context) {
	v, err := h.actions.View(c.Param("account"), c.Param("domain"))
	if err != nil {
		respondError(c, h.logger, "view", err)
		return
	}
	JSONResponse(c, http.StatusOK, v, "items retrieved")
}

// ListSearches handles GET /api/searches
func (h *Handler) ListSearches(c *gin.Context) {
	list, err := h.actions.Searches(c.Query("account"))
	if err != nil {
		respondError(c, h.logger, "searches", err)
		return
	}
	if list == nil {
		list = []model.SearchSpec{}
	}
	JSONResponse(c, http.StatusOK, list, "searches retrieved")
}

// GetSearch handles GET /api/searches/:id
func (h *Handler) GetSearch(c *gin.Context) {
	v, err := h.actions.Search(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "search", err)
		return
	}
	JSONResponse(c, http.StatusOK, v, "search retrieved")
}

// GetStatus handles GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	JSONResponse(c, http.StatusOK, h.actions.Statuses(), "pollers retrieved")
}

// GetEvents handles GET /api/events?limit=&account=
func (h *Handler) GetEvents(c *gin.Context) {
	limit := defaultEventLimit
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			JSONError(c, http.StatusBadRequest, errors.New("limit must be a positive integer"), "invalid argument")
			return
		}
		limit = n
	}

	events := []model.Event{}
	if h.events != nil {
		events = h.events.Recent(limit, c.Query("account"))
	}
	JSONResponse(c, http.StatusOK, events, "events retrieved")
}
