package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rickgao/auction-watch/internal/model"
)

// searchPageSize is the Browse API maximum.
const searchPageSize = 200

// Search runs a saved search against the Browse API.
//
// Search fails softly: any token, transport, or decode error is logged and
// yields an empty result, so a marketplace outage never stops the poller.
// Malformed individual items are skipped.
func (c *Client) Search(ctx context.Context, spec model.SearchSpec) []model.Item {
	items, err := c.search(ctx, spec)
	if err != nil {
		c.logger.Warn("search failed",
			"search_id", spec.ID,
			"query", spec.Query,
			"err", err,
		)
		return []model.Item{}
	}
	return items
}

func (c *Client) search(ctx context.Context, spec model.SearchSpec) ([]model.Item, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("get oauth token: %w", err)
	}

	site := spec.Site
	if site == "" {
		site = c.site
	}
	marketplace := MarketplaceID(site)

	var resp BrowseSearchResponse
	err = c.getJSON(ctx, request{
		surface: SurfaceBrowse,
		url:     c.endpoints.Browse,
		query:   searchQuery(spec, marketplace),
		header: map[string]string{
			"Authorization":           "Bearer " + token,
			"X-EBAY-C-MARKETPLACE-ID": marketplace,
		},
	}, &resp)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			c.tokens.Invalidate()
		}
		return nil, fmt.Errorf("browse search: %w", err)
	}

	now := c.now()
	items := make([]model.Item, 0, len(resp.ItemSummaries))
	for i := range resp.ItemSummaries {
		item, err := resp.ItemSummaries[i].ToModel(now)
		if err != nil {
			c.logger.Debug("skipping search result", "search_id", spec.ID, "err", err)
			continue
		}
		items = append(items, item)
	}

	c.logger.Debug("search complete",
		"search_id", spec.ID,
		"query", spec.Query,
		"total", resp.Total,
		"items", len(items),
	)
	return items, nil
}

// searchQuery builds the Browse query string for a search.
func searchQuery(spec model.SearchSpec, marketplace string) url.Values {
	q := url.Values{}
	q.Set("q", spec.Query)
	q.Set("limit", fmt.Sprint(searchPageSize))
	if spec.CategoryID != "" {
		q.Set("category_ids", spec.CategoryID)
	}

	var filters []string
	if spec.MinPrice != nil || spec.MaxPrice != nil {
		var lo, hi string
		if spec.MinPrice != nil {
			lo = spec.MinPrice.String()
		}
		if spec.MaxPrice != nil {
			hi = spec.MaxPrice.String()
		}
		filters = append(filters,
			fmt.Sprintf("price:[%s..%s]", lo, hi),
			"priceCurrency:"+SearchCurrency(marketplace),
		)
	}

	switch spec.ListingType {
	case model.FilterAuction:
		filters = append(filters, "buyingOptions:{AUCTION}")
	case model.FilterFixedPrice:
		filters = append(filters, "buyingOptions:{FIXED_PRICE}")
	default:
		filters = append(filters, "buyingOptions:{AUCTION|FIXED_PRICE}")
	}

	q.Set("filter", strings.Join(filters, ","))
	return q
}
