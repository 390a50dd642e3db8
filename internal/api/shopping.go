package api

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rickgao/auction-watch/internal/model"
)

// ListingStatus is the Shopping API lifecycle state of a listing.
type ListingStatus string

const (
	StatusActive            ListingStatus = "Active"
	StatusCompleted         ListingStatus = "Completed"
	StatusEnded             ListingStatus = "Ended"
	StatusEndedWithSales    ListingStatus = "EndedWithSales"
	StatusEndedWithoutSales ListingStatus = "EndedWithoutSales"
	StatusCancelled         ListingStatus = "Cancelled"
)

// Concluded reports whether the auction genuinely ended.
func (s ListingStatus) Concluded() bool {
	switch s {
	case StatusCompleted, StatusEnded, StatusEndedWithSales, StatusEndedWithoutSales:
		return true
	}
	return false
}

// NotEnded reports whether the listing is known not to have reached an
// auction end: still running, or withdrawn by the seller.
func (s ListingStatus) NotEnded() bool {
	return s == StatusActive || s == StatusCancelled
}

// ItemDetail is the authoritative view of a single listing.
type ItemDetail struct {
	ID         string        `json:"id"`
	Title      string        `json:"title"`
	Status     ListingStatus `json:"listing_status"`
	EndTime    *time.Time    `json:"end_time,omitempty"`
	Price      model.Money   `json:"price"`
	HighBidder string        `json:"high_bidder,omitempty"`
}

// FetchItem looks up one listing via the Shopping API. It returns false on
// any failure; callers must have a fallback.
func (c *Client) FetchItem(ctx context.Context, id string) (ItemDetail, bool) {
	d, err := c.fetchItem(ctx, id)
	if err != nil {
		c.logger.Warn("item lookup failed", "item_id", id, "err", err)
		return ItemDetail{}, false
	}
	return d, true
}

func (c *Client) fetchItem(ctx context.Context, id string) (ItemDetail, error) {
	q := url.Values{}
	q.Set("callname", "GetSingleItem")
	q.Set("responseencoding", "JSON")
	q.Set("appid", c.creds.AppID)
	q.Set("siteid", TradingSiteID(c.site))
	q.Set("version", "967")
	q.Set("ItemID", id)
	q.Set("IncludeSelector", "Details")

	header := map[string]string{}
	if tok, err := c.tokens.Token(ctx); err == nil {
		header["X-EBAY-API-IAF-TOKEN"] = tok
	}

	var resp GetSingleItemResponse
	if err := c.getJSON(ctx, request{
		surface: SurfaceShopping,
		url:     c.endpoints.Shopping,
		query:   q,
		header:  header,
	}, &resp); err != nil {
		return ItemDetail{}, fmt.Errorf("get single item: %w", err)
	}

	if strings.EqualFold(resp.Ack, "Failure") || resp.Item == nil {
		msg := "no item in response"
		if len(resp.Errors) > 0 {
			msg = fmt.Sprintf("%s (code %s)", resp.Errors[0].ShortMessage, resp.Errors[0].ErrorCode)
		}
		return ItemDetail{}, fmt.Errorf("get single item %s: %s", id, msg)
	}

	it := resp.Item
	if strings.TrimSpace(it.ListingStatus) == "" {
		return ItemDetail{}, fmt.Errorf("get single item %s: no listing status", id)
	}
	d := ItemDetail{
		ID:      it.ItemID,
		Title:   it.Title,
		Status:  ListingStatus(it.ListingStatus),
		EndTime: ParseTimestamp(it.EndTime),
	}
	if d.ID == "" {
		d.ID = id
	}
	if it.CurrentPrice != nil {
		d.Price = model.Money{Amount: it.CurrentPrice.Value, Currency: it.CurrentPrice.CurrencyID}
	}
	switch {
	case it.HighBidder != nil && it.HighBidder.UserID != "":
		d.HighBidder = it.HighBidder.UserID
	case it.SellingStatus != nil && it.SellingStatus.HighBidder != nil:
		d.HighBidder = it.SellingStatus.HighBidder.UserID
	}

	return d, nil
}
