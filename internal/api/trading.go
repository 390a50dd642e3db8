package api

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const (
	// listPageSize is the Trading API maximum entries per page.
	listPageSize = 200

	// maxListPages bounds pagination per list.
	maxListPages = 10

	// errCodeInvalidToken is returned when the user token is invalid or expired.
	errCodeInvalidToken = "931"
)

// ErrNoUserToken is returned by account calls when no user token is set.
var ErrNoUserToken = errors.New("no user token configured")

// TradingError is an Ack=Failure response from the Trading API.
type TradingError struct {
	Call         string
	Code         string
	ShortMessage string
	LongMessage  string
}

func (e *TradingError) Error() string {
	msg := e.LongMessage
	if msg == "" {
		msg = e.ShortMessage
	}
	return fmt.Sprintf("%s failed: %s (code %s)", e.Call, msg, e.Code)
}

// IsInvalidToken reports whether the user token was rejected.
func (e *TradingError) IsInvalidToken() bool {
	return e.Code == errCodeInvalidToken
}

// listKind selects one of the My eBay buying lists.
type listKind string

const (
	listBids     listKind = "BidList"
	listWatch    listKind = "WatchList"
	listPurchase listKind = "WonList"
)

type tradingResponse interface {
	envelope() *tradingEnvelope
}

func (e *tradingEnvelope) envelope() *tradingEnvelope { return e }

// failure returns the first error when Ack is Failure. Warnings are ignored.
func (e *tradingEnvelope) failure(call string) error {
	if !strings.EqualFold(e.Ack, "Failure") {
		return nil
	}
	te := &TradingError{Call: call}
	if len(e.Errors) > 0 {
		te.Code = e.Errors[0].ErrorCode
		te.ShortMessage = e.Errors[0].ShortMessage
		te.LongMessage = e.Errors[0].LongMessage
	}
	return te
}

// callTrading posts an XML request and decodes the response into out.
func (c *Client) callTrading(ctx context.Context, call string, in any, out tradingResponse) error {
	payload, err := xml.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", call, err)
	}
	body := append([]byte(xml.Header), payload...)

	raw, err := c.doWithRetry(ctx, request{
		surface: SurfaceTrading,
		method:  http.MethodPost,
		url:     c.endpoints.Trading,
		header:  c.creds.TradingHeaders(call, TradingSiteID(c.site)),
		body:    body,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", call, err)
	}

	if err := xml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("unmarshal %s response: %w", call, err)
	}
	return out.envelope().failure(call)
}

// resolveIdentity returns the authenticated username, calling GetUser the
// first time. Failures are logged and retried on the next call; until then
// the empty string is returned.
func (c *Client) resolveIdentity(ctx context.Context) string {
	if id, ok := c.Identity(); ok {
		return id
	}

	var resp getUserResponse
	err := c.callTrading(ctx, "GetUser", getUserRequest{
		Credentials: requesterCredentials{Token: c.creds.UserToken},
	}, &resp)
	if err == nil && resp.User.UserID == "" {
		err = errors.New("GetUser returned no UserID")
	}
	if err != nil {
		var te *TradingError
		if errors.As(err, &te) && te.IsInvalidToken() {
			c.logger.Error("user token rejected, renew it in the developer portal", "err", err)
		} else {
			c.logger.Warn("identity lookup failed, high bidder unknown until next poll", "err", err)
		}
		return ""
	}

	c.identityMu.Lock()
	c.identity = resp.User.UserID
	c.identityMu.Unlock()

	c.logger.Info("resolved account identity", "user", resp.User.UserID)
	return resp.User.UserID
}

// fetchList returns every page of one buying list, up to maxListPages.
func (c *Client) fetchList(ctx context.Context, kind listKind) ([]*getMyeBayBuyingResponse, error) {
	var pages []*getMyeBayBuyingResponse

	for page := 1; page <= maxListPages; page++ {
		req := getMyeBayBuyingRequest{
			Credentials: requesterCredentials{Token: c.creds.UserToken},
			DetailLevel: "ReturnAll",
		}
		sel := &listSelector{
			Include:    true,
			Pagination: pagination{EntriesPerPage: listPageSize, PageNumber: page},
		}
		switch kind {
		case listBids:
			req.BidList = sel
		case listWatch:
			req.WatchList = sel
		case listPurchase:
			req.WonList = sel
		}

		resp := &getMyeBayBuyingResponse{}
		if err := c.callTrading(ctx, "GetMyeBayBuying", req, resp); err != nil {
			return nil, fmt.Errorf("fetch %s page %d: %w", kind, page, err)
		}
		pages = append(pages, resp)

		total := resp.totalPages(kind)
		if page >= total {
			break
		}
		if page == maxListPages {
			c.logger.Warn("list truncated at page limit",
				"list", string(kind),
				"pages", total,
				"limit", maxListPages,
			)
		}
	}

	return pages, nil
}

func (r *getMyeBayBuyingResponse) totalPages(kind listKind) int {
	switch kind {
	case listBids:
		if r.BidList != nil {
			return r.BidList.Pagination.TotalNumberOfPages
		}
	case listWatch:
		if r.WatchList != nil {
			return r.WatchList.Pagination.TotalNumberOfPages
		}
	case listPurchase:
		if r.WonList != nil {
			return r.WonList.Pagination.TotalNumberOfPages
		}
	}
	return 0
}
