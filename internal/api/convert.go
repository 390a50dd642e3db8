package api

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rickgao/auction-watch/internal/model"
)

// ParseAmount converts a decimal string and currency to model.Money.
// An empty value is a zero amount. Currency defaults to GBP.
func ParseAmount(value, currency string) (model.Money, error) {
	if currency == "" {
		currency = "GBP"
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return model.Money{Amount: decimal.Zero, Currency: currency}, nil
	}

	d, err := decimal.NewFromString(value)
	if err != nil {
		return model.Money{}, fmt.Errorf("parse amount %q: %w", value, err)
	}
	return model.Money{Amount: d, Currency: currency}, nil
}

// ParseTimestamp parses an ISO 8601 timestamp. Returns nil for empty or
// invalid input.
func ParseTimestamp(iso string) *time.Time {
	iso = strings.TrimSpace(iso)
	if iso == "" {
		return nil
	}

	layouts := []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05"}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, iso); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

func atoiDefault(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func parseFloatDefault(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

// BuyingOptionsKind maps Browse buyingOptions to a listing kind. Listings
// offering both formats are auctions.
func BuyingOptionsKind(options []string) model.ListingKind {
	var auction, fixed bool
	for _, o := range options {
		switch strings.ToUpper(o) {
		case "AUCTION":
			auction = true
		case "FIXED_PRICE", "BUY_NOW":
			fixed = true
		}
	}
	switch {
	case auction:
		return model.KindAuction
	case fixed:
		return model.KindFixedPrice
	default:
		return model.KindUnknown
	}
}

// ListingTypeKind maps a Trading API ListingType to a listing kind.
func ListingTypeKind(listingType string) model.ListingKind {
	switch listingType {
	case "Chinese", "Auction":
		return model.KindAuction
	case "FixedPriceItem", "StoresFixedPrice":
		return model.KindFixedPrice
	default:
		return model.KindUnknown
	}
}

// selectBrowsePrice picks price, then current bid, then starting bid. The
// pre-conversion amount is preferred when the seller priced in GBP or EUR.
func selectBrowsePrice(it *BrowseItem) (model.Money, error) {
	amt := it.Price
	if amt == nil || isZeroString(amt.Value) {
		switch {
		case it.CurrentBidPrice != nil:
			amt = it.CurrentBidPrice
		case it.StartingBid != nil:
			amt = it.StartingBid
		}
	}
	if amt == nil {
		return ParseAmount("", "")
	}

	if amt.ConvertedFromValue != "" && (amt.ConvertedFromCurrency == "GBP" || amt.ConvertedFromCurrency == "EUR") {
		return ParseAmount(amt.ConvertedFromValue, amt.ConvertedFromCurrency)
	}
	return ParseAmount(amt.Value, amt.Currency)
}

func isZeroString(v string) bool {
	d, err := decimal.NewFromString(strings.TrimSpace(v))
	return err != nil || d.IsZero()
}

// ToModel converts a Browse item summary to model.Item.
func (it *BrowseItem) ToModel(now time.Time) (model.Item, error) {
	if it.ItemID == "" {
		return model.Item{}, fmt.Errorf("item has no itemId")
	}

	price, err := selectBrowsePrice(it)
	if err != nil {
		return model.Item{}, fmt.Errorf("item %s: %w", it.ItemID, err)
	}

	item := model.Item{
		ID:    it.ItemID,
		Title: it.Title,
		Price: price,
		Kind:  BuyingOptionsKind(it.BuyingOptions),
		Seller: model.Seller{
			Username:        it.Seller.Username,
			FeedbackScore:   it.Seller.FeedbackScore,
			PositivePercent: parseFloatDefault(it.Seller.FeedbackPercentage),
			Location:        it.location(),
		},
		EndTime:     ParseTimestamp(it.ItemEndDate),
		BidCount:    it.BidCount,
		URL:         it.ItemWebURL,
		LastUpdated: now,
	}

	if it.Image != nil && it.Image.ImageURL != "" {
		item.ImageURL = it.Image.ImageURL
	} else if len(it.ThumbnailImages) > 0 {
		item.ImageURL = it.ThumbnailImages[0].ImageURL
	}

	return item, nil
}

// location joins the non-empty parts of itemLocation, e.g. "Leeds, GB".
func (it *BrowseItem) location() string {
	if it.ItemLocation == nil {
		return ""
	}
	var parts []string
	for _, p := range []string{it.ItemLocation.City, it.ItemLocation.Country} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// toItem converts the fields shared by bid and watch list entries.
func (x *tradingItemXML) toItem(now time.Time) (model.Item, error) {
	if x.ItemID == "" {
		return model.Item{}, fmt.Errorf("item has no ItemID")
	}

	price, err := x.currentPrice()
	if err != nil {
		return model.Item{}, fmt.Errorf("item %s: %w", x.ItemID, err)
	}

	item := model.Item{
		ID:    x.ItemID,
		Title: x.Title,
		Price: price,
		Kind:  ListingTypeKind(x.ListingType),
		Seller: model.Seller{
			Username:        x.Seller.UserID,
			FeedbackScore:   atoiDefault(x.Seller.FeedbackScore),
			PositivePercent: parseFloatDefault(x.Seller.PositiveFeedbackPercent),
			Location:        strings.TrimSpace(x.Location),
		},
		EndTime:     ParseTimestamp(x.ListingDetails.EndTime),
		URL:         x.ListingDetails.ViewItemURL,
		LastUpdated: now,
	}
	if len(x.PictureDetails.PictureURL) > 0 {
		item.ImageURL = x.PictureDetails.PictureURL[0]
	}
	return item, nil
}

func (x *tradingItemXML) currentPrice() (model.Money, error) {
	if p := x.SellingStatus.CurrentPrice; p != nil && p.Value != "" {
		return ParseAmount(p.Value, p.Currency)
	}
	if p := x.SellingStatus.ConvertedCurrentPrice; p != nil && p.Value != "" {
		return ParseAmount(p.Value, p.Currency)
	}
	return ParseAmount("", "")
}

// ToBid converts a BidList entry. identity is the authenticated username;
// when empty the item is never reported as high bidder.
func (x *tradingItemXML) ToBid(identity string, now time.Time) (model.Item, error) {
	item, err := x.toItem(now)
	if err != nil {
		return item, err
	}

	bidder := x.SellingStatus.HighBidder.UserID
	item.HighBidder = identity != "" && bidder != "" && strings.EqualFold(bidder, identity)
	item.BidCount = atoiDefault(x.SellingStatus.BidCount)

	reserve := x.ReserveMet
	if reserve == "" {
		reserve = x.SellingStatus.ReserveMet
	}
	if reserve != "" {
		met := strings.EqualFold(reserve, "true")
		item.ReserveMet = &met
	}
	if item.Kind == model.KindUnknown {
		item.Kind = model.KindAuction
	}
	return item, nil
}

// ToWatch converts a WatchList entry.
func (x *tradingItemXML) ToWatch(now time.Time) (model.Item, error) {
	item, err := x.toItem(now)
	if err != nil {
		return item, err
	}
	item.Watchers = atoiDefault(x.WatchCount)
	return item, nil
}

// ToPurchase converts a WonList order transaction.
func (o *orderTransactionXML) ToPurchase(now time.Time) (model.Item, error) {
	txn := o.Transaction
	if txn == nil {
		return model.Item{}, fmt.Errorf("order transaction has no Transaction")
	}

	item, err := txn.Item.toItem(now)
	if err != nil {
		return item, err
	}
	// Purchased items have no countdown.
	item.EndTime = nil

	price, err := txn.price()
	if err != nil {
		return model.Item{}, fmt.Errorf("item %s: %w", item.ID, err)
	}
	if !price.IsZero() || item.Price.IsZero() {
		item.Price = price
	}

	item.PurchasedAt = ParseTimestamp(txn.CreatedDate)
	if item.PurchasedAt == nil {
		item.PurchasedAt = ParseTimestamp(txn.PaidTime)
	}

	item.ShippingStatus, item.TrackingNumber = o.shipping()
	return item, nil
}

func (t *transactionXML) price() (model.Money, error) {
	for _, p := range []*amountXML{t.TransactionPrice, t.ActualPrice, t.TotalPrice} {
		if p != nil && strings.TrimSpace(p.Value) != "" {
			return ParseAmount(p.Value, p.Currency)
		}
	}
	return ParseAmount("", "")
}

// shipping infers the shipping status from the order, the transaction
// status, a tracking number, or a shipped timestamp, in that order.
func (o *orderTransactionXML) shipping() (model.ShippingStatus, string) {
	status := model.ShippingPending
	var tracking string

	if o.Order != nil {
		s := strings.ToLower(o.Order.OrderStatus)
		switch {
		case strings.Contains(s, "ship"):
			status = model.ShippingShipped
		case strings.Contains(s, "deliver"), strings.Contains(s, "complete"):
			status = model.ShippingDelivered
		case strings.Contains(s, "active"):
			status = model.ShippingShipped
		}

		tracking = o.Order.ShippingDetails.ShipmentTrackingDetails.ShipmentTrackingNumber
		if tracking == "" {
			tracking = o.Order.ShippingInfo.ShipmentTrackingDetails.ShipmentTrackingNumber
		}
		if tracking != "" && status == model.ShippingPending {
			status = model.ShippingShipped
		}
	} else if o.Transaction != nil {
		s := strings.ToLower(o.Transaction.Status.ShippingStatus)
		switch {
		case strings.Contains(s, "deliver"):
			status = model.ShippingDelivered
		case strings.Contains(s, "ship"):
			status = model.ShippingShipped
		}
	}

	if status == model.ShippingPending && o.Transaction != nil && o.Transaction.ShippedTime != "" {
		status = model.ShippingShipped
	}
	return status, tracking
}
