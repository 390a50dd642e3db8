package api

import (
	"encoding/xml"

	"github.com/shopspring/decimal"
)

// -----------------------------------------------------------------------------
// Browse API (JSON)
// -----------------------------------------------------------------------------

// BrowseSearchResponse from GET /item_summary/search
type BrowseSearchResponse struct {
	Total         int          `json:"total"`
	ItemSummaries []BrowseItem `json:"itemSummaries"`
}

// BrowseAmount is a Browse API price object. Values are decimal strings.
type BrowseAmount struct {
	Value                 string `json:"value"`
	Currency              string `json:"currency"`
	ConvertedFromValue    string `json:"convertedFromValue,omitempty"`
	ConvertedFromCurrency string `json:"convertedFromCurrency,omitempty"`
}

// BrowseItem is one item summary.
type BrowseItem struct {
	ItemID          string        `json:"itemId"`
	LegacyItemID    string        `json:"legacyItemId,omitempty"`
	Title           string        `json:"title"`
	Price           *BrowseAmount `json:"price,omitempty"`
	CurrentBidPrice *BrowseAmount `json:"currentBidPrice,omitempty"`
	StartingBid     *BrowseAmount `json:"startingBid,omitempty"`
	BuyingOptions   []string      `json:"buyingOptions"`
	Seller          struct {
		Username           string `json:"username"`
		FeedbackScore      int    `json:"feedbackScore"`
		FeedbackPercentage string `json:"feedbackPercentage"`
	} `json:"seller"`
	ItemLocation *struct {
		City    string `json:"city"`
		Country string `json:"country"`
	} `json:"itemLocation,omitempty"`
	ItemWebURL  string `json:"itemWebUrl"`
	ItemEndDate string `json:"itemEndDate,omitempty"`
	Image       *struct {
		ImageURL string `json:"imageUrl"`
	} `json:"image,omitempty"`
	ThumbnailImages []struct {
		ImageURL string `json:"imageUrl"`
	} `json:"thumbnailImages,omitempty"`
	BidCount int `json:"bidCount,omitempty"`
}

// -----------------------------------------------------------------------------
// Trading API (XML)
// -----------------------------------------------------------------------------

const tradingNamespace = "urn:ebay:apis:eBLBaseComponents"

type requesterCredentials struct {
	Token string `xml:"eBayAuthToken"`
}

type pagination struct {
	EntriesPerPage int `xml:"EntriesPerPage"`
	PageNumber     int `xml:"PageNumber"`
}

type listSelector struct {
	Include    bool       `xml:"Include"`
	Pagination pagination `xml:"Pagination"`
}

type getUserRequest struct {
	XMLName     xml.Name             `xml:"urn:ebay:apis:eBLBaseComponents GetUserRequest"`
	Credentials requesterCredentials `xml:"RequesterCredentials"`
}

type getMyeBayBuyingRequest struct {
	XMLName     xml.Name             `xml:"urn:ebay:apis:eBLBaseComponents GetMyeBayBuyingRequest"`
	Credentials requesterCredentials `xml:"RequesterCredentials"`
	BidList     *listSelector        `xml:"BidList,omitempty"`
	WatchList   *listSelector        `xml:"WatchList,omitempty"`
	WonList     *listSelector        `xml:"WonList,omitempty"`
	DetailLevel string               `xml:"DetailLevel"`
}

// tradingEnvelope carries the fields common to every Trading response.
type tradingEnvelope struct {
	Ack    string            `xml:"Ack"`
	Errors []tradingErrorXML `xml:"Errors"`
}

type tradingErrorXML struct {
	ShortMessage string `xml:"ShortMessage"`
	LongMessage  string `xml:"LongMessage"`
	ErrorCode    string `xml:"ErrorCode"`
	SeverityCode string `xml:"SeverityCode"`
}

type getUserResponse struct {
	tradingEnvelope
	User struct {
		UserID string `xml:"UserID"`
	} `xml:"User"`
}

type getMyeBayBuyingResponse struct {
	tradingEnvelope
	BidList   *itemListXML `xml:"BidList"`
	WatchList *itemListXML `xml:"WatchList"`
	WonList   *wonListXML  `xml:"WonList"`
}

type paginationResult struct {
	TotalNumberOfPages   int `xml:"TotalNumberOfPages"`
	TotalNumberOfEntries int `xml:"TotalNumberOfEntries"`
}

type itemListXML struct {
	Items      []tradingItemXML `xml:"ItemArray>Item"`
	Pagination paginationResult `xml:"PaginationResult"`
}

type wonListXML struct {
	Orders     []orderTransactionXML `xml:"OrderTransactionArray>OrderTransaction"`
	Pagination paginationResult      `xml:"PaginationResult"`
}

// amountXML is an amount with a currencyID attribute. Text is kept as a
// string so one malformed value only fails its own record.
type amountXML struct {
	Value    string `xml:",chardata"`
	Currency string `xml:"currencyID,attr"`
}

type tradingItemXML struct {
	ItemID        string `xml:"ItemID"`
	Title         string `xml:"Title"`
	ListingType   string `xml:"ListingType"`
	Location      string `xml:"Location"`
	ReserveMet    string `xml:"ReserveMet"`
	WatchCount    string `xml:"WatchCount"`
	SellingStatus struct {
		CurrentPrice          *amountXML `xml:"CurrentPrice"`
		ConvertedCurrentPrice *amountXML `xml:"ConvertedCurrentPrice"`
		BidCount              string     `xml:"BidCount"`
		ReserveMet            string     `xml:"ReserveMet"`
		HighBidder            struct {
			UserID string `xml:"UserID"`
		} `xml:"HighBidder"`
	} `xml:"SellingStatus"`
	ListingDetails struct {
		EndTime     string `xml:"EndTime"`
		ViewItemURL string `xml:"ViewItemURL"`
	} `xml:"ListingDetails"`
	Seller struct {
		UserID                  string `xml:"UserID"`
		FeedbackScore           string `xml:"FeedbackScore"`
		PositiveFeedbackPercent string `xml:"PositiveFeedbackPercent"`
	} `xml:"Seller"`
	PictureDetails struct {
		PictureURL []string `xml:"PictureURL"`
	} `xml:"PictureDetails"`
}

type orderTransactionXML struct {
	Transaction *transactionXML `xml:"Transaction"`
	Order       *orderXML       `xml:"Order"`
}

type transactionXML struct {
	Item             tradingItemXML `xml:"Item"`
	TransactionPrice *amountXML     `xml:"TransactionPrice"`
	ActualPrice      *amountXML     `xml:"ActualPrice"`
	TotalPrice       *amountXML     `xml:"TotalPrice"`
	CreatedDate      string         `xml:"CreatedDate"`
	PaidTime         string         `xml:"PaidTime"`
	ShippedTime      string         `xml:"ShippedTime"`
	Status           struct {
		ShippingStatus string `xml:"ShippingStatus"`
	} `xml:"Status"`
}

type trackingXML struct {
	ShipmentTrackingDetails struct {
		ShipmentTrackingNumber string `xml:"ShipmentTrackingNumber"`
	} `xml:"ShipmentTrackingDetails"`
}

type orderXML struct {
	OrderStatus     string      `xml:"OrderStatus"`
	ShippingDetails trackingXML `xml:"ShippingDetails"`
	ShippingInfo    trackingXML `xml:"ShippingInfo"`
}

// -----------------------------------------------------------------------------
// Shopping API (JSON)
// -----------------------------------------------------------------------------

type shoppingAmount struct {
	Value      decimal.Decimal `json:"Value"`
	CurrencyID string          `json:"CurrencyID"`
}

type shoppingBidder struct {
	UserID string `json:"UserID"`
}

// GetSingleItemResponse from the Shopping API GetSingleItem call.
type GetSingleItemResponse struct {
	Ack    string `json:"Ack"`
	Errors []struct {
		ShortMessage string `json:"ShortMessage"`
		ErrorCode    string `json:"ErrorCode"`
	} `json:"Errors,omitempty"`
	Item *struct {
		ItemID        string          `json:"ItemID"`
		Title         string          `json:"Title"`
		ListingStatus string          `json:"ListingStatus"`
		EndTime       string          `json:"EndTime"`
		CurrentPrice  *shoppingAmount `json:"CurrentPrice"`
		HighBidder    *shoppingBidder `json:"HighBidder"`
		SellingStatus *struct {
			HighBidder *shoppingBidder `json:"HighBidder"`
		} `json:"SellingStatus"`
	} `json:"Item"`
}

// -----------------------------------------------------------------------------
// Analytics API (JSON)
// -----------------------------------------------------------------------------

// RateLimitResponse from GET /rate_limit
type RateLimitResponse struct {
	RateLimits []struct {
		APIContext string `json:"apiContext"`
		APIName    string `json:"apiName"`
		Resources  []struct {
			Name  string `json:"name"`
			Rates []struct {
				Count      int    `json:"count"`
				Limit      int    `json:"limit"`
				Remaining  int    `json:"remaining"`
				Reset      string `json:"reset"`
				TimeWindow int    `json:"timeWindow"`
			} `json:"rates"`
		} `json:"resources"`
	} `json:"rateLimits"`
}
