package api

import "strings"

// DefaultSite is used when an account or search does not name one.
const DefaultSite = "EBAY-GB"

var siteAliases = map[string]string{
	"uk": "EBAY-GB",
	"gb": "EBAY-GB",
	"us": "EBAY-US",
	"de": "EBAY-DE",
	"fr": "EBAY-FR",
	"it": "EBAY-IT",
	"es": "EBAY-ES",
	"au": "EBAY-AU",
	"ca": "EBAY-ENCA",
}

// Trading/Shopping numeric site IDs.
var tradingSiteIDs = map[string]string{
	"EBAY-US":   "0",
	"EBAY-ENCA": "2",
	"EBAY-GB":   "3",
	"EBAY-AU":   "15",
	"EBAY-FR":   "71",
	"EBAY-DE":   "77",
	"EBAY-IT":   "101",
	"EBAY-ES":   "186",
}

// NormalizeSite maps operator input ("uk", "ebay-gb") to a site code like
// "EBAY-GB".
func NormalizeSite(site string) string {
	s := strings.TrimSpace(site)
	if s == "" {
		return DefaultSite
	}
	if alias, ok := siteAliases[strings.ToLower(s)]; ok {
		return alias
	}
	return strings.ToUpper(s)
}

// MarketplaceID returns the Browse API marketplace header value. Unknown
// sites fall back to EBAY_US.
func MarketplaceID(site string) string {
	s := NormalizeSite(site)
	if s == "EBAY-ENCA" || s == "EBAY-CA" {
		return "EBAY_CA"
	}
	if strings.HasPrefix(s, "EBAY-") || strings.HasPrefix(s, "EBAY_") {
		return "EBAY_" + s[len("EBAY-"):]
	}
	return "EBAY_US"
}

// TradingSiteID returns the numeric site ID header value. Unknown sites use
// the US site.
func TradingSiteID(site string) string {
	if id, ok := tradingSiteIDs[NormalizeSite(site)]; ok {
		return id
	}
	return "0"
}

// SearchCurrency returns the currency used in Browse price filters for a
// marketplace.
func SearchCurrency(marketplaceID string) string {
	switch {
	case strings.Contains(marketplaceID, "GB"):
		return "GBP"
	case strings.HasSuffix(marketplaceID, "_DE"), strings.HasSuffix(marketplaceID, "_FR"),
		strings.HasSuffix(marketplaceID, "_IT"), strings.HasSuffix(marketplaceID, "_ES"):
		return "EUR"
	case strings.HasSuffix(marketplaceID, "_AU"):
		return "AUD"
	case strings.HasSuffix(marketplaceID, "_CA"):
		return "CAD"
	default:
		return "USD"
	}
}
