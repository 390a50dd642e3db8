package api

import (
	"encoding/xml"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rickgao/auction-watch/internal/auth"
)

// fakeMarketplace serves every API surface from one httptest server.
type fakeMarketplace struct {
	t      *testing.T
	server *httptest.Server

	mu       sync.Mutex
	calls    map[string]int // by call name or path
	user     string
	userFail bool
	lists    map[string][]string // list name -> XML page bodies
	listFail bool
	browse   string
	shopping map[string]string // item ID -> JSON body
}

func newFakeMarketplace(t *testing.T) *fakeMarketplace {
	f := &fakeMarketplace{
		t:        t,
		calls:    make(map[string]int),
		user:     "buyer1",
		lists:    make(map[string][]string),
		shopping: make(map[string]string),
		browse:   `{"total":0,"itemSummaries":[]}`,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth", func(w http.ResponseWriter, r *http.Request) {
		f.count("oauth")
		w.Write([]byte(`{"access_token":"app-token","expires_in":7200}`))
	})
	mux.HandleFunc("/browse", func(w http.ResponseWriter, r *http.Request) {
		f.count("browse")
		if r.Header.Get("Authorization") != "Bearer app-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		f.mu.Lock()
		body := f.browse
		f.mu.Unlock()
		w.Write([]byte(body))
	})
	mux.HandleFunc("/trading", f.handleTrading)
	mux.HandleFunc("/shopping", func(w http.ResponseWriter, r *http.Request) {
		f.count("shopping")
		f.mu.Lock()
		body, ok := f.shopping[r.URL.Query().Get("ItemID")]
		f.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(body))
	})
	mux.HandleFunc("/analytics", func(w http.ResponseWriter, r *http.Request) {
		f.count("analytics")
		w.Write([]byte(`{"rateLimits":[
			{"apiContext":"buy","apiName":"Browse","resources":[{"name":"buy.browse","rates":[
				{"count":10,"limit":5000,"remaining":4990,"reset":"2025-01-16T00:00:00Z","timeWindow":86400}]}]},
			{"apiContext":"TradingAPI","apiName":"TradingAPI","resources":[{"name":"TradingAPI","rates":[
				{"count":1,"limit":3600,"remaining":3599,"timeWindow":3600},
				{"count":250,"limit":5000,"remaining":4750,"timeWindow":86400}]}]}
		]}`))
	})

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeMarketplace) count(name string) {
	f.mu.Lock()
	f.calls[name]++
	f.mu.Unlock()
}

// set mutates the fake's fixtures under its lock.
func (f *fakeMarketplace) set(fn func(f *fakeMarketplace)) {
	f.mu.Lock()
	fn(f)
	f.mu.Unlock()
}

func (f *fakeMarketplace) callCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeMarketplace) endpoints() Endpoints {
	return Endpoints{
		Browse:    f.server.URL + "/browse",
		Trading:   f.server.URL + "/trading",
		Shopping:  f.server.URL + "/shopping",
		OAuth:     f.server.URL + "/oauth",
		Analytics: f.server.URL + "/analytics",
	}
}

func (f *fakeMarketplace) client(opts ...ClientOption) *Client {
	creds := &auth.Credentials{AppID: "app", DevID: "dev", CertID: "cert", UserToken: "user-token"}
	base := []ClientOption{
		WithEndpoints(f.endpoints()),
		WithHTTPClient(f.server.Client()),
		WithRetries(0, time.Millisecond),
	}
	return NewClient(creds, "uk", append(base, opts...)...)
}

func (f *fakeMarketplace) handleTrading(w http.ResponseWriter, r *http.Request) {
	call := r.Header.Get("X-EBAY-API-CALL-NAME")
	f.count(call)

	if r.Header.Get("X-EBAY-API-SITEID") != "3" {
		f.t.Errorf("X-EBAY-API-SITEID = %q, want %q", r.Header.Get("X-EBAY-API-SITEID"), "3")
	}

	body, _ := io.ReadAll(r.Body)
	if !strings.Contains(string(body), "<eBayAuthToken>user-token</eBayAuthToken>") {
		f.t.Errorf("%s body missing auth token: %s", call, body)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	switch call {
	case "GetUser":
		if f.userFail {
			w.Write([]byte(`<GetUserResponse xmlns="urn:ebay:apis:eBLBaseComponents"><Ack>Failure</Ack>
				<Errors><ShortMessage>Invalid token</ShortMessage><ErrorCode>931</ErrorCode></Errors></GetUserResponse>`))
			return
		}
		w.Write([]byte(`<GetUserResponse xmlns="urn:ebay:apis:eBLBaseComponents"><Ack>Success</Ack><User><UserID>` +
			f.user + `</UserID></User></GetUserResponse>`))
	case "GetMyeBayBuying":
		if f.listFail {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		var req struct {
			BidList   *struct{ Pagination pagination } `xml:"BidList"`
			WatchList *struct{ Pagination pagination } `xml:"WatchList"`
			WonList   *struct{ Pagination pagination } `xml:"WonList"`
		}
		if err := xml.Unmarshal(body, &req); err != nil {
			f.t.Errorf("unmarshal request: %v", err)
		}
		var list string
		var page int
		switch {
		case req.BidList != nil:
			list, page = "BidList", req.BidList.Pagination.PageNumber
		case req.WatchList != nil:
			list, page = "WatchList", req.WatchList.Pagination.PageNumber
		case req.WonList != nil:
			list, page = "WonList", req.WonList.Pagination.PageNumber
		}
		f.calls[list]++
		pages := f.lists[list]
		inner := ""
		if page >= 1 && page <= len(pages) {
			inner = pages[page-1]
		}
		w.Write([]byte(`<GetMyeBayBuyingResponse xmlns="urn:ebay:apis:eBLBaseComponents"><Ack>Success</Ack>` +
			inner + `</GetMyeBayBuyingResponse>`))
	default:
		f.t.Errorf("unexpected trading call %q", call)
		w.WriteHeader(http.StatusBadRequest)
	}
}

const bidListPage = `<BidList><ItemArray>
  <Item>
    <ItemID>111</ItemID><Title>Vintage Lens</Title><ListingType>Chinese</ListingType><Location>Bristol</Location>
    <SellingStatus><CurrentPrice currencyID="GBP">12.50</CurrentPrice><BidCount>3</BidCount>
      <HighBidder><UserID>BUYER1</UserID></HighBidder><ReserveMet>true</ReserveMet></SellingStatus>
    <ListingDetails><EndTime>2025-01-15T12:10:00.000Z</EndTime><ViewItemURL>https://example.com/111</ViewItemURL></ListingDetails>
    <Seller><UserID>seller9</UserID><FeedbackScore>120</FeedbackScore><PositiveFeedbackPercent>99.5</PositiveFeedbackPercent></Seller>
    <PictureDetails><PictureURL>https://img.example.com/111.jpg</PictureURL></PictureDetails>
  </Item>
  <Item>
    <ItemID>222</ItemID><Title>Old Camera</Title><ListingType>Chinese</ListingType>
    <SellingStatus><CurrentPrice currencyID="GBP">40.00</CurrentPrice>
      <HighBidder><UserID>someone</UserID></HighBidder></SellingStatus>
    <ListingDetails><EndTime>2025-01-16T09:00:00.000Z</EndTime></ListingDetails>
  </Item>
  <Item>
    <ItemID>333</ItemID><Title>Broken</Title>
    <SellingStatus><CurrentPrice currencyID="GBP">not-a-number</CurrentPrice></SellingStatus>
  </Item>
</ItemArray><PaginationResult><TotalNumberOfPages>1</TotalNumberOfPages><TotalNumberOfEntries>3</TotalNumberOfEntries></PaginationResult></BidList>`

const watchListPage = `<WatchList><ItemArray>
  <Item><ItemID>444</ItemID><Title>Tripod</Title><ListingType>FixedPriceItem</ListingType><WatchCount>7</WatchCount>
    <SellingStatus><CurrentPrice currencyID="USD">25</CurrentPrice></SellingStatus></Item>
</ItemArray><PaginationResult><TotalNumberOfPages>1</TotalNumberOfPages></PaginationResult></WatchList>`

const wonListPage = `<WonList><OrderTransactionArray>
  <OrderTransaction>
    <Transaction>
      <Item><ItemID>555</ItemID><Title>Flash</Title><SellingStatus><CurrentPrice currencyID="GBP">9.00</CurrentPrice></SellingStatus></Item>
      <TransactionPrice currencyID="GBP">8.75</TransactionPrice>
      <CreatedDate>2025-01-10T08:00:00.000Z</CreatedDate>
      <ShippedTime>2025-01-11T08:00:00.000Z</ShippedTime>
    </Transaction>
  </OrderTransaction>
  <OrderTransaction>
    <Transaction>
      <Item><ItemID>666</ItemID><Title>Strap</Title></Item>
      <ActualPrice currencyID="GBP">3.20</ActualPrice>
    </Transaction>
    <Order><OrderStatus>Completed</OrderStatus></Order>
  </OrderTransaction>
</OrderTransactionArray><PaginationResult><TotalNumberOfPages>1</TotalNumberOfPages></PaginationResult></WonList>`
