// Command apiprobe exercises the marketplace client against the configured
// credentials and prints what each call returns.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/rickgao/auction-watch/internal/api"
	"github.com/rickgao/auction-watch/internal/auth"
	"github.com/rickgao/auction-watch/internal/config"
	"github.com/rickgao/auction-watch/internal/model"
)

func main() {
	configPath := flag.String("config", "configs/watcher.local.yaml", "path to config file")
	accountName := flag.String("account", "", "account to probe (default: first)")
	query := flag.String("query", "leica", "search query")
	itemID := flag.String("item", "", "item id to look up")
	flag.Parse()

	if err := config.LoadEnv(); err != nil {
		log.Fatalf("LoadEnv failed: %v", err)
	}
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ac := cfg.Accounts[0]
	if *accountName != "" {
		found := false
		for _, a := range cfg.Accounts {
			if a.Name == *accountName {
				ac, found = a, true
				break
			}
		}
		if !found {
			log.Fatalf("account %q not configured", *accountName)
		}
	}

	creds, err := auth.LoadCredentials(ac.AppID, ac.DevID, ac.CertID, ac.Token, ac.TokenPath)
	if err != nil {
		log.Fatalf("credentials: %v", err)
	}
	client := api.NewClient(creds, ac.Site,
		api.WithTimeout(cfg.API.Timeout),
		api.WithEndpoints(api.Endpoints{
			Browse:    cfg.API.BrowseURL,
			Trading:   cfg.API.TradingURL,
			Shopping:  cfg.API.ShoppingURL,
			OAuth:     cfg.API.OAuthURL,
			Analytics: cfg.API.AnalyticsURL,
		}),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	// Test 1: Search
	fmt.Printf("=== Testing Search (%q on %s) ===\n", *query, client.Site())
	results := client.Search(ctx, model.SearchSpec{
		Account:     ac.Name,
		Query:       *query,
		Site:        client.Site(),
		ListingType: model.FilterBoth,
	})
	fmt.Printf("Fetched %d results\n", len(results))
	for i, it := range results {
		if i >= 5 {
			break
		}
		printItem(i+1, it)
	}

	// Test 2: My activity
	if creds.HasUserToken() {
		fmt.Println("\n=== Testing FetchMyActivity ===")
		act, err := client.FetchMyActivity(ctx)
		if err != nil {
			log.Fatalf("FetchMyActivity failed: %v", err)
		}
		fmt.Printf("Bids: %d, Watchlist: %d, Purchases: %d\n", len(act.Bids), len(act.Watchlist), len(act.Purchases))
		for i, it := range act.Bids {
			printItem(i+1, it)
		}
		if id, ok := client.Identity(); ok {
			fmt.Printf("Identity: %s\n", id)
		}
	} else {
		fmt.Println("\n=== Skipping FetchMyActivity (no user token) ===")
	}

	// Test 3: Single item
	if *itemID != "" {
		fmt.Printf("\n=== Testing FetchItem (%s) ===\n", *itemID)
		d, ok := client.FetchItem(ctx, *itemID)
		if !ok {
			log.Fatalf("FetchItem failed")
		}
		fmt.Printf("Title: %s\nStatus: %s\nPrice: %s\nHigh bidder: %s\n", d.Title, d.Status, d.Price, d.HighBidder)
	}

	// Test 4: Rate limits
	fmt.Println("\n=== Testing RemoteUsage ===")
	remote, err := client.RemoteUsage(ctx)
	if err != nil {
		fmt.Printf("RemoteUsage unavailable: %v\n", err)
	}
	for surface, q := range remote {
		fmt.Printf("  %s: %d/%d used (%.1f%%), resets %s\n", surface, q.Used, q.Limit, q.UsagePercent, q.Reset)
	}

	usage := client.Usage()
	fmt.Printf("\nCalls made: %d (level %s)\n", usage.TotalCalls, usage.Level)

	fmt.Println("\n=== Probe complete ===")
}

func printItem(n int, it model.Item) {
	left := "-"
	if it.EndTime != nil {
		left = model.FormatRemaining(time.Until(*it.EndTime))
	}
	fmt.Printf("  %d. %s - %s (%s, %s left)\n", n, it.ID, it.Title, it.Price, left)
}
