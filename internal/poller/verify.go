package poller

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/rickgao/auction-watch/internal/model"
)

// Verifier decides whether a bid item that left the active list was won,
// lost, or neither.
//
// Precedence:
//  1. authoritative lookup says the auction concluded and the account
//     identity is known: compare high bidder, emit won or lost
//  2. lookup succeeds with any other status: emit nothing
//  3. lookup fails: fall back to the cached high-bidder flag, unverified
type Verifier struct {
	lookup ItemLookup
	logger *slog.Logger
}

// NewVerifier creates a Verifier. A nil lookup always falls back.
func NewVerifier(lookup ItemLookup, logger *slog.Logger) *Verifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Verifier{lookup: lookup, logger: logger}
}

// Resolve returns the won/lost event for a vanished item, or false when the
// item did not end.
func (v *Verifier) Resolve(ctx context.Context, account string, last model.Item, now time.Time) (model.Event, bool) {
	if v.lookup != nil {
		if d, ok := v.lookup.FetchItem(ctx, last.ID); ok {
			if !d.Status.Concluded() {
				msg := "bid item left list without ending"
				if !d.Status.NotEnded() {
					msg = "bid item left list with non-terminal status"
				}
				v.logger.Info(msg, "item_id", last.ID, "status", d.Status)
				return model.Event{}, false
			}
			if identity, known := v.lookup.Identity(); known {
				won := d.HighBidder != "" && strings.EqualFold(d.HighBidder, identity)
				return outcome(account, last, won, now), true
			}
			v.logger.Warn("auction ended but identity unresolved, using cached flag", "item_id", last.ID)
			return outcome(account, last, last.HighBidder, now), true
		}
	}

	v.logger.Warn("auction result unverified, using cached high bidder flag",
		"item_id", last.ID,
		"high_bidder", last.HighBidder,
	)
	return outcome(account, last, last.HighBidder, now), true
}

func outcome(account string, it model.Item, won bool, now time.Time) model.Event {
	kind := model.EventAuctionLost
	if won {
		kind = model.EventAuctionWon
	}
	return model.NewEvent(kind, account, it, now)
}
