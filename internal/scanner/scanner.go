// Package scanner finds the best buy-low/sell-high venue pair in an
// instantaneous price snapshot and drives the polling loop around it.
package scanner

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/dexflow/arbot/internal/domain"
)

// FindBest examines every ordered pair of distinct venues in the snapshot
// and returns the single pair with the strictly greatest profit
// (price[sell] - price[buy]) above minProfit, or ok=false when no pair
// clears it. Venues are visited in lexicographic order so a tied profit
// always resolves to the same pair on repeated runs. O(n²) in venue count,
// which stays trivial at the single-digit venue counts of this domain.
func FindBest(prices map[string]float64, minProfit float64) (domain.Opportunity, bool) {
	venues := make([]string, 0, len(prices))
	for v := range prices {
		venues = append(venues, v)
	}
	sort.Strings(venues)

	var (
		best      domain.Opportunity
		found     bool
		maxProfit float64
	)
	for _, buy := range venues {
		for _, sell := range venues {
			if buy == sell {
				continue
			}
			profit := prices[sell] - prices[buy]
			if profit <= maxProfit || profit <= minProfit {
				continue
			}
			maxProfit = profit
			best = domain.Opportunity{
				ID:         uuid.Must(uuid.NewRandom()).String(),
				BuyVenue:   buy,
				SellVenue:  sell,
				BuyPrice:   prices[buy],
				SellPrice:  prices[sell],
				Profit:     profit,
				DetectedAt: time.Now().UTC(),
			}
			found = true
		}
	}
	return best, found
}
