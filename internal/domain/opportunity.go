package domain

import "time"

// Opportunity is a detected cross-venue arbitrage: buying at BuyVenue and
// selling at SellVenue yields Profit (in quote units) above the scan's
// minimum-profit threshold. It is transient; the optional persistence layer
// records it using ID and DetectedAt.
type Opportunity struct {
	ID         string
	BuyVenue   string
	SellVenue  string
	BuyPrice   float64
	SellPrice  float64
	Profit     float64
	DetectedAt time.Time
	Executed   bool
}
