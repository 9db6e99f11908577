package engine

// CrossProfit is the unconditional form of the bid/ask comparison: given an
// optional best bid and best ask (nil means the side is missing), it returns
// bid-ask whenever both are present and the bid is strictly higher. No
// threshold is applied — every positive crossing is reported, however small.
// Missing data yields ok=false, the same as no crossing; callers that need
// to tell the two apart use Engine.FindArbitrage instead.
func CrossProfit(bestBid, bestAsk *float64) (float64, bool) {
	if bestBid == nil || bestAsk == nil {
		return 0, false
	}
	if *bestBid <= *bestAsk {
		return 0, false
	}
	return *bestBid - *bestAsk, true
}
