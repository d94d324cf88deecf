package betconnect

import "math"

// BookPercentage sums the implied probabilities of the best available price
// across the trading selections of a market. A value close to 1.0 is a fair
// book; 1.1-1.15 is a heavy markup.
func BookPercentage(selections []MarketSelection) float64 {
	var book float64
	for _, selection := range selections {
		if selection.TradingStatus != TradingTrading {
			continue
		}
		if selection.MaxPrice > 1.01 {
			book += 1 / selection.MaxPrice
		}
	}
	return math.Round(book*1000) / 1000
}
