package betconnect

// Environment selects which BetConnect deployment requests are sent to.
type Environment string

const (
	Production Environment = "Production"
	Staging    Environment = "Staging"
)

// Valid reports whether the environment is one the API recognises.
func (e Environment) Valid() bool {
	return e == Production || e == Staging
}

// BetSide is the side of a bet request.
type BetSide string

const (
	Back BetSide = "back"
	Lay  BetSide = "lay"
)

// BetRequestStatus filters bet history queries.
type BetRequestStatus string

const (
	BetRequestActive  BetRequestStatus = "active"
	BetRequestSettled BetRequestStatus = "settled"
)

// MarketStatus is the lifecycle state of a market.
type MarketStatus string

const (
	MarketOpen      MarketStatus = "Open"
	MarketSuspended MarketStatus = "Suspended"
	MarketClosed    MarketStatus = "Closed"
)

// TradingStatus is the lifecycle state of a market or selection.
type TradingStatus string

const (
	TradingOpen      TradingStatus = "Open"
	TradingActive    TradingStatus = "Active"
	TradingTrading   TradingStatus = "Trading"
	TradingClosed    TradingStatus = "Closed"
	TradingNonRunner TradingStatus = "NonRunner"
)

// BetStatus is the settlement state of a matched bet.
type BetStatus string

const (
	BetReceived      BetStatus = "received"
	BetCancelled     BetStatus = "cancelled"
	BetRejected      BetStatus = "rejected"
	BetVoidedByPro   BetStatus = "voided_by_pro"
	BetVoidedByAdmin BetStatus = "voided_by_admin"
	BetMatched       BetStatus = "matched"
	BetMatchedMore   BetStatus = "matched_more"
	BetExpired       BetStatus = "expired"
)
