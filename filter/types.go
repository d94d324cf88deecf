package filter

import (
	"time"

	"github.com/betconnect/betconnect-go/betconnect"
)

// BetRow is the flattened view of a bet exposed to filter expressions.
// Monetary fields are in pounds for expression ergonomics.
type BetRow struct {
	BetRequestID     string
	SportName        string
	CompetitionName  string
	FixtureName      string
	MarketName       string
	SelectionName    string
	BetType          string
	Status           string
	Price            float64
	Stake            float64
	MatchedStake     float64
	FillPercentage   float64
	FixtureStartDate time.Time
	CreatedAt        time.Time
}

// FromActiveBet flattens an active bet request row.
func FromActiveBet(b betconnect.ActiveBet) BetRow {
	return BetRow{
		BetRequestID:     b.BetRequestID,
		SportName:        b.SportName,
		CompetitionName:  b.CompetitionName,
		FixtureName:      b.FixtureName,
		MarketName:       b.MarketName,
		SelectionName:    b.SelectionName,
		BetType:          b.BetTypeName,
		Status:           b.StatusName,
		Price:            b.Price,
		Stake:            b.Stake.Pounds(),
		MatchedStake:     b.MatchedStake.Pounds(),
		FillPercentage:   b.FillPercentage,
		FixtureStartDate: b.FixtureStartDate.Time,
		CreatedAt:        b.CreatedAt.Time,
	}
}

// FromHistoryEntry flattens a bet history row.
func FromHistoryEntry(b betconnect.BetHistoryEntry) BetRow {
	return BetRow{
		BetRequestID:     b.BetRequestID,
		SportName:        b.SportName,
		CompetitionName:  b.CompetitionName,
		FixtureName:      b.FixtureName,
		MarketName:       b.MarketName,
		SelectionName:    b.SelectionName,
		BetType:          b.BetTypeName,
		Status:           b.BetRequestStatus,
		Price:            b.Price,
		Stake:            b.Stake.Pounds(),
		MatchedStake:     b.MatchedStake.Pounds(),
		FillPercentage:   b.FillPercentage,
		FixtureStartDate: b.FixtureStartDate.Time,
		CreatedAt:        b.CreatedAt.Time,
	}
}
