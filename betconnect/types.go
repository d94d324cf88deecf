package betconnect

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Bookmaker identifies a bookmaker backing a price.
type Bookmaker struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Price is a quoted price for a selection, carried as the display price plus
// its fractional form. The wire has two incompatible spellings: the flat one
// used by price listings and a decimal-plus-fraction composite used inside
// bet requests; both decode into this one value.
type Price struct {
	Price       string
	Numerator   string
	Denominator string
	Bookmakers  []Bookmaker
}

type priceWire struct {
	Price       wireString  `json:"price"`
	Numerator   wireString  `json:"numerator"`
	Denominator wireString  `json:"denominator"`
	Bookmakers  []Bookmaker `json:"bookmakers"`

	// composite form
	Decimal  wireString `json:"decimal"`
	Fraction *struct {
		Numerator   wireString `json:"numerator"`
		Denominator wireString `json:"denominator"`
	} `json:"fraction"`
}

func (p *Price) UnmarshalJSON(b []byte) error {
	var w priceWire
	if err := json.Unmarshal(b, &w); err != nil {
		return &DecodeError{Shape: "price", Err: err}
	}
	if w.Fraction != nil {
		p.Price = string(w.Decimal)
		p.Numerator = string(w.Fraction.Numerator)
		p.Denominator = string(w.Fraction.Denominator)
	} else {
		p.Price = string(w.Price)
		p.Numerator = string(w.Numerator)
		p.Denominator = string(w.Denominator)
	}
	p.Bookmakers = w.Bookmakers
	return nil
}

func (p Price) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Price       string      `json:"price"`
		Numerator   string      `json:"numerator"`
		Denominator string      `json:"denominator"`
		Bookmakers  []Bookmaker `json:"bookmakers"`
	}{p.Price, p.Numerator, p.Denominator, p.Bookmakers})
}

// Equal compares by display price only; the backing bookmaker set does not
// make two prices different.
func (p Price) Equal(other Price) bool {
	return p.Price == other.Price
}

// ActiveBookmaker is a bookmaker currently offering prices on the exchange.
type ActiveBookmaker struct {
	Name        string `json:"name"`
	BookmakerID int    `json:"bookmaker_id"`
	Order       int    `json:"order"`
	Active      int    `json:"active"`
}

// ActiveSport is a sport with open markets.
type ActiveSport struct {
	ID            int     `json:"id"`
	SportID       int     `json:"sport_id"`
	Name          string  `json:"name"`
	DisplayName   string  `json:"display_name"`
	Slug          string  `json:"slug"`
	Order         int     `json:"order"`
	Active        int     `json:"active"`
	Rate          float64 `json:"rate"`
	BetsAvailable int     `json:"bets_available"`
}

// ActiveRegion is a geographic region with active fixtures for a sport.
type ActiveRegion struct {
	Name     string `json:"name"`
	RegionID int    `json:"region_id"`
	ISO      string `json:"iso"`
	Order    int    `json:"order"`
}

// ActiveCompetition is a competition with active fixtures.
type ActiveCompetition struct {
	Name          string `json:"name"`
	DisplayName   string `json:"display_name"`
	CompetitionID int    `json:"competition_id"`
	Active        int    `json:"active"`
	Order         int    `json:"order"`
}

// ActiveMarketType is a market type offered for a sport.
type ActiveMarketType struct {
	MarketTypeID int    `json:"market_type_id"`
	Name         string `json:"name"`
	Active       int    `json:"active"`
}

// ActiveMarket is a market open on a fixture.
type ActiveMarket struct {
	Name          string        `json:"name"`
	DisplayName   string        `json:"display_name"`
	TradingStatus TradingStatus `json:"trading_status"`
	IsHandicap    string        `json:"is_handicap"`
	MarketTypeID  int           `json:"market_type_id"`
	Order         int           `json:"order"`
	Handicap      string        `json:"handicap"`
}

// ActiveSelection is a single outcome within a market.
type ActiveSelection struct {
	Name          string        `json:"name"`
	TradingStatus TradingStatus `json:"trading_status"`
	SelectionID   int           `json:"selection_id"`
	UpdatedAt     string        `json:"ut"`
	Competitor    string        `json:"competitor"`
	Prices        []Price       `json:"prices,omitempty"`
}

// ActiveFixture is an event with open markets. Selections are attached
// client-side by FixturesWithActiveSelections.
type ActiveFixture struct {
	FixtureID   int               `json:"fixture_id"`
	DisplayName string            `json:"display_name"`
	StartDate   string            `json:"startdate"`
	Time        string            `json:"time"`
	Selections  []ActiveSelection `json:"selections,omitempty"`
}

// AddSelection appends a selection unless one with the same id is present.
func (f *ActiveFixture) AddSelection(s ActiveSelection) {
	for _, existing := range f.Selections {
		if existing.SelectionID == s.SelectionID {
			return
		}
	}
	f.Selections = append(f.Selections, s)
}

// Balance is the account balance in integer pennies.
type Balance struct {
	Balance int64 `json:"balance"`
}

// Pounds is the derived display value.
func (b Balance) Pounds() float64 { return float64(b.Balance) / 100 }

// BackerStats summarises the backer behind a bet request.
type BackerStats struct {
	StrikeRate        float64 `json:"strike_rate"`
	ROI               float64 `json:"roi"`
	BetRequests       string  `json:"bet_requests"`
	RecentPerformance string  `json:"recent_performance"`
}

// BetRequest is a standing offer on the exchange.
type BetRequest struct {
	SportName        string      `json:"sport_name"`
	SportID          string      `json:"sport_id"`
	CompetitionName  string      `json:"competition_name"`
	RegionName       string      `json:"region_name"`
	StartTimeUTC     APITime     `json:"start_time_utc"`
	FixtureName      string      `json:"fixture_name"`
	MarketName       string      `json:"market_name"`
	SelectionName    string      `json:"selection_name"`
	Price            Price       `json:"price"`
	FixtureID        int         `json:"fixture_id"`
	MarketTypeID     int         `json:"market_type_id"`
	Competitor       string      `json:"competitor"`
	BetRequestID     uuid.UUID   `json:"bet_request_id"`
	BetType          BetSide     `json:"bet_type"`
	RequestedStake   Amount      `json:"requested_stake"`
	Liability        Amount      `json:"liability"`
	BackerStats      BackerStats `json:"backer_stats"`
	OthersViewingBet string      `json:"others_viewing_bet"`
}

// BetRequestCreated acknowledges a newly placed bet request.
type BetRequestCreated struct {
	BetRequestID    uuid.UUID `json:"bet_request_id"`
	Created         APITime   `json:"created"`
	DebitStake      Amount    `json:"debit_stake"`
	DebitCommission Amount    `json:"debit_commission"`
}

// Viewed points at the neighbouring bet requests in the browse order.
type Viewed struct {
	Prev string `json:"prev"`
	Next string `json:"next"`
}

// BetRequestMatch is the outcome of matching all or part of a bet request.
type BetRequestMatch struct {
	Matched       bool      `json:"matched"`
	Available     bool      `json:"available"`
	BetRequestID  string    `json:"bet_request_id"`
	BetID         string    `json:"bet_id"`
	BetStatus     BetStatus `json:"bet_status"`
	AmountMatched Amount    `json:"amount_matched"`
	Viewed        *Viewed   `json:"viewed"`
}

// BetHistoryEntry is one settled or active row from the bet history.
type BetHistoryEntry struct {
	BetRequestID     string  `json:"bet_request_id"`
	BetRequestStatus string  `json:"bet_request_status"`
	BetTypeName      string  `json:"bet_type_name"`
	CompetitionName  string  `json:"competition_name"`
	CreatedAt        APITime `json:"create_at"`
	EachWayFactor    string  `json:"each_way_factor"`
	FillPercentage   float64 `json:"fill_percentage"`
	FixtureName      string  `json:"fixture_name"`
	FixtureStartDate APITime `json:"fixture_startdate"`
	Handicap         float64 `json:"handicap"`
	MarketName       string  `json:"market_name"`
	MatchedStake     Amount  `json:"matched_stake"`
	Price            float64 `json:"price"`
	PriceDenominator int     `json:"price_denominator"`
	PriceNumerator   int     `json:"price_numerator"`
	RegionISO        string  `json:"region_iso"`
	RegionName       string  `json:"region_name"`
	SelectionName    string  `json:"selection_name"`
	SportName        string  `json:"sport_name"`
	Stake            Amount  `json:"stake"`
}

// ActiveBet is one row from the active bet requests listing.
type ActiveBet struct {
	BetRequestID     string  `json:"bet_request_id"`
	BetTypeName      string  `json:"bet_type_name"`
	CompetitionName  string  `json:"competition_name"`
	CreatedAt        APITime `json:"created_at"`
	EachWayFactor    float64 `json:"each_way_factor"`
	FillPercentage   float64 `json:"fill_percentage"`
	FixtureName      string  `json:"fixture_name"`
	FixtureStartDate APITime `json:"fixture_startdate"`
	Handicap         float64 `json:"handicap"`
	MarketName       string  `json:"market_name"`
	MatchedStake     Amount  `json:"matched_stake"`
	Price            float64 `json:"price"`
	PriceDenominator int     `json:"price_denominator"`
	SelectionName    string  `json:"selection_name"`
	SportName        string  `json:"sport_name"`
	Stake            Amount  `json:"stake"`
	StatusName       string  `json:"status_name"`
}

// ActiveBetsPage is a page of the caller's active bet requests.
type ActiveBetsPage struct {
	Bets       []ActiveBet `json:"bets"`
	BetsActive int         `json:"bets_active"`
	LastPage   int         `json:"last_page"`
	TotalBets  int         `json:"total_bets"`
}

// BetHistoryPage is a page of bet history rows.
type BetHistoryPage struct {
	Bets      []BetHistoryEntry `json:"bets"`
	LastPage  int               `json:"last_page"`
	TotalBets int               `json:"total_bets"`
}

// MarketSelection is one selection in a flat market, with its price ladder.
type MarketSelection struct {
	SourceFixtureID    string        `json:"source_fixture_id"`
	SourceMarketID     string        `json:"source_market_id"`
	SourceMarketTypeID string        `json:"source_market_type_id"`
	SourceSelectionID  string        `json:"source_selection_id"`
	TradingStatus      TradingStatus `json:"trading_status"`
	Name               string        `json:"name"`
	CompetitorID       string        `json:"competitor_id"`
	Outcome            string        `json:"outcome"`
	UpdatedAt          APITime       `json:"ut"`
	Handicap           float64       `json:"handicap"`
	Order              int           `json:"order"`
	MaxPrice           float64       `json:"max_price"`
	Prices             []Price       `json:"prices"`
}

// LineMarketSelections groups the selections offered at one handicap line.
type LineMarketSelections struct {
	Name        string            `json:"name"`
	DisplayName string            `json:"display_name"`
	Line        string            `json:"line"`
	Selections  []MarketSelection `json:"selections"`
}

// MarketSelections is the result of a selections-for-market call. The same
// endpoint serves two incompatible shapes; exactly one of Flat or Lines is
// populated.
type MarketSelections struct {
	Flat  []MarketSelection
	Lines []LineMarketSelections
}

// IsLineMarket reports whether the market is parameterised by handicap line.
func (m MarketSelections) IsLineMarket() bool { return m.Lines != nil }

// ResponseMessage is a plain acknowledgement from endpoints that return no
// data payload.
type ResponseMessage struct {
	Message    string
	RequestURL string
	StatusCode int
}

// Token is the bearer token issued at login.
type Token struct {
	Token string `json:"token"`
}

// LoginResult is the decoded login response.
type LoginResult struct {
	Message string `json:"message"`
	Data    Token  `json:"data"`
}

// AccountPreferences is the immutable account snapshot keyed by UserID.
type AccountPreferences struct {
	AddressCreated          APITime `json:"address_created"`
	AddressLine1            string  `json:"address_line_1"`
	AddressLine2            string  `json:"address_line_2"`
	AddressLine3            string  `json:"address_line_3"`
	AddressUpdated          APITime `json:"address_updated"`
	AdminArea               string  `json:"admin_area"`
	BetconnectPro           int     `json:"betconnect_pro"`
	Building                int     `json:"building"`
	CanSetCustomOdds        int     `json:"can_set_custom_odds"`
	City                    string  `json:"city"`
	ContactNumber           string  `json:"contact_number"`
	Country                 string  `json:"country"`
	CountryISO2             string  `json:"country_iso2"`
	CountryISO3             string  `json:"country_iso3"`
	Created                 APITime `json:"created"`
	DefaultHomePage         string  `json:"default_home_page"`
	DisplayName             string  `json:"display_name"`
	DOB                     string  `json:"dob"`
	Email                   string  `json:"email"`
	Forename                string  `json:"forename"`
	FullName                string  `json:"fullname"`
	GamstopResult           string  `json:"gamstop_result"`
	KYCResult               int     `json:"kyc_result"`
	LastLogin               APITime `json:"last_login"`
	Locality                string  `json:"locality"`
	MarketingTermsAccepted  int     `json:"marketing_terms_accepted"`
	OddsFormatDecimal       int     `json:"odds_format_decimal"`
	PageSize                int     `json:"page_size"`
	PendingWithdrawal       int     `json:"pending_withdrawal"`
	PendingWithdrawalAmount Amount  `json:"pending_withdrawal_amount"`
	Postcode                string  `json:"postcode"`
	Premise                 string  `json:"premise"`
	SeedPro                 int     `json:"seed_pro"`
	Surname                 string  `json:"surname"`
	Thoroughfare            string  `json:"thoroughfare"`
	UserCategoryID          int     `json:"user_category_id"`
	UserID                  string  `json:"user_id"`
	Username                string  `json:"username"`
	IsPremiumSubscriber     int     `json:"is_premium_subscriber"`
}

// GamstopExcluded reports whether the account carries the regulatory
// self-exclusion flag. A flagged account must not trade.
func (p AccountPreferences) GamstopExcluded() bool {
	return p.GamstopResult == "Y"
}

// GetBetRequestFilter narrows which bet request is fetched. When
// BetRequestID is set the remaining fields are not sent.
type GetBetRequestFilter struct {
	SportID       int     `json:"sport_id,omitempty"`
	Bookmakers    string  `json:"bookmakers,omitempty"`
	MinOdds       float64 `json:"min_odds,omitempty"`
	MaxOdds       float64 `json:"max_odds,omitempty"`
	AcceptEachWay int     `json:"accept_each_way,omitempty"`
	BetRequestID  string  `json:"bet_request_id,omitempty"`
}

// CreateBetRequest is the body for placing a new bet request. Stake is in
// whole pounds and must be a positive multiple of 5; Price must be at least
// 1.01.
type CreateBetRequest struct {
	FixtureID           int      `json:"fixture_id"`
	MarketTypeID        int      `json:"market_type_id"`
	Competitor          string   `json:"competitor"`
	Price               float64  `json:"price"`
	Stake               int      `json:"stake"`
	BetType             BetSide  `json:"bet_type"`
	Handicap            *float64 `json:"handicap,omitempty"`
	CustomerOrderRef    string   `json:"customer_order_ref,omitempty"`
	CustomerStrategyRef string   `json:"customer_strategy_ref,omitempty"`
}

// Validate applies the exchange's field predicates before any request is made.
func (r CreateBetRequest) Validate() error {
	if err := validateStake(r.Stake); err != nil {
		return err
	}
	if err := validatePrice(r.Price); err != nil {
		return err
	}
	if r.CustomerOrderRef != "" {
		if _, err := NewCustomerOrderRef(r.CustomerOrderRef); err != nil {
			return err
		}
	}
	if r.CustomerStrategyRef != "" {
		if _, err := NewCustomerStrategyRef(r.CustomerStrategyRef); err != nil {
			return err
		}
	}
	return nil
}
