package betconnect

import (
	"context"
	"fmt"
	"net/http"
)

// StopBetReason explains why a bet request is being stopped.
type StopBetReason string

const (
	StopBetPriceChange StopBetReason = "price_change"
	StopBetOther       StopBetReason = "other"
)

// ActiveBookmakers lists the bookmakers currently offering prices.
func (c *Client) ActiveBookmakers(ctx context.Context) ([]ActiveBookmaker, error) {
	env, err := c.do(ctx, http.MethodGet, "api/v2/active_bookmakers", nil, nil, false)
	if err != nil {
		return nil, err
	}
	return decodeList[ActiveBookmaker]("active bookmakers", env)
}

// ActiveSports lists sports with open markets. With withBets set, only
// sports that currently have bets available are returned.
func (c *Client) ActiveSports(ctx context.Context, withBets bool) ([]ActiveSport, error) {
	path := "api/v2/active_sports"
	if withBets {
		path = "api/v2/active_sports/True"
	}
	env, err := c.do(ctx, http.MethodGet, path, nil, nil, false)
	if err != nil {
		return nil, err
	}
	return decodeList[ActiveSport]("active sports", env)
}

// ActiveRegions lists regions with active fixtures for a sport.
func (c *Client) ActiveRegions(ctx context.Context, sportID int) ([]ActiveRegion, error) {
	path := fmt.Sprintf("api/v2/active_regions/%d", sportID)
	env, err := c.do(ctx, http.MethodGet, path, nil, nil, false)
	if err != nil {
		return nil, err
	}
	return decodeList[ActiveRegion]("active regions", env)
}

// ActiveCompetitions lists competitions with active fixtures for a sport
// and region.
func (c *Client) ActiveCompetitions(ctx context.Context, sportID, regionID int) ([]ActiveCompetition, error) {
	path := fmt.Sprintf("api/v2/active_competitions/%d/%d", sportID, regionID)
	env, err := c.do(ctx, http.MethodGet, path, nil, nil, false)
	if err != nil {
		return nil, err
	}
	return decodeList[ActiveCompetition]("active competitions", env)
}

// ActiveFixtures lists fixtures for a sport, optionally narrowed by region
// and competition. Zero means unfiltered; a competition filter requires a
// region.
func (c *Client) ActiveFixtures(ctx context.Context, sportID, regionID, competitionID int) ([]ActiveFixture, error) {
	var path string
	switch {
	case competitionID != 0:
		path = fmt.Sprintf("api/v2/active_fixtures/%d/%d/%d", sportID, regionID, competitionID)
	case regionID != 0:
		path = fmt.Sprintf("api/v2/active_fixtures/%d/%d", sportID, regionID)
	default:
		path = fmt.Sprintf("api/v2/active_fixtures/%d", sportID)
	}
	env, err := c.do(ctx, http.MethodGet, path, nil, nil, false)
	if err != nil {
		return nil, err
	}
	return decodeList[ActiveFixture]("active fixtures", env)
}

// ActiveMarketTypes lists the market types offered for a sport.
func (c *Client) ActiveMarketTypes(ctx context.Context, sportID int) ([]ActiveMarketType, error) {
	path := fmt.Sprintf("api/v2/active_market_types/%d", sportID)
	env, err := c.do(ctx, http.MethodGet, path, nil, nil, false)
	if err != nil {
		return nil, err
	}
	return decodeList[ActiveMarketType]("active market types", env)
}

// ActiveMarkets lists the markets open on a fixture.
func (c *Client) ActiveMarkets(ctx context.Context, fixtureID int, grouped bool) ([]ActiveMarket, error) {
	path := fmt.Sprintf("api/v2/active_markets/%d", fixtureID)
	if grouped {
		path += "/grouped"
	}
	env, err := c.do(ctx, http.MethodGet, path, nil, nil, false)
	if err != nil {
		return nil, err
	}
	return decodeList[ActiveMarket]("active markets", env)
}

// ActiveSelections lists the selections in a market.
func (c *Client) ActiveSelections(ctx context.Context, fixtureID, marketTypeID int, handicap bool) ([]ActiveSelection, error) {
	path := fmt.Sprintf("api/v2/active_selections/%d/%d", fixtureID, marketTypeID)
	if handicap {
		path += "/handicap"
	}
	env, err := c.do(ctx, http.MethodGet, path, nil, nil, false)
	if err != nil {
		return nil, err
	}
	return decodeList[ActiveSelection]("active selections", env)
}

// Prices returns the price ladder for a competitor in a market. Handicap
// zero means a non-handicap market.
func (c *Client) Prices(ctx context.Context, fixtureID, marketTypeID int, competitor string, handicap float64) ([]Price, error) {
	path := fmt.Sprintf("api/v2/prices/%d/%d/%s", fixtureID, marketTypeID, competitor)
	if handicap != 0 {
		path = fmt.Sprintf("%s/%v", path, handicap)
	}
	env, err := c.do(ctx, http.MethodGet, path, nil, nil, false)
	if err != nil {
		return nil, err
	}
	payload, err := decodeOne[struct {
		Prices []Price `json:"prices"`
	}]("prices", env)
	if err != nil {
		return nil, err
	}
	return payload.Prices, nil
}

// SelectionsForMarket returns the selections and prices for a market. The
// endpoint serves flat markets and handicap line markets under the same
// path; the result says which shape came back.
func (c *Client) SelectionsForMarket(ctx context.Context, fixtureID, marketTypeID int, topPriceOnly bool) (*MarketSelections, error) {
	path := fmt.Sprintf("api/v2/selections_for_market/%d/%d", fixtureID, marketTypeID)
	if topPriceOnly {
		path += "/True"
	}
	env, err := c.do(ctx, http.MethodGet, path, nil, nil, false)
	if err != nil {
		return nil, err
	}
	return decodeMarketSelections(env)
}

// FixturesWithActiveSelections walks fixtures for a sport and attaches each
// fixture's selections and their prices. This is a convenience composition
// of ActiveFixtures, ActiveSelections and Prices; it issues one call per
// fixture and selection.
func (c *Client) FixturesWithActiveSelections(ctx context.Context, sportID, marketTypeID, regionID, competitionID int, handicap bool) ([]ActiveFixture, error) {
	fixtures, err := c.ActiveFixtures(ctx, sportID, regionID, competitionID)
	if err != nil {
		return nil, err
	}
	for i := range fixtures {
		fixture := &fixtures[i]
		selections, err := c.ActiveSelections(ctx, fixture.FixtureID, marketTypeID, handicap)
		if err != nil {
			return nil, err
		}
		for _, selection := range selections {
			prices, err := c.Prices(ctx, fixture.FixtureID, marketTypeID, selection.Competitor, 0)
			if err != nil {
				return nil, err
			}
			selection.Prices = prices
			fixture.AddSelection(selection)
		}
	}
	return fixtures, nil
}

// PlaceBetRequest creates a new bet request. Field predicates (stake
// multiple, minimum odds, ref formats) are checked before any request is
// built.
func (c *Client) PlaceBetRequest(ctx context.Context, req CreateBetRequest) (*BetRequestCreated, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	env, err := c.do(ctx, http.MethodPost, "api/v2/bet_request_create", nil, req, true)
	if err != nil {
		return nil, err
	}
	return decodeOne[BetRequestCreated]("bet request create", env)
}

// GetBetRequest fetches a single bet request, either by identifier or by
// filter. When an identifier is supplied it must be a valid UUID and the
// other filter fields are not sent.
func (c *Client) GetBetRequest(ctx context.Context, filter GetBetRequestFilter) (*BetRequest, error) {
	body := any(filter)
	if filter.BetRequestID != "" {
		if _, err := ParseBetRequestID(filter.BetRequestID); err != nil {
			return nil, err
		}
		body = GetBetRequestFilter{BetRequestID: filter.BetRequestID}
	}
	env, err := c.do(ctx, http.MethodPost, "api/v2/bet_request_get", nil, body, true)
	if err != nil {
		return nil, err
	}
	return decodeOne[BetRequest]("bet request", env)
}

// MatchBetRequest accepts part or all of another user's bet request at the
// given stake.
func (c *Client) MatchBetRequest(ctx context.Context, betRequestID string, acceptedStake int) (*BetRequestMatch, error) {
	if _, err := ParseBetRequestID(betRequestID); err != nil {
		return nil, err
	}
	body := map[string]any{
		"bet_request_id": betRequestID,
		"accepted_stake": acceptedStake,
	}
	env, err := c.do(ctx, http.MethodPatch, "api/v2/bet_request_match", nil, body, true)
	if err != nil {
		return nil, err
	}
	return decodeOne[BetRequestMatch]("bet request match", env)
}

// MatchBetRequestMore asks the backer for more of an already matched bet
// request.
func (c *Client) MatchBetRequestMore(ctx context.Context, betRequestID string, requestedStake float64) (*BetRequestMatch, error) {
	if _, err := ParseBetRequestID(betRequestID); err != nil {
		return nil, err
	}
	body := map[string]any{
		"bet_request_id":  betRequestID,
		"requested_stake": requestedStake,
	}
	env, err := c.do(ctx, http.MethodPatch, "api/v2/bet_request_match_more", nil, body, true)
	if err != nil {
		return nil, err
	}
	return decodeOne[BetRequestMatch]("bet request match more", env)
}

// StopBetRequest withdraws an active bet request. The server acknowledges
// with a bare message.
func (c *Client) StopBetRequest(ctx context.Context, betRequestID string, reason StopBetReason) (*ResponseMessage, error) {
	if _, err := ParseBetRequestID(betRequestID); err != nil {
		return nil, err
	}
	body := map[string]any{
		"bet_request_id": betRequestID,
	}
	if reason != "" {
		body["stop_bet_reason"] = string(reason)
	}
	env, err := c.do(ctx, http.MethodPost, "api/v2/bet_request_stop", nil, body, true)
	if err != nil {
		return nil, err
	}
	return env.message(), nil
}

// ActiveBetRequests pages through the caller's open bet requests. Zero
// limit and page use the server defaults.
func (c *Client) ActiveBetRequests(ctx context.Context, limit, page int) (*ActiveBetsPage, error) {
	path := "api/v2/get_active_bet_requests"
	if limit > 0 {
		if limit < c.minLimit {
			limit = c.minLimit
		}
		if page <= 0 {
			page = c.firstPage
		}
		path = fmt.Sprintf("%s/%d/%d", path, limit, page)
	}
	env, err := c.do(ctx, http.MethodGet, path, nil, nil, true)
	if err != nil {
		return nil, err
	}
	return decodeOne[ActiveBetsPage]("active bet requests", env)
}

// MyBets lists the caller's bets for a side and status. An empty userID
// falls back to the cached account preferences, logging in first if needed
// to populate them. Zero limit and page use the server defaults.
func (c *Client) MyBets(ctx context.Context, side BetSide, userID string, status BetRequestStatus, limit, page int) (*ActiveBetsPage, error) {
	if userID == "" {
		if !c.session.isAuthenticated(c.now()) {
			if err := c.loginOnce(ctx); err != nil {
				return nil, err
			}
		}
		prefs, ok := c.session.cachedPreferences()
		if !ok {
			return nil, ErrMissingUserID
		}
		userID = prefs.UserID
	}
	path := fmt.Sprintf("api/v2/my_bets/%s/%s/%s", side, userID, status)
	if limit > 0 {
		if limit < c.minLimit {
			limit = c.minLimit
		}
		if page <= 0 {
			page = c.firstPage
		}
		path = fmt.Sprintf("%s/%d/%d", path, limit, page)
	}
	env, err := c.do(ctx, http.MethodPost, path, nil, nil, true)
	if err != nil {
		return nil, err
	}
	return decodeOne[ActiveBetsPage]("my bets", env)
}

// BetHistory pages through the bet history for a username and status. Zero
// limit and page use the server defaults.
func (c *Client) BetHistory(ctx context.Context, username string, status BetRequestStatus, limit, page int) (*BetHistoryPage, error) {
	path := fmt.Sprintf("api/v2/bet_history/back/%s/%s", username, status)
	if limit > 0 {
		if limit < c.minLimit {
			limit = c.minLimit
		}
		if page <= 0 {
			page = c.firstPage
		}
		path = fmt.Sprintf("%s/%d/%d", path, limit, page)
	}
	env, err := c.do(ctx, http.MethodGet, path, nil, nil, true)
	if err != nil {
		return nil, err
	}
	return decodeOne[BetHistoryPage]("bet history", env)
}

// ViewedNextPrev returns the neighbouring bet requests in the browse order,
// optionally scoped to a sport.
func (c *Client) ViewedNextPrev(ctx context.Context, betRequestID string, sportID int) (*Viewed, error) {
	if _, err := ParseBetRequestID(betRequestID); err != nil {
		return nil, err
	}
	path := fmt.Sprintf("api/v2/get_viewed_next_prev/%s", betRequestID)
	if sportID != 0 {
		path = fmt.Sprintf("%s/%d", path, sportID)
	}
	env, err := c.do(ctx, http.MethodGet, path, nil, nil, true)
	if err != nil {
		return nil, err
	}
	return decodeOne[Viewed]("viewed next prev", env)
}
