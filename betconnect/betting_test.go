package betconnect

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticatedCallTriggersSingleLogin(t *testing.T) {
	var logins, balanceCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v2/login", func(w http.ResponseWriter, r *http.Request) {
		logins.Add(1)
		w.Write([]byte(loginBody))
	})
	mux.HandleFunc("/api/v2/get_user_preferences", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(prefsBody))
	})
	mux.HandleFunc("/api/v2/get_balance", func(w http.ResponseWriter, r *http.Request) {
		balanceCalls.Add(1)
		assert.Equal(t, "tok-123", r.Header.Get("X-AUTH-TOKEN"))
		w.Write([]byte(balanceBody))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := newTestClient(t, server)
	require.False(t, client.IsAuthenticated())

	balance, err := client.AccountBalance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(10050), balance.Balance)

	// one login, then the original call plus the balance fetch the login
	// itself performs
	assert.Equal(t, int32(1), logins.Load())
	assert.Equal(t, int32(2), balanceCalls.Load())
	assert.True(t, client.IsAuthenticated())
}

func TestConcurrentCallsShareOneLogin(t *testing.T) {
	var logins atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v2/login", func(w http.ResponseWriter, r *http.Request) {
		logins.Add(1)
		time.Sleep(20 * time.Millisecond)
		w.Write([]byte(loginBody))
	})
	mux.HandleFunc("/api/v2/get_user_preferences", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(prefsBody))
	})
	mux.HandleFunc("/api/v2/get_balance", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(balanceBody))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := newTestClient(t, server)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := client.AccountBalance(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), logins.Load())
}

func TestFailedLoginBlocksOriginalCall(t *testing.T) {
	var historyCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v2/login", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Invalid username or password"}`))
	})
	mux.HandleFunc("/api/v2/bet_history/", func(w http.ResponseWriter, r *http.Request) {
		historyCalls.Add(1)
		w.Write([]byte(`{"data":{"bets":[]}}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := newTestClient(t, server)
	_, err := client.BetHistory(context.Background(), "trader", BetRequestActive, 0, 0)

	var authErr *AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, int32(0), historyCalls.Load())
}

func TestMalformedBetRequestIDNeverReachesNetwork(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	t.Cleanup(server.Close)

	client := newTestClient(t, server)
	ctx := context.Background()

	_, err := client.GetBetRequest(ctx, GetBetRequestFilter{BetRequestID: "not-a-uuid"})
	assert.ErrorIs(t, err, ErrInvalidBetRequestID)

	_, err = client.MatchBetRequest(ctx, "not-a-uuid", 50)
	assert.ErrorIs(t, err, ErrInvalidBetRequestID)

	_, err = client.StopBetRequest(ctx, "not-a-uuid", StopBetPriceChange)
	assert.ErrorIs(t, err, ErrInvalidBetRequestID)

	_, err = client.ViewedNextPrev(ctx, "not-a-uuid", 0)
	assert.ErrorIs(t, err, ErrInvalidBetRequestID)

	assert.Equal(t, int32(0), calls.Load())
}

func TestPlaceBetRequestValidatesBeforeNetwork(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	t.Cleanup(server.Close)

	client := newTestClient(t, server)
	_, err := client.PlaceBetRequest(context.Background(), CreateBetRequest{
		FixtureID: 1, MarketTypeID: 1, Competitor: "1",
		Price: 6.0, Stake: 47, BetType: Back,
	})

	assert.ErrorIs(t, err, ErrStakeSize)
	assert.Equal(t, int32(0), calls.Load())
}

func TestActiveSports(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/active_sports", r.URL.Path)
		w.Write([]byte(`{"data":[
			{"id":1,"sport_id":14,"name":"horse_racing","display_name":"Horse Racing","slug":"horse-racing","order":1,"active":1,"rate":2.0,"bets_available":12},
			{"id":2,"sport_id":1,"name":"football","display_name":"Football","slug":"football","order":2,"active":1,"rate":2.0,"bets_available":0}
		]}`))
	}))
	t.Cleanup(server.Close)

	client := newTestClient(t, server)
	sports, err := client.ActiveSports(context.Background(), false)
	require.NoError(t, err)

	require.Len(t, sports, 2)
	assert.Equal(t, "Horse Racing", sports[0].DisplayName)
	assert.Equal(t, 12, sports[0].BetsAvailable)
}

func TestActiveSportsWithBets(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/active_sports/True", r.URL.Path)
		w.Write([]byte(`{"data":[]}`))
	}))
	t.Cleanup(server.Close)

	client := newTestClient(t, server)
	sports, err := client.ActiveSports(context.Background(), true)
	require.NoError(t, err)
	assert.NotNil(t, sports)
	assert.Empty(t, sports)
}

func TestActiveFixturesPathForms(t *testing.T) {
	tests := []struct {
		name          string
		regionID      int
		competitionID int
		wantPath      string
	}{
		{name: "sport only", wantPath: "/api/v2/active_fixtures/14"},
		{name: "sport and region", regionID: 3, wantPath: "/api/v2/active_fixtures/14/3"},
		{name: "full filter", regionID: 3, competitionID: 9, wantPath: "/api/v2/active_fixtures/14/3/9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, tt.wantPath, r.URL.Path)
				w.Write([]byte(`{"data":[]}`))
			}))
			t.Cleanup(server.Close)

			client := newTestClient(t, server)
			_, err := client.ActiveFixtures(context.Background(), 14, tt.regionID, tt.competitionID)
			require.NoError(t, err)
		})
	}
}

func TestPrices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/prices/8172709/259/31", r.URL.Path)
		w.Write([]byte(`{"data":{"prices":[
			{"price":"6.00","numerator":"5","denominator":"1","bookmakers":[{"id":"17","name":"Ladbrokes"}]},
			{"price":"5.50","numerator":"9","denominator":"2","bookmakers":[]}
		]}}`))
	}))
	t.Cleanup(server.Close)

	client := newTestClient(t, server)
	prices, err := client.Prices(context.Background(), 8172709, 259, "31", 0)
	require.NoError(t, err)

	require.Len(t, prices, 2)
	assert.Equal(t, "6.00", prices[0].Price)
	require.Len(t, prices[0].Bookmakers, 1)
}

func TestPlaceBetRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v2/bet_request_create" {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			w.Write([]byte(`{"data":{
				"bet_request_id":"c9bf9e57-1685-4c89-bafb-ff5af830be8a",
				"created":"2024-03-01T10:00:00",
				"debit_stake":50.0,
				"debit_commission":1.0
			},"message":"Bet request created"}`))
			return
		}
		serveLoginFlow(w, r)
	}))
	t.Cleanup(server.Close)

	client := newTestClient(t, server)
	created, err := client.PlaceBetRequest(context.Background(), CreateBetRequest{
		FixtureID: 8172709, MarketTypeID: 259, Competitor: "31",
		Price: 6.0, Stake: 50, BetType: Back,
	})
	require.NoError(t, err)

	assert.Equal(t, "c9bf9e57-1685-4c89-bafb-ff5af830be8a", created.BetRequestID.String())
	assert.Equal(t, Amount(5000), created.DebitStake)
	assert.Equal(t, Amount(100), created.DebitCommission)
}

func TestStopBetRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v2/bet_request_stop" {
			w.Write([]byte(`{"message":"Bet request stopped"}`))
			return
		}
		serveLoginFlow(w, r)
	}))
	t.Cleanup(server.Close)

	client := newTestClient(t, server)
	msg, err := client.StopBetRequest(context.Background(), "c9bf9e57-1685-4c89-bafb-ff5af830be8a", StopBetPriceChange)
	require.NoError(t, err)
	assert.Equal(t, "Bet request stopped", msg.Message)
	assert.Equal(t, 200, msg.StatusCode)
}

func TestBetHistoryPagingClamps(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v2/bet_history/back/trader/settled/20/1" {
			w.Write([]byte(`{"data":{"bets":[],"last_page":1,"total_bets":0}}`))
			return
		}
		serveLoginFlow(w, r)
	}))
	t.Cleanup(server.Close)

	client := newTestClient(t, server)

	// a limit below the server minimum is raised, page zero becomes the first
	page, err := client.BetHistory(context.Background(), "trader", BetRequestSettled, 5, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, page.TotalBets)
	assert.NotNil(t, page.Bets)
}

func TestMyBetsRequiresUserID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(serveLoginFlow))
	t.Cleanup(server.Close)

	client := newTestClient(t, server)
	client.session.recordLogin("tok-123", time.Now())

	_, err := client.MyBets(context.Background(), Back, "", BetRequestActive, 0, 0)
	assert.ErrorIs(t, err, ErrMissingUserID)
}

func TestMyBetsFallsBackToCachedUserID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v2/my_bets/back/u-1/active" {
			w.Write([]byte(`{"data":{"bets":[],"bets_active":0,"last_page":1,"total_bets":0}}`))
			return
		}
		serveLoginFlow(w, r)
	}))
	t.Cleanup(server.Close)

	client := newTestClient(t, server)
	client.session.recordLogin("tok-123", time.Now())
	require.NoError(t, client.session.setPreferences(AccountPreferences{Username: "trader", UserID: "u-1", GamstopResult: "N"}))

	page, err := client.MyBets(context.Background(), Back, "", BetRequestActive, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, page.BetsActive)
}

func TestSelectionsForMarketTopPricePath(t *testing.T) {
	tests := []struct {
		name         string
		topPriceOnly bool
		wantPath     string
	}{
		{name: "all prices", wantPath: "/api/v2/selections_for_market/8172709/259"},
		// the server's flag segment is capitalised
		{name: "top price only", topPriceOnly: true, wantPath: "/api/v2/selections_for_market/8172709/259/True"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, tt.wantPath, r.URL.Path)
				w.Write([]byte(`{"data":[]}`))
			}))
			t.Cleanup(server.Close)

			client := newTestClient(t, server)
			result, err := client.SelectionsForMarket(context.Background(), 8172709, 259, tt.topPriceOnly)
			require.NoError(t, err)
			assert.False(t, result.IsLineMarket())
		})
	}
}

func TestMyBetsSideAndPaging(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v2/my_bets/lay/u-1/settled/20/1" {
			w.Write([]byte(`{"data":{"bets":[],"bets_active":0,"last_page":1,"total_bets":0}}`))
			return
		}
		serveLoginFlow(w, r)
	}))
	t.Cleanup(server.Close)

	client := newTestClient(t, server)
	client.session.recordLogin("tok-123", time.Now())
	require.NoError(t, client.session.setPreferences(AccountPreferences{Username: "trader", UserID: "u-1", GamstopResult: "N"}))

	// the requested side reaches the wire; a limit below the server
	// minimum is raised and page zero becomes the first
	page, err := client.MyBets(context.Background(), Lay, "", BetRequestSettled, 5, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, page.TotalBets)
}

func TestMyBetsLogsInForUserID(t *testing.T) {
	var logins atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v2/login" {
			logins.Add(1)
		}
		if r.URL.Path == "/api/v2/my_bets/back/u-1/active" {
			w.Write([]byte(`{"data":{"bets":[],"bets_active":0,"last_page":1,"total_bets":0}}`))
			return
		}
		serveLoginFlow(w, r)
	}))
	t.Cleanup(server.Close)

	// no prior login: the user id fallback logs in to populate the
	// cached preferences instead of failing
	client := newTestClient(t, server)
	_, err := client.MyBets(context.Background(), Back, "", BetRequestActive, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int32(1), logins.Load())
}

// serveLoginFlow answers the login round-trip and its follow-up fetches so
// authenticated operations under test can get past the auth gate.
func serveLoginFlow(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/api/v2/login":
		w.Write([]byte(loginBody))
	case "/api/v2/get_user_preferences":
		w.Write([]byte(prefsBody))
	case "/api/v2/get_balance":
		w.Write([]byte(balanceBody))
	default:
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"Not found"}`))
	}
}
