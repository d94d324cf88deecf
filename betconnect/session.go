package betconnect

import (
	"sync"
	"time"
)

// session holds the authentication lifecycle state for a single client:
// credentials, the current token and its expiry bookkeeping, and the cached
// account snapshot. One session per client; no cross-client sharing.
//
// Invariant: token is set iff loginTime is set.
type session struct {
	mu sync.Mutex

	username string
	password string
	apiKey   string

	token       string
	loginTime   time.Time
	tokenExpiry time.Time
	nextRefresh time.Time

	tokenValidity   time.Duration
	refreshInterval time.Duration

	preferences *AccountPreferences
	balance     *Balance
	balanceTime time.Time
}

func newSession(username, password, apiKey string, tokenValidity, refreshInterval time.Duration) *session {
	return &session{
		username:        username,
		password:        password,
		apiKey:          apiKey,
		tokenValidity:   tokenValidity,
		refreshInterval: refreshInterval,
	}
}

// recordLogin stores the token and starts the validity and refresh windows.
func (s *session) recordLogin(token string, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.loginTime = now
	s.tokenExpiry = now.Add(s.tokenValidity)
	s.nextRefresh = now.Add(s.refreshInterval)
}

// recordLogout clears the token and all expiry state. Calling it while
// already logged out is a no-op.
func (s *session) recordLogout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.loginTime = time.Time{}
	s.tokenExpiry = time.Time{}
	s.nextRefresh = time.Time{}
}

// isAuthenticated reports whether the token is still inside its validity
// window. Never errors: an unset expiry simply reads as not authenticated.
func (s *session) isAuthenticated(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.tokenExpiry.IsZero() && now.Before(s.tokenExpiry)
}

// currentToken returns the token for the outbound auth header, if any.
func (s *session) currentToken() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.token != ""
}

// setPreferences caches the account snapshot. A gamstop-flagged account is a
// fatal precondition violation: nothing is cached and the caller must not
// proceed to trade.
func (s *session) setPreferences(prefs AccountPreferences) error {
	if prefs.GamstopExcluded() {
		return &PreconditionError{
			Reason: "API access is strictly forbidden for users with a Gamstop ban against their account",
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.preferences = &prefs
	return nil
}

// setBalance caches the balance snapshot. Purely informational.
func (s *session) setBalance(balance Balance, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balance = &balance
	s.balanceTime = now
}

func (s *session) cachedPreferences() (*AccountPreferences, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.preferences == nil {
		return nil, false
	}
	prefs := *s.preferences
	return &prefs, true
}

func (s *session) cachedBalance() (*Balance, time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.balance == nil {
		return nil, time.Time{}, false
	}
	balance := *s.balance
	return &balance, s.balanceTime, true
}

func (s *session) refreshDue(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.nextRefresh.IsZero() && now.After(s.nextRefresh)
}
