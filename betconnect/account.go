package betconnect

import (
	"context"
	"errors"
	"net/http"
)

const (
	loginPath           = "api/v2/login"
	logoutPath          = "api/v2/logout"
	refreshTokenPath    = "api/v2/refresh_session_token"
	userPreferencesPath = "api/v2/get_user_preferences"
	balancePath         = "api/v2/get_balance"
)

// Login authenticates with the stored credentials and records the token in
// the session. On success the account preferences and balance are fetched
// and cached; a gamstop-flagged account aborts with a PreconditionError.
//
// A failure envelope or a response without a token leaves the session
// unchanged and returns an AuthenticationError.
func (c *Client) Login(ctx context.Context) (*LoginResult, error) {
	env, err := c.send(ctx, http.MethodPost, loginPath, nil, nil)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return nil, &AuthenticationError{Username: c.session.username, Message: apiErr.Message}
		}
		return nil, err
	}

	token, err := decodeOne[Token]("login token", env)
	if err != nil || token.Token == "" {
		return nil, &AuthenticationError{Username: c.session.username, Message: "missing login token in response data"}
	}

	c.session.recordLogin(token.Token, c.now())
	c.logger.Info().Str("username", c.session.username).Msg("Logged in to BetConnect")

	if _, err := c.UserPreferences(ctx); err != nil {
		return nil, err
	}
	if _, err := c.AccountBalance(ctx); err != nil {
		return nil, err
	}

	return &LoginResult{Message: env.Message, Data: *token}, nil
}

// Logout invalidates the token server-side and clears the session. Logging
// out while already logged out is a no-op.
func (c *Client) Logout(ctx context.Context) error {
	if _, ok := c.session.currentToken(); !ok {
		return nil
	}
	if _, err := c.send(ctx, http.MethodPost, logoutPath, nil, nil); err != nil {
		return err
	}
	c.session.recordLogout()
	c.logger.Info().Str("username", c.session.username).Msg("Logged out of BetConnect")
	return nil
}

// RefreshSessionToken extends the current session inside the keep-alive
// interval. A fresh token in the response restarts the validity window.
func (c *Client) RefreshSessionToken(ctx context.Context) (*LoginResult, error) {
	env, err := c.do(ctx, http.MethodPost, refreshTokenPath, nil, nil, true)
	if err != nil {
		return nil, err
	}
	token, err := decodeOne[Token]("refresh token", env)
	if err != nil {
		return nil, err
	}
	if token.Token != "" {
		c.session.recordLogin(token.Token, c.now())
	}
	return &LoginResult{Message: env.Message, Data: *token}, nil
}

// UserPreferences fetches the account snapshot and caches it in the
// session. A gamstop-flagged account returns a PreconditionError and is not
// cached.
func (c *Client) UserPreferences(ctx context.Context) (*AccountPreferences, error) {
	env, err := c.do(ctx, http.MethodGet, userPreferencesPath, nil, nil, true)
	if err != nil {
		return nil, err
	}
	prefs, err := decodeOne[AccountPreferences]("account preferences", env)
	if err != nil {
		return nil, err
	}
	if err := c.session.setPreferences(*prefs); err != nil {
		return nil, err
	}
	return prefs, nil
}

// AccountBalance fetches the current balance and caches the snapshot with
// its retrieval time.
func (c *Client) AccountBalance(ctx context.Context) (*Balance, error) {
	env, err := c.do(ctx, http.MethodGet, balancePath, nil, nil, true)
	if err != nil {
		return nil, err
	}
	balance, err := decodeOne[Balance]("balance", env)
	if err != nil {
		return nil, err
	}
	c.session.setBalance(*balance, c.now())
	return balance, nil
}
