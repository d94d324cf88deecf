package betconnect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// do builds and executes one API call. If the operation requires
// authentication and the session token is stale, exactly one login
// round-trip happens first; concurrent callers share that flight. A failed
// login propagates without the original call being attempted. There are no
// other retries at this layer.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, authenticated bool, accept ...int) (*envelope, error) {
	if authenticated && !c.session.isAuthenticated(c.now()) {
		c.logger.Info().Str("path", path).Msg("Session token missing or expired, logging in")
		if err := c.loginOnce(ctx); err != nil {
			return nil, err
		}
	}
	return c.send(ctx, method, path, query, body, accept...)
}

// loginOnce deduplicates concurrent login attempts through a single flight.
func (c *Client) loginOnce(ctx context.Context) error {
	_, err, _ := c.loginFlight.Do("login", func() (any, error) {
		_, err := c.Login(ctx)
		return nil, err
	})
	return err
}

// send performs the transport round-trip and hands the raw response to the
// classifier. Transport-level failures are wrapped in TransportError; they
// never escape raw.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, body any, accept ...int) (*envelope, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("betconnect: encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("betconnect: build request: %w", err)
	}

	req.SetBasicAuth(c.session.username, c.session.password)
	req.Header.Set("X-API-KEY", c.session.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token, ok := c.session.currentToken(); ok {
		req.Header.Set("X-AUTH-TOKEN", token)
	}

	c.logger.Debug().Str("method", method).Str("url", target).Msg("Making BetConnect API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{URL: target, Params: body, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{URL: target, Params: body, Err: err}
	}

	return classify(resp.StatusCode, target, raw, accept)
}
