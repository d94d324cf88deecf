// Package betconnect provides a typed client for the BetConnect betting
// exchange REST API.
//
// The client authenticates with a username, password and API key, maintains
// a bearer-token session with a fixed validity window, and exposes typed
// operations for browsing sports, markets and prices and for placing,
// matching and stopping bet requests.
//
// # Session lifecycle
//
// A token is obtained with Login and lives for a fixed validity window
// (default 2h). Operations that require authentication log in on demand:
// when the token is missing or expired, exactly one login round-trip runs
// before the call, shared across concurrent callers. If that login fails,
// the original call is never attempted. RefreshDue signals when the shorter
// keep-alive interval (default 15m) has elapsed and RefreshSessionToken
// should be called; there is no background refresh loop.
//
// # Errors
//
// Server-reported semantic failures come back as *APIError; network-level
// failures as *TransportError; malformed payloads as *DecodeError. A
// gamstop-flagged account produces a *PreconditionError and must not trade.
// Branch with errors.As:
//
//	sports, err := client.ActiveSports(ctx, false)
//	var apiErr *betconnect.APIError
//	if errors.As(err, &apiErr) {
//		// the server answered with a structured failure
//	}
//
// # Usage
//
//	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
//	client, err := betconnect.NewClient(username, password, apiKey, logger,
//		betconnect.WithEnvironment(betconnect.Staging),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	ctx := context.Background()
//	if _, err := client.Login(ctx); err != nil {
//		log.Fatal(err)
//	}
//	sports, err := client.ActiveSports(ctx, false)
package betconnect
