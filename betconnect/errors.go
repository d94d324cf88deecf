package betconnect

import (
	"errors"
	"fmt"
)

// Common errors returned before any request is made.
var (
	// ErrMissingCredentials indicates the username, password or API key is empty.
	ErrMissingCredentials = errors.New("username, password and api key are required")

	// ErrUnknownEnvironment indicates an environment outside Production/Staging.
	ErrUnknownEnvironment = errors.New("unknown betconnect environment")

	// ErrInvalidProductionURL indicates a personalised production URL that does
	// not end in the required betconnect domain suffix.
	ErrInvalidProductionURL = errors.New("personalised production url must end in " + productionURLSuffix)

	// ErrInvalidSessionWindow indicates a non-positive token validity or
	// refresh interval. A zero validity would make every login expire
	// immediately and re-enter the login gate.
	ErrInvalidSessionWindow = errors.New("token validity and refresh interval must be positive")

	// ErrInvalidBetRequestID indicates a bet request identifier that is not a valid UUID.
	ErrInvalidBetRequestID = errors.New("bet request id is not a valid UUID")

	// ErrInvalidOrderRef indicates a customer order ref outside the accepted format.
	ErrInvalidOrderRef = errors.New("customer order ref must be 1-50 characters")

	// ErrInvalidStrategyRef indicates a customer strategy ref outside the accepted format.
	ErrInvalidStrategyRef = errors.New("customer strategy ref must be 1-15 characters")

	// ErrStakeSize indicates a stake that is not a positive multiple of 5.
	ErrStakeSize = errors.New("stake must be a positive multiple of 5")

	// ErrMinOdds indicates a price below the exchange minimum of 1.01.
	ErrMinOdds = errors.New("price must be at least 1.01")

	// ErrMissingUserID indicates no user id was supplied and none is cached
	// from the account preferences.
	ErrMissingUserID = errors.New("no user id supplied and none cached; call Login or UserPreferences first")
)

// TransportError wraps a network-level failure (DNS, timeout, refused
// connection). The server never answered; contrast with APIError.
type TransportError struct {
	URL    string
	Params any
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("betconnect: request to %s failed: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// APIError is a semantic failure reported by the server: it answered with a
// non-accepted status code and a structured message. Callers branch on it
// with errors.As.
type APIError struct {
	StatusCode int
	URL        string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("betconnect: API error: status %d for %s: %s", e.StatusCode, e.URL, e.Message)
}

// IsNotFound reports whether the server answered 404.
func (e *APIError) IsNotFound() bool { return e.StatusCode == 404 }

// IsUnauthorized reports whether the server rejected the credentials or token.
func (e *APIError) IsUnauthorized() bool { return e.StatusCode == 401 || e.StatusCode == 403 }

// AuthenticationError indicates the login round-trip completed at the
// transport level but produced no usable token. Session state is left
// untouched.
type AuthenticationError struct {
	Username string
	Message  string
}

func (e *AuthenticationError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("betconnect: login failed for %s: %s", e.Username, e.Message)
	}
	return fmt.Sprintf("betconnect: login failed for %s", e.Username)
}

// DecodeError indicates a payload that violates the wire contract: a missing
// envelope key, a malformed timestamp or UUID, or a shape mismatch. It should
// not occur against a conforming server.
type DecodeError struct {
	Shape string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("betconnect: cannot decode %s: %v", e.Shape, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// PreconditionError is a fatal account-level violation, such as a
// gamstop-excluded account. No further trading calls may be made.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string {
	return "betconnect: precondition violated: " + e.Reason
}
