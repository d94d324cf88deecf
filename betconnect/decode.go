package betconnect

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// APITime decodes the timestamp shapes the exchange emits. The API is not
// consistent: login and preference fields are RFC 3339, fixture fields drop
// the zone, and selection update times use a space separator.
type APITime struct {
	time.Time
}

var apiTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

func (t *APITime) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return &DecodeError{Shape: "timestamp", Err: err}
	}
	for _, layout := range apiTimeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return &DecodeError{Shape: "timestamp", Err: fmt.Errorf("unrecognised value %q", s)}
}

func (t APITime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339Nano))
}

// Amount is a monetary value in integer pennies, the canonical
// representation throughout this package. The exchange sends decimal pounds
// for stakes and liabilities; conversion happens here, at the decode
// boundary, so the ambiguity never propagates.
type Amount int64

func (a *Amount) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var pounds float64
	if err := json.Unmarshal(b, &pounds); err != nil {
		return &DecodeError{Shape: "amount", Err: err}
	}
	*a = AmountFromPounds(pounds)
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Pounds())
}

// Pounds is the derived display value.
func (a Amount) Pounds() float64 { return float64(a) / 100 }

// AmountFromPounds converts a decimal pounds value to pennies, rounding to
// the nearest penny.
func AmountFromPounds(pounds float64) Amount {
	return Amount(math.Round(pounds * 100))
}

// wireString tolerates fields the server sends either quoted or as bare
// numbers (price numerators, source ids).
type wireString string

func (s *wireString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = wireString(v)
		return nil
	}
	*s = wireString(b)
	return nil
}

// ParseBetRequestID validates a bet request identifier. Every operation that
// accepts one rejects malformed values here, before any request is built.
func ParseBetRequestID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", ErrInvalidBetRequestID, id)
	}
	// uuid.Parse accepts braced and URN forms; the API only takes the
	// canonical 36-character representation.
	if parsed.String() != strings.ToLower(id) {
		return uuid.Nil, fmt.Errorf("%w: %q", ErrInvalidBetRequestID, id)
	}
	return parsed, nil
}

const (
	maxOrderRefLen    = 50
	maxStrategyRefLen = 15
)

// NewCustomerOrderRef validates a customer-supplied order reference.
func NewCustomerOrderRef(ref string) (string, error) {
	if ref == "" || len(ref) > maxOrderRefLen {
		return "", fmt.Errorf("%w: got %d characters", ErrInvalidOrderRef, len(ref))
	}
	return ref, nil
}

// GenerateCustomerOrderRef returns a random order reference.
func GenerateCustomerOrderRef() string {
	return uuid.NewString()
}

// NewCustomerStrategyRef validates a strategy reference. Spaces are stripped
// before length checking, matching server behaviour.
func NewCustomerStrategyRef(ref string) (string, error) {
	ref = strings.ReplaceAll(ref, " ", "")
	if ref == "" || len(ref) > maxStrategyRefLen {
		return "", fmt.Errorf("%w: got %d characters", ErrInvalidStrategyRef, len(ref))
	}
	return ref, nil
}

func validateStake(stake int) error {
	if stake <= 0 || stake%5 != 0 {
		return fmt.Errorf("%w: got %d", ErrStakeSize, stake)
	}
	return nil
}

func validatePrice(price float64) error {
	if price < 1.01 {
		return fmt.Errorf("%w: got %v", ErrMinOdds, price)
	}
	return nil
}

// decodeInto unmarshals raw data into v, normalising failures to DecodeError.
func decodeInto(shape string, raw json.RawMessage, v any) error {
	if raw == nil {
		return &DecodeError{Shape: shape, Err: errors.New("response envelope has no data")}
	}
	if err := json.Unmarshal(raw, v); err != nil {
		var de *DecodeError
		if errors.As(err, &de) {
			return de
		}
		return &DecodeError{Shape: shape, Err: err}
	}
	return nil
}

// decodeOne decodes a single-object data payload.
func decodeOne[T any](shape string, env *envelope) (*T, error) {
	var v T
	if err := decodeInto(shape, env.Data, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// decodeList decodes a list data payload. An empty list is a valid result
// and comes back as an empty slice, never an error.
func decodeList[T any](shape string, env *envelope) ([]T, error) {
	items := []T{}
	if err := decodeInto(shape, env.Data, &items); err != nil {
		return nil, err
	}
	return items, nil
}
