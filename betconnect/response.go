package betconnect

import (
	"encoding/json"
	"errors"
)

// envelope is a classified success response. Exactly one of Data and Message
// may be empty; a body with neither is rejected by classify.
type envelope struct {
	StatusCode int
	URL        string
	Message    string
	Data       json.RawMessage
}

// message converts a data-less envelope into the plain acknowledgement
// resource used by endpoints like stop-bet.
func (e *envelope) message() *ResponseMessage {
	return &ResponseMessage{
		Message:    e.Message,
		RequestURL: e.URL,
		StatusCode: e.StatusCode,
	}
}

// classify decides what a raw response is: success with data, success with
// a bare message, a server-reported semantic error, or a contract
// violation.
//
// A response is ok iff its status is 200 or in the caller-supplied accept
// set. Anything else becomes an APIError built from the response's own
// status and message; the server answered, so this is not a transport
// failure.
func classify(status int, url string, body []byte, accept []int) (*envelope, error) {
	if !statusAccepted(status, accept) {
		var failure struct {
			Message string `json:"message"`
		}
		// Best effort: a non-JSON error body still yields a usable APIError.
		_ = json.Unmarshal(body, &failure)
		return nil, &APIError{StatusCode: status, URL: url, Message: failure.Message}
	}

	var wire struct {
		Data    json.RawMessage `json:"data"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, &DecodeError{Shape: "envelope", Err: err}
	}
	if wire.Data == nil && wire.Message == "" {
		// Neither key present: the server broke its own contract. Fail
		// loudly rather than guessing.
		return nil, &DecodeError{Shape: "envelope", Err: errors.New("response contains neither data nor message")}
	}

	return &envelope{
		StatusCode: status,
		URL:        url,
		Message:    wire.Message,
		Data:       wire.Data,
	}, nil
}

func statusAccepted(status int, accept []int) bool {
	if status == 200 {
		return true
	}
	for _, code := range accept {
		if status == code {
			return true
		}
	}
	return false
}

// decodeMarketSelections disambiguates the two shapes served by the
// selections-for-market endpoint. The first list element is peeked for a
// "line" key before any decoding: a line market decodes via the nested
// per-line shape, everything else via the flat shape. The peek must come
// first; decoding the flat shape and falling back on failure would silently
// succeed on the overlapping fields and produce wrong types.
func decodeMarketSelections(env *envelope) (*MarketSelections, error) {
	var items []json.RawMessage
	if err := decodeInto("selections for market", env.Data, &items); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return &MarketSelections{Flat: []MarketSelection{}}, nil
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(items[0], &probe); err != nil {
		return nil, &DecodeError{Shape: "selections for market", Err: err}
	}

	if _, isLine := probe["line"]; isLine {
		lines, err := decodeList[LineMarketSelections]("line market selections", env)
		if err != nil {
			return nil, err
		}
		return &MarketSelections{Lines: lines}, nil
	}

	flat, err := decodeList[MarketSelection]("market selections", env)
	if err != nil {
		return nil, err
	}
	return &MarketSelections{Flat: flat}, nil
}
