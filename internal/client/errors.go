package client

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind separates transport failures from service-side rejections
type Kind string

const (
	KindNetwork Kind = "network"
	KindService Kind = "service"
)

// fallbackMessages are shown when the service gives no detail
var fallbackMessages = map[string]string{
	OpQuery:   "Failed to query historical patterns",
	OpSuggest: "Failed to load ticker suggestions",
	OpTickers: "Failed to load available tickers",
	OpETF:     "Failed to load ETF constituents",
	OpPrices:  "Failed to load price data",
	OpHealth:  "Analytics service is unavailable",
}

// APIError represents a failed analytics API call
type APIError struct {
	Op     string
	Kind   Kind
	Status int    // 0 when no response was received
	Detail string // service-provided detail, if any
	Err    error
}

func (e *APIError) Error() string {
	switch {
	case e.Status > 0 && e.Detail != "":
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Detail)
	case e.Status > 0:
		return fmt.Sprintf("%s: status %d", e.Op, e.Status)
	case e.Err != nil:
		return e.Op + ": " + e.Err.Error()
	default:
		return e.Op + ": request failed"
	}
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// UserMessage is the text shown to the user for this failure
func (e *APIError) UserMessage() string {
	if e.Detail != "" {
		return e.Detail
	}
	if msg, ok := fallbackMessages[e.Op]; ok {
		return msg
	}
	return "Request failed"
}

// Retryable reports whether trying again later could succeed.
// The client itself never retries.
func (e *APIError) Retryable() bool {
	return e.Kind == KindNetwork || e.Status == 429 || e.Status >= 500
}

// errorBody is the service's error envelope. detail is either a string
// or a list of validation entries carrying a msg field.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

type detailEntry struct {
	Msg string `json:"msg"`
}

// parseDetail extracts a human-readable detail from an error body
func parseDetail(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil || len(eb.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(eb.Detail, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var entries []detailEntry
	if err := json.Unmarshal(eb.Detail, &entries); err == nil {
		msgs := make([]string, 0, len(entries))
		for _, e := range entries {
			if m := strings.TrimSpace(e.Msg); m != "" {
				msgs = append(msgs, m)
			}
		}
		return strings.Join(msgs, "; ")
	}

	return ""
}
