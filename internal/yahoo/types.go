// Package yahoo provides a minimal client for the Yahoo Finance chart API.
package yahoo

import (
	"errors"
	"fmt"
)

// ErrNoData is returned (wrapped) when the chart response carries no usable series.
var ErrNoData = errors.New("no chart data")

// APIError represents a non-200 response from the chart API.
type APIError struct {
	StatusCode int
	Message    string
	Symbol     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("yahoo chart API error: %s (status: %d, symbol: %s)", e.Message, e.StatusCode, e.Symbol)
}

// chartResponse mirrors the v8 chart payload. Closes are nullable: Yahoo emits
// null for intervals without a trade.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol   string `json:"symbol"`
				Currency string `json:"currency"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}
