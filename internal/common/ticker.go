// Package common provides shared utilities across the application.
package common

// BitcoinSymbol is the Yahoo symbol for the Bitcoin/USD pair.
const BitcoinSymbol = "BTC-USD"

// Ticker pairs a listed symbol with the display name used in prompts and news queries.
type Ticker struct {
	// Symbol is the exchange code (e.g., "COIN")
	Symbol string
	// Name is the company display name (e.g., "Coinbase")
	Name string
}

// defaultRegistry is ordered; prompts and fetches follow this order.
var defaultRegistry = []Ticker{
	{Symbol: "MARA", Name: "Marathon Digital Holdings"},
	{Symbol: "RIOT", Name: "Riot Platforms"},
	{Symbol: "COIN", Name: "Coinbase"},
}

// DefaultRegistry returns a copy of the Bitcoin-proxy stocks covered by the digest.
func DefaultRegistry() []Ticker {
	out := make([]Ticker, len(defaultRegistry))
	copy(out, defaultRegistry)
	return out
}

// String returns "Name (SYMBOL)".
func (t Ticker) String() string {
	if t.Name == "" {
		return t.Symbol
	}
	return t.Name + " (" + t.Symbol + ")"
}
