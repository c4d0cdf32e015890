// -----------------------------------------------------------------------
// Market Service - daily close history to a formatted day-over-day quote
// -----------------------------------------------------------------------

package market

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/cryptodigest/internal/common"
	"github.com/ternarybob/cryptodigest/internal/interfaces"
)

// Unavailable is the quote used when fewer than two closes are known.
const Unavailable = "Unavailable"

// ClosesFetcher returns daily closes for a symbol, oldest first.
type ClosesFetcher interface {
	DailyCloses(ctx context.Context, symbol, rangeParam string) ([]float64, error)
}

// Service implements interfaces.PriceSource
type Service struct {
	fetcher      ClosesFetcher
	historyRange string
	policy       common.FailurePolicy
	logger       arbor.ILogger
}

var _ interfaces.PriceSource = (*Service)(nil)

// NewService creates a new market service
func NewService(fetcher ClosesFetcher, historyRange string, policy common.FailurePolicy, logger arbor.ILogger) *Service {
	return &Service{
		fetcher:      fetcher,
		historyRange: historyRange,
		policy:       policy,
		logger:       logger,
	}
}

// Quote fetches the trailing daily closes for symbol and formats the latest
// close against the one before it.
func (s *Service) Quote(ctx context.Context, symbol string) (string, error) {
	closes, err := s.fetcher.DailyCloses(ctx, symbol, s.historyRange)
	if err != nil {
		if !s.policy.Degrades() {
			return "", fmt.Errorf("failed to fetch price history for %s: %w", symbol, err)
		}
		s.logger.Warn().
			Err(err).
			Str("symbol", symbol).
			Msg("Price history unavailable, using sentinel")
		return Unavailable, nil
	}

	quote := FormatQuote(closes)
	s.logger.Debug().
		Str("symbol", symbol).
		Int("closes", len(closes)).
		Str("quote", quote).
		Msg("Price quote computed")

	return quote, nil
}

// FormatQuote renders "$<latest> (<+/-change>%)" from closes ordered oldest
// first, where change = (latest - previous) / previous * 100 in float64.
// Both figures are rounded from their binary value to two places, and the sign
// follows the unrounded change, so a small drop reads "-0.00". Fewer than two
// closes, or a zero previous close, yield Unavailable.
func FormatQuote(closes []float64) string {
	if len(closes) < 2 {
		return Unavailable
	}

	latest := closes[len(closes)-1]
	previous := closes[len(closes)-2]
	if previous == 0 {
		return Unavailable
	}

	change := (latest - previous) / previous * 100

	return fmt.Sprintf("$%.2f (%+.2f%%)", latest, change)
}
