// -----------------------------------------------------------------------
// News Service - recent headlines per company as a bulleted block
// -----------------------------------------------------------------------

package news

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/cryptodigest/internal/common"
	"github.com/ternarybob/cryptodigest/internal/googlenews"
	"github.com/ternarybob/cryptodigest/internal/interfaces"
)

const (
	// NoNewsFound replaces the block when the feed cannot be fetched or parsed.
	NoNewsFound = "- No news found"

	// DefaultMaxHeadlines is the number of feed items kept per company, and the ceiling.
	DefaultMaxHeadlines = 5
)

// FeedSearcher returns feed items for a query in feed order.
type FeedSearcher interface {
	Search(ctx context.Context, query string) ([]googlenews.Item, error)
}

// Service implements interfaces.NewsSource
type Service struct {
	searcher     FeedSearcher
	maxHeadlines int
	policy       common.FailurePolicy
	logger       arbor.ILogger
}

var _ interfaces.NewsSource = (*Service)(nil)

// NewService creates a new news service. maxHeadlines outside 1..DefaultMaxHeadlines
// uses DefaultMaxHeadlines.
func NewService(searcher FeedSearcher, maxHeadlines int, policy common.FailurePolicy, logger arbor.ILogger) *Service {
	if maxHeadlines <= 0 || maxHeadlines > DefaultMaxHeadlines {
		maxHeadlines = DefaultMaxHeadlines
	}
	return &Service{
		searcher:     searcher,
		maxHeadlines: maxHeadlines,
		policy:       policy,
		logger:       logger,
	}
}

// Headlines searches "<company> stock" and returns the leading titles as
// "- <title>" lines joined by newlines. An empty feed yields "".
func (s *Service) Headlines(ctx context.Context, company string) (string, error) {
	items, err := s.searcher.Search(ctx, company+" stock")
	if err != nil {
		if !s.policy.Degrades() {
			return "", fmt.Errorf("failed to fetch news for %s: %w", company, err)
		}
		s.logger.Warn().
			Err(err).
			Str("company", company).
			Msg("News feed unavailable, using fallback")
		return NoNewsFound, nil
	}

	block := FormatHeadlines(items, s.maxHeadlines)
	s.logger.Debug().
		Str("company", company).
		Int("items", len(items)).
		Msg("Headlines fetched")

	return block, nil
}

// FormatHeadlines bullets the titles of the first limit items. Whitespace runs
// inside a title, including newlines, collapse to one space so every line is a bullet.
func FormatHeadlines(items []googlenews.Item, limit int) string {
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, "- "+strings.Join(strings.Fields(item.Title), " "))
	}

	return strings.Join(lines, "\n")
}
