package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/cryptodigest/internal/common"
	"github.com/ternarybob/cryptodigest/internal/interfaces"
	"github.com/ternarybob/cryptodigest/internal/services/llm"
	"github.com/ternarybob/cryptodigest/internal/services/mailer"
	"github.com/ternarybob/cryptodigest/internal/services/prompt"
)

// Report records one pipeline run. It is never persisted.
type Report struct {
	RunID        string
	StartedAt    time.Time
	FinishedAt   time.Time
	BitcoinQuote string
	Stocks       []prompt.StockSection
	Prompt       string
	Analysis     string
	Recipient    string
	Sent         bool
}

// Digest runs the daily pipeline: fetch, prompt, analyse, send.
type Digest struct {
	prices    interfaces.PriceSource
	news      interfaces.NewsSource
	analyst   interfaces.Analyst
	mailer    interfaces.Mailer
	tickers   []common.Ticker
	recipient string
	logger    arbor.ILogger
}

func NewDigest(
	prices interfaces.PriceSource,
	news interfaces.NewsSource,
	analyst interfaces.Analyst,
	m interfaces.Mailer,
	tickers []common.Ticker,
	recipient string,
	logger arbor.ILogger,
) *Digest {
	return &Digest{
		prices:    prices,
		news:      news,
		analyst:   analyst,
		mailer:    m,
		tickers:   tickers,
		recipient: recipient,
		logger:    logger,
	}
}

// Run executes the pipeline once. Stages run strictly in order; any returned
// error ends the run before the email is sent. On success exactly one email
// has been handed to the mailer.
func (d *Digest) Run(ctx context.Context) (*Report, error) {
	report := &Report{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
		Recipient: d.recipient,
	}
	log := d.logger.WithCorrelationId(report.RunID)

	log.Info().Int("tickers", len(d.tickers)).Msg("Digest run started")

	btc, err := d.prices.Quote(ctx, common.BitcoinSymbol)
	if err != nil {
		return report, fmt.Errorf("bitcoin quote: %w", err)
	}
	report.BitcoinQuote = btc
	log.Debug().Str("symbol", common.BitcoinSymbol).Str("quote", btc).Msg("Bitcoin quote fetched")

	for _, ticker := range d.tickers {
		quote, err := d.prices.Quote(ctx, ticker.Symbol)
		if err != nil {
			return report, fmt.Errorf("%s quote: %w", ticker.Symbol, err)
		}

		headlines, err := d.news.Headlines(ctx, ticker.Name)
		if err != nil {
			return report, fmt.Errorf("%s headlines: %w", ticker.Name, err)
		}

		report.Stocks = append(report.Stocks, prompt.StockSection{
			Ticker:    ticker,
			Quote:     quote,
			Headlines: headlines,
		})
		log.Debug().Str("symbol", ticker.Symbol).Str("quote", quote).Msg("Stock data fetched")
	}

	report.Prompt = prompt.Build(prompt.Input{
		BitcoinQuote: report.BitcoinQuote,
		Stocks:       report.Stocks,
	})
	log.Debug().Int("prompt_length", len(report.Prompt)).Msg("Prompt assembled")

	analysis, err := d.analyst.Analyze(ctx, report.Prompt)
	if err != nil {
		return report, fmt.Errorf("analysis: %w", err)
	}
	if strings.TrimSpace(analysis) == "" {
		analysis = llm.FallbackAnalysis
	}
	report.Analysis = analysis

	if err := d.mailer.Send(ctx, d.recipient, mailer.DigestSubject, analysis); err != nil {
		return report, fmt.Errorf("send email: %w", err)
	}
	report.Sent = true
	report.FinishedAt = time.Now()

	log.Info().
		Str("to", d.recipient).
		Dur("duration", report.FinishedAt.Sub(report.StartedAt)).
		Msg("Digest email sent")

	return report, nil
}
