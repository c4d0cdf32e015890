package app

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/cryptodigest/internal/common"
	"github.com/ternarybob/cryptodigest/internal/googlenews"
	"github.com/ternarybob/cryptodigest/internal/interfaces"
	"github.com/ternarybob/cryptodigest/internal/services/llm"
	"github.com/ternarybob/cryptodigest/internal/services/mailer"
	"github.com/ternarybob/cryptodigest/internal/services/market"
	"github.com/ternarybob/cryptodigest/internal/services/news"
	"github.com/ternarybob/cryptodigest/internal/yahoo"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	PriceService interfaces.PriceSource
	NewsService  interfaces.NewsSource
	LLMService   interfaces.Analyst
	MailService  interfaces.Mailer

	Digest *Digest
}

// Option customises App construction
type Option func(*options)

type options struct {
	mailer interfaces.Mailer
}

// WithMailer replaces the SMTP mailer, e.g. with a WriterMailer for previews
func WithMailer(m interfaces.Mailer) Option {
	return func(o *options) {
		o.mailer = m
	}
}

// New initializes the application with all dependencies. The config must
// already have passed Validate.
func New(ctx context.Context, cfg *common.Config, logger arbor.ILogger, opts ...Option) (*App, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	app := &App{
		Config: cfg,
		Logger: logger,
	}

	if err := app.initServices(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.Digest = NewDigest(
		app.PriceService,
		app.NewsService,
		app.LLMService,
		app.MailService,
		common.DefaultRegistry(),
		cfg.Email.To,
		logger,
	)

	logger.Info().
		Str("failure_policy", string(cfg.Fetch.FailurePolicy)).
		Str("model", cfg.Gemini.Model).
		Str("smtp_host", cfg.Email.SMTPHost).
		Msg("Application initialization complete")

	return app, nil
}

func (a *App) initServices(ctx context.Context, o *options) error {
	policy := a.Config.Fetch.FailurePolicy

	yahooClient := yahoo.NewClient(
		yahoo.WithBaseURL(a.Config.Fetch.YahooBaseURL),
		yahoo.WithTimeout(a.Config.MarketTimeout()),
		yahoo.WithLogger(a.Logger),
	)
	a.PriceService = market.NewService(yahooClient, a.Config.Fetch.HistoryRange, policy, a.Logger)

	newsClient := googlenews.NewClient(
		googlenews.WithBaseURL(a.Config.Fetch.NewsBaseURL),
		googlenews.WithTimeout(a.Config.NewsTimeout()),
		googlenews.WithLocale(googlenews.Locale{
			Language: a.Config.Fetch.NewsLanguage,
			Country:  a.Config.Fetch.NewsCountry,
			Edition:  a.Config.Fetch.NewsEditionKey,
		}),
		googlenews.WithLogger(a.Logger),
	)
	a.NewsService = news.NewService(newsClient, a.Config.Fetch.MaxHeadlines, policy, a.Logger)

	gemini, err := llm.NewGeminiService(ctx, a.Config, a.Logger)
	if err != nil {
		return err
	}
	a.LLMService = gemini

	if o.mailer != nil {
		a.MailService = o.mailer
	} else {
		a.MailService = mailer.NewService(a.Config.Email, a.Logger)
	}

	a.Logger.Debug().Msg("Services initialized")
	return nil
}
