package interfaces

import (
	"context"
)

// PriceSource produces the formatted price quote for a symbol.
type PriceSource interface {
	// Quote returns "$<price> (<+/-pct>%)" or the "Unavailable" sentinel.
	// An error is only returned under the fail-fast policy.
	Quote(ctx context.Context, symbol string) (string, error)
}

// NewsSource produces the bulleted headline block for a company.
type NewsSource interface {
	// Headlines returns up to the configured number of "- <title>" lines.
	// An error is only returned under the fail-fast policy.
	Headlines(ctx context.Context, company string) (string, error)
}

// Analyst turns an assembled prompt into the analysis text.
type Analyst interface {
	Analyze(ctx context.Context, prompt string) (string, error)
}

// Mailer delivers a single email.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}
