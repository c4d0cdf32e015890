package app

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/cryptodigest/internal/common"
	"github.com/ternarybob/cryptodigest/internal/services/llm"
	"github.com/ternarybob/cryptodigest/internal/services/mailer"
)

type fakePrices struct {
	quotes map[string]string
	errs   map[string]error
	calls  []string
}

func (f *fakePrices) Quote(ctx context.Context, symbol string) (string, error) {
	f.calls = append(f.calls, symbol)
	if err := f.errs[symbol]; err != nil {
		return "", err
	}
	if q, ok := f.quotes[symbol]; ok {
		return q, nil
	}
	return "Unavailable", nil
}

type fakeNews struct {
	errs  map[string]error
	calls []string
}

func (f *fakeNews) Headlines(ctx context.Context, company string) (string, error) {
	f.calls = append(f.calls, company)
	if err := f.errs[company]; err != nil {
		return "", err
	}
	return "- " + company + " headline", nil
}

type fakeAnalyst struct {
	text   string
	err    error
	prompt string
}

func (f *fakeAnalyst) Analyze(ctx context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.text, f.err
}

type sentMail struct {
	to, subject, body string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (f *fakeMailer) Send(ctx context.Context, to, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

type fixture struct {
	prices  *fakePrices
	news    *fakeNews
	analyst *fakeAnalyst
	mailer  *fakeMailer
	digest  *Digest
}

func newFixture() *fixture {
	f := &fixture{
		prices: &fakePrices{
			quotes: map[string]string{
				"BTC-USD": "$61234.57 (+2.06%)",
				"COIN":    "$55.00 (+10.00%)",
			},
			errs: map[string]error{},
		},
		news:    &fakeNews{errs: map[string]error{}},
		analyst: &fakeAnalyst{text: "Markets were calm."},
		mailer:  &fakeMailer{},
	}
	f.digest = NewDigest(f.prices, f.news, f.analyst, f.mailer,
		common.DefaultRegistry(), "reader@example.com", arbor.NewNoOpLogger())
	return f
}

func TestDigestRun_SendsExactlyOneEmail(t *testing.T) {
	f := newFixture()

	report, err := f.digest.Run(context.Background())

	require.NoError(t, err)
	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, sentMail{
		to:      "reader@example.com",
		subject: mailer.DigestSubject,
		body:    "Markets were calm.",
	}, f.mailer.sent[0])

	assert.True(t, report.Sent)
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, "$61234.57 (+2.06%)", report.BitcoinQuote)
	assert.Equal(t, f.analyst.prompt, report.Prompt)
	assert.Contains(t, report.Prompt, "Coinbase (COIN): $55.00 (+10.00%)")
	assert.Contains(t, report.Prompt, "Marathon Digital Holdings (MARA): Unavailable")
}

func TestDigestRun_FetchOrder(t *testing.T) {
	f := newFixture()

	_, err := f.digest.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"BTC-USD", "MARA", "RIOT", "COIN"}, f.prices.calls)
	assert.Equal(t, []string{"Marathon Digital Holdings", "Riot Platforms", "Coinbase"}, f.news.calls)
}

func TestDigestRun_EmptyAnalysisUsesFallback(t *testing.T) {
	for _, text := range []string{"", "  \n\t"} {
		t.Run(fmt.Sprintf("%q", text), func(t *testing.T) {
			f := newFixture()
			f.analyst.text = text

			report, err := f.digest.Run(context.Background())

			require.NoError(t, err)
			require.Len(t, f.mailer.sent, 1)
			assert.Equal(t, llm.FallbackAnalysis, f.mailer.sent[0].body)
			assert.Equal(t, "AI analysis unavailable today.", report.Analysis)
		})
	}
}

func TestDigestRun_ErrorsStopBeforeSend(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name    string
		arrange func(f *fixture)
		wantErr string
	}{
		{
			name:    "bitcoin quote",
			arrange: func(f *fixture) { f.prices.errs["BTC-USD"] = boom },
			wantErr: "bitcoin quote: boom",
		},
		{
			name:    "stock quote",
			arrange: func(f *fixture) { f.prices.errs["RIOT"] = boom },
			wantErr: "RIOT quote: boom",
		},
		{
			name:    "headlines",
			arrange: func(f *fixture) { f.news.errs["Coinbase"] = boom },
			wantErr: "Coinbase headlines: boom",
		},
		{
			name:    "analysis",
			arrange: func(f *fixture) { f.analyst.err = boom },
			wantErr: "analysis: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			tt.arrange(f)

			report, err := f.digest.Run(context.Background())

			require.Error(t, err)
			assert.ErrorIs(t, err, boom)
			assert.EqualError(t, err, tt.wantErr)
			assert.Empty(t, f.mailer.sent)
			assert.False(t, report.Sent)
		})
	}
}

func TestDigestRun_MailFailureIsReturned(t *testing.T) {
	f := newFixture()
	f.mailer.err = errors.New("relay refused")

	report, err := f.digest.Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "send email: relay refused")
	assert.False(t, report.Sent)
	assert.Equal(t, "Markets were calm.", report.Analysis)
}
