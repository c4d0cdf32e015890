package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/cryptodigest/internal/common"
	"github.com/ternarybob/cryptodigest/internal/interfaces"
	"google.golang.org/genai"
)

// FallbackAnalysis is sent when the model returns no usable text.
const FallbackAnalysis = "AI analysis unavailable today."

// GeminiService implements interfaces.Analyst using the Gemini API.
type GeminiService struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	logger  arbor.ILogger
}

var _ interfaces.Analyst = (*GeminiService)(nil)

// NewGeminiService creates a new Gemini analysis service.
//
// The model identifier comes from configuration; provider-side model names
// change over time. An empty BaseURL uses the public Gemini API endpoint.
func NewGeminiService(ctx context.Context, config *common.Config, logger arbor.ILogger) (*GeminiService, error) {
	if config.Gemini.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required (set GEMINI_API_KEY or gemini.api_key in config)")
	}
	if config.Gemini.Model == "" {
		return nil, fmt.Errorf("Gemini model is required (set DIGEST_GEMINI_MODEL or gemini.model in config)")
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  config.Gemini.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.Gemini.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: config.Gemini.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize genai client: %w", err)
	}

	service := &GeminiService{
		client:  client,
		model:   config.Gemini.Model,
		timeout: config.GeminiTimeout(),
		logger:  logger,
	}

	logger.Info().
		Str("model", service.model).
		Dur("timeout", service.timeout).
		Msg("Gemini analysis service initialized")

	return service, nil
}

// Analyze submits prompt as a single request and returns the generated text.
// An empty response yields FallbackAnalysis; a request failure is returned.
func (s *GeminiService) Analyze(ctx context.Context, prompt string) (string, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	startTime := time.Now()
	s.logger.Debug().
		Int("prompt_length", len(prompt)).
		Str("model", s.model).
		Msg("Starting analysis generation")

	resp, err := s.client.Models.GenerateContent(timeoutCtx, s.model, genai.Text(prompt), nil)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("model", s.model).
			Msg("Analysis generation failed")
		return "", fmt.Errorf("analysis generation failed: %w", err)
	}

	text := extractText(resp)
	if strings.TrimSpace(text) == "" {
		s.logger.Warn().
			Str("model", s.model).
			Msg("Model returned no text, using fallback analysis")
		return FallbackAnalysis, nil
	}

	s.logger.Info().
		Int("response_length", len(text)).
		Dur("duration", time.Since(startTime)).
		Msg("Analysis generation completed")

	return text, nil
}

// extractText concatenates the text parts of the first candidate that has any.
func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}

	var response strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part != nil && part.Text != "" {
				response.WriteString(part.Text)
			}
		}
		if response.Len() > 0 {
			break
		}
	}

	return response.String()
}
