package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"vehicle-tax/domain"
)

// ErrAIDisabled is returned by AIService when no API key is configured.
var ErrAIDisabled = errors.New("ai explanations disabled")

const (
	DefaultAIURL   = "https://api.openai.com/v1/chat/completions"
	DefaultAIModel = "gpt-4o-mini"

	aiMaxTokens    = 300
	aiErrBodyLimit = 1024
	systemPrompt   = "You explain Indian vehicle road-tax estimates to car owners. The numbers you are given were already computed and are final: never recalculate, round differently or introduce new amounts. Write plain, friendly English."
)

// AIConfig configures the chat-completions backend used for explanations.
type AIConfig struct {
	APIKey  string
	URL     string
	Model   string
	Timeout time.Duration
}

// AIService writes a prose explanation around an estimate that has already
// been computed. It never produces the numbers themselves.
type AIService struct {
	apiKey     string
	apiURL     string
	model      string
	enabled    bool
	httpClient *http.Client
	logger     zerolog.Logger
}

type ChatRequest struct {
	Model     string    `json:"model"`
	Messages  []Message `json:"messages"`
	MaxTokens int       `json:"max_tokens,omitempty"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

func NewAIService(cfg AIConfig, logger zerolog.Logger) *AIService {
	if cfg.URL == "" {
		cfg.URL = DefaultAIURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultAIModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &AIService{
		apiKey:  cfg.APIKey,
		apiURL:  cfg.URL,
		model:   cfg.Model,
		enabled: cfg.APIKey != "",
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger.With().Str("component", "ai").Logger(),
	}
}

func (s *AIService) Enabled() bool { return s.enabled }

// Explain asks the model for a short explanation of res. It makes a single
// attempt; callers fall back to FallbackExplanation on error.
func (s *AIService) Explain(
	ctx context.Context,
	req domain.EstimateRequest,
	res domain.EstimateResult,
) (string, error) {
	if !s.enabled {
		return "", ErrAIDisabled
	}

	prompt := fmt.Sprintf(`Explain this Karnataka lifetime road-tax estimate for a vehicle being re-registered from another state.

VEHICLE:
- Type: %s
- Original invoice cost: %s
- Age since first registration: %s years

COMPUTED RESULT (final, do not change):
- Depreciation band: %s, retaining %s of the original cost
- Depreciated value: %s
- Tax rate: %s, chosen from the original cost (not the depreciated value)
- Estimated lifetime tax: %s

INSTRUCTIONS:
1. Explain in 3-4 sentences why the vehicle is taxed on its depreciated value.
2. Mention that the rate band depends on the original cost.
3. Use only the amounts above.
4. Remind the owner the RTO decides the final amount.`,
		req.Category.Label(), FormatINR(req.OriginalCost), req.AgeYears,
		res.DepreciationBand.String(), FormatPercent(res.AppliedDepreciationFraction),
		FormatINR(res.DepreciatedValue),
		FormatPercent(res.AppliedTaxRate),
		FormatINR(res.EstimatedTax))

	return s.callLLM(ctx, prompt)
}

func (s *AIService) callLLM(ctx context.Context, prompt string) (string, error) {
	reqBody := ChatRequest{
		Model: s.model,
		Messages: []Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens: aiMaxTokens,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	start := time.Now()
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	s.logger.Debug().
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Str("model", s.model).
		Msg("chat completion returned")

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, aiErrBodyLimit))
		return "", fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var chatResp ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", errors.New("no response from AI")
	}

	text := strings.TrimSpace(chatResp.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("empty response from AI")
	}
	return text, nil
}

// FallbackExplanation is the deterministic text used when the model is
// disabled or unavailable.
func FallbackExplanation(req domain.EstimateRequest, res domain.EstimateResult) string {
	return fmt.Sprintf("A %s that is %s years old retains %s of its original value, so tax is charged on %s rather than the invoice price of %s. "+
		"Because the original cost falls in the %s band, a %s rate applies, giving an estimated lifetime tax of %s. "+
		"The RTO decides the final amount at re-registration.",
		strings.ToLower(req.Category.Label()), req.AgeYears, FormatPercent(res.AppliedDepreciationFraction),
		FormatINR(res.DepreciatedValue), FormatINR(req.OriginalCost),
		describeCostBand(res.TaxRateBand), FormatPercent(res.AppliedTaxRate), FormatINR(res.EstimatedTax))
}
