package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"text/template"
	"time"

	"google.golang.org/genai"

	"github.com/cafflog/cafflog-api/internal/catalog"
	"github.com/cafflog/cafflog-api/internal/config"
)

// promptTemplateText instructs the model to answer with a single strict
// JSON object, so the response parses without any scraping.
const promptTemplateText = `You are a caffeine content expert. Estimate the caffeine content of the drink described below.

Rules:
- Answer with a single JSON object and nothing else.
- The object must have exactly two fields: "drink" (a short normalized name for the drink) and "estimated_mg" (the caffeine content in milligrams as a number).
- Assume one typical serving unless the description says otherwise.
- If the drink contains no caffeine, use 0 for "estimated_mg".

Drink description: {{.Description}}`

// estimateSchema is the expected structure of the model's JSON answer.
type estimateSchema struct {
	Drink       string  `json:"drink"`
	EstimatedMg float64 `json:"estimated_mg"`
}

// promptData carries the values substituted into the prompt template.
type promptData struct {
	Description string
}

// GeminiEstimator implements the catalog.DrinkEstimator interface using
// Google's Gemini API.
type GeminiEstimator struct {
	logger         *slog.Logger
	config         config.LLMConfig
	promptTemplate *template.Template
	model          string

	// generate performs one API call. Tests replace it to exercise the
	// retry and classification logic without network access.
	generate func(ctx context.Context, prompt string) (*genai.GenerateContentResponse, error)
}

// Ensure GeminiEstimator implements catalog.DrinkEstimator.
var _ catalog.DrinkEstimator = (*GeminiEstimator)(nil)

// NewDrinkEstimator creates a new GeminiEstimator from the given LLM
// configuration. Returns catalog.ErrInvalidConfig when the API key or
// model name is missing.
func NewDrinkEstimator(
	ctx context.Context,
	log *slog.Logger,
	cfg config.LLMConfig,
) (*GeminiEstimator, error) {
	if log == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", catalog.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", catalog.ErrInvalidConfig)
	}

	promptTemplate, err := template.New("drink_estimate").Parse(promptTemplateText)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v",
			catalog.ErrInvalidConfig, err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			catalog.ErrInvalidConfig, err)
	}

	estimator := &GeminiEstimator{
		logger:         log.With(slog.String("component", "gemini_estimator")),
		config:         cfg,
		promptTemplate: promptTemplate,
		model:          cfg.ModelName,
	}
	estimator.generate = func(ctx context.Context, prompt string) (*genai.GenerateContentResponse, error) {
		return client.Models.GenerateContent(ctx, estimator.model, genai.Text(prompt),
			&genai.GenerateContentConfig{
				ResponseMIMEType: "application/json",
			})
	}

	return estimator, nil
}

// EstimateDrink implements catalog.DrinkEstimator.
func (g *GeminiEstimator) EstimateDrink(
	ctx context.Context,
	description string,
) (*catalog.DrinkEstimate, error) {
	prompt, err := g.createPrompt(ctx, description)
	if err != nil {
		return nil, err
	}
	return g.callWithRetry(ctx, prompt)
}

// createPrompt renders the prompt template for the given description.
func (g *GeminiEstimator) createPrompt(ctx context.Context, description string) (string, error) {
	if strings.TrimSpace(description) == "" {
		return "", ErrEmptyDescription
	}

	var buf bytes.Buffer
	if err := g.promptTemplate.Execute(&buf, promptData{Description: description}); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}

	g.logger.DebugContext(ctx, "prompt generated",
		slog.Int("description_length", len(description)),
		slog.Int("prompt_length", buf.Len()))
	return buf.String(), nil
}

// callWithRetry calls the Gemini API with exponential backoff. Transient
// failures (API errors) are retried up to MaxRetries times; permanent
// failures (safety blocks, unparseable answers) return immediately.
func (g *GeminiEstimator) callWithRetry(
	ctx context.Context,
	prompt string,
) (*catalog.DrinkEstimate, error) {
	maxRetries := g.config.MaxRetries
	if maxRetries < 0 {
		g.logger.WarnContext(ctx, "invalid max retries value, using default",
			slog.Int("max_retries", 3))
		maxRetries = 3
	}
	baseDelaySeconds := g.config.RetryDelaySeconds
	if baseDelaySeconds < 1 {
		g.logger.WarnContext(ctx, "invalid retry delay value, using default",
			slog.Int("base_delay_seconds", 2))
		baseDelaySeconds = 2
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for attempt := 0; ; attempt++ {
		g.logger.DebugContext(ctx, "calling Gemini API",
			slog.Int("attempt", attempt+1),
			slog.Int("max_attempts", maxRetries+1))

		resp, err := g.generate(ctx, prompt)
		if err == nil {
			estimate, parseErr := parseEstimate(resp)
			if parseErr == nil {
				g.logger.InfoContext(ctx, "drink estimated",
					slog.String("drink", estimate.Drink),
					slog.Float64("estimated_mg", estimate.EstimatedMg),
					slog.Int("attempt", attempt+1))
				return estimate, nil
			}
			// Response-shape problems don't improve on retry.
			g.logger.WarnContext(ctx, "Gemini response rejected",
				slog.String("error", parseErr.Error()))
			return nil, parseErr
		}

		g.logger.ErrorContext(ctx, "Gemini API call failed",
			slog.Int("attempt", attempt+1),
			slog.String("error", err.Error()))

		if attempt >= maxRetries {
			return nil, fmt.Errorf("%w: exceeded maximum retry attempts (%d): %v",
				catalog.ErrTransientFailure, maxRetries, err)
		}

		// delay = baseDelay * 2^attempt * jitter, jitter in [0.5, 1.0)
		backoffSeconds := float64(baseDelaySeconds) * math.Pow(2, float64(attempt))
		delay := time.Duration(backoffSeconds * (0.5 + rng.Float64()*0.5) * float64(time.Second))

		g.logger.DebugContext(ctx, "retrying after delay",
			slog.Int("attempt", attempt+1),
			slog.Duration("delay", delay))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", catalog.ErrTransientFailure, ctx.Err())
		}
	}
}

// parseEstimate validates the API response shape and decodes the model's
// JSON answer into a DrinkEstimate.
func parseEstimate(resp *genai.GenerateContentResponse) (*catalog.DrinkEstimate, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("%w: no content generated", catalog.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return nil, fmt.Errorf("%w: request blocked by safety filters", catalog.ErrContentBlocked)
	}
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return nil, fmt.Errorf("%w: empty content in response", catalog.ErrInvalidResponse)
	}

	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		text.WriteString(part.Text)
	}

	var parsed estimateSchema
	if err := json.Unmarshal([]byte(text.String()), &parsed); err != nil {
		return nil, fmt.Errorf("%w: failed to parse JSON answer: %v",
			catalog.ErrInvalidResponse, err)
	}
	if parsed.Drink == "" {
		return nil, fmt.Errorf("%w: missing drink name", catalog.ErrInvalidResponse)
	}
	if parsed.EstimatedMg < 0 {
		return nil, fmt.Errorf("%w: negative caffeine estimate", catalog.ErrInvalidResponse)
	}

	return &catalog.DrinkEstimate{
		Drink:       parsed.Drink,
		EstimatedMg: parsed.EstimatedMg,
	}, nil
}
