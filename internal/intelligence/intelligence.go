// Package intelligence wraps the Gemini client for listing discovery, photo
// condition analysis, and the valuation assistant.
package intelligence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/genai"

	"vinpoint/internal/config"
)

var (
	// ErrEmptyResponse indicates the model returned no usable candidates.
	ErrEmptyResponse = errors.New("model returned no content")
)

const maxAttempts = 3

// System defines the model operations available to domain systems.
type System interface {
	// GenerateJSON sends a prompt and returns the model's JSON response.
	GenerateJSON(ctx context.Context, prompt string) (json.RawMessage, error)
	// GenerateText sends a prompt and returns the model's text response.
	GenerateText(ctx context.Context, prompt string) (string, error)
	// AnalyzeImage sends a prompt with inline image data to the vision model
	// and returns the model's JSON response.
	AnalyzeImage(ctx context.Context, prompt, mimeType string, data []byte) (json.RawMessage, error)
}

type gemini struct {
	client      *genai.Client
	model       string
	visionModel string
	logger      *slog.Logger
}

// New creates an intelligence system backed by the Gemini API.
func New(ctx context.Context, cfg *config.IntelligenceConfig, logger *slog.Logger) (System, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &gemini{
		client:      client,
		model:       cfg.Model,
		visionModel: cfg.VisionModel,
		logger:      logger.With("system", "intelligence"),
	}, nil
}

func (g *gemini) GenerateJSON(ctx context.Context, prompt string) (json.RawMessage, error) {
	text, err := g.generate(ctx, g.model, textContents(prompt), jsonConfig())
	if err != nil {
		return nil, err
	}
	return json.RawMessage(text), nil
}

func (g *gemini) GenerateText(ctx context.Context, prompt string) (string, error) {
	return g.generate(ctx, g.model, textContents(prompt), nil)
}

func (g *gemini) AnalyzeImage(ctx context.Context, prompt, mimeType string, data []byte) (json.RawMessage, error) {
	contents := []*genai.Content{{
		Parts: []*genai.Part{
			{Text: prompt},
			{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}},
		},
	}}

	text, err := g.generate(ctx, g.visionModel, contents, jsonConfig())
	if err != nil {
		return nil, err
	}
	return json.RawMessage(text), nil
}

// generate calls the model with bounded retries and exponential backoff.
func (g *gemini) generate(
	ctx context.Context,
	model string,
	contents []*genai.Content,
	cfg *genai.GenerateContentConfig,
) (string, error) {
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(time.Duration(300*(1<<attempt)) * time.Millisecond):
			}
		}

		resp, err := g.client.Models.GenerateContent(ctx, model, contents, cfg)
		if err != nil {
			lastErr = err
			g.logger.Warn("model call failed", "model", model, "attempt", attempt+1, "error", err)
			continue
		}

		if len(resp.Candidates) == 0 ||
			resp.Candidates[0].Content == nil ||
			len(resp.Candidates[0].Content.Parts) == 0 {
			lastErr = ErrEmptyResponse
			continue
		}

		return resp.Candidates[0].Content.Parts[0].Text, nil
	}

	return "", fmt.Errorf("generate content: %w", lastErr)
}

func textContents(prompt string) []*genai.Content {
	return []*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}}
}

func jsonConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{ResponseMIMEType: "application/json"}
}
