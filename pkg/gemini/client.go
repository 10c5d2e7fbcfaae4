// Package gemini wraps the Google GenAI SDK behind the narrow surface the
// narrative service needs: one prompt in, one JSON document out.
package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/delphienergia/capex-backend/pkg/config"
	pkgerrors "github.com/delphienergia/capex-backend/pkg/errors"
)

// Client issues generateContent requests against the Gemini API.
type Client struct {
	inner   *genai.Client
	model   string
	timeout config.GeminiConfig
}

// New builds a Gemini client from configuration.
func New(ctx context.Context, cfg config.GeminiConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "gemini api key is not configured")
	}
	inner, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating gemini client")
	}
	return &Client{inner: inner, model: cfg.Model, timeout: cfg}, nil
}

// GenerateJSON sends the prompt with a system instruction and asks the model
// for an application/json response. The raw text is returned as-is; callers
// repair and decode it.
func (c *Client) GenerateJSON(ctx context.Context, systemPrompt, prompt string) (string, error) {
	if c.inner == nil {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "gemini client not initialized")
	}

	if c.timeout.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout.Timeout)
		defer cancel()
	}

	genCfg := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(float32(0.2)),
		ResponseMIMEType: "application/json",
	}
	if systemPrompt != "" {
		genCfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		}
	}

	result, err := c.inner.Models.GenerateContent(ctx, c.model, genai.Text(prompt), genCfg)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "gemini generation failed").WithDetails(map[string]any{
			"model": c.model,
		})
	}

	text := result.Text()
	if text == "" {
		return "", pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("gemini returned an empty response from %s", c.model))
	}
	return text, nil
}
