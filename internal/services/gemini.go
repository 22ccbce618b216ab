package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"google.golang.org/genai"

	"resumatch/resume-analyzer/internal/config"
)

// CompletionClient wraps the LLM completion backend. One live request per
// Complete call; retry/timeout policy lives here and nowhere else.
type CompletionClient interface {
	Complete(ctx context.Context, prompt string, role string) (string, error)
}

type geminiCompletionClient struct {
	cfg      config.GeminiConfig
	generate func(ctx context.Context, prompt, role string) (string, error)
}

func NewGeminiCompletionClient(cfg config.GeminiConfig) (CompletionClient, error) {
	ctx := context.Background()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	g := &geminiCompletionClient{cfg: cfg}
	g.generate = func(ctx context.Context, prompt, role string) (string, error) {
		return g.generateOnce(ctx, client, prompt, role)
	}
	return g, nil
}

// Complete implements CompletionClient. Every failure, including a timeout
// or a malformed envelope, is treated as transient and retried with a
// doubling delay until the attempt budget runs out.
func (g *geminiCompletionClient) Complete(ctx context.Context, prompt string, role string) (string, error) {
	var lastErr error
	delay := g.cfg.RetryInitialDelay

	for attempt := 1; attempt <= g.cfg.MaxRetries; attempt++ {
		text, err := g.generate(ctx, prompt, role)
		if err == nil {
			return text, nil
		}
		lastErr = err

		if attempt < g.cfg.MaxRetries {
			log.Printf("⚠️ Completion attempt %d failed: %v. Retrying in %s...", attempt, err, delay)
			select {
			case <-ctx.Done():
				return "", &LLMRequestError{Attempts: attempt, Err: ctx.Err()}
			case <-time.After(delay):
			}
			delay *= 2
		}
	}

	return "", &LLMRequestError{Attempts: g.cfg.MaxRetries, Err: lastErr}
}

func (g *geminiCompletionClient) generateOnce(ctx context.Context, client *genai.Client, prompt, role string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.RequestTimeout)
	defer cancel()

	temperature := g.cfg.Temperature
	genConfig := &genai.GenerateContentConfig{
		Temperature:       &temperature,
		MaxOutputTokens:   g.cfg.MaxOutputTokens,
		SystemInstruction: genai.NewContentFromText(role, genai.RoleUser),
	}

	resp, err := client.Models.GenerateContent(ctx, g.cfg.Model, genai.Text(prompt), genConfig)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", &LLMResponseError{Reason: "no completion choice in response"}
	}

	text := resp.Text()
	if text == "" {
		return "", &LLMResponseError{Reason: "no text content in response"}
	}

	return text, nil
}
