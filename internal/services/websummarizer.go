package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

type WebSummaryResult struct {
	CanonicalURL  string `json:"canonical_url"`
	ExtractedText string `json:"extracted_text"`
	Summary       string `json:"summary"`
}

// WebSummarizer is the one-stage variant of the pipeline: one prompt, one
// completion, summary only. Unlike the three-stage pipeline there is
// nothing to degrade into, so backend exhaustion surfaces as an error.
type WebSummarizer struct {
	client  CompletionClient
	parser  *ResponseParser
	prompts *PromptBuilder
}

func NewWebSummarizer(client CompletionClient, parser *ResponseParser, prompts *PromptBuilder) *WebSummarizer {
	return &WebSummarizer{
		client:  client,
		parser:  parser,
		prompts: prompts,
	}
}

func (w *WebSummarizer) Summarize(ctx context.Context, extractedText, rawURL string) (*WebSummaryResult, error) {
	canonical, err := CanonicalizeURL(rawURL)
	if err != nil {
		return nil, err
	}

	prompt, err := w.prompts.BuildWebSummaryPrompt(extractedText)
	if err != nil {
		return nil, err
	}

	raw, err := w.client.Complete(ctx, prompt, roleWebSummary)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize %s: %w", canonical, err)
	}

	parsed := w.parser.Parse(raw)

	return &WebSummaryResult{
		CanonicalURL:  canonical,
		ExtractedText: extractedText,
		Summary:       parsed.Summary,
	}, nil
}

// CanonicalizeURL normalizes a user-supplied address: scheme and host are
// lowercased and a missing scheme defaults to https. Anything that is not
// an absolute HTTP(S) URL fails with a ValidationError.
func CanonicalizeURL(rawURL string) (string, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return "", NewValidationError("url", "url must not be blank")
	}

	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", NewValidationError("url", "url is not well-formed")
	}

	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", NewValidationError("url", "only http and https urls are supported")
	}
	if parsed.Host == "" {
		return "", NewValidationError("url", "url has no host")
	}

	parsed.Scheme = scheme
	parsed.Host = strings.ToLower(parsed.Host)

	return parsed.String(), nil
}
