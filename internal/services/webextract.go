package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// WebContentExtractor fetches a page and reduces it to visible plain text.
type WebContentExtractor interface {
	Extract(ctx context.Context, pageURL string) (string, error)
}

type webContentExtractor struct {
	client *http.Client
}

func NewWebContentExtractor(timeout time.Duration) WebContentExtractor {
	return &webContentExtractor{
		client: &http.Client{Timeout: timeout},
	}
}

func (w *webContentExtractor) Extract(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", &ExtractionError{Source: pageURL, Err: err}
	}
	req.Header.Set("Accept", "text/html, text/plain")

	resp, err := w.client.Do(req)
	if err != nil {
		return "", &ExtractionError{Source: pageURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &ExtractionError{Source: pageURL, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	contentType := resp.Header.Get("Content-Type")
	if strings.Contains(contentType, "text/plain") {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", &ExtractionError{Source: pageURL, Err: err}
		}
		text := CleanText(string(body))
		if text == "" {
			return "", &ExtractionError{Source: pageURL, Err: errors.New("page has no readable text")}
		}
		return text, nil
	}
	if contentType != "" && !strings.Contains(contentType, "text/html") {
		return "", &ExtractionError{Source: pageURL, Err: fmt.Errorf("unsupported content type %q", contentType)}
	}

	text, err := htmlToText(resp.Body)
	if err != nil {
		return "", &ExtractionError{Source: pageURL, Err: err}
	}
	if text == "" {
		return "", &ExtractionError{Source: pageURL, Err: errors.New("page has no readable text")}
	}

	return text, nil
}

// htmlToText walks the token stream and keeps only visible text, skipping
// script, style and noscript subtrees.
func htmlToText(body io.Reader) (string, error) {
	tokenizer := html.NewTokenizer(body)
	var builder strings.Builder
	skipDepth := 0

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			if errors.Is(tokenizer.Err(), io.EOF) {
				return CleanText(builder.String()), nil
			}
			return "", fmt.Errorf("failed to parse HTML: %w", tokenizer.Err())
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			if isInvisibleTag(string(name)) {
				skipDepth++
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if isInvisibleTag(string(name)) && skipDepth > 0 {
				skipDepth--
			}
		case html.TextToken:
			if skipDepth == 0 {
				if text := strings.TrimSpace(string(tokenizer.Text())); text != "" {
					builder.WriteString(text)
					builder.WriteString("\n")
				}
			}
		}
	}
}

func isInvisibleTag(name string) bool {
	switch name {
	case "script", "style", "noscript":
		return true
	}
	return false
}
