package services

import (
	"regexp"
	"strings"
)

const noSummaryPlaceholder = "No summary returned by the model."

// ParsedCompletion is the structured form of one completion. Degraded is
// set when no list structure was found and the whole text became the
// summary.
type ParsedCompletion struct {
	Summary    string
	Highlights []string
	Degraded   bool
}

// ResponseParser coerces freeform completion text into a summary plus a
// bounded highlight list. This is the single place untrusted model output
// is turned into the structured type, so it tolerates sloppy formatting
// and never returns an error.
type ResponseParser struct {
	maxHighlights int
}

func NewResponseParser(maxHighlights int) *ResponseParser {
	return &ResponseParser{maxHighlights: maxHighlights}
}

var numberedMarker = regexp.MustCompile(`^\d+[.)]\s+`)

// Parse expects a short summary paragraph followed by a bulleted list.
// Recognized list markers: "-", "*", "•" and numbered items ("1.", "2)").
// Marker prefixes are trimmed, order and adjacent duplicates are kept as
// produced, and the list is capped at the configured maximum.
func (p *ResponseParser) Parse(raw string) ParsedCompletion {
	var summaryLines []string
	var highlights []string

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if item, ok := stripListMarker(line); ok {
			if item != "" && len(highlights) < p.maxHighlights {
				highlights = append(highlights, item)
			}
			continue
		}

		// Prose after the list starts is ignored; the summary is
		// everything before the first bullet.
		if len(highlights) == 0 {
			summaryLines = append(summaryLines, line)
		}
	}

	if len(highlights) == 0 {
		summary := strings.TrimSpace(raw)
		if summary == "" {
			summary = noSummaryPlaceholder
		}
		return ParsedCompletion{
			Summary:    summary,
			Highlights: []string{},
			Degraded:   true,
		}
	}

	summary := strings.Join(summaryLines, "\n")
	if summary == "" {
		summary = noSummaryPlaceholder
	}

	return ParsedCompletion{
		Summary:    summary,
		Highlights: highlights,
	}
}

func stripListMarker(line string) (string, bool) {
	for _, marker := range []string{"- ", "* ", "• "} {
		if strings.HasPrefix(line, marker) {
			return strings.TrimSpace(line[len(marker):]), true
		}
	}
	if loc := numberedMarker.FindStringIndex(line); loc != nil {
		return strings.TrimSpace(line[loc[1]:]), true
	}
	return "", false
}
