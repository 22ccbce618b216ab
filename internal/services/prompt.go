package services

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Prompt inputs are truncated so a long resume cannot blow up the request.
const promptInputLimit = 4000

const responseFormatHint = "Respond with one short summary paragraph, followed by a bulleted list (each item on its own line starting with \"- \") of at most %d key points."

type PromptBuilder struct {
	maxHighlights int
}

func NewPromptBuilder(maxHighlights int) *PromptBuilder {
	return &PromptBuilder{maxHighlights: maxHighlights}
}

// BuildSimilarityPrompt asks for the overlaps between resume and job
// description. Built solely from the original inputs.
func (pb *PromptBuilder) BuildSimilarityPrompt(resumeText, jdText string) (string, error) {
	if err := requireText("resume", resumeText); err != nil {
		return "", err
	}
	if err := requireText("job_description", jdText); err != nil {
		return "", err
	}

	return fmt.Sprintf(`Compare the resume below against the job description and call out the strongest overlaps: shared skills, technologies, and phrases that appear in both.

RESUME:
%s

JOB DESCRIPTION:
%s

%s`,
		truncate(resumeText), truncate(jdText), pb.formatHint()), nil
}

// BuildGapPrompt asks for what the job description wants that the resume
// lacks. Independent of the similarity stage's output.
func (pb *PromptBuilder) BuildGapPrompt(resumeText, jdText string) (string, error) {
	if err := requireText("resume", resumeText); err != nil {
		return "", err
	}
	if err := requireText("job_description", jdText); err != nil {
		return "", err
	}

	return fmt.Sprintf(`Point out the skills, experiences, and signals the job description asks for that are missing or weak in the resume below, and what would make the resume a closer match.

RESUME:
%s

JOB DESCRIPTION:
%s

%s`,
		truncate(resumeText), truncate(jdText), pb.formatHint()), nil
}

// BuildCompilationPrompt combines the two analysis stages into one
// takeaway. It sees only their summaries and highlights, never the raw
// resume or job description.
func (pb *PromptBuilder) BuildCompilationPrompt(similarity, gap StageResult) string {
	return fmt.Sprintf(`Two analysts reviewed a candidate against a job opening. The first reports strengths and overlaps, the second reports gaps and missing elements. Produce one combined takeaway: what is working, what should improve, and an overall read on the fit.

STRENGTHS ANALYSIS:
%s

GAP ANALYSIS:
%s

%s`,
		feedbackBlock(similarity, "The similarity analysis produced no feedback."),
		feedbackBlock(gap, "The gap analysis produced no feedback."),
		pb.formatHint())
}

// BuildWebSummaryPrompt requests a concise summary of extracted page text.
func (pb *PromptBuilder) BuildWebSummaryPrompt(pageText string) (string, error) {
	if err := requireText("website content", pageText); err != nil {
		return "", err
	}

	return fmt.Sprintf(`Extract the key information from the following web page content and summarize it concisely.

PAGE CONTENT:
%s

%s`,
		truncate(pageText), pb.formatHint()), nil
}

func (pb *PromptBuilder) formatHint() string {
	return fmt.Sprintf(responseFormatHint, pb.maxHighlights)
}

// feedbackBlock renders a prior stage's summary and highlights for the
// compilation prompt, substituting placeholder text when the stage failed
// or produced nothing.
func feedbackBlock(result StageResult, placeholder string) string {
	parts := []string{}
	if strings.TrimSpace(result.Summary) != "" {
		parts = append(parts, result.Summary)
	}
	for _, highlight := range result.Highlights {
		parts = append(parts, "- "+highlight)
	}
	if len(parts) == 0 {
		return placeholder
	}
	return strings.Join(parts, "\n")
}

func requireText(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return NewValidationError(field, "text must not be blank")
	}
	return nil
}

func truncate(text string) string {
	if len(text) <= promptInputLimit {
		return text
	}
	// Cut on a rune boundary so truncation never produces invalid UTF-8.
	cut := promptInputLimit
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "\n...\n[truncated]"
}
