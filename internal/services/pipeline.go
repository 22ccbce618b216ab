package services

import (
	"context"
	"log"
	"strings"
	"sync"
	"unicode/utf8"
)

// PipelineResult holds exactly three stage results in fixed order
// (similarity, gap, compilation) plus the combined takeaway.
type PipelineResult struct {
	Stages          []StageResult `json:"agent_results"`
	CombinedSummary string        `json:"combined_summary"`
	ResumeExcerpt   string        `json:"resume_excerpt"`
}

type PipelineOrchestrator interface {
	Run(ctx context.Context, resumeText, jdText string) (*PipelineResult, error)
}

type pipelineOrchestrator struct {
	client          CompletionClient
	parser          *ResponseParser
	prompts         *PromptBuilder
	excerptMaxChars int
}

func NewPipelineOrchestrator(client CompletionClient, parser *ResponseParser, prompts *PromptBuilder, excerptMaxChars int) PipelineOrchestrator {
	return &pipelineOrchestrator{
		client:          client,
		parser:          parser,
		prompts:         prompts,
		excerptMaxChars: excerptMaxChars,
	}
}

// Run executes the three-stage analysis. Blank input fails with a
// ValidationError before any completion call; after that point Run always
// returns a complete three-entry result, with individual stages marked
// failed or degraded as needed. Similarity and gap are independent
// analyses of the same inputs, so they run concurrently; compilation sees
// only their summaries and highlights.
func (p *pipelineOrchestrator) Run(ctx context.Context, resumeText, jdText string) (*PipelineResult, error) {
	if strings.TrimSpace(resumeText) == "" {
		return nil, NewValidationError("resume", "resume text must not be blank")
	}
	if strings.TrimSpace(jdText) == "" {
		return nil, NewValidationError("job_description", "job description must not be blank")
	}

	similarityStage := newAgentStage(StageSimilarity, roleSimilarity, func() (string, error) {
		return p.prompts.BuildSimilarityPrompt(resumeText, jdText)
	}, p.client, p.parser)

	gapStage := newAgentStage(StageGap, roleGap, func() (string, error) {
		return p.prompts.BuildGapPrompt(resumeText, jdText)
	}, p.client, p.parser)

	var similarity, gap StageResult
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		similarity = similarityStage.run(ctx)
	}()
	go func() {
		defer wg.Done()
		gap = gapStage.run(ctx)
	}()
	wg.Wait()

	compilationStage := newAgentStage(StageCompilation, roleCompilation, func() (string, error) {
		return p.prompts.BuildCompilationPrompt(similarity, gap), nil
	}, p.client, p.parser)

	compilation := compilationStage.run(ctx)

	log.Printf("✅ Pipeline finished: similarity=%s gap=%s compilation=%s",
		similarity.Status, gap.Status, compilation.Status)

	return &PipelineResult{
		Stages:          []StageResult{similarity, gap, compilation},
		CombinedSummary: compilation.Summary,
		ResumeExcerpt:   excerpt(resumeText, p.excerptMaxChars),
	}, nil
}

// excerpt cuts on a rune boundary so the prefix is always valid UTF-8.
func excerpt(text string, maxChars int) string {
	if len(text) <= maxChars {
		return text
	}
	cut := maxChars
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}
