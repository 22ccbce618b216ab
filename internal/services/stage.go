package services

import (
	"context"
	"log"
)

const (
	StageSimilarity  = "similarity"
	StageGap         = "gap"
	StageCompilation = "compilation"
)

const (
	roleSimilarity  = "You are a resume analysing agent. You compare a resume against a job description and call out the most impressive overlaps."
	roleGap         = "You are a resume analysing agent. You identify the missing skills, experiences and signals that would make a resume a closer match for a job."
	roleCompilation = "You are a decision making agent. You combine a strengths analysis and a gap analysis of a candidate into one clear, actionable takeaway."
	roleWebSummary  = "You are a helpful assistant that extracts key information from web page content."
)

type StageStatus string

const (
	StageOk StageStatus = "ok"
	// StageDegraded marks a result produced via fallback parsing: the
	// completion arrived but had no detectable list structure.
	StageDegraded StageStatus = "degraded"
	StageFailed   StageStatus = "failed"
)

type StageResult struct {
	Name       string      `json:"name"`
	Summary    string      `json:"summary"`
	Highlights []string    `json:"highlights"`
	RawText    string      `json:"raw_text,omitempty"`
	Status     StageStatus `json:"status"`
}

// agentStage binds one named pipeline step to its role instruction and
// prompt-building strategy. Prompts are built lazily so later stages see
// earlier stages' outputs.
type agentStage struct {
	name        string
	role        string
	buildPrompt func() (string, error)
	client      CompletionClient
	parser      *ResponseParser
}

func newAgentStage(name, role string, buildPrompt func() (string, error), client CompletionClient, parser *ResponseParser) *agentStage {
	return &agentStage{
		name:        name,
		role:        role,
		buildPrompt: buildPrompt,
		client:      client,
		parser:      parser,
	}
}

// run never returns an error: completion failures become a Failed result
// and parse misses become a Degraded one, so the pipeline always gets a
// result for every stage.
func (s *agentStage) run(ctx context.Context) StageResult {
	prompt, err := s.buildPrompt()
	if err != nil {
		log.Printf("❌ Stage %s prompt build failed: %v", s.name, err)
		return failedStageResult(s.name)
	}

	raw, err := s.client.Complete(ctx, prompt, s.role)
	if err != nil {
		log.Printf("❌ Stage %s completion failed: %v", s.name, err)
		return failedStageResult(s.name)
	}

	parsed := s.parser.Parse(raw)
	status := StageOk
	if parsed.Degraded {
		status = StageDegraded
	}

	return StageResult{
		Name:       s.name,
		Summary:    parsed.Summary,
		Highlights: parsed.Highlights,
		RawText:    raw,
		Status:     status,
	}
}

func failedStageResult(name string) StageResult {
	return StageResult{
		Name:       name,
		Summary:    "",
		Highlights: []string{},
		Status:     StageFailed,
	}
}
