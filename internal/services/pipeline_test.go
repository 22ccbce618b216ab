package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type completionCall struct {
	Prompt string
	Role   string
}

// mockCompletionClient records every call; stages 1 and 2 run
// concurrently, so access is guarded.
type mockCompletionClient struct {
	mu      sync.Mutex
	calls   []completionCall
	respond func(prompt, role string) (string, error)
}

func (m *mockCompletionClient) Complete(ctx context.Context, prompt string, role string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, completionCall{Prompt: prompt, Role: role})
	m.mu.Unlock()
	return m.respond(prompt, role)
}

func (m *mockCompletionClient) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *mockCompletionClient) callsForRole(role string) []completionCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []completionCall
	for _, call := range m.calls {
		if call.Role == role {
			matched = append(matched, call)
		}
	}
	return matched
}

func newTestOrchestrator(client CompletionClient) PipelineOrchestrator {
	return NewPipelineOrchestrator(client, NewResponseParser(8), NewPromptBuilder(8), 500)
}

func structuredReply(summary string, items ...string) string {
	lines := []string{summary}
	for _, item := range items {
		lines = append(lines, "- "+item)
	}
	return strings.Join(lines, "\n")
}

func TestRunReturnsThreeStagesInFixedOrder(t *testing.T) {
	client := &mockCompletionClient{
		respond: func(prompt, role string) (string, error) {
			return structuredReply("A summary.", "a point"), nil
		},
	}
	orchestrator := newTestOrchestrator(client)

	result, err := orchestrator.Run(context.Background(), "resume text", "jd text")
	require.NoError(t, err)

	require.Len(t, result.Stages, 3)
	assert.Equal(t, StageSimilarity, result.Stages[0].Name)
	assert.Equal(t, StageGap, result.Stages[1].Name)
	assert.Equal(t, StageCompilation, result.Stages[2].Name)
	for _, stage := range result.Stages {
		assert.Equal(t, StageOk, stage.Status)
	}
	assert.Equal(t, result.Stages[2].Summary, result.CombinedSummary)
}

func TestCompilationPromptBuiltFromStageOutputsOnly(t *testing.T) {
	resume := "RESUME_SENTINEL experienced engineer"
	jd := "JD_SENTINEL backend role"

	client := &mockCompletionClient{}
	client.respond = func(prompt, role string) (string, error) {
		switch role {
		case roleSimilarity:
			return structuredReply("Strong overlap in Go.", "SIM_POINT"), nil
		case roleGap:
			return structuredReply("Missing Kubernetes experience.", "GAP_POINT"), nil
		default:
			return structuredReply("Good fit overall.", "hire"), nil
		}
	}

	orchestrator := newTestOrchestrator(client)
	_, err := orchestrator.Run(context.Background(), resume, jd)
	require.NoError(t, err)

	compilationCalls := client.callsForRole(roleCompilation)
	require.Len(t, compilationCalls, 1)

	prompt := compilationCalls[0].Prompt
	assert.Contains(t, prompt, "Strong overlap in Go.")
	assert.Contains(t, prompt, "SIM_POINT")
	assert.Contains(t, prompt, "Missing Kubernetes experience.")
	assert.Contains(t, prompt, "GAP_POINT")
	assert.NotContains(t, prompt, "RESUME_SENTINEL")
	assert.NotContains(t, prompt, "JD_SENTINEL")
}

func TestUnstructuredCompletionDegrades(t *testing.T) {
	client := &mockCompletionClient{
		respond: func(prompt, role string) (string, error) {
			return "Just a plain paragraph with no list at all.", nil
		},
	}
	orchestrator := newTestOrchestrator(client)

	result, err := orchestrator.Run(context.Background(), "resume text", "jd text")
	require.NoError(t, err)

	for _, stage := range result.Stages {
		assert.Equal(t, StageDegraded, stage.Status)
		assert.NotEmpty(t, stage.Summary)
		assert.Empty(t, stage.Highlights)
	}
}

func TestFailedStageStillYieldsThreeResults(t *testing.T) {
	client := &mockCompletionClient{}
	client.respond = func(prompt, role string) (string, error) {
		if role == roleGap {
			return "", errors.New("backend unavailable")
		}
		return structuredReply("A summary.", "a point"), nil
	}

	orchestrator := newTestOrchestrator(client)
	result, err := orchestrator.Run(context.Background(), "resume text", "jd text")
	require.NoError(t, err)

	require.Len(t, result.Stages, 3)
	assert.Equal(t, StageFailed, result.Stages[1].Status)
	assert.Empty(t, result.Stages[1].Summary)
	assert.Empty(t, result.Stages[1].Highlights)
	assert.Equal(t, StageOk, result.Stages[0].Status)
	assert.Equal(t, StageOk, result.Stages[2].Status)

	// The failed stage contributes placeholder text to the compilation
	// prompt instead of aborting the run.
	compilationCalls := client.callsForRole(roleCompilation)
	require.Len(t, compilationCalls, 1)
	assert.Contains(t, compilationCalls[0].Prompt, "The gap analysis produced no feedback.")
}

func TestHighlightCountIsBounded(t *testing.T) {
	var items []string
	for i := 0; i < 30; i++ {
		items = append(items, fmt.Sprintf("point %d", i))
	}
	client := &mockCompletionClient{
		respond: func(prompt, role string) (string, error) {
			return structuredReply("A summary.", items...), nil
		},
	}

	orchestrator := newTestOrchestrator(client)
	result, err := orchestrator.Run(context.Background(), "resume text", "jd text")
	require.NoError(t, err)

	for _, stage := range result.Stages {
		assert.LessOrEqual(t, len(stage.Highlights), 8)
	}
}

func TestBlankInputFailsBeforeAnyCompletionCall(t *testing.T) {
	client := &mockCompletionClient{
		respond: func(prompt, role string) (string, error) {
			return "should never be called", nil
		},
	}
	orchestrator := newTestOrchestrator(client)

	var validationErr *ValidationError

	_, err := orchestrator.Run(context.Background(), "   \n\t", "jd text")
	require.Error(t, err)
	require.ErrorAs(t, err, &validationErr)

	_, err = orchestrator.Run(context.Background(), "resume text", "")
	require.Error(t, err)
	require.ErrorAs(t, err, &validationErr)

	assert.Equal(t, 0, client.callCount())
}

func TestResumeExcerptIsBoundedAndValidUTF8(t *testing.T) {
	client := &mockCompletionClient{
		respond: func(prompt, role string) (string, error) {
			return structuredReply("A summary.", "a point"), nil
		},
	}
	// Excerpt limit of 4 bytes falls inside the second three-byte rune.
	orchestrator := NewPipelineOrchestrator(client, NewResponseParser(8), NewPromptBuilder(8), 4)

	result, err := orchestrator.Run(context.Background(), strings.Repeat("世", 10), "jd text")
	require.NoError(t, err)

	assert.True(t, utf8.ValidString(result.ResumeExcerpt))
	assert.Equal(t, "世", result.ResumeExcerpt)
}

func TestRunIsDeterministicForDeterministicBackend(t *testing.T) {
	client := &mockCompletionClient{
		respond: func(prompt, role string) (string, error) {
			return structuredReply(fmt.Sprintf("Summary for %d chars.", len(prompt)), "first", "second"), nil
		},
	}
	orchestrator := newTestOrchestrator(client)

	first, err := orchestrator.Run(context.Background(), "resume text", "jd text")
	require.NoError(t, err)
	second, err := orchestrator.Run(context.Background(), "resume text", "jd text")
	require.NoError(t, err)

	require.Equal(t, first, second)
}
