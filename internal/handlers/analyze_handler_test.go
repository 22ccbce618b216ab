package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumatch/resume-analyzer/internal/models"
	"resumatch/resume-analyzer/internal/services"
)

type stubPipeline struct {
	calls  int
	result *services.PipelineResult
}

func (s *stubPipeline) Run(ctx context.Context, resumeText, jdText string) (*services.PipelineResult, error) {
	s.calls++
	return s.result, nil
}

type stubDocExtractor struct {
	text string
	err  error
}

func (s *stubDocExtractor) ExtractText(filePath string) (string, error) {
	return s.text, s.err
}

func okPipelineResult() *services.PipelineResult {
	return &services.PipelineResult{
		Stages: []services.StageResult{
			{Name: services.StageSimilarity, Summary: "plenty of overlap", Highlights: []string{"Go"}, Status: services.StageOk},
			{Name: services.StageGap, Summary: "some gaps", Highlights: []string{"Kubernetes"}, Status: services.StageOk},
			{Name: services.StageCompilation, Summary: "solid fit", Highlights: []string{}, Status: services.StageOk},
		},
		CombinedSummary: "solid fit",
		ResumeExcerpt:   "resume text",
	}
}

func newAnalyzeTestApp(t *testing.T, pipeline services.PipelineOrchestrator, extractor services.DocumentExtractor, repo *stubAnalysisRepo, maxFileSize int64) *fiber.App {
	t.Helper()

	storage := services.NewStorageService(t.TempDir())
	require.NoError(t, storage.EnsureUploadDir())

	handler := NewAnalyzeHandler(repo, storage, extractor, pipeline, maxFileSize)

	app := fiber.New()
	app.Post("/analyze", handler.HandleAnalyze)
	return app
}

func newAnalyzeRequest(t *testing.T, filename string, fileContent []byte, jobDescription string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("resume", filename)
	require.NoError(t, err)
	_, err = part.Write(fileContent)
	require.NoError(t, err)

	require.NoError(t, writer.WriteField("job_description", jobDescription))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/analyze", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestHandleAnalyzeRejectsNonPDFExtension(t *testing.T) {
	pipeline := &stubPipeline{result: okPipelineResult()}
	repo := &stubAnalysisRepo{}
	app := newAnalyzeTestApp(t, pipeline, &stubDocExtractor{text: "resume text"}, repo, 1<<20)

	req := newAnalyzeRequest(t, "resume.txt", []byte("plain text resume"), "a job description")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, 0, pipeline.calls)
	assert.Empty(t, repo.created)
}

func TestHandleAnalyzeRejectsOversizedUpload(t *testing.T) {
	pipeline := &stubPipeline{result: okPipelineResult()}
	repo := &stubAnalysisRepo{}
	app := newAnalyzeTestApp(t, pipeline, &stubDocExtractor{text: "resume text"}, repo, 16)

	req := newAnalyzeRequest(t, "resume.pdf", bytes.Repeat([]byte("x"), 64), "a job description")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, 0, pipeline.calls)
	assert.Empty(t, repo.created)
}

func TestHandleAnalyzeReturnsAssessmentAndPersists(t *testing.T) {
	pipeline := &stubPipeline{result: okPipelineResult()}
	repo := &stubAnalysisRepo{}
	app := newAnalyzeTestApp(t, pipeline, &stubDocExtractor{text: "extracted resume text"}, repo, 1<<20)

	req := newAnalyzeRequest(t, "resume.pdf", []byte("%PDF-1.4 fake"), "a job description")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body models.AnalyzeResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	require.Len(t, body.AgentResults, 3)
	assert.Equal(t, services.StageSimilarity, body.AgentResults[0].Name)
	assert.Equal(t, services.StageGap, body.AgentResults[1].Name)
	assert.Equal(t, services.StageCompilation, body.AgentResults[2].Name)
	assert.Equal(t, "solid fit", body.CombinedSummary)
	assert.Equal(t, len("extracted resume text"), body.ResumeCharacterCount)

	assert.Equal(t, 1, pipeline.calls)
	require.Len(t, repo.created, 1)
	assert.Equal(t, "solid fit", repo.created[0].CombinedSummary)
}

func TestHandleAnalyzeReportsExtractionFailure(t *testing.T) {
	pipeline := &stubPipeline{result: okPipelineResult()}
	repo := &stubAnalysisRepo{}
	extractor := &stubDocExtractor{err: &services.ExtractionError{Source: "resume.pdf", Err: assert.AnError}}
	app := newAnalyzeTestApp(t, pipeline, extractor, repo, 1<<20)

	req := newAnalyzeRequest(t, "resume.pdf", []byte("%PDF-1.4 fake"), "a job description")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, 0, pipeline.calls)
	assert.Empty(t, repo.created)
}
