package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"resumatch/resume-analyzer/internal/models"
	"resumatch/resume-analyzer/internal/repositories"
	"resumatch/resume-analyzer/internal/services"
)

type AnalyzeHandler struct {
	analysisRepo repositories.AnalysisRepository
	storage      services.StorageService
	extractor    services.DocumentExtractor
	pipeline     services.PipelineOrchestrator
	maxFileSize  int64
}

func NewAnalyzeHandler(
	analysisRepo repositories.AnalysisRepository,
	storage services.StorageService,
	extractor services.DocumentExtractor,
	pipeline services.PipelineOrchestrator,
	maxFileSize int64,
) *AnalyzeHandler {
	return &AnalyzeHandler{
		analysisRepo: analysisRepo,
		storage:      storage,
		extractor:    extractor,
		pipeline:     pipeline,
		maxFileSize:  maxFileSize,
	}
}

// HandleAnalyze handles POST /analyze: resume PDF + job description in,
// full three-stage assessment out, synchronously.
func (h *AnalyzeHandler) HandleAnalyze(c *fiber.Ctx) error {
	jobDescription := c.FormValue("job_description")

	resumeFile, err := c.FormFile("resume")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "resume file is required",
		})
	}

	if resumeFile.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Resume file too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	filename, filePath, err := h.storage.SaveResume(resumeFile)
	if err != nil {
		var validationErr *services.ValidationError
		if errors.As(err, &validationErr) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": validationErr.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to save resume file: %v", err),
		})
	}

	resumeText, err := h.extractor.ExtractText(filePath)
	if err != nil {
		h.storage.DeleteFile(filename)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	result, err := h.pipeline.Run(c.UserContext(), resumeText, jobDescription)
	if err != nil {
		var validationErr *services.ValidationError
		if errors.As(err, &validationErr) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": validationErr.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "analysis failed",
		})
	}

	analysis := h.buildRecord(result, jobDescription, filename, len(resumeText))
	if err := h.analysisRepo.Create(analysis); err != nil {
		// The assessment is already computed; losing the history row is
		// not worth failing the request over.
		log.Printf("⚠️ Failed to persist analysis %s: %v", analysis.ID, err)
	}

	return c.JSON(models.AnalyzeResponse{
		ID:                           analysis.ID.String(),
		ResumeCharacterCount:         len(resumeText),
		JobDescriptionCharacterCount: len(jobDescription),
		AgentResults:                 toAgentResults(result.Stages),
		CombinedSummary:              result.CombinedSummary,
		ResumeExcerpt:                result.ResumeExcerpt,
	})
}

func (h *AnalyzeHandler) buildRecord(result *services.PipelineResult, jobDescription, filename string, resumeChars int) *models.Analysis {
	stageJSON, err := json.Marshal(result.Stages)
	if err != nil {
		stageJSON = []byte("[]")
	}

	return &models.Analysis{
		ID:                uuid.New(),
		JobDescription:    jobDescription,
		ResumeFilename:    filename,
		ResumeExcerpt:     result.ResumeExcerpt,
		ResumeCharCount:   resumeChars,
		SimilaritySummary: result.Stages[0].Summary,
		GapSummary:        result.Stages[1].Summary,
		CombinedSummary:   result.CombinedSummary,
		StageResults:      string(stageJSON),
		Status:            models.AnalysisCompleted,
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}
}

func toAgentResults(stages []services.StageResult) []models.AgentResult {
	results := make([]models.AgentResult, 0, len(stages))
	for _, stage := range stages {
		results = append(results, models.AgentResult{
			Name:       stage.Name,
			Summary:    stage.Summary,
			Highlights: stage.Highlights,
			Status:     string(stage.Status),
		})
	}
	return results
}
