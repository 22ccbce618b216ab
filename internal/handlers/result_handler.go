package handlers

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"resumatch/resume-analyzer/internal/models"
	"resumatch/resume-analyzer/internal/repositories"
)

type ResultHandler struct {
	analysisRepo repositories.AnalysisRepository
}

func NewResultHandler(analysisRepo repositories.AnalysisRepository) *ResultHandler {
	return &ResultHandler{
		analysisRepo: analysisRepo,
	}
}

// HandleListAnalyses handles GET /analyses: the most recent completed
// analyses, newest first.
func (h *ResultHandler) HandleListAnalyses(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	analyses, err := h.analysisRepo.FindRecent(limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list analyses",
		})
	}

	responses := make([]models.AnalysisResponse, 0, len(analyses))
	for i := range analyses {
		responses = append(responses, toAnalysisResponse(&analyses[i]))
	}

	return c.JSON(fiber.Map{
		"analyses": responses,
	})
}

// HandleGetAnalysis handles GET /analysis/:id.
func (h *ResultHandler) HandleGetAnalysis(c *fiber.Ctx) error {
	idParam := c.Params("id")
	analysisID, err := uuid.Parse(idParam)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid analysis ID format",
		})
	}

	analysis, err := h.analysisRepo.FindByID(analysisID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Analysis not found",
		})
	}

	return c.JSON(toAnalysisResponse(analysis))
}

func toAnalysisResponse(analysis *models.Analysis) models.AnalysisResponse {
	var agentResults []models.AgentResult
	if err := json.Unmarshal([]byte(analysis.StageResults), &agentResults); err != nil {
		agentResults = []models.AgentResult{}
	}

	return models.AnalysisResponse{
		ID:              analysis.ID.String(),
		Status:          string(analysis.Status),
		JobDescription:  analysis.JobDescription,
		AgentResults:    agentResults,
		CombinedSummary: analysis.CombinedSummary,
		ResumeExcerpt:   analysis.ResumeExcerpt,
		CreatedAt:       analysis.CreatedAt.Format(time.RFC3339),
	}
}
