package handlers

import (
	"errors"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"

	"resumatch/resume-analyzer/internal/models"
	"resumatch/resume-analyzer/internal/services"
)

// detailMaxChars bounds the extracted text echoed back in the response.
const detailMaxChars = 2000

type WebsiteHandler struct {
	extractor  services.WebContentExtractor
	summarizer *services.WebSummarizer
}

func NewWebsiteHandler(extractor services.WebContentExtractor, summarizer *services.WebSummarizer) *WebsiteHandler {
	return &WebsiteHandler{
		extractor:  extractor,
		summarizer: summarizer,
	}
}

// HandleSummarize handles POST /summarize-website.
func (h *WebsiteHandler) HandleSummarize(c *fiber.Ctx) error {
	var req models.WebsiteSummaryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	canonical, err := services.CanonicalizeURL(req.URL)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	pageText, err := h.extractor.Extract(c.UserContext(), canonical)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	result, err := h.summarizer.Summarize(c.UserContext(), pageText, canonical)
	if err != nil {
		var validationErr *services.ValidationError
		if errors.As(err, &validationErr) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": validationErr.Error(),
			})
		}
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "failed to summarize website",
		})
	}

	details := result.ExtractedText
	if len(details) > detailMaxChars {
		cut := detailMaxChars
		for cut > 0 && !utf8.RuneStart(details[cut]) {
			cut--
		}
		details = details[:cut]
	}

	return c.JSON(models.WebsiteSummaryResponse{
		WebsiteURL:     result.CanonicalURL,
		WebsiteDetails: details,
		Summary:        result.Summary,
	})
}
