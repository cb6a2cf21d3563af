package handlers

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/utils/v2"

	"tweetsearch/internal/config"
	"tweetsearch/internal/service"
	"tweetsearch/internal/validation"
)

// SearchHandler serves the search form and its submissions.
type SearchHandler struct {
	search *service.SearchService
	cfg    *config.Config
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(search *service.SearchService, cfg *config.Config) *SearchHandler {
	return &SearchHandler{search: search, cfg: cfg}
}

// Index renders the empty search form.
func (h *SearchHandler) Index(c fiber.Ctx) error {
	return c.Render(service.TemplateForm, MergeBranding(fiber.Map{
		"Phrase": "",
		"Errors": validation.FormErrors{},
	}, h.cfg))
}

// Submit runs the search workflow for the posted phrase.
// Validation failures re-render the form inline with a 200 status.
func (h *SearchHandler) Submit(c fiber.Ctx) error {
	// FormValue points into the request buffer, which fiber reuses after the handler returns
	phrase := utils.CopyString(c.FormValue(validation.FieldPhrase))

	result, err := h.search.HandleSubmission(c.Context(), phrase)
	if err != nil {
		return err
	}

	if !result.Valid() {
		return c.Render(service.TemplateForm, MergeBranding(fiber.Map{
			"Phrase": result.Phrase,
			"Errors": result.Errors,
		}, h.cfg))
	}

	return c.Render(service.TemplateResults, MergeBranding(fiber.Map{
		"Title":     result.Phrase,
		"KeyPhrase": result.Phrase,
		"Tweets":    result.Results,
		"Error":     result.Error,
		"Count":     result.Record.Count,
	}, h.cfg))
}
