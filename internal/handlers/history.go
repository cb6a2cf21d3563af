package handlers

import (
	"github.com/gofiber/fiber/v3"

	"tweetsearch/internal/config"
	"tweetsearch/internal/service"
)

// HistoryHandler renders past searches.
type HistoryHandler struct {
	history *service.HistoryService
	cfg     *config.Config
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(history *service.HistoryService, cfg *config.Config) *HistoryHandler {
	return &HistoryHandler{history: history, cfg: cfg}
}

// List renders every search record, most recently searched first.
func (h *HistoryHandler) List(c fiber.Ctx) error {
	records, err := h.history.ListSearchHistory(c.Context())
	if err != nil {
		return err
	}

	return c.Render("history", MergeBranding(fiber.Map{
		"Title":   "Search history",
		"Records": records,
	}, h.cfg))
}
