// Package api implements the JSON admin API over search records.
package api

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"tweetsearch/internal/db"
	"tweetsearch/internal/models"
	"tweetsearch/internal/validation"
)

// RecordStore is the persistence used by the admin API.
type RecordStore interface {
	ListSearchRecords(ctx context.Context, limit int) ([]models.SearchRecord, error)
	GetSearchRecordByID(ctx context.Context, id uuid.UUID) (*models.SearchRecord, error)
	CreateSearchRecord(ctx context.Context, record *models.SearchRecord) error
	UpdateSearchRecord(ctx context.Context, record *models.SearchRecord) error
	DeleteSearchRecord(ctx context.Context, id uuid.UUID) error
}

// RecordsHandler handles search record CRUD operations via JSON API.
type RecordsHandler struct {
	store RecordStore
}

// NewRecordsHandler creates a new API records handler.
func NewRecordsHandler(store RecordStore) *RecordsHandler {
	return &RecordsHandler{store: store}
}

// List returns every record, most recently searched first.
func (h *RecordsHandler) List(c fiber.Ctx) error {
	records, err := h.store.ListSearchRecords(c.Context(), 0)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch records")
	}

	return jsonSuccess(c, models.HistoryAPIResponse{Records: records, Total: len(records)})
}

// Get returns a single record by ID.
func (h *RecordsHandler) Get(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid record id")
	}

	record, err := h.store.GetSearchRecordByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrSearchRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "record not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch record")
	}

	return jsonSuccess(c, record)
}

// Create inserts a record with the given phrase and count.
func (h *RecordsHandler) Create(c fiber.Ctx) error {
	record, msg := parseRecordRequest(c)
	if msg != "" {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	if err := h.store.CreateSearchRecord(c.Context(), record); err != nil {
		if errors.Is(err, db.ErrDuplicatePhrase) {
			return jsonError(c, fiber.StatusConflict, "a record for this phrase already exists")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to create record")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status": "ok",
		"data":   record,
	})
}

// Update replaces phrase and count of an existing record.
func (h *RecordsHandler) Update(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid record id")
	}

	record, msg := parseRecordRequest(c)
	if msg != "" {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}
	record.ID = id

	if err := h.store.UpdateSearchRecord(c.Context(), record); err != nil {
		switch {
		case errors.Is(err, db.ErrSearchRecordNotFound):
			return jsonError(c, fiber.StatusNotFound, "record not found")
		case errors.Is(err, db.ErrDuplicatePhrase):
			return jsonError(c, fiber.StatusConflict, "a record for this phrase already exists")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to update record")
	}

	return jsonSuccess(c, record)
}

// Delete removes a record.
func (h *RecordsHandler) Delete(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid record id")
	}

	if err := h.store.DeleteSearchRecord(c.Context(), id); err != nil {
		if errors.Is(err, db.ErrSearchRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "record not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to delete record")
	}

	return jsonSuccess(c, fiber.Map{"deleted": id})
}

// parseRecordRequest decodes and validates the request body. A non-empty
// message means the request is invalid.
func parseRecordRequest(c fiber.Ctx) (*models.SearchRecord, string) {
	var body models.SearchRecordRequest
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return nil, "invalid request body"
	}

	if err := validation.ValidatePhrase(body.Phrase); err != nil {
		return nil, err.Error()
	}

	record := &models.SearchRecord{Phrase: validation.NormalizePhrase(body.Phrase)}
	if body.Count != nil {
		if *body.Count < 0 {
			return nil, "count must not be negative"
		}
		record.Count = *body.Count
	}
	return record, ""
}
