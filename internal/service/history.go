package service

import (
	"context"

	"tweetsearch/internal/models"
)

// HistoryService lists past searches.
type HistoryService struct {
	store Store
}

// NewHistoryService creates a new history service.
func NewHistoryService(store Store) *HistoryService {
	return &HistoryService{store: store}
}

// ListSearchHistory returns every record, most recently searched first.
func (h *HistoryService) ListSearchHistory(ctx context.Context) ([]models.SearchRecord, error) {
	return h.store.ListSearchRecords(ctx, 0)
}

// RecentSearches returns at most limit records, most recently searched first.
func (h *HistoryService) RecentSearches(ctx context.Context, limit int) ([]models.SearchRecord, error) {
	return h.store.ListSearchRecords(ctx, limit)
}
