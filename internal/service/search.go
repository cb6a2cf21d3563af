// Package service holds the search workflow and history listing used by the HTTP handlers and CLI.
package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"tweetsearch/internal/metrics"
	"tweetsearch/internal/models"
	"tweetsearch/internal/twitter"
	"tweetsearch/internal/validation"
)

// Templates rendered for a submission.
const (
	TemplateForm    = "index"
	TemplateResults = "results"
)

// Store is the search record persistence used by the services.
type Store interface {
	RecordSearch(ctx context.Context, phrase string) (*models.SearchRecord, error)
	ListSearchRecords(ctx context.Context, limit int) ([]models.SearchRecord, error)
}

// Fetcher returns result texts for a phrase from the external search API.
type Fetcher interface {
	FetchResults(ctx context.Context, phrase string) ([]string, error)
}

// RenderResult describes the page to show after a submission.
type RenderResult struct {
	Template string
	Phrase   string
	Results  []string
	Errors   validation.FormErrors
	Error    bool
	Record   *models.SearchRecord
}

// Valid returns true if the submission passed validation.
func (r RenderResult) Valid() bool {
	return !r.Errors.HasErrors()
}

// SearchService runs validation, records the search, then fetches results.
type SearchService struct {
	store   Store
	fetcher Fetcher
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewSearchService creates a new search service. m may be nil.
func NewSearchService(store Store, fetcher Fetcher, m *metrics.Metrics, logger *zap.Logger) *SearchService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SearchService{store: store, fetcher: fetcher, metrics: m, logger: logger}
}

// HandleSubmission processes one submitted phrase.
//
// Invalid input re-renders the form with field errors and touches nothing else.
// Valid input performs exactly one store write and one external call. A failed
// external call renders the results page with Error set and no results; only
// store failures are returned as errors.
func (s *SearchService) HandleSubmission(ctx context.Context, rawPhrase string) (RenderResult, error) {
	form, errs := validation.ValidateSearchForm(rawPhrase)
	if errs.HasErrors() {
		s.metrics.ObserveSubmission(metrics.ResultInvalid)
		return RenderResult{
			Template: TemplateForm,
			Phrase:   rawPhrase,
			Errors:   errs,
		}, nil
	}
	s.metrics.ObserveSubmission(metrics.ResultValid)

	phrase := validation.NormalizePhrase(form.Phrase)

	record, err := s.store.RecordSearch(ctx, phrase)
	if err != nil {
		return RenderResult{}, fmt.Errorf("record search %q: %w", phrase, err)
	}

	result := RenderResult{
		Template: TemplateResults,
		Phrase:   phrase,
		Results:  []string{},
		Record:   record,
	}

	start := time.Now()
	tweets, err := s.fetcher.FetchResults(ctx, phrase)
	s.metrics.ObserveUpstream(outcomeOf(err), time.Since(start))
	if err != nil {
		s.logger.Warn("search API request failed",
			zap.String("phrase", phrase),
			zap.Int64("count", record.Count),
			zap.Error(err),
		)
		result.Error = true
		return result, nil
	}

	s.logger.Info("search completed",
		zap.String("phrase", phrase),
		zap.Int64("count", record.Count),
		zap.Int("results", len(tweets)),
	)
	if tweets != nil {
		result.Results = tweets
	}
	return result, nil
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case twitter.IsAuthenticationError(err):
		return metrics.OutcomeAuthError
	case twitter.IsQueryError(err):
		return metrics.OutcomeQuery
	default:
		return metrics.OutcomeError
	}
}
