package service

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"tweetsearch/internal/metrics"
	tu "tweetsearch/internal/testutil"
	"tweetsearch/internal/twitter"
)

func newTestService(store *tu.MemoryStore, fetcher *tu.FakeFetcher) *SearchService {
	return NewSearchService(store, fetcher, nil, zap.NewNop())
}

func TestHandleSubmission_Valid(t *testing.T) {
	store := tu.NewMemoryStore()
	fetcher := &tu.FakeFetcher{Results: []string{"Tweet1", "Tweet2"}}
	svc := newTestService(store, fetcher)

	result, err := svc.HandleSubmission(context.Background(), "Chennai")
	if err != nil {
		t.Fatalf("HandleSubmission() error = %v", err)
	}

	if result.Template != TemplateResults {
		t.Errorf("Template = %q, want %q", result.Template, TemplateResults)
	}
	if result.Phrase != "chennai" {
		t.Errorf("Phrase = %q, want %q", result.Phrase, "chennai")
	}
	if len(result.Results) != 2 || result.Results[0] != "Tweet1" {
		t.Errorf("Results = %v, want [Tweet1 Tweet2]", result.Results)
	}
	if result.Error {
		t.Error("Error = true, want false")
	}
	if !result.Valid() {
		t.Errorf("Valid() = false, errors = %v", result.Errors)
	}
	if store.Writes != 1 {
		t.Errorf("store writes = %d, want 1", store.Writes)
	}
	if fetcher.CallCount() != 1 || fetcher.Calls[0] != "chennai" {
		t.Errorf("fetcher calls = %v, want [chennai]", fetcher.Calls)
	}
}

func TestHandleSubmission_RepeatIncrementsCount(t *testing.T) {
	store := tu.NewMemoryStore()
	svc := newTestService(store, &tu.FakeFetcher{})
	ctx := context.Background()

	first, err := svc.HandleSubmission(ctx, "Garden")
	if err != nil {
		t.Fatalf("HandleSubmission() first error = %v", err)
	}
	if first.Record.Phrase != "garden" || first.Record.Count != 1 {
		t.Errorf("first record = {%q, %d}, want {garden, 1}", first.Record.Phrase, first.Record.Count)
	}

	second, err := svc.HandleSubmission(ctx, "garden")
	if err != nil {
		t.Fatalf("HandleSubmission() second error = %v", err)
	}
	if second.Record.ID != first.Record.ID {
		t.Error("second submission created a new record")
	}
	if second.Record.Count != 2 {
		t.Errorf("second count = %d, want 2", second.Record.Count)
	}
	if !second.Record.LastSearchedAt.After(first.Record.LastSearchedAt) {
		t.Error("LastSearchedAt was not refreshed")
	}
	if store.Len() != 1 {
		t.Errorf("store has %d records, want 1", store.Len())
	}
}

func TestHandleSubmission_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		phrase string
	}{
		{"empty", ""},
		{"whitespace", "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := tu.NewMemoryStore()
			fetcher := &tu.FakeFetcher{}
			svc := newTestService(store, fetcher)

			result, err := svc.HandleSubmission(context.Background(), tt.phrase)
			if err != nil {
				t.Fatalf("HandleSubmission() error = %v", err)
			}

			if result.Template != TemplateForm {
				t.Errorf("Template = %q, want %q", result.Template, TemplateForm)
			}
			msgs := result.Errors["phrase"]
			if len(msgs) != 1 || msgs[0] != "This field is required." {
				t.Errorf("Errors[phrase] = %v, want [This field is required.]", msgs)
			}
			if store.Writes != 0 || store.Len() != 0 {
				t.Errorf("store mutated: writes = %d, records = %d", store.Writes, store.Len())
			}
			if fetcher.CallCount() != 0 {
				t.Errorf("fetcher called %d times, want 0", fetcher.CallCount())
			}
		})
	}
}

func TestHandleSubmission_FetchFailureRendersErrorState(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"authentication", &twitter.AuthenticationError{StatusCode: 401, Code: 32, Message: "Could not authenticate you."}},
		{"query", &twitter.QueryError{Query: "x", StatusCode: 400, Code: 25, Message: "Query parameters are missing."}},
		{"upstream", twitter.ErrUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := tu.NewMemoryStore()
			svc := newTestService(store, &tu.FakeFetcher{Err: tt.err})

			result, err := svc.HandleSubmission(context.Background(), "word")
			if err != nil {
				t.Fatalf("HandleSubmission() error = %v, want nil", err)
			}
			if !result.Error {
				t.Error("Error = false, want true")
			}
			if result.Template != TemplateResults {
				t.Errorf("Template = %q, want %q", result.Template, TemplateResults)
			}
			if result.Results == nil || len(result.Results) != 0 {
				t.Errorf("Results = %v, want empty", result.Results)
			}
			// The search is still recorded
			if store.Writes != 1 {
				t.Errorf("store writes = %d, want 1", store.Writes)
			}
		})
	}
}

func TestHandleSubmission_StoreFailurePropagates(t *testing.T) {
	store := tu.NewMemoryStore()
	store.Err = errors.New("connection refused")
	fetcher := &tu.FakeFetcher{}
	svc := newTestService(store, fetcher)

	_, err := svc.HandleSubmission(context.Background(), "word")
	if !errors.Is(err, store.Err) {
		t.Errorf("HandleSubmission() error = %v, want wrapped store error", err)
	}
	if fetcher.CallCount() != 0 {
		t.Errorf("fetcher called %d times after store failure, want 0", fetcher.CallCount())
	}
}

func TestHandleSubmission_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg, nil, zap.NewNop())

	fetcher := &tu.FakeFetcher{Results: []string{"a"}}
	svc := NewSearchService(tu.NewMemoryStore(), fetcher, m, zap.NewNop())
	ctx := context.Background()

	svc.HandleSubmission(ctx, "one")
	svc.HandleSubmission(ctx, "")
	fetcher.Err = &twitter.AuthenticationError{Message: "blank credentials"}
	svc.HandleSubmission(ctx, "two")

	if got := testutil.ToFloat64(m.FormSubmissionsTotal.WithLabelValues(metrics.ResultValid)); got != 2 {
		t.Errorf("valid submissions = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.FormSubmissionsTotal.WithLabelValues(metrics.ResultInvalid)); got != 1 {
		t.Errorf("invalid submissions = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.UpstreamRequestsTotal.WithLabelValues(metrics.OutcomeSuccess)); got != 1 {
		t.Errorf("upstream success = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.UpstreamRequestsTotal.WithLabelValues(metrics.OutcomeAuthError)); got != 1 {
		t.Errorf("upstream auth_error = %v, want 1", got)
	}
}

func TestOutcomeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, metrics.OutcomeSuccess},
		{"auth", &twitter.AuthenticationError{}, metrics.OutcomeAuthError},
		{"query", &twitter.QueryError{}, metrics.OutcomeQuery},
		{"other", errors.New("boom"), metrics.OutcomeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outcomeOf(tt.err); got != tt.want {
				t.Errorf("outcomeOf(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}
