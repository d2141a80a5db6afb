package provider

import (
	"context"
	"testing"

	"BrandMonitor/internal/domain"
)

type stubProvider struct{ name string }

func (s stubProvider) Name() string { return s.name }
func (s stubProvider) Search(context.Context, Query) ([]domain.Candidate, error) {
	return nil, nil
}

func TestSearchTerms(t *testing.T) {
	t.Parallel()

	q := Query{ClientName: "Acme Corp", Keywords: "acme, widgets , "}
	want := `"Acme Corp" OR "acme" OR "widgets"`
	if got := q.SearchTerms(); got != want {
		t.Fatalf("SearchTerms() = %q, want %q", got, want)
	}
}

func TestRegistryOrder(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Register(stubProvider{"google"})
	r.Register(stubProvider{"newsapi"})
	r.Register(stubProvider{"google"}) // replacement keeps position

	all := r.All()
	if len(all) != 2 {
		t.Fatalf("expected 2 providers, got %d", len(all))
	}
	if all[0].Name() != "google" || all[1].Name() != "newsapi" {
		t.Fatalf("unexpected order: %s, %s", all[0].Name(), all[1].Name())
	}

	if _, err := r.Resolve("missing"); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}
