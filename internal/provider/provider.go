package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"BrandMonitor/internal/domain"
)

// ErrNotConfigured signals missing credentials; adapters return it before any
// network call is made.
var ErrNotConfigured = errors.New("provider credentials not configured")

// Query carries all parameters required to search one client's mentions.
type Query struct {
	Keywords   string // comma-separated terms
	ClientName string
	MaxResults int
}

// SearchTerms renders the client name and keywords as quoted, OR-joined
// phrases, the form every provider receives.
func (q Query) SearchTerms() string {
	terms := []string{q.ClientName}
	for _, kw := range strings.Split(q.Keywords, ",") {
		if kw = strings.TrimSpace(kw); kw != "" {
			terms = append(terms, kw)
		}
	}

	quoted := make([]string, 0, len(terms))
	for _, term := range terms {
		quoted = append(quoted, `"`+term+`"`)
	}
	return strings.Join(quoted, " OR ")
}

// Provider is one external mention source. Implementations handle their own
// pagination, auth and rate limits, and must never panic past this boundary.
type Provider interface {
	Name() string
	Search(ctx context.Context, q Query) ([]domain.Candidate, error)
}

// Registry keeps a mapping from provider names to their implementations.
type Registry struct {
	providers map[string]Provider
	order     []string
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{providers: map[string]Provider{}}
}

// Register adds or replaces a provider, preserving first-registration order.
func (r *Registry) Register(p Provider) {
	if r.providers == nil {
		r.providers = map[string]Provider{}
	}
	if _, seen := r.providers[p.Name()]; !seen {
		r.order = append(r.order, p.Name())
	}
	r.providers[p.Name()] = p
}

// Resolve returns a provider by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Provider, error) {
	if p, ok := r.providers[name]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("provider %s is not registered", name)
}

// All returns the providers in registration order. The order matters: it is
// the dedup tie-break during aggregation.
func (r *Registry) All() []Provider {
	out := make([]Provider, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.providers[name])
	}
	return out
}
