// Package validator confirms candidate URLs are alive before they are
// persisted. Probe failures only exclude the one candidate; they are never
// fatal to a scan.
package validator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"BrandMonitor/internal/ports"
	"BrandMonitor/internal/urlutil"
)

const (
	probeTimeout  = 10 * time.Second
	maxRedirects  = 5
	maxTitleBytes = 256 << 10
)

// Prober checks liveness with a HEAD request, falling back to GET for servers
// that reject HEAD. Any 2xx/3xx response counts as alive.
type Prober struct {
	client *http.Client
	logger *slog.Logger
}

var _ ports.URLValidator = (*Prober)(nil)

// NewProber wires an HTTP client with the probe timeout and redirect budget.
func NewProber(client *http.Client, logger *slog.Logger) *Prober {
	if client == nil {
		client = &http.Client{
			Timeout: probeTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		}
	}
	return &Prober{client: client, logger: logger}
}

// Validate applies the offline checks first, then probes the URL.
func (p *Prober) Validate(ctx context.Context, rawURL string) bool {
	if !urlutil.Acceptable(rawURL) {
		return false
	}

	code, err := p.probe(ctx, http.MethodHead, rawURL)
	if err != nil {
		// Some servers disallow HEAD entirely; retry with GET.
		code, err = p.probe(ctx, http.MethodGet, rawURL)
		if err != nil {
			p.debug("probe failed", "url", rawURL, "error", err)
			return false
		}
	}

	return code >= 200 && code < 400
}

// PageTitle fetches the page and extracts its <title> text, or "" on any
// failure. Used to backfill candidates synthesized without a real title.
func (p *Prober) PageTitle(ctx context.Context, rawURL string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", "BrandMonitor/1.0")

	resp, err := p.client.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxTitleBytes))
	if err != nil {
		return ""
	}

	return strings.TrimSpace(doc.Find("title").First().Text())
}

func (p *Prober) probe(ctx context.Context, method, rawURL string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "BrandMonitor/1.0")

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s probe: %w", method, err)
	}
	defer resp.Body.Close()

	// Drain a little so keep-alive connections can be reused.
	_, _ = io.CopyN(io.Discard, resp.Body, 4096)

	return resp.StatusCode, nil
}

func (p *Prober) debug(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}
