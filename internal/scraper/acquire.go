package scraper

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/belle-events/internal/logger"
)

// Acquirer obtains the listing document. Implementations must honor ctx and
// release every resource they open before returning.
type Acquirer interface {
	Acquire(ctx context.Context) (*goquery.Document, error)
}

// StaticAcquirer fetches the listing markup with a single HTTP GET
type StaticAcquirer struct {
	client    *http.Client
	url       string
	userAgent string
	log       *logger.Logger
}

// NewStaticAcquirer creates a fetcher for url. The request is bounded by the
// caller's context, not by a client-level timeout. A nil log uses the default logger.
func NewStaticAcquirer(url, userAgent string, log *logger.Logger) *StaticAcquirer {
	if log == nil {
		log = logger.Default()
	}
	return &StaticAcquirer{
		client:    &http.Client{},
		url:       url,
		userAgent: userAgent,
		log:       log,
	}
}

// Acquire fetches and parses the page. If the context expires while the body
// is streaming, whatever was received is parsed instead of failing the run.
func (a *StaticAcquirer) Acquire(ctx context.Context) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", a.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "fr-FR,fr;q=0.9,en;q=0.5")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		if ctx.Err() == nil || buf.Len() == 0 {
			return nil, fmt.Errorf("reading body: %w", err)
		}
		a.log.Warn("Deadline reached while reading page, parsing partial body", logger.Fields{
			"url":   a.url,
			"bytes": buf.Len(),
		})
	}

	doc, err := goquery.NewDocumentFromReader(&buf)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return doc, nil
}
