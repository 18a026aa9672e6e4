package scraper

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/belle-events/internal/event"
	"github.com/pfrederiksen/belle-events/internal/logger"
	"github.com/pfrederiksen/belle-events/internal/metrics"
	"github.com/pfrederiksen/belle-events/internal/pattern"
)

// Acquisition modes
const (
	ModeStatic   = "static"
	ModeRendered = "rendered"
)

const (
	DefaultOrigin      = "https://www.la-belle-electrique.com"
	DefaultListingPath = "/fr/programmation"
	DefaultEventPath   = "/fr/programmation/"
	UserAgent          = "belle-events/1.0 (github.com/pfrederiksen/belle-events)"
	Timeout            = 45 * time.Second
)

// Options configure a Scraper. Zero values fall back to the defaults above.
type Options struct {
	Origin       string
	ListingPath  string
	EventPath    string
	UserAgent    string
	Mode         string
	Timeout      time.Duration
	Render       RenderOptions
	Vocabularies *pattern.Vocabularies
	Logger       *logger.Logger
	Metrics      *metrics.Metrics
}

func (o Options) withDefaults() Options {
	if o.Origin == "" {
		o.Origin = DefaultOrigin
	}
	o.Origin = strings.TrimRight(o.Origin, "/")
	if o.ListingPath == "" {
		o.ListingPath = DefaultListingPath
	}
	if o.EventPath == "" {
		o.EventPath = DefaultEventPath
	}
	if o.UserAgent == "" {
		o.UserAgent = UserAgent
	}
	if o.Mode == "" {
		o.Mode = ModeStatic
	}
	if o.Timeout <= 0 {
		o.Timeout = Timeout
	}
	if o.Vocabularies == nil {
		v := pattern.DefaultVocabularies()
		o.Vocabularies = &v
	}
	if o.Logger == nil {
		o.Logger = logger.Default()
	}
	return o
}

// ListingURL is the absolute URL of the programme page.
func (o Options) ListingURL() string {
	return o.Origin + o.ListingPath
}

// Scraper runs the extraction pipeline against the venue's listing
type Scraper struct {
	acquirer   Acquirer
	locator    *Locator
	normalizer *Normalizer
	opts       Options
	log        *logger.Logger
	metrics    *metrics.Metrics
}

// New creates a Scraper whose acquirer is chosen by opts.Mode.
func New(opts Options) (*Scraper, error) {
	opts = opts.withDefaults()

	var acq Acquirer
	switch opts.Mode {
	case ModeStatic:
		acq = NewStaticAcquirer(opts.ListingURL(), opts.UserAgent, opts.Logger)
	case ModeRendered:
		acq = NewRenderedAcquirer(opts.ListingURL(), opts.UserAgent, opts.Render, opts.Logger)
	default:
		return nil, fmt.Errorf("unknown acquisition mode %q", opts.Mode)
	}

	return NewWithAcquirer(acq, opts)
}

// NewWithAcquirer creates a Scraper around a caller-supplied acquirer.
func NewWithAcquirer(acq Acquirer, opts Options) (*Scraper, error) {
	opts = opts.withDefaults()

	normalizer, err := NewNormalizer(opts.Origin, *opts.Vocabularies)
	if err != nil {
		return nil, err
	}

	return &Scraper{
		acquirer:   acq,
		locator:    NewLocator(opts.EventPath),
		normalizer: normalizer,
		opts:       opts,
		log:        opts.Logger,
		metrics:    opts.Metrics,
	}, nil
}

// FetchEvents acquires the listing and extracts its events. The returned slice
// is never nil: on acquisition failure it is empty and the error says why.
// An empty slice with a nil error means the page listed nothing recognizable.
func (s *Scraper) FetchEvents(ctx context.Context) ([]*event.Event, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	s.log.Info("Fetching listing", logger.Fields{
		"url":  s.opts.ListingURL(),
		"mode": s.opts.Mode,
	})

	doc, err := s.acquirer.Acquire(ctx)
	if err != nil {
		s.log.Error("Acquisition failed", logger.Fields{"url": s.opts.ListingURL()}, err)
		s.metrics.ObserveRun(metrics.ResultFailed, 0, time.Since(start))
		return []*event.Event{}, fmt.Errorf("acquiring listing: %w", err)
	}

	events := s.Extract(doc)

	result := metrics.ResultOK
	if len(events) == 0 {
		result = metrics.ResultEmpty
	}
	s.metrics.ObserveRun(result, len(events), time.Since(start))

	return events, nil
}

// Extract runs location, normalization, deduplication and sorting over an
// already acquired document.
func (s *Scraper) Extract(doc *goquery.Document) []*event.Event {
	candidates, strategy := s.locator.Locate(doc)
	s.metrics.ObserveCandidates(strategy, len(candidates))

	events := make([]*event.Event, 0, len(candidates))
	seen := make(map[string]bool)

	for i, sel := range candidates {
		evt, err := s.normalize(sel, i)
		if err != nil {
			s.metrics.IncRejection(rejectionReason(err))
			s.log.Debug("Candidate rejected", logger.Fields{
				"index":  i,
				"reason": err.Error(),
			})
			continue
		}

		key := evt.EventURL + "|" + evt.Date
		if seen[key] {
			continue
		}
		seen[key] = true
		events = append(events, evt)
	}

	event.SortByDate(events)

	s.log.Info("Extraction finished", logger.Fields{
		"strategy":   strategy,
		"candidates": len(candidates),
		"events":     len(events),
	})

	return events
}

// normalize isolates one candidate so a panic on odd markup only loses that candidate.
func (s *Scraper) normalize(sel *goquery.Selection, index int) (evt *event.Event, err error) {
	defer func() {
		if r := recover(); r != nil {
			evt = nil
			err = fmt.Errorf("normalizing candidate %d: %v", index, r)
		}
	}()
	return s.normalizer.Normalize(sel, index)
}
