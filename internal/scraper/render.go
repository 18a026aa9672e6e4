package scraper

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/belle-events/internal/logger"
	pw "github.com/playwright-community/playwright-go"
)

// RenderOptions tune the headless browser session.
type RenderOptions struct {
	NavigationTimeout  time.Duration
	ContentWaitTimeout time.Duration
	ReadySelector      string
	ScrollStep         int
	ScrollInterval     time.Duration
	SettleDelay        time.Duration
	BrowserPath        string // empty uses the browser installed by playwright
}

// DefaultRenderOptions mirrors how the listing behaves in a real browser:
// content settles after network idle, lazy cards appear while scrolling.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		NavigationTimeout:  30 * time.Second,
		ContentWaitTimeout: 10 * time.Second,
		ReadySelector:      "a, article, div",
		ScrollStep:         100,
		ScrollInterval:     100 * time.Millisecond,
		SettleDelay:        3 * time.Second,
	}
}

func (o RenderOptions) withDefaults() RenderOptions {
	d := DefaultRenderOptions()
	if o.NavigationTimeout <= 0 {
		o.NavigationTimeout = d.NavigationTimeout
	}
	if o.ContentWaitTimeout <= 0 {
		o.ContentWaitTimeout = d.ContentWaitTimeout
	}
	if o.ReadySelector == "" {
		o.ReadySelector = d.ReadySelector
	}
	if o.ScrollStep <= 0 {
		o.ScrollStep = d.ScrollStep
	}
	if o.ScrollInterval <= 0 {
		o.ScrollInterval = d.ScrollInterval
	}
	if o.SettleDelay < 0 {
		o.SettleDelay = 0
	}
	return o
}

// scrolls one step per interval until the scrolled distance reaches the page height
const scrollScript = `async ({ step, interval }) => {
  await new Promise((resolve) => {
    let total = 0;
    const timer = setInterval(() => {
      const height = document.body.scrollHeight;
      window.scrollBy(0, step);
      total += step;
      if (total >= height) {
        clearInterval(timer);
        resolve(null);
      }
    }, interval);
  });
}`

// RenderedAcquirer drives a headless Chromium session for pages whose listing
// is populated by scripts.
type RenderedAcquirer struct {
	url       string
	userAgent string
	opts      RenderOptions
	log       *logger.Logger
}

// NewRenderedAcquirer creates a browser-backed acquirer for url.
func NewRenderedAcquirer(url, userAgent string, opts RenderOptions, log *logger.Logger) *RenderedAcquirer {
	if log == nil {
		log = logger.Default()
	}
	return &RenderedAcquirer{
		url:       url,
		userAgent: userAgent,
		opts:      opts.withDefaults(),
		log:       log,
	}
}

// Acquire navigates, waits for content, scrolls to trigger lazy loading, lets
// the page settle and returns the resulting DOM. When ctx expires after
// navigation, the DOM as it stands is returned. The browser and driver are
// closed on every path.
func (a *RenderedAcquirer) Acquire(ctx context.Context) (doc *goquery.Document, err error) {
	runner, err := pw.Run()
	if err != nil {
		return nil, fmt.Errorf("starting playwright: %w", err)
	}
	defer func() {
		if stopErr := runner.Stop(); stopErr != nil {
			a.log.Warn("Stopping playwright failed", logger.Fields{"error": stopErr.Error()})
		}
	}()

	launch := pw.BrowserTypeLaunchOptions{
		Headless: pw.Bool(true),
		Args:     []string{"--no-sandbox", "--disable-setuid-sandbox"},
	}
	if a.opts.BrowserPath != "" {
		launch.ExecutablePath = pw.String(a.opts.BrowserPath)
	}

	browser, err := runner.Chromium.Launch(launch)
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}
	defer browser.Close()

	page, err := browser.NewPage(pw.BrowserNewPageOptions{
		UserAgent: pw.String(a.userAgent),
	})
	if err != nil {
		return nil, fmt.Errorf("creating page: %w", err)
	}
	defer page.Close()

	a.log.Info("Navigating to listing", logger.Fields{"url": a.url})
	if _, err := page.Goto(a.url, pw.PageGotoOptions{
		WaitUntil: pw.WaitUntilStateNetworkidle,
		Timeout:   pw.Float(budget(ctx, a.opts.NavigationTimeout)),
	}); err != nil {
		if !errors.Is(err, pw.ErrTimeout) {
			return nil, fmt.Errorf("navigating: %w", err)
		}
		a.log.Warn("Navigation timed out, continuing with partial page", logger.Fields{"url": a.url})
	}

	if err := page.Locator(a.opts.ReadySelector).First().WaitFor(pw.LocatorWaitForOptions{
		Timeout: pw.Float(budget(ctx, a.opts.ContentWaitTimeout)),
	}); err != nil {
		a.log.Debug("Content selector not found, continuing anyway", logger.Fields{"selector": a.opts.ReadySelector})
	}

	if a.scroll(ctx, page) && a.settle(ctx) {
		return readDocument(page)
	}

	a.log.Warn("Deadline reached while rendering, reading partial document", logger.Fields{"url": a.url})
	return readDocument(page)
}

// scroll returns false when ctx expired before scrolling finished.
func (a *RenderedAcquirer) scroll(ctx context.Context, page pw.Page) bool {
	done := make(chan error, 1)
	go func() {
		_, err := page.Evaluate(scrollScript, map[string]interface{}{
			"step":     a.opts.ScrollStep,
			"interval": a.opts.ScrollInterval.Milliseconds(),
		})
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			a.log.Warn("Scrolling failed", logger.Fields{"error": err.Error()})
		}
		return true
	case <-ctx.Done():
		return false
	}
}

// settle pauses for asynchronous content; false when ctx expired first.
func (a *RenderedAcquirer) settle(ctx context.Context) bool {
	if a.opts.SettleDelay == 0 {
		return true
	}
	timer := time.NewTimer(a.opts.SettleDelay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

func readDocument(page pw.Page) (*goquery.Document, error) {
	content, err := page.Content()
	if err != nil {
		return nil, fmt.Errorf("reading rendered content: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parsing rendered HTML: %w", err)
	}
	return doc, nil
}

// budget caps a step timeout by the time left on ctx, in milliseconds.
func budget(ctx context.Context, d time.Duration) float64 {
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < d {
			d = left
		}
	}
	if d < time.Millisecond {
		d = time.Millisecond
	}
	return float64(d.Milliseconds())
}
