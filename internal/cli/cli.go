package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pfrederiksen/belle-events/internal/cache"
	"github.com/pfrederiksen/belle-events/internal/calendar"
	"github.com/pfrederiksen/belle-events/internal/config"
	"github.com/pfrederiksen/belle-events/internal/event"
	"github.com/pfrederiksen/belle-events/internal/filter"
	"github.com/pfrederiksen/belle-events/internal/logger"
	"github.com/pfrederiksen/belle-events/internal/metrics"
	"github.com/pfrederiksen/belle-events/internal/pattern"
	"github.com/pfrederiksen/belle-events/internal/scraper"
	"github.com/pfrederiksen/belle-events/internal/server"
	"github.com/pfrederiksen/belle-events/internal/storage"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

// filterFlags are the listing filters shared by scrape and ics.
type filterFlags struct {
	Search      string
	Genre       string
	Venue       string
	EventType   string
	DateRange   string
	HideSoldOut bool
	Weekends    bool
}

var (
	flagDataDir  string
	flagMode     string
	flagFromFile bool
	flagVerbose  bool

	flagFormat  string
	flagSort    string
	flagFilters filterFlags

	flagEventID string
	flagOutput  string
	flagPort    int
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "belle-events",
		Short: "Extract the La Belle Électrique concert programme",
		Long: `A CLI tool to extract the concert programme of La Belle Électrique (Grenoble).
Scrapes the venue's listing page into structured events, exports them as
JSON or iCalendar, and serves them over HTTP.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "Data directory for concerts.json (overrides DATA_DIR)")
	cmd.PersistentFlags().StringVar(&flagMode, "mode", "", "Acquisition mode: static or rendered (overrides ACQUISITION_MODE)")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose output and debug logging")

	cmd.AddCommand(newScrapeCmd(), newGenerateCmd(), newICSCmd(), newServeCmd())

	return cmd
}

func newScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Fetch the programme and print it",
		RunE:  runScrape,
	}
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.Flags().StringVar(&flagSort, "sort", string(SortByDate), "Sort order: date, title, venue or genre")
	cmd.Flags().BoolVar(&flagFromFile, "from-file", false, "Read the generated concerts.json instead of scraping")
	addFilterFlags(cmd)
	return cmd
}

func newGenerateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Scrape the programme and write concerts.json to the data directory",
		RunE:  runGenerate,
	}
}

func newICSCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ics",
		Short: "Export one event or the whole programme as an iCalendar file",
		RunE:  runICS,
	}
	cmd.Flags().StringVar(&flagEventID, "id", "", "Event ID to export (default: all events)")
	cmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().BoolVar(&flagFromFile, "from-file", false, "Read the generated concerts.json instead of scraping")
	addFilterFlags(cmd)
	return cmd
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the programme over HTTP",
		RunE:  runServe,
	}
	cmd.Flags().IntVar(&flagPort, "port", 0, "Port to listen on (overrides PORT)")
	cmd.Flags().BoolVar(&flagFromFile, "from-file", false, "Serve the generated concerts.json instead of scraping")
	return cmd
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagFilters.Search, "search", "", "Case-insensitive title search")
	cmd.Flags().StringVar(&flagFilters.Genre, "genre", "", "Only events of this genre (e.g. Rock)")
	cmd.Flags().StringVar(&flagFilters.Venue, "venue", "", "Only events in this room (e.g. \"Grande Salle\")")
	cmd.Flags().StringVar(&flagFilters.EventType, "type", "", "Only events of this type (e.g. Concert)")
	cmd.Flags().StringVar(&flagFilters.DateRange, "range", "", "Date range, e.g. '17.10.25-31.10.25', '1-15 octobre' or 'novembre'")
	cmd.Flags().BoolVar(&flagFilters.HideSoldOut, "hide-sold-out", false, "Hide sold-out events")
	cmd.Flags().BoolVar(&flagFilters.Weekends, "weekends", false, "Only events on Saturday or Sunday")
}

// newFilter turns the filter flags into a filter.
func newFilter(ff filterFlags, now time.Time) (*filter.Filter, error) {
	f := filter.NewFilter()
	f.Search = ff.Search
	f.Genre = ff.Genre
	f.Venue = ff.Venue
	f.EventType = ff.EventType
	f.HideSoldOut = ff.HideSoldOut
	f.WeekendsOnly = ff.Weekends

	if ff.DateRange != "" {
		from, to, err := filter.ParseDateRangeAt(ff.DateRange, now)
		if err != nil {
			return nil, fmt.Errorf("invalid --range: %w", err)
		}
		f.DateFrom, f.DateTo = from, to
	}
	return f, nil
}

// app holds what every command needs once configuration is loaded.
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	metrics *metrics.Metrics
}

func setup() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}
	if flagMode != "" {
		cfg.Acquisition.Mode = strings.ToLower(flagMode)
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	level := cfg.Log.Level
	if flagVerbose {
		level = "debug"
	}
	log, err := logger.New(logger.Options{
		Level:      level,
		Format:     cfg.Log.Format,
		Production: cfg.Env == config.EnvProduction,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}
	logger.SetDefault(log)

	return &app{cfg: cfg, log: log, metrics: metrics.New()}, nil
}

func (a *app) scraperOptions() (scraper.Options, error) {
	vocab, err := pattern.LoadVocabularies(a.cfg.Extraction.VocabularyFile)
	if err != nil {
		return scraper.Options{}, err
	}

	acq := a.cfg.Acquisition
	return scraper.Options{
		Origin:      a.cfg.Source.Origin,
		ListingPath: a.cfg.Source.ListingPath,
		EventPath:   a.cfg.Source.EventPath,
		UserAgent:   a.cfg.Source.UserAgent,
		Mode:        acq.Mode,
		Timeout:     acq.Timeout,
		Render: scraper.RenderOptions{
			NavigationTimeout:  acq.NavigationTimeout,
			ContentWaitTimeout: acq.ContentWaitTimeout,
			ScrollStep:         acq.ScrollStep,
			ScrollInterval:     acq.ScrollInterval,
			SettleDelay:        acq.SettleDelay,
			BrowserPath:        acq.BrowserPath,
		},
		Vocabularies: &vocab,
		Logger:       a.log,
		Metrics:      a.metrics,
	}, nil
}

func (a *app) calendarOptions() calendar.Options {
	return calendar.Options{
		Name:            a.cfg.Calendar.Name,
		TimeZone:        a.cfg.Calendar.TimeZone,
		DefaultStart:    a.cfg.Calendar.DefaultStart,
		DefaultDuration: a.cfg.Calendar.DefaultDuration,
	}
}

// source returns the live scraper, or the generated data file when fromFile is set.
// The second value describes where events come from.
func (a *app) source(fromFile bool) (server.Source, string, error) {
	if fromFile {
		store, err := storage.New(a.cfg.DataDir)
		if err != nil {
			return nil, "", fmt.Errorf("initializing storage: %w", err)
		}
		return storage.NewFileSource(store), store.Path(), nil
	}

	opts, err := a.scraperOptions()
	if err != nil {
		return nil, "", err
	}
	sc, err := scraper.New(opts)
	if err != nil {
		return nil, "", fmt.Errorf("initializing scraper: %w", err)
	}
	return sc, a.cfg.Source.ListingURL(), nil
}

// responseCache picks Redis when configured and reachable, memory otherwise.
func (a *app) responseCache() (cache.Cache, func()) {
	if a.cfg.Redis.Addr != "" {
		client, err := cache.NewRedis(a.cfg.Redis.Addr, a.cfg.Redis.Password, a.cfg.Redis.DB)
		if err == nil {
			a.log.Info("Using Redis response cache", logger.Fields{"addr": a.cfg.Redis.Addr})
			rc := cache.NewRedisCache(client)
			return rc, func() { _ = rc.Close() }
		}
		a.log.Warn("Redis unavailable, falling back to memory cache", logger.Fields{
			"addr":  a.cfg.Redis.Addr,
			"error": err.Error(),
		})
	}
	return cache.NewMemoryCache(), func() {}
}

func runScrape(cmd *cobra.Command, args []string) error {
	// Validate format
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}
	order := SortOrder(strings.ToLower(flagSort))
	if !order.valid() {
		return fmt.Errorf("invalid sort: %s (must be 'date', 'title', 'venue' or 'genre')", flagSort)
	}
	f, err := newFilter(flagFilters, time.Now())
	if err != nil {
		return err
	}

	a, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = a.log.Sync() }()

	src, origin, err := a.source(flagFromFile)
	if err != nil {
		return err
	}

	if flagVerbose {
		fmt.Fprintf(os.Stderr, "Fetching events from %s\n", origin)
	}

	events, err := src.FetchEvents(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetching events: %w", err)
	}

	events = f.Apply(events)
	sortEvents(events, order)
	if flagVerbose {
		events = withLinks(events)
	}

	result := &OutputResult{
		FetchedAt:  time.Now().UTC(),
		Source:     origin,
		Events:     events,
		EventCount: len(events),
	}
	if !f.IsEmpty() {
		result.Filter = f.String()
	}

	if err := WriteOutput(cmd.OutOrStdout(), result, format, flagVerbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = a.log.Sync() }()

	store, err := storage.New(a.cfg.DataDir)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	src, origin, err := a.source(false)
	if err != nil {
		return err
	}

	events, err := src.FetchEvents(cmd.Context())
	if err != nil {
		// Keep the previous file rather than replacing it with nothing.
		return fmt.Errorf("fetching events from %s: %w", origin, err)
	}

	if err := store.SaveEvents(events); err != nil {
		return fmt.Errorf("saving events: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Saved %d events to %s\n", len(events), store.Path())
	return nil
}

func runICS(cmd *cobra.Command, args []string) error {
	f, err := newFilter(flagFilters, time.Now())
	if err != nil {
		return err
	}

	a, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = a.log.Sync() }()

	src, _, err := a.source(flagFromFile)
	if err != nil {
		return err
	}

	events, err := src.FetchEvents(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetching events: %w", err)
	}

	var body string
	if flagEventID != "" {
		evt := findEvent(events, flagEventID)
		if evt == nil {
			return fmt.Errorf("event not found: %s", flagEventID)
		}
		body = calendar.GenerateICS(evt, a.calendarOptions())
	} else {
		events = f.Apply(events)
		body = calendar.GenerateMultipleICS(events, a.calendarOptions())
	}

	if flagOutput == "" || flagOutput == "-" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), body)
		return err
	}

	if err := os.WriteFile(flagOutput, []byte(body), 0644); err != nil {
		return fmt.Errorf("writing calendar: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s\n", flagOutput)
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = a.log.Sync() }()

	if a.cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	src, origin, err := a.source(flagFromFile)
	if err != nil {
		return err
	}

	responseCache, closeCache := a.responseCache()
	defer closeCache()

	srv, err := server.New(src, server.Options{
		CacheTTL:             a.cfg.Cache.TTL,
		StaleWhileRevalidate: a.cfg.Cache.StaleWhileRevalidate,
		Calendar:             a.calendarOptions(),
		Cache:                responseCache,
		Logger:               a.log,
		Metrics:              a.metrics,
	})
	if err != nil {
		return err
	}

	port := a.cfg.Port
	if flagPort > 0 {
		port = flagPort
	}

	a.log.Info("Serving events", logger.Fields{"source": origin, "port": port})
	return srv.Run(cmd.Context(), fmt.Sprintf(":%d", port))
}

func findEvent(events []*event.Event, id string) *event.Event {
	for _, evt := range events {
		if evt.ID == id {
			return evt
		}
	}
	return nil
}

func withLinks(events []*event.Event) []*event.Event {
	out := make([]*event.Event, len(events))
	for i, evt := range events {
		out[i] = evt.WithLinks()
	}
	return out
}

// Execute runs the CLI
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(ExitError)
	}
}
