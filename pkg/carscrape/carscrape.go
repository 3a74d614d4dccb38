package carscrape

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/TWolbert/forzabot2/internal/logger"
	"github.com/TWolbert/forzabot2/pkg/fetcher"
	"github.com/TWolbert/forzabot2/pkg/tables"
)

// Version returns the module version of the carscrape library.
// Returns "(unknown)" when the binary carries no build info.
func Version() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		return info.Main.Version
	}
	return "(unknown)"
}

// Result represents a scrape of one source.
type Result struct {
	Source          string
	Title           string
	FetchedAt       time.Time
	Dataset         tables.Dataset
	Stats           *tables.Stats
	FetchDuration   time.Duration // Time to read or download the page
	ExtractDuration time.Duration // Time to parse and normalize the tables
}

// Scraper is the main entry point for table extraction.
type Scraper struct {
	remote    fetcher.Fetcher
	local     fetcher.Fetcher
	extractor *tables.Extractor
	config    Config
}

// New creates a new Scraper.
func New(opts ...Option) (*Scraper, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("invalid timeout: %s", cfg.Timeout)
	}
	if cfg.WaitDuration < 0 {
		return nil, fmt.Errorf("invalid wait duration: %s", cfg.WaitDuration)
	}
	if cfg.MaxInputSize < 0 {
		return nil, fmt.Errorf("invalid max input size: %d", cfg.MaxInputSize)
	}

	// Use injected fetcher or create a default static one
	remote := cfg.Fetcher
	if remote == nil {
		remote = fetcher.NewStatic(fetcher.StaticConfig{
			UserAgent: cfg.UserAgent,
			Timeout:   cfg.Timeout,
		})
	}

	return &Scraper{
		remote:    remote,
		local:     fetcher.NewFile(),
		extractor: tables.New(),
		config:    cfg,
	}, nil
}

// Scrape fetches source, a local path or an http(s) URL, and extracts every
// table in it. An empty Dataset is not an error here; writers report it.
func (s *Scraper) Scrape(ctx context.Context, source string) (*Result, error) {
	f := s.local
	if fetcher.IsRemote(source) {
		f = s.remote
	}

	fetchOpts := fetcher.Options{
		UserAgent:       s.config.UserAgent,
		Timeout:         s.config.Timeout,
		WaitForSelector: s.config.WaitForSelector,
		WaitDuration:    s.config.WaitDuration,
		MaxSize:         s.config.MaxInputSize,
	}

	logger.Debug("fetching source", "source", source, "fetcher", f.Type(), "extractor", s.extractor.Name())

	fetchStart := time.Now()
	content, err := f.Fetch(ctx, source, fetchOpts)
	fetchDuration := time.Since(fetchStart)
	if err != nil {
		return nil, fmt.Errorf("fetch failed: %w", err)
	}

	extracted := s.extractor.ExtractWithStats(content.HTML)
	if extracted.Error != nil {
		return nil, fmt.Errorf("extraction failed: %w", extracted.Error)
	}

	logger.Debug("source scraped",
		"source", source,
		"title", content.Title,
		"tables", extracted.Stats.TablesFound,
		"rows", len(extracted.Dataset),
		"fetch_duration", fetchDuration)

	return &Result{
		Source:          source,
		Title:           content.Title,
		FetchedAt:       content.FetchedAt,
		Dataset:         extracted.Dataset,
		Stats:           extracted.Stats,
		FetchDuration:   fetchDuration,
		ExtractDuration: extracted.Stats.TotalDuration,
	}, nil
}

// Close releases the remote fetcher's resources.
func (s *Scraper) Close() error {
	if s.remote != nil {
		return s.remote.Close()
	}
	return nil
}

// FetcherType returns the type of the fetcher used for remote sources.
func (s *Scraper) FetcherType() string {
	return s.remote.Type()
}
