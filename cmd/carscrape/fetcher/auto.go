package fetcher

import (
	"context"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"github.com/TWolbert/forzabot2/internal/logger"
	"github.com/TWolbert/forzabot2/pkg/fetcher"
)

// AutoFetcher fetches statically and falls back to a browser when the
// static page has no tables or looks like a client-rendered app. The
// browser is only started on the first fallback.
type AutoFetcher struct {
	static     fetcher.Fetcher
	newDynamic func() (fetcher.Fetcher, error)

	mu      sync.Mutex
	dynamic fetcher.Fetcher
}

// NewAutoFetcher creates an auto fetcher from cfg.
func NewAutoFetcher(cfg Config) *AutoFetcher {
	static := fetcher.NewStatic(fetcher.StaticConfig{
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.Timeout,
	})
	return newAutoFetcher(static, func() (fetcher.Fetcher, error) {
		return NewDynamicFetcher(cfg)
	})
}

func newAutoFetcher(static fetcher.Fetcher, newDynamic func() (fetcher.Fetcher, error)) *AutoFetcher {
	return &AutoFetcher{static: static, newDynamic: newDynamic}
}

// Fetch tries static first, then falls back to dynamic if needed.
func (f *AutoFetcher) Fetch(ctx context.Context, url string, opts fetcher.Options) (fetcher.Content, error) {
	content, err := f.static.Fetch(ctx, url, opts)
	switch {
	case err != nil:
		logger.Debug("static fetch failed, retrying in browser", "url", url, "error", err)
	case needsBrowser(content.HTML):
		logger.Debug("static page has no tables, retrying in browser", "url", url)
	default:
		return content, nil
	}

	dynamic, derr := f.browser()
	if derr != nil {
		if err != nil {
			return content, err
		}
		return content, derr
	}
	return dynamic.Fetch(ctx, url, opts)
}

func (f *AutoFetcher) browser() (fetcher.Fetcher, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.dynamic == nil {
		d, err := f.newDynamic()
		if err != nil {
			return nil, err
		}
		f.dynamic = d
	}
	return f.dynamic, nil
}

// SPA framework markers
var spaMarkers = []string{
	`<div id="root"></div>`,
	`<div id="app"></div>`,
	"<app-root></app-root>",
	`<div id="__next"></div>`,
	`<div id="__nuxt"></div>`,
	"<div data-reactroot",
	"ng-app",
	"v-cloak",
}

// needsBrowser reports whether html appears to need JavaScript rendering
// before its tables exist.
func needsBrowser(html string) bool {
	if !hasTables(html) {
		return true
	}

	lower := strings.ToLower(html)
	for _, marker := range spaMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// hasTables reports whether html contains at least one <table> element.
func hasTables(html string) bool {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return false
	}
	return doc.Find("table").Length() > 0
}

// Close releases all fetcher resources.
func (f *AutoFetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	err := f.static.Close()
	if f.dynamic != nil {
		if derr := f.dynamic.Close(); derr != nil {
			err = derr
		}
	}
	return err
}

// Type returns the fetcher type.
func (f *AutoFetcher) Type() string {
	return "auto"
}
