// Package carscrape provides the public API for pulling vehicle tables out of
// an HTML page, local or remote, as a normalized Dataset.
package carscrape

import (
	"time"

	"github.com/TWolbert/forzabot2/pkg/fetcher"
)

// Config holds all Scraper configuration.
type Config struct {
	// Fetcher is used for http(s) sources. Local paths always go through
	// the file fetcher.
	Fetcher fetcher.Fetcher

	UserAgent       string
	Timeout         time.Duration
	WaitForSelector string

	// WaitDuration is extra settle time a browser fetcher allows after
	// the page is ready.
	WaitDuration time.Duration

	// MaxInputSize caps the document size in bytes. Zero means unlimited.
	MaxInputSize int64
}

// Chrome user agent for better compatibility with bot-protected sites
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// DefaultMaxInputSize is the document size limit applied unless overridden.
const DefaultMaxInputSize = 50 * 1000 * 1000

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		UserAgent:    defaultUserAgent,
		Timeout:      30 * time.Second,
		MaxInputSize: DefaultMaxInputSize,
	}
}

// Option configures a Scraper.
type Option func(*Config)

// WithFetcher sets the fetcher used for remote sources.
func WithFetcher(f fetcher.Fetcher) Option {
	return func(c *Config) {
		c.Fetcher = f
	}
}

// WithUserAgent sets the HTTP user agent.
func WithUserAgent(ua string) Option {
	return func(c *Config) {
		c.UserAgent = ua
	}
}

// WithTimeout sets the request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.Timeout = d
	}
}

// WithWaitSelector sets the CSS selector a browser fetcher waits for.
func WithWaitSelector(selector string) Option {
	return func(c *Config) {
		c.WaitForSelector = selector
	}
}

// WithWaitDuration sets how long a browser fetcher waits after the page
// is ready before reading it.
func WithWaitDuration(d time.Duration) Option {
	return func(c *Config) {
		c.WaitDuration = d
	}
}

// WithMaxInputSize sets the document size limit in bytes (0 = unlimited).
func WithMaxInputSize(n int64) Option {
	return func(c *Config) {
		c.MaxInputSize = n
	}
}
