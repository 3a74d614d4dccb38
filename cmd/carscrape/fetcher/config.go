// Package fetcher provides the headless-browser fetcher used by the CLI for
// pages that only render their tables with JavaScript.
package fetcher

import (
	"time"
)

// Config holds configuration for the dynamic fetcher.
type Config struct {
	UserAgent string
	Timeout   time.Duration
	Googlebot bool   // Spoof Googlebot user-agent
	ChromeBin string // Explicit browser binary; searched for when empty
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		UserAgent: defaultUserAgent,
		Timeout:   30 * time.Second,
	}
}

// Chrome user agent for better compatibility
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// GooglebotUserAgent is the standard Googlebot user-agent.
const GooglebotUserAgent = "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"
