package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/TWolbert/forzabot2/internal/logger"
)

// FileFetcher reads HTML from the local filesystem. Sources are plain paths
// or file:// URLs.
type FileFetcher struct{}

// NewFile creates a new file fetcher.
func NewFile() *FileFetcher {
	return &FileFetcher{}
}

// Fetch reads the document at source. Bytes that are not valid UTF-8 are
// dropped.
func (f *FileFetcher) Fetch(ctx context.Context, source string, opts Options) (Content, error) {
	if err := ctx.Err(); err != nil {
		return Content{}, err
	}

	path := localPath(source)
	logger.Debug("file fetch starting", "path", path)

	fh, err := os.Open(path) //#nosec G304 -- CLI tool reads the user-specified input file
	if err != nil {
		return Content{}, fmt.Errorf("reading input: %w", err)
	}
	defer func() { _ = fh.Close() }()

	var r io.Reader = fh
	if opts.MaxSize > 0 {
		r = io.LimitReader(fh, opts.MaxSize+1)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return Content{}, fmt.Errorf("reading input: %w", err)
	}
	if opts.MaxSize > 0 && int64(len(data)) > opts.MaxSize {
		return Content{}, fmt.Errorf("%w: %s is larger than %s", ErrInputTooLarge, path,
			humanize.Bytes(uint64(opts.MaxSize)))
	}

	result := Content{
		URL:         source,
		HTML:        strings.ToValidUTF8(string(data), ""),
		ContentType: "text/html",
		FetchedAt:   time.Now(),
	}

	if result.HTML != "" {
		title, err := pageTitle(result.HTML)
		if err != nil {
			return result, fmt.Errorf("failed to parse content: %w", err)
		}
		result.Title = title
	}

	logger.Debug("file fetch complete", "path", path, "size", humanize.Bytes(uint64(len(data))))
	return result, nil
}

// Close releases resources.
func (f *FileFetcher) Close() error {
	return nil
}

// Type returns the fetcher type.
func (f *FileFetcher) Type() string {
	return "file"
}

// localPath strips a file:// scheme from source.
func localPath(source string) string {
	if !strings.HasPrefix(strings.ToLower(source), "file://") {
		return source
	}
	u, err := url.Parse(source)
	if err != nil || u.Path == "" {
		return source[len("file://"):]
	}
	return u.Path
}
