package commands

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	clifetcher "github.com/TWolbert/forzabot2/cmd/carscrape/fetcher"
	"github.com/TWolbert/forzabot2/internal/logger"
	"github.com/TWolbert/forzabot2/internal/output"
	"github.com/TWolbert/forzabot2/pkg/carscrape"
	"github.com/TWolbert/forzabot2/pkg/fetcher"
)

// extractOptions is the resolved configuration of one run, merged from
// flags, environment and config file.
type extractOptions struct {
	Input        string        `validate:"required"`
	Output       string        `validate:"required"`
	Format       string        `validate:"omitempty,oneof=csv json jsonl yaml"`
	FetchMode    string        `validate:"oneof=static dynamic auto"`
	Timeout      time.Duration `validate:"gte=0s"`
	UserAgent    string
	Googlebot    bool
	WaitSelector string
	Wait         time.Duration `validate:"gte=0s"`
	MaxInputSize string        `validate:"required"`
	Stats        bool
	LF           bool
	Compact      bool
}

// loadOptions reads the run configuration from viper and validates it.
func loadOptions(args []string) (extractOptions, error) {
	opts := extractOptions{
		Input:        args[0],
		Output:       args[1],
		Format:       strings.ToLower(strings.TrimSpace(viper.GetString("format"))),
		FetchMode:    strings.ToLower(strings.TrimSpace(viper.GetString("fetch_mode"))),
		Timeout:      viper.GetDuration("timeout"),
		UserAgent:    viper.GetString("user_agent"),
		Googlebot:    viper.GetBool("googlebot"),
		WaitSelector: viper.GetString("wait_selector"),
		Wait:         viper.GetDuration("wait"),
		MaxInputSize: strings.TrimSpace(viper.GetString("max_input_size")),
		Stats:        viper.GetBool("stats"),
		LF:           viper.GetBool("lf"),
		Compact:      viper.GetBool("compact"),
	}
	if opts.FetchMode == "" {
		opts.FetchMode = "static"
	}
	if opts.MaxInputSize == "" {
		opts.MaxInputSize = "0"
	}

	if err := validateOptions(opts); err != nil {
		return opts, err
	}
	return opts, nil
}

var validate = validator.New()

// validateOptions checks opts and renders every failing field.
func validateOptions(opts extractOptions) error {
	err := validate.Struct(opts)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s %s (got %q)", flagName(e.Field()), formatValidationError(e), fmt.Sprint(e.Value())))
	}
	return fmt.Errorf("invalid options: %s", strings.Join(msgs, "; "))
}

// formatValidationError creates a human-readable error message.
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(e.Param(), " ", ", "))
	case "gte":
		return fmt.Sprintf("must be at least %s", e.Param())
	default:
		return fmt.Sprintf("failed validation '%s'", e.Tag())
	}
}

// flagName maps an extractOptions field to the flag users know it by.
func flagName(field string) string {
	switch field {
	case "Input":
		return "input"
	case "Output":
		return "output"
	case "FetchMode":
		return "--fetch-mode"
	case "MaxInputSize":
		return "--max-input-size"
	default:
		return "--" + strings.ToLower(field)
	}
}

// parseSize parses a human-readable byte size. "0" means unlimited.
func parseSize(s string) (int64, error) {
	if s == "0" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid --max-input-size %q: %w", s, err)
	}
	return int64(n), nil
}

// resolveFormat returns the explicit format or the one implied by path.
func resolveFormat(explicit, path string) (output.Format, error) {
	if explicit != "" {
		return output.ParseFormat(explicit)
	}
	return output.FormatFromPath(path), nil
}

// writerOptions maps the output flags onto writer options.
func writerOptions(opts extractOptions) []output.WriterOption {
	return []output.WriterOption{
		output.WithCRLF(!opts.LF),
		output.WithPretty(!opts.Compact),
	}
}

// newRemoteFetcher creates the fetcher used for http(s) inputs.
func newRemoteFetcher(opts extractOptions) (fetcher.Fetcher, error) {
	switch opts.FetchMode {
	case "dynamic":
		return clifetcher.NewDynamicFetcher(clifetcher.Config{
			UserAgent: opts.UserAgent,
			Timeout:   opts.Timeout,
			Googlebot: opts.Googlebot,
		})
	case "auto":
		return clifetcher.NewAutoFetcher(clifetcher.Config{
			UserAgent: opts.UserAgent,
			Timeout:   opts.Timeout,
			Googlebot: opts.Googlebot,
		}), nil
	case "static":
		return fetcher.NewStatic(fetcher.StaticConfig{
			UserAgent: opts.UserAgent,
			Timeout:   opts.Timeout,
		}), nil
	default:
		return nil, fmt.Errorf("unknown fetch mode: %s (use 'static', 'dynamic' or 'auto')", opts.FetchMode)
	}
}

func runExtract(cmd *cobra.Command, args []string) error {
	logger.Init(logger.Options{
		Level:  viper.GetString("log_level"),
		Debug:  viper.GetBool("debug"),
		Quiet:  viper.GetBool("quiet"),
		JSON:   viper.GetBool("log_json"),
		Output: cmd.ErrOrStderr(),
	})

	// Arguments are valid from here on; further failures are not usage errors.
	cmd.SilenceUsage = true

	if len(args) > 2 {
		logger.Warn("ignoring extra arguments", "args", args[2:])
	}

	opts, err := loadOptions(args)
	if err != nil {
		logger.Error("invalid options", "error", err)
		return err
	}

	maxSize, err := parseSize(opts.MaxInputSize)
	if err != nil {
		logger.Error("invalid max-input-size", "value", opts.MaxInputSize, "error", err)
		return err
	}

	format, err := resolveFormat(opts.Format, opts.Output)
	if err != nil {
		logger.Error("invalid output format", "format", opts.Format, "error", err)
		return err
	}

	logger.Debug("options resolved",
		"input", opts.Input,
		"output", opts.Output,
		"format", format,
		"fetch_mode", opts.FetchMode,
		"timeout", opts.Timeout,
		"max_input_size", humanize.Bytes(uint64(maxSize)))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	scrapeOpts := []carscrape.Option{
		carscrape.WithTimeout(opts.Timeout),
		carscrape.WithMaxInputSize(maxSize),
		carscrape.WithWaitSelector(opts.WaitSelector),
		carscrape.WithWaitDuration(opts.Wait),
	}
	if opts.UserAgent != "" {
		scrapeOpts = append(scrapeOpts, carscrape.WithUserAgent(opts.UserAgent))
	}
	// Only URLs need a remote fetcher; a browser is never started for files.
	if fetcher.IsRemote(opts.Input) {
		f, err := newRemoteFetcher(opts)
		if err != nil {
			logger.Error("failed to create fetcher", "fetch_mode", opts.FetchMode, "error", err)
			return err
		}
		scrapeOpts = append(scrapeOpts, carscrape.WithFetcher(f))
	}

	s, err := carscrape.New(scrapeOpts...)
	if err != nil {
		logger.Error("failed to initialize", "error", err)
		return err
	}
	defer func() { _ = s.Close() }()

	logger.Info("extracting tables", "input", opts.Input)

	result, err := s.Scrape(ctx, opts.Input)
	if err != nil {
		logger.Error("extraction failed", "input", opts.Input, "error", err)
		return err
	}

	if opts.Stats {
		fmt.Fprintln(cmd.ErrOrStderr(), result.Stats.String())
	}

	if err := output.WriteFile(opts.Output, format, result.Dataset, writerOptions(opts)...); err != nil {
		if errors.Is(err, output.ErrEmptyDataset) {
			logger.Error("nothing to write", "input", opts.Input, "tables", result.Stats.TablesFound)
		} else {
			logger.Error("failed to write output", "path", opts.Output, "error", err)
		}
		return err
	}

	logger.Info("extraction complete",
		"rows", len(result.Dataset),
		"tables", result.Stats.TablesFound,
		"fetch_duration", result.FetchDuration,
		"extract_duration", result.ExtractDuration)

	fmt.Fprintf(cmd.OutOrStdout(), "[+] Extracted %d rows -> %s\n", len(result.Dataset), opts.Output)
	return nil
}
