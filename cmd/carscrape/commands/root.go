// Package commands implements the CLI commands for carscrape.
package commands

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/TWolbert/forzabot2/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "carscrape <input.html|url> <output.csv>",
	Short: "Extract vehicle tables from an HTML page into CSV",
	Long: `carscrape reads every <table> in an HTML page and writes the rows as one
normalized dataset. Vehicle names are stripped of annotations, prices are
reduced to their digits and acquisition codes are expanded.

The input is a local file or an http(s) URL. The output format follows the
output file extension (csv, json, jsonl, yaml) unless --format is given.

Examples:
  # Extract a saved wiki page
  carscrape cars.html cars.csv

  # Fetch the page directly and write JSON
  carscrape "https://forza.fandom.com/wiki/Forza_Horizon_5/Cars" cars.json

  # Render JavaScript tables in a headless browser
  carscrape --fetch-mode dynamic --wait-selector "table" URL cars.csv`,
	Args:    cobra.MinimumNArgs(2),
	Version: version.Full(),
	RunE:    runExtract,
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Global flags
	pflags := rootCmd.PersistentFlags()
	pflags.String("config", "", "config file (default $HOME/.carscrape.yaml)")
	pflags.Bool("debug", false, "enable debug logging")
	pflags.BoolP("quiet", "q", false, "only log errors")
	pflags.Bool("log-json", false, "write logs as JSON")
	pflags.String("log-level", "info", "log level: debug, info, warn, error")

	flags := rootCmd.Flags()

	// Output settings
	flags.StringP("format", "f", "", "output format: csv, json, jsonl, yaml (default: from output extension)")
	flags.Bool("lf", false, "terminate CSV lines with \\n instead of \\r\\n")
	flags.Bool("compact", false, "write JSON on a single line")
	flags.Bool("stats", false, "print extraction statistics to stderr")

	// Fetch settings
	flags.String("fetch-mode", "static", "fetch mode for URLs: static, dynamic, auto (browser only when the static page has no tables)")
	flags.Duration("timeout", 30*time.Second, "request timeout")
	flags.String("user-agent", "", "HTTP user agent for URLs")
	flags.Bool("googlebot", false, "spoof Googlebot user-agent in dynamic mode")
	flags.String("wait-selector", "", "CSS selector to wait for in dynamic mode")
	flags.Duration("wait", 0, "extra time to let scripts settle after the page is ready in dynamic mode")
	flags.String("max-input-size", "50MB", "max input document size (e.g., 500KB, 50MB, 0=unlimited)")

	// Bind to viper
	_ = viper.BindPFlag("config", pflags.Lookup("config"))
	_ = viper.BindPFlag("debug", pflags.Lookup("debug"))
	_ = viper.BindPFlag("quiet", pflags.Lookup("quiet"))
	_ = viper.BindPFlag("log_json", pflags.Lookup("log-json"))
	_ = viper.BindPFlag("log_level", pflags.Lookup("log-level"))
	_ = viper.BindPFlag("format", flags.Lookup("format"))
	_ = viper.BindPFlag("lf", flags.Lookup("lf"))
	_ = viper.BindPFlag("compact", flags.Lookup("compact"))
	_ = viper.BindPFlag("stats", flags.Lookup("stats"))
	_ = viper.BindPFlag("fetch_mode", flags.Lookup("fetch-mode"))
	_ = viper.BindPFlag("timeout", flags.Lookup("timeout"))
	_ = viper.BindPFlag("user_agent", flags.Lookup("user-agent"))
	_ = viper.BindPFlag("googlebot", flags.Lookup("googlebot"))
	_ = viper.BindPFlag("wait_selector", flags.Lookup("wait-selector"))
	_ = viper.BindPFlag("wait", flags.Lookup("wait"))
	_ = viper.BindPFlag("max_input_size", flags.Lookup("max-input-size"))
}

func initConfig() {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".carscrape")
		viper.SetConfigType("yaml")
	}

	// Environment variables
	viper.SetEnvPrefix("CARSCRAPE")
	viper.AutomaticEnv()

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
