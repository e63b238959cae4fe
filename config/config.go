package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds the full application configuration loaded from environment variables or .env file.
//
// It is composed of smaller structs that represent different concerns of the system,
// such as the market data provider, the report run and chart rendering.
//
// Example ENV equivalent:
//
//	YAHOO_BASE_URL=https://query1.finance.yahoo.com
//	YAHOO_TIMEOUT=30s
//	REPORT_OUTPUT_DIR=data
//	REPORT_UNIVERSE_FILE=data/sp500.csv
//	REPORT_LOOKBACK_DAYS=504
//	REPORT_TOP_N=10
//	STATS_ANNUALIZATION_DAYS=252
//	CHART_WIDTH_IN=6.4
//	CHART_HEIGHT_IN=4.8
type Config struct {
	Yahoo  YahooConfig  // market data provider
	Report ReportConfig // daily report defaults
	Stats  StatsConfig  // return statistics
	Chart  ChartConfig  // image size
}

// YahooConfig defines how to reach the Yahoo Finance chart API.
//
// Fields:
//   - BaseURL: scheme and host of the API.
//   - Timeout: per-request HTTP timeout.
//   - UserAgent: sent with every request; the API rejects empty agents.
type YahooConfig struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// ReportConfig holds the defaults of the report command. CLI flags override them.
type ReportConfig struct {
	OutputDir    string
	UniverseFile string
	LookbackDays int
	TopN         int
}

// StatsConfig holds return statistics settings.
type StatsConfig struct {
	AnnualizationDays int
}

// ChartConfig holds the rendered image size in inches.
type ChartConfig struct {
	WidthIn  float64
	HeightIn float64
}

// AppConfig is the globally accessible configuration instance.
//
// It is populated once via LoadConfig() and used by the command layer, which
// copies the relevant values into each run.
var AppConfig Config

// LoadConfig initializes the global AppConfig by reading from .env file
// or directly from environment variables.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Fatal exit:
//   - If required variables are missing or out of range, validateConfig() will
//     terminate the app with a descriptive log message.
func LoadConfig() {
	// Default values
	viper.SetDefault("YAHOO_BASE_URL", "https://query1.finance.yahoo.com")
	viper.SetDefault("YAHOO_TIMEOUT", "30s")
	viper.SetDefault("YAHOO_USER_AGENT", "Mozilla/5.0 (compatible; marketpulse/1.0)")

	viper.SetDefault("REPORT_OUTPUT_DIR", "data")
	viper.SetDefault("REPORT_UNIVERSE_FILE", "data/sp500.csv")
	viper.SetDefault("REPORT_LOOKBACK_DAYS", 504) // two years of sessions
	viper.SetDefault("REPORT_TOP_N", 10)

	viper.SetDefault("STATS_ANNUALIZATION_DAYS", 252)

	viper.SetDefault("CHART_WIDTH_IN", 6.4)
	viper.SetDefault("CHART_HEIGHT_IN", 4.8)

	// Optionally read from .env if present (common in local dev)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig() // ignore error if no .env

	// Read environment variables automatically
	viper.AutomaticEnv()

	// Populate global config instance
	AppConfig = Config{
		Yahoo: YahooConfig{
			BaseURL:   viper.GetString("YAHOO_BASE_URL"),
			Timeout:   viper.GetDuration("YAHOO_TIMEOUT"),
			UserAgent: viper.GetString("YAHOO_USER_AGENT"),
		},
		Report: ReportConfig{
			OutputDir:    viper.GetString("REPORT_OUTPUT_DIR"),
			UniverseFile: viper.GetString("REPORT_UNIVERSE_FILE"),
			LookbackDays: viper.GetInt("REPORT_LOOKBACK_DAYS"),
			TopN:         viper.GetInt("REPORT_TOP_N"),
		},
		Stats: StatsConfig{
			AnnualizationDays: viper.GetInt("STATS_ANNUALIZATION_DAYS"),
		},
		Chart: ChartConfig{
			WidthIn:  viper.GetFloat64("CHART_WIDTH_IN"),
			HeightIn: viper.GetFloat64("CHART_HEIGHT_IN"),
		},
	}

	// Validate critical fields
	validateConfig()
}

// validateConfig ensures required variables are present and terminates
// the application if they are missing.
//
// Behavior:
//   - Checks each critical field of AppConfig.
//   - Collects missing or non-positive ones in a slice.
//   - If any are found, logs them and terminates the app with log.Fatalf().
func validateConfig() {
	if missing := missingKeys(AppConfig); len(missing) > 0 {
		log.Fatalf("missing or invalid environment variables: %v\n", missing)
	}
}

func missingKeys(c Config) []string {
	var missing []string

	if c.Yahoo.BaseURL == "" {
		missing = append(missing, "YAHOO_BASE_URL")
	}
	if c.Yahoo.Timeout <= 0 {
		missing = append(missing, "YAHOO_TIMEOUT")
	}
	if c.Report.OutputDir == "" {
		missing = append(missing, "REPORT_OUTPUT_DIR")
	}
	if c.Report.UniverseFile == "" {
		missing = append(missing, "REPORT_UNIVERSE_FILE")
	}
	if c.Report.LookbackDays < 2 {
		missing = append(missing, "REPORT_LOOKBACK_DAYS")
	}
	if c.Report.TopN < 1 {
		missing = append(missing, "REPORT_TOP_N")
	}
	if c.Stats.AnnualizationDays < 2 {
		missing = append(missing, "STATS_ANNUALIZATION_DAYS")
	}
	if c.Chart.WidthIn <= 0 {
		missing = append(missing, "CHART_WIDTH_IN")
	}
	if c.Chart.HeightIn <= 0 {
		missing = append(missing, "CHART_HEIGHT_IN")
	}

	return missing
}
