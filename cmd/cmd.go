package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mariustrier/TimeTrack-sub004/internal"
	"github.com/mariustrier/TimeTrack-sub004/pkg/logger"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "timetrack",
	Short: "TimeTrack approvals service",
	Long:  `Time entry and expense approval workflows for multi-tenant companies.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// loadConfig reads config.yml from path with ENV_ prefixed overrides, or the
// plain environment when running in a container. The process logger is
// initialised from the loaded settings.
func loadConfig(path string) (*internal.Config, error) {
	var cfg *internal.Config

	if os.Getenv("APP_ENV") == "production" || os.Getenv("DOCKER_ENV") == "true" {
		cfg = internal.LoadConfigFromEnv()
	} else {
		v := viper.New()
		v.AddConfigPath(path)
		v.SetConfigName("config")
		v.SetConfigType("yml")
		v.SetEnvPrefix("ENV")
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()

		v.SetDefault("http_server.port", 8080)
		v.SetDefault("rate_limit.backend", "memory")
		v.SetDefault("rate_limit.window", "1m")
		v.SetDefault("rate_limit.max_requests", 30)
		v.SetDefault("currency.reference", "DKK")
		v.SetDefault("currency.language", "da")
		v.SetDefault("security.dev_token_ttl", "1h")
		v.SetDefault("security.clock_skew_leeway", "30s")

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config: %w", err)
		}

		cfg = &internal.Config{}
		if err := v.Unmarshal(cfg); err != nil {
			return nil, fmt.Errorf("error unmarshaling config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("error validating config: %w", err)
	}

	logger.Init(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)
	return cfg, nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", ".", "directory containing config.yml")

	rootCmd.AddCommand(httpServerCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(tokenCmd)
}
