package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"wirotask/internal/config"
	"wirotask/internal/logging"
	"wirotask/internal/wiro"
)

var (
	// Global flags
	verbose    bool
	configPath string
	apiKey     string
	apiSecret  string
	baseURL    string
	toolSlug   string
	timeout    time.Duration

	// Resolved in PersistentPreRunE
	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "wiro",
	Short: "Run tasks on the Wiro AI platform",
	Long: `wiro submits a task to a Wiro tool, polls it until it finishes and
prints the result.

Credentials come from --key/--secret, WIRO_KEY/WIRO_SECRET (a .env file in
the working directory is read first) or the api section of --config.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load .env: %w", err)
		}

		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		applyFlagOverrides(loaded)
		cfg = loaded

		logger, err = logging.Setup(cfg.Logging)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logging.Get(logging.CategoryBoot).Debug("configuration resolved",
			zap.String("base_url", cfg.API.BaseURL),
			zap.String("tool", cfg.API.ToolSlug),
			zap.Int("max_attempts", cfg.Poll.MaxAttempts),
			zap.String("interval", cfg.Poll.Interval))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&apiKey, "key", "", "Wiro API key (or set WIRO_KEY env)")
	rootCmd.PersistentFlags().StringVar(&apiSecret, "secret", "", "Wiro API secret (or set WIRO_SECRET env)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "API base URL (default "+config.DefaultBaseURL+")")
	rootCmd.PersistentFlags().StringVar(&toolSlug, "tool", "", "Tool slug, owner/name (default "+config.DefaultToolSlug+")")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "HTTP request timeout (default 2m0s)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(pollCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(signCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error:"), err)
		os.Exit(1)
	}
}

// applyFlagOverrides lets explicit flags win over file and env values.
func applyFlagOverrides(c *config.Config) {
	if apiKey != "" {
		c.API.Key = apiKey
	}
	if apiSecret != "" {
		c.API.Secret = apiSecret
	}
	if baseURL != "" {
		c.API.BaseURL = baseURL
	}
	if toolSlug != "" {
		c.API.ToolSlug = toolSlug
	}
	if timeout > 0 {
		c.API.Timeout = timeout.String()
	}
	if verbose {
		c.Logging.Level = "debug"
	}
}

// newClient validates the resolved configuration and builds a client from it.
func newClient(opts ...wiro.Option) (*wiro.Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return wiro.NewClientWithConfig(wiro.ConfigFrom(cfg), opts...), nil
}

// commandContext returns a context cancelled on SIGINT or SIGTERM.
func commandContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		defer signal.Stop(sigCh)
		select {
		case <-sigCh:
			logging.Get(logging.CategoryCLI).Info("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
