package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/groovia/groovia/internal/config"
	"github.com/groovia/groovia/internal/download"
	"github.com/groovia/groovia/internal/nav"
	"github.com/groovia/groovia/internal/session"
	"github.com/groovia/groovia/internal/telegram"
	"github.com/groovia/groovia/pkg/saavn"
)

var (
	runLogFile  string
	runLogLevel string
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the bot",
	Long: `Run the bot in the foreground.

The bot will:
- Long-poll Telegram for messages and button presses
- Search the JioSaavn catalog and present paginated results
- Fetch and deliver tracks at each user's preferred quality
- Handle graceful shutdown on SIGINT/SIGTERM

The bot logs to stderr by default. Use the --log-file flag to log
to a file.`,
	RunE: runBot,
}

func init() {
	rootCmd.AddCommand(runCmd)

	// Command-line flags
	runCmd.Flags().StringVar(&runLogFile, "log-file", "", "Log file path (default: stderr)")
	runCmd.Flags().StringVar(&runLogLevel, "log-level", "", "Log level (debug, info, warn, error; default from config)")
}

func runBot(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Set up logging
	logLevel := runLogLevel
	if logLevel == "" {
		logLevel = cfg.LogLevel
	}
	logger := setupLogger(runLogFile, logLevel)

	logger.Info().
		Str("version", version).
		Int("admins", len(cfg.Telegram.AdminIDs)).
		Msg("Starting groovia")

	// Create catalog client
	catalog := saavn.NewClient(saavn.Config{
		BaseURL: cfg.Catalog.BaseURL,
		Logger:  zerologAdapter{logger.With().Str("component", "saavn").Logger()},
	})

	// Create session store and navigation engine
	sessions := session.NewStore()
	engine := nav.New(catalog, sessions, cfg.Telegram.AdminIDs, logger)

	// Create Telegram bot
	bot, err := telegram.New(cfg.Telegram.Token, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to Telegram: %w", err)
	}

	// Create retrieval pipeline; the bot is its sender
	fetcher := download.NewFetcher(logger)
	pipeline := download.New(download.Config{
		SendDelay:      time.Duration(cfg.SendDelayMS) * time.Millisecond,
		BroadcastDelay: time.Duration(cfg.BroadcastDelayMS) * time.Millisecond,
	}, catalog, fetcher, sessions, bot, logger)

	bot.Wire(engine, pipeline)

	// Stop polling on SIGINT/SIGTERM
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info().Str("signal", sig.String()).Msg("Shutting down")
		bot.Stop()
	}()

	// Run bot (blocks until Stop)
	bot.Start()

	logger.Info().Msg("Bot stopped")
	return nil
}

// zerologAdapter exposes a zerolog logger through the catalog
// client's minimal logging interface.
type zerologAdapter struct {
	log zerolog.Logger
}

func (a zerologAdapter) Debugf(format string, args ...interface{}) {
	a.log.Debug().Msgf(format, args...)
}

// setupLogger creates a logger with the specified configuration
func setupLogger(logFile, logLevel string) zerolog.Logger {
	// Parse log level
	level := zerolog.InfoLevel
	switch logLevel {
	case "debug":
		level = zerolog.DebugLevel
	case "info":
		level = zerolog.InfoLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	// Set up output
	var output *os.File
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			output = os.Stderr
		} else {
			output = f
		}
	} else {
		output = os.Stderr
	}

	// Create logger
	logger := zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger()

	// Use pretty console output if logging to stderr
	if output == os.Stderr {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	return logger
}
