// Package cli implements the snippets command line: loading and filtering user files,
// comparing numbers and walking integer ranges.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/amp-labs/amp-snippets/build"
	"github.com/amp-labs/amp-snippets/envutil"
	"github.com/amp-labs/amp-snippets/logger"
	"github.com/amp-labs/amp-snippets/shutdown"
	"github.com/amp-labs/amp-snippets/telemetry"
	"github.com/spf13/cobra"
)

const (
	appName      = "snippets"
	flushTimeout = 5 * time.Second
)

type settings struct {
	prompter Prompter
}

// Option customizes the root command.
type Option func(*settings)

// WithPrompter replaces the terminal prompter used by "users --interactive".
func WithPrompter(p Prompter) Option {
	return func(s *settings) {
		s.prompter = p
	}
}

// NewRootCommand builds the snippets command tree. Each call returns an independent
// tree, so flags parsed by one run never leak into the next.
func NewRootCommand(opts ...Option) *cobra.Command {
	s := &settings{
		prompter: NewTerminalPrompter(os.Stdin, os.Stdout),
	}

	for _, opt := range opts {
		opt(s)
	}

	var envFile string

	root := &cobra.Command{
		Use:           appName,
		Short:         "Load and filter users, compare numbers, walk ranges",
		Version:       build.Current().String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if envFile == "" {
				return nil
			}

			ctx, err := envutil.WithEnvFile(cmd.Context(), envFile)
			if err != nil {
				return err
			}

			cmd.SetContext(ctx)

			return nil
		},
	}

	root.PersistentFlags().StringVar(&envFile, "env-file", "",
		"read SNIPPETS_* settings from a .env, .json or .yaml file")

	root.AddCommand(
		newUsersCommand(s),
		newCompareCommand(),
		newRangeCommand(),
	)

	return root
}

// Execute runs the command line against os.Args and returns the process exit code.
func Execute() int {
	ctx := logger.WithSubsystem(context.Background(), appName)

	providers, err := startTelemetry(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err) //nolint:errcheck

		return 1
	}

	log, err := logger.ConfigureLogging(ctx, appName,
		logger.WithDefaultLevel(slog.LevelWarn),
		logger.WithDefaultOutput(os.Stderr),
		logger.WithSink(providers.LogHandler()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err) //nolint:errcheck

		return 1
	}

	ctx, stop := shutdown.SetupHandler(logger.WithLogger(ctx, log))
	defer stop()

	defer flushTelemetry(ctx, providers)

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		log.Debug("command failed", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err) //nolint:errcheck

		return 1
	}

	return 0
}

// startTelemetry sets up the exporters configured by the OTEL_* variables.
func startTelemetry(ctx context.Context) (*telemetry.Providers, error) {
	config, err := telemetry.LoadConfigFromEnv(ctx)
	if err != nil {
		return nil, err
	}

	return telemetry.Initialize(ctx, config)
}

func flushTelemetry(ctx context.Context, providers *telemetry.Providers) {
	flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), flushTimeout)
	defer cancel()

	if err := providers.Shutdown(flushCtx); err != nil {
		logger.Get(ctx).Warn("failed to flush telemetry", "error", err)
	}
}
