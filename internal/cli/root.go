// Package cli provides the command-line interface for qrtx.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"qrtx/internal/config"
	"qrtx/internal/history"
	"qrtx/internal/preview"
	"qrtx/internal/simulator"
	"qrtx/internal/tui"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

// configKey is used to store config in context.
type configKey struct{}

// loggerKey is used to store the logger in context.
type loggerKey struct{}

// NewRootCmd creates and returns the root command. Without a subcommand it opens
// the circuit editor.
func NewRootCmd() *cobra.Command {
	var (
		cfgFile string
		logFile io.Closer
	)

	rootCmd := &cobra.Command{
		Use:   "qrtx",
		Short: "Q-RTX - quantum circuit composer",
		Long: `Q-RTX composes quantum circuits on a grid of qubits and columns and sends
them to a statevector simulation backend.

Run without arguments to open the interactive editor. The subcommands work on
layout files for scripting and CI.`,
		Version: Version,
		Args:    cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}

			// The editor owns the terminal, so it only logs to a file.
			var sink io.Writer = cmd.ErrOrStderr()
			if cmd == cmd.Root() {
				sink = io.Discard
				if cfg.Log.File != "" {
					f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
					if err != nil {
						return fmt.Errorf("failed to open log file: %w", err)
					}
					sink, logFile = f, f
				}
			}
			logger, err := newLogger(sink, cfg.Log)
			if err != nil {
				return err
			}
			if cfg.FileUsed != "" {
				logger.Debug("using config file", slog.String("path", cfg.FileUsed))
			}

			ctx := context.WithValue(cmd.Context(), configKey{}, cfg)
			ctx = context.WithValue(ctx, loggerKey{}, logger)
			cmd.SetContext(ctx)
			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if logFile != nil {
				return logFile.Close()
			}
			return nil
		},
		RunE: runEditor,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	// Global persistent flags
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: ./qrtx.yaml)")
	pf.String("base-url", "", "Simulation backend URL (default http://localhost:8000)")
	pf.Duration("timeout", 0, "Per-request timeout for the backend (0 waits forever)")
	pf.Int("qubits", 0, "Initial number of qubits (1-25)")
	pf.Bool("lenient", false, "Send CNOT targets whose control was removed")
	pf.String("history", "", "Path to the run history database")
	pf.String("log-level", "", "Log level (debug|info|warn|error)")
	pf.String("log-file", "", "File the editor writes logs to")
	pf.StringP("output", "o", "", "Output format (table|json)")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{config.OutputTable, config.OutputJSON}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(NewVersionCommand(Version))
	rootCmd.AddCommand(NewSimulateCommand())
	rootCmd.AddCommand(NewSerializeCommand())
	rootCmd.AddCommand(NewHistoryCommand())
	rootCmd.AddCommand(NewHealthCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// GetConfig retrieves the config from the command context.
func GetConfig(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return c
	}
	return config.Default()
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.DiscardHandler)
}

func newLogger(w io.Writer, lc config.LogConfig) (*slog.Logger, error) {
	lvl, err := lc.SlogLevel()
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

func newClient(ctx context.Context) *simulator.Client {
	cfg := GetConfig(ctx)
	return simulator.New(cfg.Simulator.BaseURL, cfg.Simulator.Timeout, GetLogger(ctx))
}

func openHistory(ctx context.Context) (*history.Store, error) {
	return history.Open(GetConfig(ctx).History.Path, GetLogger(ctx))
}

func runEditor(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg := GetConfig(ctx)
	logger := GetLogger(ctx)

	angle, err := cfg.Preview.Angle()
	if err != nil {
		return err
	}

	// The editor still works without history; ctrl+s then only writes the QASM export.
	var saver tui.Saver
	store, err := openHistory(ctx)
	if err != nil {
		logger.Warn("history unavailable", slog.Any("error", err))
	} else {
		defer func() { _ = store.Close() }()
		saver = store
	}

	logger.Info("starting editor",
		slog.String("backend", cfg.Simulator.BaseURL),
		slog.Int("qubits", cfg.Circuit.DefaultQubits),
	)
	return tui.Run(ctx, tui.Options{
		Qubits:     cfg.Circuit.DefaultQubits,
		Serialize:  serializeOptions(cfg),
		Simulator:  newClient(ctx),
		History:    saver,
		Preview:    preview.Previewer{MaxQubits: cfg.Preview.MaxQubits, Angle: angle},
		ExportPath: tui.DefaultExportPath,
		Logger:     logger,
	})
}
