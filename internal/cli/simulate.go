package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"qrtx/internal/circuit"
	"qrtx/internal/config"
	"qrtx/internal/wire"
)

// ErrSimulationFailed is returned when the backend reports an unsuccessful run.
var ErrSimulationFailed = errors.New("simulation failed")

type simulateOutput struct {
	Request  wire.CircuitRequest    `json:"request"`
	Result   *wire.SimulationResult `json:"result"`
	Analysis *wire.CircuitAnalysis  `json:"analysis,omitempty"`
	SavedAs  string                 `json:"saved_as,omitempty"`
}

// NewSimulateCommand creates the simulate command.
func NewSimulateCommand() *cobra.Command {
	var (
		analyze bool
		save    bool
		label   string
	)

	cmd := &cobra.Command{
		Use:   "simulate <layout.yaml>",
		Short: "Simulate a circuit layout",
		Long: `Build a circuit from a layout file and submit it to the simulation backend.

The circuit analysis is requested alongside the simulation unless --analyze=false.
With --save the circuit and its result are stored in the run history.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := GetConfig(ctx)
			logger := GetLogger(ctx)

			req, err := loadRequest(args[0], cfg)
			if err != nil {
				return err
			}

			out := simulateOutput{Request: req}
			client := newClient(ctx)

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				out.Result = client.Simulate(gctx, req)
				if !out.Result.Success {
					return fmt.Errorf("%w: %s", ErrSimulationFailed, out.Result.ErrorMessage)
				}
				return nil
			})
			if analyze {
				g.Go(func() error {
					a, err := client.Analyze(gctx, req)
					if err != nil {
						// Analysis is informational; a failed run is reported by the simulate side.
						logger.Warn("analysis unavailable", slog.Any("error", err))
						return nil
					}
					out.Analysis = a
					return nil
				})
			}
			runErr := g.Wait()

			if save {
				id, err := saveRun(ctx, label, req, out.Result)
				if err != nil {
					return err
				}
				out.SavedAs = id
			}

			w := cmd.OutOrStdout()
			if cfg.Output == config.OutputJSON {
				if err := renderJSON(w, out); err != nil {
					return err
				}
				return runErr
			}
			renderResult(w, out.Result)
			if out.Analysis != nil {
				_, _ = fmt.Fprintln(w)
				renderAnalysis(w, out.Analysis)
			}
			if out.SavedAs != "" {
				_, _ = fmt.Fprintf(w, "\nSaved as %s\n", out.SavedAs)
			}
			return runErr
		},
	}

	cmd.Flags().BoolVar(&analyze, "analyze", true, "Also request the circuit analysis")
	cmd.Flags().BoolVar(&save, "save", false, "Store the run in the history database")
	cmd.Flags().StringVar(&label, "label", "", "Label for the saved run")
	return cmd
}

func saveRun(ctx context.Context, label string, req wire.CircuitRequest, res *wire.SimulationResult) (string, error) {
	cfg := GetConfig(ctx)
	angle, err := cfg.Preview.Angle()
	if err != nil {
		return "", err
	}

	store, err := openHistory(ctx)
	if err != nil {
		return "", err
	}
	defer func() { _ = store.Close() }()

	rec, err := store.Save(ctx, label, req, res, circuit.ToQASM(req, angle))
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}
