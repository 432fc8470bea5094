package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"qrtx/internal/config"
)

// NewHistoryCommand creates the history command and its subcommands.
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse saved runs",
		Long:  `List and inspect circuits saved from the editor or with simulate --save.`,
	}
	cmd.AddCommand(newHistoryListCommand())
	cmd.AddCommand(newHistoryShowCommand())
	return cmd
}

func newHistoryListCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := openHistory(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			recs, err := store.List(ctx, limit)
			if err != nil {
				return err
			}
			if GetConfig(ctx).Output == config.OutputJSON {
				return renderJSON(cmd.OutOrStdout(), recs)
			}
			renderHistory(cmd.OutOrStdout(), recs)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list (0 for all)")
	return cmd
}

func newHistoryShowCommand() *cobra.Command {
	var qasm bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one saved run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := openHistory(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			rec, err := store.Get(ctx, args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			switch {
			case qasm:
				_, err = fmt.Fprint(w, rec.QASM)
				return err
			case GetConfig(ctx).Output == config.OutputJSON:
				return renderJSON(w, rec)
			}
			renderRecord(w, rec)
			return nil
		},
	}

	cmd.Flags().BoolVar(&qasm, "qasm", false, "Print the saved OpenQASM export")
	return cmd
}
