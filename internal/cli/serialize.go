package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"qrtx/internal/circuit"
)

// NewSerializeCommand creates the serialize command.
func NewSerializeCommand() *cobra.Command {
	var qasm bool

	cmd := &cobra.Command{
		Use:   "serialize <layout.yaml>",
		Short: "Print the request a layout would send",
		Long: `Build a circuit from a layout file and print the JSON body that would be
posted to /simulate-circuit, or an OpenQASM 2.0 export with --qasm.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := GetConfig(cmd.Context())
			req, err := loadRequest(args[0], cfg)
			if err != nil {
				return err
			}
			if !qasm {
				return renderJSON(cmd.OutOrStdout(), req)
			}
			angle, err := cfg.Preview.Angle()
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), circuit.ToQASM(req, angle))
			return err
		},
	}

	cmd.Flags().BoolVar(&qasm, "qasm", false, "Print OpenQASM 2.0 instead of JSON")
	return cmd
}
