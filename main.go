// Command qrtx composes quantum circuits on a fixed grid and runs them on a
// remote statevector simulator.
package main

import (
	"os"

	"qrtx/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
