// Command txdemo drives the transaction manager end to end against an
// in-memory sqlite database, so the retry state machine can be exercised
// outside of a test binary.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AEATech/transaction-manager-core/cmd/txdemo/internal/demo"
)

func main() {
	root := &cobra.Command{
		Use:   "txdemo",
		Short: "Run sample transactions through the transaction manager",
	}
	root.SilenceUsage = true
	root.SilenceErrors = true

	root.AddCommand(demo.NewRunCommand())
	root.AddCommand(demo.NewFlakyCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
