package cmd

import (
	"fmt"
	"os"

	"table-reconciler/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "table-reconciler",
	Short: "Two-level keyed table reconciliation engine",
	Long: `Table Reconciler computes minimal, order-correct edit scripts between
two-level table states (sections containing rows), matched by identity
keys rather than position. Run it as an HTTP service or diff state
files directly from the command line.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Report through the standard logger in console format; debug
		// level selects the development config with readable timestamps.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			// Absolute fallback if logger creation fails (rare)
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
