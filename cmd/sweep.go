// Sweep walks the local store, validates every PDF on a bounded worker pool,
// and deletes the files that fail the integrity check.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var flagSweepWorkers int

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Validate stored PDFs and delete the corrupt ones",
	Long: `Sweep recursively discovers PDF files in the output directory,
validates each one, and removes any file that cannot be opened or has
no pages. Valid files are left untouched.

Examples:
  sdspull sweep
  sdspull sweep --output-dir ./PDFs --sweep-workers 8`,
	Args: usageArgs(cobra.NoArgs),
	RunE: runSweep,
}

func init() {
	rootCmd.AddCommand(sweepCmd)

	sweepCmd.Flags().IntVar(&flagSweepWorkers, "sweep-workers", 0, "Concurrent validations (default: CPU count, minimum 4)")
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(cmd)
	if cmd.Flags().Changed("sweep-workers") {
		cfg.SweepWorkers = flagSweepWorkers
	}

	report, err := newPipeline(cfg).Sweep(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Scanned: %d\nValid: %d\nRemoved: %d\n",
		report.Scanned, report.Valid, report.Removed)
	if report.RemoveFailed > 0 {
		fmt.Fprintf(os.Stderr, "Could not remove %d invalid files\n", report.RemoveFailed)
	}
	return nil
}
