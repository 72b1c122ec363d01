// Package batch imports and exports journal entries as CSV
package batch

import (
	"fmt"
	"io"

	"fjacquet/mood-journal/cmd/root"
	"fjacquet/mood-journal/internal/fileutils"

	"github.com/spf13/cobra"
)

var (
	inputFile   string
	outputFile  string
	alias       string
	concurrency int
)

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Import or export journal entries as CSV",
	Long: `Import or export journal entries as CSV.

Import files need a header row with the columns alias, entry and anonymous.
Each row is classified and stored independently.

Example:
  mood-journal batch import -i entries.csv
  mood-journal batch export -o backup.csv --alias sam`,
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Classify and store entries from a CSV file",
	RunE:  importFunc,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write stored entries to a CSV file",
	RunE:  exportFunc,
}

func init() {
	importCmd.Flags().StringVarP(&inputFile, "input", "i", "", "Input CSV file")
	importCmd.Flags().IntVarP(&concurrency, "concurrency", "n", 0, "Concurrent classifications (overrides batch.concurrency)")
	_ = importCmd.MarkFlagRequired("input")

	exportCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output CSV file (default: standard output)")
	exportCmd.Flags().StringVarP(&alias, "alias", "a", "", "Only export entries for this alias")

	Cmd.AddCommand(importCmd, exportCmd)
}

func importFunc(cmd *cobra.Command, args []string) error {
	file, err := fileutils.OpenInput(inputFile)
	if err != nil {
		return err
	}
	defer func() {
		if err := file.Close(); err != nil {
			root.Log.WithError(err).Warn("Failed to close file")
		}
	}()

	c, err := root.NewContainer(cmd.Context())
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			root.Log.WithError(err).Warn("Failed to close container")
		}
	}()

	n := concurrency
	if n <= 0 {
		n = root.AppConfig.Batch.Concurrency
	}
	summary, err := c.GetBatch().Import(cmd.Context(), file, n)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Imported %d of %d rows (%d skipped, %d failed)\n",
		summary.Imported, summary.Total, summary.Skipped, summary.Failed)
	for _, f := range summary.Failures {
		fmt.Fprintf(out, "  line %d: %v\n", f.Line, f.Err)
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d rows failed to import", summary.Failed)
	}
	return nil
}

func exportFunc(cmd *cobra.Command, args []string) error {
	var w io.Writer = cmd.OutOrStdout()
	if outputFile != "" {
		file, err := fileutils.CreateOutput(outputFile)
		if err != nil {
			return err
		}
		defer func() {
			if err := file.Close(); err != nil {
				root.Log.WithError(err).Warn("Failed to close file")
			}
		}()
		w = file
	}

	c, err := root.NewContainer(cmd.Context())
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			root.Log.WithError(err).Warn("Failed to close container")
		}
	}()

	n, err := c.GetBatch().Export(cmd.Context(), w, alias)
	if err != nil {
		return err
	}
	if outputFile != "" {
		root.Log.WithField("file", outputFile).Infof("Exported %d entries", n)
	}
	return nil
}
