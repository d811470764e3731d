// Package batch handles batch processing of files
package batch

import (
	"context"
	"fmt"
	"io"

	"fjacquet/wire-csv/cmd/root"
	"fjacquet/wire-csv/internal/container"
	"fjacquet/wire-csv/internal/logging"

	"github.com/spf13/cobra"
)

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Batch process files from a directory",
	Long: `Batch process files from an input directory and output them to another directory.

The batch command converts every CSV statement directly inside the input directory.
Each file is validated and converted independently; a file that fails does not stop
the run. Results of a previous run in the same directory are skipped.

Example:
  wire-csv batch -i input_dir/ -o output_dir/`,
	RunE: batchFunc,
}

func init() {
	// Override the usage text for the input/output flags in batch context
	Cmd.SetUsageTemplate(`Usage:{{if .Runnable}}
  {{.UseLine}}{{end}}{{if .HasExample}}

Examples:
{{.Example}}{{end}}{{if .HasAvailableLocalFlags}}

Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}

Global Flags (for batch, -i/-o refer to directories):
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}
`)
}

func batchFunc(cmd *cobra.Command, args []string) error {
	appContainer := root.GetContainer()
	if appContainer == nil {
		return fmt.Errorf("container not initialized")
	}
	if root.SharedFlags.Input == "" {
		return fmt.Errorf("an input directory must be specified with --input")
	}

	return run(cmd.Context(), appContainer, root.SharedFlags.Input, root.SharedFlags.Output, cmd.OutOrStdout())
}

// run converts inputDir into outputDir and prints the merged coverage report.
// It fails when any file could not be converted.
func run(ctx context.Context, c *container.Container, inputDir, outputDir string, w io.Writer) error {
	logger := c.GetLogger()
	if outputDir == "" {
		outputDir = inputDir
	}
	if ctx == nil {
		ctx = context.Background()
	}

	logger.Info("Batch command called",
		logging.Field{Key: "input_dir", Value: inputDir},
		logging.Field{Key: "output_dir", Value: outputDir})

	summary, err := c.GetBatchRunner().Run(ctx, inputDir, outputDir)
	if err != nil && summary == nil {
		return err
	}

	if rerr := c.GetReportGenerator().Write(w, summary.Coverage, c.GetConfig().Report.Format); rerr != nil {
		return rerr
	}
	if err != nil {
		return err
	}

	for _, failure := range summary.Failures {
		logger.WithError(failure.Err).Warn("File was not converted", logging.Field{Key: logging.FieldFile, Value: failure.File})
	}
	if summary.Failed() > 0 {
		return fmt.Errorf("%d of %d files failed to convert", summary.Failed(), summary.Failed()+summary.Succeeded())
	}
	return nil
}
