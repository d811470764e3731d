// Package convert handles single statement file conversion
package convert

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"fjacquet/wire-csv/cmd/root"
	"fjacquet/wire-csv/internal/container"

	"github.com/spf13/cobra"
)

// Cmd represents the convert command
var Cmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a statement CSV file",
	Long: `Convert a bank statement CSV export into a CSV file with one column per
description field, then print a field coverage report.

The output file is written next to the input unless an output directory is
given, and is named after the input with the configured suffix.

Example:
  wire-csv convert -i statement.csv -o out/`,
	RunE: convertFunc,
}

func convertFunc(cmd *cobra.Command, args []string) error {
	appContainer := root.GetContainer()
	if appContainer == nil {
		return fmt.Errorf("container not initialized")
	}
	if root.SharedFlags.Input == "" {
		return fmt.Errorf("an input file must be specified with --input")
	}

	return run(cmd.Context(), appContainer, root.SharedFlags.Input, root.SharedFlags.Output, root.SharedFlags.Validate, cmd.OutOrStdout())
}

// run converts inputFile, or only checks its format when validateOnly is set.
func run(ctx context.Context, c *container.Container, inputFile, outputDir string, validateOnly bool, w io.Writer) error {
	logger := c.GetLogger()

	if validateOnly {
		logger.Info("Validating format...")
		valid, err := c.GetReader().ValidateFormat(inputFile)
		if err != nil {
			return fmt.Errorf("error validating file: %w", err)
		}
		if !valid {
			return fmt.Errorf("%s is not a valid statement file", inputFile)
		}
		logger.Info("Validation successful.")
		return nil
	}

	if outputDir == "" {
		outputDir = filepath.Dir(inputFile)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	result, err := c.GetConverter().ConvertFile(ctx, inputFile, outputDir)
	if err != nil {
		return err
	}

	return c.GetReportGenerator().Write(w, result.Coverage, c.GetConfig().Report.Format)
}
