// Package decompose prints the fields found in wire transfer descriptions
package decompose

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"fjacquet/wire-csv/cmd/root"
	"fjacquet/wire-csv/internal/report"
	"fjacquet/wire-csv/internal/validation"
	"fjacquet/wire-csv/pkg/decomposer"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	format    string
	showState bool
)

// Cmd represents the decompose command
var Cmd = &cobra.Command{
	Use:   "decompose [description...]",
	Short: "Decompose wire transfer descriptions",
	Long: `Decompose one or more wire transfer descriptions and print the extracted fields.

Descriptions are taken from the arguments, or read one per line from standard
input when no argument is given.

Example:
  wire-csv decompose "B/O: John Smith, VIA: Bank Of X/BNF=Jane Doe/REF: invoice-9"
  cut -d, -f5 statement.csv | wire-csv decompose --format json`,
	RunE: decomposeFunc,
}

func init() {
	Cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format (table, yaml, json)")
	Cmd.Flags().BoolVar(&showState, "show-state", false, "Show whether each field is present, empty or absent")
}

// fieldOutput is one rendered field.
type fieldOutput struct {
	Field string `json:"field" yaml:"field"`
	Value string `json:"value" yaml:"value"`
	State string `json:"state,omitempty" yaml:"state,omitempty"`
}

// descriptionOutput is one rendered description.
type descriptionOutput struct {
	Description string        `json:"description" yaml:"description"`
	Fields      []fieldOutput `json:"fields" yaml:"fields"`
}

func decomposeFunc(cmd *cobra.Command, args []string) error {
	d := decomposer.Default()
	if c := root.GetContainer(); c != nil {
		d = c.GetDecomposer()
	}

	descriptions := args
	if len(descriptions) == 0 {
		var err error
		descriptions, err = readLines(cmd.InOrStdin())
		if err != nil {
			return err
		}
	}

	return render(cmd.OutOrStdout(), d, descriptions, format, showState)
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read descriptions: %w", err)
	}
	return lines, nil
}

func decomposeAll(d *decomposer.Decomposer, descriptions []string, withState bool) []descriptionOutput {
	out := make([]descriptionOutput, 0, len(descriptions))
	for _, description := range descriptions {
		fields := d.DecomposeText(description)
		item := descriptionOutput{Description: description}
		for _, name := range fields.Names() {
			value := fields.Value(name)
			f := fieldOutput{Field: string(name), Value: value.String()}
			if withState {
				f.State = value.State.String()
			}
			item.Fields = append(item.Fields, f)
		}
		out = append(out, item)
	}
	return out
}

func render(w io.Writer, d *decomposer.Decomposer, descriptions []string, format string, withState bool) error {
	if err := validation.IsValidFormat(format, report.SupportedFormats); err != nil {
		return err
	}
	results := decomposeAll(d, descriptions, withState)

	switch format {
	case report.FormatTable:
		for i, result := range results {
			if i > 0 {
				if _, err := fmt.Fprintln(w); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintln(w, result.Description); err != nil {
				return err
			}
			header := []string{"Field", "Value"}
			if withState {
				header = append(header, "State")
			}
			table := tablewriter.NewWriter(w)
			table.SetHeader(header)
			table.SetAlignment(tablewriter.ALIGN_LEFT)
			for _, f := range result.Fields {
				row := []string{f.Field, f.Value}
				if withState {
					row = append(row, f.State)
				}
				table.Append(row)
			}
			table.Render()
		}
		return nil
	case report.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(results); err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		return enc.Close()
	case report.FormatJSON:
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		_, err = w.Write(append(data, '\n'))
		return err
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}
