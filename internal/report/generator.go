// Package report renders field coverage summaries.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"fjacquet/wire-csv/internal/logging"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"
)

// Report formats.
const (
	FormatTable = "table"
	FormatYAML  = "yaml"
	FormatJSON  = "json"
)

// SupportedFormats lists the accepted report formats.
var SupportedFormats = []string{FormatTable, FormatYAML, FormatJSON}

// Generator renders coverage reports in various formats.
type Generator struct {
	logger logging.Logger
}

// NewGenerator creates a new instance of Generator.
func NewGenerator(logger logging.Logger) *Generator {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Generator{
		logger: logger.WithField("component", "ReportGenerator"),
	}
}

// Generate renders c in the given format.
func (g *Generator) Generate(c *Coverage, format string) ([]byte, error) {
	var buf bytes.Buffer
	if err := g.Write(&buf, c, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write renders c to w in the given format.
func (g *Generator) Write(w io.Writer, c *Coverage, format string) error {
	if c == nil {
		return fmt.Errorf("cannot render nil coverage")
	}

	switch format {
	case FormatTable:
		g.writeTable(w, c)
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			g.logger.WithError(err).Error("Failed to marshal YAML report")
			return fmt.Errorf("failed to marshal YAML report: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		data, err := json.MarshalIndent(c, "", "  ")
		if err != nil {
			g.logger.WithError(err).Error("Failed to marshal JSON report")
			return fmt.Errorf("failed to marshal JSON report: %w", err)
		}
		_, err = w.Write(append(data, '\n'))
		return err
	default:
		return fmt.Errorf("unsupported report format: %s", format)
	}
}

func (g *Generator) writeTable(w io.Writer, c *Coverage) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Field", "Present", "Empty", "Absent", "Coverage"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, f := range c.Fields {
		table.Append([]string{
			f.Field,
			strconv.Itoa(f.Present),
			strconv.Itoa(f.Empty),
			strconv.Itoa(f.Absent),
			fmt.Sprintf("%.1f%%", f.Percent()),
		})
	}
	table.SetFooter([]string{
		"Rows " + strconv.Itoa(c.Rows),
		"Invalid " + strconv.Itoa(c.Invalid),
		"Issues " + strconv.Itoa(c.Issues),
		"No date " + strconv.Itoa(c.DatesAbsent),
		"No amount " + strconv.Itoa(c.AmountsAbsent),
	})
	table.Render()
}
