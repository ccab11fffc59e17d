package service

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/contractsize/domain"
	"github.com/ludo-technologies/contractsize/internal/version"
)

// OutputFormatterImpl implements domain.ReportFormatter
type OutputFormatterImpl struct {
	colorize bool
	now      func() time.Time
}

// NewOutputFormatter creates a formatter that writes plain, uncolored text
func NewOutputFormatter() *OutputFormatterImpl {
	return &OutputFormatterImpl{now: time.Now}
}

// NewOutputFormatterWithColor creates a formatter that colors table rows by tier
// when colorize is set
func NewOutputFormatterWithColor(colorize bool) *OutputFormatterImpl {
	return &OutputFormatterImpl{colorize: colorize, now: time.Now}
}

// WriteJSON writes data as JSON to the writer
func WriteJSON(writer io.Writer, data interface{}) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// WriteYAML writes data as YAML to the writer
func WriteYAML(writer io.Writer, data interface{}) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return err
	}
	return encoder.Close()
}

// ContractJSON is one contract in machine-readable output
type ContractJSON struct {
	Name  string      `json:"name" yaml:"name"`
	Bytes int64       `json:"bytes" yaml:"bytes"`
	Size  string      `json:"size" yaml:"size"`
	Tier  domain.Tier `json:"tier" yaml:"tier"`

	// DeltaBytes is present only when history knows the previous size
	DeltaBytes *int64 `json:"delta_bytes,omitempty" yaml:"delta_bytes,omitempty"`
}

// TotalJSON is the aggregate row in machine-readable output
type TotalJSON struct {
	Bytes      int64  `json:"bytes" yaml:"bytes"`
	Size       string `json:"size" yaml:"size"`
	DeltaBytes *int64 `json:"delta_bytes,omitempty" yaml:"delta_bytes,omitempty"`
}

// ReportJSON wraps a Report with output metadata
type ReportJSON struct {
	Version     string                 `json:"version" yaml:"version"`
	GeneratedAt string                 `json:"generated_at" yaml:"generated_at"`
	Unit        string                 `json:"unit" yaml:"unit"`
	Sort        domain.SortSpec        `json:"sort" yaml:"sort"`
	Threshold   domain.ThresholdConfig `json:"threshold" yaml:"threshold"`
	Contracts   []ContractJSON         `json:"contracts" yaml:"contracts"`
	Total       TotalJSON              `json:"total" yaml:"total"`
	Violations  []domain.Violation     `json:"violations" yaml:"violations"`
}

// Write writes the report in the specified format
func (f *OutputFormatterImpl) Write(report *domain.Report, format domain.OutputFormat, writer io.Writer) error {
	if report == nil {
		return domain.NewOutputError("no report to write", nil)
	}

	var err error
	switch format {
	case domain.OutputFormatText, "":
		err = f.writeText(report, writer)
	case domain.OutputFormatJSON:
		err = WriteJSON(writer, f.toJSON(report))
	case domain.OutputFormatYAML:
		err = WriteYAML(writer, f.toJSON(report))
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
	if err != nil {
		return domain.NewOutputError("failed to write report", err)
	}
	return nil
}

func (f *OutputFormatterImpl) toJSON(report *domain.Report) ReportJSON {
	contracts := make([]ContractJSON, 0, len(report.Rows))
	for _, row := range report.Rows {
		contracts = append(contracts, ContractJSON{
			Name:       row.DisplayName,
			Bytes:      row.Size.Bytes(),
			Size:       row.Formatted(),
			Tier:       row.Tier,
			DeltaBytes: row.Delta,
		})
	}

	violations := report.Violations
	if violations == nil {
		violations = []domain.Violation{}
	}

	return ReportJSON{
		Version:     version.Version,
		GeneratedAt: f.now().Format(time.RFC3339),
		Unit:        report.Unit.String(),
		Sort:        report.Sort,
		Threshold:   report.Threshold,
		Contracts:   contracts,
		Total: TotalJSON{
			Bytes:      report.Total.Size.Bytes(),
			Size:       report.Total.Formatted(),
			DeltaBytes: report.Total.Delta,
		},
		Violations: violations,
	}
}

// sizeHeader names the size column after the display unit
func sizeHeader(unit domain.SizeUnit) string {
	if unit == domain.SizeUnitBytes {
		return "Size (Bytes)"
	}
	return "Size (KiB)"
}

func (f *OutputFormatterImpl) tierColor(tier domain.Tier) *color.Color {
	var c *color.Color
	switch tier {
	case domain.TierOk:
		c = color.New(color.FgGreen)
	case domain.TierWarning:
		c = color.New(color.FgYellow)
	case domain.TierOver:
		c = color.New(color.FgRed)
	default:
		c = color.New(color.Reset)
	}
	f.applyColorMode(c)
	return c
}

func (f *OutputFormatterImpl) applyColorMode(c *color.Color) {
	if f.colorize {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
}

// writeText draws the report as a bordered table. Cells are padded before
// they are colored so escape codes never shift the columns.
func (f *OutputFormatterImpl) writeText(report *domain.Report, writer io.Writer) error {
	headers := []string{"Contract", sizeHeader(report.Unit)}
	if report.HasHistory {
		headers = append(headers, "Change")
	}

	rows := report.AllRows()
	cells := make([][]string, 0, len(rows))
	for _, row := range rows {
		line := []string{row.DisplayName, row.Formatted()}
		if report.HasHistory {
			line = append(line, row.FormattedDelta())
		}
		cells = append(cells, line)
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len([]rune(h))
	}
	for _, line := range cells {
		for i, cell := range line {
			if n := len([]rune(cell)); n > widths[i] {
				widths[i] = n
			}
		}
	}

	border := tableBorder(widths)
	bold := color.New(color.Bold)
	f.applyColorMode(bold)

	var sb strings.Builder
	sb.WriteString(border)
	sb.WriteString(tableLine(widths, padCells(headers, widths), bold))
	sb.WriteString(border)
	for i, row := range rows {
		padded := padCells(cells[i], widths)
		if row.IsTotal {
			sb.WriteString(border)
			sb.WriteString(tableLine(widths, padded, bold))
			continue
		}
		sb.WriteString(tableLine(widths, padded, f.tierColor(row.Tier)))
	}
	sb.WriteString(border)

	_, err := io.WriteString(writer, sb.String())
	return err
}

// padCells left-aligns the name column and right-aligns the numeric ones
func padCells(cells []string, widths []int) []string {
	out := make([]string, len(cells))
	for i, cell := range cells {
		if i == 0 {
			out[i] = fmt.Sprintf("%-*s", widths[i], cell)
		} else {
			out[i] = fmt.Sprintf("%*s", widths[i], cell)
		}
	}
	return out
}

func tableBorder(widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		parts[i] = strings.Repeat("-", w+2)
	}
	return "+" + strings.Join(parts, "+") + "+\n"
}

func tableLine(widths []int, cells []string, c *color.Color) string {
	parts := make([]string, len(widths))
	for i, cell := range cells {
		parts[i] = " " + c.Sprint(cell) + " "
	}
	return "|" + strings.Join(parts, "|") + "|\n"
}
