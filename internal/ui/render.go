package ui

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Format selects how rows are written.
type Format string

const (
	FormatTable Format = "table"
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat validates an --output value. Empty means table.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatTable, nil
	case FormatTable, FormatCSV, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (use table, csv, json or yaml)", s)
	}
}

// Column is one named output column. Get derives the cell from a row.
// Extended columns are only shown with --extended or when named in --columns.
type Column[T any] struct {
	Name     string
	Extended bool
	Get      func(T) string
}

// TableOptions are the pass-through flags shared by every listing command.
type TableOptions struct {
	Columns    []string
	Sort       string
	Filter     string
	NoHeader   bool
	NoTruncate bool
	Extended   bool
	Output     Format
	// Width overrides the detected terminal width when positive.
	Width int
}

// AddTableFlags registers the table flags on fs.
func AddTableFlags(fs *pflag.FlagSet) {
	fs.String("columns", "", "Only show provided columns (comma-separated)")
	fs.String("sort", "", "Property to sort by (prepend '-' for descending)")
	fs.String("filter", "", "Filter rows by column value (e.g. --filter name=foo)")
	fs.Bool("no-header", false, "Hide table header")
	fs.Bool("no-truncate", false, "Do not truncate output to fit screen")
	fs.BoolP("extended", "x", false, "Show extra columns")
	fs.Bool("csv", false, "Output as CSV (shorthand for --output csv)")
	fs.String("output", "", "Output format: table, csv, json or yaml")
}

// TableOptionsFromFlags reads the flags registered by AddTableFlags.
// defaultOutput applies when neither --output nor --csv is given.
func TableOptionsFromFlags(fs *pflag.FlagSet, defaultOutput string) (TableOptions, error) {
	var opts TableOptions
	columns, _ := fs.GetString("columns")
	for _, c := range strings.Split(columns, ",") {
		if c = strings.TrimSpace(c); c != "" {
			opts.Columns = append(opts.Columns, c)
		}
	}
	opts.Sort, _ = fs.GetString("sort")
	opts.Filter, _ = fs.GetString("filter")
	opts.NoHeader, _ = fs.GetBool("no-header")
	opts.NoTruncate, _ = fs.GetBool("no-truncate")
	opts.Extended, _ = fs.GetBool("extended")

	output, _ := fs.GetString("output")
	asCSV, _ := fs.GetBool("csv")
	switch {
	case asCSV && output != "" && Format(output) != FormatCSV:
		return opts, fmt.Errorf("--csv conflicts with --output %s", output)
	case asCSV:
		output = string(FormatCSV)
	case output == "":
		output = defaultOutput
	}
	format, err := ParseFormat(output)
	if err != nil {
		return opts, err
	}
	opts.Output = format
	return opts, nil
}

// Render writes rows in the selected format.
func Render[T any](w io.Writer, rows []T, cols []Column[T], opts TableOptions) error {
	selected, err := selectColumns(cols, opts)
	if err != nil {
		return err
	}

	filterIdx, needle := -1, ""
	if opts.Filter != "" {
		name, value, ok := strings.Cut(opts.Filter, "=")
		if !ok {
			return fmt.Errorf("invalid --filter %q, use column=value", opts.Filter)
		}
		filterIdx = columnIndex(cols, name)
		if filterIdx < 0 {
			return fmt.Errorf("unknown filter column %q", name)
		}
		needle = strings.ToLower(value)
	}

	sortIdx, desc := -1, false
	if opts.Sort != "" {
		name := opts.Sort
		if strings.HasPrefix(name, "-") {
			desc = true
			name = name[1:]
		}
		sortIdx = columnIndex(cols, name)
		if sortIdx < 0 {
			return fmt.Errorf("unknown sort column %q", name)
		}
	}

	type record struct {
		cells   []string
		sortKey string
	}
	records := make([]record, 0, len(rows))
	for _, row := range rows {
		if filterIdx >= 0 && !strings.Contains(strings.ToLower(cols[filterIdx].Get(row)), needle) {
			continue
		}
		r := record{cells: make([]string, len(selected))}
		for i, c := range selected {
			r.cells[i] = c.Get(row)
		}
		if sortIdx >= 0 {
			r.sortKey = cols[sortIdx].Get(row)
		}
		records = append(records, r)
	}
	if sortIdx >= 0 {
		sort.SliceStable(records, func(i, j int) bool {
			if desc {
				return lessValue(records[j].sortKey, records[i].sortKey)
			}
			return lessValue(records[i].sortKey, records[j].sortKey)
		})
	}

	headers := make([]string, len(selected))
	for i, c := range selected {
		headers[i] = c.Name
	}
	cells := make([][]string, len(records))
	for i, r := range records {
		cells[i] = r.cells
	}

	switch opts.Output {
	case FormatCSV:
		return writeCSV(w, headers, cells, opts.NoHeader)
	case FormatJSON:
		return writeJSON(w, headers, cells)
	case FormatYAML:
		return writeYAML(w, headers, cells)
	default:
		return writeTable(w, headers, cells, opts)
	}
}

func selectColumns[T any](cols []Column[T], opts TableOptions) ([]Column[T], error) {
	if len(opts.Columns) == 0 {
		var out []Column[T]
		for _, c := range cols {
			if !c.Extended || opts.Extended {
				out = append(out, c)
			}
		}
		return out, nil
	}
	out := make([]Column[T], 0, len(opts.Columns))
	for _, name := range opts.Columns {
		i := columnIndex(cols, name)
		if i < 0 {
			return nil, fmt.Errorf("unknown column %q", name)
		}
		out = append(out, cols[i])
	}
	return out, nil
}

func columnIndex[T any](cols []Column[T], name string) int {
	for i, c := range cols {
		if strings.EqualFold(c.Name, strings.TrimSpace(name)) {
			return i
		}
	}
	return -1
}

// lessValue compares numerically when both values are numbers.
func lessValue(a, b string) bool {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		return fa < fb
	}
	return a < b
}

func writeCSV(w io.Writer, headers []string, rows [][]string, noHeader bool) error {
	cw := csv.NewWriter(w)
	if !noHeader {
		if err := cw.Write(headers); err != nil {
			return err
		}
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

func writeJSON(w io.Writer, headers []string, rows [][]string) error {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, row := range rows {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		for j, h := range headers {
			if j > 0 {
				buf.WriteByte(',')
			}
			key, _ := json.Marshal(h)
			val, _ := json.Marshal(row[j])
			buf.Write(key)
			buf.WriteByte(':')
			buf.Write(val)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return err
	}
	out.WriteByte('\n')
	_, err := out.WriteTo(w)
	return err
}

func writeYAML(w io.Writer, headers []string, rows [][]string) error {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, row := range rows {
		m := &yaml.Node{Kind: yaml.MappingNode}
		for j, h := range headers {
			m.Content = append(m.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: h},
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: row[j]},
			)
		}
		seq.Content = append(seq.Content, m)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(seq); err != nil {
		return err
	}
	return enc.Close()
}

func writeTable(w io.Writer, headers []string, rows [][]string, opts TableOptions) error {
	width := opts.Width
	if width <= 0 {
		width = NewDisplayContext(w).TermWidth
	}
	maxCell := 0
	if !opts.NoTruncate && len(headers) > 0 {
		const columnPadding = 2
		maxCell = (width - columnPadding*(len(headers)-1)) / len(headers)
		if maxCell < 8 {
			maxCell = 8
		}
	}

	body := make([][]string, len(rows))
	for i, row := range rows {
		body[i] = make([]string, len(row))
		for j, cell := range row {
			cell = strings.ReplaceAll(cell, "\n", " ")
			if maxCell > 0 {
				cell = TruncateWithEllipsis(cell, maxCell)
			}
			body[i][j] = cell
		}
	}

	tbl := table.New().
		Border(lipgloss.Border{Top: "─", Bottom: "─", Middle: "─"}).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderRow(false).
		BorderColumn(false).
		BorderHeader(!opts.NoHeader).
		BorderStyle(Muted).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle()
			if row == table.HeaderRow {
				style = Accent.Bold(true)
			}
			if col < len(headers)-1 {
				style = style.PaddingRight(2)
			}
			return style
		}).
		Rows(body...)
	if !opts.NoHeader {
		tbl = tbl.Headers(headers...)
	}

	_, err := fmt.Fprintln(w, tbl.Render())
	return err
}

// TruncateWithEllipsis truncates a string to maxLen runes, adding an ellipsis
// if needed. It tries to break at word boundaries.
func TruncateWithEllipsis(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}

	truncated := string(runes[:maxLen-3])
	lastSpace := strings.LastIndex(truncated, " ")
	if lastSpace > len(truncated)/2 {
		truncated = truncated[:lastSpace]
	}
	return truncated + "..."
}
