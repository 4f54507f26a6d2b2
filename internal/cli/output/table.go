package output

import (
	"io"

	"github.com/olekukonko/tablewriter"
)

// TableRenderer is implemented by results that can print as a table.
type TableRenderer interface {
	Headers() []string
	Rows() [][]string
}

// PrintTable writes data as a borderless, left-aligned table.
func PrintTable(w io.Writer, data TableRenderer) error {
	table := newTable(w)
	if h := data.Headers(); len(h) > 0 {
		table.SetHeader(h)
	}
	table.AppendBulk(data.Rows())
	table.Render()
	return nil
}

func newTable(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)
	return table
}

// Table is an ad-hoc TableRenderer. It marshals to a list of objects keyed
// by header.
type Table struct {
	headers []string
	rows    [][]string
}

// NewTable returns an empty Table with the given headers.
func NewTable(headers ...string) *Table {
	return &Table{headers: headers}
}

// AddRow appends a row.
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *Table) Headers() []string { return t.headers }
func (t *Table) Rows() [][]string  { return t.rows }

// Len is the number of rows.
func (t *Table) Len() int { return len(t.rows) }

func (t *Table) records() []*Fields {
	out := make([]*Fields, 0, len(t.rows))
	for _, row := range t.rows {
		f := NewFields()
		for i, h := range t.headers {
			if i < len(row) {
				f.Add(h, row[i])
			}
		}
		out = append(out, f)
	}
	return out
}

// MarshalJSON renders the rows as objects.
func (t *Table) MarshalJSON() ([]byte, error) {
	return marshalJSON(t.records())
}

// MarshalYAML renders the rows as mappings.
func (t *Table) MarshalYAML() (any, error) {
	return t.records(), nil
}
