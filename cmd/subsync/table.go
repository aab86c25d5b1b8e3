package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// messageWidth caps columns that carry error text so one long failure does
// not stretch the whole table.
const messageWidth = 60

// column describes one table column. A zero maxWidth leaves it unbounded.
type column struct {
	title    string
	numeric  bool
	maxWidth int
}

func textColumns(titles ...string) []column {
	cols := make([]column, len(titles))
	for i, title := range titles {
		cols[i] = column{title: title}
	}
	return cols
}

// renderTable pads short rows and right-aligns numeric columns.
func renderTable(cols []column, rows [][]string) string {
	if len(cols) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(cols))
	configs := make([]table.ColumnConfig, len(cols))
	for i, c := range cols {
		header[i] = c.title
		cfg := table.ColumnConfig{Number: i + 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft}
		if c.numeric {
			cfg.Align = text.AlignRight
		}
		if c.maxWidth > 0 {
			cfg.WidthMax = c.maxWidth
			cfg.WidthMaxEnforcer = text.WrapSoft
		}
		configs[i] = cfg
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, row := range rows {
		r := make(table.Row, len(cols))
		for i := range r {
			r[i] = ""
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}
	return tw.Render()
}
