package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/goliatone/go-storecfg/config"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

const outputTable = "table"

// writeSummary prints a Describe summary in the requested format.
func writeSummary(w io.Writer, format string, summary map[string]any) error {
	if format == outputTable {
		renderTable(w, summary)
		return nil
	}

	b, err := config.ConfigFileType(format).Marshal(summary)
	if err != nil {
		return err
	}
	if _, err := w.Write(b); err != nil {
		return err
	}
	if len(b) > 0 && b[len(b)-1] != '\n' {
		_, err = io.WriteString(w, "\n")
	}
	return err
}

func renderTable(w io.Writer, summary map[string]any) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{
		text.FgHiCyan.Sprint("KEY"),
		text.FgHiCyan.Sprint("VALUE"),
	})

	for _, row := range flatten("", summary) {
		t.AppendRow(table.Row{row[0], row[1]})
	}

	t.Render()
}

// flatten turns nested maps into dotted key rows, sorted by key.
func flatten(prefix string, m map[string]any) [][2]string {
	var rows [][2]string
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := v.(map[string]any); ok && len(nested) > 0 {
			rows = append(rows, flatten(key, nested)...)
			continue
		}
		rows = append(rows, [2]string{key, formatValue(v)})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i][0] < rows[j][0] })
	return rows
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "-"
	case []string:
		if len(val) == 0 {
			return "-"
		}
		return strings.Join(val, ", ")
	case map[string]any:
		return "{}"
	}
	s := fmt.Sprintf("%v", v)
	if len(s) > 100 {
		s = s[:97] + "..."
	}
	return s
}
