package main

import (
	"encoding/json"
	"io"
	"maps"
	"os"
	"slices"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"curator/internal/category"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

// renderTable lays rows out under headers. Missing cells render empty.
func renderTable(title string, headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	if title != "" {
		tw.SetTitle(title)
	}

	header := make(table.Row, columns)
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)
	return tw.Render()
}

// countRows turns ordered keys and a count map into table rows, skipping zeros
// unless keepZero is set.
func countRows(keys []string, counts map[string]int, keepZero bool) [][]string {
	rows := make([][]string, 0, len(keys))
	for _, key := range keys {
		n := counts[key]
		if n == 0 && !keepZero {
			continue
		}
		rows = append(rows, []string{key, strconv.Itoa(n)})
	}
	return rows
}

func sortedKeys(m map[string]int) []string {
	return slices.Sorted(maps.Keys(m))
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func gateColors(status category.GateStatus) text.Colors {
	switch status {
	case category.StatusPass:
		return text.Colors{text.FgGreen}
	case category.StatusFail:
		return text.Colors{text.FgRed}
	case category.StatusUntestable:
		return text.Colors{text.FgYellow}
	default:
		return text.Colors{text.Faint}
	}
}

func renderGate(status category.GateStatus, colorize bool) string {
	label := string(status)
	if label == "" {
		label = "-"
	}
	if colorize {
		return gateColors(status).Sprint(label)
	}
	return label
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
