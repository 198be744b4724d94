package main

import (
	"io"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"courier/internal/classify"
)

func renderTable(out io.Writer, headers []string, rows [][]string) string {
	tw := table.NewWriter()
	if isTerminal(out) {
		tw.SetStyle(table.StyleRounded)
	} else {
		tw.SetStyle(table.StyleDefault)
	}

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, len(row))
		for i, cell := range row {
			r[i] = cell
		}
		tw.AppendRow(r)
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

func renderPlanTable(out io.Writer, selected, skipped []classify.Plan) string {
	rows := make([][]string, 0, len(selected)+len(skipped))
	for i, plan := range selected {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			plan.Item.Title,
			string(plan.Kind),
			plan.Peer.String(),
			plan.Filename,
		})
	}
	for _, plan := range skipped {
		rows = append(rows, []string{
			"-",
			plan.Item.Title,
			"skipped (unsupported source)",
			"",
			"",
		})
	}
	return renderTable(out, []string{"#", "Title", "Kind", "Destination", "File"}, rows)
}

func isTerminal(out io.Writer) bool {
	file, ok := out.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
