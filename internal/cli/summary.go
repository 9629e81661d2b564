package cli

import (
	"path/filepath"
	"strconv"

	"github.com/fmueller/srt2vtt/internal/batch"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

func renderSummary(summary batch.Summary) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "File", "Output", "Status"})

	for _, r := range summary.Results {
		output := "-"
		if r.Output != "" {
			output = filepath.Base(r.Output)
		}
		tw.AppendRow(table.Row{strconv.Itoa(r.Index), filepath.Base(r.Path), output, r.Message()})
	}

	tw.AppendFooter(table.Row{
		"",
		strconv.Itoa(len(summary.Results)) + " files",
		strconv.Itoa(summary.Done()) + " done",
		strconv.Itoa(summary.Failed()) + " failed, " + strconv.Itoa(summary.Cancelled()) + " cancelled",
	})

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft},
		{Number: 3, Align: text.AlignLeft},
		{Number: 4, Align: text.AlignLeft},
	})

	return tw.Render()
}
