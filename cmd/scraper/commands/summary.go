package commands

import (
	"fmt"
	"os"
	"sort"
	"time"

	"farescan-backend/services/collector"

	"github.com/jedib0t/go-pretty/v6/table"
)

func printSummary(summary collector.Summary, outputFile string) {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Route", "Records"})

	keys := make([]string, 0, len(summary.RouteRecords))
	for key := range summary.RouteRecords {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		t.AppendRow(table.Row{key, summary.RouteRecords[key]})
	}
	t.AppendFooter(table.Row{"Total", summary.TotalRecords})
	t.Render()

	fmt.Printf("scraped %d records from %d cells (%d failed) in %s, wrote %s\n",
		summary.TotalRecords, summary.TaskCount, summary.FailedCells,
		summary.Elapsed.Round(time.Millisecond), outputFile)
}
