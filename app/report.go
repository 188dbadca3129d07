package app

import (
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/hanckmann/webcamrec/domain/session"
)

// SessionTable renders recorded sessions for the sessions command.
func SessionTable(infos []session.Info, now time.Time) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Session", "Started", "Frames", "Size", "Span"})

	var frames int
	var bytes int64
	for _, info := range infos {
		span := "-"
		if info.Frames > 1 {
			span = info.LastFrame.Sub(info.FirstFrame).Round(time.Millisecond).String()
		}
		tw.AppendRow(table.Row{
			info.Name,
			humanize.RelTime(info.StartedAt, now, "ago", "from now"),
			humanize.Comma(int64(info.Frames)),
			humanize.IBytes(uint64(info.Bytes)),
			span,
		})
		frames += info.Frames
		bytes += info.Bytes
	}
	tw.AppendFooter(table.Row{
		strconv.Itoa(len(infos)) + " sessions", "", humanize.Comma(int64(frames)), humanize.IBytes(uint64(bytes)), "",
	})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight, AlignFooter: text.AlignRight},
		{Number: 4, Align: text.AlignRight, AlignFooter: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	return tw.Render()
}
