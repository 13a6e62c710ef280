package main

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/nijaru/ytsum/models"
	"github.com/nijaru/ytsum/storage"
)

const timeLayout = "2006-01-02 15:04"

func newTableWriter() table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Header = text.FormatDefault
	return tw
}

func renderHistory(requests []*models.Request) string {
	tw := newTableWriter()
	tw.AppendHeader(table.Row{"ID", "Chat", "Status", "Video", "Created"})
	for _, req := range requests {
		tw.AppendRow(table.Row{
			shortID(req.ID),
			req.ChatID,
			string(req.Status),
			req.VideoURL,
			req.CreatedAt.Local().Format(timeLayout),
		})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

// renderRequest prints one journaled request as a field table followed by
// its summary and translation.
func renderRequest(req *models.Request) string {
	tw := newTableWriter()
	tw.AppendRows([]table.Row{
		{"ID", req.ID},
		{"Chat", req.ChatID},
		{"Status", string(req.Status)},
		{"Video", req.VideoURL},
		{"Created", req.CreatedAt.Local().Format(timeLayout)},
		{"Updated", req.UpdatedAt.Local().Format(timeLayout)},
	})
	if req.Error != "" {
		tw.AppendRow(table.Row{"Error", req.Error})
	}
	return withTexts(tw.Render(), req.Summary, req.Translation)
}

func renderArchived(a *storage.Archived) string {
	tw := newTableWriter()
	tw.AppendRows([]table.Row{
		{"ID", a.ID},
		{"Status", string(a.Status)},
		{"Video", a.VideoURL},
		{"Archived", a.Timestamp.Local().Format(timeLayout)},
	})
	return withTexts(tw.Render(), a.Summary, a.Translation)
}

func withTexts(head string, texts ...string) string {
	var b strings.Builder
	b.WriteString(head)
	for _, t := range texts {
		if t == "" {
			continue
		}
		b.WriteString("\n\n")
		b.WriteString(t)
	}
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
