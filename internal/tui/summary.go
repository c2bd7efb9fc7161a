package tui

import (
	"fmt"
	"strings"

	"imconv/internal/convert"
)

type SummaryRow struct {
	Label string
	Value string
}

// RenderTable draws rows as a two-column table.
func RenderTable(rows []SummaryRow, styles Styles) string {
	labelWidth := 0
	valueWidth := 0
	for _, row := range rows {
		labelWidth = max(labelWidth, len(row.Label))
		valueWidth = max(valueWidth, len(row.Value))
	}

	hline := styles.Dim.Render(strings.Repeat("-", labelWidth+valueWidth+3))
	lines := []string{hline}
	for _, row := range rows {
		label := padRight(row.Label, labelWidth)
		value := padRight(row.Value, valueWidth)
		lines = append(lines, fmt.Sprintf("%s | %s", styles.Label.Render(label), styles.Value.Render(value)))
	}
	lines = append(lines, hline)
	return strings.Join(lines, "\n")
}

// RenderSummary renders the end-of-batch report: a headline, the counts,
// and one "name: message" line per failed input.
func RenderSummary(s convert.Summary, styles Styles) string {
	headline := styles.Success.Render(fmt.Sprintf("%d converted", s.Succeeded)) +
		styles.Dim.Render(" · ")
	if s.Failed > 0 {
		headline += styles.Failure.Render(fmt.Sprintf("%d failed", s.Failed))
	} else {
		headline += styles.Dim.Render("0 failed")
	}

	rows := []SummaryRow{
		{Label: "Files", Value: fmt.Sprintf("%d", s.Total)},
		{Label: "Converted", Value: fmt.Sprintf("%d", s.Succeeded)},
		{Label: "Failed", Value: fmt.Sprintf("%d", s.Failed)},
	}
	lines := []string{headline, RenderTable(rows, styles)}

	for _, f := range s.Failures {
		lines = append(lines, fmt.Sprintf("  %s %s",
			styles.Failure.Render(f.Name+":"),
			styles.Label.Render(f.Message),
		))
	}
	return strings.Join(lines, "\n")
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
