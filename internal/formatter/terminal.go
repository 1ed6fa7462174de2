package formatter

import (
	"fmt"
	"strings"

	"github.com/yildizm/SigSum/internal/emoji"
	"github.com/yildizm/go-termfmt"
)

// terminalFormatter formats output as plain text for terminal display using go-termfmt
type terminalFormatter struct {
	opts *termfmt.TerminalOptions
}

// NewTerminal creates a new terminal formatter with optional color and emoji support
func NewTerminal(color, emoji bool) Formatter {
	opts := termfmt.DefaultOptions()
	opts.Color = color
	opts.Emoji = emoji
	return &terminalFormatter{opts: opts}
}

func (f *terminalFormatter) Format(report *Report) ([]byte, error) {
	var b strings.Builder

	f.writeHeader(&b)
	f.writeStatistics(&b, report)
	f.writeTrend(&b, report)

	return []byte(b.String()), nil
}

// writeHeader writes the boxed title
func (f *terminalFormatter) writeHeader(b *strings.Builder) {
	header := "Signal Analysis Summary"
	headerLen := len(header)

	b.WriteString("╔" + strings.Repeat("═", headerLen+2) + "╗\n")
	b.WriteString("║ " + header + " ║\n")
	b.WriteString("╚" + strings.Repeat("═", headerLen+2) + "╝\n\n")
}

// writeStatistics writes the analysis as a tree
func (f *terminalFormatter) writeStatistics(b *strings.Builder, report *Report) {
	symbol := termfmt.GetEmoji("statistics", f.opts)
	b.WriteString(symbol + " Statistics\n")

	a := report.Analysis
	items := []termfmt.TreeItem{
		{Label: "Points", Value: fmt.Sprintf("%d", len(report.Signal))},
		{Label: "Average", Value: fmt.Sprintf("%.2f", a.Average)},
		{Label: "Minimum", Value: fmt.Sprintf("%d", a.Minimum)},
		{Label: "Maximum", Value: fmt.Sprintf("%d", a.Maximum)},
		{Label: "Trend", Value: f.trendLabel(report)},
	}
	if report.Source != "" {
		items = append(items, termfmt.TreeItem{Label: "Source", Value: report.Source})
	}
	items[len(items)-1].Last = true

	tree := termfmt.TreeViewWithOptions(items, f.opts)
	b.WriteString(tree + "\n\n")
}

// writeTrend writes the trend reading and where the average sits in the range
func (f *terminalFormatter) writeTrend(b *strings.Builder, report *Report) {
	symbol := termfmt.GetEmoji("insight", f.opts)
	b.WriteString(symbol + " Reading\n")
	b.WriteString("• " + describeTrend(report.Analysis.Trend) + "\n")

	if pos, ok := averagePosition(report.Analysis); ok {
		bar := termfmt.CreateConfidenceBar(pos, f.opts)
		fmt.Fprintf(b, "• Average sits at %.0f%% of the range %s\n", pos*100, bar)
	}
	if len(report.Signal) > 0 {
		b.WriteString("• Signal: " + previewSignal(report.Signal) + "\n")
	}
}

func (f *terminalFormatter) trendLabel(report *Report) string {
	trend := report.Analysis.Trend.String()
	if !f.opts.Emoji {
		return trend
	}
	return emoji.ForTrend(report.Analysis.Trend) + " " + trend
}
