package formatter

import (
	"fmt"
	"strings"
)

// markdownFormatter formats output as Markdown
type markdownFormatter struct{}

// NewMarkdown creates a new Markdown formatter
func NewMarkdown() Formatter {
	return &markdownFormatter{}
}

func (f *markdownFormatter) Format(report *Report) ([]byte, error) {
	var b strings.Builder

	b.WriteString("# Signal Analysis Report\n\n")
	if !report.GeneratedAt.IsZero() {
		fmt.Fprintf(&b, "Generated: %s\n\n", report.GeneratedAt.Format("2006-01-02 15:04:05"))
	}
	if report.Source != "" {
		fmt.Fprintf(&b, "Source: `%s`\n\n", report.Source)
	}

	f.writeSummaryTable(&b, report)
	f.writeTrendSection(&b, report)
	f.writeSignalSection(&b, report)

	return []byte(b.String()), nil
}

func (f *markdownFormatter) writeSummaryTable(b *strings.Builder, report *Report) {
	a := report.Analysis
	b.WriteString("## Summary\n\n")
	b.WriteString("| Metric | Value |\n")
	b.WriteString("|--------|-------|\n")
	fmt.Fprintf(b, "| Points | %d |\n", len(report.Signal))
	fmt.Fprintf(b, "| Average | %.2f |\n", a.Average)
	fmt.Fprintf(b, "| Minimum | %d |\n", a.Minimum)
	fmt.Fprintf(b, "| Maximum | %d |\n", a.Maximum)
	fmt.Fprintf(b, "| Trend | **%s** |\n\n", a.Trend)
}

func (f *markdownFormatter) writeTrendSection(b *strings.Builder, report *Report) {
	b.WriteString("## Trend\n\n")
	b.WriteString(describeTrend(report.Analysis.Trend) + "\n")
	if pos, ok := averagePosition(report.Analysis); ok {
		fmt.Fprintf(b, "The average sits at %.0f%% of the range between minimum and maximum.\n", pos*100)
	}
	b.WriteString("\n")
}

func (f *markdownFormatter) writeSignalSection(b *strings.Builder, report *Report) {
	if len(report.Signal) == 0 {
		return
	}
	b.WriteString("## Signal\n\n")
	b.WriteString("```\n" + previewSignal(report.Signal) + "\n```\n")
}
