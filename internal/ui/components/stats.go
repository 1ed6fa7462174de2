package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/yildizm/SigSum/internal/emoji"
	"github.com/yildizm/SigSum/internal/signal"
)

// Card statuses
const (
	StatusInfo    = "info"
	StatusSuccess = "success"
	StatusWarning = "warning"
	StatusError   = "error"
)

// StatsCard represents a statistics card component
type StatsCard struct {
	Title       string
	Value       string
	Description string
	Status      string
	Icon        string
	Width       int
	Height      int
}

// NewStatsCard creates a new stats card
func NewStatsCard(title, value, description string) *StatsCard {
	return &StatsCard{
		Title:       title,
		Value:       value,
		Description: description,
		Status:      StatusInfo,
		Width:       DefaultCardWidth,
		Height:      4,
	}
}

// SetStatus sets the status color of the card
func (s *StatsCard) SetStatus(status string) *StatsCard {
	s.Status = status
	return s
}

// SetIcon sets the icon for the card
func (s *StatsCard) SetIcon(icon string) *StatsCard {
	s.Icon = icon
	return s
}

// SetSize sets the size of the card
func (s *StatsCard) SetSize(width, height int) *StatsCard {
	s.Width = width
	s.Height = height
	return s
}

// Render renders the stats card
func (s *StatsCard) Render() string {
	successColor := lipgloss.AdaptiveColor{Light: "#10B981", Dark: "#34D399"}
	warningColor := lipgloss.AdaptiveColor{Light: "#F59E0B", Dark: "#FBBF24"}
	errorColor := lipgloss.AdaptiveColor{Light: "#EF4444", Dark: "#F87171"}
	infoColor := lipgloss.AdaptiveColor{Light: "#3B82F6", Dark: "#60A5FA"}
	bodyColor := lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}

	var valueStyle lipgloss.Style
	switch s.Status {
	case StatusSuccess:
		valueStyle = lipgloss.NewStyle().Foreground(successColor)
	case StatusWarning:
		valueStyle = lipgloss.NewStyle().Foreground(warningColor)
	case StatusError:
		valueStyle = lipgloss.NewStyle().Foreground(errorColor)
	case StatusInfo:
		valueStyle = lipgloss.NewStyle().Foreground(infoColor)
	default:
		valueStyle = lipgloss.NewStyle().Foreground(bodyColor)
	}

	titleStyle := lipgloss.NewStyle().Foreground(infoColor).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(bodyColor)
	boxStyle := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(bodyColor).Padding(0, 1)

	title := titleStyle.Render(s.Title)
	if s.Icon != "" {
		title = s.Icon + " " + title
	}

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		title,
		valueStyle.Bold(true).Render(s.Value),
		mutedStyle.Render(s.Description),
	)

	return boxStyle.
		Width(s.Width).
		Height(s.Height).
		Align(lipgloss.Center).
		Render(content)
}

// DefaultCardWidth is the inner width of a result card
const DefaultCardWidth = 18

// StatsDashboard lays cards out in rows
type StatsDashboard struct {
	cards      []*StatsCard
	columns    int
	cardWidth  int
	cardHeight int
}

// NewStatsDashboard creates a new stats dashboard
func NewStatsDashboard(columns int) *StatsDashboard {
	return &StatsDashboard{
		columns:    max(columns, 1),
		cardWidth:  DefaultCardWidth,
		cardHeight: 4,
	}
}

// AddCard adds a stats card to the dashboard
func (d *StatsDashboard) AddCard(card *StatsCard) {
	card.SetSize(d.cardWidth, d.cardHeight)
	d.cards = append(d.cards, card)
}

// Cards returns the dashboard's cards
func (d *StatsDashboard) Cards() []*StatsCard {
	return d.cards
}

// SetColumns sets how many cards share a row
func (d *StatsDashboard) SetColumns(columns int) {
	d.columns = max(columns, 1)
}

// Columns returns how many cards share a row
func (d *StatsDashboard) Columns() int {
	return d.columns
}

// FitWidth picks the column count that fits a terminal width, from four
// columns down to one
func (d *StatsDashboard) FitWidth(width int) {
	// border + padding on each side
	outer := d.cardWidth + 4
	for _, cols := range []int{4, 2, 1} {
		if cols*outer <= width || cols == 1 {
			d.SetColumns(cols)
			return
		}
	}
}

// Render renders the stats dashboard
func (d *StatsDashboard) Render() string {
	if len(d.cards) == 0 {
		return ""
	}

	var rows []string
	for i := 0; i < len(d.cards); i += d.columns {
		end := min(i+d.columns, len(d.cards))

		rowCards := make([]string, 0, end-i)
		for j := i; j < end; j++ {
			rowCards = append(rowCards, d.cards[j].Render())
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, rowCards...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// CreateAnalysisStats builds the average, minimum, maximum and trend cards
func CreateAnalysisStats(analysis *signal.Analysis, points int) *StatsDashboard {
	dashboard := NewStatsDashboard(4)

	dashboard.AddCard(NewStatsCard(
		"Average",
		fmt.Sprintf("%.2f", analysis.Average),
		fmt.Sprintf("over %d points", points),
	).SetIcon(emoji.GetEmoji("average")).SetStatus(StatusInfo))

	dashboard.AddCard(NewStatsCard(
		"Minimum",
		fmt.Sprintf("%d", analysis.Minimum),
		"lowest value",
	).SetIcon(emoji.GetEmoji("minimum")).SetStatus(StatusInfo))

	dashboard.AddCard(NewStatsCard(
		"Maximum",
		fmt.Sprintf("%d", analysis.Maximum),
		"highest value",
	).SetIcon(emoji.GetEmoji("maximum")).SetStatus(StatusInfo))

	dashboard.AddCard(NewStatsCard(
		"Trend",
		analysis.Trend.String(),
		"first to last",
	).SetIcon(emoji.ForTrend(analysis.Trend)).SetStatus(trendStatus(analysis.Trend)))

	return dashboard
}

func trendStatus(t signal.Trend) string {
	switch t {
	case signal.TrendAscending:
		return StatusSuccess
	case signal.TrendDescending:
		return StatusError
	default:
		return StatusWarning
	}
}
