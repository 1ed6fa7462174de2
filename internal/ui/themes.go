package ui

import (
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/yildizm/SigSum/internal/signal"
)

// Theme represents a color theme for the TUI
type Theme struct {
	Name string

	// Primary colors
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor

	// Semantic colors
	Success lipgloss.AdaptiveColor
	Warning lipgloss.AdaptiveColor
	Error   lipgloss.AdaptiveColor

	// UI colors
	Border lipgloss.AdaptiveColor
	Muted  lipgloss.AdaptiveColor

	// Trend colors
	Ascending  lipgloss.AdaptiveColor
	Descending lipgloss.AdaptiveColor
	Stable     lipgloss.AdaptiveColor
}

// buildTheme creates a theme with the given [light, dark] colors
func buildTheme(name string, primary, secondary, success, warning, errorColor, border, muted, ascending, descending, stable [2]string) Theme {
	return Theme{
		Name:       name,
		Primary:    lipgloss.AdaptiveColor{Light: primary[0], Dark: primary[1]},
		Secondary:  lipgloss.AdaptiveColor{Light: secondary[0], Dark: secondary[1]},
		Success:    lipgloss.AdaptiveColor{Light: success[0], Dark: success[1]},
		Warning:    lipgloss.AdaptiveColor{Light: warning[0], Dark: warning[1]},
		Error:      lipgloss.AdaptiveColor{Light: errorColor[0], Dark: errorColor[1]},
		Border:     lipgloss.AdaptiveColor{Light: border[0], Dark: border[1]},
		Muted:      lipgloss.AdaptiveColor{Light: muted[0], Dark: muted[1]},
		Ascending:  lipgloss.AdaptiveColor{Light: ascending[0], Dark: ascending[1]},
		Descending: lipgloss.AdaptiveColor{Light: descending[0], Dark: descending[1]},
		Stable:     lipgloss.AdaptiveColor{Light: stable[0], Dark: stable[1]},
	}
}

// Available themes
var (
	DefaultTheme = buildTheme("default",
		[2]string{"#1E40AF", "#3B82F6"}, [2]string{"#6B7280", "#9CA3AF"},
		[2]string{"#059669", "#10B981"}, [2]string{"#D97706", "#F59E0B"}, [2]string{"#DC2626", "#EF4444"},
		[2]string{"#D1D5DB", "#374151"}, [2]string{"#6B7280", "#9CA3AF"},
		[2]string{"#059669", "#34D399"}, [2]string{"#DC2626", "#F87171"}, [2]string{"#0891B2", "#06B6D4"})

	HighContrastTheme = buildTheme("high-contrast",
		[2]string{"#000000", "#FFFFFF"}, [2]string{"#666666", "#BBBBBB"},
		[2]string{"#006600", "#00FF00"}, [2]string{"#CC6600", "#FFAA00"}, [2]string{"#CC0000", "#FF4444"},
		[2]string{"#000000", "#FFFFFF"}, [2]string{"#666666", "#BBBBBB"},
		[2]string{"#006600", "#00FF00"}, [2]string{"#CC0000", "#FF4444"}, [2]string{"#0066CC", "#4499FF"})

	MinimalTheme = buildTheme("minimal",
		[2]string{"#2D3748", "#E2E8F0"}, [2]string{"#718096", "#A0AEC0"},
		[2]string{"#2F855A", "#68D391"}, [2]string{"#C05621", "#F6AD55"}, [2]string{"#C53030", "#FC8181"},
		[2]string{"#E2E8F0", "#2D3748"}, [2]string{"#A0AEC0", "#718096"},
		[2]string{"#2D3748", "#E2E8F0"}, [2]string{"#2D3748", "#E2E8F0"}, [2]string{"#718096", "#A0AEC0"})
)

var (
	themeMu      sync.RWMutex
	currentTheme = DefaultTheme
)

// GetTheme returns the current active theme
func GetTheme() Theme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return currentTheme
}

// SetTheme sets the active theme
func SetTheme(theme *Theme) {
	themeMu.Lock()
	defer themeMu.Unlock()
	currentTheme = *theme
}

// SetThemeByName sets the theme by name
func SetThemeByName(name string) bool {
	switch name {
	case "default":
		SetTheme(&DefaultTheme)
		return true
	case "high-contrast":
		SetTheme(&HighContrastTheme)
		return true
	case "minimal":
		SetTheme(&MinimalTheme)
		return true
	default:
		return false
	}
}

// IsColorDisabled checks if colors should be disabled
func IsColorDisabled() bool {
	return os.Getenv("NO_COLOR") != ""
}

// GetAvailableThemes returns list of available theme names
func GetAvailableThemes() []string {
	return []string{"default", "high-contrast", "minimal"}
}

// TrendColor returns the theme color for a trend
func (t *Theme) TrendColor(trend signal.Trend) lipgloss.AdaptiveColor {
	switch trend {
	case signal.TrendAscending:
		return t.Ascending
	case signal.TrendDescending:
		return t.Descending
	default:
		return t.Stable
	}
}

// Styles contains all the styled components
type Styles struct {
	Theme Theme

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Muted    lipgloss.Style

	Input        lipgloss.Style
	InputInvalid lipgloss.Style

	Valid   lipgloss.Style
	Invalid lipgloss.Style
	Error   lipgloss.Style
	Loading lipgloss.Style

	Help lipgloss.Style
}

// GetStyles builds styles from the current theme
func GetStyles() *Styles {
	theme := GetTheme()

	return &Styles{
		Theme: theme,

		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			Padding(0, 1),

		Subtitle: lipgloss.NewStyle().
			Foreground(theme.Secondary).
			Padding(0, 1),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Primary).
			Padding(0, 1),

		InputInvalid: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Error).
			Padding(0, 1),

		Valid: lipgloss.NewStyle().
			Foreground(theme.Success),

		Invalid: lipgloss.NewStyle().
			Foreground(theme.Warning),

		Error: lipgloss.NewStyle().
			Foreground(theme.Error).
			Bold(true).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(theme.Error).
			PaddingLeft(1),

		Loading: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		Help: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true),
	}
}
