package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/yildizm/SigSum/internal/lifecycle"
)

// analysisSettledMsg is sent when a submitted request settles or is
// superseded. The view reads the outcome from the controller.
type analysisSettledMsg struct{}

// settleCommand runs the deferred half of a submission off the UI loop
func settleCommand(settle func() lifecycle.State) tea.Cmd {
	return func() tea.Msg {
		settle()
		return analysisSettledMsg{}
	}
}
