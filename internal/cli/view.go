package cli

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// ViewID identifies each type of view in the console.
type ViewID int

const (
	ViewDashboard ViewID = iota
	ViewList
	ViewForm
	ViewRoles
	ViewAudit
)

// View is the interface that all console views must implement.
// It extends tea.Model with navigation and help metadata.
type View interface {
	tea.Model
	ID() ViewID
	ShortHelp() []key.Binding // key hints shown in the bottom bar
	Title() string            // breadcrumb segment for this view
}

// inputCapturer is implemented by views that sometimes need every key,
// for example while a filter is being typed.
type inputCapturer interface {
	CapturesInput() bool
}

// viewCapturesInput returns true if the active view should receive all key
// events, bypassing global keybindings like q and esc.
func viewCapturesInput(v View) bool {
	if v == nil {
		return false
	}
	if v.ID() == ViewForm || v.ID() == ViewRoles {
		return true
	}
	if c, ok := v.(inputCapturer); ok {
		return c.CapturesInput()
	}
	return false
}
