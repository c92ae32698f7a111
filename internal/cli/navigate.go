package cli

import tea "github.com/charmbracelet/bubbletea"

// Navigation messages used by views to request view transitions.
// The appModel handles these in its Update method.

// pushViewMsg pushes a new view onto the navigation stack.
type pushViewMsg struct {
	view View
}

// replaceViewMsg replaces the current top view with a new one.
type replaceViewMsg struct {
	view View
}

// flashMsg sets the one-line message shown under the header until the next
// key press.
type flashMsg struct {
	text string
	err  bool
}

// formDoneMsg is sent when a form completes or is cancelled. The appModel
// pops the form, shows flash and asks the views below to redraw.
type formDoneMsg struct {
	flash flashMsg
}

// refreshViewMsg is broadcast to every view on the stack after a change.
type refreshViewMsg struct{}

// pushView returns a tea.Cmd that pushes a view onto the stack.
func pushView(v View) tea.Cmd {
	return func() tea.Msg { return pushViewMsg{view: v} }
}

func flashError(text string) tea.Cmd {
	return func() tea.Msg { return flashMsg{text: text, err: true} }
}

func formDone(text string, err bool) tea.Cmd {
	return func() tea.Msg { return formDoneMsg{flash: flashMsg{text: text, err: err}} }
}
