package cli

import (
	"context"
	"strings"

	"github.com/alexanderramin/bizdesk/internal/cli/formatter"
	"github.com/alexanderramin/bizdesk/internal/domain"
	"github.com/alexanderramin/bizdesk/internal/manager"
	"github.com/alexanderramin/bizdesk/internal/repository"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// auditLoadedMsg signals that audit entries have been loaded.
type auditLoadedMsg struct {
	entries []domain.AuditEntry
	err     error
}

// auditView shows the most recent changes in a scrollable viewport.
type auditView struct {
	state   *SharedState
	vp      viewport.Model
	entries []domain.AuditEntry
	loading bool
	err     error
}

func newAuditView(state *SharedState) *auditView {
	vp := viewport.New(max(state.Width, 20), state.ContentHeight()-1)
	vp.KeyMap = auditViewportKeyMap()
	return &auditView{state: state, vp: vp, loading: true}
}

// auditViewportKeyMap leaves letter keys free for the global shortcuts.
func auditViewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		Up:           key.NewBinding(key.WithKeys("up")),
		Down:         key.NewBinding(key.WithKeys("down")),
	}
}

func (v *auditView) ID() ViewID    { return ViewAudit }
func (v *auditView) Title() string { return "Audit log" }

func (v *auditView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑↓", "scroll")),
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	}
}

func (v *auditView) Init() tea.Cmd {
	return v.load()
}

func (v *auditView) load() tea.Cmd {
	v.loading = true
	console := v.state.App.Console
	return func() tea.Msg {
		entries, err := console.AuditLog(context.Background(), "", repository.DefaultAuditLimit)
		return auditLoadedMsg{entries: entries, err: err}
	}
}

func (v *auditView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case auditLoadedMsg:
		v.loading = false
		v.entries, v.err = msg.entries, msg.err
		v.vp.SetContent(v.content())
		v.vp.GotoTop()
		return v, nil

	case refreshViewMsg:
		return v, v.load()

	case tea.WindowSizeMsg:
		v.vp.Width = msg.Width
		v.vp.Height = v.state.ContentHeight() - 1
		return v, nil

	case tea.KeyMsg:
		if msg.String() == "r" {
			return v, v.load()
		}
	}

	var cmd tea.Cmd
	v.vp, cmd = v.vp.Update(msg)
	return v, cmd
}

func (v *auditView) content() string {
	if v.err != nil {
		return "  " + formatter.StyleRed.Render("Could not load the audit log: "+manager.UserMessage(v.err))
	}
	if len(v.entries) == 0 {
		return "  " + formatter.Dim("No changes recorded.")
	}
	var b strings.Builder
	for _, line := range strings.Split(strings.TrimRight(formatAudit(v.entries), "\n"), "\n") {
		b.WriteString("  " + line + "\n")
	}
	return b.String()
}

func (v *auditView) View() string {
	if v.loading {
		return "\n  " + formatter.Dim("Loading audit log...")
	}
	return "\n" + v.vp.View()
}
