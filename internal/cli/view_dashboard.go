package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/bizdesk/internal/cli/formatter"
	"github.com/alexanderramin/bizdesk/internal/domain"
	"github.com/alexanderramin/bizdesk/internal/service"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// dashboardEntry is one screen reachable from the dashboard.
type dashboardEntry struct {
	title string
	desc  string
	count func(ctx context.Context, c *service.Console) (int, error)
	open  func(state *SharedState) View
}

func dashboardEntries() []dashboardEntry {
	return []dashboardEntry{
		{
			title: "Clients",
			desc:  "customers projects are billed to",
			count: func(ctx context.Context, c *service.Console) (int, error) { return size(c.Clients.List(ctx)) },
			open:  func(s *SharedState) View {
				return newListView(s, s.App.Console.NewClientManager(), "Clients")
			},
		},
		{
			title: "Cost centers",
			desc:  "hierarchy that budgets roll up to",
			count: func(ctx context.Context, c *service.Console) (int, error) { return size(c.CostCenters.List(ctx)) },
			open:  func(s *SharedState) View {
				return newListView(s, s.App.Console.NewCostCenterManager(), "Cost centers")
			},
		},
		{
			title: "Projects",
			desc:  "client engagements and their budgets",
			count: func(ctx context.Context, c *service.Console) (int, error) { return size(c.Projects.List(ctx)) },
			open:  func(s *SharedState) View {
				return newListView(s, s.App.Console.NewProjectManager(), "Projects")
			},
		},
		{
			title: "Rates",
			desc:  "billing rates, global or per project",
			count: func(ctx context.Context, c *service.Console) (int, error) { return size(c.Rates.List(ctx)) },
			open:  func(s *SharedState) View {
				return newListView(s, s.App.Console.NewRateManager(), "Rates")
			},
		},
		{
			title: "Users",
			desc:  "people with access and their roles",
			count: func(ctx context.Context, c *service.Console) (int, error) { return size(c.Users.List(ctx)) },
			open:  func(s *SharedState) View {
				return newListView(s, s.App.Console.NewUserManager(), "Users", listAction[domain.User]{
					binding: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "roles")),
					run:     openRolesCmd(s),
				})
			},
		},
		{
			title: "Roles",
			desc:  "named permission sets",
			count: func(ctx context.Context, c *service.Console) (int, error) { return size(c.Roles.List(ctx)) },
			open:  func(s *SharedState) View {
				return newListView(s, s.App.Console.NewRoleManager(), "Roles")
			},
		},
		{
			title: "Audit log",
			desc:  "recent changes, newest first",
			open:  func(s *SharedState) View { return newAuditView(s) },
		},
	}
}

func size[T any](records []T, err error) (int, error) {
	return len(records), err
}

// dashboardLoadedMsg carries the record count per entry; -1 marks a failure.
type dashboardLoadedMsg struct {
	counts []int
}

// dashboardView is the home screen of the console.
type dashboardView struct {
	state   *SharedState
	entries []dashboardEntry
	counts  []int
	cursor  int
	loading bool
}

func newDashboardView(state *SharedState) *dashboardView {
	return &dashboardView{
		state:   state,
		entries: dashboardEntries(),
		loading: true,
	}
}

func (v *dashboardView) ID() ViewID    { return ViewDashboard }
func (v *dashboardView) Title() string { return "" }

func (v *dashboardView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		key.NewBinding(key.WithKeys("1"), key.WithHelp("1-7", "jump")),
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	}
}

func (v *dashboardView) Init() tea.Cmd {
	return v.loadCounts()
}

func (v *dashboardView) loadCounts() tea.Cmd {
	v.loading = true
	console := v.state.App.Console
	entries := v.entries
	return func() tea.Msg {
		ctx := context.Background()
		counts := make([]int, len(entries))
		for i, e := range entries {
			if e.count == nil {
				continue
			}
			n, err := e.count(ctx, console)
			if err != nil {
				n = -1
			}
			counts[i] = n
		}
		return dashboardLoadedMsg{counts: counts}
	}
}

func (v *dashboardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardLoadedMsg:
		v.loading = false
		v.counts = msg.counts
		return v, nil

	case refreshViewMsg:
		return v, v.loadCounts()

	case tea.KeyMsg:
		switch s := msg.String(); s {
		case "up", "k":
			if v.cursor > 0 {
				v.cursor--
			}
		case "down", "j":
			if v.cursor < len(v.entries)-1 {
				v.cursor++
			}
		case "enter":
			return v, pushView(v.entries[v.cursor].open(v.state))
		case "r":
			return v, v.loadCounts()
		default:
			if len(s) == 1 && s[0] >= '1' && int(s[0]-'1') < len(v.entries) {
				v.cursor = int(s[0] - '1')
				return v, pushView(v.entries[v.cursor].open(v.state))
			}
		}
	}
	return v, nil
}

func (v *dashboardView) View() string {
	var b strings.Builder
	b.WriteString("\n")

	for i, e := range v.entries {
		cursor := "  "
		nameStyle := formatter.StyleFg
		if i == v.cursor {
			cursor = formatter.StyleGreen.Render("▸ ")
			nameStyle = formatter.StyleBold
		}

		count := ""
		switch {
		case e.count == nil:
		case v.loading || i >= len(v.counts):
			count = formatter.Dim("…")
		case v.counts[i] < 0:
			count = formatter.StyleRed.Render("error")
		default:
			count = formatter.StyleBlue.Render(fmt.Sprintf("%d", v.counts[i]))
		}

		b.WriteString(fmt.Sprintf("%s%s %s  %s  %s\n",
			cursor,
			formatter.Dim(fmt.Sprintf("%d", i+1)),
			nameStyle.Render(formatter.PadRight(e.title, 14)),
			formatter.PadRight(count, 6),
			formatter.Dim(e.desc),
		))
	}

	return formatter.RenderBox("bizdesk", b.String())
}
