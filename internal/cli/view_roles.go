package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/bizdesk/internal/domain"
	"github.com/alexanderramin/bizdesk/internal/manager"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// rolesView edits the full role set of one user with a multi-select.
type rolesView struct {
	state      *SharedState
	user       domain.User
	selected   *[]string
	form       *huh.Form
	submitting bool
}

func newRolesView(state *SharedState, user domain.User, choices []manager.Choice, assigned []domain.UserRole) *rolesView {
	has := make(map[string]bool, len(assigned))
	selected := make([]string, 0, len(assigned))
	for _, ur := range assigned {
		has[ur.RoleID] = true
		selected = append(selected, ur.RoleID)
	}

	opts := make([]huh.Option[string], 0, len(choices))
	for _, c := range choices {
		opts = append(opts, huh.NewOption(c.Label, c.Value).Selected(has[c.Value]))
	}

	v := &rolesView{state: state, user: user, selected: &selected}
	v.form = huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Roles of " + user.Email).
				Description("space toggles, enter saves").
				Options(opts...).
				Value(v.selected),
		),
	).WithTheme(huhTheme()).WithShowHelp(false)
	return v
}

// openRolesCmd loads the user's roles and the role picker, then pushes the
// roles view.
func openRolesCmd(state *SharedState) func(domain.User) tea.Cmd {
	return func(u domain.User) tea.Cmd {
		return func() tea.Msg {
			ctx := context.Background()
			console := state.App.Console
			assigned, err := console.UserRoles(ctx, u.ID)
			if err != nil {
				return flashMsg{text: manager.UserMessage(err), err: true}
			}
			choices := console.RoleChoices(ctx)
			if len(choices) == 0 {
				return flashMsg{text: "No roles to assign; create a role first", err: true}
			}
			return pushViewMsg{view: newRolesView(state, u, choices, assigned)}
		}
	}
}

func (v *rolesView) Init() tea.Cmd {
	return v.form.Init()
}

func (v *rolesView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if v.submitting {
		return v, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return v, formDone("Cancelled.", false)
	}

	form, cmd := v.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		v.form = f
	}

	if v.form.State == huh.StateCompleted {
		v.submitting = true
		return v, tea.Batch(cmd, v.save())
	}
	return v, cmd
}

func (v *rolesView) save() tea.Cmd {
	console := v.state.App.Console
	userID, email := v.user.ID, v.user.Email
	roleIDs := append([]string(nil), *v.selected...)
	return func() tea.Msg {
		if err := console.SetUserRoles(context.Background(), userID, roleIDs); err != nil {
			return formDoneMsg{flash: flashMsg{text: "Could not update roles: " + manager.UserMessage(err), err: true}}
		}
		return formDoneMsg{flash: flashMsg{text: fmt.Sprintf("Updated roles of %s", email)}}
	}
}

func (v *rolesView) View() string {
	return "\n" + v.form.View()
}

func (v *rolesView) ID() ViewID    { return ViewRoles }
func (v *rolesView) Title() string { return "Roles" }
func (v *rolesView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("space"), key.WithHelp("space", "toggle")),
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}
