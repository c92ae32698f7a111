package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/bizdesk/internal/cli/formatter"
	"github.com/alexanderramin/bizdesk/internal/manager"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// listLoadedMsg signals that a list view's manager finished loading.
// source identifies the manager that was loaded.
type listLoadedMsg struct {
	source any
	err    error
}

// listAction is an entity-specific key on a list view, run against the
// record under the cursor.
type listAction[T any] struct {
	binding key.Binding
	run     func(rec T) tea.Cmd
}

var (
	listKeyNew     = key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new"))
	listKeyEdit    = key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit"))
	listKeyDelete  = key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete"))
	listKeyFilter  = key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter"))
	listKeyStatus  = key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "status"))
	listKeyRefresh = key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh"))
)

// listView shows the filtered snapshot of one manager and drives its create,
// edit and delete actions.
type listView[T any, D any] struct {
	state   *SharedState
	mgr     *manager.Manager[T, D]
	title   string
	actions []listAction[T]

	cursor  int
	loading bool

	// Filtering
	filtering   bool
	filterInput textinput.Model

	// Delete confirmation
	confirming bool
	confirmRec T
}

func newListView[T any, D any](state *SharedState, mgr *manager.Manager[T, D], title string, actions ...listAction[T]) *listView[T, D] {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "type to filter"
	ti.CharLimit = 64

	return &listView[T, D]{
		state:       state,
		mgr:         mgr,
		title:       title,
		actions:     actions,
		loading:     true,
		filterInput: ti,
	}
}

func (v *listView[T, D]) ID() ViewID          { return ViewList }
func (v *listView[T, D]) Title() string       { return v.title }
func (v *listView[T, D]) CapturesInput() bool { return v.filtering || v.confirming }

func (v *listView[T, D]) ShortHelp() []key.Binding {
	if v.filtering {
		return []key.Binding{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear")),
		}
	}
	if v.confirming {
		return []key.Binding{
			key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "delete")),
			key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "keep")),
		}
	}
	bindings := []key.Binding{listKeyNew, listKeyEdit, listKeyDelete, listKeyFilter}
	if v.mgr.Spec().Status != nil {
		bindings = append(bindings, listKeyStatus)
	}
	for _, a := range v.actions {
		bindings = append(bindings, a.binding)
	}
	return append(bindings, listKeyRefresh)
}

func (v *listView[T, D]) Init() tea.Cmd {
	return v.load()
}

func (v *listView[T, D]) load() tea.Cmd {
	v.loading = true
	mgr := v.mgr
	return func() tea.Msg {
		err := mgr.Load(context.Background())
		return listLoadedMsg{source: mgr, err: err}
	}
}

func (v *listView[T, D]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case listLoadedMsg:
		if msg.source == any(v.mgr) {
			v.loading = false
			v.clampCursor()
		}
		return v, nil

	case refreshViewMsg:
		v.clampCursor()
		return v, nil

	case tea.KeyMsg:
		switch {
		case v.filtering:
			return v.updateFilter(msg)
		case v.confirming:
			return v.updateConfirm(msg)
		}
		return v.updateNormal(msg)
	}

	if v.filtering {
		var cmd tea.Cmd
		v.filterInput, cmd = v.filterInput.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *listView[T, D]) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	visible := v.mgr.Visible()
	spec := v.mgr.Spec()

	switch {
	case msg.String() == "up" || msg.String() == "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case msg.String() == "down" || msg.String() == "j":
		if v.cursor < len(visible)-1 {
			v.cursor++
		}
	case key.Matches(msg, listKeyFilter):
		v.filtering = true
		v.filterInput.SetValue(v.mgr.Filter().Text)
		v.filterInput.CursorEnd()
		return v, v.filterInput.Focus()
	case key.Matches(msg, listKeyStatus) && spec.Status != nil:
		f := v.mgr.Filter()
		f.Status = nextStatus(spec.Statuses, f.Status)
		v.mgr.SetFilter(f)
		v.cursor = 0
	case key.Matches(msg, listKeyRefresh):
		return v, v.load()
	case key.Matches(msg, listKeyNew):
		if err := v.mgr.OpenCreate(); err != nil {
			return v, flashError(manager.UserMessage(err))
		}
		return v, v.openForm()
	case key.Matches(msg, listKeyEdit):
		if v.cursor >= len(visible) {
			return v, nil
		}
		if err := v.mgr.OpenEdit(spec.ID(visible[v.cursor])); err != nil {
			return v, flashError(manager.UserMessage(err))
		}
		return v, v.openForm()
	case key.Matches(msg, listKeyDelete):
		if v.cursor < len(visible) {
			v.confirming = true
			v.confirmRec = visible[v.cursor]
		}
	default:
		for _, a := range v.actions {
			if key.Matches(msg, a.binding) && v.cursor < len(visible) {
				return v, a.run(visible[v.cursor])
			}
		}
	}
	return v, nil
}

func (v *listView[T, D]) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		v.filtering = false
		v.filterInput.Blur()
		v.filterInput.SetValue("")
		v.applyFilterText("")
		return v, nil
	case tea.KeyEnter:
		v.filtering = false
		v.filterInput.Blur()
		return v, nil
	}

	var cmd tea.Cmd
	v.filterInput, cmd = v.filterInput.Update(msg)
	v.applyFilterText(v.filterInput.Value())
	return v, cmd
}

func (v *listView[T, D]) applyFilterText(text string) {
	f := v.mgr.Filter()
	f.Text = text
	v.mgr.SetFilter(f)
	v.cursor = 0
}

func (v *listView[T, D]) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v.confirming = false
	id := v.mgr.Spec().ID(v.confirmRec)
	approved := msg.String() == "y" || msg.String() == "Y"
	return v, v.deleteCmd(id, approved)
}

// deleteCmd runs the delete with the user's answer as the confirmation.
// A declined delete still goes through the manager so no mutation is issued.
func (v *listView[T, D]) deleteCmd(id string, approved bool) tea.Cmd {
	mgr := v.mgr
	return func() tea.Msg {
		res := mgr.Delete(context.Background(), id, func(T) bool { return approved })
		return flashMsg{text: res.Message, err: res.Outcome == manager.OutcomeFailed}
	}
}

// openForm builds the form view off the update loop since it loads the
// reference pickers.
func (v *listView[T, D]) openForm() tea.Cmd {
	state, mgr := v.state, v.mgr
	return func() tea.Msg {
		return pushViewMsg{view: newFormView(state, mgr, "")}
	}
}

func (v *listView[T, D]) clampCursor() {
	n := len(v.mgr.Visible())
	if v.cursor >= n {
		v.cursor = max(n-1, 0)
	}
}

func (v *listView[T, D]) View() string {
	spec := v.mgr.Spec()
	var b strings.Builder
	b.WriteString("\n")

	f := v.mgr.Filter()
	switch {
	case v.filtering:
		b.WriteString("  " + formatter.StyleYellow.Render("/") + " " + v.filterInput.View() + "\n")
	case f.Text != "":
		b.WriteString("  " + formatter.Dim("filter: ") + f.Text + "\n")
	}
	if spec.Status != nil {
		status := f.Status
		if status == "" {
			status = manager.StatusAll
		}
		b.WriteString("  " + formatter.Dim("status: ") + status + "\n")
	}

	if v.loading {
		b.WriteString("\n  " + formatter.Dim(fmt.Sprintf("Loading %s...", plural(spec.Noun))) + "\n")
		return b.String()
	}
	if err := v.mgr.LoadErr(); err != nil {
		b.WriteString("\n  " + formatter.StyleRed.Render(fmt.Sprintf("Could not load %s: %s", plural(spec.Noun), manager.UserMessage(err))) + "\n")
	}

	visible := v.mgr.Visible()
	if len(visible) == 0 {
		b.WriteString("\n  " + formatter.Dim(fmt.Sprintf("No %s found.", plural(spec.Noun))) + "\n")
		return b.String()
	}

	b.WriteString("\n")
	b.WriteString(v.renderRows(visible))

	switch v.mgr.State() {
	case manager.StateDeleting:
		b.WriteString("\n  " + formatter.Dim("Deleting...") + "\n")
	case manager.StateSubmitting:
		b.WriteString("\n  " + formatter.Dim("Saving...") + "\n")
	}

	if v.confirming {
		b.WriteString("\n  " + formatter.StyleYellow.Render(fmt.Sprintf("Delete %s %s (%s)? [y/N]",
			spec.Noun, spec.Key(v.confirmRec), spec.Label(v.confirmRec))) + "\n")
	}

	b.WriteString("\n  " + formatter.Dim(fmt.Sprintf("%d of %d", len(visible), len(v.mgr.Records()))) + "\n")
	return b.String()
}

// renderRows renders the table window that keeps the cursor visible.
func (v *listView[T, D]) renderRows(visible []T) string {
	spec := v.mgr.Spec()

	window := v.state.ContentHeight() - 10
	if window < 3 {
		window = 3
	}
	start := 0
	if v.cursor >= window {
		start = v.cursor - window + 1
	}
	end := min(start+window, len(visible))

	headers := []string{""}
	widths := []int{0}
	for _, c := range spec.Columns {
		headers = append(headers, c.Title)
		widths = append(widths, c.Width)
	}
	rows := make([][]string, 0, end-start)
	for i := start; i < end; i++ {
		r := visible[i]
		marker := " "
		if i == v.cursor {
			marker = formatter.StyleGreen.Render("▸")
		}
		row := []string{marker}
		for _, c := range spec.Columns {
			row = append(row, c.Value(r))
		}
		rows = append(rows, row)
	}

	table := formatter.RenderTable(headers, rows, widths...)
	var b strings.Builder
	for _, line := range strings.Split(strings.TrimRight(table, "\n"), "\n") {
		b.WriteString("  " + line + "\n")
	}
	return b.String()
}

// nextStatus cycles all -> first status -> ... -> last status -> all.
func nextStatus(statuses []string, current string) string {
	if current == "" || current == manager.StatusAll {
		if len(statuses) == 0 {
			return manager.StatusAll
		}
		return statuses[0]
	}
	for i, s := range statuses {
		if s == current && i+1 < len(statuses) {
			return statuses[i+1]
		}
	}
	return manager.StatusAll
}
