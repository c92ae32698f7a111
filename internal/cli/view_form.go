package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/bizdesk/internal/cli/formatter"
	"github.com/alexanderramin/bizdesk/internal/manager"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// formView edits the open draft of a manager with a huh.Form built from the
// entity's fields. A failed submit rebuilds the form with the same draft and
// the error shown above it.
type formView[T any, D any] struct {
	state      *SharedState
	mgr        *manager.Manager[T, D]
	draft      *D
	form       *huh.Form
	titleStr   string
	errText    string
	submitting bool
}

// newFormView loads the reference pickers, so call it from a tea.Cmd.
func newFormView[T any, D any](state *SharedState, mgr *manager.Manager[T, D], errText string) *formView[T, D] {
	spec := mgr.Spec()
	draft := mgr.Draft()
	v := &formView[T, D]{
		state:   state,
		mgr:     mgr,
		draft:   &draft,
		errText: errText,
	}

	if rec, ok := mgr.Editing(); ok {
		v.titleStr = fmt.Sprintf("Edit %s %s", spec.Noun, spec.Key(rec))
	} else {
		v.titleStr = "New " + spec.Noun
	}

	ctx := context.Background()
	fields := make([]huh.Field, 0, len(spec.Fields))
	for _, f := range spec.Fields {
		fields = append(fields, formField(ctx, f, v.draft, mgr.EditingID()))
	}
	v.form = huh.NewForm(huh.NewGroup(fields...)).
		WithTheme(huhTheme()).
		WithShowHelp(false)
	return v
}

// formField maps one entity field to a huh input or select bound to draft.
func formField[D any](ctx context.Context, f manager.Field[D], draft *D, editingID string) huh.Field {
	title := f.Title
	if f.Required {
		title += " *"
	}
	value := f.Bind(draft)

	switch f.Kind {
	case manager.KindEnum:
		return huh.NewSelect[string]().
			Key(f.Key).
			Title(title).
			Options(huh.NewOptions(f.Options...)...).
			Value(value)

	case manager.KindRef:
		var choices []manager.Choice
		if f.Choices != nil {
			choices = f.Choices(ctx, editingID)
		}
		return huh.NewSelect[string]().
			Key(f.Key).
			Title(title).
			Options(refOptions(choices, *value, f.Required)...).
			Value(value)

	default:
		return huh.NewInput().
			Key(f.Key).
			Title(title).
			Placeholder(f.Placeholder).
			Value(value)
	}
}

// refOptions lists the picker choices. An optional reference gets a leading
// "(none)" entry, and a current value that is no longer selectable stays
// available so opening an edit form does not silently change it.
func refOptions(choices []manager.Choice, current string, required bool) []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(choices)+2)
	if !required {
		opts = append(opts, huh.NewOption("(none)", ""))
	}
	found := current == ""
	for _, c := range choices {
		opts = append(opts, huh.NewOption(c.Label, c.Value))
		if c.Value == current {
			found = true
		}
	}
	if !found {
		opts = append(opts, huh.NewOption("(current, not selectable)", current))
	}
	if len(opts) == 0 {
		opts = append(opts, huh.NewOption("(no records available)", ""))
	}
	return opts
}

func (v *formView[T, D]) Init() tea.Cmd {
	return v.form.Init()
}

func (v *formView[T, D]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if v.submitting {
		return v, nil
	}

	// Escape cancels the form.
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		_ = v.mgr.Cancel()
		return v, formDone("Cancelled.", false)
	}

	form, cmd := v.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		v.form = f
	}

	if v.form.State == huh.StateCompleted {
		v.submitting = true
		if err := v.mgr.SetDraft(*v.draft); err != nil {
			return v, formDone(manager.UserMessage(err), true)
		}
		return v, tea.Batch(cmd, v.submit())
	}

	return v, cmd
}

func (v *formView[T, D]) submit() tea.Cmd {
	state, mgr := v.state, v.mgr
	return func() tea.Msg {
		res := mgr.Submit(context.Background())
		if res.OK() {
			return formDoneMsg{flash: flashMsg{text: res.Message}}
		}
		if !mgr.State().FormOpen() {
			return formDoneMsg{flash: flashMsg{text: res.Message, err: true}}
		}
		return replaceViewMsg{view: newFormView(state, mgr, res.Message)}
	}
}

func (v *formView[T, D]) View() string {
	var s string
	if v.errText != "" {
		s += "\n" + lipgloss.NewStyle().PaddingLeft(2).Render(formatter.Failure(v.errText)) + "\n"
	}
	if v.submitting {
		return s + "\n  " + formatter.Dim("Saving...")
	}
	return s + "\n" + v.form.View()
}

func (v *formView[T, D]) ID() ViewID    { return ViewForm }
func (v *formView[T, D]) Title() string { return v.titleStr }
func (v *formView[T, D]) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next")),
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}
