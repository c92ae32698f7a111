package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/alexanderramin/bizdesk/internal/cli/formatter"
	"github.com/alexanderramin/bizdesk/internal/manager"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// newEntityCmd builds the list/add/edit/remove command group for one entity.
// The add and edit flags are generated from the entity's form fields.
func newEntityCmd[T any, D any](app *App, use string, newMgr func() *manager.Manager[T, D]) *cobra.Command {
	spec := newMgr().Spec()

	cmd := &cobra.Command{
		Use:   use,
		Short: "Manage " + plural(spec.Noun),
	}

	cmd.AddCommand(
		newEntityListCmd(newMgr),
		newEntityAddCmd(newMgr),
		newEntityEditCmd(newMgr),
		newEntityRemoveCmd(app, newMgr),
	)

	return cmd
}

func newEntityListCmd[T any, D any](newMgr func() *manager.Manager[T, D]) *cobra.Command {
	var search, status string
	spec := newMgr().Spec()

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List " + plural(spec.Noun),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if status != "" && status != manager.StatusAll && !slices.Contains(spec.Statuses, status) {
				return fmt.Errorf("invalid status %q (use %s or %s)", status, strings.Join(spec.Statuses, ", "), manager.StatusAll)
			}

			m := newMgr()
			if err := m.Load(cmd.Context()); err != nil {
				return err
			}
			m.SetFilter(manager.Filter{Text: search, Status: status})

			visible := m.Visible()
			out := cmd.OutOrStdout()
			if len(visible) == 0 {
				fmt.Fprintf(out, "No %s found.\n", plural(spec.Noun))
				return nil
			}

			fmt.Fprint(out, formatRecords(spec, visible))
			fmt.Fprintln(out, formatter.Dim(fmt.Sprintf("%d of %d %s", len(visible), len(m.Records()), plural(spec.Noun))))
			return nil
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "Case-insensitive text filter")
	if spec.Status != nil {
		cmd.Flags().StringVar(&status, "status", manager.StatusAll,
			fmt.Sprintf("Status filter (%s|%s)", manager.StatusAll, strings.Join(spec.Statuses, "|")))
	}

	return cmd
}

func newEntityAddCmd[T any, D any](newMgr func() *manager.Manager[T, D]) *cobra.Command {
	spec := newMgr().Spec()
	var flags *pflag.FlagSet

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a " + spec.Noun,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			m := newMgr()
			if err := m.Load(ctx); err != nil {
				return err
			}
			if err := m.OpenCreate(); err != nil {
				return err
			}

			draft := m.Draft()
			if err := applyFlags(ctx, spec, flags, &draft, ""); err != nil {
				return err
			}
			if err := m.SetDraft(draft); err != nil {
				return err
			}

			res := m.Submit(ctx)
			if !res.OK() {
				return resultError(res)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(res.Message))
			return nil
		},
	}

	flags = cmd.Flags()
	registerFieldFlags(spec, flags)
	defaults := spec.NewDraft()
	for _, f := range spec.Fields {
		if f.Required && *f.Bind(&defaults) == "" {
			_ = cmd.MarkFlagRequired(f.Key)
		}
	}

	return cmd
}

func newEntityEditCmd[T any, D any](newMgr func() *manager.Manager[T, D]) *cobra.Command {
	spec := newMgr().Spec()
	var flags *pflag.FlagSet

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Update a " + spec.Noun + "; only the given flags change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			m := newMgr()
			if err := m.Load(ctx); err != nil {
				return err
			}
			rec, err := resolveRecord(spec, m.Records(), args[0])
			if err != nil {
				return err
			}
			if err := m.OpenEdit(spec.ID(rec)); err != nil {
				return err
			}

			draft := m.Draft()
			if err := applyFlags(ctx, spec, flags, &draft, spec.ID(rec)); err != nil {
				return err
			}
			if err := m.SetDraft(draft); err != nil {
				return err
			}

			res := m.Submit(ctx)
			if !res.OK() {
				return resultError(res)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(res.Message))
			return nil
		},
	}

	flags = cmd.Flags()
	registerFieldFlags(spec, flags)

	return cmd
}

func newEntityRemoveCmd[T any, D any](app *App, newMgr func() *manager.Manager[T, D]) *cobra.Command {
	var yes bool
	spec := newMgr().Spec()

	cmd := &cobra.Command{
		Use:   "remove ID",
		Short: "Delete a " + spec.Noun,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			m := newMgr()
			if err := m.Load(ctx); err != nil {
				return err
			}
			rec, err := resolveRecord(spec, m.Records(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			confirm := func(r T) bool {
				if yes {
					return true
				}
				return promptYesNo(app.stdin(), out,
					fmt.Sprintf("Delete %s %s (%s)?", spec.Noun, spec.Key(r), spec.Label(r)))
			}

			res := m.Delete(ctx, spec.ID(rec), confirm)
			switch res.Outcome {
			case manager.OutcomeCancelled:
				fmt.Fprintln(out, formatter.Dim(res.Message))
				return nil
			case manager.OutcomeFailed:
				return resultError(res)
			}
			fmt.Fprintln(out, formatter.Success(res.Message))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

// registerFieldFlags adds one string flag per form field.
func registerFieldFlags[T any, D any](spec manager.Spec[T, D], flags *pflag.FlagSet) {
	for _, f := range spec.Fields {
		usage := f.Title
		switch f.Kind {
		case manager.KindEnum:
			usage += " (" + strings.Join(f.Options, "|") + ")"
		case manager.KindRef:
			usage += " (code or id; empty to clear)"
		case manager.KindDate:
			usage += " (YYYY-MM-DD)"
		}
		flags.String(f.Key, "", usage)
	}
}

// applyFlags copies every flag the user set into draft. Reference flags are
// resolved against the field's picker, so only selectable records are
// accepted.
func applyFlags[T any, D any](ctx context.Context, spec manager.Spec[T, D], flags *pflag.FlagSet, draft *D, editingID string) error {
	for _, f := range spec.Fields {
		if !flags.Changed(f.Key) {
			continue
		}
		v, err := flags.GetString(f.Key)
		if err != nil {
			return err
		}
		if f.Kind == manager.KindRef && f.Choices != nil {
			v, err = resolveChoice(f.Title, f.Choices(ctx, editingID), v)
			if err != nil {
				return err
			}
		}
		*f.Bind(draft) = v
	}
	return nil
}

func formatRecords[T any, D any](spec manager.Spec[T, D], records []T) string {
	headers := make([]string, len(spec.Columns))
	widths := make([]int, len(spec.Columns))
	for i, c := range spec.Columns {
		headers[i] = c.Title
		widths[i] = c.Width
	}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		row := make([]string, len(spec.Columns))
		for i, c := range spec.Columns {
			row[i] = c.Value(r)
		}
		rows = append(rows, row)
	}
	return formatter.RenderTable(headers, rows, widths...)
}

// promptYesNo asks question on out and reads one answer line from in.
// Anything other than y or yes declines.
func promptYesNo(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N] ", question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(out)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func (app *App) stdin() io.Reader {
	if app.In != nil {
		return app.In
	}
	return os.Stdin
}

// cliError surfaces a failed Result with its display message while keeping
// the underlying error for errors.Is.
type cliError struct {
	msg string
	err error
}

func (e *cliError) Error() string { return e.msg }
func (e *cliError) Unwrap() error { return e.err }

func resultError[T any](res manager.Result[T]) error {
	return &cliError{msg: res.Message, err: res.Err}
}

func plural(noun string) string {
	if strings.HasSuffix(noun, "s") {
		return noun + "es"
	}
	return noun + "s"
}
