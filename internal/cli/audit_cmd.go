package cli

import (
	"fmt"

	"github.com/alexanderramin/bizdesk/internal/cli/formatter"
	"github.com/alexanderramin/bizdesk/internal/domain"
	"github.com/alexanderramin/bizdesk/internal/importer"
	"github.com/alexanderramin/bizdesk/internal/repository"
	"github.com/spf13/cobra"
)

func newAuditCmd(app *App) *cobra.Command {
	var relation string
	var limit int

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show recent changes, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				return fmt.Errorf("invalid limit %d (must be positive)", limit)
			}
			entries, err := app.Console.AuditLog(cmd.Context(), relation, limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No changes recorded.")
				return nil
			}
			fmt.Fprint(out, formatAudit(entries))
			return nil
		},
	}

	cmd.Flags().StringVar(&relation, "relation", "", "Only show changes to this table (e.g. clients)")
	cmd.Flags().IntVar(&limit, "limit", repository.DefaultAuditLimit, "Maximum number of entries")

	return cmd
}

func formatAudit(entries []domain.AuditEntry) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			formatter.HumanTimestamp(e.At),
			e.Relation,
			e.Action,
			formatter.TruncID(e.RecordID),
			formatter.OrDash(domain.StringOrEmpty(e.Detail)),
		})
	}
	return formatter.RenderTable([]string{"WHEN", "TABLE", "ACTION", "RECORD", "CHANGED"}, rows, 0, 0, 0, 0, 40)
}

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Load clients, cost centers, projects, rates, roles and users from a YAML seed file",
		Long: `Validate a YAML seed file in full, then create every record it lists in
a single transaction. Nothing is written if any entry is invalid or any
insert fails. References between entries use codes (clients, cost centers,
projects) and names (roles).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, err := importer.LoadSeed(args[0])
			if err != nil {
				return err
			}
			sum, err := importer.Import(cmd.Context(), app.Console.Gateway(), seed)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(fmt.Sprintf(
				"Imported %d clients, %d cost centers, %d projects, %d rates, %d roles, %d users (%d role assignments)",
				sum.Clients, sum.CostCenters, sum.Projects, sum.Rates, sum.Roles, sum.Users, sum.Assignments)))
			return nil
		},
	}
}

func newConsoleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "Open the interactive console",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runConsole()
		},
	}
}
