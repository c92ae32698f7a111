package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/bizdesk/internal/cli/formatter"
	"github.com/alexanderramin/bizdesk/internal/domain"
	"github.com/spf13/cobra"
)

func resolveUser(ctx context.Context, app *App, input string) (domain.User, error) {
	m := app.Console.NewUserManager()
	if err := m.Load(ctx); err != nil {
		return domain.User{}, err
	}
	return resolveRecord(m.Spec(), m.Records(), input)
}

func resolveRole(ctx context.Context, app *App, input string) (string, error) {
	return resolveChoice("Role", app.Console.RoleChoices(ctx), input)
}

func newUserRolesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "roles ID",
		Short: "List the roles assigned to a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			u, err := resolveUser(ctx, app, args[0])
			if err != nil {
				return err
			}
			roles, err := app.Console.UserRoles(ctx, u.ID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(roles) == 0 {
				fmt.Fprintf(out, "%s has no roles.\n", u.Email)
				return nil
			}
			fmt.Fprintln(out, formatter.Header("Roles of "+u.Email))
			for _, r := range roles {
				fmt.Fprintf(out, "  %s\n", r.RoleName)
			}
			return nil
		},
	}
}

func newUserAssignCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "assign ID ROLE",
		Short: "Assign a role to a user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			u, err := resolveUser(ctx, app, args[0])
			if err != nil {
				return err
			}
			roleID, err := resolveRole(ctx, app, args[1])
			if err != nil {
				return err
			}
			if err := app.Console.AssignRole(ctx, u.ID, roleID); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(fmt.Sprintf("Assigned %s to %s", args[1], u.Email)))
			return nil
		},
	}
}

func newUserRevokeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "revoke ID ROLE",
		Short: "Remove a role from a user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			u, err := resolveUser(ctx, app, args[0])
			if err != nil {
				return err
			}
			roleID, err := resolveRole(ctx, app, args[1])
			if err != nil {
				return err
			}
			if err := app.Console.RevokeRole(ctx, u.ID, roleID); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(fmt.Sprintf("Revoked %s from %s", args[1], u.Email)))
			return nil
		},
	}
}

func newCostCenterTreeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tree",
		Short: "Show the cost center hierarchy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			centers, err := app.Console.CostCenters.List(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(centers) == 0 {
				fmt.Fprintln(out, "No cost centers found.")
				return nil
			}
			fmt.Fprint(out, formatter.RenderTree(formatter.CostCenterTree(centers)))
			return nil
		},
	}
}
