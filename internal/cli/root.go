package cli

import (
	"io"

	"github.com/alexanderramin/bizdesk/internal/service"
	"github.com/spf13/cobra"
)

// App holds what the CLI commands and the console need at runtime.
type App struct {
	Console *service.Console

	// IsInteractive reports whether stdin is a terminal. When it returns
	// true, running bizdesk without a subcommand opens the console.
	IsInteractive func() bool

	// RunConsole starts the interactive console. Tests replace it to avoid
	// taking over the terminal.
	RunConsole func(app *App) error

	// ReadOnly marks the console header; the gateway enforces it.
	ReadOnly bool

	// In overrides stdin for delete confirmations.
	In io.Reader
}

// NewRootCmd creates the top-level "bizdesk" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "bizdesk",
		Short:         "Business management console for clients, cost centers, projects, rates and users",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.IsInteractive != nil && app.IsInteractive() {
				return app.runConsole()
			}
			return cmd.Help()
		},
	}

	c := app.Console
	costCenters := newEntityCmd(app, "cost-center", c.NewCostCenterManager)
	costCenters.AddCommand(newCostCenterTreeCmd(app))

	users := newEntityCmd(app, "user", c.NewUserManager)
	users.AddCommand(
		newUserRolesCmd(app),
		newUserAssignCmd(app),
		newUserRevokeCmd(app),
	)

	root.AddCommand(
		newEntityCmd(app, "client", c.NewClientManager),
		costCenters,
		newEntityCmd(app, "project", c.NewProjectManager),
		newEntityCmd(app, "rate", c.NewRateManager),
		users,
		newEntityCmd(app, "role", c.NewRoleManager),
		newAuditCmd(app),
		newImportCmd(app),
		newConsoleCmd(app),
	)

	return root
}

func (app *App) runConsole() error {
	if app.RunConsole != nil {
		return app.RunConsole(app)
	}
	return runConsole(app)
}
