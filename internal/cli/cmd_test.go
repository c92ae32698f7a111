package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/bizdesk/internal/domain"
	"github.com/alexanderramin/bizdesk/internal/service"
	"github.com/alexanderramin/bizdesk/internal/testutil"
)

func testApp(t *testing.T) *App {
	t.Helper()
	gw, _ := testutil.NewTestGateway(t)
	return &App{
		Console:    service.NewConsole(gw),
		RunConsole: func(*App) error { return nil },
	}
}

// executeCmd runs the root command with args and returns what it printed.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}

func mustExecute(t *testing.T, app *App, args ...string) string {
	t.Helper()
	out, err := executeCmd(t, app, args...)
	require.NoError(t, err, out)
	return out
}

func TestRoot_NoArgsPrintsHelpWhenNotInteractive(t *testing.T) {
	app := testApp(t)
	out := mustExecute(t, app)
	assert.Contains(t, out, "bizdesk")
	assert.Contains(t, out, "client")
	assert.Contains(t, out, "cost-center")
}

func TestRoot_NoArgsOpensConsoleWhenInteractive(t *testing.T) {
	app := testApp(t)
	app.IsInteractive = func() bool { return true }
	opened := false
	app.RunConsole = func(*App) error {
		opened = true
		return nil
	}

	mustExecute(t, app)
	assert.True(t, opened)
}

func TestClientAdd_ThenList(t *testing.T) {
	app := testApp(t)

	out := mustExecute(t, app, "client", "add", "--code", "ACME", "--name", "Acme Corp", "--email", "billing@acme.test")
	assert.Contains(t, out, "Created client ACME")

	out = mustExecute(t, app, "client", "list")
	assert.Contains(t, out, "CODE")
	assert.Contains(t, out, "ACME")
	assert.Contains(t, out, "billing@acme.test")
	assert.Contains(t, out, "1 of 1 clients")
}

func TestClientList_Empty(t *testing.T) {
	app := testApp(t)
	out := mustExecute(t, app, "client", "list")
	assert.Equal(t, "No clients found.\n", out)
}

func TestClientAdd_MissingRequiredFlags(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "client", "add", "--name", "Acme")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "code")
}

func TestClientAdd_InvalidEmailIsRejected(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "client", "add", "--code", "ACME", "--name", "Acme", "--email", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not an email address")

	clients, err := app.Console.Clients.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, clients)
}

func TestClientAdd_DuplicateCode(t *testing.T) {
	app := testApp(t)
	mustExecute(t, app, "client", "add", "--code", "ACME", "--name", "Acme")

	_, err := executeCmd(t, app, "client", "add", "--code", "ACME", "--name", "Other")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Could not save client")
	assert.Contains(t, err.Error(), "must be unique")
}

func TestClientEdit_OnlyChangesGivenFlags(t *testing.T) {
	app := testApp(t)
	mustExecute(t, app, "client", "add", "--code", "ACME", "--name", "Acme", "--email", "billing@acme.test")

	out := mustExecute(t, app, "client", "edit", "acme", "--name", "Acme Corp")
	assert.Contains(t, out, "Updated client ACME")

	clients, err := app.Console.Clients.List(context.Background())
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, "Acme Corp", clients[0].Name)
	assert.Equal(t, "billing@acme.test", domain.StringOrEmpty(clients[0].Email))
	assert.Equal(t, domain.StatusActive, clients[0].Status)
}

func TestClientEdit_EmptyFlagClearsOptionalField(t *testing.T) {
	app := testApp(t)
	mustExecute(t, app, "client", "add", "--code", "ACME", "--name", "Acme", "--email", "billing@acme.test")

	mustExecute(t, app, "client", "edit", "ACME", "--email", "")

	clients, err := app.Console.Clients.List(context.Background())
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Nil(t, clients[0].Email)
}

func TestClientEdit_UnknownID(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "client", "edit", "NOPE", "--name", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `client not found: "NOPE"`)
}

func TestClientRemove_WithYes(t *testing.T) {
	app := testApp(t)
	mustExecute(t, app, "client", "add", "--code", "ACME", "--name", "Acme")

	out := mustExecute(t, app, "client", "remove", "ACME", "--yes")
	assert.Contains(t, out, "Deleted client ACME")

	out = mustExecute(t, app, "client", "list")
	assert.Contains(t, out, "No clients found.")
}

func TestClientRemove_ConfirmPrompt(t *testing.T) {
	tests := []struct {
		name    string
		answer  string
		want    string
		remains bool
	}{
		{name: "declined", answer: "n\n", want: "Delete cancelled", remains: true},
		{name: "empty answer declines", answer: "\n", want: "Delete cancelled", remains: true},
		{name: "no input declines", answer: "", want: "Delete cancelled", remains: true},
		{name: "approved", answer: "y\n", want: "Deleted client ACME", remains: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := testApp(t)
			mustExecute(t, app, "client", "add", "--code", "ACME", "--name", "Acme")
			app.In = strings.NewReader(tt.answer)

			out := mustExecute(t, app, "client", "remove", "ACME")
			assert.Contains(t, out, "Delete client ACME (Acme)? [y/N]")
			assert.Contains(t, out, tt.want)

			clients, err := app.Console.Clients.List(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.remains, len(clients) == 1)
		})
	}
}

func TestClientList_SearchAndStatus(t *testing.T) {
	app := testApp(t)
	mustExecute(t, app, "client", "add", "--code", "ACME", "--name", "Acme Corp")
	mustExecute(t, app, "client", "add", "--code", "GLOBEX", "--name", "Globex", "--status", "inactive")

	out := mustExecute(t, app, "client", "list", "--status", "inactive")
	assert.Contains(t, out, "GLOBEX")
	assert.NotContains(t, out, "ACME")
	assert.Contains(t, out, "1 of 2 clients")

	out = mustExecute(t, app, "client", "list", "--search", "acme")
	assert.Contains(t, out, "ACME")
	assert.NotContains(t, out, "GLOBEX")

	out = mustExecute(t, app, "client", "list", "--search", "acme", "--status", "inactive")
	assert.Contains(t, out, "No clients found.")
}

func TestClientList_InvalidStatus(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "client", "list", "--status", "archived")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid status "archived"`)
}

func TestRoleList_HasNoStatusFlag(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "role", "list", "--status", "active")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown flag")
}

func TestProjectAdd_ResolvesClientByCode(t *testing.T) {
	app := testApp(t)
	mustExecute(t, app, "client", "add", "--code", "ACME", "--name", "Acme Corp")

	out := mustExecute(t, app, "project", "add", "--code", "WEB01", "--name", "Website", "--client", "acme", "--budget", "1200.5")
	assert.Contains(t, out, "Created project WEB01")

	out = mustExecute(t, app, "project", "list")
	assert.Contains(t, out, "WEB01")
	assert.Contains(t, out, "Acme Corp")
	assert.Contains(t, out, "planning")
}

func TestProjectAdd_InactiveClientIsNotSelectable(t *testing.T) {
	app := testApp(t)
	mustExecute(t, app, "client", "add", "--code", "ACME", "--name", "Acme Corp")
	mustExecute(t, app, "client", "add", "--code", "OLD", "--name", "Old Co", "--status", "inactive")

	_, err := executeCmd(t, app, "project", "add", "--code", "P1", "--name", "X", "--client", "OLD")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `client "OLD" is not a selectable record`)
}

func TestProjectAdd_NoClientsAvailable(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "project", "add", "--code", "P1", "--name", "X", "--client", "ACME")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no selectable records")
}

func TestCostCenterTree(t *testing.T) {
	app := testApp(t)

	out := mustExecute(t, app, "cost-center", "tree")
	assert.Contains(t, out, "No cost centers found.")

	mustExecute(t, app, "cost-center", "add", "--code", "CC100", "--name", "Operations")
	mustExecute(t, app, "cost-center", "add", "--code", "CC110", "--name", "Delivery", "--parent", "CC100")

	out = mustExecute(t, app, "cost-center", "tree")
	assert.Contains(t, out, "CC100")
	assert.Contains(t, out, "CC110")
	assert.Less(t, strings.Index(out, "CC100"), strings.Index(out, "CC110"))
}

func TestUserRoles_AssignAndRevoke(t *testing.T) {
	app := testApp(t)
	mustExecute(t, app, "user", "add", "--email", "ann@example.com", "--name", "Ann Lee")
	mustExecute(t, app, "role", "add", "--name", "admin", "--description", "Full access")

	out := mustExecute(t, app, "user", "roles", "ann@example.com")
	assert.Contains(t, out, "ann@example.com has no roles.")

	out = mustExecute(t, app, "user", "assign", "ANN@example.com", "admin")
	assert.Contains(t, out, "Assigned admin to ann@example.com")

	out = mustExecute(t, app, "user", "roles", "ann@example.com")
	assert.Contains(t, out, "ROLES OF ANN@EXAMPLE.COM")
	assert.Contains(t, out, "admin")

	out = mustExecute(t, app, "user", "revoke", "ann@example.com", "admin")
	assert.Contains(t, out, "Revoked admin from ann@example.com")

	out = mustExecute(t, app, "user", "roles", "ann@example.com")
	assert.Contains(t, out, "has no roles.")
}

func TestUserAssign_UnknownRole(t *testing.T) {
	app := testApp(t)
	mustExecute(t, app, "user", "add", "--email", "ann@example.com", "--name", "Ann Lee")

	_, err := executeCmd(t, app, "user", "assign", "ann@example.com", "admin")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `role "admin"`)
}

func TestAudit(t *testing.T) {
	app := testApp(t)

	out := mustExecute(t, app, "audit")
	assert.Contains(t, out, "No changes recorded.")

	mustExecute(t, app, "client", "add", "--code", "ACME", "--name", "Acme")
	mustExecute(t, app, "client", "edit", "ACME", "--name", "Acme Corp")

	out = mustExecute(t, app, "audit")
	assert.Contains(t, out, "WHEN")
	assert.Contains(t, out, "clients")
	assert.Contains(t, out, "insert")
	assert.Contains(t, out, "update")
	assert.Less(t, strings.Index(out, "update"), strings.Index(out, "insert"), "newest first")

	out = mustExecute(t, app, "audit", "--relation", "projects")
	assert.Contains(t, out, "No changes recorded.")

	out = mustExecute(t, app, "audit", "--limit", "1")
	assert.Contains(t, out, "update")
	assert.NotContains(t, out, "insert")
}

func TestAudit_InvalidLimit(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "audit", "--limit", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid limit")
}

func TestImport(t *testing.T) {
	app := testApp(t)

	out := mustExecute(t, app, "import", "../importer/testdata/seed.yaml")
	assert.Contains(t, out, "Imported 2 clients, 2 cost centers, 2 projects, 2 rates, 2 roles, 2 users (2 role assignments)")

	out = mustExecute(t, app, "project", "list")
	assert.Contains(t, out, "WEB01")
	assert.Contains(t, out, "Acme Corp")

	out = mustExecute(t, app, "user", "roles", "ann@example.com")
	assert.Contains(t, out, "admin")
	assert.Contains(t, out, "billing")
}

func TestImport_MissingFile(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "import", "does-not-exist.yaml")
	require.Error(t, err)
}

func TestConsoleCmd_RunsConsole(t *testing.T) {
	app := testApp(t)
	opened := false
	app.RunConsole = func(*App) error {
		opened = true
		return nil
	}
	mustExecute(t, app, "console")
	assert.True(t, opened)
}

func TestRateEdit_StatusChangeKeepsAmount(t *testing.T) {
	app := testApp(t)
	mustExecute(t, app, "rate", "add", "--name", "Senior", "--amount", "12.345", "--valid-from", "2026-01-01")

	mustExecute(t, app, "rate", "edit", "senior", "--status", "inactive")

	rates, err := app.Console.Rates.List(context.Background())
	require.NoError(t, err)
	require.Len(t, rates, 1)
	assert.Equal(t, "12.345", rates[0].Amount.String())
	assert.Equal(t, domain.StatusInactive, rates[0].Status)
}
