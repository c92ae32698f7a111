package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/bizdesk/internal/domain"
	"github.com/alexanderramin/bizdesk/internal/gateway"
	"github.com/alexanderramin/bizdesk/internal/testutil"
)

// recordingGateway captures update patches before delegating.
type recordingGateway struct {
	gateway.Client
	patches []gateway.Row
}

func (g *recordingGateway) Update(ctx context.Context, relation, id string, patch gateway.Row) ([]gateway.Row, error) {
	g.patches = append(g.patches, patch)
	return g.Client.Update(ctx, relation, id, patch)
}

func seedClient(t *testing.T, gw gateway.Client, code string) domain.Client {
	t.Helper()
	c, err := NewClientRepo(gw).Insert(context.Background(), testutil.NewClientDraft(code, code+" Ltd"))
	require.NoError(t, err)
	return c
}

func TestCostCenterRepo_CreateThenListLeavesOptionalsNull(t *testing.T) {
	gw, database := testutil.NewTestGateway(t)
	repo := NewCostCenterRepo(gw)
	ctx := context.Background()

	_, err := repo.Insert(ctx, domain.CostCenterDraft{Code: "CC100", Name: "Test", Status: "active"})
	require.NoError(t, err)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "CC100", list[0].Code)
	assert.Equal(t, "Test", list[0].Name)
	assert.Nil(t, list[0].Description)
	assert.Nil(t, list[0].ParentID)
	assert.Empty(t, list[0].ParentCode)

	var nulls int
	require.NoError(t, database.QueryRow(
		`SELECT COUNT(*) FROM cost_centers WHERE description IS NULL AND parent_id IS NULL`).Scan(&nulls))
	assert.Equal(t, 1, nulls, "blank optionals are stored as NULL, not empty strings")
}

func TestCostCenterRepo_ListJoinsParent(t *testing.T) {
	gw, _ := testutil.NewTestGateway(t)
	repo := NewCostCenterRepo(gw)
	ctx := context.Background()

	root, err := repo.Insert(ctx, testutil.NewCostCenterDraft("CC1", "Head office"))
	require.NoError(t, err)
	_, err = repo.Insert(ctx, testutil.NewCostCenterDraft("CC2", "Branch", testutil.WithParent(root.ID)))
	require.NoError(t, err)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "CC2", list[1].Code)
	require.NotNil(t, list[1].ParentID)
	assert.Equal(t, root.ID, *list[1].ParentID)
	assert.Equal(t, "CC1", list[1].ParentCode)
	assert.Equal(t, "Head office", list[1].ParentName)
}

func TestCostCenterRepo_BlankOptionalOnUpdateClearsValue(t *testing.T) {
	gw, _ := testutil.NewTestGateway(t)
	repo := NewCostCenterRepo(gw)
	ctx := context.Background()

	cc, err := repo.Insert(ctx, testutil.NewCostCenterDraft("CC1", "Ops", testutil.WithDescription("shared")))
	require.NoError(t, err)
	require.NotNil(t, cc.Description)

	d := cc.Draft()
	d.Description = "  "
	updated, err := repo.Update(ctx, cc.ID, d)
	require.NoError(t, err)
	assert.Nil(t, updated.Description)
}

func TestCostCenterRepo_ListActive(t *testing.T) {
	gw, _ := testutil.NewTestGateway(t)
	repo := NewCostCenterRepo(gw)
	ctx := context.Background()

	_, err := repo.Insert(ctx, testutil.NewCostCenterDraft("CC1", "Open"))
	require.NoError(t, err)
	_, err = repo.Insert(ctx, testutil.NewCostCenterDraft("CC2", "Closed", testutil.WithCostCenterStatus(domain.StatusInactive)))
	require.NoError(t, err)

	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "CC1", active[0].Code)
}

func TestClientRepo_InsertUpdateDelete(t *testing.T) {
	gw, _ := testutil.NewTestGateway(t)
	repo := NewClientRepo(gw)
	ctx := context.Background()

	c, err := repo.Insert(ctx, testutil.NewClientDraft(" ACME ", "Acme", testutil.WithClientEmail("ops@acme.test")))
	require.NoError(t, err)
	assert.Equal(t, "ACME", c.Code, "codes are trimmed")
	require.NotNil(t, c.Email)
	assert.False(t, c.CreatedAt.IsZero())

	d := c.Draft()
	d.Status = string(domain.StatusInactive)
	updated, err := repo.Update(ctx, c.ID, d)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInactive, updated.Status)

	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	require.NoError(t, repo.Delete(ctx, c.ID))
	err = repo.Delete(ctx, c.ID)
	assert.ErrorIs(t, err, gateway.ErrNotFound)
}

func TestClientRepo_DeleteReferencedClientIsConstraint(t *testing.T) {
	gw, _ := testutil.NewTestGateway(t)
	ctx := context.Background()
	client := seedClient(t, gw, "ACME")
	_, err := NewProjectRepo(gw).Insert(ctx, testutil.NewProjectDraft("P1", "Site", client.ID))
	require.NoError(t, err)

	err = NewClientRepo(gw).Delete(ctx, client.ID)
	assert.Equal(t, gateway.CodeConstraint, gateway.CodeOf(err))
	assert.Contains(t, err.Error(), "deleting client")
}

func TestProjectRepo_InsertNormalizesValues(t *testing.T) {
	gw, _ := testutil.NewTestGateway(t)
	ctx := context.Background()
	client := seedClient(t, gw, "ACME")

	p, err := NewProjectRepo(gw).Insert(ctx, testutil.NewProjectDraft("P1", "Site", client.ID,
		testutil.WithBudget("12000.50"), testutil.WithDates("2026-01-05", "")))
	require.NoError(t, err)

	require.NotNil(t, p.Budget)
	assert.Equal(t, "12000.5", p.Budget.String())
	require.NotNil(t, p.StartDate)
	assert.Equal(t, "2026-01-05", p.StartDate.Format(domain.DateLayout))
	assert.Nil(t, p.EndDate)
	assert.Nil(t, p.CostCenterID)
	assert.Equal(t, domain.ProjectPlanning, p.Status)
}

func TestProjectRepo_ListJoinsClientName(t *testing.T) {
	gw, _ := testutil.NewTestGateway(t)
	ctx := context.Background()
	client := seedClient(t, gw, "ACME")
	repo := NewProjectRepo(gw)

	_, err := repo.Insert(ctx, testutil.NewProjectDraft("P1", "Site", client.ID))
	require.NoError(t, err)
	_, err = repo.Insert(ctx, testutil.NewProjectDraft("P2", "Audit", client.ID, testutil.WithProjectStatus(domain.ProjectCompleted)))
	require.NoError(t, err)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "P2", all[0].Code, "newest first")
	assert.Equal(t, "ACME Ltd", all[0].ClientName)

	open, err := repo.ListOpen(ctx)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "P1", open[0].Code)
}

func TestProjectRepo_UnchangedDraftPatchEqualsStoredFields(t *testing.T) {
	base, _ := testutil.NewTestGateway(t)
	ctx := context.Background()
	client := seedClient(t, base, "ACME")
	cc, err := NewCostCenterRepo(base).Insert(ctx, testutil.NewCostCenterDraft("CC1", "Ops"))
	require.NoError(t, err)

	gw := &recordingGateway{Client: base}
	repo := NewProjectRepo(gw)
	p, err := repo.Insert(ctx, testutil.NewProjectDraft("P1", "Site", client.ID,
		testutil.WithCostCenter(cc.ID), testutil.WithBudget("500"), testutil.WithDates("2026-01-01", "2026-06-30")))
	require.NoError(t, err)

	_, err = repo.Update(ctx, p.ID, p.Draft())
	require.NoError(t, err)
	require.Len(t, gw.patches, 1)

	stored, err := base.Select(ctx, "projects", gateway.Query{Filters: []gateway.Filter{gateway.Eq("id", p.ID)}})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	for col, v := range gw.patches[0] {
		assert.Equal(t, stored[0][col], v, "column %s", col)
	}
}

func TestRateRepo_InsertAndListWithProject(t *testing.T) {
	gw, _ := testutil.NewTestGateway(t)
	ctx := context.Background()
	client := seedClient(t, gw, "ACME")
	p, err := NewProjectRepo(gw).Insert(ctx, testutil.NewProjectDraft("P1", "Site", client.ID))
	require.NoError(t, err)
	repo := NewRateRepo(gw)

	r, err := repo.Insert(ctx, testutil.NewRateDraft("Senior", "150", "2026-01-01",
		testutil.WithRateProject(p.ID), testutil.WithUnit(domain.UnitDay)))
	require.NoError(t, err)
	assert.Equal(t, "150.00", r.Amount.StringFixed(2))
	assert.Equal(t, "USD", r.Currency)
	assert.Nil(t, r.ValidTo)

	_, err = repo.Insert(ctx, testutil.NewRateDraft("Standard", "90", "2026-02-01"))
	require.NoError(t, err)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Standard", all[0].Name, "latest valid_from first")
	assert.Equal(t, "Site", all[1].ProjectName)
	assert.Equal(t, "P1", all[1].ProjectCode)

	scoped, err := repo.ListForProject(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, "Senior", scoped[0].Name)
}

func TestRateRepo_RejectsMalformedAmount(t *testing.T) {
	gw, database := testutil.NewTestGateway(t)

	_, err := NewRateRepo(gw).Insert(context.Background(), testutil.NewRateDraft("Bad", "ten", "2026-01-01"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inserting rate")
	assert.Equal(t, 0, testutil.CountRows(t, database, "rates"))
}

func TestRateRepo_NoCrossFieldDateCheck(t *testing.T) {
	gw, _ := testutil.NewTestGateway(t)

	r, err := NewRateRepo(gw).Insert(context.Background(),
		testutil.NewRateDraft("Odd", "1", "2026-12-31", testutil.WithValidTo("2026-01-01")))
	require.NoError(t, err)
	require.NotNil(t, r.ValidTo)
	assert.True(t, r.ValidTo.Before(r.ValidFrom))
}

func TestUserRepo_RoleAssignments(t *testing.T) {
	gw, _ := testutil.NewTestGateway(t)
	ctx := context.Background()
	users := NewUserRepo(gw)
	roles := NewRoleRepo(gw)

	u, err := users.Insert(ctx, testutil.NewUserDraft("Ann@Example.com", "Ann Lee"))
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", u.Email)
	assert.Equal(t, domain.UserInvited, u.Status)

	admin, err := roles.Insert(ctx, domain.RoleDraft{Name: "admin"})
	require.NoError(t, err)
	viewer, err := roles.Insert(ctx, domain.RoleDraft{Name: "viewer", Description: "read only"})
	require.NoError(t, err)
	billing, err := roles.Insert(ctx, domain.RoleDraft{Name: "billing"})
	require.NoError(t, err)

	require.NoError(t, users.Assign(ctx, u.ID, viewer.ID))
	require.NoError(t, users.Assign(ctx, u.ID, admin.ID))
	err = users.Assign(ctx, u.ID, admin.ID)
	assert.Equal(t, gateway.CodeConflict, gateway.CodeOf(err))

	assigned, err := users.Roles(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"admin", "viewer"}, roleNames(assigned))

	require.NoError(t, users.Revoke(ctx, u.ID, viewer.ID))
	assert.ErrorIs(t, users.Revoke(ctx, u.ID, viewer.ID), gateway.ErrNotFound)

	require.NoError(t, users.SetRoles(ctx, u.ID, []string{billing.ID, viewer.ID}))
	assigned, err = users.Roles(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"billing", "viewer"}, roleNames(assigned))

	require.NoError(t, roles.Delete(ctx, billing.ID))
	assigned, err = users.Roles(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"viewer"}, roleNames(assigned), "assignments cascade with the role")
}

func roleNames(urs []domain.UserRole) []string {
	var out []string
	for _, ur := range urs {
		out = append(out, ur.RoleName)
	}
	return out
}

func TestAuditRepo_ListNewestFirst(t *testing.T) {
	gw, _ := testutil.NewTestGateway(t)
	ctx := context.Background()
	client := seedClient(t, gw, "ACME")
	_, err := NewClientRepo(gw).Update(ctx, client.ID, client.Draft())
	require.NoError(t, err)
	_, err = NewRoleRepo(gw).Insert(ctx, domain.RoleDraft{Name: "admin"})
	require.NoError(t, err)

	repo := NewAuditRepo(gw)
	all, err := repo.List(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "roles", all[0].Relation)

	clients, err := repo.List(ctx, "clients", 1)
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, "update", clients[0].Action)
	assert.Equal(t, client.ID, clients[0].RecordID)
	require.NotNil(t, clients[0].Detail)
	assert.Contains(t, *clients[0].Detail, "name")
}
