package importer

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/bizdesk/internal/domain"
	"github.com/alexanderramin/bizdesk/internal/gateway"
	"github.com/alexanderramin/bizdesk/internal/repository"
)

// Summary counts the records created by an import.
type Summary struct {
	Clients     int
	CostCenters int
	Projects    int
	Rates       int
	Roles       int
	Users       int
	Assignments int
}

// ValidationFailedError carries every seed problem found before import.
type ValidationFailedError struct {
	Errs []error
}

func (e *ValidationFailedError) Error() string {
	return fmt.Sprintf("seed file has %d problem(s): %v", len(e.Errs), errors.Join(e.Errs...))
}

// Import validates seed and writes it in a single transaction. Nothing is
// written if validation or any insert fails.
func Import(ctx context.Context, gw gateway.Client, seed *Seed) (Summary, error) {
	if errs := ValidateSeed(seed); len(errs) > 0 {
		return Summary{}, &ValidationFailedError{Errs: errs}
	}

	var sum Summary
	err := gw.WithinTx(ctx, func(ctx context.Context, tx gateway.Client) error {
		s, err := importTx(ctx, tx, seed)
		sum = s
		return err
	})
	if err != nil {
		return Summary{}, err
	}
	return sum, nil
}

func importTx(ctx context.Context, tx gateway.Client, seed *Seed) (Summary, error) {
	var sum Summary

	clients := repository.NewClientRepo(tx)
	clientIDs := make(map[string]string, len(seed.Clients))
	for _, c := range seed.Clients {
		d := domain.NewClientDraft()
		d.Code, d.Name, d.Email = c.Code, c.Name, c.Email
		d.Status = orDefault(c.Status, d.Status)
		rec, err := clients.Insert(ctx, d)
		if err != nil {
			return sum, fmt.Errorf("client %s: %w", c.Code, err)
		}
		clientIDs[c.Code] = rec.ID
		sum.Clients++
	}

	costCenters := repository.NewCostCenterRepo(tx)
	ccIDs := make(map[string]string, len(seed.CostCenters))
	for _, cc := range parentsFirst(seed.CostCenters) {
		d := domain.NewCostCenterDraft()
		d.Code, d.Name, d.Description = cc.Code, cc.Name, cc.Description
		d.ParentID = ccIDs[cc.Parent]
		d.Status = orDefault(cc.Status, d.Status)
		rec, err := costCenters.Insert(ctx, d)
		if err != nil {
			return sum, fmt.Errorf("cost center %s: %w", cc.Code, err)
		}
		ccIDs[cc.Code] = rec.ID
		sum.CostCenters++
	}

	projects := repository.NewProjectRepo(tx)
	projectIDs := make(map[string]string, len(seed.Projects))
	for _, p := range seed.Projects {
		d := domain.NewProjectDraft()
		d.Code, d.Name = p.Code, p.Name
		d.ClientID = clientIDs[p.Client]
		d.CostCenterID = ccIDs[p.CostCenter]
		d.Status = orDefault(p.Status, d.Status)
		d.StartDate, d.EndDate, d.Budget = p.StartDate, p.EndDate, p.Budget
		rec, err := projects.Insert(ctx, d)
		if err != nil {
			return sum, fmt.Errorf("project %s: %w", p.Code, err)
		}
		projectIDs[p.Code] = rec.ID
		sum.Projects++
	}

	rates := repository.NewRateRepo(tx)
	for _, r := range seed.Rates {
		d := domain.NewRateDraft()
		d.Name, d.Amount = r.Name, r.Amount
		d.Currency = orDefault(r.Currency, d.Currency)
		d.Unit = orDefault(r.Unit, d.Unit)
		d.ProjectID = projectIDs[r.Project]
		d.ValidFrom, d.ValidTo = r.ValidFrom, r.ValidTo
		d.Status = orDefault(r.Status, d.Status)
		if _, err := rates.Insert(ctx, d); err != nil {
			return sum, fmt.Errorf("rate %s: %w", r.Name, err)
		}
		sum.Rates++
	}

	roles := repository.NewRoleRepo(tx)
	roleIDs := make(map[string]string, len(seed.Roles))
	for _, r := range seed.Roles {
		rec, err := roles.Insert(ctx, domain.RoleDraft{Name: r.Name, Description: r.Description})
		if err != nil {
			return sum, fmt.Errorf("role %s: %w", r.Name, err)
		}
		roleIDs[r.Name] = rec.ID
		sum.Roles++
	}

	users := repository.NewUserRepo(tx)
	for _, u := range seed.Users {
		d := domain.NewUserDraft()
		d.Email, d.FullName, d.Title = u.Email, u.FullName, u.Title
		d.Status = orDefault(u.Status, d.Status)
		rec, err := users.Insert(ctx, d)
		if err != nil {
			return sum, fmt.Errorf("user %s: %w", u.Email, err)
		}
		sum.Users++
		for _, role := range u.Roles {
			if err := users.Assign(ctx, rec.ID, roleIDs[role]); err != nil {
				return sum, fmt.Errorf("user %s role %s: %w", u.Email, role, err)
			}
			sum.Assignments++
		}
	}

	return sum, nil
}

// parentsFirst orders cost centers so every parent precedes its children.
// The seed must already be validated to be acyclic.
func parentsFirst(ccs []CostCenterSeed) []CostCenterSeed {
	placed := make(map[string]bool, len(ccs))
	out := make([]CostCenterSeed, 0, len(ccs))
	for len(out) < len(ccs) {
		progressed := false
		for _, cc := range ccs {
			if placed[cc.Code] {
				continue
			}
			if cc.Parent == "" || placed[cc.Parent] {
				out = append(out, cc)
				placed[cc.Code] = true
				progressed = true
			}
		}
		if !progressed {
			break
		}
	}
	return out
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
