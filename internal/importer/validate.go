package importer

import (
	"fmt"
	"net/mail"
	"slices"
	"strings"

	"github.com/alexanderramin/bizdesk/internal/domain"
)

// ValidateSeed checks the whole seed before anything is written and returns
// every problem found.
func ValidateSeed(seed *Seed) []error {
	var errs []error

	clientCodes := make(map[string]bool)
	for i, c := range seed.Clients {
		p := fmt.Sprintf("clients[%d]", i)
		errs = append(errs, required(p+".code", c.Code)...)
		errs = append(errs, required(p+".name", c.Name)...)
		errs = append(errs, unique(p+".code", c.Code, clientCodes)...)
		errs = append(errs, optionalEmail(p+".email", c.Email)...)
		errs = append(errs, optionalEnum(p+".status", c.Status, domain.RecordStatuses)...)
	}

	ccCodes := make(map[string]bool)
	for i, cc := range seed.CostCenters {
		p := fmt.Sprintf("cost_centers[%d]", i)
		errs = append(errs, required(p+".code", cc.Code)...)
		errs = append(errs, required(p+".name", cc.Name)...)
		errs = append(errs, unique(p+".code", cc.Code, ccCodes)...)
		errs = append(errs, optionalEnum(p+".status", cc.Status, domain.RecordStatuses)...)
	}
	for i, cc := range seed.CostCenters {
		if cc.Parent != "" && !ccCodes[cc.Parent] {
			errs = append(errs, fmt.Errorf("cost_centers[%d].parent: unknown cost center %q", i, cc.Parent))
		}
	}
	errs = append(errs, validateCostCenterCycles(seed.CostCenters)...)

	projectCodes := make(map[string]bool)
	for i, pr := range seed.Projects {
		p := fmt.Sprintf("projects[%d]", i)
		errs = append(errs, required(p+".code", pr.Code)...)
		errs = append(errs, required(p+".name", pr.Name)...)
		errs = append(errs, unique(p+".code", pr.Code, projectCodes)...)
		if pr.Client == "" {
			errs = append(errs, fmt.Errorf("%s.client is required", p))
		} else if !clientCodes[pr.Client] {
			errs = append(errs, fmt.Errorf("%s.client: unknown client %q", p, pr.Client))
		}
		if pr.CostCenter != "" && !ccCodes[pr.CostCenter] {
			errs = append(errs, fmt.Errorf("%s.cost_center: unknown cost center %q", p, pr.CostCenter))
		}
		errs = append(errs, optionalEnum(p+".status", pr.Status, domain.ProjectStatuses)...)
		errs = append(errs, optionalDate(p+".start_date", pr.StartDate)...)
		errs = append(errs, optionalDate(p+".end_date", pr.EndDate)...)
		errs = append(errs, optionalAmount(p+".budget", pr.Budget)...)
	}

	for i, r := range seed.Rates {
		p := fmt.Sprintf("rates[%d]", i)
		errs = append(errs, required(p+".name", r.Name)...)
		if r.Amount == "" {
			errs = append(errs, fmt.Errorf("%s.amount is required", p))
		} else {
			errs = append(errs, optionalAmount(p+".amount", r.Amount)...)
		}
		if r.ValidFrom == "" {
			errs = append(errs, fmt.Errorf("%s.valid_from is required", p))
		} else {
			errs = append(errs, optionalDate(p+".valid_from", r.ValidFrom)...)
		}
		errs = append(errs, optionalDate(p+".valid_to", r.ValidTo)...)
		errs = append(errs, optionalEnum(p+".unit", r.Unit, domain.RateUnits)...)
		errs = append(errs, optionalEnum(p+".status", r.Status, domain.RecordStatuses)...)
		if r.Project != "" && !projectCodes[r.Project] {
			errs = append(errs, fmt.Errorf("%s.project: unknown project %q", p, r.Project))
		}
	}

	roleNames := make(map[string]bool)
	for i, r := range seed.Roles {
		p := fmt.Sprintf("roles[%d]", i)
		errs = append(errs, required(p+".name", r.Name)...)
		errs = append(errs, unique(p+".name", r.Name, roleNames)...)
	}

	emails := make(map[string]bool)
	for i, u := range seed.Users {
		p := fmt.Sprintf("users[%d]", i)
		if u.Email == "" {
			errs = append(errs, fmt.Errorf("%s.email is required", p))
		} else {
			errs = append(errs, optionalEmail(p+".email", u.Email)...)
			errs = append(errs, unique(p+".email", strings.ToLower(u.Email), emails)...)
		}
		errs = append(errs, required(p+".full_name", u.FullName)...)
		errs = append(errs, optionalEnum(p+".status", u.Status, domain.UserStatuses)...)
		for j, role := range u.Roles {
			if !roleNames[role] {
				errs = append(errs, fmt.Errorf("%s.roles[%d]: unknown role %q", p, j, role))
			}
		}
	}

	return errs
}

func required(field, v string) []error {
	if strings.TrimSpace(v) == "" {
		return []error{fmt.Errorf("%s is required", field)}
	}
	return nil
}

func unique(field, v string, seen map[string]bool) []error {
	if v == "" {
		return nil
	}
	if seen[v] {
		return []error{fmt.Errorf("%s: duplicate %q", field, v)}
	}
	seen[v] = true
	return nil
}

func optionalEnum(field, v string, allowed []string) []error {
	if v != "" && !slices.Contains(allowed, v) {
		return []error{fmt.Errorf("%s: invalid value %q (expected one of %s)", field, v, strings.Join(allowed, ", "))}
	}
	return nil
}

func optionalDate(field, v string) []error {
	if v == "" {
		return nil
	}
	if _, err := domain.ParseDate(v); err != nil {
		return []error{fmt.Errorf("%s: invalid date format %q (expected YYYY-MM-DD)", field, v)}
	}
	return nil
}

func optionalAmount(field, v string) []error {
	if v == "" {
		return nil
	}
	if _, err := domain.ParseAmount(v); err != nil {
		return []error{fmt.Errorf("%s: invalid amount %q", field, v)}
	}
	return nil
}

func optionalEmail(field, v string) []error {
	if v == "" {
		return nil
	}
	if _, err := mail.ParseAddress(v); err != nil {
		return []error{fmt.Errorf("%s: invalid email %q", field, v)}
	}
	return nil
}

func validateCostCenterCycles(ccs []CostCenterSeed) []error {
	parent := make(map[string]string, len(ccs))
	for _, cc := range ccs {
		parent[cc.Code] = cc.Parent
	}
	var errs []error
	reported := make(map[string]bool)
	for _, cc := range ccs {
		seen := map[string]bool{cc.Code: true}
		for p := cc.Parent; p != ""; p = parent[p] {
			if seen[p] {
				if !reported[cc.Code] {
					errs = append(errs, fmt.Errorf("cost_centers: %q has a cyclic parent chain", cc.Code))
					reported[cc.Code] = true
				}
				break
			}
			seen[p] = true
		}
	}
	return errs
}
