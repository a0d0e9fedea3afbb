package memory

import (
	"cmp"
	"context"
	"slices"

	"github.com/jhoicas/topmei-api/internal/domain/repository"
	"github.com/jhoicas/topmei-api/internal/domain/workflow"
)

var _ repository.DashboardRepository = (*dashboardRepo)(nil)

// Dashboard devuelve el repositorio de lectura del dashboard.
func (s *Store) Dashboard() repository.DashboardRepository { return &dashboardRepo{s} }

type dashboardRepo struct{ s *Store }

func counts(m map[string]int) []repository.StatusCount {
	out := make([]repository.StatusCount, 0, len(m))
	for k, v := range m {
		out = append(out, repository.StatusCount{Status: k, Count: v})
	}
	slices.SortFunc(out, func(a, b repository.StatusCount) int { return cmp.Compare(a.Status, b.Status) })
	return out
}

// ownedBy sin userID todas las empresas cuentan.
func (r *dashboardRepo) ownedBy(companyID, userID string) bool {
	if userID == "" {
		return true
	}
	c, ok := r.s.st.companies[companyID]
	return ok && c.UserID == userID
}

func (r *dashboardRepo) CompaniesByStatus(ctx context.Context, userID string) ([]repository.StatusCount, error) {
	err := r.s.lock("dashboard.companies")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	m := map[string]int{}
	for _, c := range r.s.st.companies {
		if userID == "" || c.UserID == userID {
			m[string(c.Status)]++
		}
	}
	return counts(m), nil
}

func (r *dashboardRepo) DocumentsByStatus(ctx context.Context, userID string) ([]repository.StatusCount, error) {
	err := r.s.lock("dashboard.documents")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	m := map[string]int{}
	for _, d := range r.s.st.docs {
		if r.ownedBy(d.CompanyID, userID) {
			m[string(d.Status)]++
		}
	}
	return counts(m), nil
}

func (r *dashboardRepo) ContractsByStatus(ctx context.Context, userID string) ([]repository.StatusCount, error) {
	err := r.s.lock("dashboard.contracts")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	m := map[string]int{}
	for _, c := range r.s.st.contracts {
		if r.ownedBy(c.CompanyID, userID) {
			m[string(c.Status.Normalize())]++
		}
	}
	return counts(m), nil
}

func (r *dashboardRepo) InvoicesByStatus(ctx context.Context, userID string) ([]repository.StatusCount, error) {
	err := r.s.lock("dashboard.invoices")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	m := map[string]int{}
	for _, x := range r.s.st.invoices {
		if r.ownedBy(x.CompanyID, userID) {
			m[string(x.Status)]++
		}
	}
	return counts(m), nil
}

func (r *dashboardRepo) PendingMandatoryDocuments(ctx context.Context, userID string) (int, error) {
	err := r.s.lock("dashboard.pending_mandatory")
	defer r.s.mu.Unlock()
	if err != nil {
		return 0, err
	}
	var pending int
	for _, c := range r.s.st.companies {
		if c.UserID != userID || c.Status == workflow.CompanyInactive {
			continue
		}
		for _, t := range r.s.st.docTypes {
			if !t.Active || !t.Mandatory {
				continue
			}
			covered := false
			for _, d := range r.s.st.docs {
				if d.CompanyID == c.ID && d.DocumentTypeID == t.ID && d.Status.BlocksResubmission() {
					covered = true
					break
				}
			}
			if !covered {
				pending++
			}
		}
	}
	return pending, nil
}

func (r *dashboardRepo) UsersByRole(ctx context.Context) ([]repository.StatusCount, error) {
	err := r.s.lock("dashboard.users_by_role")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	m := map[string]int{}
	for _, a := range r.s.st.roles {
		if a.Active {
			m[string(a.Role)]++
		}
	}
	return counts(m), nil
}

func (r *dashboardRepo) InactiveUsers(ctx context.Context) (int, error) {
	err := r.s.lock("dashboard.inactive_users")
	defer r.s.mu.Unlock()
	if err != nil {
		return 0, err
	}
	var n int
	for _, u := range r.s.st.users {
		if !u.Active {
			n++
		}
	}
	return n, nil
}
