package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"github.com/jhoicas/topmei-api/internal/domain"
	"github.com/jhoicas/topmei-api/internal/domain/entity"
	"github.com/jhoicas/topmei-api/internal/domain/repository"
)

var (
	_ repository.UserRepository          = (*userRepo)(nil)
	_ repository.RoleRepository          = (*roleRepo)(nil)
	_ repository.PasswordResetRepository = (*resetRepo)(nil)
)

type userRepo struct{ s *Store }

func (r *userRepo) Create(ctx context.Context, u *entity.User) error {
	err := r.s.lock("users.create")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	for _, x := range r.s.st.users {
		if strings.EqualFold(x.Email, u.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.s.st.users[u.ID] = *u
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	err := r.s.lock("users.get")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	u, ok := r.s.st.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	err := r.s.lock("users.find_by_email")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	for _, u := range r.s.st.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *userRepo) List(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	err := r.s.lock("users.list")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	list := sortedValues(r.s.st.users, nil, func(a, b entity.User) int { return cmp.Compare(a.Email, b.Email) })
	return page(list, limit, offset), nil
}

func (r *userRepo) SetActive(ctx context.Context, id string, active bool) error {
	err := r.s.lock("users.set_active")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	u, ok := r.s.st.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Active = active
	r.s.st.users[id] = u
	return nil
}

func (r *userRepo) UpdatePassword(ctx context.Context, id, passwordHash string, at time.Time) error {
	err := r.s.lock("users.update_password")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	u, ok := r.s.st.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = at
	r.s.st.users[id] = u
	return nil
}

type resetRepo struct{ s *Store }

func (r *resetRepo) Create(ctx context.Context, p *entity.PasswordReset) error {
	err := r.s.lock("resets.create")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	r.s.st.resets[p.ID] = *p
	return nil
}

func (r *resetRepo) GetByTokenHashForUpdate(ctx context.Context, tokenHash string) (*entity.PasswordReset, error) {
	err := r.s.lock("resets.get_for_update")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	for _, p := range r.s.st.resets {
		if p.TokenHash == tokenHash {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *resetRepo) ConsumeByUser(ctx context.Context, userID string, at time.Time) error {
	err := r.s.lock("resets.consume")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	for id, p := range r.s.st.resets {
		if p.UserID == userID && p.UsedAt == nil {
			p.UsedAt = &at
			r.s.st.resets[id] = p
		}
	}
	return nil
}

type roleRepo struct{ s *Store }

func (r *roleRepo) Assign(ctx context.Context, a *entity.RoleAssignment) error {
	err := r.s.lock("roles.assign")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	r.s.st.roles[a.ID] = *a
	return nil
}

func (r *roleRepo) ListByUser(ctx context.Context, userID string) ([]*entity.RoleAssignment, error) {
	err := r.s.lock("roles.list_by_user")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return sortedValues(r.s.st.roles,
		func(a entity.RoleAssignment) bool { return a.UserID == userID },
		byCreated(func(a entity.RoleAssignment) (int64, string) { return a.CreatedAt.UnixNano(), a.ID }),
	), nil
}

func (r *roleRepo) ListActive(ctx context.Context) ([]*entity.RoleAssignment, error) {
	err := r.s.lock("roles.list_active")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return sortedValues(r.s.st.roles,
		func(a entity.RoleAssignment) bool { return a.Active },
		byCreated(func(a entity.RoleAssignment) (int64, string) { return a.CreatedAt.UnixNano(), a.ID }),
	), nil
}

func (r *roleRepo) ListActiveUserIDs(ctx context.Context, role entity.Role) ([]string, error) {
	err := r.s.lock("roles.list_active_user_ids")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	var ids []string
	for _, a := range r.s.st.roles {
		u, ok := r.s.st.users[a.UserID]
		if !a.Active || a.Role != role || !ok || !u.Active || seen[a.UserID] {
			continue
		}
		seen[a.UserID] = true
		ids = append(ids, a.UserID)
	}
	slices.Sort(ids)
	return ids, nil
}

func (r *roleRepo) DeactivateAll(ctx context.Context, userID string) error {
	err := r.s.lock("roles.deactivate_all")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	for id, a := range r.s.st.roles {
		if a.UserID == userID {
			a.Active = false
			r.s.st.roles[id] = a
		}
	}
	return nil
}

// byCreated ordena por fecha de creación ascendente y luego por ID.
func byCreated[T any](key func(T) (int64, string)) func(a, b T) int {
	return func(a, b T) int {
		ta, ia := key(a)
		tb, ib := key(b)
		if c := cmp.Compare(ta, tb); c != 0 {
			return c
		}
		return cmp.Compare(ia, ib)
	}
}

// byCreatedDesc ordena por fecha de creación descendente.
func byCreatedDesc[T any](key func(T) (int64, string)) func(a, b T) int {
	asc := byCreated(key)
	return func(a, b T) int { return asc(b, a) }
}
