package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/topmei-api/internal/domain"
	"github.com/jhoicas/topmei-api/internal/domain/entity"
	"github.com/jhoicas/topmei-api/internal/domain/repository"
)

var (
	_ repository.UserRepository          = (*UserRepo)(nil)
	_ repository.RoleRepository          = (*RoleRepo)(nil)
	_ repository.PasswordResetRepository = (*PasswordResetRepo)(nil)
)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios. Pasar pool o tx.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

const userColumns = `id, email, password_hash, name, active, created_at, updated_at`

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Active, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create persiste un nuevo usuario.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, name, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		user.ID, strings.ToLower(user.Email), user.PasswordHash, user.Name, user.Active,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// FindByEmail busca por email sin distinguir mayúsculas.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, strings.ToLower(email)))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// List usuarios paginados por fecha de alta.
func (r *UserRepo) List(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	rows, err := r.q.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return collect(rows, scanUser)
}

// SetActive activa o desactiva la cuenta.
func (r *UserRepo) SetActive(ctx context.Context, id string, active bool) error {
	cmd, err := r.q.Exec(ctx, `UPDATE users SET active = $2, updated_at = NOW() WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("update user active: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// UpdatePassword reemplaza el hash de la contraseña.
func (r *UserRepo) UpdatePassword(ctx context.Context, id, passwordHash string, at time.Time) error {
	cmd, err := r.q.Exec(ctx, `UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1`, id, passwordHash, at)
	if err != nil {
		return fmt.Errorf("update user password: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// PasswordResetRepo tokens de redefinición (password_resets).
type PasswordResetRepo struct {
	q Querier
}

// NewPasswordResetRepository construye el adaptador. Pasar pool o tx.
func NewPasswordResetRepository(q Querier) *PasswordResetRepo {
	return &PasswordResetRepo{q: q}
}

// Create persiste una solicitud de redefinición.
func (r *PasswordResetRepo) Create(ctx context.Context, p *entity.PasswordReset) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO password_resets (id, user_id, token_hash, expires_at, used_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.UserID, p.TokenHash, p.ExpiresAt, p.UsedAt, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert password reset: %w", err)
	}
	return nil
}

// GetByTokenHashForUpdate busca por hash del token y bloquea la fila.
func (r *PasswordResetRepo) GetByTokenHashForUpdate(ctx context.Context, tokenHash string) (*entity.PasswordReset, error) {
	var p entity.PasswordReset
	err := r.q.QueryRow(ctx, `
		SELECT id, user_id, token_hash, expires_at, used_at, created_at
		FROM password_resets WHERE token_hash = $1 FOR UPDATE`, tokenHash,
	).Scan(&p.ID, &p.UserID, &p.TokenHash, &p.ExpiresAt, &p.UsedAt, &p.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get password reset: %w", err)
	}
	return &p, nil
}

// ConsumeByUser invalida los tokens pendientes del usuario.
func (r *PasswordResetRepo) ConsumeByUser(ctx context.Context, userID string, at time.Time) error {
	_, err := r.q.Exec(ctx, `UPDATE password_resets SET used_at = $2 WHERE user_id = $1 AND used_at IS NULL`, userID, at)
	if err != nil {
		return fmt.Errorf("consume password resets: %w", err)
	}
	return nil
}

// RoleRepo asignaciones de perfil (user_perfis).
type RoleRepo struct {
	q Querier
}

// NewRoleRepository construye el adaptador. Pasar pool o tx.
func NewRoleRepository(q Querier) *RoleRepo {
	return &RoleRepo{q: q}
}

func scanRole(row pgx.Row) (*entity.RoleAssignment, error) {
	var a entity.RoleAssignment
	var role string
	if err := row.Scan(&a.ID, &a.UserID, &role, &a.Active, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.Role = entity.Role(role)
	return &a, nil
}

// Assign inserta una asignación.
func (r *RoleRepo) Assign(ctx context.Context, a *entity.RoleAssignment) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO user_perfis (id, user_id, perfil, ativo, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		a.ID, a.UserID, string(a.Role), a.Active, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert user_perfis: %w", err)
	}
	return nil
}

// ListByUser todas las asignaciones del usuario.
func (r *RoleRepo) ListByUser(ctx context.Context, userID string) ([]*entity.RoleAssignment, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, user_id, perfil, ativo, created_at
		FROM user_perfis WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("list user_perfis: %w", err)
	}
	return collect(rows, scanRole)
}

// ListActive asignaciones activas de todo el sistema.
func (r *RoleRepo) ListActive(ctx context.Context) ([]*entity.RoleAssignment, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, user_id, perfil, ativo, created_at
		FROM user_perfis WHERE ativo ORDER BY user_id, created_at`)
	if err != nil {
		return nil, fmt.Errorf("list active user_perfis: %w", err)
	}
	return collect(rows, scanRole)
}

// ListActiveUserIDs usuarios activos con el perfil indicado.
func (r *RoleRepo) ListActiveUserIDs(ctx context.Context, role entity.Role) ([]string, error) {
	rows, err := r.q.Query(ctx, `
		SELECT DISTINCT p.user_id
		FROM user_perfis p
		JOIN users u ON u.id = p.user_id
		WHERE p.perfil = $1 AND p.ativo AND u.active
		ORDER BY p.user_id`, string(role))
	if err != nil {
		return nil, fmt.Errorf("list users by role: %w", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// DeactivateAll desactiva todas las asignaciones del usuario.
func (r *RoleRepo) DeactivateAll(ctx context.Context, userID string) error {
	if _, err := r.q.Exec(ctx, `UPDATE user_perfis SET ativo = FALSE WHERE user_id = $1 AND ativo`, userID); err != nil {
		return fmt.Errorf("deactivate user_perfis: %w", err)
	}
	return nil
}
