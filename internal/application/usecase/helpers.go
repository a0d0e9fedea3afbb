package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/topmei-api/internal/application/auth"
	"github.com/jhoicas/topmei-api/internal/domain"
	"github.com/jhoicas/topmei-api/internal/domain/entity"
	"github.com/jhoicas/topmei-api/internal/domain/repository"
)

const (
	defaultLimit = 50
	maxLimit     = 200
	dateLayout   = "2006-01-02"
)

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

// loadCompany devuelve la empresa o domain.ErrNotFound.
func loadCompany(ctx context.Context, repo repository.CompanyRepository, id string) (*entity.Company, error) {
	c, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: empresa %s", domain.ErrNotFound, id)
	}
	return c, nil
}

// lockCompany como loadCompany pero con la fila bloqueada hasta el fin de la transacción.
func lockCompany(ctx context.Context, repo repository.CompanyRepository, id string) (*entity.Company, error) {
	c, err := repo.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: empresa %s", domain.ErrNotFound, id)
	}
	return c, nil
}

func requireOwner(s auth.Session, c *entity.Company) error {
	if c.UserID != s.UserID {
		return fmt.Errorf("%w: empresa de outro usuário", domain.ErrForbidden)
	}
	return nil
}

func requireOwnerOrStaff(s auth.Session, c *entity.Company) error {
	if s.Staff() || c.UserID == s.UserID {
		return nil
	}
	return fmt.Errorf("%w: empresa de outro usuário", domain.ErrForbidden)
}

func requireStaff(s auth.Session) error {
	if !s.Staff() {
		return fmt.Errorf("%w: apenas contador ou administrador", domain.ErrForbidden)
	}
	return nil
}

func requireAdmin(s auth.Session) error {
	if !s.Is(entity.RoleAdministrator) {
		return fmt.Errorf("%w: apenas administrador", domain.ErrForbidden)
	}
	return nil
}

// auditEntry arma una entrada de auditoría con before/after en JSON (nil se omite).
func auditEntry(actorID string, companyID *string, table, action, recordID string, before, after any) *entity.AuditEntry {
	return &entity.AuditEntry{
		ID:        uuid.New().String(),
		UserID:    actorID,
		CompanyID: companyID,
		Table:     table,
		Action:    action,
		RecordID:  recordID,
		Before:    rawJSON(before),
		After:     rawJSON(after),
		CreatedAt: time.Now(),
	}
}

func rawJSON(v any) json.RawMessage {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return b
}

func parseDate(raw, field string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s deve estar no formato AAAA-MM-DD", domain.ErrInvalidInput, field)
	}
	return &t, nil
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }
