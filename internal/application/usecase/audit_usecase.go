package usecase

import (
	"context"

	"github.com/jhoicas/topmei-api/internal/application/auth"
	"github.com/jhoicas/topmei-api/internal/application/dto"
	"github.com/jhoicas/topmei-api/internal/domain/repository"
)

// AuditUseCase consulta de la trilha de auditoria (administrador).
type AuditUseCase struct {
	repo repository.AuditRepository
}

// NewAuditUseCase construye el caso de uso.
func NewAuditUseCase(repo repository.AuditRepository) *AuditUseCase {
	return &AuditUseCase{repo: repo}
}

// List entradas más recientes primero.
func (uc *AuditUseCase) List(ctx context.Context, s auth.Session, limit, offset int) ([]dto.AuditEntryResponse, error) {
	if err := requireAdmin(s); err != nil {
		return nil, err
	}
	list, err := uc.repo.List(ctx, clampLimit(limit), max(offset, 0))
	if err != nil {
		return nil, err
	}
	out := make([]dto.AuditEntryResponse, 0, len(list))
	for _, e := range list {
		out = append(out, entityToAuditResponse(e))
	}
	return out, nil
}
