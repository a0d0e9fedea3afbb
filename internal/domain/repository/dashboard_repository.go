package repository

import "context"

// StatusCount conteo crudo por estado (o por perfil).
type StatusCount struct {
	Status string
	Count  int
}

// DashboardRepository consultas de lectura para los resúmenes del dashboard.
// Las implementaciones son read-only. userID vacío = todas las empresas.
type DashboardRepository interface {
	CompaniesByStatus(ctx context.Context, userID string) ([]StatusCount, error)
	DocumentsByStatus(ctx context.Context, userID string) ([]StatusCount, error)
	ContractsByStatus(ctx context.Context, userID string) ([]StatusCount, error)
	InvoicesByStatus(ctx context.Context, userID string) ([]StatusCount, error)
	// PendingMandatoryDocuments tipos obligatorios sin documento aprovado ni en revisión, sumados por empresa del usuario.
	PendingMandatoryDocuments(ctx context.Context, userID string) (int, error)
	UsersByRole(ctx context.Context) ([]StatusCount, error)
	InactiveUsers(ctx context.Context) (int, error)
}
