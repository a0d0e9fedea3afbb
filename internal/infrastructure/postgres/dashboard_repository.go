package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/topmei-api/internal/domain/repository"
)

var _ repository.DashboardRepository = (*DashboardRepo)(nil)

// DashboardRepo consultas de solo lectura para los resúmenes del dashboard.
// userID vacío = todas las empresas.
type DashboardRepo struct {
	pool *pgxpool.Pool
}

// NewDashboardRepository construye el adaptador de dashboard.
func NewDashboardRepository(pool *pgxpool.Pool) *DashboardRepo {
	return &DashboardRepo{pool: pool}
}

func (r *DashboardRepo) countBy(ctx context.Context, name, query string, args ...any) ([]repository.StatusCount, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("dashboard.%s: %w", name, err)
	}
	defer rows.Close()

	var results []repository.StatusCount
	for rows.Next() {
		var row repository.StatusCount
		if err := rows.Scan(&row.Status, &row.Count); err != nil {
			return nil, fmt.Errorf("dashboard.%s scan: %w", name, err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// CompaniesByStatus empresas por estado.
func (r *DashboardRepo) CompaniesByStatus(ctx context.Context, userID string) ([]repository.StatusCount, error) {
	return r.countBy(ctx, "CompaniesByStatus", `
	SELECT e.status, COUNT(*)
	FROM empresa e
	WHERE ($1::text = '' OR e.user_id::text = $1::text)
	GROUP BY e.status`, userID)
}

// DocumentsByStatus documentos por estado.
func (r *DashboardRepo) DocumentsByStatus(ctx context.Context, userID string) ([]repository.StatusCount, error) {
	return r.countBy(ctx, "DocumentsByStatus", `
	SELECT d.status, COUNT(*)
	FROM documentos_empresa d
	JOIN empresa e ON e.id = d.empresa_id
	WHERE ($1::text = '' OR e.user_id::text = $1::text)
	GROUP BY d.status`, userID)
}

// ContractsByStatus serviços contratados por estado. El legado "ativo" cuenta como pendente.
func (r *DashboardRepo) ContractsByStatus(ctx context.Context, userID string) ([]repository.StatusCount, error) {
	return r.countBy(ctx, "ContractsByStatus", `
	SELECT CASE WHEN s.status = 'ativo' THEN 'pendente' ELSE s.status END AS st, COUNT(*)
	FROM empresa_servicos s
	JOIN empresa e ON e.id = s.empresa_id
	WHERE ($1::text = '' OR e.user_id::text = $1::text)
	GROUP BY st`, userID)
}

// InvoicesByStatus solicitações de NFS-e por estado.
func (r *DashboardRepo) InvoicesByStatus(ctx context.Context, userID string) ([]repository.StatusCount, error) {
	return r.countBy(ctx, "InvoicesByStatus", `
	SELECT n.status, COUNT(*)
	FROM nfse n
	JOIN empresa e ON e.id = n.empresa_id
	WHERE ($1::text = '' OR e.user_id::text = $1::text)
	GROUP BY n.status`, userID)
}

// PendingMandatoryDocuments pares (empresa viva, tipo obligatorio) sin documento en análise ni aprovado.
func (r *DashboardRepo) PendingMandatoryDocuments(ctx context.Context, userID string) (int, error) {
	const query = `
	SELECT COUNT(*)
	FROM empresa e
	CROSS JOIN tipo_documentos t
	WHERE e.user_id::text = $1
	  AND e.status <> 'inativo'
	  AND t.ativo AND t.obrigatorio
	  AND NOT EXISTS (
	      SELECT 1 FROM documentos_empresa d
	      WHERE d.empresa_id = e.id
	        AND d.tipo_documento_id = t.id
	        AND d.status IN ('aguardando_aprovacao', 'aprovado')
	  )`
	var n int
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("dashboard.PendingMandatoryDocuments: %w", err)
	}
	return n, nil
}

// UsersByRole asignaciones activas por perfil.
func (r *DashboardRepo) UsersByRole(ctx context.Context) ([]repository.StatusCount, error) {
	return r.countBy(ctx, "UsersByRole", `
	SELECT p.perfil, COUNT(DISTINCT p.user_id)
	FROM user_perfis p
	WHERE p.ativo
	GROUP BY p.perfil`)
}

// InactiveUsers cuentas desactivadas.
func (r *DashboardRepo) InactiveUsers(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE NOT active`).Scan(&n); err != nil {
		return 0, fmt.Errorf("dashboard.InactiveUsers: %w", err)
	}
	return n, nil
}
