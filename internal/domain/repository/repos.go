package repository

import (
	"context"
	"fmt"

	"github.com/jhoicas/topmei-api/internal/domain"
)

// ErrStatusChanged el UPDATE condicionado al status leído no encontró la fila en ese status:
// otra transacción la cambió antes.
var ErrStatusChanged = fmt.Errorf("%w: registro alterado por outra operação", domain.ErrConflict)

// Repos agrupa los puertos de persistencia atados a un mismo Querier (pool o transacción).
type Repos struct {
	Users         UserRepository
	Roles         RoleRepository
	Resets        PasswordResetRepository
	Companies     CompanyRepository
	DocumentTypes DocumentTypeRepository
	Documents     DocumentRepository
	Plans         PlanRepository
	Services      ServiceRepository
	Subscriptions SubscriptionRepository
	Contracts     ContractRepository
	Certificates  CertificateRepository
	Invoices      InvoiceRequestRepository
	Notifications NotificationRepository
	Budgets       BudgetRepository
	Audit         AuditRepository
}

// TxRunner ejecuta fn con repos atados a una transacción; error de fn = Rollback.
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
}
