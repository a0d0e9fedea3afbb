package postgres

import "github.com/jhoicas/topmei-api/internal/domain/repository"

// NewRepos construye todos los repositorios sobre el mismo Querier (pool o tx).
func NewRepos(q Querier) repository.Repos {
	return repository.Repos{
		Users:         NewUserRepository(q),
		Roles:         NewRoleRepository(q),
		Resets:        NewPasswordResetRepository(q),
		Companies:     NewCompanyRepository(q),
		DocumentTypes: NewDocumentTypeRepository(q),
		Documents:     NewDocumentRepository(q),
		Plans:         NewPlanRepository(q),
		Services:      NewServiceRepository(q),
		Subscriptions: NewSubscriptionRepository(q),
		Contracts:     NewContractRepository(q),
		Certificates:  NewCertificateRepository(q),
		Invoices:      NewInvoiceRequestRepository(q),
		Notifications: NewNotificationRepository(q),
		Budgets:       NewBudgetRepository(q),
		Audit:         NewAuditRepository(q),
	}
}
