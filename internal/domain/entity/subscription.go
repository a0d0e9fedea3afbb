package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/topmei-api/internal/domain/workflow"
)

// PlanSubscription assinatura de un plano por una empresa.
type PlanSubscription struct {
	ID         string
	CompanyID  string
	PlanID     string
	Price      decimal.Decimal
	Status     workflow.SubscriptionStatus
	ValidFrom  time.Time
	ValidUntil *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ServiceContract serviço contratado. Completed se deriva de Status y se persiste junto.
type ServiceContract struct {
	ID           string
	CompanyID    string
	ServiceID    string
	ContractedAt time.Time
	Price        decimal.Decimal
	Status       workflow.ContractStatus
	Note         string
	Completed    bool
	CompletedAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SetStatus cambia el estado y sincroniza Completed/CompletedAt.
func (c *ServiceContract) SetStatus(s workflow.ContractStatus, now time.Time) {
	c.Status = s
	c.Completed = s.Completed()
	if c.Completed {
		if c.CompletedAt == nil {
			c.CompletedAt = &now
		}
	} else {
		c.CompletedAt = nil
	}
	c.UpdatedAt = now
}
