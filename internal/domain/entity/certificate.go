package entity

import "time"

// DigitalCertificate certificado A1 (.pfx/.p12) de la empresa para emisión de NFS-e.
type DigitalCertificate struct {
	ID          string
	CompanyID   string
	UserID      string
	StoragePath string
	Password    string
	ValidUntil  *time.Time
	Subject     string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Expired vencido en la fecha dada. Sin fecha de validez no se considera vencido.
func (c *DigitalCertificate) Expired(now time.Time) bool {
	return c.ValidUntil != nil && c.ValidUntil.Before(now)
}
