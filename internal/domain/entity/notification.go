package entity

import "time"

// Tipos de notificación.
const (
	NotificationCompanyApproved  = "cadastro_aprovado"
	NotificationCompanyRejected  = "cadastro_rejeitado"
	NotificationCompanySuspended = "cadastro_suspenso"
	NotificationCompanySubmitted = "cadastro_enviado"
	NotificationDocumentApproved = "documento_aprovado"
	NotificationDocumentRejected = "documento_rejeitado"
	NotificationDocumentUploaded = "documento_enviado"
	NotificationServiceUpdated   = "servico_atualizado"
	NotificationServiceOrdered   = "servico_contratado"
	NotificationInvoiceRequested = "nfse_solicitada"
	NotificationInvoiceIssued    = "nfse_emitida"
	NotificationInvoiceError     = "nfse_erro"
	NotificationInvoiceCancelled = "nfse_cancelada"
)

// Notification aviso para un usuario. Read y Viewed sólo se marcan una vez.
type Notification struct {
	ID        string
	UserID    string
	Type      string
	Title     string
	Message   string
	Link      string
	Read      bool
	ReadAt    *time.Time
	Viewed    bool
	ViewedAt  *time.Time
	CreatedAt time.Time
}
