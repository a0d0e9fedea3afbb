package dto

import "time"

// DashboardSummaryDTO resumen por perfil. Los mapas van de estado a cantidad.
type DashboardSummaryDTO struct {
	Role                string         `json:"perfil"`
	Companies           map[string]int `json:"empresas"`
	Documents           map[string]int `json:"documentos"`
	Contracts           map[string]int `json:"servicos"`
	Invoices            map[string]int `json:"nfse"`
	PendingDocuments    int            `json:"documentos_pendentes"`
	OpenContracts       int            `json:"servicos_em_aberto"`
	UnreadNotifications int            `json:"notificacoes_nao_lidas"`
	ContractsAging      *AgingResponse `json:"aging_servicos,omitempty"`
	UsersByRole         map[string]int `json:"usuarios_por_perfil,omitempty"`
	InactiveUsers       int            `json:"usuarios_inativos,omitempty"`
	GeneratedAt         time.Time      `json:"gerado_em"`
}

// AuditEntryResponse entrada de auditoría.
type AuditEntryResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	CompanyID *string   `json:"empresa_id,omitempty"`
	Table     string    `json:"tabela"`
	Action    string    `json:"acao"`
	RecordID  string    `json:"registro_id"`
	Before    any       `json:"dados_anteriores,omitempty"`
	After     any       `json:"dados_novos,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
