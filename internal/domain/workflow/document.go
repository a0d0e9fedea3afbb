package workflow

// DocumentStatus estado de revisión de un documento enviado.
type DocumentStatus string

const (
	DocumentAwaiting DocumentStatus = "aguardando_aprovacao"
	DocumentApproved DocumentStatus = "aprovado"
	DocumentRejected DocumentStatus = "rejeitado"
)

var DocumentStatuses = []DocumentStatus{DocumentAwaiting, DocumentApproved, DocumentRejected}

var documentTransitions = map[DocumentStatus][]DocumentStatus{
	DocumentAwaiting: {DocumentApproved, DocumentRejected},
	DocumentApproved: nil,
	DocumentRejected: nil,
}

func (s DocumentStatus) targets() []DocumentStatus { return documentTransitions[s] }

// ParseDocumentStatus convierte el valor de la base en enum.
func ParseDocumentStatus(raw string) (DocumentStatus, error) {
	return parse("documento", raw, DocumentStatuses)
}

// BlocksResubmission un documento en este estado impide enviar otro del mismo tipo.
func (s DocumentStatus) BlocksResubmission() bool {
	return s == DocumentAwaiting || s == DocumentApproved
}
