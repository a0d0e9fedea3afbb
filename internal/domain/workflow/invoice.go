package workflow

// InvoiceStatus estado de una solicitação de NFS-e.
type InvoiceStatus string

const (
	InvoicePending    InvoiceStatus = "pendente"
	InvoiceProcessing InvoiceStatus = "processando"
	InvoiceIssued     InvoiceStatus = "emitida"
	InvoiceError      InvoiceStatus = "erro"
	InvoiceCancelled  InvoiceStatus = "cancelada"
)

var InvoiceStatuses = []InvoiceStatus{InvoicePending, InvoiceProcessing, InvoiceIssued, InvoiceError, InvoiceCancelled}

var invoiceTransitions = map[InvoiceStatus][]InvoiceStatus{
	InvoicePending:    {InvoiceProcessing, InvoiceCancelled},
	InvoiceProcessing: {InvoiceIssued, InvoiceError},
	InvoiceError:      {InvoiceProcessing, InvoiceCancelled},
	InvoiceIssued:     nil,
	InvoiceCancelled:  nil,
}

func (s InvoiceStatus) targets() []InvoiceStatus { return invoiceTransitions[s] }

// ParseInvoiceStatus convierte el valor de la base en enum.
func ParseInvoiceStatus(raw string) (InvoiceStatus, error) {
	return parse("nfse", raw, InvoiceStatuses)
}
