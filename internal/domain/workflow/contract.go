package workflow

// ContractStatus estado de un serviço contratado.
type ContractStatus string

const (
	ContractPending    ContractStatus = "pendente"
	ContractInProgress ContractStatus = "em_andamento"
	ContractCompleted  ContractStatus = "concluido"
	ContractCancelled  ContractStatus = "cancelado"

	// contractLegacyActive filas antiguas anteriores al flujo de ejecución.
	contractLegacyActive = "ativo"
)

var ContractStatuses = []ContractStatus{ContractPending, ContractInProgress, ContractCompleted, ContractCancelled}

var contractTransitions = map[ContractStatus][]ContractStatus{
	ContractPending:    {ContractInProgress, ContractCompleted, ContractCancelled},
	ContractInProgress: {ContractCompleted, ContractCancelled},
	ContractCompleted:  nil,
	ContractCancelled:  nil,
}

func (s ContractStatus) targets() []ContractStatus { return contractTransitions[s] }

// ParseContractStatus convierte el valor de la base en enum. "ativo" se lee como pendente.
func ParseContractStatus(raw string) (ContractStatus, error) {
	if raw == contractLegacyActive {
		return ContractPending, nil
	}
	return parse("contrato", raw, ContractStatuses)
}

// Normalize "ativo" pasa a pendente; el resto queda igual.
func (s ContractStatus) Normalize() ContractStatus {
	if s == contractLegacyActive {
		return ContractPending
	}
	return s
}

// StoredValues valores de la columna status que se leen como s.
func (s ContractStatus) StoredValues() []string {
	if s == ContractPending {
		return []string{string(ContractPending), contractLegacyActive}
	}
	return []string{string(s)}
}

// OpenContractValues valores almacenados que cuentan como contrato abierto, legado incluido.
func OpenContractValues() []string {
	return []string{string(ContractPending), string(ContractInProgress), contractLegacyActive}
}

// Open contrato todavía en ejecución (cuenta para duplicados y aging).
func (s ContractStatus) Open() bool {
	s = s.Normalize()
	return s == ContractPending || s == ContractInProgress
}

// Completed el flag concluído se deriva del estado.
func (s ContractStatus) Completed() bool {
	return s == ContractCompleted
}
