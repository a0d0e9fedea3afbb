package workflow

// CompanyStatus estado del cadastro de la empresa.
type CompanyStatus string

const (
	CompanyPending          CompanyStatus = "pendente"
	CompanyAwaitingApproval CompanyStatus = "aguardando_aprovacao"
	CompanyActive           CompanyStatus = "ativa"
	CompanySuspended        CompanyStatus = "suspensa"
	CompanyRejected         CompanyStatus = "rejeitado"
	CompanyInactive         CompanyStatus = "inativo"
)

// CompanyStatuses todos los valores válidos.
var CompanyStatuses = []CompanyStatus{
	CompanyPending, CompanyAwaitingApproval, CompanyActive,
	CompanySuspended, CompanyRejected, CompanyInactive,
}

var companyTransitions = map[CompanyStatus][]CompanyStatus{
	CompanyPending:          {CompanyAwaitingApproval, CompanyInactive},
	CompanyAwaitingApproval: {CompanyActive, CompanyRejected, CompanyInactive},
	CompanyActive:           {CompanySuspended, CompanyInactive},
	CompanySuspended:        {CompanyActive, CompanyInactive},
	CompanyRejected:         {CompanyInactive},
	CompanyInactive:         nil,
}

func (s CompanyStatus) targets() []CompanyStatus { return companyTransitions[s] }

// ParseCompanyStatus convierte el valor de la base en enum.
func ParseCompanyStatus(raw string) (CompanyStatus, error) {
	return parse("empresa", raw, CompanyStatuses)
}

// Live indica si la empresa bloquea un nuevo cadastro con el mismo CNPJ.
func (s CompanyStatus) Live() bool {
	switch s {
	case CompanyPending, CompanyAwaitingApproval, CompanyActive, CompanySuspended:
		return true
	}
	return false
}

// DocumentState estado mínimo de un documento para evaluar la activación.
type DocumentState struct {
	TypeID string
	Status DocumentStatus
}

// MissingMandatory devuelve, en el orden recibido, los tipos obligatorios sin documento aprovado.
func MissingMandatory(mandatoryTypeIDs []string, docs []DocumentState) []string {
	approved := make(map[string]bool, len(docs))
	for _, d := range docs {
		if d.Status == DocumentApproved {
			approved[d.TypeID] = true
		}
	}
	var missing []string
	for _, id := range mandatoryTypeIDs {
		if !approved[id] {
			missing = append(missing, id)
		}
	}
	return missing
}

// CanActivate una empresa sólo pasa a ativa con todos los obligatorios aprovados.
func CanActivate(mandatoryTypeIDs []string, docs []DocumentState) bool {
	return len(MissingMandatory(mandatoryTypeIDs, docs)) == 0
}
