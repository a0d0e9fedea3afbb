package dto

const (
	// DefaultPageLimit tamaño de página cuando el cliente no lo indica.
	DefaultPageLimit = 20
	// MaxPageLimit tope de filas por página en los listados de staff.
	MaxPageLimit = 100
)

// PageRequest paginación de listados (?limit=&offset=).
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// DefaultPage normaliza Limit a [1, MaxPageLimit] y Offset a >= 0.
func (p *PageRequest) DefaultPage() {
	switch {
	case p.Limit <= 0:
		p.Limit = DefaultPageLimit
	case p.Limit > MaxPageLimit:
		p.Limit = MaxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse eco de la página pedida.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// MessageResponse confirmación sin datos.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse cuerpo de error HTTP. Code es estable para el front end; Message va en português.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
