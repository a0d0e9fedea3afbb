package entity

import "time"

// Modelos de layout del PDF de orçamento.
const (
	BudgetTemplateClassic = "classico"
	BudgetTemplateModern  = "moderno"
	BudgetTemplateMinimal = "minimalista"
)

// BudgetTemplates modelos disponibles, el primero es el predeterminado.
var BudgetTemplates = []string{BudgetTemplateClassic, BudgetTemplateModern, BudgetTemplateMinimal}

// ValidBudgetTemplate informa si t es un modelo conocido.
func ValidBudgetTemplate(t string) bool {
	for _, x := range BudgetTemplates {
		if x == t {
			return true
		}
	}
	return false
}

// BudgetConfig membrete del gerador de orçamentos de una empresa y su numeración.
type BudgetConfig struct {
	CompanyID           string
	BusinessName        string
	Document            string
	Phone               string
	Email               string
	Address             string
	Site                string
	Slogan              string
	Introduction        string
	AboutUs             string
	Template            string
	LogoPath            string
	FooterNotes         string
	DefaultValidityDays int
	LastNumber          int
	UpdatedAt           time.Time
}
