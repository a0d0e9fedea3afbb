package usecase

import (
	"encoding/json"
	"time"

	"github.com/jhoicas/topmei-api/internal/application/dto"
	"github.com/jhoicas/topmei-api/internal/domain/entity"
)

func addressToDTO(a entity.Address) dto.AddressDTO {
	return dto.AddressDTO{
		Street: a.Street, Number: a.Number, Complement: a.Complement,
		District: a.District, City: a.City, State: a.State, ZipCode: a.ZipCode,
	}
}

func addressFromDTO(a dto.AddressDTO) entity.Address {
	return entity.Address{
		Street: a.Street, Number: a.Number, Complement: a.Complement,
		District: a.District, City: a.City, State: a.State, ZipCode: a.ZipCode,
	}
}

func entityToCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	if c == nil {
		return nil
	}
	return &dto.CompanyResponse{
		ID:                  c.ID,
		UserID:              c.UserID,
		CNPJ:                c.CNPJ,
		LegalName:           c.LegalName,
		TradeName:           c.TradeName,
		OwnerName:           c.OwnerName,
		OwnerCPF:            c.OwnerCPF,
		OwnerBirthDate:      c.OwnerBirthDate,
		OpeningDate:         c.OpeningDate,
		SimplesOptant:       c.SimplesOptant,
		SimeiOptant:         c.SimeiOptant,
		MainCNAE:            c.MainCNAE,
		MainCNAEDescription: c.MainCNAEDescription,
		Address:             addressToDTO(c.Address),
		Phone:               c.Phone,
		Email:               c.Email,
		TaxRegime:           c.TaxRegime,
		Status:              string(c.Status),
		RejectionReason:     c.RejectionReason,
		SuspensionReason:    c.SuspensionReason,
		ApprovedBy:          c.ApprovedBy,
		ApprovedAt:          c.ApprovedAt,
		CreatedAt:           c.CreatedAt,
		UpdatedAt:           c.UpdatedAt,
	}
}

func entityToSubscriptionResponse(s *entity.PlanSubscription) *dto.SubscriptionResponse {
	return &dto.SubscriptionResponse{
		ID:         s.ID,
		CompanyID:  s.CompanyID,
		PlanID:     s.PlanID,
		Price:      s.Price,
		Status:     string(s.Status),
		ValidFrom:  s.ValidFrom,
		ValidUntil: s.ValidUntil,
	}
}

func entityToDocumentTypeResponse(t *entity.DocumentType) dto.DocumentTypeResponse {
	return dto.DocumentTypeResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Mandatory:   t.Mandatory,
		Active:      t.Active,
	}
}

func entityToDocumentResponse(d *entity.Document) dto.DocumentResponse {
	return dto.DocumentResponse{
		ID:             d.ID,
		CompanyID:      d.CompanyID,
		DocumentTypeID: d.DocumentTypeID,
		Title:          d.Title,
		FileName:       d.FileName,
		SizeBytes:      d.SizeBytes,
		MimeType:       d.MimeType,
		Status:         string(d.Status),
		ReviewNote:     d.ReviewNote,
		UploadedBy:     d.UploadedBy,
		ReviewedBy:     d.ReviewedBy,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

func entityToPlanResponse(p *entity.Plan) dto.PlanResponse {
	features := p.Features
	if features == nil {
		features = []string{}
	}
	return dto.PlanResponse{
		ID:          p.ID,
		Kind:        p.Kind,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Features:    features,
		Recurrence:  p.Recurrence,
		Active:      p.Active,
	}
}

func entityToServiceResponse(s *entity.Service) dto.ServiceResponse {
	return dto.ServiceResponse{
		ID:           s.ID,
		Name:         s.Name,
		Description:  s.Description,
		Price:        s.Price,
		Discount:     s.Discount,
		FinalPrice:   s.FinalPrice(),
		DeadlineDays: s.DeadlineDays,
		Active:       s.Active,
	}
}

func entityToContractResponse(c *entity.ServiceContract, now time.Time) dto.ContractResponse {
	end := now
	switch {
	case c.CompletedAt != nil:
		end = *c.CompletedAt
	case !c.Status.Open():
		end = c.UpdatedAt
	}
	return dto.ContractResponse{
		ID:           c.ID,
		CompanyID:    c.CompanyID,
		ServiceID:    c.ServiceID,
		ContractedAt: c.ContractedAt,
		Price:        c.Price,
		Status:       string(c.Status),
		Note:         c.Note,
		Completed:    c.Completed,
		CompletedAt:  c.CompletedAt,
		DaysOpen:     wholeDays(c.ContractedAt, end),
	}
}

func entityToCertificateResponse(c *entity.DigitalCertificate, now time.Time) *dto.CertificateResponse {
	return &dto.CertificateResponse{
		ID:         c.ID,
		CompanyID:  c.CompanyID,
		Subject:    c.Subject,
		ValidUntil: c.ValidUntil,
		Active:     c.Active,
		Expired:    c.Expired(now),
		CreatedAt:  c.CreatedAt,
	}
}

func entityToInvoiceResponse(r *entity.InvoiceRequest) dto.InvoiceResponse {
	return dto.InvoiceResponse{
		ID:               r.ID,
		CompanyID:        r.CompanyID,
		RequestedBy:      r.RequestedBy,
		CompetenceDate:   r.CompetenceDate,
		TakerDocument:    r.Taker.Document,
		TakerName:        r.Taker.Name,
		TakerEmail:       r.Taker.Email,
		Description:      r.Description,
		ServiceValue:     r.ServiceValue,
		ISSRate:          r.ISSRate,
		ISSValue:         r.ISSValue(),
		Status:           string(r.Status),
		Number:           r.Number,
		VerificationCode: r.VerificationCode,
		IssuedAt:         r.IssuedAt,
		XMLURL:           r.XMLURL,
		PDFURL:           r.PDFURL,
		ErrorMessage:     r.ErrorMessage,
		CreatedAt:        r.CreatedAt,
	}
}

func entityToNotificationResponse(n *entity.Notification) dto.NotificationResponse {
	return dto.NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Link:      n.Link,
		Read:      n.Read,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}

// ToNotificationResponse mapeo público para el stream SSE.
func ToNotificationResponse(n *entity.Notification) dto.NotificationResponse {
	return entityToNotificationResponse(n)
}

func entityToBudgetConfigDTO(c *entity.BudgetConfig) dto.BudgetConfigDTO {
	out := dto.BudgetConfigDTO{
		CompanyID:           c.CompanyID,
		BusinessName:        c.BusinessName,
		Document:            c.Document,
		Phone:               c.Phone,
		Email:               c.Email,
		Address:             c.Address,
		Site:                c.Site,
		Slogan:              c.Slogan,
		Introduction:        c.Introduction,
		AboutUs:             c.AboutUs,
		Template:            c.Template,
		FooterNotes:         c.FooterNotes,
		DefaultValidityDays: c.DefaultValidityDays,
		LastNumber:          c.LastNumber,
	}
	if out.Template == "" {
		out.Template = entity.BudgetTemplateClassic
	}
	if c.LogoPath != "" {
		out.LogoURL = "/api/companies/" + c.CompanyID + "/budget-config/logo"
	}
	return out
}

func entityToAuditResponse(e *entity.AuditEntry) dto.AuditEntryResponse {
	out := dto.AuditEntryResponse{
		ID:        e.ID,
		UserID:    e.UserID,
		CompanyID: e.CompanyID,
		Table:     e.Table,
		Action:    e.Action,
		RecordID:  e.RecordID,
		CreatedAt: e.CreatedAt,
	}
	if len(e.Before) > 0 {
		out.Before = json.RawMessage(e.Before)
	}
	if len(e.After) > 0 {
		out.After = json.RawMessage(e.After)
	}
	return out
}

// wholeDays días completos entre from y to (0 si to es anterior).
func wholeDays(from, to time.Time) int {
	d := int(to.Sub(from).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}
