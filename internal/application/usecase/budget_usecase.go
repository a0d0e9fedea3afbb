package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/topmei-api/internal/application/auth"
	"github.com/jhoicas/topmei-api/internal/application/dto"
	"github.com/jhoicas/topmei-api/internal/domain"
	"github.com/jhoicas/topmei-api/internal/domain/entity"
	"github.com/jhoicas/topmei-api/internal/domain/repository"
	"github.com/jhoicas/topmei-api/pkg/docbr"
	"github.com/jhoicas/topmei-api/pkg/logger"
)

const (
	defaultBudgetValidityDays = 15
	// MaxLogoSize tamaño máximo del logo del orçamento.
	MaxLogoSize = 5 << 20
)

// logoTypes extensiones aceptadas para el logo y su formato de imagen.
var logoTypes = map[string]string{".png": "png", ".jpg": "jpg", ".jpeg": "jpg"}

// BudgetUseCase gerador de orçamentos en PDF para los clientes de la empresa.
type BudgetUseCase struct {
	companies repository.CompanyRepository
	budgets   repository.BudgetRepository
	files     FileStore
	renderer  BudgetRenderer
	log       *logger.Logger
	now       func() time.Time
}

// NewBudgetUseCase construye el caso de uso.
func NewBudgetUseCase(companies repository.CompanyRepository, budgets repository.BudgetRepository, files FileStore, renderer BudgetRenderer, log *logger.Logger) *BudgetUseCase {
	return &BudgetUseCase{companies: companies, budgets: budgets, files: files, renderer: renderer, log: log, now: time.Now}
}

func (uc *BudgetUseCase) ownedCompany(ctx context.Context, s auth.Session, companyID string) (*entity.Company, error) {
	c, err := loadCompany(ctx, uc.companies, companyID)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(s, c); err != nil {
		return nil, err
	}
	return c, nil
}

// config configuración guardada o, si no existe, la derivada de los datos de la empresa.
func (uc *BudgetUseCase) config(ctx context.Context, c *entity.Company) (*entity.BudgetConfig, error) {
	cfg, err := uc.budgets.GetConfig(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	if cfg != nil && cfg.BusinessName != "" {
		return cfg, nil
	}
	def := &entity.BudgetConfig{
		CompanyID:           c.ID,
		BusinessName:        c.DisplayName(),
		Document:            docbr.FormatCNPJ(c.CNPJ),
		Phone:               c.Phone,
		Email:               c.Email,
		Address:             formatAddress(c.Address),
		DefaultValidityDays: defaultBudgetValidityDays,
	}
	if cfg != nil {
		// fila creada por la numeración o por el logo antes de guardar el membrete
		def.LastNumber = cfg.LastNumber
		def.LogoPath = cfg.LogoPath
		def.Template = cfg.Template
	}
	return def, nil
}

func formatAddress(a entity.Address) string {
	parts := make([]string, 0, 4)
	if a.Street != "" {
		street := a.Street
		if a.Number != "" {
			street += ", " + a.Number
		}
		parts = append(parts, street)
	}
	if a.District != "" {
		parts = append(parts, a.District)
	}
	if a.City != "" {
		city := a.City
		if a.State != "" {
			city += "/" + a.State
		}
		parts = append(parts, city)
	}
	if a.ZipCode != "" {
		parts = append(parts, "CEP "+a.ZipCode)
	}
	return strings.Join(parts, " - ")
}

// GetConfig membrete actual (pre-rellenado con los datos de la empresa). Dueño o equipo.
func (uc *BudgetUseCase) GetConfig(ctx context.Context, s auth.Session, companyID string) (*dto.BudgetConfigDTO, error) {
	c, err := loadCompany(ctx, uc.companies, companyID)
	if err != nil {
		return nil, err
	}
	if err := requireOwnerOrStaff(s, c); err != nil {
		return nil, err
	}
	cfg, err := uc.config(ctx, c)
	if err != nil {
		return nil, err
	}
	out := entityToBudgetConfigDTO(cfg)
	return &out, nil
}

// SaveConfig guarda el membrete. El último número no se modifica desde aquí.
func (uc *BudgetUseCase) SaveConfig(ctx context.Context, s auth.Session, companyID string, in dto.BudgetConfigDTO) (*dto.BudgetConfigDTO, error) {
	if blank(in.BusinessName) {
		return nil, fmt.Errorf("%w: nome da empresa é obrigatório", domain.ErrInvalidInput)
	}
	if in.DefaultValidityDays < 0 {
		return nil, fmt.Errorf("%w: validade inválida", domain.ErrInvalidInput)
	}
	template := strings.TrimSpace(in.Template)
	if template == "" {
		template = entity.BudgetTemplateClassic
	}
	if !entity.ValidBudgetTemplate(template) {
		return nil, fmt.Errorf("%w: modelo de orçamento %q inválido", domain.ErrInvalidInput, in.Template)
	}
	if _, err := uc.ownedCompany(ctx, s, companyID); err != nil {
		return nil, err
	}
	current, err := uc.budgets.GetConfig(ctx, companyID)
	if err != nil {
		return nil, err
	}
	validity := in.DefaultValidityDays
	if validity == 0 {
		validity = defaultBudgetValidityDays
	}
	cfg := &entity.BudgetConfig{
		CompanyID:           companyID,
		BusinessName:        strings.TrimSpace(in.BusinessName),
		Document:            in.Document,
		Phone:               in.Phone,
		Email:               in.Email,
		Address:             in.Address,
		Site:                strings.TrimSpace(in.Site),
		Slogan:              strings.TrimSpace(in.Slogan),
		Introduction:        strings.TrimSpace(in.Introduction),
		AboutUs:             strings.TrimSpace(in.AboutUs),
		Template:            template,
		FooterNotes:         in.FooterNotes,
		DefaultValidityDays: validity,
		UpdatedAt:           uc.now(),
	}
	// el logo sólo cambia por UploadLogo/RemoveLogo
	if current != nil {
		cfg.LogoPath = current.LogoPath
	}
	if err := uc.budgets.SaveConfig(ctx, cfg); err != nil {
		return nil, err
	}
	saved, err := uc.budgets.GetConfig(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if saved == nil {
		saved = cfg
	}
	out := entityToBudgetConfigDTO(saved)
	return &out, nil
}

func validateBudget(in dto.BudgetRequest) error {
	if blank(in.ClientName) {
		return fmt.Errorf("%w: nome do cliente é obrigatório", domain.ErrInvalidInput)
	}
	if len(in.Items) == 0 {
		return fmt.Errorf("%w: inclua pelo menos um item", domain.ErrInvalidInput)
	}
	for i, it := range in.Items {
		if blank(it.Description) {
			return fmt.Errorf("%w: item %d sem descrição", domain.ErrInvalidInput, i+1)
		}
		if !it.Quantity.IsPositive() {
			return fmt.Errorf("%w: item %d com quantidade inválida", domain.ErrInvalidInput, i+1)
		}
		if it.UnitPrice.IsNegative() {
			return fmt.Errorf("%w: item %d com valor negativo", domain.ErrInvalidInput, i+1)
		}
	}
	if in.ValidityDays < 0 {
		return fmt.Errorf("%w: validade inválida", domain.ErrInvalidInput)
	}
	return nil
}

// Generate numera el orçamento de forma atómica y renderiza el PDF.
func (uc *BudgetUseCase) Generate(ctx context.Context, s auth.Session, companyID string, in dto.BudgetRequest) (*dto.BudgetPDF, error) {
	if err := validateBudget(in); err != nil {
		return nil, err
	}
	c, err := uc.ownedCompany(ctx, s, companyID)
	if err != nil {
		return nil, err
	}
	cfg, err := uc.config(ctx, c)
	if err != nil {
		return nil, err
	}
	number, err := uc.budgets.NextNumber(ctx, companyID)
	if err != nil {
		return nil, err
	}
	validity := in.ValidityDays
	if validity == 0 {
		validity = cfg.DefaultValidityDays
	}
	if validity == 0 {
		validity = defaultBudgetValidityDays
	}
	now := uc.now()
	doc := &dto.BudgetDocument{
		Number:     number,
		IssuedAt:   now,
		ValidUntil: now.AddDate(0, 0, validity),
		Config:     entityToBudgetConfigDTO(cfg),
		Request:    in,
		Total:      decimal.Zero,
	}
	if cfg.LogoPath != "" {
		// sin logo el orçamento se emite igual
		logo, err := uc.files.Get(ctx, cfg.LogoPath)
		if err != nil {
			uc.log.Warn().Err(err).Str("company_id", companyID).Msg("budget: logo indisponível")
		} else {
			doc.Logo, doc.LogoExt = logo, logoTypes[strings.ToLower(filepath.Ext(cfg.LogoPath))]
		}
	}
	for _, it := range in.Items {
		sub := it.Quantity.Mul(it.UnitPrice).Round(2)
		doc.Lines = append(doc.Lines, dto.BudgetLine{BudgetItemDTO: it, Subtotal: sub})
		doc.Total = doc.Total.Add(sub)
	}
	data, err := uc.renderer.Render(doc)
	if err != nil {
		uc.log.Error().Err(err).Str("company_id", companyID).Int("number", number).Msg("budget: falha ao gerar PDF")
		return nil, fmt.Errorf("gerar orçamento: %w", err)
	}
	return &dto.BudgetPDF{Number: number, FileName: fmt.Sprintf("orcamento-%04d.pdf", number), Data: data}, nil
}

// UploadLogo guarda el logo (PNG o JPEG) y reemplaza el anterior.
func (uc *BudgetUseCase) UploadLogo(ctx context.Context, s auth.Session, companyID string, f dto.UploadFile) (*dto.BudgetConfigDTO, error) {
	ext := strings.ToLower(filepath.Ext(f.Name))
	if _, ok := logoTypes[ext]; !ok {
		return nil, fmt.Errorf("%w: formato não suportado, use PNG ou JPG", domain.ErrInvalidInput)
	}
	if len(f.Data) == 0 {
		return nil, fmt.Errorf("%w: arquivo vazio", domain.ErrInvalidInput)
	}
	if len(f.Data) > MaxLogoSize {
		return nil, fmt.Errorf("%w: arquivo maior que 5 MB", domain.ErrInvalidInput)
	}
	c, err := uc.ownedCompany(ctx, s, companyID)
	if err != nil {
		return nil, err
	}
	cfg, err := uc.config(ctx, c)
	if err != nil {
		return nil, err
	}
	old := cfg.LogoPath
	cfg.LogoPath = fmt.Sprintf("logos/%s%s", companyID, ext)
	cfg.UpdatedAt = uc.now()
	if err := uc.files.Put(ctx, cfg.LogoPath, f.Data); err != nil {
		return nil, fmt.Errorf("gravar logo: %w", err)
	}
	if err := uc.budgets.SaveConfig(ctx, cfg); err != nil {
		return nil, err
	}
	if old != "" && old != cfg.LogoPath {
		if err := uc.files.Delete(ctx, old); err != nil {
			uc.log.Warn().Err(err).Str("path", old).Msg("budget: falha ao remover logo anterior")
		}
	}
	out := entityToBudgetConfigDTO(cfg)
	return &out, nil
}

// RemoveLogo borra el logo. Sin logo es no-op.
func (uc *BudgetUseCase) RemoveLogo(ctx context.Context, s auth.Session, companyID string) error {
	if _, err := uc.ownedCompany(ctx, s, companyID); err != nil {
		return err
	}
	cfg, err := uc.budgets.GetConfig(ctx, companyID)
	if err != nil {
		return err
	}
	if cfg == nil || cfg.LogoPath == "" {
		return nil
	}
	old := cfg.LogoPath
	cfg.LogoPath = ""
	cfg.UpdatedAt = uc.now()
	if err := uc.budgets.SaveConfig(ctx, cfg); err != nil {
		return err
	}
	if err := uc.files.Delete(ctx, old); err != nil {
		uc.log.Warn().Err(err).Str("path", old).Msg("budget: falha ao remover logo")
	}
	return nil
}

// Logo contenido del logo para el dueño o el equipo.
func (uc *BudgetUseCase) Logo(ctx context.Context, s auth.Session, companyID string) (*dto.DownloadResponse, error) {
	c, err := loadCompany(ctx, uc.companies, companyID)
	if err != nil {
		return nil, err
	}
	if err := requireOwnerOrStaff(s, c); err != nil {
		return nil, err
	}
	cfg, err := uc.budgets.GetConfig(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if cfg == nil || cfg.LogoPath == "" {
		return nil, fmt.Errorf("%w: empresa sem logo", domain.ErrNotFound)
	}
	data, err := uc.files.Get(ctx, cfg.LogoPath)
	if err != nil {
		return nil, err
	}
	ct := "image/png"
	if logoTypes[strings.ToLower(filepath.Ext(cfg.LogoPath))] == "jpg" {
		ct = "image/jpeg"
	}
	return &dto.DownloadResponse{FileName: filepath.Base(cfg.LogoPath), ContentType: ct, Data: data}, nil
}

// ListConfigs membretes guardados de todas las empresas (equipo).
func (uc *BudgetUseCase) ListConfigs(ctx context.Context, s auth.Session, limit, offset int) ([]dto.BudgetConfigDTO, error) {
	if err := requireStaff(s); err != nil {
		return nil, err
	}
	list, err := uc.budgets.ListConfigs(ctx, clampLimit(limit), offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BudgetConfigDTO, 0, len(list))
	for _, c := range list {
		out = append(out, entityToBudgetConfigDTO(c))
	}
	return out, nil
}
