// Package cnpj consulta los datos cadastrais de un CNPJ en proveedores públicos.
// Se intenta el proveedor primario (formato open.cnpja.com) y, si falla, el
// fallback (formato receitaws.com.br).
package cnpj

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/topmei-api/internal/application/dto"
	"github.com/jhoicas/topmei-api/internal/application/usecase"
	"github.com/jhoicas/topmei-api/internal/domain"
	"github.com/jhoicas/topmei-api/pkg/config"
	"github.com/jhoicas/topmei-api/pkg/docbr"
	"github.com/jhoicas/topmei-api/pkg/logger"
)

const (
	SourcePrimary  = "cnpja"
	SourceFallback = "receitaws"

	maxBody = 1 << 20
)

var _ usecase.CNPJLookup = (*Client)(nil)

// errNotFound el proveedor respondió 404 para el CNPJ.
var errNotFound = errors.New("cnpj não encontrado no provedor")

// Client implementa usecase.CNPJLookup sobre HTTP.
type Client struct {
	httpClient  *http.Client
	primaryURL  string
	fallbackURL string
	log         *logger.Logger
}

// NewClient construye el cliente a partir de la configuración. Las URLs llevan %s para el CNPJ.
func NewClient(cfg config.CNPJConfig, log *logger.Logger) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		primaryURL:  cfg.PrimaryURL,
		fallbackURL: cfg.FallbackURL,
		log:         log,
	}
}

// Lookup consulta primero el primario. Cualquier fallo (red, status, JSON) pasa al fallback.
func (c *Client) Lookup(ctx context.Context, cnpj string) (*dto.CNPJInfo, error) {
	cnpj = docbr.Normalize(cnpj)

	var primaryErr error
	if c.primaryURL != "" {
		var payload openCNPJA
		primaryErr = c.fetch(ctx, c.primaryURL, cnpj, &payload)
		if primaryErr == nil {
			info := payload.toInfo()
			if info.CNPJ == "" {
				info.CNPJ = cnpj
			}
			return info, nil
		}
		c.log.Warn().Err(primaryErr).Str("cnpj", cnpj).Msg("cnpj: provedor primário falhou, tentando fallback")
	}

	if c.fallbackURL == "" {
		return nil, mapErr(primaryErr)
	}
	var payload receitaWS
	if err := c.fetch(ctx, c.fallbackURL, cnpj, &payload); err != nil {
		c.log.Error().Err(err).Str("cnpj", cnpj).Msg("cnpj: provedor fallback falhou")
		return nil, mapErr(err)
	}
	if strings.EqualFold(payload.Status, "ERROR") {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, nonEmpty(payload.Message, "CNPJ não encontrado"))
	}
	info := payload.toInfo()
	if info.CNPJ == "" {
		info.CNPJ = cnpj
	}
	return info, nil
}

func (c *Client) fetch(ctx context.Context, tmpl, cnpj string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf(tmpl, cnpj), nil)
	if err != nil {
		return fmt.Errorf("montar requisição: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("requisição: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return fmt.Errorf("ler resposta: %w", err)
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return errNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decodificar resposta: %w", err)
	}
	return nil
}

func mapErr(err error) error {
	if errors.Is(err, errNotFound) {
		return fmt.Errorf("%w: CNPJ não encontrado", domain.ErrNotFound)
	}
	return fmt.Errorf("%w: não foi possível consultar o CNPJ", domain.ErrUpstream)
}

// ── Formato open.cnpja.com ─────────────────────────────────────────────────────

type openCNPJA struct {
	TaxID   string `json:"taxId"`
	Alias   string `json:"alias"`
	Founded string `json:"founded"`
	Company struct {
		Name    string `json:"name"`
		Simples struct {
			Optant bool `json:"optant"`
		} `json:"simples"`
		Simei struct {
			Optant bool `json:"optant"`
		} `json:"simei"`
	} `json:"company"`
	Status struct {
		Text string `json:"text"`
	} `json:"status"`
	Address struct {
		Street   string `json:"street"`
		Number   string `json:"number"`
		Details  string `json:"details"`
		District string `json:"district"`
		City     string `json:"city"`
		State    string `json:"state"`
		Zip      string `json:"zip"`
	} `json:"address"`
	MainActivity   activity   `json:"mainActivity"`
	SideActivities []activity `json:"sideActivities"`
	Phones         []struct {
		Area   string `json:"area"`
		Number string `json:"number"`
	} `json:"phones"`
	Emails []struct {
		Address string `json:"address"`
	} `json:"emails"`
}

type activity struct {
	ID   json.Number `json:"id"`
	Text string      `json:"text"`
}

func (p *openCNPJA) toInfo() *dto.CNPJInfo {
	info := &dto.CNPJInfo{
		CNPJ:                docbr.Normalize(p.TaxID),
		LegalName:           p.Company.Name,
		TradeName:           p.Alias,
		OpeningDate:         p.Founded,
		RegistryStatus:      p.Status.Text,
		MainCNAE:            p.MainActivity.ID.String(),
		MainCNAEDescription: p.MainActivity.Text,
		Address: dto.AddressDTO{
			Street:     p.Address.Street,
			Number:     p.Address.Number,
			Complement: p.Address.Details,
			District:   p.Address.District,
			City:       p.Address.City,
			State:      p.Address.State,
			ZipCode:    docbr.Normalize(p.Address.Zip),
		},
		SimplesOptant:  p.Company.Simples.Optant,
		SimeiOptant:    p.Company.Simei.Optant,
		SecondaryCNAEs: make([]dto.CNAEDTO, 0, len(p.SideActivities)),
		Source:         SourcePrimary,
	}
	for _, a := range p.SideActivities {
		info.SecondaryCNAEs = append(info.SecondaryCNAEs, dto.CNAEDTO{Code: a.ID.String(), Description: a.Text})
	}
	if len(p.Phones) > 0 {
		info.Phone = p.Phones[0].Area + p.Phones[0].Number
	}
	if len(p.Emails) > 0 {
		info.Email = p.Emails[0].Address
	}
	return info
}

// ── Formato receitaws.com.br ───────────────────────────────────────────────────

type receitaWS struct {
	Status      string       `json:"status"`
	Message     string       `json:"message"`
	CNPJ        string       `json:"cnpj"`
	Nome        string       `json:"nome"`
	Fantasia    string       `json:"fantasia"`
	Abertura    string       `json:"abertura"` // dd/mm/aaaa
	Situacao    string       `json:"situacao"`
	Logradouro  string       `json:"logradouro"`
	Numero      string       `json:"numero"`
	Complemento string       `json:"complemento"`
	Bairro      string       `json:"bairro"`
	Municipio   string       `json:"municipio"`
	UF          string       `json:"uf"`
	CEP         string       `json:"cep"`
	Telefone    string       `json:"telefone"`
	Email       string       `json:"email"`
	Principal   []wsActivity `json:"atividade_principal"`
	Secundarias []wsActivity `json:"atividades_secundarias"`
	Simples     struct {
		Optante bool `json:"optante"`
	} `json:"simples"`
	Simei struct {
		Optante bool `json:"optante"`
	} `json:"simei"`
}

type wsActivity struct {
	Code string `json:"code"`
	Text string `json:"text"`
}

func (p *receitaWS) toInfo() *dto.CNPJInfo {
	info := &dto.CNPJInfo{
		CNPJ:           docbr.Normalize(p.CNPJ),
		LegalName:      p.Nome,
		TradeName:      p.Fantasia,
		OpeningDate:    isoDate(p.Abertura),
		RegistryStatus: p.Situacao,
		Address: dto.AddressDTO{
			Street:     p.Logradouro,
			Number:     p.Numero,
			Complement: p.Complemento,
			District:   p.Bairro,
			City:       p.Municipio,
			State:      p.UF,
			ZipCode:    docbr.Normalize(p.CEP),
		},
		Phone:          docbr.Normalize(p.Telefone),
		Email:          p.Email,
		SimplesOptant:  p.Simples.Optante,
		SimeiOptant:    p.Simei.Optante,
		SecondaryCNAEs: make([]dto.CNAEDTO, 0, len(p.Secundarias)),
		Source:         SourceFallback,
	}
	if len(p.Principal) > 0 {
		info.MainCNAE = docbr.Normalize(p.Principal[0].Code)
		info.MainCNAEDescription = p.Principal[0].Text
	}
	for _, a := range p.Secundarias {
		code := docbr.Normalize(a.Code)
		// receitaws devuelve "00.00-0-00" cuando no hay secundarias
		if code == "" || strings.Trim(code, "0") == "" {
			continue
		}
		info.SecondaryCNAEs = append(info.SecondaryCNAEs, dto.CNAEDTO{Code: code, Description: a.Text})
	}
	return info
}

// isoDate convierte dd/mm/aaaa a aaaa-mm-dd; otros formatos se devuelven tal cual.
func isoDate(s string) string {
	t, err := time.Parse("02/01/2006", s)
	if err != nil {
		return s
	}
	return t.Format("2006-01-02")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…(" + strconv.Itoa(len(s)) + " bytes)"
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
