// Package rps arma el XML de RPS (Recibo Provisório de Serviços) en el layout ABRASF 2.04
// para que el contador lo importe en el portal municipal.
package rps

import (
	"bytes"
	"fmt"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/topmei-api/internal/application/usecase"
	"github.com/jhoicas/topmei-api/internal/domain/entity"
	"github.com/jhoicas/topmei-api/pkg/docbr"
)

const (
	NamespaceABRASF = "http://www.abrasf.org.br/nfse.xsd"
	VersaoLayout    = "2.04"

	issNaoRetido   = "2"
	simplesOptante = "1"
	simplesNao     = "2"
	incentivoNao   = "2"
	exigibilidade  = "1" // exigível
)

var _ usecase.RPSBuilder = (*Builder)(nil)

// Builder implementa usecase.RPSBuilder con etree.
type Builder struct{}

// NewBuilder construye el builder.
func NewBuilder() *Builder { return &Builder{} }

// Build genera el XML. Prestador = empresa MEI; tomador = datos de la solicitação.
func (b *Builder) Build(req *entity.InvoiceRequest, company *entity.Company) ([]byte, error) {
	if req == nil || company == nil {
		return nil, fmt.Errorf("rps: solicitação e empresa são obrigatórias")
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	rps := doc.CreateElement("Rps")
	rps.CreateAttr("xmlns", NamespaceABRASF)
	rps.CreateAttr("versao", VersaoLayout)

	inf := rps.CreateElement("InfDeclaracaoPrestacaoServico")
	inf.CreateAttr("Id", "rps"+compactID(req.ID))

	ident := inf.CreateElement("Rps").CreateElement("IdentificacaoRps")
	ident.CreateElement("Numero").SetText(compactID(req.ID))
	ident.CreateElement("Serie").SetText("RPS")
	ident.CreateElement("Tipo").SetText("1")
	inf.CreateElement("Competencia").SetText(req.CompetenceDate.Format("2006-01-02"))

	servico := inf.CreateElement("Servico")
	valores := servico.CreateElement("Valores")
	valores.CreateElement("ValorServicos").SetText(money(req.ServiceValue))
	valores.CreateElement("ValorIss").SetText(money(req.ISSValue()))
	valores.CreateElement("Aliquota").SetText(req.ISSRate.StringFixed(2))
	servico.CreateElement("IssRetido").SetText(issNaoRetido)
	setIf(servico, "ItemListaServico", req.ServiceListItem)
	servico.CreateElement("Discriminacao").SetText(req.Description)
	setIf(servico, "CodigoMunicipio", req.MunicipalCode)
	servico.CreateElement("ExigibilidadeISS").SetText(exigibilidade)

	prestador := inf.CreateElement("Prestador")
	prestador.CreateElement("CpfCnpj").CreateElement("Cnpj").SetText(docbr.Normalize(company.CNPJ))

	tomador := inf.CreateElement("TomadorServico")
	docEl := tomador.CreateElement("IdentificacaoTomador").CreateElement("CpfCnpj")
	takerDoc := docbr.Normalize(req.Taker.Document)
	if len(takerDoc) == 11 {
		docEl.CreateElement("Cpf").SetText(takerDoc)
	} else {
		docEl.CreateElement("Cnpj").SetText(takerDoc)
	}
	tomador.CreateElement("RazaoSocial").SetText(req.Taker.Name)
	if addr := req.Taker.Address; addr.Street != "" {
		end := tomador.CreateElement("Endereco")
		end.CreateElement("Endereco").SetText(addr.Street)
		setIf(end, "Numero", addr.Number)
		setIf(end, "Complemento", addr.Complement)
		setIf(end, "Bairro", addr.District)
		setIf(end, "Uf", addr.State)
		setIf(end, "Cep", docbr.Normalize(addr.ZipCode))
	}
	if req.Taker.Email != "" || req.Taker.Phone != "" {
		contato := tomador.CreateElement("Contato")
		setIf(contato, "Telefone", docbr.Normalize(req.Taker.Phone))
		setIf(contato, "Email", req.Taker.Email)
	}

	if company.SimplesOptant || company.SimeiOptant {
		inf.CreateElement("OptanteSimplesNacional").SetText(simplesOptante)
	} else {
		inf.CreateElement("OptanteSimplesNacional").SetText(simplesNao)
	}
	inf.CreateElement("IncentivoFiscal").SetText(incentivoNao)

	doc.Indent(2)
	var out bytes.Buffer
	if _, err := doc.WriteTo(&out); err != nil {
		return nil, fmt.Errorf("rps: serializar XML: %w", err)
	}
	return out.Bytes(), nil
}

func setIf(parent *etree.Element, tag, value string) {
	if value != "" {
		parent.CreateElement(tag).SetText(value)
	}
}

func money(v decimal.Decimal) string { return v.StringFixed(2) }

// compactID número del RPS: los primeros 8 hex del UUID sin guiones.
func compactID(id string) string {
	out := make([]byte, 0, 8)
	for i := 0; i < len(id) && len(out) < 8; i++ {
		if id[i] != '-' {
			out = append(out, id[i])
		}
	}
	return string(out)
}
