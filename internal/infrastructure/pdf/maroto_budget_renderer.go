// Package pdf genera el PDF de los orçamentos de las empresas MEI.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: [logo] Nome + slogan + CNPJ │ ORÇAMENTO Nº + datas  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  EMITENTE: Endereço / Tel / Email / Site                     │
//	│  APRESENTAÇÃO + QUEM SOMOS (opcionales)                      │
//	│  CLIENTE: Nome + documento + contato                         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABELA: Qtd | Descrição | Valor unit. | Subtotal            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL                                                       │
//	│  OBSERVAÇÕES + rodapé                                        │
//	└─────────────────────────────────────────────────────────────┘
//
// El modelo (template) del membrete elige la paleta y si la cabecera de la tabla va rellena.
package pdf

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/jhoicas/topmei-api/internal/application/dto"
	"github.com/jhoicas/topmei-api/internal/application/usecase"
	"github.com/jhoicas/topmei-api/internal/domain/entity"
)

var _ usecase.BudgetRenderer = (*MarotoBudgetRenderer)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorGray  = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorBlack = &props.Color{Red: 30, Green: 30, Blue: 30}
)

// theme estilo de un modelo de orçamento.
type theme struct {
	primary *props.Color
	// filled cabecera de la tabla con fondo de color; si no, texto en color sobre blanco.
	filled bool
}

var themes = map[string]theme{
	entity.BudgetTemplateClassic: {primary: &props.Color{Red: 0, Green: 102, Blue: 84}, filled: true},
	entity.BudgetTemplateModern:  {primary: &props.Color{Red: 33, Green: 84, Blue: 160}, filled: true},
	entity.BudgetTemplateMinimal: {primary: colorBlack, filled: false},
}

func themeFor(template string) theme {
	if t, ok := themes[template]; ok {
		return t
	}
	return themes[entity.BudgetTemplateClassic]
}

var ptBR = message.NewPrinter(language.BrazilianPortuguese)

// ── Renderer ──────────────────────────────────────────────────────────────────

// MarotoBudgetRenderer implementa usecase.BudgetRenderer con Maroto v2.
type MarotoBudgetRenderer struct{}

// NewMarotoBudgetRenderer construye el renderer.
func NewMarotoBudgetRenderer() *MarotoBudgetRenderer { return &MarotoBudgetRenderer{} }

// Render genera el PDF y devuelve sus bytes.
func (g *MarotoBudgetRenderer) Render(doc *dto.BudgetDocument) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(12).WithBottomMargin(12).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(fmt.Sprintf("Orçamento %04d", doc.Number), true).
		WithAuthor(doc.Config.BusinessName, true).
		Build()

	m := maroto.New(cfg)
	th := themeFor(doc.Config.Template)

	m.AddRows(headerRow(doc, th))
	m.AddRows(line.NewRow(1, props.Line{Color: th.primary, Thickness: 0.5}))
	m.AddRows(issuerRow(doc.Config))
	m.AddRows(presentationRows(doc.Config, th)...)
	m.AddRows(clientRow(doc.Request, th))
	m.AddRows(line.NewRow(1, props.Line{Color: th.primary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow(th))
	m.AddRows(tableLineRows(doc.Lines)...)

	m.AddRows(line.NewRow(1, props.Line{Color: th.primary, Thickness: 0.3}))
	m.AddRows(totalRow(doc.Total, th))
	m.AddRows(footerRows(doc, th)...)

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: gerar orçamento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: logo opcional, nombre + slogan + documento (izq) y número + fechas (der).
func headerRow(doc *dto.BudgetDocument, th theme) core.Row {
	identity := []core.Component{
		text.New(doc.Config.BusinessName, props.Text{
			Style: fontstyle.Bold, Size: 13, Color: th.primary, Top: 1,
		}),
	}
	top := 8.0
	if doc.Config.Slogan != "" {
		identity = append(identity, text.New(doc.Config.Slogan, props.Text{
			Style: fontstyle.Italic, Size: 8, Top: top, Color: colorGray,
		}))
		top += 5
	}
	identity = append(identity, text.New(nonEmpty(doc.Config.Document, ""), props.Text{
		Size: 9, Top: top, Color: colorGray,
	}))

	identitySize := 7
	var cols []core.Col
	if len(doc.Logo) > 0 {
		cols = append(cols, col.New(2).Add(
			image.NewFromBytes(doc.Logo, logoExtension(doc.LogoExt), props.Rect{Center: true, Percent: 90}),
		))
		identitySize = 5
	}
	cols = append(cols,
		col.New(identitySize).Add(identity...),
		col.New(5).Add(
			text.New("ORÇAMENTO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: th.primary, Top: 1,
			}),
			text.New(fmt.Sprintf("Nº %04d", doc.Number), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6,
			}),
			text.New("Emissão: "+doc.IssuedAt.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
			text.New("Válido até: "+doc.ValidUntil.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 17, Color: colorGray,
			}),
		),
	)
	return row.New(22).Add(cols...)
}

func logoExtension(ext string) extension.Type {
	if ext == "jpg" {
		return extension.Jpg
	}
	return extension.Png
}

func issuerRow(c dto.BudgetConfigDTO) core.Row {
	contact := fmt.Sprintf("Endereço: %s   |   Tel: %s   |   Email: %s",
		nonEmpty(c.Address, "-"),
		nonEmpty(c.Phone, "-"),
		nonEmpty(c.Email, "-"),
	)
	if c.Site != "" {
		contact += "   |   Site: " + c.Site
	}
	return row.New(12).Add(
		col.New(12).Add(
			text.New(contact, props.Text{Size: 8, Top: 3, Color: colorGray}),
		),
	)
}

// presentationRows introdução y quem somos, sólo si están cargados.
func presentationRows(c dto.BudgetConfigDTO, th theme) []core.Row {
	var rows []core.Row
	for _, sec := range []struct{ title, body string }{
		{"APRESENTAÇÃO", c.Introduction},
		{"QUEM SOMOS", c.AboutUs},
	} {
		if sec.body == "" {
			continue
		}
		rows = append(rows,
			row.New(6).Add(col.New(12).Add(text.New(sec.title, props.Text{
				Style: fontstyle.Bold, Size: 8, Color: th.primary, Top: 1,
			}))),
			row.New(textHeight(sec.body)).Add(col.New(12).Add(text.New(sec.body, props.Text{Size: 8, Top: 1}))),
		)
	}
	return rows
}

// textHeight alto aproximado para un párrafo a 8pt en el ancho de la página.
func textHeight(s string) float64 {
	const charsPerLine = 110
	lines := len([]rune(s))/charsPerLine + 1
	return float64(lines)*4 + 2
}

func clientRow(r dto.BudgetRequest, th theme) core.Row {
	return row.New(16).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: th.primary, Top: 1,
			}),
			text.New(r.ClientName, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("CPF/CNPJ: %s   |   Email: %s   |   Tel: %s",
				nonEmpty(r.ClientDocument, "-"),
				nonEmpty(r.ClientEmail, "-"),
				nonEmpty(r.ClientPhone, "-"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func tableHeaderRow(th theme) core.Row {
	fg := colorWhite
	if !th.filled {
		fg = th.primary
	}
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: fg, Top: 2, Left: 1, Right: 1,
		}))
	}
	r := row.New(8).Add(
		h("Qtd.", 1, align.Center),
		h("Descrição", 6, align.Left),
		h("Valor unit.", 2, align.Right),
		h("Subtotal", 3, align.Right),
	)
	if th.filled {
		r = r.WithStyle(&props.Cell{BackgroundColor: th.primary})
	}
	return r
}

func tableLineRows(lines []dto.BudgetLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(formatQuantity(l.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(6).Add(text.New(l.Description, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(2).Add(text.New(FormatBRL(l.UnitPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New(FormatBRL(l.Subtotal), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

func totalRow(total decimal.Decimal, th theme) core.Row {
	return row.New(12).Add(
		col.New(6),
		col.New(3).Add(text.New("TOTAL:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: th.primary, Right: 2, Top: 2,
		})),
		col.New(3).Add(text.New(FormatBRL(total), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: th.primary, Right: 1, Top: 2,
		})),
	)
}

func footerRows(doc *dto.BudgetDocument, th theme) []core.Row {
	var rows []core.Row
	if doc.Request.Notes != "" {
		rows = append(rows,
			row.New(6).Add(col.New(12).Add(text.New("OBSERVAÇÕES", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: th.primary, Top: 1,
			}))),
			row.New(12).Add(col.New(12).Add(text.New(doc.Request.Notes, props.Text{Size: 8, Top: 1}))),
		)
	}
	if doc.Config.FooterNotes != "" {
		rows = append(rows, row.New(10).Add(col.New(12).Add(text.New(doc.Config.FooterNotes, props.Text{
			Size: 7, Color: colorGray, Top: 3, Align: align.Center,
		}))))
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// FormatBRL formatea en reais: 1234.5 -> "R$ 1.234,50".
func FormatBRL(v decimal.Decimal) string {
	f, _ := v.Round(2).Float64()
	return "R$ " + ptBR.Sprint(number.Decimal(f, number.Scale(2)))
}

// formatQuantity sin decimales si es entera.
func formatQuantity(q decimal.Decimal) string {
	if q.Equal(q.Truncate(0)) {
		return q.StringFixed(0)
	}
	f, _ := q.Float64()
	return ptBR.Sprint(number.Decimal(f, number.MaxFractionDigits(3)))
}
