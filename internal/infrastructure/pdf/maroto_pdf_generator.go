// Package pdf genera el PDF de una factura.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + emisor      │  N° Factura + Fecha          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DESTINATARIO: Nombre + dirección                           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Descripción | Cant | Unidad | P.Unit | Importe      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL                                                      │
//	│  NOTAS                                                      │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/johnfercher/maroto/v2/pkg/repository"
	"github.com/shopspring/decimal"

	"github.com/hohoemi-rabo/cms-app-sub001/internal/application/billing"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/domain/entity"
)

var _ billing.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

const customFontFamily = "invoice-font"

// Options opciones del generador.
type Options struct {
	// Issuer nombre del emisor impreso en la cabecera.
	Issuer string
	// FontFile TTF con glifos japoneses. Vacío = helvetica (solo latino).
	FontFile string
}

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa billing.InvoicePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	opts Options
}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator(opts Options) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{opts: opts}
}

// GenerateInvoicePDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(
	_ context.Context,
	invoice *entity.Invoice,
	items []*entity.InvoiceItem,
) ([]byte, error) {
	builder := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithTitle("Factura "+invoice.InvoiceNumber, true).
		WithAuthor(nonEmpty(g.opts.Issuer, "cms-app"), true)

	if g.opts.FontFile != "" {
		fonts, err := repository.New().
			AddUTF8Font(customFontFamily, fontstyle.Normal, g.opts.FontFile).
			AddUTF8Font(customFontFamily, fontstyle.Bold, g.opts.FontFile).
			Load()
		if err != nil {
			return nil, fmt.Errorf("pdf: cargar fuente: %w", err)
		}
		builder = builder.WithCustomFonts(fonts).
			WithDefaultFont(&props.Font{Family: customFontFamily, Size: 9})
	} else {
		builder = builder.WithDefaultFont(&props.Font{Family: "helvetica", Size: 9})
	}

	m := maroto.New(builder.Build())

	m.AddRows(headerRow(invoice, g.opts.Issuer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(billingRow(invoice))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableItemRows(items)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(invoice))
	if invoice.Notes != "" {
		m.AddRows(notesRow(invoice.Notes))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título + emisor (izq) y N° Factura + Fecha (der).
func headerRow(invoice *entity.Invoice, issuer string) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New("FACTURA", props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1,
			}),
			text.New(issuer, props.Text{
				Size: 9, Top: 10, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("N° "+invoice.InvoiceNumber, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 2,
			}),
			text.New("Fecha: "+invoice.IssueDate.Format("2006/01/02"), props.Text{
				Size: 8, Align: align.Right, Top: 10, Color: colorGray,
			}),
		),
	)
}

// billingRow: destinatario de la factura.
func billingRow(invoice *entity.Invoice) core.Row {
	return row.New(16).Add(
		col.New(12).Add(
			text.New("DESTINATARIO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(invoice.BillingName, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(nonEmpty(invoice.BillingAddress, "—"), props.Text{
				Size: 8, Top: 12, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Descripción", 5, align.Left),
		h("Cant.", 1, align.Right),
		h("Unidad", 1, align.Center),
		h("Precio Unit.", 2, align.Right),
		h("Importe", 3, align.Right),
	)
}

// tableItemRows: una fila por línea, en orden de display_order.
func tableItemRows(items []*entity.InvoiceItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		result = append(result, row.New(7).Add(
			col.New(5).Add(text.New(it.Description, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(1).Add(text.New(it.Quantity.String(), props.Text{Size: 8, Align: align.Right, Top: 1})),
			col.New(1).Add(text.New(it.Unit, props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(formatMoney(it.UnitPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New(formatMoney(it.Amount), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

// totalRow: total alineado a la derecha.
func totalRow(invoice *entity.Invoice) core.Row {
	return row.New(12).Add(
		col.New(6),
		col.New(3).Add(text.New("TOTAL:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2, Right: 2,
		})),
		col.New(3).Add(text.New("¥"+formatMoney(invoice.TotalAmount), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2, Right: 1,
		})),
	)
}

func notesRow(notes string) core.Row {
	return row.New(14).Add(col.New(12).Add(
		text.New("NOTAS", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2}),
		text.New(notes, props.Text{Size: 8, Top: 7, Color: colorGray}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney separa miles con comas y conserva los decimales no nulos.
// Ej: 25000 → "25,000", 1234.5 → "1,234.5", -1000 → "-1,000"
func formatMoney(d decimal.Decimal) string {
	s := d.String()
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, hasFrac := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, c)
	}
	if hasFrac {
		return sign + string(buf) + "." + frac
	}
	return sign + string(buf)
}
