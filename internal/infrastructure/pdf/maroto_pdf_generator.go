// Package pdf genera la versión imprimible de los reportes de estoque.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Clínica + título          │  Fecha de emisión       │
//	│  PARÁMETROS: NS / MU / ST / versión                          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: una fila por ítem o lote                             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: totales + leyenda                                   │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	"github.com/johnfercher/maroto/v2"
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
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/estoque-clinica/internal/application/report"
	"github.com/jhoicas/estoque-clinica/internal/domain/inventory"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 170, Green: 20, Blue: 20}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReportGenerator implementa report.PDFGenerator usando Maroto v2.
type MarotoReportGenerator struct {
	clinic  string
	printer *message.Printer
}

var _ report.PDFGenerator = (*MarotoReportGenerator)(nil)

// NewMarotoReportGenerator construye el generador. clinic encabeza cada página.
func NewMarotoReportGenerator(clinic string) *MarotoReportGenerator {
	return &MarotoReportGenerator{
		clinic:  clinic,
		printer: message.NewPrinter(language.BrazilianPortuguese),
	}
}

// column describe una columna de tabla (ancho en la grilla de 12).
type column struct {
	label string
	size  int
	align align.Type
}

// GenerateReposicaoPDF lista los ítems a reponer con SS, ROP y cantidad sugerida.
func (g *MarotoReportGenerator) GenerateReposicaoPDF(_ context.Context, rows []inventory.Suggestion, meta report.PDFMeta) ([]byte, error) {
	m := g.newDocument(meta)

	cols := []column{
		{"Código", 2, align.Left},
		{"Item", 3, align.Left},
		{"Estoque", 1, align.Right},
		{"SS", 1, align.Right},
		{"ROP", 1, align.Right},
		{"Sugerida", 2, align.Right},
		{"Status", 2, align.Center},
	}
	m.AddRows(tableHeaderRow(cols))
	for _, s := range rows {
		color := colorGray
		if s.Status == inventory.StatusCritical {
			color = colorAlert
		}
		m.AddRows(tableRow(cols, color,
			s.ItemCode,
			s.ItemName,
			g.qty(s.Available),
			g.float(s.SafetyStock.SafetyStock),
			g.float(s.ReorderPoint),
			g.qty(s.SuggestedQty)+" "+s.Unit,
			string(s.Status),
		))
	}
	if len(rows) == 0 {
		m.AddRows(emptyRow("Nenhum item abaixo do ponto de pedido."))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(footerRow(g.printer.Sprintf("%d itens para repor", len(rows))))
	return generate(m)
}

// GenerateVencimentosPDF lista lotes (o ítems agregados) próximos a vencer.
func (g *MarotoReportGenerator) GenerateVencimentosPDF(_ context.Context, v *report.Vencimentos, meta report.PDFMeta) ([]byte, error) {
	m := g.newDocument(meta)
	m.AddRows(row.New(6).Add(col.New(12).Add(
		text.New(fmt.Sprintf("Janela: %s a %s", v.From.Format("02/01/2006"), v.To.Format("02/01/2006")),
			props.Text{Size: 8, Color: colorGray, Top: 1}),
	)))

	count := 0
	if v.Batches != nil {
		cols := []column{
			{"Código", 2, align.Left},
			{"Item", 4, align.Left},
			{"Lote", 2, align.Left},
			{"Qtde", 1, align.Right},
			{"Validade", 2, align.Center},
			{"Dias", 1, align.Right},
		}
		m.AddRows(tableHeaderRow(cols))
		for _, b := range v.Batches {
			color := colorGray
			if b.Expired {
				color = colorAlert
			}
			m.AddRows(tableRow(cols, color,
				b.ItemCode, b.ItemName, b.BatchCode,
				g.qty(b.Quantity),
				b.ExpiresOn.Format("02/01/2006"),
				g.printer.Sprintf("%d", b.DaysToExpiry),
			))
		}
		count = len(v.Batches)
	} else {
		cols := []column{
			{"Código", 2, align.Left},
			{"Item", 4, align.Left},
			{"Qtde", 2, align.Right},
			{"Lotes", 1, align.Right},
			{"1ª validade", 2, align.Center},
			{"Dias", 1, align.Right},
		}
		m.AddRows(tableHeaderRow(cols))
		for _, it := range v.Items {
			m.AddRows(tableRow(cols, colorGray,
				it.ItemCode, it.ItemName,
				g.qty(it.Quantity),
				g.printer.Sprintf("%d", it.Batches),
				it.EarliestExpiry.Format("02/01/2006"),
				g.printer.Sprintf("%d", it.DaysToExpiry),
			))
		}
		count = len(v.Items)
	}
	if count == 0 {
		m.AddRows(emptyRow("Nenhum lote com saldo vence na janela."))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(footerRow(g.printer.Sprintf("%d registros", count)))
	return generate(m)
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *MarotoReportGenerator) newDocument(meta report.PDFMeta) core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(meta.Title, true).
		WithAuthor(g.clinic, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(headerRow(g.clinic, meta.Title, meta.GeneratedAt))
	m.AddRows(g.paramsRow(meta))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	return m
}

// headerRow: clínica + título (izq) y fecha de emisión (der).
func headerRow(clinic, title string, at time.Time) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(clinic, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(title, props.Text{Size: 10, Top: 9}),
		),
		col.New(4).Add(
			text.New("Emitido em", props.Text{
				Size: 8, Align: align.Right, Color: colorGray, Top: 1,
			}),
			text.New(at.Format("02/01/2006 15:04"), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 7,
			}),
		),
	)
}

func (g *MarotoReportGenerator) paramsRow(meta report.PDFMeta) core.Row {
	p := meta.Params
	return row.New(7).Add(col.New(12).Add(
		text.New(g.printer.Sprintf("Nível de serviço: %.1f%%   |   Lead time: %.1f ± %.1f dias úteis   |   Parâmetros v%d",
			p.ServiceLevel*100, p.LeadTimeMean, p.LeadTimeStdev, p.Version),
			props.Text{Size: 8, Color: colorGray, Top: 1}),
	))
}

// tableHeaderRow: cabecera con texto blanco sobre la barra primaria.
func tableHeaderRow(cols []column) core.Row {
	r := row.New(8)
	for _, c := range cols {
		r.Add(col.New(c.size).Add(text.New(c.label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: c.align,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		})))
	}
	r.WithStyle(&props.Cell{BackgroundColor: colorPrimary})
	return r
}

func tableRow(cols []column, color *props.Color, values ...string) core.Row {
	r := row.New(7)
	for i, c := range cols {
		v := ""
		if i < len(values) {
			v = values[i]
		}
		r.Add(col.New(c.size).Add(text.New(v, props.Text{
			Size: 8, Align: c.align, Color: color, Top: 1, Left: 1, Right: 1,
		})))
	}
	return r
}

func emptyRow(msg string) core.Row {
	return row.New(10).Add(col.New(12).Add(
		text.New(msg, props.Text{Size: 9, Align: align.Center, Color: colorGray, Top: 3}),
	))
}

func footerRow(summary string) core.Row {
	return row.New(10).Add(
		col.New(6).Add(text.New(summary, props.Text{
			Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 2,
		})),
		col.New(6).Add(text.New("Quantidades na unidade de medida de cada item.", props.Text{
			Size: 7, Align: align.Right, Color: colorGray, Top: 3,
		})),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func generate(m core.Maroto) ([]byte, error) {
	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// qty formatea con separadores pt-BR: "1.234,5".
func (g *MarotoReportGenerator) qty(d decimal.Decimal) string {
	if d.IsInteger() {
		return g.printer.Sprintf("%d", d.IntPart())
	}
	return g.printer.Sprintf("%.2f", d.InexactFloat64())
}

func (g *MarotoReportGenerator) float(f float64) string {
	return g.printer.Sprintf("%.2f", f)
}
