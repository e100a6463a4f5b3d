package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-clinica/internal/application/report"
	"github.com/jhoicas/estoque-clinica/internal/domain/entity"
	"github.com/jhoicas/estoque-clinica/internal/domain/inventory"
	"github.com/jhoicas/estoque-clinica/internal/infrastructure/pdf"
)

func meta(title string) report.PDFMeta {
	return report.PDFMeta{
		Title:       title,
		GeneratedAt: time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
		Params:      entity.DefaultParameters(),
	}
}

func TestGenerateReposicaoPDF(t *testing.T) {
	gen := pdf.NewMarotoReportGenerator("Clínica Teste")
	cov := 1.5
	rows := []inventory.Suggestion{{
		ItemCode:     "A001",
		ItemName:     "Soro fisiológico 500ml",
		Unit:         "FR",
		Available:    decimal.NewFromInt(15),
		Shortfall:    decimal.RequireFromString("63.32"),
		SuggestedQty: decimal.NewFromInt(72),
		CoverageDays: &cov,
		Flagged:      true,
		Status:       inventory.StatusCritical,
		SafetyStock:  inventory.SafetyStock{SafetyStock: 18.32, ReorderPoint: 78.32},
	}}

	doc, err := gen.GenerateReposicaoPDF(context.Background(), rows, meta("Relatório de Reposição"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))

	empty, err := gen.GenerateReposicaoPDF(context.Background(), nil, meta("Relatório de Reposição"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(empty, []byte("%PDF")))
}

func TestGenerateVencimentosPDF(t *testing.T) {
	gen := pdf.NewMarotoReportGenerator("Clínica Teste")
	from := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

	t.Run("por lote", func(t *testing.T) {
		v := &report.Vencimentos{From: from, To: from.AddDate(0, 0, 60), Batches: []report.ExpiringBatch{
			{ItemCode: "A001", BatchCode: "L1", Quantity: decimal.NewFromInt(10), ExpiresOn: from.AddDate(0, 0, 5), DaysToExpiry: 5},
			{ItemCode: "A002", BatchCode: "L7", Quantity: decimal.NewFromInt(3), ExpiresOn: from.AddDate(0, 0, -2), DaysToExpiry: -2, Expired: true},
		}}
		doc, err := gen.GenerateVencimentosPDF(context.Background(), v, meta("Produtos a vencer em 60 dias"))
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))
	})

	t.Run("por item", func(t *testing.T) {
		v := &report.Vencimentos{From: from, To: from.AddDate(0, 0, 60), Items: []report.ExpiringItem{
			{ItemCode: "A001", Quantity: decimal.RequireFromString("12.5"), Batches: 2, EarliestExpiry: from.AddDate(0, 0, 5), DaysToExpiry: 5},
		}}
		doc, err := gen.GenerateVencimentosPDF(context.Background(), v, meta("Produtos a vencer em 60 dias"))
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))
	})
}
