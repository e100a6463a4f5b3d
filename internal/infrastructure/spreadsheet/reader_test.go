package spreadsheet_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/estoque-clinica/internal/application/inventory"
	"github.com/jhoicas/estoque-clinica/internal/domain"
	"github.com/jhoicas/estoque-clinica/internal/infrastructure/spreadsheet"
)

// xlsx arma una planilla en memoria con las filas dadas (la primera es el encabezado).
func xlsx(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

// ──────────────────────────────────────────────────────────────────────────────
// Planilla de entradas
// ──────────────────────────────────────────────────────────────────────────────

func TestRead_Entradas(t *testing.T) {
	buf := xlsx(t, [][]any{
		{"Código", "Nome", "LOTE", "Quantidade", "Data de Entrada", "Data Validade", "Observação"},
		{"A001", "Soro fisiológico", "L1", "5,00 FR - Frascos", "14/03/2025", "2026-01-31", "NF 123"},
		{"A002", "Luvas", "L9", 100, "2025-03-10", "", ""},
		{},
		{"A003", "Gaze", "", "3 PCT", "", "", ""},
		{"A004", "Seringa", "S1", "muitas", "", "", ""},
	})

	req, err := spreadsheet.NewReader().Read(buf, inventory.ImportEntries)
	require.NoError(t, err)
	assert.Equal(t, inventory.ImportEntries, req.Kind)

	require.Len(t, req.Rows, 2)
	first := req.Rows[0]
	assert.Equal(t, 2, first.Row)
	assert.Equal(t, "A001", first.ItemCode)
	assert.Equal(t, "Soro fisiológico", first.ItemName)
	assert.Equal(t, "L1", first.BatchCode)
	assert.True(t, decimal.NewFromInt(5).Equal(first.Quantity))
	assert.Equal(t, "FR", first.Unit)
	assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Equal(t, time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC), first.ExpiresOn)
	assert.Equal(t, "NF 123", first.Note)

	second := req.Rows[1]
	assert.Equal(t, 3, second.Row)
	assert.True(t, decimal.NewFromInt(100).Equal(second.Quantity))
	assert.True(t, second.ExpiresOn.IsZero())

	require.Len(t, req.ParseErrors, 2, "la fila vacía se ignora")
	assert.Equal(t, 5, req.ParseErrors[0].Row)
	assert.Equal(t, "lote", req.ParseErrors[0].Field)
	assert.Equal(t, 6, req.ParseErrors[1].Row)
	assert.Equal(t, "quantidade", req.ParseErrors[1].Field)
}

func TestRead_EntradasConPoliticaDeCompra(t *testing.T) {
	buf := xlsx(t, [][]any{
		{"codigo", "lote", "quantidade", "Lote Mínimo", "Lote Múltiplo"},
		{"A001", "L1", 10, 50, "12 UN"},
		{"A002", "L2", 10, "", ""},
		{"A003", "L3", 10, "-5", ""},
	})
	req, err := spreadsheet.NewReader().Read(buf, inventory.ImportEntries)
	require.NoError(t, err)
	require.Len(t, req.Rows, 2)

	assert.True(t, decimal.NewFromInt(50).Equal(req.Rows[0].MinOrder))
	assert.True(t, decimal.NewFromInt(12).Equal(req.Rows[0].OrderMultiple))
	assert.True(t, req.Rows[1].MinOrder.IsZero(), "vacío = conservar la política del ítem")
	assert.True(t, req.Rows[1].OrderMultiple.IsZero())

	require.Len(t, req.ParseErrors, 1)
	assert.Equal(t, 4, req.ParseErrors[0].Row)
	assert.Equal(t, "lote_min", req.ParseErrors[0].Field)
}

func TestRead_EntradasSinColumnaLote(t *testing.T) {
	buf := xlsx(t, [][]any{
		{"codigo", "quantidade"},
		{"A001", 1},
	})
	_, err := spreadsheet.NewReader().Read(buf, inventory.ImportEntries)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Planilla de salidas
// ──────────────────────────────────────────────────────────────────────────────

func TestRead_Salidas(t *testing.T) {
	buf := xlsx(t, [][]any{
		{"Cod", "Qtde", "Data Saída", "Descarte", "Unidade"},
		{"A001", "2,5", "2025-03-12", "Sim", "ml"},
		{"A002", "1 AMP - Ampola", time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), "não", ""},
		{"A003", "1", "31/02/2025", "", ""},
		{"A004", "1", "", "talvez", ""},
	})

	req, err := spreadsheet.NewReader().Read(buf, inventory.ImportExits)
	require.NoError(t, err)
	require.Len(t, req.Rows, 2)

	a := req.Rows[0]
	assert.True(t, decimal.RequireFromString("2.5").Equal(a.Quantity))
	assert.Equal(t, "ML", a.Unit)
	assert.True(t, a.Discard)
	assert.Empty(t, a.BatchCode, "en salidas el lote es opcional")

	b := req.Rows[1]
	assert.Equal(t, "AMP", b.Unit)
	assert.False(t, b.Discard)
	assert.Equal(t, time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), b.Date, "fecha como serial de Excel")

	require.Len(t, req.ParseErrors, 2)
	assert.Equal(t, "data_saida", req.ParseErrors[0].Field)
	assert.Equal(t, "descarte", req.ParseErrors[1].Field)
}

func TestRead_TipoInvalido(t *testing.T) {
	_, err := spreadsheet.NewReader().Read(xlsx(t, [][]any{{"codigo"}}), "ajustes")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRead_ArchivoNoXLSX(t *testing.T) {
	_, err := spreadsheet.NewReader().Read(bytes.NewBufferString("codigo;quantidade"), inventory.ImportExits)
	assert.Error(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Conversores
// ──────────────────────────────────────────────────────────────────────────────

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		in   string
		qty  string
		unit string
		ok   bool
	}{
		{"5.00 MG - Miligrama", "5", "MG", true},
		{"2 FR - Frascos", "2", "FR", true},
		{"5,5 ml - mililitro", "5.5", "ML", true},
		{"12", "12", "", true},
		{"3 CX-Caixa", "3", "CX", true},
		{"-4 UN", "-4", "UN", true},
		{"FR", "", "", false},
		{"   ", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			qty, unit, err := spreadsheet.ParseQuantity(tt.in)
			if !tt.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.qty).Equal(qty), "got %s", qty)
			assert.Equal(t, tt.unit, unit)
		})
	}
}

func TestParseDate(t *testing.T) {
	want := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"2025-03-14", "14/03/2025", "14-03-2025", "14/03/25", "2025-03-14 00:00:00", "45730"} {
		got, err := spreadsheet.ParseDate(in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), "%s → %s", in, got)
	}
	_, err := spreadsheet.ParseDate("ontem")
	assert.Error(t, err)
}

func TestParseFlag(t *testing.T) {
	for _, in := range []string{"sim", "SIM", "s", "1", "true", "x"} {
		v, err := spreadsheet.ParseFlag(in)
		require.NoError(t, err)
		assert.True(t, v, in)
	}
	for _, in := range []string{"não", "NAO", "n", "0", "false", ""} {
		v, err := spreadsheet.ParseFlag(in)
		require.NoError(t, err)
		assert.False(t, v, in)
	}
}
