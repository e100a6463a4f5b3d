// Package spreadsheet lee planillas XLSX de entradas y salidas y las convierte en filas
// de movimiento listas para importar.
package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/estoque-clinica/internal/application/inventory"
	"github.com/jhoicas/estoque-clinica/internal/domain"
)

// Columnas canónicas.
const (
	colCode      = "codigo"
	colName      = "nome"
	colBatch     = "lote"
	colQuantity  = "quantidade"
	colDate      = "data"
	colEntryDate = "data_entrada"
	colExitDate  = "data_saida"
	colExpiry    = "validade"
	colUnit      = "unidade"
	colDiscard   = "descarte"
	colNote      = "observacao"
	colMinOrder  = "lote_min"
	colMultiple  = "lote_mult"
)

// aliases encabezado normalizado → columna canónica.
var aliases = map[string]string{
	"codigo": colCode, "cod": colCode, "id": colCode, "codigo_produto": colCode,

	"nome": colName, "produto": colName, "descricao": colName, "item": colName,

	"lote": colBatch, "numero_lote": colBatch,

	"quantidade": colQuantity, "qtde": colQuantity, "qtd": colQuantity,
	"quantidade_apresentacao": colQuantity, "quantidade_unidade": colQuantity,

	"data": colDate,

	"data_entrada": colEntryDate, "entrada": colEntryDate, "data_de_entrada": colEntryDate,

	"data_saida": colExitDate, "saida": colExitDate, "data_de_saida": colExitDate,

	"validade": colExpiry, "data_validade": colExpiry, "data_de_validade": colExpiry, "vencimento": colExpiry,

	"unidade": colUnit, "un": colUnit, "unidade_medida": colUnit,

	"descarte": colDiscard, "descarte_flag": colDiscard, "descartado": colDiscard,

	"observacao": colNote, "obs": colNote, "observacoes": colNote,

	"lote_min": colMinOrder, "lote_minimo": colMinOrder, "compra_minima": colMinOrder,

	"lote_mult": colMultiple, "lote_multiplo": colMultiple, "multiplo": colMultiple, "multiplo_compra": colMultiple,
}

var (
	errMissingValue = errors.New("valor obligatorio ausente")
	errBadNumber    = errors.New("número no reconocido")
	errBadDate      = errors.New("fecha no reconocida")
	errBadFlag      = errors.New("valor booleano no reconocido")

	numberRe = regexp.MustCompile(`[-+]?\d+(?:[.,]\d+)?`)
)

// Reader interpreta planillas de movimientos. La primera hoja es la que se lee y la
// primera fila no vacía es el encabezado.
type Reader struct{}

// NewReader crea un lector de planillas.
func NewReader() *Reader { return &Reader{} }

// Read lee la planilla y devuelve una solicitud de importación del tipo indicado.
// Los errores por fila quedan en ParseErrors; sólo falla del todo si el archivo no
// es legible o faltan columnas obligatorias.
func (rd *Reader) Read(r io.Reader, kind string) (inventory.ImportRequest, error) {
	req := inventory.ImportRequest{Kind: kind}
	if kind != inventory.ImportEntries && kind != inventory.ImportExits {
		return req, fmt.Errorf("tipo de planilla %q: %w", kind, domain.ErrInvalidInput)
	}

	f, err := excelize.OpenReader(r)
	if err != nil {
		return req, fmt.Errorf("abrir planilla: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return req, fmt.Errorf("planilla sin hojas: %w", domain.ErrInvalidInput)
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return req, fmt.Errorf("leer hoja %q: %w", sheets[0], err)
	}

	headerAt := -1
	for i, cells := range rows {
		if !blank(cells) {
			headerAt = i
			break
		}
	}
	if headerAt < 0 {
		return req, fmt.Errorf("planilla vacía: %w", domain.ErrInvalidInput)
	}
	cols := mapHeader(rows[headerAt])
	required := []string{colCode, colQuantity}
	if kind == inventory.ImportEntries {
		required = append(required, colBatch)
	}
	for _, c := range required {
		if _, ok := cols[c]; !ok {
			return req, fmt.Errorf("columna %q ausente: %w", c, domain.ErrInvalidInput)
		}
	}

	dateCols := []string{colExitDate, colDate}
	if kind == inventory.ImportEntries {
		dateCols = []string{colEntryDate, colDate}
	}

	for i := headerAt + 1; i < len(rows); i++ {
		cells := rows[i]
		if blank(cells) {
			continue
		}
		row, rowErr := parseRow(i+1, cells, cols, kind, dateCols)
		if rowErr != nil {
			req.ParseErrors = append(req.ParseErrors, rowErr)
			continue
		}
		req.Rows = append(req.Rows, row)
	}
	return req, nil
}

func parseRow(n int, cells []string, cols map[string]int, kind string, dateCols []string) (inventory.MovementRow, *domain.RowValidationError) {
	get := func(col string) string {
		i, ok := cols[col]
		if !ok || i >= len(cells) {
			return ""
		}
		return strings.TrimSpace(cells[i])
	}
	fail := func(field string, err error) *domain.RowValidationError {
		return &domain.RowValidationError{Row: n, Field: field, Err: err}
	}

	row := inventory.MovementRow{
		Row:       n,
		ItemCode:  get(colCode),
		ItemName:  get(colName),
		Unit:      strings.ToUpper(get(colUnit)),
		BatchCode: get(colBatch),
		Note:      get(colNote),
	}
	if row.ItemCode == "" {
		return row, fail(colCode, errMissingValue)
	}
	if kind == inventory.ImportEntries && row.BatchCode == "" {
		return row, fail(colBatch, errMissingValue)
	}

	raw := get(colQuantity)
	if raw == "" {
		return row, fail(colQuantity, errMissingValue)
	}
	qty, unit, err := ParseQuantity(raw)
	if err != nil {
		return row, fail(colQuantity, err)
	}
	row.Quantity = qty
	if row.Unit == "" {
		row.Unit = unit
	}

	for _, c := range dateCols {
		v := get(c)
		if v == "" {
			continue
		}
		if row.Date, err = ParseDate(v); err != nil {
			return row, fail(c, err)
		}
		break
	}
	if v := get(colExpiry); v != "" {
		if row.ExpiresOn, err = ParseDate(v); err != nil {
			return row, fail(colExpiry, err)
		}
	}
	if kind == inventory.ImportEntries {
		for _, pc := range []struct {
			col string
			dst *decimal.Decimal
		}{{colMultiple, &row.OrderMultiple}, {colMinOrder, &row.MinOrder}} {
			v := get(pc.col)
			if v == "" {
				continue
			}
			n, _, err := ParseQuantity(v)
			if err != nil {
				return row, fail(pc.col, err)
			}
			if n.IsNegative() {
				return row, fail(pc.col, errBadNumber)
			}
			*pc.dst = n
		}
	}
	if v := get(colDiscard); v != "" {
		if row.Discard, err = ParseFlag(v); err != nil {
			return row, fail(colDiscard, err)
		}
	}
	return row, nil
}

// ParseQuantity interpreta "<número> [<unidad>] [- <descripción>]", por ejemplo
// "5,00 FR - Frascos" → (5, "FR"). Acepta coma o punto decimal.
func ParseQuantity(s string) (decimal.Decimal, string, error) {
	head := strings.TrimSpace(s)
	if i := strings.Index(head, "-"); i > 0 {
		head = head[:i]
	}
	parts := strings.Fields(head)
	if len(parts) == 0 {
		return decimal.Zero, "", fmt.Errorf("%q: %w", s, errBadNumber)
	}
	num := numberRe.FindString(parts[0])
	if num == "" {
		return decimal.Zero, "", fmt.Errorf("%q: %w", s, errBadNumber)
	}
	qty, err := decimal.NewFromString(strings.Replace(num, ",", ".", 1))
	if err != nil {
		return decimal.Zero, "", fmt.Errorf("%q: %w", s, errBadNumber)
	}
	unit := ""
	if len(parts) >= 2 {
		unit = strings.ToUpper(parts[1])
	}
	return qty, unit, nil
}

var dateLayouts = []string{time.DateOnly, "02/01/2006", "02-01-2006", "02/01/06", "2/1/2006", "2006/01/02"}

// ParseDate acepta YYYY-MM-DD, DD/MM/YYYY (y variantes) o un número de serie de Excel.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, fmt.Errorf("%q: %w", s, errBadDate)
		}
		return t.UTC(), nil
	}
	// "2025-03-14 00:00:00" cuando la celda trae hora
	if d, _, ok := strings.Cut(s, " "); ok {
		s = d
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%q: %w", s, errBadDate)
}

// ParseFlag interpreta sim/não, s/n, 1/0, true/false, x.
func ParseFlag(s string) (bool, error) {
	switch normalize(s) {
	case "1", "sim", "s", "true", "t", "x", "yes", "y":
		return true, nil
	case "", "0", "nao", "n", "false", "f", "no":
		return false, nil
	}
	return false, fmt.Errorf("%q: %w", s, errBadFlag)
}

func mapHeader(cells []string) map[string]int {
	cols := make(map[string]int)
	for i, h := range cells {
		key := normalize(h)
		if c, ok := aliases[key]; ok {
			if _, dup := cols[c]; !dup {
				cols[c] = i
			}
		}
	}
	return cols
}

// normalize pasa a minúsculas, quita acentos y reemplaza lo no alfanumérico por "_".
func normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		plain = strings.ToLower(strings.TrimSpace(s))
	}
	var b strings.Builder
	sep := false
	for _, r := range plain {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if sep && b.Len() > 0 {
				b.WriteByte('_')
			}
			sep = false
			b.WriteRune(r)
			continue
		}
		sep = true
	}
	return b.String()
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
