package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrForbidden    = errors.New("acceso denegado")

	// Ledger
	ErrInvalidQuantity   = errors.New("cantidad inválida")
	ErrDuplicateBatch    = errors.New("lote duplicado para el ítem")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrInvalidBatch      = errors.New("lote inválido")

	// Demanda, parámetros y reportes
	ErrInvalidRange      = errors.New("rango inválido")
	ErrInvalidParameters = errors.New("parámetros globales inválidos")
)

// RowValidationError error de validación de una fila de planilla.
// Row es 1-based y cuenta la fila de encabezado (igual que la hoja de cálculo).
type RowValidationError struct {
	Row   int
	Field string
	Err   error
}

func (e *RowValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("fila %d (%s): %v", e.Row, e.Field, e.Err)
	}
	return fmt.Sprintf("fila %d: %v", e.Row, e.Err)
}

func (e *RowValidationError) Unwrap() error { return e.Err }

// MarshalJSON incluye el mensaje del error envuelto (Err no es serializable por sí mismo).
func (e *RowValidationError) MarshalJSON() ([]byte, error) {
	msg := ""
	if e.Err != nil {
		msg = e.Err.Error()
	}
	return json.Marshal(struct {
		Row     int    `json:"row"`
		Field   string `json:"field,omitempty"`
		Message string `json:"message"`
	}{e.Row, e.Field, msg})
}
