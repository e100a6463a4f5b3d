package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/estoque-clinica/internal/domain"
	"github.com/jhoicas/estoque-clinica/internal/domain/ledger"
	"github.com/jhoicas/estoque-clinica/internal/domain/repository"
)

// Tipos de importación en lote.
const (
	ImportEntries = "entries"
	ImportExits   = "exits"
)

// MovementRow fila de planilla ya interpretada. Row es el número de fila en la hoja (1-based).
type MovementRow struct {
	Row       int
	ItemCode  string
	ItemName  string
	Unit      string
	BatchCode string
	Quantity  decimal.Decimal
	Date      time.Time // fecha de recepción (entradas) o de consumo (salidas)
	ExpiresOn time.Time
	Discard   bool
	Note      string

	OrderMultiple decimal.Decimal // lote_mult (sólo entradas)
	MinOrder      decimal.Decimal // lote_min (sólo entradas)
}

// ImportRequest lote de filas a aplicar. ParseErrors son los errores de lectura de la planilla:
// si hay alguno la importación se rechaza, pero las filas válidas igual se verifican contra el ledger.
type ImportRequest struct {
	Kind        string
	Rows        []MovementRow
	ParseErrors []*domain.RowValidationError
	DryRun      bool
}

// ImportResult resultado de una importación. Committed sólo es true si todas las filas se aplicaron.
type ImportResult struct {
	Kind      string                       `json:"kind"`
	Committed bool                         `json:"committed"`
	DryRun    bool                         `json:"dry_run,omitempty"`
	Rows      int                          `json:"rows"`
	Applied   int                          `json:"applied"`
	Errors    []*domain.RowValidationError `json:"errors"`
}

var errImportRejected = errors.New("importación rechazada")

// Import aplica todas las filas sobre el ledger dentro de una única transacción.
// Es atómica por archivo: una fila inválida implica que no se persiste ninguna.
func (uc *MovementUseCase) Import(ctx context.Context, req ImportRequest) (*ImportResult, error) {
	if req.Kind != ImportEntries && req.Kind != ImportExits {
		return nil, fmt.Errorf("tipo de importación %q: %w", req.Kind, domain.ErrInvalidInput)
	}
	res := &ImportResult{
		Kind:   req.Kind,
		DryRun: req.DryRun,
		Rows:   len(req.Rows) + len(req.ParseErrors),
		Errors: append([]*domain.RowValidationError{}, req.ParseErrors...),
	}

	err := uc.txRunner.Run(ctx, func(
		itemRepo repository.ItemRepository,
		batchRepo repository.BatchRepository,
		movRepo repository.MovementRepository,
	) error {
		l, err := LoadLedger(ctx, itemRepo, batchRepo, movRepo, uc.opts...)
		if err != nil {
			return err
		}
		res.Applied = 0
		for _, row := range req.Rows {
			if err := applyRow(l, req.Kind, row); err != nil {
				res.Errors = append(res.Errors, rowError(row.Row, err))
				continue
			}
			res.Applied++
		}
		if len(res.Errors) > 0 || req.DryRun {
			return errImportRejected
		}
		return SaveChanges(ctx, l.Changes(), itemRepo, batchRepo, movRepo)
	})
	switch {
	case errors.Is(err, errImportRejected):
		uc.log.Warn().
			Str("kind", req.Kind).
			Int("rows", res.Rows).
			Int("errors", len(res.Errors)).
			Bool("dry_run", req.DryRun).
			Msg("importación no confirmada")
		return res, nil
	case err != nil:
		return nil, err
	}
	res.Committed = true
	uc.log.Info().Str("kind", req.Kind).Int("rows", res.Rows).Msg("importación confirmada")
	return res, nil
}

func applyRow(l *ledger.Ledger, kind string, row MovementRow) error {
	if kind == ImportEntries {
		_, err := applyEntry(l, EntryRequest{
			ItemCode:   row.ItemCode,
			ItemName:   row.ItemName,
			Unit:       row.Unit,
			BatchCode:  row.BatchCode,
			Quantity:   row.Quantity,
			ExpiresOn:  row.ExpiresOn,
			ReceivedAt: row.Date,
			Note:       row.Note,

			OrderMultiple: row.OrderMultiple,
			MinOrder:      row.MinOrder,
		})
		return err
	}
	_, err := applyExit(l, ExitRequest{
		ItemCode:  row.ItemCode,
		BatchCode: row.BatchCode,
		Quantity:  row.Quantity,
		At:        row.Date,
		Discard:   row.Discard,
		Note:      row.Note,
	})
	return err
}

// rowError asocia el error del ledger a la columna de la planilla que lo causó.
func rowError(row int, err error) *domain.RowValidationError {
	field := ""
	switch {
	case errors.Is(err, domain.ErrInvalidQuantity), errors.Is(err, domain.ErrInsufficientStock):
		field = "quantidade"
	case errors.Is(err, domain.ErrDuplicateBatch), errors.Is(err, domain.ErrInvalidBatch):
		field = "lote"
	case errors.Is(err, domain.ErrInvalidInput):
		field = "codigo"
	}
	return &domain.RowValidationError{Row: row, Field: field, Err: err}
}
