package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/estoque-clinica/internal/domain/entity"
	"github.com/jhoicas/estoque-clinica/internal/domain/ledger"
	"github.com/jhoicas/estoque-clinica/internal/domain/repository"
	"github.com/jhoicas/estoque-clinica/pkg/logger"
)

// MovementUseCase registra entradas y salidas de forma transaccional: carga el ledger
// dentro de la tx, aplica la operación y persiste los cambios (Commit/Rollback vía TxRunner).
type MovementUseCase struct {
	txRunner TxRunner
	read     Repositories
	log      *logger.Logger
	opts     []ledger.Option
}

// NewMovementUseCase construye el caso de uso. opts se aplican a cada ledger cargado (reloj, IDs).
func NewMovementUseCase(txRunner TxRunner, read Repositories, log *logger.Logger, opts ...ledger.Option) *MovementUseCase {
	return &MovementUseCase{
		txRunner: txRunner,
		read:     read,
		log:      log.Component("movements"),
		opts:     opts,
	}
}

// EntryRequest entrada individual. Nombre y unidad completan el ítem si se crea en esta entrada.
type EntryRequest struct {
	ItemCode   string
	ItemName   string
	Unit       string
	BatchCode  string
	Quantity   decimal.Decimal
	ExpiresOn  time.Time
	ReceivedAt time.Time
	Note       string

	// Política de compra del ítem; cero = se conserva la vigente (1 para ítems nuevos).
	OrderMultiple decimal.Decimal
	MinOrder      decimal.Decimal
}

// ExitRequest salida individual. BatchCode opcional fija el lote.
type ExitRequest struct {
	ItemCode  string
	BatchCode string
	Quantity  decimal.Decimal
	At        time.Time
	Discard   bool
	Note      string
}

// RecordEntry registra una entrada (crea el lote y el ítem si no existe).
func (uc *MovementUseCase) RecordEntry(ctx context.Context, in EntryRequest) (*entity.Movement, error) {
	var mov *entity.Movement
	err := uc.txRunner.Run(ctx, func(
		itemRepo repository.ItemRepository,
		batchRepo repository.BatchRepository,
		movRepo repository.MovementRepository,
	) error {
		l, err := LoadLedger(ctx, itemRepo, batchRepo, movRepo, uc.opts...)
		if err != nil {
			return err
		}
		if mov, err = applyEntry(l, in); err != nil {
			return err
		}
		return SaveChanges(ctx, l.Changes(), itemRepo, batchRepo, movRepo)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("item", mov.ItemCode).
		Str("batch", in.BatchCode).
		Str("qty", mov.Quantity.String()).
		Msg("entrada registrada")
	return mov, nil
}

// RecordExit registra una salida consumiendo lotes en orden FEFO.
func (uc *MovementUseCase) RecordExit(ctx context.Context, in ExitRequest) (*entity.Movement, error) {
	var mov *entity.Movement
	err := uc.txRunner.Run(ctx, func(
		itemRepo repository.ItemRepository,
		batchRepo repository.BatchRepository,
		movRepo repository.MovementRepository,
	) error {
		l, err := LoadLedger(ctx, itemRepo, batchRepo, movRepo, uc.opts...)
		if err != nil {
			return err
		}
		if mov, err = applyExit(l, in); err != nil {
			return err
		}
		return SaveChanges(ctx, l.Changes(), itemRepo, batchRepo, movRepo)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("item", mov.ItemCode).
		Str("qty", mov.AbsQuantity().String()).
		Int("batches", len(mov.Allocations)).
		Bool("discard", mov.Discard).
		Msg("salida registrada")
	return mov, nil
}

// Snapshot carga el estado actual del ledger fuera de transacción (sólo lectura).
func (uc *MovementUseCase) Snapshot(ctx context.Context) (*ledger.Ledger, error) {
	return LoadLedger(ctx, uc.read.Items, uc.read.Batches, uc.read.Movements, uc.opts...)
}

func applyEntry(l *ledger.Ledger, in EntryRequest) (*entity.Movement, error) {
	if err := l.EnsureItem(entity.Item{
		Code:          in.ItemCode,
		Name:          in.ItemName,
		Unit:          in.Unit,
		OrderMultiple: in.OrderMultiple,
		MinOrder:      in.MinOrder,
	}); err != nil {
		return nil, err
	}
	return l.RecordEntry(ledger.EntryInput{
		ItemCode:   in.ItemCode,
		BatchCode:  in.BatchCode,
		Quantity:   in.Quantity,
		ExpiresOn:  in.ExpiresOn,
		ReceivedAt: in.ReceivedAt,
		Note:       in.Note,
	})
}

func applyExit(l *ledger.Ledger, in ExitRequest) (*entity.Movement, error) {
	return l.RecordExit(ledger.ExitInput{
		ItemCode:  in.ItemCode,
		BatchCode: in.BatchCode,
		Quantity:  in.Quantity,
		At:        in.At,
		Discard:   in.Discard,
		Note:      in.Note,
	})
}
