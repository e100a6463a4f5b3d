package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/estoque-clinica/internal/application/inventory"
	"github.com/jhoicas/estoque-clinica/internal/domain"
	"github.com/jhoicas/estoque-clinica/internal/domain/entity"
)

// EntryRequest body para POST /api/movements/entries.
type EntryRequest struct {
	ItemCode   string          `json:"codigo"`
	ItemName   string          `json:"nome,omitempty"`
	Unit       string          `json:"unidade,omitempty"`
	BatchCode  string          `json:"lote"`
	Quantity   decimal.Decimal `json:"quantidade"`
	ExpiresOn  string          `json:"validade,omitempty"`     // YYYY-MM-DD
	ReceivedAt string          `json:"data_entrada,omitempty"` // YYYY-MM-DD o RFC3339; vacío = ahora
	Note       string          `json:"observacao,omitempty"`

	OrderMultiple decimal.Decimal `json:"lote_mult"` // 0 = se conserva la política vigente
	MinOrder      decimal.Decimal `json:"lote_min"`
}

// ToUseCase convierte el body en la solicitud del caso de uso.
func (r EntryRequest) ToUseCase() (inventory.EntryRequest, error) {
	expires, err := ParseDate(r.ExpiresOn)
	if err != nil {
		return inventory.EntryRequest{}, fmt.Errorf("validade: %w", err)
	}
	received, err := ParseDate(r.ReceivedAt)
	if err != nil {
		return inventory.EntryRequest{}, fmt.Errorf("data_entrada: %w", err)
	}
	return inventory.EntryRequest{
		ItemCode:   strings.TrimSpace(r.ItemCode),
		ItemName:   strings.TrimSpace(r.ItemName),
		Unit:       strings.ToUpper(strings.TrimSpace(r.Unit)),
		BatchCode:  strings.TrimSpace(r.BatchCode),
		Quantity:   r.Quantity,
		ExpiresOn:  expires,
		ReceivedAt: received,
		Note:       r.Note,

		OrderMultiple: r.OrderMultiple,
		MinOrder:      r.MinOrder,
	}, nil
}

// ExitRequest body para POST /api/movements/exits. Lote opcional: vacío = FEFO.
type ExitRequest struct {
	ItemCode  string          `json:"codigo"`
	BatchCode string          `json:"lote,omitempty"`
	Quantity  decimal.Decimal `json:"quantidade"`
	At        string          `json:"data_saida,omitempty"`
	Discard   bool            `json:"descarte,omitempty"`
	Note      string          `json:"observacao,omitempty"`
}

// ToUseCase convierte el body en la solicitud del caso de uso.
func (r ExitRequest) ToUseCase() (inventory.ExitRequest, error) {
	at, err := ParseDate(r.At)
	if err != nil {
		return inventory.ExitRequest{}, fmt.Errorf("data_saida: %w", err)
	}
	return inventory.ExitRequest{
		ItemCode:  strings.TrimSpace(r.ItemCode),
		BatchCode: strings.TrimSpace(r.BatchCode),
		Quantity:  r.Quantity,
		At:        at,
		Discard:   r.Discard,
		Note:      r.Note,
	}, nil
}

// AllocationDTO lote consumido (o creado) por un movimiento.
type AllocationDTO struct {
	BatchCode string          `json:"lote"`
	Quantity  decimal.Decimal `json:"quantidade"`
}

// MovementDTO respuesta de un movimiento registrado.
type MovementDTO struct {
	ID          string          `json:"id"`
	Type        string          `json:"tipo"`
	ItemCode    string          `json:"codigo"`
	Quantity    decimal.Decimal `json:"quantidade"`
	At          time.Time       `json:"data"`
	Discard     bool            `json:"descarte,omitempty"`
	Note        string          `json:"observacao,omitempty"`
	Allocations []AllocationDTO `json:"lotes"`
}

// MovementFromEntity mapea el movimiento del ledger.
func MovementFromEntity(m *entity.Movement) MovementDTO {
	out := MovementDTO{
		ID:          m.ID,
		Type:        m.Type,
		ItemCode:    m.ItemCode,
		Quantity:    m.Quantity,
		At:          m.At,
		Discard:     m.Discard,
		Note:        m.Note,
		Allocations: make([]AllocationDTO, 0, len(m.Allocations)),
	}
	for _, a := range m.Allocations {
		out.Allocations = append(out.Allocations, AllocationDTO{BatchCode: a.BatchCode, Quantity: a.Quantity})
	}
	return out
}

// ParseDate acepta YYYY-MM-DD o RFC3339. Vacío devuelve la fecha cero.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("fecha %q: %w", s, domain.ErrInvalidInput)
	}
	return t.UTC(), nil
}
