package report

import (
	"fmt"

	"github.com/jhoicas/estoque-clinica/internal/domain"
	"github.com/jhoicas/estoque-clinica/internal/domain/entity"
)

// Validaciones de entrada, previas a cargar el snapshot.

func validateHorizon(h int) error {
	if h <= 0 {
		return fmt.Errorf("horizonte de %d días: %w", h, domain.ErrInvalidRange)
	}
	return nil
}

func validateWindow(d int) error {
	if d < 0 {
		return fmt.Errorf("ventana de %d días: %w", d, domain.ErrInvalidRange)
	}
	return nil
}

func validateMonths(from, to entity.YearMonth) error {
	if to.Before(from) {
		return fmt.Errorf("rango %s..%s: %w", from, to, domain.ErrInvalidRange)
	}
	return nil
}
