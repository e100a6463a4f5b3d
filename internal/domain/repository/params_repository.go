package repository

import (
	"context"

	"github.com/jhoicas/estoque-clinica/internal/domain/entity"
)

// ParamsRepository define el puerto para los parámetros globales versionados.
type ParamsRepository interface {
	// Current devuelve la versión vigente; nil si nunca se guardaron parámetros.
	Current(ctx context.Context) (*entity.GlobalParameters, error)
	// Save agrega una versión nueva (Version = vigente + 1) y la deja vigente.
	Save(ctx context.Context, params *entity.GlobalParameters) error
	// History devuelve las versiones de la más reciente a la más antigua. limit <= 0 = todas.
	History(ctx context.Context, limit int) ([]entity.GlobalParameters, error)
}
