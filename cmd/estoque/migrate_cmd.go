package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/jhoicas/estoque-clinica/internal/infrastructure/postgres"
)

func (c *cli) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica as migrações pendentes no PostgreSQL",
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.cfg.Storage != "postgres" {
				return errors.New("migrate requiere STORAGE=postgres")
			}
			return postgres.Migrate(c.cfg.DB, c.log)
		},
	}
}
