// Command estoque administra el inventario de insumos de la clínica: movimientos,
// parámetros de reposición, reportes y la API HTTP.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/estoque-clinica/internal/application/inventory"
	"github.com/jhoicas/estoque-clinica/pkg/config"
	"github.com/jhoicas/estoque-clinica/pkg/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// cli estado compartido por los subcomandos (se completa en PersistentPreRunE).
type cli struct {
	storage string
	cfg     *config.Config
	log     *logger.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "estoque",
		Short:         "Estoque de insumos da clínica (FEFO, SS/ROP, relatórios)",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if c.storage != "" {
				cfg.Storage = c.storage
			}
			c.cfg = cfg
			c.log = logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Output: cmd.ErrOrStderr()})
			return nil
		},
	}
	root.PersistentFlags().StringVar(&c.storage, "storage", "", "postgres | memory (sobrescribe STORAGE)")

	root.AddCommand(
		c.migrateCmd(),
		c.paramsCmd(),
		c.entradaCmd(),
		c.saidaCmd(),
		c.importCmd("entrada-lotes", "Importa planilha XLSX de entradas (tudo ou nada)", inventory.ImportEntries),
		c.importCmd("saida-lotes", "Importa planilha XLSX de saídas (tudo ou nada)", inventory.ImportExits),
		c.verificarCmd(),
		c.relCmd(),
		c.serveCmd(),
		c.tokenCmd(),
	)
	return root
}
