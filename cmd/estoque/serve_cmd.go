package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhoicas/estoque-clinica/internal/infrastructure/spreadsheet"
	apphttp "github.com/jhoicas/estoque-clinica/internal/interfaces/http"
)

func (c *cli) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Inicia a API HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			c.log.Info().
				Str("env", c.cfg.App.Env).
				Str("app", c.cfg.App.Name).
				Str("storage", c.cfg.Storage).
				Msg("iniciando aplicación")

			return c.withServices(cmd.Context(), func(s *services) error {
				app := apphttp.NewApp(c.cfg.App.Name, c.log)
				apphttp.Router(app, apphttp.RouterDeps{
					Movements:   s.movements,
					SheetReader: spreadsheet.NewReader(),
					Params:      s.params,
					Reports:     s.reports,
					ReportPDF:   s.pdf,
					ReportDefaults: apphttp.ReportDefaults{
						StockoutHorizon:  c.cfg.Stock.StockoutHorizon,
						ExpiryWindowDays: c.cfg.Stock.ExpiryWindowDays,
						TopN:             c.cfg.Stock.TopN,
					},
					JWTSecret: c.cfg.JWT.Secret,
				})

				errc := make(chan error, 1)
				go func() {
					errc <- app.Listen(c.cfg.HTTP.Addr())
				}()

				quit := make(chan os.Signal, 1)
				signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
				defer signal.Stop(quit)

				select {
				case err := <-errc:
					c.log.Error().Err(err).Msg("servidor HTTP finalizado")
					return err
				case <-quit:
				}

				c.log.Info().Msg("señal de apagado recibida, cerrando servidor...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := app.ShutdownWithContext(shutdownCtx); err != nil {
					c.log.Error().Err(err).Msg("apagado del servidor")
				}
				c.log.Info().Msg("aplicación detenida")
				return nil
			})
		},
	}
}
