package main

import (
	"github.com/spf13/cobra"

	"github.com/jhoicas/estoque-clinica/internal/application/report"
	"github.com/jhoicas/estoque-clinica/internal/domain/entity"
)

func (c *cli) verificarCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verificar",
		Short: "Status de todos os itens (CRITICO, REPOR, OK, VERIFICAR)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withServices(cmd.Context(), func(s *services) error {
				rows, err := s.reports.Verificar(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd, rows)
			})
		},
	}
}

func (c *cli) relCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rel",
		Short: "Relatórios de estoque",
	}
	cmd.AddCommand(c.rupturaCmd(), c.vencimentosCmd(), c.topConsumoCmd(), c.reposicaoCmd())
	return cmd
}

func (c *cli) rupturaCmd() *cobra.Command {
	var horizon int
	cmd := &cobra.Command{
		Use:   "ruptura",
		Short: "Itens cuja cobertura é menor ou igual ao horizonte (dias úteis)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("horizonte") {
				horizon = c.cfg.Stock.StockoutHorizon
			}
			return c.withServices(cmd.Context(), func(s *services) error {
				rows, err := s.reports.Ruptura(cmd.Context(), horizon)
				if err != nil {
					return err
				}
				return printJSON(cmd, rows)
			})
		},
	}
	cmd.Flags().IntVar(&horizon, "horizonte", 14, "dias úteis de cobertura máxima para alerta (padrão: RUPTURA_HORIZONTE_DIAS)")
	return cmd
}

func (c *cli) vencimentosCmd() *cobra.Command {
	var (
		opts    report.VencimentosOptions
		pdfPath string
	)
	cmd := &cobra.Command{
		Use:   "vencimentos",
		Short: "Lotes com saldo que vencem na janela (dias corridos)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("janela") {
				opts.WindowDays = c.cfg.Stock.ExpiryWindowDays
			}
			return c.withServices(cmd.Context(), func(s *services) error {
				if pdfPath != "" {
					doc, _, err := s.pdf.VencimentosPDF(cmd.Context(), opts)
					if err != nil {
						return err
					}
					return writePDF(cmd, pdfPath, doc)
				}
				v, err := s.reports.Vencimentos(cmd.Context(), opts)
				if err != nil {
					return err
				}
				return printJSON(cmd, v)
			})
		},
	}
	f := cmd.Flags()
	f.IntVar(&opts.WindowDays, "janela", 60, "dias até o vencimento (padrão: VENCIMENTOS_JANELA_DIAS)")
	f.BoolVar(&opts.PerBatch, "por-lote", true, "detalhe por lote; false agrega por item")
	f.BoolVar(&opts.IncludeExpired, "incluir-vencidos", false, "inclui lotes já vencidos com saldo")
	f.StringVar(&pdfPath, "pdf", "", "grava o relatório em PDF neste caminho")
	return cmd
}

func (c *cli) topConsumoCmd() *cobra.Command {
	var (
		from, to string
		topN     int
	)
	cmd := &cobra.Command{
		Use:   "top-consumo",
		Short: "Itens mais consumidos no intervalo de meses (descartes excluídos)",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := entity.ParseYearMonth(from)
			if err != nil {
				return err
			}
			end, err := entity.ParseYearMonth(to)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("top") {
				topN = c.cfg.Stock.TopN
			}
			return c.withServices(cmd.Context(), func(s *services) error {
				rows, err := s.reports.TopConsumo(cmd.Context(), start, end, topN)
				if err != nil {
					return err
				}
				return printJSON(cmd, rows)
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&from, "inicio", "", "YYYY-MM (início)")
	f.StringVar(&to, "fim", "", "YYYY-MM (fim)")
	f.IntVar(&topN, "top", 20, "top N itens (padrão: TOP_CONSUMO_N)")
	_ = cmd.MarkFlagRequired("inicio")
	_ = cmd.MarkFlagRequired("fim")
	return cmd
}

func (c *cli) reposicaoCmd() *cobra.Command {
	var pdfPath string
	cmd := &cobra.Command{
		Use:   "reposicao",
		Short: "Itens abaixo do ponto de pedido com quantidade sugerida",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withServices(cmd.Context(), func(s *services) error {
				if pdfPath != "" {
					doc, _, err := s.pdf.ReposicaoPDF(cmd.Context())
					if err != nil {
						return err
					}
					return writePDF(cmd, pdfPath, doc)
				}
				rows, err := s.reports.Reposicao(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd, rows)
			})
		},
	}
	cmd.Flags().StringVar(&pdfPath, "pdf", "", "grava o relatório em PDF neste caminho")
	return cmd
}
