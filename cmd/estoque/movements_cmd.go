package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/estoque-clinica/internal/application/dto"
	"github.com/jhoicas/estoque-clinica/internal/infrastructure/spreadsheet"
)

var errNotCommitted = errors.New("importação não confirmada")

func (c *cli) entradaCmd() *cobra.Command {
	var in dto.EntryRequest
	var qty, mult, minOrder string
	cmd := &cobra.Command{
		Use:   "entrada",
		Short: "Registra uma entrada (cria o lote)",
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := parseQuantity(qty)
			if err != nil {
				return err
			}
			in.Quantity = q
			if mult != "" {
				if in.OrderMultiple, err = parseQuantity(mult); err != nil {
					return err
				}
			}
			if minOrder != "" {
				if in.MinOrder, err = parseQuantity(minOrder); err != nil {
					return err
				}
			}
			req, err := in.ToUseCase()
			if err != nil {
				return err
			}
			return c.withServices(cmd.Context(), func(s *services) error {
				mov, err := s.movements.RecordEntry(cmd.Context(), req)
				if err != nil {
					return err
				}
				return printJSON(cmd, dto.MovementFromEntity(mov))
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.ItemCode, "codigo", "", "código do item")
	f.StringVar(&in.ItemName, "nome", "", "nome do item (se for novo)")
	f.StringVar(&in.Unit, "unidade", "", "unidade de medida (se for novo)")
	f.StringVar(&in.BatchCode, "lote", "", "código do lote")
	f.StringVar(&qty, "quantidade", "", "quantidade recebida")
	f.StringVar(&in.ExpiresOn, "validade", "", "validade YYYY-MM-DD")
	f.StringVar(&in.ReceivedAt, "data", "", "data de entrada YYYY-MM-DD (padrão: agora)")
	f.StringVar(&in.Note, "obs", "", "observação")
	f.StringVar(&mult, "lote-mult", "", "múltiplo de compra do item (padrão: 1 para itens novos)")
	f.StringVar(&minOrder, "lote-min", "", "quantidade mínima de compra (padrão: 1 para itens novos)")
	_ = cmd.MarkFlagRequired("codigo")
	_ = cmd.MarkFlagRequired("lote")
	_ = cmd.MarkFlagRequired("quantidade")
	return cmd
}

func (c *cli) saidaCmd() *cobra.Command {
	var in dto.ExitRequest
	var qty string
	cmd := &cobra.Command{
		Use:   "saida",
		Short: "Registra uma saída (FEFO, ou o lote indicado)",
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := parseQuantity(qty)
			if err != nil {
				return err
			}
			in.Quantity = q
			req, err := in.ToUseCase()
			if err != nil {
				return err
			}
			return c.withServices(cmd.Context(), func(s *services) error {
				mov, err := s.movements.RecordExit(cmd.Context(), req)
				if err != nil {
					return err
				}
				return printJSON(cmd, dto.MovementFromEntity(mov))
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.ItemCode, "codigo", "", "código do item")
	f.StringVar(&in.BatchCode, "lote", "", "lote específico (padrão: FEFO)")
	f.StringVar(&qty, "quantidade", "", "quantidade consumida")
	f.StringVar(&in.At, "data", "", "data de saída YYYY-MM-DD (padrão: agora)")
	f.BoolVar(&in.Discard, "descarte", false, "saída por descarte (não conta como consumo)")
	f.StringVar(&in.Note, "obs", "", "observação")
	_ = cmd.MarkFlagRequired("codigo")
	_ = cmd.MarkFlagRequired("quantidade")
	return cmd
}

func (c *cli) importCmd(use, short, kind string) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   use + " <arquivo.xlsx>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			req, err := spreadsheet.NewReader().Read(f, kind)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			req.DryRun = dryRun
			return c.withServices(cmd.Context(), func(s *services) error {
				res, err := s.movements.Import(cmd.Context(), req)
				if err != nil {
					return err
				}
				if err := printJSON(cmd, res); err != nil {
					return err
				}
				if len(res.Errors) > 0 {
					return fmt.Errorf("%w: %d erro(s) em %d linha(s)", errNotCommitted, len(res.Errors), res.Rows)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "apenas valida, não grava")
	return cmd
}
