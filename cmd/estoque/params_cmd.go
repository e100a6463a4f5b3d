package main

import (
	"os/user"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jhoicas/estoque-clinica/internal/application/dto"
	"github.com/jhoicas/estoque-clinica/internal/application/params"
	"github.com/jhoicas/estoque-clinica/internal/domain"
)

func (c *cli) paramsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "params",
		Short: "Parâmetros globais (nível de serviço e lead time)",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Mostra os parâmetros vigentes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withServices(cmd.Context(), func(s *services) error {
				p, err := s.params.Current(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd, dto.ParamsFromEntity(p))
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:       "get <chave>",
		Short:     "Lê um parâmetro",
		Args:      cobra.ExactArgs(1),
		ValidArgs: params.Keys(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withServices(cmd.Context(), func(s *services) error {
				v, err := s.params.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd, map[string]float64{args[0]: v})
			})
		},
	})

	var by string
	setCmd := &cobra.Command{
		Use:   "set <chave> <valor>",
		Short: "Grava uma nova versão com o parâmetro alterado (" + strings.Join(params.Keys(), ", ") + ")",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := strconv.ParseFloat(strings.Replace(args[1], ",", ".", 1), 64)
			if err != nil {
				return domain.ErrInvalidInput
			}
			if by == "" {
				by = currentUser()
			}
			return c.withServices(cmd.Context(), func(s *services) error {
				p, err := s.params.Set(cmd.Context(), args[0], v, by)
				if err != nil {
					return err
				}
				return printJSON(cmd, dto.ParamsFromEntity(p))
			})
		},
	}
	setCmd.Flags().StringVar(&by, "por", "", "responsável pela alteração (padrão: usuário do sistema)")
	cmd.AddCommand(setCmd)

	var limit int
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Versões anteriores, da mais recente à mais antiga",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withServices(cmd.Context(), func(s *services) error {
				list, err := s.params.History(cmd.Context(), limit)
				if err != nil {
					return err
				}
				out := make([]dto.ParamsDTO, 0, len(list))
				for _, p := range list {
					out = append(out, dto.ParamsFromEntity(p))
				}
				return printJSON(cmd, out)
			})
		},
	}
	historyCmd.Flags().IntVar(&limit, "limit", 20, "máximo de versões")
	cmd.AddCommand(historyCmd)

	return cmd
}

func currentUser() string {
	u, err := user.Current()
	if err != nil {
		return "cli"
	}
	return u.Username
}
