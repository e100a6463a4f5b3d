package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jhoicas/estoque-clinica/internal/domain"
	"github.com/jhoicas/estoque-clinica/pkg/jwt"
)

// tokenCmd emite un JWT para la API. No hay registro de usuarios: quien tiene
// acceso a JWT_SECRET decide usuario y rol.
func (c *cli) tokenCmd() *cobra.Command {
	var (
		userID, role string
		expMinutes   int
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Emite um token JWT para a API (" + strings.Join(jwt.Roles(), ", ") + ")",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !jwt.ValidRole(role) {
				return fmt.Errorf("rol %q: %w", role, domain.ErrInvalidInput)
			}
			if c.cfg.JWT.Secret == "" {
				return fmt.Errorf("JWT_SECRET no configurado: %w", domain.ErrInvalidInput)
			}
			if !cmd.Flags().Changed("exp") {
				expMinutes = c.cfg.JWT.Expiration
			}
			token, err := jwt.Generate(c.cfg.JWT.Secret, userID, role, c.cfg.JWT.Issuer, expMinutes)
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]any{
				"token":         token,
				"usuario":       userID,
				"rol":           role,
				"expira_em_min": expMinutes,
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&userID, "usuario", "", "identificador do usuário")
	f.StringVar(&role, "rol", jwt.RoleViewer, "admin | operador | consulta")
	f.IntVar(&expMinutes, "exp", 60, "validade em minutos (padrão: JWT_EXPIRATION_MINUTES)")
	_ = cmd.MarkFlagRequired("usuario")
	return cmd
}
