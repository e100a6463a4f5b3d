package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/jhoicas/estoque-clinica/internal/domain"
)

// printJSON escribe v indentado en stdout.
func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// writePDF guarda el documento e informa la ruta en stdout.
func writePDF(cmd *cobra.Command, path string, doc []byte) error {
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		return fmt.Errorf("guardar %s: %w", path, err)
	}
	return printJSON(cmd, map[string]any{"arquivo": path, "bytes": len(doc)})
}

// parseQuantity acepta coma o punto decimal.
func parseQuantity(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.Replace(strings.TrimSpace(s), ",", ".", 1))
	if err != nil {
		return decimal.Zero, fmt.Errorf("quantidade %q: %w", s, domain.ErrInvalidQuantity)
	}
	return d, nil
}
