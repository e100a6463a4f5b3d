package config_test

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-clinica/pkg/config"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := config.FromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Storage)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.InDelta(t, 0.95, cfg.Stock.ServiceLevel, 1e-9)
	assert.InDelta(t, 6.0, cfg.Stock.LeadTimeMean, 1e-9)
	assert.InDelta(t, 1.0, cfg.Stock.LeadTimeStdev, 1e-9)
	assert.Equal(t, 90, cfg.Stock.DemandWindowDays)
	assert.Equal(t, "postgres://postgres:@localhost:5432/estoque?sslmode=disable", cfg.DB.ConnectionString())
}

func TestFromViper_Valores(t *testing.T) {
	v := viper.New()
	v.Set("NIVEL_SERVICO", "0,99")
	v.Set("MU_T_DIAS_UTEIS", "8")
	v.Set("DEMAND_WINDOW_DAYS", "60")
	v.Set("STORAGE", "Memory")
	v.Set("DATABASE_URL", "postgres://x@db/estoque")
	v.Set("DB_PASSWORD", "p@ss:word")

	cfg, err := config.FromViper(v)
	require.NoError(t, err)
	assert.InDelta(t, 0.99, cfg.Stock.ServiceLevel, 1e-9)
	assert.InDelta(t, 8.0, cfg.Stock.LeadTimeMean, 1e-9)
	assert.Equal(t, 60, cfg.Stock.DemandWindowDays)
	assert.Equal(t, "memory", cfg.Storage)
	assert.Equal(t, "postgres://x@db/estoque", cfg.DB.ConnectionString())
	assert.Contains(t, cfg.DB.DSN(), "p%40ss%3Aword")
}

func TestFromViper_Invalida(t *testing.T) {
	v := viper.New()
	v.Set("STORAGE", "sqlite")
	_, err := config.FromViper(v)
	assert.Error(t, err)

	v = viper.New()
	v.Set("DEMAND_WINDOW_DAYS", "0")
	_, err = config.FromViper(v)
	assert.Error(t, err)
}
