package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_ValoresPorDefecto(t *testing.T) {
	v := viper.New()
	v.Set("JWT_SECRET", "s3cret")

	cfg := fromViper(v)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, StoreDriverPostgres, cfg.App.StoreDriver)
	assert.Equal(t, 50, cfg.Ledger.DefaultLimit)
	assert.Equal(t, 200, cfg.Ledger.MaxLimit)
	assert.Equal(t, 15*time.Second, cfg.Alert.Timeout)
	assert.Equal(t, 25, cfg.DB.MaxConns)
	assert.False(t, cfg.Mail.Enabled())
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestFromViper_ListasYEnteros(t *testing.T) {
	v := viper.New()
	v.Set("JWT_SECRET", "s3cret")
	v.Set("SMTP_HOST", "smtp.example.com")
	v.Set("ALERT_RECIPIENTS", " stock@example.com, ,achat@example.com ")
	v.Set("ALERT_TIMEOUT_SECONDS", "5")
	v.Set("STORE_DRIVER", "MEMORY")

	cfg := fromViper(v)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, []string{"stock@example.com", "achat@example.com"}, cfg.Alert.Recipients)
	assert.Equal(t, 5*time.Second, cfg.Alert.Timeout)
	assert.Equal(t, StoreDriverMemory, cfg.App.StoreDriver)
	assert.True(t, cfg.Mail.Enabled())
}

func TestValidate_Errores(t *testing.T) {
	cases := map[string]map[string]string{
		"sin secret":           {},
		"driver desconocido":   {"JWT_SECRET": "x", "STORE_DRIVER": "mongo"},
		"smtp sin destinos":    {"JWT_SECRET": "x", "SMTP_HOST": "smtp"},
		"limites incoherentes": {"JWT_SECRET": "x", "LEDGER_DEFAULT_LIMIT": "300", "LEDGER_MAX_LIMIT": "200"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			v := viper.New()
			for k, val := range env {
				v.Set(k, val)
			}
			assert.Error(t, fromViper(v).Validate())
		})
	}
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "u", Password: "p@ss", DBName: "ledger", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss@db:5432/ledger?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://override"
	assert.Equal(t, "postgres://override", c.ConnectionString())
}
