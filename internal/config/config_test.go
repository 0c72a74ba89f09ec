package config

import (
	"testing"
	"time"

	"github.com/hugohenrick/erp-ledger/internal/domain/payment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"HTTP_PORT", "STORE_DRIVER", "SETTLEMENT_TOLERANCE", "CONTENTION_MAX_ATTEMPTS",
		"CORS_ALLOWED_ORIGINS", "COMMISSION_CREDIT_CARD", "SNOWFLAKE_NODE", "JWT_SECRET_KEY"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, DriverPostgres, cfg.StoreDriver)
	assert.Equal(t, "0.01", cfg.SettlementTolerance.String())
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, "3.5", cfg.Commissions.Rate(payment.MethodCreditCard).String())
	assert.Equal(t, int64(1), cfg.SnowflakeNode)
	assert.Empty(t, cfg.JWTSecret)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("STORE_DRIVER", "Memory")
	t.Setenv("SETTLEMENT_TOLERANCE", "0.05")
	t.Setenv("CONTENTION_MAX_ATTEMPTS", "5")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test ,")
	t.Setenv("COMMISSION_DEBIT_CARD", "2")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr())
	assert.Equal(t, DriverMemory, cfg.StoreDriver)
	assert.Equal(t, "0.05", cfg.SettlementTolerance.String())
	assert.Equal(t, 5, cfg.MaxAttempts)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, "2", cfg.Commissions.Rate(payment.MethodDebitCard).String())
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"HTTP_PORT", "oitenta"},
		{"STORE_DRIVER", "mongo"},
		{"SETTLEMENT_TOLERANCE", "-0.01"},
		{"SETTLEMENT_TOLERANCE", "um centavo"},
		{"CONTENTION_MAX_ATTEMPTS", "0"},
		{"SNOWFLAKE_NODE", "2048"},
		{"COMMISSION_CREDIT_CARD", "150"},
		{"SHUTDOWN_TIMEOUT", "dez"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
