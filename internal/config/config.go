// Package config carrega a configuração do serviço a partir do ambiente.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hugohenrick/erp-ledger/internal/domain/payment"
	"github.com/hugohenrick/erp-ledger/internal/infrastructure/database"
	"github.com/hugohenrick/erp-ledger/internal/infrastructure/extraction"
	"github.com/hugohenrick/erp-ledger/pkg/logger"
	"github.com/shopspring/decimal"
)

// Drivers de armazenamento suportados
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config reúne todas as configurações do serviço
type Config struct {
	HTTPPort        string
	BasePath        string
	GinMode         string
	ShutdownTimeout time.Duration
	CORSOrigins     []string

	StoreDriver string
	Database    *database.PostgresConfig

	Log logger.Config

	JWTSecret string
	JWTIssuer string

	SettlementTolerance decimal.Decimal
	MaxAttempts         int
	RetryDelay          time.Duration
	Commissions         payment.Commissions

	OpenAI extraction.Config

	NotifyWebhookURL string
	NotifyTimeout    time.Duration
	NotifyBuffer     int

	SnowflakeNode int64
}

// Load lê as variáveis de ambiente e valida o resultado
func Load() (*Config, error) {
	cfg := &Config{
		HTTPPort:         getEnv("HTTP_PORT", "8080"),
		BasePath:         getEnv("API_BASE_PATH", "/api/v1"),
		GinMode:          getEnv("GIN_MODE", "release"),
		CORSOrigins:      splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		StoreDriver:      strings.ToLower(getEnv("STORE_DRIVER", DriverPostgres)),
		Database:         database.NewPostgresConfigFromEnv(),
		JWTSecret:        os.Getenv("JWT_SECRET_KEY"),
		JWTIssuer:        getEnv("JWT_ISSUER", "erp-ledger-api"),
		NotifyWebhookURL: os.Getenv("NOTIFY_WEBHOOK_URL"),
		Log: logger.Config{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "json"),
			TimeFormat: time.RFC3339,
			Output:     getEnv("LOG_OUTPUT", "stdout"),
		},
		OpenAI: extraction.Config{
			APIKey:  os.Getenv("OPENAI_API_KEY"),
			Model:   getEnv("OPENAI_MODEL", extraction.DefaultModel),
			BaseURL: os.Getenv("OPENAI_BASE_URL"),
		},
	}

	var err error
	if cfg.ShutdownTimeout, err = getDuration("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.RetryDelay, err = getDuration("CONTENTION_RETRY_DELAY", 10*time.Millisecond); err != nil {
		return nil, err
	}
	if cfg.NotifyTimeout, err = getDuration("NOTIFY_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.MaxAttempts, err = getInt("CONTENTION_MAX_ATTEMPTS", 3); err != nil {
		return nil, err
	}
	if cfg.NotifyBuffer, err = getInt("NOTIFY_BUFFER", 256); err != nil {
		return nil, err
	}
	node, err := getInt("SNOWFLAKE_NODE", 1)
	if err != nil {
		return nil, err
	}
	cfg.SnowflakeNode = int64(node)

	if cfg.SettlementTolerance, err = getDecimal("SETTLEMENT_TOLERANCE", payment.DefaultTolerance); err != nil {
		return nil, err
	}

	cfg.Commissions = payment.DefaultCommissions()
	for _, m := range payment.Methods {
		key := "COMMISSION_" + strings.ToUpper(string(m))
		rate, err := getDecimal(key, cfg.Commissions.Rate(m))
		if err != nil {
			return nil, err
		}
		cfg.Commissions[m] = rate
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if _, err := strconv.Atoi(c.HTTPPort); err != nil {
		return fmt.Errorf("HTTP_PORT inválida: %q", c.HTTPPort)
	}
	if c.StoreDriver != DriverPostgres && c.StoreDriver != DriverMemory {
		return fmt.Errorf("STORE_DRIVER desconhecido: %q", c.StoreDriver)
	}
	if c.SettlementTolerance.IsNegative() {
		return fmt.Errorf("SETTLEMENT_TOLERANCE não pode ser negativa: %s", c.SettlementTolerance)
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("CONTENTION_MAX_ATTEMPTS deve ser ao menos 1: %d", c.MaxAttempts)
	}
	if c.SnowflakeNode < 0 || c.SnowflakeNode > 1023 {
		return fmt.Errorf("SNOWFLAKE_NODE fora do intervalo 0-1023: %d", c.SnowflakeNode)
	}
	if c.NotifyBuffer < 1 {
		return fmt.Errorf("NOTIFY_BUFFER deve ser positivo: %d", c.NotifyBuffer)
	}
	if err := c.Commissions.Validate(); err != nil {
		return fmt.Errorf("comissões inválidas: %w", err)
	}
	return nil
}

// Addr retorna o endereço de escuta do servidor HTTP
func (c *Config) Addr() string {
	return ":" + c.HTTPPort
}

func getEnv(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}

func getInt(key string, defaultValue int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s inválido: %w", key, err)
	}
	return v, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s inválido: %w", key, err)
	}
	return v, nil
}

func getDecimal(key string, defaultValue decimal.Decimal) (decimal.Decimal, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s inválido: %w", key, err)
	}
	return v, nil
}

func splitList(raw string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
