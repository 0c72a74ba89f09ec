package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger é a interface para logging
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// Config define nível, formato e destino dos logs
type Config struct {
	Level      string // trace, debug, info, warn, error
	Format     string // json, console
	TimeFormat string
	Output     string // stdout, stderr ou caminho de arquivo
}

// DefaultConfig retorna a configuração padrão
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		Format:     "json",
		TimeFormat: time.RFC3339,
		Output:     "stdout",
	}
}

// Setup configura o logger global do zerolog
func Setup(cfg Config) error {
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		return fmt.Errorf("nível de log inválido: %w", err)
	}
	zerolog.SetGlobalLevel(level)

	var output io.Writer
	switch cfg.Output {
	case "", "stdout":
		output = os.Stdout
	case "stderr":
		output = os.Stderr
	default:
		file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
		if err != nil {
			return fmt.Errorf("erro ao abrir arquivo de log: %w", err)
		}
		output = file
	}

	if strings.ToLower(cfg.Format) == "console" {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: cfg.TimeFormat}
	}
	if cfg.TimeFormat != "" {
		zerolog.TimeFieldFormat = cfg.TimeFormat
	}

	log.Logger = zerolog.New(output).With().Timestamp().Logger()
	return nil
}

// ZeroLogger adapta um zerolog.Logger à interface Logger
type ZeroLogger struct {
	zl zerolog.Logger
}

// NewLogger cria um Logger a partir do logger global
func NewLogger() Logger {
	return &ZeroLogger{zl: log.Logger}
}

// WithComponent cria um Logger com o campo component
func WithComponent(component string) Logger {
	return &ZeroLogger{zl: log.Logger.With().Str("component", component).Logger()}
}

// NewNop cria um Logger que descarta tudo
func NewNop() Logger {
	return &ZeroLogger{zl: zerolog.Nop()}
}

// Info registra uma mensagem de informação
func (l *ZeroLogger) Info(msg string, keysAndValues ...interface{}) {
	fields(l.zl.Info(), keysAndValues).Msg(msg)
}

// Error registra uma mensagem de erro
func (l *ZeroLogger) Error(msg string, keysAndValues ...interface{}) {
	fields(l.zl.Error(), keysAndValues).Msg(msg)
}

// Debug registra uma mensagem de debug
func (l *ZeroLogger) Debug(msg string, keysAndValues ...interface{}) {
	fields(l.zl.Debug(), keysAndValues).Msg(msg)
}

// Warn registra uma mensagem de aviso
func (l *ZeroLogger) Warn(msg string, keysAndValues ...interface{}) {
	fields(l.zl.Warn(), keysAndValues).Msg(msg)
}

// fields converte pares chave/valor em campos do evento
func fields(e *zerolog.Event, keysAndValues []interface{}) *zerolog.Event {
	for i := 0; i < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprint(keysAndValues[i])
		}
		if i+1 >= len(keysAndValues) {
			e = e.Str(key, "(sem valor)")
			break
		}
		switch v := keysAndValues[i+1].(type) {
		case error:
			e = e.AnErr(key, v)
		case fmt.Stringer:
			e = e.Stringer(key, v)
		default:
			e = e.Interface(key, v)
		}
	}
	return e
}
