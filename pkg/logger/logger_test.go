package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldsFromKeyValues(t *testing.T) {
	var buf bytes.Buffer
	l := &ZeroLogger{zl: zerolog.New(&buf)}

	l.Info("venda finalizada", "sale_id", "s1", "total", decimal.RequireFromString("1573.00"), "err", errors.New("x"), "lines", 2, "orphan")

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "venda finalizada", got["message"])
	assert.Equal(t, "s1", got["sale_id"])
	assert.Equal(t, "1573", got["total"])
	assert.Equal(t, "x", got["err"])
	assert.Equal(t, float64(2), got["lines"])
	assert.Equal(t, "(sem valor)", got["orphan"])
}

func TestSetupRejectsUnknownLevel(t *testing.T) {
	assert.Error(t, Setup(Config{Level: "verboso"}))
}

func TestNopDiscards(t *testing.T) {
	assert.NotPanics(t, func() { NewNop().Error("nada", "k", "v") })
}
