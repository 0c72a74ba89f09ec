package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hugohenrick/erp-ledger/internal/domain/apperr"
	"github.com/shopspring/decimal"
)

// ModifierType define como uma lista de preços deriva o preço do cliente
type ModifierType string

const (
	// ModifierMargin recalcula a partir do custo usando o valor como margem
	ModifierMargin ModifierType = "margin"
	// ModifierPercentageOverBase aplica o valor sobre o preço da lista base
	ModifierPercentageOverBase ModifierType = "percentage_over_base"
)

// ParseModifierType valida o tipo de modificador
func ParseModifierType(s string) (ModifierType, error) {
	switch ModifierType(s) {
	case ModifierMargin:
		return ModifierMargin, nil
	case ModifierPercentageOverBase:
		return ModifierPercentageOverBase, nil
	}
	return "", apperr.New("ParseModifierType", apperr.ErrInvalidInput, "tipo de modificador desconhecido: %q", s)
}

// PriceList representa uma lista de preços
type PriceList struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	ModifierType ModifierType    `json:"modifier_type"`
	Value        decimal.Decimal `json:"value"` // Percentual
	IsBase       bool            `json:"is_base"`
	Version      int64           `json:"version"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// NewPriceList cria uma nova lista de preços (nunca base; use SetBase)
func NewPriceList(name string, modifier ModifierType, value decimal.Decimal) (*PriceList, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.New("NewPriceList", apperr.ErrInvalidInput, "nome não pode ser vazio")
	}
	if _, err := ParseModifierType(string(modifier)); err != nil {
		return nil, err
	}
	if modifier == ModifierMargin && value.LessThanOrEqual(decimal.NewFromInt(-100)) {
		return nil, apperr.New("NewPriceList", apperr.ErrInvalidInput, "margem deve ser maior que -100: %s", value)
	}

	now := time.Now().UTC()
	return &PriceList{
		ID:           uuid.New().String(),
		Name:         name,
		ModifierType: modifier,
		Value:        value,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}
