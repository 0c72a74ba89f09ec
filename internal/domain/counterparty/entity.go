package counterparty

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hugohenrick/erp-ledger/internal/domain/apperr"
	"github.com/shopspring/decimal"
)

// Kind distingue clientes de fornecedores
type Kind string

const (
	KindClient   Kind = "client"
	KindSupplier Kind = "supplier"
)

// Counterparty representa um cliente ou fornecedor.
//
// Convenção de saldo: negativo significa que o cliente nos deve, ou que nós
// devemos ao fornecedor.
type Counterparty struct {
	ID              string          `json:"id"`
	Kind            Kind            `json:"kind"`
	Name            string          `json:"name"`
	Document        string          `json:"document"`
	Balance         decimal.Decimal `json:"balance"`
	SpecialDiscount decimal.Decimal `json:"special_discount"` // Percentual aplicado por último no preço
	PriceListID     string          `json:"price_list_id,omitempty"`
	Version         int64           `json:"version"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// New cria um novo cliente ou fornecedor
func New(kind Kind, name, document string) (*Counterparty, error) {
	const op = "counterparty.New"

	if kind != KindClient && kind != KindSupplier {
		return nil, apperr.New(op, apperr.ErrInvalidInput, "tipo desconhecido: %q", kind)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.New(op, apperr.ErrInvalidInput, "nome não pode ser vazio")
	}

	now := time.Now().UTC()
	return &Counterparty{
		ID:        uuid.New().String(),
		Kind:      kind,
		Name:      name,
		Document:  strings.TrimSpace(document),
		Balance:   decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// SetCommercialTerms atualiza lista de preços e desconto especial
func (c *Counterparty) SetCommercialTerms(priceListID string, discount decimal.Decimal) error {
	if discount.IsNegative() || discount.GreaterThan(decimal.NewFromInt(100)) {
		return apperr.New("SetCommercialTerms", apperr.ErrInvalidInput, "desconto fora do intervalo 0-100: %s", discount)
	}
	c.PriceListID = strings.TrimSpace(priceListID)
	c.SpecialDiscount = discount
	c.UpdatedAt = time.Now().UTC()
	return nil
}

// Charge registra uma dívida do cliente (saldo diminui)
func (c *Counterparty) Charge(amount decimal.Decimal) {
	c.Balance = c.Balance.Sub(amount)
	c.UpdatedAt = time.Now().UTC()
}

// Credit registra um pagamento ou estorno a favor do cliente (saldo aumenta)
func (c *Counterparty) Credit(amount decimal.Decimal) {
	c.Balance = c.Balance.Add(amount)
	c.UpdatedAt = time.Now().UTC()
}

// IsClient verifica se o registro é um cliente
func (c *Counterparty) IsClient() bool {
	return c.Kind == KindClient
}
