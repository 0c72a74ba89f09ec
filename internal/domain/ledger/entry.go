package ledger

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hugohenrick/erp-ledger/internal/domain/apperr"
	"github.com/shopspring/decimal"
)

// Direction indica se o lançamento entra ou sai da conta
type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// ParseDirection valida a direção
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case DirectionIn, DirectionOut:
		return Direction(s), nil
	}
	return "", apperr.New("ParseDirection", apperr.ErrInvalidInput, "direção desconhecida: %q", s)
}

// Category classifica a origem do lançamento
type Category string

const (
	CategorySale              Category = "sale"
	CategorySaleReversal      Category = "sale_reversal"
	CategoryInstallment       Category = "installment_payment"
	CategoryTransfer          Category = "transfer"
	CategoryManualIncome      Category = "manual_income"
	CategoryManualExpense     Category = "manual_expense"
	CategoryReconciliationAdj Category = "reconciliation_adjustment"
)

// Entry é um lançamento imutável em uma única conta
type Entry struct {
	ID               string          `json:"id"`
	AccountID        string          `json:"account_id"`
	Direction        Direction       `json:"direction"`
	Amount           decimal.Decimal `json:"amount"` // Sempre positivo
	Category         Category        `json:"category"`
	Description      string          `json:"description,omitempty"`
	LinkedDocumentID string          `json:"linked_document_id,omitempty"`
	ReversesEntryID  string          `json:"reverses_entry_id,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

// NewEntry cria um lançamento validando o valor
func NewEntry(accountID string, direction Direction, amount decimal.Decimal, category Category, linkedDocumentID, description string) (*Entry, error) {
	const op = "NewEntry"

	if strings.TrimSpace(accountID) == "" {
		return nil, apperr.New(op, apperr.ErrInvalidInput, "conta não informada")
	}
	if _, err := ParseDirection(string(direction)); err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, apperr.New(op, apperr.ErrInvalidInput, "valor deve ser positivo: %s", amount)
	}

	return &Entry{
		ID:               uuid.New().String(),
		AccountID:        accountID,
		Direction:        direction,
		Amount:           amount,
		Category:         category,
		Description:      description,
		LinkedDocumentID: linkedDocumentID,
		CreatedAt:        time.Now().UTC(),
	}, nil
}

// Signed retorna o valor com sinal conforme a direção
func (e *Entry) Signed() decimal.Decimal {
	if e.Direction == DirectionOut {
		return e.Amount.Neg()
	}
	return e.Amount
}

// Reverse cria o lançamento compensatório deste lançamento
func (e *Entry) Reverse(category Category, description string) *Entry {
	direction := DirectionOut
	if e.Direction == DirectionOut {
		direction = DirectionIn
	}
	return &Entry{
		ID:               uuid.New().String(),
		AccountID:        e.AccountID,
		Direction:        direction,
		Amount:           e.Amount,
		Category:         category,
		Description:      description,
		LinkedDocumentID: e.LinkedDocumentID,
		ReversesEntryID:  e.ID,
		CreatedAt:        time.Now().UTC(),
	}
}

// Sum retorna a soma com sinal dos lançamentos
func Sum(entries []*Entry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Signed())
	}
	return total
}
