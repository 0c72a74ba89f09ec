package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementKind classifica a origem de uma alteração de estoque
type MovementKind string

const (
	MovementSale           MovementKind = "sale"
	MovementReversal       MovementKind = "reversal"
	MovementDispatch       MovementKind = "dispatch"
	MovementDispatchCancel MovementKind = "dispatch_cancel"
	MovementAdjustment     MovementKind = "adjustment"
)

// StockMovement é o registro auditável de uma alteração de estoque
type StockMovement struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	Kind        MovementKind    `json:"kind"`
	Quantity    decimal.Decimal `json:"quantity"` // Com sinal, na unidade primária
	StockBefore decimal.Decimal `json:"stock_before"`
	StockAfter  decimal.Decimal `json:"stock_after"`
	Reason      string          `json:"reason"`
	Operator    string          `json:"operator"`
	DocumentID  string          `json:"document_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// NewStockMovement registra a diferença entre dois estados do produto
func NewStockMovement(kind MovementKind, productID string, before, after decimal.Decimal, reason, operator, documentID string) *StockMovement {
	return &StockMovement{
		ID:          uuid.New().String(),
		ProductID:   productID,
		Kind:        kind,
		Quantity:    after.Sub(before),
		StockBefore: before,
		StockAfter:  after,
		Reason:      reason,
		Operator:    operator,
		DocumentID:  documentID,
		CreatedAt:   time.Now().UTC(),
	}
}
