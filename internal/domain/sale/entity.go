package sale

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hugohenrick/erp-ledger/internal/domain/apperr"
	"github.com/hugohenrick/erp-ledger/internal/domain/catalog"
	"github.com/hugohenrick/erp-ledger/internal/domain/payment"
	"github.com/shopspring/decimal"
)

// DocType define o comprovante emitido na venda
type DocType string

const (
	DocTicket     DocType = "ticket"
	DocInvoiceA   DocType = "invoice_a"
	DocInvoiceB   DocType = "invoice_b"
	DocInvoiceC   DocType = "invoice_c"
	DocCreditNote DocType = "credit_note"
)

// ParseDocType valida o tipo de comprovante; vazio assume ticket
func ParseDocType(s string) (DocType, error) {
	switch DocType(s) {
	case "":
		return DocTicket, nil
	case DocTicket, DocInvoiceA, DocInvoiceB, DocInvoiceC, DocCreditNote:
		return DocType(s), nil
	}
	return "", apperr.New("ParseDocType", apperr.ErrInvalidInput, "tipo de comprovante desconhecido: %q", s)
}

// Status representa o estado da venda
type Status string

const (
	StatusCompleted Status = "completed"
	StatusReversed  Status = "reversed"
)

// Origin indica de onde a venda foi gerada
type Origin string

const (
	OriginCheckout      Origin = "checkout"
	OriginDeliveryNotes Origin = "delivery_notes"
)

// Item é uma linha da venda com o preço resolvido pelo servidor
type Item struct {
	ProductID     string          `json:"product_id"`
	Description   string          `json:"description"`
	Unit          catalog.Unit    `json:"unit"`
	Quantity      decimal.Decimal `json:"quantity"`
	StockQuantity decimal.Decimal `json:"stock_quantity"` // em unidade primária
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Subtotal      decimal.Decimal `json:"subtotal"`
}

// Sale representa uma venda concluída
type Sale struct {
	ID             string                `json:"id"`
	Number         string                `json:"number"`
	DocType        DocType               `json:"doc_type"`
	Origin         Origin                `json:"origin"`
	ClientID       string                `json:"client_id,omitempty"`
	Items          []Item                `json:"items"`
	Total          decimal.Decimal       `json:"total"`
	PaymentLines   []payment.SettledLine `json:"payment_lines"`
	CreditAmount   decimal.Decimal       `json:"credit_amount"` // parte lançada na conta corrente do cliente
	DeliveryNotes  []string              `json:"delivery_notes,omitempty"`
	Status         Status                `json:"status"`
	Operator       string                `json:"operator,omitempty"`
	ReversalReason string                `json:"reversal_reason,omitempty"`
	ReversedAt     *time.Time            `json:"reversed_at,omitempty"`
	Version        int64                 `json:"version"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// New cria uma venda concluída; o total é a soma dos subtotais
func New(id, number string, docType DocType, origin Origin, clientID string, items []Item) (*Sale, error) {
	if len(items) == 0 {
		return nil, apperr.New("sale.New", apperr.ErrInvalidInput, "venda sem itens")
	}
	if id == "" {
		id = uuid.New().String()
	}

	now := time.Now().UTC()
	s := &Sale{
		ID:           id,
		Number:       number,
		DocType:      docType,
		Origin:       origin,
		ClientID:     strings.TrimSpace(clientID),
		Items:        items,
		PaymentLines: []payment.SettledLine{},
		CreditAmount: decimal.Zero,
		Status:       StatusCompleted,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.Total = Total(items)
	return s, nil
}

// Total soma unitPrice × quantity de cada item
func Total(items []Item) decimal.Decimal {
	total := decimal.Zero
	for i := range items {
		items[i].Subtotal = items[i].UnitPrice.Mul(items[i].Quantity)
		total = total.Add(items[i].Subtotal)
	}
	return total
}

// Reverse move a venda para reversed; só acontece uma vez
func (s *Sale) Reverse(reason string) error {
	if s.Status != StatusCompleted {
		return apperr.New("Sale.Reverse", apperr.ErrInvalidTransition, "venda %s já está %s", s.Number, s.Status)
	}
	now := time.Now().UTC()
	s.Status = StatusReversed
	s.ReversalReason = strings.TrimSpace(reason)
	s.ReversedAt = &now
	s.UpdatedAt = now
	return nil
}
