package document

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hugohenrick/erp-ledger/internal/domain/apperr"
	"github.com/hugohenrick/erp-ledger/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// NoteStatus representa o estado de um remito
type NoteStatus string

const (
	NotePending   NoteStatus = "pending"
	NoteDelivered NoteStatus = "delivered"
	NoteInvoiced  NoteStatus = "invoiced"
	NoteCancelled NoteStatus = "cancelled"
)

// DeliveryNoteMachine é a tabela de transições dos remitos
var DeliveryNoteMachine = NewStateMachine("DeliveryNote", map[NoteStatus][]NoteStatus{
	NotePending:   {NoteDelivered, NoteInvoiced, NoteCancelled},
	NoteDelivered: {NoteInvoiced, NoteCancelled},
	NoteInvoiced:  nil,
	NoteCancelled: nil,
})

// NoteItem é uma linha do remito com preço já resolvido
type NoteItem struct {
	ProductID   string          `json:"product_id"`
	Description string          `json:"description"`
	Unit        catalog.Unit    `json:"unit"`
	Quantity    decimal.Decimal `json:"quantity"`
	StockQty    decimal.Decimal `json:"stock_quantity"` // em unidade primária
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// DeliveryNote representa um remito de despacho
type DeliveryNote struct {
	ID        string          `json:"id"`
	Number    string          `json:"number"`
	ClientID  string          `json:"client_id,omitempty"`
	Items     []NoteItem      `json:"items"`
	Total     decimal.Decimal `json:"total"`
	Status    NoteStatus      `json:"status"`
	InvoiceID string          `json:"invoice_id,omitempty"`
	Version   int64           `json:"version"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewDeliveryNote cria um remito pendente; o total é a soma dos subtotais
func NewDeliveryNote(number, clientID string, items []NoteItem) (*DeliveryNote, error) {
	if len(items) == 0 {
		return nil, apperr.New("NewDeliveryNote", apperr.ErrInvalidInput, "remito sem itens")
	}

	total := decimal.Zero
	for i := range items {
		if !items[i].Quantity.IsPositive() {
			return nil, apperr.New("NewDeliveryNote", apperr.ErrInvalidInput, "item %d: quantidade deve ser positiva", i)
		}
		items[i].Subtotal = items[i].UnitPrice.Mul(items[i].Quantity)
		total = total.Add(items[i].Subtotal)
	}

	now := time.Now().UTC()
	return &DeliveryNote{
		ID:        uuid.New().String(),
		Number:    number,
		ClientID:  strings.TrimSpace(clientID),
		Items:     items,
		Total:     total,
		Status:    NotePending,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (n *DeliveryNote) move(to NoteStatus) error {
	next, err := DeliveryNoteMachine.Transition(n.Status, to)
	if err != nil {
		return err
	}
	n.Status = next
	n.UpdatedAt = time.Now().UTC()
	return nil
}

// MarkDelivered registra a entrega física
func (n *DeliveryNote) MarkDelivered() error {
	return n.move(NoteDelivered)
}

// Cancel cancela o remito
func (n *DeliveryNote) Cancel() error {
	return n.move(NoteCancelled)
}

// Invoice vincula o remito à fatura gerada
func (n *DeliveryNote) Invoice(invoiceID string) error {
	if strings.TrimSpace(invoiceID) == "" {
		return apperr.New("DeliveryNote.Invoice", apperr.ErrInvalidInput, "fatura não informada")
	}
	if err := n.move(NoteInvoiced); err != nil {
		return err
	}
	n.InvoiceID = invoiceID
	return nil
}
