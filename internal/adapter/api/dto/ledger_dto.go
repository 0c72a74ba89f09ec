package dto

import (
	"time"

	"github.com/hugohenrick/erp-ledger/internal/application/poster"
	"github.com/hugohenrick/erp-ledger/internal/domain/catalog"
	"github.com/hugohenrick/erp-ledger/internal/domain/ledger"
	"github.com/hugohenrick/erp-ledger/internal/domain/payment"
	"github.com/hugohenrick/erp-ledger/internal/domain/sale"
	"github.com/shopspring/decimal"
)

// AccountRequest representa a abertura de uma conta
type AccountRequest struct {
	Name string             `json:"name" binding:"required"`
	Type ledger.AccountType `json:"type" binding:"required,oneof=cash bank virtual"`
}

// CloseAccountRequest representa o arqueo de fechamento
type CloseAccountRequest struct {
	Counted decimal.Decimal `json:"counted" binding:"decimal_gte0"`
	Notes   string          `json:"notes"`
}

// CloseAccountResponse devolve a conta fechada e o arqueo
type CloseAccountResponse struct {
	Account        *ledger.Account        `json:"account"`
	Reconciliation *ledger.Reconciliation `json:"reconciliation"`
}

// MovementRequest representa um lançamento manual
type MovementRequest struct {
	Direction   ledger.Direction `json:"direction" binding:"required,oneof=in out"`
	Amount      decimal.Decimal  `json:"amount" binding:"decimal_gt0"`
	Category    ledger.Category  `json:"category"`
	Description string           `json:"description"`
}

// MovementResponse devolve o lançamento e o saldo atualizado
type MovementResponse struct {
	Entry   *ledger.Entry   `json:"entry"`
	Account *ledger.Account `json:"account"`
}

// TransferRequest representa uma transferência entre contas
type TransferRequest struct {
	RequestID   string          `json:"request_id"`
	FromID      string          `json:"from_id" binding:"required"`
	ToID        string          `json:"to_id" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"decimal_gt0"`
	Description string          `json:"description"`
}

// ToCommand converte a requisição no comando do poster
func (r TransferRequest) ToCommand() poster.TransferCommand {
	return poster.TransferCommand{
		RequestID:   r.RequestID,
		FromID:      r.FromID,
		ToID:        r.ToID,
		Amount:      r.Amount,
		Description: r.Description,
	}
}

// CartItemRequest é uma linha de venda ou remito
type CartItemRequest struct {
	ProductID string           `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal  `json:"quantity" binding:"decimal_gt0"`
	Unit      catalog.Unit     `json:"unit"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
}

// PaymentLineRequest é uma linha de pagamento
type PaymentLineRequest struct {
	Method          payment.Method  `json:"method" binding:"required"`
	Amount          decimal.Decimal `json:"amount" binding:"decimal_gt0"`
	TargetAccountID string          `json:"target_account_id"`
}

// SaleRequest representa o fechamento de uma venda no caixa
type SaleRequest struct {
	RequestID string               `json:"request_id"`
	ClientID  string               `json:"client_id"`
	DocType   sale.DocType         `json:"doc_type"`
	Items     []CartItemRequest    `json:"items" binding:"required,min=1,dive"`
	Payments  []PaymentLineRequest `json:"payments" binding:"dive"`
}

// ToCommand converte a requisição no comando do poster
func (r SaleRequest) ToCommand(operator string) poster.FinalizeSaleCommand {
	lines := make([]payment.Line, 0, len(r.Payments))
	for _, p := range r.Payments {
		lines = append(lines, payment.Line{
			Method:          p.Method,
			Amount:          p.Amount,
			TargetAccountID: p.TargetAccountID,
		})
	}
	return poster.FinalizeSaleCommand{
		RequestID: r.RequestID,
		ClientID:  r.ClientID,
		DocType:   r.DocType,
		Items:     toCart(r.Items),
		Payments:  lines,
		Operator:  operator,
	}
}

// ReverseSaleRequest representa o estorno de uma venda
type ReverseSaleRequest struct {
	RequestID string `json:"request_id"`
	Reason    string `json:"reason" binding:"required"`
}

// DeliveryNoteRequest representa a emissão de um remito
type DeliveryNoteRequest struct {
	ClientID string            `json:"client_id"`
	Items    []CartItemRequest `json:"items" binding:"required,min=1,dive"`
}

// ToCommand converte a requisição no comando do poster
func (r DeliveryNoteRequest) ToCommand(operator string) poster.DeliveryNoteCommand {
	return poster.DeliveryNoteCommand{
		ClientID: r.ClientID,
		Items:    toCart(r.Items),
		Operator: operator,
	}
}

// CancelNoteRequest representa o cancelamento de um remito
type CancelNoteRequest struct {
	Reason string `json:"reason"`
}

// InvoiceRequest representa a conversão de remitos em fatura
type InvoiceRequest struct {
	RequestID string       `json:"request_id"`
	NoteIDs   []string     `json:"note_ids" binding:"required,min=1,dive,required"`
	DocType   sale.DocType `json:"doc_type"`
}

// ToCommand converte a requisição no comando do poster
func (r InvoiceRequest) ToCommand(operator string) poster.InvoiceCommand {
	return poster.InvoiceCommand{
		RequestID: r.RequestID,
		NoteIDs:   r.NoteIDs,
		DocType:   r.DocType,
		Operator:  operator,
	}
}

// InstallmentPlanRequest representa a criação de um plano de parcelamento
type InstallmentPlanRequest struct {
	ClientID    string          `json:"client_id"`
	Total       decimal.Decimal `json:"total" binding:"decimal_gt0"`
	Description string          `json:"description"`
	DueDate     *time.Time      `json:"due_date,omitempty"`
}

// ToCommand converte a requisição no comando do poster
func (r InstallmentPlanRequest) ToCommand() poster.InstallmentPlanCommand {
	return poster.InstallmentPlanCommand{
		ClientID:    r.ClientID,
		Total:       r.Total,
		Description: r.Description,
		DueDate:     r.DueDate,
	}
}

// InstallmentPaymentRequest representa o pagamento parcial de um plano
type InstallmentPaymentRequest struct {
	RequestID string          `json:"request_id"`
	Amount    decimal.Decimal `json:"amount" binding:"decimal_gt0"`
	AccountID string          `json:"account_id" binding:"required"`
}

// OverdueResponse informa quantos planos passaram a vencidos
type OverdueResponse struct {
	Updated int `json:"updated"`
}

// IntakeRequest representa um pedido em texto livre
type IntakeRequest struct {
	Text string `json:"text" binding:"required"`
}

func toCart(items []CartItemRequest) []poster.CartItem {
	cart := make([]poster.CartItem, 0, len(items))
	for _, it := range items {
		cart = append(cart, poster.CartItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Unit:      it.Unit,
			UnitPrice: it.UnitPrice,
		})
	}
	return cart
}
