// Package intent define o registro de intenção gravado antes de cada
// operação multi-registro, usado para detectar e resolver falhas parciais.
package intent

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/hugohenrick/erp-ledger/internal/domain/apperr"
)

// Kind identifica o comando protegido pela intenção
type Kind string

const (
	KindFinalizeSale        Kind = "finalize_sale"
	KindInstallmentPayment  Kind = "installment_payment"
	KindTransfer            Kind = "transfer"
	KindInvoiceDeliveryNote Kind = "invoice_delivery_notes"
	KindReverseSale         Kind = "reverse_sale"
)

// Status representa o estado da intenção
type Status string

const (
	StatusPending    Status = "pending"
	StatusCompleted  Status = "completed"
	StatusRolledBack Status = "rolled_back"
)

// Intent é uma entrada do log de intenções
type Intent struct {
	ID        string          `json:"id"`
	Kind      Kind            `json:"kind"`
	Payload   json.RawMessage `json:"payload"`
	Status    Status          `json:"status"`
	ResultID  string          `json:"result_id,omitempty"`
	Error     string          `json:"error,omitempty"`
	ErrorKind string          `json:"error_kind,omitempty"`
	Attempts  int             `json:"attempts"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// New cria uma intenção pendente com o payload serializado
func New(id string, kind Kind, resultID string, payload interface{}) (*Intent, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, apperr.Wrap("intent.New", apperr.ErrInvalidInput, err)
	}
	if id == "" {
		id = uuid.New().String()
	}

	now := time.Now().UTC()
	return &Intent{
		ID:        id,
		Kind:      kind,
		Payload:   raw,
		Status:    StatusPending,
		ResultID:  resultID,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Decode lê o payload para v
func (i *Intent) Decode(v interface{}) error {
	if err := json.Unmarshal(i.Payload, v); err != nil {
		return apperr.Wrap("Intent.Decode", apperr.ErrInvalidInput, err)
	}
	return nil
}

// Complete marca a intenção como aplicada
func (i *Intent) Complete(resultID string) {
	if resultID != "" {
		i.ResultID = resultID
	}
	i.Status = StatusCompleted
	i.UpdatedAt = time.Now().UTC()
}

// RollBack marca a intenção como descartada
func (i *Intent) RollBack(cause error) {
	i.Status = StatusRolledBack
	if cause != nil {
		i.Error = cause.Error()
		i.ErrorKind = apperr.Code(cause)
	}
	i.UpdatedAt = time.Now().UTC()
}

// Repository define a persistência do log de intenções
type Repository interface {
	// Create grava uma intenção nova
	Create(ctx context.Context, i *Intent) error

	// FindByID busca uma intenção pelo ID
	FindByID(ctx context.Context, id string) (*Intent, error)

	// Update grava status, resultado e tentativas
	Update(ctx context.Context, i *Intent) error

	// ListPending retorna as intenções pendentes, mais antigas primeiro
	ListPending(ctx context.Context) ([]*Intent, error)
}
