package document

import (
	"context"
	"time"
)

// DeliveryNoteRepository define a persistência dos remitos
type DeliveryNoteRepository interface {
	// Create cria um novo remito
	Create(ctx context.Context, n *DeliveryNote) error

	// FindByID busca um remito pelo ID
	FindByID(ctx context.Context, id string) (*DeliveryNote, error)

	// Update grava o remito com verificação de versão
	Update(ctx context.Context, n *DeliveryNote) error
}

// InstallmentRepository define a persistência dos planos de parcelamento
type InstallmentRepository interface {
	// Create cria um novo plano
	Create(ctx context.Context, p *InstallmentPlan) error

	// FindByID busca um plano pelo ID, com os pagamentos em ordem
	FindByID(ctx context.Context, id string) (*InstallmentPlan, error)

	// Update grava o plano e os pagamentos novos com verificação de versão
	Update(ctx context.Context, p *InstallmentPlan) error

	// ListDue retorna planos ativos com vencimento anterior a before
	ListDue(ctx context.Context, before time.Time) ([]*InstallmentPlan, error)
}
