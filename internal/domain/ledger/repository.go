package ledger

import (
	"context"
)

// Repository define as operações de persistência de contas e lançamentos
type Repository interface {
	// Create cria uma nova conta
	Create(ctx context.Context, a *Account) error

	// FindByID busca uma conta pelo ID
	FindByID(ctx context.Context, id string) (*Account, error)

	// List retorna todas as contas ordenadas por nome
	List(ctx context.Context) ([]*Account, error)

	// Update grava a conta com verificação de versão; incrementa a.Version
	Update(ctx context.Context, a *Account) error

	// AppendEntry grava um lançamento imutável
	AppendEntry(ctx context.Context, e *Entry) error

	// ListEntries retorna os lançamentos da conta em ordem cronológica
	ListEntries(ctx context.Context, accountID string) ([]*Entry, error)

	// ListEntriesByDocument retorna os lançamentos vinculados a um documento
	ListEntriesByDocument(ctx context.Context, documentID string) ([]*Entry, error)

	// SaveReconciliation grava um arqueo
	SaveReconciliation(ctx context.Context, r *Reconciliation) error

	// ListReconciliations retorna os arqueos da conta, mais recentes primeiro
	ListReconciliations(ctx context.Context, accountID string) ([]*Reconciliation, error)
}
