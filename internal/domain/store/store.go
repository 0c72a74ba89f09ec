// Package store define o conjunto de repositórios visto por uma unidade de
// trabalho atômica.
package store

import (
	"context"

	"github.com/hugohenrick/erp-ledger/internal/domain/catalog"
	"github.com/hugohenrick/erp-ledger/internal/domain/counterparty"
	"github.com/hugohenrick/erp-ledger/internal/domain/document"
	"github.com/hugohenrick/erp-ledger/internal/domain/intent"
	"github.com/hugohenrick/erp-ledger/internal/domain/ledger"
	"github.com/hugohenrick/erp-ledger/internal/domain/sale"
)

// Repositories agrupa os repositórios de uma mesma transação
type Repositories interface {
	Products() catalog.ProductRepository
	PriceLists() catalog.PriceListRepository
	StockMovements() catalog.MovementRepository
	Counterparties() counterparty.Repository
	Accounts() ledger.Repository
	Sales() sale.Repository
	DeliveryNotes() document.DeliveryNoteRepository
	Installments() document.InstallmentRepository
	Intents() intent.Repository
}

// UnitOfWork executa fn sobre um snapshot consistente e confirma tudo ou nada.
// Um conflito de versão ou de serialização é retornado como apperr.ErrConflict.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
