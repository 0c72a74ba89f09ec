// Package memory implementa todos os repositórios em memória, com a mesma
// semântica de versão e atomicidade da implementação PostgreSQL.
package memory

import (
	"context"
	"sync"

	"github.com/hugohenrick/erp-ledger/internal/domain/catalog"
	"github.com/hugohenrick/erp-ledger/internal/domain/counterparty"
	"github.com/hugohenrick/erp-ledger/internal/domain/document"
	"github.com/hugohenrick/erp-ledger/internal/domain/intent"
	"github.com/hugohenrick/erp-ledger/internal/domain/ledger"
	"github.com/hugohenrick/erp-ledger/internal/domain/sale"
	"github.com/hugohenrick/erp-ledger/internal/domain/store"
)

// state guarda cópias imutáveis; cada escrita substitui o ponteiro
type state struct {
	products        map[string]*catalog.Product
	priceLists      map[string]*catalog.PriceList
	movements       []*catalog.StockMovement
	counterparties  map[string]*counterparty.Counterparty
	accounts        map[string]*ledger.Account
	entries         []*ledger.Entry
	reconciliations []*ledger.Reconciliation
	sales           map[string]*sale.Sale
	notes           map[string]*document.DeliveryNote
	plans           map[string]*document.InstallmentPlan
	intents         map[string]*intent.Intent
}

func newState() *state {
	return &state{
		products:       map[string]*catalog.Product{},
		priceLists:     map[string]*catalog.PriceList{},
		counterparties: map[string]*counterparty.Counterparty{},
		accounts:       map[string]*ledger.Account{},
		sales:          map[string]*sale.Sale{},
		notes:          map[string]*document.DeliveryNote{},
		plans:          map[string]*document.InstallmentPlan{},
		intents:        map[string]*intent.Intent{},
	}
}

func cloneMap[V any](m map[string]*V) map[string]*V {
	out := make(map[string]*V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneSlice[V any](s []*V) []*V {
	out := make([]*V, len(s))
	copy(out, s)
	return out
}

func (s *state) clone() *state {
	return &state{
		products:        cloneMap(s.products),
		priceLists:      cloneMap(s.priceLists),
		movements:       cloneSlice(s.movements),
		counterparties:  cloneMap(s.counterparties),
		accounts:        cloneMap(s.accounts),
		entries:         cloneSlice(s.entries),
		reconciliations: cloneSlice(s.reconciliations),
		sales:           cloneMap(s.sales),
		notes:           cloneMap(s.notes),
		plans:           cloneMap(s.plans),
		intents:         cloneMap(s.intents),
	}
}

// Store é o armazenamento em memória; serializa as unidades de trabalho
type Store struct {
	mu    sync.Mutex
	state *state
}

// NewStore cria um armazenamento vazio
func NewStore() *Store {
	return &Store{state: newState()}
}

// Do implementa store.UnitOfWork. As escritas de fn só ficam visíveis se fn
// retornar nil.
func (s *Store) Do(ctx context.Context, fn func(ctx context.Context, repos store.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.state.clone()
	if err := fn(ctx, &repositories{st: work}); err != nil {
		return err
	}
	s.state = work
	return nil
}

type repositories struct {
	st *state
}

func (r *repositories) Products() catalog.ProductRepository        { return &productRepository{st: r.st} }
func (r *repositories) PriceLists() catalog.PriceListRepository    { return &priceListRepository{st: r.st} }
func (r *repositories) StockMovements() catalog.MovementRepository { return &movementRepository{st: r.st} }
func (r *repositories) Counterparties() counterparty.Repository    { return &counterpartyRepository{st: r.st} }
func (r *repositories) Accounts() ledger.Repository                { return &accountRepository{st: r.st} }
func (r *repositories) Sales() sale.Repository                     { return &saleRepository{st: r.st} }
func (r *repositories) DeliveryNotes() document.DeliveryNoteRepository {
	return &deliveryNoteRepository{st: r.st}
}
func (r *repositories) Installments() document.InstallmentRepository {
	return &installmentRepository{st: r.st}
}
func (r *repositories) Intents() intent.Repository { return &intentRepository{st: r.st} }

var _ store.UnitOfWork = (*Store)(nil)
