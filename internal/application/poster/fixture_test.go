package poster

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/hugohenrick/erp-ledger/internal/adapter/repository/memory"
	"github.com/hugohenrick/erp-ledger/internal/domain/apperr"
	"github.com/hugohenrick/erp-ledger/internal/domain/catalog"
	"github.com/hugohenrick/erp-ledger/internal/domain/counterparty"
	"github.com/hugohenrick/erp-ledger/internal/domain/ledger"
	"github.com/hugohenrick/erp-ledger/internal/domain/payment"
	"github.com/hugohenrick/erp-ledger/internal/domain/store"
	"github.com/hugohenrick/erp-ledger/internal/infrastructure/events"
	"github.com/hugohenrick/erp-ledger/internal/infrastructure/notify"
	"github.com/hugohenrick/erp-ledger/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type seqNumbers struct {
	mu sync.Mutex
	n  int
}

func (s *seqNumbers) Next(prefix string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("%s-%04d", prefix, s.n)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.ChangeEvent
}

func (r *recordingPublisher) Publish(evs ...events.ChangeEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evs...)
}

func (r *recordingPublisher) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

func (r *recordingPublisher) collections() map[events.Collection]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[events.Collection]int{}
	for _, e := range r.events {
		out[e.Collection]++
	}
	return out
}

type recordingNotifier struct {
	mu      sync.Mutex
	exports []notify.Export
}

func (r *recordingNotifier) Notify(e notify.Export) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exports = append(r.exports, e)
}

func (r *recordingNotifier) kinds() []notify.ExportKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]notify.ExportKind, 0, len(r.exports))
	for _, e := range r.exports {
		out = append(out, e.Kind)
	}
	return out
}

// conflictingUoW devolve conflito nas primeiras n chamadas; n < 0 conflita sempre
type conflictingUoW struct {
	mu    sync.Mutex
	inner store.UnitOfWork
	left  int
	calls int
}

func (u *conflictingUoW) Do(ctx context.Context, fn func(ctx context.Context, repos store.Repositories) error) error {
	u.mu.Lock()
	u.calls++
	conflict := u.left != 0
	if u.left > 0 {
		u.left--
	}
	u.mu.Unlock()

	if conflict {
		return apperr.New("conflictingUoW", apperr.ErrConflict, "versão desatualizada")
	}
	return u.inner.Do(ctx, fn)
}

type fixture struct {
	t       *testing.T
	ctx     context.Context
	store   *memory.Store
	poster  *Poster
	events  *recordingPublisher
	exports *recordingNotifier
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	st := memory.NewStore()
	return newFixtureWith(t, st, st, opts...)
}

func newFixtureWith(t *testing.T, st *memory.Store, uow store.UnitOfWork, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{
		t:       t,
		ctx:     context.Background(),
		store:   st,
		events:  &recordingPublisher{},
		exports: &recordingNotifier{},
	}
	opts = append([]Option{WithPublisher(f.events), WithNotifier(f.exports)}, opts...)
	f.poster = New(uow, payment.NewAllocator(nil, payment.DefaultTolerance), &seqNumbers{}, logger.NewNop(), Config{}, opts...)
	return f
}

// product cadastra um produto e dá entrada no estoque inicial
func (f *fixture) product(sku, cost, markup, iva, stock string) *catalog.Product {
	f.t.Helper()
	p, err := f.poster.CreateProduct(f.ctx, ProductInput{
		SKU:       sku,
		Name:      "Produto " + sku,
		CostPrice: d(cost),
		Markup:    d(markup),
		IVARate:   d(iva),
	})
	require.NoError(f.t, err)
	if s := d(stock); s.IsPositive() {
		p, _, err = f.poster.AdjustStock(f.ctx, StockAdjustment{ProductID: p.ID, Delta: s, Reason: "estoque inicial", Operator: "teste"})
		require.NoError(f.t, err)
	}
	return p
}

func (f *fixture) account(name string) *ledger.Account {
	f.t.Helper()
	a, err := f.poster.CreateAccount(f.ctx, name, ledger.AccountCash)
	require.NoError(f.t, err)
	return a
}

func (f *fixture) client(name string) *counterparty.Counterparty {
	f.t.Helper()
	c, err := f.poster.CreateCounterparty(f.ctx, CounterpartyInput{Kind: counterparty.KindClient, Name: name})
	require.NoError(f.t, err)
	return c
}

func (f *fixture) stock(productID string) decimal.Decimal {
	f.t.Helper()
	p, err := f.poster.GetProduct(f.ctx, productID)
	require.NoError(f.t, err)
	return p.Stock
}

func (f *fixture) balance(accountID string) decimal.Decimal {
	f.t.Helper()
	a, err := f.poster.GetAccount(f.ctx, accountID)
	require.NoError(f.t, err)
	return a.Balance
}

func (f *fixture) clientBalance(id string) decimal.Decimal {
	f.t.Helper()
	c, err := f.poster.GetCounterparty(f.ctx, id, counterparty.KindClient)
	require.NoError(f.t, err)
	return c.Balance
}

// entriesSum soma os lançamentos gravados da conta
func (f *fixture) entriesSum(accountID string) decimal.Decimal {
	f.t.Helper()
	st, err := f.poster.Statement(f.ctx, accountID)
	require.NoError(f.t, err)
	return ledger.Sum(st.Entries)
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.Truef(t, got.Equal(d(want)), "esperado %s, obtido %s", want, got)
}
