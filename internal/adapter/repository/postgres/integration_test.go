//go:build integration

package postgres_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hugohenrick/erp-ledger/internal/adapter/repository/postgres"
	"github.com/hugohenrick/erp-ledger/internal/application/poster"
	"github.com/hugohenrick/erp-ledger/internal/domain/apperr"
	"github.com/hugohenrick/erp-ledger/internal/domain/ledger"
	"github.com/hugohenrick/erp-ledger/internal/domain/payment"
	"github.com/hugohenrick/erp-ledger/internal/domain/store"
	"github.com/hugohenrick/erp-ledger/internal/infrastructure/database"
	"github.com/hugohenrick/erp-ledger/internal/infrastructure/numbering"
	"github.com/hugohenrick/erp-ledger/pkg/logger"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openStore aplica as migrações e abre o store em DATABASE_URL.
// go test -tags integration ./internal/adapter/repository/postgres/
func openStore(t *testing.T) *postgres.Store {
	t.Helper()
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL não definida")
	}

	mg, err := database.NewMigrator(url)
	require.NoError(t, err)
	require.NoError(t, mg.Up())
	require.NoError(t, mg.Close())

	pool, err := pgxpool.New(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return postgres.NewStore(pool, logger.NewNop())
}

func newPoster(t *testing.T, st *postgres.Store) *poster.Poster {
	t.Helper()
	numbers, err := numbering.NewGenerator(7)
	require.NoError(t, err)
	return poster.New(st, payment.NewAllocator(nil, payment.DefaultTolerance), numbers, logger.NewNop(),
		poster.Config{MaxAttempts: 50, RetryDelay: 5 * time.Millisecond})
}

func suffix() string {
	return uuid.New().String()[:8]
}

func TestAccountUpdateRejectsStaleVersion(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	account, err := ledger.NewAccount("Caja "+suffix(), ledger.AccountCash)
	require.NoError(t, err)
	require.NoError(t, st.Do(ctx, func(ctx context.Context, repos store.Repositories) error {
		return repos.Accounts().Create(ctx, account)
	}))

	var first, second *ledger.Account
	require.NoError(t, st.Do(ctx, func(ctx context.Context, repos store.Repositories) error {
		var err error
		if first, err = repos.Accounts().FindByID(ctx, account.ID); err != nil {
			return err
		}
		second, err = repos.Accounts().FindByID(ctx, account.ID)
		return err
	}))

	first.Name = "Caja principal"
	require.NoError(t, st.Do(ctx, func(ctx context.Context, repos store.Repositories) error {
		return repos.Accounts().Update(ctx, first)
	}))
	assert.Equal(t, int64(2), first.Version)

	second.Name = "Caja velha"
	err = st.Do(ctx, func(ctx context.Context, repos store.Repositories) error {
		return repos.Accounts().Update(ctx, second)
	})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	missing := *first
	missing.ID = uuid.New().String()
	err = st.Do(ctx, func(ctx context.Context, repos store.Repositories) error {
		return repos.Accounts().Update(ctx, &missing)
	})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestConcurrentLastUnitOnPostgres(t *testing.T) {
	st := openStore(t)
	p := newPoster(t, st)
	ctx := context.Background()

	product, err := p.CreateProduct(ctx, poster.ProductInput{
		SKU:       "LECHE-" + suffix(),
		Name:      "Leche",
		CostPrice: decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	_, _, err = p.AdjustStock(ctx, poster.StockAdjustment{ProductID: product.ID, Delta: decimal.NewFromInt(1), Reason: "estoque inicial", Operator: "teste"})
	require.NoError(t, err)
	caja, err := p.CreateAccount(ctx, "Caja "+suffix(), ledger.AccountCash)
	require.NoError(t, err)

	const callers = 10
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		other     []error
	)
	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := p.FinalizeSale(ctx, poster.FinalizeSaleCommand{
				Items: []poster.CartItem{{ProductID: product.ID, Quantity: decimal.NewFromInt(1)}},
				Payments: []payment.Line{{
					Method:          payment.MethodCash,
					Amount:          decimal.NewFromInt(100),
					TargetAccountID: caja.ID,
				}},
			})

			mu.Lock()
			defer mu.Unlock()
			switch apperr.KindOf(err) {
			case nil:
				succeeded++
			case apperr.ErrInsufficientStock, apperr.ErrContention:
			default:
				other = append(other, err)
			}
		}()
	}
	close(start)
	wg.Wait()

	require.Empty(t, other)
	assert.Equal(t, 1, succeeded)

	current, err := p.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.True(t, current.Stock.IsZero(), "estoque %s", current.Stock)

	statement, err := p.Statement(ctx, caja.ID)
	require.NoError(t, err)
	assert.True(t, statement.Account.Balance.Equal(decimal.NewFromInt(100)), "saldo %s", statement.Account.Balance)
	assert.True(t, ledger.Sum(statement.Entries).Equal(statement.Account.Balance))
}

func TestConcurrentCreditsOnPostgres(t *testing.T) {
	st := openStore(t)
	p := newPoster(t, st)
	ctx := context.Background()

	caja, err := p.CreateAccount(ctx, "Caja "+suffix(), ledger.AccountCash)
	require.NoError(t, err)

	const callers = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := p.RecordMovement(ctx, poster.MovementCommand{
				AccountID: caja.ID,
				Direction: ledger.DirectionIn,
				Amount:    decimal.RequireFromString("2.50"),
				Operator:  "teste",
			})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, apperr.ErrContention)
		}()
	}
	wg.Wait()

	statement, err := p.Statement(ctx, caja.ID)
	require.NoError(t, err)
	want := decimal.RequireFromString("2.50").Mul(decimal.NewFromInt(int64(succeeded)))
	assert.True(t, statement.Account.Balance.Equal(want), "saldo %s, esperado %s", statement.Account.Balance, want)
	assert.True(t, ledger.Sum(statement.Entries).Equal(want))
	assert.Len(t, statement.Entries, succeeded)
}
