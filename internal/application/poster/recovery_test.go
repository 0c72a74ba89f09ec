package poster

import (
	"context"
	"testing"

	"github.com/hugohenrick/erp-ledger/internal/domain/apperr"
	"github.com/hugohenrick/erp-ledger/internal/domain/intent"
	"github.com/hugohenrick/erp-ledger/internal/domain/payment"
	"github.com/hugohenrick/erp-ledger/internal/domain/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pendingIntent grava uma intenção sem aplicá-la, como após uma queda do processo
func (f *fixture) pendingIntent(id string, kind intent.Kind, resultID string, payload interface{}) {
	f.t.Helper()
	in, err := intent.New(id, kind, resultID, payload)
	require.NoError(f.t, err)
	err = f.store.Do(f.ctx, func(ctx context.Context, repos store.Repositories) error {
		return repos.Intents().Create(ctx, in)
	})
	require.NoError(f.t, err)
}

func (f *fixture) loadIntent(id string) *intent.Intent {
	f.t.Helper()
	var out *intent.Intent
	err := f.store.Do(f.ctx, func(ctx context.Context, repos store.Repositories) error {
		var err error
		out, err = repos.Intents().FindByID(ctx, id)
		return err
	})
	require.NoError(f.t, err)
	return out
}

func TestRecoverRollsForwardPendingSale(t *testing.T) {
	f := newFixture(t)
	p := f.product("YERBA", "1000", "30", "21", "10")
	caja := f.account("Caja")

	f.pendingIntent("req-42", intent.KindFinalizeSale, "sale-42", finalizePayload{
		SaleID: "sale-42",
		Number: "V-0042",
		Command: FinalizeSaleCommand{
			RequestID: "req-42",
			DocType:   "ticket",
			Items:     []CartItem{{ProductID: p.ID, Quantity: d("1")}},
			Payments:  []payment.Line{cash(caja.ID, "1573")},
		},
	})

	report, err := f.poster.Recover(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Pending)
	assert.Equal(t, 1, report.RolledFwd)
	assert.Equal(t, []string{"req-42"}, report.IntentIDs)

	s, err := f.poster.GetSale(f.ctx, "sale-42")
	require.NoError(t, err)
	assert.Equal(t, "V-0042", s.Number)
	requireDecimal(t, "9", f.stock(p.ID))
	requireDecimal(t, "1573", f.balance(caja.ID))

	in := f.loadIntent("req-42")
	assert.Equal(t, intent.StatusCompleted, in.Status)
	assert.Equal(t, "sale-42", in.ResultID)

	// O cliente repete a requisição e recebe a mesma venda
	again, err := f.poster.FinalizeSale(f.ctx, FinalizeSaleCommand{
		RequestID: "req-42",
		Items:     []CartItem{{ProductID: p.ID, Quantity: d("1")}},
		Payments:  []payment.Line{cash(caja.ID, "1573")},
	})
	require.NoError(t, err)
	assert.Equal(t, "sale-42", again.ID)
	requireDecimal(t, "9", f.stock(p.ID))

	report, err = f.poster.Recover(f.ctx)
	require.NoError(t, err)
	assert.Zero(t, report.Pending)
}

func TestRecoverRollsBackRejectedIntent(t *testing.T) {
	f := newFixture(t)
	caja := f.account("Caja")
	banco := f.account("Banco")
	_, _, err := f.poster.CloseAccount(f.ctx, CloseAccountCommand{AccountID: banco.ID, Counted: d("0")})
	require.NoError(t, err)

	f.pendingIntent("dep-1", intent.KindTransfer, "tr-1", transferPayload{
		TransferID: "tr-1",
		Command:    TransferCommand{FromID: caja.ID, ToID: banco.ID, Amount: d("10")},
	})
	f.pendingIntent("dep-2", intent.KindTransfer, "tr-2", transferPayload{
		TransferID: "tr-2",
		Command:    TransferCommand{FromID: banco.ID, ToID: caja.ID, Amount: d("10")},
	})
	f.pendingIntent("x-1", intent.Kind("desconhecido"), "", map[string]string{})

	report, err := f.poster.Recover(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Pending)
	assert.Equal(t, 3, report.RolledBack)
	assert.Zero(t, report.RolledFwd)

	for _, id := range []string{"dep-1", "dep-2", "x-1"} {
		in := f.loadIntent(id)
		assert.Equal(t, intent.StatusRolledBack, in.Status, id)
		assert.NotEmpty(t, in.Error, id)
	}
	requireDecimal(t, "0", f.balance(caja.ID))
	requireDecimal(t, "0", f.balance(banco.ID))
}

func TestRolledBackRequestCanBeRetried(t *testing.T) {
	f := newFixture(t)
	p := f.product("YERBA", "1000", "30", "21", "0")
	caja := f.account("Caja")

	cmd := FinalizeSaleCommand{
		RequestID: "req-9",
		Items:     []CartItem{{ProductID: p.ID, Quantity: d("1")}},
		Payments:  []payment.Line{cash(caja.ID, "1573")},
	}
	_, err := f.poster.FinalizeSale(f.ctx, cmd)
	require.Error(t, err)
	assert.Equal(t, intent.StatusRolledBack, f.loadIntent("req-9").Status)

	_, _, err = f.poster.AdjustStock(f.ctx, StockAdjustment{ProductID: p.ID, Delta: d("1"), Reason: "reposição"})
	require.NoError(t, err)

	s, err := f.poster.FinalizeSale(f.ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, intent.StatusCompleted, f.loadIntent("req-9").Status)
	assert.Equal(t, s.ID, f.loadIntent("req-9").ResultID)
	requireDecimal(t, "0", f.stock(p.ID))
}

func TestInFlightRequestSeesStoredRejection(t *testing.T) {
	f := newFixture(t)
	p := f.product("YERBA", "1000", "30", "21", "0")
	caja := f.account("Caja")

	f.pendingIntent("req-7", intent.KindFinalizeSale, "sale-7", finalizePayload{
		SaleID: "sale-7",
		Number: "V-0007",
		Command: FinalizeSaleCommand{
			RequestID: "req-7",
			Items:     []CartItem{{ProductID: p.ID, Quantity: d("1")}},
			Payments:  []payment.Line{cash(caja.ID, "1573")},
		},
	})

	report, err := f.poster.Recover(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.RolledBack)

	in := f.loadIntent("req-7")
	assert.Equal(t, intent.StatusRolledBack, in.Status)
	assert.Equal(t, "insufficient_stock", in.ErrorKind)

	// A requisição original chega depois da recuperação
	apply, err := f.poster.applier(intent.KindFinalizeSale)
	require.NoError(t, err)
	_, _, _, err = f.poster.execute(f.ctx, "FinalizeSale", "req-7", apply)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrInsufficientStock)
	assert.NotErrorIs(t, err, apperr.ErrInvalidTransition)
}
