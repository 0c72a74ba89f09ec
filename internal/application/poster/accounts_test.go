package poster

import (
	"testing"

	"github.com/hugohenrick/erp-ledger/internal/domain/apperr"
	"github.com/hugohenrick/erp-ledger/internal/domain/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordMovement(t *testing.T) {
	f := newFixture(t)
	caja := f.account("Caja")

	entry, account, err := f.poster.RecordMovement(f.ctx, MovementCommand{AccountID: caja.ID, Direction: ledger.DirectionIn, Amount: d("100"), Operator: "ana"})
	require.NoError(t, err)
	assert.Equal(t, ledger.CategoryManualIncome, entry.Category)
	requireDecimal(t, "100", account.Balance)

	entry, _, err = f.poster.RecordMovement(f.ctx, MovementCommand{AccountID: caja.ID, Direction: ledger.DirectionOut, Amount: d("30"), Description: "fletes"})
	require.NoError(t, err)
	assert.Equal(t, ledger.CategoryManualExpense, entry.Category)
	requireDecimal(t, "70", f.balance(caja.ID))
	requireDecimal(t, "70", f.entriesSum(caja.ID))

	_, _, err = f.poster.RecordMovement(f.ctx, MovementCommand{AccountID: caja.ID, Direction: ledger.DirectionIn, Amount: d("1"), Category: ledger.CategorySale})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	_, _, err = f.poster.RecordMovement(f.ctx, MovementCommand{AccountID: caja.ID, Direction: "lateral", Amount: d("1")})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	_, _, err = f.poster.RecordMovement(f.ctx, MovementCommand{AccountID: caja.ID, Direction: ledger.DirectionIn, Amount: d("-1")})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	requireDecimal(t, "70", f.balance(caja.ID))
}

func TestTransferBetweenAccounts(t *testing.T) {
	f := newFixture(t)
	caja := f.account("Caja")
	banco := f.account("Banco")
	_, _, err := f.poster.RecordMovement(f.ctx, MovementCommand{AccountID: caja.ID, Direction: ledger.DirectionIn, Amount: d("100")})
	require.NoError(t, err)

	res, err := f.poster.TransferBetweenAccounts(f.ctx, TransferCommand{FromID: caja.ID, ToID: banco.ID, Amount: d("40"), Description: "depósito"})
	require.NoError(t, err)
	assert.Equal(t, ledger.DirectionOut, res.Out.Direction)
	assert.Equal(t, ledger.DirectionIn, res.In.Direction)
	assert.Equal(t, res.TransferID, res.Out.LinkedDocumentID)
	assert.Equal(t, res.TransferID, res.In.LinkedDocumentID)
	requireDecimal(t, "60", f.balance(caja.ID))
	requireDecimal(t, "40", f.balance(banco.ID))
	requireDecimal(t, "100", f.balance(caja.ID).Add(f.balance(banco.ID)))

	_, _, err = f.poster.CloseAccount(f.ctx, CloseAccountCommand{AccountID: banco.ID, Counted: d("40")})
	require.NoError(t, err)

	_, err = f.poster.TransferBetweenAccounts(f.ctx, TransferCommand{FromID: caja.ID, ToID: banco.ID, Amount: d("10")})
	assert.ErrorIs(t, err, apperr.ErrAccountClosed)
	requireDecimal(t, "60", f.balance(caja.ID))
	requireDecimal(t, "40", f.balance(banco.ID))
	requireDecimal(t, "60", f.entriesSum(caja.ID))
	requireDecimal(t, "40", f.entriesSum(banco.ID))

	_, err = f.poster.TransferBetweenAccounts(f.ctx, TransferCommand{FromID: caja.ID, ToID: caja.ID, Amount: d("10")})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	_, err = f.poster.TransferBetweenAccounts(f.ctx, TransferCommand{FromID: caja.ID, ToID: banco.ID, Amount: d("0")})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestTransferIdempotentRequest(t *testing.T) {
	f := newFixture(t)
	caja := f.account("Caja")
	banco := f.account("Banco")

	cmd := TransferCommand{RequestID: "dep-7", FromID: caja.ID, ToID: banco.ID, Amount: d("25")}
	first, err := f.poster.TransferBetweenAccounts(f.ctx, cmd)
	require.NoError(t, err)
	second, err := f.poster.TransferBetweenAccounts(f.ctx, cmd)
	require.NoError(t, err)

	assert.Equal(t, first.TransferID, second.TransferID)
	assert.Equal(t, first.Out.ID, second.Out.ID)
	requireDecimal(t, "-25", f.balance(caja.ID))
	requireDecimal(t, "25", f.balance(banco.ID))
}

func TestCloseAndReopenAccount(t *testing.T) {
	f := newFixture(t)
	caja := f.account("Caja")
	_, _, err := f.poster.RecordMovement(f.ctx, MovementCommand{AccountID: caja.ID, Direction: ledger.DirectionIn, Amount: d("60")})
	require.NoError(t, err)

	closed, rec, err := f.poster.CloseAccount(f.ctx, CloseAccountCommand{AccountID: caja.ID, Counted: d("55"), Notes: "faltante", Operator: "ana"})
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusClosed, closed.Status)
	requireDecimal(t, "60", rec.Expected)
	requireDecimal(t, "-5", rec.Discrepancy)
	requireDecimal(t, "60", closed.Balance)

	_, _, err = f.poster.CloseAccount(f.ctx, CloseAccountCommand{AccountID: caja.ID, Counted: d("60")})
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)
	_, _, err = f.poster.RecordMovement(f.ctx, MovementCommand{AccountID: caja.ID, Direction: ledger.DirectionIn, Amount: d("1")})
	assert.ErrorIs(t, err, apperr.ErrAccountClosed)

	st, err := f.poster.Statement(f.ctx, caja.ID)
	require.NoError(t, err)
	require.Len(t, st.Reconciliations, 1)
	assert.Equal(t, "faltante", st.Reconciliations[0].Notes)

	reopened, err := f.poster.OpenAccount(f.ctx, caja.ID)
	require.NoError(t, err)
	assert.True(t, reopened.IsOpen())
	_, err = f.poster.OpenAccount(f.ctx, caja.ID)
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)

	accounts, err := f.poster.ListAccounts(f.ctx)
	require.NoError(t, err)
	assert.Len(t, accounts, 1)
}
