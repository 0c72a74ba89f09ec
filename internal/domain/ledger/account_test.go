package ledger

import (
	"testing"

	"github.com/hugohenrick/erp-ledger/internal/domain/apperr"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func mustAccount(t *testing.T, name string) *Account {
	t.Helper()
	a, err := NewAccount(name, AccountCash)
	require.NoError(t, err)
	return a
}

func mustPost(t *testing.T, a *Account, dir Direction, amount string) *Entry {
	t.Helper()
	e, err := NewEntry(a.ID, dir, d(amount), CategoryManualIncome, "", "")
	require.NoError(t, err)
	require.NoError(t, a.Post(e))
	return e
}

func TestPostKeepsBalanceEqualToEntries(t *testing.T) {
	a := mustAccount(t, "Caja 1")
	var entries []*Entry
	entries = append(entries, mustPost(t, a, DirectionIn, "100.50"))
	entries = append(entries, mustPost(t, a, DirectionOut, "30.25"))
	entries = append(entries, mustPost(t, a, DirectionIn, "0.75"))

	assert.True(t, a.Balance.Equal(d("71")), "got %s", a.Balance)
	assert.True(t, a.Balance.Equal(Sum(entries)))
}

func TestClosedAccountRejectsPost(t *testing.T) {
	a := mustAccount(t, "Caja 1")
	mustPost(t, a, DirectionIn, "10")

	rec, err := a.Close(d("9.50"), "faltante", "op-1")
	require.NoError(t, err)
	assert.True(t, rec.Expected.Equal(d("10")))
	assert.True(t, rec.Discrepancy.Equal(d("-0.5")))

	e, err := NewEntry(a.ID, DirectionIn, d("1"), CategoryManualIncome, "", "")
	require.NoError(t, err)
	assert.ErrorIs(t, a.Post(e), apperr.ErrAccountClosed)
	assert.True(t, a.Balance.Equal(d("10")))

	_, err = a.Close(d("10"), "", "")
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)

	require.NoError(t, a.Open())
	require.NoError(t, a.Post(e))
	assert.True(t, a.Balance.Equal(d("11")))
	assert.ErrorIs(t, a.Open(), apperr.ErrInvalidTransition)
}

func TestPostRejectsForeignEntry(t *testing.T) {
	a := mustAccount(t, "A")
	b := mustAccount(t, "B")
	e, err := NewEntry(b.ID, DirectionIn, d("1"), CategoryManualIncome, "", "")
	require.NoError(t, err)
	assert.ErrorIs(t, a.Post(e), apperr.ErrInvalidInput)
}

func TestNewEntryValidation(t *testing.T) {
	_, err := NewEntry("acc", DirectionIn, decimal.Zero, CategorySale, "", "")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	_, err = NewEntry("acc", Direction("sideways"), d("1"), CategorySale, "", "")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	_, err = NewEntry("", DirectionIn, d("1"), CategorySale, "", "")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestTransferConservesCombinedBalance(t *testing.T) {
	from := mustAccount(t, "Caja")
	to := mustAccount(t, "Banco")
	mustPost(t, from, DirectionIn, "500")
	before := from.Balance.Add(to.Balance)

	out, in, err := Transfer(from, to, d("120.40"), "tr-1", "depósito")
	require.NoError(t, err)

	assert.Equal(t, DirectionOut, out.Direction)
	assert.Equal(t, DirectionIn, in.Direction)
	assert.True(t, from.Balance.Equal(d("379.6")))
	assert.True(t, to.Balance.Equal(d("120.4")))
	assert.True(t, from.Balance.Add(to.Balance).Equal(before))
}

func TestTransferIsAllOrNothing(t *testing.T) {
	from := mustAccount(t, "Caja")
	to := mustAccount(t, "Banco")
	mustPost(t, from, DirectionIn, "500")
	_, err := to.Close(decimal.Zero, "", "")
	require.NoError(t, err)

	_, _, err = Transfer(from, to, d("100"), "tr-1", "")
	assert.ErrorIs(t, err, apperr.ErrAccountClosed)
	assert.True(t, from.Balance.Equal(d("500")))
	assert.True(t, to.Balance.IsZero())

	_, _, err = Transfer(from, from, d("1"), "tr-2", "")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestReverseEntry(t *testing.T) {
	a := mustAccount(t, "Caja")
	e := mustPost(t, a, DirectionIn, "80")

	rev := e.Reverse(CategorySaleReversal, "estorno")
	require.NoError(t, a.Post(rev))

	assert.Equal(t, e.ID, rev.ReversesEntryID)
	assert.Equal(t, DirectionOut, rev.Direction)
	assert.True(t, a.Balance.IsZero())
}
