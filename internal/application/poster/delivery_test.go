package poster

import (
	"testing"
	"time"

	"github.com/hugohenrick/erp-ledger/internal/domain/apperr"
	"github.com/hugohenrick/erp-ledger/internal/domain/document"
	"github.com/hugohenrick/erp-ledger/internal/domain/payment"
	"github.com/hugohenrick/erp-ledger/internal/domain/sale"
	"github.com/hugohenrick/erp-ledger/internal/infrastructure/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertDeliveryNotesToInvoice(t *testing.T) {
	f := newFixture(t)
	p := f.product("CAJON", "100", "0", "0", "20")
	cliente := f.client("Kiosco Centro")

	n1, err := f.poster.CreateDeliveryNote(f.ctx, DeliveryNoteCommand{ClientID: cliente.ID, Items: []CartItem{{ProductID: p.ID, Quantity: d("5")}}})
	require.NoError(t, err)
	n2, err := f.poster.CreateDeliveryNote(f.ctx, DeliveryNoteCommand{ClientID: cliente.ID, Items: []CartItem{{ProductID: p.ID, Quantity: d("7")}}})
	require.NoError(t, err)
	requireDecimal(t, "500", n1.Total)
	requireDecimal(t, "700", n2.Total)
	requireDecimal(t, "8", f.stock(p.ID))

	_, err = f.poster.MarkDelivered(f.ctx, n1.ID)
	require.NoError(t, err)

	inv, err := f.poster.ConvertDeliveryNotesToInvoice(f.ctx, InvoiceCommand{NoteIDs: []string{n1.ID, n2.ID}})
	require.NoError(t, err)

	assert.Equal(t, sale.DocInvoiceB, inv.DocType)
	assert.Equal(t, sale.OriginDeliveryNotes, inv.Origin)
	assert.ElementsMatch(t, []string{n1.ID, n2.ID}, inv.DeliveryNotes)
	requireDecimal(t, "1200", inv.Total)
	requireDecimal(t, "1200", inv.CreditAmount)
	require.Len(t, inv.PaymentLines, 1)
	assert.Equal(t, payment.MethodRunningAccount, inv.PaymentLines[0].Method)
	requireDecimal(t, "-1200", f.clientBalance(cliente.ID))
	requireDecimal(t, "8", f.stock(p.ID))
	assert.Equal(t, []notify.ExportKind{notify.ExportInvoice}, f.exports.kinds())

	for _, id := range []string{n1.ID, n2.ID} {
		n, err := f.poster.GetDeliveryNote(f.ctx, id)
		require.NoError(t, err)
		assert.Equal(t, document.NoteInvoiced, n.Status)
		assert.Equal(t, inv.ID, n.InvoiceID)
	}

	n3, err := f.poster.CreateDeliveryNote(f.ctx, DeliveryNoteCommand{ClientID: cliente.ID, Items: []CartItem{{ProductID: p.ID, Quantity: d("1")}}})
	require.NoError(t, err)
	_, err = f.poster.ConvertDeliveryNotesToInvoice(f.ctx, InvoiceCommand{NoteIDs: []string{n3.ID, n1.ID}})
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)

	n3, err = f.poster.GetDeliveryNote(f.ctx, n3.ID)
	require.NoError(t, err)
	assert.Equal(t, document.NotePending, n3.Status)
	assert.Empty(t, n3.InvoiceID)
	requireDecimal(t, "-1200", f.clientBalance(cliente.ID))

	// Estorno da fatura devolve o saldo mas não o estoque dos remitos
	_, err = f.poster.ReverseSale(f.ctx, ReverseSaleCommand{SaleID: inv.ID, Reason: "erro de faturamento"})
	require.NoError(t, err)
	requireDecimal(t, "0", f.clientBalance(cliente.ID))
	requireDecimal(t, "7", f.stock(p.ID))
}

func TestConvertDeliveryNotesValidation(t *testing.T) {
	f := newFixture(t)
	p := f.product("CAJON", "100", "0", "0", "20")
	a := f.client("A")
	b := f.client("B")

	na, err := f.poster.CreateDeliveryNote(f.ctx, DeliveryNoteCommand{ClientID: a.ID, Items: []CartItem{{ProductID: p.ID, Quantity: d("1")}}})
	require.NoError(t, err)
	nb, err := f.poster.CreateDeliveryNote(f.ctx, DeliveryNoteCommand{ClientID: b.ID, Items: []CartItem{{ProductID: p.ID, Quantity: d("1")}}})
	require.NoError(t, err)

	tests := []struct {
		name string
		cmd  InvoiceCommand
		want error
	}{
		{"sem remitos", InvoiceCommand{}, apperr.ErrInvalidInput},
		{"remito repetido", InvoiceCommand{NoteIDs: []string{na.ID, na.ID}}, apperr.ErrInvalidInput},
		{"clientes diferentes", InvoiceCommand{NoteIDs: []string{na.ID, nb.ID}}, apperr.ErrInvalidInput},
		{"nota de crédito", InvoiceCommand{NoteIDs: []string{na.ID}, DocType: sale.DocCreditNote}, apperr.ErrInvalidInput},
		{"remito inexistente", InvoiceCommand{NoteIDs: []string{"nao-existe"}}, apperr.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.poster.ConvertDeliveryNotesToInvoice(f.ctx, tt.cmd)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	n, err := f.poster.GetDeliveryNote(f.ctx, na.ID)
	require.NoError(t, err)
	assert.Equal(t, document.NotePending, n.Status)
}

func TestCancelDeliveryNoteRestoresStock(t *testing.T) {
	f := newFixture(t)
	p := f.product("CAJON", "100", "0", "0", "10")

	n, err := f.poster.CreateDeliveryNote(f.ctx, DeliveryNoteCommand{Items: []CartItem{{ProductID: p.ID, Quantity: d("4")}}})
	require.NoError(t, err)
	requireDecimal(t, "6", f.stock(p.ID))

	_, err = f.poster.CreateDeliveryNote(f.ctx, DeliveryNoteCommand{Items: []CartItem{{ProductID: p.ID, Quantity: d("7")}}})
	assert.ErrorIs(t, err, apperr.ErrInsufficientStock)

	cancelled, err := f.poster.CancelDeliveryNote(f.ctx, n.ID, "cliente desistiu", "ana")
	require.NoError(t, err)
	assert.Equal(t, document.NoteCancelled, cancelled.Status)
	requireDecimal(t, "10", f.stock(p.ID))

	_, err = f.poster.CancelDeliveryNote(f.ctx, n.ID, "", "ana")
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)
	requireDecimal(t, "10", f.stock(p.ID))

	_, err = f.poster.ConvertDeliveryNotesToInvoice(f.ctx, InvoiceCommand{NoteIDs: []string{n.ID}})
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)
}

func TestInstallmentPlanConverges(t *testing.T) {
	f := newFixture(t)
	caja := f.account("Caja")
	cliente := f.client("Cliente")

	plan, err := f.poster.CreateInstallmentPlan(f.ctx, InstallmentPlanCommand{ClientID: cliente.ID, Total: d("1000"), Description: "heladera"})
	require.NoError(t, err)

	for _, amount := range []string{"333.33", "333.33", "333.34"} {
		plan, err = f.poster.RegisterInstallmentPayment(f.ctx, InstallmentPaymentCommand{PlanID: plan.ID, Amount: d(amount), AccountID: caja.ID})
		require.NoError(t, err)
	}

	assert.Equal(t, document.PlanPaid, plan.Status)
	requireDecimal(t, "0", plan.RemainingAmount)
	assert.Len(t, plan.Payments, 3)
	requireDecimal(t, "1000", f.balance(caja.ID))
	requireDecimal(t, "1000", f.entriesSum(caja.ID))
	requireDecimal(t, "0", f.clientBalance(cliente.ID))

	_, err = f.poster.RegisterInstallmentPayment(f.ctx, InstallmentPaymentCommand{PlanID: plan.ID, Amount: d("1"), AccountID: caja.ID})
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)
	requireDecimal(t, "1000", f.balance(caja.ID))
}

func TestInstallmentPaymentRejections(t *testing.T) {
	f := newFixture(t)
	caja := f.account("Caja")
	fechada := f.account("Fechada")
	_, _, err := f.poster.CloseAccount(f.ctx, CloseAccountCommand{AccountID: fechada.ID, Counted: d("0")})
	require.NoError(t, err)

	plan, err := f.poster.CreateInstallmentPlan(f.ctx, InstallmentPlanCommand{Total: d("100")})
	require.NoError(t, err)

	_, err = f.poster.RegisterInstallmentPayment(f.ctx, InstallmentPaymentCommand{PlanID: plan.ID, Amount: d("150"), AccountID: caja.ID})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = f.poster.RegisterInstallmentPayment(f.ctx, InstallmentPaymentCommand{PlanID: plan.ID, Amount: d("50"), AccountID: fechada.ID})
	assert.ErrorIs(t, err, apperr.ErrAccountClosed)

	plan, err = f.poster.GetInstallmentPlan(f.ctx, plan.ID)
	require.NoError(t, err)
	requireDecimal(t, "100", plan.RemainingAmount)
	assert.Empty(t, plan.Payments)
	requireDecimal(t, "0", f.balance(caja.ID))
}

func TestInstallmentIdempotentPayment(t *testing.T) {
	f := newFixture(t)
	caja := f.account("Caja")
	plan, err := f.poster.CreateInstallmentPlan(f.ctx, InstallmentPlanCommand{Total: d("100")})
	require.NoError(t, err)

	cmd := InstallmentPaymentCommand{RequestID: "cobro-1", PlanID: plan.ID, Amount: d("40"), AccountID: caja.ID}
	_, err = f.poster.RegisterInstallmentPayment(f.ctx, cmd)
	require.NoError(t, err)
	plan, err = f.poster.RegisterInstallmentPayment(f.ctx, cmd)
	require.NoError(t, err)

	requireDecimal(t, "60", plan.RemainingAmount)
	requireDecimal(t, "40", f.balance(caja.ID))
}

func TestMarkOverdue(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	f := newFixture(t, WithClock(func() time.Time { return now }))

	past := now.Add(-48 * time.Hour)
	future := now.Add(48 * time.Hour)
	vencido, err := f.poster.CreateInstallmentPlan(f.ctx, InstallmentPlanCommand{Total: d("100"), DueDate: &past})
	require.NoError(t, err)
	emDia, err := f.poster.CreateInstallmentPlan(f.ctx, InstallmentPlanCommand{Total: d("100"), DueDate: &future})
	require.NoError(t, err)

	count, err := f.poster.MarkOverdue(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	got, err := f.poster.GetInstallmentPlan(f.ctx, vencido.ID)
	require.NoError(t, err)
	assert.Equal(t, document.PlanOverdue, got.Status)
	got, err = f.poster.GetInstallmentPlan(f.ctx, emDia.ID)
	require.NoError(t, err)
	assert.Equal(t, document.PlanActive, got.Status)

	count, err = f.poster.MarkOverdue(f.ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}
