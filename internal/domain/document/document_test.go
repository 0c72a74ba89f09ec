package document

import (
	"testing"
	"time"

	"github.com/hugohenrick/erp-ledger/internal/domain/apperr"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestDeliveryNoteTransitions(t *testing.T) {
	tests := []struct {
		name    string
		steps   []func(n *DeliveryNote) error
		want    NoteStatus
		wantErr error
	}{
		{
			name:  "pendente para faturado",
			steps: []func(n *DeliveryNote) error{func(n *DeliveryNote) error { return n.Invoice("inv-1") }},
			want:  NoteInvoiced,
		},
		{
			name: "entregue para faturado",
			steps: []func(n *DeliveryNote) error{
				(*DeliveryNote).MarkDelivered,
				func(n *DeliveryNote) error { return n.Invoice("inv-1") },
			},
			want: NoteInvoiced,
		},
		{
			name:  "pendente para cancelado",
			steps: []func(n *DeliveryNote) error{(*DeliveryNote).Cancel},
			want:  NoteCancelled,
		},
		{
			name: "faturado é terminal",
			steps: []func(n *DeliveryNote) error{
				func(n *DeliveryNote) error { return n.Invoice("inv-1") },
				func(n *DeliveryNote) error { return n.Invoice("inv-2") },
			},
			want:    NoteInvoiced,
			wantErr: apperr.ErrInvalidTransition,
		},
		{
			name: "cancelado não pode ser faturado",
			steps: []func(n *DeliveryNote) error{
				(*DeliveryNote).Cancel,
				func(n *DeliveryNote) error { return n.Invoice("inv-1") },
			},
			want:    NoteCancelled,
			wantErr: apperr.ErrInvalidTransition,
		},
		{
			name: "entregue duas vezes",
			steps: []func(n *DeliveryNote) error{
				(*DeliveryNote).MarkDelivered,
				(*DeliveryNote).MarkDelivered,
			},
			want:    NoteDelivered,
			wantErr: apperr.ErrInvalidTransition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := NewDeliveryNote("R-1", "", []NoteItem{{ProductID: "p1", Quantity: d("2"), UnitPrice: d("250")}})
			require.NoError(t, err)

			var last error
			for _, step := range tt.steps {
				last = step(n)
			}
			if tt.wantErr != nil {
				assert.ErrorIs(t, last, tt.wantErr)
			} else {
				assert.NoError(t, last)
			}
			assert.Equal(t, tt.want, n.Status)
			assert.Equal(t, n.Status == NoteInvoiced, n.InvoiceID != "")
		})
	}
}

func TestDeliveryNoteTotal(t *testing.T) {
	n, err := NewDeliveryNote("R-1", "c1", []NoteItem{
		{ProductID: "p1", Quantity: d("2"), UnitPrice: d("100")},
		{ProductID: "p2", Quantity: d("1.5"), UnitPrice: d("200")},
	})
	require.NoError(t, err)
	assert.True(t, n.Total.Equal(d("500")))
	assert.True(t, n.Items[1].Subtotal.Equal(d("300")))

	_, err = NewDeliveryNote("R-2", "", nil)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestInstallmentConvergence(t *testing.T) {
	plan, err := NewInstallmentPlan("c1", "heladera", d("1000"), nil)
	require.NoError(t, err)

	for _, amount := range []string{"333.33", "333.33", "333.34"} {
		require.NoError(t, plan.ApplyPayment(InstallmentPayment{Amount: d(amount)}))
	}

	assert.True(t, plan.RemainingAmount.Equal(decimal.Zero), "remaining %s", plan.RemainingAmount)
	assert.Equal(t, PlanPaid, plan.Status)
	assert.Len(t, plan.Payments, 3)

	err = plan.ApplyPayment(InstallmentPayment{Amount: d("1")})
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)
	assert.Len(t, plan.Payments, 3)
}

func TestInstallmentPaymentValidation(t *testing.T) {
	plan, err := NewInstallmentPlan("", "", d("100"), nil)
	require.NoError(t, err)

	assert.ErrorIs(t, plan.ApplyPayment(InstallmentPayment{Amount: decimal.Zero}), apperr.ErrInvalidInput)
	assert.ErrorIs(t, plan.ApplyPayment(InstallmentPayment{Amount: d("100.01")}), apperr.ErrInvalidInput)
	assert.Empty(t, plan.Payments)
	assert.Equal(t, PlanActive, plan.Status)

	_, err = NewInstallmentPlan("", "", decimal.Zero, nil)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestInstallmentOverdueAndCancel(t *testing.T) {
	due := time.Now().Add(-24 * time.Hour)
	plan, err := NewInstallmentPlan("c1", "", d("100"), &due)
	require.NoError(t, err)

	require.NoError(t, plan.MarkOverdue(time.Now()))
	assert.Equal(t, PlanOverdue, plan.Status)

	require.NoError(t, plan.ApplyPayment(InstallmentPayment{Amount: d("40")}))
	assert.Equal(t, PlanOverdue, plan.Status)

	require.NoError(t, plan.Cancel())
	assert.ErrorIs(t, plan.Cancel(), apperr.ErrInvalidTransition)
	assert.ErrorIs(t, plan.ApplyPayment(InstallmentPayment{Amount: d("1")}), apperr.ErrInvalidTransition)

	future := time.Now().Add(24 * time.Hour)
	fresh, err := NewInstallmentPlan("", "", d("10"), &future)
	require.NoError(t, err)
	assert.ErrorIs(t, fresh.MarkOverdue(time.Now()), apperr.ErrInvalidTransition)
}

func TestStateMachineTerminal(t *testing.T) {
	assert.True(t, DeliveryNoteMachine.IsTerminal(NoteInvoiced))
	assert.True(t, InstallmentMachine.IsTerminal(PlanPaid))
	assert.False(t, InstallmentMachine.IsTerminal(PlanOverdue))
	assert.True(t, InstallmentMachine.CanTransition(PlanOverdue, PlanPaid))
	assert.False(t, InstallmentMachine.CanTransition(PlanPaid, PlanActive))
}
