package document

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hugohenrick/erp-ledger/internal/domain/apperr"
	"github.com/shopspring/decimal"
)

// PlanStatus representa o estado de um plano de parcelamento
type PlanStatus string

const (
	PlanActive    PlanStatus = "active"
	PlanOverdue   PlanStatus = "overdue"
	PlanPaid      PlanStatus = "paid"
	PlanCancelled PlanStatus = "cancelled"
)

// InstallmentMachine é a tabela de transições dos planos
var InstallmentMachine = NewStateMachine("InstallmentPlan", map[PlanStatus][]PlanStatus{
	PlanActive:    {PlanPaid, PlanOverdue, PlanCancelled},
	PlanOverdue:   {PlanPaid, PlanCancelled},
	PlanPaid:      nil,
	PlanCancelled: nil,
})

// InstallmentPayment é um pagamento parcial registrado no plano
type InstallmentPayment struct {
	ID        string          `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	AccountID string          `json:"account_id"`
	EntryID   string          `json:"entry_id"`
	PaidAt    time.Time       `json:"paid_at"`
}

// InstallmentPlan acompanha um principal pago em parcelas
type InstallmentPlan struct {
	ID              string               `json:"id"`
	ClientID        string               `json:"client_id,omitempty"`
	Description     string               `json:"description"`
	TotalAmount     decimal.Decimal      `json:"total_amount"`
	RemainingAmount decimal.Decimal      `json:"remaining_amount"`
	Payments        []InstallmentPayment `json:"payments"`
	Status          PlanStatus           `json:"status"`
	DueDate         *time.Time           `json:"due_date,omitempty"`
	Version         int64                `json:"version"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// NewInstallmentPlan cria um plano ativo com saldo igual ao total
func NewInstallmentPlan(clientID, description string, total decimal.Decimal, dueDate *time.Time) (*InstallmentPlan, error) {
	if !total.IsPositive() {
		return nil, apperr.New("NewInstallmentPlan", apperr.ErrInvalidInput, "total deve ser positivo: %s", total)
	}

	now := time.Now().UTC()
	return &InstallmentPlan{
		ID:              uuid.New().String(),
		ClientID:        strings.TrimSpace(clientID),
		Description:     strings.TrimSpace(description),
		TotalAmount:     total,
		RemainingAmount: total,
		Payments:        []InstallmentPayment{},
		Status:          PlanActive,
		DueDate:         dueDate,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// Paid retorna a soma dos pagamentos registrados
func (p *InstallmentPlan) Paid() decimal.Decimal {
	sum := decimal.Zero
	for _, pay := range p.Payments {
		sum = sum.Add(pay.Amount)
	}
	return sum
}

// AcceptsPayments informa se o plano ainda recebe pagamentos
func (p *InstallmentPlan) AcceptsPayments() bool {
	return p.Status == PlanActive || p.Status == PlanOverdue
}

// ApplyPayment registra um pagamento parcial e reavalia o estado.
// O plano passa a paid quando o saldo chega a zero.
func (p *InstallmentPlan) ApplyPayment(payment InstallmentPayment) error {
	const op = "InstallmentPlan.ApplyPayment"

	if !p.AcceptsPayments() {
		return apperr.New(op, apperr.ErrInvalidTransition, "plano %s não aceita pagamentos", p.Status)
	}
	if !payment.Amount.IsPositive() {
		return apperr.New(op, apperr.ErrInvalidInput, "valor deve ser positivo: %s", payment.Amount)
	}
	if payment.Amount.GreaterThan(p.RemainingAmount) {
		return apperr.New(op, apperr.ErrInvalidInput, "valor %s excede o saldo %s", payment.Amount, p.RemainingAmount)
	}

	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	if payment.PaidAt.IsZero() {
		payment.PaidAt = time.Now().UTC()
	}
	p.Payments = append(p.Payments, payment)
	p.RemainingAmount = p.TotalAmount.Sub(p.Paid())
	p.UpdatedAt = time.Now().UTC()

	if p.RemainingAmount.LessThanOrEqual(decimal.Zero) {
		next, err := InstallmentMachine.Transition(p.Status, PlanPaid)
		if err != nil {
			return err
		}
		p.Status = next
	}
	return nil
}

// Cancel encerra o plano sem quitação
func (p *InstallmentPlan) Cancel() error {
	next, err := InstallmentMachine.Transition(p.Status, PlanCancelled)
	if err != nil {
		return err
	}
	p.Status = next
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// MarkOverdue move um plano ativo vencido para overdue
func (p *InstallmentPlan) MarkOverdue(now time.Time) error {
	if p.DueDate == nil || !now.After(*p.DueDate) {
		return apperr.New("InstallmentPlan.MarkOverdue", apperr.ErrInvalidTransition, "plano não está vencido")
	}
	next, err := InstallmentMachine.Transition(p.Status, PlanOverdue)
	if err != nil {
		return err
	}
	p.Status = next
	p.UpdatedAt = time.Now().UTC()
	return nil
}
