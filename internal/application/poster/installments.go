package poster

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hugohenrick/erp-ledger/internal/domain/apperr"
	"github.com/hugohenrick/erp-ledger/internal/domain/document"
	"github.com/hugohenrick/erp-ledger/internal/domain/intent"
	"github.com/hugohenrick/erp-ledger/internal/domain/ledger"
	"github.com/hugohenrick/erp-ledger/internal/domain/store"
	"github.com/hugohenrick/erp-ledger/internal/infrastructure/events"
	"github.com/shopspring/decimal"
)

// InstallmentPlanCommand origina um plano de parcelamento
type InstallmentPlanCommand struct {
	ClientID    string
	Total       decimal.Decimal
	Description string
	DueDate     *time.Time
}

// CreateInstallmentPlan cria um plano ativo
func (p *Poster) CreateInstallmentPlan(ctx context.Context, cmd InstallmentPlanCommand) (*document.InstallmentPlan, error) {
	const op = "CreateInstallmentPlan"

	plan, err := document.NewInstallmentPlan(cmd.ClientID, cmd.Description, cmd.Total, cmd.DueDate)
	if err != nil {
		return nil, p.fail(op, err)
	}
	err = p.run(ctx, op, func(ctx context.Context, repos store.Repositories) error {
		if plan.ClientID != "" {
			if _, err := findClient(ctx, repos, op, plan.ClientID); err != nil {
				return err
			}
		}
		return repos.Installments().Create(ctx, plan)
	})
	if err != nil {
		return nil, p.fail(op, err, "client_id", cmd.ClientID)
	}

	p.publisher.Publish(events.ChangeEvent{Collection: events.CollectionInstallments, ID: plan.ID, Kind: events.KindCreated})
	p.logger.Info("plano de parcelamento criado", "plan_id", plan.ID, "total", plan.TotalAmount)
	return plan, nil
}

// InstallmentPaymentCommand registra um pagamento parcial
type InstallmentPaymentCommand struct {
	RequestID string          `json:"request_id,omitempty"`
	PlanID    string          `json:"plan_id"`
	Amount    decimal.Decimal `json:"amount"`
	AccountID string          `json:"account_id"`
}

type installmentPayload struct {
	PaymentID string                    `json:"payment_id"`
	Command   InstallmentPaymentCommand `json:"command"`
}

// RegisterInstallmentPayment anexa o pagamento ao plano, lança a entrada na
// conta e reavalia o estado do plano, tudo ou nada
func (p *Poster) RegisterInstallmentPayment(ctx context.Context, cmd InstallmentPaymentCommand) (*document.InstallmentPlan, error) {
	const op = "RegisterInstallmentPayment"

	if !cmd.Amount.IsPositive() {
		return nil, p.fail(op, apperr.New(op, apperr.ErrInvalidInput, "valor deve ser positivo: %s", cmd.Amount))
	}
	if cmd.PlanID == "" || cmd.AccountID == "" {
		return nil, p.fail(op, apperr.New(op, apperr.ErrInvalidInput, "plano e conta são obrigatórios"))
	}

	payload := installmentPayload{PaymentID: uuid.New().String(), Command: cmd}
	in, err := p.begin(ctx, op, cmd.RequestID, intent.KindInstallmentPayment, payload.PaymentID, payload)
	if err != nil {
		return nil, p.fail(op, err, "plan_id", cmd.PlanID)
	}

	var plan *document.InstallmentPlan
	_, replayed, c, err := p.execute(ctx, op, in.ID, func(ctx context.Context, repos store.Repositories, in *intent.Intent, c *changes) (string, error) {
		var pl installmentPayload
		if err := in.Decode(&pl); err != nil {
			return "", err
		}
		updated, err := p.payInstallment(ctx, repos, pl, c)
		if err != nil {
			return "", err
		}
		plan = updated
		return pl.PaymentID, nil
	})
	if err != nil {
		return nil, p.fail(op, err, "plan_id", cmd.PlanID)
	}
	if replayed {
		return p.GetInstallmentPlan(ctx, cmd.PlanID)
	}

	p.publish(c)
	p.logger.Info("parcela registrada", "plan_id", plan.ID, "amount", cmd.Amount, "remaining", plan.RemainingAmount, "status", string(plan.Status))
	return plan, nil
}

func (p *Poster) payInstallment(ctx context.Context, repos store.Repositories, pl installmentPayload, c *changes) (*document.InstallmentPlan, error) {
	cmd := pl.Command

	plan, err := repos.Installments().FindByID(ctx, cmd.PlanID)
	if err != nil {
		return nil, err
	}
	for _, pay := range plan.Payments {
		if pay.ID == pl.PaymentID {
			return plan, nil
		}
	}

	entry, err := ledger.NewEntry(cmd.AccountID, ledger.DirectionIn, cmd.Amount, ledger.CategoryInstallment, plan.ID, "parcela "+plan.Description)
	if err != nil {
		return nil, err
	}
	if err := plan.ApplyPayment(document.InstallmentPayment{
		ID:        pl.PaymentID,
		Amount:    cmd.Amount,
		AccountID: cmd.AccountID,
		EntryID:   entry.ID,
	}); err != nil {
		return nil, err
	}

	books := newLedgerBook(repos)
	if err := books.postEntry(ctx, entry); err != nil {
		return nil, err
	}
	if err := books.flush(ctx, c); err != nil {
		return nil, err
	}
	if err := repos.Installments().Update(ctx, plan); err != nil {
		return nil, err
	}
	c.add(events.CollectionInstallments, plan.ID, events.KindUpdated)
	return plan, nil
}

// CancelInstallmentPlan encerra um plano ativo ou vencido
func (p *Poster) CancelInstallmentPlan(ctx context.Context, planID string) (*document.InstallmentPlan, error) {
	const op = "CancelInstallmentPlan"

	var plan *document.InstallmentPlan
	err := p.run(ctx, op, func(ctx context.Context, repos store.Repositories) error {
		var err error
		plan, err = repos.Installments().FindByID(ctx, planID)
		if err != nil {
			return err
		}
		if err := plan.Cancel(); err != nil {
			return err
		}
		return repos.Installments().Update(ctx, plan)
	})
	if err != nil {
		return nil, p.fail(op, err, "plan_id", planID)
	}

	p.publisher.Publish(events.ChangeEvent{Collection: events.CollectionInstallments, ID: plan.ID, Kind: events.KindUpdated})
	p.logger.Info("plano cancelado", "plan_id", plan.ID, "remaining", plan.RemainingAmount)
	return plan, nil
}

// MarkOverdue move para overdue os planos ativos vencidos e retorna quantos mudaram
func (p *Poster) MarkOverdue(ctx context.Context) (int, error) {
	const op = "MarkOverdue"

	now := p.now().UTC()
	c := newChanges()
	count := 0
	err := p.run(ctx, op, func(ctx context.Context, repos store.Repositories) error {
		c, count = newChanges(), 0
		due, err := repos.Installments().ListDue(ctx, now)
		if err != nil {
			return err
		}
		for _, plan := range due {
			if err := plan.MarkOverdue(now); err != nil {
				return err
			}
			if err := repos.Installments().Update(ctx, plan); err != nil {
				return err
			}
			c.add(events.CollectionInstallments, plan.ID, events.KindUpdated)
			count++
		}
		return nil
	})
	if err != nil {
		return 0, p.fail(op, err)
	}

	p.publish(c)
	if count > 0 {
		p.logger.Info("planos vencidos", "count", count)
	}
	return count, nil
}

// GetInstallmentPlan busca um plano
func (p *Poster) GetInstallmentPlan(ctx context.Context, id string) (*document.InstallmentPlan, error) {
	var plan *document.InstallmentPlan
	err := p.run(ctx, "GetInstallmentPlan", func(ctx context.Context, repos store.Repositories) error {
		var err error
		plan, err = repos.Installments().FindByID(ctx, id)
		return err
	})
	return plan, err
}
