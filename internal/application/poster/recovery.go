package poster

import (
	"context"

	"github.com/hugohenrick/erp-ledger/internal/domain/apperr"
	"github.com/hugohenrick/erp-ledger/internal/domain/intent"
	"github.com/hugohenrick/erp-ledger/internal/domain/store"
)

// RecoveryReport resume uma passada de recuperação
type RecoveryReport struct {
	Pending    int      `json:"pending"`
	RolledFwd  int      `json:"rolled_forward"`
	RolledBack int      `json:"rolled_back"`
	Failed     int      `json:"failed"`
	IntentIDs  []string `json:"intent_ids,omitempty"`
}

// Recover resolve as intenções que ficaram pendentes após uma interrupção.
// Cada uma é reaplicada; se o comando for rejeitado ela é descartada.
func (p *Poster) Recover(ctx context.Context) (*RecoveryReport, error) {
	const op = "Recover"

	var pending []*intent.Intent
	err := p.run(ctx, op, func(ctx context.Context, repos store.Repositories) error {
		var err error
		pending, err = repos.Intents().ListPending(ctx)
		return err
	})
	if err != nil {
		return nil, p.fail(op, err)
	}

	report := &RecoveryReport{Pending: len(pending)}
	for _, in := range pending {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.IntentIDs = append(report.IntentIDs, in.ID)

		detected := apperr.New(op, apperr.ErrPartialFailureDetected, "intenção %s (%s) pendente", in.ID, in.Kind)
		p.logger.Warn("falha parcial detectada", "intent_id", in.ID, "kind", string(in.Kind), "attempts", in.Attempts, "error", detected)

		apply, err := p.applier(in.Kind)
		if err != nil {
			p.discard(ctx, op, in.ID, err)
			report.RolledBack++
			continue
		}

		resultID, _, c, err := p.execute(ctx, op, in.ID, apply)
		switch {
		case err == nil:
			p.publish(c)
			report.RolledFwd++
			p.logger.Info("intenção reaplicada", "intent_id", in.ID, "result_id", resultID)
		case apperr.IsRejection(err):
			report.RolledBack++
			p.logger.Warn("intenção descartada", "intent_id", in.ID, "error", err)
		default:
			report.Failed++
			p.logger.Error("falha ao recuperar intenção", "intent_id", in.ID, "error", err)
		}
	}

	if report.Pending > 0 {
		p.logger.Info("recuperação concluída", "pending", report.Pending, "rolled_forward", report.RolledFwd, "rolled_back", report.RolledBack, "failed", report.Failed)
	}
	return report, nil
}

// applier devolve a função de aplicação de cada tipo de intenção
func (p *Poster) applier(kind intent.Kind) (applyFunc, error) {
	switch kind {
	case intent.KindFinalizeSale:
		return func(ctx context.Context, repos store.Repositories, in *intent.Intent, c *changes) (string, error) {
			var pl finalizePayload
			if err := in.Decode(&pl); err != nil {
				return "", err
			}
			s, err := p.postSale(ctx, repos, pl, c)
			if err != nil {
				return "", err
			}
			return s.ID, nil
		}, nil
	case intent.KindInstallmentPayment:
		return func(ctx context.Context, repos store.Repositories, in *intent.Intent, c *changes) (string, error) {
			var pl installmentPayload
			if err := in.Decode(&pl); err != nil {
				return "", err
			}
			if _, err := p.payInstallment(ctx, repos, pl, c); err != nil {
				return "", err
			}
			return pl.PaymentID, nil
		}, nil
	case intent.KindTransfer:
		return func(ctx context.Context, repos store.Repositories, in *intent.Intent, c *changes) (string, error) {
			var pl transferPayload
			if err := in.Decode(&pl); err != nil {
				return "", err
			}
			if _, err := p.transfer(ctx, repos, pl, c); err != nil {
				return "", err
			}
			return pl.TransferID, nil
		}, nil
	case intent.KindInvoiceDeliveryNote:
		return func(ctx context.Context, repos store.Repositories, in *intent.Intent, c *changes) (string, error) {
			var pl invoicePayload
			if err := in.Decode(&pl); err != nil {
				return "", err
			}
			s, err := p.invoiceNotes(ctx, repos, pl, c)
			if err != nil {
				return "", err
			}
			return s.ID, nil
		}, nil
	case intent.KindReverseSale:
		return func(ctx context.Context, repos store.Repositories, in *intent.Intent, c *changes) (string, error) {
			var cmd ReverseSaleCommand
			if err := in.Decode(&cmd); err != nil {
				return "", err
			}
			s, err := p.reverseSale(ctx, repos, cmd, c)
			if err != nil {
				return "", err
			}
			return s.ID, nil
		}, nil
	}
	return nil, apperr.New("Recover", apperr.ErrInvalidInput, "tipo de intenção desconhecido: %q", kind)
}
