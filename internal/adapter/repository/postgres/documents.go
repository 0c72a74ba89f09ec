package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hugohenrick/erp-ledger/internal/domain/document"
	"github.com/hugohenrick/erp-ledger/internal/domain/intent"
	"github.com/hugohenrick/erp-ledger/internal/domain/payment"
	"github.com/hugohenrick/erp-ledger/internal/domain/sale"
)

const saleColumns = `id, number, doc_type, origin, client_id, items, total, payment_lines, credit_amount,
	delivery_notes, status, operator, reversal_reason, reversed_at, version, created_at, updated_at`

type saleRepository struct {
	db DBTX
}

func (r *saleRepository) Create(ctx context.Context, s *sale.Sale) error {
	const op = "SaleRepository.Create"

	items, err := json.Marshal(s.Items)
	if err != nil {
		return fmt.Errorf("erro ao converter itens para JSON: %w", err)
	}
	lines, err := json.Marshal(nonNil(s.PaymentLines))
	if err != nil {
		return fmt.Errorf("erro ao converter linhas de pagamento para JSON: %w", err)
	}
	notes, err := json.Marshal(nonNil(s.DeliveryNotes))
	if err != nil {
		return fmt.Errorf("erro ao converter remitos para JSON: %w", err)
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO sales (`+saleColumns+`) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, 1, $15, $16
		)`,
		s.ID, s.Number, s.DocType, s.Origin, s.ClientID, items, s.Total, lines, s.CreditAmount,
		notes, s.Status, s.Operator, s.ReversalReason, s.ReversedAt, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return dbError(op, "erro ao criar venda", err)
	}
	s.Version = 1
	return nil
}

func (r *saleRepository) FindByID(ctx context.Context, id string) (*sale.Sale, error) {
	const op = "SaleRepository.FindByID"

	var (
		s                   sale.Sale
		items, lines, notes []byte
	)
	err := r.db.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id).Scan(
		&s.ID, &s.Number, &s.DocType, &s.Origin, &s.ClientID, &items, &s.Total, &lines, &s.CreditAmount,
		&notes, &s.Status, &s.Operator, &s.ReversalReason, &s.ReversedAt, &s.Version, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, dbError(op, "erro ao buscar venda "+id, err)
	}

	if err := json.Unmarshal(items, &s.Items); err != nil {
		return nil, fmt.Errorf("erro ao converter itens da venda: %w", err)
	}
	s.PaymentLines = []payment.SettledLine{}
	if err := json.Unmarshal(lines, &s.PaymentLines); err != nil {
		return nil, fmt.Errorf("erro ao converter linhas de pagamento: %w", err)
	}
	if err := json.Unmarshal(notes, &s.DeliveryNotes); err != nil {
		return nil, fmt.Errorf("erro ao converter remitos da venda: %w", err)
	}
	if len(s.DeliveryNotes) == 0 {
		s.DeliveryNotes = nil
	}
	return &s, nil
}

// Update grava apenas o estado mutável da venda; itens e pagamentos são imutáveis
func (r *saleRepository) Update(ctx context.Context, s *sale.Sale) error {
	const op = "SaleRepository.Update"

	tag, err := r.db.Exec(ctx,
		`UPDATE sales SET status = $3, reversal_reason = $4, reversed_at = $5, updated_at = $6,
			version = version + 1
		WHERE id = $1 AND version = $2`,
		s.ID, s.Version, s.Status, s.ReversalReason, s.ReversedAt, s.UpdatedAt)
	if err != nil {
		return dbError(op, "erro ao atualizar venda", err)
	}
	if err := checkVersion(ctx, r.db, op, "sales", s.ID, tag); err != nil {
		return err
	}
	s.Version++
	return nil
}

const noteColumns = `id, number, client_id, items, total, status, invoice_id, version, created_at, updated_at`

type deliveryNoteRepository struct {
	db DBTX
}

func (r *deliveryNoteRepository) Create(ctx context.Context, n *document.DeliveryNote) error {
	items, err := json.Marshal(n.Items)
	if err != nil {
		return fmt.Errorf("erro ao converter itens para JSON: %w", err)
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO delivery_notes (`+noteColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, 1, $8, $9)`,
		n.ID, n.Number, n.ClientID, items, n.Total, n.Status, n.InvoiceID, n.CreatedAt, n.UpdatedAt)
	if err != nil {
		return dbError("DeliveryNoteRepository.Create", "erro ao criar remito", err)
	}
	n.Version = 1
	return nil
}

func (r *deliveryNoteRepository) FindByID(ctx context.Context, id string) (*document.DeliveryNote, error) {
	var (
		n     document.DeliveryNote
		items []byte
	)
	err := r.db.QueryRow(ctx, `SELECT `+noteColumns+` FROM delivery_notes WHERE id = $1`, id).Scan(
		&n.ID, &n.Number, &n.ClientID, &items, &n.Total, &n.Status, &n.InvoiceID, &n.Version, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		return nil, dbError("DeliveryNoteRepository.FindByID", "erro ao buscar remito "+id, err)
	}
	if err := json.Unmarshal(items, &n.Items); err != nil {
		return nil, fmt.Errorf("erro ao converter itens do remito: %w", err)
	}
	return &n, nil
}

func (r *deliveryNoteRepository) Update(ctx context.Context, n *document.DeliveryNote) error {
	const op = "DeliveryNoteRepository.Update"

	tag, err := r.db.Exec(ctx,
		`UPDATE delivery_notes SET status = $3, invoice_id = $4, updated_at = $5, version = version + 1
		WHERE id = $1 AND version = $2`,
		n.ID, n.Version, n.Status, n.InvoiceID, n.UpdatedAt)
	if err != nil {
		return dbError(op, "erro ao atualizar remito", err)
	}
	if err := checkVersion(ctx, r.db, op, "delivery_notes", n.ID, tag); err != nil {
		return err
	}
	n.Version++
	return nil
}

const planColumns = `id, client_id, description, total_amount, remaining_amount, status, due_date, version, created_at, updated_at`

type installmentRepository struct {
	db DBTX
}

func scanPlan(row rowScanner) (*document.InstallmentPlan, error) {
	var p document.InstallmentPlan
	err := row.Scan(&p.ID, &p.ClientID, &p.Description, &p.TotalAmount, &p.RemainingAmount, &p.Status,
		&p.DueDate, &p.Version, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Payments = []document.InstallmentPayment{}
	return &p, nil
}

func (r *installmentRepository) Create(ctx context.Context, p *document.InstallmentPlan) error {
	const op = "InstallmentRepository.Create"

	_, err := r.db.Exec(ctx,
		`INSERT INTO installment_plans (`+planColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, 1, $8, $9)`,
		p.ID, p.ClientID, p.Description, p.TotalAmount, p.RemainingAmount, p.Status, p.DueDate, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return dbError(op, "erro ao criar plano de parcelamento", err)
	}
	if err := r.insertPayments(ctx, op, p); err != nil {
		return err
	}
	p.Version = 1
	return nil
}

// insertPayments grava os pagamentos ainda não persistidos; pagamentos nunca mudam
func (r *installmentRepository) insertPayments(ctx context.Context, op string, p *document.InstallmentPlan) error {
	for _, pay := range p.Payments {
		_, err := r.db.Exec(ctx,
			`INSERT INTO installment_payments (id, plan_id, amount, account_id, entry_id, paid_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO NOTHING`,
			pay.ID, p.ID, pay.Amount, pay.AccountID, pay.EntryID, pay.PaidAt)
		if err != nil {
			return dbError(op, "erro ao gravar pagamento do plano", err)
		}
	}
	return nil
}

func (r *installmentRepository) loadPayments(ctx context.Context, op string, p *document.InstallmentPlan) error {
	rows, err := r.db.Query(ctx,
		`SELECT id, amount, account_id, entry_id, paid_at FROM installment_payments WHERE plan_id = $1 ORDER BY seq`,
		p.ID)
	if err != nil {
		return dbError(op, "erro ao listar pagamentos do plano", err)
	}
	defer rows.Close()

	for rows.Next() {
		var pay document.InstallmentPayment
		if err := rows.Scan(&pay.ID, &pay.Amount, &pay.AccountID, &pay.EntryID, &pay.PaidAt); err != nil {
			return dbError(op, "erro ao ler pagamento do plano", err)
		}
		p.Payments = append(p.Payments, pay)
	}
	if err := rows.Err(); err != nil {
		return dbError(op, "erro ao iterar pagamentos do plano", err)
	}
	return nil
}

func (r *installmentRepository) FindByID(ctx context.Context, id string) (*document.InstallmentPlan, error) {
	const op = "InstallmentRepository.FindByID"

	p, err := scanPlan(r.db.QueryRow(ctx, `SELECT `+planColumns+` FROM installment_plans WHERE id = $1`, id))
	if err != nil {
		return nil, dbError(op, "erro ao buscar plano "+id, err)
	}
	if err := r.loadPayments(ctx, op, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *installmentRepository) Update(ctx context.Context, p *document.InstallmentPlan) error {
	const op = "InstallmentRepository.Update"

	tag, err := r.db.Exec(ctx,
		`UPDATE installment_plans SET remaining_amount = $3, status = $4, due_date = $5, updated_at = $6,
			version = version + 1
		WHERE id = $1 AND version = $2`,
		p.ID, p.Version, p.RemainingAmount, p.Status, p.DueDate, p.UpdatedAt)
	if err != nil {
		return dbError(op, "erro ao atualizar plano", err)
	}
	if err := checkVersion(ctx, r.db, op, "installment_plans", p.ID, tag); err != nil {
		return err
	}
	if err := r.insertPayments(ctx, op, p); err != nil {
		return err
	}
	p.Version++
	return nil
}

func (r *installmentRepository) ListDue(ctx context.Context, before time.Time) ([]*document.InstallmentPlan, error) {
	const op = "InstallmentRepository.ListDue"

	rows, err := r.db.Query(ctx,
		`SELECT `+planColumns+` FROM installment_plans
		WHERE status = $1 AND due_date IS NOT NULL AND due_date < $2
		ORDER BY due_date, id`,
		document.PlanActive, before)
	if err != nil {
		return nil, dbError(op, "erro ao listar planos vencidos", err)
	}

	out := make([]*document.InstallmentPlan, 0)
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			rows.Close()
			return nil, dbError(op, "erro ao ler plano", err)
		}
		out = append(out, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, dbError(op, "erro ao iterar planos", err)
	}

	// A conexão da transação só aceita uma consulta aberta por vez
	for _, p := range out {
		if err := r.loadPayments(ctx, op, p); err != nil {
			return nil, err
		}
	}
	return out, nil
}

const intentColumns = `id, kind, payload, status, result_id, error, error_kind, attempts, created_at, updated_at`

type intentRepository struct {
	db DBTX
}

func scanIntent(row rowScanner) (*intent.Intent, error) {
	var (
		i       intent.Intent
		payload []byte
	)
	if err := row.Scan(&i.ID, &i.Kind, &payload, &i.Status, &i.ResultID, &i.Error, &i.ErrorKind, &i.Attempts, &i.CreatedAt, &i.UpdatedAt); err != nil {
		return nil, err
	}
	i.Payload = json.RawMessage(payload)
	return &i, nil
}

func (r *intentRepository) Create(ctx context.Context, i *intent.Intent) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO intents (`+intentColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		i.ID, i.Kind, []byte(i.Payload), i.Status, i.ResultID, i.Error, i.ErrorKind, i.Attempts, i.CreatedAt, i.UpdatedAt)
	if err != nil {
		return dbError("IntentRepository.Create", "erro ao gravar intenção", err)
	}
	return nil
}

func (r *intentRepository) FindByID(ctx context.Context, id string) (*intent.Intent, error) {
	i, err := scanIntent(r.db.QueryRow(ctx, `SELECT `+intentColumns+` FROM intents WHERE id = $1`, id))
	if err != nil {
		return nil, dbError("IntentRepository.FindByID", "erro ao buscar intenção "+id, err)
	}
	return i, nil
}

func (r *intentRepository) Update(ctx context.Context, i *intent.Intent) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE intents SET kind = $2, payload = $3, status = $4, result_id = $5, error = $6, error_kind = $7,
			attempts = $8, updated_at = $9
		WHERE id = $1`,
		i.ID, i.Kind, []byte(i.Payload), i.Status, i.ResultID, i.Error, i.ErrorKind, i.Attempts, i.UpdatedAt)
	if err != nil {
		return dbError("IntentRepository.Update", "erro ao atualizar intenção", err)
	}
	return checkVersion(ctx, r.db, "IntentRepository.Update", "intents", i.ID, tag)
}

func (r *intentRepository) ListPending(ctx context.Context) ([]*intent.Intent, error) {
	const op = "IntentRepository.ListPending"

	rows, err := r.db.Query(ctx,
		`SELECT `+intentColumns+` FROM intents WHERE status = $1 ORDER BY created_at, id`, intent.StatusPending)
	if err != nil {
		return nil, dbError(op, "erro ao listar intenções pendentes", err)
	}
	defer rows.Close()

	out := make([]*intent.Intent, 0)
	for rows.Next() {
		i, err := scanIntent(rows)
		if err != nil {
			return nil, dbError(op, "erro ao ler intenção", err)
		}
		out = append(out, i)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(op, "erro ao iterar intenções", err)
	}
	return out, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
