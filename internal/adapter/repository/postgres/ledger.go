package postgres

import (
	"context"

	"github.com/hugohenrick/erp-ledger/internal/domain/ledger"
)

const (
	accountColumns        = `id, name, type, status, balance, version, opened_at, closed_at, created_at, updated_at`
	entryColumns          = `id, account_id, direction, amount, category, description, linked_document_id, reverses_entry_id, created_at`
	reconciliationColumns = `id, account_id, expected, counted, discrepancy, notes, operator, created_at`
)

type accountRepository struct {
	db DBTX
}

func scanAccount(row rowScanner) (*ledger.Account, error) {
	var a ledger.Account
	err := row.Scan(&a.ID, &a.Name, &a.Type, &a.Status, &a.Balance, &a.Version,
		&a.OpenedAt, &a.ClosedAt, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *accountRepository) Create(ctx context.Context, a *ledger.Account) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO accounts (`+accountColumns+`) VALUES ($1, $2, $3, $4, $5, 1, $6, $7, $8, $9)`,
		a.ID, a.Name, a.Type, a.Status, a.Balance, a.OpenedAt, a.ClosedAt, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return dbError("AccountRepository.Create", "erro ao criar conta", err)
	}
	a.Version = 1
	return nil
}

func (r *accountRepository) FindByID(ctx context.Context, id string) (*ledger.Account, error) {
	a, err := scanAccount(r.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id))
	if err != nil {
		return nil, dbError("AccountRepository.FindByID", "erro ao buscar conta "+id, err)
	}
	return a, nil
}

func (r *accountRepository) List(ctx context.Context) ([]*ledger.Account, error) {
	const op = "AccountRepository.List"

	rows, err := r.db.Query(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY name COLLATE "C", id`)
	if err != nil {
		return nil, dbError(op, "erro ao listar contas", err)
	}
	defer rows.Close()

	out := make([]*ledger.Account, 0)
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, dbError(op, "erro ao ler conta", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(op, "erro ao iterar contas", err)
	}
	return out, nil
}

func (r *accountRepository) Update(ctx context.Context, a *ledger.Account) error {
	const op = "AccountRepository.Update"

	tag, err := r.db.Exec(ctx,
		`UPDATE accounts SET name = $3, status = $4, balance = $5, opened_at = $6, closed_at = $7,
			updated_at = $8, version = version + 1
		WHERE id = $1 AND version = $2`,
		a.ID, a.Version, a.Name, a.Status, a.Balance, a.OpenedAt, a.ClosedAt, a.UpdatedAt)
	if err != nil {
		return dbError(op, "erro ao atualizar conta", err)
	}
	if err := checkVersion(ctx, r.db, op, "accounts", a.ID, tag); err != nil {
		return err
	}
	a.Version++
	return nil
}

func (r *accountRepository) AppendEntry(ctx context.Context, e *ledger.Entry) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO ledger_entries (`+entryColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		e.ID, e.AccountID, e.Direction, e.Amount, e.Category, e.Description, e.LinkedDocumentID,
		e.ReversesEntryID, e.CreatedAt)
	if err != nil {
		return dbError("AccountRepository.AppendEntry", "erro ao gravar lançamento", err)
	}
	return nil
}

func (r *accountRepository) queryEntries(ctx context.Context, op, where string, arg string) ([]*ledger.Entry, error) {
	rows, err := r.db.Query(ctx, `SELECT `+entryColumns+` FROM ledger_entries WHERE `+where+` ORDER BY seq`, arg)
	if err != nil {
		return nil, dbError(op, "erro ao listar lançamentos", err)
	}
	defer rows.Close()

	out := make([]*ledger.Entry, 0)
	for rows.Next() {
		var e ledger.Entry
		if err := rows.Scan(&e.ID, &e.AccountID, &e.Direction, &e.Amount, &e.Category, &e.Description,
			&e.LinkedDocumentID, &e.ReversesEntryID, &e.CreatedAt); err != nil {
			return nil, dbError(op, "erro ao ler lançamento", err)
		}
		out = append(out, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(op, "erro ao iterar lançamentos", err)
	}
	return out, nil
}

func (r *accountRepository) ListEntries(ctx context.Context, accountID string) ([]*ledger.Entry, error) {
	return r.queryEntries(ctx, "AccountRepository.ListEntries", "account_id = $1", accountID)
}

func (r *accountRepository) ListEntriesByDocument(ctx context.Context, documentID string) ([]*ledger.Entry, error) {
	return r.queryEntries(ctx, "AccountRepository.ListEntriesByDocument", "linked_document_id = $1", documentID)
}

func (r *accountRepository) SaveReconciliation(ctx context.Context, rc *ledger.Reconciliation) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO reconciliations (`+reconciliationColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rc.ID, rc.AccountID, rc.Expected, rc.Counted, rc.Discrepancy, rc.Notes, rc.Operator, rc.CreatedAt)
	if err != nil {
		return dbError("AccountRepository.SaveReconciliation", "erro ao gravar arqueo", err)
	}
	return nil
}

func (r *accountRepository) ListReconciliations(ctx context.Context, accountID string) ([]*ledger.Reconciliation, error) {
	const op = "AccountRepository.ListReconciliations"

	rows, err := r.db.Query(ctx,
		`SELECT `+reconciliationColumns+` FROM reconciliations WHERE account_id = $1 ORDER BY created_at DESC, id`,
		accountID)
	if err != nil {
		return nil, dbError(op, "erro ao listar arqueos", err)
	}
	defer rows.Close()

	out := make([]*ledger.Reconciliation, 0)
	for rows.Next() {
		var rc ledger.Reconciliation
		if err := rows.Scan(&rc.ID, &rc.AccountID, &rc.Expected, &rc.Counted, &rc.Discrepancy,
			&rc.Notes, &rc.Operator, &rc.CreatedAt); err != nil {
			return nil, dbError(op, "erro ao ler arqueo", err)
		}
		out = append(out, &rc)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(op, "erro ao iterar arqueos", err)
	}
	return out, nil
}
