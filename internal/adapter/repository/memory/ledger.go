package memory

import (
	"context"
	"sort"

	"github.com/hugohenrick/erp-ledger/internal/domain/apperr"
	"github.com/hugohenrick/erp-ledger/internal/domain/ledger"
)

type accountRepository struct {
	st *state
}

func copyAccount(a *ledger.Account) *ledger.Account {
	cp := *a
	return &cp
}

func (r *accountRepository) Create(ctx context.Context, a *ledger.Account) error {
	if _, ok := r.st.accounts[a.ID]; ok {
		return apperr.New("AccountRepository.Create", apperr.ErrInvalidInput, "conta %s já existe", a.ID)
	}
	a.Version = 1
	r.st.accounts[a.ID] = copyAccount(a)
	return nil
}

func (r *accountRepository) FindByID(ctx context.Context, id string) (*ledger.Account, error) {
	a, ok := r.st.accounts[id]
	if !ok {
		return nil, apperr.New("AccountRepository.FindByID", apperr.ErrNotFound, "conta %s", id)
	}
	return copyAccount(a), nil
}

func (r *accountRepository) List(ctx context.Context) ([]*ledger.Account, error) {
	out := make([]*ledger.Account, 0, len(r.st.accounts))
	for _, a := range r.st.accounts {
		out = append(out, copyAccount(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *accountRepository) Update(ctx context.Context, a *ledger.Account) error {
	current, ok := r.st.accounts[a.ID]
	if !ok {
		return apperr.New("AccountRepository.Update", apperr.ErrNotFound, "conta %s", a.ID)
	}
	if current.Version != a.Version {
		return apperr.New("AccountRepository.Update", apperr.ErrConflict, "conta %s versão %d, atual %d", a.ID, a.Version, current.Version)
	}
	a.Version++
	r.st.accounts[a.ID] = copyAccount(a)
	return nil
}

func (r *accountRepository) AppendEntry(ctx context.Context, e *ledger.Entry) error {
	if _, ok := r.st.accounts[e.AccountID]; !ok {
		return apperr.New("AccountRepository.AppendEntry", apperr.ErrNotFound, "conta %s", e.AccountID)
	}
	cp := *e
	r.st.entries = append(r.st.entries, &cp)
	return nil
}

func (r *accountRepository) ListEntries(ctx context.Context, accountID string) ([]*ledger.Entry, error) {
	out := make([]*ledger.Entry, 0)
	for _, e := range r.st.entries {
		if e.AccountID == accountID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *accountRepository) ListEntriesByDocument(ctx context.Context, documentID string) ([]*ledger.Entry, error) {
	out := make([]*ledger.Entry, 0)
	for _, e := range r.st.entries {
		if e.LinkedDocumentID == documentID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *accountRepository) SaveReconciliation(ctx context.Context, rec *ledger.Reconciliation) error {
	cp := *rec
	r.st.reconciliations = append(r.st.reconciliations, &cp)
	return nil
}

func (r *accountRepository) ListReconciliations(ctx context.Context, accountID string) ([]*ledger.Reconciliation, error) {
	out := make([]*ledger.Reconciliation, 0)
	for i := len(r.st.reconciliations) - 1; i >= 0; i-- {
		rec := r.st.reconciliations[i]
		if rec.AccountID == accountID {
			cp := *rec
			out = append(out, &cp)
		}
	}
	return out, nil
}
