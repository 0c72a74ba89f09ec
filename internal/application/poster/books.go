package poster

import (
	"context"

	"github.com/hugohenrick/erp-ledger/internal/domain/ledger"
	"github.com/hugohenrick/erp-ledger/internal/domain/store"
	"github.com/hugohenrick/erp-ledger/internal/infrastructure/events"
	"github.com/shopspring/decimal"
)

// ledgerBook acumula lançamentos por conta dentro de uma unidade de trabalho.
// Cada conta é lida uma vez e gravada uma vez, com verificação de versão.
type ledgerBook struct {
	repos    store.Repositories
	accounts map[string]*ledger.Account
	order    []string
	entries  []*ledger.Entry
}

func newLedgerBook(repos store.Repositories) *ledgerBook {
	return &ledgerBook{repos: repos, accounts: map[string]*ledger.Account{}}
}

func (b *ledgerBook) account(ctx context.Context, id string) (*ledger.Account, error) {
	if a, ok := b.accounts[id]; ok {
		return a, nil
	}
	a, err := b.repos.Accounts().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	b.accounts[id] = a
	b.order = append(b.order, id)
	return a, nil
}

// post cria e aplica um lançamento na conta
func (b *ledgerBook) post(ctx context.Context, accountID string, direction ledger.Direction, amount decimal.Decimal, category ledger.Category, documentID, description string) (*ledger.Entry, error) {
	entry, err := ledger.NewEntry(accountID, direction, amount, category, documentID, description)
	if err != nil {
		return nil, err
	}
	if err := b.postEntry(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// postEntry aplica um lançamento já montado
func (b *ledgerBook) postEntry(ctx context.Context, entry *ledger.Entry) error {
	a, err := b.account(ctx, entry.AccountID)
	if err != nil {
		return err
	}
	if err := a.Post(entry); err != nil {
		return err
	}
	b.entries = append(b.entries, entry)
	return nil
}

// track inclui na gravação lançamentos aplicados fora do livro
func (b *ledgerBook) track(entries ...*ledger.Entry) {
	b.entries = append(b.entries, entries...)
}

// flush grava as contas com lançamentos e os lançamentos
func (b *ledgerBook) flush(ctx context.Context, c *changes) error {
	touched := map[string]bool{}
	for _, e := range b.entries {
		touched[e.AccountID] = true
	}
	for _, id := range b.order {
		if !touched[id] {
			continue
		}
		if err := b.repos.Accounts().Update(ctx, b.accounts[id]); err != nil {
			return err
		}
		c.add(events.CollectionAccounts, id, events.KindUpdated)
	}
	for _, e := range b.entries {
		if err := b.repos.Accounts().AppendEntry(ctx, e); err != nil {
			return err
		}
	}
	return nil
}
