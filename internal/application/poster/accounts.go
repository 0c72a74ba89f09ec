package poster

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/hugohenrick/erp-ledger/internal/domain/apperr"
	"github.com/hugohenrick/erp-ledger/internal/domain/intent"
	"github.com/hugohenrick/erp-ledger/internal/domain/ledger"
	"github.com/hugohenrick/erp-ledger/internal/domain/store"
	"github.com/hugohenrick/erp-ledger/internal/infrastructure/events"
	"github.com/shopspring/decimal"
)

// CreateAccount cria uma conta aberta com saldo zero
func (p *Poster) CreateAccount(ctx context.Context, name string, accountType ledger.AccountType) (*ledger.Account, error) {
	const op = "CreateAccount"

	account, err := ledger.NewAccount(name, accountType)
	if err != nil {
		return nil, p.fail(op, err)
	}
	err = p.run(ctx, op, func(ctx context.Context, repos store.Repositories) error {
		return repos.Accounts().Create(ctx, account)
	})
	if err != nil {
		return nil, p.fail(op, err)
	}

	p.publisher.Publish(events.ChangeEvent{Collection: events.CollectionAccounts, ID: account.ID, Kind: events.KindCreated})
	p.logger.Info("conta criada", "account_id", account.ID, "type", string(account.Type))
	return account, nil
}

// CloseAccountCommand fecha a conta com o arqueo
type CloseAccountCommand struct {
	AccountID string
	Counted   decimal.Decimal
	Notes     string
	Operator  string
}

// CloseAccount registra o arqueo e fecha a conta. A diferença entre o contado
// e o saldo corrente é reportada mas não impede o fechamento.
func (p *Poster) CloseAccount(ctx context.Context, cmd CloseAccountCommand) (*ledger.Account, *ledger.Reconciliation, error) {
	const op = "CloseAccount"

	if cmd.Counted.IsNegative() {
		return nil, nil, p.fail(op, apperr.New(op, apperr.ErrInvalidInput, "valor contado negativo: %s", cmd.Counted))
	}

	var (
		account *ledger.Account
		rec     *ledger.Reconciliation
	)
	err := p.run(ctx, op, func(ctx context.Context, repos store.Repositories) error {
		var err error
		account, err = repos.Accounts().FindByID(ctx, cmd.AccountID)
		if err != nil {
			return err
		}
		rec, err = account.Close(cmd.Counted, strings.TrimSpace(cmd.Notes), cmd.Operator)
		if err != nil {
			return err
		}
		if err := repos.Accounts().Update(ctx, account); err != nil {
			return err
		}
		return repos.Accounts().SaveReconciliation(ctx, rec)
	})
	if err != nil {
		return nil, nil, p.fail(op, err, "account_id", cmd.AccountID)
	}

	p.publisher.Publish(events.ChangeEvent{Collection: events.CollectionAccounts, ID: account.ID, Kind: events.KindUpdated})
	if !rec.Discrepancy.IsZero() {
		p.logger.Warn("arqueo com diferença", "account_id", account.ID, "expected", rec.Expected, "counted", rec.Counted, "discrepancy", rec.Discrepancy)
	}
	p.logger.Info("conta fechada", "account_id", account.ID, "balance", account.Balance)
	return account, rec, nil
}

// OpenAccount reabre uma conta fechada
func (p *Poster) OpenAccount(ctx context.Context, accountID string) (*ledger.Account, error) {
	const op = "OpenAccount"

	var account *ledger.Account
	err := p.run(ctx, op, func(ctx context.Context, repos store.Repositories) error {
		var err error
		account, err = repos.Accounts().FindByID(ctx, accountID)
		if err != nil {
			return err
		}
		if err := account.Open(); err != nil {
			return err
		}
		return repos.Accounts().Update(ctx, account)
	})
	if err != nil {
		return nil, p.fail(op, err, "account_id", accountID)
	}

	p.publisher.Publish(events.ChangeEvent{Collection: events.CollectionAccounts, ID: account.ID, Kind: events.KindUpdated})
	p.logger.Info("conta reaberta", "account_id", account.ID)
	return account, nil
}

// MovementCommand é um lançamento manual
type MovementCommand struct {
	AccountID   string
	Direction   ledger.Direction
	Amount      decimal.Decimal
	Category    ledger.Category
	Description string
	Operator    string
}

// RecordMovement lança uma entrada ou saída manual
func (p *Poster) RecordMovement(ctx context.Context, cmd MovementCommand) (*ledger.Entry, *ledger.Account, error) {
	const op = "RecordMovement"

	if _, err := ledger.ParseDirection(string(cmd.Direction)); err != nil {
		return nil, nil, p.fail(op, err)
	}
	switch cmd.Category {
	case "":
		cmd.Category = ledger.CategoryManualIncome
		if cmd.Direction == ledger.DirectionOut {
			cmd.Category = ledger.CategoryManualExpense
		}
	case ledger.CategoryManualIncome, ledger.CategoryManualExpense, ledger.CategoryReconciliationAdj:
	default:
		return nil, nil, p.fail(op, apperr.New(op, apperr.ErrInvalidInput, "categoria %q não é manual", cmd.Category))
	}

	var (
		entry   *ledger.Entry
		account *ledger.Account
	)
	c := newChanges()
	err := p.run(ctx, op, func(ctx context.Context, repos store.Repositories) error {
		c = newChanges()
		books := newLedgerBook(repos)
		var err error
		desc := strings.TrimSpace(cmd.Description)
		if cmd.Operator != "" {
			desc = strings.TrimSpace(desc + " [" + cmd.Operator + "]")
		}
		entry, err = books.post(ctx, cmd.AccountID, cmd.Direction, cmd.Amount, cmd.Category, "", desc)
		if err != nil {
			return err
		}
		account = books.accounts[cmd.AccountID]
		return books.flush(ctx, c)
	})
	if err != nil {
		return nil, nil, p.fail(op, err, "account_id", cmd.AccountID)
	}

	p.publish(c)
	p.logger.Info("movimento registrado", "account_id", cmd.AccountID, "direction", string(entry.Direction), "amount", entry.Amount)
	return entry, account, nil
}

// TransferCommand move saldo entre duas contas
type TransferCommand struct {
	RequestID   string          `json:"request_id,omitempty"`
	FromID      string          `json:"from_id"`
	ToID        string          `json:"to_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
}

type transferPayload struct {
	TransferID string          `json:"transfer_id"`
	Command    TransferCommand `json:"command"`
}

// TransferResult é o par de lançamentos de uma transferência
type TransferResult struct {
	TransferID string          `json:"transfer_id"`
	Out        *ledger.Entry   `json:"out"`
	In         *ledger.Entry   `json:"in"`
	From       *ledger.Account `json:"from"`
	To         *ledger.Account `json:"to"`
}

// TransferBetweenAccounts lança a saída na origem e a entrada no destino.
// Se qualquer das contas estiver fechada nenhum lançamento é gravado.
func (p *Poster) TransferBetweenAccounts(ctx context.Context, cmd TransferCommand) (*TransferResult, error) {
	const op = "TransferBetweenAccounts"

	if !cmd.Amount.IsPositive() {
		return nil, p.fail(op, apperr.New(op, apperr.ErrInvalidInput, "valor deve ser positivo: %s", cmd.Amount))
	}
	if cmd.FromID == "" || cmd.ToID == "" {
		return nil, p.fail(op, apperr.New(op, apperr.ErrInvalidInput, "contas de origem e destino são obrigatórias"))
	}

	payload := transferPayload{TransferID: uuid.New().String(), Command: cmd}
	in, err := p.begin(ctx, op, cmd.RequestID, intent.KindTransfer, payload.TransferID, payload)
	if err != nil {
		return nil, p.fail(op, err)
	}

	var result *TransferResult
	transferID, replayed, c, err := p.execute(ctx, op, in.ID, func(ctx context.Context, repos store.Repositories, in *intent.Intent, c *changes) (string, error) {
		var pl transferPayload
		if err := in.Decode(&pl); err != nil {
			return "", err
		}
		r, err := p.transfer(ctx, repos, pl, c)
		if err != nil {
			return "", err
		}
		result = r
		return pl.TransferID, nil
	})
	if err != nil {
		return nil, p.fail(op, err, "from", cmd.FromID, "to", cmd.ToID)
	}
	if replayed {
		return p.loadTransfer(ctx, transferID)
	}

	p.publish(c)
	p.logger.Info("transferência registrada", "transfer_id", transferID, "from", cmd.FromID, "to", cmd.ToID, "amount", cmd.Amount)
	return result, nil
}

func (p *Poster) transfer(ctx context.Context, repos store.Repositories, pl transferPayload, c *changes) (*TransferResult, error) {
	existing, err := repos.Accounts().ListEntriesByDocument(ctx, pl.TransferID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return transferFromEntries(ctx, repos, pl.TransferID, existing)
	}

	cmd := pl.Command
	books := newLedgerBook(repos)
	from, err := books.account(ctx, cmd.FromID)
	if err != nil {
		return nil, err
	}
	to, err := books.account(ctx, cmd.ToID)
	if err != nil {
		return nil, err
	}

	out, inEntry, err := ledger.Transfer(from, to, cmd.Amount, pl.TransferID, strings.TrimSpace(cmd.Description))
	if err != nil {
		return nil, err
	}
	books.track(out, inEntry)
	if err := books.flush(ctx, c); err != nil {
		return nil, err
	}
	return &TransferResult{TransferID: pl.TransferID, Out: out, In: inEntry, From: from, To: to}, nil
}

func (p *Poster) loadTransfer(ctx context.Context, transferID string) (*TransferResult, error) {
	var result *TransferResult
	err := p.run(ctx, "GetTransfer", func(ctx context.Context, repos store.Repositories) error {
		entries, err := repos.Accounts().ListEntriesByDocument(ctx, transferID)
		if err != nil {
			return err
		}
		result, err = transferFromEntries(ctx, repos, transferID, entries)
		return err
	})
	return result, err
}

func transferFromEntries(ctx context.Context, repos store.Repositories, transferID string, entries []*ledger.Entry) (*TransferResult, error) {
	r := &TransferResult{TransferID: transferID}
	for _, e := range entries {
		if e.Category != ledger.CategoryTransfer {
			continue
		}
		account, err := repos.Accounts().FindByID(ctx, e.AccountID)
		if err != nil {
			return nil, err
		}
		if e.Direction == ledger.DirectionOut {
			r.Out, r.From = e, account
		} else {
			r.In, r.To = e, account
		}
	}
	if r.Out == nil || r.In == nil {
		return nil, apperr.New("GetTransfer", apperr.ErrNotFound, "transferência %s", transferID)
	}
	return r, nil
}

// ListAccounts retorna todas as contas
func (p *Poster) ListAccounts(ctx context.Context) ([]*ledger.Account, error) {
	var out []*ledger.Account
	err := p.run(ctx, "ListAccounts", func(ctx context.Context, repos store.Repositories) error {
		var err error
		out, err = repos.Accounts().List(ctx)
		return err
	})
	return out, err
}

// GetAccount busca uma conta
func (p *Poster) GetAccount(ctx context.Context, id string) (*ledger.Account, error) {
	var out *ledger.Account
	err := p.run(ctx, "GetAccount", func(ctx context.Context, repos store.Repositories) error {
		var err error
		out, err = repos.Accounts().FindByID(ctx, id)
		return err
	})
	return out, err
}

// AccountStatement é o extrato de uma conta
type AccountStatement struct {
	Account         *ledger.Account          `json:"account"`
	Entries         []*ledger.Entry          `json:"entries"`
	Reconciliations []*ledger.Reconciliation `json:"reconciliations"`
}

// Statement retorna a conta com lançamentos e arqueos lidos no mesmo snapshot
func (p *Poster) Statement(ctx context.Context, accountID string) (*AccountStatement, error) {
	st := &AccountStatement{}
	err := p.run(ctx, "Statement", func(ctx context.Context, repos store.Repositories) error {
		var err error
		if st.Account, err = repos.Accounts().FindByID(ctx, accountID); err != nil {
			return err
		}
		if st.Entries, err = repos.Accounts().ListEntries(ctx, accountID); err != nil {
			return err
		}
		st.Reconciliations, err = repos.Accounts().ListReconciliations(ctx, accountID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}
