// Package ledger mantém contas de saldo (caixa, banco, carteira virtual) e
// seus lançamentos imutáveis.
package ledger

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hugohenrick/erp-ledger/internal/domain/apperr"
	"github.com/shopspring/decimal"
)

// AccountType define o tipo de conta
type AccountType string

const (
	AccountCash    AccountType = "cash"
	AccountBank    AccountType = "bank"
	AccountVirtual AccountType = "virtual"
)

// ParseAccountType valida o tipo de conta
func ParseAccountType(s string) (AccountType, error) {
	switch AccountType(s) {
	case AccountCash, AccountBank, AccountVirtual:
		return AccountType(s), nil
	}
	return "", apperr.New("ParseAccountType", apperr.ErrInvalidInput, "tipo de conta desconhecido: %q", s)
}

// AccountStatus representa o estado da conta
type AccountStatus string

const (
	StatusOpen   AccountStatus = "open"
	StatusClosed AccountStatus = "closed"
)

// Reconciliation é o registro de um arqueo: saldo contado contra o saldo corrente
type Reconciliation struct {
	ID          string          `json:"id"`
	AccountID   string          `json:"account_id"`
	Expected    decimal.Decimal `json:"expected"`
	Counted     decimal.Decimal `json:"counted"`
	Discrepancy decimal.Decimal `json:"discrepancy"` // Counted - Expected
	Notes       string          `json:"notes,omitempty"`
	Operator    string          `json:"operator,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Account representa uma conta de saldo
type Account struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Type      AccountType     `json:"type"`
	Status    AccountStatus   `json:"status"`
	Balance   decimal.Decimal `json:"balance"`
	Version   int64           `json:"version"`
	OpenedAt  time.Time       `json:"opened_at"`
	ClosedAt  *time.Time      `json:"closed_at,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewAccount cria uma conta já aberta e com saldo zero
func NewAccount(name string, accountType AccountType) (*Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.New("NewAccount", apperr.ErrInvalidInput, "nome não pode ser vazio")
	}
	if _, err := ParseAccountType(string(accountType)); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Account{
		ID:        uuid.New().String(),
		Name:      name,
		Type:      accountType,
		Status:    StatusOpen,
		Balance:   decimal.Zero,
		OpenedAt:  now,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// IsOpen verifica se a conta aceita lançamentos
func (a *Account) IsOpen() bool {
	return a.Status == StatusOpen
}

// Post aplica um lançamento ao saldo da conta. O lançamento deve ter sido
// criado para esta conta e a conta deve estar aberta.
func (a *Account) Post(e *Entry) error {
	const op = "Account.Post"

	if e.AccountID != a.ID {
		return apperr.New(op, apperr.ErrInvalidInput, "lançamento da conta %s aplicado à conta %s", e.AccountID, a.ID)
	}
	if !a.IsOpen() {
		return apperr.New(op, apperr.ErrAccountClosed, "conta %s (%s)", a.Name, a.ID)
	}

	a.Balance = a.Balance.Add(e.Signed())
	a.UpdatedAt = time.Now().UTC()
	return nil
}

// Close fecha a conta registrando o arqueo. Diferenças são reportadas mas não impedem o fechamento.
func (a *Account) Close(counted decimal.Decimal, notes, operator string) (*Reconciliation, error) {
	if !a.IsOpen() {
		return nil, apperr.New("Account.Close", apperr.ErrInvalidTransition, "conta %s já está fechada", a.ID)
	}

	now := time.Now().UTC()
	a.Status = StatusClosed
	a.ClosedAt = &now
	a.UpdatedAt = now

	return &Reconciliation{
		ID:          uuid.New().String(),
		AccountID:   a.ID,
		Expected:    a.Balance,
		Counted:     counted,
		Discrepancy: counted.Sub(a.Balance),
		Notes:       notes,
		Operator:    operator,
		CreatedAt:   now,
	}, nil
}

// Open reabre uma conta fechada
func (a *Account) Open() error {
	if a.IsOpen() {
		return apperr.New("Account.Open", apperr.ErrInvalidTransition, "conta %s já está aberta", a.ID)
	}
	now := time.Now().UTC()
	a.Status = StatusOpen
	a.OpenedAt = now
	a.ClosedAt = nil
	a.UpdatedAt = now
	return nil
}
