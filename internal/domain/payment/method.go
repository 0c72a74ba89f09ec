package payment

import (
	"github.com/hugohenrick/erp-ledger/internal/domain/apperr"
	"github.com/shopspring/decimal"
)

// Method representa um meio de pagamento
type Method string

const (
	MethodCash           Method = "cash"
	MethodDebitCard      Method = "debit_card"
	MethodCreditCard     Method = "credit_card"
	MethodTransfer       Method = "transfer"
	MethodCheck          Method = "check"
	MethodRunningAccount Method = "running_account" // Cuenta corriente do cliente
	MethodOther          Method = "other"
)

// Methods lista todos os meios de pagamento conhecidos
var Methods = []Method{
	MethodCash,
	MethodDebitCard,
	MethodCreditCard,
	MethodTransfer,
	MethodCheck,
	MethodRunningAccount,
	MethodOther,
}

// ParseMethod valida um meio de pagamento
func ParseMethod(s string) (Method, error) {
	for _, m := range Methods {
		if string(m) == s {
			return m, nil
		}
	}
	return "", apperr.New("ParseMethod", apperr.ErrInvalidInput, "meio de pagamento desconhecido: %q", s)
}

// PostsToAccount indica se o meio credita uma conta de saldo.
// A cuenta corriente gera dívida do cliente em vez de lançamento.
func (m Method) PostsToAccount() bool {
	switch m {
	case MethodRunningAccount:
		return false
	case MethodCash, MethodDebitCard, MethodCreditCard, MethodTransfer, MethodCheck, MethodOther:
		return true
	}
	return true
}

// Commissions mapeia cada meio ao percentual de comissão
type Commissions map[Method]decimal.Decimal

// DefaultCommissions retorna a tabela padrão de comissões
func DefaultCommissions() Commissions {
	return Commissions{
		MethodCash:           decimal.Zero,
		MethodDebitCard:      decimal.RequireFromString("1.5"),
		MethodCreditCard:     decimal.RequireFromString("3.5"),
		MethodTransfer:       decimal.Zero,
		MethodCheck:          decimal.Zero,
		MethodRunningAccount: decimal.Zero,
		MethodOther:          decimal.Zero,
	}
}

// Rate retorna a comissão do meio, zero se não configurada
func (c Commissions) Rate(m Method) decimal.Decimal {
	if rate, ok := c[m]; ok {
		return rate
	}
	return decimal.Zero
}

// Validate garante que todas as comissões estejam entre 0 e 100
func (c Commissions) Validate() error {
	for m, rate := range c {
		if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
			return apperr.New("Commissions.Validate", apperr.ErrInvalidInput, "comissão de %s fora do intervalo: %s", m, rate)
		}
	}
	return nil
}
