// Package payment distribui o total de uma venda entre linhas de pagamento e
// calcula o valor líquido de cada linha após a comissão do meio.
package payment

import (
	"strings"

	"github.com/hugohenrick/erp-ledger/internal/domain/apperr"
	"github.com/hugohenrick/erp-ledger/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// DefaultTolerance é a folga aceita entre a soma das linhas e o total
var DefaultTolerance = decimal.RequireFromString("0.01")

var hundred = decimal.NewFromInt(100)

// Line é uma linha de pagamento informada pelo caixa
type Line struct {
	Method          Method          `json:"method"`
	Amount          decimal.Decimal `json:"amount"`
	TargetAccountID string          `json:"target_account_id,omitempty"`
}

// SettledLine é uma linha liquidada, imutável após a venda
type SettledLine struct {
	Method          Method          `json:"method"`
	Amount          decimal.Decimal `json:"amount"`
	CommissionRate  decimal.Decimal `json:"commission_rate"`
	NetAmount       decimal.Decimal `json:"net_amount"`
	TargetAccountID string          `json:"target_account_id,omitempty"`
}

// AccountLookup resolve a conta de destino de uma linha
type AccountLookup func(id string) (*ledger.Account, error)

// Allocator aplica a tabela de comissões e a tolerância de fechamento
type Allocator struct {
	commissions Commissions
	tolerance   decimal.Decimal
}

// NewAllocator cria um alocador; comissões nil usam a tabela padrão
func NewAllocator(commissions Commissions, tolerance decimal.Decimal) *Allocator {
	if commissions == nil {
		commissions = DefaultCommissions()
	}
	if tolerance.IsNegative() {
		tolerance = DefaultTolerance
	}
	return &Allocator{
		commissions: commissions,
		tolerance:   tolerance,
	}
}

// Tolerance retorna a folga configurada
func (a *Allocator) Tolerance() decimal.Decimal {
	return a.tolerance
}

// Allocate valida as linhas contra o total e calcula o líquido de cada uma.
// Nenhuma linha é retornada se qualquer validação falhar.
func (a *Allocator) Allocate(total decimal.Decimal, lines []Line, lookup AccountLookup) ([]SettledLine, error) {
	const op = "payment.Allocate"

	if total.IsNegative() {
		return nil, apperr.New(op, apperr.ErrInvalidInput, "total negativo: %s", total)
	}

	sum := decimal.Zero
	for i, l := range lines {
		if _, err := ParseMethod(string(l.Method)); err != nil {
			return nil, err
		}
		if !l.Amount.IsPositive() {
			return nil, apperr.New(op, apperr.ErrInvalidInput, "linha %d: valor deve ser positivo: %s", i, l.Amount)
		}
		sum = sum.Add(l.Amount)
	}

	if sum.Sub(total).Abs().GreaterThan(a.tolerance) {
		return nil, apperr.New(op, apperr.ErrIncompleteSettlement, "linhas somam %s, total %s", sum, total)
	}

	settled := make([]SettledLine, 0, len(lines))
	for i, l := range lines {
		target := strings.TrimSpace(l.TargetAccountID)
		if l.Method.PostsToAccount() {
			if target == "" {
				return nil, apperr.New(op, apperr.ErrInvalidInput, "linha %d: conta de destino não informada", i)
			}
			if lookup == nil {
				return nil, apperr.New(op, apperr.ErrInvalidInput, "linha %d: contas indisponíveis", i)
			}
			account, err := lookup(target)
			if err != nil {
				return nil, err
			}
			if !account.IsOpen() {
				return nil, apperr.New(op, apperr.ErrAccountClosed, "linha %d: conta %s", i, account.ID)
			}
		} else {
			target = ""
		}

		rate := a.commissions.Rate(l.Method)
		settled = append(settled, SettledLine{
			Method:          l.Method,
			Amount:          l.Amount,
			CommissionRate:  rate,
			NetAmount:       Net(l.Amount, rate),
			TargetAccountID: target,
		})
	}
	return settled, nil
}

// Net calcula amount × (1 − rate/100) arredondado em 2 casas
func Net(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(decimal.NewFromInt(1).Sub(rate.Div(hundred))).Round(2)
}

// Totals soma bruto e líquido das linhas liquidadas
func Totals(lines []SettledLine) (gross, net decimal.Decimal) {
	gross, net = decimal.Zero, decimal.Zero
	for _, l := range lines {
		gross = gross.Add(l.Amount)
		net = net.Add(l.NetAmount)
	}
	return gross, net
}
