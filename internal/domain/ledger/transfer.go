package ledger

import (
	"github.com/hugohenrick/erp-ledger/internal/domain/apperr"
	"github.com/shopspring/decimal"
)

// Transfer monta e aplica o par de lançamentos de uma transferência. Se
// qualquer das contas estiver fechada nenhum saldo é alterado.
func Transfer(from, to *Account, amount decimal.Decimal, transferID, description string) (out *Entry, in *Entry, err error) {
	const op = "ledger.Transfer"

	if from.ID == to.ID {
		return nil, nil, apperr.New(op, apperr.ErrInvalidInput, "origem e destino iguais")
	}
	if !from.IsOpen() {
		return nil, nil, apperr.New(op, apperr.ErrAccountClosed, "origem %s", from.ID)
	}
	if !to.IsOpen() {
		return nil, nil, apperr.New(op, apperr.ErrAccountClosed, "destino %s", to.ID)
	}

	out, err = NewEntry(from.ID, DirectionOut, amount, CategoryTransfer, transferID, description)
	if err != nil {
		return nil, nil, err
	}
	in, err = NewEntry(to.ID, DirectionIn, amount, CategoryTransfer, transferID, description)
	if err != nil {
		return nil, nil, err
	}

	// Ambas as contas foram validadas acima, Post não falha daqui em diante
	if err := from.Post(out); err != nil {
		return nil, nil, err
	}
	if err := to.Post(in); err != nil {
		return nil, nil, err
	}
	return out, in, nil
}
