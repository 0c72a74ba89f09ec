package memory

import (
	"context"

	"github.com/hugohenrick/erp-ledger/internal/domain/apperr"
	"github.com/hugohenrick/erp-ledger/internal/domain/counterparty"
)

type counterpartyRepository struct {
	st *state
}

func copyCounterparty(c *counterparty.Counterparty) *counterparty.Counterparty {
	cp := *c
	return &cp
}

func (r *counterpartyRepository) Create(ctx context.Context, c *counterparty.Counterparty) error {
	if _, ok := r.st.counterparties[c.ID]; ok {
		return apperr.New("CounterpartyRepository.Create", apperr.ErrInvalidInput, "registro %s já existe", c.ID)
	}
	c.Version = 1
	r.st.counterparties[c.ID] = copyCounterparty(c)
	return nil
}

func (r *counterpartyRepository) FindByID(ctx context.Context, id string) (*counterparty.Counterparty, error) {
	c, ok := r.st.counterparties[id]
	if !ok {
		return nil, apperr.New("CounterpartyRepository.FindByID", apperr.ErrNotFound, "registro %s", id)
	}
	return copyCounterparty(c), nil
}

func (r *counterpartyRepository) Update(ctx context.Context, c *counterparty.Counterparty) error {
	current, ok := r.st.counterparties[c.ID]
	if !ok {
		return apperr.New("CounterpartyRepository.Update", apperr.ErrNotFound, "registro %s", c.ID)
	}
	if current.Version != c.Version {
		return apperr.New("CounterpartyRepository.Update", apperr.ErrConflict, "registro %s versão %d, atual %d", c.ID, c.Version, current.Version)
	}
	c.Version++
	r.st.counterparties[c.ID] = copyCounterparty(c)
	return nil
}
