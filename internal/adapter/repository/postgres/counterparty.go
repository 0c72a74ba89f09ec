package postgres

import (
	"context"

	"github.com/hugohenrick/erp-ledger/internal/domain/counterparty"
)

const counterpartyColumns = `id, kind, name, document, balance, special_discount, price_list_id, version, created_at, updated_at`

type counterpartyRepository struct {
	db DBTX
}

func (r *counterpartyRepository) Create(ctx context.Context, c *counterparty.Counterparty) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO counterparties (`+counterpartyColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, 1, $8, $9)`,
		c.ID, c.Kind, c.Name, c.Document, c.Balance, c.SpecialDiscount, c.PriceListID, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return dbError("CounterpartyRepository.Create", "erro ao criar cliente/fornecedor", err)
	}
	c.Version = 1
	return nil
}

func (r *counterpartyRepository) FindByID(ctx context.Context, id string) (*counterparty.Counterparty, error) {
	var c counterparty.Counterparty
	err := r.db.QueryRow(ctx, `SELECT `+counterpartyColumns+` FROM counterparties WHERE id = $1`, id).Scan(
		&c.ID, &c.Kind, &c.Name, &c.Document, &c.Balance, &c.SpecialDiscount, &c.PriceListID,
		&c.Version, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, dbError("CounterpartyRepository.FindByID", "erro ao buscar cliente/fornecedor "+id, err)
	}
	return &c, nil
}

func (r *counterpartyRepository) Update(ctx context.Context, c *counterparty.Counterparty) error {
	const op = "CounterpartyRepository.Update"

	tag, err := r.db.Exec(ctx,
		`UPDATE counterparties SET name = $3, document = $4, balance = $5, special_discount = $6,
			price_list_id = $7, updated_at = $8, version = version + 1
		WHERE id = $1 AND version = $2`,
		c.ID, c.Version, c.Name, c.Document, c.Balance, c.SpecialDiscount, c.PriceListID, c.UpdatedAt)
	if err != nil {
		return dbError(op, "erro ao atualizar cliente/fornecedor", err)
	}
	if err := checkVersion(ctx, r.db, op, "counterparties", c.ID, tag); err != nil {
		return err
	}
	c.Version++
	return nil
}
