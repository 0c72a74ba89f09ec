package postgres

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/hugohenrick/erp-ledger/internal/domain/apperr"
	"github.com/hugohenrick/erp-ledger/internal/domain/catalog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind error
	}{
		{"sem linhas", fmt.Errorf("erro ao buscar: %w", pgx.ErrNoRows), apperr.ErrNotFound},
		{"serialização", &pgconn.PgError{Code: codeSerializationFailure}, apperr.ErrConflict},
		{"deadlock", fmt.Errorf("erro ao fazer commit: %w", &pgconn.PgError{Code: codeDeadlockDetected}), apperr.ErrConflict},
		{"chave duplicada", &pgconn.PgError{Code: codeUniqueViolation}, apperr.ErrInvalidInput},
		{"check", &pgconn.PgError{Code: codeCheckViolation}, apperr.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classify("op", tt.err)
			assert.ErrorIs(t, err, tt.kind)
			assert.ErrorIs(t, err, tt.err)
		})
	}

	t.Run("erro do domínio passa intacto", func(t *testing.T) {
		domainErr := apperr.New("Sale.Reverse", apperr.ErrInvalidTransition, "venda já estornada")
		assert.Same(t, domainErr, classify("UnitOfWork.Do", domainErr))
	})

	t.Run("erro desconhecido não é categorizado", func(t *testing.T) {
		err := classify("op", errors.New("conexão recusada"))
		assert.Nil(t, apperr.KindOf(err))
	})

	assert.NoError(t, classify("op", nil))
}

func TestBuildSearch(t *testing.T) {
	t.Run("primeira página com filtros", func(t *testing.T) {
		q := catalog.SearchQuery{Text: "50%_off", Category: "Bebidas", OnlyActive: true}
		require.NoError(t, q.Normalize())

		sql, args := buildSearch(q, nil)

		assert.Contains(t, sql, "WHERE active AND LOWER(category) = LOWER($1)")
		assert.Contains(t, sql, "(LOWER(name) LIKE $2 OR LOWER(sku) LIKE $2)")
		assert.Contains(t, sql, `ORDER BY name COLLATE "C" ASC, id COLLATE "C" ASC LIMIT $3`)
		assert.Equal(t, []any{"Bebidas", `%50\%\_off%`, catalog.DefaultPageSize + 1}, args)
	})

	t.Run("cursor decrescente por preço", func(t *testing.T) {
		q := catalog.SearchQuery{SortBy: catalog.SortBySalePrice, Descending: true, PageSize: 5}
		require.NoError(t, q.Normalize())

		sql, args := buildSearch(q, &catalog.Cursor{Value: "1573", ID: "p-1"})

		assert.Contains(t, sql, `(sale_price, id COLLATE "C") < ($1::numeric, $2::text COLLATE "C")`)
		assert.Contains(t, sql, `ORDER BY sale_price DESC, id COLLATE "C" DESC LIMIT $3`)
		assert.Equal(t, []any{"1573", "p-1", 6}, args)
		assert.False(t, strings.Contains(sql, "active AND"))
	})

	t.Run("cursor por data", func(t *testing.T) {
		q := catalog.SearchQuery{SortBy: catalog.SortByCreatedAt}
		require.NoError(t, q.Normalize())

		sql, _ := buildSearch(q, &catalog.Cursor{Value: "2024-01-01T00:00:00Z", ID: "p-1"})
		assert.Contains(t, sql, `(created_at, id COLLATE "C") > ($1::timestamptz, $2::text COLLATE "C")`)
	})
}
