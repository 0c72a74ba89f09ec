// Package postgres implementa os repositórios sobre PostgreSQL (pgx). Cada
// unidade de trabalho roda em uma transação serializável; as linhas
// versionadas são gravadas com UPDATE condicional à versão lida.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/hugohenrick/erp-ledger/internal/domain/apperr"
	"github.com/hugohenrick/erp-ledger/internal/domain/catalog"
	"github.com/hugohenrick/erp-ledger/internal/domain/counterparty"
	"github.com/hugohenrick/erp-ledger/internal/domain/document"
	"github.com/hugohenrick/erp-ledger/internal/domain/intent"
	"github.com/hugohenrick/erp-ledger/internal/domain/ledger"
	"github.com/hugohenrick/erp-ledger/internal/domain/sale"
	"github.com/hugohenrick/erp-ledger/internal/domain/store"
	"github.com/hugohenrick/erp-ledger/internal/infrastructure/database"
	"github.com/hugohenrick/erp-ledger/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Códigos SQLSTATE tratados pelo repositório
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeUniqueViolation      = "23505"
	codeCheckViolation       = "23514"
	codeForeignKeyViolation  = "23503"
)

// DBTX é o subconjunto comum a pgxpool.Pool e pgx.Tx
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// rowScanner cobre pgx.Row e pgx.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

// Store é a unidade de trabalho sobre o pool de conexões
type Store struct {
	pool *pgxpool.Pool
	log  logger.Logger
}

// NewStore cria a unidade de trabalho PostgreSQL
func NewStore(pool *pgxpool.Pool, log logger.Logger) *Store {
	return &Store{pool: pool, log: log}
}

// Do implementa store.UnitOfWork com isolamento serializável. Falhas de
// serialização e deadlocks viram apperr.ErrConflict para o poster repetir.
func (s *Store) Do(ctx context.Context, fn func(ctx context.Context, repos store.Repositories) error) error {
	err := database.Transaction(ctx, s.pool, pgx.TxOptions{IsoLevel: pgx.Serializable}, s.log, func(tx pgx.Tx) error {
		return fn(ctx, newRepositories(tx))
	})
	return classify("UnitOfWork.Do", err)
}

type repositories struct {
	db DBTX
}

func newRepositories(db DBTX) *repositories {
	return &repositories{db: db}
}

func (r *repositories) Products() catalog.ProductRepository        { return &productRepository{db: r.db} }
func (r *repositories) PriceLists() catalog.PriceListRepository    { return &priceListRepository{db: r.db} }
func (r *repositories) StockMovements() catalog.MovementRepository { return &movementRepository{db: r.db} }
func (r *repositories) Counterparties() counterparty.Repository    { return &counterpartyRepository{db: r.db} }
func (r *repositories) Accounts() ledger.Repository                { return &accountRepository{db: r.db} }
func (r *repositories) Sales() sale.Repository                     { return &saleRepository{db: r.db} }
func (r *repositories) DeliveryNotes() document.DeliveryNoteRepository {
	return &deliveryNoteRepository{db: r.db}
}
func (r *repositories) Installments() document.InstallmentRepository {
	return &installmentRepository{db: r.db}
}
func (r *repositories) Intents() intent.Repository { return &intentRepository{db: r.db} }

// classify converte erros do driver nas categorias do domínio. Erros já
// categorizados passam intactos.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.Wrap(op, apperr.ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeSerializationFailure, codeDeadlockDetected:
			return apperr.Wrap(op, apperr.ErrConflict, err)
		case codeUniqueViolation, codeCheckViolation, codeForeignKeyViolation:
			return apperr.Wrap(op, apperr.ErrInvalidInput, err)
		}
	}
	return err
}

// dbError acrescenta a mensagem da operação e classifica a causa
func dbError(op, msg string, err error) error {
	return classify(op, fmt.Errorf("%s: %w", msg, err))
}

// checkVersion interpreta o resultado de um UPDATE condicional à versão
func checkVersion(ctx context.Context, db DBTX, op, table, id string, tag pgconn.CommandTag) error {
	if tag.RowsAffected() == 1 {
		return nil
	}
	var exists bool
	err := db.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM "+table+" WHERE id = $1)", id).Scan(&exists)
	if err != nil {
		return dbError(op, "erro ao verificar existência do registro", err)
	}
	if !exists {
		return apperr.New(op, apperr.ErrNotFound, "%s %s", table, id)
	}
	return apperr.New(op, apperr.ErrConflict, "%s %s alterado por outra transação", table, id)
}

var _ store.UnitOfWork = (*Store)(nil)
