// Package poster é o orquestrador contábil: combina preço, liquidação,
// estoque, saldos de contrapartes e lançamentos em uma única unidade atômica.
package poster

import (
	"context"
	"errors"
	"time"

	"github.com/hugohenrick/erp-ledger/internal/domain/apperr"
	"github.com/hugohenrick/erp-ledger/internal/domain/intent"
	"github.com/hugohenrick/erp-ledger/internal/domain/payment"
	"github.com/hugohenrick/erp-ledger/internal/domain/store"
	"github.com/hugohenrick/erp-ledger/internal/infrastructure/events"
	"github.com/hugohenrick/erp-ledger/internal/infrastructure/notify"
	"github.com/hugohenrick/erp-ledger/pkg/logger"
)

// DefaultMaxAttempts é o limite de tentativas sob conflito de concorrência
const DefaultMaxAttempts = 3

// Numberer gera números de documentos
type Numberer interface {
	Next(prefix string) string
}

// Prefixos de numeração
const (
	prefixSale    = "V"
	prefixInvoice = "F"
	prefixNote    = "R"
)

// Config agrupa os parâmetros do orquestrador
type Config struct {
	MaxAttempts int
	RetryDelay  time.Duration
}

// Poster executa os comandos contábeis
type Poster struct {
	uow         store.UnitOfWork
	allocator   *payment.Allocator
	numbers     Numberer
	publisher   events.Publisher
	notifier    notify.Notifier
	logger      logger.Logger
	maxAttempts int
	retryDelay  time.Duration
	now         func() time.Time
}

// Option personaliza o Poster
type Option func(*Poster)

// WithPublisher define o destino dos eventos de mudança
func WithPublisher(pub events.Publisher) Option {
	return func(p *Poster) { p.publisher = pub }
}

// WithNotifier define o destino das exportações
func WithNotifier(n notify.Notifier) Option {
	return func(p *Poster) { p.notifier = n }
}

// WithClock substitui o relógio
func WithClock(now func() time.Time) Option {
	return func(p *Poster) { p.now = now }
}

// New cria um Poster
func New(uow store.UnitOfWork, allocator *payment.Allocator, numbers Numberer, log logger.Logger, cfg Config, opts ...Option) *Poster {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	p := &Poster{
		uow:         uow,
		allocator:   allocator,
		numbers:     numbers,
		publisher:   nopPublisher{},
		notifier:    nopNotifier{},
		logger:      log,
		maxAttempts: cfg.MaxAttempts,
		retryDelay:  cfg.RetryDelay,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type nopPublisher struct{}

func (nopPublisher) Publish(...events.ChangeEvent) {}

type nopNotifier struct{}

func (nopNotifier) Notify(notify.Export) {}

// changes acumula os registros alterados em uma tentativa
type changes struct {
	list []events.ChangeEvent
	seen map[string]bool
}

func newChanges() *changes {
	return &changes{seen: map[string]bool{}}
}

func (c *changes) add(col events.Collection, id string, kind events.Kind) {
	key := string(col) + "/" + id
	if c.seen[key] {
		return
	}
	c.seen[key] = true
	c.list = append(c.list, events.ChangeEvent{Collection: col, ID: id, Kind: kind})
}

func (p *Poster) publish(c *changes) {
	if c == nil || len(c.list) == 0 {
		return
	}
	p.publisher.Publish(c.list...)
}

// run executa fn em uma unidade de trabalho, repetindo em caso de conflito.
// É o único ponto do sistema que trata apperr.ErrConflict.
func (p *Poster) run(ctx context.Context, op string, fn func(ctx context.Context, repos store.Repositories) error) error {
	var err error
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		err = p.uow.Do(ctx, fn)
		if err == nil || !errors.Is(err, apperr.ErrConflict) {
			return err
		}

		p.logger.Warn("conflito de concorrência", "op", op, "attempt", attempt, "error", err)
		if attempt == p.maxAttempts {
			break
		}
		if p.retryDelay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.retryDelay * time.Duration(attempt)):
			}
		}
	}
	return apperr.Wrap(op, apperr.ErrContention, err)
}

// begin grava a intenção antes da unidade principal. Com requestID informado,
// uma intenção existente do mesmo tipo é reaproveitada.
func (p *Poster) begin(ctx context.Context, op, requestID string, kind intent.Kind, resultID string, payload interface{}) (*intent.Intent, error) {
	fresh, err := intent.New(requestID, kind, resultID, payload)
	if err != nil {
		return nil, err
	}

	var out *intent.Intent
	err = p.run(ctx, op, func(ctx context.Context, repos store.Repositories) error {
		out = fresh
		if requestID == "" {
			return repos.Intents().Create(ctx, fresh)
		}

		existing, err := repos.Intents().FindByID(ctx, requestID)
		if errors.Is(err, apperr.ErrNotFound) {
			return repos.Intents().Create(ctx, fresh)
		}
		if err != nil {
			return err
		}
		if existing.Kind != kind {
			return apperr.New(op, apperr.ErrInvalidInput, "requestId %s já usado por %s", requestID, existing.Kind)
		}
		if existing.Status == intent.StatusRolledBack {
			existing.Payload = fresh.Payload
			existing.ResultID = fresh.ResultID
			existing.Status = intent.StatusPending
			existing.Error = ""
			existing.ErrorKind = ""
			existing.UpdatedAt = p.now().UTC()
			if err := repos.Intents().Update(ctx, existing); err != nil {
				return err
			}
		}
		out = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// applyFunc aplica os efeitos de uma intenção e retorna o id do resultado
type applyFunc func(ctx context.Context, repos store.Repositories, in *intent.Intent, c *changes) (string, error)

// execute aplica a intenção e a marca concluída na mesma unidade. Uma intenção
// já concluída não é reaplicada. Em caso de rejeição a intenção é descartada.
func (p *Poster) execute(ctx context.Context, op, intentID string, apply applyFunc) (string, bool, *changes, error) {
	var (
		resultID string
		replayed bool
		applied  *changes
	)

	err := p.run(ctx, op, func(ctx context.Context, repos store.Repositories) error {
		resultID, replayed, applied = "", false, nil

		in, err := repos.Intents().FindByID(ctx, intentID)
		if err != nil {
			return err
		}
		if in.Status == intent.StatusCompleted {
			resultID, replayed = in.ResultID, true
			return nil
		}
		if in.Status == intent.StatusRolledBack {
			kind := apperr.FromCode(in.ErrorKind)
			if kind == nil {
				kind = apperr.ErrInvalidTransition
			}
			return apperr.New(op, kind, "intenção %s descartada: %s", in.ID, in.Error)
		}

		c := newChanges()
		id, err := apply(ctx, repos, in, c)
		if err != nil {
			return err
		}
		in.Attempts++
		in.Complete(id)
		if err := repos.Intents().Update(ctx, in); err != nil {
			return err
		}
		resultID, applied = id, c
		return nil
	})
	if err != nil {
		p.discard(ctx, op, intentID, err)
		return "", false, nil, err
	}
	return resultID, replayed, applied, nil
}

// discard marca a intenção como descartada; se falhar, a recuperação resolve
func (p *Poster) discard(ctx context.Context, op, intentID string, cause error) {
	err := p.uow.Do(context.WithoutCancel(ctx), func(ctx context.Context, repos store.Repositories) error {
		in, err := repos.Intents().FindByID(ctx, intentID)
		if err != nil {
			return err
		}
		if in.Status != intent.StatusPending {
			return nil
		}
		in.Attempts++
		in.RollBack(cause)
		return repos.Intents().Update(ctx, in)
	})
	if err != nil {
		p.logger.Error("falha ao descartar intenção", "op", op, "intent_id", intentID, "error", err)
	}
}

// fail registra a rejeição de um comando e devolve o erro
func (p *Poster) fail(op string, err error, keysAndValues ...interface{}) error {
	kv := append([]interface{}{"op", op, "kind", apperr.Code(err), "error", err}, keysAndValues...)
	p.logger.Error("comando rejeitado", kv...)
	return err
}
