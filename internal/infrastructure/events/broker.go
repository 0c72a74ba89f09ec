// Package events distribui notificações de mudança após cada commit.
package events

import (
	"sync"
	"time"

	"github.com/hugohenrick/erp-ledger/pkg/logger"
)

// Collection identifica o conjunto de registros alterado
type Collection string

const (
	CollectionProducts      Collection = "products"
	CollectionPriceLists    Collection = "price_lists"
	CollectionCounterparty  Collection = "counterparties"
	CollectionAccounts      Collection = "accounts"
	CollectionSales         Collection = "sales"
	CollectionDeliveryNotes Collection = "delivery_notes"
	CollectionInstallments  Collection = "installment_plans"
)

// Kind indica o tipo de mudança
type Kind string

const (
	KindCreated Kind = "created"
	KindUpdated Kind = "updated"
)

// ChangeEvent descreve um registro alterado por um comando confirmado
type ChangeEvent struct {
	Collection Collection `json:"collection"`
	ID         string     `json:"id"`
	Kind       Kind       `json:"kind"`
	At         time.Time  `json:"at"`
}

// Publisher recebe os eventos de um commit
type Publisher interface {
	Publish(events ...ChangeEvent)
}

// Broker entrega eventos a todos os assinantes sem bloquear o publicador.
// Um assinante lento perde eventos em vez de segurar o commit.
type Broker struct {
	mu     sync.RWMutex
	subs   map[int]chan ChangeEvent
	nextID int
	closed bool
	logger logger.Logger
}

// NewBroker cria um broker vazio
func NewBroker(log logger.Logger) *Broker {
	return &Broker{
		subs:   make(map[int]chan ChangeEvent),
		logger: log,
	}
}

// Subscribe registra um assinante; cancel encerra a assinatura e fecha o canal
func (b *Broker) Subscribe(buffer int) (<-chan ChangeEvent, func()) {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan ChangeEvent, buffer)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Close encerra todas as assinaturas; os canais são fechados e novas
// assinaturas nascem fechadas
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}

// Publish implementa Publisher
func (b *Broker) Publish(events ...ChangeEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ev := range events {
		if ev.At.IsZero() {
			ev.At = time.Now().UTC()
		}
		for id, ch := range b.subs {
			select {
			case ch <- ev:
			default:
				b.logger.Warn("assinante lento, evento descartado", "subscriber", id, "collection", string(ev.Collection), "id", ev.ID)
			}
		}
	}
}

// Subscribers retorna o número de assinantes ativos
func (b *Broker) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
