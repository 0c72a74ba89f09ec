// Package notify entrega vendas e faturas finalizadas a destinos externos
// (impressão, exportação) fora da unidade atômica.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/hugohenrick/erp-ledger/internal/domain/sale"
	"github.com/hugohenrick/erp-ledger/pkg/logger"
)

// ExportKind identifica o documento exportado
type ExportKind string

const (
	ExportSale     ExportKind = "sale"
	ExportInvoice  ExportKind = "invoice"
	ExportReversal ExportKind = "reversal"
)

// Export é a carga entregue ao destino
type Export struct {
	Kind ExportKind `json:"kind"`
	Sale *sale.Sale `json:"sale"`
}

// Sink é um destino de exportação
type Sink interface {
	Send(ctx context.Context, e Export) error
}

// Notifier recebe exportações sem bloquear o chamador
type Notifier interface {
	Notify(e Export)
}

// LogSink registra a exportação no log
type LogSink struct {
	logger logger.Logger
}

// NewLogSink cria um destino que apenas registra no log
func NewLogSink(log logger.Logger) *LogSink {
	return &LogSink{logger: log}
}

// Send implementa Sink
func (s *LogSink) Send(ctx context.Context, e Export) error {
	s.logger.Info("documento exportado", "kind", string(e.Kind), "sale_id", e.Sale.ID, "number", e.Sale.Number, "total", e.Sale.Total)
	return nil
}

// WebhookSink envia a exportação como JSON para uma URL
type WebhookSink struct {
	url    string
	client *http.Client
}

// NewWebhookSink cria um destino HTTP
func NewWebhookSink(url string, timeout time.Duration) *WebhookSink {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &WebhookSink{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Send implementa Sink
func (s *WebhookSink) Send(ctx context.Context, e Export) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("erro ao serializar exportação: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("erro ao criar requisição: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("erro ao enviar exportação: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("destino respondeu %d", resp.StatusCode)
	}
	return nil
}

// Dispatcher entrega exportações em segundo plano a todos os destinos.
// Falhas são registradas e nunca voltam ao chamador.
type Dispatcher struct {
	sinks  []Sink
	queue  chan Export
	logger logger.Logger
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

// NewDispatcher cria o dispatcher e inicia o worker
func NewDispatcher(log logger.Logger, buffer int, sinks ...Sink) *Dispatcher {
	if buffer <= 0 {
		buffer = 64
	}
	d := &Dispatcher{
		sinks:  sinks,
		queue:  make(chan Export, buffer),
		logger: log,
	}
	d.wg.Add(1)
	go d.run()
	return d
}

// Notify implementa Notifier; descarta quando a fila está cheia ou o
// dispatcher já foi encerrado
func (d *Dispatcher) Notify(e Export) {
	if e.Sale == nil {
		return
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.logger.Warn("dispatcher encerrado, documento não exportado", "sale_id", e.Sale.ID, "kind", string(e.Kind))
		return
	}
	select {
	case d.queue <- e:
	default:
		d.logger.Warn("fila de exportação cheia, documento descartado", "sale_id", e.Sale.ID)
	}
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for e := range d.queue {
		for _, sink := range d.sinks {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := sink.Send(ctx, e); err != nil {
				d.logger.Error("falha ao exportar documento", "sale_id", e.Sale.ID, "error", err)
			}
			cancel()
		}
	}
}

// Close drena a fila e aguarda o worker
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()
	d.wg.Wait()
}
