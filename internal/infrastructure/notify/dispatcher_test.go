package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/hugohenrick/erp-ledger/internal/domain/sale"
	"github.com/hugohenrick/erp-ledger/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu   sync.Mutex
	got  []Export
	fail bool
}

func (s *recordingSink) Send(ctx context.Context, e Export) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.got = append(s.got, e)
	if s.fail {
		return errors.New("indisponível")
	}
	return nil
}

func TestDispatcherDeliversToEverySink(t *testing.T) {
	failing := &recordingSink{fail: true}
	ok := &recordingSink{}
	d := NewDispatcher(logger.NewNop(), 4, failing, ok)

	d.Notify(Export{Kind: ExportSale, Sale: &sale.Sale{ID: "s1"}})
	d.Notify(Export{Kind: ExportSale})
	d.Close()

	assert.Len(t, failing.got, 1)
	require.Len(t, ok.got, 1)
	assert.Equal(t, "s1", ok.got[0].Sale.ID)
}

func TestDispatcherDropsAfterClose(t *testing.T) {
	sink := &recordingSink{}
	d := NewDispatcher(logger.NewNop(), 4, sink)
	d.Notify(Export{Kind: ExportSale, Sale: &sale.Sale{ID: "antes"}})
	d.Close()

	require.NotPanics(t, func() {
		d.Notify(Export{Kind: ExportSale, Sale: &sale.Sale{ID: "depois"}})
	})
	require.NotPanics(t, d.Close)
	require.Len(t, sink.got, 1)
	assert.Equal(t, "antes", sink.got[0].Sale.ID)
}

func TestDispatcherNotifyRacingClose(t *testing.T) {
	d := NewDispatcher(logger.NewNop(), 1)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				d.Notify(Export{Kind: ExportSale, Sale: &sale.Sale{ID: "s"}})
			}
		}()
	}
	d.Close()
	wg.Wait()
}

func TestWebhookSink(t *testing.T) {
	var received Export
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	sink := NewWebhookSink(srv.URL, time.Second)
	require.NoError(t, sink.Send(context.Background(), Export{Kind: ExportInvoice, Sale: &sale.Sale{ID: "inv-1"}}))
	assert.Equal(t, ExportInvoice, received.Kind)
	assert.Equal(t, "inv-1", received.Sale.ID)

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer failing.Close()
	assert.Error(t, NewWebhookSink(failing.URL, time.Second).Send(context.Background(), Export{Kind: ExportSale, Sale: &sale.Sale{ID: "s"}}))
}
