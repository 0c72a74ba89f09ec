package poster

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/hugohenrick/erp-ledger/internal/domain/apperr"
	"github.com/hugohenrick/erp-ledger/internal/domain/catalog"
	"github.com/hugohenrick/erp-ledger/internal/domain/counterparty"
	"github.com/hugohenrick/erp-ledger/internal/domain/document"
	"github.com/hugohenrick/erp-ledger/internal/domain/intent"
	"github.com/hugohenrick/erp-ledger/internal/domain/payment"
	"github.com/hugohenrick/erp-ledger/internal/domain/sale"
	"github.com/hugohenrick/erp-ledger/internal/domain/store"
	"github.com/hugohenrick/erp-ledger/internal/infrastructure/events"
	"github.com/hugohenrick/erp-ledger/internal/infrastructure/notify"
	"github.com/shopspring/decimal"
)

// DeliveryNoteCommand despacha mercadoria com um remito
type DeliveryNoteCommand struct {
	ClientID string
	Items    []CartItem
	Operator string
}

// CreateDeliveryNote precifica os itens e baixa o estoque do despacho
func (p *Poster) CreateDeliveryNote(ctx context.Context, cmd DeliveryNoteCommand) (*document.DeliveryNote, error) {
	const op = "CreateDeliveryNote"

	if err := validateCart(op, cmd.Items); err != nil {
		return nil, p.fail(op, err)
	}
	number := p.numbers.Next(prefixNote)

	var note *document.DeliveryNote
	c := newChanges()
	err := p.run(ctx, op, func(ctx context.Context, repos store.Repositories) error {
		c = newChanges()

		var client *counterparty.Counterparty
		if cmd.ClientID != "" {
			var err error
			if client, err = findClient(ctx, repos, op, cmd.ClientID); err != nil {
				return err
			}
		}

		stock := newStockBook(repos)
		lines, err := stock.price(ctx, op, newPriceResolver(repos), client, cmd.Items, p.priceMismatch(op))
		if err != nil {
			return err
		}
		items := make([]document.NoteItem, 0, len(lines))
		for _, l := range lines {
			items = append(items, document.NoteItem{
				ProductID:   l.product.ID,
				Description: l.product.Name,
				Unit:        l.unit,
				Quantity:    l.quantity,
				StockQty:    l.stockQty,
				UnitPrice:   l.unitPrice,
			})
		}
		note, err = document.NewDeliveryNote(number, cmd.ClientID, items)
		if err != nil {
			return err
		}
		for _, it := range note.Items {
			if err := stock.move(ctx, catalog.MovementDispatch, it.ProductID, it.StockQty.Neg(), "remito "+note.Number, cmd.Operator, note.ID); err != nil {
				return err
			}
		}
		if err := stock.flush(ctx, c); err != nil {
			return err
		}
		if err := repos.DeliveryNotes().Create(ctx, note); err != nil {
			return err
		}
		c.add(events.CollectionDeliveryNotes, note.ID, events.KindCreated)
		return nil
	})
	if err != nil {
		return nil, p.fail(op, err, "client_id", cmd.ClientID)
	}

	p.publish(c)
	p.logger.Info("remito criado", "note_id", note.ID, "number", note.Number, "total", note.Total)
	return note, nil
}

// MarkDelivered registra a entrega de um remito pendente
func (p *Poster) MarkDelivered(ctx context.Context, noteID string) (*document.DeliveryNote, error) {
	return p.updateNote(ctx, "MarkDelivered", noteID, func(ctx context.Context, repos store.Repositories, n *document.DeliveryNote, c *changes) error {
		return n.MarkDelivered()
	})
}

// CancelDeliveryNote cancela o remito e devolve o estoque despachado
func (p *Poster) CancelDeliveryNote(ctx context.Context, noteID, reason, operator string) (*document.DeliveryNote, error) {
	return p.updateNote(ctx, "CancelDeliveryNote", noteID, func(ctx context.Context, repos store.Repositories, n *document.DeliveryNote, c *changes) error {
		if err := n.Cancel(); err != nil {
			return err
		}
		stock := newStockBook(repos)
		why := strings.TrimSpace("cancelamento remito " + n.Number + " " + reason)
		for _, it := range n.Items {
			if err := stock.move(ctx, catalog.MovementDispatchCancel, it.ProductID, it.StockQty, why, operator, n.ID); err != nil {
				return err
			}
		}
		return stock.flush(ctx, c)
	})
}

func (p *Poster) updateNote(ctx context.Context, op, noteID string, fn func(ctx context.Context, repos store.Repositories, n *document.DeliveryNote, c *changes) error) (*document.DeliveryNote, error) {
	var note *document.DeliveryNote
	c := newChanges()
	err := p.run(ctx, op, func(ctx context.Context, repos store.Repositories) error {
		c = newChanges()
		var err error
		note, err = repos.DeliveryNotes().FindByID(ctx, noteID)
		if err != nil {
			return err
		}
		if err := fn(ctx, repos, note, c); err != nil {
			return err
		}
		if err := repos.DeliveryNotes().Update(ctx, note); err != nil {
			return err
		}
		c.add(events.CollectionDeliveryNotes, note.ID, events.KindUpdated)
		return nil
	})
	if err != nil {
		return nil, p.fail(op, err, "note_id", noteID)
	}

	p.publish(c)
	p.logger.Info("remito atualizado", "op", op, "note_id", note.ID, "status", string(note.Status))
	return note, nil
}

// GetDeliveryNote busca um remito
func (p *Poster) GetDeliveryNote(ctx context.Context, id string) (*document.DeliveryNote, error) {
	var n *document.DeliveryNote
	err := p.run(ctx, "GetDeliveryNote", func(ctx context.Context, repos store.Repositories) error {
		var err error
		n, err = repos.DeliveryNotes().FindByID(ctx, id)
		return err
	})
	return n, err
}

// InvoiceCommand converte remitos em uma única fatura
type InvoiceCommand struct {
	RequestID string       `json:"request_id,omitempty"`
	NoteIDs   []string     `json:"note_ids"`
	DocType   sale.DocType `json:"doc_type"`
	Operator  string       `json:"operator,omitempty"`
}

type invoicePayload struct {
	InvoiceID string         `json:"invoice_id"`
	Number    string         `json:"number"`
	Command   InvoiceCommand `json:"command"`
}

// ConvertDeliveryNotesToInvoice soma os remitos em uma fatura e marca todos
// como faturados com o mesmo id. Se algum remito não puder ser faturado,
// nenhum é alterado.
func (p *Poster) ConvertDeliveryNotesToInvoice(ctx context.Context, cmd InvoiceCommand) (*sale.Sale, error) {
	const op = "ConvertDeliveryNotesToInvoice"

	if len(cmd.NoteIDs) == 0 {
		return nil, p.fail(op, apperr.New(op, apperr.ErrInvalidInput, "nenhum remito informado"))
	}
	seen := map[string]bool{}
	for _, id := range cmd.NoteIDs {
		if id == "" || seen[id] {
			return nil, p.fail(op, apperr.New(op, apperr.ErrInvalidInput, "remito vazio ou repetido: %q", id))
		}
		seen[id] = true
	}
	if cmd.DocType == "" {
		cmd.DocType = sale.DocInvoiceB
	}
	docType, err := sale.ParseDocType(string(cmd.DocType))
	if err != nil {
		return nil, p.fail(op, err)
	}
	if docType == sale.DocCreditNote {
		return nil, p.fail(op, apperr.New(op, apperr.ErrInvalidInput, "remitos não geram nota de crédito"))
	}
	cmd.DocType = docType

	payload := invoicePayload{
		InvoiceID: uuid.New().String(),
		Number:    p.numbers.Next(prefixInvoice),
		Command:   cmd,
	}
	in, err := p.begin(ctx, op, cmd.RequestID, intent.KindInvoiceDeliveryNote, payload.InvoiceID, payload)
	if err != nil {
		return nil, p.fail(op, err)
	}

	var invoice *sale.Sale
	invoiceID, replayed, c, err := p.execute(ctx, op, in.ID, func(ctx context.Context, repos store.Repositories, in *intent.Intent, c *changes) (string, error) {
		var pl invoicePayload
		if err := in.Decode(&pl); err != nil {
			return "", err
		}
		s, err := p.invoiceNotes(ctx, repos, pl, c)
		if err != nil {
			return "", err
		}
		invoice = s
		return s.ID, nil
	})
	if err != nil {
		return nil, p.fail(op, err, "notes", strings.Join(cmd.NoteIDs, ","))
	}
	if replayed {
		return p.GetSale(ctx, invoiceID)
	}

	p.publish(c)
	p.notifier.Notify(notify.Export{Kind: notify.ExportInvoice, Sale: invoice})
	p.logger.Info("remitos faturados", "invoice_id", invoice.ID, "number", invoice.Number, "notes", len(cmd.NoteIDs), "total", invoice.Total)
	return invoice, nil
}

func (p *Poster) invoiceNotes(ctx context.Context, repos store.Repositories, pl invoicePayload, c *changes) (*sale.Sale, error) {
	const op = "ConvertDeliveryNotesToInvoice"
	cmd := pl.Command

	if existing, err := repos.Sales().FindByID(ctx, pl.InvoiceID); err == nil {
		return existing, nil
	} else if !isNotFound(err) {
		return nil, err
	}

	notes := make([]*document.DeliveryNote, 0, len(cmd.NoteIDs))
	notesTotal := decimal.Zero
	var items []sale.Item
	clientID := ""
	for i, id := range cmd.NoteIDs {
		n, err := repos.DeliveryNotes().FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			clientID = n.ClientID
		} else if n.ClientID != clientID {
			return nil, apperr.New(op, apperr.ErrInvalidInput, "remitos de clientes diferentes: %s", n.Number)
		}
		if err := n.Invoice(pl.InvoiceID); err != nil {
			return nil, err
		}
		for _, it := range n.Items {
			items = append(items, sale.Item{
				ProductID:     it.ProductID,
				Description:   it.Description,
				Unit:          it.Unit,
				Quantity:      it.Quantity,
				StockQuantity: it.StockQty,
				UnitPrice:     it.UnitPrice,
			})
		}
		notesTotal = notesTotal.Add(n.Total)
		notes = append(notes, n)
	}

	s, err := sale.New(pl.InvoiceID, pl.Number, cmd.DocType, sale.OriginDeliveryNotes, clientID, items)
	if err != nil {
		return nil, err
	}
	if !s.Total.Equal(notesTotal) {
		return nil, apperr.New(op, apperr.ErrInvalidInput, "total da fatura %s difere dos remitos %s", s.Total, notesTotal)
	}
	s.Operator = cmd.Operator
	s.DeliveryNotes = append([]string(nil), cmd.NoteIDs...)

	if clientID != "" && s.Total.IsPositive() {
		client, err := findClient(ctx, repos, op, clientID)
		if err != nil {
			return nil, err
		}
		client.Charge(s.Total)
		if err := repos.Counterparties().Update(ctx, client); err != nil {
			return nil, err
		}
		c.add(events.CollectionCounterparty, client.ID, events.KindUpdated)
		s.CreditAmount = s.Total
		s.PaymentLines = []payment.SettledLine{{
			Method:         payment.MethodRunningAccount,
			Amount:         s.Total,
			CommissionRate: decimal.Zero,
			NetAmount:      s.Total,
		}}
	}

	for _, n := range notes {
		if err := repos.DeliveryNotes().Update(ctx, n); err != nil {
			return nil, err
		}
		c.add(events.CollectionDeliveryNotes, n.ID, events.KindUpdated)
	}
	if err := repos.Sales().Create(ctx, s); err != nil {
		return nil, err
	}
	c.add(events.CollectionSales, s.ID, events.KindCreated)
	return s, nil
}
