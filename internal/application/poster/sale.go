package poster

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hugohenrick/erp-ledger/internal/domain/apperr"
	"github.com/hugohenrick/erp-ledger/internal/domain/catalog"
	"github.com/hugohenrick/erp-ledger/internal/domain/counterparty"
	"github.com/hugohenrick/erp-ledger/internal/domain/intent"
	"github.com/hugohenrick/erp-ledger/internal/domain/ledger"
	"github.com/hugohenrick/erp-ledger/internal/domain/payment"
	"github.com/hugohenrick/erp-ledger/internal/domain/sale"
	"github.com/hugohenrick/erp-ledger/internal/domain/store"
	"github.com/hugohenrick/erp-ledger/internal/infrastructure/events"
	"github.com/hugohenrick/erp-ledger/internal/infrastructure/notify"
	"github.com/shopspring/decimal"
)

// FinalizeSaleCommand fecha uma venda de balcão
type FinalizeSaleCommand struct {
	RequestID string         `json:"request_id,omitempty"`
	ClientID  string         `json:"client_id,omitempty"`
	DocType   sale.DocType   `json:"doc_type"`
	Items     []CartItem     `json:"items"`
	Payments  []payment.Line `json:"payments"`
	Operator  string         `json:"operator,omitempty"`
}

type finalizePayload struct {
	SaleID  string              `json:"sale_id"`
	Number  string              `json:"number"`
	Command FinalizeSaleCommand `json:"command"`
}

// FinalizeSale precifica os itens, liquida o pagamento, baixa o estoque,
// lança os valores líquidos nas contas e ajusta o saldo do cliente, tudo ou nada.
func (p *Poster) FinalizeSale(ctx context.Context, cmd FinalizeSaleCommand) (*sale.Sale, error) {
	const op = "FinalizeSale"

	docType, err := sale.ParseDocType(string(cmd.DocType))
	if err != nil {
		return nil, p.fail(op, err)
	}
	if docType == sale.DocCreditNote {
		return nil, p.fail(op, apperr.New(op, apperr.ErrInvalidInput, "nota de crédito não é emitida no caixa"))
	}
	cmd.DocType = docType
	if err := validateCart(op, cmd.Items); err != nil {
		return nil, p.fail(op, err)
	}

	payload := finalizePayload{
		SaleID:  uuid.New().String(),
		Number:  p.numbers.Next(prefixSale),
		Command: cmd,
	}
	in, err := p.begin(ctx, op, cmd.RequestID, intent.KindFinalizeSale, payload.SaleID, payload)
	if err != nil {
		return nil, p.fail(op, err, "request_id", cmd.RequestID)
	}

	var posted *sale.Sale
	saleID, replayed, c, err := p.execute(ctx, op, in.ID, func(ctx context.Context, repos store.Repositories, in *intent.Intent, c *changes) (string, error) {
		var pl finalizePayload
		if err := in.Decode(&pl); err != nil {
			return "", err
		}
		s, err := p.postSale(ctx, repos, pl, c)
		if err != nil {
			return "", err
		}
		posted = s
		return s.ID, nil
	})
	if err != nil {
		return nil, p.fail(op, err, "intent_id", in.ID)
	}
	if replayed {
		p.logger.Info("requisição repetida, devolvendo venda existente", "request_id", cmd.RequestID, "sale_id", saleID)
		return p.GetSale(ctx, saleID)
	}

	p.publish(c)
	p.notifier.Notify(notify.Export{Kind: notify.ExportSale, Sale: posted})
	p.logger.Info("venda finalizada",
		"sale_id", posted.ID,
		"number", posted.Number,
		"total", posted.Total,
		"credit", posted.CreditAmount,
		"lines", len(posted.PaymentLines))
	return posted, nil
}

func (p *Poster) postSale(ctx context.Context, repos store.Repositories, pl finalizePayload, c *changes) (*sale.Sale, error) {
	const op = "FinalizeSale"
	cmd := pl.Command

	// Reaplicação de uma intenção cujos efeitos já foram gravados
	if existing, err := repos.Sales().FindByID(ctx, pl.SaleID); err == nil {
		return existing, nil
	} else if !isNotFound(err) {
		return nil, err
	}

	var client *counterparty.Counterparty
	if cmd.ClientID != "" {
		var err error
		client, err = findClient(ctx, repos, op, cmd.ClientID)
		if err != nil {
			return nil, err
		}
	}

	stock := newStockBook(repos)
	lines, err := stock.price(ctx, op, newPriceResolver(repos), client, cmd.Items, p.priceMismatch(op))
	if err != nil {
		return nil, err
	}

	items := make([]sale.Item, 0, len(lines))
	for _, l := range lines {
		items = append(items, sale.Item{
			ProductID:     l.product.ID,
			Description:   l.product.Name,
			Unit:          l.unit,
			Quantity:      l.quantity,
			StockQuantity: l.stockQty,
			UnitPrice:     l.unitPrice,
		})
	}
	s, err := sale.New(pl.SaleID, pl.Number, cmd.DocType, sale.OriginCheckout, cmd.ClientID, items)
	if err != nil {
		return nil, err
	}
	s.Operator = cmd.Operator

	payLines, err := p.settlementLines(op, s.Total, cmd.Payments, client)
	if err != nil {
		return nil, err
	}
	books := newLedgerBook(repos)
	settled, err := p.allocator.Allocate(s.Total, payLines, func(id string) (*ledger.Account, error) {
		return books.account(ctx, id)
	})
	if err != nil {
		return nil, err
	}

	for _, it := range s.Items {
		if err := stock.move(ctx, catalog.MovementSale, it.ProductID, it.StockQuantity.Neg(), "venda "+s.Number, cmd.Operator, s.ID); err != nil {
			return nil, err
		}
	}

	credit := decimal.Zero
	for _, l := range settled {
		if !l.Method.PostsToAccount() {
			credit = credit.Add(l.Amount)
			continue
		}
		if !l.NetAmount.IsPositive() {
			continue
		}
		desc := fmt.Sprintf("venda %s (%s)", s.Number, l.Method)
		if _, err := books.post(ctx, l.TargetAccountID, ledger.DirectionIn, l.NetAmount, ledger.CategorySale, s.ID, desc); err != nil {
			return nil, err
		}
	}
	s.PaymentLines = settled
	s.CreditAmount = credit

	if credit.IsPositive() {
		client.Charge(credit)
		if err := repos.Counterparties().Update(ctx, client); err != nil {
			return nil, err
		}
		c.add(events.CollectionCounterparty, client.ID, events.KindUpdated)
	}

	if err := stock.flush(ctx, c); err != nil {
		return nil, err
	}
	if err := books.flush(ctx, c); err != nil {
		return nil, err
	}
	if err := repos.Sales().Create(ctx, s); err != nil {
		return nil, err
	}
	c.add(events.CollectionSales, s.ID, events.KindCreated)
	return s, nil
}

// settlementLines completa as linhas informadas. Com cliente, a diferença
// não paga vira uma linha de conta corrente.
func (p *Poster) settlementLines(op string, total decimal.Decimal, lines []payment.Line, client *counterparty.Counterparty) ([]payment.Line, error) {
	out := make([]payment.Line, 0, len(lines)+1)
	sum := decimal.Zero
	for i, l := range lines {
		if l.Method == payment.MethodRunningAccount && client == nil {
			return nil, apperr.New(op, apperr.ErrInvalidInput, "linha %d: conta corrente exige cliente", i)
		}
		sum = sum.Add(l.Amount)
		out = append(out, l)
	}

	if client != nil {
		shortfall := total.Sub(sum)
		if shortfall.GreaterThan(p.allocator.Tolerance()) {
			out = append(out, payment.Line{Method: payment.MethodRunningAccount, Amount: shortfall})
		}
	}
	return out, nil
}

func (p *Poster) priceMismatch(op string) func(productID string, sent, computed decimal.Decimal) {
	return func(productID string, sent, computed decimal.Decimal) {
		p.logger.Warn("preço enviado difere do calculado", "op", op, "product_id", productID, "sent", sent, "computed", computed)
	}
}

// ReverseSaleCommand estorna uma venda concluída
type ReverseSaleCommand struct {
	RequestID string `json:"request_id,omitempty"`
	SaleID    string `json:"sale_id"`
	Reason    string `json:"reason"`
	Operator  string `json:"operator,omitempty"`
}

// ReverseSale devolve o estoque, lança a saída compensatória de cada
// lançamento da venda e restaura o saldo do cliente
func (p *Poster) ReverseSale(ctx context.Context, cmd ReverseSaleCommand) (*sale.Sale, error) {
	const op = "ReverseSale"

	if cmd.SaleID == "" {
		return nil, p.fail(op, apperr.New(op, apperr.ErrInvalidInput, "venda não informada"))
	}

	in, err := p.begin(ctx, op, cmd.RequestID, intent.KindReverseSale, cmd.SaleID, cmd)
	if err != nil {
		return nil, p.fail(op, err, "sale_id", cmd.SaleID)
	}

	var reversed *sale.Sale
	saleID, replayed, c, err := p.execute(ctx, op, in.ID, func(ctx context.Context, repos store.Repositories, in *intent.Intent, c *changes) (string, error) {
		var stored ReverseSaleCommand
		if err := in.Decode(&stored); err != nil {
			return "", err
		}
		s, err := p.reverseSale(ctx, repos, stored, c)
		if err != nil {
			return "", err
		}
		reversed = s
		return s.ID, nil
	})
	if err != nil {
		return nil, p.fail(op, err, "sale_id", cmd.SaleID)
	}
	if replayed {
		return p.GetSale(ctx, saleID)
	}

	p.publish(c)
	p.notifier.Notify(notify.Export{Kind: notify.ExportReversal, Sale: reversed})
	p.logger.Info("venda estornada", "sale_id", reversed.ID, "number", reversed.Number, "reason", reversed.ReversalReason)
	return reversed, nil
}

func (p *Poster) reverseSale(ctx context.Context, repos store.Repositories, cmd ReverseSaleCommand, c *changes) (*sale.Sale, error) {
	s, err := repos.Sales().FindByID(ctx, cmd.SaleID)
	if err != nil {
		return nil, err
	}
	if err := s.Reverse(cmd.Reason); err != nil {
		return nil, err
	}

	// Faturas de remitos não devolvem estoque: a baixa pertence aos remitos
	stock := newStockBook(repos)
	if s.Origin == sale.OriginCheckout {
		for _, it := range s.Items {
			if err := stock.move(ctx, catalog.MovementReversal, it.ProductID, it.StockQuantity, "estorno "+s.Number, cmd.Operator, s.ID); err != nil {
				return nil, err
			}
		}
	}

	books := newLedgerBook(repos)
	entries, err := repos.Accounts().ListEntriesByDocument(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.Category != ledger.CategorySale {
			continue
		}
		if err := books.postEntry(ctx, e.Reverse(ledger.CategorySaleReversal, "estorno "+s.Number)); err != nil {
			return nil, err
		}
	}

	if s.CreditAmount.IsPositive() && s.ClientID != "" {
		client, err := repos.Counterparties().FindByID(ctx, s.ClientID)
		if err != nil {
			return nil, err
		}
		client.Credit(s.CreditAmount)
		if err := repos.Counterparties().Update(ctx, client); err != nil {
			return nil, err
		}
		c.add(events.CollectionCounterparty, client.ID, events.KindUpdated)
	}

	if err := stock.flush(ctx, c); err != nil {
		return nil, err
	}
	if err := books.flush(ctx, c); err != nil {
		return nil, err
	}
	if err := repos.Sales().Update(ctx, s); err != nil {
		return nil, err
	}
	c.add(events.CollectionSales, s.ID, events.KindUpdated)
	return s, nil
}

// GetSale busca uma venda
func (p *Poster) GetSale(ctx context.Context, id string) (*sale.Sale, error) {
	var s *sale.Sale
	err := p.run(ctx, "GetSale", func(ctx context.Context, repos store.Repositories) error {
		var err error
		s, err = repos.Sales().FindByID(ctx, id)
		return err
	})
	return s, err
}
