package poster

import (
	"context"
	"errors"

	"github.com/hugohenrick/erp-ledger/internal/domain/apperr"
	"github.com/hugohenrick/erp-ledger/internal/domain/catalog"
	"github.com/hugohenrick/erp-ledger/internal/domain/counterparty"
	"github.com/hugohenrick/erp-ledger/internal/domain/pricing"
	"github.com/hugohenrick/erp-ledger/internal/domain/store"
	"github.com/hugohenrick/erp-ledger/internal/infrastructure/events"
	"github.com/shopspring/decimal"
)

// PriceQuery identifica o preço pedido
type PriceQuery struct {
	ProductID   string
	Unit        catalog.Unit
	ClientID    string
	PriceListID string // sobrepõe a lista do cliente
}

// ComputePrice calcula o preço unitário sem efeitos colaterais
func (p *Poster) ComputePrice(ctx context.Context, q PriceQuery) (*pricing.Quote, error) {
	const op = "ComputePrice"

	var quote *pricing.Quote
	err := p.run(ctx, op, func(ctx context.Context, repos store.Repositories) error {
		product, err := repos.Products().FindByID(ctx, q.ProductID)
		if err != nil {
			return err
		}
		var client *counterparty.Counterparty
		if q.ClientID != "" {
			client, err = findClient(ctx, repos, op, q.ClientID)
			if err != nil {
				return err
			}
		}
		quote, err = newPriceResolver(repos).price(ctx, product, client, q.PriceListID, q.Unit)
		return err
	})
	if err != nil {
		return nil, err
	}
	return quote, nil
}

// priceResolver guarda as listas já lidas na unidade de trabalho
type priceResolver struct {
	repos store.Repositories
	lists map[string]*catalog.PriceList
}

func newPriceResolver(repos store.Repositories) *priceResolver {
	return &priceResolver{repos: repos, lists: map[string]*catalog.PriceList{}}
}

func (r *priceResolver) list(ctx context.Context, id string) (*catalog.PriceList, error) {
	if id == "" {
		return nil, nil
	}
	if pl, ok := r.lists[id]; ok {
		return pl, nil
	}
	pl, err := r.repos.PriceLists().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.lists[id] = pl
	return pl, nil
}

// price resolve a lista aplicável (explícita, do cliente ou nenhuma) e calcula o preço
func (r *priceResolver) price(ctx context.Context, product *catalog.Product, client *counterparty.Counterparty, listID string, unit catalog.Unit) (*pricing.Quote, error) {
	if listID == "" && client != nil {
		listID = client.PriceListID
	}
	list, err := r.list(ctx, listID)
	if err != nil {
		return nil, err
	}
	return pricing.Price(product, list, client, unit)
}

func findClient(ctx context.Context, repos store.Repositories, op, id string) (*counterparty.Counterparty, error) {
	c, err := repos.Counterparties().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !c.IsClient() {
		return nil, apperr.New(op, apperr.ErrInvalidInput, "%s não é cliente", id)
	}
	return c, nil
}

// CartItem é uma linha enviada pelo caixa. UnitPrice é apenas informativo:
// o preço é sempre recalculado.
type CartItem struct {
	ProductID string           `json:"product_id"`
	Quantity  decimal.Decimal  `json:"quantity"`
	Unit      catalog.Unit     `json:"unit,omitempty"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
}

func validateCart(op string, items []CartItem) error {
	if len(items) == 0 {
		return apperr.New(op, apperr.ErrInvalidInput, "nenhum item informado")
	}
	for i, it := range items {
		if it.ProductID == "" {
			return apperr.New(op, apperr.ErrInvalidInput, "item %d: produto não informado", i)
		}
		if !it.Quantity.IsPositive() {
			return apperr.New(op, apperr.ErrInvalidInput, "item %d: quantidade deve ser positiva: %s", i, it.Quantity)
		}
	}
	return nil
}

// pricedLine é um item do carrinho com produto carregado e preço resolvido
type pricedLine struct {
	product   *catalog.Product
	quantity  decimal.Decimal
	stockQty  decimal.Decimal
	unit      catalog.Unit
	unitPrice decimal.Decimal
}

// stockBook mantém um único objeto por produto, para que itens repetidos
// baixem o estoque de forma cumulativa
type stockBook struct {
	repos    store.Repositories
	products map[string]*catalog.Product
	order    []string
	moves    []*catalog.StockMovement
}

func newStockBook(repos store.Repositories) *stockBook {
	return &stockBook{repos: repos, products: map[string]*catalog.Product{}}
}

func (b *stockBook) product(ctx context.Context, id string) (*catalog.Product, error) {
	if p, ok := b.products[id]; ok {
		return p, nil
	}
	p, err := b.repos.Products().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	b.products[id] = p
	b.order = append(b.order, id)
	return p, nil
}

// price carrega e precifica todos os itens do carrinho
func (b *stockBook) price(ctx context.Context, op string, resolver *priceResolver, client *counterparty.Counterparty, items []CartItem, onMismatch func(productID string, sent, computed decimal.Decimal)) ([]pricedLine, error) {
	lines := make([]pricedLine, 0, len(items))
	for i, it := range items {
		product, err := b.product(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		if !product.Active {
			return nil, apperr.New(op, apperr.ErrInvalidInput, "item %d: produto %s inativo", i, product.SKU)
		}
		quote, err := resolver.price(ctx, product, client, "", it.Unit)
		if err != nil {
			return nil, err
		}
		if it.UnitPrice != nil && !it.UnitPrice.Equal(quote.UnitPrice) && onMismatch != nil {
			onMismatch(product.ID, *it.UnitPrice, quote.UnitPrice)
		}
		lines = append(lines, pricedLine{
			product:   product,
			quantity:  it.Quantity,
			stockQty:  product.StockQuantity(it.Quantity, quote.Unit),
			unit:      quote.Unit,
			unitPrice: quote.UnitPrice,
		})
	}
	return lines, nil
}

// move aplica uma variação de estoque e registra o movimento
func (b *stockBook) move(ctx context.Context, kind catalog.MovementKind, productID string, delta decimal.Decimal, reason, operator, documentID string) error {
	p, err := b.product(ctx, productID)
	if err != nil {
		return err
	}
	before := p.Stock
	if delta.IsNegative() {
		err = p.DecreaseStock(delta.Neg())
	} else {
		err = p.IncreaseStock(delta)
	}
	if err != nil {
		return err
	}
	b.moves = append(b.moves, catalog.NewStockMovement(kind, p.ID, before, p.Stock, reason, operator, documentID))
	return nil
}

// flush grava os produtos movimentados e os movimentos
func (b *stockBook) flush(ctx context.Context, c *changes) error {
	moved := map[string]bool{}
	for _, m := range b.moves {
		moved[m.ProductID] = true
	}
	for _, id := range b.order {
		if !moved[id] {
			continue
		}
		if err := b.repos.Products().Update(ctx, b.products[id]); err != nil {
			return err
		}
		c.add(events.CollectionProducts, id, events.KindUpdated)
	}
	for _, m := range b.moves {
		if err := b.repos.StockMovements().Create(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, apperr.ErrNotFound)
}
