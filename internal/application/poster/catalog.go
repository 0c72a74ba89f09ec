package poster

import (
	"context"
	"strings"

	"github.com/hugohenrick/erp-ledger/internal/domain/apperr"
	"github.com/hugohenrick/erp-ledger/internal/domain/catalog"
	"github.com/hugohenrick/erp-ledger/internal/domain/counterparty"
	"github.com/hugohenrick/erp-ledger/internal/domain/pricing"
	"github.com/hugohenrick/erp-ledger/internal/domain/store"
	"github.com/hugohenrick/erp-ledger/internal/infrastructure/events"
	"github.com/shopspring/decimal"
)

// ProductInput são os dados editáveis de um produto
type ProductInput struct {
	SKU              string
	Name             string
	Category         string
	CostPrice        decimal.Decimal
	Markup           decimal.Decimal
	IVARate          decimal.Decimal
	SalePrice        *decimal.Decimal // preço manual; nil recalcula a partir do custo
	PrimaryUnit      catalog.Unit
	SaleUnit         catalog.Unit
	ConversionFactor *decimal.Decimal
	Active           *bool
}

func (in ProductInput) apply(p *catalog.Product) error {
	const op = "ProductInput"

	if in.CostPrice.IsNegative() {
		return apperr.New(op, apperr.ErrInvalidInput, "custo negativo: %s", in.CostPrice)
	}
	if in.IVARate.IsNegative() {
		return apperr.New(op, apperr.ErrInvalidInput, "alíquota negativa: %s", in.IVARate)
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		p.Name = name
	}
	p.Category = strings.TrimSpace(in.Category)
	p.CostPrice = in.CostPrice
	p.Markup = in.Markup
	p.IVARate = in.IVARate
	if in.PrimaryUnit != "" && in.PrimaryUnit != p.PrimaryUnit {
		if !p.Stock.IsZero() {
			return apperr.New(op, apperr.ErrInvalidInput,
				"unidade de %s não pode mudar com estoque %s %s; ajuste o estoque para zero antes", p.SKU, p.Stock, p.PrimaryUnit)
		}
		p.PrimaryUnit = in.PrimaryUnit
	}

	factor := p.SaleUnitConversionFactor
	if in.ConversionFactor != nil {
		factor = *in.ConversionFactor
	}
	saleUnit := in.SaleUnit
	if saleUnit == "" {
		saleUnit = p.PrimaryUnit
		factor = decimal.NewFromInt(1)
	}
	if err := p.SetFractioning(saleUnit, factor); err != nil {
		return err
	}

	if in.SalePrice != nil {
		if in.SalePrice.IsNegative() {
			return apperr.New(op, apperr.ErrInvalidInput, "preço negativo: %s", *in.SalePrice)
		}
		p.ManualPrice = true
		p.SalePrice = *in.SalePrice
	} else {
		p.ManualPrice = false
	}
	if in.Active != nil {
		p.Active = *in.Active
	}
	return pricing.Refresh(p)
}

// CreateProduct cadastra um produto com estoque zero
func (p *Poster) CreateProduct(ctx context.Context, in ProductInput) (*catalog.Product, error) {
	const op = "CreateProduct"

	product, err := catalog.NewProduct(in.SKU, in.Name, in.Category, in.CostPrice, in.Markup, in.IVARate, in.PrimaryUnit)
	if err != nil {
		return nil, p.fail(op, err)
	}
	if err := in.apply(product); err != nil {
		return nil, p.fail(op, err)
	}

	err = p.run(ctx, op, func(ctx context.Context, repos store.Repositories) error {
		return repos.Products().Create(ctx, product)
	})
	if err != nil {
		return nil, p.fail(op, err, "sku", in.SKU)
	}

	p.publisher.Publish(events.ChangeEvent{Collection: events.CollectionProducts, ID: product.ID, Kind: events.KindCreated})
	p.logger.Info("produto criado", "product_id", product.ID, "sku", product.SKU, "sale_price", product.SalePrice)
	return product, nil
}

// UpdateProduct altera os dados comerciais do produto; o estoque só muda por ajuste
func (p *Poster) UpdateProduct(ctx context.Context, id string, in ProductInput) (*catalog.Product, error) {
	const op = "UpdateProduct"

	var product *catalog.Product
	err := p.run(ctx, op, func(ctx context.Context, repos store.Repositories) error {
		var err error
		product, err = repos.Products().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := in.apply(product); err != nil {
			return err
		}
		return repos.Products().Update(ctx, product)
	})
	if err != nil {
		return nil, p.fail(op, err, "product_id", id)
	}

	p.publisher.Publish(events.ChangeEvent{Collection: events.CollectionProducts, ID: product.ID, Kind: events.KindUpdated})
	p.logger.Info("produto atualizado", "product_id", product.ID, "sale_price", product.SalePrice)
	return product, nil
}

// GetProduct busca um produto pelo ID ou, se não encontrado, pelo SKU
func (p *Poster) GetProduct(ctx context.Context, idOrSKU string) (*catalog.Product, error) {
	var product *catalog.Product
	err := p.run(ctx, "GetProduct", func(ctx context.Context, repos store.Repositories) error {
		var err error
		product, err = repos.Products().FindByID(ctx, idOrSKU)
		if isNotFound(err) {
			product, err = repos.Products().FindBySKU(ctx, idOrSKU)
		}
		return err
	})
	return product, err
}

// SearchProducts executa a busca paginada por cursor
func (p *Poster) SearchProducts(ctx context.Context, q catalog.SearchQuery) (*catalog.Page, error) {
	var page *catalog.Page
	err := p.run(ctx, "SearchProducts", func(ctx context.Context, repos store.Repositories) error {
		var err error
		page, err = repos.Products().Search(ctx, q)
		return err
	})
	return page, err
}

// StockAdjustment é uma correção manual auditada
type StockAdjustment struct {
	ProductID string
	Delta     decimal.Decimal // em unidade primária, com sinal
	Reason    string
	Operator  string
}

// AdjustStock corrige o estoque e grava o movimento com motivo e operador
func (p *Poster) AdjustStock(ctx context.Context, adj StockAdjustment) (*catalog.Product, *catalog.StockMovement, error) {
	const op = "AdjustStock"

	if strings.TrimSpace(adj.Reason) == "" {
		return nil, nil, p.fail(op, apperr.New(op, apperr.ErrInvalidInput, "motivo é obrigatório"))
	}
	if adj.Delta.IsZero() {
		return nil, nil, p.fail(op, apperr.New(op, apperr.ErrInvalidInput, "ajuste nulo"))
	}

	var (
		product  *catalog.Product
		movement *catalog.StockMovement
	)
	c := newChanges()
	err := p.run(ctx, op, func(ctx context.Context, repos store.Repositories) error {
		c = newChanges()
		stock := newStockBook(repos)
		if err := stock.move(ctx, catalog.MovementAdjustment, adj.ProductID, adj.Delta, strings.TrimSpace(adj.Reason), adj.Operator, ""); err != nil {
			return err
		}
		if err := stock.flush(ctx, c); err != nil {
			return err
		}
		product, movement = stock.products[adj.ProductID], stock.moves[0]
		return nil
	})
	if err != nil {
		return nil, nil, p.fail(op, err, "product_id", adj.ProductID)
	}

	p.publish(c)
	p.logger.Info("estoque ajustado", "product_id", product.ID, "delta", adj.Delta, "stock", product.Stock, "operator", adj.Operator, "reason", movement.Reason)
	return product, movement, nil
}

// ListMovements retorna os movimentos recentes de um produto
func (p *Poster) ListMovements(ctx context.Context, productID string, limit int) ([]*catalog.StockMovement, error) {
	var out []*catalog.StockMovement
	err := p.run(ctx, "ListMovements", func(ctx context.Context, repos store.Repositories) error {
		if _, err := repos.Products().FindByID(ctx, productID); err != nil {
			return err
		}
		var err error
		out, err = repos.StockMovements().ListByProduct(ctx, productID, limit)
		return err
	})
	return out, err
}

// CreatePriceList cria uma lista de preços não base
func (p *Poster) CreatePriceList(ctx context.Context, name string, modifier catalog.ModifierType, value decimal.Decimal) (*catalog.PriceList, error) {
	const op = "CreatePriceList"

	pl, err := catalog.NewPriceList(name, modifier, value)
	if err != nil {
		return nil, p.fail(op, err)
	}
	err = p.run(ctx, op, func(ctx context.Context, repos store.Repositories) error {
		return repos.PriceLists().Create(ctx, pl)
	})
	if err != nil {
		return nil, p.fail(op, err)
	}

	p.publisher.Publish(events.ChangeEvent{Collection: events.CollectionPriceLists, ID: pl.ID, Kind: events.KindCreated})
	p.logger.Info("lista de preços criada", "price_list_id", pl.ID, "modifier", string(pl.ModifierType), "value", pl.Value)
	return pl, nil
}

// ListPriceLists retorna todas as listas
func (p *Poster) ListPriceLists(ctx context.Context) ([]*catalog.PriceList, error) {
	var out []*catalog.PriceList
	err := p.run(ctx, "ListPriceLists", func(ctx context.Context, repos store.Repositories) error {
		var err error
		out, err = repos.PriceLists().List(ctx)
		return err
	})
	return out, err
}

// EnsureBasePriceList cria a lista base quando nenhuma existe
func (p *Poster) EnsureBasePriceList(ctx context.Context) (*catalog.PriceList, error) {
	const op = "EnsureBasePriceList"

	var base *catalog.PriceList
	err := p.run(ctx, op, func(ctx context.Context, repos store.Repositories) error {
		var err error
		base, err = repos.PriceLists().FindBase(ctx)
		if !isNotFound(err) {
			return err
		}
		base, err = catalog.NewPriceList("Lista base", catalog.ModifierMargin, decimal.Zero)
		if err != nil {
			return err
		}
		base.IsBase = true
		return repos.PriceLists().Create(ctx, base)
	})
	if err != nil {
		return nil, p.fail(op, err)
	}
	return base, nil
}

// SetBasePriceList promove a lista a base e rebaixa a anterior na mesma unidade
func (p *Poster) SetBasePriceList(ctx context.Context, id string) (*catalog.PriceList, error) {
	const op = "SetBasePriceList"

	var promoted *catalog.PriceList
	c := newChanges()
	err := p.run(ctx, op, func(ctx context.Context, repos store.Repositories) error {
		c = newChanges()
		var err error
		promoted, err = repos.PriceLists().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if promoted.IsBase {
			return nil
		}

		current, err := repos.PriceLists().FindBase(ctx)
		switch {
		case err == nil:
			current.IsBase = false
			if err := repos.PriceLists().Update(ctx, current); err != nil {
				return err
			}
			c.add(events.CollectionPriceLists, current.ID, events.KindUpdated)
		case !isNotFound(err):
			return err
		}

		promoted.IsBase = true
		if err := repos.PriceLists().Update(ctx, promoted); err != nil {
			return err
		}
		c.add(events.CollectionPriceLists, promoted.ID, events.KindUpdated)
		return nil
	})
	if err != nil {
		return nil, p.fail(op, err, "price_list_id", id)
	}

	p.publish(c)
	p.logger.Info("lista base alterada", "price_list_id", promoted.ID)
	return promoted, nil
}

// CounterpartyInput são os dados editáveis de cliente ou fornecedor
type CounterpartyInput struct {
	Kind            counterparty.Kind
	Name            string
	Document        string
	PriceListID     string
	SpecialDiscount decimal.Decimal
}

// CreateCounterparty cadastra um cliente ou fornecedor com saldo zero
func (p *Poster) CreateCounterparty(ctx context.Context, in CounterpartyInput) (*counterparty.Counterparty, error) {
	const op = "CreateCounterparty"

	cp, err := counterparty.New(in.Kind, in.Name, in.Document)
	if err != nil {
		return nil, p.fail(op, err)
	}
	if err := cp.SetCommercialTerms(in.PriceListID, in.SpecialDiscount); err != nil {
		return nil, p.fail(op, err)
	}

	err = p.run(ctx, op, func(ctx context.Context, repos store.Repositories) error {
		if cp.PriceListID != "" {
			if _, err := repos.PriceLists().FindByID(ctx, cp.PriceListID); err != nil {
				return err
			}
		}
		return repos.Counterparties().Create(ctx, cp)
	})
	if err != nil {
		return nil, p.fail(op, err)
	}

	p.publisher.Publish(events.ChangeEvent{Collection: events.CollectionCounterparty, ID: cp.ID, Kind: events.KindCreated})
	p.logger.Info("contraparte criada", "counterparty_id", cp.ID, "kind", string(cp.Kind))
	return cp, nil
}

// UpdateCounterparty altera nome, documento e condições comerciais. O saldo
// nunca é alterado por aqui.
func (p *Poster) UpdateCounterparty(ctx context.Context, id string, in CounterpartyInput) (*counterparty.Counterparty, error) {
	const op = "UpdateCounterparty"

	var cp *counterparty.Counterparty
	err := p.run(ctx, op, func(ctx context.Context, repos store.Repositories) error {
		var err error
		cp, err = repos.Counterparties().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if in.Kind != "" && in.Kind != cp.Kind {
			return apperr.New(op, apperr.ErrInvalidInput, "tipo não pode ser alterado")
		}
		if name := strings.TrimSpace(in.Name); name != "" {
			cp.Name = name
		}
		cp.Document = strings.TrimSpace(in.Document)
		if err := cp.SetCommercialTerms(in.PriceListID, in.SpecialDiscount); err != nil {
			return err
		}
		if cp.PriceListID != "" {
			if _, err := repos.PriceLists().FindByID(ctx, cp.PriceListID); err != nil {
				return err
			}
		}
		return repos.Counterparties().Update(ctx, cp)
	})
	if err != nil {
		return nil, p.fail(op, err, "counterparty_id", id)
	}

	p.publisher.Publish(events.ChangeEvent{Collection: events.CollectionCounterparty, ID: cp.ID, Kind: events.KindUpdated})
	return cp, nil
}

// GetCounterparty busca um cliente ou fornecedor; kind vazio aceita ambos
func (p *Poster) GetCounterparty(ctx context.Context, id string, kind counterparty.Kind) (*counterparty.Counterparty, error) {
	var cp *counterparty.Counterparty
	err := p.run(ctx, "GetCounterparty", func(ctx context.Context, repos store.Repositories) error {
		var err error
		cp, err = repos.Counterparties().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if kind != "" && cp.Kind != kind {
			return apperr.New("GetCounterparty", apperr.ErrNotFound, "%s %s", kind, id)
		}
		return nil
	})
	return cp, err
}
