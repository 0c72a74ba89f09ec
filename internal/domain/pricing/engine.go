// Package pricing deriva o preço unitário de venda a partir de custo, margem,
// imposto, conversão de unidade, lista de preços e desconto do cliente.
package pricing

import (
	"github.com/hugohenrick/erp-ledger/internal/domain/apperr"
	"github.com/hugohenrick/erp-ledger/internal/domain/catalog"
	"github.com/hugohenrick/erp-ledger/internal/domain/counterparty"
	"github.com/shopspring/decimal"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// Quote é o detalhamento de um preço calculado
type Quote struct {
	ProductID        string          `json:"product_id"`
	Unit             catalog.Unit    `json:"unit"`
	ConversionFactor decimal.Decimal `json:"conversion_factor"`
	PriceWithoutTax  decimal.Decimal `json:"price_without_tax"`
	ListPrice        decimal.Decimal `json:"list_price"` // Com imposto, antes do desconto especial
	Discount         decimal.Decimal `json:"discount"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	PriceListID      string          `json:"price_list_id,omitempty"`
}

// Price calcula o preço unitário final de um produto.
//
// list pode ser nil (ou a lista base) e client pode ser nil. unit vazio
// significa a unidade primária. Os valores intermediários mantêm precisão
// total; o truncamento em 2 casas ocorre apenas no final.
func Price(p *catalog.Product, list *catalog.PriceList, client *counterparty.Counterparty, unit catalog.Unit) (*Quote, error) {
	const op = "pricing.Price"

	if p == nil {
		return nil, apperr.New(op, apperr.ErrInvalidInput, "produto não informado")
	}
	if p.CostPrice.IsNegative() {
		return nil, apperr.New(op, apperr.ErrInvalidInput, "custo negativo: %s", p.CostPrice)
	}
	if !p.SaleUnitConversionFactor.IsPositive() {
		return nil, apperr.New(op, apperr.ErrInvalidInput, "fator de conversão deve ser positivo: %s", p.SaleUnitConversionFactor)
	}

	factor, resolvedUnit, err := conversion(p, unit)
	if err != nil {
		return nil, err
	}

	taxMultiplier := one.Add(p.IVARate.Div(hundred))

	// Todo o cálculo ocorre em valores com imposto; multiplicações comutam,
	// então o fator é aplicado uma única vez e o imposto não é composto.
	gross := standardGross(p)
	if list != nil && !list.IsBase {
		switch list.ModifierType {
		case catalog.ModifierMargin:
			gross = p.CostPrice.Mul(one.Add(list.Value.Div(hundred))).Mul(taxMultiplier)
		case catalog.ModifierPercentageOverBase:
			gross = gross.Mul(one.Add(list.Value.Div(hundred)))
		default:
			return nil, apperr.New(op, apperr.ErrInvalidInput, "modificador desconhecido: %q", list.ModifierType)
		}
	}
	gross = gross.Mul(factor)
	listPrice := gross

	discount := decimal.Zero
	if client != nil {
		discount = client.SpecialDiscount
		gross = gross.Mul(one.Sub(discount.Div(hundred)))
	}

	if gross.IsNegative() {
		return nil, apperr.New(op, apperr.ErrInvalidInput, "preço resultante negativo para %s: %s", p.SKU, gross)
	}

	q := &Quote{
		ProductID:        p.ID,
		Unit:             resolvedUnit,
		ConversionFactor: factor,
		PriceWithoutTax:  listPrice.Div(taxMultiplier).Truncate(2),
		ListPrice:        listPrice.Truncate(2),
		Discount:         discount,
		UnitPrice:        gross.Truncate(2),
	}
	if list != nil {
		q.PriceListID = list.ID
	}
	return q, nil
}

// StandardPrice calcula o preço de venda padrão do produto na unidade primária:
// custo × (1 + margem) × (1 + imposto), truncado em 2 casas
func StandardPrice(p *catalog.Product) (decimal.Decimal, error) {
	if p.CostPrice.IsNegative() {
		return decimal.Zero, apperr.New("pricing.StandardPrice", apperr.ErrInvalidInput, "custo negativo: %s", p.CostPrice)
	}
	price := p.CostPrice.
		Mul(one.Add(p.Markup.Div(hundred))).
		Mul(one.Add(p.IVARate.Div(hundred)))
	if price.IsNegative() {
		return decimal.Zero, apperr.New("pricing.StandardPrice", apperr.ErrInvalidInput, "preço resultante negativo: %s", price)
	}
	return price.Truncate(2), nil
}

// Refresh recalcula SalePrice quando o preço não é manual
func Refresh(p *catalog.Product) error {
	if p.ManualPrice {
		return nil
	}
	price, err := StandardPrice(p)
	if err != nil {
		return err
	}
	p.SalePrice = price
	return nil
}

func standardGross(p *catalog.Product) decimal.Decimal {
	if p.ManualPrice {
		return p.SalePrice
	}
	return p.CostPrice.
		Mul(one.Add(p.Markup.Div(hundred))).
		Mul(one.Add(p.IVARate.Div(hundred)))
}

func conversion(p *catalog.Product, unit catalog.Unit) (decimal.Decimal, catalog.Unit, error) {
	if unit == "" || unit == p.PrimaryUnit {
		return one, p.PrimaryUnit, nil
	}
	if !p.IsFractionable || unit != p.SaleUnit {
		return decimal.Zero, "", apperr.New("pricing.Price", apperr.ErrInvalidInput,
			"produto %s não é vendido na unidade %q", p.SKU, unit)
	}
	return p.SaleUnitConversionFactor, p.SaleUnit, nil
}
