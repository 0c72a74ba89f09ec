package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hugohenrick/erp-ledger/internal/domain/apperr"
	"github.com/shopspring/decimal"
)

// Unit representa uma unidade de medida de venda ou de estoque
type Unit string

const (
	UnitPiece Unit = "unit"
	UnitKg    Unit = "kg"
	UnitGram  Unit = "g"
	UnitLiter Unit = "l"
	UnitMeter Unit = "m"
	UnitBox   Unit = "box"
	UnitPack  Unit = "pack"
)

// Product representa um produto do catálogo
type Product struct {
	ID          string          `json:"id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	CostPrice   decimal.Decimal `json:"cost_price"`   // Custo unitário na unidade primária
	SalePrice   decimal.Decimal `json:"sale_price"`   // Preço final com imposto na unidade primária
	ManualPrice bool            `json:"manual_price"` // SalePrice definido manualmente, não recalculado
	Markup      decimal.Decimal `json:"markup"`       // Margem percentual sobre o custo
	IVARate     decimal.Decimal `json:"iva_rate"`     // Alíquota percentual de imposto
	Stock       decimal.Decimal `json:"stock"`        // Estoque na unidade primária

	PrimaryUnit              Unit            `json:"primary_unit"`
	SaleUnit                 Unit            `json:"sale_unit"`
	IsFractionable           bool            `json:"is_fractionable"`
	SaleUnitConversionFactor decimal.Decimal `json:"sale_unit_conversion_factor"` // Unidades primárias por unidade de venda

	Active    bool      `json:"active"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewProduct cria um novo produto validando os campos numéricos
func NewProduct(sku, name, category string, cost, markup, ivaRate decimal.Decimal, primaryUnit Unit) (*Product, error) {
	const op = "NewProduct"

	sku = strings.TrimSpace(sku)
	name = strings.TrimSpace(name)
	if sku == "" {
		return nil, apperr.New(op, apperr.ErrInvalidInput, "sku não pode ser vazio")
	}
	if name == "" {
		return nil, apperr.New(op, apperr.ErrInvalidInput, "nome não pode ser vazio")
	}
	if cost.IsNegative() {
		return nil, apperr.New(op, apperr.ErrInvalidInput, "custo negativo: %s", cost)
	}
	if ivaRate.IsNegative() {
		return nil, apperr.New(op, apperr.ErrInvalidInput, "alíquota negativa: %s", ivaRate)
	}
	if primaryUnit == "" {
		primaryUnit = UnitPiece
	}

	now := time.Now().UTC()
	return &Product{
		ID:                       uuid.New().String(),
		SKU:                      sku,
		Name:                     name,
		Category:                 strings.TrimSpace(category),
		CostPrice:                cost,
		Markup:                   markup,
		IVARate:                  ivaRate,
		Stock:                    decimal.Zero,
		PrimaryUnit:              primaryUnit,
		SaleUnit:                 primaryUnit,
		SaleUnitConversionFactor: decimal.NewFromInt(1),
		Active:                   true,
		CreatedAt:                now,
		UpdatedAt:                now,
	}, nil
}

// SetFractioning configura a venda em uma unidade secundária
func (p *Product) SetFractioning(saleUnit Unit, factor decimal.Decimal) error {
	if !factor.IsPositive() {
		return apperr.New("SetFractioning", apperr.ErrInvalidInput, "fator de conversão deve ser positivo: %s", factor)
	}
	p.IsFractionable = saleUnit != "" && saleUnit != p.PrimaryUnit
	p.SaleUnit = saleUnit
	if !p.IsFractionable {
		p.SaleUnit = p.PrimaryUnit
	}
	p.SaleUnitConversionFactor = factor
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// StockQuantity converte uma quantidade na unidade informada para a unidade primária
func (p *Product) StockQuantity(quantity decimal.Decimal, unit Unit) decimal.Decimal {
	if p.IsFractionable && unit != "" && unit != p.PrimaryUnit && unit == p.SaleUnit {
		return quantity.Mul(p.SaleUnitConversionFactor)
	}
	return quantity
}

// DecreaseStock baixa o estoque sem nunca deixá-lo negativo
func (p *Product) DecreaseStock(quantity decimal.Decimal) error {
	if !quantity.IsPositive() {
		return apperr.New("DecreaseStock", apperr.ErrInvalidInput, "quantidade deve ser positiva: %s", quantity)
	}
	if p.Stock.LessThan(quantity) {
		return apperr.New("DecreaseStock", apperr.ErrInsufficientStock,
			"produto %s: disponível %s, solicitado %s", p.SKU, p.Stock, quantity)
	}
	p.Stock = p.Stock.Sub(quantity)
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// IncreaseStock devolve quantidade ao estoque
func (p *Product) IncreaseStock(quantity decimal.Decimal) error {
	if !quantity.IsPositive() {
		return apperr.New("IncreaseStock", apperr.ErrInvalidInput, "quantidade deve ser positiva: %s", quantity)
	}
	p.Stock = p.Stock.Add(quantity)
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// AdjustStock aplica uma correção manual com sinal
func (p *Product) AdjustStock(delta decimal.Decimal) error {
	if delta.IsZero() {
		return apperr.New("AdjustStock", apperr.ErrInvalidInput, "ajuste nulo")
	}
	if delta.IsNegative() {
		return p.DecreaseStock(delta.Neg())
	}
	return p.IncreaseStock(delta)
}

// Deactivate remove o produto das buscas de venda
func (p *Product) Deactivate() {
	p.Active = false
	p.UpdatedAt = time.Now().UTC()
}
