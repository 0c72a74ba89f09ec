package dto

import (
	"github.com/hugohenrick/erp-ledger/internal/application/poster"
	"github.com/hugohenrick/erp-ledger/internal/domain/catalog"
	"github.com/hugohenrick/erp-ledger/internal/domain/counterparty"
	"github.com/shopspring/decimal"
)

// PriceRequest representa a consulta de preço
type PriceRequest struct {
	ProductID   string       `json:"product_id" binding:"required"`
	Unit        catalog.Unit `json:"unit"`
	ClientID    string       `json:"client_id"`
	PriceListID string       `json:"price_list_id"`
}

// ToQuery converte a requisição na consulta do poster
func (r PriceRequest) ToQuery() poster.PriceQuery {
	return poster.PriceQuery{
		ProductID:   r.ProductID,
		Unit:        r.Unit,
		ClientID:    r.ClientID,
		PriceListID: r.PriceListID,
	}
}

// ProductRequest representa a criação ou alteração de produto
type ProductRequest struct {
	SKU              string           `json:"sku" binding:"required"`
	Name             string           `json:"name" binding:"required"`
	Category         string           `json:"category"`
	CostPrice        decimal.Decimal  `json:"cost_price" binding:"decimal_gte0"`
	Markup           decimal.Decimal  `json:"markup"`
	IVARate          decimal.Decimal  `json:"iva_rate" binding:"decimal_gte0"`
	SalePrice        *decimal.Decimal `json:"sale_price,omitempty" binding:"omitempty,decimal_gte0"`
	PrimaryUnit      catalog.Unit     `json:"primary_unit"`
	SaleUnit         catalog.Unit     `json:"sale_unit"`
	ConversionFactor *decimal.Decimal `json:"conversion_factor,omitempty" binding:"omitempty,decimal_gt0"`
	Active           *bool            `json:"active,omitempty"`
}

// ToInput converte a requisição na entrada do poster
func (r ProductRequest) ToInput() poster.ProductInput {
	return poster.ProductInput{
		SKU:              r.SKU,
		Name:             r.Name,
		Category:         r.Category,
		CostPrice:        r.CostPrice,
		Markup:           r.Markup,
		IVARate:          r.IVARate,
		SalePrice:        r.SalePrice,
		PrimaryUnit:      r.PrimaryUnit,
		SaleUnit:         r.SaleUnit,
		ConversionFactor: r.ConversionFactor,
		Active:           r.Active,
	}
}

// ProductSearchParams representa os parâmetros da busca por cursor
type ProductSearchParams struct {
	Text       string `form:"q"`
	Category   string `form:"category"`
	OnlyActive bool   `form:"only_active"`
	SortBy     string `form:"sort_by"`
	Order      string `form:"order" binding:"omitempty,oneof=asc desc"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1"`
	Cursor     string `form:"cursor"`
}

// ToQuery converte os parâmetros na consulta do catálogo
func (p ProductSearchParams) ToQuery() catalog.SearchQuery {
	return catalog.SearchQuery{
		Text:       p.Text,
		Category:   p.Category,
		OnlyActive: p.OnlyActive,
		SortBy:     catalog.SortField(p.SortBy),
		Descending: p.Order == "desc",
		PageSize:   p.PageSize,
		Cursor:     p.Cursor,
	}
}

// StockAdjustmentRequest representa um ajuste manual de estoque
type StockAdjustmentRequest struct {
	Delta  decimal.Decimal `json:"delta"`
	Reason string          `json:"reason" binding:"required"`
}

// StockAdjustmentResponse devolve o produto e o movimento gerado
type StockAdjustmentResponse struct {
	Product  *catalog.Product       `json:"product"`
	Movement *catalog.StockMovement `json:"movement"`
}

// PriceListRequest representa a criação de uma lista de preços
type PriceListRequest struct {
	Name         string               `json:"name" binding:"required"`
	ModifierType catalog.ModifierType `json:"modifier_type" binding:"required,oneof=margin percentage_over_base"`
	Value        decimal.Decimal      `json:"value"`
}

// CounterpartyRequest representa a criação ou alteração de cliente/fornecedor
type CounterpartyRequest struct {
	Name            string          `json:"name" binding:"required"`
	Document        string          `json:"document"`
	PriceListID     string          `json:"price_list_id"`
	SpecialDiscount decimal.Decimal `json:"special_discount" binding:"decimal_gte0"`
}

// ToInput converte a requisição na entrada do poster
func (r CounterpartyRequest) ToInput(kind counterparty.Kind) poster.CounterpartyInput {
	return poster.CounterpartyInput{
		Kind:            kind,
		Name:            r.Name,
		Document:        r.Document,
		PriceListID:     r.PriceListID,
		SpecialDiscount: r.SpecialDiscount,
	}
}
