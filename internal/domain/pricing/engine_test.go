package pricing

import (
	"testing"

	"github.com/hugohenrick/erp-ledger/internal/domain/apperr"
	"github.com/hugohenrick/erp-ledger/internal/domain/catalog"
	"github.com/hugohenrick/erp-ledger/internal/domain/counterparty"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newProduct(t *testing.T, cost, markup, iva string) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct("SKU-1", "Yerba 1kg", "almacen", d(cost), d(markup), d(iva), catalog.UnitPiece)
	require.NoError(t, err)
	return p
}

func TestPriceBasePipeline(t *testing.T) {
	p := newProduct(t, "1000", "30", "21")

	q, err := Price(p, nil, nil, "")
	require.NoError(t, err)

	assert.True(t, q.UnitPrice.Equal(d("1573")), "got %s", q.UnitPrice)
	assert.True(t, q.PriceWithoutTax.Equal(d("1300")), "got %s", q.PriceWithoutTax)
}

func TestPriceUnitConversion(t *testing.T) {
	p := newProduct(t, "100", "0", "21")
	require.NoError(t, p.SetFractioning(catalog.UnitBox, d("12")))

	q, err := Price(p, nil, nil, catalog.UnitBox)
	require.NoError(t, err)
	assert.True(t, q.PriceWithoutTax.Equal(d("1200")), "got %s", q.PriceWithoutTax)
	assert.True(t, q.UnitPrice.Equal(d("1452")), "got %s", q.UnitPrice)

	primary, err := Price(p, nil, nil, catalog.UnitPiece)
	require.NoError(t, err)
	assert.True(t, primary.UnitPrice.Equal(d("121")), "got %s", primary.UnitPrice)

	_, err = Price(p, nil, nil, catalog.UnitKg)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestPriceListOverrideAndDiscount(t *testing.T) {
	p := newProduct(t, "1000", "30", "0")
	list, err := catalog.NewPriceList("Mayorista", catalog.ModifierMargin, d("50"))
	require.NoError(t, err)

	client, err := counterparty.New(counterparty.KindClient, "Cliente", "20-1")
	require.NoError(t, err)

	q, err := Price(p, list, client, "")
	require.NoError(t, err)
	assert.True(t, q.UnitPrice.Equal(d("1500")), "got %s", q.UnitPrice)

	require.NoError(t, client.SetCommercialTerms(list.ID, d("10")))
	q, err = Price(p, list, client, "")
	require.NoError(t, err)
	assert.True(t, q.ListPrice.Equal(d("1500")), "got %s", q.ListPrice)
	assert.True(t, q.UnitPrice.Equal(d("1350")), "got %s", q.UnitPrice)
	assert.Equal(t, list.ID, q.PriceListID)
}

func TestPricePercentageOverBase(t *testing.T) {
	p := newProduct(t, "1000", "30", "21")
	list, err := catalog.NewPriceList("Minorista +10", catalog.ModifierPercentageOverBase, d("10"))
	require.NoError(t, err)

	q, err := Price(p, list, nil, "")
	require.NoError(t, err)
	// 1573 × 1.10
	assert.True(t, q.UnitPrice.Equal(d("1730.3")), "got %s", q.UnitPrice)

	list.IsBase = true
	q, err = Price(p, list, nil, "")
	require.NoError(t, err)
	assert.True(t, q.UnitPrice.Equal(d("1573")), "base list must not modify: got %s", q.UnitPrice)
}

func TestPriceTruncatesOnlyAtTheEnd(t *testing.T) {
	p := newProduct(t, "10.555", "33.333", "10.5")

	q, err := Price(p, nil, nil, "")
	require.NoError(t, err)

	full := d("10.555").Mul(d("1.33333")).Mul(d("1.105"))
	assert.True(t, q.UnitPrice.Equal(full.Truncate(2)), "got %s want %s", q.UnitPrice, full.Truncate(2))
}

func TestPriceManualOverride(t *testing.T) {
	p := newProduct(t, "1000", "30", "21")
	p.ManualPrice = true
	p.SalePrice = d("1999.99")
	require.NoError(t, p.SetFractioning(catalog.UnitPack, d("6")))

	q, err := Price(p, nil, nil, catalog.UnitPack)
	require.NoError(t, err)
	assert.True(t, q.UnitPrice.Equal(d("11999.94")), "got %s", q.UnitPrice)
}

func TestPriceInvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *catalog.Product)
		list   *catalog.PriceList
	}{
		{
			name:   "custo negativo",
			mutate: func(p *catalog.Product) { p.CostPrice = d("-1") },
		},
		{
			name:   "fator zero",
			mutate: func(p *catalog.Product) { p.SaleUnitConversionFactor = decimal.Zero },
		},
		{
			name:   "resultado negativo",
			mutate: func(p *catalog.Product) {},
			list:   &catalog.PriceList{ID: "neg", ModifierType: catalog.ModifierPercentageOverBase, Value: d("-150")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newProduct(t, "100", "10", "21")
			tt.mutate(p)
			_, err := Price(p, tt.list, nil, "")
			assert.ErrorIs(t, err, apperr.ErrInvalidInput)
		})
	}
}

func TestRefresh(t *testing.T) {
	p := newProduct(t, "1000", "30", "21")
	require.NoError(t, Refresh(p))
	assert.True(t, p.SalePrice.Equal(d("1573")))

	p.ManualPrice = true
	p.SalePrice = d("1")
	require.NoError(t, Refresh(p))
	assert.True(t, p.SalePrice.Equal(d("1")))
}
