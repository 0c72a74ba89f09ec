package catalog

import (
	"testing"
	"time"

	"github.com/hugohenrick/erp-ledger/internal/domain/apperr"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestProduct(t *testing.T) *Product {
	t.Helper()
	p, err := NewProduct(" ARZ-1 ", " Arroz ", "Mercearia", d("10"), d("30"), d("21"), "")
	require.NoError(t, err)
	return p
}

func TestNewProduct(t *testing.T) {
	p := newTestProduct(t)
	assert.Equal(t, "ARZ-1", p.SKU)
	assert.Equal(t, "Arroz", p.Name)
	assert.Equal(t, UnitPiece, p.PrimaryUnit)
	assert.True(t, p.Stock.IsZero())
	assert.True(t, p.Active)

	_, err := NewProduct("", "x", "", d("1"), d("0"), d("0"), "")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	_, err = NewProduct("X", "x", "", d("-1"), d("0"), d("0"), "")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestStockNeverNegative(t *testing.T) {
	p := newTestProduct(t)
	require.NoError(t, p.IncreaseStock(d("5")))

	err := p.DecreaseStock(d("6"))
	assert.ErrorIs(t, err, apperr.ErrInsufficientStock)
	assert.True(t, d("5").Equal(p.Stock))

	require.NoError(t, p.DecreaseStock(d("5")))
	assert.True(t, p.Stock.IsZero())

	assert.ErrorIs(t, p.AdjustStock(decimal.Zero), apperr.ErrInvalidInput)
	assert.ErrorIs(t, p.AdjustStock(d("-1")), apperr.ErrInsufficientStock)
	require.NoError(t, p.AdjustStock(d("2.5")))
	assert.True(t, d("2.5").Equal(p.Stock))
}

func TestFractioning(t *testing.T) {
	p := newTestProduct(t)
	p.PrimaryUnit = UnitKg

	require.NoError(t, p.SetFractioning(UnitGram, d("0.001")))
	assert.True(t, p.IsFractionable)
	assert.True(t, d("0.25").Equal(p.StockQuantity(d("250"), UnitGram)))
	assert.True(t, d("3").Equal(p.StockQuantity(d("3"), UnitKg)))

	require.NoError(t, p.SetFractioning(UnitKg, d("1")))
	assert.False(t, p.IsFractionable)

	assert.ErrorIs(t, p.SetFractioning(UnitGram, decimal.Zero), apperr.ErrInvalidInput)
}

func TestCursorRoundTrip(t *testing.T) {
	p := newTestProduct(t)
	p.SalePrice = d("15.73")

	c, err := DecodeCursor(EncodeCursor(p, SortBySalePrice))
	require.NoError(t, err)
	assert.Equal(t, "15.73", c.Value)
	assert.Equal(t, p.ID, c.ID)

	for _, bad := range []string{"%%%", "bm90LWpzb24", "e30"} {
		_, err := DecodeCursor(bad)
		assert.ErrorIs(t, err, apperr.ErrInvalidInput, bad)
	}
}

func TestComparePosition(t *testing.T) {
	tests := []struct {
		name   string
		field  SortField
		aValue string
		aID    string
		bValue string
		bID    string
		want   int
	}{
		{"numérico e não textual", SortBySalePrice, "9", "a", "10", "b", -1},
		{"empate desfeito pelo id", SortByStock, "1.0", "b", "1", "a", 1},
		{"texto byte a byte", SortByName, "Zebra", "a", "arroz", "b", -1},
		{"datas", SortByCreatedAt, "2024-01-02T00:00:00Z", "a", "2024-01-01T23:00:00-03:00", "b", -1},
		{"iguais", SortBySKU, "X", "a", "X", "a", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComparePosition(tt.field, tt.aValue, tt.aID, tt.bValue, tt.bID))
		})
	}
}

func TestSearchQuery(t *testing.T) {
	q := SearchQuery{Text: "  arr ", PageSize: 1000}
	require.NoError(t, q.Normalize())
	assert.Equal(t, SortByName, q.SortBy)
	assert.Equal(t, MaxPageSize, q.PageSize)
	assert.Equal(t, "arr", q.Text)

	p := newTestProduct(t)
	assert.True(t, q.Matches(p))

	q.Category = "mercearia"
	assert.True(t, q.Matches(p))

	q.OnlyActive = true
	p.Deactivate()
	assert.False(t, q.Matches(p))

	bad := SearchQuery{SortBy: "cost"}
	assert.ErrorIs(t, bad.Normalize(), apperr.ErrInvalidInput)
}

func TestSortValueCreatedAt(t *testing.T) {
	p := newTestProduct(t)
	p.CreatedAt = time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("BRT", -3*3600))
	assert.Equal(t, "2024-05-01T15:00:00Z", SortValue(p, SortByCreatedAt))
}

func TestNewPriceList(t *testing.T) {
	list, err := NewPriceList("Atacado", ModifierPercentageOverBase, d("-10"))
	require.NoError(t, err)
	assert.False(t, list.IsBase)

	_, err = NewPriceList("Ruim", ModifierMargin, d("-100"))
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	_, err = NewPriceList("Ruim", "fixo", d("1"))
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}
