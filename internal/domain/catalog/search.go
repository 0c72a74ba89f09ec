package catalog

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"github.com/hugohenrick/erp-ledger/internal/domain/apperr"
	"github.com/shopspring/decimal"
)

// Limites de paginação da busca de produtos
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// SortField define o campo de ordenação da busca
type SortField string

const (
	SortByName      SortField = "name"
	SortBySKU       SortField = "sku"
	SortByStock     SortField = "stock"
	SortBySalePrice SortField = "sale_price"
	SortByCreatedAt SortField = "created_at"
)

// ParseSortField valida o campo de ordenação; vazio significa nome
func ParseSortField(s string) (SortField, error) {
	switch SortField(s) {
	case "":
		return SortByName, nil
	case SortByName, SortBySKU, SortByStock, SortBySalePrice, SortByCreatedAt:
		return SortField(s), nil
	}
	return "", apperr.New("ParseSortField", apperr.ErrInvalidInput, "campo de ordenação desconhecido: %q", s)
}

// SearchQuery descreve uma página da busca paginada por cursor
type SearchQuery struct {
	Text       string    // Trecho do nome ou SKU
	Category   string    // Categoria exata
	OnlyActive bool      // Somente produtos ativos
	SortBy     SortField // Campo de ordenação
	Descending bool      // Ordem decrescente
	PageSize   int       // Itens por página
	Cursor     string    // Cursor opaco retornado pela página anterior
}

// Page é o resultado de uma busca
type Page struct {
	Items      []*Product `json:"items"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// Cursor posiciona a busca após o último item visto
type Cursor struct {
	Value string `json:"v"`
	ID    string `json:"id"`
}

// Normalize aplica valores padrão e limites
func (q *SearchQuery) Normalize() error {
	field, err := ParseSortField(string(q.SortBy))
	if err != nil {
		return err
	}
	q.SortBy = field
	q.Text = strings.TrimSpace(q.Text)
	q.Category = strings.TrimSpace(q.Category)
	if q.PageSize <= 0 {
		q.PageSize = DefaultPageSize
	} else if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	return nil
}

// DecodedCursor retorna o cursor da consulta, ou nil na primeira página
func (q *SearchQuery) DecodedCursor() (*Cursor, error) {
	if q.Cursor == "" {
		return nil, nil
	}
	return DecodeCursor(q.Cursor)
}

// EncodeCursor gera o cursor opaco para o produto informado
func EncodeCursor(p *Product, field SortField) string {
	raw, _ := json.Marshal(Cursor{Value: SortValue(p, field), ID: p.ID})
	return base64.RawURLEncoding.EncodeToString(raw)
}

// DecodeCursor interpreta um cursor opaco
func DecodeCursor(s string) (*Cursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, apperr.Wrap("DecodeCursor", apperr.ErrInvalidInput, err)
	}
	var c Cursor
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, apperr.Wrap("DecodeCursor", apperr.ErrInvalidInput, err)
	}
	if c.ID == "" {
		return nil, apperr.New("DecodeCursor", apperr.ErrInvalidInput, "cursor sem id")
	}
	return &c, nil
}

// SortValue retorna a representação textual do campo de ordenação
func SortValue(p *Product, field SortField) string {
	switch field {
	case SortBySKU:
		return p.SKU
	case SortByStock:
		return p.Stock.String()
	case SortBySalePrice:
		return p.SalePrice.String()
	case SortByCreatedAt:
		return p.CreatedAt.UTC().Format(time.RFC3339Nano)
	default:
		return p.Name
	}
}

// Matches verifica se o produto atende aos filtros da consulta
func (q *SearchQuery) Matches(p *Product) bool {
	if q.OnlyActive && !p.Active {
		return false
	}
	if q.Category != "" && !strings.EqualFold(q.Category, p.Category) {
		return false
	}
	if q.Text != "" {
		text := strings.ToLower(q.Text)
		if !strings.Contains(strings.ToLower(p.Name), text) && !strings.Contains(strings.ToLower(p.SKU), text) {
			return false
		}
	}
	return true
}

// ComparePosition compara dois pares (valor, id) na ordem ascendente do campo.
// Campos numéricos e datas são comparados pelo valor, não pelo texto.
func ComparePosition(field SortField, aValue, aID, bValue, bID string) int {
	if c := compareValues(field, aValue, bValue); c != 0 {
		return c
	}
	return strings.Compare(aID, bID)
}

func compareValues(field SortField, a, b string) int {
	switch field {
	case SortByStock, SortBySalePrice:
		da, errA := decimal.NewFromString(a)
		db, errB := decimal.NewFromString(b)
		if errA == nil && errB == nil {
			return da.Cmp(db)
		}
	case SortByCreatedAt:
		ta, errA := time.Parse(time.RFC3339Nano, a)
		tb, errB := time.Parse(time.RFC3339Nano, b)
		if errA == nil && errB == nil {
			return ta.Compare(tb)
		}
	}
	return strings.Compare(a, b)
}
