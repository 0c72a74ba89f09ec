package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/hugohenrick/erp-ledger/internal/domain/apperr"
	"github.com/hugohenrick/erp-ledger/internal/domain/catalog"
)

type productRepository struct {
	st *state
}

func copyProduct(p *catalog.Product) *catalog.Product {
	cp := *p
	return &cp
}

func (r *productRepository) Create(ctx context.Context, p *catalog.Product) error {
	if _, ok := r.st.products[p.ID]; ok {
		return apperr.New("ProductRepository.Create", apperr.ErrInvalidInput, "produto %s já existe", p.ID)
	}
	for _, existing := range r.st.products {
		if strings.EqualFold(existing.SKU, p.SKU) {
			return apperr.New("ProductRepository.Create", apperr.ErrInvalidInput, "sku %s já cadastrado", p.SKU)
		}
	}
	p.Version = 1
	r.st.products[p.ID] = copyProduct(p)
	return nil
}

func (r *productRepository) FindByID(ctx context.Context, id string) (*catalog.Product, error) {
	p, ok := r.st.products[id]
	if !ok {
		return nil, apperr.New("ProductRepository.FindByID", apperr.ErrNotFound, "produto %s", id)
	}
	return copyProduct(p), nil
}

func (r *productRepository) FindBySKU(ctx context.Context, sku string) (*catalog.Product, error) {
	for _, p := range r.st.products {
		if strings.EqualFold(p.SKU, sku) {
			return copyProduct(p), nil
		}
	}
	return nil, apperr.New("ProductRepository.FindBySKU", apperr.ErrNotFound, "sku %s", sku)
}

func (r *productRepository) Update(ctx context.Context, p *catalog.Product) error {
	current, ok := r.st.products[p.ID]
	if !ok {
		return apperr.New("ProductRepository.Update", apperr.ErrNotFound, "produto %s", p.ID)
	}
	if current.Version != p.Version {
		return apperr.New("ProductRepository.Update", apperr.ErrConflict, "produto %s versão %d, atual %d", p.ID, p.Version, current.Version)
	}
	p.Version++
	r.st.products[p.ID] = copyProduct(p)
	return nil
}

func (r *productRepository) Search(ctx context.Context, q catalog.SearchQuery) (*catalog.Page, error) {
	if err := q.Normalize(); err != nil {
		return nil, err
	}
	cursor, err := q.DecodedCursor()
	if err != nil {
		return nil, err
	}

	// Ordena ascendente e inverte a comparação quando a busca é decrescente
	cmp := func(aValue, aID, bValue, bID string) int {
		c := catalog.ComparePosition(q.SortBy, aValue, aID, bValue, bID)
		if q.Descending {
			return -c
		}
		return c
	}

	matched := make([]*catalog.Product, 0)
	for _, p := range r.st.products {
		if !q.Matches(p) {
			continue
		}
		if cursor != nil && cmp(catalog.SortValue(p, q.SortBy), p.ID, cursor.Value, cursor.ID) <= 0 {
			continue
		}
		matched = append(matched, p)
	}

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		return cmp(catalog.SortValue(a, q.SortBy), a.ID, catalog.SortValue(b, q.SortBy), b.ID) < 0
	})

	page := &catalog.Page{Items: make([]*catalog.Product, 0, q.PageSize)}
	for i, p := range matched {
		if i == q.PageSize {
			page.NextCursor = catalog.EncodeCursor(page.Items[len(page.Items)-1], q.SortBy)
			break
		}
		page.Items = append(page.Items, copyProduct(p))
	}
	return page, nil
}

type priceListRepository struct {
	st *state
}

func copyPriceList(pl *catalog.PriceList) *catalog.PriceList {
	cp := *pl
	return &cp
}

func (r *priceListRepository) Create(ctx context.Context, pl *catalog.PriceList) error {
	if _, ok := r.st.priceLists[pl.ID]; ok {
		return apperr.New("PriceListRepository.Create", apperr.ErrInvalidInput, "lista %s já existe", pl.ID)
	}
	pl.Version = 1
	r.st.priceLists[pl.ID] = copyPriceList(pl)
	return nil
}

func (r *priceListRepository) FindByID(ctx context.Context, id string) (*catalog.PriceList, error) {
	pl, ok := r.st.priceLists[id]
	if !ok {
		return nil, apperr.New("PriceListRepository.FindByID", apperr.ErrNotFound, "lista %s", id)
	}
	return copyPriceList(pl), nil
}

func (r *priceListRepository) FindBase(ctx context.Context) (*catalog.PriceList, error) {
	for _, pl := range r.st.priceLists {
		if pl.IsBase {
			return copyPriceList(pl), nil
		}
	}
	return nil, apperr.New("PriceListRepository.FindBase", apperr.ErrNotFound, "nenhuma lista base")
}

func (r *priceListRepository) List(ctx context.Context) ([]*catalog.PriceList, error) {
	out := make([]*catalog.PriceList, 0, len(r.st.priceLists))
	for _, pl := range r.st.priceLists {
		out = append(out, copyPriceList(pl))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *priceListRepository) Update(ctx context.Context, pl *catalog.PriceList) error {
	current, ok := r.st.priceLists[pl.ID]
	if !ok {
		return apperr.New("PriceListRepository.Update", apperr.ErrNotFound, "lista %s", pl.ID)
	}
	if current.Version != pl.Version {
		return apperr.New("PriceListRepository.Update", apperr.ErrConflict, "lista %s versão %d, atual %d", pl.ID, pl.Version, current.Version)
	}
	pl.Version++
	r.st.priceLists[pl.ID] = copyPriceList(pl)
	return nil
}

type movementRepository struct {
	st *state
}

func (r *movementRepository) Create(ctx context.Context, m *catalog.StockMovement) error {
	cp := *m
	r.st.movements = append(r.st.movements, &cp)
	return nil
}

func (r *movementRepository) ListByProduct(ctx context.Context, productID string, limit int) ([]*catalog.StockMovement, error) {
	out := make([]*catalog.StockMovement, 0)
	for i := len(r.st.movements) - 1; i >= 0; i-- {
		m := r.st.movements[i]
		if m.ProductID != productID {
			continue
		}
		cp := *m
		out = append(out, &cp)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
