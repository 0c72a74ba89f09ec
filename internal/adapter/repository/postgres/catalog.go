package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/hugohenrick/erp-ledger/internal/domain/catalog"
)

const productColumns = `id, sku, name, category, cost_price, sale_price, manual_price, markup, iva_rate, stock,
	primary_unit, sale_unit, is_fractionable, sale_unit_conversion_factor, active, version, created_at, updated_at`

type productRepository struct {
	db DBTX
}

func scanProduct(row rowScanner) (*catalog.Product, error) {
	var p catalog.Product
	err := row.Scan(
		&p.ID, &p.SKU, &p.Name, &p.Category, &p.CostPrice, &p.SalePrice, &p.ManualPrice, &p.Markup,
		&p.IVARate, &p.Stock, &p.PrimaryUnit, &p.SaleUnit, &p.IsFractionable, &p.SaleUnitConversionFactor,
		&p.Active, &p.Version, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) Create(ctx context.Context, p *catalog.Product) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO products (`+productColumns+`) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, 1, $16, $17
		)`,
		p.ID, p.SKU, p.Name, p.Category, p.CostPrice, p.SalePrice, p.ManualPrice, p.Markup,
		p.IVARate, p.Stock, p.PrimaryUnit, p.SaleUnit, p.IsFractionable, p.SaleUnitConversionFactor,
		p.Active, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return dbError("ProductRepository.Create", "erro ao criar produto", err)
	}
	p.Version = 1
	return nil
}

func (r *productRepository) FindByID(ctx context.Context, id string) (*catalog.Product, error) {
	p, err := scanProduct(r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		return nil, dbError("ProductRepository.FindByID", "erro ao buscar produto "+id, err)
	}
	return p, nil
}

func (r *productRepository) FindBySKU(ctx context.Context, sku string) (*catalog.Product, error) {
	p, err := scanProduct(r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE LOWER(sku) = LOWER($1)`, sku))
	if err != nil {
		return nil, dbError("ProductRepository.FindBySKU", "erro ao buscar sku "+sku, err)
	}
	return p, nil
}

func (r *productRepository) Update(ctx context.Context, p *catalog.Product) error {
	const op = "ProductRepository.Update"

	tag, err := r.db.Exec(ctx,
		`UPDATE products SET
			sku = $3, name = $4, category = $5, cost_price = $6, sale_price = $7, manual_price = $8,
			markup = $9, iva_rate = $10, stock = $11, primary_unit = $12, sale_unit = $13,
			is_fractionable = $14, sale_unit_conversion_factor = $15, active = $16, updated_at = $17,
			version = version + 1
		WHERE id = $1 AND version = $2`,
		p.ID, p.Version, p.SKU, p.Name, p.Category, p.CostPrice, p.SalePrice, p.ManualPrice,
		p.Markup, p.IVARate, p.Stock, p.PrimaryUnit, p.SaleUnit, p.IsFractionable,
		p.SaleUnitConversionFactor, p.Active, p.UpdatedAt)
	if err != nil {
		return dbError(op, "erro ao atualizar produto", err)
	}
	if err := checkVersion(ctx, r.db, op, "products", p.ID, tag); err != nil {
		return err
	}
	p.Version++
	return nil
}

// sortColumns mapeia o campo de ordenação para a expressão SQL e o tipo do cursor.
// Colunas de texto usam a collation "C" para ordenar byte a byte.
var sortColumns = map[catalog.SortField]struct {
	expr string
	cast string
}{
	catalog.SortByName:      {expr: `name COLLATE "C"`, cast: `::text COLLATE "C"`},
	catalog.SortBySKU:       {expr: `sku COLLATE "C"`, cast: `::text COLLATE "C"`},
	catalog.SortByStock:     {expr: `stock`, cast: `::numeric`},
	catalog.SortBySalePrice: {expr: `sale_price`, cast: `::numeric`},
	catalog.SortByCreatedAt: {expr: `created_at`, cast: `::timestamptz`},
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// buildSearch monta a consulta por keyset. Busca PageSize+1 linhas para
// saber se existe próxima página.
func buildSearch(q catalog.SearchQuery, cursor *catalog.Cursor) (string, []any) {
	col := sortColumns[q.SortBy]
	if col.expr == "" {
		col = sortColumns[catalog.SortByName]
	}

	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q.OnlyActive {
		where = append(where, "active")
	}
	if q.Category != "" {
		where = append(where, "LOWER(category) = LOWER("+arg(q.Category)+")")
	}
	if q.Text != "" {
		pattern := arg("%" + likeEscaper.Replace(strings.ToLower(q.Text)) + "%")
		where = append(where, "(LOWER(name) LIKE "+pattern+" OR LOWER(sku) LIKE "+pattern+")")
	}

	cmp, dir := ">", "ASC"
	if q.Descending {
		cmp, dir = "<", "DESC"
	}
	if cursor != nil {
		value := arg(cursor.Value) + col.cast
		id := arg(cursor.ID) + `::text COLLATE "C"`
		where = append(where, fmt.Sprintf(`(%s, id COLLATE "C") %s (%s, %s)`, col.expr, cmp, value, id))
	}

	var sb strings.Builder
	sb.WriteString("SELECT " + productColumns + " FROM products")
	if len(where) > 0 {
		sb.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	fmt.Fprintf(&sb, ` ORDER BY %s %s, id COLLATE "C" %s LIMIT %s`, col.expr, dir, dir, arg(q.PageSize+1))
	return sb.String(), args
}

func (r *productRepository) Search(ctx context.Context, q catalog.SearchQuery) (*catalog.Page, error) {
	const op = "ProductRepository.Search"

	if err := q.Normalize(); err != nil {
		return nil, err
	}
	cursor, err := q.DecodedCursor()
	if err != nil {
		return nil, err
	}

	sql, args := buildSearch(q, cursor)
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, dbError(op, "erro ao buscar produtos", err)
	}
	defer rows.Close()

	page := &catalog.Page{Items: make([]*catalog.Product, 0, q.PageSize)}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, dbError(op, "erro ao ler produto", err)
		}
		if len(page.Items) == q.PageSize {
			page.NextCursor = catalog.EncodeCursor(page.Items[len(page.Items)-1], q.SortBy)
			break
		}
		page.Items = append(page.Items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(op, "erro ao iterar produtos", err)
	}
	return page, nil
}

const priceListColumns = `id, name, modifier_type, value, is_base, version, created_at, updated_at`

type priceListRepository struct {
	db DBTX
}

func scanPriceList(row rowScanner) (*catalog.PriceList, error) {
	var pl catalog.PriceList
	if err := row.Scan(&pl.ID, &pl.Name, &pl.ModifierType, &pl.Value, &pl.IsBase, &pl.Version, &pl.CreatedAt, &pl.UpdatedAt); err != nil {
		return nil, err
	}
	return &pl, nil
}

func (r *priceListRepository) Create(ctx context.Context, pl *catalog.PriceList) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO price_lists (`+priceListColumns+`) VALUES ($1, $2, $3, $4, $5, 1, $6, $7)`,
		pl.ID, pl.Name, pl.ModifierType, pl.Value, pl.IsBase, pl.CreatedAt, pl.UpdatedAt)
	if err != nil {
		return dbError("PriceListRepository.Create", "erro ao criar lista de preços", err)
	}
	pl.Version = 1
	return nil
}

func (r *priceListRepository) FindByID(ctx context.Context, id string) (*catalog.PriceList, error) {
	pl, err := scanPriceList(r.db.QueryRow(ctx, `SELECT `+priceListColumns+` FROM price_lists WHERE id = $1`, id))
	if err != nil {
		return nil, dbError("PriceListRepository.FindByID", "erro ao buscar lista "+id, err)
	}
	return pl, nil
}

func (r *priceListRepository) FindBase(ctx context.Context) (*catalog.PriceList, error) {
	pl, err := scanPriceList(r.db.QueryRow(ctx, `SELECT `+priceListColumns+` FROM price_lists WHERE is_base`))
	if err != nil {
		return nil, dbError("PriceListRepository.FindBase", "erro ao buscar lista base", err)
	}
	return pl, nil
}

func (r *priceListRepository) List(ctx context.Context) ([]*catalog.PriceList, error) {
	const op = "PriceListRepository.List"

	rows, err := r.db.Query(ctx, `SELECT `+priceListColumns+` FROM price_lists ORDER BY name COLLATE "C", id`)
	if err != nil {
		return nil, dbError(op, "erro ao listar listas de preços", err)
	}
	defer rows.Close()

	out := make([]*catalog.PriceList, 0)
	for rows.Next() {
		pl, err := scanPriceList(rows)
		if err != nil {
			return nil, dbError(op, "erro ao ler lista de preços", err)
		}
		out = append(out, pl)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(op, "erro ao iterar listas de preços", err)
	}
	return out, nil
}

func (r *priceListRepository) Update(ctx context.Context, pl *catalog.PriceList) error {
	const op = "PriceListRepository.Update"

	tag, err := r.db.Exec(ctx,
		`UPDATE price_lists SET name = $3, modifier_type = $4, value = $5, is_base = $6, updated_at = $7,
			version = version + 1
		WHERE id = $1 AND version = $2`,
		pl.ID, pl.Version, pl.Name, pl.ModifierType, pl.Value, pl.IsBase, pl.UpdatedAt)
	if err != nil {
		return dbError(op, "erro ao atualizar lista de preços", err)
	}
	if err := checkVersion(ctx, r.db, op, "price_lists", pl.ID, tag); err != nil {
		return err
	}
	pl.Version++
	return nil
}

const movementColumns = `id, product_id, kind, quantity, stock_before, stock_after, reason, operator, document_id, created_at`

type movementRepository struct {
	db DBTX
}

func (r *movementRepository) Create(ctx context.Context, m *catalog.StockMovement) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO stock_movements (`+movementColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		m.ID, m.ProductID, m.Kind, m.Quantity, m.StockBefore, m.StockAfter, m.Reason, m.Operator, m.DocumentID, m.CreatedAt)
	if err != nil {
		return dbError("MovementRepository.Create", "erro ao registrar movimento de estoque", err)
	}
	return nil
}

func (r *movementRepository) ListByProduct(ctx context.Context, productID string, limit int) ([]*catalog.StockMovement, error) {
	const op = "MovementRepository.ListByProduct"

	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE product_id = $1 ORDER BY seq DESC`
	args := []any{productID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, dbError(op, "erro ao listar movimentos", err)
	}
	defer rows.Close()

	out := make([]*catalog.StockMovement, 0)
	for rows.Next() {
		var m catalog.StockMovement
		if err := rows.Scan(&m.ID, &m.ProductID, &m.Kind, &m.Quantity, &m.StockBefore, &m.StockAfter,
			&m.Reason, &m.Operator, &m.DocumentID, &m.CreatedAt); err != nil {
			return nil, dbError(op, "erro ao ler movimento", err)
		}
		out = append(out, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(op, "erro ao iterar movimentos", err)
	}
	return out, nil
}
