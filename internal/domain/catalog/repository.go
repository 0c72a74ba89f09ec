package catalog

import (
	"context"
)

// ProductRepository define as operações de persistência de produtos
type ProductRepository interface {
	// Create cria um novo produto
	Create(ctx context.Context, p *Product) error

	// FindByID busca um produto pelo ID
	FindByID(ctx context.Context, id string) (*Product, error)

	// FindBySKU busca um produto pelo SKU
	FindBySKU(ctx context.Context, sku string) (*Product, error)

	// Update grava o produto se a versão lida ainda for a atual; incrementa p.Version
	Update(ctx context.Context, p *Product) error

	// Search executa a busca paginada por cursor
	Search(ctx context.Context, q SearchQuery) (*Page, error)
}

// PriceListRepository define as operações de persistência de listas de preços
type PriceListRepository interface {
	// Create cria uma nova lista
	Create(ctx context.Context, pl *PriceList) error

	// FindByID busca uma lista pelo ID
	FindByID(ctx context.Context, id string) (*PriceList, error)

	// FindBase retorna a lista base atual, ou apperr.ErrNotFound
	FindBase(ctx context.Context) (*PriceList, error)

	// List retorna todas as listas ordenadas por nome
	List(ctx context.Context) ([]*PriceList, error)

	// Update grava a lista com verificação de versão
	Update(ctx context.Context, pl *PriceList) error
}

// MovementRepository define a persistência do histórico de estoque
type MovementRepository interface {
	// Create registra um movimento
	Create(ctx context.Context, m *StockMovement) error

	// ListByProduct retorna os movimentos mais recentes de um produto
	ListByProduct(ctx context.Context, productID string, limit int) ([]*StockMovement, error)
}
