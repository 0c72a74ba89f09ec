package sale

import (
	"context"
)

// Repository define as operações de persistência de vendas
type Repository interface {
	// Create grava a venda com itens e linhas de pagamento
	Create(ctx context.Context, s *Sale) error

	// FindByID busca uma venda pelo ID
	FindByID(ctx context.Context, id string) (*Sale, error)

	// Update grava a mudança de estado com verificação de versão
	Update(ctx context.Context, s *Sale) error
}
