package counterparty

import (
	"context"
)

// Repository define as operações de persistência de clientes e fornecedores
type Repository interface {
	// Create cria um novo registro
	Create(ctx context.Context, c *Counterparty) error

	// FindByID busca pelo ID
	FindByID(ctx context.Context, id string) (*Counterparty, error)

	// Update grava com verificação de versão; incrementa c.Version
	Update(ctx context.Context, c *Counterparty) error
}
