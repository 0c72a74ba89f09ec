// Package numbering gera números legíveis e ordenáveis para vendas e remitos.
package numbering

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
)

// Generator produz números únicos por nó
type Generator struct {
	node *snowflake.Node
}

// NewGenerator cria um gerador para o nó informado (0 a 1023)
func NewGenerator(nodeID int64) (*Generator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("erro ao criar nó de numeração: %w", err)
	}
	return &Generator{node: node}, nil
}

// Next retorna um número com o prefixo do documento, ex: V-1781283715893448704
func (g *Generator) Next(prefix string) string {
	id := g.node.Generate()
	if prefix == "" {
		return id.String()
	}
	return prefix + "-" + id.String()
}
