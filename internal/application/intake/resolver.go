// Package intake converte pedidos em texto livre em linhas de carrinho.
// As sugestões do extrator não são confiáveis: cada item é resolvido de novo
// contra o catálogo e o que não casar é sinalizado, nunca precificado.
package intake

import (
	"context"
	"fmt"
	"strings"

	"github.com/hugohenrick/erp-ledger/internal/domain/apperr"
	"github.com/hugohenrick/erp-ledger/internal/domain/catalog"
	"github.com/hugohenrick/erp-ledger/pkg/logger"
	"github.com/shopspring/decimal"
)

// Guess é uma sugestão do extrator
type Guess struct {
	ItemName string          `json:"item_name"`
	Quantity decimal.Decimal `json:"quantity"`
}

// Extractor transforma texto livre em sugestões de itens
type Extractor interface {
	Extract(ctx context.Context, text string) ([]Guess, error)
}

// Catalog é a parte do catálogo usada na resolução
type Catalog interface {
	GetProduct(ctx context.Context, idOrSKU string) (*catalog.Product, error)
	SearchProducts(ctx context.Context, q catalog.SearchQuery) (*catalog.Page, error)
}

// Candidate é um produto possível para uma sugestão ambígua
type Candidate struct {
	ProductID string `json:"product_id"`
	SKU       string `json:"sku"`
	Name      string `json:"name"`
}

// Line é o resultado da resolução de uma sugestão
type Line struct {
	Guess      Guess           `json:"guess"`
	Matched    bool            `json:"matched"`
	ProductID  string          `json:"product_id,omitempty"`
	SKU        string          `json:"sku,omitempty"`
	Name       string          `json:"name,omitempty"`
	Quantity   decimal.Decimal `json:"quantity"`
	Unit       catalog.Unit    `json:"unit,omitempty"`
	Reason     string          `json:"reason,omitempty"`
	Candidates []Candidate     `json:"candidates,omitempty"`
}

// Result agrupa as linhas resolvidas
type Result struct {
	Lines     []Line `json:"lines"`
	Matched   int    `json:"matched"`
	Unmatched int    `json:"unmatched"`
}

// maxCandidates limita as alternativas devolvidas por item ambíguo
const maxCandidates = 5

// Resolver resolve pedidos em texto livre
type Resolver struct {
	extractor Extractor
	catalog   Catalog
	logger    logger.Logger
}

// NewResolver cria um Resolver
func NewResolver(extractor Extractor, products Catalog, log logger.Logger) *Resolver {
	return &Resolver{extractor: extractor, catalog: products, logger: log}
}

// Resolve extrai as sugestões do texto e casa cada uma com um produto ativo
func (r *Resolver) Resolve(ctx context.Context, text string) (*Result, error) {
	const op = "intake.Resolve"

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperr.New(op, apperr.ErrInvalidInput, "texto vazio")
	}

	guesses, err := r.extractor.Extract(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("erro ao extrair itens: %w", err)
	}

	result := &Result{Lines: make([]Line, 0, len(guesses))}
	for _, g := range guesses {
		line, err := r.resolve(ctx, g)
		if err != nil {
			return nil, err
		}
		if line.Matched {
			result.Matched++
		} else {
			result.Unmatched++
		}
		result.Lines = append(result.Lines, line)
	}

	r.logger.Info("pedido em texto resolvido", "guesses", len(guesses), "matched", result.Matched, "unmatched", result.Unmatched)
	return result, nil
}

func (r *Resolver) resolve(ctx context.Context, g Guess) (Line, error) {
	line := Line{Guess: g, Quantity: g.Quantity}
	name := strings.TrimSpace(g.ItemName)

	if name == "" {
		line.Reason = "item sem nome"
		return line, nil
	}
	if !g.Quantity.IsPositive() {
		line.Reason = "quantidade inválida"
		return line, nil
	}

	// SKU exato tem precedência sobre a busca por nome
	p, err := r.catalog.GetProduct(ctx, name)
	switch {
	case err == nil && p.Active:
		return matched(line, p), nil
	case err != nil && !apperr.IsRejection(err):
		return line, err
	}

	page, err := r.catalog.SearchProducts(ctx, catalog.SearchQuery{Text: name, OnlyActive: true, PageSize: maxCandidates})
	if err != nil {
		return line, err
	}

	switch len(page.Items) {
	case 0:
		line.Reason = "nenhum produto encontrado"
		return line, nil
	case 1:
		return matched(line, page.Items[0]), nil
	}

	for _, p := range page.Items {
		if strings.EqualFold(strings.TrimSpace(p.Name), name) {
			return matched(line, p), nil
		}
	}
	line.Reason = "mais de um produto possível"
	for _, p := range page.Items {
		line.Candidates = append(line.Candidates, Candidate{ProductID: p.ID, SKU: p.SKU, Name: p.Name})
	}
	return line, nil
}

func matched(line Line, p *catalog.Product) Line {
	line.Matched = true
	line.ProductID = p.ID
	line.SKU = p.SKU
	line.Name = p.Name
	line.Unit = p.PrimaryUnit
	return line
}
