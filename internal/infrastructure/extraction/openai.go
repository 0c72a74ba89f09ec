// Package extraction implementa o extrator de itens de pedidos em texto livre
// sobre a API de chat da OpenAI.
package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hugohenrick/erp-ledger/internal/application/intake"
	"github.com/hugohenrick/erp-ledger/pkg/logger"
	"github.com/sashabaranov/go-openai"
	"github.com/shopspring/decimal"
)

// DefaultModel é o modelo usado quando nenhum é configurado
const DefaultModel = openai.GPT4oMini

const systemPrompt = `Você extrai itens de pedidos de clientes de um supermercado.
Responda somente com JSON no formato {"items":[{"item_name":"...","quantity":"..."}]}.
Use o nome do produto como escrito pelo cliente, sem inventar marcas nem preços.
A quantidade é um número decimal; quando não informada use "1".`

// Config configura o cliente
type Config struct {
	APIKey      string
	Model       string
	BaseURL     string // vazio usa a API pública
	Temperature float32
	MaxTokens   int
}

// Client extrai sugestões de itens usando um modelo de chat
type Client struct {
	api    *openai.Client
	cfg    Config
	logger logger.Logger
}

// New cria um cliente de extração
func New(cfg Config, log logger.Logger) *Client {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1000
	}

	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	return &Client{
		api:    openai.NewClientWithConfig(oc),
		cfg:    cfg,
		logger: log,
	}
}

type extractedItem struct {
	ItemName string          `json:"item_name"`
	Quantity json.RawMessage `json:"quantity"` // número ou texto
}

type extraction struct {
	Items []extractedItem `json:"items"`
}

// Extract envia o texto ao modelo e interpreta a resposta
func (c *Client) Extract(ctx context.Context, text string) ([]intake.Guess, error) {
	const op = "extraction.Extract"

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: erro na requisição ao modelo: %w", op, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%s: resposta sem escolhas", op)
	}

	guesses, err := Parse(resp.Choices[0].Message.Content)
	if err != nil {
		c.logger.Warn("resposta do modelo inválida", "error", err, "model", c.cfg.Model)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	c.logger.Debug("itens extraídos", "count", len(guesses), "tokens", resp.Usage.TotalTokens)
	return guesses, nil
}

// Parse interpreta a resposta do modelo. Aceita o objeto {"items": [...]} ou
// uma lista direta, com ou sem bloco de código markdown. Quantidades
// ilegíveis viram zero e são sinalizadas na resolução.
func Parse(content string) ([]intake.Guess, error) {
	cleaned := strings.TrimSpace(content)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
		cleaned = strings.TrimSpace(cleaned)
	}

	var items []extractedItem
	if strings.HasPrefix(cleaned, "[") {
		if err := json.Unmarshal([]byte(cleaned), &items); err != nil {
			return nil, fmt.Errorf("erro ao decodificar itens: %w", err)
		}
	} else {
		var out extraction
		if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
			return nil, fmt.Errorf("erro ao decodificar itens: %w", err)
		}
		items = out.Items
	}

	guesses := make([]intake.Guess, 0, len(items))
	for _, it := range items {
		raw := strings.Trim(strings.TrimSpace(string(it.Quantity)), `"`)
		qty, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(raw), ",", "."))
		if err != nil {
			qty = decimal.Zero
		}
		guesses = append(guesses, intake.Guess{ItemName: strings.TrimSpace(it.ItemName), Quantity: qty})
	}
	return guesses, nil
}
