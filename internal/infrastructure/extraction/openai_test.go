package extraction

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hugohenrick/erp-ledger/pkg/logger"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		content string
		names   []string
		qty     []string
		wantErr bool
	}{
		{
			name:    "objeto",
			content: `{"items":[{"item_name":"yerba","quantity":"2"},{"item_name":" azúcar ","quantity":1.5}]}`,
			names:   []string{"yerba", "azúcar"},
			qty:     []string{"2", "1.5"},
		},
		{
			name:    "lista em bloco markdown",
			content: "```json\n[{\"item_name\":\"fideos\",\"quantity\":\"0,5\"}]\n```",
			names:   []string{"fideos"},
			qty:     []string{"0.5"},
		},
		{
			name:    "quantidade ilegível",
			content: `{"items":[{"item_name":"vino","quantity":"unas cuantas"},{"item_name":"pan"}]}`,
			names:   []string{"vino", "pan"},
			qty:     []string{"0", "0"},
		},
		{
			name:    "texto livre",
			content: "não entendi o pedido",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.content)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Len(t, got, len(tt.names))
			for i := range got {
				assert.Equal(t, tt.names[i], got[i].ItemName)
				assert.Equal(t, tt.qty[i], got[i].Quantity.String())
			}
		})
	}
}

func TestExtractCallsChatCompletion(t *testing.T) {
	var req openai.ChatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{{
				Message: openai.ChatCompletionMessage{
					Role:    openai.ChatMessageRoleAssistant,
					Content: `{"items":[{"item_name":"leche","quantity":"3"}]}`,
				},
			}},
		})
	}))
	defer srv.Close()

	c := New(Config{APIKey: "sk-test", BaseURL: srv.URL + "/v1"}, logger.NewNop())
	guesses, err := c.Extract(context.Background(), "mandame 3 leches")
	require.NoError(t, err)

	require.Len(t, guesses, 1)
	assert.Equal(t, "leche", guesses[0].ItemName)
	assert.Equal(t, "3", guesses[0].Quantity.String())

	assert.Equal(t, DefaultModel, req.Model)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, "mandame 3 leches", req.Messages[1].Content)
	require.NotNil(t, req.ResponseFormat)
	assert.Equal(t, openai.ChatCompletionResponseFormatTypeJSONObject, req.ResponseFormat.Type)
}

func TestExtractWithoutChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := New(Config{APIKey: "sk-test", BaseURL: srv.URL + "/v1"}, logger.NewNop())
	_, err := c.Extract(context.Background(), "algo")
	assert.Error(t, err)
}
