package controller

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/erp-ledger/internal/adapter/api/dto"
	"github.com/hugohenrick/erp-ledger/internal/application/intake"
	"github.com/hugohenrick/erp-ledger/internal/infrastructure/events"
	"github.com/hugohenrick/erp-ledger/pkg/logger"
)

// IntakeController resolve pedidos em texto livre
type IntakeController struct {
	resolver *intake.Resolver
	logger   logger.Logger
}

// NewIntakeController cria uma nova instância de IntakeController
func NewIntakeController(resolver *intake.Resolver, logger logger.Logger) *IntakeController {
	return &IntakeController{
		resolver: resolver,
		logger:   logger,
	}
}

// Resolve converte o texto em linhas de carrinho casadas com o catálogo
// @Summary Resolver pedido em texto livre
// @Description Os itens sugeridos são conferidos contra o catálogo; os que não casam voltam sinalizados e sem preço
// @Tags intake
// @Accept json
// @Produce json
// @Param request body dto.IntakeRequest true "Texto do pedido"
// @Success 200 {object} intake.Result
// @Failure 400 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /intake/resolve [post]
func (c *IntakeController) Resolve(ctx *gin.Context) {
	if c.resolver == nil {
		ctx.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse(
			http.StatusServiceUnavailable, "extração indisponível", "OPENAI_API_KEY não configurada"))
		return
	}

	var req dto.IntakeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	result, err := c.resolver.Resolve(ctx.Request.Context(), req.Text)
	if err != nil {
		respondError(ctx, c.logger, "erro ao resolver pedido", err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// EventController publica o fluxo de mudanças via server-sent events
type EventController struct {
	broker *events.Broker
	buffer int
}

// NewEventController cria uma nova instância de EventController
func NewEventController(broker *events.Broker, buffer int) *EventController {
	return &EventController{broker: broker, buffer: buffer}
}

// Stream mantém a conexão aberta e envia um evento "change" por registro alterado
// @Summary Fluxo de mudanças
// @Tags events
// @Produce text/event-stream
// @Success 200 {object} events.ChangeEvent
// @Router /events [get]
func (c *EventController) Stream(ctx *gin.Context) {
	ch, cancel := c.broker.Subscribe(c.buffer)
	defer cancel()

	done := ctx.Request.Context().Done()
	ctx.Stream(func(w io.Writer) bool {
		select {
		case <-done:
			return false
		case ev, ok := <-ch:
			if !ok {
				return false
			}
			ctx.SSEvent("change", ev)
			return true
		}
	})
}

// HealthController responde ao health check
type HealthController struct {
	version string
	store   string
}

// NewHealthController cria uma nova instância de HealthController
func NewHealthController(version, store string) *HealthController {
	return &HealthController{version: version, store: store}
}

// Check informa que o serviço está de pé
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
func (c *HealthController) Check(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.HealthResponse{
		Status:  "ok",
		Version: c.version,
		Store:   c.store,
	})
}
