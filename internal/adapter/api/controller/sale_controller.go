package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/erp-ledger/internal/adapter/api/dto"
	"github.com/hugohenrick/erp-ledger/internal/application/poster"
	"github.com/hugohenrick/erp-ledger/pkg/auth"
	"github.com/hugohenrick/erp-ledger/pkg/logger"
)

// SaleController gerencia vendas e remitos
type SaleController struct {
	poster *poster.Poster
	logger logger.Logger
}

// NewSaleController cria uma nova instância de SaleController
func NewSaleController(p *poster.Poster, logger logger.Logger) *SaleController {
	return &SaleController{
		poster: p,
		logger: logger,
	}
}

// Finalize fecha uma venda
// @Summary Finalizar venda
// @Description Precifica no servidor, liquida os pagamentos, baixa o estoque e lança tudo em uma única transação.
// @Description Um request_id repetido devolve a venda já gravada.
// @Tags sales
// @Accept json
// @Produce json
// @Param Authorization header string false "Bearer token"
// @Param sale body dto.SaleRequest true "Itens e pagamentos"
// @Success 201 {object} sale.Sale
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /sales [post]
func (c *SaleController) Finalize(ctx *gin.Context) {
	var req dto.SaleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	s, err := c.poster.FinalizeSale(ctx.Request.Context(), req.ToCommand(auth.Operator(ctx)))
	if err != nil {
		respondError(ctx, c.logger, "erro ao finalizar venda", err)
		return
	}
	ctx.JSON(http.StatusCreated, s)
}

// Get retorna uma venda
// @Summary Buscar venda
// @Tags sales
// @Produce json
// @Param id path string true "ID da venda"
// @Success 200 {object} sale.Sale
// @Failure 404 {object} dto.ErrorResponse
// @Router /sales/{id} [get]
func (c *SaleController) Get(ctx *gin.Context) {
	s, err := c.poster.GetSale(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, c.logger, "erro ao buscar venda", err)
		return
	}
	ctx.JSON(http.StatusOK, s)
}

// Reverse estorna uma venda
// @Summary Estornar venda
// @Description Devolve o estoque, lança saídas compensatórias e restaura o saldo do cliente
// @Tags sales
// @Accept json
// @Produce json
// @Param id path string true "ID da venda"
// @Param reversal body dto.ReverseSaleRequest true "Motivo"
// @Success 200 {object} sale.Sale
// @Failure 422 {object} dto.ErrorResponse
// @Router /sales/{id}/reverse [post]
func (c *SaleController) Reverse(ctx *gin.Context) {
	var req dto.ReverseSaleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	s, err := c.poster.ReverseSale(ctx.Request.Context(), poster.ReverseSaleCommand{
		RequestID: req.RequestID,
		SaleID:    ctx.Param("id"),
		Reason:    req.Reason,
		Operator:  auth.Operator(ctx),
	})
	if err != nil {
		respondError(ctx, c.logger, "erro ao estornar venda", err)
		return
	}
	ctx.JSON(http.StatusOK, s)
}

// CreateDeliveryNote emite um remito
// @Summary Emitir remito
// @Tags delivery-notes
// @Accept json
// @Produce json
// @Param note body dto.DeliveryNoteRequest true "Itens"
// @Success 201 {object} document.DeliveryNote
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /delivery-notes [post]
func (c *SaleController) CreateDeliveryNote(ctx *gin.Context) {
	var req dto.DeliveryNoteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	note, err := c.poster.CreateDeliveryNote(ctx.Request.Context(), req.ToCommand(auth.Operator(ctx)))
	if err != nil {
		respondError(ctx, c.logger, "erro ao emitir remito", err)
		return
	}
	ctx.JSON(http.StatusCreated, note)
}

// GetDeliveryNote retorna um remito
// @Summary Buscar remito
// @Tags delivery-notes
// @Produce json
// @Param id path string true "ID do remito"
// @Success 200 {object} document.DeliveryNote
// @Failure 404 {object} dto.ErrorResponse
// @Router /delivery-notes/{id} [get]
func (c *SaleController) GetDeliveryNote(ctx *gin.Context) {
	note, err := c.poster.GetDeliveryNote(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, c.logger, "erro ao buscar remito", err)
		return
	}
	ctx.JSON(http.StatusOK, note)
}

// MarkDelivered registra a entrega
// @Summary Marcar remito entregue
// @Tags delivery-notes
// @Produce json
// @Param id path string true "ID do remito"
// @Success 200 {object} document.DeliveryNote
// @Failure 422 {object} dto.ErrorResponse
// @Router /delivery-notes/{id}/deliver [post]
func (c *SaleController) MarkDelivered(ctx *gin.Context) {
	note, err := c.poster.MarkDelivered(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, c.logger, "erro ao marcar remito entregue", err)
		return
	}
	ctx.JSON(http.StatusOK, note)
}

// CancelDeliveryNote cancela o remito e devolve o estoque
// @Summary Cancelar remito
// @Tags delivery-notes
// @Accept json
// @Produce json
// @Param id path string true "ID do remito"
// @Param cancel body dto.CancelNoteRequest false "Motivo"
// @Success 200 {object} document.DeliveryNote
// @Failure 422 {object} dto.ErrorResponse
// @Router /delivery-notes/{id}/cancel [post]
func (c *SaleController) CancelDeliveryNote(ctx *gin.Context) {
	var req dto.CancelNoteRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			badRequest(ctx, err)
			return
		}
	}

	note, err := c.poster.CancelDeliveryNote(ctx.Request.Context(), ctx.Param("id"), req.Reason, auth.Operator(ctx))
	if err != nil {
		respondError(ctx, c.logger, "erro ao cancelar remito", err)
		return
	}
	ctx.JSON(http.StatusOK, note)
}

// Invoice converte remitos em uma única fatura
// @Summary Faturar remitos
// @Description Soma os remitos em uma fatura; se algum não puder ser faturado nenhum é alterado
// @Tags delivery-notes
// @Accept json
// @Produce json
// @Param invoice body dto.InvoiceRequest true "Remitos"
// @Success 201 {object} sale.Sale
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /delivery-notes/invoice [post]
func (c *SaleController) Invoice(ctx *gin.Context) {
	var req dto.InvoiceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	invoice, err := c.poster.ConvertDeliveryNotesToInvoice(ctx.Request.Context(), req.ToCommand(auth.Operator(ctx)))
	if err != nil {
		respondError(ctx, c.logger, "erro ao faturar remitos", err)
		return
	}
	ctx.JSON(http.StatusCreated, invoice)
}
