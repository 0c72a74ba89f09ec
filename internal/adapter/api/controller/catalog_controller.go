package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/erp-ledger/internal/adapter/api/dto"
	"github.com/hugohenrick/erp-ledger/internal/application/poster"
	"github.com/hugohenrick/erp-ledger/internal/domain/counterparty"
	"github.com/hugohenrick/erp-ledger/pkg/auth"
	"github.com/hugohenrick/erp-ledger/pkg/logger"
)

// CatalogController gerencia produtos, listas de preços, clientes e fornecedores
type CatalogController struct {
	poster *poster.Poster
	logger logger.Logger
}

// NewCatalogController cria uma nova instância de CatalogController
func NewCatalogController(p *poster.Poster, logger logger.Logger) *CatalogController {
	return &CatalogController{
		poster: p,
		logger: logger,
	}
}

// ComputePrice calcula o preço unitário de um produto
// @Summary Calcular preço
// @Description Calcula o preço final com imposto, lista de preços e desconto especial do cliente
// @Tags pricing
// @Accept json
// @Produce json
// @Param request body dto.PriceRequest true "Produto, unidade e cliente"
// @Success 200 {object} pricing.Quote
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /pricing/compute [post]
func (c *CatalogController) ComputePrice(ctx *gin.Context) {
	var req dto.PriceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	quote, err := c.poster.ComputePrice(ctx.Request.Context(), req.ToQuery())
	if err != nil {
		respondError(ctx, c.logger, "erro ao calcular preço", err)
		return
	}
	ctx.JSON(http.StatusOK, quote)
}

// CreateProduct cadastra um produto
// @Summary Criar produto
// @Description Cadastra um produto; o preço de venda é derivado do custo, exceto quando sale_price é informado
// @Tags products
// @Accept json
// @Produce json
// @Param product body dto.ProductRequest true "Dados do produto"
// @Success 201 {object} catalog.Product
// @Failure 400 {object} dto.ErrorResponse
// @Router /products [post]
func (c *CatalogController) CreateProduct(ctx *gin.Context) {
	var req dto.ProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	product, err := c.poster.CreateProduct(ctx.Request.Context(), req.ToInput())
	if err != nil {
		respondError(ctx, c.logger, "erro ao criar produto", err)
		return
	}
	ctx.JSON(http.StatusCreated, product)
}

// UpdateProduct altera um produto
// @Summary Atualizar produto
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "ID do produto"
// @Param product body dto.ProductRequest true "Dados do produto"
// @Success 200 {object} catalog.Product
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /products/{id} [put]
func (c *CatalogController) UpdateProduct(ctx *gin.Context) {
	var req dto.ProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	product, err := c.poster.UpdateProduct(ctx.Request.Context(), ctx.Param("id"), req.ToInput())
	if err != nil {
		respondError(ctx, c.logger, "erro ao atualizar produto", err)
		return
	}
	ctx.JSON(http.StatusOK, product)
}

// GetProduct busca um produto pelo ID ou SKU
// @Summary Buscar produto
// @Tags products
// @Produce json
// @Param id path string true "ID ou SKU do produto"
// @Success 200 {object} catalog.Product
// @Failure 404 {object} dto.ErrorResponse
// @Router /products/{id} [get]
func (c *CatalogController) GetProduct(ctx *gin.Context) {
	product, err := c.poster.GetProduct(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, c.logger, "erro ao buscar produto", err)
		return
	}
	ctx.JSON(http.StatusOK, product)
}

// SearchProducts executa a busca paginada por cursor
// @Summary Buscar produtos
// @Description Busca por nome ou SKU com filtros, ordenação e cursor opaco
// @Tags products
// @Produce json
// @Param q query string false "Trecho do nome ou SKU"
// @Param category query string false "Categoria"
// @Param only_active query bool false "Somente ativos"
// @Param sort_by query string false "name, sku, stock, sale_price ou created_at"
// @Param order query string false "asc ou desc"
// @Param page_size query int false "Itens por página (máx. 100)"
// @Param cursor query string false "Cursor da página anterior"
// @Success 200 {object} catalog.Page
// @Failure 400 {object} dto.ErrorResponse
// @Router /products [get]
func (c *CatalogController) SearchProducts(ctx *gin.Context) {
	var params dto.ProductSearchParams
	if err := ctx.ShouldBindQuery(&params); err != nil {
		badRequest(ctx, err)
		return
	}

	page, err := c.poster.SearchProducts(ctx.Request.Context(), params.ToQuery())
	if err != nil {
		respondError(ctx, c.logger, "erro ao buscar produtos", err)
		return
	}
	ctx.JSON(http.StatusOK, page)
}

// AdjustStock registra um ajuste manual de estoque
// @Summary Ajustar estoque
// @Description Aplica uma correção com sinal e grava o movimento auditável com motivo e operador
// @Tags products
// @Accept json
// @Produce json
// @Param Authorization header string false "Bearer token"
// @Param id path string true "ID do produto"
// @Param adjustment body dto.StockAdjustmentRequest true "Ajuste"
// @Success 200 {object} dto.StockAdjustmentResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /products/{id}/stock-adjustments [post]
func (c *CatalogController) AdjustStock(ctx *gin.Context) {
	var req dto.StockAdjustmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	product, movement, err := c.poster.AdjustStock(ctx.Request.Context(), poster.StockAdjustment{
		ProductID: ctx.Param("id"),
		Delta:     req.Delta,
		Reason:    req.Reason,
		Operator:  auth.Operator(ctx),
	})
	if err != nil {
		respondError(ctx, c.logger, "erro ao ajustar estoque", err)
		return
	}
	ctx.JSON(http.StatusOK, dto.StockAdjustmentResponse{Product: product, Movement: movement})
}

// ListMovements retorna o histórico de estoque de um produto
// @Summary Movimentos de estoque
// @Tags products
// @Produce json
// @Param id path string true "ID do produto"
// @Param limit query int false "Quantidade máxima"
// @Success 200 {array} catalog.StockMovement
// @Router /products/{id}/movements [get]
func (c *CatalogController) ListMovements(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "50"))

	movements, err := c.poster.ListMovements(ctx.Request.Context(), ctx.Param("id"), limit)
	if err != nil {
		respondError(ctx, c.logger, "erro ao listar movimentos", err)
		return
	}
	ctx.JSON(http.StatusOK, movements)
}

// CreatePriceList cria uma lista de preços
// @Summary Criar lista de preços
// @Tags price-lists
// @Accept json
// @Produce json
// @Param list body dto.PriceListRequest true "Dados da lista"
// @Success 201 {object} catalog.PriceList
// @Failure 400 {object} dto.ErrorResponse
// @Router /price-lists [post]
func (c *CatalogController) CreatePriceList(ctx *gin.Context) {
	var req dto.PriceListRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	list, err := c.poster.CreatePriceList(ctx.Request.Context(), req.Name, req.ModifierType, req.Value)
	if err != nil {
		respondError(ctx, c.logger, "erro ao criar lista de preços", err)
		return
	}
	ctx.JSON(http.StatusCreated, list)
}

// ListPriceLists retorna todas as listas
// @Summary Listar listas de preços
// @Tags price-lists
// @Produce json
// @Success 200 {array} catalog.PriceList
// @Router /price-lists [get]
func (c *CatalogController) ListPriceLists(ctx *gin.Context) {
	lists, err := c.poster.ListPriceLists(ctx.Request.Context())
	if err != nil {
		respondError(ctx, c.logger, "erro ao listar listas de preços", err)
		return
	}
	ctx.JSON(http.StatusOK, lists)
}

// SetBasePriceList promove a lista a base
// @Summary Definir lista base
// @Tags price-lists
// @Produce json
// @Param id path string true "ID da lista"
// @Success 200 {object} catalog.PriceList
// @Failure 404 {object} dto.ErrorResponse
// @Router /price-lists/{id}/base [patch]
func (c *CatalogController) SetBasePriceList(ctx *gin.Context) {
	list, err := c.poster.SetBasePriceList(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, c.logger, "erro ao definir lista base", err)
		return
	}
	ctx.JSON(http.StatusOK, list)
}

// CreateCounterparty retorna o handler de cadastro para o tipo informado
// @Summary Criar cliente ou fornecedor
// @Tags counterparties
// @Accept json
// @Produce json
// @Param counterparty body dto.CounterpartyRequest true "Dados"
// @Success 201 {object} counterparty.Counterparty
// @Failure 400 {object} dto.ErrorResponse
// @Router /clients [post]
// @Router /suppliers [post]
func (c *CatalogController) CreateCounterparty(kind counterparty.Kind) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req dto.CounterpartyRequest
		if err := ctx.ShouldBindJSON(&req); err != nil {
			badRequest(ctx, err)
			return
		}

		cp, err := c.poster.CreateCounterparty(ctx.Request.Context(), req.ToInput(kind))
		if err != nil {
			respondError(ctx, c.logger, "erro ao criar cadastro", err)
			return
		}
		ctx.JSON(http.StatusCreated, cp)
	}
}

// GetCounterparty retorna o handler de busca para o tipo informado
// @Summary Buscar cliente ou fornecedor
// @Tags counterparties
// @Produce json
// @Param id path string true "ID"
// @Success 200 {object} counterparty.Counterparty
// @Failure 404 {object} dto.ErrorResponse
// @Router /clients/{id} [get]
// @Router /suppliers/{id} [get]
func (c *CatalogController) GetCounterparty(kind counterparty.Kind) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		cp, err := c.poster.GetCounterparty(ctx.Request.Context(), ctx.Param("id"), kind)
		if err != nil {
			respondError(ctx, c.logger, "erro ao buscar cadastro", err)
			return
		}
		ctx.JSON(http.StatusOK, cp)
	}
}

// UpdateCounterparty retorna o handler de alteração para o tipo informado
// @Summary Atualizar cliente
// @Tags counterparties
// @Accept json
// @Produce json
// @Param id path string true "ID"
// @Param counterparty body dto.CounterpartyRequest true "Dados"
// @Success 200 {object} counterparty.Counterparty
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /clients/{id} [put]
func (c *CatalogController) UpdateCounterparty(kind counterparty.Kind) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req dto.CounterpartyRequest
		if err := ctx.ShouldBindJSON(&req); err != nil {
			badRequest(ctx, err)
			return
		}

		cp, err := c.poster.UpdateCounterparty(ctx.Request.Context(), ctx.Param("id"), req.ToInput(kind))
		if err != nil {
			respondError(ctx, c.logger, "erro ao atualizar cadastro", err)
			return
		}
		ctx.JSON(http.StatusOK, cp)
	}
}
