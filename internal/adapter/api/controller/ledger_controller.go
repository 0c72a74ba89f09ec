package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/erp-ledger/internal/adapter/api/dto"
	"github.com/hugohenrick/erp-ledger/internal/application/poster"
	"github.com/hugohenrick/erp-ledger/pkg/auth"
	"github.com/hugohenrick/erp-ledger/pkg/logger"
)

// LedgerController gerencia contas, lançamentos, transferências e parcelamentos
type LedgerController struct {
	poster *poster.Poster
	logger logger.Logger
}

// NewLedgerController cria uma nova instância de LedgerController
func NewLedgerController(p *poster.Poster, logger logger.Logger) *LedgerController {
	return &LedgerController{
		poster: p,
		logger: logger,
	}
}

// CreateAccount abre uma conta
// @Summary Criar conta
// @Tags accounts
// @Accept json
// @Produce json
// @Param account body dto.AccountRequest true "Nome e tipo"
// @Success 201 {object} ledger.Account
// @Failure 400 {object} dto.ErrorResponse
// @Router /accounts [post]
func (c *LedgerController) CreateAccount(ctx *gin.Context) {
	var req dto.AccountRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	account, err := c.poster.CreateAccount(ctx.Request.Context(), req.Name, req.Type)
	if err != nil {
		respondError(ctx, c.logger, "erro ao criar conta", err)
		return
	}
	ctx.JSON(http.StatusCreated, account)
}

// ListAccounts retorna todas as contas
// @Summary Listar contas
// @Tags accounts
// @Produce json
// @Success 200 {array} ledger.Account
// @Router /accounts [get]
func (c *LedgerController) ListAccounts(ctx *gin.Context) {
	accounts, err := c.poster.ListAccounts(ctx.Request.Context())
	if err != nil {
		respondError(ctx, c.logger, "erro ao listar contas", err)
		return
	}
	ctx.JSON(http.StatusOK, accounts)
}

// GetAccount retorna uma conta
// @Summary Buscar conta
// @Tags accounts
// @Produce json
// @Param id path string true "ID da conta"
// @Success 200 {object} ledger.Account
// @Failure 404 {object} dto.ErrorResponse
// @Router /accounts/{id} [get]
func (c *LedgerController) GetAccount(ctx *gin.Context) {
	account, err := c.poster.GetAccount(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, c.logger, "erro ao buscar conta", err)
		return
	}
	ctx.JSON(http.StatusOK, account)
}

// Statement retorna a conta com lançamentos e arqueos
// @Summary Extrato da conta
// @Tags accounts
// @Produce json
// @Param id path string true "ID da conta"
// @Success 200 {object} poster.AccountStatement
// @Failure 404 {object} dto.ErrorResponse
// @Router /accounts/{id}/entries [get]
func (c *LedgerController) Statement(ctx *gin.Context) {
	statement, err := c.poster.Statement(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, c.logger, "erro ao gerar extrato", err)
		return
	}
	ctx.JSON(http.StatusOK, statement)
}

// CloseAccount fecha a conta com arqueo
// @Summary Fechar conta
// @Description Registra o valor contado; a diferença é reportada e não impede o fechamento
// @Tags accounts
// @Accept json
// @Produce json
// @Param id path string true "ID da conta"
// @Param arqueo body dto.CloseAccountRequest true "Valor contado"
// @Success 200 {object} dto.CloseAccountResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /accounts/{id}/close [post]
func (c *LedgerController) CloseAccount(ctx *gin.Context) {
	var req dto.CloseAccountRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	account, reconciliation, err := c.poster.CloseAccount(ctx.Request.Context(), poster.CloseAccountCommand{
		AccountID: ctx.Param("id"),
		Counted:   req.Counted,
		Notes:     req.Notes,
		Operator:  auth.Operator(ctx),
	})
	if err != nil {
		respondError(ctx, c.logger, "erro ao fechar conta", err)
		return
	}
	ctx.JSON(http.StatusOK, dto.CloseAccountResponse{Account: account, Reconciliation: reconciliation})
}

// OpenAccount reabre uma conta fechada
// @Summary Reabrir conta
// @Tags accounts
// @Produce json
// @Param id path string true "ID da conta"
// @Success 200 {object} ledger.Account
// @Failure 422 {object} dto.ErrorResponse
// @Router /accounts/{id}/open [post]
func (c *LedgerController) OpenAccount(ctx *gin.Context) {
	account, err := c.poster.OpenAccount(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, c.logger, "erro ao reabrir conta", err)
		return
	}
	ctx.JSON(http.StatusOK, account)
}

// RecordMovement lança uma entrada ou saída manual
// @Summary Lançamento manual
// @Tags accounts
// @Accept json
// @Produce json
// @Param id path string true "ID da conta"
// @Param movement body dto.MovementRequest true "Lançamento"
// @Success 201 {object} dto.MovementResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /accounts/{id}/movements [post]
func (c *LedgerController) RecordMovement(ctx *gin.Context) {
	var req dto.MovementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	entry, account, err := c.poster.RecordMovement(ctx.Request.Context(), poster.MovementCommand{
		AccountID:   ctx.Param("id"),
		Direction:   req.Direction,
		Amount:      req.Amount,
		Category:    req.Category,
		Description: req.Description,
		Operator:    auth.Operator(ctx),
	})
	if err != nil {
		respondError(ctx, c.logger, "erro ao registrar lançamento", err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.MovementResponse{Entry: entry, Account: account})
}

// Transfer move saldo entre duas contas
// @Summary Transferir entre contas
// @Description Lança a saída na origem e a entrada no destino; tudo ou nada
// @Tags accounts
// @Accept json
// @Produce json
// @Param transfer body dto.TransferRequest true "Transferência"
// @Success 201 {object} poster.TransferResult
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /transfers [post]
func (c *LedgerController) Transfer(ctx *gin.Context) {
	var req dto.TransferRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	result, err := c.poster.TransferBetweenAccounts(ctx.Request.Context(), req.ToCommand())
	if err != nil {
		respondError(ctx, c.logger, "erro ao transferir", err)
		return
	}
	ctx.JSON(http.StatusCreated, result)
}

// CreateInstallmentPlan cria um plano de parcelamento
// @Summary Criar plano de parcelamento
// @Tags installment-plans
// @Accept json
// @Produce json
// @Param plan body dto.InstallmentPlanRequest true "Plano"
// @Success 201 {object} document.InstallmentPlan
// @Failure 400 {object} dto.ErrorResponse
// @Router /installment-plans [post]
func (c *LedgerController) CreateInstallmentPlan(ctx *gin.Context) {
	var req dto.InstallmentPlanRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	plan, err := c.poster.CreateInstallmentPlan(ctx.Request.Context(), req.ToCommand())
	if err != nil {
		respondError(ctx, c.logger, "erro ao criar plano", err)
		return
	}
	ctx.JSON(http.StatusCreated, plan)
}

// GetInstallmentPlan retorna um plano com os pagamentos
// @Summary Buscar plano de parcelamento
// @Tags installment-plans
// @Produce json
// @Param id path string true "ID do plano"
// @Success 200 {object} document.InstallmentPlan
// @Failure 404 {object} dto.ErrorResponse
// @Router /installment-plans/{id} [get]
func (c *LedgerController) GetInstallmentPlan(ctx *gin.Context) {
	plan, err := c.poster.GetInstallmentPlan(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, c.logger, "erro ao buscar plano", err)
		return
	}
	ctx.JSON(http.StatusOK, plan)
}

// RegisterPayment registra um pagamento parcial
// @Summary Pagar parcela
// @Tags installment-plans
// @Accept json
// @Produce json
// @Param id path string true "ID do plano"
// @Param payment body dto.InstallmentPaymentRequest true "Pagamento"
// @Success 200 {object} document.InstallmentPlan
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /installment-plans/{id}/payments [post]
func (c *LedgerController) RegisterPayment(ctx *gin.Context) {
	var req dto.InstallmentPaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	plan, err := c.poster.RegisterInstallmentPayment(ctx.Request.Context(), poster.InstallmentPaymentCommand{
		RequestID: req.RequestID,
		PlanID:    ctx.Param("id"),
		Amount:    req.Amount,
		AccountID: req.AccountID,
	})
	if err != nil {
		respondError(ctx, c.logger, "erro ao registrar pagamento", err)
		return
	}
	ctx.JSON(http.StatusOK, plan)
}

// CancelInstallmentPlan cancela um plano
// @Summary Cancelar plano de parcelamento
// @Tags installment-plans
// @Produce json
// @Param id path string true "ID do plano"
// @Success 200 {object} document.InstallmentPlan
// @Failure 422 {object} dto.ErrorResponse
// @Router /installment-plans/{id}/cancel [post]
func (c *LedgerController) CancelInstallmentPlan(ctx *gin.Context) {
	plan, err := c.poster.CancelInstallmentPlan(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, c.logger, "erro ao cancelar plano", err)
		return
	}
	ctx.JSON(http.StatusOK, plan)
}

// MarkOverdue move os planos vencidos para overdue
// @Summary Marcar planos vencidos
// @Tags installment-plans
// @Produce json
// @Success 200 {object} dto.OverdueResponse
// @Router /installment-plans/mark-overdue [post]
func (c *LedgerController) MarkOverdue(ctx *gin.Context) {
	updated, err := c.poster.MarkOverdue(ctx.Request.Context())
	if err != nil {
		respondError(ctx, c.logger, "erro ao marcar planos vencidos", err)
		return
	}
	ctx.JSON(http.StatusOK, dto.OverdueResponse{Updated: updated})
}
