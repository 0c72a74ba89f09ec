package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/erp-ledger/internal/adapter/api/dto"
	"github.com/hugohenrick/erp-ledger/internal/domain/apperr"
	"github.com/hugohenrick/erp-ledger/pkg/logger"
)

// StatusFor traduz a categoria do erro em status HTTP
func StatusFor(err error) int {
	switch apperr.KindOf(err) {
	case apperr.ErrInvalidInput:
		return http.StatusBadRequest
	case apperr.ErrNotFound:
		return http.StatusNotFound
	case apperr.ErrIncompleteSettlement, apperr.ErrInsufficientStock,
		apperr.ErrAccountClosed, apperr.ErrInvalidTransition:
		return http.StatusUnprocessableEntity
	case apperr.ErrContention, apperr.ErrConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError escreve a resposta de erro padronizada
func respondError(ctx *gin.Context, log logger.Logger, message string, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		log.Error(message, "error", err, "path", ctx.FullPath())
	}

	details := err.Error()
	var appErr *apperr.Error
	if errors.As(err, &appErr) && appErr.Details != "" {
		details = appErr.Details
	}
	ctx.JSON(status, dto.NewKindErrorResponse(status, apperr.Code(err), message, details))
}

// badRequest responde a falhas de binding e validação da requisição
func badRequest(ctx *gin.Context, err error) {
	ctx.JSON(http.StatusBadRequest, dto.NewKindErrorResponse(
		http.StatusBadRequest, apperr.Code(apperr.ErrInvalidInput), "dados inválidos", err.Error()))
}
