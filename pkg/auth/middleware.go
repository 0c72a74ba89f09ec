package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/erp-ledger/internal/adapter/api/dto"
)

const (
	operatorKey       = "operator"
	operatorHeaderKey = "X-Operator"
)

// OperatorMiddleware exige um token Bearer válido e guarda o operador no
// contexto. Com service nil a autenticação fica desligada e o operador vem
// do cabeçalho X-Operator, se presente.
func OperatorMiddleware(service *JWTService) gin.HandlerFunc {
	if service == nil {
		return func(c *gin.Context) {
			if name := strings.TrimSpace(c.GetHeader(operatorHeaderKey)); name != "" {
				c.Set(operatorKey, name)
			}
			c.Next()
		}
	}

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				http.StatusUnauthorized,
				"Autenticação requerida",
				"O cabeçalho Authorization não foi fornecido",
			))
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				http.StatusUnauthorized,
				"Formato de token inválido",
				"Use o formato 'Bearer <token>'",
			))
			return
		}

		claims, err := service.ValidateToken(tokenParts[1])
		if err != nil {
			message := "Token inválido"
			if errors.Is(err, ErrExpiredToken) {
				message = "Token expirado"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				http.StatusUnauthorized,
				message,
				err.Error(),
			))
			return
		}

		c.Set(operatorKey, claims.Label())
		c.Next()
	}
}

// Operator retorna o operador autenticado, ou vazio
func Operator(c *gin.Context) string {
	value, _ := c.Get(operatorKey)
	operator, _ := value.(string)
	return operator
}
