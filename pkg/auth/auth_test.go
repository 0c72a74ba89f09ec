package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(service *JWTService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(OperatorMiddleware(service))
	r.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, Operator(c))
	})
	return r
}

func TestJWTService(t *testing.T) {
	_, err := NewJWTService("  ", "erp-ledger-api", time.Hour)
	assert.ErrorIs(t, err, ErrMissingJWTKey)

	service, err := NewJWTService("segredo", "erp-ledger-api", time.Hour)
	require.NoError(t, err)

	token, err := service.GenerateToken("op-1", "Maria", "caixa")
	require.NoError(t, err)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "op-1", claims.OperatorID)
	assert.Equal(t, "Maria", claims.Label())
	assert.Equal(t, "erp-ledger-api", claims.Issuer)

	other, err := NewJWTService("outro-segredo", "erp-ledger-api", time.Hour)
	require.NoError(t, err)
	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExpiredToken(t *testing.T) {
	service := &JWTService{secretKey: []byte("segredo"), issuer: "erp-ledger-api", expiration: -time.Minute}

	token, err := service.GenerateToken("op-1", "Maria", "")
	require.NoError(t, err)

	_, err = service.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestOperatorMiddleware(t *testing.T) {
	service, err := NewJWTService("segredo", "erp-ledger-api", time.Hour)
	require.NoError(t, err)
	token, err := service.GenerateToken("op-7", "", "")
	require.NoError(t, err)

	tests := []struct {
		name     string
		service  *JWTService
		header   map[string]string
		status   int
		operator string
	}{
		{"desligado sem cabeçalho", nil, nil, http.StatusOK, ""},
		{"desligado com X-Operator", nil, map[string]string{"X-Operator": "caixa-2"}, http.StatusOK, "caixa-2"},
		{"token válido", service, map[string]string{"Authorization": "Bearer " + token}, http.StatusOK, "op-7"},
		{"sem token", service, nil, http.StatusUnauthorized, ""},
		{"formato inválido", service, map[string]string{"Authorization": "Token " + token}, http.StatusUnauthorized, ""},
		{"token adulterado", service, map[string]string{"Authorization": "Bearer " + token + "x"}, http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()

			newTestRouter(tt.service).ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, tt.operator, rec.Body.String())
			}
		})
	}
}
