package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Erros específicos
var (
	ErrInvalidToken  = errors.New("token inválido")
	ErrExpiredToken  = errors.New("token expirado")
	ErrInvalidClaims = errors.New("claims inválidas")
	ErrMissingJWTKey = errors.New("chave secreta JWT não configurada")
)

// OperatorClaims identifica o operador que executa os comandos
type OperatorClaims struct {
	OperatorID string `json:"operator_id"`
	Name       string `json:"name"`
	Role       string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Label retorna o identificador gravado nos registros de auditoria
func (c *OperatorClaims) Label() string {
	if c.Name != "" {
		return c.Name
	}
	return c.OperatorID
}

// JWTService emite e valida tokens de operador
type JWTService struct {
	secretKey  []byte
	issuer     string
	expiration time.Duration
}

// NewJWTService cria uma nova instância de JWTService
func NewJWTService(secretKey, issuer string, expiration time.Duration) (*JWTService, error) {
	if strings.TrimSpace(secretKey) == "" {
		return nil, ErrMissingJWTKey
	}
	if expiration <= 0 {
		expiration = 24 * time.Hour
	}
	return &JWTService{
		secretKey:  []byte(secretKey),
		issuer:     issuer,
		expiration: expiration,
	}, nil
}

// GenerateToken gera um token para o operador
func (s *JWTService) GenerateToken(operatorID, name, role string) (string, error) {
	now := time.Now()
	claims := OperatorClaims{
		OperatorID: operatorID,
		Name:       name,
		Role:       role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			Subject:   operatorID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

// ValidateToken valida um token e retorna as claims se for válido
func (s *JWTService) ValidateToken(tokenString string) (*OperatorClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &OperatorClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*OperatorClaims)
	if !ok || !token.Valid || claims.OperatorID == "" {
		return nil, ErrInvalidClaims
	}
	return claims, nil
}
