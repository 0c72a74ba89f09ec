package apperr

import (
	"errors"
	"fmt"
)

// Categorias de erro expostas aos chamadores. Todo erro retornado pelo núcleo
// contábil pode ser comparado com errors.Is contra uma destas sentinelas.
var (
	// ErrInvalidInput ocorre quando um valor numérico ou campo obrigatório é inválido
	ErrInvalidInput = errors.New("entrada inválida")

	// ErrIncompleteSettlement ocorre quando as linhas de pagamento não fecham o total
	ErrIncompleteSettlement = errors.New("liquidação incompleta")

	// ErrInsufficientStock ocorre quando uma linha deixaria o estoque negativo
	ErrInsufficientStock = errors.New("estoque insuficiente")

	// ErrAccountClosed ocorre quando o destino de um lançamento está fechado
	ErrAccountClosed = errors.New("conta fechada")

	// ErrInvalidTransition ocorre quando um documento não pode mudar para o estado pedido
	ErrInvalidTransition = errors.New("transição de estado inválida")

	// ErrContention ocorre quando as tentativas de concorrência otimista se esgotam
	ErrContention = errors.New("contenção de concorrência")

	// ErrPartialFailureDetected classifica uma intenção pendente encontrada na recuperação
	ErrPartialFailureDetected = errors.New("falha parcial detectada")

	// ErrNotFound ocorre quando um registro referenciado não existe
	ErrNotFound = errors.New("registro não encontrado")

	// ErrConflict sinaliza conflito de versão; nunca chega ao chamador, vira nova tentativa ou ErrContention
	ErrConflict = errors.New("conflito de versão")
)

// Error associa uma categoria a uma operação e detalhes legíveis
type Error struct {
	// Op é a operação que falhou (ex: "FinalizeSale")
	Op string

	// Kind é uma das sentinelas deste pacote
	Kind error

	// Details descreve o motivo específico
	Details string

	// Err é a causa original, se houver
	Err error
}

// Error implementa a interface error
func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Details != "" {
		msg += ": " + e.Details
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap permite errors.Is tanto com a categoria quanto com a causa
func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// New cria um erro categorizado com detalhes formatados
func New(op string, kind error, format string, args ...interface{}) *Error {
	return &Error{
		Op:      op,
		Kind:    kind,
		Details: fmt.Sprintf(format, args...),
	}
}

// Wrap categoriza uma causa existente
func Wrap(op string, kind error, err error) *Error {
	return &Error{
		Op:   op,
		Kind: kind,
		Err:  err,
	}
}

// KindOf retorna a sentinela que classifica err, ou nil se err não for categorizado
func KindOf(err error) error {
	for _, kind := range []error{
		ErrInvalidInput,
		ErrIncompleteSettlement,
		ErrInsufficientStock,
		ErrAccountClosed,
		ErrInvalidTransition,
		ErrContention,
		ErrPartialFailureDetected,
		ErrNotFound,
		ErrConflict,
	} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// Code retorna um identificador estável para a categoria de err
func Code(err error) string {
	switch KindOf(err) {
	case ErrInvalidInput:
		return "invalid_input"
	case ErrIncompleteSettlement:
		return "incomplete_settlement"
	case ErrInsufficientStock:
		return "insufficient_stock"
	case ErrAccountClosed:
		return "account_closed"
	case ErrInvalidTransition:
		return "invalid_transition"
	case ErrContention, ErrConflict:
		return "contention"
	case ErrPartialFailureDetected:
		return "partial_failure_detected"
	case ErrNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// FromCode devolve a sentinela correspondente a um código de Code, ou nil
func FromCode(code string) error {
	switch code {
	case "invalid_input":
		return ErrInvalidInput
	case "incomplete_settlement":
		return ErrIncompleteSettlement
	case "insufficient_stock":
		return ErrInsufficientStock
	case "account_closed":
		return ErrAccountClosed
	case "invalid_transition":
		return ErrInvalidTransition
	case "contention":
		return ErrContention
	case "partial_failure_detected":
		return ErrPartialFailureDetected
	case "not_found":
		return ErrNotFound
	default:
		return nil
	}
}

// IsRejection indica que err é uma recusa de regra de negócio, e não uma
// falha de infraestrutura ou de concorrência
func IsRejection(err error) bool {
	switch KindOf(err) {
	case ErrInvalidInput, ErrIncompleteSettlement, ErrInsufficientStock,
		ErrAccountClosed, ErrInvalidTransition, ErrNotFound:
		return true
	}
	return false
}
