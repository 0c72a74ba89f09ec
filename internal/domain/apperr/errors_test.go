package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMatchesKindAndCause(t *testing.T) {
	cause := errors.New("timeout")
	err := Wrap("FinalizeSale", ErrContention, cause)

	assert.ErrorIs(t, err, ErrContention)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "FinalizeSale: contenção de concorrência: timeout", err.Error())
}

func TestKindOfThroughWrapping(t *testing.T) {
	err := fmt.Errorf("erro ao lançar: %w", New("Post", ErrAccountClosed, "conta %s", "caixa"))

	assert.Equal(t, ErrAccountClosed, KindOf(err))
	assert.Equal(t, "account_closed", Code(err))
	assert.Nil(t, KindOf(errors.New("qualquer")))
	assert.Equal(t, "internal", Code(errors.New("qualquer")))
}

func TestIsRejection(t *testing.T) {
	assert.True(t, IsRejection(New("Post", ErrAccountClosed, "caixa")))
	assert.True(t, IsRejection(New("FindByID", ErrNotFound, "x")))
	assert.False(t, IsRejection(Wrap("Do", ErrContention, errors.New("timeout"))))
	assert.False(t, IsRejection(errors.New("falha de disco")))
}

func TestFromCodeInvertsCode(t *testing.T) {
	for _, kind := range []error{
		ErrInvalidInput, ErrIncompleteSettlement, ErrInsufficientStock, ErrAccountClosed,
		ErrInvalidTransition, ErrContention, ErrPartialFailureDetected, ErrNotFound,
	} {
		assert.Equal(t, kind, FromCode(Code(New("op", kind, "x"))))
	}
	assert.Equal(t, ErrContention, FromCode(Code(ErrConflict)))
	assert.Nil(t, FromCode("internal"))
	assert.Nil(t, FromCode(""))
}
