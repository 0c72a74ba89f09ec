// Package document implementa o ciclo de vida de documentos comerciais
// (remitos e planos de parcelamento) sobre uma tabela de transições genérica.
package document

import (
	"github.com/hugohenrick/erp-ledger/internal/domain/apperr"
)

// StateMachine é uma tabela de transições fechada por tipo de documento.
// Estados sem saída são terminais.
type StateMachine[S ~string] struct {
	name        string
	transitions map[S][]S
}

// NewStateMachine cria a máquina a partir do mapa estado -> destinos permitidos
func NewStateMachine[S ~string](name string, transitions map[S][]S) *StateMachine[S] {
	return &StateMachine[S]{
		name:        name,
		transitions: transitions,
	}
}

// CanTransition informa se from -> to é permitido
func (m *StateMachine[S]) CanTransition(from, to S) bool {
	for _, next := range m.transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal informa se o estado não admite nenhuma transição
func (m *StateMachine[S]) IsTerminal(s S) bool {
	return len(m.transitions[s]) == 0
}

// Transition valida a transição e retorna o novo estado
func (m *StateMachine[S]) Transition(from, to S) (S, error) {
	if m.IsTerminal(from) {
		return from, apperr.New(m.name+".Transition", apperr.ErrInvalidTransition, "estado %s é terminal", from)
	}
	if !m.CanTransition(from, to) {
		return from, apperr.New(m.name+".Transition", apperr.ErrInvalidTransition, "%s -> %s não permitido", from, to)
	}
	return to, nil
}
