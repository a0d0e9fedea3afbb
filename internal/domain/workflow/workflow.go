// Package workflow concentra los estados de cada entidad con ciclo de vida y
// sus tablas de transición. Ningún otro paquete compara strings de estado.
package workflow

import (
	"errors"
	"fmt"
	"slices"

	"github.com/jhoicas/topmei-api/internal/domain"
)

var (
	// ErrInvalidTransition la transición no existe en la tabla de la entidad.
	ErrInvalidTransition = fmt.Errorf("%w: transição de status inválida", domain.ErrConflict)
	// ErrUnknownStatus el valor leído no pertenece al enum.
	ErrUnknownStatus = fmt.Errorf("%w: status desconhecido", domain.ErrInvalidInput)
)

// Status restringe los enums de estado que tienen tabla de transición.
type Status[S any] interface {
	~string
	targets() []S
}

// CanTransition informa si la tabla permite pasar de from a to.
func CanTransition[S Status[S]](from, to S) bool {
	return slices.Contains(from.targets(), to)
}

// Transition devuelve ErrInvalidTransition (con ambos estados) si el paso no está permitido.
func Transition[S Status[S]](from, to S) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

// IsTerminal un estado sin salidas.
func IsTerminal[S Status[S]](s S) bool {
	return len(s.targets()) == 0
}

func parse[S ~string](kind, raw string, all []S) (S, error) {
	for _, s := range all {
		if string(s) == raw {
			return s, nil
		}
	}
	var zero S
	return zero, fmt.Errorf("%w: %s %q", ErrUnknownStatus, kind, raw)
}

// IsInvalidTransition atajo para handlers y tests.
func IsInvalidTransition(err error) bool {
	return errors.Is(err, ErrInvalidTransition)
}
