package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound         = errors.New("recurso no encontrado")
	ErrInvalidInput     = errors.New("entrada inválida")
	ErrDuplicate        = errors.New("recurso duplicado")
	ErrNetwork          = errors.New("fallo de red con la API de catálogo")
	ErrReportGeneration = errors.New("no se pudo generar el reporte")
)

// NetworkError describe una llamada remota fallida contra la API de catálogo.
// Status es 0 cuando la petición no obtuvo respuesta HTTP.
type NetworkError struct {
	Op     string
	Status int
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: HTTP %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Is permite errors.Is(err, ErrNetwork) para cualquier NetworkError.
func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }
