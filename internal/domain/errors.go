package domain

import (
	"errors"
	"fmt"
)

// Kind clasifica los errores de dominio. El borde HTTP hace un switch exhaustivo sobre Kind.
type Kind int

const (
	KindInternal    Kind = iota // fallo de infraestructura u otro no clasificado
	KindValidation              // datos de entrada inválidos, antes de cualquier escritura
	KindNotFound                // recurso inexistente o con borrado lógico
	KindConflict                // choque con el estado actual (duplicados)
	KindConsistency             // la compensación falló: el almacén quedó inconsistente
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindConsistency:
		return "consistency"
	default:
		return "internal"
	}
}

// FieldError detalle por campo de un error de validación.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error es el error de dominio: tipo + código estable + mensaje + detalle opcional.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Validation crea un error de validación con detalle por campo.
func Validation(message string, fields ...FieldError) *Error {
	return &Error{Kind: KindValidation, Code: "VALIDATION", Message: message, Fields: fields}
}

// NotFound crea un error de recurso no encontrado.
func NotFound(resource string) *Error {
	return &Error{Kind: KindNotFound, Code: "NOT_FOUND", Message: resource + " no encontrado"}
}

// Conflict crea un error de conflicto.
func Conflict(code, message string) *Error {
	return &Error{Kind: KindConflict, Code: code, Message: message}
}

// Consistency crea un error de consistencia; err debe describir la causa original y la de la compensación.
func Consistency(code, message string, err error) *Error {
	return &Error{Kind: KindConsistency, Code: code, Message: message, Err: err}
}

// Internal envuelve un error de infraestructura.
func Internal(code, message string, err error) *Error {
	return &Error{Kind: KindInternal, Code: code, Message: message, Err: err}
}

// KindOf devuelve el Kind del primer *Error de la cadena; KindInternal si no hay ninguno.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// IsNotFound indica si err es (o envuelve) un error NotFound.
func IsNotFound(err error) bool {
	return err != nil && KindOf(err) == KindNotFound
}

// Errores centinela del almacén. Los adaptadores los devuelven; los casos de uso los traducen.
var (
	ErrNotFound  = errors.New("recurso no encontrado")
	ErrDuplicate = errors.New("recurso duplicado")
)
