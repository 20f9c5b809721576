// Package validate envuelve go-playground/validator y traduce sus fallos a errores de validación del dominio.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/hohoemi-rabo/cms-app-sub001/internal/domain"
)

var std = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// decimal.Decimal se valida como número (gt, gte, lte...).
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// Struct valida s según sus tags `validate`. Devuelve nil o un *domain.Error de tipo KindValidation
// con un FieldError por cada campo inválido.
func Struct(s interface{}) error {
	err := std.Struct(s)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return domain.Internal("VALIDATOR", "no se pudo validar la entrada", err)
	}
	fields := make([]domain.FieldError, 0, len(ve))
	for _, fe := range ve {
		fields = append(fields, domain.FieldError{Field: fieldPath(fe), Message: message(fe)})
	}
	return domain.Validation("datos de entrada inválidos", fields...)
}

// fieldPath quita el nombre del struct raíz del namespace: "CreateCustomerRequest.items[0].quantity" → "items[0].quantity".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "es obligatorio"
	case "required_if":
		return "es obligatorio para este tipo"
	case "email":
		return "debe ser un email válido"
	case "oneof":
		return fmt.Sprintf("debe ser uno de: %s", fe.Param())
	case "min":
		return fmt.Sprintf("debe tener al menos %s", fe.Param())
	case "max":
		return fmt.Sprintf("debe tener como máximo %s", fe.Param())
	case "gt":
		return fmt.Sprintf("debe ser mayor que %s", fe.Param())
	case "gte":
		return fmt.Sprintf("debe ser mayor o igual que %s", fe.Param())
	case "datetime":
		return fmt.Sprintf("debe tener el formato %s", fe.Param())
	}
	return fmt.Sprintf("no cumple la regla '%s'", fe.Tag())
}
