package validator

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New()

	// Use JSON tag names instead of struct field names for error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return strings.ToLower(fld.Name)
		}
		return name
	})

	return &Validator{validate: v}
}

// Validate checks the struct tags and returns one message per failed field,
// or nil when everything passes. Messages are in Spanish to match the rest of
// the API surface.
func (v *Validator) Validate(i interface{}) []string {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{"Datos inválidos"}
	}

	messages := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		messages = append(messages, messageFor(fe))
	}
	return messages
}

func messageFor(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s es requerido", field)
	case "email":
		return "Email inválido"
	case "min":
		return fmt.Sprintf("%s debe tener al menos %s caracteres", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s debe tener como máximo %s caracteres", field, fe.Param())
	case "uuid":
		return fmt.Sprintf("%s debe ser un UUID válido", field)
	case "url":
		return "URL inválida"
	default:
		return fmt.Sprintf("%s es inválido", field)
	}
}

var defaultValidator = New()

// Validate runs the default validator.
func Validate(i interface{}) []string {
	return defaultValidator.Validate(i)
}
