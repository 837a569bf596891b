package utils

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"cleanroster/internal/models"
	"cleanroster/internal/types"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	enums := map[string]func(string) bool{
		"specialization": func(value string) bool {
			_, err := models.ParseSpecialization(value)
			return err == nil
		},
		"priority": func(value string) bool {
			_, err := models.ParsePriority(value)
			return err == nil
		},
		"role": func(value string) bool {
			_, err := models.ParseRole(value)
			return err == nil
		},
		"taskstatus": func(value string) bool {
			_, err := models.ParseTaskStatus(value)
			return err == nil
		},
	}

	for tag, valid := range enums {
		check := valid
		if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return check(fl.Field().String())
		}); err != nil {
			panic(fmt.Sprintf("register %s validation: %v", tag, err))
		}
	}

	return v
}

// ValidateStruct checks the validate tags of request and reports every
// failing field in one ErrValidation.
func ValidateStruct(request any) error {
	err := validate.Struct(request)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return types.Errorf(types.ErrValidation, "%s", err.Error())
	}

	messages := make([]string, 0, len(fieldErrors))
	for _, fieldError := range fieldErrors {
		messages = append(messages, describe(fieldError))
	}
	return types.Errorf(types.ErrValidation, "%s", strings.Join(messages, "; "))
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gte", "lte":
		return fmt.Sprintf("%s is out of range", field)
	case "email":
		return field + " must be a valid email"
	case "specialization", "priority", "role", "taskstatus":
		return fmt.Sprintf("%s has an unknown %s value %q", field, fe.Tag(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}
