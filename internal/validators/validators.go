// Package validators registers the custom binding tags used by the
// request DTOs and turns binding failures into validation errors.
package validators

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/BruksfildServices01/mascotico-api/internal/httperr"
	"github.com/BruksfildServices01/mascotico-api/internal/types"
)

// Register adds the "fecha" (YYYY-MM-DD) and "hora" (HH:MM[:SS]) tags and
// makes errors report json field names.
func Register(v *validator.Validate) error {
	v.RegisterTagNameFunc(jsonName)

	if err := v.RegisterValidation("fecha", isDate); err != nil {
		return err
	}
	if err := v.RegisterValidation("hora", isClock); err != nil {
		return err
	}
	return nil
}

// RegisterWithGin installs the tags on gin's default validator.
func RegisterWithGin() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("validators: gin binding engine is not go-playground/validator")
	}
	return Register(v)
}

func jsonName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form", "uri"} {
		name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

func isDate(fl validator.FieldLevel) bool {
	_, err := types.ParseDate(fl.Field().String())
	return err == nil
}

func isClock(fl validator.FieldLevel) bool {
	_, err := types.ParseClock(fl.Field().String())
	return err == nil
}

// ToBusiness converts a gin binding error into a validation error naming
// the first offending field.
func ToBusiness(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return httperr.Validation(fe.Field(), message(fe))
	}
	return httperr.Validation("body", "malformed request body")
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "fecha":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", fe.Field())
	case "hora":
		return fmt.Sprintf("%s must be a time in HH:MM format", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "min", "gt", "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
