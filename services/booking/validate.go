package booking

import (
	"errors"
	"reflect"
	"strings"

	"studiobook/utils"

	"github.com/go-playground/validator/v10"
)

// validate reports field errors by JSON path rather than Go field name.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validatePayload runs struct validation and converts failures into a
// ValidationError. "required" failures land in Missing, all others in Invalid.
func validatePayload(payload any, message string) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &utils.ValidationError{Message: message, Invalid: []string{err.Error()}}
	}

	verr := &utils.ValidationError{Message: message}
	for _, fe := range fieldErrs {
		path := fe.Namespace()
		// Drop the root struct name.
		if i := strings.IndexByte(path, '.'); i >= 0 {
			path = path[i+1:]
		}
		if fe.Tag() == "required" {
			verr.Missing = append(verr.Missing, path)
		} else {
			verr.Invalid = append(verr.Invalid, path)
		}
	}
	return verr
}
