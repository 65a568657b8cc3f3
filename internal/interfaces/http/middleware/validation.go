package middleware

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/brickquote/backend/internal/domain/quoting"
)

// SetupValidator configures gin's validator with JSON field names and the
// custom tags used in request DTOs. Call once before building the router.
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	// Use JSON tag names for field names in validation errors
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// serviceunit accepts only the closed set of billing units
	_ = v.RegisterValidation("serviceunit", func(fl validator.FieldLevel) bool {
		return quoting.ServiceUnit(fl.Field().String()).IsValid()
	})
}
