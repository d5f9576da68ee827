package dto

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mentorhub/community-platform/services/auth-service/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report field names as they appear on the wire.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// validateStruct maps validator failures onto the domain error taxonomy so
// handlers return field-level validation errors with stable codes.
func validateStruct(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return domain.ErrInvalidField("body", err.Error())
	}

	// First failure wins; the client fixes one field at a time anyway.
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return domain.ErrMissingField(fe.Field())
	case "email":
		return domain.ErrInvalidField(fe.Field(), "invalid format")
	case "min":
		if strings.Contains(strings.ToLower(fe.Field()), "password") {
			return domain.ErrWeakPassword("min length " + fe.Param())
		}
		return domain.ErrInvalidField(fe.Field(), "too short")
	case "oneof":
		if fe.Field() == "role" {
			return domain.ErrInvalidRole(fe.Value().(string))
		}
		return domain.ErrInvalidField(fe.Field(), "not an allowed value")
	default:
		return domain.ErrInvalidField(fe.Field(), fe.Tag())
	}
}
