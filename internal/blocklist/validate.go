package blocklist

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Field limits for add requests.
const (
	MaxNumberLength      = 64
	MaxDisplayNameLength = 256
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Use JSON tag names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Numbers are matched byte-for-byte, so anything a caller ID can't carry is rejected.
	_ = validate.RegisterValidation("dialable", func(fl validator.FieldLevel) bool {
		for _, r := range fl.Field().String() {
			if unicode.IsSpace(r) || unicode.IsControl(r) || !unicode.IsPrint(r) {
				return false
			}
		}
		return true
	})
}

// AddRequest is the input of an add command.
type AddRequest struct {
	Number      string `json:"number" validate:"required,max=64,dialable"`
	DisplayName string `json:"display_name" validate:"max=256"`
}

// Validate checks the request and returns an INVALID_INPUT error describing
// the first failing field.
func (r AddRequest) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return InvalidInputError("upsert", err.Error())
	}

	fe := verrs[0]
	var msg string
	switch fe.Tag() {
	case "required":
		msg = fmt.Sprintf("%s is required", fe.Field())
	case "max":
		msg = fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "dialable":
		msg = fmt.Sprintf("%s must not contain whitespace or control characters", fe.Field())
	default:
		msg = fmt.Sprintf("%s is invalid", fe.Field())
	}
	return InvalidInputError("upsert", msg)
}
