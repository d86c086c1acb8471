package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	TagDigits     = "digits"
	TagEmailShape = "email_shape"
)

var (
	digitsPattern     = regexp.MustCompile(`^[0-9]+$`)
	emailShapePattern = regexp.MustCompile(`\S+@\S+\.\S+`)
)

// New returns a validator that reports fields by their json name and knows
// the storefront's custom tags.
func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	// Registration only fails on an empty tag or nil func.
	_ = v.RegisterValidation(TagDigits, func(fl validator.FieldLevel) bool {
		return digitsPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation(TagEmailShape, func(fl validator.FieldLevel) bool {
		return emailShapePattern.MatchString(fl.Field().String())
	})
	return v
}

// MessageFunc renders a single field failure.
type MessageFunc func(fe validator.FieldError) string

// FieldErrors flattens validator output into field -> message. Only the first
// failure per field is kept. ok is false when err is not a validation failure.
func FieldErrors(err error, message MessageFunc) (map[string]string, bool) {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return nil, false
	}
	details := make(map[string]string, len(errs))
	for _, fe := range errs {
		if _, seen := details[fe.Field()]; seen {
			continue
		}
		details[fe.Field()] = message(fe)
	}
	return details, true
}
