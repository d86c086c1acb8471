package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

type sample struct {
	Phone string `json:"phone" validate:"required,digits,len=10"`
	Email string `json:"email" validate:"required,email_shape"`
	Note  string `validate:"max=3"`
}

func TestFieldErrorsUsesJSONNames(t *testing.T) {
	v := New()
	err := v.Struct(sample{Phone: "98765x3210", Email: "nobody", Note: "long"})
	details, ok := FieldErrors(err, func(fe validator.FieldError) string { return fe.Tag() })
	if !ok {
		t.Fatalf("expected validation errors, got %v", err)
	}
	want := map[string]string{"phone": "digits", "email": "email_shape", "Note": "max"}
	for field, tag := range want {
		if details[field] != tag {
			t.Fatalf("field %s: got %q want %q (all: %v)", field, details[field], tag, details)
		}
	}
}

func TestCustomTagsAccept(t *testing.T) {
	v := New()
	if err := v.Struct(sample{Phone: "9876543210", Email: "a@b.co"}); err != nil {
		t.Fatalf("expected valid sample, got %v", err)
	}
}

func TestFieldErrorsIgnoresOtherErrors(t *testing.T) {
	if _, ok := FieldErrors(nil, nil); ok {
		t.Fatalf("nil error must not be treated as validation failure")
	}
}
