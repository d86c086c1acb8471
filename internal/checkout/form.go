package checkout

import (
	"strings"

	"github.com/angelmondragon/jhumka-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/jhumka-storefront/pkg/errors"
	"github.com/angelmondragon/jhumka-storefront/pkg/validation"
	"github.com/go-playground/validator/v10"
)

const (
	msgRequired      = "This field is required"
	msgEmail         = "Please enter a valid email address"
	msgPhone         = "Please enter a valid 10-digit phone number"
	msgPincode       = "Please enter a valid 6-digit pincode"
	msgPaymentMethod = "Please choose a supported payment method"
)

var validate = validation.New()

// Form is the shipping and payment information collected at checkout.
type Form struct {
	FirstName     string              `json:"first_name" validate:"required"`
	LastName      string              `json:"last_name" validate:"required"`
	Email         string              `json:"email" validate:"required,email_shape"`
	Phone         string              `json:"phone" validate:"required,digits,len=10"`
	Address       string              `json:"address" validate:"required"`
	City          string              `json:"city" validate:"required"`
	State         string              `json:"state" validate:"required"`
	Pincode       string              `json:"pincode" validate:"required,digits,len=6"`
	PaymentMethod enums.PaymentMethod `json:"payment_method" validate:"required,oneof=cod"`
}

// Normalize trims every field and defaults the payment method to cash on delivery.
func (f Form) Normalize() Form {
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.Email = strings.TrimSpace(f.Email)
	f.Phone = strings.TrimSpace(f.Phone)
	f.Address = strings.TrimSpace(f.Address)
	f.City = strings.TrimSpace(f.City)
	f.State = strings.TrimSpace(f.State)
	f.Pincode = strings.TrimSpace(f.Pincode)
	if method, err := enums.ParsePaymentMethod(f.PaymentMethod.String()); err == nil {
		f.PaymentMethod = method
	}
	return f
}

// Validate checks every field and returns all failures at once as a
// validation error whose details map field -> message.
func (f Form) Validate() error {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}
	details, ok := validation.FieldErrors(err, fieldMessage)
	if !ok {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "checkout form is invalid")
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "checkout form is invalid").WithDetails(details)
}

func fieldMessage(fe validator.FieldError) string {
	if fe.Tag() == "required" {
		return msgRequired
	}
	switch fe.Field() {
	case "email":
		return msgEmail
	case "phone":
		return msgPhone
	case "pincode":
		return msgPincode
	case "payment_method":
		return msgPaymentMethod
	}
	return msgRequired
}
