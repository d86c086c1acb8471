package enums

import (
	"fmt"
	"strings"
)

// PaymentMethod is how the buyer settles an order. Only cash on delivery is
// offered today.
type PaymentMethod string

const PaymentMethodCOD PaymentMethod = "cod"

var paymentLabels = map[PaymentMethod]string{
	PaymentMethodCOD: "Cash on Delivery",
}

func (p PaymentMethod) String() string {
	return string(p)
}

// Label is the name printed on the order summary.
func (p PaymentMethod) Label() string {
	if label, ok := paymentLabels[p]; ok {
		return label
	}
	return string(p)
}

func (p PaymentMethod) IsValid() bool {
	_, ok := paymentLabels[p]
	return ok
}

// ParsePaymentMethod normalizes case and surrounding space. Blank input
// selects cash on delivery.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	normalized := PaymentMethod(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return PaymentMethodCOD, nil
	}
	if !normalized.IsValid() {
		return "", fmt.Errorf("invalid payment method %q", value)
	}
	return normalized, nil
}
