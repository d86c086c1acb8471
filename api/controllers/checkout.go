package controllers

import (
	"net/http"

	"github.com/angelmondragon/jhumka-storefront/api/responses"
	"github.com/angelmondragon/jhumka-storefront/api/validators"
	"github.com/angelmondragon/jhumka-storefront/internal/checkout"
	"github.com/angelmondragon/jhumka-storefront/internal/contact"
	"github.com/angelmondragon/jhumka-storefront/internal/storefront"
	"github.com/angelmondragon/jhumka-storefront/pkg/logger"
)

func CheckoutSummary(sf *storefront.Storefront) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, sf.CheckoutSummary())
	}
}

// CheckoutSubmit places the order and empties the cart. Field errors come back
// as validation details keyed by json field name.
func CheckoutSubmit(sf *storefront.Storefront, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form checkout.Form
		if err := validators.DecodeJSON(r, &form); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		receipt, err := sf.Checkout(r.Context(), form)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, receipt)
	}
}

func ContactSubmit(sf *storefront.Storefront, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var msg contact.Message
		if err := validators.DecodeJSON(r, &msg); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ack, err := sf.Contact(r.Context(), msg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusAccepted, ack)
	}
}
