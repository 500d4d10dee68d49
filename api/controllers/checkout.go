package controllers

import (
	"net/http"

	"github.com/buahsegar/storefront-backend/api/responses"
	"github.com/buahsegar/storefront-backend/api/validators"
	"github.com/buahsegar/storefront-backend/internal/checkout"
	pkgerrors "github.com/buahsegar/storefront-backend/pkg/errors"
	"github.com/buahsegar/storefront-backend/pkg/logger"
)

// Checkout turns the cart into a pending order and hands back the payment
// widget token.
func Checkout(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body checkout.CheckoutRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Checkout(r.Context(), userID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// ShippingOptions lists the configured delivery tiers.
func ShippingOptions(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}
		responses.WriteSuccess(w, svc.Options())
	}
}
