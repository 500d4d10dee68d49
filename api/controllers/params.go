package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/buahsegar/storefront-backend/api/middleware"
	"github.com/buahsegar/storefront-backend/pkg/enums"
	pkgerrors "github.com/buahsegar/storefront-backend/pkg/errors"
)

// requestUserID pulls the authenticated user id the auth middleware seeded.
func requestUserID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return id, nil
}

func requestIsAdmin(r *http.Request) bool {
	return middleware.RoleFromContext(r.Context()) == string(enums.RoleAdmin)
}

// uuidParam parses a chi path parameter as a UUID.
func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid "+name).
			WithDetails(map[string]string{name: "must be a UUID"})
	}
	return id, nil
}
