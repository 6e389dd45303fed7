package controllers

import (
	"net/http"

	"github.com/lanort/pedidos/api/responses"
	"github.com/lanort/pedidos/api/validators"
	"github.com/lanort/pedidos/internal/storefront"
	pkgerrors "github.com/lanort/pedidos/pkg/errors"
	"github.com/lanort/pedidos/pkg/logger"
)

// SelectionService tracks the quantity picked on a product card before it is added.
type SelectionService interface {
	AdjustSelection(code string, delta int) storefront.SelectionView
	SetSelection(code string, qty int) storefront.SelectionView
	ClearSelections()
}

// SelectionUpdate applies {"delta":n} or {"quantity":n} to the pending selection of
// {code}, bounded by stock.
func SelectionUpdate(svc SelectionService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "selection service unavailable"))
			return
		}

		code, err := validators.PathString(r, "code")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload quantityChange
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if payload.Delta != nil {
			responses.WriteSuccess(w, svc.AdjustSelection(code, *payload.Delta))
			return
		}
		responses.WriteSuccess(w, svc.SetSelection(code, *payload.Quantity))
	}
}

func SelectionClear(svc SelectionService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "selection service unavailable"))
			return
		}
		svc.ClearSelections()
		w.WriteHeader(http.StatusNoContent)
	}
}
