package controllers

import (
	"context"
	"net/http"

	"github.com/lanort/pedidos/api/responses"
	"github.com/lanort/pedidos/api/validators"
	"github.com/lanort/pedidos/internal/orders"
	"github.com/lanort/pedidos/internal/storefront"
	"github.com/lanort/pedidos/pkg/enums"
	pkgerrors "github.com/lanort/pedidos/pkg/errors"
	"github.com/lanort/pedidos/pkg/logger"
)

// OrderService submits the cart as an order.
type OrderService interface {
	SubmitOrder(ctx context.Context, form orders.Form) (*orders.Outcome, error)
	LastOrder(ctx context.Context) (storefront.OrderHistory, error)
}

// OrderSubmit sends the cart with the posted form. Field rules are enforced by the
// order service so the API and the CLI report the same messages. A fully accepted
// order answers 201; failed or partial submissions answer 200 with the outcome.
func OrderSubmit(svc OrderService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		var form orders.Form
		if err := validators.DecodeJSON(r, &form); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		outcome, err := svc.SubmitOrder(r.Context(), form)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status := http.StatusCreated
		if outcome.State != enums.SubmissionSucceeded {
			status = http.StatusOK
		}
		responses.WriteSuccessStatus(w, status, outcome)
	}
}

// OrderLast reports the last issued order number and the latest outcome, if any.
func OrderLast(svc OrderService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		history, err := svc.LastOrder(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, history)
	}
}
