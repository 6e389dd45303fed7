package controllers

import (
	"context"
	"net/http"

	"github.com/lanort/pedidos/api/responses"
	"github.com/lanort/pedidos/api/validators"
	"github.com/lanort/pedidos/internal/cart"
	"github.com/lanort/pedidos/internal/storefront"
	pkgerrors "github.com/lanort/pedidos/pkg/errors"
	"github.com/lanort/pedidos/pkg/logger"
)

// CartService mutates the persisted cart.
type CartService interface {
	Cart() storefront.CartView
	AddToCart(ctx context.Context, code string, qty int) (*cart.Item, error)
	AddSelected(ctx context.Context, code string) (*cart.Item, error)
	AdjustCartItem(ctx context.Context, index, delta int) (*cart.UpdateResult, error)
	SetCartItemQuantity(ctx context.Context, index, qty int) (*cart.UpdateResult, error)
	RemoveCartItem(ctx context.Context, index int) error
	ClearCart(ctx context.Context) error
}

// addItemRequest adds quantity units of code. Without quantity the pending
// selection of the product is added.
type addItemRequest struct {
	Code     string `json:"code" validate:"required"`
	Quantity *int   `json:"quantity"`
}

// quantityChange carries exactly one of a relative or an absolute quantity.
type quantityChange struct {
	Delta    *int `json:"delta" validate:"required_without=Quantity,excluded_with=Quantity"`
	Quantity *int `json:"quantity" validate:"required_without=Delta,excluded_with=Delta"`
}

type cartMutation struct {
	Item    *cart.Item          `json:"item,omitempty"`
	Removed bool                `json:"removed"`
	Clamped bool                `json:"clamped"`
	Message string              `json:"message,omitempty"`
	Cart    storefront.CartView `json:"cart"`
}

func CartFetch(svc CartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}
		responses.WriteSuccess(w, svc.Cart())
	}
}

// CartAddItem merges a product into the cart.
func CartAddItem(svc CartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var (
			item *cart.Item
			err  error
		)
		if payload.Quantity == nil {
			item, err = svc.AddSelected(r.Context(), payload.Code)
		} else {
			item, err = svc.AddToCart(r.Context(), payload.Code, *payload.Quantity)
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, cartMutation{Item: item, Cart: svc.Cart()})
	}
}

// CartUpdateItem applies {"delta":n} or {"quantity":n} to the line at {index}.
func CartUpdateItem(svc CartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		index, err := validators.ParsePathIndex(r, "index")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload quantityChange
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var result *cart.UpdateResult
		if payload.Delta != nil {
			result, err = svc.AdjustCartItem(r.Context(), index, *payload.Delta)
		} else {
			result, err = svc.SetCartItemQuantity(r.Context(), index, *payload.Quantity)
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cartMutation{
			Item:    result.Item,
			Removed: result.Removed,
			Clamped: result.Clamped,
			Message: result.Message,
			Cart:    svc.Cart(),
		})
	}
}

func CartRemoveItem(svc CartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		index, err := validators.ParsePathIndex(r, "index")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.RemoveCartItem(r.Context(), index); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cartMutation{Removed: true, Cart: svc.Cart()})
	}
}

func CartClear(svc CartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}
		if err := svc.ClearCart(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, svc.Cart())
	}
}
