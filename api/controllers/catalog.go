package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/lanort/pedidos/api/responses"
	"github.com/lanort/pedidos/api/validators"
	"github.com/lanort/pedidos/internal/catalog"
	pkgerrors "github.com/lanort/pedidos/pkg/errors"
	"github.com/lanort/pedidos/pkg/logger"
)

// CatalogService is the read side of the reference data.
type CatalogService interface {
	Search(ctx context.Context, term, brand string) (*catalog.SearchResult, error)
	Brands() []string
	Users() []catalog.User
	PaymentTerms() []catalog.PaymentTerm
	Reload(ctx context.Context) (catalog.LoadState, error)
}

// CatalogProducts filters the catalog by ?q= and ?brand=.
func CatalogProducts(svc CatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		result, err := svc.Search(r.Context(), validators.QueryString(r, "q"), validators.QueryString(r, "brand"))
		if errors.Is(err, catalog.ErrSearchInFlight) {
			err = pkgerrors.Wrap(pkgerrors.CodeConflict, err, "search already in progress")
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

func CatalogBrands(svc CatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		responses.WriteSuccess(w, svc.Brands())
	}
}

type optionDTO struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// CatalogUsers lists partners as "code - name" select options.
func CatalogUsers(svc CatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		users := svc.Users()
		out := make([]optionDTO, 0, len(users))
		for _, u := range users {
			out = append(out, optionDTO{Value: u.Code, Label: u.Label()})
		}
		responses.WriteSuccess(w, out)
	}
}

// CatalogPaymentTerms lists payment terms as "type - description" select options.
func CatalogPaymentTerms(svc CatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		terms := svc.PaymentTerms()
		out := make([]optionDTO, 0, len(terms))
		for _, t := range terms {
			out = append(out, optionDTO{Value: t.Type, Label: t.Label()})
		}
		responses.WriteSuccess(w, out)
	}
}

// CatalogReload refetches every collection. Partial failures are reported with the
// resulting load flags.
func CatalogReload(svc CatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		state, err := svc.Reload(r.Context())
		if err != nil {
			reloadErr := pkgerrors.Wrap(pkgerrors.CodeDependency, err, err.Error()).
				WithDetails(map[string]any{"loaded": state})
			responses.WriteError(r.Context(), logg, w, reloadErr)
			return
		}

		responses.WriteSuccess(w, state)
	}
}
