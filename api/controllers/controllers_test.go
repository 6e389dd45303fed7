package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lanort/pedidos/internal/catalog"
	"github.com/lanort/pedidos/internal/orders"
	"github.com/lanort/pedidos/internal/storefront"
	"github.com/lanort/pedidos/pkg/config"
	"github.com/lanort/pedidos/pkg/enums"
	pkgerrors "github.com/lanort/pedidos/pkg/errors"
	"github.com/lanort/pedidos/pkg/types"
)

type stubReadiness struct {
	state catalog.LoadState
	err   error
}

func (s stubReadiness) Ready(context.Context) (catalog.LoadState, error) {
	return s.state, s.err
}

type stubOrders struct {
	outcome  *orders.Outcome
	err      error
	lastForm orders.Form
	history  storefront.OrderHistory
}

func (s *stubOrders) LastOrder(context.Context) (storefront.OrderHistory, error) {
	return s.history, s.err
}

func (s *stubOrders) SubmitOrder(_ context.Context, form orders.Form) (*orders.Outcome, error) {
	s.lastForm = form
	return s.outcome, s.err
}

type stubCatalog struct {
	searchErr error
	reloadErr error
	state     catalog.LoadState
}

func (s stubCatalog) Search(context.Context, string, string) (*catalog.SearchResult, error) {
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	return &catalog.SearchResult{Label: "0 produtos encontrados"}, nil
}

func (stubCatalog) Brands() []string { return nil }

func (stubCatalog) Users() []catalog.User { return nil }

func (stubCatalog) PaymentTerms() []catalog.PaymentTerm { return nil }

func (s stubCatalog) Reload(context.Context) (catalog.LoadState, error) {
	return s.state, s.reloadErr
}

func testConfig() *config.Config {
	return &config.Config{App: config.AppConfig{Env: "test"}}
}

func TestHealthReadyDegraded(t *testing.T) {
	handler := HealthReady(testConfig(), stubReadiness{state: catalog.LoadState{Products: true}}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data readyResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Status != "degraded" {
		t.Fatalf("expected degraded got %q", envelope.Data.Status)
	}
}

func TestHealthReadyStorageDown(t *testing.T) {
	down := pkgerrors.Wrap(pkgerrors.CodeDependency, errors.New("dial tcp"), "storage unavailable")
	handler := HealthReady(testConfig(), stubReadiness{err: down}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 got %d", resp.Code)
	}
}

func TestCatalogProductsInFlightIsConflict(t *testing.T) {
	handler := CatalogProducts(stubCatalog{searchErr: catalog.ErrSearchInFlight}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products?q=x", nil))

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
}

func TestCatalogReloadReportsLoadFlags(t *testing.T) {
	loadErr := pkgerrors.Wrap(pkgerrors.CodeDependency, errors.New("timeout"), "Erro ao carregar usuários")
	handler := CatalogReload(stubCatalog{reloadErr: loadErr, state: catalog.LoadState{Products: true, PaymentTerms: true}}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/catalog/reload", nil))

	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 got %d", resp.Code)
	}
	var body types.ErrorEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	details, ok := body.Error.Details.(map[string]any)
	if !ok {
		t.Fatalf("expected details map got %T", body.Error.Details)
	}
	loaded, ok := details["loaded"].(map[string]any)
	if !ok || loaded["users"] != false || loaded["products"] != true {
		t.Fatalf("unexpected load flags %v", details["loaded"])
	}
}

func TestOrderSubmitStatuses(t *testing.T) {
	cases := []struct {
		name   string
		state  enums.SubmissionState
		status int
	}{
		{name: "succeeded", state: enums.SubmissionSucceeded, status: http.StatusCreated},
		{name: "partial", state: enums.SubmissionPartiallyFailed, status: http.StatusOK},
		{name: "failed", state: enums.SubmissionFailed, status: http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubOrders{outcome: &orders.Outcome{State: tc.state, OrderNumber: "0007"}}
			handler := OrderSubmit(svc, nil)

			body := `{"usuario":"1001","prazo":"30D","email":"a@b.co","observacoes":"x"}`
			resp := httptest.NewRecorder()
			handler.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body)))

			if resp.Code != tc.status {
				t.Fatalf("expected %d got %d", tc.status, resp.Code)
			}
			if svc.lastForm.User != "1001" || svc.lastForm.Notes != "x" {
				t.Fatalf("form not decoded: %+v", svc.lastForm)
			}
		})
	}
}

func TestOrderSubmitRejectsUnknownField(t *testing.T) {
	svc := &stubOrders{}
	handler := OrderSubmit(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(`{"cliente":"x"}`)))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestOrderLastReturnsHistory(t *testing.T) {
	svc := &stubOrders{history: storefront.OrderHistory{
		LastNumber: "0007",
		Outcome:    &orders.Outcome{State: enums.SubmissionSucceeded, OrderNumber: "0007"},
	}}
	resp := httptest.NewRecorder()
	OrderLast(svc, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/orders/last", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var env struct {
		Data struct {
			LastNumber string `json:"lastNumber"`
			Outcome    struct {
				State string `json:"state"`
			} `json:"outcome"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Data.LastNumber != "0007" || env.Data.Outcome.State != "succeeded" {
		t.Fatalf("unexpected history %+v", env.Data)
	}
}

func TestNilServicesAreInternalErrors(t *testing.T) {
	handlers := []http.HandlerFunc{
		CatalogBrands(nil, nil),
		CartFetch(nil, nil),
		SelectionUpdate(nil, nil),
		SelectionClear(nil, nil),
		OrderSubmit(nil, nil),
		OrderLast(nil, nil),
	}
	for _, h := range handlers {
		resp := httptest.NewRecorder()
		h.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
		if resp.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500 got %d", resp.Code)
		}
	}
}
