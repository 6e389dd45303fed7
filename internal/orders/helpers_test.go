package orders

import (
	"context"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lanort/pedidos/internal/cart"
	"github.com/lanort/pedidos/internal/catalog"
	"github.com/lanort/pedidos/pkg/logger"
	"github.com/lanort/pedidos/pkg/sheetapi"
	"github.com/lanort/pedidos/pkg/storage"
)

type stubClient struct {
	mu       sync.Mutex
	forms    []url.Values
	respond  func(call int, form url.Values) (*sheetapi.SubmitResult, error)
	version  float64
	probeErr error
}

func (s *stubClient) Submit(_ context.Context, form url.Values) (*sheetapi.SubmitResult, error) {
	s.mu.Lock()
	s.forms = append(s.forms, form)
	call := len(s.forms)
	s.mu.Unlock()
	if s.respond == nil {
		return &sheetapi.SubmitResult{Success: true}, nil
	}
	return s.respond(call, form)
}

func (s *stubClient) Probe(context.Context) (float64, error) {
	return s.version, s.probeErr
}

func (s *stubClient) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.forms)
}

func (s *stubClient) form(i int) url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.forms[i]
}

type fixture struct {
	kv      *storage.Memory
	catalog *catalog.Store
	cart    *cart.Manager
	seq     *Sequence
}

func newFixture(t *testing.T, products ...catalog.Product) *fixture {
	t.Helper()
	kv := storage.NewMemory()
	store := catalog.NewStore()
	store.SetProducts(products, true)
	store.SetUsers([]catalog.User{{Code: "1001", Name: "Mercado Central"}}, true)
	store.SetPaymentTerms([]catalog.PaymentTerm{{Type: "30D", Description: "30 dias"}}, true)
	manager, err := cart.NewManager(kv, store, logger.Nop())
	require.NoError(t, err)
	return &fixture{kv: kv, catalog: store, cart: manager, seq: NewSequence(kv)}
}

func (f *fixture) add(t *testing.T, code string, qty int) {
	t.Helper()
	_, err := f.cart.Add(context.Background(), code, qty)
	require.NoError(t, err)
}

func validForm() Form {
	return Form{User: "1001", PaymentTerm: "30D", Email: "compras@mercado.com.br", Notes: "entregar pela manhã"}
}
