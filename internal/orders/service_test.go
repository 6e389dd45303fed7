package orders

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lanort/pedidos/internal/catalog"
	"github.com/lanort/pedidos/pkg/enums"
	pkgerrors "github.com/lanort/pedidos/pkg/errors"
	"github.com/lanort/pedidos/pkg/logger"
	"github.com/lanort/pedidos/pkg/metrics"
	"github.com/lanort/pedidos/pkg/sheetapi"
	"github.com/lanort/pedidos/pkg/storage"
)

func newTestService(t *testing.T, f *fixture, strategy Strategy, opts ...ServiceOption) *Service {
	t.Helper()
	svc, err := NewService(strategy, f.cart, f.catalog, f.seq, logger.Nop(), opts...)
	require.NoError(t, err)
	return svc
}

func TestAggregatedSuccessClearsCart(t *testing.T) {
	f := newFixture(t, catalog.Product{Code: "A1", Description: "Álcool", UnitPrice: 10.00, Stock: 10})
	f.add(t, "A1", 2)
	client := &stubClient{}
	svc := newTestService(t, f, NewAggregated(client, false, false))

	last, err := svc.LastNumber(context.Background())
	require.NoError(t, err)
	assert.Empty(t, last)
	assert.Nil(t, svc.LastOutcome())

	outcome, err := svc.Submit(context.Background(), validForm())
	require.NoError(t, err)
	assert.Equal(t, enums.SubmissionSucceeded, outcome.State)
	assert.Equal(t, "0001", outcome.OrderNumber)
	assert.Equal(t, "✅ Pedido 0001 finalizado com 1 item(ns)!", outcome.Message)

	assert.Zero(t, f.cart.Len())
	raw, err := f.kv.Get(context.Background(), storage.CartKey)
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)

	sent := client.form(0)
	assert.Equal(t, "1001 - Mercado Central", sent.Get("usuario"))
	assert.Equal(t, "30D - 30 dias", sent.Get("prazo"))
	assert.Equal(t, `[{"codigo":"A1","descricao":"Álcool","quantidade":2,"valorUnitario":10,"valorTotal":20}]`, sent.Get("itens"))
	assert.Equal(t, enums.SubmissionIdle, svc.State())
	assert.Equal(t, enums.SubmissionSucceeded, svc.LastOutcome().State)
	last, err = svc.LastNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0001", last)
}

func TestSequentialPartialFailureKeepsUnsentTail(t *testing.T) {
	f := newFixture(t,
		catalog.Product{Code: "A1", UnitPrice: 1, Stock: 10},
		catalog.Product{Code: "B2", UnitPrice: 2, Stock: 10},
		catalog.Product{Code: "C3", UnitPrice: 3, Stock: 10},
	)
	f.add(t, "A1", 1)
	f.add(t, "B2", 1)
	f.add(t, "C3", 1)
	client := &stubClient{respond: func(call int, _ url.Values) (*sheetapi.SubmitResult, error) {
		if call == 2 {
			return nil, errors.New("Erro HTTP: 500")
		}
		return &sheetapi.SubmitResult{Success: true}, nil
	}}
	reg := prometheus.NewRegistry()
	svc := newTestService(t, f, NewSequential(client, 0, nil, nil), WithMetrics(metrics.NewPipeline(reg)))

	outcome, err := svc.Submit(context.Background(), validForm())
	require.NoError(t, err)
	assert.Equal(t, enums.SubmissionPartiallyFailed, outcome.State)
	assert.Equal(t, 1, outcome.Failed)

	items := f.cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "C3", items[0].Code)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)
}

func TestSubmitValidationMakesNoNetworkCall(t *testing.T) {
	f := newFixture(t, catalog.Product{Code: "A1", UnitPrice: 1, Stock: 10})
	f.add(t, "A1", 1)
	client := &stubClient{}
	svc := newTestService(t, f, NewAggregated(client, false, false))

	_, err := svc.Submit(context.Background(), Form{User: "1001", PaymentTerm: "30D", Email: "invalido"})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Zero(t, client.calls())
	assert.Equal(t, 1, f.cart.Len())
	assert.Equal(t, enums.SubmissionIdle, svc.State())

	current, err := f.seq.Current(context.Background())
	require.NoError(t, err)
	assert.Zero(t, current)
}

func TestSubmitEmptyCart(t *testing.T) {
	f := newFixture(t)
	client := &stubClient{}
	svc := newTestService(t, f, NewAggregated(client, false, false))

	_, err := svc.Submit(context.Background(), validForm())
	require.Error(t, err)
	assert.Equal(t, "O carrinho está vazio!", pkgerrors.As(err).Message())
	assert.Zero(t, client.calls())
}

func TestSubmitFailureLeavesCart(t *testing.T) {
	f := newFixture(t, catalog.Product{Code: "A1", UnitPrice: 1, Stock: 10})
	f.add(t, "A1", 1)
	client := &stubClient{respond: func(int, url.Values) (*sheetapi.SubmitResult, error) {
		return &sheetapi.SubmitResult{Success: false, Error: "planilha bloqueada"}, nil
	}}
	svc := newTestService(t, f, NewAggregated(client, false, false))

	outcome, err := svc.Submit(context.Background(), validForm())
	require.NoError(t, err)
	assert.Equal(t, enums.SubmissionFailed, outcome.State)
	assert.Equal(t, "Erro ao salvar pedido: planilha bloqueada", outcome.Message)
	assert.Equal(t, 1, f.cart.Len())
}

func TestSubmitTransportErrorReturnsToIdle(t *testing.T) {
	f := newFixture(t, catalog.Product{Code: "A1", UnitPrice: 1, Stock: 10})
	f.add(t, "A1", 1)
	client := &stubClient{respond: func(int, url.Values) (*sheetapi.SubmitResult, error) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, errors.New("dial tcp: timeout"), "execute submit request")
	}}
	svc := newTestService(t, f, NewAggregated(client, false, false))

	outcome, err := svc.Submit(context.Background(), validForm())
	require.Error(t, err)
	assert.Nil(t, outcome)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
	assert.Equal(t, "Erro ao salvar pedido: dial tcp: timeout", pkgerrors.As(err).Message())
	assert.Equal(t, 1, f.cart.Len())
	assert.Equal(t, enums.SubmissionIdle, svc.State())
}

func TestSubmitRejectsConcurrentSubmission(t *testing.T) {
	f := newFixture(t, catalog.Product{Code: "A1", UnitPrice: 1, Stock: 10})
	f.add(t, "A1", 1)
	client := &stubClient{}
	svc := newTestService(t, f, NewAggregated(client, false, false))
	svc.transition(enums.SubmissionSubmitting)

	_, err := svc.Submit(context.Background(), validForm())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))
	assert.Zero(t, client.calls())
	assert.Equal(t, enums.SubmissionSubmitting, svc.State())
}

func TestUnknownReferencesSendEmptyText(t *testing.T) {
	f := newFixture(t, catalog.Product{Code: "A1", UnitPrice: 1, Stock: 10})
	f.add(t, "A1", 1)
	client := &stubClient{}
	svc := newTestService(t, f, NewAggregated(client, false, false))

	_, err := svc.Submit(context.Background(), Form{User: "9999", PaymentTerm: "XX", Email: "a@b.co"})
	require.NoError(t, err)
	assert.Equal(t, "", client.form(0).Get("usuario"))
	assert.Equal(t, "", client.form(0).Get("prazo"))
}
