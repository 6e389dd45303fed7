package bootstrap

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lanort/pedidos/internal/orders"
	"github.com/lanort/pedidos/pkg/config"
	"github.com/lanort/pedidos/pkg/enums"
	"github.com/lanort/pedidos/pkg/logger"
	"github.com/lanort/pedidos/pkg/storage"
)

type fakeSheet struct {
	mu    sync.Mutex
	posts []url.Values
}

func (f *fakeSheet) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodPost {
			_ = r.ParseForm()
			f.mu.Lock()
			f.posts = append(f.posts, r.PostForm)
			f.mu.Unlock()
			_, _ = io.WriteString(w, `{"sucesso":true}`)
			return
		}
		switch r.URL.Query().Get("recurso") {
		case "produtos":
			_, _ = io.WriteString(w, `{"sucesso":true,"dados":[{"Código":"A1","Marca":"ACME","Descrição":"Álcool 200ml","Preço":"10,00","Estoque":5}]}`)
		case "usuarios":
			_, _ = io.WriteString(w, `[{"Cód. Parceiro":"1001","Nome Parceiro":"Mercado Central"}]`)
		case "prazos":
			_, _ = io.WriteString(w, `{"dados":[{"Tipo de Negociação":"30D","Descrição":"30 dias"}]}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func (f *fakeSheet) postCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.posts)
}

func testConfig(apiURL string) *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: config.AppEnvDev, LogLevel: "debug"},
		API: config.APIConfig{URL: apiURL, Timeout: 5 * time.Second, ProbeTimeout: time.Second},
		Catalog: config.CatalogConfig{
			PageSize:        10000,
			Debounce:        10 * time.Millisecond,
			SynthesizeStock: true,
		},
		Orders: config.OrdersConfig{
			Strategy:         "aggregated",
			Numbering:        config.NumberingClient,
			VersionThreshold: 2,
		},
		Storage: config.StorageConfig{Driver: "memory", Namespace: "test"},
		Metrics: config.MetricsConfig{Enabled: true},
	}
}

func TestBuildWiresEndToEndOrder(t *testing.T) {
	sheet := &fakeSheet{}
	server := httptest.NewServer(sheet.handler(t))
	defer server.Close()

	ctx := context.Background()
	app, err := Build(ctx, testConfig(server.URL), logger.Nop())
	require.NoError(t, err)
	defer func() { _ = app.Close() }()
	require.NotNil(t, app.Registry)

	require.NoError(t, app.Controller.Start(ctx))
	assert.True(t, app.Controller.LoadState().Ready())
	assert.Equal(t, []string{"ACME"}, app.Controller.Brands())

	_, err = app.Controller.AddToCart(ctx, "A1", 2)
	require.NoError(t, err)

	outcome, err := app.Controller.SubmitOrder(ctx, orders.Form{User: "1001", PaymentTerm: "30D", Email: "a@b.co"})
	require.NoError(t, err)
	assert.Equal(t, enums.SubmissionSucceeded, outcome.State)
	assert.Equal(t, 1, sheet.postCount())
	assert.Empty(t, app.Controller.Cart().Items)

	stored, err := app.Storage.Get(ctx, storage.OrderCounterKey)
	require.NoError(t, err)
	assert.Equal(t, "1", stored)

	mfs, err := app.Registry.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)
}

func TestOpenStorageDrivers(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig("http://sheet.test")

	kv, closeFn, err := OpenStorage(ctx, cfg, logger.Nop())
	require.NoError(t, err)
	assert.IsType(t, &storage.Memory{}, kv)
	require.NoError(t, closeFn())

	cfg.Storage.Driver = "sqlite"
	cfg.Storage.DSN = "file:bootstrap_open?mode=memory&cache=shared"
	kv, closeFn, err = OpenStorage(ctx, cfg, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, kv.Set(ctx, storage.CartKey, "[]"))
	got, err := kv.Get(ctx, storage.CartKey)
	require.NoError(t, err)
	assert.Equal(t, "[]", got)
	require.NoError(t, closeFn())

	cfg.Storage.Driver = "floppy"
	_, _, err = OpenStorage(ctx, cfg, logger.Nop())
	require.Error(t, err)
}
