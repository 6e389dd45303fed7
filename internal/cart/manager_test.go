package cart

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lanort/pedidos/internal/catalog"
	pkgerrors "github.com/lanort/pedidos/pkg/errors"
	"github.com/lanort/pedidos/pkg/logger"
	"github.com/lanort/pedidos/pkg/storage"
)

type stubLookup map[string]catalog.Product

func (s stubLookup) Product(code string) (catalog.Product, bool) {
	p, ok := s[code]
	return p, ok
}

type failingKV struct {
	*storage.Memory
	failSet bool
}

func (f *failingKV) Set(ctx context.Context, key, value string) error {
	if f.failSet {
		return errors.New("disk full")
	}
	return f.Memory.Set(ctx, key, value)
}

func testLookup() stubLookup {
	return stubLookup{
		"A1": {Code: "A1", Brand: "ACME", Description: "Álcool 200ml", UnitPrice: 10, Stock: 5, ImageURL: "a1.png"},
		"B2": {Code: "B2", Brand: "LANORT", Description: "Detergente", UnitPrice: 4.59, Stock: 10},
		"Z0": {Code: "Z0", Description: "Esgotado", UnitPrice: 3, Stock: 0},
	}
}

func newTestManager(t *testing.T) (*Manager, *storage.Memory) {
	t.Helper()
	kv := storage.NewMemory()
	m, err := NewManager(kv, testLookup(), logger.Nop())
	require.NoError(t, err)
	return m, kv
}

func storedItems(t *testing.T, kv storage.KeyValue) []Item {
	t.Helper()
	raw, err := kv.Get(context.Background(), storage.CartKey)
	require.NoError(t, err)
	var items []Item
	require.NoError(t, json.Unmarshal([]byte(raw), &items))
	return items
}

func TestAddZeroQuantityLeavesCartUnchanged(t *testing.T) {
	m, kv := newTestManager(t)
	ctx := context.Background()
	_, err := m.Add(ctx, "A1", 1)
	require.NoError(t, err)

	_, err = m.Add(ctx, "A1", 0)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Equal(t, "Selecione uma quantidade maior que zero!", pkgerrors.As(err).Message())

	items := m.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)
	assert.Equal(t, items, storedItems(t, kv))
}

func TestAddRejections(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	_, err := m.Add(ctx, "NOPE", 1)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	assert.Equal(t, "Produto não encontrado!", pkgerrors.As(err).Message())

	_, err = m.Add(ctx, "Z0", 1)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
	assert.Equal(t, "Produto sem estoque disponível!", pkgerrors.As(err).Message())

	_, err = m.Add(ctx, "A1", 6)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
	assert.Equal(t, "Quantidade solicitada (6) maior que estoque disponível (5)!", pkgerrors.As(err).Message())

	assert.Zero(t, m.Len())
}

func TestAddMergesAndRejectsMergedOverflow(t *testing.T) {
	m, kv := newTestManager(t)
	ctx := context.Background()

	_, err := m.Add(ctx, "A1", 2)
	require.NoError(t, err)
	item, err := m.Add(ctx, "A1", 2)
	require.NoError(t, err)
	assert.Equal(t, 4, item.Quantity)
	assert.Equal(t, 40.0, item.LineTotal)
	assert.True(t, item.HasImage)

	_, err = m.Add(ctx, "A1", 2)
	require.Error(t, err)
	assert.Equal(t, "Quantidade total no carrinho (6) maior que estoque disponível (5)!", pkgerrors.As(err).Message())

	items := storedItems(t, kv)
	require.Len(t, items, 1)
	assert.Equal(t, 4, items[0].Quantity)
}

func TestRemoveOnlyItemEmptiesCart(t *testing.T) {
	m, kv := newTestManager(t)
	ctx := context.Background()
	_, err := m.Add(ctx, "B2", 3)
	require.NoError(t, err)
	assert.True(t, m.Summary().Visible)

	require.NoError(t, m.Remove(ctx, 0))

	assert.Zero(t, m.Len())
	summary := m.Summary()
	assert.False(t, summary.Visible)
	assert.Zero(t, summary.Lines)
	assert.Equal(t, "0,00", summary.FormattedTotal)
	raw, err := kv.Get(ctx, storage.CartKey)
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)
}

func TestRemoveOutOfRange(t *testing.T) {
	m, _ := newTestManager(t)
	err := m.Remove(context.Background(), 0)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestAdjustClampsAndRemoves(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()
	_, err := m.Add(ctx, "A1", 3)
	require.NoError(t, err)

	res, err := m.Adjust(ctx, 0, 10)
	require.NoError(t, err)
	assert.True(t, res.Clamped)
	assert.Equal(t, "Quantidade não pode ser maior que o estoque disponível (5)!", res.Message)
	assert.Equal(t, 5, res.Item.Quantity)
	assert.Equal(t, 50.0, res.Item.LineTotal)

	res, err = m.SetQuantity(ctx, 0, 2)
	require.NoError(t, err)
	assert.False(t, res.Clamped)
	assert.Equal(t, 20.0, res.Item.LineTotal)

	res, err = m.Adjust(ctx, 0, -2)
	require.NoError(t, err)
	assert.True(t, res.Removed)
	assert.Zero(t, m.Len())
}

func TestSummaryTotals(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()
	_, err := m.Add(ctx, "B2", 3)
	require.NoError(t, err)
	_, err = m.Add(ctx, "A1", 1)
	require.NoError(t, err)

	summary := m.Summary()
	assert.Equal(t, 2, summary.Lines)
	assert.Equal(t, 23.77, summary.Total)
	assert.Equal(t, "23,77", summary.FormattedTotal)
}

func TestDropSentKeepsUnsentTail(t *testing.T) {
	m, kv := newTestManager(t)
	ctx := context.Background()
	for _, code := range []string{"A1", "B2"} {
		_, err := m.Add(ctx, code, 1)
		require.NoError(t, err)
	}

	require.NoError(t, m.DropSent(ctx, 1))
	items := m.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "B2", items[0].Code)
	assert.Equal(t, items, storedItems(t, kv))

	require.NoError(t, m.DropSent(ctx, 5))
	assert.Zero(t, m.Len())
}

func TestFailedPersistLeavesCartUnchanged(t *testing.T) {
	kv := &failingKV{Memory: storage.NewMemory()}
	m, err := NewManager(kv, testLookup(), logger.Nop())
	require.NoError(t, err)
	ctx := context.Background()
	_, err = m.Add(ctx, "A1", 1)
	require.NoError(t, err)

	kv.failSet = true
	_, err = m.Add(ctx, "B2", 1)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
	require.Error(t, m.Clear(ctx))
	assert.Equal(t, 1, m.Len())
}

func TestRestore(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	require.NoError(t, kv.Set(ctx, storage.CartKey, `[{"codigo":"A1","precoUnitario":10,"quantidade":2,"valorTotal":999}]`))

	m, err := NewManager(kv, testLookup(), logger.Nop())
	require.NoError(t, err)
	require.NoError(t, m.Restore(ctx))
	items := m.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 20.0, items[0].LineTotal)

	require.NoError(t, kv.Set(ctx, storage.CartKey, `{not json`))
	require.NoError(t, m.Restore(ctx))
	assert.Zero(t, m.Len())
}
