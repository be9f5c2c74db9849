package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/service-catalog/internal/model"
	"github.com/deppfellow/service-catalog/internal/store"
)

type stubSource struct {
	data  []byte
	err   error
	calls int
}

func (s *stubSource) Fetch(ctx context.Context) ([]byte, error) {
	s.calls++
	return s.data, s.err
}

const bootstrapDoc = `[{"id":1,"nombre":"Corte","precio":10,"descripcion":"","cantidad":5}]`

func TestLoad_BootstrapsAndPersists(t *testing.T) {
	ctx := context.Background()
	slot := store.NewMemorySlot()
	source := &stubSource{data: []byte(bootstrapDoc)}
	repo := NewServiceRepository(slot, source, nil)

	services, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, services, 1)
	assert.Equal(t, "Corte", services[0].Name)
	assert.Equal(t, 1, source.calls)

	persisted, err := slot.Get(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, bootstrapDoc, string(persisted))

	// Second load reads the slot, not the bootstrap source.
	_, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, source.calls)
}

func TestLoad_PrefersPersistedCopy(t *testing.T) {
	ctx := context.Background()
	slot := store.NewMemorySlot()
	require.NoError(t, slot.Put(ctx, []byte(`[{"id":9,"nombre":"Tinte","precio":30,"cantidad":1}]`)))
	source := &stubSource{data: []byte(bootstrapDoc)}

	services, err := NewServiceRepository(slot, source, nil).Load(ctx)
	require.NoError(t, err)
	require.Len(t, services, 1)
	assert.Equal(t, 9, services[0].ID)
	assert.Zero(t, source.calls)
}

func TestLoad_NullSlotBootstraps(t *testing.T) {
	ctx := context.Background()
	slot := store.NewMemorySlot()
	require.NoError(t, slot.Put(ctx, []byte("null")))
	source := &stubSource{data: []byte(bootstrapDoc)}

	services, err := NewServiceRepository(slot, source, nil).Load(ctx)
	require.NoError(t, err)
	assert.Len(t, services, 1)
	assert.Equal(t, 1, source.calls)
}

func TestLoad_BootstrapFetchFails(t *testing.T) {
	slot := store.NewMemorySlot()
	source := &stubSource{err: errors.New("connection refused")}

	_, err := NewServiceRepository(slot, source, nil).Load(context.Background())
	require.Error(t, err)

	_, err = slot.Get(context.Background())
	assert.ErrorIs(t, err, store.ErrEmpty, "nothing persisted on failure")
}

func TestLoad_BootstrapNotJSON(t *testing.T) {
	source := &stubSource{data: []byte("<html>")}

	_, err := NewServiceRepository(store.NewMemorySlot(), source, nil).Load(context.Background())
	assert.Error(t, err)
}

func TestLoad_CorruptSlotIsAnError(t *testing.T) {
	ctx := context.Background()
	slot := store.NewMemorySlot()
	require.NoError(t, slot.Put(ctx, []byte("{broken")))
	source := &stubSource{data: []byte(bootstrapDoc)}

	_, err := NewServiceRepository(slot, source, nil).Load(ctx)
	require.Error(t, err)
	assert.Zero(t, source.calls)
}

func TestPersistThenLoad_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewServiceRepository(store.NewMemorySlot(), &stubSource{err: errors.New("unused")}, nil)

	want := model.Services{
		{ID: 3, Name: "Lavado", Price: decimal.NewFromInt(5), Description: "Lavado simple", Quantity: 3},
		{ID: 1, Name: "Corte", Price: decimal.RequireFromString("10.25"), Quantity: 5},
	}
	require.NoError(t, repo.Persist(ctx, want))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for i := range want {
		assert.Equal(t, want[i].ID, got[i].ID)
		assert.Equal(t, want[i].Name, got[i].Name)
		assert.True(t, want[i].Price.Equal(got[i].Price))
		assert.Equal(t, want[i].Description, got[i].Description)
		assert.Equal(t, want[i].Quantity, got[i].Quantity)
	}
}

func TestStored_EmptySlot(t *testing.T) {
	_, ok, err := NewServiceRepository(store.NewMemorySlot(), nil, nil).Stored(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	slot := store.NewMemorySlot()
	repo := NewServiceRepository(slot, nil, nil)
	require.NoError(t, repo.Persist(ctx, model.Services{}))

	require.NoError(t, repo.Reset(ctx))
	_, ok, err := repo.Stored(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}
