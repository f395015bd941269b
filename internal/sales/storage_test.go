package sales

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSale(id string) *Sale {
	return &Sale{
		ID:         id,
		CustomerID: 7,
		ProductID:  1,
		Quantity:   2,
		TotalPrice: decimal.NewFromInt(200),
		CreatedAt:  time.Now().UTC().Truncate(time.Millisecond),
	}
}

func TestLocalStorage(t *testing.T) {
	storage := NewLocalStorage()

	err := storage.Set(&Sale{})
	assert.ErrorIs(t, err, ErrEmptyID)

	_, err = storage.Read("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	sale := sampleSale("s-1")
	require.NoError(t, storage.Set(sale))

	got, err := storage.Read("s-1")
	require.NoError(t, err)
	assert.Equal(t, sale, got)

	require.NoError(t, storage.Set(sampleSale("s-2")))
	all, err := storage.GetAll()
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestBoltStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.db")

	storage, err := NewBoltStorage(path)
	require.NoError(t, err)
	defer storage.Close()

	err = storage.Set(&Sale{})
	assert.ErrorIs(t, err, ErrEmptyID)

	_, err = storage.Read("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	sale := sampleSale("s-1")
	require.NoError(t, storage.Set(sale))

	got, err := storage.Read("s-1")
	require.NoError(t, err)
	assert.Equal(t, sale.ID, got.ID)
	assert.Equal(t, sale.CustomerID, got.CustomerID)
	assert.Equal(t, sale.Quantity, got.Quantity)
	assert.True(t, sale.TotalPrice.Equal(got.TotalPrice))
	assert.True(t, sale.CreatedAt.Equal(got.CreatedAt))

	require.NoError(t, storage.Set(sampleSale("s-2")))
	all, err := storage.GetAll()
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

// Sales survive a close/reopen cycle of the database file.
func TestBoltStorage_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.db")

	storage, err := NewBoltStorage(path)
	require.NoError(t, err)
	require.NoError(t, storage.Set(sampleSale("s-1")))
	require.NoError(t, storage.Close())

	reopened, err := NewBoltStorage(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Read("s-1")
	require.NoError(t, err)
	assert.Equal(t, "s-1", got.ID)
}
