package storage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemDBPutCopiesValue(t *testing.T) {
	db := NewMemDB()
	value := []byte("original")
	require.NoError(t, db.Put([]byte("k"), value))
	value[0] = 'X'

	got, err := db.Get([]byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("original"), got)
}

func TestMemDBGetMissingKey(t *testing.T) {
	db := NewMemDB()
	_, err := db.Get([]byte("absent"))
	require.ErrorIs(t, err, ErrKeyNotFound)
}

func TestBatchWriteAppliesAllOperations(t *testing.T) {
	db := NewMemDB()
	require.NoError(t, db.Put([]byte("stale"), []byte("v")))

	batch := new(Batch)
	batch.Put([]byte("a"), []byte("1"))
	batch.Put([]byte("b"), []byte("2"))
	batch.Delete([]byte("stale"))
	require.Equal(t, 3, batch.Len())

	require.NoError(t, db.Write(batch))

	got, err := db.Get([]byte("a"))
	require.NoError(t, err)
	require.Equal(t, []byte("1"), got)
	got, err = db.Get([]byte("b"))
	require.NoError(t, err)
	require.Equal(t, []byte("2"), got)
	_, err = db.Get([]byte("stale"))
	require.ErrorIs(t, err, ErrKeyNotFound)
}

func TestBatchPreservesOperationOrder(t *testing.T) {
	db := NewMemDB()

	batch := new(Batch)
	batch.Put([]byte("k"), []byte("first"))
	batch.Delete([]byte("k"))
	batch.Put([]byte("k"), []byte("last"))
	require.NoError(t, db.Write(batch))

	got, err := db.Get([]byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("last"), got)
}

func TestBatchCopiesKeysAndValues(t *testing.T) {
	db := NewMemDB()
	key := []byte("k")
	value := []byte("v")

	batch := new(Batch)
	batch.Put(key, value)
	key[0] = 'X'
	value[0] = 'X'
	require.NoError(t, db.Write(batch))

	got, err := db.Get([]byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("v"), got)
}
