// Copyright (c) 2026 The Lockup developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lvldb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lockuplabs/lockup/kv"
)

func TestMemGetPut(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	key := []byte("key")

	_, err = db.Get(key)
	assert.True(t, db.IsNotFound(err))

	has, err := db.Has(key)
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, db.Put(key, []byte("value")))
	value, err := db.Get(key)
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), value)

	require.NoError(t, db.Delete(key))
	_, err = db.Get(key)
	assert.True(t, db.IsNotFound(err))
}

func TestBatch(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	batch := db.NewBatch()
	require.NoError(t, batch.Put([]byte("a"), []byte("1")))
	require.NoError(t, batch.Put([]byte("b"), []byte("2")))
	require.NoError(t, batch.Delete([]byte("a")))
	assert.Equal(t, 3, batch.Len())
	require.NoError(t, batch.Write())

	_, err = db.Get([]byte("a"))
	assert.True(t, db.IsNotFound(err))
	value, err := db.Get([]byte("b"))
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), value)
}

func TestIterator(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Put([]byte("p/a"), []byte("1")))
	require.NoError(t, db.Put([]byte("p/b"), []byte("2")))
	require.NoError(t, db.Put([]byte("q/c"), []byte("3")))

	it := db.NewIterator(kv.Range{From: []byte("p/"), To: []byte("p0")})
	defer it.Release()

	var keys []string
	for it.Next() {
		keys = append(keys, string(it.Key()))
	}
	require.NoError(t, it.Error())
	assert.Equal(t, []string{"p/a", "p/b"}, keys)
}

func TestPersistence(t *testing.T) {
	dir := t.TempDir()

	db, err := New(dir, Options{})
	require.NoError(t, err)
	require.NoError(t, db.Put([]byte("key"), []byte("value")))
	require.NoError(t, db.Close())

	db, err = New(dir, Options{})
	require.NoError(t, err)
	defer db.Close()

	value, err := db.Get([]byte("key"))
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), value)
}
