// Copyright (c) 2026 The Lockup developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lockuplabs/lockup/lockup"
	"github.com/lockuplabs/lockup/lvldb"
)

func newTestState(t *testing.T) *State {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db)
}

func TestBalance(t *testing.T) {
	st := newTestState(t)
	addr := lockup.BytesToAddress([]byte("acc1"))

	bal, err := st.GetBalance(addr)
	assert.NoError(t, err)
	assert.Equal(t, 0, bal.Sign())

	st.SetBalance(addr, big.NewInt(100))
	bal, err = st.GetBalance(addr)
	assert.NoError(t, err)
	assert.Equal(t, big.NewInt(100), bal)
}

func TestTransfer(t *testing.T) {
	st := newTestState(t)
	from := lockup.BytesToAddress([]byte("from"))
	to := lockup.BytesToAddress([]byte("to"))

	st.SetBalance(from, big.NewInt(10))

	assert.NoError(t, st.Transfer(from, to, big.NewInt(4)))
	assert.Equal(t, big.NewInt(6), mustBalance(t, st, from))
	assert.Equal(t, big.NewInt(4), mustBalance(t, st, to))

	// underflow rejected
	assert.Error(t, st.Transfer(from, to, big.NewInt(7)))
}

func TestStorageRoundTrip(t *testing.T) {
	st := newTestState(t)
	addr := lockup.BytesToAddress([]byte("contract"))
	key := lockup.BytesToBytes32([]byte("key"))
	value := lockup.BytesToBytes32([]byte("value"))

	got, err := st.GetStorage(addr, key)
	assert.NoError(t, err)
	assert.True(t, got.IsZero())

	st.SetStorage(addr, key, value)
	got, err = st.GetStorage(addr, key)
	assert.NoError(t, err)
	assert.Equal(t, value, got)

	st.SetStorage(addr, key, lockup.Bytes32{})
	got, err = st.GetStorage(addr, key)
	assert.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestCheckpointRevert(t *testing.T) {
	st := newTestState(t)
	addr := lockup.BytesToAddress([]byte("acc"))
	key := lockup.BytesToBytes32([]byte("k"))

	st.SetBalance(addr, big.NewInt(1))

	rev := st.NewCheckpoint()
	st.SetBalance(addr, big.NewInt(2))
	st.SetStorage(addr, key, lockup.BytesToBytes32([]byte("v")))
	st.RevertTo(rev)

	assert.Equal(t, big.NewInt(1), mustBalance(t, st, addr))
	got, err := st.GetStorage(addr, key)
	assert.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestCommitPersists(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	st := New(db)
	addr := lockup.BytesToAddress([]byte("acc"))
	key := lockup.BytesToBytes32([]byte("k"))
	value := lockup.BytesToBytes32([]byte("v"))

	st.SetBalance(addr, big.NewInt(42))
	st.SetStorage(addr, key, value)
	require.NoError(t, st.Commit())

	// a fresh state over the same db sees committed records
	st2 := New(db)
	assert.Equal(t, big.NewInt(42), mustBalance(t, st2, addr))
	got, err := st2.GetStorage(addr, key)
	assert.NoError(t, err)
	assert.Equal(t, value, got)
}

func mustBalance(t *testing.T, st *State, addr lockup.Address) *big.Int {
	bal, err := st.GetBalance(addr)
	require.NoError(t, err)
	return bal
}
