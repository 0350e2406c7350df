// Copyright (c) 2026 The Lockup developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package slot

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lockuplabs/lockup/lockup"
	"github.com/lockuplabs/lockup/lvldb"
	"github.com/lockuplabs/lockup/state"
)

func newTestContext(t *testing.T) *Context {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewContext(lockup.BytesToAddress([]byte("contract")), state.New(db))
}

type record struct {
	Amount *big.Int
	Flag   bool
}

func TestMapping(t *testing.T) {
	ctx := newTestContext(t)
	m := NewMapping[lockup.Address, *record](ctx, lockup.BytesToBytes32([]byte("records")))

	key := lockup.BytesToAddress([]byte("key"))

	// empty read yields zero value
	got, err := m.Get(key)
	assert.NoError(t, err)
	assert.Equal(t, &record{}, got)

	require.NoError(t, m.Set(key, &record{Amount: big.NewInt(7), Flag: true}))
	got, err = m.Get(key)
	assert.NoError(t, err)
	assert.Equal(t, big.NewInt(7), got.Amount)
	assert.True(t, got.Flag)

	require.NoError(t, m.Clear(key))
	got, err = m.Get(key)
	assert.NoError(t, err)
	assert.Equal(t, &record{}, got)
}

func TestUint256(t *testing.T) {
	ctx := newTestContext(t)
	u := NewUint256(ctx, lockup.BytesToBytes32([]byte("counter")))

	v, err := u.Get()
	assert.NoError(t, err)
	assert.Equal(t, 0, v.Sign())

	assert.NoError(t, u.Add(big.NewInt(10)))
	assert.NoError(t, u.Sub(big.NewInt(3)))

	v, err = u.Get()
	assert.NoError(t, err)
	assert.Equal(t, big.NewInt(7), v)
}

func TestAddressSlot(t *testing.T) {
	ctx := newTestContext(t)
	a := NewAddress(ctx, lockup.BytesToBytes32([]byte("owner")))

	addr, err := a.Get()
	assert.NoError(t, err)
	assert.True(t, addr.IsZero())

	owner := lockup.BytesToAddress([]byte("the-owner"))
	a.Set(&owner)
	addr, err = a.Get()
	assert.NoError(t, err)
	assert.Equal(t, owner, addr)

	a.Set(nil)
	addr, err = a.Get()
	assert.NoError(t, err)
	assert.True(t, addr.IsZero())
}

func TestList(t *testing.T) {
	ctx := newTestContext(t)
	l := NewList[*big.Int](ctx, lockup.BytesToBytes32([]byte("items")))

	n, err := l.Len()
	assert.NoError(t, err)
	assert.Zero(t, n)

	idx, err := l.Append(big.NewInt(3))
	require.NoError(t, err)
	assert.Equal(t, uint64(0), idx)
	idx, err = l.Append(big.NewInt(18))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), idx)

	all, err := l.All()
	assert.NoError(t, err)
	assert.Equal(t, []*big.Int{big.NewInt(3), big.NewInt(18)}, all)

	require.NoError(t, l.Clear())
	n, err = l.Len()
	assert.NoError(t, err)
	assert.Zero(t, n)
}
