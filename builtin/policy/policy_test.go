// Copyright (c) 2026 The Lockup developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lockuplabs/lockup/builtin/slot"
	"github.com/lockuplabs/lockup/lockup"
	"github.com/lockuplabs/lockup/lvldb"
	"github.com/lockuplabs/lockup/state"
)

func newTestSet(t *testing.T) *Set {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(slot.NewContext(lockup.BytesToAddress([]byte("policy")), state.New(db)))
}

func TestReplaceAndContains(t *testing.T) {
	set := newTestSet(t)

	size, err := set.Replace([]uint32{3, 6, 12, 18})
	require.NoError(t, err)
	assert.Equal(t, uint64(4), size)

	for _, period := range []uint32{3, 6, 12, 18} {
		ok, err := set.Contains(period)
		assert.NoError(t, err)
		assert.True(t, ok, "period %d", period)
	}
	ok, err := set.Contains(24)
	assert.NoError(t, err)
	assert.False(t, ok)

	all, err := set.All()
	assert.NoError(t, err)
	assert.Equal(t, []uint32{3, 6, 12, 18}, all)
}

func TestReplaceCollapsesDuplicates(t *testing.T) {
	set := newTestSet(t)

	size, err := set.Replace([]uint32{6, 6, 12, 6})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), size)

	all, err := set.All()
	assert.NoError(t, err)
	assert.Equal(t, []uint32{6, 12}, all)
}

func TestReplaceWithEmptyClears(t *testing.T) {
	set := newTestSet(t)

	_, err := set.Replace([]uint32{3, 18})
	require.NoError(t, err)

	size, err := set.Replace(nil)
	require.NoError(t, err)
	assert.Zero(t, size)

	ok, err := set.Contains(18)
	assert.NoError(t, err)
	assert.False(t, ok)

	all, err := set.All()
	assert.NoError(t, err)
	assert.Empty(t, all)
}

func TestReplaceDropsOldMembers(t *testing.T) {
	set := newTestSet(t)

	_, err := set.Replace([]uint32{3, 6})
	require.NoError(t, err)
	_, err = set.Replace([]uint32{12})
	require.NoError(t, err)

	ok, err := set.Contains(3)
	assert.NoError(t, err)
	assert.False(t, ok)

	ok, err = set.Contains(12)
	assert.NoError(t, err)
	assert.True(t, ok)
}
