// Copyright (c) 2026 The Lockup developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package slot

import (
	"encoding/binary"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/lockuplabs/lockup/lockup"
)

// List is an insertion-ordered collection in contract storage.
// Items are RLP encoded at positions derived from the base slot and the
// item index, with the length kept in the base slot itself.
type List[V any] struct {
	context *Context
	basePos lockup.Bytes32
	length  *Uint256
}

func NewList[V any](context *Context, pos lockup.Bytes32) *List[V] {
	return &List[V]{
		context: context,
		basePos: pos,
		length:  NewUint256(context, pos),
	}
}

// Len returns the number of items.
func (l *List[V]) Len() (uint64, error) {
	n, err := l.length.Get()
	if err != nil {
		return 0, err
	}
	return n.Uint64(), nil
}

func (l *List[V]) itemPos(i uint64) lockup.Bytes32 {
	var idx [8]byte
	binary.BigEndian.PutUint64(idx[:], i)
	return lockup.Blake2b(l.basePos.Bytes(), idx[:])
}

// Append adds an item at the end of the list and returns its index.
func (l *List[V]) Append(value V) (uint64, error) {
	n, err := l.Len()
	if err != nil {
		return 0, err
	}
	if err := l.context.state.EncodeStorage(l.context.address, l.itemPos(n), func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	}); err != nil {
		return 0, err
	}
	l.length.Set(new(big.Int).SetUint64(n + 1))
	return n, nil
}

// Get returns the item at the given index.
// Indexes are never out of bounds checked against storage, the caller
// is expected to validate against Len.
func (l *List[V]) Get(i uint64) (value V, err error) {
	err = l.context.state.DecodeStorage(l.context.address, l.itemPos(i), func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &value)
	})
	return
}

// Set overwrites the item at the given index. The index must be below
// Len, the length is left untouched.
func (l *List[V]) Set(i uint64, value V) error {
	return l.context.state.EncodeStorage(l.context.address, l.itemPos(i), func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	})
}

// All returns every item in insertion order.
func (l *List[V]) All() ([]V, error) {
	n, err := l.Len()
	if err != nil {
		return nil, err
	}
	items := make([]V, 0, n)
	for i := uint64(0); i < n; i++ {
		item, err := l.Get(i)
		if err != nil {
			return nil, errors.Wrap(err, "list item")
		}
		items = append(items, item)
	}
	return items, nil
}

// Clear removes every item and resets the length.
func (l *List[V]) Clear() error {
	n, err := l.Len()
	if err != nil {
		return err
	}
	for i := uint64(0); i < n; i++ {
		if err := l.context.state.EncodeStorage(l.context.address, l.itemPos(i), func() ([]byte, error) {
			return nil, nil
		}); err != nil {
			return err
		}
	}
	l.length.Set(new(big.Int))
	return nil
}
