// Copyright (c) 2026 The Lockup developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package slot

import (
	"github.com/lockuplabs/lockup/lockup"
)

// Address is a wrapper for storage and retrieval of an address. Similar to
// storing an address in a smart contract.
type Address struct {
	context *Context
	pos     lockup.Bytes32
}

func NewAddress(context *Context, pos lockup.Bytes32) *Address {
	return &Address{context: context, pos: pos}
}

func (a *Address) Get() (lockup.Address, error) {
	storage, err := a.context.state.GetStorage(a.context.address, a.pos)
	if err != nil {
		return lockup.Address{}, err
	}
	return lockup.BytesToAddress(storage.Bytes()), nil
}

func (a *Address) Set(addr *lockup.Address) {
	var storage lockup.Bytes32
	if addr != nil {
		storage = lockup.BytesToBytes32(addr.Bytes())
	}
	a.context.state.SetStorage(a.context.address, a.pos, storage)
}
