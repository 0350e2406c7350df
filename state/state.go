// Copyright (c) 2026 The Lockup developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/lockuplabs/lockup/kv"
	"github.com/lockuplabs/lockup/lockup"
)

var (
	balancePrefix = []byte("b/")
	storagePrefix = []byte("s/")
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return "state: " + e.cause.Error()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.cause }

type (
	balanceKey lockup.Address
	storageKey lockup.Bytes32
)

// State manages account balances and contract storage records, layered
// over a kv store through a stacked journal. NewCheckpoint/RevertTo give
// per-call atomicity, Commit persists the journal.
type State struct {
	db kv.GetPutter
	jn *journal
}

// New creates a state object bound to the given kv store.
func New(db kv.GetPutter) *State {
	s := &State{db: db}
	s.jn = newJournal(s.dbGetter)
	s.jn.Push()
	return s
}

// dbGetter implements the journal source, loading records from the kv store.
func (s *State) dbGetter(key any) (any, bool, error) {
	switch k := key.(type) {
	case balanceKey:
		raw, err := s.db.Get(append(balancePrefix, k[:]...))
		if err != nil {
			if s.db.IsNotFound(err) {
				return new(big.Int), true, nil
			}
			return nil, false, err
		}
		return new(big.Int).SetBytes(raw), true, nil
	case storageKey:
		raw, err := s.db.Get(append(storagePrefix, k[:]...))
		if err != nil {
			if s.db.IsNotFound(err) {
				return rlp.RawValue(nil), true, nil
			}
			return nil, false, err
		}
		return rlp.RawValue(raw), true, nil
	}
	return nil, false, errors.Errorf("unexpected state key type %T", key)
}

// GetBalance returns balance for the given account.
func (s *State) GetBalance(addr lockup.Address) (*big.Int, error) {
	v, _, err := s.jn.Get(balanceKey(addr))
	if err != nil {
		return nil, &Error{err}
	}
	return v.(*big.Int), nil
}

// SetBalance sets balance for the given account.
func (s *State) SetBalance(addr lockup.Address, balance *big.Int) {
	s.jn.Put(balanceKey(addr), new(big.Int).Set(balance))
}

// Transfer moves amount from one account to another.
// It fails if the sender's balance is insufficient.
func (s *State) Transfer(from, to lockup.Address, amount *big.Int) error {
	if amount.Sign() == 0 {
		return nil
	}
	fromBal, err := s.GetBalance(from)
	if err != nil {
		return err
	}
	if fromBal.Cmp(amount) < 0 {
		return errors.New("insufficient balance for transfer")
	}
	toBal, err := s.GetBalance(to)
	if err != nil {
		return err
	}
	s.SetBalance(from, new(big.Int).Sub(fromBal, amount))
	s.SetBalance(to, new(big.Int).Add(toBal, amount))
	return nil
}

// storagePosition derives the record key for contract storage.
func storagePosition(addr lockup.Address, key lockup.Bytes32) storageKey {
	return storageKey(lockup.Blake2b(addr.Bytes(), key.Bytes()))
}

// GetRawStorage gets storage value in rlp raw.
func (s *State) GetRawStorage(addr lockup.Address, key lockup.Bytes32) (rlp.RawValue, error) {
	v, _, err := s.jn.Get(storagePosition(addr, key))
	if err != nil {
		return nil, &Error{err}
	}
	return v.(rlp.RawValue), nil
}

// SetRawStorage set storage value in rlp raw.
func (s *State) SetRawStorage(addr lockup.Address, key lockup.Bytes32, raw rlp.RawValue) {
	s.jn.Put(storagePosition(addr, key), raw)
}

// GetStorage returns storage value for the given key.
func (s *State) GetStorage(addr lockup.Address, key lockup.Bytes32) (lockup.Bytes32, error) {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return lockup.Bytes32{}, err
	}
	if len(raw) == 0 {
		return lockup.Bytes32{}, nil
	}
	var v [32]byte
	if err := rlp.DecodeBytes(raw, &v); err != nil {
		return lockup.Bytes32{}, &Error{err}
	}
	return lockup.Bytes32(v), nil
}

// SetStorage sets storage value for the given key.
// Zero value clears the record.
func (s *State) SetStorage(addr lockup.Address, key, value lockup.Bytes32) {
	if value.IsZero() {
		s.SetRawStorage(addr, key, nil)
		return
	}
	v, _ := rlp.EncodeToBytes([32]byte(value))
	s.SetRawStorage(addr, key, v)
}

// EncodeStorage set storage value encoded by given enc method.
// Error returned by enc will be absorbed by State instance.
func (s *State) EncodeStorage(addr lockup.Address, key lockup.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be absorbed by State instance.
func (s *State) DecodeStorage(addr lockup.Address, key lockup.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.jn.Push()
}

// RevertTo reverts state to the checkpoint at the given revision.
func (s *State) RevertTo(revision int) {
	s.jn.PopTo(revision)
}

// Commit flattens the journal into the kv store.
// The journal is reset afterwards.
func (s *State) Commit() error {
	batch := s.db.NewBatch()
	// later writes of the same key override earlier ones
	final := make(map[any]any)
	for _, entry := range s.jn.Journal() {
		final[entry.key] = entry.value
	}
	for key, value := range final {
		switch k := key.(type) {
		case balanceKey:
			bal := value.(*big.Int)
			dbKey := append(balancePrefix, k[:]...)
			if bal.Sign() == 0 {
				if err := batch.Delete(dbKey); err != nil {
					return &Error{err}
				}
			} else if err := batch.Put(dbKey, bal.Bytes()); err != nil {
				return &Error{err}
			}
		case storageKey:
			raw := value.(rlp.RawValue)
			dbKey := append(storagePrefix, k[:]...)
			if len(raw) == 0 {
				if err := batch.Delete(dbKey); err != nil {
					return &Error{err}
				}
			} else if err := batch.Put(dbKey, raw); err != nil {
				return &Error{err}
			}
		}
	}
	if err := batch.Write(); err != nil {
		return &Error{err}
	}
	s.jn = newJournal(s.dbGetter)
	s.jn.Push()
	return nil
}
