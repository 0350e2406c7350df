// Copyright (c) 2026 The Lockup developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package policy

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/lockuplabs/lockup/builtin/slot"
	"github.com/lockuplabs/lockup/lockup"
)

var (
	slotPeriods = lockup.BytesToBytes32([]byte("policy-periods"))
	slotMembers = lockup.BytesToBytes32([]byte("policy-members"))
)

// Set is the validity policy: the collection of lock durations the
// ledger currently accepts for new stakes. Membership is unique, order
// of insertion is preserved for enumeration.
type Set struct {
	periods *slot.List[*big.Int]
	members *slot.Mapping[*big.Int, bool]
}

// New binds the policy set to contract storage.
func New(sctx *slot.Context) *Set {
	return &Set{
		periods: slot.NewList[*big.Int](sctx, slotPeriods),
		members: slot.NewMapping[*big.Int, bool](sctx, slotMembers),
	}
}

// Contains checks whether the given duration is permitted.
func (s *Set) Contains(period uint32) (bool, error) {
	ok, err := s.members.Get(new(big.Int).SetUint64(uint64(period)))
	if err != nil {
		return false, errors.Wrap(err, "failed to get policy membership")
	}
	return ok, nil
}

// All returns the permitted durations in insertion order.
func (s *Set) All() ([]uint32, error) {
	items, err := s.periods.All()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list policy periods")
	}
	periods := make([]uint32, 0, len(items))
	for _, item := range items {
		periods = append(periods, uint32(item.Uint64()))
	}
	return periods, nil
}

// Size returns the cardinality of the set.
func (s *Set) Size() (uint64, error) {
	return s.periods.Len()
}

// Replace swaps the whole set: every existing entry is removed, then
// every entry of newPeriods inserted. Duplicates in the input collapse
// silently since membership is unique. Returns the resulting size.
func (s *Set) Replace(newPeriods []uint32) (uint64, error) {
	existing, err := s.periods.All()
	if err != nil {
		return 0, errors.Wrap(err, "failed to load existing periods")
	}
	for _, period := range existing {
		if err := s.members.Clear(period); err != nil {
			return 0, errors.Wrap(err, "failed to clear policy membership")
		}
	}
	if err := s.periods.Clear(); err != nil {
		return 0, errors.Wrap(err, "failed to clear policy periods")
	}

	var size uint64
	for _, period := range newPeriods {
		key := new(big.Int).SetUint64(uint64(period))
		ok, err := s.members.Get(key)
		if err != nil {
			return 0, errors.Wrap(err, "failed to get policy membership")
		}
		if ok {
			continue
		}
		if err := s.members.Set(key, true); err != nil {
			return 0, errors.Wrap(err, "failed to set policy membership")
		}
		if _, err := s.periods.Append(key); err != nil {
			return 0, errors.Wrap(err, "failed to append policy period")
		}
		size++
	}
	return size, nil
}
