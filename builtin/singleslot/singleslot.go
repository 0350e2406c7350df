// Copyright (c) 2026 The Lockup developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package singleslot implements the single-slot ledger, one active
// stake per address with an APR-based reward on withdrawal. The owner
// and the permitted lock periods are fixed at construction.
package singleslot

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/lockuplabs/lockup/builtin/reverts"
	"github.com/lockuplabs/lockup/builtin/slot"
	"github.com/lockuplabs/lockup/event"
	"github.com/lockuplabs/lockup/lockup"
	"github.com/lockuplabs/lockup/log"
	"github.com/lockuplabs/lockup/state"
	"github.com/lockuplabs/lockup/xenv"
)

var logger = log.WithContext("pkg", "singleslot")

var slotStakes = lockup.BytesToBytes32([]byte("stakes"))

// Stake is the single record an address can hold. A new stake
// overwrites the previous one wholesale, the prior principal is
// stranded in the contract account.
type Stake struct {
	Amount     *big.Int `json:"amount"`
	StartTime  uint64   `json:"startTime"`
	LockPeriod uint64   `json:"lockPeriod"`
	APR        uint32   `json:"apr"`
}

// Active reports whether the record holds a live stake.
func (s *Stake) Active() bool {
	return s != nil && s.Amount != nil && s.Amount.Sign() > 0
}

// Matured reports whether the lock period has elapsed at the given time.
func (s *Stake) Matured(now uint64) bool {
	return now >= s.StartTime+s.LockPeriod
}

// Reward returns amount x APR per whole year of lock period. Lock
// periods under a year earn nothing, fractions of a year truncate.
func (s *Stake) Reward() *big.Int {
	years := s.LockPeriod / lockup.SecondsPerYear
	reward := new(big.Int).Mul(s.Amount, new(big.Int).SetUint64(uint64(s.APR)))
	reward.Mul(reward, new(big.Int).SetUint64(years))
	return reward.Div(reward, new(big.Int).SetUint64(lockup.PercentDivisor))
}

// Ledger implements the operations of the single-slot contract.
type Ledger struct {
	sctx        *slot.Context
	stakes      *slot.Mapping[lockup.Address, *Stake]
	owner       lockup.Address
	lockPeriods []uint64

	busy bool
}

// New binds a ledger to the given contract address and state. The
// owner and the lock period set come from the deployment config and
// cannot change afterwards.
func New(addr lockup.Address, st *state.State, owner lockup.Address, lockPeriods []uint64) *Ledger {
	sctx := slot.NewContext(addr, st)
	return &Ledger{
		sctx:        sctx,
		stakes:      slot.NewMapping[lockup.Address, *Stake](sctx, slotStakes),
		owner:       owner,
		lockPeriods: lockPeriods,
	}
}

func (l *Ledger) enter() error {
	if l.busy {
		return reverts.New(reverts.CodeReentrancy, "nested call")
	}
	l.busy = true
	return nil
}

func (l *Ledger) leave() {
	l.busy = false
}

//
// Getters - no state change
//

// Owner returns the fixed owner address.
func (l *Ledger) Owner() lockup.Address {
	return l.owner
}

// LockPeriods returns the fixed set of permitted lock periods.
func (l *Ledger) LockPeriods() []uint64 {
	return l.lockPeriods
}

// StakeOf returns the caller's slot, or an inactive record if none.
func (l *Ledger) StakeOf(staker lockup.Address) (*Stake, error) {
	return l.stakes.Get(staker)
}

// ContractBalance returns the funds held by the ledger account.
func (l *Ledger) ContractBalance() (*big.Int, error) {
	return l.sctx.State().GetBalance(l.sctx.Address())
}

func (l *Ledger) isLockPeriodValid(lockPeriod uint64) bool {
	for _, p := range l.lockPeriods {
		if p == lockPeriod {
			return true
		}
	}
	return false
}

//
// Methods that can alter state
//

// Stake puts the attached value into the caller's slot. The APR is
// taken from the caller unchecked and any previous stake in the slot
// is overwritten.
func (l *Ledger) Stake(env *xenv.Environment, lockPeriod uint64, apr uint32) error {
	if err := l.enter(); err != nil {
		return err
	}
	defer l.leave()

	amount := env.Value()
	if amount.Sign() <= 0 {
		return reverts.New(reverts.CodeZeroAmount, "stake amount must be positive")
	}
	if !l.isLockPeriodValid(lockPeriod) {
		return reverts.New(reverts.CodeInvalidStakingPeriod, "lock period not permitted")
	}

	staker := env.Caller()
	record := &Stake{
		Amount:     amount,
		StartTime:  env.Now(),
		LockPeriod: lockPeriod,
		APR:        apr,
	}
	if err := l.stakes.Set(staker, record); err != nil {
		return errors.Wrap(err, "failed to store stake")
	}

	logger.Debug("slot staked", "staker", staker, "amount", amount, "lockPeriod", lockPeriod, "apr", apr)
	env.Emit(event.TypeStaked, StakedEvent{
		Staker:     staker,
		Amount:     amount,
		LockPeriod: lockPeriod,
		APR:        apr,
		StartTime:  record.StartTime,
	})
	env.Emit(event.TypeBalanceUpdated, BalanceUpdatedEvent{
		Account: env.To(),
		Amount:  amount,
	})
	return nil
}

// Withdraw pays out the caller's matured stake plus reward and clears
// the slot. The slot clears strictly before the funds move.
func (l *Ledger) Withdraw(env *xenv.Environment) error {
	if err := l.enter(); err != nil {
		return err
	}
	defer l.leave()

	staker := env.Caller()
	record, err := l.stakes.Get(staker)
	if err != nil {
		return err
	}
	if !record.Active() {
		return reverts.New(reverts.CodeNoActiveStake, "no active stake")
	}
	if !record.Matured(env.Now()) {
		return reverts.New(reverts.CodePeriodNotElapsed, "lock period not elapsed")
	}

	payout := new(big.Int).Add(record.Amount, record.Reward())
	if err := l.stakes.Clear(staker); err != nil {
		return errors.Wrap(err, "failed to clear stake")
	}
	if err := env.Transfer(env.To(), staker, payout); err != nil {
		return errors.Wrap(err, "failed to pay out stake")
	}

	logger.Debug("slot withdrawn", "staker", staker, "payout", payout)
	env.Emit(event.TypeWithdrawn, WithdrawnEvent{
		Staker: staker,
		Amount: record.Amount,
		Reward: record.Reward(),
	})
	env.Emit(event.TypeBalanceUpdated, BalanceUpdatedEvent{
		Account: env.To(),
		Amount:  new(big.Int).Neg(payout),
	})
	return nil
}

// OwnerWithdraw moves funds from the contract account to the owner,
// independent of any stake records.
func (l *Ledger) OwnerWithdraw(env *xenv.Environment, amount *big.Int) error {
	if err := l.enter(); err != nil {
		return err
	}
	defer l.leave()

	if env.Caller() != l.owner {
		return reverts.New(reverts.CodeUnauthorized, "caller is not the owner")
	}
	if amount == nil || amount.Sign() <= 0 {
		return reverts.New(reverts.CodeZeroAmount, "amount must be positive")
	}
	contract, err := l.ContractBalance()
	if err != nil {
		return err
	}
	if contract.Cmp(amount) < 0 {
		return reverts.New(reverts.CodeInsufficientBalance, "contract balance too low")
	}
	if err := env.Transfer(env.To(), l.owner, amount); err != nil {
		return errors.Wrap(err, "failed to transfer to owner")
	}
	env.Emit(event.TypeBalanceUpdated, BalanceUpdatedEvent{
		Account: l.owner,
		Amount:  amount,
	})
	return nil
}
