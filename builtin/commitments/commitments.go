// Copyright (c) 2026 The Lockup developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package commitments implements the commitment ledger, an append-only
// sequence of fixed-term stakes with per-staker aggregate accounting
// and an owner-mutable validity policy.
package commitments

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/lockuplabs/lockup/builtin/policy"
	"github.com/lockuplabs/lockup/builtin/reverts"
	"github.com/lockuplabs/lockup/builtin/slot"
	"github.com/lockuplabs/lockup/event"
	"github.com/lockuplabs/lockup/lockup"
	"github.com/lockuplabs/lockup/log"
	"github.com/lockuplabs/lockup/state"
	"github.com/lockuplabs/lockup/xenv"
)

var logger = log.WithContext("pkg", "commitments")

var (
	slotOwner       = lockup.BytesToBytes32([]byte("owner"))
	slotTotalStaked = lockup.BytesToBytes32([]byte("total-staked"))
	slotCommitments = lockup.BytesToBytes32([]byte("commitments"))
	slotBalances    = lockup.BytesToBytes32([]byte("balances"))
	slotIndexes     = lockup.BytesToBytes32([]byte("staker-indexes"))
)

// Ledger implements the operations of the commitment ledger contract.
type Ledger struct {
	sctx        *slot.Context
	owner       *slot.Address
	total       *slot.Uint256
	commitments *slot.List[*Commitment]
	balances    *slot.Mapping[lockup.Address, *big.Int]
	policy      *policy.Set

	busy bool
}

// New binds a ledger instance to the given contract address and state.
func New(addr lockup.Address, st *state.State) *Ledger {
	sctx := slot.NewContext(addr, st)
	return &Ledger{
		sctx:        sctx,
		owner:       slot.NewAddress(sctx, slotOwner),
		total:       slot.NewUint256(sctx, slotTotalStaked),
		commitments: slot.NewList[*Commitment](sctx, slotCommitments),
		balances:    slot.NewMapping[lockup.Address, *big.Int](sctx, slotBalances),
		policy:      policy.New(sctx),
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

// indexesOf returns the index list of one staker.
func (l *Ledger) indexesOf(staker lockup.Address) *slot.List[uint64] {
	return slot.NewList[uint64](l.sctx, lockup.Blake2b(slotIndexes.Bytes(), staker.Bytes()))
}

//
// Getters - no state change
//

// Owner returns the current owner of the ledger.
func (l *Ledger) Owner() (lockup.Address, error) {
	return l.owner.Get()
}

// Count returns the number of commitments ever recorded, withdrawn
// ones included.
func (l *Ledger) Count() (uint64, error) {
	return l.commitments.Len()
}

// Get returns the commitment at the given index.
func (l *Ledger) Get(index uint64) (*Commitment, error) {
	n, err := l.commitments.Len()
	if err != nil {
		return nil, err
	}
	if index >= n {
		return nil, reverts.New(reverts.CodeOutOfRange, "no commitment at index")
	}
	return l.commitments.Get(index)
}

// All returns the full commitment sequence in insertion order.
func (l *Ledger) All() ([]*Commitment, error) {
	return l.commitments.All()
}

// BalanceOf returns the aggregate of a staker's active commitments.
func (l *Ledger) BalanceOf(staker lockup.Address) (*big.Int, error) {
	balance, err := l.balances.Get(staker)
	if err != nil {
		return nil, err
	}
	if balance == nil {
		return new(big.Int), nil
	}
	return balance, nil
}

// TotalStaked returns the sum over all stakers' aggregates.
func (l *Ledger) TotalStaked() (*big.Int, error) {
	return l.total.Get()
}

// IndexesOf returns the commitment indexes belonging to a staker.
func (l *Ledger) IndexesOf(staker lockup.Address) ([]uint64, error) {
	return l.indexesOf(staker).All()
}

// ContractBalance returns the funds held by the ledger account. It can
// drift from TotalStaked through the treasury operations.
func (l *Ledger) ContractBalance() (*big.Int, error) {
	return l.sctx.State().GetBalance(l.sctx.Address())
}

// OwnerBalance returns the owner account's funds.
func (l *Ledger) OwnerBalance() (*big.Int, error) {
	owner, err := l.owner.Get()
	if err != nil {
		return nil, err
	}
	return l.sctx.State().GetBalance(owner)
}

// IsStakingPeriodValid checks the period against the current policy.
func (l *Ledger) IsStakingPeriodValid(periodMonths uint32) (bool, error) {
	return l.policy.Contains(periodMonths)
}

// StakingPeriods returns the currently permitted periods.
func (l *Ledger) StakingPeriods() ([]uint32, error) {
	return l.policy.All()
}

//
// Methods that can alter state
//

// Initialize sets the owner and the initial policy. Meant to be called
// once at genesis, it refuses to run twice.
func (l *Ledger) Initialize(owner lockup.Address, periods []uint32) error {
	current, err := l.owner.Get()
	if err != nil {
		return err
	}
	if !current.IsZero() {
		return errors.New("already initialized")
	}
	if owner.IsZero() {
		return reverts.New(reverts.CodeZeroAddress, "owner must not be zero")
	}
	l.owner.Set(&owner)
	if _, err := l.policy.Replace(periods); err != nil {
		return err
	}
	return nil
}

// Stake records a new commitment for the caller with the attached
// value and returns its index in the global sequence.
func (l *Ledger) Stake(env *xenv.Environment, periodMonths uint32) (uint64, error) {
	if err := l.enter(); err != nil {
		return 0, err
	}
	defer l.leave()

	staker := env.Caller()
	if staker.IsZero() {
		return 0, reverts.New(reverts.CodeZeroAddress, "staker must not be zero")
	}
	amount := env.Value()
	if amount.Sign() <= 0 {
		return 0, reverts.New(reverts.CodeZeroAmount, "stake amount must be positive")
	}
	ok, err := l.policy.Contains(periodMonths)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, reverts.New(reverts.CodeInvalidStakingPeriod, "period not permitted by policy")
	}

	start := env.Now()
	c := &Commitment{
		Staker:       staker,
		Amount:       amount,
		PeriodMonths: periodMonths,
		StartTime:    start,
		EndTime:      start + uint64(periodMonths)*lockup.SecondsPerMonth,
	}
	index, err := l.commitments.Append(c)
	if err != nil {
		return 0, errors.Wrap(err, "failed to append commitment")
	}
	if _, err := l.indexesOf(staker).Append(index); err != nil {
		return 0, errors.Wrap(err, "failed to index commitment")
	}

	balance, err := l.BalanceOf(staker)
	if err != nil {
		return 0, err
	}
	if err := l.balances.Set(staker, new(big.Int).Add(balance, amount)); err != nil {
		return 0, errors.Wrap(err, "failed to update staker balance")
	}
	if err := l.total.Add(amount); err != nil {
		return 0, errors.Wrap(err, "failed to update total staked")
	}

	logger.Debug("stake recorded", "staker", staker, "amount", amount, "index", index)
	env.Emit(event.TypeStaked, StakedEvent{
		Staker:       staker,
		Amount:       amount,
		PeriodMonths: periodMonths,
		Index:        index,
		StartTime:    c.StartTime,
		EndTime:      c.EndTime,
	})
	env.Emit(event.TypeCommitmentAdded, CommitmentAddedEvent{Index: index})
	return index, nil
}

// Withdraw releases a matured commitment back to its staker. The
// record flips to withdrawn and the accounting shrinks strictly before
// the funds move.
func (l *Ledger) Withdraw(env *xenv.Environment, index uint64) error {
	if err := l.enter(); err != nil {
		return err
	}
	defer l.leave()

	n, err := l.commitments.Len()
	if err != nil {
		return err
	}
	if index >= n {
		return reverts.New(reverts.CodeOutOfRange, "no commitment at index")
	}
	c, err := l.commitments.Get(index)
	if err != nil {
		return err
	}
	if c.Withdrawn {
		return reverts.New(reverts.CodeAlreadyWithdrawn, "commitment already withdrawn")
	}
	caller := env.Caller()
	if caller != c.Staker {
		return reverts.New(reverts.CodeNotStaker, "caller does not own commitment")
	}
	if !c.Matured(env.Now()) {
		return reverts.New(reverts.CodePeriodNotElapsed, "lock period not elapsed")
	}
	balance, err := l.BalanceOf(caller)
	if err != nil {
		return err
	}
	if balance.Cmp(c.Amount) < 0 {
		return reverts.New(reverts.CodeInsufficientBalance, "staker balance below commitment amount")
	}

	c.Withdrawn = true
	if err := l.commitments.Set(index, c); err != nil {
		return errors.Wrap(err, "failed to update commitment")
	}
	if err := l.balances.Set(caller, new(big.Int).Sub(balance, c.Amount)); err != nil {
		return errors.Wrap(err, "failed to update staker balance")
	}
	if err := l.total.Sub(c.Amount); err != nil {
		return errors.Wrap(err, "failed to update total staked")
	}
	if err := env.Transfer(env.To(), caller, c.Amount); err != nil {
		return errors.Wrap(err, "failed to transfer stake back")
	}

	logger.Debug("stake withdrawn", "staker", caller, "amount", c.Amount, "index", index)
	env.Emit(event.TypeWithdrawn, WithdrawnEvent{
		Staker: caller,
		Amount: c.Amount,
		Index:  index,
	})
	return nil
}

// SetStakingPeriods replaces the whole validity policy. Only the owner
// may call, stakes recorded under the old policy are unaffected.
func (l *Ledger) SetStakingPeriods(env *xenv.Environment, periods []uint32) error {
	if err := l.enter(); err != nil {
		return err
	}
	defer l.leave()

	if err := l.requireOwner(env.Caller()); err != nil {
		return err
	}
	size, err := l.policy.Replace(periods)
	if err != nil {
		return err
	}
	logger.Info("staking policy replaced", "size", size)
	env.Emit(event.TypePolicyChanged, PolicyChangedEvent{Size: size})
	return nil
}

// TransferOwnership hands the owner capability to a new address.
func (l *Ledger) TransferOwnership(env *xenv.Environment, newOwner lockup.Address) error {
	if err := l.enter(); err != nil {
		return err
	}
	defer l.leave()

	if err := l.requireOwner(env.Caller()); err != nil {
		return err
	}
	if newOwner.IsZero() {
		return reverts.New(reverts.CodeZeroAddress, "new owner must not be zero")
	}
	l.owner.Set(&newOwner)
	logger.Info("ownership transferred", "owner", newOwner)
	return nil
}

// WithdrawByOwner moves funds from the ledger account to the owner.
// The move bypasses the commitment accounting entirely, the owner can
// drain funds backing active commitments.
func (l *Ledger) WithdrawByOwner(env *xenv.Environment, amount *big.Int) error {
	if err := l.enter(); err != nil {
		return err
	}
	defer l.leave()

	if err := l.requireOwner(env.Caller()); err != nil {
		return err
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
	if err := env.Transfer(env.To(), env.Caller(), amount); err != nil {
		return errors.Wrap(err, "failed to transfer to owner")
	}
	env.Emit(event.TypeBalanceUpdated, BalanceUpdatedEvent{Account: env.Caller(), Amount: amount})
	return nil
}

// DepositByOwner moves funds from the owner into the ledger account,
// again without touching the commitment accounting.
func (l *Ledger) DepositByOwner(env *xenv.Environment, amount *big.Int) error {
	if err := l.enter(); err != nil {
		return err
	}
	defer l.leave()

	if err := l.requireOwner(env.Caller()); err != nil {
		return err
	}
	if amount == nil || amount.Sign() <= 0 {
		return reverts.New(reverts.CodeZeroAmount, "amount must be positive")
	}
	owner, err := l.OwnerBalance()
	if err != nil {
		return err
	}
	if owner.Cmp(amount) < 0 {
		return reverts.New(reverts.CodeInsufficientBalance, "owner balance too low")
	}
	if err := env.Transfer(env.Caller(), env.To(), amount); err != nil {
		return errors.Wrap(err, "failed to transfer from owner")
	}
	env.Emit(event.TypeBalanceUpdated, BalanceUpdatedEvent{Account: env.To(), Amount: amount})
	return nil
}

func (l *Ledger) requireOwner(caller lockup.Address) error {
	owner, err := l.owner.Get()
	if err != nil {
		return err
	}
	if caller != owner {
		return reverts.New(reverts.CodeUnauthorized, "caller is not the owner")
	}
	return nil
}
