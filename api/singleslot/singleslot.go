// Copyright (c) 2026 The Lockup developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package singleslot exposes the single-slot ledger over HTTP.
package singleslot

import (
	"math/big"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/lockuplabs/lockup/api/restutil"
	"github.com/lockuplabs/lockup/builtin"
	ledger "github.com/lockuplabs/lockup/builtin/singleslot"
	"github.com/lockuplabs/lockup/lockup"
	"github.com/lockuplabs/lockup/runtime"
	"github.com/lockuplabs/lockup/state"
	"github.com/lockuplabs/lockup/xenv"
)

type SingleSlot struct {
	rt          *runtime.Runtime
	owner       lockup.Address
	lockPeriods []uint64
	now         func() uint64
}

func New(rt *runtime.Runtime, owner lockup.Address, lockPeriods []uint64) *SingleSlot {
	return &SingleSlot{
		rt:          rt,
		owner:       owner,
		lockPeriods: lockPeriods,
		now:         func() uint64 { return uint64(time.Now().Unix()) },
	}
}

type stakeRequest struct {
	Caller     lockup.Address `json:"caller"`
	Amount     *big.Int       `json:"amount"`
	LockPeriod uint64         `json:"lockPeriod"`
	APR        uint32         `json:"apr"`
}

type withdrawRequest struct {
	Caller lockup.Address `json:"caller"`
}

type treasuryRequest struct {
	Caller lockup.Address `json:"caller"`
	Amount *big.Int       `json:"amount"`
}

func (s *SingleSlot) call(caller lockup.Address, value *big.Int, op string, handler func(env *xenv.Environment, l *ledger.Ledger) error) error {
	return s.rt.Call(builtin.SingleSlot.Address, &xenv.CallContext{
		Caller: caller,
		Value:  value,
		Time:   s.now(),
	}, op, func(env *xenv.Environment) error {
		return handler(env, builtin.SingleSlot.WithState(env.State(), s.owner, s.lockPeriods))
	})
}

func (s *SingleSlot) read(handler func(l *ledger.Ledger) error) error {
	return s.rt.Read(func(st *state.State) error {
		return handler(builtin.SingleSlot.WithState(st, s.owner, s.lockPeriods))
	})
}

func (s *SingleSlot) handleStake(w http.ResponseWriter, req *http.Request) error {
	var body stakeRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := s.call(body.Caller, body.Amount, "singleslot_stake", func(env *xenv.Environment, l *ledger.Ledger) error {
		return l.Stake(env, body.LockPeriod, body.APR)
	}); err != nil {
		return restutil.RevertError(err)
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *SingleSlot) handleWithdraw(w http.ResponseWriter, req *http.Request) error {
	var body withdrawRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := s.call(body.Caller, nil, "singleslot_withdraw", func(env *xenv.Environment, l *ledger.Ledger) error {
		return l.Withdraw(env)
	}); err != nil {
		return restutil.RevertError(err)
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *SingleSlot) handleOwnerWithdraw(w http.ResponseWriter, req *http.Request) error {
	var body treasuryRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := s.call(body.Caller, nil, "singleslot_owner_withdraw", func(env *xenv.Environment, l *ledger.Ledger) error {
		return l.OwnerWithdraw(env, body.Amount)
	}); err != nil {
		return restutil.RevertError(err)
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *SingleSlot) handleGetStake(w http.ResponseWriter, req *http.Request) error {
	addr, err := lockup.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "address"))
	}
	var record *ledger.Stake
	if err := s.read(func(l *ledger.Ledger) error {
		var err error
		record, err = l.StakeOf(*addr)
		return err
	}); err != nil {
		return err
	}
	if !record.Active() {
		return restutil.WriteJSON(w, nil)
	}
	return restutil.WriteJSON(w, record)
}

func (s *SingleSlot) handleGetInfo(w http.ResponseWriter, _ *http.Request) error {
	var contractBalance *big.Int
	if err := s.read(func(l *ledger.Ledger) error {
		var err error
		contractBalance, err = l.ContractBalance()
		return err
	}); err != nil {
		return err
	}
	return restutil.WriteJSON(w, restutil.M{
		"owner":           s.owner,
		"lockPeriods":     s.lockPeriods,
		"contractBalance": contractBalance,
	})
}

func (s *SingleSlot) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").Methods(http.MethodGet).HandlerFunc(restutil.WrapHandlerFunc(s.handleGetInfo))
	sub.Path("/stakes/{address}").Methods(http.MethodGet).HandlerFunc(restutil.WrapHandlerFunc(s.handleGetStake))

	sub.Path("/stake").Methods(http.MethodPost).HandlerFunc(restutil.WrapHandlerFunc(s.handleStake))
	sub.Path("/withdraw").Methods(http.MethodPost).HandlerFunc(restutil.WrapHandlerFunc(s.handleWithdraw))
	sub.Path("/owner/withdraw").Methods(http.MethodPost).HandlerFunc(restutil.WrapHandlerFunc(s.handleOwnerWithdraw))
}
