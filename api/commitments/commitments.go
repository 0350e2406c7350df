// Copyright (c) 2026 The Lockup developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package commitments exposes the commitment ledger over HTTP. Caller
// identity is taken from the request body, the surface trusts the
// deployment to authenticate upstream.
package commitments

import (
	"math/big"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/lockuplabs/lockup/api/restutil"
	"github.com/lockuplabs/lockup/builtin"
	ledger "github.com/lockuplabs/lockup/builtin/commitments"
	"github.com/lockuplabs/lockup/lockup"
	"github.com/lockuplabs/lockup/runtime"
	"github.com/lockuplabs/lockup/state"
	"github.com/lockuplabs/lockup/xenv"
)

type Commitments struct {
	rt  *runtime.Runtime
	now func() uint64
}

func New(rt *runtime.Runtime) *Commitments {
	return &Commitments{
		rt:  rt,
		now: func() uint64 { return uint64(time.Now().Unix()) },
	}
}

type stakeRequest struct {
	Caller       lockup.Address `json:"caller"`
	Amount       *big.Int       `json:"amount"`
	PeriodMonths uint32         `json:"periodMonths"`
}

type withdrawRequest struct {
	Caller lockup.Address `json:"caller"`
	Index  uint64         `json:"index"`
}

type periodsRequest struct {
	Caller  lockup.Address `json:"caller"`
	Periods []uint32       `json:"periods"`
}

type treasuryRequest struct {
	Caller lockup.Address `json:"caller"`
	Amount *big.Int       `json:"amount"`
}

type ownershipRequest struct {
	Caller   lockup.Address `json:"caller"`
	NewOwner lockup.Address `json:"newOwner"`
}

func (c *Commitments) call(caller lockup.Address, value *big.Int, op string, handler func(env *xenv.Environment, l *ledger.Ledger) error) error {
	return c.rt.Call(builtin.Commitments.Address, &xenv.CallContext{
		Caller: caller,
		Value:  value,
		Time:   c.now(),
	}, op, func(env *xenv.Environment) error {
		return handler(env, builtin.Commitments.WithState(env.State()))
	})
}

func (c *Commitments) read(handler func(l *ledger.Ledger) error) error {
	return c.rt.Read(func(st *state.State) error {
		return handler(builtin.Commitments.WithState(st))
	})
}

func (c *Commitments) handleStake(w http.ResponseWriter, req *http.Request) error {
	var body stakeRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	var index uint64
	if err := c.call(body.Caller, body.Amount, "commitments_stake", func(env *xenv.Environment, l *ledger.Ledger) error {
		var err error
		index, err = l.Stake(env, body.PeriodMonths)
		return err
	}); err != nil {
		return restutil.RevertError(err)
	}
	return restutil.WriteJSON(w, restutil.M{"index": index})
}

func (c *Commitments) handleWithdraw(w http.ResponseWriter, req *http.Request) error {
	var body withdrawRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := c.call(body.Caller, nil, "commitments_withdraw", func(env *xenv.Environment, l *ledger.Ledger) error {
		return l.Withdraw(env, body.Index)
	}); err != nil {
		return restutil.RevertError(err)
	}
	return restutil.WriteJSON(w, restutil.M{"index": body.Index})
}

func (c *Commitments) handleSetPeriods(w http.ResponseWriter, req *http.Request) error {
	var body periodsRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := c.call(body.Caller, nil, "commitments_set_periods", func(env *xenv.Environment, l *ledger.Ledger) error {
		return l.SetStakingPeriods(env, body.Periods)
	}); err != nil {
		return restutil.RevertError(err)
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (c *Commitments) handleTransferOwnership(w http.ResponseWriter, req *http.Request) error {
	var body ownershipRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := c.call(body.Caller, nil, "commitments_transfer_ownership", func(env *xenv.Environment, l *ledger.Ledger) error {
		return l.TransferOwnership(env, body.NewOwner)
	}); err != nil {
		return restutil.RevertError(err)
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (c *Commitments) handleOwnerWithdraw(w http.ResponseWriter, req *http.Request) error {
	var body treasuryRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := c.call(body.Caller, nil, "commitments_owner_withdraw", func(env *xenv.Environment, l *ledger.Ledger) error {
		return l.WithdrawByOwner(env, body.Amount)
	}); err != nil {
		return restutil.RevertError(err)
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (c *Commitments) handleOwnerDeposit(w http.ResponseWriter, req *http.Request) error {
	var body treasuryRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := c.call(body.Caller, nil, "commitments_owner_deposit", func(env *xenv.Environment, l *ledger.Ledger) error {
		return l.DepositByOwner(env, body.Amount)
	}); err != nil {
		return restutil.RevertError(err)
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (c *Commitments) handleGetCommitments(w http.ResponseWriter, _ *http.Request) error {
	var all []*ledger.Commitment
	if err := c.read(func(l *ledger.Ledger) error {
		var err error
		all, err = l.All()
		return err
	}); err != nil {
		return err
	}
	return restutil.WriteJSON(w, all)
}

func (c *Commitments) handleGetCount(w http.ResponseWriter, _ *http.Request) error {
	var count uint64
	if err := c.read(func(l *ledger.Ledger) error {
		var err error
		count, err = l.Count()
		return err
	}); err != nil {
		return err
	}
	return restutil.WriteJSON(w, restutil.M{"count": count})
}

func (c *Commitments) handleGetCommitment(w http.ResponseWriter, req *http.Request) error {
	index, err := strconv.ParseUint(mux.Vars(req)["index"], 10, 64)
	if err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "index"))
	}
	var commitment *ledger.Commitment
	if err := c.read(func(l *ledger.Ledger) error {
		var err error
		commitment, err = l.Get(index)
		return err
	}); err != nil {
		return restutil.RevertError(err)
	}
	return restutil.WriteJSON(w, commitment)
}

func (c *Commitments) handleGetTotal(w http.ResponseWriter, _ *http.Request) error {
	var total *big.Int
	if err := c.read(func(l *ledger.Ledger) error {
		var err error
		total, err = l.TotalStaked()
		return err
	}); err != nil {
		return err
	}
	return restutil.WriteJSON(w, restutil.M{"total": total})
}

func (c *Commitments) handleGetBalance(w http.ResponseWriter, req *http.Request) error {
	addr, err := lockup.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "address"))
	}
	var balance *big.Int
	var indexes []uint64
	if err := c.read(func(l *ledger.Ledger) error {
		var err error
		if balance, err = l.BalanceOf(*addr); err != nil {
			return err
		}
		indexes, err = l.IndexesOf(*addr)
		return err
	}); err != nil {
		return err
	}
	return restutil.WriteJSON(w, restutil.M{"balance": balance, "indexes": indexes})
}

func (c *Commitments) handleGetPeriods(w http.ResponseWriter, _ *http.Request) error {
	var periods []uint32
	if err := c.read(func(l *ledger.Ledger) error {
		var err error
		periods, err = l.StakingPeriods()
		return err
	}); err != nil {
		return err
	}
	return restutil.WriteJSON(w, periods)
}

func (c *Commitments) handleGetPeriodValid(w http.ResponseWriter, req *http.Request) error {
	months, err := strconv.ParseUint(mux.Vars(req)["months"], 10, 32)
	if err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "months"))
	}
	var valid bool
	if err := c.read(func(l *ledger.Ledger) error {
		var err error
		valid, err = l.IsStakingPeriodValid(uint32(months))
		return err
	}); err != nil {
		return err
	}
	return restutil.WriteJSON(w, restutil.M{"valid": valid})
}

func (c *Commitments) handleGetOwner(w http.ResponseWriter, _ *http.Request) error {
	var owner lockup.Address
	var ownerBalance, contractBalance *big.Int
	if err := c.read(func(l *ledger.Ledger) error {
		var err error
		if owner, err = l.Owner(); err != nil {
			return err
		}
		if ownerBalance, err = l.OwnerBalance(); err != nil {
			return err
		}
		contractBalance, err = l.ContractBalance()
		return err
	}); err != nil {
		return err
	}
	return restutil.WriteJSON(w, restutil.M{
		"owner":           owner,
		"ownerBalance":    ownerBalance,
		"contractBalance": contractBalance,
	})
}

func (c *Commitments) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").Methods(http.MethodGet).HandlerFunc(restutil.WrapHandlerFunc(c.handleGetCommitments))
	sub.Path("/count").Methods(http.MethodGet).HandlerFunc(restutil.WrapHandlerFunc(c.handleGetCount))
	sub.Path("/total").Methods(http.MethodGet).HandlerFunc(restutil.WrapHandlerFunc(c.handleGetTotal))
	sub.Path("/owner").Methods(http.MethodGet).HandlerFunc(restutil.WrapHandlerFunc(c.handleGetOwner))
	sub.Path("/periods").Methods(http.MethodGet).HandlerFunc(restutil.WrapHandlerFunc(c.handleGetPeriods))
	sub.Path("/periods/{months}").Methods(http.MethodGet).HandlerFunc(restutil.WrapHandlerFunc(c.handleGetPeriodValid))
	sub.Path("/balance/{address}").Methods(http.MethodGet).HandlerFunc(restutil.WrapHandlerFunc(c.handleGetBalance))
	sub.Path("/{index:[0-9]+}").Methods(http.MethodGet).HandlerFunc(restutil.WrapHandlerFunc(c.handleGetCommitment))

	sub.Path("/stake").Methods(http.MethodPost).HandlerFunc(restutil.WrapHandlerFunc(c.handleStake))
	sub.Path("/withdraw").Methods(http.MethodPost).HandlerFunc(restutil.WrapHandlerFunc(c.handleWithdraw))
	sub.Path("/periods").Methods(http.MethodPost).HandlerFunc(restutil.WrapHandlerFunc(c.handleSetPeriods))
	sub.Path("/owner/transfer").Methods(http.MethodPost).HandlerFunc(restutil.WrapHandlerFunc(c.handleTransferOwnership))
	sub.Path("/owner/withdraw").Methods(http.MethodPost).HandlerFunc(restutil.WrapHandlerFunc(c.handleOwnerWithdraw))
	sub.Path("/owner/deposit").Methods(http.MethodPost).HandlerFunc(restutil.WrapHandlerFunc(c.handleOwnerDeposit))
}
