// Copyright (c) 2026 The Lockup developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
)

// Code distinguishes revert conditions, one per rejected precondition.
type Code string

const (
	CodeInvalidStakingPeriod Code = "InvalidStakingPeriod"
	CodeZeroAddress          Code = "ZeroAddress"
	CodeZeroAmount           Code = "ZeroAmount"
	CodeOutOfRange           Code = "OutOfRange"
	CodeAlreadyWithdrawn     Code = "AlreadyWithdrawn"
	CodeNotStaker            Code = "NotStaker"
	CodePeriodNotElapsed     Code = "PeriodNotElapsed"
	CodeInsufficientBalance  Code = "InsufficientBalance"
	CodeNoActiveStake        Code = "NoActiveStake"
	CodeUnauthorized         Code = "Unauthorized"
	CodeReentrancy           Code = "Reentrancy"
)

// ErrRevert is the error returned when a contract operation rejects the
// call. Every revert aborts the whole call with no persisted effect.
type ErrRevert struct {
	code    Code
	message string
}

func New(code Code, message string) *ErrRevert {
	return &ErrRevert{
		code:    code,
		message: message,
	}
}

func (e *ErrRevert) Error() string {
	return string(e.code) + ": " + e.message
}

// Code returns the revert condition kind.
func (e *ErrRevert) Code() Code {
	return e.code
}

// IsRevertErr reports whether err is (or wraps) a revert.
func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

// Is reports whether err is a revert with the given code.
func Is(err error, code Code) bool {
	var ve *ErrRevert
	if !errors.As(err, &ve) {
		return false
	}
	return ve.code == code
}

// CodeOf returns the revert code of err, or empty if err is not a revert.
func CodeOf(err error) Code {
	var ve *ErrRevert
	if !errors.As(err, &ve) {
		return ""
	}
	return ve.code
}
