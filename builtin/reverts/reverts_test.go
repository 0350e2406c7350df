// Copyright (c) 2026 The Lockup developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestIsRevertErr(t *testing.T) {
	assert.False(t, IsRevertErr(nil))
	assert.False(t, IsRevertErr("not an error"))
	assert.False(t, IsRevertErr(errors.New("plain")))

	err := New(CodePeriodNotElapsed, "staking period not elapsed")
	assert.True(t, IsRevertErr(err))
	assert.True(t, IsRevertErr(errors.Wrap(err, "wrapped")))
}

func TestCodeMatching(t *testing.T) {
	err := New(CodeAlreadyWithdrawn, "commitment already withdrawn")

	assert.True(t, Is(err, CodeAlreadyWithdrawn))
	assert.False(t, Is(err, CodeNotStaker))
	assert.True(t, Is(errors.Wrap(err, "wrapped"), CodeAlreadyWithdrawn))

	assert.Equal(t, CodeAlreadyWithdrawn, CodeOf(err))
	assert.Equal(t, Code(""), CodeOf(errors.New("plain")))
	assert.Equal(t, "AlreadyWithdrawn: commitment already withdrawn", err.Error())
}
