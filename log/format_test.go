// Copyright (c) 2026 The Lockup developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"bytes"
	"log/slog"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerminalHandlerOutput(t *testing.T) {
	var out bytes.Buffer
	logger := slog.New(NewTerminalHandler(&out, false))

	logger.Info("hello", "key", "value", "amount", big.NewInt(100))

	line := out.String()
	assert.True(t, strings.HasPrefix(line, "INFO "), line)
	assert.Contains(t, line, "hello")
	assert.Contains(t, line, "key=value")
	assert.Contains(t, line, "amount=100")
	assert.True(t, strings.HasSuffix(line, "\n"))
}

func TestTerminalHandlerQuoting(t *testing.T) {
	var out bytes.Buffer
	logger := slog.New(NewTerminalHandler(&out, false))

	logger.Info("msg", "key", "has space", "empty", "")

	line := out.String()
	assert.Contains(t, line, `key="has space"`)
	assert.Contains(t, line, `empty=""`)
}

func TestTerminalHandlerLevel(t *testing.T) {
	var out bytes.Buffer
	var lvl slog.LevelVar
	lvl.Set(LevelWarn)
	logger := slog.New(NewTerminalHandlerWithLevel(&out, &lvl, false))

	logger.Info("dropped")
	require.Zero(t, out.Len())

	logger.Warn("kept")
	assert.Contains(t, out.String(), "kept")
}

func TestWithContext(t *testing.T) {
	var out bytes.Buffer
	SetDefault(NewTerminalHandler(&out, false))
	defer SetDefault(DiscardHandler())

	WithContext("pkg", "test").Info("tagged")
	assert.Contains(t, out.String(), "pkg=test")
}

func TestFromLegacyLevel(t *testing.T) {
	assert.Equal(t, LevelCrit, FromLegacyLevel(0))
	assert.Equal(t, LevelInfo, FromLegacyLevel(3))
	assert.Equal(t, LevelTrace, FromLegacyLevel(9))
}
