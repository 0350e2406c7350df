// Copyright (c) 2026 The Lockup developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package runtime executes contract operations against the shared
// state. Calls are serialized and atomic, a failed handler leaves no
// trace in state and publishes nothing.
package runtime

import (
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/lockuplabs/lockup/builtin/reverts"
	"github.com/lockuplabs/lockup/event"
	"github.com/lockuplabs/lockup/lockup"
	"github.com/lockuplabs/lockup/log"
	"github.com/lockuplabs/lockup/metrics"
	"github.com/lockuplabs/lockup/state"
	"github.com/lockuplabs/lockup/xenv"
)

var (
	logger = log.WithContext("pkg", "runtime")

	metricCallCount = metrics.LazyLoadCounterVec("runtime_call_total", []string{"op", "status"})
	metricCallMs    = metrics.LazyLoadHistogramVec("runtime_call_duration_ms", []string{"op"}, metrics.Bucket10s)
)

// Handler is one contract operation bound to its arguments.
type Handler func(env *xenv.Environment) error

// Runtime serializes and commits contract calls.
type Runtime struct {
	mu    sync.Mutex
	state *state.State
	bus   *event.Bus
}

// New creates a runtime over the given state. The bus may be nil, then
// notifications are discarded.
func New(st *state.State, bus *event.Bus) *Runtime {
	return &Runtime{
		state: st,
		bus:   bus,
	}
}

// Call runs one operation atomically: the attached value moves from
// the caller to the contract, the handler executes, and either
// everything commits and the collected events publish, or the state
// reverts to the pre-call checkpoint.
func (rt *Runtime) Call(contract lockup.Address, callCtx *xenv.CallContext, op string, handler Handler) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	startedAt := time.Now()
	checkpoint := rt.state.NewCheckpoint()
	env := xenv.New(contract, rt.state, callCtx)

	err := func() error {
		if env.Value().Sign() > 0 {
			if err := rt.state.Transfer(env.Caller(), contract, env.Value()); err != nil {
				return errors.Wrap(err, "failed to attach value")
			}
		}
		return handler(env)
	}()

	status := "ok"
	if err != nil {
		rt.state.RevertTo(checkpoint)
		status = "error"
		if reverts.IsRevertErr(err) {
			status = "revert"
		}
	} else if err = rt.state.Commit(); err != nil {
		err = errors.Wrap(err, "failed to commit call")
		status = "error"
	} else if rt.bus != nil {
		for _, evt := range env.Events() {
			rt.bus.Publish(evt)
		}
	}

	metricCallCount().AddWithLabel(1, map[string]string{"op": op, "status": status})
	metricCallMs().ObserveWithLabels(time.Since(startedAt).Milliseconds(), map[string]string{"op": op})
	if err != nil && !reverts.IsRevertErr(err) {
		logger.Error("call failed", "op", op, "err", err)
	}
	return err
}

// Read runs a query under the call lock so it never observes a call
// half-applied.
func (rt *Runtime) Read(fn func(st *state.State) error) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return fn(rt.state)
}
