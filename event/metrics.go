// Copyright (c) 2026 The Lockup developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package event

import (
	"github.com/lockuplabs/lockup/metrics"
)

type busMetrics struct {
	published   metrics.CountVecMeter
	dropped     metrics.CountMeter
	subscribers metrics.GaugeMeter
}

func newBusMetrics() *busMetrics {
	return &busMetrics{
		published:   metrics.CounterVec("event_published_total", []string{"type"}),
		dropped:     metrics.Counter("event_dropped_total"),
		subscribers: metrics.Gauge("event_subscribers"),
	}
}
