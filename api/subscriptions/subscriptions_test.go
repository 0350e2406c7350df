// Copyright (c) 2026 The Lockup developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lockuplabs/lockup/event"
)

func newTestServer(t *testing.T) (*httptest.Server, *event.Bus, *Subscriptions) {
	bus := event.NewBus()
	subs := New(bus, []string{"*"})
	t.Cleanup(subs.Close)

	router := mux.NewRouter()
	subs.Mount(router, "/subscriptions")
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, bus, subs
}

func dial(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/subscriptions/events" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) event.Event {
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var evt event.Event
	require.NoError(t, conn.ReadJSON(&evt))
	return evt
}

func TestStreamLiveEvents(t *testing.T) {
	srv, bus, _ := newTestServer(t)

	conn := dial(t, srv, "")

	// publish until the server-side subscriber picks one up
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case <-done:
				return
			default:
				bus.Publish(event.New(event.TypeStaked, 1, "live"))
				time.Sleep(10 * time.Millisecond)
			}
		}
	}()

	evt := readEvent(t, conn)
	assert.Equal(t, event.TypeStaked, evt.Type)
	assert.Equal(t, "live", evt.Data)
}

func TestBacktraceReplay(t *testing.T) {
	srv, bus, _ := newTestServer(t)

	bus.Publish(event.New(event.TypeStaked, 1, "one"))
	bus.Publish(event.New(event.TypeWithdrawn, 2, "two"))
	bus.Publish(event.New(event.TypeStaked, 3, "three"))

	conn := dial(t, srv, "?pos=1")

	evt := readEvent(t, conn)
	assert.Equal(t, uint64(2), evt.Seq)
	evt = readEvent(t, conn)
	assert.Equal(t, uint64(3), evt.Seq)
}

func TestTypeFilter(t *testing.T) {
	srv, bus, _ := newTestServer(t)

	bus.Publish(event.New(event.TypeStaked, 1, nil))
	bus.Publish(event.New(event.TypeWithdrawn, 2, nil))

	conn := dial(t, srv, "?pos=0&t=withdrawn")

	evt := readEvent(t, conn)
	assert.Equal(t, event.TypeWithdrawn, evt.Type)
	assert.Equal(t, uint64(2), evt.Seq)
}

func TestBadPos(t *testing.T) {
	srv, _, _ := newTestServer(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/subscriptions/events?pos=nope"
	_, res, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, res)
	assert.Equal(t, 400, res.StatusCode)
}
