// Copyright (c) 2026 The Lockup developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package subscriptions streams ledger notifications over websocket.
package subscriptions

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/lockuplabs/lockup/api/restutil"
	"github.com/lockuplabs/lockup/event"
	"github.com/lockuplabs/lockup/log"
)

var logger = log.WithContext("pkg", "subscriptions")

const (
	writeTimeout = 10 * time.Second
	pingPeriod   = 30 * time.Second
)

type Subscriptions struct {
	bus      *event.Bus
	upgrader websocket.Upgrader
	done     chan struct{}
	wg       sync.WaitGroup
}

func New(bus *event.Bus, allowedOrigins []string) *Subscriptions {
	return &Subscriptions{
		bus: bus,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(req *http.Request) bool {
				origin := req.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if allowed == "*" || allowed == origin {
						return true
					}
				}
				return false
			},
		},
		done: make(chan struct{}),
	}
}

// handleSubscribeEvents streams bus events to the client. The optional
// pos query parameter replays buffered events after that sequence
// number first, t parameters narrow the event types.
func (s *Subscriptions) handleSubscribeEvents(w http.ResponseWriter, req *http.Request) error {
	var afterSeq uint64
	if pos := req.URL.Query().Get("pos"); pos != "" {
		parsed, err := strconv.ParseUint(pos, 10, 64)
		if err != nil {
			return restutil.BadRequest(errors.WithMessage(err, "pos"))
		}
		afterSeq = parsed
	}
	var types []event.Type
	for _, t := range req.URL.Query()["t"] {
		types = append(types, event.Type(t))
	}

	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		// the upgrader already responded
		return nil
	}
	s.wg.Add(1)
	defer s.wg.Done()
	defer conn.Close()

	id, ch := s.bus.Subscribe(types...)
	defer s.bus.Unsubscribe(id)

	// replay buffered events before going live
	lastSeq := afterSeq
	for _, evt := range s.bus.Recent(afterSeq) {
		if !matches(evt.Type, types) {
			continue
		}
		if err := write(conn, evt); err != nil {
			return nil
		}
		lastSeq = evt.Seq
	}

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return nil
		case <-closed:
			return nil
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return nil
			}
		case evt, ok := <-ch:
			if !ok {
				return nil
			}
			if evt.Seq <= lastSeq {
				continue
			}
			if err := write(conn, evt); err != nil {
				logger.Debug("subscriber write failed", "err", err)
				return nil
			}
			lastSeq = evt.Seq
		}
	}
}

func matches(t event.Type, types []event.Type) bool {
	if len(types) == 0 {
		return true
	}
	for _, want := range types {
		if t == want {
			return true
		}
	}
	return false
}

func write(conn *websocket.Conn, evt event.Event) error {
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteJSON(evt)
}

// Close shuts every open subscription down and waits for the hijacked
// connections to drain.
func (s *Subscriptions) Close() {
	close(s.done)
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/events").Methods(http.MethodGet).HandlerFunc(restutil.WrapHandlerFunc(s.handleSubscribeEvents))
}
