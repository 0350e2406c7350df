// Copyright (c) 2026 The Lockup developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"bytes"
	"io"
	"net/http"

	"github.com/lockuplabs/lockup/log"
)

// RequestLoggerHandler logs every request with its body before passing
// it on. The body can only be read once, so it is buffered and
// restored for the next handler.
func RequestLoggerHandler(handler http.Handler, logger log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			var err error
			if body, err = io.ReadAll(r.Body); err != nil {
				logger.Warn("unexpected body read error", "err", err)
				http.Error(w, "failed to read body", http.StatusBadRequest)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))
		}

		logger.Info("api request",
			"uri", r.URL.String(),
			"method", r.Method,
			"body", string(body),
		)
		handler.ServeHTTP(w, r)
	})
}
