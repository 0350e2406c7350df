// Copyright (c) 2026 The Lockup developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"fmt"
	"log/slog"
	"strconv"
)

const (
	termTimeFormat = "01-02|15:04:05.000"
	termMsgJust    = 40
)

// color numbers for the terminal handler
const (
	colorRed    = 31
	colorGreen  = 32
	colorYellow = 33
	colorBlue   = 34
	colorPurple = 35
)

func levelColor(l slog.Level) int {
	switch l {
	case LevelCrit:
		return colorPurple
	case LevelError:
		return colorRed
	case LevelWarn:
		return colorYellow
	case LevelInfo:
		return colorGreen
	default:
		return colorBlue
	}
}

func levelTag(l slog.Level) string {
	switch l {
	case LevelTrace:
		return "TRACE"
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO "
	case LevelWarn:
		return "WARN "
	case LevelError:
		return "ERROR"
	case LevelCrit:
		return "CRIT "
	default:
		return "UNKN "
	}
}

func (h *TerminalHandler) format(buf []byte, r slog.Record) []byte {
	tag := levelTag(r.Level)
	if h.useColor {
		buf = append(buf, fmt.Sprintf("\x1b[%dm%s\x1b[0m", levelColor(r.Level), tag)...)
	} else {
		buf = append(buf, tag...)
	}
	buf = append(buf, '[')
	buf = append(buf, r.Time.Format(termTimeFormat)...)
	buf = append(buf, "] "...)
	buf = append(buf, r.Message...)

	// try to justify the log output for short messages
	if r.NumAttrs() > 0 && len(r.Message) < termMsgJust {
		for i := 0; i < termMsgJust-len(r.Message); i++ {
			buf = append(buf, ' ')
		}
	}

	for _, attr := range h.attrs {
		buf = h.appendAttr(buf, attr)
	}
	r.Attrs(func(attr slog.Attr) bool {
		buf = h.appendAttr(buf, attr)
		return true
	})
	return append(buf, '\n')
}

func (h *TerminalHandler) appendAttr(buf []byte, attr slog.Attr) []byte {
	attr = builtinReplace(nil, attr, true)
	buf = append(buf, ' ')
	if h.useColor {
		buf = append(buf, fmt.Sprintf("\x1b[%dm%s\x1b[0m=", levelColor(LevelInfo), attr.Key)...)
	} else {
		buf = append(buf, attr.Key...)
		buf = append(buf, '=')
	}
	value := attr.Value.String()
	if needsQuoting(value) {
		value = strconv.Quote(value)
	}
	return append(buf, value...)
}

func needsQuoting(s string) bool {
	for _, r := range s {
		if r <= ' ' || r == '=' || r == '"' {
			return true
		}
	}
	return len(s) == 0
}
