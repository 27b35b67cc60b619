// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"fmt"
	"log/slog"
	"math/big"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/holiman/uint256"
)

func (h *TerminalHandler) format(buf []byte, r slog.Record) []byte {
	msg := escapeMessage(r.Message)
	var color string
	if h.useColor {
		switch r.Level {
		case LevelCrit:
			color = "\x1b[35m"
		case slog.LevelError:
			color = "\x1b[31m"
		case slog.LevelWarn:
			color = "\x1b[33m"
		case slog.LevelInfo:
			color = "\x1b[32m"
		case slog.LevelDebug:
			color = "\x1b[36m"
		case LevelTrace:
			color = "\x1b[34m"
		}
	}
	if color != "" {
		buf = append(buf, color...)
		buf = append(buf, LevelAlignedString(r.Level)...)
		buf = append(buf, "\x1b[0m"...)
	} else {
		buf = append(buf, LevelAlignedString(r.Level)...)
	}
	buf = append(buf, '[')
	buf = r.Time.AppendFormat(buf, termTimeFormat)
	buf = append(buf, "] "...)
	buf = append(buf, msg...)

	// pad the message so contexts line up
	if (r.NumAttrs()+len(h.attrs)) > 0 && len(msg) < termMsgJust {
		buf = append(buf, strings.Repeat(" ", termMsgJust-len(msg))...)
	}

	for _, attr := range h.attrs {
		buf = h.appendAttr(buf, attr, color)
	}
	r.Attrs(func(attr slog.Attr) bool {
		buf = h.appendAttr(buf, attr, color)
		return true
	})
	return append(buf, '\n')
}

func (h *TerminalHandler) appendAttr(buf []byte, attr slog.Attr, color string) []byte {
	buf = append(buf, ' ')
	if color != "" {
		buf = append(buf, color...)
		buf = append(buf, escapeString(attr.Key)...)
		buf = append(buf, "\x1b[0m="...)
	} else {
		buf = append(buf, escapeString(attr.Key)...)
		buf = append(buf, '=')
	}
	return append(buf, formatValue(attr.Value)...)
}

func formatValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return escapeString(v.String())
	case slog.KindInt64:
		return strconv.FormatInt(v.Int64(), 10)
	case slog.KindUint64:
		return strconv.FormatUint(v.Uint64(), 10)
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'f', 3, 64)
	case slog.KindBool:
		return strconv.FormatBool(v.Bool())
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time().Format(timeFormat)
	case slog.KindLogValuer:
		return formatValue(v.Resolve())
	}

	switch val := v.Any().(type) {
	case nil:
		return "<nil>"
	case error:
		return escapeString(val.Error())
	case *big.Int:
		if val == nil {
			return "<nil>"
		}
		return val.String()
	case *uint256.Int:
		if val == nil {
			return "<nil>"
		}
		return val.Dec()
	case time.Time:
		return val.Format(timeFormat)
	case fmt.Stringer:
		if rv := reflect.ValueOf(val); rv.Kind() == reflect.Pointer && rv.IsNil() {
			return "<nil>"
		}
		return escapeString(val.String())
	default:
		return escapeString(fmt.Sprintf("%+v", val))
	}
}

// escapeString quotes s if it contains characters that would confuse a key=value reader.
func escapeString(s string) string {
	needsQuoting := s == ""
	for _, r := range s {
		if r <= ' ' || r == '=' || r == '"' || r == utf8.RuneError {
			needsQuoting = true
			break
		}
	}
	if !needsQuoting {
		return s
	}
	return strconv.Quote(s)
}

// escapeMessage quotes the message only when it carries control characters.
func escapeMessage(s string) string {
	for _, r := range s {
		if r < ' ' && r != '\t' {
			return strconv.Quote(s)
		}
	}
	return s
}
