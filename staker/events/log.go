// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/schoollys/atlas2/storage"
)

type seq uint32

func (s seq) Bytes() []byte {
	return binary.BigEndian.AppendUint32(nil, uint32(s))
}

// Log is an append only event log kept in state, so a reverted call drops its events too.
type Log struct {
	size    *storage.Value[uint32]
	entries *storage.Mapping[seq, *Event]
}

func NewLog(sctx *storage.Context) *Log {
	return &Log{
		size:    storage.NewValue[uint32](sctx, "events-size"),
		entries: storage.NewMapping[seq, *Event](sctx, "events"),
	}
}

// Emit appends ev.
func (l *Log) Emit(ev *Event) error {
	n, err := l.size.Get()
	if err != nil {
		return errors.Wrap(err, "failed to get events size")
	}
	if err := l.entries.Set(seq(n), ev); err != nil {
		return errors.Wrap(err, "failed to append event")
	}
	return l.size.Set(n + 1)
}

func (l *Log) Len() (uint32, error) {
	return l.size.Get()
}

// All returns the pending events, oldest first.
func (l *Log) All() ([]*Event, error) {
	n, err := l.size.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get events size")
	}
	out := make([]*Event, 0, n)
	for i := range n {
		ev, err := l.entries.Get(seq(i))
		if err != nil {
			return nil, errors.Wrap(err, "failed to get event")
		}
		if ev == nil {
			return nil, errors.Errorf("event %d missing", i)
		}
		out = append(out, ev)
	}
	return out, nil
}

// Drain returns the pending events and clears the log.
func (l *Log) Drain() ([]*Event, error) {
	all, err := l.All()
	if err != nil {
		return nil, err
	}
	for i := range all {
		l.entries.Delete(seq(i))
	}
	l.size.Delete()
	return all, nil
}
