// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"context"
	"database/sql"
	"math/big"
	"strings"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/schoollys/atlas2/atlas"
	"github.com/schoollys/atlas2/staker/events"
)

const memPath = ":memory:"

// LogDB indexes staking events for queries by kind, account, era and block.
type LogDB struct {
	path          string
	db            *sql.DB
	driverVersion string
	stmtCache     *stmtCache
}

// New create or open log db at given path.
func New(path string) (logDB *LogDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if logDB == nil {
			db.Close()
		}
	}()
	if path == memPath {
		// every connection would get its own memory database
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, errors.Wrap(err, "create schema")
	}

	driverVer, _, _ := sqlite3.Version()
	return &LogDB{
		path:          path,
		db:            db,
		driverVersion: driverVer,
		stmtCache:     newStmtCache(db),
	}, nil
}

// NewMem create a log db in ram.
func NewMem() (*LogDB, error) {
	return New(memPath)
}

// Close close the log db.
func (db *LogDB) Close() error {
	db.stmtCache.Clear()
	return db.db.Close()
}

func (db *LogDB) Path() string {
	return db.path
}

func (db *LogDB) DriverVersion() string {
	return db.driverVersion
}

// NewestBlock returns the highest block with indexed events.
func (db *LogDB) NewestBlock() (atlas.BlockNumber, bool, error) {
	var seq sql.NullInt64
	if err := db.db.QueryRow("SELECT MAX(seq) FROM event").Scan(&seq); err != nil {
		return 0, false, err
	}
	if !seq.Valid {
		return 0, false, nil
	}
	return sequence(seq.Int64).BlockNumber(), true, nil
}

// Write indexes the events emitted in block n, in order.
func (db *LogDB) Write(n atlas.BlockNumber, evs []*events.Event) error {
	if len(evs) == 0 {
		return nil
	}
	err := db.execInTx(func(tx *sql.Tx) error {
		stmt, err := tx.Prepare("INSERT OR REPLACE INTO event(seq, era, kind, account, target, amount) VALUES (?, ?, ?, ?, ?, ?)")
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, ev := range evs {
			if _, err := stmt.Exec(
				int64(newSequence(n, uint32(i))),
				uint32(ev.Era),
				uint8(ev.Kind),
				addressValue(ev.Account),
				addressValue(ev.Target),
				ev.Amount.Big().Bytes(),
			); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errors.Wrapf(err, "write events of block %d", n)
	}
	metricEventsWritten().Add(int64(len(evs)))
	return nil
}

// Truncate removes the events of block from and every later block.
func (db *LogDB) Truncate(from atlas.BlockNumber) error {
	if _, err := db.db.Exec("DELETE FROM event WHERE seq >= ?", int64(newSequence(from, 0))); err != nil {
		return errors.Wrapf(err, "truncate from block %d", from)
	}
	return nil
}

func (db *LogDB) FilterEvents(ctx context.Context, filter *EventFilter) ([]*Event, error) {
	const query = "SELECT seq, era, kind, account, target, amount FROM event"
	if filter == nil {
		return db.queryEvents(ctx, query+" ORDER BY seq ASC")
	}
	metricsHandleEventsFilter(filter)

	var (
		args []any
		stmt strings.Builder
	)
	stmt.WriteString(query + " WHERE 1")
	if filter.Range != nil {
		from, to := blockRange(filter.Range.From, filter.Range.To)
		args = append(args, int64(from))
		stmt.WriteString(" AND seq >= ?")
		if filter.Range.To >= filter.Range.From {
			args = append(args, int64(to))
			stmt.WriteString(" AND seq <= ?")
		}
	}
	if len(filter.Kinds) > 0 {
		stmt.WriteString(" AND kind IN (")
		for i, kind := range filter.Kinds {
			if i > 0 {
				stmt.WriteString(",")
			}
			stmt.WriteString("?")
			args = append(args, uint8(kind))
		}
		stmt.WriteString(")")
	}
	if filter.Account != nil {
		args = append(args, filter.Account.Bytes(), filter.Account.Bytes())
		stmt.WriteString(" AND (account = ? OR target = ?)")
	}
	if filter.Era != nil {
		args = append(args, uint32(*filter.Era))
		stmt.WriteString(" AND era = ?")
	}

	if filter.Order == DESC {
		stmt.WriteString(" ORDER BY seq DESC")
	} else {
		stmt.WriteString(" ORDER BY seq ASC")
	}
	if filter.Options != nil {
		stmt.WriteString(" LIMIT ?, ?")
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.queryEvents(ctx, stmt.String(), args...)
}

func (db *LogDB) queryEvents(ctx context.Context, query string, args ...any) ([]*Event, error) {
	stmt, err := db.stmtCache.Prepare(query)
	if err != nil {
		return nil, err
	}
	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*Event
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			seq     int64
			era     uint32
			kind    uint8
			account []byte
			target  []byte
			amount  []byte
		)
		if err := rows.Scan(&seq, &era, &kind, &account, &target, &amount); err != nil {
			return nil, err
		}
		list = append(list, &Event{
			BlockNumber: sequence(seq).BlockNumber(),
			Index:       sequence(seq).Index(),
			Event: events.Event{
				Kind:    events.Kind(kind),
				Era:     atlas.EraIndex(era),
				Account: atlas.BytesToAddress(account),
				Target:  atlas.BytesToAddress(target),
				Amount:  atlas.BalanceFromBig(new(big.Int).SetBytes(amount)),
			},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func (db *LogDB) execInTx(proc func(*sql.Tx) error) error {
	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	if err := proc(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// addressValue stores the zero address as NULL, so account filters never match it.
func addressValue(a atlas.Address) []byte {
	if a.IsZero() {
		return nil
	}
	return a.Bytes()
}
