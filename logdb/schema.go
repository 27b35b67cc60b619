// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

// seq is the block number and the index of the event within the block.
const eventTableSchema = `
CREATE TABLE IF NOT EXISTS event (
	seq INTEGER PRIMARY KEY NOT NULL,
	era INTEGER NOT NULL,
	kind INTEGER NOT NULL,
	account BLOB(20),
	target BLOB(20),
	amount BLOB
);

CREATE INDEX IF NOT EXISTS eraIndex ON event(era);
CREATE INDEX IF NOT EXISTS kindIndex ON event(kind);
CREATE INDEX IF NOT EXISTS accountIndex ON event(account);
CREATE INDEX IF NOT EXISTS targetIndex ON event(target);
`
