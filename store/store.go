/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package store is the façade over the archive's backing relational store:
// schema DDL, the item/content/itemcontent statements the pack and extract
// pipelines need, incremental blob I/O by row id, transaction boundaries,
// and backup-to-file for the in-memory pack mode.
//
// It talks to SQLite through github.com/mattn/go-sqlite3 directly instead
// of through an ORM, because two operations the format's design requires —
// incremental blob I/O opened by row id, and the online backup API — are
// SQLite-specific capabilities no database/sql-level abstraction exposes.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/mattn/go-sqlite3"

	"github.com/sabouaram/dbarc/rerror"
	"github.com/sabouaram/dbarc/rlog"
)

var driverSeq int64

// Store is the single opaque handle described in the archive spec's Store
// component. One *sql.DB is kept at pool size 1 so every statement and every
// raw blob/backup operation runs on the identical underlying SQLite
// connection, which is what lets a blob opened mid-transaction see a row
// inserted earlier in that same transaction.
type Store struct {
	db   *sql.DB
	raw  *sqlite3.SQLiteConn
	mode Mode
}

// Open creates or attaches to an archive per mode, applying pageSize (see
// PageSizeFor) before the schema is created. OpenExisting ignores pageSize
// since the page size of an existing file is fixed at its own creation time.
func Open(mode Mode, pageSize int) (*Store, error) {
	name := fmt.Sprintf("dbarc-sqlite3-%d", atomic.AddInt64(&driverSeq, 1))

	var captured *sqlite3.SQLiteConn
	sql.Register(name, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			captured = conn
			return nil
		},
	})

	if mode.kind == KindOpenExisting {
		if _, err := os.Stat(mode.path); err != nil {
			return nil, rerror.IO(err, "opening archive %s", mode.path)
		}
	}

	dsn, create := dsnFor(mode)

	db, err := sql.Open(name, dsn)
	if err != nil {
		return nil, rerror.Store(err, "opening %s", dsn)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	// force the pool to actually dial, so ConnectHook fires and raw is set.
	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, rerror.Store(err, "connecting to %s", dsn)
	}
	if captured == nil {
		_ = db.Close()
		return nil, rerror.New(rerror.CodeStore, "sqlite3 connect hook did not fire")
	}

	s := &Store{db: db, raw: captured, mode: mode}

	if create {
		if err = s.initSchema(pageSize); err != nil {
			_ = db.Close()
			return nil, err
		}
	} else if err = s.checkSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

func dsnFor(mode Mode) (dsn string, create bool) {
	switch mode.kind {
	case KindCreateInMemory:
		return "file::memory:?cache=shared&_journal_mode=MEMORY", true
	default:
		// existence of mode.path is already verified by the caller.
		return mode.path + "?_foreign_keys=off", false
	}
}

func (s *Store) initSchema(pageSize int) error {
	if pageSize <= 0 {
		pageSize = 4096
	}
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA page_size=%d", pageSize)); err != nil {
		return rerror.Store(err, "setting page size")
	}
	if _, err := s.db.Exec(schemaDDL); err != nil {
		return rerror.Store(err, "creating schema")
	}
	return nil
}

func (s *Store) checkSchema() error {
	rows, err := s.db.Query(`SELECT name FROM sqlite_master WHERE type='table'`)
	if err != nil {
		return rerror.SchemaMismatch(err, "reading sqlite_master")
	}
	defer rows.Close()

	want := map[string]bool{"item": true, "content": true, "itemcontent": true}
	found := map[string]bool{}
	for rows.Next() {
		var n string
		if err = rows.Scan(&n); err != nil {
			return rerror.SchemaMismatch(err, "reading table name")
		}
		found[n] = true
	}
	for t := range want {
		if !found[t] {
			return rerror.New(rerror.CodeSchemaMismatch, "missing table %q: not an archive of this format", t)
		}
	}
	return nil
}

// Flush copies the in-memory database to the configured destination path
// via SQLite's online backup API. It is a no-op for OpenExisting.
func (s *Store) Flush() error {
	if s.mode.kind != KindCreateInMemory {
		return nil
	}

	destName := fmt.Sprintf("dbarc-sqlite3-dest-%d", atomic.AddInt64(&driverSeq, 1))
	var destCaptured *sqlite3.SQLiteConn
	sql.Register(destName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			destCaptured = conn
			return nil
		},
	})

	destDB, err := sql.Open(destName, s.mode.path)
	if err != nil {
		return rerror.Store(err, "opening backup destination %s", s.mode.path)
	}
	defer destDB.Close()
	destDB.SetMaxOpenConns(1)

	if err = destDB.Ping(); err != nil {
		return rerror.Store(err, "connecting to backup destination")
	}
	if destCaptured == nil {
		return rerror.New(rerror.CodeStore, "sqlite3 connect hook did not fire for backup destination")
	}

	backup, err := s.raw.Backup("main", destCaptured, "main")
	if err != nil {
		return rerror.Store(err, "starting online backup")
	}
	defer backup.Close()

	for {
		done, err := backup.Step(-1)
		if err != nil {
			return rerror.Store(err, "stepping online backup")
		}
		if done {
			break
		}
	}

	rlog.Named("store").Debug("flushed in-memory archive", "path", s.mode.path)
	return nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return rerror.Store(err, "closing store")
	}
	return nil
}

// DB exposes the underlying *sql.DB for callers that need plain SQL access
// without the single-writer raw-connection concerns (e.g. read-only list
// queries running concurrently with no active transaction).
func (s *Store) DB() *sql.DB {
	return s.db
}
