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

package store

import (
	"context"
	"database/sql"

	"github.com/sabouaram/dbarc/rerror"
)

// Txn wraps a *sql.Tx bound to the store's single connection. Blob handles
// opened against rows inserted earlier in the same Txn see those rows,
// because Store pins the pool to one physical connection.
type Txn struct {
	tx *sql.Tx
	s  *Store
}

// Begin starts a transaction on the store's single connection.
func (s *Store) Begin(ctx context.Context) (*Txn, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, rerror.Store(err, "beginning transaction")
	}
	return &Txn{tx: tx, s: s}, nil
}

// Commit commits the transaction.
func (t *Txn) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return rerror.Store(err, "committing transaction")
	}
	return nil
}

// Rollback aborts the transaction. Calling it after a successful Commit is
// a no-op, matching database/sql's own contract, so callers can defer it
// unconditionally.
func (t *Txn) Rollback() error {
	err := t.tx.Rollback()
	if err != nil && err != sql.ErrTxDone {
		return rerror.Store(err, "rolling back transaction")
	}
	return nil
}
