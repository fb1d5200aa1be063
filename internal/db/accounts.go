package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"personmerge/internal/accounts"
	"personmerge/internal/apperror"
)

// ErrBatchNotFound is returned when a batch ID matches no imported batch.
var ErrBatchNotFound = errors.New("batch not found")

// ImportAccounts stores an account list as a new batch, keeping input order,
// and returns the batch ID.
func (d *DB) ImportAccounts(list []accounts.Account, source string) (string, error) {
	if len(list) == 0 {
		return "", apperror.EmptyInput()
	}

	tx, err := d.conn.Begin()
	if err != nil {
		return "", fmt.Errorf("starting import: %w", err)
	}
	defer tx.Rollback()

	id := uuid.NewString()
	if _, err := tx.Exec(
		`INSERT INTO batches (id, source, imported_at, account_count) VALUES (?, ?, ?, ?)`,
		id, source, time.Now().UnixMilli(), len(list),
	); err != nil {
		return "", fmt.Errorf("inserting batch: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO accounts (batch_id, position, application, emails, name) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing account insert: %w", err)
	}
	defer stmt.Close()

	for i, a := range list {
		app, err := json.Marshal(a.Application)
		if err != nil {
			return "", fmt.Errorf("encoding application of account %d: %w", i, err)
		}
		emails := a.Emails
		if emails == nil {
			emails = []string{}
		}
		emailsJSON, err := json.Marshal(emails)
		if err != nil {
			return "", fmt.Errorf("encoding emails of account %d: %w", i, err)
		}
		if _, err := stmt.Exec(id, i, string(app), string(emailsJSON), a.Name); err != nil {
			return "", fmt.Errorf("inserting account %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing import: %w", err)
	}
	return id, nil
}

// scanAccount scans a (application, emails, name) row into an Account
func scanAccount(scanner interface{ Scan(dest ...any) error }) (accounts.Account, error) {
	var app, emails string
	var a accounts.Account
	if err := scanner.Scan(&app, &emails, &a.Name); err != nil {
		return a, err
	}
	if err := a.Application.UnmarshalJSON([]byte(app)); err != nil {
		return a, fmt.Errorf("decoding stored application %s: %w", app, err)
	}
	if err := json.Unmarshal([]byte(emails), &a.Emails); err != nil {
		return a, fmt.Errorf("decoding stored emails: %w", err)
	}
	return a, nil
}

func (d *DB) queryAccounts(query string, args ...any) ([]accounts.Account, error) {
	rows, err := d.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []accounts.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// AllAccounts returns every stored account, batches in import order
func (d *DB) AllAccounts() ([]accounts.Account, error) {
	return d.queryAccounts(`
		SELECT a.application, a.emails, a.name
		FROM accounts a JOIN batches b ON b.id = a.batch_id
		ORDER BY b.rowid, a.position
	`)
}

// BatchAccounts returns the accounts of one batch in input order
func (d *DB) BatchAccounts(batchID string) ([]accounts.Account, error) {
	if _, err := d.GetBatch(batchID); err != nil {
		return nil, err
	}
	return d.queryAccounts(`
		SELECT application, emails, name FROM accounts
		WHERE batch_id = ? ORDER BY position
	`, batchID)
}

// GetBatch returns a single batch by ID
func (d *DB) GetBatch(id string) (*Batch, error) {
	var b Batch
	err := d.conn.QueryRow(
		`SELECT id, source, imported_at, account_count FROM batches WHERE id = ?`, id,
	).Scan(&b.ID, &b.Source, &b.ImportedAt, &b.AccountCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrBatchNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Batches lists imported batches oldest first
func (d *DB) Batches() ([]Batch, error) {
	rows, err := d.conn.Query(`SELECT id, source, imported_at, account_count FROM batches ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var batches []Batch
	for rows.Next() {
		var b Batch
		if err := rows.Scan(&b.ID, &b.Source, &b.ImportedAt, &b.AccountCount); err != nil {
			return nil, err
		}
		batches = append(batches, b)
	}
	return batches, rows.Err()
}

// DeleteBatch removes a batch and, by cascade, its accounts
func (d *DB) DeleteBatch(id string) error {
	res, err := d.conn.Exec(`DELETE FROM batches WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting batch %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrBatchNotFound, id)
	}
	return nil
}
