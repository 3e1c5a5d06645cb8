/*
Copyright (C) 2026  MemCP Contributors

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

// Package metadb is a key/value-over-SQL facade backing the
// add_entry_to_database / print_database / remove_entry_from_database
// CLIs: one row per key in a two-column table, the dialect picked by
// the database URL's scheme (sql.Open, PingContext, pool tuning,
// QueryContext/Scan).
package metadb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"

	"github.com/mcsproject/mcs/errs"
)

const tableName = "mcs_kv"

// DB is a connection pool plus the dialect it was opened with.
type DB struct {
	sql    *sql.DB
	driver string
}

// Open parses a "mysql://..." or "postgres://..." URL, opens the
// matching driver, and ensures the backing key/value table exists.
func Open(ctx context.Context, url string) (*DB, error) {
	driver, dsn, err := dsnFor(url)
	if err != nil {
		return nil, err
	}
	sqlDB, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetMaxOpenConns(8)
	sqlDB.SetMaxIdleConns(8)
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, err
	}

	d := &DB{sql: sqlDB, driver: driver}
	if err := d.ensureTable(ctx); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return d, nil
}

// dsnFor maps a database URL's scheme to a database/sql driver name and
// the DSN that driver expects.
func dsnFor(url string) (driver, dsn string, err error) {
	switch {
	case strings.HasPrefix(url, "mysql://"):
		return "mysql", strings.TrimPrefix(url, "mysql://"), nil
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return "postgres", url, nil
	default:
		return "", "", fmt.Errorf("metadb: unrecognized database URL %q", url)
	}
}

func (d *DB) ensureTable(ctx context.Context) error {
	var ddl string
	if d.driver == "postgres" {
		ddl = "CREATE TABLE IF NOT EXISTS " + tableName + " (k TEXT PRIMARY KEY, v TEXT NOT NULL)"
	} else {
		ddl = "CREATE TABLE IF NOT EXISTS `" + tableName + "` (k VARCHAR(255) PRIMARY KEY, v TEXT NOT NULL)"
	}
	_, err := d.sql.ExecContext(ctx, ddl)
	return err
}

func (d *DB) placeholder(n int) string {
	if d.driver == "postgres" {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// Close releases the underlying connection pool.
func (d *DB) Close() error { return d.sql.Close() }

// Get reads the value stored under key; ok is false if key is unset.
func (d *DB) Get(ctx context.Context, key string) (value string, ok bool, err error) {
	row := d.sql.QueryRowContext(ctx, "SELECT v FROM "+tableName+" WHERE k = "+d.placeholder(1), key)
	if err := row.Scan(&value); err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

// Set writes key=value, overwriting any existing value
// (add_entry_to_database).
func (d *DB) Set(ctx context.Context, key, value string) error {
	var q string
	if d.driver == "postgres" {
		q = "INSERT INTO " + tableName + " (k, v) VALUES ($1, $2) ON CONFLICT (k) DO UPDATE SET v = EXCLUDED.v"
	} else {
		q = "INSERT INTO `" + tableName + "` (k, v) VALUES (?, ?) ON DUPLICATE KEY UPDATE v = VALUES(v)"
	}
	_, err := d.sql.ExecContext(ctx, q, key, value)
	return err
}

// Delete removes key and returns its value from immediately before
// deletion (remove_entry_from_database "delete and print old value"),
// failing errs.ErrUnknownKey if key was never set.
func (d *DB) Delete(ctx context.Context, key string) (oldValue string, err error) {
	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, "SELECT v FROM "+tableName+" WHERE k = "+d.placeholder(1), key)
	if err := row.Scan(&oldValue); err != nil {
		if err == sql.ErrNoRows {
			return "", errs.ErrUnknownKey
		}
		return "", err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM "+tableName+" WHERE k = "+d.placeholder(1), key); err != nil {
		return "", err
	}
	return oldValue, tx.Commit()
}

// Entry is one row enumerated by print_database.
type Entry struct {
	Key   string
	Value string
}

// Enumerate lists every key/value pair, ordered by key.
func (d *DB) Enumerate(ctx context.Context) ([]Entry, error) {
	rows, err := d.sql.QueryContext(ctx, "SELECT k, v FROM "+tableName+" ORDER BY k")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Key, &e.Value); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
