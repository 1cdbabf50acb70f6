// Package sqlite opens the SQLite files behind fla decks. The driver is
// picked at build time: modernc.org/sqlite by default, mattn/go-sqlite3
// when built with -tags cgo_sqlite.
package sqlite

import (
	"database/sql"
	"fmt"
)

// Driver describes the driver compiled into the binary.
type Driver struct {
	Name    string // database/sql driver name
	Package string
	CGO     bool
}

// Current returns the compiled-in driver.
func Current() Driver {
	return Driver{Name: driverName, Package: driverPackage, CGO: driverCGO}
}

// Open opens the database file at path. The pool holds a single
// connection; a deck is written by one transaction and read by one query at
// a time.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
