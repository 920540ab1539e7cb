package store

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/theirongolddev/purse/internal/ledger"

	_ "modernc.org/sqlite" // register sqlite driver
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteStore keeps the directory in a SQLite database file.
type SQLiteStore struct {
	path string
}

// NewSQLiteStore returns a store backed by the database at path.
func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string { return s.path }

// Load reads every account and wallet entry. The database is opened query
// only and never migrated, so a read-only file loads. A missing or zero-length
// file yields an empty directory and is left untouched.
func (s *SQLiteStore) Load() (*ledger.Directory, error) {
	fi, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ledger.NewDirectory(), nil
		}
		return nil, ledger.Persistence("opening database", err)
	}
	if fi.Size() == 0 {
		return ledger.NewDirectory(), nil
	}

	db, err := openDB(s.path + "?_pragma=query_only(1)")
	if err != nil {
		return nil, ledger.Persistence("opening database", err)
	}
	defer db.Close()

	d, err := loadDirectory(db)
	if err != nil {
		return nil, ledger.Persistence("loading accounts", err)
	}
	return d, nil
}

// Save replaces the stored state with d inside a single transaction.
func (s *SQLiteStore) Save(d *ledger.Directory) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return ledger.Persistence("creating data dir", err)
	}

	if err := runMigrations(s.path); err != nil {
		return ledger.Persistence("migrating database", err)
	}
	db, err := openDB(s.path + "?_pragma=foreign_keys(on)&_pragma=synchronous(full)")
	if err != nil {
		return ledger.Persistence("opening database", err)
	}
	defer db.Close()

	if err := saveDirectory(db, d); err != nil {
		return ledger.Persistence("saving accounts", err)
	}
	return nil
}

func openDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return db, nil
}

// runMigrations brings the schema up to date on its own connection, since
// closing the migrate instance closes the database it was given.
func runMigrations(dbPath string) error {
	migrateDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open migration database: %w", err)
	}

	driver, err := sqlite.WithInstance(migrateDB, &sqlite.Config{})
	if err != nil {
		_ = migrateDB.Close()
		return fmt.Errorf("create sqlite driver: %w", err)
	}

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		_ = driver.Close()
		return fmt.Errorf("create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		_ = driver.Close()
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

func loadDirectory(db *sql.DB) (*ledger.Directory, error) {
	rows, err := db.Query("SELECT username, password, balance FROM accounts ORDER BY username")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var builders []*stateBuilder
	byName := make(map[string]*stateBuilder)
	for rows.Next() {
		var username, password, balanceStr string
		if err := rows.Scan(&username, &password, &balanceStr); err != nil {
			return nil, err
		}
		balance, err := parseAmount(balanceStr)
		if err != nil {
			return nil, fmt.Errorf("account %q balance: %w", username, err)
		}
		b := newStateBuilder(username, password, balance)
		builders = append(builders, b)
		byName[username] = b
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	entryRows, err := db.Query("SELECT username, kind, category, amount FROM wallet_entries")
	if err != nil {
		return nil, err
	}
	defer func() { _ = entryRows.Close() }()

	for entryRows.Next() {
		var username, kind, category, amount string
		if err := entryRows.Scan(&username, &kind, &category, &amount); err != nil {
			return nil, err
		}
		b, ok := byName[username]
		if !ok {
			return nil, fmt.Errorf("wallet entry for unknown account %q", username)
		}
		if err := b.add(kind, category, amount); err != nil {
			return nil, err
		}
	}
	if err := entryRows.Err(); err != nil {
		return nil, err
	}

	return buildDirectory(builders)
}

func saveDirectory(db *sql.DB, d *ledger.Directory) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM wallet_entries"); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM accounts"); err != nil {
		return err
	}

	for _, a := range d.Accounts() {
		st := a.Wallet().State()
		_, err := tx.Exec(`INSERT INTO accounts (username, password, balance) VALUES (?, ?, ?)`,
			a.Username(), a.Password(), st.Balance.String())
		if err != nil {
			return err
		}

		for _, group := range []struct {
			kind    string
			entries []entry
		}{
			{kindIncome, sortedEntries(st.Income)},
			{kindExpense, sortedEntries(st.Expense)},
			{kindBudget, sortedEntries(st.Budget)},
		} {
			for _, e := range group.entries {
				_, err := tx.Exec(`INSERT INTO wallet_entries (username, kind, category, amount)
					VALUES (?, ?, ?, ?)`, a.Username(), group.kind, e.Category, e.Amount.String())
				if err != nil {
					return err
				}
			}
		}
	}

	return tx.Commit()
}
