package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/theirongolddev/purse/internal/ledger"
)

// snapshotVersion is written to every snapshot; Load rejects other values.
const snapshotVersion = 1

// snapshotFile is the on-disk layout of a TOML snapshot. Amounts are decimal
// strings so they round-trip exactly.
type snapshotFile struct {
	Version  int             `toml:"version"`
	Accounts []accountRecord `toml:"account"`
}

type accountRecord struct {
	Username string        `toml:"username"`
	Password string        `toml:"password"`
	Balance  string        `toml:"balance"`
	Income   []entryRecord `toml:"income,omitempty"`
	Expense  []entryRecord `toml:"expense,omitempty"`
	Budget   []entryRecord `toml:"budget,omitempty"`
}

type entryRecord struct {
	Category string `toml:"category"`
	Amount   string `toml:"amount"`
}

// TOMLStore keeps the directory in a single TOML file.
type TOMLStore struct {
	path string
}

// NewTOMLStore returns a store backed by the file at path.
func NewTOMLStore(path string) *TOMLStore {
	return &TOMLStore{path: path}
}

// Path returns the snapshot file path.
func (s *TOMLStore) Path() string { return s.path }

// Load reads the snapshot. A missing file yields an empty directory.
func (s *TOMLStore) Load() (*ledger.Directory, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ledger.NewDirectory(), nil
		}
		return nil, ledger.Persistence("reading snapshot", err)
	}

	var snap snapshotFile
	if err := toml.Unmarshal(data, &snap); err != nil {
		return nil, ledger.Persistence("parsing snapshot", err)
	}
	if snap.Version != snapshotVersion {
		return nil, ledger.Persistence("parsing snapshot",
			fmt.Errorf("unsupported snapshot version %d", snap.Version))
	}

	builders := make([]*stateBuilder, 0, len(snap.Accounts))
	for _, rec := range snap.Accounts {
		balance, err := parseAmount(rec.Balance)
		if err != nil {
			return nil, ledger.Persistence("parsing snapshot",
				fmt.Errorf("account %q balance: %w", rec.Username, err))
		}
		b := newStateBuilder(rec.Username, rec.Password, balance)
		for _, group := range []struct {
			kind    string
			entries []entryRecord
		}{
			{kindIncome, rec.Income},
			{kindExpense, rec.Expense},
			{kindBudget, rec.Budget},
		} {
			for _, e := range group.entries {
				if err := b.add(group.kind, e.Category, e.Amount); err != nil {
					return nil, ledger.Persistence("parsing snapshot", err)
				}
			}
		}
		builders = append(builders, b)
	}

	d, err := buildDirectory(builders)
	if err != nil {
		return nil, ledger.Persistence("parsing snapshot", err)
	}
	return d, nil
}

// Save writes the whole directory, replacing the previous snapshot.
// The file is written beside the target and renamed into place.
func (s *TOMLStore) Save(d *ledger.Directory) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return ledger.Persistence("creating data dir", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return ledger.Persistence("creating snapshot", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := toml.NewEncoder(tmp).Encode(toSnapshot(d)); err != nil {
		_ = tmp.Close()
		return ledger.Persistence("writing snapshot", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return ledger.Persistence("writing snapshot", err)
	}
	if err := tmp.Close(); err != nil {
		return ledger.Persistence("writing snapshot", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return ledger.Persistence("replacing snapshot", err)
	}
	return nil
}

func toSnapshot(d *ledger.Directory) snapshotFile {
	snap := snapshotFile{Version: snapshotVersion}
	for _, a := range d.Accounts() {
		st := a.Wallet().State()
		snap.Accounts = append(snap.Accounts, accountRecord{
			Username: a.Username(),
			Password: a.Password(),
			Balance:  st.Balance.String(),
			Income:   toRecords(sortedEntries(st.Income)),
			Expense:  toRecords(sortedEntries(st.Expense)),
			Budget:   toRecords(sortedEntries(st.Budget)),
		})
	}
	return snap
}

func toRecords(entries []entry) []entryRecord {
	out := make([]entryRecord, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryRecord{Category: e.Category, Amount: e.Amount.String()})
	}
	return out
}
