// Package store persists the account directory between runs.
package store

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/purse/internal/ledger"
)

// Supported backends.
const (
	BackendTOML   = "toml"
	BackendSQLite = "sqlite"
)

// Backends lists the accepted backend names.
var Backends = []string{BackendTOML, BackendSQLite}

// ErrUnknownBackend is returned by Open for an unsupported backend name.
var ErrUnknownBackend = errors.New("unknown storage backend")

// Store loads and saves the whole directory at once.
//
// Load returns an empty directory and no error when nothing has been saved
// yet. Any other failure is a ledger.KindPersistence error.
type Store interface {
	Load() (*ledger.Directory, error)
	Save(d *ledger.Directory) error
	Path() string
}

// Open returns the store for backend rooted at path.
func Open(backend, path string) (Store, error) {
	switch backend {
	case BackendTOML, "":
		return NewTOMLStore(path), nil
	case BackendSQLite:
		return NewSQLiteStore(path), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

// Entry kinds, shared by both on-disk formats.
const (
	kindIncome  = "income"
	kindExpense = "expense"
	kindBudget  = "budget"
)

type entry struct {
	Category string
	Amount   decimal.Decimal
}

func sortedEntries(m map[string]decimal.Decimal) []entry {
	out := make([]entry, 0, len(m))
	for c, a := range m {
		out = append(out, entry{Category: c, Amount: a})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

// stateBuilder accumulates a wallet while records are decoded.
type stateBuilder struct {
	username string
	password string
	state    ledger.WalletState
}

func newStateBuilder(username, password string, balance decimal.Decimal) *stateBuilder {
	return &stateBuilder{
		username: username,
		password: password,
		state: ledger.WalletState{
			Balance: balance,
			Income:  make(map[string]decimal.Decimal),
			Expense: make(map[string]decimal.Decimal),
			Budget:  make(map[string]decimal.Decimal),
		},
	}
}

func (b *stateBuilder) add(kind, category, amount string) error {
	if category == "" {
		return fmt.Errorf("account %q: empty %s category", b.username, kind)
	}
	v, err := parseAmount(amount)
	if err != nil {
		return fmt.Errorf("account %q: %s %q: %w", b.username, kind, category, err)
	}
	if !v.IsPositive() {
		return fmt.Errorf("account %q: %s %q: amount %s is not positive", b.username, kind, category, v)
	}
	var m map[string]decimal.Decimal
	switch kind {
	case kindIncome:
		m = b.state.Income
	case kindExpense:
		m = b.state.Expense
	case kindBudget:
		m = b.state.Budget
	default:
		return fmt.Errorf("account %q: unknown entry kind %q", b.username, kind)
	}
	if _, dup := m[category]; dup {
		return fmt.Errorf("account %q: duplicate %s category %q", b.username, kind, category)
	}
	m[category] = v
	return nil
}

func (b *stateBuilder) account() *ledger.Account {
	return ledger.RestoreAccount(b.username, b.password, ledger.RestoreWallet(b.state))
}

func parseAmount(s string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return v, nil
}

func buildDirectory(builders []*stateBuilder) (*ledger.Directory, error) {
	accounts := make([]*ledger.Account, 0, len(builders))
	for _, b := range builders {
		accounts = append(accounts, b.account())
	}
	return ledger.LoadDirectory(accounts)
}
