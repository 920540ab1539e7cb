package ledger

import (
	"fmt"
	"sort"

	"github.com/agnivade/levenshtein"
)

// Account is a registered user's credentials plus the wallet it owns.
type Account struct {
	username string
	password string
	wallet   *Wallet
}

// NewAccount returns an account with an empty wallet.
func NewAccount(username, password string) *Account {
	return RestoreAccount(username, password, NewWallet())
}

// RestoreAccount rebuilds an account around an existing wallet.
func RestoreAccount(username, password string, w *Wallet) *Account {
	return &Account{username: username, password: password, wallet: w}
}

func (a *Account) Username() string { return a.username }

// Password returns the stored plain-text password. Only persistence reads it.
func (a *Account) Password() string { return a.password }

func (a *Account) Wallet() *Wallet { return a.wallet }

// CheckPassword compares pw against the stored password exactly.
func (a *Account) CheckPassword(pw string) bool { return a.password == pw }

// Directory is the set of registered accounts keyed by username.
// The map is only mutated through Directory methods.
type Directory struct {
	accounts map[string]*Account
}

// NewDirectory returns an empty directory.
func NewDirectory() *Directory {
	return &Directory{accounts: make(map[string]*Account)}
}

// LoadDirectory builds a directory from previously persisted accounts.
func LoadDirectory(accounts []*Account) (*Directory, error) {
	d := NewDirectory()
	for _, a := range accounts {
		if a.username == "" {
			return nil, ErrEmptyUsername
		}
		if d.Exists(a.username) {
			return nil, fmt.Errorf("loading %q: %w", a.username, ErrAccountExists)
		}
		d.accounts[a.username] = a
	}
	return d, nil
}

// Register creates an account with an empty wallet.
func (d *Directory) Register(username, password string) (*Account, error) {
	if username == "" {
		return nil, ErrEmptyUsername
	}
	if d.Exists(username) {
		return nil, ErrAccountExists
	}
	a := NewAccount(username, password)
	d.accounts[username] = a
	return a, nil
}

// Authenticate returns the account only when username exists and password
// matches exactly.
func (d *Directory) Authenticate(username, password string) (*Account, bool) {
	a, ok := d.accounts[username]
	if !ok || !a.CheckPassword(password) {
		return nil, false
	}
	return a, true
}

// Find looks up an account by username.
func (d *Directory) Find(username string) (*Account, bool) {
	a, ok := d.accounts[username]
	return a, ok
}

// Exists reports whether username is registered.
func (d *Directory) Exists(username string) bool {
	_, ok := d.accounts[username]
	return ok
}

// Len returns the number of registered accounts.
func (d *Directory) Len() int { return len(d.accounts) }

// Accounts returns all accounts sorted by username.
func (d *Directory) Accounts() []*Account {
	out := make([]*Account, 0, len(d.accounts))
	for _, a := range d.accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].username < out[j].username })
	return out
}

// maxSuggestDistance bounds how different a suggestion may be from the input.
const maxSuggestDistance = 2

// Suggest returns the registered username closest to name, or "" when none
// is within maxSuggestDistance edits. Ties go to the alphabetically first.
// A suggestion never needs as many edits as name has bytes.
func (d *Directory) Suggest(name string) string {
	best := ""
	bestDist := maxSuggestDistance + 1
	for _, a := range d.Accounts() {
		dist := levenshtein.ComputeDistance(name, a.username)
		if dist < bestDist && dist < len(name) {
			best, bestDist = a.username, dist
		}
	}
	return best
}
