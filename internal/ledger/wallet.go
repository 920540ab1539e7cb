// Package ledger holds the account, wallet and directory bookkeeping for purse.
package ledger

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Wallet is a per-account ledger of balance, income, expense and budgets by
// category. The balance is maintained incrementally and always equals total
// income minus total expense.
type Wallet struct {
	balance decimal.Decimal
	income  map[string]decimal.Decimal
	expense map[string]decimal.Decimal
	budget  map[string]decimal.Decimal
}

// WalletState is a detached copy of a wallet's contents, used for
// persistence and reporting.
type WalletState struct {
	Balance decimal.Decimal
	Income  map[string]decimal.Decimal
	Expense map[string]decimal.Decimal
	Budget  map[string]decimal.Decimal
}

// BudgetAlert is returned by AddExpense when the cumulative expense for a
// budgeted category exceeds its limit. The zero value means no alert.
type BudgetAlert struct {
	Category string
	Budget   decimal.Decimal
	Spent    decimal.Decimal
}

// Exceeded reports whether the alert is set.
func (a BudgetAlert) Exceeded() bool { return a.Category != "" }

// NewWallet returns an empty wallet with a zero balance.
func NewWallet() *Wallet {
	return &Wallet{
		balance: decimal.Zero,
		income:  make(map[string]decimal.Decimal),
		expense: make(map[string]decimal.Decimal),
		budget:  make(map[string]decimal.Decimal),
	}
}

// RestoreWallet rebuilds a wallet from persisted state. The balance is taken
// as stored and not recomputed.
func RestoreWallet(s WalletState) *Wallet {
	w := NewWallet()
	w.balance = s.Balance
	copyInto(w.income, s.Income)
	copyInto(w.expense, s.Expense)
	copyInto(w.budget, s.Budget)
	return w
}

// Balance returns the current balance.
func (w *Wallet) Balance() decimal.Decimal { return w.balance }

// State returns a copy of the wallet contents.
func (w *Wallet) State() WalletState {
	s := WalletState{
		Balance: w.balance,
		Income:  make(map[string]decimal.Decimal, len(w.income)),
		Expense: make(map[string]decimal.Decimal, len(w.expense)),
		Budget:  make(map[string]decimal.Decimal, len(w.budget)),
	}
	copyInto(s.Income, w.income)
	copyInto(s.Expense, w.expense)
	copyInto(s.Budget, w.budget)
	return s
}

// AddIncome records income under category.
func (w *Wallet) AddIncome(category string, amount decimal.Decimal) error {
	if err := validateEntry(category, amount); err != nil {
		return err
	}
	w.credit(category, amount)
	return nil
}

// AddExpense records an expense under category. The expense always posts;
// a set BudgetAlert only tells the caller the category is now over budget.
func (w *Wallet) AddExpense(category string, amount decimal.Decimal) (BudgetAlert, error) {
	if err := validateEntry(category, amount); err != nil {
		return BudgetAlert{}, err
	}
	spent := w.debit(category, amount)

	limit, ok := w.budget[category]
	if ok && spent.GreaterThan(limit) {
		return BudgetAlert{Category: category, Budget: limit, Spent: spent}, nil
	}
	return BudgetAlert{}, nil
}

// SetBudget sets or replaces the spending limit for category.
func (w *Wallet) SetBudget(category string, amount decimal.Decimal) error {
	if err := validateEntry(category, amount); err != nil {
		return err
	}
	w.budget[category] = amount
	return nil
}

// credit is the unvalidated income path shared with transfers.
func (w *Wallet) credit(category string, amount decimal.Decimal) {
	w.income[category] = w.income[category].Add(amount)
	w.balance = w.balance.Add(amount)
}

// debit is the unvalidated expense path shared with transfers. It returns the
// new cumulative expense for category.
func (w *Wallet) debit(category string, amount decimal.Decimal) decimal.Decimal {
	spent := w.expense[category].Add(amount)
	w.expense[category] = spent
	w.balance = w.balance.Sub(amount)
	return spent
}

// CategoryAmount is one category line in a Report.
type CategoryAmount struct {
	Category string
	Amount   decimal.Decimal
}

// BudgetLine reports a budget against what has been spent in its category.
// Left is negative when the category is overspent.
type BudgetLine struct {
	Category string
	Budget   decimal.Decimal
	Spent    decimal.Decimal
	Left     decimal.Decimal
}

// Report is the statistics view of a wallet. Lines are sorted by category.
type Report struct {
	Balance      decimal.Decimal
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	Income       []CategoryAmount
	Expense      []CategoryAmount
	Budgets      []BudgetLine
}

// Statistics computes totals and remaining budget per category.
func (w *Wallet) Statistics() Report {
	r := Report{
		Balance: w.balance,
		Income:  sortedLines(w.income),
		Expense: sortedLines(w.expense),
	}
	r.TotalIncome = sum(r.Income)
	r.TotalExpense = sum(r.Expense)

	for _, b := range sortedLines(w.budget) {
		spent := w.expense[b.Category]
		r.Budgets = append(r.Budgets, BudgetLine{
			Category: b.Category,
			Budget:   b.Amount,
			Spent:    spent,
			Left:     b.Amount.Sub(spent),
		})
	}
	return r
}

func validateEntry(category string, amount decimal.Decimal) error {
	if category == "" {
		return ErrEmptyCategory
	}
	if !amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	return nil
}

func sortedLines(m map[string]decimal.Decimal) []CategoryAmount {
	lines := make([]CategoryAmount, 0, len(m))
	for c, a := range m {
		lines = append(lines, CategoryAmount{Category: c, Amount: a})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].Category < lines[j].Category })
	return lines
}

func sum(lines []CategoryAmount) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Amount)
	}
	return total
}

func copyInto(dst, src map[string]decimal.Decimal) {
	for k, v := range src {
		dst[k] = v
	}
}
