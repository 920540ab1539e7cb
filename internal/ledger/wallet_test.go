package ledger

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", s, err)
	}
	return d
}

func assertInvariant(t *testing.T, w *Wallet) {
	t.Helper()
	r := w.Statistics()
	want := r.TotalIncome.Sub(r.TotalExpense)
	if !w.Balance().Equal(want) {
		t.Fatalf("balance = %s, want income-expense = %s", w.Balance(), want)
	}
}

func TestWalletBalanceInvariant(t *testing.T) {
	w := NewWallet()
	steps := []struct {
		income   bool
		category string
		amount   string
	}{
		{true, "salary", "1000"},
		{false, "food", "12.35"},
		{false, "food", "0.65"},
		{true, "gift", "0.10"},
		{false, "rent", "700"},
		{true, "salary", "1000"},
		{false, "rent", "1500.01"},
	}

	for i, s := range steps {
		var err error
		if s.income {
			err = w.AddIncome(s.category, dec(t, s.amount))
		} else {
			_, err = w.AddExpense(s.category, dec(t, s.amount))
		}
		if err != nil {
			t.Fatalf("step %d: unexpected error %v", i, err)
		}
		assertInvariant(t, w)
	}

	if got := w.Balance(); !got.Equal(dec(t, "-212.91")) {
		t.Fatalf("final balance = %s, want -212.91", got)
	}
}

func TestWalletValidationDoesNotMutate(t *testing.T) {
	w := NewWallet()
	if err := w.AddIncome("salary", dec(t, "100")); err != nil {
		t.Fatal(err)
	}
	before := w.Statistics()

	cases := []struct {
		name     string
		category string
		amount   string
		want     error
	}{
		{"empty category", "", "10", ErrEmptyCategory},
		{"zero amount", "food", "0", ErrNonPositiveAmount},
		{"negative amount", "food", "-5", ErrNonPositiveAmount},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			amount := dec(t, tc.amount)
			if err := w.AddIncome(tc.category, amount); !errors.Is(err, tc.want) {
				t.Fatalf("AddIncome err = %v, want %v", err, tc.want)
			}
			if _, err := w.AddExpense(tc.category, amount); !errors.Is(err, tc.want) {
				t.Fatalf("AddExpense err = %v, want %v", err, tc.want)
			}
			if err := w.SetBudget(tc.category, amount); !errors.Is(err, tc.want) {
				t.Fatalf("SetBudget err = %v, want %v", err, tc.want)
			}
			if KindOf(tc.want) != KindValidation {
				t.Fatalf("kind = %s, want validation", KindOf(tc.want))
			}

			after := w.Statistics()
			if !after.Balance.Equal(before.Balance) {
				t.Fatalf("balance changed: %s -> %s", before.Balance, after.Balance)
			}
			if len(after.Income) != 1 || len(after.Expense) != 0 || len(after.Budgets) != 0 {
				t.Fatalf("maps mutated: income=%d expense=%d budgets=%d",
					len(after.Income), len(after.Expense), len(after.Budgets))
			}
		})
	}
}

func TestBudgetAlertStrictlyAboveLimit(t *testing.T) {
	w := NewWallet()
	if err := w.SetBudget("food", dec(t, "100")); err != nil {
		t.Fatal(err)
	}

	alert, err := w.AddExpense("food", dec(t, "60"))
	if err != nil {
		t.Fatal(err)
	}
	if alert.Exceeded() {
		t.Fatal("alert at 60/100")
	}

	alert, _ = w.AddExpense("food", dec(t, "40"))
	if alert.Exceeded() {
		t.Fatal("alert at exactly the limit, want none")
	}

	alert, _ = w.AddExpense("food", dec(t, "0.01"))
	if !alert.Exceeded() {
		t.Fatal("no alert at 100.01/100")
	}
	if alert.Category != "food" || !alert.Spent.Equal(dec(t, "100.01")) || !alert.Budget.Equal(dec(t, "100")) {
		t.Fatalf("alert = %+v", alert)
	}

	// Other categories are unaffected.
	alert, _ = w.AddExpense("fuel", dec(t, "1000"))
	if alert.Exceeded() {
		t.Fatal("alert for unbudgeted category")
	}
}

func TestSetBudgetOverwrites(t *testing.T) {
	w := NewWallet()
	_ = w.SetBudget("food", dec(t, "100"))
	_ = w.SetBudget("food", dec(t, "300"))

	r := w.Statistics()
	if len(r.Budgets) != 1 || !r.Budgets[0].Budget.Equal(dec(t, "300")) {
		t.Fatalf("budgets = %+v, want food=300", r.Budgets)
	}
}

func TestStatisticsBudgetLeft(t *testing.T) {
	w := NewWallet()
	_ = w.AddIncome("salary", dec(t, "1000"))
	_, _ = w.AddExpense("food", dec(t, "210"))
	_ = w.SetBudget("food", dec(t, "150"))
	_ = w.SetBudget("travel", dec(t, "500"))

	r := w.Statistics()
	if !r.TotalIncome.Equal(dec(t, "1000")) || !r.TotalExpense.Equal(dec(t, "210")) {
		t.Fatalf("totals = %s/%s", r.TotalIncome, r.TotalExpense)
	}
	if len(r.Budgets) != 2 {
		t.Fatalf("budgets len = %d, want 2", len(r.Budgets))
	}
	food, travel := r.Budgets[0], r.Budgets[1]
	if food.Category != "food" || !food.Left.Equal(dec(t, "-60")) {
		t.Fatalf("food line = %+v, want left -60", food)
	}
	if travel.Category != "travel" || !travel.Left.Equal(dec(t, "500")) || !travel.Spent.IsZero() {
		t.Fatalf("travel line = %+v, want left 500", travel)
	}
}

func TestStateIsDetached(t *testing.T) {
	w := NewWallet()
	_ = w.AddIncome("salary", dec(t, "10"))

	s := w.State()
	s.Income["salary"] = dec(t, "999")

	if got := w.State().Income["salary"]; !got.Equal(dec(t, "10")) {
		t.Fatalf("wallet mutated through State copy: %s", got)
	}

	restored := RestoreWallet(w.State())
	if !restored.Balance().Equal(w.Balance()) {
		t.Fatalf("restored balance = %s, want %s", restored.Balance(), w.Balance())
	}
}
