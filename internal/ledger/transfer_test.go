package ledger

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func fundedPair(t *testing.T, balance string) (*Directory, *Account, *Account) {
	t.Helper()
	d := NewDirectory()
	a, err := d.Register("alice", "pw1")
	if err != nil {
		t.Fatal(err)
	}
	b, err := d.Register("bob", "pw2")
	if err != nil {
		t.Fatal(err)
	}
	if err := a.Wallet().AddIncome("salary", dec(t, balance)); err != nil {
		t.Fatal(err)
	}
	return d, a, b
}

func systemTotal(d *Directory) decimal.Decimal {
	total := decimal.Zero
	for _, a := range d.Accounts() {
		total = total.Add(a.Wallet().Balance())
	}
	return total
}

func TestTransferMovesFunds(t *testing.T) {
	d, alice, bob := fundedPair(t, "500")
	before := systemTotal(d)

	r, err := Transfer(d, alice, "bob", dec(t, "300"))
	if err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	if r.From != "alice" || r.To != "bob" || !r.Amount.Equal(dec(t, "300")) {
		t.Fatalf("receipt = %+v", r)
	}
	if !alice.Wallet().Balance().Equal(dec(t, "200")) {
		t.Fatalf("alice balance = %s, want 200", alice.Wallet().Balance())
	}
	if !bob.Wallet().Balance().Equal(dec(t, "300")) {
		t.Fatalf("bob balance = %s, want 300", bob.Wallet().Balance())
	}
	if after := systemTotal(d); !after.Equal(before) {
		t.Fatalf("system total %s -> %s", before, after)
	}

	if got := alice.Wallet().State().Expense["Transfer to user bob"]; !got.Equal(dec(t, "300")) {
		t.Fatalf("alice transfer expense = %s", got)
	}
	if got := bob.Wallet().State().Income["Transfer from user alice"]; !got.Equal(dec(t, "300")) {
		t.Fatalf("bob transfer income = %s", got)
	}
	assertInvariant(t, alice.Wallet())
	assertInvariant(t, bob.Wallet())
}

func TestTransferWholeBalance(t *testing.T) {
	d, alice, _ := fundedPair(t, "50")
	if _, err := Transfer(d, alice, "bob", dec(t, "50")); err != nil {
		t.Fatalf("Transfer of full balance: %v", err)
	}
	if !alice.Wallet().Balance().IsZero() {
		t.Fatalf("alice balance = %s, want 0", alice.Wallet().Balance())
	}
}

func TestTransferFailuresDoNotMutate(t *testing.T) {
	cases := []struct {
		name      string
		recipient string
		amount    string
		want      error
	}{
		{"unknown recipient", "carol", "10", ErrUserNotFound},
		{"zero amount", "bob", "0", ErrTransferNotPositive},
		{"negative amount", "bob", "-1", ErrTransferNotPositive},
		{"insufficient funds", "bob", "100.01", ErrInsufficientFunds},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, alice, bob := fundedPair(t, "100")
			beforeA, beforeB := alice.Wallet().State(), bob.Wallet().State()

			_, err := Transfer(d, alice, tc.recipient, dec(t, tc.amount))
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
			if KindOf(err) != KindTransfer {
				t.Fatalf("kind = %s, want transfer", KindOf(err))
			}

			afterA, afterB := alice.Wallet().State(), bob.Wallet().State()
			if !afterA.Balance.Equal(beforeA.Balance) || !afterB.Balance.Equal(beforeB.Balance) {
				t.Fatal("balances changed on failed transfer")
			}
			if len(afterA.Expense) != 0 || len(afterB.Income) != 0 {
				t.Fatal("ledger entries recorded on failed transfer")
			}
		})
	}
}

func TestTransferSkipsBudgetAlert(t *testing.T) {
	d, alice, _ := fundedPair(t, "100")
	if err := alice.Wallet().SetBudget(TransferToCategory("bob"), dec(t, "1")); err != nil {
		t.Fatal(err)
	}
	if _, err := Transfer(d, alice, "bob", dec(t, "50")); err != nil {
		t.Fatalf("Transfer over budgeted category: %v", err)
	}
	r := alice.Wallet().Statistics()
	if !r.Budgets[0].Left.Equal(dec(t, "-49")) {
		t.Fatalf("left = %s, want -49", r.Budgets[0].Left)
	}
}
