package ledger

import "github.com/shopspring/decimal"

const (
	transferToPrefix   = "Transfer to user "
	transferFromPrefix = "Transfer from user "
)

// Receipt describes a completed transfer.
type Receipt struct {
	From   string
	To     string
	Amount decimal.Decimal
}

// Transfer moves amount from sender's wallet to the wallet of the account
// named recipient. Nothing is mutated unless every check passes. Both ledger
// entries bypass budget alerts.
func Transfer(d *Directory, sender *Account, recipient string, amount decimal.Decimal) (Receipt, error) {
	to, ok := d.Find(recipient)
	if !ok {
		return Receipt{}, ErrUserNotFound
	}
	if !amount.IsPositive() {
		return Receipt{}, ErrTransferNotPositive
	}
	if sender.wallet.balance.LessThan(amount) {
		return Receipt{}, ErrInsufficientFunds
	}

	sender.wallet.debit(TransferToCategory(to.username), amount)
	to.wallet.credit(TransferFromCategory(sender.username), amount)

	return Receipt{From: sender.username, To: to.username, Amount: amount}, nil
}

// TransferToCategory is the expense category a sender records for a transfer.
func TransferToCategory(recipient string) string { return transferToPrefix + recipient }

// TransferFromCategory is the income category a recipient records for a transfer.
func TransferFromCategory(sender string) string { return transferFromPrefix + sender }
