package session

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/purse/internal/ledger"
)

var (
	errInvalidCommand    = &ledger.Error{Kind: ledger.KindValidation, Msg: "invalid command"}
	errBudgetNotPositive = &ledger.Error{Kind: ledger.KindValidation, Msg: "budget must be positive", Err: ledger.ErrNonPositiveAmount}
	errLineTooLong       = &ledger.Error{Kind: ledger.KindValidation, Msg: "input line too long"}
	errInput             = errors.New("reading input")
)

// notFoundError is ledger.ErrUserNotFound with an optional spelling suggestion.
type notFoundError struct {
	suggestion string
}

func (e *notFoundError) Error() string { return ledger.ErrUserNotFound.Error() }

func (e *notFoundError) Unwrap() error { return ledger.ErrUserNotFound }

// messages maps each known error to the text shown to the user.
var messages = []struct {
	err error
	msg string
}{
	{errInvalidCommand, "Invalid command."},
	{errLineTooLong, "Invalid input. The line is too long."},
	{errBudgetNotPositive, "The budget must be positive."},
	{ledger.ErrEmptyCategory, "Category cannot be empty."},
	{ledger.ErrNonPositiveAmount, "The amount must be positive."},
	{ledger.ErrInvalidAmount, "Invalid amount. Please enter a valid number."},
	{ledger.ErrEmptyUsername, "Login cannot be empty."},
	{ledger.ErrAccountExists, "Login already exists."},
	{ledger.ErrBadCredentials, "Incorrect login or password."},
	{ledger.ErrUserNotFound, "User not found."},
	{ledger.ErrTransferNotPositive, "The transfer amount must be positive."},
	{ledger.ErrInsufficientFunds, "Not enough funds to transfer."},
}

// message converts err into a user-facing line.
func message(err error) string {
	var nf *notFoundError
	if errors.As(err, &nf) && nf.suggestion != "" {
		return fmt.Sprintf("User not found. Did you mean %q?", nf.suggestion)
	}
	for _, m := range messages {
		if errors.Is(err, m.err) {
			return m.msg
		}
	}
	return "Error: " + err.Error()
}
