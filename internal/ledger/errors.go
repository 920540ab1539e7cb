package ledger

import "errors"

// Kind classifies ledger errors so the session can decide how to report them.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindAuth
	KindTransfer
	KindPersistence
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindTransfer:
		return "transfer"
	case KindPersistence:
		return "persistence"
	default:
		return "unknown"
	}
}

// Error is a classified ledger error. Sentinels below are compared with errors.Is.
type Error struct {
	Kind Kind
	Msg  string
	Err  error // underlying cause, if any
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Err }

var (
	ErrEmptyCategory     = &Error{Kind: KindValidation, Msg: "category cannot be empty"}
	ErrNonPositiveAmount = &Error{Kind: KindValidation, Msg: "amount must be positive"}
	ErrInvalidAmount     = &Error{Kind: KindValidation, Msg: "invalid amount"}

	ErrEmptyUsername  = &Error{Kind: KindAuth, Msg: "login cannot be empty"}
	ErrAccountExists  = &Error{Kind: KindAuth, Msg: "login already exists"}
	ErrBadCredentials = &Error{Kind: KindAuth, Msg: "incorrect login or password"}

	ErrUserNotFound        = &Error{Kind: KindTransfer, Msg: "user not found"}
	ErrTransferNotPositive = &Error{Kind: KindTransfer, Msg: "transfer amount must be positive"}
	ErrInsufficientFunds   = &Error{Kind: KindTransfer, Msg: "not enough funds to transfer"}
)

// Persistence wraps a storage failure so callers can classify it.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindPersistence, Msg: op + ": " + err.Error(), Err: err}
}

// KindOf returns the kind of the first *Error in err's chain.
// Errors that carry no kind report KindUnknown.
func KindOf(err error) Kind {
	var le *Error
	if errors.As(err, &le) {
		return le.Kind
	}
	return KindUnknown
}
