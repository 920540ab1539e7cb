// Package session runs the interactive guest/account menu loop.
package session

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/purse/internal/cli"
	"github.com/theirongolddev/purse/internal/ledger"
)

// Mode is the session state.
type Mode int

const (
	ModeGuest Mode = iota
	ModeAuthenticated
)

func (m Mode) String() string {
	if m == ModeAuthenticated {
		return "authenticated"
	}
	return "guest"
}

// Store persists the directory when the session exits.
type Store interface {
	Load() (*ledger.Directory, error)
	Save(d *ledger.Directory) error
}

// Session owns the directory and the logged-in account for one run.
type Session struct {
	dir     *ledger.Directory
	store   Store
	current *ledger.Account

	in  *bufio.Reader
	out io.Writer
	log *slog.Logger

	done bool
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger for diagnostic records.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l.With("component", "session")
		}
	}
}

// New returns a guest session over dir reading commands from in.
func New(dir *ledger.Directory, st Store, in io.Reader, out io.Writer, opts ...Option) *Session {
	s := &Session{
		dir:   dir,
		store: st,
		in:    bufio.NewReader(in),
		out:   out,
		log:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Mode reports whether an account is logged in.
func (s *Session) Mode() Mode {
	if s.current == nil {
		return ModeGuest
	}
	return ModeAuthenticated
}

// Current returns the logged-in account, or nil.
func (s *Session) Current() *ledger.Account { return s.current }

// Directory returns the directory the session operates on.
func (s *Session) Directory() *ledger.Directory { return s.dir }

// Run processes commands until the guest exit command or end of input, then
// saves the directory. An input read failure also saves before it is
// returned; a save failure is reported to the user and the run still ends.
func (s *Session) Run() error {
	s.log.Debug("session started", "accounts", s.dir.Len())
	for !s.done {
		var err error
		if s.current == nil {
			err = s.guestStep()
		} else {
			err = s.accountStep()
		}

		switch {
		case errors.Is(err, io.EOF):
			s.log.Debug("input closed", "mode", s.Mode())
			s.println()
			s.exit()
		case err != nil:
			s.log.Error("reading input", "mode", s.Mode(), "err", err)
			s.println()
			s.exit()
			return err
		}
	}
	return nil
}

func (s *Session) guestStep() error {
	s.println()
	s.println("1. Login")
	s.println("2. Register")
	s.println("3. Save and exit")

	choice, err := s.readLine(cli.Muted("> "))
	if err != nil {
		return err
	}

	switch choice {
	case "1":
		err = s.login()
	case "2":
		err = s.register()
	case "3":
		s.exit()
	default:
		err = errInvalidCommand
	}
	return s.handle(err)
}

func (s *Session) accountStep() error {
	s.println()
	s.println(cli.Muted("Logged in as " + s.current.Username()))
	s.println("1. Add income")
	s.println("2. Add expense")
	s.println("3. Set a budget")
	s.println("4. Show statistics")
	s.println("5. Transfer funds to another user")
	s.println("6. Log out")

	choice, err := s.readLine(cli.Muted("> "))
	if err != nil {
		return err
	}

	switch choice {
	case "1":
		err = s.addIncome()
	case "2":
		err = s.addExpense()
	case "3":
		err = s.setBudget()
	case "4":
		s.showStatistics()
	case "5":
		err = s.transfer()
	case "6":
		s.logout()
	default:
		err = errInvalidCommand
	}
	return s.handle(err)
}

// handle reports operation errors and passes input errors up to Run.
func (s *Session) handle(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, io.EOF) || errors.Is(err, errInput) {
		return err
	}
	s.log.Info("operation rejected", "kind", ledger.KindOf(err), "err", err)
	s.println(cli.Error(message(err)))
	return nil
}

func (s *Session) login() error {
	username, err := s.readLine("Enter login: ")
	if err != nil {
		return err
	}
	username = strings.TrimSpace(username)
	password, err := s.readLine("Enter password: ")
	if err != nil {
		return err
	}

	a, ok := s.dir.Authenticate(username, password)
	if !ok {
		return ledger.ErrBadCredentials
	}
	s.current = a
	s.log.Info("logged in", "user", username)
	s.println(cli.Success("Successful login."))
	return nil
}

func (s *Session) register() error {
	username, err := s.readLine("Enter new login: ")
	if err != nil {
		return err
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return ledger.ErrEmptyUsername
	}
	if s.dir.Exists(username) {
		return ledger.ErrAccountExists
	}

	password, err := s.readLine("Enter new password: ")
	if err != nil {
		return err
	}
	if _, err := s.dir.Register(username, password); err != nil {
		return err
	}
	s.log.Info("registered", "user", username)
	s.println(cli.Success("Registration successful."))
	return nil
}

func (s *Session) logout() {
	s.log.Info("logged out", "user", s.current.Username())
	s.current = nil
	s.println("Logged out.")
}

func (s *Session) exit() {
	s.done = true
	if err := s.store.Save(s.dir); err != nil {
		s.log.Error("save failed", "err", err)
		s.println(cli.Error("Saving error: " + err.Error()))
		return
	}
	s.log.Debug("saved", "accounts", s.dir.Len())
	s.println(cli.Success("Data saved."))
}

func (s *Session) addIncome() error {
	category, amount, err := s.readEntry("Enter income category: ", "Enter the amount: ")
	if err != nil {
		return err
	}
	if err := s.current.Wallet().AddIncome(category, amount); err != nil {
		return err
	}
	s.log.Debug("income added", "user", s.current.Username(), "category", category, "amount", amount)
	s.println(cli.Success("Income added."))
	return nil
}

func (s *Session) addExpense() error {
	category, amount, err := s.readEntry("Enter the expense category: ", "Enter the amount: ")
	if err != nil {
		return err
	}
	alert, err := s.current.Wallet().AddExpense(category, amount)
	if err != nil {
		return err
	}
	s.log.Debug("expense added", "user", s.current.Username(), "category", category, "amount", amount)
	s.println(cli.Success("Expense added."))
	if alert.Exceeded() {
		s.log.Info("budget exceeded", "user", s.current.Username(), "category", alert.Category)
		s.println(cli.Warn(fmt.Sprintf(
			"Warning: You have exceeded your budget for this category %s! (spent %s of %s)",
			alert.Category, cli.FormatAmount(alert.Spent), cli.FormatAmount(alert.Budget))))
	}
	return nil
}

func (s *Session) setBudget() error {
	category, amount, err := s.readEntry("Enter category: ", "Enter budget: ")
	if errors.Is(err, ledger.ErrNonPositiveAmount) {
		return errBudgetNotPositive
	}
	if err != nil {
		return err
	}
	if err := s.current.Wallet().SetBudget(category, amount); err != nil {
		return err
	}
	s.log.Debug("budget set", "user", s.current.Username(), "category", category, "amount", amount)
	s.println(cli.Success("The budget has been set."))
	return nil
}

func (s *Session) transfer() error {
	recipient, err := s.readLine("Enter the login of the user you want to transfer funds to: ")
	if err != nil {
		return err
	}
	recipient = strings.TrimSpace(recipient)
	if !s.dir.Exists(recipient) {
		return &notFoundError{suggestion: s.dir.Suggest(recipient)}
	}

	raw, err := s.readLine("Enter the transfer amount: ")
	if err != nil {
		return err
	}
	amount, err := parseAmount(raw)
	if err != nil {
		return err
	}

	r, err := ledger.Transfer(s.dir, s.current, recipient, amount)
	if err != nil {
		return err
	}
	s.log.Info("transfer completed", "from", r.From, "to", r.To, "amount", r.Amount)
	s.println(cli.Success("Transfer completed successfully."))
	return nil
}

// readEntry prompts for a category and then an amount. An empty category is
// rejected before the amount is asked for; a non-positive amount is rejected
// here so no wallet call is made.
func (s *Session) readEntry(categoryPrompt, amountPrompt string) (string, decimal.Decimal, error) {
	category, err := s.readLine(categoryPrompt)
	if err != nil {
		return "", decimal.Zero, err
	}
	category = strings.TrimSpace(category)
	if category == "" {
		return "", decimal.Zero, ledger.ErrEmptyCategory
	}

	raw, err := s.readLine(amountPrompt)
	if err != nil {
		return "", decimal.Zero, err
	}
	amount, err := parseAmount(raw)
	if err != nil {
		return "", decimal.Zero, err
	}
	if !amount.IsPositive() {
		return "", decimal.Zero, ledger.ErrNonPositiveAmount
	}
	return category, amount, nil
}

func parseAmount(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, ledger.ErrInvalidAmount
	}
	return d, nil
}

// maxLineLen bounds a single input line. Longer lines are drained and
// rejected without ending the session.
const maxLineLen = 64 * 1024

// readLine prints prompt and returns the next input line without its line
// terminator. It returns io.EOF once input is exhausted.
func (s *Session) readLine(prompt string) (string, error) {
	fmt.Fprint(s.out, prompt)

	var (
		line    []byte
		tooLong bool
	)
	for {
		chunk, isPrefix, err := s.in.ReadLine()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return "", fmt.Errorf("%w: %w", errInput, err)
			}
			if len(line) == 0 && !tooLong {
				return "", io.EOF
			}
			break
		}
		if tooLong || len(line)+len(chunk) > maxLineLen {
			tooLong = true
		} else {
			line = append(line, chunk...)
		}
		if !isPrefix {
			break
		}
	}
	if tooLong {
		return "", errLineTooLong
	}
	return string(line), nil
}

func (s *Session) println(a ...any) {
	fmt.Fprintln(s.out, a...)
}
