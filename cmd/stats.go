package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/theirongolddev/purse/internal/ledger"
	"github.com/theirongolddev/purse/internal/session"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats <login>",
	Short: "Print statistics for one account and exit",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	dir, err := st.Load()
	if err != nil {
		return err
	}

	fmt.Fprint(os.Stderr, "Enter password: ")
	password, err := readPassword(os.Stdin)
	if err != nil {
		return err
	}

	report, err := accountReport(dir, args[0], password)
	if err != nil {
		return err
	}
	fmt.Print(report)
	return nil
}

// accountReport renders statistics for login after checking password.
func accountReport(dir *ledger.Directory, login, password string) (string, error) {
	a, ok := dir.Authenticate(login, password)
	if !ok {
		return "", ledger.ErrBadCredentials
	}
	return session.RenderReport(a.Username(), a.Wallet().Statistics()), nil
}

func readPassword(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
