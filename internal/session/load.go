package session

import (
	"fmt"
	"io"

	"github.com/theirongolddev/purse/internal/cli"
	"github.com/theirongolddev/purse/internal/ledger"
)

// Load reads the directory from st, reporting problems on out. A missing
// file starts an empty directory silently; an unreadable one is reported
// and replaced by an empty directory.
func Load(st Store, out io.Writer) (*ledger.Directory, error) {
	d, err := st.Load()
	if err != nil {
		fmt.Fprintln(out, cli.Error("Loading error: "+err.Error()))
		return ledger.NewDirectory(), err
	}
	if d.Len() > 0 {
		fmt.Fprintln(out, cli.Muted(fmt.Sprintf("Data loaded (%d accounts).", d.Len())))
	}
	return d, nil
}
