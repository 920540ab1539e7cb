package session

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/purse/internal/cli"
	"github.com/theirongolddev/purse/internal/ledger"
)

func (s *Session) showStatistics() {
	fmt.Fprint(s.out, RenderReport(s.current.Username(), s.current.Wallet().Statistics()))
}

// RenderReport renders the statistics view of one wallet.
func RenderReport(username string, r ledger.Report) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(cli.RenderTitle("STATISTICS  " + username))
	b.WriteString("\n\n")

	b.WriteString(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Overall balance", cli.FormatAmount(r.Balance)},
			{"---"},
			{"Total income", cli.FormatAmount(r.TotalIncome)},
			{"Total expenses", cli.FormatAmount(r.TotalExpense)},
		},
	}))
	b.WriteString("\n")

	writeCategoryTable(&b, "Income by category", "No income recorded.", r.Income)
	writeCategoryTable(&b, "Expenses by category", "No expenses recorded.", r.Expense)

	if len(r.Budgets) == 0 {
		b.WriteString("  " + cli.Muted("No budgets set.") + "\n")
		return b.String()
	}

	rows := make([][]string, 0, len(r.Budgets))
	for _, l := range r.Budgets {
		var used float64
		if l.Budget.IsPositive() {
			used = l.Spent.Div(l.Budget).InexactFloat64()
		}
		left := cli.FormatAmount(l.Left)
		if l.Left.IsNegative() {
			left = cli.Warn(left)
		}
		rows = append(rows, []string{
			l.Category,
			cli.FormatAmount(l.Budget),
			cli.FormatAmount(l.Spent),
			left,
			cli.RenderUsageBar(used, 10) + " " + cli.FormatPercent(used),
		})
	}
	b.WriteString(cli.RenderTable(cli.Table{
		Title:   "Budgets by category",
		Headers: []string{"Category", "Budget", "Spent", "Left", "Used"},
		Rows:    rows,
	}))
	return b.String()
}

func writeCategoryTable(b *strings.Builder, title, empty string, lines []ledger.CategoryAmount) {
	if len(lines) == 0 {
		b.WriteString("  " + cli.Muted(empty) + "\n\n")
		return
	}
	rows := make([][]string, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, []string{l.Category, cli.FormatAmount(l.Amount)})
	}
	b.WriteString(cli.RenderTable(cli.Table{
		Title:   title,
		Headers: []string{"Category", "Amount"},
		Rows:    rows,
	}))
	b.WriteString("\n")
}
