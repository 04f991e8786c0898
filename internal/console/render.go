package console

import (
	"fmt"
	"io"

	"budget/internal/core"
)

// RenderSummary writes the summary block. The category breakdown is left out
// when no expense has been recorded.
func RenderSummary(w io.Writer, s core.Summary) {
	fmt.Fprintln(w, "Budget Summary")
	fmt.Fprintln(w, "----------------")
	fmt.Fprintf(w, "Total Income: $%s\n", core.FormatAmount(s.TotalIncome))
	fmt.Fprintf(w, "Total Expenses: $%s\n", core.FormatAmount(s.TotalExpense))
	fmt.Fprintf(w, "Balance: $%s\n", core.FormatAmount(s.Balance))
	fmt.Fprintln(w)

	if !s.HasExpenses {
		return
	}
	fmt.Fprintln(w, "Expenses by Category:")
	for _, c := range s.ByCategory {
		fmt.Fprintf(w, "%s: $%s\n", c.Name, core.FormatAmount(c.Amount))
	}
}
