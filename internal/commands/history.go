package commands

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/kz-accountant/accountant/internal/accounts"
	"github.com/kz-accountant/accountant/internal/catalog"
	"github.com/kz-accountant/accountant/internal/importlog"
	"github.com/kz-accountant/accountant/internal/journal"
	"github.com/kz-accountant/accountant/internal/model"
)

func newHistoryCommand(global *globalOptions) *cobra.Command {
	var month string
	var imports bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List journal transactions or past import runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := global.root()
			if err != nil {
				return err
			}
			if imports {
				return printImportLog(cmd.OutOrStdout(), root)
			}
			return printJournal(cmd.OutOrStdout(), root, month)
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "month to list (YYYY-MM); all months when empty")
	cmd.Flags().BoolVar(&imports, "imports", false, "list import runs instead of transactions")

	return cmd
}

func printJournal(out io.Writer, root, month string) error {
	acctSvc, err := accounts.Load(root)
	if err != nil {
		return err
	}
	catSvc, err := catalog.Load(root)
	if err != nil {
		return err
	}
	jr := journal.NewService(root, acctSvc)

	var txns []model.Transaction
	if month == "" {
		txns, err = jr.ReadAll()
	} else {
		var m time.Time
		m, err = time.Parse("2006-01", month)
		if err != nil {
			return fmt.Errorf("invalid month %q: want YYYY-MM", month)
		}
		txns, err = jr.ReadMonth(m.Year(), int(m.Month()))
	}
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tTYPE\tAMOUNT\tACCOUNT\tCATEGORY\tCOUNTERPARTY\tCOMMENT")
	for _, t := range txns {
		account := t.AccountID
		if t.Type == model.TypeTransfer {
			account += " -> " + t.ToAccountID
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, t.Date.Format("2006-01-02"), t.Type, t.Amount.StringFixed(2), account,
			catSvc.CategoryName(t.CategoryID), catSvc.CounterpartyName(t.CounterpartyID), t.Comment)
	}
	return w.Flush()
}

func printImportLog(out io.Writer, root string) error {
	entries, err := importlog.Read(root)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tFILE\tDIALECT\tIMPORTED\tDUPLICATES\tSKIPPED\tSTATUS\tDETAIL")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%s\t%s\n",
			e.Timestamp.Format(time.RFC3339), e.File, e.Dialect, e.Imported, e.Duplicates, e.Skipped, e.Status, e.Detail)
	}
	return w.Flush()
}
