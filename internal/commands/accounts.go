package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kz-accountant/accountant/internal/accounts"
)

func newAccountsCommand(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "List accounts and balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := global.root()
			if err != nil {
				return err
			}
			svc, err := accounts.Load(root)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tTYPE\tACCOUNT NUMBER\tBALANCE")
			for _, a := range svc.All() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s %s\n",
					a.ID, a.Name, a.Type, a.AccountNumber, a.Balance.StringFixed(2), a.Currency)
			}
			return w.Flush()
		},
	}
}
