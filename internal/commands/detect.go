package commands

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kz-accountant/accountant/internal/importer"
	"github.com/kz-accountant/accountant/internal/tabular"
)

func newDetectCommand(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "detect <file>",
		Short: "Show the detected statement format of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := global.logger(cmd, nil)
			content, err := tabular.DefaultRegistry().ReadFile(args[0])
			if err != nil {
				return err
			}
			src := importer.SourceFromContent(filepath.Base(args[0]), content)
			dialect := importer.Detect(src)
			log.Debug().Str("file", src.Name).Str("dialect", string(dialect)).Msg("detected")
			printDetection(cmd.OutOrStdout(), src, dialect)
			return nil
		},
	}
}

func printDetection(out io.Writer, src importer.Source, dialect importer.Dialect) {
	fmt.Fprintf(out, "%s: %s\n", src.Name, dialect)
	if dialect != importer.DialectOneCExchange && src.Table != nil {
		fmt.Fprintf(out, "  header: %s\n", strings.Join(src.Table.Headers, " | "))
		fmt.Fprintf(out, "  rows: %d\n", len(src.Table.Rows))
	}
	if d := importer.ExtractDeclaredTotals(src.Text); d != nil {
		if d.Received.Valid {
			fmt.Fprintf(out, "  declared received: %s\n", d.Received.Decimal.StringFixed(2))
		}
		if d.Spent.Valid {
			fmt.Fprintf(out, "  declared spent: %s\n", d.Spent.Decimal.StringFixed(2))
		}
	}
}
