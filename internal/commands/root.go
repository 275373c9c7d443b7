package commands

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/kz-accountant/accountant/internal/buildinfo"
	"github.com/kz-accountant/accountant/internal/config"
	"github.com/kz-accountant/accountant/internal/logger"
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	books     string
	logLevel  string
	logFormat string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "accountant",
		Short:   "Bank statement import for small-business books",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.books, "books", ".", "books directory")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (overrides config)")
	rootCmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "log format: console or json (overrides config)")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newImportCommand(opts))
	rootCmd.AddCommand(newDetectCommand(opts))
	rootCmd.AddCommand(newAccountsCommand(opts))
	rootCmd.AddCommand(newHistoryCommand(opts))

	return rootCmd
}

// root resolves the books directory to an absolute path.
func (o *globalOptions) root() (string, error) {
	abs, err := filepath.Abs(o.books)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	return abs, nil
}

// loadConfig reads accountant.yaml from the books root.
func loadConfig(root string) (*config.Config, error) {
	cfg, err := config.Load(filepath.Join(root, config.FileName))
	if err != nil {
		return nil, fmt.Errorf("%s is not an accountant books directory: %w", root, err)
	}
	return cfg, nil
}

// logger builds the command logger on stderr. Flags win over config.
func (o *globalOptions) logger(cmd *cobra.Command, cfg *config.Config) zerolog.Logger {
	level, format := o.logLevel, o.logFormat
	if cfg != nil {
		if level == "" {
			level = cfg.Log.Level
		}
		if format == "" {
			format = cfg.Log.Format
		}
	}
	return logger.New(cmd.ErrOrStderr(), level, format)
}
