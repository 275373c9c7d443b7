package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kz-accountant/accountant/internal/accounts"
	"github.com/kz-accountant/accountant/internal/catalog"
	"github.com/kz-accountant/accountant/internal/config"
	"github.com/kz-accountant/accountant/internal/gitops"
	"github.com/kz-accountant/accountant/internal/importer"
)

type initOptions struct {
	name     string
	bin      string
	currency string
	git      bool
}

func newInitCommand() *cobra.Command {
	var opts initOptions

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize new books",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd.Context(), cmd.OutOrStdout(), absDir, opts)
		},
	}

	cmd.Flags().StringVar(&opts.name, "name", "", "business name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&opts.bin, "bin", "", "business identification number")
	cmd.Flags().StringVar(&opts.currency, "currency", accounts.DefaultCurrency, "books currency")
	cmd.Flags().BoolVar(&opts.git, "git", false, "initialize a git repository and commit after each import")

	return cmd
}

func runInit(ctx context.Context, out io.Writer, dir string, opts initOptions) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("checking %s: %w", cfgPath, err)
	}

	dirs := []string{
		"accounts",
		"catalog",
		"rules",
		"journal",
		"logs",
		"import",
		filepath.Join("import", "processed"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	cfg := config.Default(opts.name)
	cfg.Business.BIN = opts.bin
	cfg.Currency = opts.currency
	cfg.Git.AutoCommit = opts.git
	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	if err := accounts.NewService(accounts.DefaultAccounts(opts.currency)).Save(dir); err != nil {
		return fmt.Errorf("writing accounts: %w", err)
	}

	if err := catalog.NewService(nil, nil).Save(dir); err != nil {
		return fmt.Errorf("writing catalog: %w", err)
	}

	if err := importer.SaveKeywords(filepath.Join(dir, cfg.Import.KeywordsFile), importer.DefaultKeywords()); err != nil {
		return fmt.Errorf("writing keyword rules: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "import", ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	if !opts.git {
		fmt.Fprintf(out, "Initialized books at %s\n", dir)
		return nil
	}

	repo := gitops.Books{Dir: dir, AuthorName: cfg.Git.AuthorName, AuthorEmail: cfg.Git.AuthorEmail}
	if err := repo.Init(ctx); err != nil {
		return err
	}
	hash, err := repo.Commit(ctx, "init: Initialize "+opts.name)
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}

	fmt.Fprintf(out, "Initialized books at %s (%s)\n", dir, hash)
	return nil
}
