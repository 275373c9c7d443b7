package commands

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/kz-accountant/accountant/internal/accounts"
	"github.com/kz-accountant/accountant/internal/catalog"
	"github.com/kz-accountant/accountant/internal/config"
	"github.com/kz-accountant/accountant/internal/gitops"
	"github.com/kz-accountant/accountant/internal/importer"
	"github.com/kz-accountant/accountant/internal/importlog"
	"github.com/kz-accountant/accountant/internal/journal"
	"github.com/kz-accountant/accountant/internal/logger"
	"github.com/kz-accountant/accountant/internal/metrics"
	"github.com/kz-accountant/accountant/internal/tabular"
)

type importOptions struct {
	dryRun         bool
	defaultAccount string
	metricsFile    string
}

func newImportCommand(global *globalOptions) *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import [file...]",
		Short: "Import bank statements into the journal",
		Long: "Import bank statements into the journal. Without arguments every supported\n" +
			"file in import/ is imported and moved to import/processed/.",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := global.root()
			if err != nil {
				return err
			}
			cfg, err := loadConfig(root)
			if err != nil {
				return err
			}
			ctx := logger.WithContext(cmd.Context(), global.logger(cmd, cfg))
			return runImport(ctx, cmd.OutOrStdout(), root, cfg, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "show what would be imported without writing")
	cmd.Flags().StringVar(&opts.defaultAccount, "default-account", "", "account ID for statements without account numbers")
	cmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus textfile metrics to this path")

	return cmd
}

// statementFile is one file queued for import. Scanned files are moved to
// import/processed/ once imported.
type statementFile struct {
	name    string
	path    string
	scanned bool
}

// session holds the books state shared by all files of one import command.
type session struct {
	root     string
	opts     importOptions
	imp      *importer.Importer
	decoders *tabular.Registry
	accounts *accounts.Service
	catalog  *catalog.Service
	journal  *journal.Service
	metrics  *metrics.Recorder
}

func runImport(ctx context.Context, out io.Writer, root string, cfg *config.Config, args []string, opts importOptions) error {
	log := logger.FromContext(ctx)

	imp, err := newImporter(root, cfg)
	if err != nil {
		return err
	}

	acctSvc, err := accounts.Load(root)
	if err != nil {
		return err
	}
	catSvc, err := catalog.Load(root)
	if err != nil {
		return err
	}

	s := &session{
		root:     root,
		opts:     opts,
		imp:      imp,
		decoders: tabular.DefaultRegistry(),
		accounts: acctSvc,
		catalog:  catSvc,
		journal:  journal.NewService(root, acctSvc),
		metrics:  metrics.New(),
	}
	if s.opts.defaultAccount == "" {
		s.opts.defaultAccount = cfg.Import.DefaultAccount
	}
	if s.opts.metricsFile == "" && cfg.Metrics.Textfile != "" {
		s.opts.metricsFile = filepath.Join(root, cfg.Metrics.Textfile)
	}

	files, err := s.collect(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(out, "No statements to import.")
		return nil
	}

	var imported []string
	var failed, total int
	for _, f := range files {
		n, err := s.importFile(ctx, out, f)
		if err != nil {
			failed++
			log.Error().Err(err).Str("file", f.name).Msg("import failed")
			fmt.Fprintf(out, "%s: rejected: %v\n", f.name, err)
			continue
		}
		if s.opts.dryRun {
			continue
		}
		if f.scanned {
			if err := importer.MarkProcessed(root, f.name); err != nil {
				return err
			}
		}
		if n > 0 {
			imported = append(imported, f.name)
			total += n
		}
	}

	if len(imported) > 0 && cfg.Git.AutoCommit && gitops.IsRepo(root) {
		repo := gitops.Books{Dir: root, AuthorName: cfg.Git.AuthorName, AuthorEmail: cfg.Git.AuthorEmail}
		hash, err := repo.Commit(ctx, gitops.ImportMessage(imported, total))
		if err != nil {
			return fmt.Errorf("committing import: %w", err)
		}
		fmt.Fprintf(out, "Committed %s\n", hash)
	}

	if s.opts.metricsFile != "" {
		if err := s.metrics.WriteTextfile(s.opts.metricsFile); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d statements rejected", failed, len(files))
	}
	return nil
}

func newImporter(root string, cfg *config.Config) (*importer.Importer, error) {
	var tolerance decimal.Decimal
	if t := strings.TrimSpace(cfg.Import.Tolerance); t != "" {
		var err error
		if tolerance, err = decimal.NewFromString(t); err != nil {
			return nil, fmt.Errorf("invalid import tolerance %q: %w", t, err)
		}
	}

	policy, err := importer.ParseUnknownFormatPolicy(cfg.Import.UnknownFormat)
	if err != nil {
		return nil, err
	}

	keywordsFile := cfg.Import.KeywordsFile
	if keywordsFile == "" {
		keywordsFile = filepath.Join("rules", "category-keywords.yaml")
	}
	keywords, err := importer.LoadKeywords(filepath.Join(root, keywordsFile))
	if err != nil {
		return nil, err
	}

	return importer.New(importer.Options{
		OwnerNames:               cfg.Import.OwnerNames,
		InternalTransferKeywords: cfg.Import.InternalTransferKeywords,
		Keywords:                 keywords,
		Tolerance:                tolerance,
		UnknownFormat:            policy,
	}), nil
}

// collect resolves explicit file arguments, or scans import/ when none are given.
func (s *session) collect(args []string) ([]statementFile, error) {
	if len(args) > 0 {
		files := make([]statementFile, 0, len(args))
		for _, a := range args {
			files = append(files, statementFile{name: filepath.Base(a), path: a})
		}
		return files, nil
	}

	scanned, err := importer.Scan(s.root, s.decoders.Supports)
	if err != nil {
		return nil, err
	}
	files := make([]statementFile, 0, len(scanned))
	for _, f := range scanned {
		files = append(files, statementFile{name: f.Name, path: f.Path, scanned: true})
	}
	return files, nil
}

// importFile runs one statement through the importer and, unless this is a
// dry run, persists the batch. It returns the number of new transactions.
func (s *session) importFile(ctx context.Context, out io.Writer, f statementFile) (int, error) {
	start := time.Now()
	entry := importlog.Entry{Timestamp: start.UTC(), File: f.name}
	defer func() {
		status := entry.Status
		if status == "" {
			status = importlog.StatusRejected
		}
		s.metrics.Observe(metrics.Run{
			Dialect:    entry.Dialect,
			Status:     status,
			Imported:   entry.Imported,
			Duplicates: entry.Duplicates,
			Skipped:    entry.Skipped,
			Duration:   time.Since(start),
			Finished:   time.Now(),
		})
	}()

	res, err := s.runImporter(ctx, f)
	if err != nil {
		entry.Status = importlog.StatusRejected
		entry.Detail = err.Error()
		s.writeLog(ctx, entry)
		return 0, err
	}

	entry.Dialect = string(res.Summary.Dialect)
	entry.Imported = res.Summary.ImportedCount
	entry.Duplicates = res.Summary.DuplicateCount
	entry.Skipped = res.Summary.SkippedCount
	entry.Detail = strings.Join(res.Summary.Warnings, "; ")

	if s.opts.dryRun {
		entry.Status = importlog.StatusDryRun
		printResult(out, f.name, res, true)
		s.writeLog(ctx, entry)
		return len(res.Transactions), nil
	}

	persisted, err := s.journal.AppendBatch(res.Transactions)
	if err != nil {
		entry.Status = importlog.StatusRejected
		entry.Detail = err.Error()
		s.writeLog(ctx, entry)
		return 0, err
	}

	s.catalog.Add(res.NewCategories, res.NewCounterparties)
	if err := s.catalog.Save(s.root); err != nil {
		return 0, err
	}
	if err := s.accounts.Apply(persisted); err != nil {
		return 0, err
	}
	if err := s.accounts.Save(s.root); err != nil {
		return 0, err
	}

	entry.Status = importlog.StatusImported
	s.writeLog(ctx, entry)
	printResult(out, f.name, res, false)
	return len(persisted), nil
}

func (s *session) runImporter(ctx context.Context, f statementFile) (*importer.Result, error) {
	content, err := s.decoders.ReadFile(f.path)
	if err != nil {
		return nil, err
	}

	docs, err := s.journal.DocumentNumbers()
	if err != nil {
		return nil, err
	}

	return s.imp.Import(ctx, importer.SourceFromContent(f.name, content), importer.Directories{
		Accounts:                s.accounts.All(),
		Categories:              s.catalog.Categories(),
		Counterparties:          s.catalog.Counterparties(),
		ExistingDocumentNumbers: docs,
		DefaultAccountID:        s.opts.defaultAccount,
	})
}

// writeLog records the run. A failure to log does not fail the import.
func (s *session) writeLog(ctx context.Context, e importlog.Entry) {
	if err := importlog.Append(s.root, []importlog.Entry{e}); err != nil {
		log := logger.FromContext(ctx)
		log.Warn().Err(err).Msg("failed to write import log")
	}
}

func printResult(out io.Writer, name string, res *importer.Result, dryRun bool) {
	sum := res.Summary
	verb := "imported"
	if dryRun {
		verb = "would import"
	}
	fmt.Fprintf(out, "%s (%s): %s %d, duplicates %d, skipped %d\n",
		name, sum.Dialect, verb, sum.ImportedCount, sum.DuplicateCount, sum.SkippedCount)
	if len(sum.DetectedAccountNames) > 0 {
		fmt.Fprintf(out, "  accounts: %s\n", strings.Join(sum.DetectedAccountNames, ", "))
	}
	fmt.Fprintf(out, "  received %s, spent %s\n",
		sum.ComputedTotals.Received.StringFixed(2), sum.ComputedTotals.Spent.StringFixed(2))
	for _, w := range sum.Warnings {
		fmt.Fprintf(out, "  warning: %s\n", w)
	}
	if dryRun {
		for _, txn := range res.Transactions {
			fmt.Fprintf(out, "  %s  %-8s %12s  %s\n",
				txn.Date.Format("2006-01-02"), txn.Type, txn.Amount.StringFixed(2), txn.Comment)
		}
	}
}
