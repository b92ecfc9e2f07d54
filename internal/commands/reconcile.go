package commands

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/reconcile/internal/autocomplete"
	"github.com/jask/reconcile/internal/config"
	"github.com/jask/reconcile/internal/database"
	"github.com/jask/reconcile/internal/database/repository"
	"github.com/jask/reconcile/internal/journal"
	"github.com/jask/reconcile/internal/navigator"
	"github.com/jask/reconcile/internal/service"
	"github.com/jask/reconcile/internal/statement"
	"github.com/jask/reconcile/internal/tui"
	"github.com/jask/reconcile/internal/viewport"
)

func runReconcile(ctx context.Context, opts *options, paths []string, stdout io.Writer) error {
	cfg, err := opts.load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	defer log.SetOutput(os.Stderr)
	if cfg.Paths.Log != "" {
		f, err := tea.LogToFile(cfg.Paths.Log, "reconcile")
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	statements, err := loadStatements(cfg, paths)
	if err != nil {
		return err
	}
	accounts, err := loadAccounts(cfg.Paths.Accounts)
	if err != nil {
		return err
	}
	log.Printf("loaded %d statements, %d accounts", len(statements), accounts.Len())

	db, err := database.OpenAndMigrate(cfg.Paths.Cache)
	if err != nil {
		return fmt.Errorf("open hint cache: %w", err)
	}
	defer db.Close()

	views := make([]*viewport.Viewport, len(statements))
	for i, st := range statements {
		views[i] = viewport.New(st.Ledger, st.Columns(), 80/len(statements), 18)
	}
	nav, err := navigator.New(views)
	if err != nil {
		return err
	}
	session := &service.Session{
		Statements: statements,
		Nav:        nav,
		Hinter:     &service.Hinter{Destinations: repository.NewDestinationRepo(db), MaxDistance: cfg.UI.HintDistance},
		Accounts:   accounts,
	}

	p := tea.NewProgram(tui.New(ctx, session), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		log.Printf("tui: %v", err)
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}

	out := cfg.Paths.Output
	if opts.output != "" {
		out = opts.output
	}
	return writeJournal(out, stdout, cfg.Format, statements)
}

// loadStatements matches and loads each statement file in argument order.
func loadStatements(cfg config.Config, paths []string) ([]*statement.Statement, error) {
	im := statement.NewImporter(cfg.Accounts)
	out := make([]*statement.Statement, 0, len(paths))
	for _, p := range paths {
		desc, err := im.Match(p)
		if err != nil {
			return nil, err
		}
		st, err := statement.Load(p, desc)
		if err != nil {
			return nil, err
		}
		log.Printf("%s: %d rows as %s", p, st.Ledger.Len(), desc.LedgerSource)
		out = append(out, st)
	}
	return out, nil
}

// loadAccounts reads account directives from path; no path means no completion.
func loadAccounts(path string) (*autocomplete.Trie, error) {
	if path == "" {
		return autocomplete.New(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open accounts: %w", err)
	}
	defer f.Close()
	return autocomplete.LoadAccounts(f)
}

// writeJournal writes the journal to path, or to stdout when path is "-" or empty.
// A file is written beside path and renamed into place once complete.
func writeJournal(path string, stdout io.Writer, fc config.FormatConfig, statements []*statement.Statement) error {
	f := journal.New(fc)
	if path == "" || path == "-" {
		return f.Write(stdout, statements)
	}
	tmp := path + ".tmp"
	file, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	if err := f.Write(file, statements); err != nil {
		_ = file.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("write journal: %w", err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write journal: %w", err)
	}
	return os.Rename(tmp, path)
}
