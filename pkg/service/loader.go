package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/k0kubun/pp/v3"

	"github.com/alomew/oysterstore/pkg/config"
	"github.com/alomew/oysterstore/pkg/parser"
	"github.com/alomew/oysterstore/pkg/store"
)

// Loader drives ingestion: scan the inbox, normalize each export, merge it
// into the ledger, then archive the file. Each file is finished in full
// before the next begins, and a file is only archived after its merge has
// committed, so a crash leaves at most one file in flight.
type Loader struct {
	config *config.Config
	store  *store.Store
	parser *parser.Parser
	logger *log.Logger
}

func NewLoader(cfg *config.Config, st *store.Store, logger *log.Logger) *Loader {
	return &Loader{
		config: cfg,
		store:  st,
		parser: parser.New(logger),
		logger: logger,
	}
}

// LoadAll ingests every CSV export sitting in the inbox. A file that fails
// to parse or merge is logged and left in place; the run continues with
// the next file.
func (l *Loader) LoadAll() error {
	entries, err := os.ReadDir(l.config.CSVDir)
	if err != nil {
		return fmt.Errorf("reading export inbox: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			continue
		}

		path := filepath.Join(l.config.CSVDir, entry.Name())
		if err := l.LoadFile(path); err != nil {
			l.logger.Error("export not loaded", "file", entry.Name(), "error", err)
		}
	}

	return nil
}

// LoadFile ingests one export file and archives it. The file is never
// partially loaded: a format violation rejects the whole file, and the
// merge itself is a single transaction.
func (l *Loader) LoadFile(path string) error {
	batch, err := l.parser.ParseFile(path)
	if err != nil {
		return err
	}

	if l.logger.GetLevel() <= log.DebugLevel {
		pp.Println(batch)
	}

	res, err := l.store.Merge(batch)
	if err != nil {
		return err
	}
	l.logger.Info("merged export", "file", filepath.Base(path),
		"inserted", res.Inserted, "skipped", len(res.Skipped))

	return l.archive(path)
}

// archive relocates a loaded export, which is the durable mark that its
// data is in the ledger.
func (l *Loader) archive(path string) error {
	if err := os.MkdirAll(l.config.LoadedDir, 0o755); err != nil {
		return fmt.Errorf("creating archive dir: %w", err)
	}

	dest := filepath.Join(l.config.LoadedDir, filepath.Base(path))
	if err := os.Rename(path, dest); err != nil {
		return fmt.Errorf("archiving loaded export: %w", err)
	}
	return nil
}
