package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ppiankov/jtbd/internal/extract"
	"github.com/ppiankov/jtbd/internal/model"
	"github.com/ppiankov/jtbd/internal/store"
)

var (
	importTopic  string
	importSource string
	ingestTopic  string
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <file.html>",
	Short: "Import an HTML interview transcript as research data",
	Long: `Import extracts statements from the visible text of an HTML transcript
and saves them to the data directory as <topic>_<source>.json. Headings
become the context of the statements below them.

Example:
  jtbd import interview-3.html --topic "meal planning" --source "Interview 3"`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest <file.json>...",
	Short: "Load research data files into the SQLite corpus store",
	Long: `Ingest stores {sources, research_data} files in a SQLite database so
that analyses can run from it with --db. Entries already stored are skipped.

Example:
  jtbd ingest data/meal_planning_*.json --topic "meal planning" --db research.db`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().StringVar(&importTopic, "topic", "", "topic the transcript belongs to")
	importCmd.Flags().StringVar(&importSource, "source", "", "source name (default: file name)")
	_ = importCmd.MarkFlagRequired("topic")

	rootCmd.AddCommand(ingestCmd)
	ingestCmd.Flags().StringVar(&ingestTopic, "topic", "", "topic for the files (default: the file's own topic)")
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	path := args[0]
	source := importSource
	if source == "" {
		source = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open transcript: %w", err)
	}
	defer func() { _ = f.Close() }()

	entries, err := extract.NewTranscriptImporter().Import(f, source)
	if err != nil {
		return fmt.Errorf("import transcript: %w", err)
	}
	if len(entries) == 0 {
		return fmt.Errorf("%w: no statements found in %s", model.ErrInvalidInput, path)
	}

	corpus := model.Corpus{
		Topic:        importTopic,
		Sources:      []string{source},
		ResearchData: entries,
	}

	saved, err := store.NewDirStore(cfg.Data.Dir, logger).Save(corpus, source)
	if err != nil {
		return fmt.Errorf("save corpus: %w", err)
	}

	logger.Info("transcript imported",
		zap.String("topic", importTopic),
		zap.String("source", source),
		zap.Int("statements", len(entries)),
		zap.String("path", saved))
	fmt.Printf("Imported %d statements into %s\n", len(entries), saved)

	return nil
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Data.StorePath == "" {
		return fmt.Errorf("%w: --db (or data.store_path) is required", model.ErrInvalidConfig)
	}

	ctx := cmd.Context()
	db, err := store.OpenSQLite(ctx, cfg.Data.StorePath)
	if err != nil {
		return fmt.Errorf("open corpus store: %w", err)
	}
	defer func() { _ = db.Close() }()

	total := 0
	for _, path := range args {
		corpus, err := store.ReadCorpusFile(path)
		if err != nil {
			return err
		}
		if ingestTopic != "" {
			corpus.Topic = ingestTopic
		}

		added, err := db.Ingest(ctx, corpus)
		if err != nil {
			return fmt.Errorf("ingest %s: %w", path, err)
		}
		total += added

		logger.Info("ingested corpus file",
			zap.String("path", path),
			zap.String("topic", corpus.Topic),
			zap.Int("entries", len(corpus.ResearchData)),
			zap.Int("new", added))
	}

	fmt.Printf("Stored %d new entries in %s\n", total, cfg.Data.StorePath)
	return nil
}
