package cli

import (
	"context"
	"crypto/rand"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ppiankov/jtbd/internal/model"
	"github.com/ppiankov/jtbd/internal/pipeline"
	"github.com/ppiankov/jtbd/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Route many topics from a file in parallel",
	Long: `Batch processes topics concurrently:
- Read topics from input file (one per line, # for comments)
- Route each topic as 'jtbd query' would
- Write a JSON and Markdown report per topic plus a run manifest

Reports go to <output-dir>/<run-id>/, where the run id is a ULID.

Example:
  jtbd batch topics.txt
  jtbd batch topics.txt --concurrency 8 --output-dir ./reports`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default: concurrency.workers)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./jtbd-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the analysis cache")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
}

// manifestEntry records the outcome of one topic
type manifestEntry struct {
	Topic        string             `json:"topic"`
	Completeness model.Completeness `json:"data_completeness,omitempty"`
	JSONPath     string             `json:"json,omitempty"`
	MarkdownPath string             `json:"markdown,omitempty"`
	Error        string             `json:"error,omitempty"`
	DurationMS   int64              `json:"duration_ms"`
}

// manifest describes one batch run
type manifest struct {
	RunID     string          `json:"run_id"`
	StartedAt time.Time       `json:"started_at"`
	Input     string          `json:"input"`
	Workers   int             `json:"workers"`
	Succeeded int             `json:"succeeded"`
	Failed    int             `json:"failed"`
	Topics    []manifestEntry `json:"topics"`
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if noFooter {
		cfg.Output.IncludeFooter = false
	}
	if concurrency > 0 {
		cfg.Concurrency.Workers = concurrency
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	a, err := newApp(ctx, cfg, noCache)
	if err != nil {
		return err
	}
	defer a.Close()

	started := time.Now().UTC()
	runID := ulid.MustNew(ulid.Timestamp(started), ulid.Monotonic(rand.Reader, 0)).String()
	runDir := filepath.Join(outputDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	log := logger.With(zap.String("run_id", runID))
	log.Info("batch started",
		zap.String("input", file),
		zap.Int("workers", cfg.Concurrency.Workers),
		zap.String("output", runDir))

	processor := worker.NewBatchProcessor(a.router, cfg.Concurrency.Workers)
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	m := manifest{
		RunID:     runID,
		StartedAt: started,
		Input:     file,
		Workers:   cfg.Concurrency.Workers,
		Topics:    make([]manifestEntry, 0, len(results)),
	}
	used := make(map[string]int)

	for _, result := range results {
		entry := manifestEntry{Topic: result.Topic, DurationMS: result.Duration.Milliseconds()}

		if result.Error != nil {
			entry.Error = result.Error.Error()
			m.Failed++
			m.Topics = append(m.Topics, entry)
			log.Warn("topic failed", zap.String("topic", result.Topic), zap.Error(result.Error))
			continue
		}

		entry.Completeness = result.Response.Triage.Completeness
		if err := writeTopicReports(a.renderer, runDir, uniqueSlug(result.Topic, used), result.Response, &entry); err != nil {
			entry.Error = err.Error()
			m.Failed++
			log.Warn("topic report failed", zap.String("topic", result.Topic), zap.Error(err))
		} else {
			m.Succeeded++
			log.Debug("topic done", zap.String("topic", result.Topic), zap.String("completeness", string(entry.Completeness)))
		}
		m.Topics = append(m.Topics, entry)
	}

	manifestPath := filepath.Join(runDir, "manifest.json")
	if err := a.renderer.RenderJSON(m, manifestPath); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	fmt.Printf("Run %s: %d topics, %d succeeded, %d failed\n", runID, len(results), m.Succeeded, m.Failed)
	fmt.Printf("Manifest: %s\n", manifestPath)

	return nil
}

func writeTopicReports(r *pipeline.Renderer, dir, slug string, resp *model.Response, entry *manifestEntry) error {
	jsonPath := filepath.Join(dir, slug+".json")
	if err := r.RenderJSON(resp, jsonPath); err != nil {
		return err
	}
	entry.JSONPath = jsonPath

	mdPath := filepath.Join(dir, slug+".md")
	if err := r.RenderMarkdown(r.ResponseMarkdown(resp), mdPath); err != nil {
		return err
	}
	entry.MarkdownPath = mdPath

	if _, err := r.RenderLLMSummary(resp.Analysis, mdPath); err != nil {
		logger.Warn("failed to write LLM summary", zap.String("topic", resp.Triage.Topic), zap.Error(err))
	}
	return nil
}

var unsafeFilename = regexp.MustCompile(`[^a-z0-9]+`)

// sanitizeFilename turns a topic into a short lowercase file stem
func sanitizeFilename(s string) string {
	s = strings.Trim(unsafeFilename.ReplaceAllString(strings.ToLower(s), "-"), "-")
	if len(s) > 100 {
		s = strings.TrimRight(s[:100], "-")
	}
	if s == "" {
		s = "topic"
	}
	return s
}

// uniqueSlug suffixes repeated stems with -2, -3, ...
func uniqueSlug(topic string, used map[string]int) string {
	slug := sanitizeFilename(topic)
	used[slug]++
	if n := used[slug]; n > 1 {
		return fmt.Sprintf("%s-%d", slug, n)
	}
	return slug
}
