package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ppiankov/jtbd/internal/model"
)

var (
	outJSON    string
	outMD      string
	runTimeout time.Duration
	noCache    bool
	noFooter   bool
	partial    bool
)

// queryCmd represents the query command
var queryCmd = &cobra.Command{
	Use:   "query <question>",
	Short: "Answer a question about a topic's jobs to be done",
	Long: `Query extracts the topic from a question and routes it by how much
research exists for that topic:
- complete data: full JTBD analysis
- partial data: partial analysis, research plan and a reliability note
- no data: research plan only

Example:
  jtbd query "What are the jobs to be done for meal planning?"
  jtbd query "jobs for budgeting apps" --json out.json --md out.md`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <topic>",
	Short: "Run a JTBD analysis for a topic",
	Long: `Analyze runs the analysis on whatever data exists for a topic,
without routing. Use --partial to attach a reliability report.

Example:
  jtbd analyze "meal planning"
  jtbd analyze budgeting --partial --md budgeting.md`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

// planCmd represents the plan command
var planCmd = &cobra.Command{
	Use:   "plan <topic>",
	Short: "Suggest the research to run next for a topic",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlan,
}

func init() {
	for _, cmd := range []*cobra.Command{queryCmd, analyzeCmd, planCmd} {
		rootCmd.AddCommand(cmd)
		cmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (default: stdout)")
		cmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
		cmd.Flags().DurationVar(&runTimeout, "timeout", 2*time.Minute, "overall timeout")
		cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the analysis cache")
		cmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	}
	analyzeCmd.Flags().BoolVar(&partial, "partial", false, "partial analysis with a reliability report")
}

// setup loads config and wires the app for one command run
func setup(cmd *cobra.Command) (context.Context, context.CancelFunc, *app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	if noFooter {
		cfg.Output.IncludeFooter = false
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), runTimeout)
	a, err := newApp(ctx, cfg, noCache)
	if err != nil {
		cancel()
		return nil, nil, nil, err
	}
	return ctx, cancel, a, nil
}

func runQuery(cmd *cobra.Command, args []string) error {
	ctx, cancel, a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer cancel()
	defer a.Close()

	resp, err := a.router.Process(ctx, args[0])
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if err := a.render(resp, func() string { return a.renderer.ResponseMarkdown(resp) }, outJSON, outMD); err != nil {
		return err
	}
	writeLLMSummary(a, resp.Analysis)
	if outJSON != "" || outMD != "" {
		a.renderer.RenderSummary(resp)
	}
	return nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx, cancel, a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer cancel()
	defer a.Close()

	topic := args[0]
	result, err := a.router.Analyze(ctx, topic, !partial)
	if errors.Is(err, model.ErrNoResearchData) {
		// The error document is the result; the exit status still reports failure
		if rErr := a.renderer.RenderError(err, outJSON); rErr != nil {
			return rErr
		}
		return err
	}
	if err != nil {
		return fmt.Errorf("analyze failed: %w", err)
	}

	logger.Info("analysis complete",
		zap.String("topic", topic),
		zap.Int("themes", len(result.Themes)),
		zap.Int("data_points", result.DataPoints))

	if err := a.render(result, func() string { return a.renderer.AnalysisMarkdown(result) }, outJSON, outMD); err != nil {
		return err
	}
	writeLLMSummary(a, result)
	return nil
}

func runPlan(cmd *cobra.Command, args []string) error {
	ctx, cancel, a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer cancel()
	defer a.Close()

	plan, err := a.router.Plan(ctx, args[0])
	if err != nil {
		return fmt.Errorf("plan failed: %w", err)
	}

	return a.render(plan, func() string { return a.renderer.PlanMarkdown(plan) }, outJSON, outMD)
}

// writeLLMSummary writes the narrative next to the markdown report.
// A failure here only loses the narrative.
func writeLLMSummary(a *app, result *model.AnalysisResult) {
	path, err := a.renderer.RenderLLMSummary(result, outMD)
	if err != nil {
		logger.Warn("failed to write LLM summary", zap.Error(err))
		return
	}
	if path != "" {
		logger.Debug("wrote LLM summary", zap.String("path", path))
	}
}
