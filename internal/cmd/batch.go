package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/persuade/internal/dialogue"
	"github.com/Iron-Ham/persuade/internal/simulate"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Run many dialogues and report aggregate statistics",
	Long: `Run a batch of dialogues on a bounded worker pool and print how often
the agents agreed, how long dialogues took, and which items won.

Without --catalogs every run generates its own catalog. With --catalogs
runs cycle through the matching catalog files and directories.

Examples:
  persuade batch --runs 1000 --parallelism 8
  persuade batch --catalogs 'data/**/*.yaml' --prob 0.2`,
	Args:    cobra.NoArgs,
	PreRunE: bindBatchFlags,
	RunE:    runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	addDialogueFlags(batchCmd)
	batchCmd.Flags().Int("runs", simulate.DefaultRuns, "number of dialogues")
	batchCmd.Flags().Int("parallelism", simulate.DefaultParallelism, "dialogues run concurrently")
	batchCmd.Flags().String("catalogs", "", "comma-separated catalog globs (supports **)")
	batchCmd.Flags().String("format", "text", "report format: text or json")
	batchCmd.Flags().BoolP("verbose", "v", false, "print one line per finished run")
}

func bindBatchFlags(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd, dialogueFlagKeys); err != nil {
		return err
	}
	return bindFlags(cmd, map[string]string{
		"runs":        "batch.runs",
		"parallelism": "batch.parallelism",
		"catalogs":    "batch.catalogs",
	})
}

func runBatch(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	if format != "text" && format != "json" {
		return fmt.Errorf("invalid format %q: expected text or json", format)
	}
	verbose, _ := cmd.Flags().GetBool("verbose")

	e, err := loadEnv(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer e.close()

	catalogs, err := simulate.ExpandCatalogs(e.cfg.Batch.CatalogPatterns()...)
	if err != nil {
		return err
	}

	names := e.cfg.AgentNames()
	opts := simulate.Options{
		Runs:        e.cfg.Batch.Runs,
		Parallelism: e.cfg.Batch.Parallelism,
		Items:       e.cfg.Catalog.NumberItems,
		Seed:        e.cfg.Dialogue.Seed,
		Config:      e.dialogueConfig(),
		Agents:      [2]string{names[0], names[1]},
		Profiles:    e.profileOverrides(),
		Catalogs:    catalogs,
	}
	if verbose {
		out := cmd.ErrOrStderr()
		opts.OnResult = func(r simulate.RunResult) {
			fmt.Fprintf(out, "run %d: %s\n", r.Index, describeRun(r))
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine := dialogue.NewEngine(dialogue.WithLogger(e.logger))
	e.logger.Info("batch started", "runs", opts.Runs, "parallelism", opts.Parallelism, "catalogs", len(catalogs))
	report, err := simulate.Run(ctx, engine, opts)
	if err != nil {
		return err
	}
	e.logger.Info("batch finished", "agreements", report.Agreements, "impasses", report.Impasses)

	if format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	return report.WriteText(cmd.OutOrStdout())
}

func describeRun(r simulate.RunResult) string {
	if r.Outcome.Agreed() {
		return fmt.Sprintf("agreement on %s after %d messages", r.Outcome.Item, r.Messages)
	}
	if r.Outcome.Forced {
		return fmt.Sprintf("no agreement after %d messages, message limit reached", r.Messages)
	}
	return fmt.Sprintf("no agreement after %d messages", r.Messages)
}
