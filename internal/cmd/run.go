package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/persuade/internal/catalog"
	"github.com/Iron-Ham/persuade/internal/dialogue"
	"github.com/Iron-Ham/persuade/internal/event"
	"github.com/Iron-Ham/persuade/internal/mailbox"
	"github.com/Iron-Ham/persuade/internal/trace"
)

var runCmd = &cobra.Command{
	Use:   "run [catalog]",
	Short: "Run one dialogue and print its trace",
	Long: `Run one dialogue between the two configured agents and print every
message as it is exchanged, followed by the outcome.

The catalog is a YAML file, a values CSV file, or a directory holding
values.csv and one <agent>/criteria.csv per agent. Without a catalog a
random one is generated from catalog.seed.

Examples:
  persuade run data/engines.yaml
  persuade run --prob 0 --seed 7
  persuade run data/engines --watch`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: bindRunFlags,
	RunE:    runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	addDialogueFlags(runCmd)
	runCmd.Flags().String("format", "text", "trace format: text or json")
	runCmd.Flags().String("color", "auto", "color text traces: auto, always or never")
	runCmd.Flags().BoolP("verbose", "v", false, "also print exhaustion decisions")
	runCmd.Flags().Bool("record", false, "store every message in the state directory mailbox")
	runCmd.Flags().BoolP("watch", "w", false, "run again whenever the catalog changes")
}

// addDialogueFlags registers the flags shared by run and batch.
func addDialogueFlags(cmd *cobra.Command) {
	cmd.Flags().Float64P("prob", "p", 0.5, "probability of accepting an item without a rebuttal")
	cmd.Flags().Float64("top-fraction", 0.1, "share of its ranking an agent accepts outright")
	cmd.Flags().Int("max-messages", 200, "message limit before a forced impasse")
	cmd.Flags().String("first", "", "agent that proposes first")
	cmd.Flags().String("draw-mode", "per_event", "acceptance draws: per_event or per_dialogue")
	cmd.Flags().Uint64("seed", 1, "seed for acceptance draws")
	cmd.Flags().IntP("items", "n", 10, "number of items in a generated catalog")
	cmd.Flags().Uint64("catalog-seed", 1, "seed for catalog and profile generation")
}

var dialogueFlagKeys = map[string]string{
	"prob":         "dialogue.prob_accept_item",
	"top-fraction": "dialogue.top_fraction",
	"max-messages": "dialogue.max_messages",
	"first":        "dialogue.first_agent",
	"draw-mode":    "dialogue.draw_mode",
	"seed":         "dialogue.seed",
	"items":        "catalog.number_items",
	"catalog-seed": "catalog.seed",
}

func bindRunFlags(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd, dialogueFlagKeys); err != nil {
		return err
	}
	return bindFlags(cmd, map[string]string{
		"format":  "trace.format",
		"color":   "trace.color",
		"verbose": "trace.verbose",
		"record":  "trace.record",
	})
}

func runRun(cmd *cobra.Command, args []string) error {
	stderr := cmd.ErrOrStderr()
	e, err := loadEnv(stderr)
	if err != nil {
		return err
	}
	defer e.close()

	if len(args) == 1 {
		e.cfg.Catalog.Path = args[0]
	}
	watch, _ := cmd.Flags().GetBool("watch")
	if watch && e.cfg.Catalog.Path == "" {
		return fmt.Errorf("--watch needs a catalog path")
	}

	renderer, err := trace.NewRenderer(cmd.OutOrStdout(), e.traceOptions())
	if err != nil {
		return err
	}
	engine, detach := e.newEngine(renderer)
	defer detach()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ds, err := e.loadDataset()
	if err != nil {
		return err
	}
	if err := e.runDialogue(ctx, engine, ds, stderr); err != nil {
		return err
	}
	if !watch {
		return nil
	}

	watcher, err := catalog.NewWatcher(e.cfg.Catalog.Path, catalog.DefaultDebounce)
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	fmt.Fprintf(stderr, "Watching %s for changes (Ctrl+C to stop)\n", e.cfg.Catalog.Path)
	err = watcher.Run(ctx, func(ds *catalog.Dataset, err error) {
		if err == nil {
			err = e.applyProfiles(ds)
		}
		if err == nil {
			err = e.runDialogue(ctx, engine, ds, stderr)
		}
		if err != nil {
			e.logger.Warn("catalog reload failed", "path", e.cfg.Catalog.Path, "error", err)
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// newEngine builds an engine whose events are rendered live, recording into
// the mailbox when trace.record is set.
func (e *env) newEngine(renderer *trace.Renderer) (*dialogue.Engine, func()) {
	bus := event.NewBus().WithLogger(e.logger.Slog())
	detach := renderer.Attach(bus)

	opts := []dialogue.Option{dialogue.WithLogger(e.logger), dialogue.WithBus(bus)}
	if e.cfg.Trace.Record {
		opts = append(opts, dialogue.WithSink(e.mailbox()))
	}
	return dialogue.NewEngine(opts...), detach
}

func (e *env) mailbox() *mailbox.Mailbox {
	return mailbox.NewMailbox(e.stateDir, mailbox.WithLogger(e.logger))
}

// runDialogue runs one dialogue over ds. The trace is written by the
// renderer attached to the engine's bus.
func (e *env) runDialogue(ctx context.Context, engine *dialogue.Engine, ds *catalog.Dataset, stderr io.Writer) error {
	a, b, err := e.participants(ds)
	if err != nil {
		return err
	}
	res, err := engine.Run(ctx, ds.Catalog, a, b, e.dialogueConfig(), e.dialogueRNG())
	if err != nil {
		return err
	}
	if e.cfg.Trace.Record {
		fmt.Fprintf(stderr, "Recorded dialogue %s in %s\n", res.ID, e.stateDir)
	}
	return nil
}
