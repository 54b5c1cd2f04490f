package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/persuade/internal/dialogue"
	"github.com/Iron-Ham/persuade/internal/mailbox"
	"github.com/Iron-Ham/persuade/internal/trace"
)

var transcriptCmd = &cobra.Command{
	Use:   "transcript",
	Short: "Inspect dialogues recorded with run --record",
}

var transcriptListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded dialogues, oldest first",
	Args:  cobra.NoArgs,
	RunE:  runTranscriptList,
}

var transcriptShowCmd = &cobra.Command{
	Use:   "show [dialogue-id]",
	Short: "Replay a recorded dialogue",
	Long: `Replay the messages of a recorded dialogue in sequence order. Without
an ID the most recent dialogue is shown.

Examples:
  persuade transcript show
  persuade transcript show 3f0c... --performative argue --from Alice`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTranscriptShow,
}

func init() {
	rootCmd.AddCommand(transcriptCmd)
	transcriptCmd.AddCommand(transcriptListCmd)
	transcriptCmd.AddCommand(transcriptShowCmd)

	transcriptShowCmd.Flags().StringSlice("performative", nil, "only these performatives (e.g. propose,argue)")
	transcriptShowCmd.Flags().String("from", "", "only messages sent by this agent")
	transcriptShowCmd.Flags().String("item", "", "only messages about this item")
	transcriptShowCmd.Flags().Int("last", 0, "only the last N matching messages")
	transcriptShowCmd.Flags().String("format", "text", "output format: text or json")
	transcriptShowCmd.Flags().String("color", "auto", "color text output: auto, always or never")
}

func runTranscriptList(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer e.close()

	mb := e.mailbox()
	ids, err := mb.Dialogues()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(ids) == 0 {
		fmt.Fprintf(out, "No recorded dialogues in %s\n", e.stateDir)
		fmt.Fprintln(out, "Record one with 'persuade run --record'.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tAGENTS\tMESSAGES\tSTATUS\tUPDATED")
	for _, id := range ids {
		s, err := mb.Summarize(id)
		if err != nil {
			return err
		}
		status := "open"
		if s.Concluded() {
			status = "agreed on " + s.Last.Item
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
			s.ID, strings.Join(s.Agents, ", "), s.Messages, status, s.Updated.Format("2006-01-02 15:04:05"))
	}
	return tw.Flush()
}

func runTranscriptShow(cmd *cobra.Command, args []string) error {
	filter, err := transcriptFilter(cmd)
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("format")
	color, _ := cmd.Flags().GetString("color")

	e, err := loadEnv(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer e.close()

	mb := e.mailbox()
	var id string
	if len(args) == 1 {
		id = args[0]
	} else {
		ids, err := mb.Dialogues()
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return fmt.Errorf("no recorded dialogues in %s", e.stateDir)
		}
		id = ids[len(ids)-1]
	}

	msgs, err := mb.Transcript(id)
	if err != nil {
		return err
	}

	renderer, err := trace.NewRenderer(cmd.OutOrStdout(), trace.Options{
		Format: trace.Format(format),
		Color:  trace.ColorMode(color),
	})
	if err != nil {
		return err
	}

	envs := make([]mailbox.Envelope, len(msgs))
	for i, msg := range msgs {
		envs[i] = mailbox.Envelope{Dialogue: id, Message: msg}
	}
	for _, env := range mailbox.Apply(envs, filter) {
		if err := renderer.Message(id, env.Message); err != nil {
			return err
		}
	}

	// Only a complete, unfiltered transcript has a known outcome.
	if len(msgs) > 0 && filterIsZero(filter) && msgs[len(msgs)-1].Performative == dialogue.Commit {
		last := msgs[len(msgs)-1]
		out := dialogue.Outcome{State: dialogue.StateCommitted, Item: last.Item}
		return renderer.Outcome(id, out, len(msgs))
	}
	return nil
}

func filterIsZero(f mailbox.Filter) bool {
	return len(f.Performatives) == 0 && f.From == "" && f.Item == "" && f.MaxMessages == 0
}

func transcriptFilter(cmd *cobra.Command) (mailbox.Filter, error) {
	var f mailbox.Filter
	names, _ := cmd.Flags().GetStringSlice("performative")
	for _, name := range names {
		p, err := dialogue.ParsePerformative(name)
		if err != nil {
			return f, err
		}
		f.Performatives = append(f.Performatives, p)
	}
	f.From, _ = cmd.Flags().GetString("from")
	f.Item, _ = cmd.Flags().GetString("item")
	f.MaxMessages, _ = cmd.Flags().GetInt("last")
	if f.MaxMessages < 0 {
		return f, fmt.Errorf("--last must be non-negative")
	}
	return f, nil
}
