package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/persuade/internal/catalog"
	"github.com/Iron-Ham/persuade/internal/preference"
	"github.com/Iron-Ham/persuade/internal/trace"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog [catalog]",
	Short: "Show a catalog and how each agent ranks it",
	Long: `Show every item of a catalog with its ratings, then each agent's
criteria order, ranking, weighted score and the items inside its top
fraction.

Without a catalog the generated one (catalog.seed, catalog.number_items)
is shown. Use --export to save it as YAML.`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: bindCatalogFlags,
	RunE:    runCatalog,
}

func init() {
	rootCmd.AddCommand(catalogCmd)

	catalogCmd.Flags().Float64("top-fraction", 0.1, "share of its ranking an agent accepts outright")
	catalogCmd.Flags().IntP("items", "n", 10, "number of items in a generated catalog")
	catalogCmd.Flags().Uint64("catalog-seed", 1, "seed for catalog and profile generation")
	catalogCmd.Flags().String("color", "auto", "color output: auto, always or never")
	catalogCmd.Flags().StringP("export", "o", "", "write the catalog and agent profiles to a YAML file")
}

func bindCatalogFlags(cmd *cobra.Command, args []string) error {
	return bindFlags(cmd, map[string]string{
		"top-fraction": "dialogue.top_fraction",
		"items":        "catalog.number_items",
		"catalog-seed": "catalog.seed",
		"color":        "trace.color",
	})
}

func runCatalog(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer e.close()

	if len(args) == 1 {
		e.cfg.Catalog.Path = args[0]
	}
	ds, err := e.loadDataset()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if export, _ := cmd.Flags().GetString("export"); export != "" {
		if err := catalog.SaveYAML(export, ds); err != nil {
			return err
		}
		fmt.Fprintf(out, "Exported %d items and %d agents to %s\n", ds.Catalog.Len(), len(ds.Agents), export)
		return nil
	}

	lr := trace.StyleRenderer(out, trace.ColorMode(e.cfg.Trace.Color))
	title := lr.NewStyle().Bold(true)

	source := ds.Source
	if source == "" {
		source = fmt.Sprintf("generated (seed %d)", e.cfg.Catalog.Seed)
	}
	fmt.Fprintf(out, "%s %s (%d items)\n\n", title.Render("Catalog:"), source, ds.Catalog.Len())
	fmt.Fprintln(out, itemTable(ds.Catalog))

	for _, name := range e.cfg.AgentNames() {
		p, err := ds.Profile(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\n%s %s\n", title.Render(name+":"), p)
		if err := writeRanking(out, p, ds.Catalog, e.cfg.Dialogue.TopFraction); err != nil {
			return err
		}
	}
	return nil
}

func itemTable(cat *preference.Catalog) string {
	headers := []string{"Item"}
	for _, c := range preference.Criteria() {
		headers = append(headers, c.String())
	}
	headers = append(headers, "Description")

	t := table.New().Border(lipgloss.NormalBorder()).Headers(headers...)
	for _, item := range cat.Items() {
		row := []string{item.Name()}
		for _, c := range preference.Criteria() {
			row = append(row, item.Value(c).String())
		}
		row = append(row, item.Description())
		t.Row(row...)
	}
	return t.String()
}

// writeRanking prints the profile's ranking with scores, marking the items
// inside the top fraction.
func writeRanking(w io.Writer, p *preference.Profile, cat *preference.Catalog, fraction float64) error {
	ranked, err := p.RankItems(cat)
	if err != nil {
		return err
	}
	top, err := p.TopFraction(cat, fraction)
	if err != nil {
		return err
	}

	t := table.New().Border(lipgloss.NormalBorder()).Headers("Rank", "Item", "Score", "Top")
	for i, item := range ranked {
		mark := ""
		if i < len(top) {
			mark = "*"
		}
		t.Row(fmt.Sprintf("%d", i+1), item.Name(), fmt.Sprintf("%.2f", p.Score(item)), mark)
	}
	_, err = fmt.Fprintln(w, t.String())
	return err
}
