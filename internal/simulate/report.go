package simulate

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"text/tabwriter"

	"gonum.org/v1/gonum/stat"
)

// Report summarizes a batch.
type Report struct {
	Runs       int
	Agreements int
	Impasses   int
	Forced     int // impasses caused by the message limit

	AgreementRate   float64
	MeanMessages    float64
	StdDevMessages  float64
	MinMessages     int
	MaxMessages     int
	MeanProposals   float64
	MeanExhaustions float64

	// AgreedItems counts agreements per item name.
	AgreedItems map[string]int
	Results     []RunResult
}

func newReport(results []RunResult) *Report {
	r := &Report{
		Runs:        len(results),
		AgreedItems: make(map[string]int),
		Results:     results,
	}
	if len(results) == 0 {
		return r
	}

	messages := make([]float64, len(results))
	proposals := make([]float64, len(results))
	exhaustions := make([]float64, len(results))
	r.MinMessages = results[0].Messages
	for i, res := range results {
		messages[i] = float64(res.Messages)
		proposals[i] = float64(res.Outcome.Proposals)
		exhaustions[i] = float64(res.Outcome.Exhaustions)
		r.MinMessages = min(r.MinMessages, res.Messages)
		r.MaxMessages = max(r.MaxMessages, res.Messages)

		switch {
		case res.Outcome.Agreed():
			r.Agreements++
			r.AgreedItems[res.Outcome.Item]++
		case res.Outcome.Forced:
			r.Impasses++
			r.Forced++
		default:
			r.Impasses++
		}
	}

	r.AgreementRate = float64(r.Agreements) / float64(r.Runs)
	r.MeanMessages = stat.Mean(messages, nil)
	r.MeanProposals = stat.Mean(proposals, nil)
	r.MeanExhaustions = stat.Mean(exhaustions, nil)
	if len(messages) > 1 {
		r.StdDevMessages = stat.StdDev(messages, nil)
	}
	return r
}

// TopItems returns the n most agreed-on items, most frequent first, ties by
// name.
func (r *Report) TopItems(n int) []string {
	names := make([]string, 0, len(r.AgreedItems))
	for name := range r.AgreedItems {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b string) int {
		if d := r.AgreedItems[b] - r.AgreedItems[a]; d != 0 {
			return d
		}
		return cmp.Compare(a, b)
	})
	if n > 0 && len(names) > n {
		names = names[:n]
	}
	return names
}

// WriteText prints the report as an aligned table.
func (r *Report) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	rows := [][2]string{
		{"Runs", fmt.Sprintf("%d", r.Runs)},
		{"Agreements", fmt.Sprintf("%d (%.1f%%)", r.Agreements, 100*r.AgreementRate)},
		{"Impasses", fmt.Sprintf("%d (%d at message limit)", r.Impasses, r.Forced)},
		{"Messages", fmt.Sprintf("mean %.2f, stddev %.2f, min %d, max %d", r.MeanMessages, r.StdDevMessages, r.MinMessages, r.MaxMessages)},
		{"Proposals", fmt.Sprintf("mean %.2f", r.MeanProposals)},
		{"Exhaustions", fmt.Sprintf("mean %.2f", r.MeanExhaustions)},
	}
	for _, name := range r.TopItems(5) {
		rows = append(rows, [2]string{"Agreed on " + name, fmt.Sprintf("%d", r.AgreedItems[name])})
	}
	for _, row := range rows {
		if _, err := fmt.Fprintf(tw, "%s\t%s\n", row[0], row[1]); err != nil {
			return err
		}
	}
	return tw.Flush()
}
