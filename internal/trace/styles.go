package trace

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/persuade/internal/dialogue"
)

var (
	proposeColor = lipgloss.Color("#60A5FA") // Blue
	askColor     = lipgloss.Color("#FBBF24") // Yellow
	argueColor   = lipgloss.Color("#A78BFA") // Purple
	acceptColor  = lipgloss.Color("#10B981") // Green
	commitColor  = lipgloss.Color("#10B981") // Green
	impasseColor = lipgloss.Color("#F87171") // Red
	mutedColor   = lipgloss.Color("#9CA3AF") // Gray
)

// styles holds the renderer-bound styles. Styles must come from the same
// lipgloss.Renderer as the output so color detection follows the writer.
type styles struct {
	agent        lipgloss.Style
	performative map[dialogue.Performative]lipgloss.Style
	muted        lipgloss.Style
	agreed       lipgloss.Style
	impasse      lipgloss.Style
	header       lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	perf := func(c lipgloss.Color) lipgloss.Style {
		return r.NewStyle().Bold(true).Foreground(c)
	}
	return styles{
		agent: r.NewStyle().Bold(true),
		performative: map[dialogue.Performative]lipgloss.Style{
			dialogue.Propose: perf(proposeColor),
			dialogue.AskWhy:  perf(askColor),
			dialogue.Argue:   perf(argueColor),
			dialogue.Accept:  perf(acceptColor),
			dialogue.Commit:  perf(commitColor),
		},
		muted:   r.NewStyle().Foreground(mutedColor),
		agreed:  r.NewStyle().Bold(true).Foreground(acceptColor),
		impasse: r.NewStyle().Bold(true).Foreground(impasseColor),
		header:  r.NewStyle().Bold(true).Underline(true),
	}
}

func (s styles) forPerformative(p dialogue.Performative) lipgloss.Style {
	if st, ok := s.performative[p]; ok {
		return st
	}
	return s.muted
}
