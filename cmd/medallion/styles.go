package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/rxtech-lab/argo-medallion/internal/types"
	"github.com/rxtech-lab/argo-medallion/pkg/marketdata"
	"github.com/rxtech-lab/argo-medallion/pkg/marketdata/alphavantage"
	"github.com/rxtech-lab/argo-medallion/pkg/medallion/gold"
	"github.com/rxtech-lab/argo-medallion/pkg/medallion/manifest"
)

// Style definitions.
var (
	// TitleStyle for section headers.
	TitleStyle = lipgloss.NewStyle().Bold(true)

	// HelpStyle for secondary text.
	HelpStyle = lipgloss.NewStyle().Faint(true)

	// ErrorStyle for error messages.
	ErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))

	// OKStyle marks written artifacts.
	OKStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

func renderManifest(w io.Writer, m *manifest.Manifest) {
	fmt.Fprintln(w, TitleStyle.Render(m.Summary()))

	for _, a := range m.Artifacts {
		fmt.Fprintf(w, "  %s %s %s\n", OKStyle.Render("✓"), a.Path, HelpStyle.Render(fmt.Sprintf("(%d rows)", a.Rows)))
	}

	for _, f := range m.Failures {
		fmt.Fprintf(w, "  %s %s %s\n", ErrorStyle.Render("✗"), f.Item, HelpStyle.Render(f.Err.Error()))
	}
}

func renderSummary(w io.Writer, path string, s *gold.Summary) {
	fmt.Fprintln(w, TitleStyle.Render(fmt.Sprintf("%s: %d rows, %d symbols", path, s.TotalRows, len(s.Symbols))))

	for _, stats := range s.Symbols {
		mean := "n/a"
		if stats.MeanReturn.Valid {
			mean = fmt.Sprintf("%.4f%%", stats.MeanReturn.Float64*100)
		}

		fmt.Fprintf(w, "  %-6s %4d rows  %s to %s  mean return %s\n",
			stats.Symbol, stats.Rows, stats.FirstDate, stats.LastDate, mean)
	}
}

func renderQuote(w io.Writer, symbol string, bar alphavantage.DailyBar) {
	fmt.Fprintf(w, "%s %s  open %s  high %s  low %s  close %s  volume %d\n",
		TitleStyle.Render(fmt.Sprintf("%-6s", symbol)),
		bar.Date.Format(types.DateLayout),
		bar.Open.String(), bar.High.String(), bar.Low.String(), bar.Close.String(), bar.Volume)
}

func renderProvider(w io.Writer, info marketdata.ProviderInfo) {
	auth := "no credentials"
	if info.RequiresAuth {
		auth = "requires " + info.EnvKey
	}

	history := ""
	if !info.Historical {
		history = ", quotes only"
	}

	fmt.Fprintf(w, "%s %s\n  %s\n", TitleStyle.Render(info.Name), HelpStyle.Render("("+info.DisplayName+", "+auth+history+")"), info.Description)
}
