package forge

import (
	"fmt"
	"io"
	"strings"
)

const (
	bannerWidth = 36
	closer      = "==================================="
	separator   = "-----------------------------------"
)

// banner renders a section title padded with '=' to a fixed width.
func banner(title string) string {
	s := "============= " + title + " "
	if n := bannerWidth - len(s); n > 0 {
		s += strings.Repeat("=", n)
	}
	return s
}

// PrintCode writes the program source under a CODE banner.
func PrintCode(w io.Writer, source string) {
	fmt.Fprintf(w, "%s%s\n", banner("CODE"), strings.TrimSuffix(source, "\n"))
}

// PrintVocabulary writes the propositions on one comma-separated line.
func PrintVocabulary(w io.Writer, vocab []string) {
	fmt.Fprintln(w, banner("RELEVANT ATOMS"))
	fmt.Fprintln(w, strings.Join(vocab, ", "))
}

// PrintConsole writes solver diagnostics, if any, with "<string>:" locations
// shortened to "Line ".
func PrintConsole(w io.Writer, diagnostics string) {
	if diagnostics == "" {
		return
	}
	fmt.Fprintln(w, banner("CONSOLE"))
	fmt.Fprintln(w, strings.ReplaceAll(strings.TrimSuffix(diagnostics, "\n"), "<string>:", "Line "))
}

// PrintOutcome writes the answer-set count followed by one line per set.
func PrintOutcome(w io.Writer, templates []Template) {
	fmt.Fprintln(w, banner("OUTPUT"))
	fmt.Fprintf(w, "number of answer sets: %d", len(templates))
	for i, t := range templates {
		fmt.Fprintf(w, "\nanswer set %d: %s", i+1, strings.Join(t.atoms, " "))
	}
	fmt.Fprintln(w)
}

func printDistribution(w io.Writer, dist Distribution, uniform bool) {
	if uniform {
		fmt.Fprintln(w, "uniform distribution")
	} else {
		fmt.Fprintln(w, "randomly generated distribution")
	}
	fmt.Fprintln(w, "template: probability threshold")
	for _, iv := range dist {
		fmt.Fprintf(w, "    %s: %.02f \n", iv.Template, iv.Threshold)
	}
}

func printHidden(w io.Writer, hidden []string) {
	if len(hidden) == 0 {
		fmt.Fprintln(w, "no hidden variables")
		return
	}
	fmt.Fprintf(w, "hidden variables: [%s]\n", strings.Join(hidden, ", "))
}
