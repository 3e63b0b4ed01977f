package main

import (
	"io"

	"github.com/fatih/color"
)

const bannerTitle = "Auto Claim Card Network3"

// printBanner writes the startup banner. Color is dropped automatically when
// w is not a terminal or NO_COLOR is set.
func printBanner(w io.Writer) {
	rule := color.New(color.FgCyan)
	title := color.New(color.FgGreen, color.Bold)

	_, _ = rule.Fprintln(w, "======================================")
	_, _ = title.Fprintf(w, "       %s\n", bannerTitle)
	_, _ = rule.Fprintln(w, "======================================")
}
