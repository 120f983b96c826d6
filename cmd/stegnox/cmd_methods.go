package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stegnox/pkg/engine"
)

var methodsCmd = &cobra.Command{
	Use:   "methods",
	Short: "List the analysis and embedding methods",
	Args:  cobra.NoArgs,
	RunE:  runMethods,
}

func runMethods(cmd *cobra.Command, _ []string) error {
	w := cmd.OutOrStdout()
	fmt.Fprintln(w, "Analysis methods:")
	for _, m := range engine.AllMethods() {
		kind := "extraction"
		if m.IsDetector() {
			kind = "detection"
		}
		fmt.Fprintf(w, "  %-24s %s\n", m, kind)
	}
	fmt.Fprintln(w, "Embedding methods:")
	for _, m := range engine.AllEmbedMethods() {
		fmt.Fprintf(w, "  %s\n", m)
	}
	return nil
}
