package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ideaforge/internal/gateway/service/credits"
	"ideaforge/internal/pipeline"
	"ideaforge/internal/pipeline/methods"
)

var methodsCmd = &cobra.Command{
	Use:   "methods",
	Short: "List the available creativity methods",
	Args:  cobra.NoArgs,
	RunE:  runMethods,
}

type methodRow struct {
	ID      pipeline.MethodID `json:"id"`
	Title   string            `json:"title"`
	Calls   int               `json:"calls"`
	Credits int               `json:"credits"`
}

func runMethods(cmd *cobra.Command, _ []string) error {
	registry, err := methods.NewRegistry()
	if err != nil {
		return fmt.Errorf("registry: %w", err)
	}
	rows := make([]methodRow, 0, len(registry.Methods()))
	for _, m := range registry.Methods() {
		rows = append(rows, methodRow{ID: m.ID, Title: m.Title, Calls: m.Calls(), Credits: credits.Cost(m)})
	}
	out := cmd.OutOrStdout()
	if rootFlags.output != "" {
		return render(out, rootFlags.output, rows)
	}
	for _, r := range rows {
		fmt.Fprintf(out, "%-14s %d calls  %3d credits  %s\n", r.ID, r.Calls, r.Credits, r.Title)
	}
	return nil
}
