package main

import (
	"encoding/json"
	"os"

	"github.com/nadeos/bmd-exporter/internal/shrink"
	"github.com/spf13/cobra"
)

var shrinkCmd = &cobra.Command{
	Use:   "shrink",
	Short: "List tester and exchange article quantities for one month",
	Example: `  exportctl shrink --year 2025 --month 7
  exportctl shrink --all`,
	Args: cobra.NoArgs,
	RunE: runShrink,
}

func init() {
	rootCmd.AddCommand(shrinkCmd)

	addMonthFlags(shrinkCmd)
	shrinkCmd.Flags().Bool("all", false, "Include regular articles with order numbers and relevance flags")
}

func runShrink(cmd *cobra.Command, _ []string) error {
	month, err := monthFromFlags(cmd)
	if err != nil {
		return err
	}
	all, _ := cmd.Flags().GetBool("all")

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	svc := shrink.NewService(a.log, a.db)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	if all {
		rows, err := svc.ListByProduct(cmd.Context(), month)
		if err != nil {
			return err
		}
		return enc.Encode(rows)
	}

	rows, err := svc.List(cmd.Context(), month)
	if err != nil {
		return err
	}
	return enc.Encode(rows)
}
