package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/nadeos/bmd-exporter/internal/toprevenue"
	"github.com/spf13/cobra"
)

var topRevenueCmd = &cobra.Command{
	Use:   "top-revenue",
	Short: "Rank customers by paid net revenue in a date range",
	Example: `  exportctl top-revenue --from 2025-07-01 --to 2025-07-31
  exportctl top-revenue --limit 10 --format html > report.html`,
	Args: cobra.NoArgs,
	RunE: runTopRevenue,
}

func init() {
	rootCmd.AddCommand(topRevenueCmd)

	topRevenueCmd.Flags().String("from", "", "Range start, YYYY-MM-DD (default: first day of the current month)")
	topRevenueCmd.Flags().String("to", "", "Range end, YYYY-MM-DD (default: today)")
	topRevenueCmd.Flags().Int("limit", toprevenue.DefaultLimit, "Maximum number of customers")
	topRevenueCmd.Flags().String("group", "", "Restrict to one customer group prefix, e.g. AB")
	topRevenueCmd.Flags().String("format", "json", "Output format: json, html or pdf")
}

func runTopRevenue(cmd *cobra.Command, _ []string) error {
	from, to, err := rangeFromFlags(cmd)
	if err != nil {
		return err
	}
	limit, _ := cmd.Flags().GetInt("limit")
	group, _ := cmd.Flags().GetString("group")
	format, _ := cmd.Flags().GetString("format")

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	items, err := toprevenue.NewService(a.log, a.db).Rank(cmd.Context(), from, to, limit, group)
	if err != nil {
		return err
	}

	switch format {
	case "html":
		html, err := toprevenue.RenderHTML(items, from, to)
		if err != nil {
			return err
		}
		fmt.Println(html)
	case "pdf":
		data, err := toprevenue.RenderPDF(items, from, to)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	default:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}
	return nil
}

func rangeFromFlags(cmd *cobra.Command) (time.Time, time.Time, error) {
	fromRaw, _ := cmd.Flags().GetString("from")
	toRaw, _ := cmd.Flags().GetString("to")

	now := time.Now().UTC()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := now

	var err error
	if fromRaw != "" {
		if from, err = time.Parse("2006-01-02", fromRaw); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --from: %w", err)
		}
	}
	if toRaw != "" {
		if to, err = time.Parse("2006-01-02", toRaw); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --to: %w", err)
		}
		to = to.Add(24*time.Hour - time.Second)
	}
	return from, to, nil
}
