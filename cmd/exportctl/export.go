package main

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/nadeos/bmd-exporter/internal/bmdexport"
	"github.com/nadeos/bmd-exporter/internal/storage"
	"github.com/nadeos/bmd-exporter/internal/tax"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var exportCmd = &cobra.Command{
	Use:   "export [kind]",
	Short: "Write a BMD CSV export for one month",
	Long: `Produces one of the BMD accounting CSV files and stores it under
the export directory (or prints it with --stdout).

Kinds:
  orders             booking lines for invoices, credit notes and cancellations
  customers          customer master data for the same document set
  invoices-only      booking lines restricted to invoices
  credits-only       booking lines restricted to credit notes
  cancellations-only booking lines restricted to cancellation invoices
  overview           per-document overview rows without deduplication`,
	Example: `  exportctl export orders --year 2025 --month 7
  exportctl export customers
  exportctl export overview --stdout`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	addMonthFlags(exportCmd)
	exportCmd.Flags().Bool("stdout", false, "Print the CSV instead of writing it to the export directory")
}

func runExport(cmd *cobra.Command, args []string) error {
	month, err := monthFromFlags(cmd)
	if err != nil {
		return err
	}
	toStdout, _ := cmd.Flags().GetBool("stdout")

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	svc := bmdexport.NewService(a.log, bmdexport.NewRepository(a.db), tax.NewResolver(tax.NewStaticHolder(tax.DefaultTable())))

	var buf bytes.Buffer
	kind := args[0]
	if kind == "overview" {
		err = svc.ExportOverview(cmd.Context(), month, &buf)
	} else {
		err = svc.Export(cmd.Context(), bmdexport.Kind(kind), month, &buf)
	}
	if err != nil {
		return err
	}

	if toStdout {
		_, err = os.Stdout.Write(buf.Bytes())
		return err
	}

	name := exportFilename(kind, month)
	if err := a.sink.Write(storage.DirExports, name, buf.Bytes()); err != nil {
		return err
	}
	a.log.Info("export written",
		zap.String("kind", kind),
		zap.String("path", a.sink.Path(storage.DirExports, name)),
	)
	fmt.Println(a.sink.Path(storage.DirExports, name))
	return nil
}

func exportFilename(kind string, month time.Time) string {
	return fmt.Sprintf("%d_%02d_%s.csv", month.Year(), int(month.Month()), kind)
}
