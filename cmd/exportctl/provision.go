package main

import (
	"fmt"

	"github.com/nadeos/bmd-exporter/internal/commission"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Generate commission statements and notification mails",
}

var provisionPDFCmd = &cobra.Command{
	Use:   "pdf",
	Short: "Render commission statement PDFs into the export directory",
	Example: `  exportctl provision pdf --year 2025 --month 7
  exportctl provision pdf --group AB`,
	Args: cobra.NoArgs,
	RunE: runProvisionPDF,
}

var provisionMailCmd = &cobra.Command{
	Use:   "mail",
	Short: "Send the commission notification mails",
	Example: `  exportctl provision mail --year 2025 --month 7
  exportctl provision mail --testmail me@example.com`,
	Args: cobra.NoArgs,
	RunE: runProvisionMail,
}

func init() {
	rootCmd.AddCommand(provisionCmd)
	provisionCmd.AddCommand(provisionPDFCmd, provisionMailCmd)

	for _, cmd := range []*cobra.Command{provisionPDFCmd, provisionMailCmd} {
		addMonthFlags(cmd)
		cmd.Flags().String("group", "", "Restrict to one commission group prefix, e.g. AB")
	}
	provisionMailCmd.Flags().String("testmail", "", "Send every mail to this address instead of the group contacts")
}

func runProvisionPDF(cmd *cobra.Command, _ []string) error {
	month, err := monthFromFlags(cmd)
	if err != nil {
		return err
	}
	group, _ := cmd.Flags().GetString("group")

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	svc := commission.NewService(a.log, a.db)
	renderer := commission.NewStatementRenderer(a.log, svc, commission.NewNumberAllocator(a.log, a.db, a.node), a.sink)

	commissions, err := svc.List(cmd.Context(), month, group)
	if err != nil {
		return err
	}
	if len(commissions) == 0 {
		return fmt.Errorf("no commissions for %d-%d", month.Year(), int(month.Month()))
	}

	for _, c := range commissions {
		if err := renderer.Save(cmd.Context(), c); err != nil {
			return fmt.Errorf("group %s: %w", c.GroupName, err)
		}
		a.log.Info("statement written",
			zap.String("group", c.GroupName),
			zap.Float64("commission_net", c.CommissionNetTotal),
		)
	}
	fmt.Printf("%d statement(s) written\n", len(commissions))
	return nil
}

func runProvisionMail(cmd *cobra.Command, _ []string) error {
	month, err := monthFromFlags(cmd)
	if err != nil {
		return err
	}
	group, _ := cmd.Flags().GetString("group")
	testmail, _ := cmd.Flags().GetString("testmail")

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	mailer, err := newMailer(a.cfg)
	if err != nil {
		return err
	}

	svc := commission.NewService(a.log, a.db)
	dispatcher := commission.NewMailDispatcher(a.log, svc, mailer, a.cfg)

	if err := dispatcher.SendReports(cmd.Context(), month, group, testmail); err != nil {
		return err
	}
	fmt.Println("mails sent")
	return nil
}
