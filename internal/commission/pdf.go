package commission

import (
	"context"
	"fmt"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/nadeos/bmd-exporter/internal/commission/domain"
	"github.com/nadeos/bmd-exporter/internal/storage"
	"github.com/nadeos/bmd-exporter/pkg/money"
	"go.uber.org/zap"
)

// statementNumberPrefix is the fixed invoice number stem; the allocated
// sequence is appended zero-padded to four digits.
const statementNumberPrefix = "19877"

// StatementRenderer lays out one commission statement per group as PDF.
type StatementRenderer struct {
	log     *zap.Logger
	svc     *Service
	numbers *NumberAllocator
	sink    storage.Sink
}

func NewStatementRenderer(log *zap.Logger, svc *Service, numbers *NumberAllocator, sink storage.Sink) *StatementRenderer {
	return &StatementRenderer{
		log:     log.Named("commission.pdf"),
		svc:     svc,
		numbers: numbers,
		sink:    sink,
	}
}

// StatementNumber builds the printed number "P19877NNNN" for default
// provision statements. Internal statements carry no number.
func (r *StatementRenderer) StatementNumber(ctx context.Context, c *domain.Commission) (string, error) {
	if c.ProvisionType != domain.ProvisionTypeDefault {
		return "", nil
	}
	seq, err := r.numbers.Allocate(ctx, c.GroupName, c.Year, c.Month)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("P%s%04d", statementNumberPrefix, seq), nil
}

// Render produces the statement PDF: address block, headline with the
// statement number, the commission line table with totals, and the order
// detail table on the following page.
func (r *StatementRenderer) Render(ctx context.Context, c *domain.Commission) ([]byte, error) {
	number, err := r.StatementNumber(ctx, c)
	if err != nil {
		return nil, err
	}

	isDefault := c.ProvisionType == domain.ProvisionTypeDefault

	cfg := config.NewBuilder().
		WithLeftMargin(20).
		Build()

	m := maroto.New(cfg)

	// address
	m.AddRow(30, col.New(12))
	m.AddRow(18, col.New(12).Add(
		text.New(fmt.Sprintf("%s %s %s", c.Contact.Salutation, c.Contact.Firstname, c.Contact.Lastname), props.Text{Top: 0}),
		text.New(c.Contact.Street, props.Text{Top: 5}),
		text.New(c.Contact.CityZip, props.Text{Top: 10}),
	))

	// statement date is the first day of the following month
	date := time.Date(c.Year, time.Month(c.Month), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	m.AddRow(8,
		text.NewCol(12, "Datum: "+date.Format("02.01.2006"), props.Text{Align: align.Right}),
	)

	headline := "PROVISIONSÜBERSICHT"
	if isDefault {
		headline = "GUTSCHRIFTSRECHNUNG " + number
	}
	m.AddRow(15,
		text.NewCol(12, headline, props.Text{Size: 12, Style: fontstyle.Bold, Top: 8}),
	)
	if isDefault {
		m.AddRow(6, text.NewCol(12, "Provisionsabrechnung", props.Text{Size: 12, Style: fontstyle.Bold}))
	}

	intro := "Aus den von Ihnen lukrierten Kundenumsätzen ergibt sich folgende Provision:"
	if isDefault {
		intro = "Aus den von Ihnen lukrierten Kundenumsätzen ergibt sich folgende Provisionsabrechnung:"
	}
	m.AddRow(12, text.NewCol(12, intro, props.Text{Top: 4}))

	// line item table
	m.AddRow(8,
		text.NewCol(2, "Pos.", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(7, "Bezeichnung", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(3, "Netto", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)
	m.AddRow(1, line.NewCol(12))

	for i, item := range c.Items {
		description := fmt.Sprintf(
			"Provision aus EUR %s Nettoumsatz im Zeitraum %s",
			money.FormatComma(item.SalesNet),
			item.Period.Format("2006-01"),
		)
		m.AddRow(10,
			text.NewCol(2, fmt.Sprintf("%d", i+1), props.Text{Size: 9}),
			text.NewCol(7, description, props.Text{Size: 9}),
			text.NewCol(3, money.FormatComma(item.CommissionNet), props.Text{Size: 9, Align: align.Right}),
		)
	}

	// totals
	m.AddRow(8,
		col.New(5),
		text.NewCol(4, "Betrag Netto", props.Text{Size: 9}),
		text.NewCol(3, money.FormatComma(c.CommissionNetTotal), props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(8,
		col.New(5),
		text.NewCol(4, "zzgl. 20% MwSt.", props.Text{Size: 9}),
		text.NewCol(3, money.FormatComma(money.Round2(c.CommissionNetTotal*0.2)), props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(1, col.New(5), line.NewCol(7))
	m.AddRow(8,
		col.New(5),
		text.NewCol(4, "Gesamtsumme", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(3, money.FormatComma(c.CommissionGrossTotal), props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	closing := []string{
		"Diese Provision wird mit der nächsten Gehaltsabrechnung ausgezahlt.",
		"Bitte beachten Sie, dass der Betrag aufgrund des Gehalts von der hier angegebenen Provision abweichen kann.",
	}
	if isDefault {
		closing = []string{"Die Gesamtsumme wird in den nächsten Tagen an Ihr hinterlegtes Konto überwiesen."}
	}
	m.AddRow(20, col.New(12))
	for _, sentence := range closing {
		m.AddRow(6, text.NewCol(12, sentence, props.Text{Size: 10}))
	}

	// order detail table
	month := time.Date(c.Year, time.Month(c.Month), 1, 0, 0, 0, 0, time.UTC)
	m.AddRow(20, col.New(12))
	m.AddRow(8,
		text.NewCol(3, "Bestell Nr.", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(3, "Datum", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(3, "Netto €", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(3, "Brutto €", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)
	m.AddRow(1, line.NewCol(12))

	err = r.svc.Orders(ctx, month, c.GroupName, func(order domain.OrderLine) error {
		m.AddRow(7,
			text.NewCol(3, order.OrderNumber, props.Text{Size: 9}),
			text.NewCol(3, order.OrderDate.Format("02.01.2006 15:04:05"), props.Text{Size: 9}),
			text.NewCol(3, money.FormatComma(order.AmountNet), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(3, money.FormatComma(order.AmountTotal), props.Text{Size: 9, Align: align.Right}),
		)
		return nil
	})
	if err != nil {
		return nil, err
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return doc.GetBytes(), nil
}

// Save renders the statement and writes it as
// <year>_<month>_<group>.pdf under the commission export directory.
func (r *StatementRenderer) Save(ctx context.Context, c *domain.Commission) error {
	data, err := r.Render(ctx, c)
	if err != nil {
		return err
	}

	name := fmt.Sprintf("%d_%d_%s.pdf", c.Year, c.Month, c.GroupName)
	if err := r.sink.Write(storage.DirCommissionExports, name, data); err != nil {
		return err
	}

	r.log.Info("commission statement written",
		zap.String("group", c.GroupName),
		zap.Int("year", c.Year),
		zap.Int("month", c.Month),
	)
	return nil
}
