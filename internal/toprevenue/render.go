package toprevenue

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/nadeos/bmd-exporter/pkg/money"
)

var reportTemplate = template.Must(template.New("toprevenue").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Top Revenue Report</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; }
        table { width: 100%; border-collapse: collapse; margin-top: 20px; }
        th, td { border: 1px solid #ddd; padding: 8px; text-align: left; }
        th { background-color: #f2f2f2; }
        .revenue { text-align: right; }
    </style>
</head>
<body>
    <div class="header">
        <h1>Top Revenue Report</h1>
        <p>Period: {{.From}} - {{.To}}</p>
        <p>Generated: {{.Generated}}</p>
    </div>
    <table>
        <thead>
            <tr>
                <th>Rank</th>
                <th>Revenue</th>
                <th>Company</th>
                <th>Contact Person</th>
                <th>Phone Number</th>
                <th>Email</th>
            </tr>
        </thead>
        <tbody>
        {{- range .Items}}
            <tr>
                <td>{{.Rank}}</td>
                <td class="revenue">{{.FormattedRevenue}}</td>
                <td>{{.Company}}</td>
                <td>{{.ContactPerson}}</td>
                <td>{{.PhoneNumber}}</td>
                <td>{{.Email}}</td>
            </tr>
        {{- end}}
        </tbody>
    </table>
    <div style="margin-top: 20px;">
        <strong>Total Revenue: {{.Total}}</strong>
    </div>
</body>
</html>
`))

// RenderHTML produces the self-contained report page.
func RenderHTML(items []Item, from, to time.Time) (string, error) {
	var buf bytes.Buffer
	err := reportTemplate.Execute(&buf, map[string]any{
		"Items":     items,
		"From":      from.Format("02.01.2006"),
		"To":        to.Format("02.01.2006"),
		"Generated": time.Now().UTC().Format("02.01.2006 15:04:05"),
		"Total":     money.FormatEuro(TotalRevenue(items)),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderPDF lays the ranking out as a one-table PDF.
func RenderPDF(items []Item, from, to time.Time) ([]byte, error) {
	cfg := config.NewBuilder().
		WithLeftMargin(15).
		Build()

	m := maroto.New(cfg)

	m.AddRow(12, text.NewCol(12, "Top Revenue Report", props.Text{Size: 16, Style: fontstyle.Bold}))
	m.AddRow(6, text.NewCol(12, fmt.Sprintf("Period: %s - %s", from.Format("02.01.2006"), to.Format("02.01.2006")), props.Text{Size: 9}))
	m.AddRow(10, col.New(12))

	m.AddRow(8,
		text.NewCol(1, "Rank", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Revenue", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(3, "Company", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Contact", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Phone", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Email", props.Text{Style: fontstyle.Bold, Size: 9}),
	)
	m.AddRow(1, line.NewCol(12))

	for _, item := range items {
		m.AddRow(7,
			text.NewCol(1, fmt.Sprintf("%d", item.Rank), props.Text{Size: 8}),
			text.NewCol(2, item.FormattedRevenue(), props.Text{Size: 8, Align: align.Right}),
			text.NewCol(3, item.Company, props.Text{Size: 8}),
			text.NewCol(2, item.ContactPerson, props.Text{Size: 8}),
			text.NewCol(2, item.PhoneNumber, props.Text{Size: 8}),
			text.NewCol(2, item.Email, props.Text{Size: 8}),
		)
	}

	m.AddRow(10, col.New(12))
	m.AddRow(8,
		col.New(7),
		text.NewCol(2, "Total", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(3, money.FormatEuro(TotalRevenue(items)), props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return doc.GetBytes(), nil
}
