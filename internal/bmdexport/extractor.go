// Package bmdexport turns order/document records into the CSV booking and
// customer files the BMD accounting import consumes.
package bmdexport

import (
	"fmt"
	"strings"

	"github.com/nadeos/bmd-exporter/internal/bmdexport/domain"
	"github.com/nadeos/bmd-exporter/internal/tax"
)

const dateLayout = "02.01.2006"

// Extractor turns one document+order pair into a flat row. Implementations
// reject documents outside the known taxonomy.
type Extractor interface {
	Extract(rec domain.DocumentWithOrder) (*domain.Row, error)
}

// documentKeys are the document/order linkage keys. They are stripped before
// deduplication and before writing the plain export files.
var documentKeys = []string{
	"document.type",
	"document.name",
	"document.number",
	"document.date",
	"document.dateUpdated",
	"order.number",
	"order.date",
	"referencedDocument.type",
	"referencedDocument.name",
	"referencedDocument.number",
	"referencedDocument.date",
}

// customerNumberPrefixes maps the raw customer number length to the BMD
// account prefix.
var customerNumberPrefixes = map[int]string{
	4: "20",
	5: "2",
}

// FormatCustomerNumber prefixes the raw customer number by its length:
// 4 digits get "20", 5 digits get "2", anything else stays untouched.
func FormatCustomerNumber(raw string) string {
	return customerNumberPrefixes[len(raw)] + raw
}

// displayName builds "firstname lastname", prefixed with "company, " when
// the billing address carries a company.
func displayName(billing domain.Address) string {
	name := strings.TrimSpace(billing.Firstname + " " + billing.Lastname)
	if billing.Company != "" {
		name = strings.TrimSpace(billing.Company + ", " + name)
	}
	return name
}

func validateDocumentType(t domain.DocumentType) error {
	if !t.Recognized() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownDocumentType, t)
	}
	return nil
}

// OrderRowExtractor produces the full booking row ("Buchungszeile")
// including tax account fields and document linkage.
type OrderRowExtractor struct {
	resolver *tax.Resolver
}

func NewOrderRowExtractor(resolver *tax.Resolver) *OrderRowExtractor {
	return &OrderRowExtractor{resolver: resolver}
}

func (e *OrderRowExtractor) Extract(rec domain.DocumentWithOrder) (*domain.Row, error) {
	if err := validateDocumentType(rec.Document.Type); err != nil {
		return nil, err
	}

	order := rec.Order
	doc := rec.Document

	country := order.TaxCountry()
	isCompany := tax.IsCompany(order.AmountGross, order.AmountNet)
	account := e.resolver.Resolve(country.ISO, country.IsEU, isCompany)
	taxAmount := tax.TaxAmount(order.AmountGross, order.AmountNet)

	row := domain.NewRow()
	row.Set("satzart", "")
	row.Set("konto", FormatCustomerNumber(order.CustomerNumber))
	row.Set("gkonto", account.Counterpart)
	row.Set("belegnr", order.OrderNumber)
	row.Set("belegdatum", order.OrderDate.Format(dateLayout))
	row.Set("buchsymbol", "AR")
	row.Set("buchcode", "1")
	row.Set("prozent", account.TaxPercent)
	row.Set("steuercode", account.TaxCode)
	row.Set("betrag", order.AmountGross)
	row.Set("steuer", taxAmount)
	row.Set("text", displayName(order.Billing))
	row.Set("kost", "")
	row.Set("verbuchstatus", "")

	row.Set("order.number", order.OrderNumber)
	row.Set("order.date", order.OrderDate.Format(dateLayout))
	row.Set("document.type", string(doc.Type))
	row.Set("document.name", doc.TypeName)
	row.Set("document.number", doc.Number)
	row.Set("document.date", doc.CreatedAt.Format(dateLayout))
	row.Set("document.dateUpdated", doc.UpdatedAt.Format(dateLayout))

	if ref := doc.Referenced; ref != nil {
		row.Set("referencedDocument.type", string(ref.Type))
		row.Set("referencedDocument.name", ref.TypeName)
		row.Set("referencedDocument.number", ref.Number)
		row.Set("referencedDocument.date", ref.CreatedAt.Format(dateLayout))
	} else {
		row.Set("referencedDocument.type", "")
		row.Set("referencedDocument.name", "")
		row.Set("referencedDocument.number", "")
		row.Set("referencedDocument.date", "")
	}

	return row, nil
}

// CustomerRowExtractor produces the customer master-data row: account
// number, names and billing address, no tax or document fields.
type CustomerRowExtractor struct{}

func NewCustomerRowExtractor() *CustomerRowExtractor {
	return &CustomerRowExtractor{}
}

func (e *CustomerRowExtractor) Extract(rec domain.DocumentWithOrder) (*domain.Row, error) {
	if err := validateDocumentType(rec.Document.Type); err != nil {
		return nil, err
	}

	order := rec.Order

	row := domain.NewRow()
	row.Set("Kto-Nr", FormatCustomerNumber(order.CustomerNumber))
	row.Set("Nachname", order.CustomerLastname)
	row.Set("Kurzname", displayName(order.Billing))
	row.Set("Vorname", order.CustomerFirstname)
	row.Set("Strasse", order.Billing.Street)
	row.Set("PLZ", "'"+order.Billing.ZipCode)
	row.Set("Land", order.Billing.Country.ISO)
	row.Set("UID-Nummer", strings.ReplaceAll(order.VatID, " ", ""))

	return row, nil
}
