package bmdexport

import (
	"testing"
	"time"

	"github.com/nadeos/bmd-exporter/internal/bmdexport/domain"
	"github.com/nadeos/bmd-exporter/internal/tax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rowValue(r *domain.Row, key string) any {
	v, _ := r.Value(key)
	return v
}

func testResolver() *tax.Resolver {
	return tax.NewResolver(tax.NewStaticHolder(tax.DefaultTable()))
}

func sampleRecord() domain.DocumentWithOrder {
	return domain.DocumentWithOrder{
		Document: domain.DocumentRecord{
			Type:      domain.DocumentTypeInvoice,
			TypeName:  "Rechnung",
			Number:    "10044",
			CreatedAt: time.Date(2025, 7, 3, 10, 0, 0, 0, time.UTC),
			UpdatedAt: time.Date(2025, 7, 3, 10, 0, 0, 0, time.UTC),
		},
		Order: domain.OrderRecord{
			OrderNumber:       "10021",
			OrderDate:         time.Date(2025, 7, 1, 8, 30, 0, 0, time.UTC),
			AmountNet:         100.00,
			AmountGross:       120.00,
			CustomerNumber:    "1234",
			CustomerFirstname: "Max",
			CustomerLastname:  "Muster",
			VatID:             "ATU 123 456 78",
			Billing: domain.Address{
				Firstname: "Max",
				Lastname:  "Muster",
				Street:    "Hauptstrasse 1",
				ZipCode:   "1010",
				City:      "Wien",
				Country:   domain.Country{ISO: "AT", IsEU: true},
			},
		},
	}
}

func TestFormatCustomerNumber(t *testing.T) {
	assert.Equal(t, "201234", FormatCustomerNumber("1234"))
	assert.Equal(t, "212345", FormatCustomerNumber("12345"))
	assert.Equal(t, "123", FormatCustomerNumber("123"))
	assert.Equal(t, "123456", FormatCustomerNumber("123456"))
}

func TestOrderRowExtractorPrivateCustomer(t *testing.T) {
	rec := sampleRecord()

	row, err := NewOrderRowExtractor(testResolver()).Extract(rec)
	require.NoError(t, err)

	assert.Equal(t, "201234", rowValue(row, "konto"))
	assert.Equal(t, "4000", rowValue(row, "gkonto"))
	assert.Equal(t, "10021", rowValue(row, "belegnr"))
	assert.Equal(t, "01.07.2025", rowValue(row, "belegdatum"))
	assert.Equal(t, "AR", rowValue(row, "buchsymbol"))
	assert.Equal(t, "1", rowValue(row, "buchcode"))
	assert.Equal(t, 20, rowValue(row, "prozent"))
	assert.Equal(t, "1", rowValue(row, "steuercode"))
	assert.Equal(t, 120.00, rowValue(row, "betrag"))
	assert.Equal(t, -20.00, rowValue(row, "steuer"))
	assert.Equal(t, "Max Muster", rowValue(row, "text"))
}

func TestOrderRowExtractorCompanyEU(t *testing.T) {
	rec := sampleRecord()
	rec.Order.AmountNet = 120.00 // gross == net marks a net order
	rec.Order.Billing.Company = "Muster GmbH"

	row, err := NewOrderRowExtractor(testResolver()).Extract(rec)
	require.NoError(t, err)

	assert.Equal(t, "4100", rowValue(row, "gkonto"))
	assert.Equal(t, 0, rowValue(row, "prozent"))
	assert.Equal(t, "7", rowValue(row, "steuercode"))
	assert.Equal(t, 0.0, rowValue(row, "steuer"))
	assert.Equal(t, "Muster GmbH, Max Muster", rowValue(row, "text"))
}

func TestOrderRowExtractorCompanyNonEU(t *testing.T) {
	rec := sampleRecord()
	rec.Order.AmountNet = 120.00
	rec.Order.Billing.Country = domain.Country{ISO: "CH", IsEU: false}

	row, err := NewOrderRowExtractor(testResolver()).Extract(rec)
	require.NoError(t, err)

	assert.Equal(t, "4050", rowValue(row, "gkonto"))
	assert.Equal(t, 0, rowValue(row, "prozent"))
	assert.Equal(t, "5", rowValue(row, "steuercode"))
}

func TestOrderRowExtractorPrefersShippingCountry(t *testing.T) {
	rec := sampleRecord()
	rec.Order.AmountNet = 100.00
	rec.Order.AmountGross = 119.00
	rec.Order.Shipping = &domain.Address{
		Country: domain.Country{ISO: "DE", IsEU: true},
	}

	row, err := NewOrderRowExtractor(testResolver()).Extract(rec)
	require.NoError(t, err)

	assert.Equal(t, "4001", rowValue(row, "gkonto"))
	assert.Equal(t, 19, rowValue(row, "prozent"))
	assert.Equal(t, -19.00, rowValue(row, "steuer"))
}

func TestOrderRowExtractorReferencedDocument(t *testing.T) {
	rec := sampleRecord()
	rec.Document.Type = domain.DocumentTypeCreditNote
	rec.Document.Referenced = &domain.DocumentRef{
		Type:      domain.DocumentTypeInvoice,
		TypeName:  "Rechnung",
		Number:    "10001",
		CreatedAt: time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC),
	}

	row, err := NewOrderRowExtractor(testResolver()).Extract(rec)
	require.NoError(t, err)

	assert.Equal(t, "invoice", rowValue(row, "referencedDocument.type"))
	assert.Equal(t, "10001", rowValue(row, "referencedDocument.number"))
	assert.Equal(t, "12.06.2025", rowValue(row, "referencedDocument.date"))
}

func TestOrderRowExtractorRejectsUnknownType(t *testing.T) {
	rec := sampleRecord()
	rec.Document.Type = "delivery_note"

	_, err := NewOrderRowExtractor(testResolver()).Extract(rec)
	assert.ErrorIs(t, err, domain.ErrUnknownDocumentType)
}

func TestCustomerRowExtractor(t *testing.T) {
	rec := sampleRecord()

	row, err := NewCustomerRowExtractor().Extract(rec)
	require.NoError(t, err)

	assert.Equal(t, "201234", rowValue(row, "Kto-Nr"))
	assert.Equal(t, "Muster", rowValue(row, "Nachname"))
	assert.Equal(t, "Max Muster", rowValue(row, "Kurzname"))
	assert.Equal(t, "Max", rowValue(row, "Vorname"))
	assert.Equal(t, "Hauptstrasse 1", rowValue(row, "Strasse"))
	assert.Equal(t, "'1010", rowValue(row, "PLZ"))
	assert.Equal(t, "AT", rowValue(row, "Land"))
	assert.Equal(t, "ATU12345678", rowValue(row, "UID-Nummer"))
}
