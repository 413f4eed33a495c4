// Package domain contains the order/document records fed into the BMD
// export extractors.
package domain

import "time"

// DocumentType is the accounting document taxonomy.
type DocumentType string

const (
	DocumentTypeInvoice    DocumentType = "invoice"
	DocumentTypeCreditNote DocumentType = "credit_note"
	// DocumentTypeCancellation is the code-level alias; the storage layer
	// knows this type as "storno".
	DocumentTypeCancellation DocumentType = "cancellation_invoice"
	DocumentTypeStorno       DocumentType = "storno"
)

// StorageName translates the code-level alias to the storage literal.
func (t DocumentType) StorageName() DocumentType {
	if t == DocumentTypeCancellation {
		return DocumentTypeStorno
	}
	return t
}

// IsCancellation reports whether amounts of this document count negative.
func (t DocumentType) IsCancellation() bool {
	switch t {
	case DocumentTypeCreditNote, DocumentTypeCancellation, DocumentTypeStorno:
		return true
	}
	return false
}

// Recognized reports whether the type belongs to the known taxonomy.
func (t DocumentType) Recognized() bool {
	switch t {
	case DocumentTypeInvoice, DocumentTypeCreditNote, DocumentTypeCancellation, DocumentTypeStorno:
		return true
	}
	return false
}

// ValidDocumentTypes is the default type set for a full export.
func ValidDocumentTypes() []DocumentType {
	return []DocumentType{
		DocumentTypeInvoice,
		DocumentTypeCreditNote,
		DocumentTypeCancellation,
	}
}

// Country is a shipping/billing country snapshot.
type Country struct {
	ISO  string
	IsEU bool
}

// Address is an order address snapshot.
type Address struct {
	Company   string
	Firstname string
	Lastname  string
	Street    string
	ZipCode   string
	City      string
	Country   Country
}

// OrderRecord is an immutable order snapshot per fetch.
type OrderRecord struct {
	OrderNumber string
	OrderDate   time.Time
	AmountNet   float64
	AmountGross float64

	CustomerNumber    string
	CustomerFirstname string
	CustomerLastname  string
	CustomerCompany   string
	VatID             string

	Billing Address
	// Shipping is nil when the order has no delivery.
	Shipping *Address
}

// TaxCountry returns the country relevant for tax resolution: the shipping
// country when a delivery exists, the billing country otherwise.
func (o OrderRecord) TaxCountry() Country {
	if o.Shipping != nil {
		return o.Shipping.Country
	}
	return o.Billing.Country
}

// DocumentRef is the metadata of a referenced document (e.g. the original
// invoice of a credit note).
type DocumentRef struct {
	Type      DocumentType
	TypeName  string
	Number    string
	CreatedAt time.Time
}

// DocumentRecord is a generated accounting document. It always belongs to
// exactly one order.
type DocumentRecord struct {
	Type      DocumentType
	TypeName  string
	Number    string
	CreatedAt time.Time
	UpdatedAt time.Time

	Referenced *DocumentRef
}

// DocumentWithOrder pairs a document with its order snapshot, the unit the
// extractors consume.
type DocumentWithOrder struct {
	Document DocumentRecord
	Order    OrderRecord
}
