package bmdexport

import (
	"context"
	"database/sql"
	"time"

	"github.com/nadeos/bmd-exporter/internal/bmdexport/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

type documentRow struct {
	DocType      string       `gorm:"column:doc_type"`
	DocName      string       `gorm:"column:doc_name"`
	DocNumber    string       `gorm:"column:doc_number"`
	DocCreatedAt time.Time    `gorm:"column:doc_created_at"`
	DocUpdatedAt sql.NullTime `gorm:"column:doc_updated_at"`

	RefType      sql.NullString `gorm:"column:ref_type"`
	RefName      sql.NullString `gorm:"column:ref_name"`
	RefNumber    sql.NullString `gorm:"column:ref_number"`
	RefCreatedAt sql.NullTime   `gorm:"column:ref_created_at"`

	OrderNumber string    `gorm:"column:order_number"`
	OrderDate   time.Time `gorm:"column:order_date"`
	AmountNet   float64   `gorm:"column:amount_net"`
	AmountTotal float64   `gorm:"column:amount_total"`

	CustomerNumber    string         `gorm:"column:customer_number"`
	CustomerFirstname string         `gorm:"column:customer_firstname"`
	CustomerLastname  string         `gorm:"column:customer_lastname"`
	CustomerCompany   sql.NullString `gorm:"column:customer_company"`
	VatID             sql.NullString `gorm:"column:vat_id"`

	BillingCompany   sql.NullString `gorm:"column:billing_company"`
	BillingFirstname string         `gorm:"column:billing_firstname"`
	BillingLastname  string         `gorm:"column:billing_lastname"`
	BillingStreet    string         `gorm:"column:billing_street"`
	BillingZip       string         `gorm:"column:billing_zip"`
	BillingCity      string         `gorm:"column:billing_city"`
	BillingCountry   string         `gorm:"column:billing_country"`
	BillingIsEU      bool           `gorm:"column:billing_is_eu"`

	ShippingCompany   sql.NullString `gorm:"column:shipping_company"`
	ShippingFirstname sql.NullString `gorm:"column:shipping_firstname"`
	ShippingLastname  sql.NullString `gorm:"column:shipping_lastname"`
	ShippingStreet    sql.NullString `gorm:"column:shipping_street"`
	ShippingZip       sql.NullString `gorm:"column:shipping_zip"`
	ShippingCity      sql.NullString `gorm:"column:shipping_city"`
	ShippingCountry   sql.NullString `gorm:"column:shipping_country"`
	ShippingIsEU      sql.NullBool   `gorm:"column:shipping_is_eu"`
}

const fetchDocumentsQuery = `
SELECT
    dt.technical_name   AS doc_type,
    dt.name             AS doc_name,
    d.document_number   AS doc_number,
    d.created_at        AS doc_created_at,
    d.updated_at        AS doc_updated_at,

    rdt.technical_name  AS ref_type,
    rdt.name            AS ref_name,
    rd.document_number  AS ref_number,
    rd.created_at       AS ref_created_at,

    o.order_number,
    o.order_date,
    o.amount_net,
    o.amount_total,

    oc.customer_number,
    oc.firstname        AS customer_firstname,
    oc.lastname         AS customer_lastname,
    oc.company          AS customer_company,
    oc.vat_id,

    ba.company          AS billing_company,
    ba.firstname        AS billing_firstname,
    ba.lastname         AS billing_lastname,
    ba.street           AS billing_street,
    ba.zip_code         AS billing_zip,
    ba.city             AS billing_city,
    bc.iso              AS billing_country,
    bc.is_eu            AS billing_is_eu,

    sa.company          AS shipping_company,
    sa.firstname        AS shipping_firstname,
    sa.lastname         AS shipping_lastname,
    sa.street           AS shipping_street,
    sa.zip_code         AS shipping_zip,
    sa.city             AS shipping_city,
    sc.iso              AS shipping_country,
    sc.is_eu            AS shipping_is_eu
FROM documents d
    INNER JOIN document_types   dt  ON dt.id  = d.document_type_id
    INNER JOIN orders           o   ON o.id   = d.order_id
    INNER JOIN order_customers  oc  ON oc.order_id = o.id
    INNER JOIN order_addresses  ba  ON ba.id  = o.billing_address_id
    INNER JOIN countries        bc  ON bc.iso = ba.country_iso
    LEFT JOIN order_deliveries  del ON del.order_id = o.id
    LEFT JOIN order_addresses   sa  ON sa.id  = del.shipping_address_id
    LEFT JOIN countries         sc  ON sc.iso = sa.country_iso
    LEFT JOIN documents         rd  ON rd.id  = d.referenced_document_id
    LEFT JOIN document_types    rdt ON rdt.id = rd.document_type_id
WHERE
    dt.technical_name IN ?
    AND d.created_at >= ?
    AND d.created_at <= ?
ORDER BY
    d.created_at, d.document_number
LIMIT ? OFFSET ?`

func (r *repository) FetchDocuments(ctx context.Context, from, to time.Time, types []domain.DocumentType, offset, limit int) ([]domain.DocumentWithOrder, error) {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}

	var rows []documentRow
	err := r.db.WithContext(ctx).
		Raw(fetchDocumentsQuery, names, from, to, limit, offset).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.DocumentWithOrder, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapDocumentRow(row))
	}
	return out, nil
}

func mapDocumentRow(row documentRow) domain.DocumentWithOrder {
	doc := domain.DocumentRecord{
		Type:      domain.DocumentType(row.DocType),
		TypeName:  row.DocName,
		Number:    row.DocNumber,
		CreatedAt: row.DocCreatedAt,
		UpdatedAt: row.DocCreatedAt,
	}
	if row.DocUpdatedAt.Valid {
		doc.UpdatedAt = row.DocUpdatedAt.Time
	}
	if row.RefNumber.Valid {
		doc.Referenced = &domain.DocumentRef{
			Type:      domain.DocumentType(row.RefType.String),
			TypeName:  row.RefName.String,
			Number:    row.RefNumber.String,
			CreatedAt: row.RefCreatedAt.Time,
		}
	}

	order := domain.OrderRecord{
		OrderNumber:       row.OrderNumber,
		OrderDate:         row.OrderDate,
		AmountNet:         row.AmountNet,
		AmountGross:       row.AmountTotal,
		CustomerNumber:    row.CustomerNumber,
		CustomerFirstname: row.CustomerFirstname,
		CustomerLastname:  row.CustomerLastname,
		CustomerCompany:   row.CustomerCompany.String,
		VatID:             row.VatID.String,
		Billing: domain.Address{
			Company:   row.BillingCompany.String,
			Firstname: row.BillingFirstname,
			Lastname:  row.BillingLastname,
			Street:    row.BillingStreet,
			ZipCode:   row.BillingZip,
			City:      row.BillingCity,
			Country: domain.Country{
				ISO:  row.BillingCountry,
				IsEU: row.BillingIsEU,
			},
		},
	}
	if row.ShippingCountry.Valid {
		order.Shipping = &domain.Address{
			Company:   row.ShippingCompany.String,
			Firstname: row.ShippingFirstname.String,
			Lastname:  row.ShippingLastname.String,
			Street:    row.ShippingStreet.String,
			ZipCode:   row.ShippingZip.String,
			City:      row.ShippingCity.String,
			Country: domain.Country{
				ISO:  row.ShippingCountry.String,
				IsEU: row.ShippingIsEU.Bool,
			},
		}
	}

	return domain.DocumentWithOrder{Document: doc, Order: order}
}
