// Package shrink reports tester and exchange product movements. Tester
// ("TE") and exchange ("AU") articles leave stock without revenue, the
// report sums them per product for a month.
package shrink

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Row is one product line of the shrink report.
type Row struct {
	Year          int     `json:"year"`
	Month         int     `json:"month"`
	ProductNumber string  `json:"productNumber" gorm:"column:product_number"`
	Label         string  `json:"label" gorm:"column:label"`
	Amount        float64 `json:"amount" gorm:"column:amount"`
}

// ProductRow is one line of the unfiltered per-product listing.
type ProductRow struct {
	Year          int     `json:"year"`
	Month         int     `json:"month"`
	OrderNumbers  string  `json:"orderNumbers" gorm:"column:order_numbers"`
	ProductNumber string  `json:"productNumber" gorm:"column:product_number"`
	ProductStem   string  `json:"productStem" gorm:"column:product_stem"`
	Label         string  `json:"label" gorm:"column:label"`
	Amount        float64 `json:"amount" gorm:"column:amount"`
	IsRelevant    bool    `json:"isRelevant" gorm:"column:is_relevant"`
}

// Service runs the shrink queries.
type Service struct {
	log *zap.Logger
	db  *gorm.DB
}

func NewService(log *zap.Logger, db *gorm.DB) *Service {
	return &Service{log: log.Named("shrink"), db: db}
}

// The product number of a tester/exchange article is the regular article
// number plus a dash and a two-letter marker ("-TE", "-AU"); the stem
// strips those three characters. Labels drop the marker words as well.
const filteredLineItems = `
WITH newest_orders AS (
    SELECT
        MAX(o.revision)  AS revision,
        o.order_number   AS order_number
    FROM orders o
    WHERE o.order_date >= ? AND o.order_date <= ?
    GROUP BY o.order_number
),
filtered AS (
    SELECT
        o.order_number                                    AS order_number,
        item.payload ->> '$.productNumber'                AS product_number,
        SUBSTR(
            item.payload ->> '$.productNumber',
            1,
            LENGTH(item.payload ->> '$.productNumber') - 3
        )                                                 AS product_stem,
        REPLACE(
            REPLACE(
                REPLACE(item.label, 'Tester', ''),
                'Austausch',
                ''
            ),
            '-',
            ''
        )                                                 AS label,
        item.quantity                                     AS amount
    FROM newest_orders n
        INNER JOIN orders           o    ON o.order_number = n.order_number AND o.revision = n.revision
        INNER JOIN order_line_items item ON item.order_id = o.id
)
`

const listQuery = filteredLineItems + `
SELECT
    product_stem  AS product_number,
    label         AS label,
    SUM(amount)   AS amount
FROM filtered
WHERE SUBSTR(product_number, -2) IN ('TE', 'AU')
GROUP BY product_stem
ORDER BY SUM(amount)`

const listByProductQuery = filteredLineItems + `
SELECT
    GROUP_CONCAT(DISTINCT order_number)         AS order_numbers,
    product_number                              AS product_number,
    product_stem                                AS product_stem,
    label                                       AS label,
    SUM(amount)                                 AS amount,
    SUBSTR(product_number, -2) IN ('TE', 'AU')  AS is_relevant
FROM filtered
GROUP BY product_number, SUBSTR(product_number, -2) IN ('TE', 'AU')
ORDER BY SUM(amount) DESC`

// List sums the month's tester/exchange line items per product stem,
// smallest movements first.
func (s *Service) List(ctx context.Context, month time.Time) ([]Row, error) {
	from, to := monthWindow(month)

	var rows []Row
	if err := s.db.WithContext(ctx).Raw(listQuery, from, to).Scan(&rows).Error; err != nil {
		return nil, err
	}

	for i := range rows {
		rows[i].Year = month.Year()
		rows[i].Month = int(month.Month())
	}
	return rows, nil
}

// ListByProduct lists every product of the month with its movement and
// relevance flag, biggest movements first.
func (s *Service) ListByProduct(ctx context.Context, month time.Time) ([]ProductRow, error) {
	from, to := monthWindow(month)

	var rows []ProductRow
	if err := s.db.WithContext(ctx).Raw(listByProductQuery, from, to).Scan(&rows).Error; err != nil {
		return nil, err
	}

	for i := range rows {
		rows[i].Year = month.Year()
		rows[i].Month = int(month.Month())
	}
	return rows, nil
}

func monthWindow(t time.Time) (time.Time, time.Time) {
	from := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0).Add(-time.Second)
}
