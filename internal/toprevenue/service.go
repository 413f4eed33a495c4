// Package toprevenue ranks customers by revenue over a date range and
// renders the result as JSON-able items, HTML, or PDF.
package toprevenue

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/nadeos/bmd-exporter/pkg/money"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	// DefaultLimit applies when the caller passes no limit.
	DefaultLimit = 50
	// MaxLimit caps the ranking size.
	MaxLimit = 100
)

// Item is one ranked customer. Derived per report, never persisted.
type Item struct {
	Rank           int     `json:"rank"`
	Revenue        float64 `json:"revenue"`
	Company        string  `json:"company"`
	ContactPerson  string  `json:"contactPerson"`
	PhoneNumber    string  `json:"phoneNumber"`
	Email          string  `json:"email"`
	CustomerID     int64   `json:"customerId"`
	CustomerNumber string  `json:"customerNumber"`
}

// FormattedRevenue renders the revenue as "1.234,56 €".
func (i Item) FormattedRevenue() string {
	return money.FormatEuro(i.Revenue)
}

// Service computes the revenue ranking.
type Service struct {
	log *zap.Logger
	db  *gorm.DB
}

func NewService(log *zap.Logger, db *gorm.DB) *Service {
	return &Service{log: log.Named("toprevenue"), db: db}
}

type revenueRow struct {
	CustomerID   int64   `gorm:"column:customer_id"`
	TotalRevenue float64 `gorm:"column:total_revenue"`
}

// Orders without a transaction row count as paid; open and failed states
// are excluded from revenue. Qualification is per order, so several
// transaction rows on one order never multiply its amount.
var paidEquivalentStates = []string{"paid", "paid_partially", "authorized"}

const revenueQuery = `
WITH newest_orders AS (
    SELECT
        MAX(o.revision)  AS revision,
        o.order_number   AS order_number
    FROM orders o
    WHERE o.order_date >= ? AND o.order_date <= ?
    GROUP BY o.order_number
)
SELECT
    oc.customer_id                 AS customer_id,
    ROUND(SUM(o.amount_total), 2)  AS total_revenue
FROM newest_orders n
    INNER JOIN orders             o  ON o.order_number = n.order_number AND o.revision = n.revision
    INNER JOIN order_customers    oc ON oc.order_id = o.id
    LEFT JOIN customers           c  ON c.id  = oc.customer_id
    LEFT JOIN customer_groups     cg ON cg.id = c.customer_group_id
WHERE
    (NOT EXISTS (SELECT 1 FROM order_transactions tr WHERE tr.order_id = o.id)
        OR EXISTS (SELECT 1 FROM order_transactions tr WHERE tr.order_id = o.id AND tr.state IN ?))
    %s
GROUP BY
    oc.customer_id
ORDER BY
    total_revenue DESC
LIMIT ?`

const revenueGroupFilter = `AND LOWER(SUBSTR(cg.name, 1, 2)) = LOWER(?)`

type contactRow struct {
	CustomerNumber sql.NullString `gorm:"column:customer_number"`
	Email          sql.NullString `gorm:"column:email"`
	FirstName      sql.NullString `gorm:"column:first_name"`
	LastName       sql.NullString `gorm:"column:last_name"`
	Company        sql.NullString `gorm:"column:company"`
	PhoneNumber    sql.NullString `gorm:"column:phone_number"`
}

const contactQuery = `
SELECT
    c.customer_number,
    c.email,
    c.first_name,
    c.last_name,
    c.company,
    ca.phone_number
FROM customers c
    LEFT JOIN customer_addresses ca ON ca.id = c.default_billing_address_id
WHERE c.id = ?`

// Rank aggregates paid revenue per customer in [from, to], orders the
// result descending and resolves contact details. Customers whose contact
// lookup fails or whose text cannot be sanitized are skipped; ranks stay
// contiguous over the surviving items.
func (s *Service) Rank(ctx context.Context, from, to time.Time, limit int, groupPrefix string) ([]Item, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	query := revenueQuery
	args := []any{from, to, paidEquivalentStates}
	if groupPrefix != "" {
		query = strings.Replace(query, "%s", revenueGroupFilter, 1)
		args = append(args, groupPrefix)
	} else {
		query = strings.Replace(query, "%s", "", 1)
	}
	args = append(args, limit)

	var rows []revenueRow
	if err := s.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(rows))
	rank := 1
	for _, row := range rows {
		item, err := s.buildItem(ctx, row)
		if err != nil {
			s.log.Warn("customer skipped in revenue ranking",
				zap.Int64("customer_id", row.CustomerID),
				zap.Error(err),
			)
			continue
		}

		item.Rank = rank
		rank++
		items = append(items, item)
	}

	return items, nil
}

func (s *Service) buildItem(ctx context.Context, row revenueRow) (Item, error) {
	var contact contactRow
	result := s.db.WithContext(ctx).Raw(contactQuery, row.CustomerID).Scan(&contact)
	if result.Error != nil {
		return Item{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Item{}, gorm.ErrRecordNotFound
	}

	fields := map[string]string{
		"customer_number": contact.CustomerNumber.String,
		"email":           contact.Email.String,
		"first_name":      contact.FirstName.String,
		"last_name":       contact.LastName.String,
		"company":         contact.Company.String,
		"phone_number":    contact.PhoneNumber.String,
	}
	for key, value := range fields {
		clean, err := Sanitize(value)
		if err != nil {
			return Item{}, err
		}
		fields[key] = clean
	}

	contactPerson := strings.TrimSpace(fields["first_name"] + " " + fields["last_name"])
	company := fields["company"]
	if company == "" {
		company = contactPerson
	}

	return Item{
		Revenue:        row.TotalRevenue,
		Company:        company,
		ContactPerson:  contactPerson,
		PhoneNumber:    fields["phone_number"],
		Email:          fields["email"],
		CustomerID:     row.CustomerID,
		CustomerNumber: fields["customer_number"],
	}, nil
}

// TotalRevenue sums the ranked items.
func TotalRevenue(items []Item) float64 {
	var total float64
	for _, item := range items {
		total += item.Revenue
	}
	return money.Round2(total)
}
