// Package commission computes the monthly per-group provision aggregates
// and renders them as PDF statements and notification mails.
package commission

import (
	"context"
	"strings"
	"time"

	"github.com/nadeos/bmd-exporter/internal/commission/domain"
	"github.com/nadeos/bmd-exporter/pkg/money"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OrderPageSize is the fetch batch for the statement's order detail table.
const OrderPageSize = 5000

// Service aggregates orders into commissions per customer group.
type Service struct {
	log *zap.Logger
	db  *gorm.DB
}

func NewService(log *zap.Logger, db *gorm.DB) *Service {
	return &Service{log: log.Named("commission"), db: db}
}

type commissionRow struct {
	OrderNumber   string  `gorm:"column:order_number"`
	SalesNet      float64 `gorm:"column:sales_net"`
	Provision     float64 `gorm:"column:provision"`
	ProvisionType string  `gorm:"column:provision_type"`
	GroupName     string  `gorm:"column:group_name"`
	Salutation    string  `gorm:"column:salutation"`
	Email         string  `gorm:"column:email"`
	CityZip       string  `gorm:"column:city_zip"`
	Firstname     string  `gorm:"column:firstname"`
	Lastname      string  `gorm:"column:lastname"`
	Street        string  `gorm:"column:street"`
}

// Orders are deduplicated to their newest revision before summing, so a
// corrected order counts once with its latest amounts.
const listQuery = `
WITH newest_orders AS (
    SELECT
        MAX(o.revision)  AS revision,
        o.order_number   AS order_number
    FROM orders o
    WHERE o.order_date >= ? AND o.order_date <= ?
    GROUP BY o.order_number
)
SELECT
    MAX(o.order_number)          AS order_number,
    ROUND(SUM(o.amount_net), 2)  AS sales_net,

    g.provision                  AS provision,
    g.provision_type             AS provision_type,
    SUBSTR(cg.name, 1, 2)        AS group_name,
    g.salutation                 AS salutation,
    g.email                      AS email,
    g.city_zip                   AS city_zip,
    g.firstname                  AS firstname,
    g.lastname                   AS lastname,
    g.street                     AS street
FROM newest_orders n
    INNER JOIN orders            o  ON o.order_number = n.order_number AND o.revision = n.revision
    INNER JOIN order_customers   oc ON oc.order_id = o.id
    INNER JOIN customers         c  ON c.id  = oc.customer_id
    INNER JOIN customer_groups   cg ON cg.id = c.customer_group_id
    INNER JOIN commission_groups g  ON g.customer_group_id = cg.id
WHERE
    g.provision > 0
    %s
GROUP BY
    SUBSTR(cg.name, 1, 2), g.provision_type, g.provision,
    g.salutation, g.email, g.city_zip, g.firstname, g.lastname, g.street
ORDER BY
    SUBSTR(cg.name, 1, 2), g.provision_type`

const listGroupFilter = `AND LOWER(SUBSTR(cg.name, 1, 2)) = LOWER(?)`

// List aggregates the month's eligible groups into commissions, one per
// group. Rows arrive sorted by group name; a group change starts a new
// Commission and every row contributes one item to the running one.
func (s *Service) List(ctx context.Context, month time.Time, groupPrefix string) ([]*domain.Commission, error) {
	from, to := monthWindow(month)

	query := listQuery
	args := []any{from, to}
	if groupPrefix != "" {
		query = strings.Replace(query, "%s", listGroupFilter, 1)
		args = append(args, groupPrefix)
	} else {
		query = strings.Replace(query, "%s", "", 1)
	}

	var rows []commissionRow
	if err := s.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}

	var (
		out       []*domain.Commission
		current   *domain.Commission
		lastGroup string
	)
	for _, row := range rows {
		if current == nil || row.GroupName != lastGroup {
			current = domain.NewCommission(
				row.OrderNumber,
				from,
				row.SalesNet,
				row.Provision,
				provisionType(row.ProvisionType),
				row.GroupName,
				domain.Contact{
					Salutation: trimQuotes(row.Salutation),
					Firstname:  trimQuotes(row.Firstname),
					Lastname:   trimQuotes(row.Lastname),
					Email:      trimQuotes(row.Email),
					Street:     trimQuotes(row.Street),
					CityZip:    trimQuotes(row.CityZip),
				},
			)
			out = append(out, current)
			lastGroup = row.GroupName
		}

		commissionNet := money.Round2(row.SalesNet * row.Provision / 100)
		current.AddItem(domain.Item{
			SalesNet:      row.SalesNet,
			CommissionNet: commissionNet,
			Period:        from,
		})
	}

	s.log.Info("commissions aggregated",
		zap.String("month", month.Format("2006-01")),
		zap.Int("groups", len(out)),
	)
	return out, nil
}

const ordersQuery = `
WITH newest_orders AS (
    SELECT
        MAX(o.revision)  AS revision,
        o.order_number   AS order_number
    FROM orders o
    WHERE o.order_date >= ? AND o.order_date <= ?
    GROUP BY o.order_number
)
SELECT
    o.order_number  AS order_number,
    o.order_date    AS order_date,
    o.amount_net    AS amount_net,
    o.amount_total  AS amount_total
FROM newest_orders n
    INNER JOIN orders            o  ON o.order_number = n.order_number AND o.revision = n.revision
    INNER JOIN order_customers   oc ON oc.order_id = o.id
    INNER JOIN customers         c  ON c.id  = oc.customer_id
    INNER JOIN customer_groups   cg ON cg.id = c.customer_group_id
WHERE
    LOWER(SUBSTR(cg.name, 1, 2)) = LOWER(?)
ORDER BY
    o.order_date, o.order_number
LIMIT ? OFFSET ?`

// Orders streams the month's orders of one group in pages, for the
// statement's detail table.
func (s *Service) Orders(ctx context.Context, month time.Time, group string, fn func(domain.OrderLine) error) error {
	from, to := monthWindow(month)

	for offset := 0; ; offset += OrderPageSize {
		if err := ctx.Err(); err != nil {
			return err
		}

		var page []domain.OrderLine
		err := s.db.WithContext(ctx).
			Raw(ordersQuery, from, to, group, OrderPageSize, offset).
			Scan(&page).Error
		if err != nil {
			return err
		}
		if len(page) == 0 {
			return nil
		}

		for _, line := range page {
			if err := fn(line); err != nil {
				return err
			}
		}

		if len(page) < OrderPageSize {
			return nil
		}
	}
}

func monthWindow(t time.Time) (time.Time, time.Time) {
	from := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0).Add(-time.Second)
}

func provisionType(raw string) domain.ProvisionType {
	switch trimQuotes(raw) {
	case string(domain.ProvisionTypeInternal):
		return domain.ProvisionTypeInternal
	default:
		return domain.ProvisionTypeDefault
	}
}

// trimQuotes strips surrounding double quotes. Group contact data imported
// from the old shop system still carries its JSON quoting in places.
func trimQuotes(s string) string {
	return strings.Trim(s, `"`)
}
