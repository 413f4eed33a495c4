package commission

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/nadeos/bmd-exporter/internal/commission/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	for _, ddl := range []string{
		`CREATE TABLE orders (
			id INTEGER PRIMARY KEY,
			order_number TEXT,
			order_date DATETIME,
			amount_net REAL,
			amount_total REAL,
			revision INTEGER
		)`,
		`CREATE TABLE order_customers (order_id INTEGER, customer_id INTEGER)`,
		`CREATE TABLE customers (id INTEGER PRIMARY KEY, customer_group_id INTEGER)`,
		`CREATE TABLE customer_groups (id INTEGER PRIMARY KEY, name TEXT)`,
		`CREATE TABLE commission_groups (
			customer_group_id INTEGER,
			provision REAL,
			provision_type TEXT,
			salutation TEXT,
			email TEXT,
			city_zip TEXT,
			firstname TEXT,
			lastname TEXT,
			street TEXT
		)`,
	} {
		require.NoError(t, db.Exec(ddl).Error)
	}

	return db
}

type orderFixture struct {
	id       int
	number   string
	date     time.Time
	net      float64
	total    float64
	revision int
	customer int
}

func insertOrder(t *testing.T, db *gorm.DB, f orderFixture) {
	t.Helper()
	require.NoError(t, db.Exec(
		`INSERT INTO orders (id, order_number, order_date, amount_net, amount_total, revision) VALUES (?, ?, ?, ?, ?, ?)`,
		f.id, f.number, f.date, f.net, f.total, f.revision,
	).Error)
	require.NoError(t, db.Exec(
		`INSERT INTO order_customers (order_id, customer_id) VALUES (?, ?)`,
		f.id, f.customer,
	).Error)
}

func insertGroup(t *testing.T, db *gorm.DB, groupID int, name string, provision float64, provisionType string) {
	t.Helper()
	require.NoError(t, db.Exec(
		`INSERT INTO customer_groups (id, name) VALUES (?, ?)`, groupID, name,
	).Error)
	require.NoError(t, db.Exec(
		`INSERT INTO commission_groups (customer_group_id, provision, provision_type, salutation, email, city_zip, firstname, lastname, street)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		groupID, provision, provisionType, `"Herr"`, "partner@example.com", `"1010 Wien"`, `"Max"`, `"Muster"`, `"Hauptstrasse 1"`,
	).Error)
}

func insertCustomer(t *testing.T, db *gorm.DB, id, groupID int) {
	t.Helper()
	require.NoError(t, db.Exec(
		`INSERT INTO customers (id, customer_group_id) VALUES (?, ?)`, id, groupID,
	).Error)
}

func july(day int) time.Time {
	return time.Date(2025, 7, day, 10, 0, 0, 0, time.UTC)
}

func TestListAggregatesGroup(t *testing.T) {
	db := openTestDB(t)
	insertGroup(t, db, 1, "AB Handelsvertretung", 10, "default")
	insertCustomer(t, db, 100, 1)
	insertOrder(t, db, orderFixture{id: 1, number: "10001", date: july(2), net: 100, total: 120, revision: 1, customer: 100})
	insertOrder(t, db, orderFixture{id: 2, number: "10002", date: july(9), net: 50, total: 60, revision: 2, customer: 100})

	svc := NewService(zap.NewNop(), db)
	commissions, err := svc.List(context.Background(), july(1), "")
	require.NoError(t, err)

	require.Len(t, commissions, 1)
	c := commissions[0]
	assert.Equal(t, "AB", c.GroupName)
	assert.Equal(t, domain.ProvisionTypeDefault, c.ProvisionType)
	assert.Equal(t, 150.0, c.SalesNetTotal)
	assert.Equal(t, 15.0, c.CommissionNetTotal)
	assert.Equal(t, 18.0, c.CommissionGrossTotal)
	assert.Equal(t, 2025, c.Year)
	assert.Equal(t, 7, c.Month)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 150.0, c.Items[0].SalesNet)
	assert.Equal(t, 15.0, c.Items[0].CommissionNet)
}

func TestListTrimsQuotedContactFields(t *testing.T) {
	db := openTestDB(t)
	insertGroup(t, db, 1, "AB Handelsvertretung", 10, `"default"`)
	insertCustomer(t, db, 100, 1)
	insertOrder(t, db, orderFixture{id: 1, number: "10001", date: july(2), net: 100, total: 120, revision: 1, customer: 100})

	svc := NewService(zap.NewNop(), db)
	commissions, err := svc.List(context.Background(), july(1), "")
	require.NoError(t, err)

	require.Len(t, commissions, 1)
	contact := commissions[0].Contact
	assert.Equal(t, "Herr", contact.Salutation)
	assert.Equal(t, "Max", contact.Firstname)
	assert.Equal(t, "Muster", contact.Lastname)
	assert.Equal(t, "Hauptstrasse 1", contact.Street)
	assert.Equal(t, "1010 Wien", contact.CityZip)
	assert.Equal(t, domain.ProvisionTypeDefault, commissions[0].ProvisionType)
}

func TestListDeduplicatesOrderRevisions(t *testing.T) {
	db := openTestDB(t)
	insertGroup(t, db, 1, "AB Handelsvertretung", 10, "default")
	insertCustomer(t, db, 100, 1)
	// Same order number twice; only the newest revision counts.
	insertOrder(t, db, orderFixture{id: 1, number: "10001", date: july(2), net: 100, total: 120, revision: 1, customer: 100})
	insertOrder(t, db, orderFixture{id: 2, number: "10001", date: july(2), net: 80, total: 96, revision: 2, customer: 100})

	svc := NewService(zap.NewNop(), db)
	commissions, err := svc.List(context.Background(), july(1), "")
	require.NoError(t, err)

	require.Len(t, commissions, 1)
	assert.Equal(t, 80.0, commissions[0].SalesNetTotal)
	assert.Equal(t, 8.0, commissions[0].CommissionNetTotal)
}

func TestListSkipsZeroProvisionGroups(t *testing.T) {
	db := openTestDB(t)
	insertGroup(t, db, 1, "AB Handelsvertretung", 0, "default")
	insertCustomer(t, db, 100, 1)
	insertOrder(t, db, orderFixture{id: 1, number: "10001", date: july(2), net: 100, total: 120, revision: 1, customer: 100})

	svc := NewService(zap.NewNop(), db)
	commissions, err := svc.List(context.Background(), july(1), "")
	require.NoError(t, err)
	assert.Empty(t, commissions)
}

func TestListGroupFilterIsCaseInsensitive(t *testing.T) {
	db := openTestDB(t)
	insertGroup(t, db, 1, "AB Handelsvertretung", 10, "default")
	insertGroup(t, db, 2, "CD Vertrieb", 5, "internal")
	insertCustomer(t, db, 100, 1)
	insertCustomer(t, db, 200, 2)
	insertOrder(t, db, orderFixture{id: 1, number: "10001", date: july(2), net: 100, total: 120, revision: 1, customer: 100})
	insertOrder(t, db, orderFixture{id: 2, number: "10002", date: july(3), net: 200, total: 240, revision: 1, customer: 200})

	svc := NewService(zap.NewNop(), db)

	commissions, err := svc.List(context.Background(), july(1), "ab")
	require.NoError(t, err)
	require.Len(t, commissions, 1)
	assert.Equal(t, "AB", commissions[0].GroupName)

	commissions, err = svc.List(context.Background(), july(1), "")
	require.NoError(t, err)
	assert.Len(t, commissions, 2)
}

func TestListExcludesOtherMonths(t *testing.T) {
	db := openTestDB(t)
	insertGroup(t, db, 1, "AB Handelsvertretung", 10, "default")
	insertCustomer(t, db, 100, 1)
	insertOrder(t, db, orderFixture{id: 1, number: "10001", date: time.Date(2025, 6, 30, 23, 0, 0, 0, time.UTC), net: 100, total: 120, revision: 1, customer: 100})

	svc := NewService(zap.NewNop(), db)
	commissions, err := svc.List(context.Background(), july(1), "")
	require.NoError(t, err)
	assert.Empty(t, commissions)
}

func TestOrdersStreamsGroupOrders(t *testing.T) {
	db := openTestDB(t)
	insertGroup(t, db, 1, "AB Handelsvertretung", 10, "default")
	insertCustomer(t, db, 100, 1)
	insertOrder(t, db, orderFixture{id: 1, number: "10002", date: july(9), net: 50, total: 60, revision: 1, customer: 100})
	insertOrder(t, db, orderFixture{id: 2, number: "10001", date: july(2), net: 100, total: 120, revision: 1, customer: 100})

	svc := NewService(zap.NewNop(), db)

	var lines []domain.OrderLine
	err := svc.Orders(context.Background(), july(1), "AB", func(line domain.OrderLine) error {
		lines = append(lines, line)
		return nil
	})
	require.NoError(t, err)

	require.Len(t, lines, 2)
	assert.Equal(t, "10001", lines[0].OrderNumber)
	assert.Equal(t, "10002", lines[1].OrderNumber)
	assert.Equal(t, 100.0, lines[0].AmountNet)
	assert.Equal(t, 120.0, lines[0].AmountTotal)
}
