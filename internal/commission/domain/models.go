// Package domain holds the commission aggregates built per group and
// month.
package domain

import (
	"time"

	"github.com/nadeos/bmd-exporter/pkg/money"
)

// ProvisionType controls how a group's statement is titled and numbered.
type ProvisionType string

const (
	ProvisionTypeDefault  ProvisionType = "default"
	ProvisionTypeInternal ProvisionType = "internal"
)

var provisionTypeNames = map[ProvisionType]string{
	ProvisionTypeDefault:  "Standard",
	ProvisionTypeInternal: "Mitarbeiter",
}

// DisplayName is the human label used in listings.
func (t ProvisionType) DisplayName() string {
	if name, ok := provisionTypeNames[t]; ok {
		return name
	}
	return provisionTypeNames[ProvisionTypeDefault]
}

// Contact is the payout recipient configured per customer group.
type Contact struct {
	Salutation string
	Firstname  string
	Lastname   string
	Email      string
	Street     string
	CityZip    string
}

// Item is one commission line. Today every Commission carries exactly one,
// the shape allows more.
type Item struct {
	SalesNet      float64
	CommissionNet float64
	Period        time.Time
}

// Commission is the per-group aggregate for one month. It is built in
// memory per report run and never persisted.
type Commission struct {
	OrderNumber string
	OrderDate   time.Time
	Year        int
	Month       int

	SalesNetTotal        float64
	CommissionPercentage float64
	CommissionNetTotal   float64
	CommissionGrossTotal float64

	GroupName     string
	ProvisionType ProvisionType
	Contact       Contact

	Items []Item
}

// NewCommission derives the commission figures from the summed net sales:
// net commission is sales times the group percentage, gross adds 20% VAT.
// Both are rounded to cents.
func NewCommission(orderNumber string, orderDate time.Time, salesNet, percentage float64, provisionType ProvisionType, groupName string, contact Contact) *Commission {
	net := money.Round2(salesNet * percentage / 100)
	return &Commission{
		OrderNumber:          orderNumber,
		OrderDate:            orderDate,
		Year:                 orderDate.Year(),
		Month:                int(orderDate.Month()),
		SalesNetTotal:        salesNet,
		CommissionPercentage: percentage,
		CommissionNetTotal:   net,
		CommissionGrossTotal: money.Round2(net * 1.2),
		GroupName:            groupName,
		ProvisionType:        provisionType,
		Contact:              contact,
	}
}

// AddItem appends a commission line.
func (c *Commission) AddItem(item Item) {
	c.Items = append(c.Items, item)
}

// OrderLine is one order row on the statement's detail page.
type OrderLine struct {
	OrderNumber string
	OrderDate   time.Time
	AmountNet   float64
	AmountTotal float64
}
