// Package tax maps an order's destination country and customer kind to the
// BMD revenue account, tax percentage and tax code.
package tax

import (
	"github.com/nadeos/bmd-exporter/pkg/money"
)

// Account is the resolved booking target for one order row.
type Account struct {
	Counterpart string
	TaxPercent  int
	TaxCode     string
}

// TableEntry is one per-country row of the EU-OSS revenue account table.
type TableEntry struct {
	Account string `mapstructure:"account"`
	Percent int    `mapstructure:"percent"`
}

/*
4000  Erlöse Naturkosmetik     20%          20,00
4001  Erlöse Deutschland       19% EU-OSS   19,00
4002  Erlöse Frankreich        20% EU-OSS   20,00
4003  Erlöse Spanien           21% EU-OSS   21,00
4004  Erlöse Kroatien          25% EU-OSS   25,00
4005  Erlöse Ungarn            27% EU-OSS   27,00
4006  Erlöse Schweden          25% EU-OSS   25,00
4007  Erlöse Belgien           21% EU-OSS   21,00
4008  Erlöse Irland            23% EU-OSS   23,00
4009  Erlöse Italien           22% EU-OSS   22,00
4010  Erlöse Luxemburg         17% EU-OSS   17,00
4011  Erlöse Niederlande       21% EU-OSS   21,00
4012  Erlöse Polen             23% EU-OSS   23,00
4013  Erlöse Slowenien         22% EU-OSS   22,00
4050  Erlöse (Ausfuhrlief.)     0%           0,00
4100  Erlöse ig. Lieferungen (steuerfrei)    0,00
*/
func DefaultTable() map[string]TableEntry {
	return map[string]TableEntry{
		"AT": {Account: "4000", Percent: 20},
		"DE": {Account: "4001", Percent: 19},
		"FR": {Account: "4002", Percent: 20},
		"ES": {Account: "4003", Percent: 21},
		"HR": {Account: "4004", Percent: 25},
		"HU": {Account: "4005", Percent: 27},
		"SE": {Account: "4006", Percent: 25},
		"BE": {Account: "4007", Percent: 21},
		"IE": {Account: "4008", Percent: 23},
		"IT": {Account: "4009", Percent: 22},
		"LU": {Account: "4010", Percent: 17},
		"NL": {Account: "4011", Percent: 21},
		"PL": {Account: "4012", Percent: 23},
		"SI": {Account: "4013", Percent: 22},
	}
}

var (
	fallbackEntry = TableEntry{Account: "4000", Percent: 20}

	accountCompanyEU    = Account{Counterpart: "4100", TaxPercent: 0, TaxCode: "7"}
	accountCompanyNonEU = Account{Counterpart: "4050", TaxPercent: 0, TaxCode: "5"}
)

const privateTaxCode = "1"

// Resolver resolves booking accounts against the (possibly overridden)
// country table.
type Resolver struct {
	holder *TableHolder
}

func NewResolver(holder *TableHolder) *Resolver {
	return &Resolver{holder: holder}
}

// Resolve applies the account rules in priority order: companies book tax
// free against the intra-community or export account depending on EU
// membership; private customers use the per-country table with the Austrian
// account as fallback.
func (r *Resolver) Resolve(countryISO string, isEU, isCompany bool) Account {
	if isCompany {
		if isEU {
			return accountCompanyEU
		}
		return accountCompanyNonEU
	}

	entry, ok := r.holder.Table()[countryISO]
	if !ok {
		entry = fallbackEntry
	}
	return Account{
		Counterpart: entry.Account,
		TaxPercent:  entry.Percent,
		TaxCode:     privateTaxCode,
	}
}

// IsCompany derives the company flag from gross==net (no tax charged),
// compared at cent precision.
func IsCompany(amountGross, amountNet float64) bool {
	return money.Equal(amountGross, amountNet)
}

// TaxAmount is -(round(gross-net, 2)). The negated-difference convention is
// what the BMD import expects; keep the sign exactly.
func TaxAmount(amountGross, amountNet float64) float64 {
	v := money.Round2(amountGross-amountNet) * -1
	if v == 0 {
		return 0 // avoid -0.00 in output
	}
	return v
}
