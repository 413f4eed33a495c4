package tax

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestResolver() *Resolver {
	return NewResolver(NewStaticHolder(DefaultTable()))
}

func TestResolveCompanyEU(t *testing.T) {
	r := newTestResolver()

	// country is irrelevant for companies, only EU membership counts
	for _, iso := range []string{"AT", "DE", "XX"} {
		acc := r.Resolve(iso, true, true)
		assert.Equal(t, "4100", acc.Counterpart)
		assert.Equal(t, 0, acc.TaxPercent)
		assert.Equal(t, "7", acc.TaxCode)
	}
}

func TestResolveCompanyNonEU(t *testing.T) {
	r := newTestResolver()

	acc := r.Resolve("CH", false, true)
	assert.Equal(t, "4050", acc.Counterpart)
	assert.Equal(t, 0, acc.TaxPercent)
	assert.Equal(t, "5", acc.TaxCode)
}

func TestResolvePrivateDomesticTable(t *testing.T) {
	r := newTestResolver()

	cases := []struct {
		iso     string
		account string
		percent int
	}{
		{"AT", "4000", 20},
		{"DE", "4001", 19},
		{"HU", "4005", 27},
		{"SI", "4013", 22},
	}
	for _, tc := range cases {
		acc := r.Resolve(tc.iso, true, false)
		assert.Equal(t, tc.account, acc.Counterpart, tc.iso)
		assert.Equal(t, tc.percent, acc.TaxPercent, tc.iso)
		assert.Equal(t, "1", acc.TaxCode, tc.iso)
	}
}

func TestResolvePrivateFallback(t *testing.T) {
	r := newTestResolver()

	// every country absent from the table falls back to 4000/20
	for _, iso := range []string{"CH", "US", "GB", "NO", ""} {
		acc := r.Resolve(iso, false, false)
		assert.Equal(t, "4000", acc.Counterpart, iso)
		assert.Equal(t, 20, acc.TaxPercent, iso)
		assert.Equal(t, "1", acc.TaxCode, iso)
	}
}

func TestIsCompany(t *testing.T) {
	assert.True(t, IsCompany(100.00, 100.00))
	assert.False(t, IsCompany(119.00, 100.00))
	// equality holds at cent precision despite float noise
	assert.True(t, IsCompany(100.0000000001, 100.00))
}

func TestTaxAmount(t *testing.T) {
	assert.Equal(t, -19.00, TaxAmount(119.00, 100.00))
	assert.Equal(t, 0.00, TaxAmount(100.00, 100.00))
	// credit amounts keep their sign convention
	assert.Equal(t, 19.00, TaxAmount(-119.00, -100.00))
}

func TestWorkedExamples(t *testing.T) {
	r := newTestResolver()

	// company in AT, gross==net
	acc := r.Resolve("AT", true, IsCompany(100.00, 100.00))
	assert.Equal(t, Account{Counterpart: "4100", TaxPercent: 0, TaxCode: "7"}, acc)
	assert.Equal(t, 0.00, TaxAmount(100.00, 100.00))

	// private customer in DE
	acc = r.Resolve("DE", true, IsCompany(119.00, 100.00))
	assert.Equal(t, Account{Counterpart: "4001", TaxPercent: 19, TaxCode: "1"}, acc)
	assert.Equal(t, -19.00, TaxAmount(119.00, 100.00))
}

func TestValidateTable(t *testing.T) {
	assert.NoError(t, validateTable(DefaultTable()))

	assert.Error(t, validateTable(map[string]TableEntry{
		"AUT": {Account: "4000", Percent: 20},
	}))
	assert.Error(t, validateTable(map[string]TableEntry{
		"AT": {Account: "", Percent: 20},
	}))
	assert.Error(t, validateTable(map[string]TableEntry{
		"AT": {Account: "4000", Percent: 120},
	}))
}
