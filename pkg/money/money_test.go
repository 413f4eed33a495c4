package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound2(t *testing.T) {
	assert.Equal(t, 19.0, Round2(119.0-100.0))
	assert.Equal(t, 0.35, Round2(0.345))
	assert.Equal(t, -0.35, Round2(-0.345))
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(100.0, 100.004))
	assert.False(t, Equal(100.0, 100.01))
	// gross==net comparison must survive float noise
	assert.True(t, Equal(119.00000000000001, 119.0))
}

func TestFormatComma(t *testing.T) {
	assert.Equal(t, "1234,50", FormatComma(1234.5))
	assert.Equal(t, "-19,00", FormatComma(-19))
	assert.Equal(t, "0,00", FormatComma(0))
}

func TestFormatEuro(t *testing.T) {
	assert.Equal(t, "1.234,56 €", FormatEuro(1234.56))
	assert.Equal(t, "12,00 €", FormatEuro(12))
	assert.Equal(t, "1.234.567,89 €", FormatEuro(1234567.89))
	assert.Equal(t, "-5,50 €", FormatEuro(-5.5))
}
