package server

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(url string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", url, nil)
	return c
}

func TestMonthFromRequest(t *testing.T) {
	month, err := monthFromRequest(testContext("/x?year=2025&month=7"))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), month)
}

func TestMonthFromRequestDefaultsToPreviousMonth(t *testing.T) {
	month, err := monthFromRequest(testContext("/x"))
	require.NoError(t, err)

	now := time.Now().UTC()
	expected := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	assert.Equal(t, expected, month)
	assert.Equal(t, 1, month.Day())
}

func TestMonthFromRequestRejectsBadValues(t *testing.T) {
	_, err := monthFromRequest(testContext("/x?year=abc&month=7"))
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = monthFromRequest(testContext("/x?year=2025&month=13"))
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestDateRangeFromRequest(t *testing.T) {
	from, to, err := dateRangeFromRequest(testContext("/x?date_from=2025-07-01&date_to=2025-07-15"))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2025, 7, 15, 23, 59, 59, 0, time.UTC), to)

	_, _, err = dateRangeFromRequest(testContext("/x?date_from=15.07.2025"))
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestGroupFromRequest(t *testing.T) {
	group, err := groupFromRequest(testContext("/x?group=QUI=")) // base64("AB")
	require.NoError(t, err)
	assert.Equal(t, "AB", group)

	group, err = groupFromRequest(testContext("/x"))
	require.NoError(t, err)
	assert.Empty(t, group)

	_, err = groupFromRequest(testContext("/x?group=!!!"))
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestLimitFromRequest(t *testing.T) {
	assert.Equal(t, 50, limitFromRequest(testContext("/x"), 50))
	assert.Equal(t, 10, limitFromRequest(testContext("/x?limit=10"), 50))
	assert.Equal(t, 50, limitFromRequest(testContext("/x?limit=-2"), 50))
	assert.Equal(t, 50, limitFromRequest(testContext("/x?limit=abc"), 50))
}
