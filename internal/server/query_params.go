package server

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const dateOnlyLayout = "2006-01-02"

// monthFromRequest reads ?year= and ?month=. Without both parameters the
// previous month is assumed, matching the monthly export cadence.
func monthFromRequest(c *gin.Context) (time.Time, error) {
	yearParam := c.Query("year")
	monthParam := c.Query("month")

	if yearParam == "" || monthParam == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0), nil
	}

	year, err := strconv.Atoi(yearParam)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: year must be numeric", ErrInvalidRequest)
	}
	month, err := strconv.Atoi(monthParam)
	if err != nil || month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("%w: month must be 1-12", ErrInvalidRequest)
	}

	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC), nil
}

// dateRangeFromRequest reads ?date_from= and ?date_to= (YYYY-MM-DD),
// defaulting to the current month.
func dateRangeFromRequest(c *gin.Context) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0).Add(-time.Second)

	if param := c.Query("date_from"); param != "" {
		parsed, err := time.Parse(dateOnlyLayout, param)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: date_from is malformed", ErrInvalidRequest)
		}
		from = parsed
	}
	if param := c.Query("date_to"); param != "" {
		parsed, err := time.Parse(dateOnlyLayout, param)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: date_to is malformed", ErrInvalidRequest)
		}
		to = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 23, 59, 59, 0, time.UTC)
	}

	return from, to, nil
}

// groupFromRequest reads the optional base64-encoded ?group= prefix.
func groupFromRequest(c *gin.Context) (string, error) {
	param := c.Query("group")
	if param == "" {
		return "", nil
	}

	decoded, err := base64.StdEncoding.DecodeString(param)
	if err != nil {
		return "", fmt.Errorf("%w: group must be base64-encoded", ErrInvalidRequest)
	}
	return strings.TrimSpace(string(decoded)), nil
}

func limitFromRequest(c *gin.Context, fallback int) int {
	param := c.Query("limit")
	if param == "" {
		return fallback
	}
	limit, err := strconv.Atoi(param)
	if err != nil || limit <= 0 {
		return fallback
	}
	return limit
}
