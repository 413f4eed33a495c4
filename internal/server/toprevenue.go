package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nadeos/bmd-exporter/internal/toprevenue"
)

func (s *Server) topRevenue(c *gin.Context) {
	from, to, err := dateRangeFromRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	group, err := groupFromRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	limit := limitFromRequest(c, toprevenue.DefaultLimit)

	items, err := s.topRevenueSvc.Rank(c.Request.Context(), from, to, limit, group)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	switch c.Query("format") {
	case "pdf":
		data, err := toprevenue.RenderPDF(items, from, to)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.Header("Content-Disposition", `inline; filename="top-revenue.pdf"`)
		c.Data(http.StatusOK, "application/pdf", data)

	case "html":
		page, err := toprevenue.RenderHTML(items, from, to)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))

	default:
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    items,
			"meta": gin.H{
				"count":         len(items),
				"total_revenue": toprevenue.TotalRevenue(items),
				"date_from":     from.Format("2006-01-02"),
				"date_to":       to.Format("2006-01-02"),
				"limit":         limit,
			},
		})
	}
}
