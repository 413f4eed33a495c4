package server

import (
	"bytes"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nadeos/bmd-exporter/internal/bmdexport"
)

// typeParamKinds maps the ?type= selector to a filtered export.
var typeParamKinds = map[string]bmdexport.Kind{
	"invoices":      bmdexport.KindInvoicesOnly,
	"credits":       bmdexport.KindCreditsOnly,
	"cancellations": bmdexport.KindCancellationsOnly,
}

func exportFilename(suffix string, month time.Time) string {
	return fmt.Sprintf("%d_%02d_%s.csv", month.Year(), int(month.Month()), suffix)
}

func (s *Server) exportOrders(c *gin.Context) {
	month, err := monthFromRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	kind := bmdexport.KindOrders
	suffix := "orders"
	if param := c.Query("type"); param != "" {
		mapped, ok := typeParamKinds[param]
		if !ok {
			AbortWithError(c, fmt.Errorf("%w: unknown export type %q", ErrInvalidRequest, param))
			return
		}
		kind = mapped
		suffix = param + "-only"
	}

	s.serveCSV(c, kind, suffix, month)
}

func (s *Server) exportCustomers(c *gin.Context) {
	month, err := monthFromRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.serveCSV(c, bmdexport.KindCustomers, "customers", month)
}

func (s *Server) serveCSV(c *gin.Context, kind bmdexport.Kind, suffix string, month time.Time) {
	var buf bytes.Buffer
	if err := s.exportSvc.Export(c.Request.Context(), kind, month, &buf); err != nil {
		s.prom.ExportFailuresTotal.WithLabelValues(string(kind)).Inc()
		AbortWithError(c, err)
		return
	}
	s.prom.ExportsTotal.WithLabelValues(string(kind)).Inc()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFilename(suffix, month)))
	c.Data(200, "text/csv", buf.Bytes())
}

func (s *Server) exportOverview(c *gin.Context) {
	month, err := monthFromRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := s.exportSvc.ExportOverview(c.Request.Context(), month, &buf); err != nil {
		s.prom.ExportFailuresTotal.WithLabelValues("overview").Inc()
		AbortWithError(c, err)
		return
	}
	s.prom.ExportsTotal.WithLabelValues("overview").Inc()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFilename("overview", month)))
	c.Data(200, "text/csv", buf.Bytes())
}
