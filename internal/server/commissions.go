package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	commissiondomain "github.com/nadeos/bmd-exporter/internal/commission/domain"
)

type commissionResponse struct {
	GroupName            string  `json:"groupName"`
	ProvisionType        string  `json:"provisionType"`
	ProvisionTypeName    string  `json:"provisionTypeName"`
	Year                 int     `json:"year"`
	Month                int     `json:"month"`
	SalesNetTotal        float64 `json:"salesNetTotal"`
	CommissionPercentage float64 `json:"commissionPercentage"`
	CommissionNetTotal   float64 `json:"commissionNetTotal"`
	CommissionGrossTotal float64 `json:"commissionGrossTotal"`
	Email                string  `json:"email"`
}

func (s *Server) listCommissions(c *gin.Context) {
	month, err := monthFromRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	group, err := groupFromRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	commissions, err := s.commissionSvc.List(c.Request.Context(), month, group)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	out := make([]commissionResponse, 0, len(commissions))
	for _, cm := range commissions {
		out = append(out, commissionResponse{
			GroupName:            cm.GroupName,
			ProvisionType:        string(cm.ProvisionType),
			ProvisionTypeName:    cm.ProvisionType.DisplayName(),
			Year:                 cm.Year,
			Month:                cm.Month,
			SalesNetTotal:        cm.SalesNetTotal,
			CommissionPercentage: cm.CommissionPercentage,
			CommissionNetTotal:   cm.CommissionNetTotal,
			CommissionGrossTotal: cm.CommissionGrossTotal,
			Email:                cm.Contact.Email,
		})
	}

	c.JSON(http.StatusOK, gin.H{"commissions": out})
}

func (s *Server) commissionPDF(c *gin.Context) {
	month, err := monthFromRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	group, err := groupFromRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if group == "" {
		AbortWithError(c, fmt.Errorf("%w: group is required", ErrInvalidRequest))
		return
	}

	commissions, err := s.commissionSvc.List(c.Request.Context(), month, group)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if len(commissions) == 0 {
		AbortWithError(c, commissiondomain.ErrNoCommissions)
		return
	}

	data, err := s.renderer.Render(c.Request.Context(), commissions[0])
	if err != nil {
		AbortWithError(c, err)
		return
	}

	name := fmt.Sprintf("provision_%d_%d_%s.pdf", commissions[0].Year, commissions[0].Month, commissions[0].GroupName)
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", name))
	c.Data(http.StatusOK, "application/pdf", data)
}

func (s *Server) sendCommissionMails(c *gin.Context) {
	month, err := monthFromRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	group, err := groupFromRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	testmail := c.Query("test")

	if err := s.dispatcher.SendReports(c.Request.Context(), month, group, testmail); err != nil {
		AbortWithError(c, err)
		return
	}
	s.prom.MailsSentTotal.Inc()

	c.JSON(http.StatusOK, gin.H{"status": "sent"})
}
