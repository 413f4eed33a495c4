package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) shrinkList(c *gin.Context) {
	month, err := monthFromRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	rows, err := s.shrinkSvc.List(c.Request.Context(), month)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"articles": rows})
}

func (s *Server) shrinkOverview(c *gin.Context) {
	month, err := monthFromRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	relevant, err := s.shrinkSvc.List(c.Request.Context(), month)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	overview, err := s.shrinkSvc.ListByProduct(c.Request.Context(), month)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"articlesRelevant": relevant,
		"articlesOverview": overview,
	})
}
