package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	billingdomain "github.com/revendalabs/revenda/internal/billing/domain"
)

func (s *Server) registerBillingRoutes() {
	api := s.engine.Group("/revendas")

	api.GET("/cobrancas", s.ListCharges)
	api.GET("/cobrancas/:id", s.GetChargeByID)
	api.GET("/clientes/:id/cobrancas", s.ListCustomerCharges)
	api.POST("/clientes/:id/cobrancas", s.GenerateCharges)
}

func (s *Server) ListCharges(c *gin.Context) {
	var query billingdomain.ListRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.billingSvc.List(c.Request.Context(), query)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetChargeByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	resp, err := s.billingSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListCustomerCharges(c *gin.Context) {
	var query billingdomain.ListRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	query.CustomerID = strings.TrimSpace(c.Param("id"))

	resp, err := s.billingSvc.List(c.Request.Context(), query)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GenerateCharges(c *gin.Context) {
	var req billingdomain.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.CustomerID = strings.TrimSpace(c.Param("id"))

	resp, err := s.billingSvc.Generate(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
