package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	subscriptiondomain "github.com/revendalabs/revenda/internal/subscription/domain"
)

func (s *Server) registerSubscriptionRoutes() {
	api := s.engine.Group("/revendas")

	api.GET("/clientes/:id/assinatura", s.GetSubscription)
	api.POST("/clientes/:id/assinatura", s.CreateSubscription)
	api.PUT("/clientes/:id/assinatura", s.UpdateSubscription)
	api.DELETE("/clientes/:id/assinatura", s.Unsubscribe)
	api.POST("/assinaturas/preview", s.PreviewSubscription)
}

func (s *Server) GetSubscription(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	resp, err := s.subscriptionSvc.GetByCustomer(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CreateSubscription(c *gin.Context) {
	var req subscriptiondomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.CustomerID = strings.TrimSpace(c.Param("id"))

	resp, err := s.subscriptionSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateSubscription(c *gin.Context) {
	var req subscriptiondomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.CustomerID = strings.TrimSpace(c.Param("id"))

	resp, err := s.subscriptionSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) Unsubscribe(c *gin.Context) {
	var req subscriptiondomain.UnsubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.CustomerID = strings.TrimSpace(c.Param("id"))

	resp, err := s.subscriptionSvc.Unsubscribe(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) PreviewSubscription(c *gin.Context) {
	var req subscriptiondomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.subscriptionSvc.Preview(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
