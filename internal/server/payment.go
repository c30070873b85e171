package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

func (s *Server) registerPaymentRoutes() {
	api := s.engine.Group("/revendas")

	api.POST("/cobrancas/:id", s.PayCharge)
	api.POST("/cobrancas", s.PayChargeBatch)
	api.GET("/cobrancas/pix/:id", s.GetPaymentSession)
	api.DELETE("/cobrancas/pix/:id", s.CancelPaymentSession)
	api.POST("/cobrancas/pix/:id/pagamento", s.RegisterPayment)
}

func (s *Server) PayCharge(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	resp, err := s.paymentSvc.Pay(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type payBatchRequest struct {
	Charges []struct {
		ID string `json:"id"`
	} `json:"cobrancas"`
}

func (s *Server) PayChargeBatch(c *gin.Context) {
	var req payBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	ids := make([]string, 0, len(req.Charges))
	for _, item := range req.Charges {
		if id := strings.TrimSpace(item.ID); id != "" {
			ids = append(ids, id)
		}
	}

	resp, err := s.paymentSvc.PayBatch(c.Request.Context(), ids)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetPaymentSession(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	resp, err := s.paymentSvc.Status(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CancelPaymentSession(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	resp, err := s.paymentSvc.Cancel(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) RegisterPayment(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	resp, err := s.paymentSvc.Register(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
