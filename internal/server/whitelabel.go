package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	whitelabeldomain "github.com/revendalabs/revenda/internal/whitelabel/domain"
)

func (s *Server) registerWhitelabelRoutes() {
	api := s.engine.Group("/revendas")

	api.GET("/whitelabel", s.GetWhiteLabel)
	api.PUT("/whitelabel", s.UpdateWhiteLabel)
}

func (s *Server) GetWhiteLabel(c *gin.Context) {
	resp, err := s.whitelabelSvc.Get(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateWhiteLabel(c *gin.Context) {
	var req whitelabeldomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.whitelabelSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
