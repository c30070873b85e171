package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	referencedomain "github.com/revendalabs/revenda/internal/reference/domain"
	subscriptiondomain "github.com/revendalabs/revenda/internal/subscription/domain"
)

func (s *Server) registerReferenceRoutes() {
	api := s.engine.Group("/revendas")

	api.GET("/consultas/segmentos", s.ListSegments)
	api.GET("/consultas/motivos-desativacao", s.ListCancelReasons)
}

func (s *Server) ListSegments(c *gin.Context) {
	segments, err := s.refRepo.ListSegments(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": segments})
}

func (s *Server) ListCancelReasons(c *gin.Context) {
	reasons := subscriptiondomain.CancelReasons()
	options := make([]referencedomain.CancelReasonOption, 0, len(reasons))
	for i, reason := range reasons {
		options = append(options, referencedomain.CancelReasonOption{
			ID:          i + 1,
			Code:        string(reason),
			Description: reason.Label(),
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": options})
}
