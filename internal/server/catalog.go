package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

func (s *Server) registerCatalogRoutes() {
	api := s.engine.Group("/revendas")

	api.GET("/planos", s.ListPlans)
	api.GET("/planos/:id", s.GetPlanByID)
	api.GET("/modulos", s.ListModules)
	api.GET("/modulos/:id", s.GetModuleByID)
}

func (s *Server) ListPlans(c *gin.Context) {
	resp, err := s.catalogSvc.ListPlans(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetPlanByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	resp, err := s.catalogSvc.GetPlan(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListModules(c *gin.Context) {
	resp, err := s.catalogSvc.ListModules(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetModuleByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	resp, err := s.catalogSvc.GetModule(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
