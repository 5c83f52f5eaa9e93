package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func (s *Server) RegisterRoutes() http.Handler {
	r := gin.New()
	r.MaxMultipartMemory = s.config.MaxUploadBytes()
	r.Use(gin.Recovery(), requestID(), accessLog())

	if origins := s.config.CORSOrigins; len(origins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  origins,
			AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
			AllowHeaders:  []string{"Content-Type"},
			ExposeHeaders: []string{"Content-Disposition", requestIDHeader},
			MaxAge:        12 * time.Hour,
		}))
	}

	r.GET("/", s.indexHandler)
	r.GET("/healthz", s.healthHandler)

	api := r.Group("/api")
	api.POST("/session", s.uploadHandler)
	api.PUT("/session/names", s.namesHandler)
	api.GET("/report", s.reportHandler)
	api.GET("/chart", s.chartHandler)
	api.GET("/chart.png", s.chartImageHandler)
	api.GET("/summary", s.summaryHandler)
	api.POST("/export", s.exportHandler)

	return r
}
