package ui

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"golimit/app"
	"golimit/domain/core"
	"golimit/internal"
)

// Server exposes the analysis service over a JSON API
type Server struct {
	router  *gin.Engine
	service *app.AnalysisService
	logger  *internal.Logger
}

// NewServer creates the API server and registers its routes
func NewServer(service *app.AnalysisService) *Server {
	s := &Server{
		router:  gin.Default(),
		service: service,
		logger:  internal.DefaultLogger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.GET("/healthz", s.handleHealth)
	s.router.POST("/api/analysis", s.handleAnalysis)
}

// Router returns the underlying engine, used by httptest in tests
func (s *Server) Router() http.Handler {
	return s.router
}

// Run starts the server on the given address
func (s *Server) Run(addr string) error {
	s.logger.Info("API server listening on %s", addr)
	return s.router.Run(addr)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// analysisRequest is the API payload; optional fields default to the
// standard scan settings when omitted
type analysisRequest struct {
	Signal         *float64 `json:"signal" binding:"required"`
	Background     *float64 `json:"background" binding:"required"`
	BkgUncertainty *float64 `json:"bkg_uncertainty" binding:"required"`
	Observed       *float64 `json:"observed" binding:"required"`
	POITest        *float64 `json:"poi_test"`
	ScanMin        *float64 `json:"scan_min"`
	ScanMax        *float64 `json:"scan_max"`
	ScanSteps      *int     `json:"scan_steps"`
	Level          *float64 `json:"level"`
	Workers        *int     `json:"workers"`
}

func (r *analysisRequest) toDomain() app.AnalysisRequest {
	req := app.DefaultRequest()
	req.Signal = *r.Signal
	req.Background = *r.Background
	req.BkgUncertainty = *r.BkgUncertainty
	req.Observed = *r.Observed
	if r.POITest != nil {
		req.POITest = *r.POITest
	}
	if r.ScanMin != nil {
		req.ScanMin = *r.ScanMin
	}
	if r.ScanMax != nil {
		req.ScanMax = *r.ScanMax
	}
	if r.ScanSteps != nil {
		req.ScanSteps = *r.ScanSteps
	}
	if r.Level != nil {
		req.Level = *r.Level
	}
	if r.Workers != nil {
		req.Workers = *r.Workers
	}
	return req
}

func (s *Server) handleAnalysis(c *gin.Context) {
	var dto analysisRequest
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := s.service.Run(c.Request.Context(), dto.toDomain())
	if err != nil {
		s.logger.Error("analysis failed: %v", err)
		status := http.StatusInternalServerError
		if core.IsInvalidModelError(err) || core.IsDimensionMismatchError(err) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}
