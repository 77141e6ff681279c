// Package api wires the inbound HTTP surface: the evidence collection
// endpoint, the batch analysis endpoint and the read-side verdict views.
package api

import (
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"

	"civicpulse/app"
)

// Server is the HTTP server for the verdict pipeline
type Server struct {
	router   *gin.Engine
	evidence *app.EvidenceService
	analysis *app.AnalysisService
	summary  *app.SummaryService
	reacts   *ReactReader
	logger   *zap.Logger
}

// NewServer creates the HTTP server with all routes registered
func NewServer(
	ginMode string,
	evidence *app.EvidenceService,
	analysis *app.AnalysisService,
	summary *app.SummaryService,
	reacts *ReactReader,
	logger *zap.Logger,
) *Server {
	gin.SetMode(ginMode)

	router := gin.New()
	router.Use(RequestLogger(logger), gin.Recovery())

	s := &Server{
		router:   router,
		evidence: evidence,
		analysis: analysis,
		summary:  summary,
		reacts:   reacts,
		logger:   logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.POST("/analyze", s.handleAnalyze)
	s.router.POST("/process-reflex-verdicts", s.handleProcessReflexVerdicts)
	s.router.GET("/react-verdicts/:id", s.handleGetReactVerdict)
	s.router.GET("/cells/:id/summary", s.handleCellSummary)
	s.router.GET("/healthz", s.handleHealth)
}

// Run starts the server on the given port, blocking until it exits
func (s *Server) Run(port string) error {
	s.logger.Info("starting http server", zap.String("port", port))
	return s.router.Run(":" + port)
}

// Router exposes the underlying engine for tests
func (s *Server) Router() *gin.Engine {
	return s.router
}
