package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"civicpulse/domain/core"
	"civicpulse/domain/evidence"
	"civicpulse/domain/geo"
	apperrors "civicpulse/internal/errors"
)

// respondError writes the client-facing message and logs the taxonomy code
func (s *Server) respondError(c *gin.Context, status int, appErr *apperrors.AppError) {
	s.logger.Debug("request rejected",
		zap.Int("status", status),
		zap.String("code", appErr.Code),
		zap.String("reason", appErr.Message))
	c.JSON(status, gin.H{"error": appErr.Message})
}

type analyzeRequest struct {
	Category  string   `json:"category"`
	ImageURL  string   `json:"image_url"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type analyzeVerdicts struct {
	ImageAnalysis string                 `json:"image_analysis"`
	NewsAnalysis  evidence.NewsReport    `json:"news_analysis"`
	SocialMedia   evidence.SocialReport  `json:"social_media_analysis"`
	WeatherAlerts evidence.WeatherReport `json:"weather_alerts"`
}

type analyzeMetadata struct {
	Coordinates  geo.Coordinates `json:"coordinates"`
	Category     string          `json:"category"`
	CellID       string          `json:"cell_id"`
	Timestamp    string          `json:"timestamp"`
	DocumentID   string          `json:"document_id,omitempty"`
	StorageError string          `json:"storage_error,omitempty"`
}

type analyzeResponse struct {
	Location string          `json:"location"`
	Verdicts analyzeVerdicts `json:"verdicts"`
	Metadata analyzeMetadata `json:"metadata"`
}

// handleAnalyze collects evidence for one report and persists the reflex
// verdict. The caller always receives the computed evidence, even when
// persistence fails.
func (s *Server) handleAnalyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil ||
		req.Category == "" || req.ImageURL == "" ||
		req.Latitude == nil || req.Longitude == nil {
		s.respondError(c, http.StatusBadRequest, apperrors.RequestInvalid("Missing category, image_url, or coordinates"))
		return
	}

	result, err := s.evidence.Collect(c.Request.Context(), req.Category, req.ImageURL, *req.Latitude, *req.Longitude)
	if err != nil {
		switch {
		case isErr(err, core.ErrLocationUnresolved):
			s.respondError(c, http.StatusInternalServerError, apperrors.InternalError("Unable to resolve location"))
		case isErr(err, core.ErrImageUnavailable):
			s.respondError(c, http.StatusBadRequest, apperrors.RequestInvalid("Failed to download or process image"))
		default:
			s.logger.Error("evidence collection failed",
				zap.String("code", apperrors.GetCode(err)),
				zap.Error(err))
			s.respondError(c, http.StatusInternalServerError, apperrors.InternalError("evidence collection failed"))
		}
		return
	}

	resp := analyzeResponse{
		Location: result.Location,
		Verdicts: analyzeVerdicts{
			ImageAnalysis: result.Bundle.ImageVerdict,
			NewsAnalysis:  result.Bundle.News,
			SocialMedia:   result.Bundle.Social,
			WeatherAlerts: result.Bundle.Weather,
		},
		Metadata: analyzeMetadata{
			Coordinates:  result.Coordinates,
			Category:     result.Category,
			CellID:       result.CellID.String(),
			Timestamp:    time.Now().UTC().Format(time.RFC3339),
			DocumentID:   result.DocumentID.String(),
			StorageError: result.StorageErr,
		},
	}
	c.JSON(http.StatusOK, resp)
}

type processRequest struct {
	BatchSize int `json:"batch_size"`
}

// handleProcessReflexVerdicts replays unprocessed reflex verdicts through
// traced analysis. Failed items are recorded in storage but omitted from
// the response; only a batch-level query failure errors the call.
func (s *Server) handleProcessReflexVerdicts(c *gin.Context) {
	req := processRequest{BatchSize: 10}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid request body"})
			return
		}
		if req.BatchSize <= 0 {
			req.BatchSize = 10
		}
	}

	result, err := s.analysis.ProcessBatch(c.Request.Context(), req.BatchSize)
	if err != nil {
		s.logger.Error("batch processing failed",
			zap.String("code", apperrors.GetCode(err)),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"processed": result.Processed,
		"results":   result.Results,
	})
}

// handleGetReactVerdict returns one react verdict; ?format=html renders the
// stored analysis markdown for human review.
func (s *Server) handleGetReactVerdict(c *gin.Context) {
	id := core.ReactID(c.Param("id"))

	rv, err := s.reacts.Get(c.Request.Context(), id)
	if core.IsNotFoundError(err) {
		s.respondError(c, http.StatusNotFound, apperrors.NotFound("react verdict"))
		return
	}
	if err != nil {
		s.logger.Error("react verdict lookup failed", zap.Error(err))
		s.respondError(c, http.StatusInternalServerError, apperrors.InternalError("react verdict lookup failed"))
		return
	}

	if c.Query("format") == "html" {
		c.Data(http.StatusOK, "text/html; charset=utf-8", s.reacts.RenderHTML(rv))
		return
	}
	c.JSON(http.StatusOK, rv)
}

// handleCellSummary returns a cell's aggregate state with confidence stats
func (s *Server) handleCellSummary(c *gin.Context) {
	id := core.CellID(c.Param("id"))

	summary, err := s.summary.Summarize(c.Request.Context(), id)
	if core.IsNotFoundError(err) {
		s.respondError(c, http.StatusNotFound, apperrors.NotFound("cell"))
		return
	}
	if err != nil {
		s.logger.Error("cell summary failed", zap.Error(err))
		s.respondError(c, http.StatusInternalServerError, apperrors.InternalError("cell summary failed"))
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func isErr(err, target error) bool {
	return errors.Is(err, target)
}
