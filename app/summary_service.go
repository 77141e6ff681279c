package app

import (
	"context"

	"github.com/montanaflynn/stats"
	"go.uber.org/zap"

	"civicpulse/domain/core"
	"civicpulse/domain/geo"
	"civicpulse/ports"
)

// summaryReportCap bounds how many reflex verdicts feed a cell summary
const summaryReportCap = 200

// SummaryService aggregates per-cell report statistics for dashboards
type SummaryService struct {
	cells      ports.CellRepository
	reflexRepo ports.ReflexRepository
	logger     *zap.Logger
}

// NewSummaryService creates the cell summary service
func NewSummaryService(cells ports.CellRepository, reflexRepo ports.ReflexRepository, logger *zap.Logger) *SummaryService {
	return &SummaryService{cells: cells, reflexRepo: reflexRepo, logger: logger}
}

// CellSummary describes one cell's aggregate state plus descriptive
// statistics over the crowd confidence of its processed reports
type CellSummary struct {
	CellID           core.CellID    `json:"cell_id"`
	Status           geo.CellStatus `json:"status"`
	Incidents        []string       `json:"incidents"`
	ReportCount      int            `json:"report_count"`
	ProcessedCount   int            `json:"processed_count"`
	MeanConfidence   float64        `json:"mean_confidence"`
	MedianConfidence float64        `json:"median_confidence"`
}

// Summarize builds the summary for one cell
func (s *SummaryService) Summarize(ctx context.Context, cellID core.CellID) (*CellSummary, error) {
	cell, err := s.cells.GetByID(ctx, cellID)
	if err != nil {
		return nil, err
	}

	reports, err := s.reflexRepo.ListByCell(ctx, cellID, summaryReportCap)
	if err != nil {
		return nil, err
	}

	confidences := make([]float64, 0, len(reports))
	for _, rv := range reports {
		if rv.ProcessedByReact {
			confidences = append(confidences, rv.CrowdConfidence)
		}
	}

	summary := &CellSummary{
		CellID:         cell.ID,
		Status:         cell.Status,
		Incidents:      cell.Incidents,
		ReportCount:    len(reports),
		ProcessedCount: len(confidences),
	}
	if len(confidences) > 0 {
		// stats errors only fire on empty input, which is guarded above
		summary.MeanConfidence, _ = stats.Mean(confidences)
		summary.MedianConfidence, _ = stats.Median(confidences)
	}
	return summary, nil
}
