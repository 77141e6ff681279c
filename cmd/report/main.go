// Command report exports a per-cell incident and confidence summary as an
// xlsx workbook for offline review.
//
//	report -out summary.xlsx
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"civicpulse/adapters/postgres"
	"civicpulse/app"
)

const sheetName = "Cells"

func main() {
	_ = godotenv.Load()

	out := flag.String("out", "cell_summary.xlsx", "output workbook path")
	flag.Parse()

	url := os.Getenv("DATABASE_URL")
	if url == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := sqlx.Connect("postgres", url)
	if err != nil {
		log.Fatalf("failed to connect: %v", err)
	}
	defer db.Close()

	cellRepo := postgres.NewCellRepository(db)
	reflexRepo := postgres.NewReflexRepository(db)
	summaries := app.NewSummaryService(cellRepo, reflexRepo, zap.NewNop())

	ctx := context.Background()
	cells, err := cellRepo.ListOrdered(ctx)
	if err != nil {
		log.Fatalf("failed to list cells: %v", err)
	}

	wb := excelize.NewFile()
	defer wb.Close()
	if err := wb.SetSheetName(wb.GetSheetName(0), sheetName); err != nil {
		log.Fatalf("failed to name sheet: %v", err)
	}

	header := []interface{}{
		"Cell ID", "Status", "Incidents", "Reports", "Processed",
		"Mean Confidence", "Median Confidence",
	}
	if err := wb.SetSheetRow(sheetName, "A1", &header); err != nil {
		log.Fatalf("failed to write header: %v", err)
	}

	row := 2
	for _, cell := range cells {
		summary, err := summaries.Summarize(ctx, cell.ID)
		if err != nil {
			log.Fatalf("failed to summarize cell %s: %v", cell.ID, err)
		}
		values := []interface{}{
			string(summary.CellID),
			string(summary.Status),
			strings.Join(summary.Incidents, ", "),
			summary.ReportCount,
			summary.ProcessedCount,
			summary.MeanConfidence,
			summary.MedianConfidence,
		}
		axis := fmt.Sprintf("A%d", row)
		if err := wb.SetSheetRow(sheetName, axis, &values); err != nil {
			log.Fatalf("failed to write row for cell %s: %v", cell.ID, err)
		}
		row++
	}

	if err := wb.SaveAs(*out); err != nil {
		log.Fatalf("failed to save workbook: %v", err)
	}
	log.Printf("exported %d cells to %s", len(cells), *out)
}
