// Command gridgen provisions the grid cell collection. The pipeline never
// creates cells; this tool is the external provisioning step it assumes.
//
// Either import a prebuilt grid file:
//
//	gridgen -file city_grid.json
//
// or generate a uniform grid over a bounding box:
//
//	gridgen -bbox "12.83,77.46,13.14,77.78" -rows 10 -cols 10 -prefix blr
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"civicpulse/adapters/postgres"
	"civicpulse/domain/core"
	"civicpulse/domain/geo"
)

// gridFile matches the prebuilt grid format: bounds are two corner pairs,
// [[min_lat, min_lon], [max_lat, max_lon]]
type gridFile []struct {
	ID     string       `json:"id"`
	Bounds [2][2]float64 `json:"bounds"`
}

func main() {
	_ = godotenv.Load()

	file := flag.String("file", "", "path to a prebuilt grid JSON file")
	bbox := flag.String("bbox", "", "bounding box: minLat,minLon,maxLat,maxLon")
	rows := flag.Int("rows", 10, "grid rows when generating")
	cols := flag.Int("cols", 10, "grid columns when generating")
	prefix := flag.String("prefix", "cell", "cell id prefix when generating")
	flag.Parse()

	url := os.Getenv("DATABASE_URL")
	if url == "" {
		log.Fatal("DATABASE_URL is required")
	}

	var cells []geo.GridCell
	var err error
	switch {
	case *file != "":
		cells, err = loadGridFile(*file)
	case *bbox != "":
		cells, err = generateGrid(*bbox, *rows, *cols, *prefix)
	default:
		log.Fatal("either -file or -bbox is required")
	}
	if err != nil {
		log.Fatalf("grid preparation failed: %v", err)
	}

	db, err := sqlx.Connect("postgres", url)
	if err != nil {
		log.Fatalf("failed to connect: %v", err)
	}
	defer db.Close()

	repo := postgres.NewCellRepository(db)
	ctx := context.Background()
	for _, cell := range cells {
		if err := repo.Insert(ctx, cell); err != nil {
			log.Fatalf("failed to insert cell %s: %v", cell.ID, err)
		}
	}
	log.Printf("provisioned %d grid cells", len(cells))
}

func loadGridFile(path string) ([]geo.GridCell, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read grid file: %w", err)
	}

	var entries gridFile
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse grid file: %w", err)
	}

	cells := make([]geo.GridCell, 0, len(entries))
	for _, e := range entries {
		cells = append(cells, geo.GridCell{
			ID: core.CellID(e.ID),
			Bounds: geo.Bounds{
				MinLat: e.Bounds[0][0],
				MinLon: e.Bounds[0][1],
				MaxLat: e.Bounds[1][0],
				MaxLon: e.Bounds[1][1],
			},
			Status: geo.CellStatusIdle,
		})
	}
	return cells, nil
}

func generateGrid(bbox string, rows, cols int, prefix string) ([]geo.GridCell, error) {
	parts := strings.Split(bbox, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("bbox must be minLat,minLon,maxLat,maxLon")
	}
	coords := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("bbox component %d: %w", i, err)
		}
		coords[i] = v
	}
	minLat, minLon, maxLat, maxLon := coords[0], coords[1], coords[2], coords[3]
	if maxLat <= minLat || maxLon <= minLon || rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("degenerate grid parameters")
	}

	latStep := (maxLat - minLat) / float64(rows)
	lonStep := (maxLon - minLon) / float64(cols)

	cells := make([]geo.GridCell, 0, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			cells = append(cells, geo.GridCell{
				ID: core.CellID(fmt.Sprintf("%s_%d_%d", prefix, r, c)),
				Bounds: geo.Bounds{
					MinLat: minLat + float64(r)*latStep,
					MinLon: minLon + float64(c)*lonStep,
					MaxLat: minLat + float64(r+1)*latStep,
					MaxLon: minLon + float64(c+1)*lonStep,
				},
				Status: geo.CellStatusIdle,
			})
		}
	}
	return cells, nil
}
