package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/mandelgen/internal/analysis"
	"github.com/san-kum/mandelgen/internal/fractal"
)

// ExportData is the full escape-step report of one render.
type ExportData struct {
	Render    *RenderMetadata  `json:"render"`
	Summary   analysis.Summary `json:"summary"`
	Histogram []int            `json:"histogram"`
}

func NewExportData(meta *RenderMetadata, grid *fractal.Grid) (*ExportData, error) {
	sum, err := analysis.Summarize(grid)
	if err != nil {
		return nil, err
	}
	hist := make([]int, len(grid.Hist))
	copy(hist, grid.Hist)
	return &ExportData{Render: meta, Summary: sum, Histogram: hist}, nil
}

func ExportJSON(path string, data *ExportData) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, data)
}

func WriteJSON(w io.Writer, data *ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
