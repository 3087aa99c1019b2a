package storage

import (
	"io"

	"github.com/san-kum/somsim/internal/experiment"
	"github.com/san-kum/somsim/internal/model"
	"gonum.org/v1/gonum/spatial/r2"
)

type ExportData struct {
	Substance string              `json:"substance"`
	Seed      int64               `json:"seed"`
	FPS       float64             `json:"fps"`
	Duration  float64             `json:"duration"`
	Frames    int                 `json:"frames"`
	Series    []model.Snapshot    `json:"series"`
	Events    []experiment.Record `json:"events"`
	Metrics   map[string]float64  `json:"metrics"`
	Positions []Position          `json:"positions"`
}

type Position struct {
	X float64 `json:"x_pm"`
	Y float64 `json:"y_pm"`
}

func NewExportData(result *experiment.Result) ExportData {
	data := ExportData{
		Frames:    result.Frames,
		Series:    result.Snapshots,
		Events:    result.Events,
		Metrics:   result.Metrics,
		Positions: toPositions(result.Positions),
	}
	if result.Config != nil {
		data.Substance = result.Config.Substance
		data.Seed = result.Config.Seed
		data.FPS = result.Config.FPS
		data.Duration = result.Config.Duration
	}
	return data
}

// ExportJSON writes the whole run as one indented JSON document.
func ExportJSON(w io.Writer, result *experiment.Result) error {
	return encodeJSON(w, NewExportData(result))
}

func toPositions(vs []r2.Vec) []Position {
	out := make([]Position, len(vs))
	for i, v := range vs {
		out[i] = Position{X: v.X, Y: v.Y}
	}
	return out
}
