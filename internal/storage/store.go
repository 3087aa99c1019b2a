// Package storage persists finished runs on disk, one directory per run
// holding the metadata, the snapshot series and the final atom positions.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/somsim/internal/config"
	"github.com/san-kum/somsim/internal/experiment"
	"github.com/san-kum/somsim/internal/model"
	"gonum.org/v1/gonum/spatial/r2"
)

var ErrRunNotFound = errors.New("run not found")

const (
	metadataFile = "metadata.json"
	seriesFile   = "series.csv"
	atomsFile    = "atoms.csv"
)

var seriesHeader = []string{
	"time", "substance", "phase", "temperature", "temperature_k", "set_point",
	"pressure", "pressure_atm", "container_height", "exploded", "molecules",
	"kinetic_energy", "potential_energy", "thermostat",
}

type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string              `json:"id"`
	Substance string              `json:"substance"`
	Phase     string              `json:"phase"`
	Timestamp time.Time           `json:"timestamp"`
	Seed      int64               `json:"seed"`
	FPS       float64             `json:"fps"`
	Duration  float64             `json:"duration"`
	Frames    int                 `json:"frames"`
	Exploded  bool                `json:"exploded"`
	Metrics   map[string]float64  `json:"metrics"`
	Events    []experiment.Record `json:"events,omitempty"`
	Config    *config.Config      `json:"config,omitempty"`
}

// Save writes a run under a fresh ID and returns that ID.
func (s *Store) Save(result *experiment.Result) (string, error) {
	if result == nil || result.Config == nil {
		return "", fmt.Errorf("save: result has no config")
	}
	now := s.now()
	runID := fmt.Sprintf("%s_%d", result.Config.Substance, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	final := result.Final()
	meta := RunMetadata{
		ID:        runID,
		Substance: result.Config.Substance,
		Phase:     final.Phase,
		Timestamp: now,
		Seed:      result.Config.Seed,
		FPS:       result.Config.FPS,
		Duration:  result.Config.Duration,
		Frames:    result.Frames,
		Exploded:  final.Exploded,
		Metrics:   result.Metrics,
		Events:    result.Events,
		Config:    result.Config,
	}
	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeCSV(filepath.Join(runDir, seriesFile), func(w *csv.Writer) error {
		return WriteSeries(w, result.Snapshots)
	}); err != nil {
		return "", err
	}
	if err := writeCSV(filepath.Join(runDir, atomsFile), func(w *csv.Writer) error {
		return writeAtoms(w, result.Positions)
	}); err != nil {
		return "", err
	}
	return runID, nil
}

// List returns the metadata of every readable run, newest first.
// Directories without valid metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(s.path(runID, metadataFile))
	if err != nil {
		return nil, notFound(runID, err)
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadSeries(runID string) ([]model.Snapshot, error) {
	records, err := s.readCSV(runID, seriesFile)
	if err != nil {
		return nil, err
	}
	return parseSeries(records)
}

// LoadPositions returns the final atom positions of a run, in picometers.
func (s *Store) LoadPositions(runID string) ([]r2.Vec, error) {
	records, err := s.readCSV(runID, atomsFile)
	if err != nil {
		return nil, err
	}
	out := make([]r2.Vec, 0, len(records))
	for i, rec := range records {
		if i == 0 || len(rec) < 2 {
			continue
		}
		x, errX := strconv.ParseFloat(rec[0], 64)
		y, errY := strconv.ParseFloat(rec[1], 64)
		if errX != nil || errY != nil {
			continue
		}
		out = append(out, r2.Vec{X: x, Y: y})
	}
	return out, nil
}

func (s *Store) path(runID, name string) string {
	return filepath.Join(s.baseDir, runID, name)
}

func (s *Store) readCSV(runID, name string) ([][]string, error) {
	file, err := os.Open(s.path(runID, name))
	if err != nil {
		return nil, notFound(runID, err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

func notFound(runID string, err error) error {
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return err
}

// WriteSeries writes snapshots as CSV with a header row.
func WriteSeries(w *csv.Writer, series []model.Snapshot) error {
	if err := w.Write(seriesHeader); err != nil {
		return err
	}
	for _, s := range series {
		row := []string{
			formatFloat(s.Time),
			s.Substance,
			s.Phase,
			formatFloat(s.Temperature),
			formatFloat(s.TemperatureKelvin),
			formatFloat(s.SetPoint),
			formatFloat(s.Pressure),
			formatFloat(s.PressureAtm),
			formatFloat(s.ContainerHeight),
			strconv.FormatBool(s.Exploded),
			strconv.Itoa(s.Molecules),
			formatFloat(s.KineticEnergy),
			formatFloat(s.PotentialEnergy),
			s.Thermostat,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func parseSeries(records [][]string) ([]model.Snapshot, error) {
	if len(records) < 2 {
		return []model.Snapshot{}, nil
	}
	out := make([]model.Snapshot, 0, len(records)-1)
	for i, rec := range records[1:] {
		if len(rec) != len(seriesHeader) {
			return nil, fmt.Errorf("series row %d: %d fields, want %d", i+1, len(rec), len(seriesHeader))
		}
		var (
			s   model.Snapshot
			err error
		)
		p := floatParser{fields: rec}
		s.Time = p.at(0)
		s.Substance = rec[1]
		s.Phase = rec[2]
		s.Temperature = p.at(3)
		s.TemperatureKelvin = p.at(4)
		s.SetPoint = p.at(5)
		s.Pressure = p.at(6)
		s.PressureAtm = p.at(7)
		s.ContainerHeight = p.at(8)
		if s.Exploded, err = strconv.ParseBool(rec[9]); err != nil {
			return nil, fmt.Errorf("series row %d: %w", i+1, err)
		}
		if s.Molecules, err = strconv.Atoi(rec[10]); err != nil {
			return nil, fmt.Errorf("series row %d: %w", i+1, err)
		}
		s.KineticEnergy = p.at(11)
		s.PotentialEnergy = p.at(12)
		s.Thermostat = rec[13]
		if p.err != nil {
			return nil, fmt.Errorf("series row %d: %w", i+1, p.err)
		}
		out = append(out, s)
	}
	return out, nil
}

type floatParser struct {
	fields []string
	err    error
}

func (p *floatParser) at(i int) float64 {
	v, err := strconv.ParseFloat(p.fields[i], 64)
	if err != nil && p.err == nil {
		p.err = err
	}
	return v
}

func writeAtoms(w *csv.Writer, positions []r2.Vec) error {
	if err := w.Write([]string{"x_pm", "y_pm"}); err != nil {
		return err
	}
	for _, p := range positions {
		if err := w.Write([]string{formatFloat(p.X), formatFloat(p.Y)}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeCSV(path string, fill func(*csv.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return fill(csv.NewWriter(f))
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return encodeJSON(f, v)
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
