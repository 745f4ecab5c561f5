package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"thawlab/internal/grid"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID           string    `json:"id"`
	Preset       string    `json:"preset"`
	Timestamp    time.Time `json:"timestamp"`
	Horizon      float64   `json:"horizon"`
	Steps        int       `json:"steps"`
	Samples      int       `json:"samples"`
	Tolerance    float64   `json:"tolerance"`
	HeatTransfer float64   `json:"heat_transfer"`
	Integrator   string    `json:"integrator"`
	Converged    int       `json:"converged"`
	Cells        int       `json:"cells"`
	MinTime      float64   `json:"min_time"`
	MaxTime      float64   `json:"max_time"`
}

// Save writes a run directory with metadata.json and grid.csv. The csv
// layout mirrors the result grid: the header row carries the ambient
// temperatures, each following row starts with its initial temperature.
func (s *Store) Save(preset, integrator string, cfg grid.Config, result *grid.Result) (string, error) {
	runID := fmt.Sprintf("grid_%d", time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	min, max, _ := result.MinMax()
	meta := RunMetadata{
		ID:           runID,
		Preset:       preset,
		Timestamp:    time.Now(),
		Horizon:      cfg.Horizon,
		Steps:        cfg.Steps,
		Samples:      cfg.Samples,
		Tolerance:    cfg.Tolerance,
		HeatTransfer: cfg.HeatTransferCoeff,
		Integrator:   integrator,
		Converged:    result.ConvergedCount(),
		Cells:        len(result.InitTemps) * len(result.AmbientTemps),
		MinTime:      min,
		MaxTime:      max,
	}

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvPath := filepath.Join(runDir, "grid.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, result); err != nil {
		return "", err
	}

	return runID, nil
}

// WriteCSV writes the grid in the run-directory layout to any writer.
func WriteCSV(out io.Writer, result *grid.Result) error {
	w := csv.NewWriter(out)

	header := []string{"init\\ambient"}
	for _, a := range result.AmbientTemps {
		header = append(header, strconv.FormatFloat(a, 'f', 4, 64))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i, tinit := range result.InitTemps {
		row := []string{strconv.FormatFloat(tinit, 'f', 4, 64)}
		for _, v := range result.Times[i] {
			row = append(row, strconv.FormatFloat(v, 'f', 4, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

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

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadGrid reads grid.csv back into a result.
func (s *Store) LoadGrid(runID string) (*grid.Result, error) {
	csvPath := filepath.Join(s.baseDir, runID, "grid.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 || len(records[0]) < 2 {
		return nil, fmt.Errorf("grid csv for %s is empty", runID)
	}

	result := &grid.Result{}
	for _, field := range records[0][1:] {
		a, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("bad ambient header %q: %w", field, err)
		}
		result.AmbientTemps = append(result.AmbientTemps, a)
	}

	for _, record := range records[1:] {
		if len(record) != len(records[0]) {
			return nil, fmt.Errorf("ragged grid row in %s", runID)
		}
		tinit, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, fmt.Errorf("bad init temp %q: %w", record[0], err)
		}
		result.InitTemps = append(result.InitTemps, tinit)

		row := make([]float64, 0, len(record)-1)
		for _, field := range record[1:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("bad grid value %q: %w", field, err)
			}
			row = append(row, v)
		}
		result.Times = append(result.Times, row)
	}

	return result, nil
}

// ExportJSON writes metadata plus the full grid as indented JSON.
func ExportJSON(out io.Writer, meta *RunMetadata, result *grid.Result) error {
	payload := struct {
		Meta *RunMetadata `json:"meta"`
		Grid *grid.Result `json:"grid"`
	}{meta, result}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
