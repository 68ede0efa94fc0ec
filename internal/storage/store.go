// Package storage persists finished runs as a directory per run holding
// metadata.json and trajectory.csv.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/erisim/internal/astro"
	"github.com/san-kum/erisim/internal/celestial"
	"github.com/san-kum/erisim/internal/sim"
	"go.uber.org/zap"
)

var ErrMalformedTrajectory = errors.New("storage: malformed trajectory")

var trajectoryHeader = []string{
	"time", "body_id", "body",
	"px", "py", "pz",
	"vx", "vy", "vz",
	"qw", "qx", "qy", "qz",
}

type Store struct {
	baseDir string
	log     *zap.Logger
	now     func() time.Time
}

func New(baseDir string, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{baseDir: baseDir, log: log, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// Session identifies what was run.
type Session struct {
	Name      string
	Dt        float64
	Duration  float64
	Constants astro.Constants
}

type BodyInfo struct {
	ID     int     `json:"id"`
	Name   string  `json:"name"`
	Mass   float64 `json:"mass"`
	Radius float64 `json:"radius"`
}

type RunMetadata struct {
	ID              string             `json:"id"`
	Name            string             `json:"name"`
	Timestamp       time.Time          `json:"timestamp"`
	Dt              float64            `json:"dt"`
	Duration        float64            `json:"duration"`
	Steps           int                `json:"steps"`
	Frames          int                `json:"frames"`
	Constants       astro.Constants    `json:"constants"`
	Bodies          []BodyInfo         `json:"bodies"`
	EnergyDrift     *float64           `json:"energy_drift,omitempty"`
	DegeneratePairs int                `json:"degenerate_pairs"`
	Metrics         map[string]float64 `json:"metrics"`
}

func (s *Store) Save(session Session, result *sim.Result) (string, error) {
	now := s.now()
	runID := fmt.Sprintf("%s_%d", session.Name, now.UnixMilli())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:              runID,
		Name:            session.Name,
		Timestamp:       now,
		Dt:              session.Dt,
		Duration:        session.Duration,
		Steps:           result.StepsTaken,
		Frames:          len(result.Frames),
		Constants:       session.Constants,
		DegeneratePairs: result.DegeneratePairs,
		Metrics:         make(map[string]float64, len(result.Metrics)),
	}
	// JSON has no representation for NaN or Inf.
	for name, v := range result.Metrics {
		if !finite(v) {
			s.log.Debug("dropping non-finite metric", zap.String("metric", name), zap.Float64("value", v))
			continue
		}
		meta.Metrics[name] = v
	}
	if drift := result.EnergyDrift; finite(drift) {
		meta.EnergyDrift = &drift
	} else {
		s.log.Warn("dropping non-finite energy drift", zap.String("run", runID), zap.Float64("value", drift))
	}
	if len(result.Frames) > 0 {
		for _, b := range result.Frames[0].Bodies {
			meta.Bodies = append(meta.Bodies, BodyInfo{ID: b.ID, Name: b.Name, Mass: b.Mass, Radius: b.Radius})
		}
	}

	if err := writeRun(runDir, meta, result.Frames); err != nil {
		if rmErr := os.RemoveAll(runDir); rmErr != nil {
			s.log.Error("failed to remove partial run", zap.String("dir", runDir), zap.Error(rmErr))
		}
		return "", fmt.Errorf("save run %s: %w", runID, err)
	}

	s.log.Info("saved run",
		zap.String("run", runID),
		zap.Int("frames", len(result.Frames)),
		zap.String("dir", runDir),
	)
	return runID, nil
}

func writeRun(runDir string, meta RunMetadata, frames []sim.Frame) error {
	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return err
	}
	return writeTrajectory(filepath.Join(runDir, "trajectory.csv"), frames)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func writeTrajectory(path string, frames []sim.Frame) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(trajectoryHeader); err != nil {
		return err
	}

	for _, frame := range frames {
		for _, b := range frame.Bodies {
			q := b.Orientation
			row := []string{
				formatFloat(frame.Time), strconv.Itoa(b.ID), b.Name,
				formatFloat(b.Position[0]), formatFloat(b.Position[1]), formatFloat(b.Position[2]),
				formatFloat(b.Velocity[0]), formatFloat(b.Velocity[1]), formatFloat(b.Velocity[2]),
				formatFloat(q.W), formatFloat(q.V[0]), formatFloat(q.V[1]), formatFloat(q.V[2]),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}

// List returns every readable run, oldest first.
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
			s.log.Debug("skipping run directory", zap.String("dir", entry.Name()), zap.Error(err))
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadTrajectory reads the recorded frames of a run. Mass and radius come
// from the run metadata.
func (s *Store) LoadTrajectory(runID string) ([]sim.Frame, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	info := make(map[int]BodyInfo, len(meta.Bodies))
	for _, b := range meta.Bodies {
		info[b.ID] = b
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, "trajectory.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(trajectoryHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedTrajectory, err)
	}
	if len(records) < 2 {
		return []sim.Frame{}, nil
	}

	frames := make([]sim.Frame, 0, meta.Frames)
	for line, record := range records[1:] {
		st, t, err := parseRow(record)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedTrajectory, line+2, err)
		}
		if b, ok := info[st.ID]; ok {
			st.Mass, st.Radius = b.Mass, b.Radius
		}

		if n := len(frames); n == 0 || frames[n-1].Time != t {
			frames = append(frames, sim.Frame{Time: t})
		}
		last := &frames[len(frames)-1]
		last.Bodies = append(last.Bodies, st)
	}

	return frames, nil
}

func parseRow(record []string) (celestial.State, float64, error) {
	var st celestial.State

	t, err := strconv.ParseFloat(record[0], 64)
	if err != nil {
		return st, 0, err
	}
	if st.ID, err = strconv.Atoi(record[1]); err != nil {
		return st, 0, err
	}
	st.Name = record[2]

	vals := make([]float64, 10)
	for i := range vals {
		if vals[i], err = strconv.ParseFloat(record[3+i], 64); err != nil {
			return st, 0, err
		}
	}
	st.Position = mgl64.Vec3{vals[0], vals[1], vals[2]}
	st.Velocity = mgl64.Vec3{vals[3], vals[4], vals[5]}
	st.Orientation = mgl64.Quat{W: vals[6], V: mgl64.Vec3{vals[7], vals[8], vals[9]}}

	return st, t, nil
}
