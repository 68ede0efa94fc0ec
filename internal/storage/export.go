package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/erisim/internal/sim"
)

type ExportData struct {
	Run    RunMetadata `json:"run"`
	Frames []sim.Frame `json:"frames,omitempty"`
}

// Export writes a run as indented JSON to path, or to stdout when path is
// empty or "-".
func (s *Store) Export(runID, path string, withFrames bool) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}

	data := ExportData{Run: *meta}
	if withFrames {
		if data.Frames, err = s.LoadTrajectory(runID); err != nil {
			return err
		}
	}

	if path == "" || path == "-" {
		return encode(os.Stdout, data)
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return encode(file, data)
}

func encode(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
