package history

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/dockcheck/dockcheck/internal/domain"
)

const historyFile = ".dockcheck/history/runs.json"

// FileHistory implements domain.RunHistory using JSON file storage under
// the run's output directory.
type FileHistory struct{}

func New() *FileHistory {
	return &FileHistory{}
}

// Path is where runs for outputDir are recorded.
func Path(outputDir string) string {
	return filepath.Join(outputDir, historyFile)
}

func (h *FileHistory) Save(outputDir string, entry domain.RunEntry) error {
	entries, err := h.Load(outputDir)
	if err != nil {
		return err
	}

	entries = append(entries, entry)

	fp := Path(outputDir)
	if err := os.MkdirAll(filepath.Dir(fp), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(fp, data, 0644)
}

// Load returns recorded runs oldest first, or nil when there are none.
func (h *FileHistory) Load(outputDir string) ([]domain.RunEntry, error) {
	data, err := os.ReadFile(Path(outputDir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var entries []domain.RunEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}

	return entries, nil
}
