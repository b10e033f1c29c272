package application

import (
	"fmt"

	"github.com/dockcheck/dockcheck/internal/domain"
)

// HistoryService reads past validation runs.
type HistoryService struct {
	history domain.RunHistory
}

func NewHistoryService(history domain.RunHistory) *HistoryService {
	return &HistoryService{history: history}
}

// Recent returns up to limit of the latest runs, oldest first. limit <= 0
// returns all.
func (s *HistoryService) Recent(outputDir string, limit int) ([]domain.RunEntry, error) {
	entries, err := s.history.Load(outputDir)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	return entries, nil
}
