package adapter

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	m "mdcmigrate.dev/pkg/mdcmigrate/internal/model"
)

// ReportStore persists migration summaries.
type ReportStore interface {
	SaveReport(path m.Path, summary m.Summary) error
	LoadReport(path m.Path) (m.Summary, error)
}

type yamlReportStore struct{}

// NewReportStore returns a ReportStore that writes YAML files.
func NewReportStore() ReportStore {
	return &yamlReportStore{}
}

func (s *yamlReportStore) SaveReport(path m.Path, summary m.Summary) error {
	files := make([]m.FileResult, len(summary.Files))
	copy(files, summary.Files)

	for i := range files {
		if files[i].Err != nil {
			files[i].Error = files[i].Err.Error()
		}
	}

	summary.Files = files

	data, err := yaml.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(string(path)), 0o750); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}

	if err := os.WriteFile(string(path), data, 0o600); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}

	return nil
}

func (s *yamlReportStore) LoadReport(path m.Path) (m.Summary, error) {
	data, err := os.ReadFile(string(path))
	if err != nil {
		return m.Summary{}, fmt.Errorf("read report %s: %w", path, err)
	}

	var summary m.Summary
	if err := yaml.Unmarshal(data, &summary); err != nil {
		return m.Summary{}, fmt.Errorf("decode report %s: %w", path, err)
	}

	return summary, nil
}
