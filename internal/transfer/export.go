// Package transfer moves registry contents in and out of files.
package transfer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/jeanpaul/feedbackloop/internal/types"
)

// Snapshot is the file layout for YAML and JSON exports.
type Snapshot struct {
	Developers []types.Developer `json:"developers" yaml:"developers"`
	Feedback   []types.Feedback  `json:"feedback,omitempty" yaml:"feedback,omitempty"`
}

const (
	developersSheet = "developers"
	feedbackSheet   = "feedback"
)

// Export writes both collections to path, picking the format from the
// file extension (.xlsx, .yaml, .yml, .json).
func Export(path string, devs []types.Developer, fb []types.Feedback) error {
	snap := Snapshot{Developers: devs, Feedback: fb}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx":
		return exportExcel(path, snap)
	case ".yaml", ".yml":
		data, err := yaml.Marshal(snap)
		if err != nil {
			return err
		}
		return os.WriteFile(path, data, 0644)
	case ".json":
		data, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return err
		}
		return os.WriteFile(path, append(data, '\n'), 0644)
	default:
		return fmt.Errorf("unsupported export format %q (use .xlsx, .yaml or .json)", ext)
	}
}

func exportExcel(path string, snap Snapshot) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", developersSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(feedbackSheet); err != nil {
		return err
	}

	devRows := [][]any{{"devId", "name", "project"}}
	for _, d := range snap.Developers {
		devRows = append(devRows, []any{d.ID, d.Name, d.Project})
	}
	if err := writeRows(f, developersSheet, devRows); err != nil {
		return err
	}

	fbRows := [][]any{{"feedbackId", "devId", "feedbackText", "timestamp"}}
	for _, fb := range snap.Feedback {
		fbRows = append(fbRows, []any{fb.ID, fb.DevID, fb.Text, fb.Timestamp.Format(time.RFC3339)})
	}
	if err := writeRows(f, feedbackSheet, fbRows); err != nil {
		return err
	}

	return f.SaveAs(path)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("sheet %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
