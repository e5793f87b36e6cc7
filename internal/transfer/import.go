package transfer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jeanpaul/feedbackloop/internal/schema"
	"github.com/jeanpaul/feedbackloop/internal/types"
)

var validator = schema.NewValidator()

// LoadDevelopers reads a developer import file (.yaml, .yml or .json) and
// validates it before decoding. Order in the file is preserved.
func LoadDevelopers(path string) ([]types.Developer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var (
		raw       any
		unmarshal func([]byte, any) error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		unmarshal = yaml.Unmarshal
	case ".json":
		unmarshal = json.Unmarshal
	default:
		return nil, fmt.Errorf("unsupported import format %q (use .yaml or .json)", ext)
	}

	if err := unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := validator.Validate(schema.DeveloperImport, raw); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var snap Snapshot
	if err := unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return snap.Developers, nil
}
