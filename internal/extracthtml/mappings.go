package extracthtml

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadMappingFile loads and validates a JSON mapping file.
func LoadMappingFile(path string) (*MappingFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mappings file: %w", err)
	}

	var mf MappingFile
	if err := json.Unmarshal(b, &mf); err != nil {
		return nil, fmt.Errorf("parse mappings json: %w", err)
	}

	if err := mf.Validate(); err != nil {
		return nil, err
	}
	return &mf, nil
}

// Validate checks that the file has mappings and that every selector and
// regex compiles.
func (mf *MappingFile) Validate() error {
	if len(mf.Mappings) == 0 {
		return fmt.Errorf("mappings file has no mappings")
	}
	if mf.RecordSelector != "" {
		if _, err := CompileSelector(mf.RecordSelector); err != nil {
			return err
		}
	}
	for _, m := range mf.Mappings {
		if m.JSONPath == "" {
			return fmt.Errorf("mapping for selector %q has no json_path", m.Selector)
		}
		if _, err := CompileSelector(m.Selector); err != nil {
			return err
		}
		if _, err := compileOptionalRegex(m.Match, m.JSONPath); err != nil {
			return err
		}
		switch m.Pick {
		case "", PickFirst, PickLast:
		default:
			return fmt.Errorf("mapping %q: unknown pick %q", m.JSONPath, m.Pick)
		}
	}
	return nil
}
