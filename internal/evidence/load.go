package evidence

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type rawSet struct {
	Entries []Entry `yaml:"entries" json:"entries"`
}

// Load reads an evidence file. The file is either a bare list of entries
// or a document with a top-level "entries" key; JSON is accepted for
// .json files, YAML otherwise.
func Load(path string) (Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Set{}, fmt.Errorf("read evidence: %w", err)
	}

	var entries []Entry
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &entries); err != nil {
			var wrapped rawSet
			if err2 := json.Unmarshal(data, &wrapped); err2 != nil {
				return Set{}, fmt.Errorf("parse evidence json: %w", err)
			}
			entries = wrapped.Entries
		}
	} else {
		if err := yaml.Unmarshal(data, &entries); err != nil {
			var wrapped rawSet
			if err2 := yaml.Unmarshal(data, &wrapped); err2 != nil {
				return Set{}, fmt.Errorf("parse evidence yaml: %w", err)
			}
			entries = wrapped.Entries
		}
	}

	return Set{Entries: Canonicalize(entries)}, nil
}
