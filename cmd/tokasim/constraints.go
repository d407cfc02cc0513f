package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/cpmech/gosl/chk"
	"gopkg.in/yaml.v3"
)

// loadConstraints reads a species-label -> boundary-value map (spec §6
// "update(constraints)"). An empty path is valid: Update then runs with no
// overrides, using each species' own edge value as before.
func loadConstraints(path string) (map[string]float64, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, chk.Err("loading constraints %s: %v", path, err)
	}
	m := make(map[string]float64)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, &m)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &m)
	default:
		return nil, chk.Err("unsupported constraints file extension %q (want .json, .yaml/.yml)", ext)
	}
	if err != nil {
		return nil, chk.Err("parsing constraints %s: %v", path, err)
	}
	return m, nil
}
