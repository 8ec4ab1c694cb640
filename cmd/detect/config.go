package main

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the subset of detect.Options a user may want to
// pin down in a YAML file instead of retyping on every invocation.
// Flags explicitly set on the command line still win, matching the
// flag-first convention the teacher's CLI uses for every setting.
type fileConfig struct {
	ScaleFactor  float64 `yaml:"scaleFactor"`
	MinNeighbors int     `yaml:"minNeighbors"`
	MinWidth     int     `yaml:"minWidth"`
	MinHeight    int     `yaml:"minHeight"`
}

// loadConfig reads a YAML overlay file. An empty path is not an error:
// callers pass "" to skip loading entirely and get a nil config. A path
// that cannot be read is an error.
func loadConfig(path string) (*fileConfig, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not read config file")
	}

	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "could not parse config file")
	}
	return &cfg, nil
}
