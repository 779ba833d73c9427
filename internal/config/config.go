// Package config holds the run options and their file/default layers.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Options are everything a scan run can be told to do. Flag values
// override the config file, which overrides the defaults.
type Options struct {
	DumpsDir     string `yaml:"dumps_dir"`
	ContextChars int    `yaml:"context_chars"`
	Proximity    int    `yaml:"proximity"`
	Workers      int    `yaml:"workers"`
	OutputDir    string `yaml:"output_dir"`
	OutputPrefix string `yaml:"output_prefix"`
}

// Default gets the options a bare run uses: sequential scan of
// ./dumps with the stock extraction windows, artifacts under ./data.
func Default() Options {
	return Options{
		DumpsDir:     "dumps",
		ContextChars: 50,
		Proximity:    6,
		Workers:      1,
		OutputDir:    "data",
	}
}

// Load reads a YAML config file over the defaults.
func Load(path string) (Options, error) {
	o := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return o, err
	}
	if err := yaml.Unmarshal(data, &o); err != nil {
		return o, errors.Wrapf(err, "parsing config %v", path)
	}
	return o, nil
}

// Validate rejects option combinations the pipeline can't run with.
func (o Options) Validate() error {
	if o.DumpsDir == "" {
		return errors.New("dumps_dir must not be empty")
	}
	if o.OutputDir == "" {
		return errors.New("output_dir must not be empty")
	}
	if o.ContextChars < 0 {
		return errors.Errorf("context_chars must be >= 0, got %d", o.ContextChars)
	}
	if o.Proximity < 0 {
		return errors.Errorf("proximity must be >= 0, got %d", o.Proximity)
	}
	if o.Workers != -1 && o.Workers < 1 {
		return errors.Errorf("workers must be >= 1, or -1 for all CPUs, got %d", o.Workers)
	}
	return nil
}
