// Package config defines the report job configuration and its loading hooks.
//
// Conventions:
// - New() builds a Config with defaults; Load layers file and env on top.
// - External errors are wrapped with this package's sentinel errors.
package config

import (
	"path/filepath"
)

// Config contains process configuration. It is fixed before a run starts.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// DataDir is the directory holding the four input files.
	DataDir string `koanf:"data_dir"`

	// Input file names, relative to DataDir unless absolute.
	PersonsSmallFile  string `koanf:"persons_small_file"`
	PersonsLargeFile  string `koanf:"persons_large_file"`
	ContactsSmallFile string `koanf:"contacts_small_file"`
	ContactsLargeFile string `koanf:"contacts_large_file"`

	// OutputDir is created when missing; OutputFile is the xlsx name in it.
	OutputDir  string `koanf:"output_dir"`
	OutputFile string `koanf:"output_file"`

	// KeepOriginalColumns strips derived working columns from every sheet,
	// leaving only ID, Name and Age.
	KeepOriginalColumns bool `koanf:"keep_original_columns"`

	// SummaryLimit caps the rows of the console gap summary.
	SummaryLimit int `koanf:"summary_limit"`

	// MetricsFile, when set, receives a Prometheus textfile dump after the run.
	MetricsFile string `koanf:"metrics_file"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		DataDir:             "data",
		PersonsSmallFile:    "small_data_persons.json",
		PersonsLargeFile:    "big_data_persons.json",
		ContactsSmallFile:   "small_data_contracts.json",
		ContactsLargeFile:   "big_data_contracts.json",
		OutputDir:           "output",
		OutputFile:          "output.xlsx",
		KeepOriginalColumns: true,
		SummaryLimit:        10,
	}
}

// InputPath resolves an input file name against DataDir.
func (c *Config) InputPath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}

// OutputPath returns the full path of the report workbook.
func (c *Config) OutputPath() string {
	return filepath.Join(c.OutputDir, c.OutputFile)
}
