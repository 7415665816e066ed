// =============================================================================
// Broker Helper - Configuration Module
// =============================================================================
//
// This module loads and manages the application configuration. One YAML file
// (config.yaml by default) carries everything: output directories, splitter
// behavior, reject-report annotations, and the filing-API connection.
//
// ARCHITECTURE:
//   The configuration system is designed to be:
//   - Flat: one file, plain structs, no hidden global lookups
//   - Defaulted: every unset option gets a documented default on load
//   - Validated: directories are created and numeric options checked on load
//
// Lookup tables that used to be module-level state in earlier revisions of
// this toolkit (MID exemption list, reject side-notes) live here as
// configuration data and are passed into the components that need them.
//
// =============================================================================

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the application configuration, loaded from config.yaml.
type MainConfig struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// OutputDir is where split-run folders are created.
	// Default: "./splitted_excels"
	OutputDir string `yaml:"output_dir"`

	// RejectReportDir is where reject-code text reports are written.
	// Default: "./generated_txts"
	RejectReportDir string `yaml:"reject_report_dir"`

	// DebugDir is where the filing client persists the last payload and
	// reply for support.
	// Default: "./debug"
	DebugDir string `yaml:"debug_dir"`

	// =========================================================================
	// SPLITTER SETTINGS
	// =========================================================================

	// Splitter controls the Excel reshaping engine.
	Splitter SplitterConfig `yaml:"splitter"`

	// =========================================================================
	// REJECT SCRAPER SETTINGS
	// =========================================================================

	// RejectNotes maps reason codes to the human-readable side-note printed
	// in the report header for that code. Entries here override the built-in
	// table; unknown codes get a blank note.
	RejectNotes map[string]string `yaml:"reject_notes"`

	// =========================================================================
	// FILING API SETTINGS
	// =========================================================================

	// Filing configures the customs-filing REST API client.
	Filing FilingConfig `yaml:"filing"`
}

// SplitterConfig controls chunking and value-repair behavior.
type SplitterConfig struct {
	// RowsPerChunk bounds each output workbook. Below 600 rows the suffix
	// sequence switches to two files per letter (A1, A2, B1, ...).
	// Default: 495
	RowsPerChunk int `yaml:"rows_per_chunk"`

	// ValueFloor is the minimum Total_Line_Value; rows below it are bumped
	// to the floor and logged to the adjustment workbook. Earlier revisions
	// of this toolkit used 1.00; the current filing requirement is 0.51.
	// Set to 0 to disable clamping. A pointer so an explicit 0 in the file
	// is not mistaken for "unset".
	// Default: 0.51
	ValueFloor *float64 `yaml:"value_floor"`

	// SkipMIDRepair disables the address-derived MID digit repair and its
	// tab-separated audit report. Repair is on by default.
	SkipMIDRepair bool `yaml:"skip_mid_repair"`

	// ExemptMIDs are full MID strings never rewritten by the repairer.
	ExemptMIDs []string `yaml:"exempt_mids"`

	// TemplateFile is the reference workbook whose first row defines the
	// output column order and titles. Loaded read-only, never modified.
	// Default: "./Resources/ExcelSplitter/Header Sample.xlsx"
	TemplateFile string `yaml:"template_file"`
}

// FilingConfig holds the filing-API connection settings.
type FilingConfig struct {
	// BaseURL is the API root, e.g. "https://cert-api.acelynk.com".
	BaseURL string `yaml:"base_url"`

	// Username and Password feed the password-grant token request.
	Username string `yaml:"username"`
	Password string `yaml:"password"`

	// AuthTimeoutSeconds bounds the token request. Default: 15.
	AuthTimeoutSeconds int `yaml:"auth_timeout_seconds"`

	// SubmitTimeoutSeconds bounds the entry POST. Default: 30.
	SubmitTimeoutSeconds int `yaml:"submit_timeout_seconds"`
}

// =============================================================================
// CONFIGURATION LOADING
// =============================================================================

// LoadMainConfig loads the configuration from a YAML file, applies defaults,
// and validates it. A missing file is not an error: the defaults alone form
// a usable configuration for the offline commands.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	var config MainConfig

	data, err := os.ReadFile(configPath)
	switch {
	case os.IsNotExist(err):
		// Fall through to defaults.
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyMainConfigDefaults(&config)

	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// applyMainConfigDefaults sets default values for any unset options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.OutputDir == "" {
		config.OutputDir = "./splitted_excels"
	}
	if config.RejectReportDir == "" {
		config.RejectReportDir = "./generated_txts"
	}
	if config.DebugDir == "" {
		config.DebugDir = "./debug"
	}

	if config.Splitter.RowsPerChunk == 0 {
		config.Splitter.RowsPerChunk = 495
	}
	if config.Splitter.ValueFloor == nil {
		floor := 0.51
		config.Splitter.ValueFloor = &floor
	}
	if config.Splitter.TemplateFile == "" {
		config.Splitter.TemplateFile = "./Resources/ExcelSplitter/Header Sample.xlsx"
	}
	if config.Splitter.ExemptMIDs == nil {
		config.Splitter.ExemptMIDs = []string{"CNGUAJIA163GUA"}
	}

	if config.Filing.AuthTimeoutSeconds == 0 {
		config.Filing.AuthTimeoutSeconds = 15
	}
	if config.Filing.SubmitTimeoutSeconds == 0 {
		config.Filing.SubmitTimeoutSeconds = 30
	}
}

// validateMainConfig checks numeric options and creates output directories.
func validateMainConfig(config *MainConfig) error {
	if config.Splitter.RowsPerChunk < 0 {
		return fmt.Errorf("rows_per_chunk must be positive, got %d", config.Splitter.RowsPerChunk)
	}
	if *config.Splitter.ValueFloor < 0 {
		return fmt.Errorf("value_floor must not be negative, got %v", *config.Splitter.ValueFloor)
	}

	dirs := []string{
		config.OutputDir,
		config.RejectReportDir,
		config.DebugDir,
	}
	for _, dir := range dirs {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", dir, err)
			}
		}
	}

	return nil
}
