package main

import (
	"os"
	"reflect"
	"testing"
)

// TestLoadConfigValid tests loading a valid configuration file.
//
// Rationale: This is the happy path test that ensures the basic configuration
// loading functionality works correctly with a well-formed config file.
func TestLoadConfigValid(t *testing.T) {
	validConfig := `
output: out/converted.csv
fields:
  - "entities,hashtags,0,text"
  - "lang"
no_time_columns: true
dedupe: true
dedupe_expected: 500000
publish_mq: true
mq_host: mq.example.com
mq_port: 5673
mq_user: extractor
mq_password: secret
mq_queue: tweet_in
log_dir: ../logs
verbose: true
`

	tmpFile := createTempConfigFile(t, validConfig)
	defer os.Remove(tmpFile.Name())

	cfg, err := loadConfig(tmpFile.Name())
	if err != nil {
		t.Fatalf("Expected no error loading valid config, got: %v", err)
	}

	if cfg.Output != "out/converted.csv" {
		t.Errorf("Expected Output to be 'out/converted.csv', got '%s'", cfg.Output)
	}
	wantFields := []string{"entities,hashtags,0,text", "lang"}
	if !reflect.DeepEqual(cfg.Fields, wantFields) {
		t.Errorf("Expected Fields to be %v, got %v", wantFields, cfg.Fields)
	}
	if !cfg.NoTimeColumns {
		t.Error("Expected NoTimeColumns to be true")
	}
	if !cfg.Dedupe {
		t.Error("Expected Dedupe to be true")
	}
	if cfg.DedupeExpected != 500000 {
		t.Errorf("Expected DedupeExpected to be 500000, got %d", cfg.DedupeExpected)
	}
	if !cfg.PublishMQ {
		t.Error("Expected PublishMQ to be true")
	}
	if cfg.MQHost != "mq.example.com" {
		t.Errorf("Expected MQHost to be 'mq.example.com', got '%s'", cfg.MQHost)
	}
	if cfg.MQPort != 5673 {
		t.Errorf("Expected MQPort to be 5673, got %d", cfg.MQPort)
	}
	if cfg.MQUser != "extractor" {
		t.Errorf("Expected MQUser to be 'extractor', got '%s'", cfg.MQUser)
	}
	if cfg.MQQueue != "tweet_in" {
		t.Errorf("Expected MQQueue to be 'tweet_in', got '%s'", cfg.MQQueue)
	}
	if cfg.LogDir != "../logs" {
		t.Errorf("Expected LogDir to be '../logs', got '%s'", cfg.LogDir)
	}
	if !cfg.Verbose {
		t.Error("Expected Verbose to be true")
	}
}

// TestLoadConfigKeepsDefaults tests that keys absent from the config file
// keep their built-in defaults.
//
// Rationale: The config file is an overlay, not a replacement. A minimal
// file must still produce a runnable configuration.
func TestLoadConfigKeepsDefaults(t *testing.T) {
	minimalConfig := `
verbose: true
`

	tmpFile := createTempConfigFile(t, minimalConfig)
	defer os.Remove(tmpFile.Name())

	cfg, err := loadConfig(tmpFile.Name())
	if err != nil {
		t.Fatalf("Expected no error loading config, got: %v", err)
	}

	if cfg.Output != "tweets.csv" {
		t.Errorf("Expected default Output 'tweets.csv', got '%s'", cfg.Output)
	}
	if cfg.MQHost != "localhost" {
		t.Errorf("Expected default MQHost 'localhost', got '%s'", cfg.MQHost)
	}
	if cfg.MQPort != 5672 {
		t.Errorf("Expected default MQPort 5672, got %d", cfg.MQPort)
	}
	if cfg.MQQueue != "tweet_in" {
		t.Errorf("Expected default MQQueue 'tweet_in', got '%s'", cfg.MQQueue)
	}
	if !cfg.Verbose {
		t.Error("Expected Verbose override to be true")
	}
}

// TestLoadConfigInvalidYAML tests that loading an invalid YAML file fails.
//
// Rationale: The system should gracefully handle malformed YAML files and
// provide meaningful error messages rather than crashing.
func TestLoadConfigInvalidYAML(t *testing.T) {
	invalidYAML := `
output: tweets.csv
fields: [one, two,  # Missing closing bracket
`

	tmpFile := createTempConfigFile(t, invalidYAML)
	defer os.Remove(tmpFile.Name())

	_, err := loadConfig(tmpFile.Name())
	if err == nil {
		t.Fatal("Expected error loading invalid YAML, got nil")
	}
}

// TestLoadConfigNonexistentFile tests that loading a nonexistent file fails.
//
// Rationale: The system should handle missing config files gracefully and
// provide clear error messages to help with debugging.
func TestLoadConfigNonexistentFile(t *testing.T) {
	_, err := loadConfig("/nonexistent/path/config.yaml")
	if err == nil {
		t.Fatal("Expected error loading nonexistent file, got nil")
	}
}

// TestParseCommandLineDefaults tests a bare command line.
//
// Rationale: With nothing but input files given, every option must come
// out as its built-in default.
func TestParseCommandLineDefaults(t *testing.T) {
	cfg, err := parseCommandLine([]string{"day1.jsonl", "day2.jsonl.gz"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if cfg.Output != "tweets.csv" {
		t.Errorf("Expected default Output 'tweets.csv', got '%s'", cfg.Output)
	}
	if cfg.NoDefaults || cfg.NoTimeColumns || cfg.Dedupe || cfg.PublishMQ || cfg.Verbose {
		t.Error("Expected all boolean options to default to false")
	}
	wantFiles := []string{"day1.jsonl", "day2.jsonl.gz"}
	if !reflect.DeepEqual(cfg.InputFiles, wantFiles) {
		t.Errorf("Expected InputFiles %v, got %v", wantFiles, cfg.InputFiles)
	}
}

// TestParseCommandLineRepeatableField tests that -field may be given many
// times and the order is preserved.
//
// Rationale: Column order in the output follows the order fields were
// asked for, so the flag parser must not reorder them.
func TestParseCommandLineRepeatableField(t *testing.T) {
	cfg, err := parseCommandLine([]string{
		"-field", "lang",
		"-field", "user,followers_count",
		"tweets.jsonl",
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	wantFields := []string{"lang", "user,followers_count"}
	if !reflect.DeepEqual(cfg.Fields, wantFields) {
		t.Errorf("Expected Fields %v, got %v", wantFields, cfg.Fields)
	}
}

// TestParseCommandLineFlagsOverrideConfigFile tests the precedence order:
// flags beat the config file, the config file beats defaults.
//
// Rationale: Users point at a shared config file and then tweak single
// options per run. A flag that is not given must not stomp on the file.
func TestParseCommandLineFlagsOverrideConfigFile(t *testing.T) {
	fileConfig := `
output: from_file.csv
dedupe: true
fields:
  - "lang"
`

	tmpFile := createTempConfigFile(t, fileConfig)
	defer os.Remove(tmpFile.Name())

	cfg, err := parseCommandLine([]string{
		"-config", tmpFile.Name(),
		"-output", "from_flag.csv",
		"-field", "source",
		"tweets.jsonl",
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if cfg.Output != "from_flag.csv" {
		t.Errorf("Expected flag to override Output, got '%s'", cfg.Output)
	}
	// Dedupe came only from the file and must survive.
	if !cfg.Dedupe {
		t.Error("Expected Dedupe from config file to survive flag parsing")
	}
	// Explicit -field flags replace the file's field list.
	wantFields := []string{"source"}
	if !reflect.DeepEqual(cfg.Fields, wantFields) {
		t.Errorf("Expected Fields %v, got %v", wantFields, cfg.Fields)
	}
}

// TestParseCommandLineBadConfigPath tests that a broken -config path is
// reported instead of silently ignored.
func TestParseCommandLineBadConfigPath(t *testing.T) {
	_, err := parseCommandLine([]string{"-config", "/no/such/config.yaml", "tweets.jsonl"})
	if err == nil {
		t.Fatal("Expected error for nonexistent config file, got nil")
	}
}

// TestValidateConfig tests the settings combinations a run refuses.
//
// Rationale: Validation is the last stop before file handles and broker
// connections are opened, so every nonsensical combination must be
// rejected here with a clear message.
func TestValidateConfig(t *testing.T) {
	base := func() *Config {
		cfg := defaultConfig()
		cfg.InputFiles = []string{"tweets.jsonl"}
		return cfg
	}

	testCases := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"no input files", func(c *Config) { c.InputFiles = nil }, true},
		{"empty output", func(c *Config) { c.Output = "" }, true},
		{"no_defaults without fields", func(c *Config) { c.NoDefaults = true }, true},
		{"no_defaults with fields", func(c *Config) {
			c.NoDefaults = true
			c.Fields = []string{"id"}
		}, false},
		{"publish without host", func(c *Config) {
			c.PublishMQ = true
			c.MQHost = ""
		}, true},
		{"publish with bad port", func(c *Config) {
			c.PublishMQ = true
			c.MQPort = -1
		}, true},
		{"publish without queue", func(c *Config) {
			c.PublishMQ = true
			c.MQQueue = ""
		}, true},
		{"publish fully configured", func(c *Config) { c.PublishMQ = true }, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(cfg)
			err := validateConfig(cfg)
			if tc.expectError && err == nil {
				t.Error("Expected validation error, got nil")
			}
			if !tc.expectError && err != nil {
				t.Errorf("Expected no validation error, got: %v", err)
			}
		})
	}
}

// TestEffectiveFieldSpecs tests how the default field set combines with
// requested fields.
//
// Rationale: The default columns make the tool useful with no arguments,
// extra fields append after them, and no_defaults drops them entirely.
func TestEffectiveFieldSpecs(t *testing.T) {
	cfg := defaultConfig()
	specs := cfg.EffectiveFieldSpecs()
	if len(specs) != 8 {
		t.Fatalf("Expected 8 default specs, got %d: %v", len(specs), specs)
	}
	if specs[0] != "id" || specs[7] != "text" {
		t.Errorf("Expected default specs to run id..text, got %v", specs)
	}

	cfg.Fields = []string{"lang"}
	specs = cfg.EffectiveFieldSpecs()
	if len(specs) != 9 || specs[8] != "lang" {
		t.Errorf("Expected extra field appended after defaults, got %v", specs)
	}

	cfg.NoDefaults = true
	specs = cfg.EffectiveFieldSpecs()
	if !reflect.DeepEqual(specs, []string{"lang"}) {
		t.Errorf("Expected only the explicit field with no_defaults, got %v", specs)
	}
}

// Helper function to create a temporary config file for testing
//
// Rationale: Tests need to create temporary config files to test various
// scenarios. This helper function ensures consistent file creation and cleanup.
func createTempConfigFile(t *testing.T, content string) *os.File {
	tmpFile, err := os.CreateTemp("", "config_test_*.yaml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}

	_, err = tmpFile.WriteString(content)
	if err != nil {
		t.Fatalf("Failed to write to temp file: %v", err)
	}

	err = tmpFile.Close()
	if err != nil {
		t.Fatalf("Failed to close temp file: %v", err)
	}

	return tmpFile
}
