package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"json2csv/src/tweets"

	"gopkg.in/yaml.v3"
)

// Config holds every knob the extractor accepts. Values are layered:
// built-in defaults first, then an optional YAML config file, then
// command line flags. Later layers win.
type Config struct {
	Output        string   `yaml:"output"`
	Fields        []string `yaml:"fields"`
	NoDefaults    bool     `yaml:"no_defaults"`
	NoTimeColumns bool     `yaml:"no_time_columns"`

	Dedupe         bool `yaml:"dedupe"`
	DedupeExpected uint `yaml:"dedupe_expected"`

	PublishMQ  bool   `yaml:"publish_mq"`
	MQHost     string `yaml:"mq_host"`
	MQPort     int    `yaml:"mq_port"`
	MQUser     string `yaml:"mq_user"`
	MQPassword string `yaml:"mq_password"`
	MQQueue    string `yaml:"mq_queue"`

	LogDir  string `yaml:"log_dir"`
	Verbose bool   `yaml:"verbose"`

	// InputFiles are the positional arguments, never read from YAML.
	InputFiles []string `yaml:"-"`
}

// defaultConfig returns the settings a run starts from before the
// config file and flags are applied.
func defaultConfig() *Config {
	return &Config{
		Output:     "tweets.csv",
		MQHost:     "localhost",
		MQPort:     5672,
		MQUser:     "guest",
		MQPassword: "guest",
		MQQueue:    "tweet_in",
	}
}

// loadConfig loads the YAML config file into a Config struct. Keys
// absent from the file keep their default values.
func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// stringList collects a repeatable string flag in the order given.
type stringList []string

func (s *stringList) String() string {
	return strings.Join(*s, " ")
}

func (s *stringList) Set(value string) error {
	*s = append(*s, value)
	return nil
}

// parseCommandLine turns args (the command line minus the program name)
// into a Config. Flags given explicitly override the config file, which
// overrides the built-in defaults. Remaining positional arguments are
// the input files.
func parseCommandLine(args []string) (*Config, error) {
	fs := flag.NewFlagSet("json2csv", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: json2csv [options] tweet-file [tweet-file ...]\n\nOptions:\n")
		fs.PrintDefaults()
	}

	var fields stringList
	fs.Var(&fields, "field", "Field path to extract, e.g. 'user,screen_name' (repeatable)")
	configPath := fs.String("config", "", "Path to YAML config file")
	output := fs.String("output", "", "Output CSV file path")
	noDefaults := fs.Bool("no-defaults", false, "Drop the built-in field set and extract only -field paths")
	noTimeColumns := fs.Bool("no-time-columns", false, "Do not append the six created_at clock columns")
	dedupe := fs.Bool("dedupe", false, "Suppress tweets whose id has already been seen")
	dedupeExpected := fs.Uint("dedupe-expected", 0, "Expected number of distinct ids; >0 switches dedupe to a Bloom filter")
	publishMQ := fs.Bool("publish-mq", false, "Also publish each CSV row to RabbitMQ")
	mqHost := fs.String("mq-host", "", "RabbitMQ host")
	mqPort := fs.Int("mq-port", 0, "RabbitMQ port")
	mqUser := fs.String("mq-user", "", "RabbitMQ username")
	mqPassword := fs.String("mq-password", "", "RabbitMQ password")
	mqQueue := fs.String("mq-queue", "", "RabbitMQ queue to publish rows to")
	logDir := fs.String("log-dir", "", "Directory for the run log; empty logs to stderr")
	verbose := fs.Bool("verbose", false, "Log per-line detail")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := defaultConfig()
	if *configPath != "" {
		loaded, err := loadConfig(*configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	// Only flags the user actually set override the config file.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "output":
			cfg.Output = *output
		case "field":
			cfg.Fields = append([]string(nil), fields...)
		case "no-defaults":
			cfg.NoDefaults = *noDefaults
		case "no-time-columns":
			cfg.NoTimeColumns = *noTimeColumns
		case "dedupe":
			cfg.Dedupe = *dedupe
		case "dedupe-expected":
			cfg.DedupeExpected = *dedupeExpected
		case "publish-mq":
			cfg.PublishMQ = *publishMQ
		case "mq-host":
			cfg.MQHost = *mqHost
		case "mq-port":
			cfg.MQPort = *mqPort
		case "mq-user":
			cfg.MQUser = *mqUser
		case "mq-password":
			cfg.MQPassword = *mqPassword
		case "mq-queue":
			cfg.MQQueue = *mqQueue
		case "log-dir":
			cfg.LogDir = *logDir
		case "verbose":
			cfg.Verbose = *verbose
		}
	})

	cfg.InputFiles = fs.Args()
	return cfg, nil
}

// validateConfig rejects settings no run could make sense of.
func validateConfig(cfg *Config) error {
	if len(cfg.InputFiles) == 0 {
		return fmt.Errorf("no input files given")
	}
	if cfg.Output == "" {
		return fmt.Errorf("output path cannot be empty")
	}
	if cfg.NoDefaults && len(cfg.Fields) == 0 {
		return fmt.Errorf("no fields to extract: no_defaults is set and no fields were given")
	}
	if cfg.PublishMQ {
		if cfg.MQHost == "" {
			return fmt.Errorf("publish_mq is set but mq_host is empty")
		}
		if cfg.MQPort <= 0 || cfg.MQPort > 65535 {
			return fmt.Errorf("publish_mq is set but mq_port %d is not a valid port", cfg.MQPort)
		}
		if cfg.MQQueue == "" {
			return fmt.Errorf("publish_mq is set but mq_queue is empty")
		}
	}
	return nil
}

// EffectiveFieldSpecs returns the field list a run will extract: the
// built-in tweet fields unless no_defaults suppresses them, followed by
// any fields asked for explicitly.
func (c *Config) EffectiveFieldSpecs() []string {
	var specs []string
	if !c.NoDefaults {
		specs = tweets.DefaultFieldSpecs()
	}
	return append(specs, c.Fields...)
}

// MQConfig assembles the RabbitMQ connection settings for a publishing
// run.
func (c *Config) MQConfig() RabbitMQConfig {
	return RabbitMQConfig{
		Host:     c.MQHost,
		Port:     c.MQPort,
		Username: c.MQUser,
		Password: c.MQPassword,
		Queue:    c.MQQueue,
	}
}
