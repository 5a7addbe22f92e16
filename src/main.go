package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"json2csv/src/extract"
	"json2csv/src/filter"
	"json2csv/src/input"
	"json2csv/src/tweets"
	"log/slog"
)

// runStats tracks what a whole run did across its input files.
type runStats struct {
	Files      int
	Records    int
	Skipped    int
	Duplicates int
}

func main() {
	cfg, err := parseCommandLine(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(2)
	}
	if err := validateConfig(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}

	// Set up slog to write to a file in log_dir, or stderr without one
	logger, logFile, err := setupLogger(cfg.LogDir, cfg.Verbose)
	if err != nil {
		log.Fatalf("Failed to set up logger: %v", err)
	}
	if logFile != nil {
		defer logFile.Close()
	}
	slog.SetDefault(logger)

	if err := run(cfg); err != nil {
		slog.Error("Extraction failed", "error", err)
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

// run drives one extraction: parse the field paths, open the output,
// then walk every input file line by line.
func run(cfg *Config) error {
	paths, err := extract.ParseFieldPaths(cfg.EffectiveFieldSpecs())
	if err != nil {
		return err
	}
	createdPath, err := extract.ParseFieldPath(tweets.CreatedAtField)
	if err != nil {
		return err
	}
	projector := extract.NewProjector(paths, createdPath, !cfg.NoTimeColumns)

	var dupes filter.DuplicateFilter
	if cfg.Dedupe {
		if cfg.DedupeExpected > 0 {
			dupes = filter.NewBloomFilter(cfg.DedupeExpected)
		} else {
			dupes = filter.NewExactFilter()
		}
	}

	// Refuse to clobber results from an earlier run.
	if _, err := os.Stat(cfg.Output); err == nil {
		return fmt.Errorf("output file %s already exists; refusing to overwrite", cfg.Output)
	}

	var publisher *RowPublisher
	if cfg.PublishMQ {
		publisher, err = NewRowPublisher(cfg.MQConfig())
		if err != nil {
			return err
		}
		defer publisher.Close()
		slog.Info("Publishing rows to RabbitMQ", "host", cfg.MQHost, "queue", cfg.MQQueue)
	}

	outFile, err := os.Create(cfg.Output)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	// A failed run removes its partial output; the overwrite guard only
	// ever protects a finished file.
	completed := false
	defer func() {
		outFile.Close()
		if !completed {
			os.Remove(cfg.Output)
		}
	}()

	writer := newRowWriter(outFile)
	if err := writer.WriteHeader(projector.Header()); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	stats := &runStats{}
	for i, path := range cfg.InputFiles {
		slog.Info("Interrogating file", "file", path, "index", i+1, "total", len(cfg.InputFiles))
		if err := processFile(path, projector, dupes, publisher, writer, stats); err != nil {
			return err
		}
		stats.Files++
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}
	completed = true

	slog.Info("Extraction complete",
		"files", stats.Files,
		"records", stats.Records,
		"skipped_lines", stats.Skipped,
		"duplicates", stats.Duplicates,
		"output", cfg.Output)
	if publisher != nil {
		slog.Info("Finished publishing", "queue", cfg.MQQueue, "rows", publisher.Sent())
	}
	return nil
}

// processFile converts one input file. Blank lines are skipped
// silently; lines that do not parse as a tweet object, and lines too
// long to read at all, are counted and skipped with a warning so one
// corrupt line cannot sink a whole run.
func processFile(path string, projector *extract.Projector, dupes filter.DuplicateFilter, publisher *RowPublisher, writer *rowWriter, stats *runStats) error {
	rc, err := input.Open(path)
	if err != nil {
		return err
	}
	defer rc.Close()

	reader := input.NewLineReader(rc)
	lineNum := 0
	for {
		rawLine, err := reader.ReadLine()
		if errors.Is(err, io.EOF) {
			return nil
		}
		lineNum++
		if errors.Is(err, input.ErrLineTooLong) {
			stats.Skipped++
			slog.Warn("Skipping line", "file", path, "line", lineNum, "error", err)
			continue
		}
		if err != nil {
			return fmt.Errorf("failed reading %s near line %d: %w", path, lineNum, err)
		}

		line := bytes.TrimSpace(rawLine)
		if len(line) == 0 {
			continue
		}

		record, err := tweets.ParseRecord(line)
		if err != nil {
			stats.Skipped++
			slog.Warn("Skipping line", "file", path, "line", lineNum, "error", err)
			continue
		}

		if dupes != nil {
			if id, ok := record.DedupeKey(); ok && dupes.Seen(id) {
				stats.Duplicates++
				slog.Debug("Dropping duplicate tweet", "file", path, "line", lineNum, "id", id)
				continue
			}
		}

		row := joinRow(projector.Project(record))
		if err := writer.WriteLine(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
		if publisher != nil {
			if err := publisher.Publish(row); err != nil {
				return err
			}
		}
		stats.Records++
	}
}

// setupLogger builds the run logger. With a log directory the log goes
// to json2csv.log inside it; otherwise messages go to stderr. The
// returned file is nil for the stderr case.
func setupLogger(logDir string, verbose bool) (*slog.Logger, *os.File, error) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	if logDir == "" {
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil, nil
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, nil, err
	}
	logPath := filepath.Join(logDir, "json2csv.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, err
	}
	return slog.New(slog.NewTextHandler(logFile, opts)), logFile, nil
}
