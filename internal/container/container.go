// Package container provides dependency injection for the wire-csv application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"fmt"

	"fjacquet/wire-csv/internal/batch"
	"fjacquet/wire-csv/internal/common"
	"fjacquet/wire-csv/internal/config"
	"fjacquet/wire-csv/internal/converter"
	"fjacquet/wire-csv/internal/fileutils"
	"fjacquet/wire-csv/internal/logging"
	"fjacquet/wire-csv/internal/models"
	"fjacquet/wire-csv/internal/parser"
	"fjacquet/wire-csv/internal/pipeline"
	"fjacquet/wire-csv/internal/report"
	"fjacquet/wire-csv/internal/statementparser"
	"fjacquet/wire-csv/pkg/decomposer"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation; all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger     logging.Logger
	config     *config.Config
	decomposer *decomposer.Decomposer
	reader     parser.FullParser
	converter  *converter.Converter
	runner     *batch.Runner
	reports    *report.Generator
}

// NewContainer creates and wires all application dependencies, building the
// logger from the configuration.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	return NewContainerWithLogger(cfg, logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format))
}

// NewContainerWithLogger is NewContainer with an existing logger.
func NewContainerWithLogger(cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	d := decomposer.Default()
	if cfg.Rules.File != "" {
		if !fileutils.FileExists(cfg.Rules.File) {
			return nil, fmt.Errorf("rules file not found: %s", cfg.Rules.File)
		}
		loaded, err := parser.NewRulesLoader(logger).LoadFile(cfg.Rules.File)
		if err != nil {
			return nil, err
		}
		if err := models.CheckOutputFields(loaded.OutputFields()); err != nil {
			return nil, fmt.Errorf("rules file %s does not match the output columns: %w", cfg.Rules.File, err)
		}
		d = loaded
	}

	reader := statementparser.New(logger,
		statementparser.WithSkipRows(cfg.Statement.SkipRows),
		statementparser.WithDelimiter(cfg.StatementDelimiter()))

	processor := pipeline.NewConcurrentProcessor(logger, d,
		pipeline.WithWorkers(cfg.Processing.Workers),
		pipeline.WithThreshold(cfg.Processing.ConcurrencyThreshold))

	writer := common.NewWriter(logger, cfg.CSVDelimiter())

	conv := converter.New(logger, reader, processor, writer, d.OutputFields(), cfg.Output.Suffix)

	logger.Debug("Container initialized successfully",
		logging.Field{Key: "output_fields", Value: len(d.OutputFields())},
		logging.Field{Key: logging.FieldDelimiter, Value: string(writer.Delimiter())},
		logging.Field{Key: "rules_file", Value: cfg.Rules.File})

	return &Container{
		logger:     logger,
		config:     cfg,
		decomposer: d,
		reader:     reader,
		converter:  conv,
		runner:     batch.NewRunner(logger, conv),
		reports:    report.NewGenerator(logger),
	}, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetDecomposer returns the rule set used for descriptions.
func (c *Container) GetDecomposer() *decomposer.Decomposer {
	return c.decomposer
}

// GetReader returns the statement reader.
func (c *Container) GetReader() parser.FullParser {
	return c.reader
}

// GetConverter returns the single-file converter.
func (c *Container) GetConverter() *converter.Converter {
	return c.converter
}

// GetBatchRunner returns the directory converter.
func (c *Container) GetBatchRunner() *batch.Runner {
	return c.runner
}

// GetReportGenerator returns the coverage report generator.
func (c *Container) GetReportGenerator() *report.Generator {
	return c.reports
}

// Close performs cleanup of container resources.
func (c *Container) Close() error {
	c.logger.Debug("Container closed")
	return nil
}
