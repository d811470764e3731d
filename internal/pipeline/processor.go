// Package pipeline turns statement rows into structured records.
package pipeline

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"fjacquet/wire-csv/internal/logging"
	"fjacquet/wire-csv/internal/models"
	"fjacquet/wire-csv/internal/parsererror"
	"fjacquet/wire-csv/pkg/decomposer"
)

// DefaultConcurrencyThreshold is the row count from which workers are used.
const DefaultConcurrencyThreshold = 100

// Decomposer splits a description into fields.
type Decomposer interface {
	Decompose(description any) (decomposer.Fields, error)
	Absent() decomposer.Fields
}

// Result holds the records of one run, in input order.
type Result struct {
	Records []models.Record
	// Invalid counts rows whose description could not be decomposed.
	Invalid int
	// Issues counts date and amount values that could not be coerced.
	Issues int
}

// ConcurrentProcessor handles parallel processing of statement rows
type ConcurrentProcessor struct {
	logger      logging.Logger
	decomposer  Decomposer
	workerCount int
	threshold   int
}

// Option configures a ConcurrentProcessor.
type Option func(*ConcurrentProcessor)

// WithWorkers sets the worker count. Values below 1 mean runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(cp *ConcurrentProcessor) {
		if n > 0 {
			cp.workerCount = n
		}
	}
}

// WithThreshold sets the row count from which workers are used.
func WithThreshold(n int) Option {
	return func(cp *ConcurrentProcessor) {
		if n > 0 {
			cp.threshold = n
		}
	}
}

// NewConcurrentProcessor creates a new concurrent processor. A nil decomposer
// uses the default rule set.
func NewConcurrentProcessor(logger logging.Logger, d Decomposer, opts ...Option) *ConcurrentProcessor {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	if d == nil {
		d = decomposer.Default()
	}
	cp := &ConcurrentProcessor{
		logger:      logger,
		decomposer:  d,
		workerCount: runtime.NumCPU(),
		threshold:   DefaultConcurrencyThreshold,
	}
	for _, opt := range opts {
		opt(cp)
	}
	return cp
}

// Process builds one record per row. Small inputs are processed
// sequentially, larger ones by a worker pool; the output is identical
// either way.
func (cp *ConcurrentProcessor) Process(ctx context.Context, rows []models.StatementRow) (Result, error) {
	outcomes := make([]outcome, len(rows))

	var err error
	if len(rows) < cp.threshold || cp.workerCount == 1 {
		err = cp.processSequential(ctx, rows, outcomes)
	} else {
		err = cp.processConcurrent(ctx, rows, outcomes)
	}
	if err != nil {
		return Result{}, err
	}

	result := Result{Records: make([]models.Record, len(rows))}
	for i, o := range outcomes {
		result.Records[i] = o.record
		result.Issues += o.issues
		if o.invalid {
			result.Invalid++
		}
	}

	cp.logger.Debug("Row processing completed",
		logging.Field{Key: logging.FieldCount, Value: len(rows)},
		logging.Field{Key: "invalid", Value: result.Invalid},
		logging.Field{Key: "issues", Value: result.Issues})
	return result, nil
}

// outcome is the result of one row, stored at the row's index.
type outcome struct {
	record  models.Record
	issues  int
	invalid bool
}

func (cp *ConcurrentProcessor) processSequential(ctx context.Context, rows []models.StatementRow, outcomes []outcome) error {
	for i := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		outcomes[i] = cp.processRow(rows[i])
	}
	return nil
}

func (cp *ConcurrentProcessor) processConcurrent(ctx context.Context, rows []models.StatementRow, outcomes []outcome) error {
	indexChan := make(chan int, cp.workerCount)

	var wg sync.WaitGroup
	for i := 0; i < cp.workerCount; i++ {
		wg.Add(1)
		go cp.worker(ctx, &wg, indexChan, rows, outcomes)
	}

	go func() {
		defer close(indexChan)
		for i := range rows {
			select {
			case indexChan <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	wg.Wait()
	if err := ctx.Err(); err != nil {
		return err
	}

	cp.logger.Debug("Concurrent processing completed",
		logging.Field{Key: logging.FieldCount, Value: len(rows)},
		logging.Field{Key: logging.FieldWorkers, Value: cp.workerCount})
	return nil
}

// worker processes rows by index. Each index is written by exactly one worker.
func (cp *ConcurrentProcessor) worker(ctx context.Context, wg *sync.WaitGroup, indexChan <-chan int, rows []models.StatementRow, outcomes []outcome) {
	defer wg.Done()

	for {
		select {
		case i, ok := <-indexChan:
			if !ok {
				return
			}
			outcomes[i] = cp.processRow(rows[i])
		case <-ctx.Done():
			return
		}
	}
}

func (cp *ConcurrentProcessor) processRow(row models.StatementRow) outcome {
	builder := models.NewRecordBuilder().FromStatementRow(row)
	var o outcome

	// Statement descriptions are always text, so only a custom Decomposer
	// can fail here.
	fields, err := cp.decomposer.Decompose(row.Description)
	if err != nil {
		o.invalid = true
		if errors.Is(err, parsererror.ErrInvalidInputKind) {
			cp.logger.WithError(err).Warn("Skipping decomposition of row",
				logging.Field{Key: logging.FieldRow, Value: row.Line})
		} else {
			cp.logger.WithError(err).Error("Decomposition failed",
				logging.Field{Key: logging.FieldRow, Value: row.Line})
		}
		builder.WithFields(cp.decomposer.Absent()).WithDecompositionFailure()
	} else {
		builder.WithFields(fields)
	}

	issues := builder.Issues()
	for _, issue := range issues {
		cp.logger.Debug("Value left absent",
			logging.Field{Key: logging.FieldRow, Value: row.Line},
			logging.Field{Key: logging.FieldError, Value: issue})
	}
	o.issues = len(issues)

	o.record = builder.Build()
	return o
}
