// Package classify maps images through a zero-shot classifier into evaluated
// records. Processing is sequential and in input order; a failure on one image
// is recorded and never aborts the batch.
package classify

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/JaimeStill/pest-lab/internal/prompts"
)

// Engine runs images against a fixed prompt catalog.
type Engine struct {
	catalog    *prompts.Catalog
	prompts    []string
	normalizer prompts.Normalizer
	classifier Classifier
	logger     *slog.Logger
}

// NewEngine creates an engine over catalog. The prompt list handed to the
// classifier is fixed at construction.
func NewEngine(catalog *prompts.Catalog, classifier Classifier, logger *slog.Logger) (*Engine, error) {
	if catalog == nil {
		return nil, fmt.Errorf("%w: catalog required", prompts.ErrEmptyCatalog)
	}
	if classifier == nil {
		return nil, ErrNoClassifier
	}

	return &Engine{
		catalog:    catalog,
		prompts:    catalog.Prompts(),
		normalizer: catalog.Normalizer(),
		classifier: classifier,
		logger:     logger.With("system", "classify"),
	}, nil
}

// Classify runs the classifier on img. Classifier errors and malformed output
// become a failed Outcome wrapping ErrClassification.
func (e *Engine) Classify(ctx context.Context, img Image) Outcome {
	pred, err := e.classifier.Classify(ctx, img, e.prompts)
	if err != nil {
		e.logger.Warn("image classification failed", "image", img.ID(), "error", err)
		return Outcome{Err: fmt.Errorf("%w: %s: %w", ErrClassification, img.ID(), err)}
	}

	if err := e.validate(pred); err != nil {
		e.logger.Warn("image classification failed", "image", img.ID(), "error", err)
		return Outcome{Err: fmt.Errorf("%w: %s: %w", ErrClassification, img.ID(), err)}
	}

	return Outcome{Prediction: pred}
}

// Evaluate classifies a single item and judges it against its known class.
func (e *Engine) Evaluate(ctx context.Context, item Item) Record {
	rec := Record{
		Class: item.Class,
		File:  item.FileID,
	}

	outcome := e.Classify(ctx, item.Image)
	if !outcome.OK() {
		return rec
	}

	prompt := outcome.Prediction.Prompt
	class := e.normalizer.Extract(prompt)

	rec.PredictedPrompt = &prompt
	rec.PredictedClass = &class
	rec.Confidence = outcome.Prediction.Confidence
	rec.Correct = strings.EqualFold(class, item.Class)

	return rec
}

// Process lazily evaluates items in order. The sequence stops early when ctx
// is cancelled; the record in flight at cancellation is dropped.
func (e *Engine) Process(ctx context.Context, items []Item) iter.Seq[Record] {
	return func(yield func(Record) bool) {
		total := len(items)
		for i, item := range items {
			if ctx.Err() != nil {
				return
			}

			start := time.Now()
			rec := e.Evaluate(ctx, item)

			if ctx.Err() != nil {
				return
			}

			e.logRecord(rec, i+1, total, time.Since(start))

			if !yield(rec) {
				return
			}
		}
	}
}

func (e *Engine) validate(pred Prediction) error {
	if !e.catalog.Contains(pred.Prompt) {
		return fmt.Errorf("%w: prompt %q not in catalog", ErrMalformedOutput, pred.Prompt)
	}
	if math.IsNaN(pred.Confidence) || pred.Confidence < 0 || pred.Confidence > 1 {
		return fmt.Errorf("%w: confidence %v outside [0,1]", ErrMalformedOutput, pred.Confidence)
	}
	return nil
}

func (e *Engine) logRecord(rec Record, n, total int, elapsed time.Duration) {
	progress := fmt.Sprintf("%d/%d", n, total)

	if rec.Failed() {
		e.logger.Info("image processed",
			"progress", progress,
			"class", rec.Class,
			"file", rec.File,
			"result", "failed",
		)
		return
	}

	e.logger.Info("image processed",
		"progress", progress,
		"class", rec.Class,
		"file", rec.File,
		"predicted", *rec.PredictedClass,
		"confidence", fmt.Sprintf("%.3f", rec.Confidence),
		"correct", rec.Correct,
		"duration", elapsed.String(),
	)
}

// IsFailure reports whether err is a per-image classification failure.
func IsFailure(err error) bool {
	return errors.Is(err, ErrClassification)
}
