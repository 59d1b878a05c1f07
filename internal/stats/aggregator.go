// Package stats accumulates classification records per ground-truth class and
// derives accuracy and confidence summaries from them.
package stats

import (
	"slices"
	"sort"
	"strings"

	"github.com/JaimeStill/pest-lab/internal/classify"
)

// Aggregator holds records grouped by ground-truth class in arrival order.
// It has a single writer; it is not safe for concurrent use.
type Aggregator struct {
	order   []string
	records map[string][]classify.Record
}

// New creates an empty Aggregator.
func New() *Aggregator {
	return &Aggregator{
		records: make(map[string][]classify.Record),
	}
}

// Register ensures class appears in summaries even if it never receives a record.
func (a *Aggregator) Register(class string) {
	if _, ok := a.records[class]; ok {
		return
	}
	a.order = append(a.order, class)
	a.records[class] = nil
}

// Add appends rec to its ground-truth class sequence.
func (a *Aggregator) Add(rec classify.Record) {
	a.Register(rec.Class)
	a.records[rec.Class] = append(a.records[rec.Class], rec)
}

// Classes returns ground-truth classes in first-seen order.
func (a *Aggregator) Classes() []string {
	return slices.Clone(a.order)
}

// Records returns a copy of the ordered records for class.
func (a *Aggregator) Records(class string) []classify.Record {
	return slices.Clone(a.records[class])
}

// Len returns the total number of records.
func (a *Aggregator) Len() int {
	n := 0
	for _, recs := range a.records {
		n += len(recs)
	}
	return n
}

// Summarize derives the run summary from the accumulated records.
// It does not modify the aggregator.
func (a *Aggregator) Summarize() RunSummary {
	summary := RunSummary{
		Classes: make([]ClassSummary, 0, len(a.order)),
	}

	var confidenceSum float64

	for _, class := range a.order {
		recs := a.records[class]
		cs := summarizeClass(class, recs)

		summary.Classes = append(summary.Classes, cs)
		summary.TotalFiles += cs.Total
		summary.TotalCorrect += cs.Correct

		for _, r := range recs {
			confidenceSum += r.Confidence
		}
	}

	summary.OverallAccuracy = percent(summary.TotalCorrect, summary.TotalFiles)
	summary.OverallAvgConfidence = mean(confidenceSum, summary.TotalFiles)

	return summary
}

func summarizeClass(class string, recs []classify.Record) ClassSummary {
	cs := ClassSummary{
		Class: class,
		Total: len(recs),
	}

	var confidenceSum float64
	counts := make(map[string]int)
	var seen []string

	for _, r := range recs {
		if r.Correct {
			cs.Correct++
		}
		confidenceSum += r.Confidence

		bucket := FailedBucket
		if r.PredictedClass != nil {
			bucket = *r.PredictedClass
		}
		if _, ok := counts[bucket]; !ok {
			seen = append(seen, bucket)
		}
		counts[bucket]++
	}

	cs.Accuracy = percent(cs.Correct, cs.Total)
	cs.AvgConfidence = mean(confidenceSum, cs.Total)

	cs.Distribution = make([]Bucket, 0, len(seen))
	for _, name := range seen {
		cs.Distribution = append(cs.Distribution, Bucket{
			Class:      name,
			Count:      counts[name],
			Percentage: percent(counts[name], cs.Total),
			Match:      name != FailedBucket && strings.EqualFold(name, class),
		})
	}

	sort.SliceStable(cs.Distribution, func(i, j int) bool {
		return cs.Distribution[i].Count > cs.Distribution[j].Count
	})

	return cs
}
