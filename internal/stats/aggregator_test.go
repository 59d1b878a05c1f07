package stats_test

import (
	"math"
	"testing"

	"github.com/JaimeStill/pest-lab/internal/classify"
	"github.com/JaimeStill/pest-lab/internal/stats"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func predicted(class, file, predictedClass string, confidence float64, correct bool) classify.Record {
	prompt := "a photo of adult " + predictedClass
	return classify.Record{
		Class:           class,
		File:            file,
		PredictedPrompt: &prompt,
		PredictedClass:  &predictedClass,
		Confidence:      confidence,
		Correct:         correct,
	}
}

func failed(class, file string) classify.Record {
	return classify.Record{Class: class, File: file}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-3
}

func TestSummarize_ClassStatistics(t *testing.T) {
	agg := stats.New()
	agg.Add(predicted("Aphids", "1.jpg", "Aphids", 0.9, true))
	agg.Add(predicted("Aphids", "2.jpg", "Thrips", 0.4, false))
	agg.Add(predicted("Aphids", "3.jpg", "Aphids", 0.7, true))

	summary := agg.Summarize()

	cs, ok := summary.Class("Aphids")
	if !ok {
		t.Fatal("Aphids summary missing")
	}

	if cs.Total != 3 {
		t.Errorf("Total = %d, want 3", cs.Total)
	}
	if cs.Correct != 2 {
		t.Errorf("Correct = %d, want 2", cs.Correct)
	}
	if !approx(cs.Accuracy, 66.667) {
		t.Errorf("Accuracy = %v, want 66.7", cs.Accuracy)
	}
	if !approx(cs.AvgConfidence, 0.667) {
		t.Errorf("AvgConfidence = %v, want 0.667", cs.AvgConfidence)
	}
}

func TestSummarize_OverallConfidenceIsMeanOfRecords(t *testing.T) {
	agg := stats.New()
	agg.Add(predicted("Aphids", "1.jpg", "Aphids", 1.0, true))
	agg.Add(predicted("Thrips", "1.jpg", "Aphids", 0.0, false))
	agg.Add(predicted("Thrips", "2.jpg", "Aphids", 0.0, false))

	summary := agg.Summarize()

	if !approx(summary.OverallAvgConfidence, 0.333) {
		t.Errorf("OverallAvgConfidence = %v, want 0.333 (not mean of means 0.5)", summary.OverallAvgConfidence)
	}
}

func TestSummarize_GlobalTotalsAreSums(t *testing.T) {
	agg := stats.New()
	agg.Add(predicted("Aphids", "1.jpg", "Aphids", 0.8, true))
	agg.Add(failed("Aphids", "2.jpg"))
	agg.Add(predicted("Thrips", "1.jpg", "Thrips", 0.6, true))
	agg.Add(predicted("Mites", "1.jpg", "Thrips", 0.5, false))

	summary := agg.Summarize()

	var total, correct int
	for _, cs := range summary.Classes {
		total += cs.Total
		correct += cs.Correct
	}

	if summary.TotalFiles != total || summary.TotalFiles != 4 {
		t.Errorf("TotalFiles = %d, want %d", summary.TotalFiles, 4)
	}
	if summary.TotalCorrect != correct || summary.TotalCorrect != 2 {
		t.Errorf("TotalCorrect = %d, want 2", summary.TotalCorrect)
	}
	if !approx(summary.OverallAccuracy, 50) {
		t.Errorf("OverallAccuracy = %v, want 50", summary.OverallAccuracy)
	}
	if agg.Len() != 4 {
		t.Errorf("Len() = %d, want 4", agg.Len())
	}
}

func TestSummarize_DistributionOrdering(t *testing.T) {
	agg := stats.New()
	agg.Add(predicted("Aphids", "1", "Thrips", 0.5, false))
	agg.Add(failed("Aphids", "2"))
	agg.Add(predicted("Aphids", "3", "Aphids", 0.9, true))
	agg.Add(predicted("Aphids", "4", "Aphids", 0.9, true))
	agg.Add(failed("Aphids", "5"))

	cs, _ := agg.Summarize().Class("Aphids")

	// Aphids and failures tie at 2; failures were seen first.
	want := []stats.Bucket{
		{Class: stats.FailedBucket, Count: 2, Percentage: 40},
		{Class: "Aphids", Count: 2, Percentage: 40, Match: true},
		{Class: "Thrips", Count: 1, Percentage: 20},
	}

	if diff := cmp.Diff(want, cs.Distribution, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("Distribution mismatch (-want +got):\n%s", diff)
	}
}

func TestSummarize_FailedRecordsCountAsIncorrect(t *testing.T) {
	agg := stats.New()
	agg.Add(failed("Aphids", "1"))

	cs, _ := agg.Summarize().Class("Aphids")

	if cs.Correct != 0 || cs.AvgConfidence != 0 || cs.Accuracy != 0 {
		t.Errorf("failed record summary = %+v, want zero accuracy and confidence", cs)
	}
}

func TestSummarize_Idempotent(t *testing.T) {
	agg := stats.New()
	agg.Add(predicted("Aphids", "1", "Aphids", 0.9, true))
	agg.Add(failed("Thrips", "1"))

	first := agg.Summarize()
	second := agg.Summarize()

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Summarize() not idempotent (-first +second):\n%s", diff)
	}
}

func TestSummarize_EmptyAndRegistered(t *testing.T) {
	agg := stats.New()

	empty := agg.Summarize()
	if empty.TotalFiles != 0 || empty.OverallAccuracy != 0 || empty.OverallAvgConfidence != 0 {
		t.Errorf("empty summary = %+v, want zeros", empty)
	}

	agg.Register("Spider Mites")
	cs, ok := agg.Summarize().Class("Spider Mites")
	if !ok {
		t.Fatal("registered class missing from summary")
	}
	if cs.Total != 0 || cs.Accuracy != 0 || cs.AvgConfidence != 0 {
		t.Errorf("registered class summary = %+v, want zeros", cs)
	}
}

func TestAggregator_ClassOrderAndRecords(t *testing.T) {
	agg := stats.New()
	agg.Add(predicted("Thrips", "1", "Thrips", 0.5, true))
	agg.Add(predicted("Aphids", "1", "Aphids", 0.5, true))
	agg.Add(predicted("Thrips", "2", "Thrips", 0.5, true))

	if diff := cmp.Diff([]string{"Thrips", "Aphids"}, agg.Classes()); diff != "" {
		t.Errorf("Classes() mismatch (-want +got):\n%s", diff)
	}

	recs := agg.Records("Thrips")
	if len(recs) != 2 || recs[0].File != "1" || recs[1].File != "2" {
		t.Errorf("Records(Thrips) = %+v, want files 1 then 2", recs)
	}

	byClass := agg.Summarize().ByClass()
	if byClass["Aphids"].Total != 1 {
		t.Errorf("ByClass()[Aphids].Total = %d, want 1", byClass["Aphids"].Total)
	}
}
