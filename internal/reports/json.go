package reports

import (
	"bytes"
	"encoding/json"

	"github.com/JaimeStill/pest-lab/internal/classify"
	"github.com/JaimeStill/pest-lab/internal/stats"
)

type detailedResults struct {
	Summary         detailedSummary      `json:"summary"`
	ClassResults    classResults         `json:"class_results"`
	ClassStatistics []stats.ClassSummary `json:"class_statistics"`
}

type detailedSummary struct {
	TotalFiles           int     `json:"total_files"`
	TotalCorrect         int     `json:"total_correct"`
	OverallAccuracy      float64 `json:"overall_accuracy"`
	OverallAvgConfidence float64 `json:"overall_avg_confidence"`
	Timestamp            string  `json:"timestamp"`
}

type recordEntry struct {
	File           string  `json:"file"`
	PredictedLabel *string `json:"predicted_label"`
	PredictedClass *string `json:"predicted_class"`
	Confidence     float64 `json:"confidence"`
	IsCorrect      bool    `json:"is_correct"`
}

// classResults marshals as a JSON object whose keys keep class order.
type classResults struct {
	order   []string
	records map[string][]classify.Record
}

func (c classResults) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, class := range c.order {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(class)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		recs := c.records[class]
		entries := make([]recordEntry, 0, len(recs))
		for _, r := range recs {
			entries = append(entries, recordEntry{
				File:           r.File,
				PredictedLabel: r.PredictedPrompt,
				PredictedClass: r.PredictedClass,
				Confidence:     r.Confidence,
				IsCorrect:      r.Correct,
			})
		}

		value, err := json.Marshal(entries)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func renderJSON(res Results) ([]byte, error) {
	order := make([]string, 0, len(res.Summary.Classes))
	for _, cs := range res.Summary.Classes {
		order = append(order, cs.Class)
	}

	doc := detailedResults{
		Summary: detailedSummary{
			TotalFiles:           res.Summary.TotalFiles,
			TotalCorrect:         res.Summary.TotalCorrect,
			OverallAccuracy:      res.Summary.OverallAccuracy,
			OverallAvgConfidence: res.Summary.OverallAvgConfidence,
			Timestamp:            res.Timestamp.Format(TimestampLayout),
		},
		ClassResults:    classResults{order: order, records: res.Records},
		ClassStatistics: res.Summary.Classes,
	}

	return json.MarshalIndent(doc, "", "  ")
}
