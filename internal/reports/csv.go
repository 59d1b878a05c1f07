package reports

import (
	"bytes"
	"encoding/csv"
	"strconv"
)

func renderRecords(res Results) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	w.Write([]string{"class", "file", "predicted_label", "predicted_class", "confidence", "result"})

	for _, cs := range res.Summary.Classes {
		for _, r := range res.Records[cs.Class] {
			w.Write([]string{
				cs.Class,
				r.File,
				orFailed(r.PredictedPrompt),
				orFailed(r.PredictedClass),
				strconv.FormatFloat(r.Confidence, 'f', -1, 64),
				correctness(r.Correct),
			})
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

func renderSummary(res Results) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	w.Write([]string{"class", "total_images", "correct", "accuracy_pct", "avg_confidence"})

	for _, cs := range res.Summary.Classes {
		w.Write([]string{
			cs.Class,
			strconv.Itoa(cs.Total),
			strconv.Itoa(cs.Correct),
			pct(cs.Accuracy),
			conf(cs.AvgConfidence),
		})
	}

	s := res.Summary
	w.Write([]string{})
	w.Write([]string{
		"overall",
		strconv.Itoa(s.TotalFiles),
		strconv.Itoa(s.TotalCorrect),
		pct(s.OverallAccuracy),
		conf(s.OverallAvgConfidence),
	})

	w.Flush()
	return buf.Bytes(), w.Error()
}

func orFailed(s *string) string {
	if s == nil {
		return failedValue
	}
	return *s
}

func correctness(ok bool) string {
	if ok {
		return "correct"
	}
	return "incorrect"
}
