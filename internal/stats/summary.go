package stats

// FailedBucket labels predictions that never happened in a distribution.
const FailedBucket = "classification failed"

// Bucket counts how often one class name was predicted for a ground-truth class.
type Bucket struct {
	Class      string  `json:"class"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
	Match      bool    `json:"match"`
}

// ClassSummary aggregates the records of a single ground-truth class.
// Accuracy is a percentage; AvgConfidence is in [0,1].
type ClassSummary struct {
	Class         string   `json:"class"`
	Total         int      `json:"total"`
	Correct       int      `json:"correct"`
	Accuracy      float64  `json:"accuracy"`
	AvgConfidence float64  `json:"avg_confidence"`
	Distribution  []Bucket `json:"distribution"`
}

// RunSummary aggregates every record of a run. Classes keep first-seen order.
type RunSummary struct {
	TotalFiles           int            `json:"total_files"`
	TotalCorrect         int            `json:"total_correct"`
	OverallAccuracy      float64        `json:"overall_accuracy"`
	OverallAvgConfidence float64        `json:"overall_avg_confidence"`
	Classes              []ClassSummary `json:"classes"`
}

// Class returns the summary for a ground-truth class.
func (s RunSummary) Class(name string) (ClassSummary, bool) {
	for _, c := range s.Classes {
		if c.Class == name {
			return c, true
		}
	}
	return ClassSummary{}, false
}

// ByClass indexes class summaries by ground-truth class name.
func (s RunSummary) ByClass() map[string]ClassSummary {
	m := make(map[string]ClassSummary, len(s.Classes))
	for _, c := range s.Classes {
		m[c.Class] = c
	}
	return m
}

func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

func mean(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
