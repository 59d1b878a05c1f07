package reports

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/JaimeStill/pest-lab/internal/stats"
)

func renderText(res Results) []byte {
	var buf bytes.Buffer
	s := res.Summary

	buf.WriteString("Zero-shot classification summary\n")
	buf.WriteString(strings.Repeat("=", 50) + "\n")
	fmt.Fprintf(&buf, "Run time: %s\n", res.Timestamp.Format(TimestampLayout))
	fmt.Fprintf(&buf, "Overall accuracy: %d/%d (%s%%)\n", s.TotalCorrect, s.TotalFiles, pct(s.OverallAccuracy))
	fmt.Fprintf(&buf, "Overall average confidence: %s\n\n", conf(s.OverallAvgConfidence))

	for _, cs := range s.Classes {
		fmt.Fprintf(&buf, "%s\n", cs.Class)
		fmt.Fprintf(&buf, "   Images: %d\n", cs.Total)
		fmt.Fprintf(&buf, "   Accuracy: %d/%d (%s%%)\n", cs.Correct, cs.Total, pct(cs.Accuracy))
		fmt.Fprintf(&buf, "   Average confidence: %s\n\n", conf(cs.AvgConfidence))
	}

	return buf.Bytes()
}

func renderReadme(res Results) []byte {
	var buf bytes.Buffer
	s := res.Summary

	buf.WriteString("# Zero-shot classification results\n\n")
	fmt.Fprintf(&buf, "**Run time**: %s\n\n", res.Timestamp.Format(TimestampLayout))
	fmt.Fprintf(&buf, "**Overall accuracy**: %d/%d (%s%%)\n", s.TotalCorrect, s.TotalFiles, pct(s.OverallAccuracy))
	fmt.Fprintf(&buf, "**Overall average confidence**: %s\n\n", conf(s.OverallAvgConfidence))

	buf.WriteString("## Files\n\n")
	buf.WriteString("- `detailed_results.json`: every record and per-class statistics\n")
	buf.WriteString("- `individual_results.csv`: one row per classified image\n")
	buf.WriteString("- `summary_statistics.csv`: per-class totals with an overall row\n")
	buf.WriteString("- `results_summary.txt`: plain text summary\n")
	buf.WriteString("- `README.md`: this file\n\n")

	buf.WriteString("## Per-class performance\n\n")
	buf.WriteString("| Class | Images | Correct | Accuracy | Avg confidence |\n")
	buf.WriteString("|-------|--------|---------|----------|----------------|\n")

	for _, cs := range s.Classes {
		fmt.Fprintf(&buf, "| %s | %d | %d | %s%% | %s |\n",
			markdownCell(cs.Class), cs.Total, cs.Correct, pct(cs.Accuracy), conf(cs.AvgConfidence))
	}

	return buf.Bytes()
}

// markdownCell keeps a value inside one table cell.
func markdownCell(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, "|", `\|`)
	return strings.ReplaceAll(v, "\n", " ")
}

// Print writes the console summary: per-class accuracy, the distribution of
// predicted classes, and overall totals.
func Print(w io.Writer, s stats.RunSummary) {
	rule := strings.Repeat("=", 50)

	fmt.Fprintf(w, "\n%s\nPer-class results\n%s\n", rule, rule)

	for _, cs := range s.Classes {
		fmt.Fprintf(w, "\n%s\n", cs.Class)
		fmt.Fprintf(w, "   Images: %d\n", cs.Total)
		fmt.Fprintf(w, "   Accuracy: %d/%d (%s%%)\n", cs.Correct, cs.Total, pct(cs.Accuracy))
		fmt.Fprintln(w, "   Predictions:")

		for _, b := range cs.Distribution {
			mark := "miss"
			if b.Match {
				mark = "hit "
			}
			fmt.Fprintf(w, "     [%s] %s: %d (%s%%)\n", mark, b.Class, b.Count, pct(b.Percentage))
		}

		fmt.Fprintf(w, "   Average confidence: %s\n", conf(cs.AvgConfidence))
	}

	fmt.Fprintf(w, "\n%s\n", rule)
	fmt.Fprintf(w, "Overall accuracy: %d/%d (%s%%)\n", s.TotalCorrect, s.TotalFiles, pct(s.OverallAccuracy))
	fmt.Fprintf(w, "Overall average confidence: %s\n", conf(s.OverallAvgConfidence))
	fmt.Fprintln(w, rule)
}
