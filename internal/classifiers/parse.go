package classifiers

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"
)

var jsonBlockRegex = regexp.MustCompile(`(?s)` + "```" + `(?:json)?\s*\n?(.*?)\n?` + "```")

// Choice is a vision model's pick from a numbered prompt list.
type Choice struct {
	Index      int     `json:"index"`
	Confidence float64 `json:"confidence"`
}

// ParseChoice parses a model response into a Choice. It first attempts direct
// JSON unmarshaling, then falls back to a markdown code block. Index is
// 1-based and must fall within [1, n]; confidence is clamped to [0, 1].
func ParseChoice(content string, n int) (Choice, error) {
	var choice Choice

	content = strings.TrimSpace(content)
	if err := json.Unmarshal([]byte(content), &choice); err == nil {
		return validateChoice(choice, n)
	}

	matches := jsonBlockRegex.FindStringSubmatch(content)
	if len(matches) >= 2 {
		cleaned := strings.TrimSpace(matches[1])
		if err := json.Unmarshal([]byte(cleaned), &choice); err == nil {
			return validateChoice(choice, n)
		}
	}

	return Choice{}, fmt.Errorf("%w: could not parse JSON from response", ErrParseResponse)
}

func validateChoice(c Choice, n int) (Choice, error) {
	if c.Index < 1 || c.Index > n {
		return Choice{}, fmt.Errorf("%w: %d not in 1..%d", ErrInvalidIndex, c.Index, n)
	}
	c.Confidence = math.Max(0.0, math.Min(1.0, c.Confidence))
	return c, nil
}
