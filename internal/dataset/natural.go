package dataset

import "strings"

// NaturalLess orders file names so that digit runs compare numerically and
// text runs compare case-insensitively: "img2" sorts before "img10".
func NaturalLess(a, b string) bool {
	return naturalCompare(a, b) < 0
}

func naturalCompare(a, b string) int {
	for a != "" && b != "" {
		ca, ra := nextChunk(a)
		cb, rb := nextChunk(b)

		if c := compareChunk(ca, cb); c != 0 {
			return c
		}
		a, b = ra, rb
	}

	switch {
	case a == "" && b == "":
		return 0
	case a == "":
		return -1
	default:
		return 1
	}
}

// nextChunk splits off the leading run of either digits or non-digits.
func nextChunk(s string) (string, string) {
	digit := isDigit(s[0])
	i := 1
	for i < len(s) && isDigit(s[i]) == digit {
		i++
	}
	return s[:i], s[i:]
}

func compareChunk(a, b string) int {
	da, db := isDigit(a[0]), isDigit(b[0])

	switch {
	case da && db:
		return compareDigits(a, b)
	case da:
		// digit runs sort before text runs
		return -1
	case db:
		return 1
	default:
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	}
}

// compareDigits compares digit runs by value without overflow.
func compareDigits(a, b string) int {
	ta := strings.TrimLeft(a, "0")
	tb := strings.TrimLeft(b, "0")

	if len(ta) != len(tb) {
		if len(ta) < len(tb) {
			return -1
		}
		return 1
	}
	return strings.Compare(ta, tb)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
